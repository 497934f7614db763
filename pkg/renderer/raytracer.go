package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"
	"strings"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
)

// JitterMode selects how sub-pixel offsets are drawn
type JitterMode int

const (
	// JitterDefault leaves the mode unset; it samples like JitterIndependent and is
	// replaced by any explicit mode in MergeSamplingConfig
	JitterDefault JitterMode = iota
	// JitterIndependent draws separate offsets for the column and the row
	JitterIndependent
	// JitterShared reuses one offset for both axes, as early versions of the renderer did.
	// Samples then lie on the pixel diagonal.
	JitterShared
)

// String returns the flag name of the mode
func (m JitterMode) String() string {
	if m == JitterShared {
		return "shared"
	}
	return "independent"
}

// ParseJitterMode converts a flag or scene-file name into a JitterMode.
// An empty name yields JitterDefault.
func ParseJitterMode(name string) (JitterMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return JitterDefault, nil
	case "independent":
		return JitterIndependent, nil
	case "shared":
		return JitterShared, nil
	}
	return JitterDefault, fmt.Errorf("unknown jitter mode %q (want independent or shared)", name)
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int        // Image width
	Height          int        // Image height
	SamplesPerPixel int        // Number of rays per pixel
	MaxDepth        int        // Maximum ray bounce depth
	Jitter          JitterMode // Sub-pixel jitter strategy
	Gamma           float64    // Output gamma; 0 or 1 writes linear values
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          200,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Jitter:          JitterIndependent,
		Gamma:           1.0,
	}
}

// Scene is what the renderer needs from a scene
type Scene interface {
	GetCamera() *Camera
	GetWorld() integrator.World
	GetBackground() integrator.Background
	GetSamplingConfig() SamplingConfig
}

// Raytracer handles the rendering process
type Raytracer struct {
	scene      Scene
	width      int
	height     int
	config     SamplingConfig
	integrator integrator.Integrator
	random     *rand.Rand
}

// NewRaytracer creates a new raytracer using the scene's sampling configuration
func NewRaytracer(scene Scene, width, height int) *Raytracer {
	config := scene.GetSamplingConfig()
	return &Raytracer{
		scene:      scene,
		width:      width,
		height:     height,
		config:     config,
		integrator: integrator.NewPathTracingIntegrator(config.MaxDepth, scene.GetBackground()),
		random:     rand.New(rand.NewSource(42)), // Deterministic for testing
	}
}

// SetSamplingConfig updates the sampling configuration. A path tracing integrator picks up
// the new depth limit; a custom integrator is left alone.
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	if pt, ok := rt.integrator.(*integrator.PathTracingIntegrator); ok && pt.MaxDepth != config.MaxDepth {
		rt.integrator = integrator.NewPathTracingIntegrator(config.MaxDepth, pt.Background)
	}
	rt.config = config
}

// MergeSamplingConfig overlays the non-zero fields of updates onto the current configuration
func (rt *Raytracer) MergeSamplingConfig(updates SamplingConfig) {
	rt.SetSamplingConfig(MergeSamplingConfig(rt.config, updates))
}

// SetIntegrator replaces the light transport algorithm
func (rt *Raytracer) SetIntegrator(integratorInst integrator.Integrator) {
	rt.integrator = integratorInst
}

// MergeSamplingConfig overlays the non-zero fields of updates onto base
func MergeSamplingConfig(base, updates SamplingConfig) SamplingConfig {
	result := base
	if updates.Width != 0 {
		result.Width = updates.Width
	}
	if updates.Height != 0 {
		result.Height = updates.Height
	}
	if updates.SamplesPerPixel != 0 {
		result.SamplesPerPixel = updates.SamplesPerPixel
	}
	if updates.MaxDepth != 0 {
		result.MaxDepth = updates.MaxDepth
	}
	if updates.Jitter != JitterDefault {
		result.Jitter = updates.Jitter
	}
	if updates.Gamma != 0 {
		result.Gamma = updates.Gamma
	}
	return result
}

// SampleCoordinates returns the jittered screen coordinates for pixel column i and
// row j, where row 0 is the bottom of the image
func (rt *Raytracer) SampleCoordinates(i, j int, sampler core.Sampler) (s, t float64) {
	var dx, dy float64
	if rt.config.Jitter == JitterShared {
		dx = sampler.Get1D()
		dy = dx
	} else {
		offset := sampler.Get2D()
		dx, dy = offset.X, offset.Y
	}
	s = (float64(i) + dx) / float64(rt.width)
	t = (float64(j) + dy) / float64(rt.height)
	return s, t
}

// Sample traces a single jittered camera ray through pixel (i, j)
func (rt *Raytracer) Sample(i, j int, sampler core.Sampler) core.Vec3 {
	s, t := rt.SampleCoordinates(i, j, sampler)
	ray := rt.scene.GetCamera().GetRay(s, t, sampler)
	return rt.integrator.RayColor(ray, rt.scene.GetWorld(), sampler)
}

// RenderPixel averages SamplesPerPixel samples for pixel (i, j)
func (rt *Raytracer) RenderPixel(i, j int, sampler core.Sampler) core.Vec3 {
	var ps PixelStats
	for ps.SampleCount < rt.config.SamplesPerPixel {
		ps.AddSample(rt.Sample(i, j, sampler))
	}
	return ps.GetColor()
}

// RenderBounds renders the image-space bounds into the shared pixel stats array, topping
// every pixel up to SamplesPerPixel
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, pixelStats [][]PixelStats, random *rand.Rand) RenderStats {
	return NewTileRenderer(rt).RenderTileBounds(bounds, pixelStats, random, rt.config.SamplesPerPixel)
}

// RenderPass renders the whole image on the calling goroutine and returns it with stats
func (rt *Raytracer) RenderPass() (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	sampler := core.NewRandomSampler(rt.random)
	stats := newRenderStats(rt.width*rt.height, rt.config.SamplesPerPixel)

	for j := rt.height - 1; j >= 0; j-- {
		for i := 0; i < rt.width; i++ {
			var ps PixelStats
			for ps.SampleCount < rt.config.SamplesPerPixel {
				ps.AddSample(rt.Sample(i, j, sampler))
			}
			img.SetRGBA(i, rt.height-1-j, rt.vec3ToColor(ps.GetColor()))
			stats.update(ps.SampleCount, &ps)
		}
	}

	stats.finalize()
	return img, stats
}

// vec3ToColor converts a linear color to RGBA using the configured gamma
func (rt *Raytracer) vec3ToColor(colorVec core.Vec3) color.RGBA {
	return ToRGBA(colorVec, rt.config.Gamma)
}

// QuantizeChannel maps a linear channel value to 8 bits. The value is clamped to
// [0, 0.999] first so out-of-range radiance cannot wrap around.
func QuantizeChannel(value float64) uint8 {
	if math.IsNaN(value) {
		value = 0
	}
	value = max(0.0, min(0.999, value))
	return uint8(math.Floor(255.99 * value))
}

// ToRGB8 converts a linear color to 8-bit channels, gamma-correcting when gamma > 0 and != 1
func ToRGB8(colorVec core.Vec3, gamma float64) [3]uint8 {
	colorVec = colorVec.Clamp(0.0, 1.0)
	if gamma > 0 && gamma != 1 {
		colorVec = colorVec.GammaCorrect(gamma)
	}
	return [3]uint8{
		QuantizeChannel(colorVec.X),
		QuantizeChannel(colorVec.Y),
		QuantizeChannel(colorVec.Z),
	}
}

// ToRGBA converts a linear color to an opaque RGBA pixel
func ToRGBA(colorVec core.Vec3, gamma float64) color.RGBA {
	c := ToRGB8(colorVec, gamma)
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}
}
