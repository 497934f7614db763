package renderer

import (
	"image"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

func TestQuantizeChannel(t *testing.T) {
	tests := []struct {
		input float64
		want  uint8
	}{
		{-0.5, 0},
		{0, 0},
		{0.5, 127},
		{0.999, 255},
		{1.0, 255},
		{7.5, 255},
		{math.Inf(1), 255},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		if got := QuantizeChannel(tt.input); got != tt.want {
			t.Errorf("QuantizeChannel(%v) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestToRGB8_Gamma(t *testing.T) {
	tests := []struct {
		name  string
		color core.Vec3
		gamma float64
		want  [3]uint8
	}{
		{"linear", core.NewVec3(0.25, 0.5, 1), 1, [3]uint8{63, 127, 255}},
		{"zero gamma is linear", core.NewVec3(0.25, 0.5, 1), 0, [3]uint8{63, 127, 255}},
		{"gamma 2", core.NewVec3(0.25, 0.0, 4), 2, [3]uint8{127, 0, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToRGB8(tt.color, tt.gamma); got != tt.want {
				t.Errorf("ToRGB8(%v, %v) = %v, want %v", tt.color, tt.gamma, got, tt.want)
			}
		})
	}
}

func TestSampleCoordinates_Jitter(t *testing.T) {
	scene := newEmptyScene(10, 5, 1, core.NewVec3(1, 1, 1))
	sampler := fixedSampler{v1: 0.25, v2: core.NewVec2(0.5, 0.75)}

	independent := NewRaytracer(scene, 10, 5)
	s, tt := independent.SampleCoordinates(3, 2, sampler)
	if math.Abs(s-0.35) > tolerance || math.Abs(tt-0.55) > tolerance {
		t.Errorf("independent jitter = (%f, %f), want (0.35, 0.55)", s, tt)
	}

	scene.config.Jitter = JitterShared
	shared := NewRaytracer(scene, 10, 5)
	s, tt = shared.SampleCoordinates(3, 2, sampler)
	if math.Abs(s-0.325) > tolerance || math.Abs(tt-0.45) > tolerance {
		t.Errorf("shared jitter = (%f, %f), want (0.325, 0.45)", s, tt)
	}
}

func TestSampleCoordinates_StayInsidePixel(t *testing.T) {
	scene := newEmptyScene(8, 4, 1, core.NewVec3(1, 1, 1))
	rt := NewRaytracer(scene, 8, 4)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(7)))

	for i := 0; i < 1000; i++ {
		s, tt := rt.SampleCoordinates(5, 1, sampler)
		if s < 5.0/8 || s >= 6.0/8 || tt < 1.0/4 || tt >= 2.0/4 {
			t.Fatalf("sample (%f, %f) left pixel (5, 1)", s, tt)
		}
	}
}

func TestRenderPass_ConstantBackground(t *testing.T) {
	scene := newEmptyScene(6, 4, 3, core.NewVec3(0.5, 0.25, 1.0))
	rt := NewRaytracer(scene, 6, 4)

	img, stats := rt.RenderPass()

	if img.Bounds() != image.Rect(0, 0, 6, 4) {
		t.Fatalf("bounds = %v, want 6x4", img.Bounds())
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			c := img.RGBAAt(x, y)
			if c.R != 127 || c.G != 63 || c.B != 255 || c.A != 255 {
				t.Fatalf("pixel (%d,%d) = %v, want {127 63 255 255}", x, y, c)
			}
		}
	}
	if stats.TotalPixels != 24 || stats.TotalSamples != 72 || stats.AverageSamples != 3 {
		t.Errorf("stats = %+v, want 24 pixels with 3 samples each", stats)
	}
	if stats.MeanVariance > 1e-12 {
		t.Errorf("constant image variance = %f, want 0", stats.MeanVariance)
	}
}

func TestRenderPass_TakesExactlySamplesPerPixel(t *testing.T) {
	scene := newEmptyScene(3, 2, 5, core.NewVec3(0, 0, 0))
	rt := NewRaytracer(scene, 3, 2)
	counter := &countingIntegrator{color: core.NewVec3(0.5, 0.5, 0.5)}
	rt.SetIntegrator(counter)

	img, _ := rt.RenderPass()

	if got := counter.calls.Load(); got != 30 {
		t.Errorf("integrator called %d times, want 30", got)
	}
	if c := img.RGBAAt(0, 0); c.R != 127 {
		t.Errorf("mean of identical samples = %d, want 127", c.R)
	}
}

func TestRenderPass_TopRowIsSky(t *testing.T) {
	// White above the horizon and black below: image row 0 must be the brightest
	scene := newEmptyScene(4, 8, 4, core.Vec3{})
	scene.background.Top = core.NewVec3(1, 1, 1)
	scene.background.Bottom = core.NewVec3(0, 0, 0)
	rt := NewRaytracer(scene, 4, 8)

	img, _ := rt.RenderPass()

	top := img.RGBAAt(2, 0).R
	bottom := img.RGBAAt(2, 7).R
	if top <= bottom {
		t.Errorf("top row %d should be brighter than bottom row %d", top, bottom)
	}
}

func TestRenderPass_Deterministic(t *testing.T) {
	first, _ := NewRaytracer(newSphereScene(8, 4, 4), 8, 4).RenderPass()
	second, _ := NewRaytracer(newSphereScene(8, 4, 4), 8, 4).RenderPass()

	for i := range first.Pix {
		if first.Pix[i] != second.Pix[i] {
			t.Fatalf("renders differ at byte %d", i)
		}
	}
}

func TestRenderPixel_Mean(t *testing.T) {
	scene := newEmptyScene(1, 1, 4, core.Vec3{})
	rt := NewRaytracer(scene, 1, 1)
	rt.SetIntegrator(&countingIntegrator{color: core.NewVec3(0.2, 0.4, 0.6)})

	got := rt.RenderPixel(0, 0, &countingSampler{})
	if !vecApproxEqual(got, core.NewVec3(0.2, 0.4, 0.6), 1e-12) {
		t.Errorf("RenderPixel = %v, want (0.2,0.4,0.6)", got)
	}
}

func TestMergeSamplingConfig(t *testing.T) {
	base := DefaultSamplingConfig()
	merged := MergeSamplingConfig(base, SamplingConfig{SamplesPerPixel: 7, Jitter: JitterShared})

	if merged.SamplesPerPixel != 7 {
		t.Errorf("SamplesPerPixel = %d, want 7", merged.SamplesPerPixel)
	}
	if merged.Jitter != JitterShared {
		t.Errorf("Jitter = %v, want shared", merged.Jitter)
	}
	if merged.Width != base.Width || merged.MaxDepth != base.MaxDepth || merged.Gamma != base.Gamma {
		t.Errorf("unset fields changed: %+v", merged)
	}
}

func TestMergeSamplingConfig_Jitter(t *testing.T) {
	tests := []struct {
		name     string
		base     JitterMode
		override JitterMode
		want     JitterMode
	}{
		{"unset keeps shared", JitterShared, JitterDefault, JitterShared},
		{"shared back to independent", JitterShared, JitterIndependent, JitterIndependent},
		{"independent to shared", JitterIndependent, JitterShared, JitterShared},
		{"unset keeps independent", JitterIndependent, JitterDefault, JitterIndependent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := DefaultSamplingConfig()
			base.Jitter = tt.base
			if got := MergeSamplingConfig(base, SamplingConfig{Jitter: tt.override}).Jitter; got != tt.want {
				t.Errorf("Jitter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSampleCoordinates_IndependentAfterOverride(t *testing.T) {
	scene := newEmptyScene(4, 4, 1, core.Vec3{})
	scene.config.Jitter = JitterShared
	rt := NewRaytracer(scene, 4, 4)
	rt.MergeSamplingConfig(SamplingConfig{Jitter: JitterIndependent})

	sampler := fixedSampler{v1: 0.5, v2: core.NewVec2(0.25, 0.75)}
	s, tc := rt.SampleCoordinates(0, 0, sampler)
	if math.Abs(s-0.0625) > tolerance || math.Abs(tc-0.1875) > tolerance {
		t.Errorf("SampleCoordinates = (%v, %v), want independent offsets (0.0625, 0.1875)", s, tc)
	}
}

func TestParseJitterMode(t *testing.T) {
	tests := []struct {
		name    string
		want    JitterMode
		wantErr bool
	}{
		{"", JitterDefault, false},
		{"independent", JitterIndependent, false},
		{"Shared", JitterShared, false},
		{" shared ", JitterShared, false},
		{"diagonal", JitterDefault, true},
	}

	for _, tt := range tests {
		got, err := ParseJitterMode(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseJitterMode(%q): error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseJitterMode(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	if JitterDefault.String() != "independent" {
		t.Errorf("JitterDefault.String() = %q, want independent", JitterDefault.String())
	}
}
