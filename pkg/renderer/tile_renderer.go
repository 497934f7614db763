package renderer

import (
	"image"
	"math/rand"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// TileRenderer tops up the pixels of one image region to a target sample count
type TileRenderer struct {
	raytracer *Raytracer
}

// NewTileRenderer creates a tile renderer that samples through the given raytracer
func NewTileRenderer(raytracer *Raytracer) *TileRenderer {
	return &TileRenderer{raytracer: raytracer}
}

// RenderTileBounds renders pixels within the image-space bounds. Each pixel keeps the
// samples from earlier passes and only the missing ones are taken.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, random *rand.Rand, targetSamples int) RenderStats {
	sampler := core.NewRandomSampler(random)
	stats := newRenderStats(bounds.Dx()*bounds.Dy(), targetSamples)
	height := tr.raytracer.height

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		j := height - 1 - y // Sample rows count up from the bottom of the image
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := &pixelStats[y][x]
			samplesUsed := tr.samplePixel(x, j, ps, sampler, targetSamples)
			stats.update(samplesUsed, ps)
		}
	}

	stats.finalize()
	return stats
}

func (tr *TileRenderer) samplePixel(i, j int, ps *PixelStats, sampler core.Sampler, targetSamples int) int {
	initialSampleCount := ps.SampleCount
	for ps.SampleCount < targetSamples {
		ps.AddSample(tr.raytracer.Sample(i, j, sampler))
	}
	return ps.SampleCount - initialSampleCount
}
