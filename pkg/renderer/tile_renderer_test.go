package renderer

import (
	"image"
	"math/rand"
	"testing"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

func newPixelStats(width, height int) [][]PixelStats {
	stats := make([][]PixelStats, height)
	for y := range stats {
		stats[y] = make([]PixelStats, width)
	}
	return stats
}

func TestTileRenderer_TopsUpToTarget(t *testing.T) {
	scene := newEmptyScene(8, 8, 1, core.Vec3{})
	rt := NewRaytracer(scene, 8, 8)
	counter := &countingIntegrator{color: core.NewVec3(1, 1, 1)}
	rt.SetIntegrator(counter)

	pixelStats := newPixelStats(8, 8)
	bounds := image.Rect(2, 2, 6, 5)
	tr := NewTileRenderer(rt)

	first := tr.RenderTileBounds(bounds, pixelStats, rand.New(rand.NewSource(1)), 3)
	if first.TotalPixels != 12 || first.TotalSamples != 36 {
		t.Errorf("first pass stats = %+v, want 12 pixels and 36 samples", first)
	}

	second := tr.RenderTileBounds(bounds, pixelStats, rand.New(rand.NewSource(1)), 5)
	if second.TotalSamples != 24 || second.MinSamples != 2 || second.MaxSamplesUsed != 2 {
		t.Errorf("second pass stats = %+v, want 2 new samples per pixel", second)
	}
	if got := counter.calls.Load(); got != 60 {
		t.Errorf("integrator calls = %d, want 60", got)
	}

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := 0
			if (image.Point{X: x, Y: y}).In(bounds) {
				want = 5
			}
			if got := pixelStats[y][x].SampleCount; got != want {
				t.Errorf("pixel (%d,%d) has %d samples, want %d", x, y, got, want)
			}
		}
	}
}

func TestTileRenderer_MatchesRenderBounds(t *testing.T) {
	scene := newSphereScene(6, 4, 3)
	bounds := image.Rect(0, 0, 6, 4)

	viaRaytracer := newPixelStats(6, 4)
	NewRaytracer(scene, 6, 4).RenderBounds(bounds, viaRaytracer, rand.New(rand.NewSource(9)))

	viaTile := newPixelStats(6, 4)
	NewTileRenderer(NewRaytracer(scene, 6, 4)).RenderTileBounds(bounds, viaTile, rand.New(rand.NewSource(9)), 3)

	for y := range viaTile {
		for x := range viaTile[y] {
			if viaRaytracer[y][x].GetColor() != viaTile[y][x].GetColor() {
				t.Fatalf("pixel (%d,%d) differs", x, y)
			}
		}
	}
}
