package renderer

import (
	"math"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int     // Total number of pixels rendered
	TotalSamples   int     // Total number of samples taken
	AverageSamples float64 // Average samples per pixel
	MaxSamples     int     // Target samples per pixel
	MinSamples     int     // Minimum samples taken by any pixel
	MaxSamplesUsed int     // Maximum samples taken by any pixel
	MeanVariance   float64 // Mean per-pixel luminance variance of the estimate
}

// PixelStats accumulates the samples of a single pixel
type PixelStats struct {
	ColorAccum       core.Vec3 // Sum of sampled colors
	LuminanceAccum   float64   // Sum of sample luminance
	LuminanceSqAccum float64   // Sum of squared sample luminance
	SampleCount      int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum.AddAssign(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// GetColor returns the arithmetic mean of the samples taken so far
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.ColorAccum.Divide(float64(ps.SampleCount))
}

// Variance returns the luminance variance of the mean estimate
func (ps *PixelStats) Variance() float64 {
	if ps.SampleCount < 2 {
		return 0
	}
	n := float64(ps.SampleCount)
	mean := ps.LuminanceAccum / n
	sampleVariance := math.Max(0, ps.LuminanceSqAccum/n-mean*mean)
	return sampleVariance / n
}

func newRenderStats(pixelCount, targetSamples int) RenderStats {
	return RenderStats{
		TotalPixels: pixelCount,
		MaxSamples:  targetSamples,
		MinSamples:  targetSamples, // Reduced as pixels report in
	}
}

// update records the samples one pixel took during this pass
func (stats *RenderStats) update(samplesUsed int, ps *PixelStats) {
	stats.TotalSamples += samplesUsed
	stats.MinSamples = min(stats.MinSamples, samplesUsed)
	stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, samplesUsed)
	if ps != nil {
		stats.MeanVariance += ps.Variance()
	}
}

func (stats *RenderStats) finalize() {
	if stats.TotalPixels == 0 {
		return
	}
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	stats.MeanVariance /= float64(stats.TotalPixels)
}

// combine folds the stats of a tile into the stats of a pass
func (stats *RenderStats) combine(tile RenderStats) {
	stats.TotalPixels += tile.TotalPixels
	stats.TotalSamples += tile.TotalSamples
	stats.MinSamples = min(stats.MinSamples, tile.MinSamples)
	stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, tile.MaxSamplesUsed)
	stats.MeanVariance += tile.MeanVariance * float64(tile.TotalPixels)
}

// finalizeCombined turns combined tile sums back into averages
func (stats *RenderStats) finalizeCombined() {
	if stats.TotalPixels == 0 {
		return
	}
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	stats.MeanVariance /= float64(stats.TotalPixels)
}
