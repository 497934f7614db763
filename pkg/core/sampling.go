package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// SampleAngularSphere returns a unit vector with phi ~ U(0,π) and theta ~ U(0,2π).
// Sampling is uniform in angle space, not over the sphere's area: directions
// cluster toward the poles. Diffuse scattering and fuzz rely on this distribution.
func SampleAngularSphere(sample Vec2) Vec3 {
	return FromSpherical(1, math.Pi*sample.X, 2*math.Pi*sample.Y)
}

// SampleOnUnitSphere generates a uniform random direction on the unit sphere
func SampleOnUnitSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X // z ∈ [-1, 1]
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// SampleAngularDisk returns a point in the unit disk with angle ~ U(0,2π) and
// radius ~ U(0,1). Like SampleAngularSphere it is uniform in polar coordinates
// rather than in area, so points concentrate toward the center.
func SampleAngularDisk(sample Vec2) Vec2 {
	angle := 2 * math.Pi * sample.X
	return NewVec2(sample.Y*math.Cos(angle), sample.Y*math.Sin(angle))
}
