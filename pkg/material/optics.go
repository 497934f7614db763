package material

import (
	"math"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// Reflect calculates the mirror reflection of v about the unit normal n: v - 2(v·n)n
func Reflect(v, n core.Vec3) core.Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// ReflectFuzzy reflects v about n and perturbs the result by fuzz times a random
// direction. A zero fuzz is a perfect mirror and consumes no samples.
func ReflectFuzzy(v, n core.Vec3, fuzz float64, sampler core.Sampler) core.Vec3 {
	reflected := Reflect(v, n)
	if fuzz == 0 {
		return reflected
	}
	return reflected.Add(core.SampleAngularSphere(sampler.Get2D()).Multiply(fuzz))
}

// Refract bends the unit vector uv through a boundary with unit normal n facing the
// incoming side, using Snell's law with ratio n_incident/n_transmitted.
// It reports false when the discriminant is negative (total internal reflection).
func Refract(uv, n core.Vec3, ratio float64) (core.Vec3, bool) {
	cosTheta := -uv.Dot(n)
	discriminant := 1.0 - ratio*ratio*(1.0-cosTheta*cosTheta)
	if discriminant < 0 {
		return core.Vec3{}, false
	}

	perpendicular := uv.Add(n.Multiply(cosTheta)).Multiply(ratio)
	parallel := n.Multiply(-math.Sqrt(discriminant))
	return perpendicular.Add(parallel), true
}

// Schlick approximates Fresnel reflectance for a dielectric of the given index
func Schlick(cosine, refractiveIndex float64) float64 {
	r0 := (1 - refractiveIndex) / (1 + refractiveIndex)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
