package integrator

import (
	"math"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// PathTracingIntegrator follows a single scattered path per camera ray, multiplying
// albedos until the path escapes to the background or the depth budget runs out.
// Cutting paths at MaxDepth biases the estimate toward black; there is no Russian roulette.
type PathTracingIntegrator struct {
	MaxDepth   int
	Background Background
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(maxDepth int, background Background) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		MaxDepth:   maxDepth,
		Background: background,
	}
}

// RayColor computes the color for a single camera ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world World, sampler core.Sampler) core.Vec3 {
	return pt.rayColorRecursive(ray, world, sampler, pt.MaxDepth)
}

func (pt *PathTracingIntegrator) rayColorRecursive(ray core.Ray, world World, sampler core.Sampler, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	hit, isHit := world.Intersect(ray, HitEpsilon, math.Inf(1))
	if !isHit {
		return pt.Background.Evaluate(ray.Direction)
	}

	scattered := world.Scatter(ray, hit, sampler)
	return world.Albedo(hit).MultiplyVec(pt.rayColorRecursive(scattered, world, sampler, depth-1))
}
