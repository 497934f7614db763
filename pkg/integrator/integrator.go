package integrator

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
)

// HitEpsilon is the minimum ray parameter accepted for a hit, which keeps scattered
// rays from re-hitting the surface they leave
const HitEpsilon = 0.001

// World is the scene surface an integrator traces against. *geometry.World implements it.
type World interface {
	Intersect(ray core.Ray, tMin, tMax float64) (geometry.Hit, bool)
	Albedo(hit geometry.Hit) core.Vec3
	Scatter(rayIn core.Ray, hit geometry.Hit, sampler core.Sampler) core.Ray
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the linear radiance arriving along a camera ray
	RayColor(ray core.Ray, world World, sampler core.Sampler) core.Vec3
}
