package geometry

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// SurfaceID is a handle to a surface owned by a World
type SurfaceID int

// MaterialID is a handle to a material owned by a World
type MaterialID int

// NoSurface marks a hit that has not been resolved against a World
const NoSurface SurfaceID = -1

// Hit records a ray-surface intersection. It is only valid for the World that produced it.
type Hit struct {
	Point    core.Vec3 // Point of intersection
	Distance float64   // Parameter t along the ray
	Surface  SurfaceID // Struck surface
}

// Intersector is implemented by anything a ray can be tested against
type Intersector interface {
	Intersect(ray core.Ray, tMin, tMax float64) (Hit, bool)
}

// Surface is a shape that can be stored in a World
type Surface interface {
	Intersector
	// Normal returns a ray starting at point along the unit surface normal
	Normal(point core.Vec3) core.Ray
	// MaterialID returns the handle of the surface's material
	MaterialID() MaterialID
}
