package geometry

import (
	"math"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// DiscriminantEpsilon rejects grazing intersections whose discriminant is numerical noise
const DiscriminantEpsilon = 1e-5

// Sphere represents a sphere shape. Inverted spheres report inward-facing normals,
// which turns a sphere nested inside a dielectric one into a hollow shell.
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Inverted bool
	Material MaterialID
}

// NewSphere creates a new sphere. A negative radius is accepted as shorthand for an
// inverted sphere of radius |radius|.
func NewSphere(center core.Vec3, radius float64, material MaterialID) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   math.Abs(radius),
		Inverted: radius < 0,
		Material: material,
	}
}

// NewHollowSphere creates an inverted sphere
func NewHollowSphere(center core.Vec3, radius float64, material MaterialID) *Sphere {
	return &Sphere{Center: center, Radius: radius, Inverted: true, Material: material}
}

// Intersect tests a ray with a unit direction against the sphere.
// The nearest root strictly inside (tMin, tMax) is returned.
func (s *Sphere) Intersect(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// t² + bt + c = 0; the leading coefficient is 1 for a unit direction
	b := 2 * ray.Direction.Dot(oc)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - 4*c
	if discriminant < DiscriminantEpsilon {
		return Hit{}, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-b - sqrtD) / 2
	if root <= tMin || root >= tMax {
		root = (-b + sqrtD) / 2
		if root <= tMin || root >= tMax {
			return Hit{}, false
		}
	}

	return Hit{
		Point:    ray.At(root),
		Distance: root,
		Surface:  NoSurface,
	}, true
}

// Normal returns the unit normal at a point on the sphere, facing inward when inverted
func (s *Sphere) Normal(point core.Vec3) core.Ray {
	direction := point.Subtract(s.Center)
	if s.Inverted {
		direction = direction.Negate()
	}
	return core.NewRay(point, direction)
}

// MaterialID returns the sphere's material handle
func (s *Sphere) MaterialID() MaterialID {
	return s.Material
}
