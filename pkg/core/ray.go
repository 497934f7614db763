package core

// Ray represents a ray with an origin and a unit-length direction.
// Rays are built with NewRay or NewRayFromSpherical and never modified afterwards.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray, normalizing the direction
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// NewRayFromSpherical creates a ray whose direction is given by spherical angles.
// The direction is unit length by construction so no normalization is applied.
func NewRayFromSpherical(origin Vec3, phi, theta float64) Ray {
	return Ray{Origin: origin, Direction: FromSpherical(1, phi, theta)}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}
