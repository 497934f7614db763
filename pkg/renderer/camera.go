package renderer

import (
	"errors"
	"math"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	LookFrom    core.Vec3 // Camera position
	LookAt      core.Vec3 // Point the camera is looking at; also the focal plane
	Up          core.Vec3 // Up direction (usually 0,1,0)
	VFov        float64   // Vertical field of view in degrees
	AspectRatio float64   // Image width / height
	LensRadius  float64   // Thin-lens radius; 0 is a pinhole camera
}

// Validate rejects configurations that would produce a degenerate basis
func (c CameraConfig) Validate() error {
	if c.LookFrom.Subtract(c.LookAt).NearZero() {
		return errors.New("camera look-from and look-at coincide")
	}
	if c.Up.Cross(c.LookFrom.Subtract(c.LookAt)).NearZero() {
		return errors.New("camera up vector is parallel to the view direction")
	}
	if !(c.VFov > 0 && c.VFov < 180) {
		return errors.New("camera vertical field of view must be in (0, 180) degrees")
	}
	if !(c.AspectRatio > 0) {
		return errors.New("camera aspect ratio must be positive")
	}
	if c.LensRadius < 0 {
		return errors.New("camera lens radius must not be negative")
	}
	return nil
}

// MergeCameraConfig overlays the non-zero fields of override onto base
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	zero := core.Vec3{}
	if override.LookFrom != zero {
		result.LookFrom = override.LookFrom
	}
	if override.LookAt != zero {
		result.LookAt = override.LookAt
	}
	if override.Up != zero {
		result.Up = override.Up
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.LensRadius != 0 {
		result.LensRadius = override.LensRadius
	}
	return result
}

// Camera generates rays for rendering. It is immutable once built.
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3 // Orthonormal basis
	lensRadius      float64
	focusDistance   float64
}

// NewCamera creates a camera focused on the look-at point
func NewCamera(config CameraConfig) *Camera {
	toEye := config.LookFrom.Subtract(config.LookAt)
	focusDistance := toEye.Length()

	theta := config.VFov * math.Pi / 180.0
	halfHeight := math.Tan(theta/2) * focusDistance
	halfWidth := config.AspectRatio * halfHeight

	w := toEye.Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	origin := config.LookFrom
	lowerLeftCorner := origin.
		Subtract(u.Multiply(halfWidth)).
		Subtract(v.Multiply(halfHeight)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      u.Multiply(2 * halfWidth),
		vertical:        v.Multiply(2 * halfHeight),
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.LensRadius,
		focusDistance:   focusDistance,
	}
}

// GetRay generates a ray for screen coordinates (s, t) where 0 <= s,t <= 1.
// (0,0) is the lower-left corner of the image plane.
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		// Offset the origin across the lens for depth of field
		disk := core.SampleAngularDisk(sampler.Get2D())
		offset := c.u.Multiply(disk.X).Add(c.v.Multiply(disk.Y)).Multiply(c.lensRadius)
		origin = origin.Add(offset)
	}

	target := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t))

	return core.NewRay(origin, target.Subtract(origin))
}

// Origin returns the lens center
func (c *Camera) Origin() core.Vec3 {
	return c.origin
}

// LowerLeftCorner returns the lower-left corner of the image plane
func (c *Camera) LowerLeftCorner() core.Vec3 {
	return c.lowerLeftCorner
}

// Forward returns the unit viewing direction
func (c *Camera) Forward() core.Vec3 {
	return c.w.Negate()
}

// FocusDistance returns the distance to the focal plane
func (c *Camera) FocusDistance() float64 {
	return c.focusDistance
}
