package renderer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

const tolerance = 1e-9

func vecApproxEqual(a, b core.Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

func TestCamera_PinholeRays(t *testing.T) {
	camera := newTestCamera(2.0)

	if !vecApproxEqual(camera.LowerLeftCorner(), core.NewVec3(-2, -1, -1), tolerance) {
		t.Errorf("lower-left corner = %v, want (-2,-1,-1)", camera.LowerLeftCorner())
	}

	tests := []struct {
		name string
		s, t float64
		want core.Vec3
	}{
		{"center", 0.5, 0.5, core.NewVec3(0, 0, -1)},
		{"lower left", 0, 0, core.NewVec3(-2, -1, -1).Normalize()},
		{"upper right", 1, 1, core.NewVec3(2, 1, -1).Normalize()},
		{"right edge middle", 1, 0.5, core.NewVec3(2, 0, -1).Normalize()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sampler := &countingSampler{}
			ray := camera.GetRay(tt.s, tt.t, sampler)
			if !vecApproxEqual(ray.Origin, core.Vec3{}, tolerance) {
				t.Errorf("origin = %v, want zero", ray.Origin)
			}
			if !vecApproxEqual(ray.Direction, tt.want, tolerance) {
				t.Errorf("direction = %v, want %v", ray.Direction, tt.want)
			}
			if sampler.draws != 0 {
				t.Errorf("pinhole camera drew %d samples, want 0", sampler.draws)
			}
		})
	}
}

func TestCamera_Basis(t *testing.T) {
	camera := NewCamera(CameraConfig{
		LookFrom:    core.NewVec3(3, 3, 2),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        20,
		AspectRatio: 2,
	})

	if got, want := camera.FocusDistance(), math.Sqrt(27); math.Abs(got-want) > tolerance {
		t.Errorf("focus distance = %f, want %f", got, want)
	}
	if got, want := camera.Forward(), core.NewVec3(-3, -3, -3).Normalize(); !vecApproxEqual(got, want, tolerance) {
		t.Errorf("forward = %v, want %v", got, want)
	}

	// The center ray points straight at the look-at point
	ray := camera.GetRay(0.5, 0.5, &countingSampler{})
	if !vecApproxEqual(ray.Direction, camera.Forward(), 1e-9) {
		t.Errorf("center ray direction = %v, want %v", ray.Direction, camera.Forward())
	}
}

func TestCamera_ThinLensFocusesOnFocalPlane(t *testing.T) {
	const lensRadius = 0.5
	config := CameraConfig{
		LookFrom:    core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -4),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 1.5,
		LensRadius:  lensRadius,
	}
	camera := NewCamera(config)
	pinhole := NewCamera(CameraConfig{
		LookFrom:    config.LookFrom,
		LookAt:      config.LookAt,
		Up:          config.Up,
		VFov:        config.VFov,
		AspectRatio: config.AspectRatio,
	})
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	for i := 0; i < 200; i++ {
		s, tt := sampler.Get1D(), sampler.Get1D()
		ray := camera.GetRay(s, tt, sampler)

		offset := ray.Origin.Subtract(config.LookFrom)
		if offset.Length() > lensRadius+tolerance {
			t.Fatalf("lens offset %v exceeds radius %f", offset, lensRadius)
		}
		if math.Abs(offset.Z) > tolerance {
			t.Fatalf("lens offset %v leaves the lens plane", offset)
		}

		// Every lens sample for (s, t) must pass through the pinhole's focal plane point
		reference := pinhole.GetRay(s, tt, sampler)
		target := reference.At(4 / -reference.Direction.Z)
		toTarget := target.Subtract(ray.Origin).Normalize()
		if !vecApproxEqual(toTarget, ray.Direction, 1e-9) {
			t.Fatalf("ray %v misses focal point %v", ray, target)
		}
	}
}

func TestCameraConfig_Validate(t *testing.T) {
	valid := CameraConfig{
		LookFrom:    core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: 2,
	}

	tests := []struct {
		name    string
		modify  func(c *CameraConfig)
		wantErr bool
	}{
		{"valid", func(c *CameraConfig) {}, false},
		{"coincident eye and target", func(c *CameraConfig) { c.LookAt = c.LookFrom }, true},
		{"up parallel to view", func(c *CameraConfig) { c.Up = core.NewVec3(0, 0, 1) }, true},
		{"zero fov", func(c *CameraConfig) { c.VFov = 0 }, true},
		{"straight fov", func(c *CameraConfig) { c.VFov = 180 }, true},
		{"negative aspect", func(c *CameraConfig) { c.AspectRatio = -1 }, true},
		{"negative lens", func(c *CameraConfig) { c.LensRadius = -0.1 }, true},
		{"positive lens", func(c *CameraConfig) { c.LensRadius = 0.1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.modify(&config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMergeCameraConfig(t *testing.T) {
	base := CameraConfig{
		LookFrom:    core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: 2,
		LensRadius:  0.1,
	}

	merged := MergeCameraConfig(base, CameraConfig{VFov: 30, LookFrom: core.NewVec3(1, 2, 3)})

	if merged.VFov != 30 {
		t.Errorf("VFov = %f, want 30", merged.VFov)
	}
	if merged.LookFrom != core.NewVec3(1, 2, 3) {
		t.Errorf("LookFrom = %v, want (1,2,3)", merged.LookFrom)
	}
	if merged.LookAt != base.LookAt || merged.Up != base.Up {
		t.Errorf("unset vectors changed: %+v", merged)
	}
	if merged.AspectRatio != 2 || merged.LensRadius != 0.1 {
		t.Errorf("unset scalars changed: %+v", merged)
	}
}
