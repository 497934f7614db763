package scene

import (
	"math/rand"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
)

// NewRandomSpheresScene scatters small spheres of random materials around three large
// feature spheres. The layout is fixed by the seed.
func NewRandomSpheresScene(seed int64, cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		LookFrom:    core.NewVec3(13, 2, 3),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        20,
		AspectRatio: 3.0 / 2.0,
		LensRadius:  0.05,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := New("random-spheres", cameraConfig, renderer.SamplingConfig{
		Width:           600,
		Height:          400,
		SamplesPerPixel: 50,
		MaxDepth:        20,
		Gamma:           2,
	})

	random := rand.New(rand.NewSource(seed))
	s.AddSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	keepClear := core.NewVec3(4, 0.2, 0)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			center := core.NewVec3(float64(a)+0.9*random.Float64(), 0.2, float64(b)+0.9*random.Float64())
			if center.Subtract(keepClear).Length() <= 0.9 {
				continue
			}

			chooseMaterial := random.Float64()
			switch {
			case chooseMaterial < 0.8:
				albedo := randomColor(random).MultiplyVec(randomColor(random))
				s.AddSphere(center, 0.2, material.NewLambertian(albedo))
			case chooseMaterial < 0.95:
				albedo := randomColor(random).Multiply(0.5).AddScalar(0.5)
				s.AddSphere(center, 0.2, material.NewMetal(albedo, 0.5*random.Float64()))
			default:
				s.AddSphere(center, 0.2, material.NewDielectric(1.5, 0))
			}
		}
	}

	s.AddSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5, 0))
	s.AddSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1)))
	s.AddSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0))

	return s
}

func randomColor(random *rand.Rand) core.Vec3 {
	return core.NewVec3(random.Float64(), random.Float64(), random.Float64())
}
