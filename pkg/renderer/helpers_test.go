package renderer

import (
	"sync/atomic"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// testScene is a minimal Scene implementation for renderer tests
type testScene struct {
	camera     *Camera
	world      *geometry.World
	background integrator.Background
	config     SamplingConfig
}

func (s *testScene) GetCamera() *Camera                   { return s.camera }
func (s *testScene) GetWorld() integrator.World           { return s.world }
func (s *testScene) GetBackground() integrator.Background { return s.background }
func (s *testScene) GetSamplingConfig() SamplingConfig    { return s.config }

func newTestCamera(aspect float64) *Camera {
	return NewCamera(CameraConfig{
		LookFrom:    core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: aspect,
	})
}

// newEmptyScene renders nothing but a constant background
func newEmptyScene(width, height, spp int, sky core.Vec3) *testScene {
	return &testScene{
		camera:     newTestCamera(float64(width) / float64(height)),
		world:      geometry.NewWorld(),
		background: integrator.Background{Top: sky, Bottom: sky},
		config: SamplingConfig{
			Width:           width,
			Height:          height,
			SamplesPerPixel: spp,
			MaxDepth:        10,
			Gamma:           1,
		},
	}
}

// newSphereScene is the classic ground-plus-sphere layout
func newSphereScene(width, height, spp int) *testScene {
	world := geometry.NewWorld()
	ground := world.AddMaterial(material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0)))
	center := world.AddMaterial(material.NewLambertian(core.NewVec3(0.8, 0.3, 0.3)))
	world.AddSphere(core.NewVec3(0, -100.5, -1), 100, ground)
	world.AddSphere(core.NewVec3(0, 0, -1), 0.5, center)

	return &testScene{
		camera:     newTestCamera(float64(width) / float64(height)),
		world:      world,
		background: integrator.DefaultBackground(),
		config: SamplingConfig{
			Width:           width,
			Height:          height,
			SamplesPerPixel: spp,
			MaxDepth:        8,
			Gamma:           2,
		},
	}
}

// countingIntegrator returns a fixed color and counts how often it was asked
type countingIntegrator struct {
	color core.Vec3
	calls atomic.Int64
}

func (c *countingIntegrator) RayColor(ray core.Ray, world integrator.World, sampler core.Sampler) core.Vec3 {
	c.calls.Add(1)
	return c.color
}

// fixedSampler always returns the same values
type fixedSampler struct {
	v1 float64
	v2 core.Vec2
}

func (f fixedSampler) Get1D() float64   { return f.v1 }
func (f fixedSampler) Get2D() core.Vec2 { return f.v2 }

// countingSampler counts draws and returns 0.5 for every coordinate
type countingSampler struct {
	draws int
}

func (c *countingSampler) Get1D() float64 {
	c.draws++
	return 0.5
}

func (c *countingSampler) Get2D() core.Vec2 {
	c.draws++
	return core.NewVec2(0.5, 0.5)
}

type panicIntegrator struct{}

func (panicIntegrator) RayColor(ray core.Ray, world integrator.World, sampler core.Sampler) core.Vec3 {
	panic("broken integrator")
}
