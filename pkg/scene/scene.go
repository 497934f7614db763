package scene

import (
	"fmt"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Camera         *renderer.Camera
	CameraConfig   renderer.CameraConfig
	World          *geometry.World
	Background     integrator.Background
	SamplingConfig renderer.SamplingConfig
}

// New creates an empty scene. The camera aspect ratio follows the sampling size
// when the camera config leaves it unset.
func New(name string, cameraConfig renderer.CameraConfig, samplingConfig renderer.SamplingConfig) *Scene {
	s := &Scene{
		Name:           name,
		World:          geometry.NewWorld(),
		Background:     integrator.DefaultBackground(),
		SamplingConfig: samplingConfig,
	}
	if cameraConfig.AspectRatio == 0 && samplingConfig.Height > 0 {
		cameraConfig.AspectRatio = float64(samplingConfig.Width) / float64(samplingConfig.Height)
	}
	s.SetCamera(cameraConfig)
	return s
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// GetWorld returns the surfaces and materials of the scene
func (s *Scene) GetWorld() integrator.World {
	return s.World
}

// GetBackground returns the sky gradient
func (s *Scene) GetBackground() integrator.Background {
	return s.Background
}

// GetSamplingConfig returns the scene's sampling configuration
func (s *Scene) GetSamplingConfig() renderer.SamplingConfig {
	return s.SamplingConfig
}

// SetCamera rebuilds the camera from a configuration
func (s *Scene) SetCamera(config renderer.CameraConfig) {
	s.CameraConfig = config
	s.Camera = renderer.NewCamera(config)
}

// ApplyOverrides merges non-zero sampling and camera settings into the scene. Changing the
// image size without an explicit aspect ratio refits the camera to the new size.
func (s *Scene) ApplyOverrides(sampling renderer.SamplingConfig, camera renderer.CameraConfig) {
	s.SamplingConfig = renderer.MergeSamplingConfig(s.SamplingConfig, sampling)
	cameraConfig := renderer.MergeCameraConfig(s.CameraConfig, camera)
	if camera.AspectRatio == 0 && (sampling.Width != 0 || sampling.Height != 0) && s.SamplingConfig.Height > 0 {
		cameraConfig.AspectRatio = float64(s.SamplingConfig.Width) / float64(s.SamplingConfig.Height)
	}
	s.SetCamera(cameraConfig)
}

// AddSphere adds a sphere with its own material
func (s *Scene) AddSphere(center core.Vec3, radius float64, m material.Material) geometry.SurfaceID {
	return s.World.AddSphere(center, radius, s.World.AddMaterial(m))
}

// AddHollowSphere adds a dielectric shell of the given thickness: an outer sphere and an
// inverted inner sphere sharing one glass material
func (s *Scene) AddHollowSphere(center core.Vec3, radius, thickness float64, glass material.Material) {
	id := s.World.AddMaterial(glass)
	s.World.AddSphere(center, radius, id)
	s.World.Add(geometry.NewHollowSphere(center, radius-thickness, id))
}

// Validate rejects scenes the renderer cannot draw
func (s *Scene) Validate() error {
	if err := s.CameraConfig.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	if err := s.World.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	c := s.SamplingConfig
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: image size must be positive, got %dx%d", ErrInvalidScene, c.Width, c.Height)
	}
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("%w: samples per pixel must be positive, got %d", ErrInvalidScene, c.SamplesPerPixel)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("%w: max depth must be positive, got %d", ErrInvalidScene, c.MaxDepth)
	}
	if c.Gamma < 0 {
		return fmt.Errorf("%w: gamma must not be negative, got %v", ErrInvalidScene, c.Gamma)
	}
	return nil
}
