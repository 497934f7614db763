package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
)

// Vec3Cfg is a vector written as a JSON array [x, y, z]
type Vec3Cfg [3]float64

// Vec3 converts the array to a vector
func (v Vec3Cfg) Vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// CameraCfg is the camera section of a scene file
type CameraCfg struct {
	LookFrom    Vec3Cfg  `json:"lookFrom"`
	LookAt      Vec3Cfg  `json:"lookAt"`
	Up          *Vec3Cfg `json:"up,omitempty"` // defaults to +y
	VFov        float64  `json:"vfov"`
	AspectRatio float64  `json:"aspectRatio,omitempty"` // defaults to width / height
	LensRadius  float64  `json:"lensRadius,omitempty"`
}

// SamplingCfg is the sampling section of a scene file
type SamplingCfg struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	SamplesPerPixel int     `json:"samplesPerPixel"`
	MaxDepth        int     `json:"maxDepth"`
	Jitter          string  `json:"jitter,omitempty"` // "independent" or "shared"
	Gamma           float64 `json:"gamma,omitempty"`
}

// BackgroundCfg is the sky gradient of a scene file
type BackgroundCfg struct {
	Top    Vec3Cfg `json:"top"`
	Bottom Vec3Cfg `json:"bottom"`
}

// MaterialCfg describes one named material
type MaterialCfg struct {
	Type            string  `json:"type"`
	Albedo          Vec3Cfg `json:"albedo,omitempty"`
	Fuzz            float64 `json:"fuzz,omitempty"`
	RefractiveIndex float64 `json:"refractiveIndex,omitempty"`
}

// SphereCfg places a sphere. Hollow spheres face inward.
type SphereCfg struct {
	Center   Vec3Cfg `json:"center"`
	Radius   float64 `json:"radius"`
	Material string  `json:"material"`
	Hollow   bool    `json:"hollow,omitempty"`
}

// Config is the JSON scene file format
type Config struct {
	Name        string                 `json:"name,omitempty"`
	Description string                 `json:"description,omitempty"`
	Group       string                 `json:"group,omitempty"`
	Camera      CameraCfg              `json:"camera"`
	Sampling    SamplingCfg            `json:"sampling"`
	Background  *BackgroundCfg         `json:"background,omitempty"`
	Materials   map[string]MaterialCfg `json:"materials"`
	Spheres     []SphereCfg            `json:"spheres"`
}

// Build converts a material entry
func (m MaterialCfg) Build() (material.Material, error) {
	kind, err := material.ParseKind(m.Type)
	if err != nil {
		return material.Material{}, err
	}
	switch kind {
	case material.KindMetal:
		if m.Fuzz < 0 || m.Fuzz > 1 {
			return material.Material{}, fmt.Errorf("metal fuzz %v outside [0, 1]", m.Fuzz)
		}
		return material.NewMetal(m.Albedo.Vec3(), m.Fuzz), nil
	case material.KindDielectric:
		if !(m.RefractiveIndex > 0) {
			return material.Material{}, fmt.Errorf("dielectric needs a positive refractiveIndex, got %v", m.RefractiveIndex)
		}
		return material.NewDielectric(m.RefractiveIndex, m.Fuzz), nil
	default:
		return material.NewLambertian(m.Albedo.Vec3()), nil
	}
}

// Build assembles and validates the scene a configuration describes
func (c *Config) Build() (*Scene, error) {
	jitter, err := renderer.ParseJitterMode(c.Sampling.Jitter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	sampling := renderer.SamplingConfig{
		Width:           c.Sampling.Width,
		Height:          c.Sampling.Height,
		SamplesPerPixel: c.Sampling.SamplesPerPixel,
		MaxDepth:        c.Sampling.MaxDepth,
		Jitter:          jitter,
		Gamma:           c.Sampling.Gamma,
	}
	if sampling.Gamma == 0 {
		sampling.Gamma = 1
	}

	up := core.NewVec3(0, 1, 0)
	if c.Camera.Up != nil {
		up = c.Camera.Up.Vec3()
	}
	cameraConfig := renderer.CameraConfig{
		LookFrom:    c.Camera.LookFrom.Vec3(),
		LookAt:      c.Camera.LookAt.Vec3(),
		Up:          up,
		VFov:        c.Camera.VFov,
		AspectRatio: c.Camera.AspectRatio,
		LensRadius:  c.Camera.LensRadius,
	}
	// Validate before the camera is built so a degenerate basis never reaches NewCamera
	if cameraConfig.AspectRatio == 0 && sampling.Height > 0 {
		cameraConfig.AspectRatio = float64(sampling.Width) / float64(sampling.Height)
	}
	if err := cameraConfig.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}

	s := New(c.Name, cameraConfig, sampling)
	if c.Background != nil {
		s.Background.Top = c.Background.Top.Vec3()
		s.Background.Bottom = c.Background.Bottom.Vec3()
	}

	// Map iteration order is random; sort names so material IDs are stable
	names := make([]string, 0, len(c.Materials))
	for name := range c.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	ids := make(map[string]geometry.MaterialID, len(names))
	for _, name := range names {
		m, err := c.Materials[name].Build()
		if err != nil {
			return nil, fmt.Errorf("%w: material %q: %v", ErrInvalidScene, name, err)
		}
		ids[name] = s.World.AddMaterial(m)
	}

	if len(c.Spheres) == 0 {
		return nil, fmt.Errorf("%w: scene has no spheres", ErrInvalidScene)
	}
	for i, sc := range c.Spheres {
		id, ok := ids[sc.Material]
		if !ok {
			return nil, fmt.Errorf("%w: sphere %d references unknown material %q", ErrInvalidScene, i, sc.Material)
		}
		if !(sc.Radius > 0) {
			return nil, fmt.Errorf("%w: sphere %d has non-positive radius %v", ErrInvalidScene, i, sc.Radius)
		}
		if sc.Hollow {
			s.World.Add(geometry.NewHollowSphere(sc.Center.Vec3(), sc.Radius, id))
		} else {
			s.World.AddSphere(sc.Center.Vec3(), sc.Radius, id)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Parse decodes a JSON scene description. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	return &cfg, nil
}

// LoadFile reads and builds a JSON scene file. A scene without a name is named after the file.
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownScene, path)
		}
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	s, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
