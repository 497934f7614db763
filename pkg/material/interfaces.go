package material

import (
	"fmt"
	"strings"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// Kind identifies one of the closed set of scattering models
type Kind int

const (
	KindLambertian Kind = iota
	KindMetal
	KindDielectric
)

// String returns the scene-file name of the kind
func (k Kind) String() string {
	switch k {
	case KindLambertian:
		return "lambertian"
	case KindMetal:
		return "metal"
	case KindDielectric:
		return "dielectric"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts a scene-file material type into a Kind
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lambertian", "diffuse":
		return KindLambertian, nil
	case "metal", "specular":
		return KindMetal, nil
	case "dielectric", "glass":
		return KindDielectric, nil
	default:
		return 0, fmt.Errorf("unknown material type %q", name)
	}
}

// Interaction is the part of a surface hit a material needs to scatter a ray
type Interaction struct {
	Point  core.Vec3 // Point of intersection
	Normal core.Vec3 // Unit normal of the struck surface (outward unless the surface is inverted)
}

// Material is a tagged variant over the supported scattering models.
// Only the fields relevant to Kind are used.
type Material struct {
	Kind            Kind
	Albedo          core.Vec3 // Per-channel attenuation in [0,1]
	Fuzz            float64   // Metal and dielectric reflection roughness in [0,1]
	RefractiveIndex float64   // Dielectric index of refraction (e.g. 1.5 for glass)
}

// AlbedoColor returns the attenuation applied once per bounce
func (m Material) AlbedoColor() core.Vec3 {
	return m.Albedo
}

// Scatter produces the outgoing ray for a ray striking the surface at hit
func (m Material) Scatter(rayIn core.Ray, hit Interaction, sampler core.Sampler) core.Ray {
	switch m.Kind {
	case KindMetal:
		return m.scatterMetal(rayIn, hit, sampler)
	case KindDielectric:
		return m.scatterDielectric(rayIn, hit, sampler)
	default:
		return m.scatterLambertian(hit, sampler)
	}
}

// clampFuzz keeps a roughness parameter inside [0,1]
func clampFuzz(fuzz float64) float64 {
	return max(0.0, min(1.0, fuzz))
}
