package material

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// NewMetal creates a specular material; fuzz is clamped to [0,1]
func NewMetal(albedo core.Vec3, fuzz float64) Material {
	return Material{Kind: KindMetal, Albedo: albedo, Fuzz: clampFuzz(fuzz)}
}

func (m Material) scatterMetal(rayIn core.Ray, hit Interaction, sampler core.Sampler) core.Ray {
	return core.NewRay(hit.Point, ReflectFuzzy(rayIn.Direction, hit.Normal, m.Fuzz, sampler))
}
