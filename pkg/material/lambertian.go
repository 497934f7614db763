package material

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// NewLambertian creates a perfectly diffuse material
func NewLambertian(albedo core.Vec3) Material {
	return Material{Kind: KindLambertian, Albedo: albedo}
}

// scatterLambertian offsets the normal by a random direction from SampleAngularSphere
func (m Material) scatterLambertian(hit Interaction, sampler core.Sampler) core.Ray {
	direction := hit.Normal.Add(core.SampleAngularSphere(sampler.Get2D()))

	// The sample can cancel the normal exactly, which would normalize to NaN
	if direction.NearZero() {
		direction = hit.Normal
	}

	return core.NewRay(hit.Point, direction)
}
