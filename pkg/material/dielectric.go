package material

import (
	"math"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// NewDielectric creates a transparent material like glass that can both reflect and refract.
// Dielectrics do not tint: their albedo is white.
func NewDielectric(refractiveIndex, fuzz float64) Material {
	return Material{
		Kind:            KindDielectric,
		Albedo:          core.NewVec3(1, 1, 1),
		RefractiveIndex: refractiveIndex,
		Fuzz:            clampFuzz(fuzz),
	}
}

// DielectricInterface describes how a ray meets a dielectric boundary
type DielectricInterface struct {
	OutwardNormal   core.Vec3 // Normal on the incoming side of the boundary
	RefractionRatio float64   // n_incident / n_transmitted
	Cosine          float64   // Cosine used for the Schlick estimate
	Refracted       core.Vec3 // Transmitted direction, valid when CanRefract
	CanRefract      bool      // False on total internal reflection
}

// ReflectProbability returns the chance that the ray reflects rather than refracts
func (di DielectricInterface) ReflectProbability(refractiveIndex float64) float64 {
	if !di.CanRefract {
		return 1.0
	}
	return Schlick(di.Cosine, refractiveIndex)
}

// ResolveDielectric works out entering/exiting geometry and the refracted direction
func (m Material) ResolveDielectric(direction, normal core.Vec3) DielectricInterface {
	proj := normal.Dot(direction)
	eta := m.RefractiveIndex

	var di DielectricInterface
	if proj > 0 {
		// Exiting the medium
		di.OutwardNormal = normal.Negate()
		di.RefractionRatio = eta
		di.Cosine = math.Sqrt(math.Max(0, 1-eta*eta*(1-proj*proj)))
	} else {
		// Entering the medium
		di.OutwardNormal = normal
		di.RefractionRatio = 1.0 / eta
		di.Cosine = -proj
	}

	di.Refracted, di.CanRefract = Refract(direction, di.OutwardNormal, di.RefractionRatio)
	return di
}

func (m Material) scatterDielectric(rayIn core.Ray, hit Interaction, sampler core.Sampler) core.Ray {
	di := m.ResolveDielectric(rayIn.Direction, hit.Normal)

	if sampler.Get1D() < di.ReflectProbability(m.RefractiveIndex) {
		return core.NewRay(hit.Point, ReflectFuzzy(rayIn.Direction, di.OutwardNormal, m.Fuzz, sampler))
	}
	return core.NewRay(hit.Point, di.Refracted)
}
