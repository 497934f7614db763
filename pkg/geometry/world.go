package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// World owns every material and surface of a scene and resolves hits against them.
// It is built by appending before rendering and must not be modified while rendering.
type World struct {
	materials []material.Material
	surfaces  []Surface
}

// NewWorld creates an empty world
func NewWorld() *World {
	return &World{}
}

// AddMaterial stores a material and returns its handle
func (w *World) AddMaterial(m material.Material) MaterialID {
	w.materials = append(w.materials, m)
	return MaterialID(len(w.materials) - 1)
}

// Add stores a surface and returns its handle
func (w *World) Add(surface Surface) SurfaceID {
	w.surfaces = append(w.surfaces, surface)
	return SurfaceID(len(w.surfaces) - 1)
}

// AddSphere is a convenience wrapper around NewSphere and Add
func (w *World) AddSphere(center core.Vec3, radius float64, mat MaterialID) SurfaceID {
	return w.Add(NewSphere(center, radius, mat))
}

// Len returns the number of surfaces
func (w *World) Len() int {
	return len(w.surfaces)
}

// MaterialCount returns the number of materials
func (w *World) MaterialCount() int {
	return len(w.materials)
}

// Surface returns the surface behind a handle
func (w *World) Surface(id SurfaceID) Surface {
	return w.surfaces[id]
}

// Intersect returns the nearest hit across all surfaces. Ties keep the first surface.
func (w *World) Intersect(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	var closest Hit
	hitAnything := false
	closestSoFar := tMax

	for i, surface := range w.surfaces {
		// Narrowing the window to the closest hit gives the same result as a full
		// scan with a nearest-distance comparison, since roots must be < tMax.
		if hit, ok := surface.Intersect(ray, tMin, closestSoFar); ok {
			hitAnything = true
			closestSoFar = hit.Distance
			hit.Surface = SurfaceID(i)
			closest = hit
		}
	}

	return closest, hitAnything
}

// Normal returns the surface normal ray at the hit point
func (w *World) Normal(hit Hit) core.Ray {
	return w.surfaces[hit.Surface].Normal(hit.Point)
}

// Material returns the material of the struck surface
func (w *World) Material(hit Hit) material.Material {
	return w.materials[w.surfaces[hit.Surface].MaterialID()]
}

// Albedo returns the attenuation of the struck surface's material
func (w *World) Albedo(hit Hit) core.Vec3 {
	return w.Material(hit).AlbedoColor()
}

// Scatter lets the struck surface's material produce the outgoing ray
func (w *World) Scatter(rayIn core.Ray, hit Hit, sampler core.Sampler) core.Ray {
	interaction := material.Interaction{
		Point:  hit.Point,
		Normal: w.Normal(hit).Direction,
	}
	return w.Material(hit).Scatter(rayIn, interaction, sampler)
}

// Validate checks that every surface is well formed and references a known material
func (w *World) Validate() error {
	for i, surface := range w.surfaces {
		id := surface.MaterialID()
		if id < 0 || int(id) >= len(w.materials) {
			return fmt.Errorf("surface %d references unknown material %d", i, id)
		}
		if sphere, ok := surface.(*Sphere); ok {
			if !(sphere.Radius > 0) || math.IsInf(sphere.Radius, 0) {
				return fmt.Errorf("sphere %d has invalid radius %v", i, sphere.Radius)
			}
			if !sphere.Center.IsFinite() {
				return fmt.Errorf("sphere %d has non-finite center %v", i, sphere.Center)
			}
		}
	}
	for i, m := range w.materials {
		if m.Kind == material.KindDielectric && !(m.RefractiveIndex > 0) {
			return fmt.Errorf("material %d has invalid refractive index %v", i, m.RefractiveIndex)
		}
	}
	return nil
}
