package server

import (
	"fmt"
	"math"
	"math/rand"
	"net/http"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	SurfaceID    int                    `json:"surfaceId"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
	Background   [3]float64             `json:"background"`
}

func toArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	rgb := renderer.ToRGB8(c, 1)
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
}

// extractMaterialInfo describes a material by kind
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch mat.Kind {
	case material.KindLambertian:
		properties["albedo"] = toArray(mat.Albedo)
		properties["color"] = hexColor(mat.Albedo)
	case material.KindMetal:
		properties["albedo"] = toArray(mat.Albedo)
		properties["color"] = hexColor(mat.Albedo)
		properties["fuzz"] = mat.Fuzz
	case material.KindDielectric:
		properties["refractiveIndex"] = mat.RefractiveIndex
		properties["fuzz"] = mat.Fuzz
		properties["color"] = "#ffffff"
	}
	return mat.Kind.String(), properties
}

// extractGeometryInfo adds shape details to properties
func extractGeometryInfo(surface geometry.Surface, properties map[string]interface{}) string {
	switch s := surface.(type) {
	case *geometry.Sphere:
		properties["center"] = toArray(s.Center)
		properties["radius"] = s.Radius
		properties["inverted"] = s.Inverted
		return "sphere"
	default:
		return fmt.Sprintf("%T", surface)
	}
}

// handleInspect casts the ray through the center of a pixel and reports what it strikes.
// Pixel coordinates are image coordinates with y growing downward.
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params, err := parseSceneParams(query)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sceneObj, err := s.sizedScene(params)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sampling := sceneObj.GetSamplingConfig()

	x, err := parseIntParam(query, "x", -1, 0, sampling.Width-1)
	if err == nil && x < 0 {
		err = fmt.Errorf("x is required")
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	y, err := parseIntParam(query, "y", -1, 0, sampling.Height-1)
	if err == nil && y < 0 {
		err = fmt.Errorf("y is required")
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	u := (float64(x) + 0.5) / float64(sampling.Width)
	v := (float64(sampling.Height-1-y) + 0.5) / float64(sampling.Height)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(0)))
	ray := sceneObj.GetCamera().GetRay(u, v, sampler)

	response := InspectResponse{
		SurfaceID:  int(geometry.NoSurface),
		Background: toArray(sceneObj.GetBackground().Evaluate(ray.Direction)),
	}

	world := sceneObj.World
	hit, ok := world.Intersect(ray, integrator.HitEpsilon, math.Inf(1))
	if ok {
		normal := world.Normal(hit).Direction
		materialType, properties := extractMaterialInfo(world.Material(hit))

		response.Hit = true
		response.SurfaceID = int(hit.Surface)
		response.MaterialType = materialType
		response.GeometryType = extractGeometryInfo(world.Surface(hit.Surface), properties)
		response.Point = toArray(hit.Point)
		response.Normal = toArray(normal)
		response.Distance = hit.Distance
		response.FrontFace = ray.Direction.Dot(normal) < 0
		response.Properties = properties
	}

	writeJSON(w, http.StatusOK, response)
}
