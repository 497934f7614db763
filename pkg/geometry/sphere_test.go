package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

func TestSphere_Intersect_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, 0)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Intersect(ray, 0.001, math.Inf(1))
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.Distance)
	}
}

func TestSphere_Intersect_DirectlyAtCenter(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -1), 0.5, 0)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Intersect(ray, 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(hit.Distance-0.5) > 1e-9 {
		t.Errorf("Expected t=0.5, got t=%f", hit.Distance)
	}
	if hit.Point.Subtract(core.NewVec3(0, 0, -0.5)).Length() > 1e-9 {
		t.Errorf("Expected point (0,0,-0.5), got %v", hit.Point)
	}
	if hit.Surface != NoSurface {
		t.Errorf("Standalone sphere hit should not carry a surface handle, got %d", hit.Surface)
	}
}

func TestSphere_Intersect_RootSelection(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, 0)

	tests := []struct {
		name      string
		origin    core.Vec3
		direction core.Vec3
		tMin      float64
		tMax      float64
		expectHit bool
		expectedT float64
	}{
		{"front face hit", core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1), 0.001, math.Inf(1), true, 1.0},
		{"from inside takes far root", core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), 0.001, math.Inf(1), true, 1.0},
		{"sphere behind origin", core.NewVec3(0, 0, 2), core.NewVec3(0, 0, 1), 0.001, math.Inf(1), false, 0},
		{"tMax before near root", core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1), 0.001, 0.5, false, 0},
		{"tMax between roots", core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1), 0.001, 2.0, true, 1.0},
		{"tMin past near root", core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1), 1.5, math.Inf(1), true, 3.0},
		{"window excludes root exactly", core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1), 0.001, 1.0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.origin, tt.direction)
			hit, isHit := sphere.Intersect(ray, tt.tMin, tt.tMax)
			if isHit != tt.expectHit {
				t.Fatalf("Expected hit=%t, got %t (t=%f)", tt.expectHit, isHit, hit.Distance)
			}
			if isHit && math.Abs(hit.Distance-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.Distance)
			}
		})
	}
}

func TestSphere_Intersect_GrazingRejected(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, 0)
	// Tangent ray: discriminant is exactly zero, below the epsilon
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))

	if hit, isHit := sphere.Intersect(ray, 0.001, math.Inf(1)); isHit {
		t.Errorf("Expected grazing ray to miss, got hit at t=%f", hit.Distance)
	}
}

func TestSphere_Normal(t *testing.T) {
	tests := []struct {
		name     string
		sphere   *Sphere
		point    core.Vec3
		expected core.Vec3
	}{
		{"outward", NewSphere(core.NewVec3(0, 0, 0), 2, 0), core.NewVec3(0, 2, 0), core.NewVec3(0, 1, 0)},
		{"negative radius inverts", NewSphere(core.NewVec3(0, 0, 0), -2, 0), core.NewVec3(0, 2, 0), core.NewVec3(0, -1, 0)},
		{"hollow sphere inverts", NewHollowSphere(core.NewVec3(1, 1, 1), 1, 0), core.NewVec3(2, 1, 1), core.NewVec3(-1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normal := tt.sphere.Normal(tt.point)
			if normal.Origin != tt.point {
				t.Errorf("Expected normal origin %v, got %v", tt.point, normal.Origin)
			}
			if normal.Direction.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected normal %v, got %v", tt.expected, normal.Direction)
			}
		})
	}
}

func TestNewSphere_NegativeRadius(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), -0.45, 3)
	if sphere.Radius != 0.45 || !sphere.Inverted {
		t.Errorf("Expected radius 0.45 inverted, got radius %f inverted %t", sphere.Radius, sphere.Inverted)
	}
	if sphere.MaterialID() != 3 {
		t.Errorf("Expected material 3, got %d", sphere.MaterialID())
	}
}
