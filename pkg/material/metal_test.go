package material

import (
	"math/rand"
	"testing"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

func TestNewMetal_FuzzClamp(t *testing.T) {
	tests := []struct {
		name         string
		inputFuzz    float64
		expectedFuzz float64
	}{
		{"Valid fuzz 0.0", 0.0, 0.0},
		{"Valid fuzz 0.5", 0.5, 0.5},
		{"Valid fuzz 1.0", 1.0, 1.0},
		{"Clamp above 1.0", 1.5, 1.0},
		{"Clamp below 0.0", -0.5, 0.0},
	}

	albedo := core.NewVec3(0.8, 0.8, 0.8)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metal := NewMetal(albedo, tt.inputFuzz)
			if metal.Fuzz != tt.expectedFuzz {
				t.Errorf("Expected fuzz %f, got %f", tt.expectedFuzz, metal.Fuzz)
			}
		})
	}
}

// countingSampler records how many draws were taken
type countingSampler struct {
	calls int
}

func (c *countingSampler) Get1D() float64   { c.calls++; return 0.5 }
func (c *countingSampler) Get2D() core.Vec2 { c.calls++; return core.NewVec2(0.5, 0.5) }

func TestMetal_PerfectReflection(t *testing.T) {
	metal := NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0.0)
	sampler := &countingSampler{}

	// Ray hitting surface at 45 degrees
	rayIn := core.NewRay(core.NewVec3(0, 1, 1), core.NewVec3(0, -1, -1))
	hit := Interaction{
		Point:  core.NewVec3(0, 0, 0),
		Normal: core.NewVec3(0, 0, 1),
	}

	scattered := metal.Scatter(rayIn, hit, sampler)

	expected := core.NewVec3(0, -1, 1).Normalize()
	if scattered.Direction.Subtract(expected).Length() > 1e-10 {
		t.Errorf("Perfect reflection failed: expected %v, got %v", expected, scattered.Direction)
	}
	if sampler.calls != 0 {
		t.Errorf("Perfect mirror should not draw samples, drew %d", sampler.calls)
	}
}

func TestMetal_FuzzPerturbsReflection(t *testing.T) {
	metal := NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0.3)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	rayIn := core.NewRay(core.NewVec3(0, 1, 1), core.NewVec3(0, -1, -1))
	hit := Interaction{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 0, 1)}
	perfect := core.NewVec3(0, -1, 1).Normalize()

	differs := false
	for i := 0; i < 50; i++ {
		scattered := metal.Scatter(rayIn, hit, sampler)
		deviation := scattered.Direction.Subtract(perfect).Length()
		if deviation > 1e-6 {
			differs = true
		}
		// |r + 0.3s| normalized stays within a cone around r
		if scattered.Direction.Dot(perfect) < 0.9 {
			t.Fatalf("Fuzzed reflection %v strays too far from %v", scattered.Direction, perfect)
		}
	}
	if !differs {
		t.Error("Expected fuzz to perturb reflection direction")
	}
}

func TestReflect(t *testing.T) {
	got := Reflect(core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0))
	if got != core.NewVec3(1, 1, 0) {
		t.Errorf("Expected (1,1,0), got %v", got)
	}
}
