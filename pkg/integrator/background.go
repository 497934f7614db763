package integrator

import "github.com/df07/go-stochastic-raytracer/pkg/core"

// Background is a vertical gradient seen by rays that escape the scene
type Background struct {
	Top    core.Vec3 // Color looking straight up
	Bottom core.Vec3 // Color looking straight down
}

// DefaultBackground returns the white to sky-blue gradient
func DefaultBackground() Background {
	return Background{
		Top:    core.NewVec3(0.5, 0.7, 1.0),
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// Evaluate returns the background color for a unit direction
func (b Background) Evaluate(direction core.Vec3) core.Vec3 {
	// Map y from [-1,1] to [0,1]
	t := 0.5 * (direction.Y + 1.0)
	return b.Bottom.Multiply(1.0 - t).Add(b.Top.Multiply(t))
}
