package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"
)

// CollisionEvent records one resolved ball-ball contact in a step.
type CollisionEvent struct {
	A, B    ecs.Entity
	Point   r2.Vec  // contact point on A's surface before separation
	Impulse float64 // magnitude of the exchanged normal velocity
}

// BounceEvent records one wall reflection in a step.
type BounceEvent struct {
	Entity ecs.Entity
	Point  r2.Vec  // ball center after the positional correction
	Speed  float64 // speed after reflection
	Radius float64 // radius after growth
}

// Events is everything that happened during one step.
type Events struct {
	Collisions []CollisionEvent
	Bounces    []BounceEvent
	Escapes    []ecs.Entity

	// Cleared is set when a ball outgrew the radius limit; the whole
	// population is discarded in the same step.
	Cleared bool
}
