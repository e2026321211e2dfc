// Package components defines ECS components for the ball simulation.
package components

// Body holds the physical properties of a ball.
type Body struct {
	ID      uint32
	Radius  float64
	Gravity float64 // per-ball copy of the global gravity at spawn time
	Escaped bool    // left the arena through the boundary gap
}

// Tint is the animated fill colour. Each channel walks between 0 and 255 by
// its signed step and reverses at the bounds.
type Tint struct {
	R, G, B    float64
	DR, DG, DB float64
}
