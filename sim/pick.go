package sim

import (
	"github.com/mlange-42/ark/ecs"
)

// Pick returns the ball under (x, y), preferring the nearest centre where
// balls overlap. slack widens every ball's hit radius so small balls are
// easier to hit.
func Pick(balls []BallState, x, y, slack float64) (ecs.Entity, bool) {
	var closest ecs.Entity
	closestDist := 0.0
	found := false

	for _, b := range balls {
		dx := x - b.X
		dy := y - b.Y
		dist := dx*dx + dy*dy

		hit := b.Radius + slack
		if dist < hit*hit && (!found || dist < closestDist) {
			closest = b.Entity
			closestDist = dist
			found = true
		}
	}
	return closest, found
}

// Find returns the state of e among balls, or false if it is not there.
func Find(balls []BallState, e ecs.Entity) (BallState, bool) {
	for _, b := range balls {
		if b.Entity == e {
			return b, true
		}
	}
	return BallState{}, false
}
