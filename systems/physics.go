// Package systems contains ECS systems for the ball simulation.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/bounce/components"
)

// Params are the global parameters the stepper reads each frame.
type Params struct {
	Restitution float64 // wall reflection factor, 2 = mirror, >2 gains energy
	SizeGain    float64 // radius change per wall hit, may be negative
	MinRadius   float64 // growth never takes a radius below this
	MaxRadius   float64 // any ball above this clears the population
	Epsilon     float64 // distances below this have no usable normal
}

// Boundary is the containing circle. Gap > 0 opens the arc of that many
// radians just above the +X axis (screen angles in (-Gap, 0)).
type Boundary struct {
	Center r2.Vec
	Radius float64
	Gap    float64
}

// Ball is a view over one entity's components, valid until the next
// structural change of the world.
type Ball struct {
	Entity ecs.Entity
	Pos    *components.Position
	Vel    *components.Velocity
	Body   *components.Body
	Tint   *components.Tint
}

// PhysicsSystem advances every ball by one frame tick.
type PhysicsSystem struct {
	posMap  *ecs.Map[components.Position]
	velMap  *ecs.Map[components.Velocity]
	bodyMap *ecs.Map[components.Body]
	tintMap *ecs.Map[components.Tint]

	balls []Ball // scratch, reused between steps
}

// NewPhysicsSystem creates a new physics system.
func NewPhysicsSystem(w *ecs.World) *PhysicsSystem {
	return &PhysicsSystem{
		posMap:  ecs.NewMap[components.Position](w),
		velMap:  ecs.NewMap[components.Velocity](w),
		bodyMap: ecs.NewMap[components.Body](w),
		tintMap: ecs.NewMap[components.Tint](w),
	}
}

// Step advances the population, given in insertion order, by one tick and
// reports what happened. Order matters only for pair iteration: in each
// pair (i, j) with i < j, i is the primary ball.
func (s *PhysicsSystem) Step(population []ecs.Entity, p Params, b Boundary) Events {
	var ev Events

	s.balls = s.balls[:0]
	for _, e := range population {
		s.balls = append(s.balls, Ball{
			Entity: e,
			Pos:    s.posMap.Get(e),
			Vel:    s.velMap.Get(e),
			Body:   s.bodyMap.Get(e),
			Tint:   s.tintMap.Get(e),
		})
	}

	// 1. Gravity, motion and wall response
	for _, ball := range s.balls {
		Integrate(ball)
		if bounce, ok := ResolveBoundary(ball, p, b); ok {
			ev.Bounces = append(ev.Bounces, bounce)
		}
		if Escape(ball, b) {
			ev.Escapes = append(ev.Escapes, ball.Entity)
		}
	}

	// 2. Pairwise contacts
	for i := 0; i < len(s.balls); i++ {
		for j := i + 1; j < len(s.balls); j++ {
			if c, ok := ResolvePair(s.balls[i], s.balls[j], p.Epsilon); ok {
				ev.Collisions = append(ev.Collisions, c)
			}
		}
	}

	// 3. Pair separation may have pushed balls through the wall
	for _, ball := range s.balls {
		Contain(ball, b, p.Epsilon)
		AdvanceTint(ball.Tint)
		if ball.Body.Radius > p.MaxRadius {
			ev.Cleared = true
		}
	}

	return ev
}

// Integrate applies the ball's gravity to its velocity, then moves it.
func Integrate(ball Ball) {
	ball.Vel.Y += ball.Body.Gravity
	ball.Pos.X += ball.Vel.X
	ball.Pos.Y += ball.Vel.Y
}

// ResolveBoundary reflects a ball penetrating the boundary, pushes it back
// inside by the penetration depth and applies the size gain.
func ResolveBoundary(ball Ball, p Params, b Boundary) (BounceEvent, bool) {
	if ball.Body.Escaped {
		return BounceEvent{}, false
	}

	pos := ball.Pos.Vec()
	off := r2.Sub(pos, b.Center)
	d := r2.Norm(off)
	r := ball.Body.Radius
	if d+r <= b.Radius {
		return BounceEvent{}, false
	}

	n := boundaryNormal(off, d, ball.Vel.Vec(), p.Epsilon)
	if inGap(n, b.Gap) {
		return BounceEvent{}, false
	}

	v := ball.Vel.Vec()
	dot := r2.Dot(v, n)
	v = r2.Sub(v, r2.Scale(p.Restitution*dot, n))
	ball.Vel.Set(v)

	overlap := d + r - b.Radius
	ball.Pos.Set(r2.Sub(pos, r2.Scale(overlap, n)))

	ball.Body.Radius = math.Max(r+p.SizeGain, p.MinRadius)

	return BounceEvent{
		Entity: ball.Entity,
		Point:  ball.Pos.Vec(),
		Speed:  r2.Norm(v),
		Radius: ball.Body.Radius,
	}, true
}

// Escape marks a ball that has fully left the boundary through the gap.
// Escaped balls are never tested against the wall again.
func Escape(ball Ball, b Boundary) bool {
	if ball.Body.Escaped || b.Gap <= 0 {
		return false
	}
	d := r2.Norm(r2.Sub(ball.Pos.Vec(), b.Center))
	if d-ball.Body.Radius <= b.Radius {
		return false
	}
	ball.Body.Escaped = true
	return true
}

// ResolvePair performs an equal-mass elastic exchange between two
// overlapping, approaching balls and separates them by half the overlap each.
// Coincident centres have no normal and are skipped.
func ResolvePair(a, b Ball, eps float64) (CollisionEvent, bool) {
	pa, pb := a.Pos.Vec(), b.Pos.Vec()
	delta := r2.Sub(pa, pb)
	dist := r2.Norm(delta)
	sum := a.Body.Radius + b.Body.Radius
	if dist >= sum || dist < eps {
		return CollisionEvent{}, false
	}

	n := r2.Scale(1/dist, delta)
	rel := r2.Sub(a.Vel.Vec(), b.Vel.Vec())
	dot := r2.Dot(rel, n)
	if dot > 0 {
		// Already separating
		return CollisionEvent{}, false
	}

	a.Vel.Set(r2.Sub(a.Vel.Vec(), r2.Scale(dot, n)))
	b.Vel.Set(r2.Add(b.Vel.Vec(), r2.Scale(dot, n)))

	contact := r2.Sub(pa, r2.Scale(a.Body.Radius, n))
	overlap := 0.5 * (sum - dist)
	a.Pos.Set(r2.Add(pa, r2.Scale(overlap, n)))
	b.Pos.Set(r2.Sub(pb, r2.Scale(overlap, n)))

	return CollisionEvent{
		A:       a.Entity,
		B:       b.Entity,
		Point:   contact,
		Impulse: -dot,
	}, true
}

// Contain moves a ball that still pokes through a closed part of the wall
// back inside. Velocity and radius are untouched. Balls larger than the
// boundary cannot be contained and are left alone.
func Contain(ball Ball, b Boundary, eps float64) {
	r := ball.Body.Radius
	if ball.Body.Escaped || r > b.Radius {
		return
	}
	off := r2.Sub(ball.Pos.Vec(), b.Center)
	d := r2.Norm(off)
	if d+r <= b.Radius+eps || d < eps {
		return
	}
	n := r2.Scale(1/d, off)
	if inGap(n, b.Gap) {
		return
	}
	ball.Pos.Set(r2.Add(b.Center, r2.Scale(b.Radius-r, n)))
}

// boundaryNormal returns the outward unit normal for a ball at offset off
// (length d) from the centre. A centred ball has no radial direction, so it
// uses its direction of travel, or straight down when at rest.
func boundaryNormal(off r2.Vec, d float64, vel r2.Vec, eps float64) r2.Vec {
	if d >= eps {
		return r2.Scale(1/d, off)
	}
	if speed := r2.Norm(vel); speed >= eps {
		return r2.Scale(1/speed, vel)
	}
	return r2.Vec{X: 0, Y: 1}
}

// inGap reports whether the outward normal n points through the open arc.
func inGap(n r2.Vec, gap float64) bool {
	if gap <= 0 {
		return false
	}
	angle := math.Atan2(n.Y, n.X)
	return angle < 0 && angle > -gap
}
