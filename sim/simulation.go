// Package sim owns the ball population and the global parameters, and
// exposes the operations a front-end drives: add, step, parameter changes
// and the start/stop/reset lifecycle.
package sim

import (
	"image"
	"image/color"
	"log/slog"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/bounce/assets"
	"github.com/pthm-cable/bounce/components"
	"github.com/pthm-cable/bounce/config"
	"github.com/pthm-cable/bounce/systems"
)

// BallState is a copy of one ball's state.
type BallState struct {
	Entity  ecs.Entity
	ID      uint32
	X, Y    float64
	VX, VY  float64
	Radius  float64
	Gravity float64
	Color   color.RGBA
	Escaped bool
	Image   *assets.Slot[image.Image] // nil when no image is assigned
}

// Speed returns the magnitude of the ball's velocity.
func (b BallState) Speed() float64 {
	return math.Hypot(b.VX, b.VY)
}

// Simulation holds the ball population and everything needed to advance it.
// It is owned by a single goroutine.
type Simulation struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand

	mapper *ecs.Map5[
		components.Position,
		components.Velocity,
		components.Body,
		components.Tint,
		components.Sprite,
	]
	bodyMap *ecs.Map1[components.Body]

	physics *systems.PhysicsSystem

	// Insertion order, which fixes pair iteration order in the stepper
	population []ecs.Entity

	params     Parameters
	boundary   systems.Boundary
	images     []*assets.Slot[image.Image]
	multiImage bool

	active bool
	nextID uint32
	tick   int32
	clears int
	onStop []func()
}

// New creates an empty, inactive simulation.
func New(cfg *config.Config, seed int64) *Simulation {
	world := ecs.NewWorld()
	return &Simulation{
		cfg:   cfg,
		world: world,
		rng:   rand.New(rand.NewSource(seed)),
		mapper: ecs.NewMap5[
			components.Position,
			components.Velocity,
			components.Body,
			components.Tint,
			components.Sprite,
		](world),
		bodyMap: ecs.NewMap1[components.Body](world),
		physics: systems.NewPhysicsSystem(world),
		params:  DefaultParameters(cfg),
		boundary: systems.Boundary{
			Center: r2.Vec{X: cfg.Boundary.CenterX, Y: cfg.Boundary.CenterY},
			Radius: cfg.Boundary.Radius,
			Gap:    cfg.Derived.Variant.BoundaryGap,
		},
		multiImage: cfg.Derived.Variant.MultiImage,
	}
}

// OnStop registers fn to run whenever Stop or Reset wipes the simulation,
// typically silencing sound and clearing the drawing surface.
func (s *Simulation) OnStop(fn func()) {
	s.onStop = append(s.onStop, fn)
}

// Spawn adds a ball with the given state and returns its entity. Entity, ID
// and Escaped in b are ignored.
func (s *Simulation) Spawn(b BallState) ecs.Entity {
	pos := components.Position{X: b.X, Y: b.Y}
	vel := components.Velocity{X: b.VX, Y: b.VY}
	body := components.Body{ID: s.nextID, Radius: b.Radius, Gravity: b.Gravity}
	tint := components.Tint{
		R: float64(b.Color.R), G: float64(b.Color.G), B: float64(b.Color.B),
		DR: 1, DG: 1, DB: 1,
	}
	sprite := components.Sprite{Image: b.Image}
	s.nextID++

	e := s.mapper.NewEntity(&pos, &vel, &body, &tint, &sprite)
	s.population = append(s.population, e)
	return e
}

// Step advances every ball by one tick. A ball outgrowing the radius limit
// clears the whole population before Step returns.
func (s *Simulation) Step() systems.Events {
	ev := s.physics.Step(s.population, s.stepParams(), s.boundary)
	s.tick++
	if ev.Cleared {
		slog.Info("population cleared", "reason", "oversize", "balls", len(s.population), "tick", s.tick)
		s.clear()
		s.clears++
	}
	return ev
}

func (s *Simulation) stepParams() systems.Params {
	return systems.Params{
		Restitution: s.params.BounceRestitution,
		SizeGain:    s.params.SizeGain,
		MinRadius:   s.cfg.Physics.MinRadius,
		MaxRadius:   s.cfg.Physics.MaxRadius,
		Epsilon:     s.cfg.Physics.Epsilon,
	}
}

// Start marks the simulation active.
func (s *Simulation) Start() {
	if s.active {
		return
	}
	s.active = true
	slog.Info("simulation started", "balls", len(s.population))
}

// Stop deactivates the simulation and discards the population.
func (s *Simulation) Stop() {
	s.active = false
	s.clear()
	s.runStopHooks()
	slog.Info("simulation stopped")
}

// Reset restores the default parameters and discards the population. The
// active flag is unchanged.
func (s *Simulation) Reset() {
	s.params = DefaultParameters(s.cfg)
	s.clear()
	s.runStopHooks()
	slog.Info("simulation reset")
}

func (s *Simulation) runStopHooks() {
	for _, fn := range s.onStop {
		fn()
	}
}

// clear removes every ball from the world.
func (s *Simulation) clear() {
	for _, e := range s.population {
		s.world.RemoveEntity(e)
	}
	s.population = s.population[:0]
}

// Active reports whether the frame driver should keep stepping.
func (s *Simulation) Active() bool { return s.active }

// Params returns the current global parameters.
func (s *Simulation) Params() Parameters { return s.params }

// Boundary returns the containing circle.
func (s *Simulation) Boundary() systems.Boundary { return s.boundary }

// Len returns the population size.
func (s *Simulation) Len() int { return len(s.population) }

// Tick returns the number of steps taken.
func (s *Simulation) Tick() int32 { return s.tick }

// Clears returns how many times the population was cleared by an oversize ball.
func (s *Simulation) Clears() int { return s.clears }

// Get returns a copy of one ball's state.
func (s *Simulation) Get(e ecs.Entity) BallState {
	pos, vel, body, tint, sprite := s.mapper.Get(e)
	return BallState{
		Entity:  e,
		ID:      body.ID,
		X:       pos.X,
		Y:       pos.Y,
		VX:      vel.X,
		VY:      vel.Y,
		Radius:  body.Radius,
		Gravity: body.Gravity,
		Color: color.RGBA{
			R: channel(tint.R),
			G: channel(tint.G),
			B: channel(tint.B),
			A: 255,
		},
		Escaped: body.Escaped,
		Image:   sprite.Image,
	}
}

// Balls returns a copy of every ball in insertion order.
func (s *Simulation) Balls() []BallState {
	out := make([]BallState, len(s.population))
	for i, e := range s.population {
		out[i] = s.Get(e)
	}
	return out
}

func channel(c float64) uint8 {
	return uint8(math.Round(math.Min(math.Max(c, 0), 255)))
}
