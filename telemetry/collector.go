package telemetry

import (
	"github.com/pthm-cable/bounce/sim"
	"github.com/pthm-cable/bounce/systems"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	collisions       int
	bounces          int
	escapes          int
	clears           int
	soundsPlayed     int
	soundsSuppressed int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordStep counts the events of one step.
func (c *Collector) RecordStep(ev systems.Events) {
	c.collisions += len(ev.Collisions)
	c.bounces += len(ev.Bounces)
	c.escapes += len(ev.Escapes)
	if ev.Cleared {
		c.clears++
	}
}

// RecordSounds adds played and suppressed sound triggers.
func (c *Collector) RecordSounds(played, suppressed int) {
	c.soundsPlayed += played
	c.soundsSuppressed += suppressed
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the counters and the population as it
// is at window end, then resets counters for the next window.
func (c *Collector) Flush(currentTick int32, balls []sim.BallState) WindowStats {
	radii := make([]float64, len(balls))
	speeds := make([]float64, len(balls))
	for i, b := range balls {
		radii[i] = b.Radius
		speeds[i] = b.Speed()
	}
	radiusMean, radiusP50, radiusP90, radiusMax := ComputeRadiusStats(radii)
	speedMean, speedStd := ComputeSpeedStats(speeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Balls: len(balls),

		Collisions:       c.collisions,
		Bounces:          c.bounces,
		Escapes:          c.escapes,
		Clears:           c.clears,
		SoundsPlayed:     c.soundsPlayed,
		SoundsSuppressed: c.soundsSuppressed,

		RadiusMean: radiusMean,
		RadiusP50:  radiusP50,
		RadiusP90:  radiusP90,
		RadiusMax:  radiusMax,

		SpeedMean:     speedMean,
		SpeedStd:      speedStd,
		KineticEnergy: KineticEnergy(speeds),
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.collisions = 0
	c.bounces = 0
	c.escapes = 0
	c.clears = 0
	c.soundsPlayed = 0
	c.soundsSuppressed = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
