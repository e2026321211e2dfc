// Package effects turns stepper events into rate-limited collision sounds.
package effects

import (
	"errors"
	"log/slog"
	"time"

	"github.com/pthm-cable/bounce/assets"
	"github.com/pthm-cable/bounce/config"
	"github.com/pthm-cable/bounce/systems"
)

// ErrNoClip is returned by Trigger when no sound has been bound yet.
var ErrNoClip = errors.New("no collision sound bound")

// Player plays decoded clips. Restart plays the single shared voice from the
// beginning, cutting off anything it was playing; Play starts an
// independent voice that may overlap others.
type Player interface {
	Restart(clip *assets.Clip)
	Play(clip *assets.Clip)
	Stop()
}

// Dispatcher plays the collision sound for ball-ball contacts. A trigger at
// time t plays only if t is at or after the end of the quiet window, and
// every trigger, played or not, moves the window to t + cooldown.
type Dispatcher struct {
	player   Player
	policy   string
	cooldown time.Duration
	clip     *assets.Slot[*assets.Clip]

	quietUntil time.Time
	played     int
	suppressed int
}

// NewDispatcher creates a dispatcher. A nil player still runs the rate
// limiter and counters but produces no sound.
func NewDispatcher(player Player, policy string, cooldown time.Duration) *Dispatcher {
	if policy == "" {
		policy = config.SoundShared
	}
	return &Dispatcher{
		player:   player,
		policy:   policy,
		cooldown: cooldown,
	}
}

// SetClip binds the collision sound. The slot may still be loading; until it
// is bound, collisions are silent.
func (d *Dispatcher) SetClip(slot *assets.Slot[*assets.Clip]) {
	d.clip = slot
	slog.Info("collision sound set", "name", slot.Name(), "policy", d.policy)
}

// Dispatch reacts to the events of one step. Wall bounces and escapes make
// no sound.
func (d *Dispatcher) Dispatch(ev systems.Events, now time.Time) {
	for range ev.Collisions {
		if err := d.Trigger(now); err != nil {
			return
		}
	}
}

// Trigger handles one collision at time now and reports ErrNoClip while no
// sound is bound.
func (d *Dispatcher) Trigger(now time.Time) error {
	clip, ok := d.clip.Get()
	if !ok {
		return ErrNoClip
	}

	play := !now.Before(d.quietUntil)
	d.quietUntil = now.Add(d.cooldown)
	if !play {
		d.suppressed++
		return nil
	}

	d.played++
	if d.player == nil {
		return nil
	}
	if d.policy == config.SoundPerCollision {
		d.player.Play(clip)
	} else {
		d.player.Restart(clip)
	}
	return nil
}

// Stop silences anything playing and reopens the quiet window.
func (d *Dispatcher) Stop() {
	d.quietUntil = time.Time{}
	if d.player != nil {
		d.player.Stop()
	}
}

// TakeCounts returns the played and suppressed trigger counts since the
// previous call and resets them.
func (d *Dispatcher) TakeCounts() (played, suppressed int) {
	played, suppressed = d.played, d.suppressed
	d.played, d.suppressed = 0, 0
	return played, suppressed
}
