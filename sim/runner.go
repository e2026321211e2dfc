package sim

import (
	"context"
)

// Runner drives a simulation one frame at a time until it is stopped.
type Runner struct {
	Sim *Simulation

	// MaxTicks ends the run after that many frames; 0 means unlimited.
	MaxTicks int
}

// Run calls frame once per iteration while the simulation is active. The
// active flag is checked before every frame, so Stop called from inside
// frame ends the run after that frame. Run returns the context error if
// ctx is cancelled, or the first error returned by frame.
func (r *Runner) Run(ctx context.Context, frame func() error) error {
	for n := 0; r.MaxTicks == 0 || n < r.MaxTicks; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !r.Sim.Active() {
			return nil
		}
		if err := frame(); err != nil {
			return err
		}
	}
	return nil
}
