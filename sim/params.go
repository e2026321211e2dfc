package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/bounce/config"
)

// Parameter names accepted by SetParameter and AdjustParameter.
const (
	ParamGravity           = "gravity"
	ParamBounceRestitution = "bounceRestitution"
	ParamSizeGain          = "sizeGain"
	ParamHasTrail          = "hasTrail"
)

// ErrUnknownParameter is returned for a parameter name the simulation does not know.
var ErrUnknownParameter = errors.New("unknown parameter")

// Parameters are the process-wide values changed by the controls.
type Parameters struct {
	Gravity           float64
	BounceRestitution float64 // >2 gains energy on every wall hit
	SizeGain          float64
	HasTrail          bool
}

// DefaultParameters returns the configured starting parameters for the
// active variant.
func DefaultParameters(cfg *config.Config) Parameters {
	return Parameters{
		Gravity:           cfg.Physics.Gravity,
		BounceRestitution: cfg.Physics.BounceRestitution,
		SizeGain:          cfg.Physics.SizeGain,
		HasTrail:          cfg.Derived.Variant.HasTrail,
	}
}

// BounceGain is the restitution in excess of a mirror reflection, as shown
// by the "Bounce gain" readout.
func (p Parameters) BounceGain() float64 {
	return p.BounceRestitution - 2
}

// SetParameter sets a global parameter. Setting gravity also overwrites the
// per-ball gravity of every existing ball. Values below a parameter's floor
// are raised to it; for hasTrail any non-zero value turns trails on.
func (s *Simulation) SetParameter(name string, value float64) error {
	switch name {
	case ParamGravity:
		g := math.Max(value, 0)
		s.params.Gravity = g
		for _, e := range s.population {
			s.bodyMap.Get(e).Gravity = g
		}
	case ParamBounceRestitution:
		s.params.BounceRestitution = math.Max(value, s.cfg.Physics.MinRestitution)
	case ParamSizeGain:
		s.params.SizeGain = math.Max(value, s.cfg.Physics.MinSizeGain)
	case ParamHasTrail:
		s.params.HasTrail = value != 0
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	return nil
}

// AdjustParameter nudges a parameter by delta, the way the +/- controls do.
// Gravity is adjusted per ball, each clamped at zero independently, so balls
// keep their individual offsets.
func (s *Simulation) AdjustParameter(name string, delta float64) error {
	switch name {
	case ParamGravity:
		s.params.Gravity = math.Max(s.params.Gravity+delta, 0)
		for _, e := range s.population {
			body := s.bodyMap.Get(e)
			body.Gravity = math.Max(body.Gravity+delta, 0)
		}
		return nil
	case ParamBounceRestitution:
		return s.SetParameter(name, s.params.BounceRestitution+delta)
	case ParamSizeGain:
		return s.SetParameter(name, s.params.SizeGain+delta)
	case ParamHasTrail:
		if delta != 0 {
			s.params.HasTrail = !s.params.HasTrail
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
}
