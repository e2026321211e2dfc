package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/bounce/config"
)

func TestComputeFitnessAtTarget(t *testing.T) {
	cfg := config.Default()
	fe := NewFitnessEvaluator(NewParamVector(), cfg, []int64{1}, 10, 1200, 3, 0)
	fe.targetTicks = 600

	onTarget := fe.computeFitness(runResult{clearTicks: fe.targetTicks})
	if math.Abs(onTarget) > 1e-12 {
		t.Errorf("fitness at target with no collisions = %v, want 0", onTarget)
	}

	early := fe.computeFitness(runResult{clearTicks: fe.targetTicks / 4})
	late := fe.computeFitness(runResult{clearTicks: fe.targetTicks * 4})
	if math.Abs(early-late) > 1e-9 {
		t.Errorf("log error should be symmetric: early %v, late %v", early, late)
	}
	if early <= onTarget {
		t.Errorf("missing the target should score worse: %v <= %v", early, onTarget)
	}

	lively := fe.computeFitness(runResult{clearTicks: fe.targetTicks, collisions: 1000})
	if lively >= onTarget {
		t.Errorf("collisions should lower fitness: %v >= %v", lively, onTarget)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	cfg := config.Default()
	pv := NewParamVector()
	seeds := []int64{42, 1042}

	a := NewFitnessEvaluator(pv, cfg, seeds, 5, 600, 4, 1)
	b := NewFitnessEvaluator(pv, cfg, seeds, 5, 600, 4, 1)

	x := pv.DefaultVector()
	fa, fb := a.Evaluate(x), b.Evaluate(x)
	if fa != fb {
		t.Errorf("same seeds gave different fitness: %v vs %v", fa, fb)
	}
	if math.IsNaN(fa) || math.IsInf(fa, 0) {
		t.Errorf("fitness = %v, want finite", fa)
	}
	if c := a.LastClearSec(); c <= 0 || c > 10 {
		t.Errorf("mean clear time = %vs, want within the 10s cap", c)
	}
	if cfg.Physics.Gravity != 0.4 {
		t.Error("Evaluate modified the base config")
	}
}
