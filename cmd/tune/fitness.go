package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/bounce/config"
	"github.com/pthm-cable/bounce/sim"
)

// Quality settings. Quality rewards runs with frequent ball-ball contacts,
// which is when the toy makes sound.
const (
	qualityWeight       = 0.2
	targetCollisionRate = 2.0 // collisions per second for ~63% quality
)

// FitnessEvaluator runs simulations without a surface and scores how close
// the time to the first clear comes to the target.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	targetTicks int32
	balls       int
	addEvery    int32 // add one more ball every N ticks, 0 = never
	seeds       []int64
	baseConfig  *config.Config

	mu          sync.Mutex
	lastQuality float64
	lastClear   float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, seeds []int64, targetSec float64, maxTicks int32, balls int, addEverySec float64) *FitnessEvaluator {
	dt := baseCfg.Derived.DT
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		targetTicks: int32(math.Max(targetSec/dt, 1)),
		balls:       balls,
		addEvery:    int32(addEverySec / dt),
		seeds:       seeds,
		baseConfig:  baseCfg,
	}
}

// LastQuality returns the mean quality from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastClearSec returns the mean time to first clear from the most recent
// evaluation, in simulation seconds.
func (fe *FitnessEvaluator) LastClearSec() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastClear
}

// runResult holds the results from a single simulation run.
type runResult struct {
	clearTicks int32 // ticks until the first clear, or maxTicks
	cleared    bool
	collisions int
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	// Seeds run in parallel; each owns its simulation
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality, totalClear float64
	for _, r := range results {
		totalFitness += fe.computeFitness(r)
		totalQuality += fe.computeQuality(r)
		totalClear += float64(r.clearTicks) * cfg.Derived.DT
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.lastClear = totalClear / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation steps one simulation until its population first clears or
// maxTicks is reached.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) runResult {
	s := sim.New(cfg, seed)
	for i := 0; i < fe.balls; i++ {
		s.AddEntity()
	}
	s.Start()

	var result runResult
	for s.Tick() < fe.maxTicks {
		if fe.addEvery > 0 && s.Tick() > 0 && s.Tick()%fe.addEvery == 0 {
			s.AddEntity()
		}
		ev := s.Step()
		result.collisions += len(ev.Collisions)
		if ev.Cleared {
			result.clearTicks = s.Tick()
			result.cleared = true
			return result
		}
	}
	result.clearTicks = fe.maxTicks
	return result
}

// copyConfig returns a copy of the base config that parameters can be
// applied to. Variants is shared; nothing here writes to it.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness is the squared log error of the clear time against the
// target, less the quality bonus.
func (fe *FitnessEvaluator) computeFitness(r runResult) float64 {
	ticks := math.Max(float64(r.clearTicks), 1)
	logErr := math.Log(ticks / float64(fe.targetTicks))
	return logErr*logErr - qualityWeight*fe.computeQuality(r)
}

// computeQuality maps the collision rate over the run into [0, 1).
func (fe *FitnessEvaluator) computeQuality(r runResult) float64 {
	if r.clearTicks <= 0 {
		return 0
	}
	sec := float64(r.clearTicks) * fe.baseConfig.Derived.DT
	rate := float64(r.collisions) / sec
	return 1 - math.Exp(-rate/targetCollisionRate)
}
