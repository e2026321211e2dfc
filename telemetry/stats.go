package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Balls int `csv:"balls"`

	// Events during window
	Collisions       int `csv:"collisions"`
	Bounces          int `csv:"bounces"`
	Escapes          int `csv:"escapes"`
	Clears           int `csv:"clears"`
	SoundsPlayed     int `csv:"sounds_played"`
	SoundsSuppressed int `csv:"sounds_suppressed"`

	// Size distribution (sampled at window end)
	RadiusMean float64 `csv:"radius_mean"`
	RadiusP50  float64 `csv:"radius_p50"`
	RadiusP90  float64 `csv:"radius_p90"`
	RadiusMax  float64 `csv:"radius_max"`

	// Motion (sampled at window end)
	SpeedMean     float64 `csv:"speed_mean"`
	SpeedStd      float64 `csv:"speed_std"`
	KineticEnergy float64 `csv:"kinetic_energy"` // unit mass per ball
}

// Percentile returns the p-th empirical quantile of a sorted slice, p in
// [0, 1]. Returns 0 if the slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeRadiusStats calculates mean, median, p90 and max of the radii.
func ComputeRadiusStats(values []float64) (mean, p50, p90, largest float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	largest = sorted[len(sorted)-1]
	return mean, p50, p90, largest
}

// ComputeSpeedStats calculates the mean and sample standard deviation.
func ComputeSpeedStats(values []float64) (mean, std float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}

// KineticEnergy sums v²/2 over the given speeds.
func KineticEnergy(speeds []float64) float64 {
	return 0.5 * floats.Dot(speeds, speeds)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("balls", s.Balls),
		slog.Int("collisions", s.Collisions),
		slog.Int("bounces", s.Bounces),
		slog.Int("escapes", s.Escapes),
		slog.Int("clears", s.Clears),
		slog.Int("sounds_played", s.SoundsPlayed),
		slog.Int("sounds_suppressed", s.SoundsSuppressed),
		slog.Float64("radius_mean", s.RadiusMean),
		slog.Float64("radius_p50", s.RadiusP50),
		slog.Float64("radius_p90", s.RadiusP90),
		slog.Float64("radius_max", s.RadiusMax),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("kinetic_energy", s.KineticEnergy),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"balls", s.Balls,
		"collisions", s.Collisions,
		"bounces", s.Bounces,
		"escapes", s.Escapes,
		"clears", s.Clears,
		"sounds_played", s.SoundsPlayed,
		"sounds_suppressed", s.SoundsSuppressed,
		"radius_mean", s.RadiusMean,
		"radius_p90", s.RadiusP90,
		"radius_max", s.RadiusMax,
		"speed_mean", s.SpeedMean,
		"kinetic_energy", s.KineticEnergy,
	)
}
