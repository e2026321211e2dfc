package game

import (
	"log/slog"

	"github.com/pthm-cable/bounce/telemetry"
)

// flushTelemetry emits a stats window once enough ticks have passed.
func (g *Game) flushTelemetry() {
	tick := g.sim.Tick()
	if !g.collector.ShouldFlush(tick) {
		return
	}

	stats := g.collector.Flush(tick, g.sim.Balls())
	perfStats := g.perfCollector.Stats()

	if g.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// writeFrame dumps the headless canvas as a PNG every FrameEvery ticks.
func (g *Game) writeFrame() error {
	if g.canvas == nil || g.opts.FrameDir == "" || g.opts.FrameEvery <= 0 {
		return nil
	}
	tick := g.sim.Tick()
	if tick%int32(g.opts.FrameEvery) != 0 {
		return nil
	}
	return g.canvas.WritePNG(telemetry.FramePath(g.opts.FrameDir, tick))
}
