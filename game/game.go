// Package game wires the simulation, effects, telemetry and drawing surfaces
// into a frame loop, with a raylib window front-end and a headless mode.
package game

import (
	"context"
	"image"
	"log/slog"
	"time"

	"github.com/gopxl/beep"

	"github.com/pthm-cable/bounce/assets"
	"github.com/pthm-cable/bounce/audio"
	"github.com/pthm-cable/bounce/camera"
	"github.com/pthm-cable/bounce/config"
	"github.com/pthm-cable/bounce/effects"
	"github.com/pthm-cable/bounce/inspector"
	"github.com/pthm-cable/bounce/renderer"
	"github.com/pthm-cable/bounce/sim"
	"github.com/pthm-cable/bounce/telemetry"
	"github.com/pthm-cable/bounce/ui"
)

// Options configures game behavior.
type Options struct {
	Seed           int64
	Headless       bool
	Mute           bool
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	FrameDir       string // headless only: write PNG frames here
	FrameEvery     int    // write every Nth frame; 0 disables
}

// Game holds one simulation and everything attached to it.
type Game struct {
	cfg  *config.Config
	sim  *sim.Simulation
	opts Options

	loader     *assets.Loader
	speaker    *audio.Speaker // nil when muted or headless
	dispatcher *effects.Dispatcher
	sound      *assets.Slot[*assets.Clip]
	images     []*assets.Slot[image.Image]

	// Drawing: exactly one of canvas and window is set
	surface renderer.Surface
	canvas  *renderer.Canvas
	window  *rlSurface

	cam       *camera.Camera
	hud       *ui.HUD
	controls  *ui.ControlsPanel
	inspector *inspector.Inspector
	perfPanel *ui.PerfPanel
	screenW   int32
	screenH   int32

	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager

	// Headless runs use simulation time for the sound cooldown so runs
	// with the same seed produce the same counts.
	epoch time.Time
}

// NewGame creates a game. In windowed mode the raylib window must already
// be open.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	if opts.StatsWindowSec <= 0 {
		opts.StatsWindowSec = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		cfg:           cfg,
		sim:           sim.New(cfg, opts.Seed),
		opts:          opts,
		loader:        assets.NewLoader(cfg.Assets.DecodeConcurrency, slog.Default()),
		collector:     telemetry.NewCollector(opts.StatsWindowSec, cfg.Derived.DT),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		epoch:         time.Unix(0, 0),
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, err
	}

	var player effects.Player
	if !opts.Headless && !opts.Mute {
		spk := audio.NewSpeaker(beep.SampleRate(cfg.Audio.SampleRate))
		bufferLen := time.Duration(cfg.Audio.BufferMS) * time.Millisecond
		if err := spk.Initialize(bufferLen); err != nil {
			// Run silent rather than fail
			slog.Warn("audio unavailable", "error", err)
		} else {
			g.speaker = spk
			player = spk
		}
	}
	g.dispatcher = effects.NewDispatcher(player, cfg.Derived.Variant.SoundPolicy, cfg.Derived.SoundCooldown)

	if opts.Headless {
		g.canvas = renderer.NewCanvas(cfg.Screen.Width, cfg.Screen.Height)
		g.surface = g.canvas
	} else {
		g.window = newRLSurface(cfg.Screen.Width, cfg.Screen.Height)
		g.surface = g.window
		g.screenW, g.screenH = int32(cfg.Screen.Width), int32(cfg.Screen.Height)
		g.cam = camera.New(float32(g.screenW), float32(g.screenH), float32(cfg.Screen.Width), float32(cfg.Screen.Height))
		g.hud = ui.NewHUD()
		g.controls = ui.NewControlsPanel(10, 10, 230, cfg.Controls)
		g.inspector = inspector.NewInspector(g.screenW)
		g.perfPanel = ui.NewPerfPanel(10, g.screenH-110)
	}

	g.sim.OnStop(g.dispatcher.Stop)
	g.sim.OnStop(func() { g.surface.Clear(renderer.Background) })
	g.surface.Clear(renderer.Background)

	return g, nil
}

// Sim returns the simulation the game drives.
func (g *Game) Sim() *sim.Simulation {
	return g.sim
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.sim.Tick()
}

// Frame runs one step of the simulation: physics, collision sounds,
// telemetry and drawing.
func (g *Game) Frame() error {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseStep)
	ev := g.sim.Step()

	g.perfCollector.StartPhase(telemetry.PhaseEffects)
	g.dispatcher.Dispatch(ev, g.now())
	played, suppressed := g.dispatcher.TakeCounts()

	g.perfCollector.StartPhase(telemetry.PhaseRender)
	g.render()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordStep(ev)
	g.collector.RecordSounds(played, suppressed)
	g.flushTelemetry()
	err := g.writeFrame()

	g.perfCollector.EndTick()
	return err
}

func (g *Game) render() {
	if g.window != nil {
		g.window.begin()
		defer g.window.end()
	}
	renderer.Render(g.surface, g.sim)
}

func (g *Game) now() time.Time {
	if g.opts.Headless {
		return g.epoch.Add(time.Duration(float64(g.sim.Tick()) * g.cfg.Derived.DT * float64(time.Second)))
	}
	return time.Now()
}

// WaitAssets blocks until every started asset load settles. Failed loads
// are already logged; the joined error is returned for the caller to report.
func (g *Game) WaitAssets(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- g.loader.Wait() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unload releases audio, GPU resources and output files.
func (g *Game) Unload() {
	if g.speaker != nil {
		g.speaker.Cleanup()
	}
	if g.window != nil {
		g.window.unload()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("closing output", "error", err)
	}
}
