package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bounce/config"
	"github.com/pthm-cable/bounce/game"
	"github.com/pthm-cable/bounce/sim"
)

// pathList collects a repeatable path flag.
type pathList []string

func (p *pathList) String() string { return strings.Join(*p, ",") }

func (p *pathList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	variant := flag.String("variant", "", "Toy variant: grow or escape (empty = use config)")
	headless := flag.Bool("headless", false, "Run without graphics")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	soundPath := flag.String("sound", "", "WAV file played on collisions")
	var imagePaths pathList
	flag.Var(&imagePaths, "image", "Image drawn over balls (repeatable)")
	balls := flag.Int("balls", 0, "Balls to add before starting")
	frameDir := flag.String("frame-dir", "", "Headless: directory for PNG frames")
	frameEvery := flag.Int("frame-every", 0, "Headless: write every Nth frame (0 = none)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	mute := flag.Bool("mute", false, "Disable sound output")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *variant != "" {
		if err := cfg.SetVariant(*variant); err != nil {
			slog.Error("invalid variant", "error", err)
			os.Exit(1)
		}
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	if *frameDir != "" {
		if err := os.MkdirAll(*frameDir, 0755); err != nil {
			slog.Error("creating frame directory", "error", err)
			os.Exit(1)
		}
	}

	opts := game.Options{
		Seed:           rngSeed,
		Headless:       *headless,
		Mute:           *mute,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		FrameDir:       *frameDir,
		FrameEvery:     *frameEvery,
	}

	var files []string
	if *soundPath != "" {
		files = append(files, *soundPath)
	}
	files = append(files, imagePaths...)

	if *headless {
		if err := runHeadless(cfg, opts, files, *balls, *maxTicks); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Derived.Variant.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer g.Unload()

	g.LoadFiles(files)
	for i := 0; i < *balls; i++ {
		g.Sim().AddEntity()
	}

	for !rl.WindowShouldClose() {
		if err := g.Update(); err != nil {
			slog.Error("frame failed", "error", err)
			return
		}
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}

// runHeadless steps the simulation on a software canvas until it stops,
// maxTicks is reached or the process is interrupted.
func runHeadless(cfg *config.Config, opts game.Options, files []string, balls, maxTicks int) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, err := game.NewGame(cfg, opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	// Frames should show the assets from the first tick
	g.LoadFiles(files)
	if err := g.WaitAssets(ctx); err != nil {
		slog.Warn("some assets failed to load", "error", err)
	}

	s := g.Sim()
	for i := 0; i < balls; i++ {
		s.AddEntity()
	}
	s.Start()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"variant", cfg.Variant,
		"balls", balls,
		"max_ticks", maxTicks,
	)

	runner := sim.Runner{Sim: s, MaxTicks: maxTicks}
	err = runner.Run(ctx, g.Frame)
	slog.Info("headless simulation finished", "tick", g.Tick(), "balls", s.Len(), "clears", s.Clears())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
