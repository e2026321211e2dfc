package game

import (
	"log/slog"
	"path/filepath"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/gopxl/beep"

	"github.com/pthm-cable/bounce/assets"
	"github.com/pthm-cable/bounce/sim"
)

const controlsLegend = "Enter: start/back | Space: add ball | R: reset | T: trail | Up/Down: gravity | Left/Right: bounce | [ ]: size | P: perf"

// handleInput processes window size changes, dropped files, ball
// selection and keyboard shortcuts.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.perfPanel.Toggle()
	}

	if rl.IsFileDropped() {
		paths := rl.LoadDroppedFiles()
		rl.UnloadDroppedFiles()
		g.LoadFiles(paths)
	}

	mouse := rl.GetMousePosition()
	g.inspector.HandleInput(mouse.X, mouse.Y, g.cam, g.sim.Balls())

	if rl.IsKeyPressed(rl.KeyEnter) {
		if g.sim.Active() {
			g.sim.Stop()
		} else {
			g.sim.Start()
		}
	}
	if !g.sim.Active() {
		return
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.sim.AddEntity()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.sim.Reset()
	}

	steps := g.cfg.Controls
	keys := []struct {
		key   int32
		param string
		delta float64
	}{
		{rl.KeyT, sim.ParamHasTrail, 1},
		{rl.KeyUp, sim.ParamGravity, steps.GravityStep},
		{rl.KeyDown, sim.ParamGravity, -steps.GravityStep},
		{rl.KeyRight, sim.ParamBounceRestitution, steps.BounceStep},
		{rl.KeyLeft, sim.ParamBounceRestitution, -steps.BounceStep},
		{rl.KeyRightBracket, sim.ParamSizeGain, steps.SizeStep},
		{rl.KeyLeftBracket, sim.ParamSizeGain, -steps.SizeStep},
	}
	for _, k := range keys {
		if !rl.IsKeyPressed(k.key) {
			continue
		}
		if err := g.sim.AdjustParameter(k.param, k.delta); err != nil {
			slog.Warn("adjusting parameter", "param", k.param, "error", err)
		}
	}
}

// handleResize refits the arena when the window size changes, including
// fullscreen toggles.
func (g *Game) handleResize() {
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == g.screenW && h == g.screenH {
		return
	}
	g.screenW = w
	g.screenH = h

	g.cam.Resize(float32(w), float32(h))
	g.inspector.Resize(w)
	g.perfPanel.SetPosition(10, h-110)
}

// LoadFiles starts decoding the given files in the background. A .wav file
// becomes the collision sound; anything else is taken as an image. A new set
// of images replaces the old one for balls added from now on.
func (g *Game) LoadFiles(paths []string) {
	var images []assets.Blob
	for _, path := range paths {
		blob, err := assets.ReadFile(path)
		if err != nil {
			slog.Error("loading asset", "path", path, "error", err)
			continue
		}
		if strings.EqualFold(filepath.Ext(path), ".wav") {
			g.sound = g.loader.LoadSound(blob, g.sampleRate())
			g.dispatcher.SetClip(g.sound)
			continue
		}
		images = append(images, blob)
	}

	if len(images) > 0 {
		g.images = g.loader.LoadImages(images)
		g.sim.SetImages(g.images)
	}
}

func (g *Game) sampleRate() beep.SampleRate {
	if g.speaker != nil {
		return g.speaker.SampleRate()
	}
	return beep.SampleRate(g.cfg.Audio.SampleRate)
}
