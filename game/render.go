package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bounce/ui"
)

// Update processes input and advances the simulation one frame while it
// is active.
func (g *Game) Update() error {
	g.handleInput()
	if !g.sim.Active() {
		return nil
	}
	return g.Frame()
}

// Draw presents the arena and draws the controls over it. Buttons pressed
// here take effect immediately.
func (g *Game) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(rl.Black)
	g.window.present(g.cam)

	g.inspector.Draw(g.cam, g.sim.Balls())
	g.controls.Draw(g.sim)
	g.hud.Draw(g.hudData(), g.screenW)
	g.hud.DrawControls(g.screenH, controlsLegend)
	g.perfPanel.Draw(g.perfCollector.Stats())

	g.perfCollector.RecordFrame()
}

func (g *Game) hudData() ui.HUDData {
	data := ui.HUDData{
		Variant: g.cfg.Variant,
		Balls:   g.sim.Len(),
		Tick:    g.sim.Tick(),
		Clears:  g.sim.Clears(),
		FPS:     rl.GetFPS(),
		Active:  g.sim.Active(),
		Images:  len(g.images),
		Muted:   g.speaker == nil,
	}
	if _, ok := g.sound.Get(); ok {
		data.Sound = g.sound.Name()
	}
	return data
}
