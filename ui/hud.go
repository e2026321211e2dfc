package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bounce/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Variant string
	Balls   int
	Tick    int32
	Clears  int
	FPS     int32
	Active  bool
	Sound   string // name of the bound collision sound, empty if none
	Images  int
	Muted   bool
}

// HUD renders the status lines in the top right corner.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD right-aligned against screenWidth.
func (h *HUD) Draw(data HUDData, screenWidth int32) {
	t := h.renderer.Theme
	lines := []string{
		fmt.Sprintf("Balls: %d | Clears: %d", data.Balls, data.Clears),
		fmt.Sprintf("Tick: %d | FPS: %d", data.Tick, data.FPS),
		fmt.Sprintf("Sound: %s | Images: %d", soundLabel(data), data.Images),
	}

	y := t.Padding
	title := data.Variant
	if !data.Active {
		title += " (stopped)"
	}
	rl.DrawText(title, screenWidth-rl.MeasureText(title, t.HeaderFontSize)-t.Padding, y, t.HeaderFontSize, t.SectionHeader)
	y += t.LineHeight + 4
	for _, line := range lines {
		rl.DrawText(line, screenWidth-rl.MeasureText(line, t.FontSize)-t.Padding, y, t.FontSize, t.LabelColor)
		y += t.LineHeight
	}
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, h.renderer.Theme.MutedColor)
}

func soundLabel(data HUDData) string {
	switch {
	case data.Muted:
		return "muted"
	case data.Sound == "":
		return "none"
	}
	return data.Sound
}

// PerfPanel renders the per-phase frame timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	visible  bool
}

// NewPerfPanel creates a new performance panel, hidden until toggled.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Toggle switches panel visibility.
func (p *PerfPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	if !p.visible {
		return
	}
	x := p.x
	y := p.y

	rl.DrawText("Frame Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s (max %s)",
		stats.AvgTickDuration.Round(time.Microsecond), stats.MaxTickDuration.Round(time.Microsecond)),
		x, y, 14, rl.Yellow)
	y += 16

	for _, name := range telemetry.Phases() {
		avg := stats.PhaseAvg[name]
		pct := stats.PhasePct[name]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
