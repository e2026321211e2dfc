package ui

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bounce/config"
	"github.com/pthm-cable/bounce/renderer"
	"github.com/pthm-cable/bounce/sim"
)

// Controller is the set of simulation operations the panel drives.
type Controller interface {
	AddEntity() ecs.Entity
	Start()
	Stop()
	Reset()
	Active() bool
	Params() sim.Parameters
	AdjustParameter(name string, delta float64) error
}

// stepper pairs a readout with the parameter its -/+ buttons adjust.
type stepper struct {
	param string
	step  float64
}

// ControlsPanel renders the left-side control column.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	steppers []stepper
}

// NewControlsPanel creates a controls panel using the configured step sizes.
func NewControlsPanel(x, y, width int32, steps config.ControlsConfig) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		// Same order as renderer.Readouts
		steppers: []stepper{
			{param: sim.ParamGravity, step: steps.GravityStep},
			{param: sim.ParamBounceRestitution, step: steps.BounceStep},
			{param: sim.ParamSizeGain, step: steps.SizeStep},
		},
	}
}

// Draw renders the panel and applies any button pressed this frame to c.
func (p *ControlsPanel) Draw(c Controller) {
	if !c.Active() {
		p.drawStart(c)
		return
	}

	t := p.renderer.Theme
	row := t.ButtonHeight + t.ButtonGap
	height := t.Padding*2 + 2*row + int32(len(p.steppers))*(t.LineHeight+row)
	p.renderer.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + t.Padding
	x2 := x + t.ButtonWidth + t.ButtonGap
	y := p.y + t.Padding

	if p.button(x, y, t.ButtonWidth, "Back") {
		c.Stop()
		return
	}
	if p.button(x2, y, t.ButtonWidth, "Add ball") {
		c.AddEntity()
	}
	y += row

	if p.button(x, y, t.ButtonWidth, "Reset") {
		c.Reset()
	}
	if p.button(x2, y, t.ButtonWidth, toggleText(c.Params().HasTrail, "Trail: on", "Trail: off")) {
		p.adjust(c, sim.ParamHasTrail, 1)
	}
	y += row

	small := (t.ButtonWidth - t.ButtonGap) / 2
	for i, line := range renderer.Readouts(c.Params()) {
		y = p.renderer.DrawValue(x, y, line)
		s := p.steppers[i]
		if p.button(x, y, small, "-") {
			p.adjust(c, s.param, -s.step)
		}
		if p.button(x+small+t.ButtonGap, y, small, "+") {
			p.adjust(c, s.param, s.step)
		}
		y += row
	}
}

// drawStart renders the landing panel shown while the simulation is stopped.
func (p *ControlsPanel) drawStart(c Controller) {
	t := p.renderer.Theme
	p.renderer.DrawPanel(p.x, p.y, p.width, t.Padding*2+t.ButtonHeight+t.ButtonGap+2*t.LineHeight)

	x := p.x + t.Padding
	y := p.y + t.Padding
	if p.button(x, y, t.ButtonWidth, "Start") {
		c.Start()
	}
	y += t.ButtonHeight + t.ButtonGap
	rl.DrawText("Drop a .wav sound and", x, y, t.FontSize-2, t.MutedColor)
	rl.DrawText("images on the window", x, y+t.LineHeight, t.FontSize-2, t.MutedColor)
}

func (p *ControlsPanel) button(x, y, width int32, text string) bool {
	bounds := rl.Rectangle{
		X:      float32(x),
		Y:      float32(y),
		Width:  float32(width),
		Height: float32(p.renderer.Theme.ButtonHeight),
	}
	return gui.Button(bounds, text)
}

func (p *ControlsPanel) adjust(c Controller, param string, delta float64) {
	if err := c.AdjustParameter(param, delta); err != nil {
		slog.Warn("adjusting parameter", "param", param, "error", err)
	}
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
