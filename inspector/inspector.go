// Package inspector shows the live state of one ball picked with the mouse.
package inspector

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bounce/assets"
	"github.com/pthm-cable/bounce/camera"
	"github.com/pthm-cable/bounce/sim"
)

// Panel dimensions
const (
	PanelWidth   = 220
	PanelPadding = 10
	HeaderHeight = 26
	LineHeight   = 18

	// Extra pick radius in world units so small balls are easy to hit
	hitSlack = 5
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorText        = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorHighlight   = rl.Color{R: 255, G: 200, B: 100, A: 255}
)

// Inspector manages ball selection and panel rendering.
type Inspector struct {
	selected    ecs.Entity
	hasSelected bool
	panelX      int32
	panelY      int32
}

// NewInspector creates an inspector whose panel sits on the right edge,
// below the HUD.
func NewInspector(screenWidth int32) *Inspector {
	ins := &Inspector{panelY: 100}
	ins.Resize(screenWidth)
	return ins
}

// Resize keeps the panel against the right edge.
func (ins *Inspector) Resize(screenWidth int32) {
	ins.panelX = screenWidth - PanelWidth - 10
}

// HandleInput selects the ball under a left click and deselects on right
// click. Clicks on the panel itself are ignored.
func (ins *Inspector) HandleInput(mouseX, mouseY float32, cam *camera.Camera, balls []sim.BallState) {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		ins.Deselect()
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	mx, my := int32(mouseX), int32(mouseY)
	if ins.hasSelected {
		closeX := ins.panelX + PanelWidth - 25
		closeY := ins.panelY + 3
		if mx >= closeX && mx <= closeX+20 && my >= closeY && my <= closeY+20 {
			ins.Deselect()
			return
		}
		if mx >= ins.panelX && mx <= ins.panelX+PanelWidth && my >= ins.panelY && my <= ins.panelY+ins.panelHeight() {
			return
		}
	}

	if !cam.Contains(mouseX, mouseY) {
		return
	}
	wx, wy := cam.ScreenToWorld(mouseX, mouseY)
	if e, ok := sim.Pick(balls, float64(wx), float64(wy), hitSlack); ok {
		ins.selected = e
		ins.hasSelected = true
	}
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the currently selected entity.
func (ins *Inspector) Selected() (ecs.Entity, bool) {
	return ins.selected, ins.hasSelected
}

// Draw renders the highlight ring and the panel for the selected ball. A
// ball that has left the population deselects itself.
func (ins *Inspector) Draw(cam *camera.Camera, balls []sim.BallState) {
	if !ins.hasSelected {
		return
	}
	b, ok := sim.Find(balls, ins.selected)
	if !ok {
		ins.Deselect()
		return
	}

	sx, sy := cam.WorldToScreen(float32(b.X), float32(b.Y))
	r := float32(b.Radius) * cam.Zoom
	rl.DrawRing(rl.Vector2{X: sx, Y: sy}, r+3, r+5, 0, 360, 0, ColorHighlight)

	height := ins.panelHeight()
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(height)},
		1,
		ColorPanelBorder,
	)

	// Header
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(fmt.Sprintf("BALL #%d", b.ID), ins.panelX+PanelPadding, ins.panelY+6, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 3
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding
	for _, line := range fields(b) {
		rl.DrawText(line, x, y, 14, ColorText)
		y += LineHeight
	}

	// Colour swatch
	rl.DrawRectangle(x, y+2, 40, 14, b.Color)
	rl.DrawRectangleLines(x, y+2, 40, 14, rl.White)
}

func (ins *Inspector) panelHeight() int32 {
	rows := int32(len(fields(sim.BallState{}))) + 1 // +1 for the swatch
	return HeaderHeight + 2*PanelPadding + rows*LineHeight
}

// fields formats the ball state shown in the panel.
func fields(b sim.BallState) []string {
	image := "none"
	if b.Image != nil {
		image = b.Image.Name()
		switch err := b.Image.Err(); {
		case errors.Is(err, assets.ErrPending):
			image += " (loading)"
		case err != nil:
			image += " (failed)"
		}
	}
	escaped := "no"
	if b.Escaped {
		escaped = "yes"
	}
	return []string{
		fmt.Sprintf("Position: (%.0f, %.0f)", b.X, b.Y),
		fmt.Sprintf("Velocity: (%.2f, %.2f)", b.VX, b.VY),
		fmt.Sprintf("Speed: %.2f", b.Speed()),
		fmt.Sprintf("Radius: %.1f", b.Radius),
		fmt.Sprintf("Gravity: %.2f", b.Gravity),
		fmt.Sprintf("Escaped: %s", escaped),
		fmt.Sprintf("Image: %s", image),
	}
}
