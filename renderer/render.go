// Package renderer draws the simulation onto a drawing surface. Render is a
// pure function of the simulation state; it never feeds back into physics.
package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/bounce/sim"
	"github.com/pthm-cable/bounce/systems"
)

// Drawing constants
const (
	BoundaryWidth = 3.0
	OutlineWidth  = 1.0
)

var (
	Background = color.RGBA{A: 255}
	White      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Surface is a 2D drawing target with the origin at the top left and y
// pointing down. Angles are in radians, measured clockwise on screen from +X.
type Surface interface {
	Size() (width, height int)
	Clear(c color.RGBA)
	StrokeCircle(center r2.Vec, radius, width float64, c color.RGBA)
	// StrokeArc strokes the arc from angle from to angle to, with from < to.
	StrokeArc(center r2.Vec, radius, width, from, to float64, c color.RGBA)
	FillCircle(center r2.Vec, radius float64, c color.RGBA)
	// DrawImage draws img scaled to a size x size square centred on center.
	DrawImage(img image.Image, center r2.Vec, size float64)
	DrawText(x, y int, text string, size int, c color.RGBA)
}

// State is the read-only view of a simulation the renderer needs.
type State interface {
	Balls() []sim.BallState
	Params() sim.Parameters
	Boundary() systems.Boundary
}

// Render draws one frame. The surface is cleared first unless trails are
// on, in which case earlier frames stay visible.
func Render(s Surface, st State) {
	if !st.Params().HasTrail {
		s.Clear(Background)
	}
	DrawBoundary(s, st.Boundary())
	for _, b := range st.Balls() {
		DrawBall(s, b)
	}
}

// DrawBoundary strokes the containing circle, leaving the gap open if it
// has one.
func DrawBoundary(s Surface, b systems.Boundary) {
	if b.Gap <= 0 {
		s.StrokeCircle(b.Center, b.Radius, BoundaryWidth, White)
		return
	}
	s.StrokeArc(b.Center, b.Radius, BoundaryWidth, 0, 2*math.Pi-b.Gap, White)
}

// DrawBall fills a ball in its tint, outlines it, and overlays its image
// once the image has loaded.
func DrawBall(s Surface, b sim.BallState) {
	c := r2.Vec{X: b.X, Y: b.Y}
	s.FillCircle(c, b.Radius, b.Color)
	s.StrokeCircle(c, b.Radius, OutlineWidth, White)
	if img, ok := b.Image.Get(); ok {
		s.DrawImage(img, c, 2*b.Radius)
	}
}

// Readouts returns the control panel labels for p.
func Readouts(p sim.Parameters) []string {
	return []string{
		fmt.Sprintf("Gravity: %.1f", p.Gravity),
		fmt.Sprintf("Bounce gain: %.2f", p.BounceGain()),
		fmt.Sprintf("Size gain: %.1f", p.SizeGain),
	}
}

// DrawReadouts writes the parameter labels down the left edge.
func DrawReadouts(s Surface, p sim.Parameters, x, y, size int) {
	for i, line := range Readouts(p) {
		s.DrawText(x, y+i*(size+6), line, size, White)
	}
}
