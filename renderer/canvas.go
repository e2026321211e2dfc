package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/spatial/r2"
)

// Canvas is a software Surface backed by an RGBA image. It keeps its pixels
// between frames, so trails work without extra bookkeeping.
type Canvas struct {
	img *image.RGBA
	z   *vector.Rasterizer
}

// NewCanvas creates a canvas of the given size, cleared to the background.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
		z:   vector.NewRasterizer(width, height),
	}
	c.Clear(Background)
	return c
}

// Image returns the canvas pixels.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Size returns the canvas dimensions.
func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Clear fills the whole canvas with col.
func (c *Canvas) Clear(col color.RGBA) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// FillCircle fills a disc.
func (c *Canvas) FillCircle(center r2.Vec, radius float64, col color.RGBA) {
	if radius <= 0 {
		return
	}
	c.begin()
	c.arc(center, radius, 0, 2*math.Pi, true)
	c.z.ClosePath()
	c.fill(col)
}

// StrokeCircle draws a ring of the given line width centred on radius.
func (c *Canvas) StrokeCircle(center r2.Vec, radius, width float64, col color.RGBA) {
	c.StrokeArc(center, radius, width, 0, 2*math.Pi, col)
}

// StrokeArc draws the band between radius-width/2 and radius+width/2 from
// angle from to angle to.
func (c *Canvas) StrokeArc(center r2.Vec, radius, width, from, to float64, col color.RGBA) {
	outer := radius + width/2
	inner := math.Max(radius-width/2, 0)
	if outer <= 0 || to <= from {
		return
	}

	c.begin()
	full := to-from >= 2*math.Pi
	if full {
		// Two closed loops of opposite winding leave the inner disc empty
		c.arc(center, outer, from, to, true)
		c.z.ClosePath()
		if inner > 0 {
			c.arc(center, inner, to, from, true)
			c.z.ClosePath()
		}
	} else {
		c.arc(center, outer, from, to, true)
		c.arc(center, inner, to, from, false)
		c.z.ClosePath()
	}
	c.fill(col)
}

// DrawImage scales img into the square of side size centred on center.
func (c *Canvas) DrawImage(img image.Image, center r2.Vec, size float64) {
	if size < 1 {
		return
	}
	half := size / 2
	dst := image.Rect(
		int(math.Round(center.X-half)),
		int(math.Round(center.Y-half)),
		int(math.Round(center.X+half)),
		int(math.Round(center.Y+half)),
	)
	xdraw.CatmullRom.Scale(c.img, dst, img, img.Bounds(), xdraw.Over, nil)
}

// DrawText writes text with its top-left corner at (x, y). The canvas has a
// single bitmap face, so size only affects line placement by callers.
func (c *Canvas) DrawText(x, y int, text string, size int, col color.RGBA) {
	face := basicfont.Face7x13
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Ascent),
	}
	d.DrawString(text)
}

// WritePNG saves the canvas to path.
func (c *Canvas) WritePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating frame file: %w", err)
	}
	if err := png.Encode(f, c.img); err != nil {
		f.Close()
		return fmt.Errorf("encoding frame: %w", err)
	}
	return f.Close()
}

func (c *Canvas) begin() {
	b := c.img.Bounds()
	c.z.Reset(b.Dx(), b.Dy())
}

func (c *Canvas) fill(col color.RGBA) {
	c.z.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
}

// arc appends a polyline approximation of the arc between angles a0 and a1
// (either order). With move set it starts a new subpath; otherwise it
// continues the current one. The caller closes the path.
func (c *Canvas) arc(center r2.Vec, radius, a0, a1 float64, move bool) {
	n := segments(radius, math.Abs(a1-a0))
	for i := 0; i <= n; i++ {
		a := a0 + (a1-a0)*float64(i)/float64(n)
		x := float32(center.X + radius*math.Cos(a))
		y := float32(center.Y + radius*math.Sin(a))
		if i == 0 && move {
			c.z.MoveTo(x, y)
		} else {
			c.z.LineTo(x, y)
		}
	}
}

// segments picks a polygon resolution fine enough that the chord error
// stays well under a pixel.
func segments(radius, sweep float64) int {
	n := int(math.Ceil(sweep / (2 * math.Pi) * math.Max(24, 2*math.Pi*radius/3)))
	if n < 4 {
		n = 4
	}
	return n
}
