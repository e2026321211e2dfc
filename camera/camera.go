// Package camera maps the fixed-size arena onto a resizable window.
package camera

// Camera letterboxes a world of fixed size into a viewport: the world is
// scaled uniformly to the largest size that fits and centred, leaving bars
// on the sides or top and bottom.
type Camera struct {
	// Zoom is screen pixels per world unit
	Zoom float32

	// Screen position of the world origin
	OffsetX, OffsetY float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World dimensions (arena surface size)
	WorldW, WorldH float32
}

// New creates a camera fitting a worldW x worldH world into the viewport.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		WorldW: worldW,
		WorldH: worldH,
	}
	c.Resize(viewportW, viewportH)
	return c
}

// Resize updates the viewport and refits the world into it.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH

	c.Zoom = 1
	if c.WorldW > 0 && c.WorldH > 0 && viewportW > 0 && viewportH > 0 {
		c.Zoom = min(viewportW/c.WorldW, viewportH/c.WorldH)
	}
	c.OffsetX = (viewportW - c.WorldW*c.Zoom) / 2
	c.OffsetY = (viewportH - c.WorldH*c.Zoom) / 2
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	return c.OffsetX + wx*c.Zoom, c.OffsetY + wy*c.Zoom
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	return (sx - c.OffsetX) / c.Zoom, (sy - c.OffsetY) / c.Zoom
}

// Contains reports whether the screen point lies over the world.
func (c *Camera) Contains(sx, sy float32) bool {
	wx, wy := c.ScreenToWorld(sx, sy)
	return wx >= 0 && wy >= 0 && wx < c.WorldW && wy < c.WorldH
}

// Viewport returns the screen rectangle the world is drawn into.
func (c *Camera) Viewport() (x, y, w, h float32) {
	return c.OffsetX, c.OffsetY, c.WorldW * c.Zoom, c.WorldH * c.Zoom
}
