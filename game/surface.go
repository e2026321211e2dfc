package game

import (
	"image"
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/bounce/camera"
)

// rlSurface draws into an off-screen render texture that persists across
// frames, so trail mode keeps earlier frames under double buffering.
type rlSurface struct {
	width, height int
	target        rl.RenderTexture2D
	drawing       bool

	// Textures uploaded for decoded images, keyed by the decoded image
	textures map[image.Image]rl.Texture2D
}

func newRLSurface(width, height int) *rlSurface {
	return &rlSurface{
		width:    width,
		height:   height,
		target:   rl.LoadRenderTexture(int32(width), int32(height)),
		textures: make(map[image.Image]rl.Texture2D),
	}
}

func (s *rlSurface) begin() {
	rl.BeginTextureMode(s.target)
	s.drawing = true
}

func (s *rlSurface) end() {
	rl.EndTextureMode()
	s.drawing = false
}

// within runs fn with the render texture bound, binding it if needed.
func (s *rlSurface) within(fn func()) {
	if s.drawing {
		fn()
		return
	}
	s.begin()
	fn()
	s.end()
}

func (s *rlSurface) Size() (int, int) {
	return s.width, s.height
}

// Clear may be called outside a frame, e.g. from a stop hook.
func (s *rlSurface) Clear(c color.RGBA) {
	s.within(func() { rl.ClearBackground(c) })
}

func (s *rlSurface) StrokeCircle(center r2.Vec, radius, width float64, c color.RGBA) {
	s.StrokeArc(center, radius, width, 0, 2*math.Pi, c)
}

func (s *rlSurface) StrokeArc(center r2.Vec, radius, width, from, to float64, c color.RGBA) {
	inner := math.Max(radius-width/2, 0)
	outer := radius + width/2
	s.within(func() {
		// Zero segments lets raylib choose the count from the radius
		rl.DrawRing(vec2(center), float32(inner), float32(outer), deg(from), deg(to), 0, c)
	})
}

func (s *rlSurface) FillCircle(center r2.Vec, radius float64, c color.RGBA) {
	s.within(func() { rl.DrawCircleV(vec2(center), float32(radius), c) })
}

func (s *rlSurface) DrawImage(img image.Image, center r2.Vec, size float64) {
	tex := s.texture(img)
	src := rl.Rectangle{Width: float32(tex.Width), Height: float32(tex.Height)}
	dst := rl.Rectangle{
		X:      float32(center.X - size/2),
		Y:      float32(center.Y - size/2),
		Width:  float32(size),
		Height: float32(size),
	}
	s.within(func() { rl.DrawTexturePro(tex, src, dst, rl.Vector2{}, 0, rl.White) })
}

func (s *rlSurface) DrawText(x, y int, text string, size int, c color.RGBA) {
	s.within(func() { rl.DrawText(text, int32(x), int32(y), int32(size), c) })
}

// present draws the render texture into the camera's viewport. Render
// textures are stored bottom-up, hence the negative source height.
func (s *rlSurface) present(cam *camera.Camera) {
	tex := s.target.Texture
	src := rl.Rectangle{Width: float32(tex.Width), Height: -float32(tex.Height)}
	x, y, w, h := cam.Viewport()
	dst := rl.Rectangle{X: x, Y: y, Width: w, Height: h}
	rl.DrawTexturePro(tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// texture returns the GPU texture for img, uploading it on first use.
func (s *rlSurface) texture(img image.Image) rl.Texture2D {
	if tex, ok := s.textures[img]; ok {
		return tex
	}
	cpu := rl.NewImageFromImage(img)
	tex := rl.LoadTextureFromImage(cpu)
	rl.UnloadImage(cpu)
	rl.SetTextureFilter(tex, rl.FilterBilinear)
	s.textures[img] = tex
	return tex
}

func (s *rlSurface) unload() {
	for img, tex := range s.textures {
		rl.UnloadTexture(tex)
		delete(s.textures, img)
	}
	rl.UnloadRenderTexture(s.target)
}

func vec2(v r2.Vec) rl.Vector2 {
	return rl.Vector2{X: float32(v.X), Y: float32(v.Y)}
}

func deg(rad float64) float32 {
	return float32(rad * 180 / math.Pi)
}
