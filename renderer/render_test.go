package renderer

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/bounce/assets"
	"github.com/pthm-cable/bounce/sim"
	"github.com/pthm-cable/bounce/systems"
)

type call struct {
	op     string
	radius float64
	from   float64
	to     float64
	size   float64
}

// recorder is a Surface that remembers what was drawn.
type recorder struct {
	calls []call
}

func (r *recorder) Size() (int, int) { return 800, 600 }
func (r *recorder) Clear(c color.RGBA) { r.calls = append(r.calls, call{op: "clear"}) }
func (r *recorder) StrokeCircle(_ r2.Vec, radius, _ float64, _ color.RGBA) {
	r.calls = append(r.calls, call{op: "stroke", radius: radius})
}
func (r *recorder) StrokeArc(_ r2.Vec, radius, _, from, to float64, _ color.RGBA) {
	r.calls = append(r.calls, call{op: "arc", radius: radius, from: from, to: to})
}
func (r *recorder) FillCircle(_ r2.Vec, radius float64, _ color.RGBA) {
	r.calls = append(r.calls, call{op: "fill", radius: radius})
}
func (r *recorder) DrawImage(_ image.Image, _ r2.Vec, size float64) {
	r.calls = append(r.calls, call{op: "image", size: size})
}
func (r *recorder) DrawText(int, int, string, int, color.RGBA) {
	r.calls = append(r.calls, call{op: "text"})
}

func (r *recorder) count(op string) int {
	n := 0
	for _, c := range r.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

type fakeState struct {
	balls    []sim.BallState
	params   sim.Parameters
	boundary systems.Boundary
}

func (s fakeState) Balls() []sim.BallState { return s.balls }
func (s fakeState) Params() sim.Parameters { return s.params }
func (s fakeState) Boundary() systems.Boundary { return s.boundary }

var testBoundary = systems.Boundary{Center: r2.Vec{X: 400, Y: 300}, Radius: 150}

func TestRenderClearsUnlessTrail(t *testing.T) {
	tests := []struct {
		name      string
		trail     bool
		wantClear int
	}{
		{"no trail", false, 1},
		{"trail", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			Render(r, fakeState{params: sim.Parameters{HasTrail: tt.trail}, boundary: testBoundary})
			if got := r.count("clear"); got != tt.wantClear {
				t.Errorf("clears = %d, want %d", got, tt.wantClear)
			}
		})
	}
}

func TestRenderBoundaryGap(t *testing.T) {
	r := &recorder{}
	b := testBoundary
	b.Gap = 0.1 * math.Pi
	Render(r, fakeState{boundary: b})

	if r.count("arc") != 1 || r.count("stroke") != 0 {
		t.Fatalf("calls = %+v, want a single arc", r.calls)
	}
	for _, c := range r.calls {
		if c.op == "arc" && (c.from != 0 || math.Abs(c.to-1.9*math.Pi) > 1e-12) {
			t.Errorf("arc = [%v, %v], want [0, 1.9π]", c.from, c.to)
		}
	}
}

func TestRenderBalls(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	bound := assets.Ready[image.Image]("face.png", img)
	pending := assets.NewSlot[image.Image]("later.png")

	st := fakeState{
		boundary: testBoundary,
		balls: []sim.BallState{
			{X: 400, Y: 300, Radius: 5},
			{X: 420, Y: 300, Radius: 8, Image: bound},
			{X: 440, Y: 300, Radius: 6, Image: pending},
		},
	}
	r := &recorder{}
	Render(r, st)

	if got := r.count("fill"); got != 3 {
		t.Errorf("fills = %d, want 3", got)
	}
	// Boundary plus one outline per ball
	if got := r.count("stroke"); got != 4 {
		t.Errorf("strokes = %d, want 4", got)
	}
	if got := r.count("image"); got != 1 {
		t.Fatalf("images = %d, want 1 (only the bound slot)", got)
	}
	for _, c := range r.calls {
		if c.op == "image" && c.size != 16 {
			t.Errorf("image size = %v, want diameter 16", c.size)
		}
	}
}

func TestReadouts(t *testing.T) {
	p := sim.Parameters{Gravity: 0.4, BounceRestitution: 2.01, SizeGain: 0.5}
	want := []string{"Gravity: 0.4", "Bounce gain: 0.01", "Size gain: 0.5"}

	got := Readouts(p)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("readout %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCanvasFillAndStroke(t *testing.T) {
	c := NewCanvas(100, 100)
	red := color.RGBA{R: 255, A: 255}
	center := r2.Vec{X: 50, Y: 50}

	c.FillCircle(center, 20, red)
	c.StrokeCircle(center, 20, 3, White)

	img := c.Image()
	if got := img.RGBAAt(50, 50); got != red {
		t.Errorf("centre = %+v, want red", got)
	}
	if got := img.RGBAAt(70, 50); got != White {
		t.Errorf("outline = %+v, want white", got)
	}
	if got := img.RGBAAt(5, 5); got != Background {
		t.Errorf("corner = %+v, want background", got)
	}
}

func TestCanvasArcLeavesGap(t *testing.T) {
	c := NewCanvas(400, 400)
	center := r2.Vec{X: 200, Y: 200}
	gap := 0.5 * math.Pi
	c.StrokeArc(center, 150, 5, 0, 2*math.Pi-gap, White)

	img := c.Image()
	// Screen angle π/2 points down: drawn
	if got := img.RGBAAt(200, 350); got != White {
		t.Errorf("closed wall pixel = %+v, want white", got)
	}
	// Screen angle -π/4 lies inside the gap
	p := r2.Add(center, r2.Scale(150, r2.Vec{X: math.Cos(-math.Pi / 4), Y: math.Sin(-math.Pi / 4)}))
	if got := img.RGBAAt(int(p.X), int(p.Y)); got != Background {
		t.Errorf("gap pixel = %+v, want background", got)
	}
	if got := img.RGBAAt(200, 200); got != Background {
		t.Errorf("centre = %+v, want background", got)
	}
}

func TestCanvasTrailKeepsPixels(t *testing.T) {
	c := NewCanvas(100, 100)
	st := fakeState{
		params:   sim.Parameters{HasTrail: true},
		boundary: systems.Boundary{Center: r2.Vec{X: 50, Y: 50}, Radius: 45},
		balls:    []sim.BallState{{X: 30, Y: 50, Radius: 5, Color: color.RGBA{G: 255, A: 255}}},
	}
	Render(c, st)

	st.balls[0].X = 70
	Render(c, st)

	green := color.RGBA{G: 255, A: 255}
	if got := c.Image().RGBAAt(30, 50); got != green {
		t.Errorf("earlier frame pixel = %+v, want it kept", got)
	}

	st.params.HasTrail = false
	Render(c, st)
	if got := c.Image().RGBAAt(30, 50); got != Background {
		t.Errorf("pixel after clear = %+v, want background", got)
	}
}

func TestCanvasDrawImage(t *testing.T) {
	c := NewCanvas(100, 100)
	src := image.NewUniform(color.RGBA{B: 255, A: 255})
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, src.C)
		}
	}

	c.DrawImage(img, r2.Vec{X: 50, Y: 50}, 20)

	if got := c.Image().RGBAAt(50, 50); got.B < 250 {
		t.Errorf("image centre = %+v, want blue", got)
	}
	if got := c.Image().RGBAAt(70, 50); got != Background {
		t.Errorf("outside image = %+v, want background", got)
	}
}

func TestCanvasWritePNG(t *testing.T) {
	c := NewCanvas(32, 16)
	DrawReadouts(c, sim.Parameters{Gravity: 0.4}, 0, 0, 13)

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := c.WritePNG(path); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding written frame: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 16 {
		t.Errorf("frame size = %dx%d, want 32x16", b.Dx(), b.Dy())
	}
}
