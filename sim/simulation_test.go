package sim

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/pthm-cable/bounce/assets"
	"github.com/pthm-cable/bounce/config"
)

func newTestSim(t *testing.T, yaml string) *Simulation {
	t.Helper()
	cfg := config.Default()
	if yaml != "" {
		var err error
		cfg, err = config.Parse([]byte(yaml))
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
	}
	return New(cfg, 1)
}

func TestAddEntitySpawnRegion(t *testing.T) {
	s := newTestSim(t, "")

	for i := 0; i < 50; i++ {
		b := s.Get(s.AddEntity())
		if b.X < 300 || b.X >= 460 {
			t.Errorf("x = %v, want in [300, 460)", b.X)
		}
		if b.Y != 200 {
			t.Errorf("y = %v, want 200", b.Y)
		}
		if b.Radius != 5 {
			t.Errorf("radius = %v, want 5", b.Radius)
		}
		if b.VX < 0.5 || b.VX >= 1 || b.VY < 0.5 || b.VY >= 1 {
			t.Errorf("velocity = (%v, %v), want each in [0.5, 1)", b.VX, b.VY)
		}
		if b.Gravity != 0.4 {
			t.Errorf("gravity = %v, want 0.4", b.Gravity)
		}
		if b.Image != nil {
			t.Error("image bound with no slots configured")
		}
	}
	if s.Len() != 50 {
		t.Errorf("Len() = %d, want 50", s.Len())
	}
}

func TestAddEntityIDsAreUnique(t *testing.T) {
	s := newTestSim(t, "")
	seen := make(map[uint32]bool)
	for i := 0; i < 20; i++ {
		id := s.Get(s.AddEntity()).ID
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
}

func TestAddEntityImageAssignment(t *testing.T) {
	slots := []*assets.Slot[image.Image]{
		assets.NewSlot[image.Image]("a"),
		assets.NewSlot[image.Image]("b"),
		assets.NewSlot[image.Image]("c"),
	}

	tests := []struct {
		name string
		yaml string
		want []string
	}{
		{"round robin", "", []string{"a", "b", "c", "a", "b"}},
		{"single image", "variant: escape\n", []string{"a", "a", "a", "a", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSim(t, tt.yaml)
			s.SetImages(slots)
			for i, want := range tt.want {
				got := s.Get(s.AddEntity()).Image.Name()
				if got != want {
					t.Errorf("ball %d image = %q, want %q", i, got, want)
				}
			}
		})
	}
}

func TestSetParameter(t *testing.T) {
	tests := []struct {
		name  string
		param string
		value float64
		check func(Parameters) bool
	}{
		{"gravity", ParamGravity, 1.2, func(p Parameters) bool { return p.Gravity == 1.2 }},
		{"gravity floor", ParamGravity, -3, func(p Parameters) bool { return p.Gravity == 0 }},
		{"restitution", ParamBounceRestitution, 2.5, func(p Parameters) bool { return p.BounceRestitution == 2.5 }},
		{"restitution floor", ParamBounceRestitution, 1.0, func(p Parameters) bool { return p.BounceRestitution == 1.5 }},
		{"size gain", ParamSizeGain, -2, func(p Parameters) bool { return p.SizeGain == -2 }},
		{"size gain floor", ParamSizeGain, -10, func(p Parameters) bool { return p.SizeGain == -5 }},
		{"trail on", ParamHasTrail, 1, func(p Parameters) bool { return p.HasTrail }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSim(t, "")
			if err := s.SetParameter(tt.param, tt.value); err != nil {
				t.Fatalf("SetParameter: %v", err)
			}
			if !tt.check(s.Params()) {
				t.Errorf("unexpected parameters %+v", s.Params())
			}
		})
	}
}

func TestSetParameterUnknown(t *testing.T) {
	s := newTestSim(t, "")
	err := s.SetParameter("friction", 1)
	if !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("err = %v, want ErrUnknownParameter", err)
	}
	if err := s.AdjustParameter("friction", 1); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("adjust err = %v, want ErrUnknownParameter", err)
	}
}

func TestSetGravityAppliesToExistingBalls(t *testing.T) {
	s := newTestSim(t, "")
	s.AddEntity()
	s.AddEntity()

	if err := s.SetParameter(ParamGravity, 0.9); err != nil {
		t.Fatal(err)
	}
	for _, ball := range s.Balls() {
		if ball.Gravity != 0.9 {
			t.Errorf("ball %d gravity = %v, want 0.9", ball.ID, ball.Gravity)
		}
	}
	if got := s.Get(s.AddEntity()).Gravity; got != 0.9 {
		t.Errorf("new ball gravity = %v, want 0.9", got)
	}
}

func TestAdjustGravityClampsPerBall(t *testing.T) {
	s := newTestSim(t, "")
	low := s.Spawn(BallState{X: 400, Y: 300, Radius: 5, Gravity: 0.05})
	high := s.Spawn(BallState{X: 420, Y: 300, Radius: 5, Gravity: 0.6})

	if err := s.AdjustParameter(ParamGravity, -0.1); err != nil {
		t.Fatal(err)
	}

	if g := s.Get(low).Gravity; g != 0 {
		t.Errorf("low ball gravity = %v, want clamped to 0", g)
	}
	if g := s.Get(high).Gravity; math.Abs(g-0.5) > 1e-12 {
		t.Errorf("high ball gravity = %v, want 0.5", g)
	}
	if g := s.Params().Gravity; math.Abs(g-0.3) > 1e-12 {
		t.Errorf("global gravity = %v, want 0.3", g)
	}
}

func TestAdjustBounceAndSize(t *testing.T) {
	s := newTestSim(t, "")
	for i := 0; i < 100; i++ {
		if err := s.AdjustParameter(ParamBounceRestitution, -0.01); err != nil {
			t.Fatal(err)
		}
		if err := s.AdjustParameter(ParamSizeGain, -0.1); err != nil {
			t.Fatal(err)
		}
	}
	p := s.Params()
	if p.BounceRestitution != 1.5 {
		t.Errorf("restitution = %v, want floor 1.5", p.BounceRestitution)
	}
	if p.SizeGain != -5 {
		t.Errorf("size gain = %v, want floor -5", p.SizeGain)
	}

	if err := s.AdjustParameter(ParamHasTrail, 1); err != nil {
		t.Fatal(err)
	}
	if !s.Params().HasTrail {
		t.Error("trail toggle did not turn trails on")
	}
}

func TestBounceGainReadout(t *testing.T) {
	p := DefaultParameters(config.Default())
	if math.Abs(p.BounceGain()-0.01) > 1e-12 {
		t.Errorf("BounceGain() = %v, want 0.01", p.BounceGain())
	}
}

func TestStopClearsAndRunsHooks(t *testing.T) {
	s := newTestSim(t, "")
	var hooks int
	s.OnStop(func() { hooks++ })

	s.Start()
	s.AddEntity()
	s.AddEntity()
	s.Stop()

	if s.Active() {
		t.Error("simulation still active after Stop")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after Stop, want 0", s.Len())
	}
	if hooks != 1 {
		t.Errorf("stop hooks ran %d times, want 1", hooks)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	s := newTestSim(t, "")
	s.Start()
	s.AddEntity()
	if err := s.SetParameter(ParamGravity, 2); err != nil {
		t.Fatal(err)
	}
	if err := s.SetParameter(ParamHasTrail, 1); err != nil {
		t.Fatal(err)
	}

	s.Reset()
	first := s.Params()
	firstLen := s.Len()
	s.Reset()

	if s.Params() != first || s.Len() != firstLen {
		t.Errorf("second Reset changed state: %+v/%d -> %+v/%d", first, firstLen, s.Params(), s.Len())
	}
	if first != DefaultParameters(config.Default()) {
		t.Errorf("Reset params = %+v, want defaults", first)
	}
	if firstLen != 0 {
		t.Errorf("Len() = %d after Reset, want 0", firstLen)
	}
	if !s.Active() {
		t.Error("Reset should not change the active flag")
	}
}

func TestStepClearsOnOversizeBall(t *testing.T) {
	s := newTestSim(t, "")
	s.AddEntity()
	s.Spawn(BallState{X: 400, Y: 300, Radius: 199.8})

	ev := s.Step()

	if !ev.Cleared {
		t.Error("expected Cleared event")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after clear", s.Len())
	}
	if s.Clears() != 1 {
		t.Errorf("Clears() = %d, want 1", s.Clears())
	}

	// The world is usable again after a clear
	e := s.AddEntity()
	if s.Get(e).Radius != 5 {
		t.Error("spawn after clear produced a bad ball")
	}
}

func TestStepInvariants(t *testing.T) {
	s := newTestSim(t, "")
	for i := 0; i < 20; i++ {
		s.AddEntity()
	}

	bnd := s.Boundary()
	for step := 0; step < 2000; step++ {
		if step%100 == 0 {
			s.AddEntity()
		}
		ev := s.Step()
		if ev.Cleared {
			continue
		}
		for _, b := range s.Balls() {
			if b.Radius <= 0 {
				t.Fatalf("step %d: radius %v <= 0", step, b.Radius)
			}
			if math.IsNaN(b.X) || math.IsNaN(b.Y) || math.IsNaN(b.VX) || math.IsNaN(b.VY) {
				t.Fatalf("step %d: NaN in ball %+v", step, b)
			}
			if b.Radius > bnd.Radius {
				continue
			}
			d := math.Hypot(b.X-bnd.Center.X, b.Y-bnd.Center.Y)
			if d+b.Radius > bnd.Radius+1e-6 {
				t.Fatalf("step %d: ball %d penetrates, d+r = %v", step, b.ID, d+b.Radius)
			}
		}
	}
}

func TestSpawnKeepsColour(t *testing.T) {
	s := newTestSim(t, "")
	e := s.Spawn(BallState{X: 400, Y: 300, Radius: 5, Color: color.RGBA{R: 10, G: 200, B: 30, A: 255}})
	got := s.Get(e).Color
	if got.R != 10 || got.G != 200 || got.B != 30 {
		t.Errorf("colour = %+v, want (10, 200, 30)", got)
	}
}

func TestRunnerStopsWhenInactive(t *testing.T) {
	s := newTestSim(t, "")
	s.Start()
	r := &Runner{Sim: s}

	frames := 0
	err := r.Run(context.Background(), func() error {
		frames++
		s.Step()
		if frames == 5 {
			s.Stop()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if frames != 5 {
		t.Errorf("frames = %d, want 5", frames)
	}
}

func TestRunnerMaxTicksAndErrors(t *testing.T) {
	s := newTestSim(t, "")
	s.Start()

	frames := 0
	r := &Runner{Sim: s, MaxTicks: 7}
	if err := r.Run(context.Background(), func() error { frames++; return nil }); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if frames != 7 {
		t.Errorf("frames = %d, want 7", frames)
	}

	boom := errors.New("boom")
	r = &Runner{Sim: s}
	if err := r.Run(context.Background(), func() error { return boom }); !errors.Is(err, boom) {
		t.Errorf("err = %v, want frame error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Run(ctx, func() error { return nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRunnerInactiveDoesNothing(t *testing.T) {
	s := newTestSim(t, "")
	r := &Runner{Sim: s}
	called := false
	if err := r.Run(context.Background(), func() error { called = true; return nil }); err != nil {
		t.Fatal(err)
	}
	if called {
		t.Error("frame ran while simulation inactive")
	}
}
