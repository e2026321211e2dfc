package effects

import (
	"errors"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/pthm-cable/bounce/assets"
	"github.com/pthm-cable/bounce/config"
	"github.com/pthm-cable/bounce/systems"
)

type fakePlayer struct {
	restarts, plays, stops int
}

func (p *fakePlayer) Restart(*assets.Clip) { p.restarts++ }
func (p *fakePlayer) Play(*assets.Clip) { p.plays++ }
func (p *fakePlayer) Stop() { p.stops++ }

func testClip() *assets.Slot[*assets.Clip] {
	format := beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}
	buf := beep.NewBuffer(format)
	buf.Append(beep.Silence(441))
	return assets.Ready("click.wav", assets.NewClip(buf))
}

func collisions(n int) systems.Events {
	return systems.Events{Collisions: make([]systems.CollisionEvent, n)}
}

func TestCooldownWindow(t *testing.T) {
	base := time.Unix(1000, 0)
	ms := func(n int) time.Time { return base.Add(time.Duration(n) * time.Millisecond) }

	tests := []struct {
		name         string
		triggers     []time.Time
		wantPlayed   int
		wantSuppress int
	}{
		{"single", []time.Time{ms(0)}, 1, 0},
		{"spaced", []time.Time{ms(0), ms(200), ms(400)}, 3, 0},
		{"burst", []time.Time{ms(0), ms(50), ms(100)}, 1, 2},
		// Each suppressed trigger extends the window
		{"extended", []time.Time{ms(0), ms(150), ms(300), ms(500)}, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := &fakePlayer{}
			d := NewDispatcher(player, config.SoundShared, 200*time.Millisecond)
			d.SetClip(testClip())

			for _, at := range tt.triggers {
				if err := d.Trigger(at); err != nil {
					t.Fatalf("Trigger: %v", err)
				}
			}

			played, suppressed := d.TakeCounts()
			if played != tt.wantPlayed || suppressed != tt.wantSuppress {
				t.Errorf("played/suppressed = %d/%d, want %d/%d", played, suppressed, tt.wantPlayed, tt.wantSuppress)
			}
			if player.restarts != tt.wantPlayed {
				t.Errorf("restarts = %d, want %d", player.restarts, tt.wantPlayed)
			}
		})
	}
}

func TestPolicySelectsVoice(t *testing.T) {
	player := &fakePlayer{}
	d := NewDispatcher(player, config.SoundPerCollision, time.Millisecond)
	d.SetClip(testClip())

	now := time.Unix(0, 0)
	d.Dispatch(collisions(1), now)
	d.Dispatch(collisions(1), now.Add(time.Second))

	if player.plays != 2 || player.restarts != 0 {
		t.Errorf("plays/restarts = %d/%d, want 2/0", player.plays, player.restarts)
	}
}

func TestDispatchOneSoundPerStep(t *testing.T) {
	player := &fakePlayer{}
	d := NewDispatcher(player, "", 200*time.Millisecond)
	d.SetClip(testClip())

	d.Dispatch(collisions(4), time.Unix(0, 0))

	played, suppressed := d.TakeCounts()
	if played != 1 || suppressed != 3 {
		t.Errorf("played/suppressed = %d/%d, want 1/3", played, suppressed)
	}
	if played, suppressed = d.TakeCounts(); played != 0 || suppressed != 0 {
		t.Error("TakeCounts did not reset")
	}
}

func TestBouncesAreSilent(t *testing.T) {
	player := &fakePlayer{}
	d := NewDispatcher(player, config.SoundShared, 0)
	d.SetClip(testClip())

	d.Dispatch(systems.Events{Bounces: make([]systems.BounceEvent, 3)}, time.Unix(0, 0))

	if player.restarts != 0 {
		t.Errorf("wall bounces played %d sounds", player.restarts)
	}
}

func TestNoClipIsSilent(t *testing.T) {
	player := &fakePlayer{}
	d := NewDispatcher(player, config.SoundShared, 0)

	if err := d.Trigger(time.Unix(0, 0)); !errors.Is(err, ErrNoClip) {
		t.Errorf("err = %v, want ErrNoClip", err)
	}

	pending := assets.NewSlot[*assets.Clip]("pending.wav")
	d.SetClip(pending)
	d.Dispatch(collisions(2), time.Unix(0, 0))
	if player.restarts != 0 {
		t.Error("played before the clip was bound")
	}

	pending.Fail(errors.New("bad wav"))
	if err := d.Trigger(time.Unix(1, 0)); !errors.Is(err, ErrNoClip) {
		t.Errorf("failed slot: err = %v, want ErrNoClip", err)
	}
}

func TestStopReopensWindow(t *testing.T) {
	player := &fakePlayer{}
	d := NewDispatcher(player, config.SoundShared, time.Second)
	d.SetClip(testClip())

	now := time.Unix(0, 0)
	_ = d.Trigger(now)
	d.Stop()
	_ = d.Trigger(now.Add(10 * time.Millisecond))

	if player.stops != 1 {
		t.Errorf("stops = %d, want 1", player.stops)
	}
	if player.restarts != 2 {
		t.Errorf("restarts = %d, want 2 after Stop reopened the window", player.restarts)
	}
}

func TestNilPlayerCountsOnly(t *testing.T) {
	d := NewDispatcher(nil, config.SoundShared, 0)
	d.SetClip(testClip())
	d.Dispatch(collisions(1), time.Unix(0, 0))
	d.Stop()

	if played, _ := d.TakeCounts(); played != 1 {
		t.Errorf("played = %d, want 1", played)
	}
}
