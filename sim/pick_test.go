package sim

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bounce/config"
)

func TestPick(t *testing.T) {
	s := New(config.Default(), 1)
	small := s.Spawn(BallState{X: 100, Y: 100, Radius: 2})
	big := s.Spawn(BallState{X: 130, Y: 100, Radius: 20})
	overlap := s.Spawn(BallState{X: 140, Y: 100, Radius: 20})
	balls := s.Balls()
	var none ecs.Entity

	tests := []struct {
		name   string
		x, y   float64
		want   ecs.Entity
		wantOK bool
	}{
		{"slack hits small ball", 105, 100, small, true},
		{"inside big ball", 125, 100, big, true},
		{"nearest centre wins", 139, 100, overlap, true},
		{"empty space", 300, 300, none, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Pick(balls, tt.x, tt.y, 5)
			if ok != tt.wantOK {
				t.Fatalf("Pick(%v, %v) ok = %v, want %v", tt.x, tt.y, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Pick(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestFind(t *testing.T) {
	s := New(config.Default(), 1)
	e := s.Spawn(BallState{X: 10, Y: 20, Radius: 5})

	b, ok := Find(s.Balls(), e)
	if !ok || b.X != 10 || b.Y != 20 {
		t.Fatalf("Find = %+v, %v", b, ok)
	}

	s.Stop()
	if _, ok := Find(s.Balls(), e); ok {
		t.Error("found a ball after the population was cleared")
	}
}
