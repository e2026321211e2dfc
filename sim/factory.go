package sim

import (
	"image"
	"image/color"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bounce/assets"
)

// SetImages replaces the image slots handed out to new balls. Existing
// balls keep the slot they were given.
func (s *Simulation) SetImages(slots []*assets.Slot[image.Image]) {
	s.images = slots
	slog.Info("images configured", "count", len(slots), "multi_image", s.multiImage)
}

// AddEntity spawns a ball in the region above the boundary centre with a
// small random velocity, a random colour and the current global gravity.
func (s *Simulation) AddEntity() ecs.Entity {
	sc := s.cfg.Spawn
	c := s.boundary.Center

	b := BallState{
		X:       c.X + sc.OffsetXMin + s.rng.Float64()*sc.OffsetXSpan,
		Y:       c.Y + sc.OffsetY,
		VX:      sc.SpeedMin + s.rng.Float64()*sc.SpeedSpan,
		VY:      sc.SpeedMin + s.rng.Float64()*sc.SpeedSpan,
		Radius:  sc.Radius,
		Gravity: s.params.Gravity,
		Color: color.RGBA{
			R: uint8(s.rng.Intn(256)),
			G: uint8(s.rng.Intn(256)),
			B: uint8(s.rng.Intn(256)),
			A: 255,
		},
		Image: s.nextImage(),
	}
	return s.Spawn(b)
}

// nextImage picks the image for the next ball: round-robin over all slots,
// or always the first one when the variant shows a single image.
func (s *Simulation) nextImage() *assets.Slot[image.Image] {
	if len(s.images) == 0 {
		return nil
	}
	if !s.multiImage {
		return s.images[0]
	}
	return s.images[int(s.nextID)%len(s.images)]
}
