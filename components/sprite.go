package components

import (
	"image"

	"github.com/pthm-cable/bounce/assets"
)

// Sprite holds the image drawn over a ball. A nil or unbound slot draws nothing.
type Sprite struct {
	Image *assets.Slot[image.Image]
}
