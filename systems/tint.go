package systems

import "github.com/pthm-cable/bounce/components"

// AdvanceTint moves each colour channel one step along its triangle wave.
func AdvanceTint(t *components.Tint) {
	t.R, t.DR = stepChannel(t.R, t.DR)
	t.G, t.DG = stepChannel(t.G, t.DG)
	t.B, t.DB = stepChannel(t.B, t.DB)
}

// stepChannel adds the step and reflects at [0, 255].
func stepChannel(c, d float64) (float64, float64) {
	c += d
	switch {
	case c >= 255:
		c = 255
		if d > 0 {
			d = -d
		}
	case c <= 0:
		c = 0
		if d < 0 {
			d = -d
		}
	}
	return c, d
}
