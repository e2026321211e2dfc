// Package ui draws the window controls and heads-up display over the arena.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	MutedColor    rl.Color

	Padding        int32
	LineHeight     int32
	ButtonWidth    int32
	ButtonHeight   int32
	ButtonGap      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.White,
		MutedColor:     rl.Gray,
		Padding:        10,
		LineHeight:     18,
		ButtonWidth:    100,
		ButtonHeight:   24,
		ButtonGap:      6,
		FontSize:       14,
		HeaderFontSize: 16,
	}
}
