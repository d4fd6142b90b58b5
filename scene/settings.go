package scene

import "image/color"

const (
	DefaultTitleBarHeight = 30
	MinTitleBarHeight     = 4
	MaxTitleBarHeight     = 80
	DefaultBorderSize     = 1
	MinBorderSize         = 1
	MaxBorderSize         = 10

	// Title bar button geometry
	ButtonWidth        = 18
	ButtonSpacing      = 5
	ButtonsRightMargin = 8
)

// Settings is the part of the configuration the scene and everything drawing it cares about
type Settings struct {
	TitleBarHeight int
	BorderSize     int
	// Legacy rendering skips drop shadows
	LegacyRender    bool
	DarkMode        bool
	Background      color.RGBA
	ShowDesktopInfo bool
	SoftwareCursor  bool
}

func DefaultSettings() Settings {
	return Settings{
		TitleBarHeight: DefaultTitleBarHeight,
		BorderSize:     DefaultBorderSize,
		Background:     color.RGBA{R: 0x3a, G: 0x6e, B: 0xa5, A: 0xff},
	}
}

// Normalize clamps the metrics into their valid ranges
func (s Settings) Normalize() Settings {
	s.TitleBarHeight = clamp(s.TitleBarHeight, MinTitleBarHeight, MaxTitleBarHeight)
	s.BorderSize = clamp(s.BorderSize, MinBorderSize, MaxBorderSize)
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
