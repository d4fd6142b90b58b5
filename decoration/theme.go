package decoration

import "image/color"

// Theme holds the colors of the server side chrome
type Theme struct {
	Background color.RGBA
	Foreground color.RGBA
	Inactive   color.RGBA
	Stroke     color.RGBA
}

var (
	Light = Theme{
		Background: color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff},
		Foreground: color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff},
		Inactive:   color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff},
		Stroke:     color.RGBA{R: 0x3c, G: 0x3c, B: 0x3c, A: 0xff},
	}
	Dark = Theme{
		Background: color.RGBA{R: 0x3c, G: 0x3c, B: 0x3c, A: 0xff},
		Foreground: color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff},
		Inactive:   color.RGBA{R: 0xa0, G: 0xa0, B: 0xa0, A: 0xff},
		Stroke:     color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff},
	}
)

func ThemeFor(dark bool) Theme {
	if dark {
		return Dark
	}
	return Light
}

func (t Theme) text(active bool) color.RGBA {
	if active {
		return t.Foreground
	}
	return t.Inactive
}
