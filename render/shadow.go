package render

import (
	"image"
	"image/color"
	"math"
)

const (
	// Shadow margin around regular windows
	ShadowMargin = 45
	// Shadow margin around popups and transients, which get a lighter shadow
	PopupShadowMargin = 15

	ShadowAlpha      = 0.45
	PopupShadowAlpha = 0.30
)

// Shadow synthesizes an edge-softened drop shadow.
// size is the full buffer size including the margin on every side; the shadow is fully
// opaque (up to alpha) inside the box inset by margin and fades out towards the edges.
// The box itself is left filled, callers clear the area under the window content if it is translucent
func Shadow(size image.Point, margin int, alpha float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	if size.X <= 0 || size.Y <= 0 {
		return img
	}
	// Half the margin is spread, the other half keeps the shadow from touching the buffer edges
	spread := float64(margin) / 2
	if spread < 1 {
		spread = 1
	}
	box := image.Rect(margin, margin, size.X-margin, size.Y-margin)
	for y := 0; y < size.Y; y++ {
		cy := falloff(axisDistance(float64(y)+0.5, box.Min.Y, box.Max.Y), spread)
		if cy == 0 {
			continue
		}
		for x := 0; x < size.X; x++ {
			cx := falloff(axisDistance(float64(x)+0.5, box.Min.X, box.Max.X), spread)
			a := alpha * cx * cy
			if a <= 0 {
				continue
			}
			img.SetRGBA(x, y, color.RGBA{A: uint8(math.Round(a * 0xff))})
		}
	}
	return img
}

// axisDistance returns how far p lies outside [lo, hi], zero when inside
func axisDistance(p float64, lo, hi int) float64 {
	switch {
	case p < float64(lo):
		return float64(lo) - p
	case p > float64(hi):
		return p - float64(hi)
	default:
		return 0
	}
}

// falloff is a smoothstep from 1 at distance 0 to 0 at distance spread
func falloff(d, spread float64) float64 {
	if d <= 0 {
		return 1
	}
	if d >= spread {
		return 0
	}
	t := 1 - d/spread
	return t * t * (3 - 2*t)
}
