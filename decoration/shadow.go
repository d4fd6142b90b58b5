package decoration

import (
	"image"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/mstarongithub/way2gay/render"
	"github.com/mstarongithub/way2gay/scene"
)

// Windows of the same size share one shadow image
const maxShadows = 64

type shadowKey struct {
	size   image.Point
	margin int
	alpha  float64
}

// newShadowCache keeps the most recently used shadow images
func newShadowCache() *simplelru.LRU[shadowKey, *image.RGBA] {
	// Only fails for a size below one
	c, _ := simplelru.NewLRU[shadowKey, *image.RGBA](maxShadows, nil)
	return c
}

// Shadow returns the drop shadow image covering the shadow rect of s, nil if it has none
func (r *Renderer) Shadow(s *scene.Surface) *image.RGBA {
	margin := s.ShadowMargin()
	if margin <= 1 {
		return nil
	}
	size := s.ShadowRect().Size()
	k := shadowKey{size: image.Point{X: size.X, Y: size.Y}, margin: margin, alpha: s.ShadowAlpha()}
	if img, ok := r.shadows.Get(k); ok {
		return img
	}
	img := render.Shadow(k.size, k.margin, k.alpha)
	r.shadows.Add(k, img)
	return img
}
