package compositor

import (
	"image"

	"github.com/mstarongithub/way2gay/render"
)

type cachedTexture struct {
	id   render.TextureID
	used bool
}

// textureCache keeps the compositor's own images (chrome, shadows, labels) uploaded on one renderer.
// Entries not used during a frame are released when it ends
type textureCache struct {
	renderer render.Renderer
	entries  map[*image.RGBA]*cachedTexture
}

func newTextureCache(r render.Renderer) *textureCache {
	return &textureCache{renderer: r, entries: make(map[*image.RGBA]*cachedTexture)}
}

func (c *textureCache) texture(img *image.RGBA) (render.TextureID, error) {
	if e, ok := c.entries[img]; ok {
		e.used = true
		return e.id, nil
	}
	id, err := c.renderer.Upload(render.Source{Image: img, Format: render.FormatARGB8888})
	if err != nil {
		return 0, err
	}
	c.entries[img] = &cachedTexture{id: id, used: true}
	return id, nil
}

func (c *textureCache) sweep() {
	for img, e := range c.entries {
		if !e.used {
			c.renderer.Release(e.id)
			delete(c.entries, img)
			continue
		}
		e.used = false
	}
}

func (c *textureCache) release() {
	for img, e := range c.entries {
		c.renderer.Release(e.id)
		delete(c.entries, img)
	}
}

func (c *textureCache) len() int {
	return len(c.entries)
}
