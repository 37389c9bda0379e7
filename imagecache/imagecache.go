// Package imagecache provides a bounded LRU of decoded photographs keyed by
// file path. Decoding itself is delegated to a Decoder the caller supplies
// (image codec bodies are an external collaborator, per the core's scope);
// the cache only owns eviction policy and bilinear sampling of whatever
// pixels it holds.
package imagecache

import (
	"container/list"
	"image"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"

	"github.com/Gabriellgpc/SSMVtex/geometry"
)

// View is a read-only handle onto a decoded image, borrowed from the cache
// for the duration of one lookup. It is safe for concurrent reads: the
// cache never mutates pixels after decode.
type View struct {
	img image.Image
	size geometry.Size
}

// NewView wraps an already-decoded image.Image as a View, for decoders
// that don't read from the filesystem (tests, in-memory synthetic
// photographs, or formats decoded by a caller-supplied codec).
func NewView(img image.Image) View {
	b := img.Bounds()
	return View{img: img, size: geometry.Size{Width: b.Dx(), Height: b.Dy()}}
}

// Size returns the image's pixel dimensions.
func (v View) Size() geometry.Size { return v.size }

// At returns the colour at integer pixel (x, y). Out-of-range coordinates
// are clamped to the image bounds, matching the teacher's bilinear sampling
// convention of never indexing outside the backing array.
func (v View) At(x, y int) color.Color {
	b := v.img.Bounds()
	if x < b.Min.X {
		x = b.Min.X
	}
	if x >= b.Max.X {
		x = b.Max.X - 1
	}
	if y < b.Min.Y {
		y = b.Min.Y
	}
	if y >= b.Max.Y {
		y = b.Max.Y - 1
	}
	return v.img.At(x, y)
}

// Bilinear samples the image at fractional pixel coordinates (px, py) using
// bilinear interpolation of the four surrounding texels.
func (v View) Bilinear(px, py float64) (r, g, b float64) {
	x0 := int(px)
	y0 := int(py)
	fx := px - float64(x0)
	fy := py - float64(y0)

	sample := func(x, y int) (float64, float64, float64) {
		rr, gg, bb, _ := v.At(x, y).RGBA()
		return float64(rr >> 8), float64(gg >> 8), float64(bb >> 8)
	}

	r00, g00, b00 := sample(x0, y0)
	r10, g10, b10 := sample(x0+1, y0)
	r01, g01, b01 := sample(x0, y0+1)
	r11, g11, b11 := sample(x0+1, y0+1)

	lerp := func(a, b, t float64) float64 { return a + (b-a)*t }
	top := func(a, b float64) float64 { return lerp(a, b, fx) }

	r = lerp(top(r00, r10), top(r01, r11), fy)
	g = lerp(top(g00, g10), top(g01, g11), fy)
	b = lerp(top(b00, b10), top(b01, b11), fy)
	return r, g, b
}

// Thumbnail returns a small preview of the image (longest side maxDim).
// No package in the module calls it; the core sampling path never does.
func (v View) Thumbnail(maxDim int) image.Image {
	return resize.Thumbnail(uint(maxDim), uint(maxDim), v.img, resize.Bilinear)
}

// Decoder decodes a photograph at path into a View. Implementations are an
// external collaborator; FileDecoder below is a convenience default.
type Decoder interface {
	Decode(path string) (View, error)
}

// FileDecoder decodes images straight off the local filesystem using
// disintegration/imaging, which handles JPEG/PNG/TIFF/BMP transparently.
type FileDecoder struct{}

// Decode implements Decoder.
func (FileDecoder) Decode(path string) (View, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return View{}, errors.Wrapf(err, "decode image %q", path)
	}
	b := img.Bounds()
	return View{img: img, size: geometry.Size{Width: b.Dx(), Height: b.Dy()}}, nil
}

// Cache is a bounded LRU of decoded images. It serializes insertion and
// eviction behind a mutex; resident Views are immutable so reads never
// need to copy pixels out from under a concurrent evictor.
type Cache struct {
	mu       sync.Mutex
	capacity int
	decoder  Decoder
	order    *list.List // front = most recently used
	entries  map[string]*list.Element
}

type cacheEntry struct {
	path string
	view View
}

// New builds a Cache with the given capacity (must be >= 1) using decoder
// to fetch images that aren't yet resident.
func New(capacity int, decoder Decoder) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		decoder:  decoder,
		order:    list.New(),
		entries:  make(map[string]*list.Element, capacity),
	}
}

// Fetch returns the decoded image at path, decoding and inserting it if
// absent, and evicting the least-recently-used entry first if the cache is
// full. A decode failure is returned to the caller unmodified; per the
// spec, the rating/colour stages then treat that camera as having no
// image (ImageUnavailable), they do not retry here.
func (c *Cache) Fetch(path string) (View, error) {
	c.mu.Lock()
	if el, ok := c.entries[path]; ok {
		c.order.MoveToFront(el)
		v := el.Value.(*cacheEntry).view
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	view, err := c.decoder.Decode(path)
	if err != nil {
		return View{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another caller may have raced us to insert the same path.
	if el, ok := c.entries[path]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*cacheEntry).view, nil
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).path)
		}
	}
	el := c.order.PushFront(&cacheEntry{path: path, view: view})
	c.entries[path] = el
	return view, nil
}

// Len returns the number of images currently resident.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Resident reports whether path is currently cached, without affecting LRU
// order. Intended for tests and diagnostics.
func (c *Cache) Resident(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[path]
	return ok
}
