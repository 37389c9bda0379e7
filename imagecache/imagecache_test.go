package imagecache

import (
	"image"
	"image/color"
	"testing"

	"go.viam.com/test"

	"github.com/Gabriellgpc/SSMVtex/geometry"
)

// fakeDecoder hands back a deterministic solid-colour image per path and
// counts how many times each path was actually decoded, so tests can assert
// on cache hits vs. misses.
type fakeDecoder struct {
	decodes map[string]int
}

func newFakeDecoder() *fakeDecoder { return &fakeDecoder{decodes: map[string]int{}} }

func (f *fakeDecoder) Decode(path string) (View, error) {
	f.decodes[path]++
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 50), G: uint8(y * 50), B: 10, A: 255})
		}
	}
	return View{img: img, size: geometry.Size{Width: 4, Height: 4}}, nil
}

func TestFetchCachesAndHits(t *testing.T) {
	dec := newFakeDecoder()
	c := New(2, dec)

	_, err := c.Fetch("a.png")
	test.That(t, err, test.ShouldBeNil)
	_, err = c.Fetch("a.png")
	test.That(t, err, test.ShouldBeNil)

	test.That(t, dec.decodes["a.png"], test.ShouldEqual, 1)
	test.That(t, c.Len(), test.ShouldEqual, 1)
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	dec := newFakeDecoder()
	c := New(2, dec)

	mustFetch(t, c, "a.png")
	mustFetch(t, c, "b.png")
	mustFetch(t, c, "a.png") // a is now MRU, b is LRU
	mustFetch(t, c, "c.png") // evicts b

	test.That(t, c.Resident("a.png"), test.ShouldBeTrue)
	test.That(t, c.Resident("b.png"), test.ShouldBeFalse)
	test.That(t, c.Resident("c.png"), test.ShouldBeTrue)
	test.That(t, c.Len(), test.ShouldEqual, 2)
}

func mustFetch(t *testing.T, c *Cache, path string) View {
	t.Helper()
	v, err := c.Fetch(path)
	test.That(t, err, test.ShouldBeNil)
	return v
}

func TestBilinearSampleMatchesCorners(t *testing.T) {
	dec := newFakeDecoder()
	c := New(1, dec)
	v := mustFetch(t, c, "a.png")

	r, g, b := v.Bilinear(0, 0)
	test.That(t, r, test.ShouldAlmostEqual, 0.0, 1e-6)
	test.That(t, g, test.ShouldAlmostEqual, 0.0, 1e-6)
	test.That(t, b, test.ShouldAlmostEqual, 10.0, 1e-6)
}

func TestCapacityClampedToAtLeastOne(t *testing.T) {
	c := New(0, newFakeDecoder())
	test.That(t, c.capacity, test.ShouldEqual, 1)
}
