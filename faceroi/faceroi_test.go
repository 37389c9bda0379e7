package faceroi

import (
	"testing"

	"go.viam.com/test"

	"github.com/Gabriellgpc/SSMVtex/geometry"
)

func TestNoopProviderNeverBoosts(t *testing.T) {
	p := NoopProvider{}
	rects, err := p.Faces(0, geometry.Size{Width: 100, Height: 100})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rects, test.ShouldBeNil)
}

func TestStaticProviderReturnsPerCamera(t *testing.T) {
	p := StaticProvider{ByCamera: map[int][]Rect{
		1: {{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}},
	}}
	rects, err := p.Faces(1, geometry.Size{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(rects), test.ShouldEqual, 1)

	rects, err = p.Faces(0, geometry.Size{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(rects), test.ShouldEqual, 0)
}

func TestRectContainsBoundaryInclusive(t *testing.T) {
	r := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	test.That(t, r.Contains(geometry.Point2{X: 10, Y: 10}), test.ShouldBeTrue)
	test.That(t, r.Contains(geometry.Point2{X: 10.1, Y: 5}), test.ShouldBeFalse)
}
