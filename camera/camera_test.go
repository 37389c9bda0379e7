package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/Gabriellgpc/SSMVtex/geometry"
)

func identityCamera() Camera {
	return New(
		Intrinsics{FocalX: 100, FocalY: 100, PrincipalX: 50, PrincipalY: 50, Width: 100, Height: 100},
		Extrinsics{Position: r3.Vector{X: 0, Y: 0, Z: -10}, Rotation: mgl64.Ident3()},
		"cam0.png",
	)
}

func TestProjectInFront(t *testing.T) {
	c := identityCamera()
	pixel, depth, inFront := c.Project(r3.Vector{X: 0, Y: 0, Z: 0})
	test.That(t, inFront, test.ShouldBeTrue)
	test.That(t, depth, test.ShouldAlmostEqual, 10.0, 1e-9)
	test.That(t, pixel.X, test.ShouldAlmostEqual, 50.0, 1e-9)
	test.That(t, pixel.Y, test.ShouldAlmostEqual, 50.0, 1e-9)
}

func TestProjectBehindCamera(t *testing.T) {
	c := identityCamera()
	_, _, inFront := c.Project(r3.Vector{X: 0, Y: 0, Z: -20})
	test.That(t, inFront, test.ShouldBeFalse)
}

func TestInImageBoundaryInclusive(t *testing.T) {
	c := identityCamera()
	test.That(t, c.InImage(geometry.Point2{X: 0, Y: 0}), test.ShouldBeTrue)
	test.That(t, c.InImage(geometry.Point2{X: 100, Y: 100}), test.ShouldBeTrue)
	test.That(t, c.InImage(geometry.Point2{X: 100.1, Y: 50}), test.ShouldBeFalse)
}

func TestSeesCombinesFrustumAndImage(t *testing.T) {
	c := identityCamera()
	_, _, seen := c.Sees(r3.Vector{X: 0, Y: 0, Z: 0})
	test.That(t, seen, test.ShouldBeTrue)

	_, _, seenBehind := c.Sees(r3.Vector{X: 0, Y: 0, Z: -20})
	test.That(t, seenBehind, test.ShouldBeFalse)
}

func TestRayRoundTrips(t *testing.T) {
	c := identityCamera()
	target := r3.Vector{X: 2, Y: -1, Z: 5}
	pixel, _, inFront := c.Project(target)
	test.That(t, inFront, test.ShouldBeTrue)

	dir := c.Ray(pixel)
	// The ray from the camera centre through the projected pixel must point
	// back at the original target (same direction, up to scale).
	toTarget := target.Sub(c.Extrinsics.Position).Normalize()
	test.That(t, dir.Dot(toTarget), test.ShouldAlmostEqual, 1.0, 1e-6)
}
