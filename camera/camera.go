// Package camera implements the pinhole camera model shared by the rating,
// occlusion and colouring stages: world<->pixel projection, an inverse ray
// query, and a frustum test. Skew is assumed zero, per the spec.
package camera

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"github.com/Gabriellgpc/SSMVtex/geometry"
)

// Intrinsics holds the pinhole focal length, principal point and image
// resolution, all in pixels.
type Intrinsics struct {
	FocalX, FocalY         float64
	PrincipalX, PrincipalY float64
	Width, Height          int
}

// Extrinsics places the camera in world space: Position is the camera
// centre, Rotation is the world-to-camera rotation matrix.
type Extrinsics struct {
	Position r3.Vector
	Rotation mgl64.Mat3
}

// Camera is immutable once constructed and couples intrinsics, extrinsics
// and the source photograph's file path (used by the image cache).
type Camera struct {
	Intrinsics Intrinsics
	Extrinsics Extrinsics
	ImagePath  string
}

// New builds a Camera from intrinsics, extrinsics and the path to its
// photograph.
func New(intr Intrinsics, extr Extrinsics, imagePath string) Camera {
	return Camera{Intrinsics: intr, Extrinsics: extr, ImagePath: imagePath}
}

// toCameraSpace converts a world point into the camera's local frame.
func (c Camera) toCameraSpace(p r3.Vector) r3.Vector {
	rel := p.Sub(c.Extrinsics.Position)
	v := mgl64.Vec3{rel.X, rel.Y, rel.Z}
	cam := c.Extrinsics.Rotation.Mul3x1(v)
	return r3.Vector{X: cam[0], Y: cam[1], Z: cam[2]}
}

// Project maps a world point to pixel coordinates and a depth along the
// camera's viewing axis. inFront is false when the point is behind the
// camera (non-positive depth), in which case pixel/depth should not be
// trusted.
func (c Camera) Project(p r3.Vector) (pixel geometry.Point2, depth float64, inFront bool) {
	cam := c.toCameraSpace(p)
	if cam.Z <= 0 {
		return geometry.Point2{}, cam.Z, false
	}
	x := c.Intrinsics.FocalX*(cam.X/cam.Z) + c.Intrinsics.PrincipalX
	y := c.Intrinsics.FocalY*(cam.Y/cam.Z) + c.Intrinsics.PrincipalY
	return geometry.Point2{X: x, Y: y}, cam.Z, true
}

// InImage reports whether pixel falls within the camera's image rectangle,
// boundary inclusive.
func (c Camera) InImage(pixel geometry.Point2) bool {
	return pixel.X >= 0 && pixel.X <= float64(c.Intrinsics.Width) &&
		pixel.Y >= 0 && pixel.Y <= float64(c.Intrinsics.Height)
}

// Sees projects p and reports whether it is both in front of the camera and
// inside the image rectangle.
func (c Camera) Sees(p r3.Vector) (geometry.Point2, float64, bool) {
	pixel, depth, inFront := c.Project(p)
	return pixel, depth, inFront && c.InImage(pixel)
}

// Ray returns the world-space direction of the ray passing through pixel
// px, originating at the camera centre.
func (c Camera) Ray(px geometry.Point2) r3.Vector {
	camDir := mgl64.Vec3{
		(px.X - c.Intrinsics.PrincipalX) / c.Intrinsics.FocalX,
		(px.Y - c.Intrinsics.PrincipalY) / c.Intrinsics.FocalY,
		1,
	}
	worldDir := c.Extrinsics.Rotation.Transpose().Mul3x1(camDir)
	return r3.Vector{X: worldDir[0], Y: worldDir[1], Z: worldDir[2]}.Normalize()
}

// ViewVector returns the normalized direction from p towards the camera
// centre, used by the NORMAL_VERTEX/NORMAL_BARICENTER rating strategies.
func (c Camera) ViewVector(p r3.Vector) r3.Vector {
	return c.Extrinsics.Position.Sub(p).Normalize()
}
