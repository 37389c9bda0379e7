// Package faceroi defines the region-of-interest hint the rating engine
// consumes to boost triangles that fall inside a detected face (C6). The
// face detector itself is out of the core's scope (§1): this package only
// defines the interface and a couple of trivial, fully-specified
// implementations used by tests and as safe defaults.
package faceroi

import "github.com/Gabriellgpc/SSMVtex/geometry"

// Rect is an axis-aligned rectangle in pixel coordinates, boundary
// inclusive, matching the rest of the core's "boundary inclusive" convention
// (geometry.PointInTriangle2, camera.InImage).
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Contains reports whether p lies inside or on the boundary of r.
func (r Rect) Contains(p geometry.Point2) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Provider returns zero or more face rectangles detected in the photograph
// belonging to cameraIndex, given that photograph's pixel dimensions.
type Provider interface {
	Faces(cameraIndex int, imageSize geometry.Size) ([]Rect, error)
}

// NoopProvider never detects a face; it is the default when no detector is
// wired in, matching §4.4's "if a face-ROI provider is configured" guard.
type NoopProvider struct{}

// Faces implements Provider.
func (NoopProvider) Faces(int, geometry.Size) ([]Rect, error) { return nil, nil }

// StaticProvider returns a fixed set of rectangles regardless of camera or
// image size, useful for tests and for callers that already ran face
// detection out-of-band and just want to hand the core the results.
type StaticProvider struct {
	ByCamera map[int][]Rect
}

// Faces implements Provider.
func (p StaticProvider) Faces(cameraIndex int, _ geometry.Size) ([]Rect, error) {
	return p.ByCamera[cameraIndex], nil
}
