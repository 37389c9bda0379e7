// Package geometry holds the pure, allocation-free primitives the rest of
// the texturing pipeline builds on: triangle normals and areas, 2D
// point-in-triangle and barycentric tests, and segment/line intersection.
package geometry

import (
	"math"

	"github.com/golang/geo/r3"
)

// Point2 is a 2D point or vector. golang/geo ships r1/r2/r3/s1/s2 but no
// arithmetic-friendly 2D vector, so we keep a small local one instead of
// fighting r2.Point's minimal API for barycentric math.
type Point2 struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point2) Sub(q Point2) Point2 { return Point2{p.X - q.X, p.Y - q.Y} }

// Add returns p + q.
func (p Point2) Add(q Point2) Point2 { return Point2{p.X + q.X, p.Y + q.Y} }

// Scale returns p * s.
func (p Point2) Scale(s float64) Point2 { return Point2{p.X * s, p.Y * s} }

// Cross returns the z-component of the 3D cross product of p and q.
func (p Point2) Cross(q Point2) float64 { return p.X*q.Y - p.Y*q.X }

// Dot returns the dot product of p and q.
func (p Point2) Dot(q Point2) float64 { return p.X*q.X + p.Y*q.Y }

// Norm returns the Euclidean length of p.
func (p Point2) Norm() float64 { return math.Hypot(p.X, p.Y) }

// Size is an integer width/height pair, used for image and atlas dimensions.
type Size struct {
	Width, Height int
}

const epsilon = 1e-9

// Normal returns the normalized outward face normal of the triangle (a, b, c)
// following the right-hand rule. The second return value is false for a
// degenerate (zero-area) triangle, in which case the returned vector is the
// zero vector rather than a NaN-bearing one.
func Normal(a, b, c r3.Vector) (r3.Vector, bool) {
	n := b.Sub(a).Cross(c.Sub(a))
	norm := n.Norm()
	if norm < epsilon {
		return r3.Vector{}, false
	}
	return n.Mul(1 / norm), true
}

// Area3 returns the area of the 3D triangle (a, b, c).
func Area3(a, b, c r3.Vector) float64 {
	return 0.5 * b.Sub(a).Cross(c.Sub(a)).Norm()
}

// SignedArea2 returns the signed area of the 2D triangle (a, b, c); positive
// for counter-clockwise winding.
func SignedArea2(a, b, c Point2) float64 {
	return 0.5 * (b.Sub(a).Cross(c.Sub(a)))
}

// PointInTriangle2 reports whether p lies inside or on the boundary of the
// 2D triangle (a, b, c), using sign-consistent edge tests. Degenerate
// (zero-area) triangles never contain any point.
func PointInTriangle2(p, a, b, c Point2) bool {
	d1 := edgeSign(p, a, b)
	d2 := edgeSign(p, b, c)
	d3 := edgeSign(p, c, a)

	hasNeg := d1 < -epsilon || d2 < -epsilon || d3 < -epsilon
	hasPos := d1 > epsilon || d2 > epsilon || d3 > epsilon

	return !(hasNeg && hasPos)
}

func edgeSign(p, a, b Point2) float64 {
	return (p.X-b.X)*(a.Y-b.Y) - (a.X-b.X)*(p.Y-b.Y)
}

// Barycentric2 returns the barycentric coordinates of p with respect to the
// 2D triangle (a, b, c). ok is false when the triangle is degenerate.
func Barycentric2(p, a, b, c Point2) (u, v, w float64, ok bool) {
	area := SignedArea2(a, b, c)
	if math.Abs(area) < epsilon {
		return 0, 0, 0, false
	}
	u = SignedArea2(p, b, c) / area
	v = SignedArea2(a, p, c) / area
	w = 1 - u - v
	return u, v, w, true
}

// IntersectSegmentTriangle performs a Möller–Trumbore test of the segment
// [origin, origin+dir] against the triangle (v0, v1, v2), restricted to the
// segment (t in [0, 1], not the full ray). It returns the intersection point
// and true if the segment crosses the triangle's interior strictly between
// its endpoints.
func IntersectSegmentTriangle(origin, dir, v0, v1, v2 r3.Vector) (r3.Vector, bool) {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	pvec := dir.Cross(e2)
	det := e1.Dot(pvec)
	if math.Abs(det) < epsilon {
		return r3.Vector{}, false
	}
	invDet := 1 / det

	tvec := origin.Sub(v0)
	u := tvec.Dot(pvec) * invDet
	if u < -epsilon || u > 1+epsilon {
		return r3.Vector{}, false
	}

	qvec := tvec.Cross(e1)
	v := dir.Dot(qvec) * invDet
	if v < -epsilon || u+v > 1+epsilon {
		return r3.Vector{}, false
	}

	t := e2.Dot(qvec) * invDet
	if t <= epsilon || t >= 1-epsilon {
		return r3.Vector{}, false
	}

	return origin.Add(dir.Mul(t)), true
}

// IntersectLines2 returns the intersection of the line through a with
// direction va and the line through b with direction vb. ok is false when
// the lines are parallel (or nearly so).
func IntersectLines2(a, va, b, vb Point2) (Point2, bool) {
	denom := va.Cross(vb)
	if math.Abs(denom) < epsilon {
		return Point2{}, false
	}
	diff := b.Sub(a)
	t := diff.Cross(vb) / denom
	return a.Add(va.Scale(t)), true
}
