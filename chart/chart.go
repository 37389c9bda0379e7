// Package chart defines the Chart data model produced by the unwrapper
// (C7) and consumed by the packer (C8) and rasterizer (C9): a connected
// subset of a mesh's triangles assigned to one primary camera, each
// triangle carrying a 2D embedding in the chart's local frame.
package chart

import "github.com/Gabriellgpc/SSMVtex/geometry"

// TriangleUV is one triangle's 2D embedding within a chart's local frame:
// three corners in chart-local coordinates, indexed the same way as the
// mesh triangle's vertex indices.
type TriangleUV struct {
	TriangleIndex int
	Corners       [3]geometry.Point2
}

// Chart is a connected group of triangles sharing a primary camera
// assignment, together with their 2D embedding. PrimaryCamera is -1 for the
// designated "unseen" chart (triangles whose best rating is 0).
type Chart struct {
	PrimaryCamera int
	Triangles     []TriangleUV
}

// IsUnseen reports whether this is the designated chart collecting
// triangles no camera rated positively.
func (c Chart) IsUnseen() bool { return c.PrimaryCamera < 0 }

// TriangleIndices returns the mesh triangle indices in this chart.
func (c Chart) TriangleIndices() []int {
	out := make([]int, len(c.Triangles))
	for i, t := range c.Triangles {
		out[i] = t.TriangleIndex
	}
	return out
}

// BoundingBox returns the chart's 2D bounding box in its local frame. ok is
// false for an empty chart.
func (c Chart) BoundingBox() (minX, minY, maxX, maxY float64, ok bool) {
	if len(c.Triangles) == 0 {
		return 0, 0, 0, 0, false
	}
	first := c.Triangles[0].Corners[0]
	minX, maxX = first.X, first.X
	minY, maxY = first.Y, first.Y
	for _, tri := range c.Triangles {
		for _, corner := range tri.Corners {
			if corner.X < minX {
				minX = corner.X
			}
			if corner.X > maxX {
				maxX = corner.X
			}
			if corner.Y < minY {
				minY = corner.Y
			}
			if corner.Y > maxY {
				maxY = corner.Y
			}
		}
	}
	return minX, minY, maxX, maxY, true
}

// Width returns the chart's local-frame bounding box width (0 if empty).
func (c Chart) Width() float64 {
	minX, _, maxX, _, ok := c.BoundingBox()
	if !ok {
		return 0
	}
	return maxX - minX
}

// Height returns the chart's local-frame bounding box height (0 if empty).
func (c Chart) Height() float64 {
	_, minY, _, maxY, ok := c.BoundingBox()
	if !ok {
		return 0
	}
	return maxY - minY
}

// Translate returns a copy of the chart with every corner shifted by
// (dx, dy).
func (c Chart) Translate(dx, dy float64) Chart {
	out := Chart{PrimaryCamera: c.PrimaryCamera, Triangles: make([]TriangleUV, len(c.Triangles))}
	for i, tri := range c.Triangles {
		nt := TriangleUV{TriangleIndex: tri.TriangleIndex}
		for j, corner := range tri.Corners {
			nt.Corners[j] = geometry.Point2{X: corner.X + dx, Y: corner.Y + dy}
		}
		out.Triangles[i] = nt
	}
	return out
}

// Scale returns a copy of the chart with every corner scaled about the
// origin by s.
func (c Chart) Scale(s float64) Chart {
	out := Chart{PrimaryCamera: c.PrimaryCamera, Triangles: make([]TriangleUV, len(c.Triangles))}
	for i, tri := range c.Triangles {
		nt := TriangleUV{TriangleIndex: tri.TriangleIndex}
		for j, corner := range tri.Corners {
			nt.Corners[j] = corner.Scale(s)
		}
		out.Triangles[i] = nt
	}
	return out
}

// Rotate90 returns a copy of the chart rotated 90 degrees about the origin
// ((x, y) -> (-y, x)), the only non-zero rotation the packer may apply.
func (c Chart) Rotate90() Chart {
	out := Chart{PrimaryCamera: c.PrimaryCamera, Triangles: make([]TriangleUV, len(c.Triangles))}
	for i, tri := range c.Triangles {
		nt := TriangleUV{TriangleIndex: tri.TriangleIndex}
		for j, corner := range tri.Corners {
			nt.Corners[j] = geometry.Point2{X: -corner.Y, Y: corner.X}
		}
		out.Triangles[i] = nt
	}
	return out
}
