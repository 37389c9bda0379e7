// Package occlusion implements the per-camera spatial hash (C5) that
// accelerates the AREA_OCCL visibility test: a coarse uniform 2D grid over
// the image, bucketing triangles by their projected bounding box, so a
// vertex's occlusion query only has to test triangles near its pixel
// instead of the whole mesh.
package occlusion

import (
	"github.com/Gabriellgpc/SSMVtex/camera"
	"github.com/Gabriellgpc/SSMVtex/geometry"
	"github.com/Gabriellgpc/SSMVtex/mesh"
)

// intersectSegmentTriangle is geometry.IntersectSegmentTriangle, named
// locally for readability at the one call site below.
var intersectSegmentTriangle = geometry.IntersectSegmentTriangle

type cell struct {
	triangles []int
}

// Grid is a camera-specific occlusion accelerator. Build it once per camera
// and reuse it across every triangle/vertex query for that camera.
type Grid struct {
	msh        *mesh.Mesh
	cam        camera.Camera
	resolution int
	cells      []cell // row-major, resolution x resolution
	minX, minY float64
	cellW, cellH float64
}

// Build rasterizes a resolution x resolution grid over cam's image
// rectangle and buckets every triangle of msh whose projected bounding box
// overlaps a cell. Only triangles with every vertex behind the camera are
// skipped; any other triangle's bounding box is clamped to the grid, so a
// triangle projecting outside the image lands in the edge cells.
func Build(msh *mesh.Mesh, cam camera.Camera, resolution int) *Grid {
	if resolution < 1 {
		resolution = 1
	}
	g := &Grid{
		msh:        msh,
		cam:        cam,
		resolution: resolution,
		cells:      make([]cell, resolution*resolution),
		minX:       0,
		minY:       0,
		cellW:      float64(cam.Intrinsics.Width) / float64(resolution),
		cellH:      float64(cam.Intrinsics.Height) / float64(resolution),
	}

	for t := 0; t < msh.NumTriangles(); t++ {
		a, b, c := msh.TrianglePositions(t)
		pa, _, inA := cam.Project(a)
		pb, _, inB := cam.Project(b)
		pc, _, inC := cam.Project(c)
		if !inA && !inB && !inC {
			continue
		}
		minX := minOf3(pa.X, pb.X, pc.X)
		maxX := maxOf3(pa.X, pb.X, pc.X)
		minY := minOf3(pa.Y, pb.Y, pc.Y)
		maxY := maxOf3(pa.Y, pb.Y, pc.Y)

		c0x := g.findPosGrid(minX, g.cellW, resolution)
		c1x := g.findPosGrid(maxX, g.cellW, resolution)
		c0y := g.findPosGrid(minY, g.cellH, resolution)
		c1y := g.findPosGrid(maxY, g.cellH, resolution)

		for cy := c0y; cy <= c1y; cy++ {
			for cx := c0x; cx <= c1x; cx++ {
				idx := cy*resolution + cx
				g.cells[idx].triangles = append(g.cells[idx].triangles, t)
			}
		}
	}

	return g
}

// findPosGrid samples a coordinate with respect to the grid resolution,
// clamped to a valid cell index (the teacher's findPosGrid helper).
func (g *Grid) findPosGrid(x, cellSize float64, resolution int) int {
	if cellSize <= 0 {
		return 0
	}
	idx := int(x / cellSize)
	if idx < 0 {
		idx = 0
	}
	if idx >= resolution {
		idx = resolution - 1
	}
	return idx
}

func minOf3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func maxOf3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

// Visible reports whether vertex vertexIdx of the mesh is unoccluded by any
// other triangle of the mesh, as seen from the grid's camera, excluding the
// triangle the vertex itself belongs to (triIdx) and its direct mesh
// neighbours (a ray grazing a shared edge is never "occluded" by that
// neighbour, per §4.5's tie-break rule).
func (g *Grid) Visible(vertexIdx, triIdx int) bool {
	v := g.msh.Vertex(vertexIdx)
	pixel, _, inFrustum := g.cam.Project(v)
	if !inFrustum || !g.cam.InImage(pixel) {
		return false
	}

	cx := g.findPosGrid(pixel.X, g.cellW, g.resolution)
	cy := g.findPosGrid(pixel.Y, g.cellH, g.resolution)
	idx := cy*g.resolution + cx

	origin := g.cam.Extrinsics.Position
	dir := v.Sub(origin)

	for _, tp := range g.cells[idx].triangles {
		if tp == triIdx || g.msh.NeighborAcrossEdge(triIdx, tp) {
			continue
		}
		a, b, c := g.msh.TrianglePositions(tp)
		if _, hit := intersectSegmentTriangle(origin, dir, a, b, c); hit {
			return false
		}
	}
	return true
}

// Resolution returns the grid's configured resolution G.
func (g *Grid) Resolution() int { return g.resolution }
