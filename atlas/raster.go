// Package atlas implements the rasterizer (C9), colourer (C10) and
// dilator (C11) stages that turn packed charts into a coloured texture
// image: filling the per-pixel triangle/frontier index arrays, sampling
// and blending photographs, and extending chart borders outward to hide
// bilinear-sampling bleed at chart seams.
package atlas

import (
	"sort"

	"github.com/samber/lo"

	"github.com/Gabriellgpc/SSMVtex/chart"
	"github.com/Gabriellgpc/SSMVtex/geometry"
	"github.com/Gabriellgpc/SSMVtex/pack"
)

// Atlas is the pixel grid produced by rasterization: PixTriangle[y][x] is
// the mesh triangle index owning that texel, or -1 for background.
// PixFrontier[y][x] is 0 for a chart-interior texel, 1 for a texel on a
// chart's border (a 4-neighbour belongs to another chart or to
// background), or -1 for background. Both are row-major, dense.
type Atlas struct {
	Size        geometry.Size
	PixTriangle [][]int32
	PixFrontier [][]int32
}

// placedCorners returns triangle corners transformed from a chart's local
// frame into atlas pixel space, given that chart's placement: rotate
// first (if the packer rotated it), then translate the chart's own
// rotated bounding-box minimum to the origin, scale, then translate to
// the placement's atlas origin.
func placedCorners(c chart.Chart, p pack.Placement) chart.Chart {
	local := c
	if p.Rotation == 90 {
		local = local.Rotate90()
	}
	minX, minY, _, _, ok := local.BoundingBox()
	if !ok {
		return local
	}
	return local.Translate(-minX, -minY).Scale(p.Scale).Translate(p.Origin.X, p.Origin.Y)
}

// Rasterize fills the atlas's pixel-index arrays for charts placed per
// placements (parallel slices) within an image of size. Pixel centres are
// sampled at integer coordinate + 0.5, matching the teacher's convention
// that a texel's "position" is its centre, not its corner.
func Rasterize(charts []chart.Chart, placements []pack.Placement, size geometry.Size) *Atlas {
	a := &Atlas{
		Size:        size,
		PixTriangle: newInt32Grid(size, -1),
		PixFrontier: newInt32Grid(size, -1),
	}
	if size.Width <= 0 || size.Height <= 0 {
		return a
	}

	triToChart := make(map[int]int)
	for k, c := range charts {
		for _, tr := range c.Triangles {
			triToChart[tr.TriangleIndex] = k
		}
	}

	for k, c := range charts {
		placed := placedCorners(c, placements[k])
		tris := append([]chart.TriangleUV(nil), placed.Triangles...)
		sort.Slice(tris, func(i, j int) bool { return tris[i].TriangleIndex < tris[j].TriangleIndex })
		for _, tri := range tris {
			rasterizeTriangle(a.PixTriangle, tri, size)
		}
	}

	computeFrontier(a.PixTriangle, a.PixFrontier, triToChart, size)
	return a
}

// PlacedTriangleCorners returns, for every triangle across charts, its
// three corners in the same atlas pixel space Rasterize fills, keyed by
// mesh triangle index. The colourer uses this to recompute each pixel's
// barycentric coordinates against the triangle Rasterize assigned it.
func PlacedTriangleCorners(charts []chart.Chart, placements []pack.Placement) map[int][3]geometry.Point2 {
	out := make(map[int][3]geometry.Point2)
	for k, c := range charts {
		placed := placedCorners(c, placements[k])
		for _, tri := range placed.Triangles {
			out[tri.TriangleIndex] = tri.Corners
		}
	}
	return out
}

func rasterizeTriangle(pixTriangle [][]int32, tri chart.TriangleUV, size geometry.Size) {
	minX, maxX, minY, maxY := triPixelBounds(tri.Corners, size)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if pixTriangle[y][x] != -1 {
				continue
			}
			center := geometry.Point2{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			if geometry.PointInTriangle2(center, tri.Corners[0], tri.Corners[1], tri.Corners[2]) {
				pixTriangle[y][x] = int32(tri.TriangleIndex)
			}
		}
	}
}

func triPixelBounds(corners [3]geometry.Point2, size geometry.Size) (minX, maxX, minY, maxY int) {
	xs := []float64{corners[0].X, corners[1].X, corners[2].X}
	ys := []float64{corners[0].Y, corners[1].Y, corners[2].Y}
	minXf, maxXf := lo.Min(xs), lo.Max(xs)
	minYf, maxYf := lo.Min(ys), lo.Max(ys)

	minX = clampInt(int(minXf), 0, size.Width-1)
	maxX = clampInt(int(maxXf), 0, size.Width-1)
	minY = clampInt(int(minYf), 0, size.Height-1)
	maxY = clampInt(int(maxYf), 0, size.Height-1)
	return
}

func computeFrontier(pixTriangle, pixFrontier [][]int32, triToChart map[int]int, size geometry.Size) {
	chartAt := func(x, y int) (int, bool) {
		t := pixTriangle[y][x]
		if t < 0 {
			return 0, false
		}
		c, ok := triToChart[int(t)]
		return c, ok
	}
	for y := 0; y < size.Height; y++ {
		for x := 0; x < size.Width; x++ {
			if pixTriangle[y][x] == -1 {
				continue
			}
			ownChart, _ := chartAt(x, y)
			frontier := false
			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || nx >= size.Width || ny < 0 || ny >= size.Height {
					frontier = true
					break
				}
				neighborChart, ok := chartAt(nx, ny)
				if !ok || neighborChart != ownChart {
					frontier = true
					break
				}
			}
			if frontier {
				pixFrontier[y][x] = 1
			} else {
				pixFrontier[y][x] = 0
			}
		}
	}
}

func newInt32Grid(size geometry.Size, fill int32) [][]int32 {
	if size.Width <= 0 || size.Height <= 0 {
		return nil
	}
	grid := make([][]int32, size.Height)
	for y := range grid {
		row := make([]int32, size.Width)
		for x := range row {
			row[x] = fill
		}
		grid[y] = row
	}
	return grid
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
