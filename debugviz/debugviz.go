// Package debugviz renders a PNG dump of a packed atlas's chart layout
// (C8's output) for debugging: each chart's triangles outlined in its own
// colour, so a developer can eyeball packing density, orphaned slivers, or
// an unexpectedly large unseen chart without opening the actual texture.
package debugviz

import (
	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Gabriellgpc/SSMVtex/chart"
	"github.com/Gabriellgpc/SSMVtex/geometry"
	"github.com/Gabriellgpc/SSMVtex/pack"
	"github.com/Gabriellgpc/SSMVtex/ssmverr"
)

// goldenAngle spaces successive charts' hues around the colour wheel so
// adjacent indices (which are often spatially adjacent on the mesh) don't
// land on similar colours.
const goldenAngle = 137.50776

// RenderChartLayout draws charts placed per placements within an image of
// size and writes it as a PNG to outPath. Background is near-black; each
// chart's triangle edges are stroked in a distinct hue.
func RenderChartLayout(charts []chart.Chart, placements []pack.Placement, size geometry.Size, outPath string) error {
	if size.Width <= 0 || size.Height <= 0 {
		return ssmverr.New(ssmverr.InputInvalid, "debugviz: atlas size must be positive")
	}
	if len(placements) != len(charts) {
		return ssmverr.New(ssmverr.InputInvalid, "debugviz: placements must match charts 1:1")
	}

	dc := gg.NewContext(size.Width, size.Height)
	dc.SetRGB(0.08, 0.08, 0.1)
	dc.Clear()
	dc.SetLineWidth(1)

	for k, c := range charts {
		placed := layoutCorners(c, placements[k])
		col := colorful.Hsv(float64(k)*goldenAngle, 0.65, 0.85)
		dc.SetRGB(col.R, col.G, col.B)
		for _, tri := range placed.Triangles {
			dc.MoveTo(tri.Corners[0].X, tri.Corners[0].Y)
			dc.LineTo(tri.Corners[1].X, tri.Corners[1].Y)
			dc.LineTo(tri.Corners[2].X, tri.Corners[2].Y)
			dc.ClosePath()
			dc.Stroke()
		}
	}

	if err := dc.SavePNG(outPath); err != nil {
		return ssmverr.Wrap(ssmverr.Internal, err, "debugviz: save PNG")
	}
	return nil
}

// layoutCorners mirrors the atlas package's own placedCorners: rotate (if
// the packer rotated this chart), shift its own bounding-box minimum to
// the origin, scale, then translate to the placement's atlas origin.
func layoutCorners(c chart.Chart, p pack.Placement) chart.Chart {
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
