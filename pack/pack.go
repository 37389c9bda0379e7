// Package pack implements the chart packer (C8): a shelf first-fit bin
// packer that arranges a mesh's charts into a single rectangular atlas of
// approximately the requested texel area, respecting a gutter between
// charts and allowing 0/90 degree rotation to improve shelf utilization.
package pack

import (
	"math"
	"sort"

	"github.com/Gabriellgpc/SSMVtex/chart"
	"github.com/Gabriellgpc/SSMVtex/geometry"
	"github.com/Gabriellgpc/SSMVtex/ssmverr"
)

// Options bundles the packer's configuration knobs.
type Options struct {
	Dimension  float64 // target total atlas area, in texels
	Gutter     float64 // minimum padding between charts, in texels
	PowerOfTwo bool    // round final width/height up to the next power of two
	MinScale   float64 // floor on the uniform scale factor charts may be shrunk by
}

// Placement is one chart's position in the atlas: Origin is where the
// chart's local-frame bounding-box corner (after any rotation) lands in
// atlas pixel space, Rotation is 0 or 90 degrees applied to the chart's
// local coordinates before translation, and Scale is the uniform factor
// (shared by every chart in the run) applied to local coordinates after
// rotation and before translation.
type Placement struct {
	Origin   geometry.Point2
	Rotation int
	Scale    float64
}

const defaultMinScale = 0.01

// Pack places charts into a single atlas sized to approximately
// opts.Dimension texels. It returns one Placement per input chart, in the
// same order, and the resulting atlas size. An empty charts slice packs to
// a 0x0 atlas.
func Pack(charts []chart.Chart, opts Options) ([]Placement, geometry.Size, error) {
	if opts.Dimension <= 0 {
		return nil, geometry.Size{}, ssmverr.New(ssmverr.InputInvalid, "pack: Dimension must be positive")
	}
	minScale := opts.MinScale
	if minScale <= 0 {
		minScale = defaultMinScale
	}
	if len(charts) == 0 {
		return nil, geometry.Size{}, nil
	}

	type box struct {
		idx      int
		w, h     float64
		rotation int
	}
	boxes := make([]box, len(charts))
	for i, c := range charts {
		w, h := c.Width(), c.Height()
		rotation := 0
		if h > w {
			w, h = h, w
			rotation = 90
		}
		// A chart with zero measured extent (a single degenerate triangle,
		// or the unseen chart with one collapsed entry) still needs a
		// texel footprint to be placed and rasterized into.
		if w <= 0 {
			w = 1
		}
		if h <= 0 {
			h = 1
		}
		boxes[i] = box{idx: i, w: w, h: h, rotation: rotation}
	}

	// Largest-height-first improves shelf utilization; ties keep original
	// chart order so layout stays reproducible across runs.
	order := make([]int, len(boxes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return boxes[order[i]].h > boxes[order[j]].h
	})

	shelfWidth := math.Sqrt(opts.Dimension)
	if shelfWidth < 1 {
		shelfWidth = 1
	}

	placements := make([]Placement, len(charts))
	x, y, shelfHeight := 0.0, 0.0, 0.0
	maxX := 0.0
	for _, oi := range order {
		b := boxes[oi]
		if x > 0 && x+b.w > shelfWidth {
			y += shelfHeight + opts.Gutter
			x = 0
			shelfHeight = 0
		}
		placements[b.idx] = Placement{Origin: geometry.Point2{X: x, Y: y}, Rotation: b.rotation}
		x += b.w + opts.Gutter
		if x-opts.Gutter > maxX {
			maxX = x - opts.Gutter
		}
		if b.h > shelfHeight {
			shelfHeight = b.h
		}
	}
	naturalHeight := y + shelfHeight
	naturalWidth := maxX
	if naturalWidth <= 0 {
		naturalWidth = 1
	}
	if naturalHeight <= 0 {
		naturalHeight = 1
	}
	naturalArea := naturalWidth * naturalHeight

	scale := math.Sqrt(opts.Dimension / naturalArea)
	if scale < minScale {
		suggested := naturalArea * minScale * minScale
		return nil, geometry.Size{}, ssmverr.NewOverflow(int(math.Ceil(suggested)),
			"pack: charts do not fit within Dimension even at the minimum scale")
	}

	for i := range placements {
		placements[i].Scale = scale
		placements[i].Origin = placements[i].Origin.Scale(scale)
	}

	width := int(math.Ceil(naturalWidth * scale))
	height := int(math.Ceil(naturalHeight * scale))
	if opts.PowerOfTwo {
		width = nextPowerOfTwo(width)
		height = nextPowerOfTwo(height)
	}

	return placements, geometry.Size{Width: width, Height: height}, nil
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
