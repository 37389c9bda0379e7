package mvtex

import (
	"image"
	"image/color"
	"math"

	"github.com/Gabriellgpc/SSMVtex/atlas"
	"github.com/Gabriellgpc/SSMVtex/camera"
	"github.com/Gabriellgpc/SSMVtex/chart"
	"github.com/Gabriellgpc/SSMVtex/diag"
	"github.com/Gabriellgpc/SSMVtex/geometry"
	"github.com/Gabriellgpc/SSMVtex/imagecache"
	"github.com/Gabriellgpc/SSMVtex/mesh"
	"github.com/Gabriellgpc/SSMVtex/pack"
	"github.com/Gabriellgpc/SSMVtex/rating"
	"github.com/Gabriellgpc/SSMVtex/unwrap"
)

// backgroundColour fills every atlas texel the pipeline never assigns a
// camera sample to.
var backgroundColour = color.RGBA{A: 255}

// vertexBackgroundColour is the VERTEX-mode fallback for a vertex no camera
// ever sees (e.g. an empty camera set): a neutral mid-grey rather than
// backgroundColour's black, so an all-unseen mesh reads as untextured
// rather than painted.
var vertexBackgroundColour = color.RGBA{R: 128, G: 128, B: 128, A: 255}

// borderDilationPasses is how many DilateIterative iterations run after
// colouring, wide enough to cover the typical bilinear-sampling footprint
// at a chart seam without bleeding far past it.
const borderDilationPasses = 4

// Pipeline wires C4 (rating) through C11 (dilation) into one run: build a
// Pipeline with New, then call Run.
type Pipeline struct {
	Mesh    *mesh.Mesh
	Cameras []camera.Camera
	Cache   *imagecache.Cache
	Options Options
}

// New builds a Pipeline, allocating its own bounded image cache from
// opts.ImageCacheSize and decoder.
func New(msh *mesh.Mesh, cams []camera.Camera, decoder imagecache.Decoder, opts Options) *Pipeline {
	return &Pipeline{
		Mesh:    msh,
		Cameras: cams,
		Cache:   imagecache.New(opts.ImageCacheSize, decoder),
		Options: opts,
	}
}

// Result is a finished run: the mesh with per-triangle UVs assigned (TEXTURE
// and FLAT), the coloured atlas image (nil for VERTEX), the per-vertex
// colours (nil except VERTEX), and the accumulated recovered-error log.
type Result struct {
	Mesh         *mesh.Mesh
	Atlas        *image.RGBA
	VertexColors []color.RGBA
	Diagnostics  *diag.Log

	// Charts, Placements and AtlasSize are only populated for TEXTURE and
	// FLAT, and exist so a caller can feed debugviz.RenderChartLayout
	// without re-running the unwrap/pack stages.
	Charts     []chart.Chart
	Placements []pack.Placement
	AtlasSize  geometry.Size
}

var dispatchTable = map[MappingMode]func(*Pipeline, *rating.Matrix, *diag.Log) (*Result, error){
	Texture: runTexture,
	Vertex:  runVertex,
	Flat:    runFlat,
}

// Run validates options, computes the shaped/smoothed rating matrix (C4),
// and dispatches to the handler for Options.MapMode.
func (p *Pipeline) Run() (*Result, error) {
	if err := p.Options.Validate(); err != nil {
		return nil, err
	}

	log := &diag.Log{}
	mat, err := p.rate(log)
	if err != nil {
		return nil, err
	}

	handler, ok := dispatchTable[p.Options.MapMode]
	if !ok {
		handler = runTexture
	}
	return handler(p, mat, log)
}

func (p *Pipeline) rate(log *diag.Log) (*rating.Matrix, error) {
	opts := p.Options
	ratingOpts := rating.Options{
		Mode:          opts.CamAssignMode,
		Alpha:         opts.Alpha,
		Beta:          opts.Beta,
		OcclusionGrid: opts.OcclusionGrid,
		FaceBoost:     opts.FaceBoost,
		FaceProvider:  opts.FaceProvider,
	}

	raw, err := rating.Evaluate(p.Mesh, p.Cameras, ratingOpts, log)
	if err != nil {
		return nil, err
	}
	boosted, err := rating.BoostFaces(raw, p.Mesh, p.Cameras, ratingOpts)
	if err != nil {
		return nil, err
	}
	shaped := rating.Shape(boosted, opts.Alpha, opts.Beta)
	smoothed := rating.Smooth(shaped, p.Mesh)
	if !opts.Photoconsistency {
		return smoothed, nil
	}
	return atlas.CheckPhotoconsistency(p.Mesh, p.Cameras, smoothed, p.Cache, opts.NumCamMix, opts.ConsistencyScale, log), nil
}

// consistencyScale returns the photoconsistency threshold multiplier to
// use, or math.MaxFloat64 when Options.Photoconsistency is off, which makes
// the threshold large enough that nothing is discarded while the median
// pairwise distance is positive. math.MaxFloat64 rather than +Inf: a zero
// median pairwise distance times +Inf is NaN, and a NaN threshold fails
// every sample's keep-check, leaving only the highest-weighted sample.
func (p *Pipeline) consistencyScale() float64 {
	if !p.Options.Photoconsistency {
		return math.MaxFloat64
	}
	return p.Options.ConsistencyScale
}

func runTexture(p *Pipeline, mat *rating.Matrix, log *diag.Log) (*Result, error) {
	charts := unwrap.Unwrap(p.Mesh, p.Cameras, mat)
	placements, size, err := pack.Pack(charts, pack.Options{
		Dimension:  p.Options.Dimension,
		Gutter:     p.Options.Gutter,
		PowerOfTwo: p.Options.PowerOfTwoImSize,
		MinScale:   p.Options.MinPackScale,
	})
	if err != nil {
		return nil, err
	}

	rast := atlas.Rasterize(charts, placements, size)
	triCorners := atlas.PlacedTriangleCorners(charts, placements)

	colourOpts := atlas.ColourOptions{
		NumCamMix:        p.Options.NumCamMix,
		ConsistencyScale: p.consistencyScale(),
		Background:       backgroundColour,
	}
	img := atlas.Colour(rast, triCorners, p.Mesh, p.Cameras, mat, p.Cache, colourOpts, log)
	img = atlas.DilateIterative(img, rast.PixTriangle, borderDilationPasses)

	if p.Options.HighlightOcclusions {
		occluded, err := p.occludedTriangles(log)
		if err != nil {
			return nil, err
		}
		tintOccluded(img, rast, occluded)
	}

	assignUV(p.Mesh, triCorners, size)

	return &Result{Mesh: p.Mesh, Atlas: img, Diagnostics: log, Charts: charts, Placements: placements, AtlasSize: size}, nil
}

func runFlat(p *Pipeline, mat *rating.Matrix, log *diag.Log) (*Result, error) {
	charts := unwrap.Unwrap(p.Mesh, p.Cameras, mat)
	placements, size, err := pack.Pack(charts, pack.Options{
		Dimension:  p.Options.Dimension,
		Gutter:     p.Options.Gutter,
		PowerOfTwo: p.Options.PowerOfTwoImSize,
		MinScale:   p.Options.MinPackScale,
	})
	if err != nil {
		return nil, err
	}

	rast := atlas.Rasterize(charts, placements, size)
	triCorners := atlas.PlacedTriangleCorners(charts, placements)

	img := atlas.ColourFlat(rast, charts, p.Mesh, p.Cameras, mat, p.Cache, backgroundColour, log)
	img = atlas.DilateIterative(img, rast.PixTriangle, borderDilationPasses)

	if p.Options.HighlightOcclusions {
		occluded, err := p.occludedTriangles(log)
		if err != nil {
			return nil, err
		}
		tintOccluded(img, rast, occluded)
	}

	assignUV(p.Mesh, triCorners, size)

	return &Result{Mesh: p.Mesh, Atlas: img, Diagnostics: log, Charts: charts, Placements: placements, AtlasSize: size}, nil
}

func runVertex(p *Pipeline, mat *rating.Matrix, log *diag.Log) (*Result, error) {
	colours := ColourVertices(p.Mesh, p.Cameras, mat, p.Cache, vertexBackgroundColour, log)
	return &Result{Mesh: p.Mesh, VertexColors: colours, Diagnostics: log}, nil
}

// assignUV normalizes every triangle's atlas-pixel corners (from
// PlacedTriangleCorners) into [0, 1] texture space and writes them back
// onto the mesh.
func assignUV(msh *mesh.Mesh, triCorners map[int][3]geometry.Point2, size geometry.Size) {
	if size.Width <= 0 || size.Height <= 0 {
		return
	}
	w, h := float64(size.Width), float64(size.Height)
	for t, corners := range triCorners {
		var u, v [3]float64
		for i, c := range corners {
			u[i] = c.X / w
			v[i] = c.Y / h
		}
		msh.SetTriangleUV(t, u, v)
	}
}
