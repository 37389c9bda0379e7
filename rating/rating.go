// Package rating computes the per-triangle, per-camera suitability matrix
// (C4) that drives both chart assignment and colour blending: one of four
// CamAssignMode strategies, a weighted-normal shaping pass, one round of
// adjacency smoothing, and an optional face-ROI rating boost.
package rating

import (
	"math"
	"runtime"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"

	"github.com/Gabriellgpc/SSMVtex/camera"
	"github.com/Gabriellgpc/SSMVtex/diag"
	"github.com/Gabriellgpc/SSMVtex/faceroi"
	"github.com/Gabriellgpc/SSMVtex/geometry"
	"github.com/Gabriellgpc/SSMVtex/mesh"
	"github.com/Gabriellgpc/SSMVtex/occlusion"
	"github.com/Gabriellgpc/SSMVtex/ssmverr"
)

// Mode selects the camera-assignment strategy, the CamAssignMode of §4.4.
type Mode int

const (
	// NormalVertex rates by the dot product of the triangle's face normal
	// and the view vector from centroid to camera.
	NormalVertex Mode = iota
	// NormalBaricenter rates per vertex and averages.
	NormalBaricenter
	// Area rates by projected pixel-space area.
	Area
	// AreaOcclusion is Area gated by an all-three-vertices visibility test.
	AreaOcclusion
)

func (m Mode) String() string {
	switch m {
	case NormalVertex:
		return "NORMAL_VERTEX"
	case NormalBaricenter:
		return "NORMAL_BARICENTER"
	case Area:
		return "AREA"
	case AreaOcclusion:
		return "AREA_OCCLUSION"
	default:
		return "UNKNOWN"
	}
}

// Options bundles the knobs the rating engine needs from the global config
// (§6): the assignment mode, the shaping cutoff/curvature, and the
// occlusion grid resolution used only by AreaOcclusion.
type Options struct {
	Mode          Mode
	Alpha         float64 // shaping cutoff, in [0, 1)
	Beta          float64 // shaping curvature, > 0
	OcclusionGrid int     // grid resolution G for AreaOcclusion, e.g. 64
	FaceBoost     float64 // multiplier applied inside a detected face ROI, > 1
	FaceProvider  faceroi.Provider
}

// Matrix is the [nCam x nTri] rating matrix, backed by a dense gonum
// matrix so downstream stages get real row/column slicing for free.
type Matrix struct {
	*mat.Dense
	nCam, nTri int
}

// NewMatrix allocates a zeroed [nCam x nTri] matrix. A matrix with a zero
// dimension has no backing storage, since gonum cannot allocate one.
func NewMatrix(nCam, nTri int) *Matrix {
	m := &Matrix{nCam: nCam, nTri: nTri}
	if nCam > 0 && nTri > 0 {
		m.Dense = mat.NewDense(nCam, nTri, nil)
	}
	return m
}

// NumCameras returns the matrix's camera dimension.
func (m *Matrix) NumCameras() int { return m.nCam }

// NumTriangles returns the matrix's triangle dimension.
func (m *Matrix) NumTriangles() int { return m.nTri }

// Rating returns R[c][t].
func (m *Matrix) Rating(c, t int) float64 { return m.At(c, t) }

// SetRating sets R[c][t].
func (m *Matrix) SetRating(c, t int, v float64) { m.Set(c, t, v) }

// TopCameras returns up to n camera indices with the highest (strictly
// positive) rating for triangle t, sorted best-first, ties broken by lowest
// camera index, per the spec's mandated tie-break.
func (m *Matrix) TopCameras(t, n int) []int {
	type scored struct {
		cam    int
		rating float64
	}
	cands := lo.FilterMap(lo.Range(m.nCam), func(c, _ int) (scored, bool) {
		r := m.At(c, t)
		return scored{c, r}, r > 0
	})
	// Stable selection sort keeps the tie-break rule explicit and avoids
	// relying on sort.Slice's unspecified behaviour for equal keys.
	for i := 0; i < len(cands); i++ {
		best := i
		for j := i + 1; j < len(cands); j++ {
			if cands[j].rating > cands[best].rating ||
				(cands[j].rating == cands[best].rating && cands[j].cam < cands[best].cam) {
				best = j
			}
		}
		cands[i], cands[best] = cands[best], cands[i]
	}
	if n > len(cands) {
		n = len(cands)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = cands[i].cam
	}
	return out
}

// BestCamera returns the camera with the highest rating for t and true, or
// (0, false) if every camera rates t at 0.
func (m *Matrix) BestCamera(t int) (int, bool) {
	top := m.TopCameras(t, 1)
	if len(top) == 0 {
		return 0, false
	}
	return top[0], true
}

// Evaluate builds the raw (unshaped, unsmoothed) rating matrix for msh
// against cams using the strategy selected by opts.Mode, fanned out by
// triangle across a worker pool sized to GOMAXPROCS. Recovered per-triangle
// degeneracies are appended to log rather than failing the whole run.
func Evaluate(msh *mesh.Mesh, cams []camera.Camera, opts Options, log *diag.Log) (*Matrix, error) {
	if opts.Mode == AreaOcclusion && opts.OcclusionGrid <= 0 {
		return nil, ssmverr.New(ssmverr.InputInvalid, "AreaOcclusion rating requires a positive OcclusionGrid resolution")
	}

	nCam := len(cams)
	nTri := msh.NumTriangles()
	out := NewMatrix(nCam, nTri)

	var grids []*occlusion.Grid
	if opts.Mode == AreaOcclusion {
		grids = make([]*occlusion.Grid, nCam)
		for c, cam := range cams {
			grids[c] = occlusion.Build(msh, cam, opts.OcclusionGrid)
		}
	}

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	if workers > nTri && nTri > 0 {
		workers = nTri
	}

	var wg sync.WaitGroup
	triCh := make(chan int, nTri)
	for t := 0; t < nTri; t++ {
		triCh <- t
	}
	close(triCh)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range triCh {
				for c, cam := range cams {
					out.SetRating(c, t, rateOne(msh, cam, t, c, opts, grids, log))
				}
			}
		}()
	}
	wg.Wait()

	return out, nil
}

func rateOne(msh *mesh.Mesh, cam camera.Camera, t, camIdx int, opts Options, grids []*occlusion.Grid, log *diag.Log) float64 {
	switch opts.Mode {
	case NormalVertex:
		return rateNormal(msh, cam, t, log)
	case NormalBaricenter:
		return rateNormalBaricenter(msh, cam, t, log)
	case Area:
		return rateArea(msh, cam, t, log)
	case AreaOcclusion:
		base := rateArea(msh, cam, t, log)
		if base <= 0 || grids[camIdx] == nil {
			return 0
		}
		idx := msh.Triangle(t).Indices()
		if !allVerticesVisible(grids[camIdx], idx, t) {
			return 0
		}
		return base
	default:
		return 0
	}
}

func allVerticesVisible(g *occlusion.Grid, idx [3]int, t int) bool {
	for _, v := range idx {
		if !g.Visible(v, t) {
			return false
		}
	}
	return true
}

func rateNormal(msh *mesh.Mesh, cam camera.Camera, t int, log *diag.Log) float64 {
	n, ok := msh.Normal(t)
	if !ok {
		log.Add(ssmverr.Degenerate, t, -1, "degenerate triangle has no normal")
		return 0
	}
	if !projectsFullyInside(msh, cam, t) {
		return 0
	}
	centroid := msh.Centroid(t)
	v := cam.ViewVector(centroid)
	d := n.Dot(v)
	if d < 0 {
		return 0
	}
	return d
}

func rateNormalBaricenter(msh *mesh.Mesh, cam camera.Camera, t int, log *diag.Log) float64 {
	n, ok := msh.Normal(t)
	if !ok {
		log.Add(ssmverr.Degenerate, t, -1, "degenerate triangle has no normal")
		return 0
	}
	if !projectsFullyInside(msh, cam, t) {
		return 0
	}
	a, b, c := msh.TrianglePositions(t)
	sum := 0.0
	for _, p := range [3]r3.Vector{a, b, c} {
		d := n.Dot(cam.ViewVector(p))
		if d < 0 {
			d = 0
		}
		sum += d
	}
	return sum / 3.0
}

func rateArea(msh *mesh.Mesh, cam camera.Camera, t int, log *diag.Log) float64 {
	n, ok := msh.Normal(t)
	if !ok {
		log.Add(ssmverr.Degenerate, t, -1, "degenerate triangle has no area")
		return 0
	}
	centroid := msh.Centroid(t)
	if n.Dot(cam.ViewVector(centroid)) < 0 {
		return 0
	}
	if !projectsFullyInside(msh, cam, t) {
		return 0
	}
	a, b, c := msh.TrianglePositions(t)
	pa, _, _ := cam.Project(a)
	pb, _, _ := cam.Project(b)
	pc, _, _ := cam.Project(c)
	area := geometry.SignedArea2(pa, pb, pc)
	if area < 0 {
		area = -area
	}
	return area
}

func projectsFullyInside(msh *mesh.Mesh, cam camera.Camera, t int) bool {
	a, b, c := msh.TrianglePositions(t)
	for _, p := range [3]r3.Vector{a, b, c} {
		pixel, _, inFront := cam.Project(p)
		if !inFront || !cam.InImage(pixel) {
			return false
		}
	}
	return true
}

// Shape applies the weighted-normal shaping function w(x) described in
// §4.4 to every entry of raw, normalizing each triangle's column by its own
// maximum first. alpha in [0,1), beta > 0; at alpha == 1 (an open question
// resolved by this spec) everything maps to 0 except the exact maximum,
// which maps to 1.
func Shape(raw *Matrix, alpha, beta float64) *Matrix {
	out := NewMatrix(raw.nCam, raw.nTri)
	for t := 0; t < raw.nTri; t++ {
		maxR := 0.0
		for c := 0; c < raw.nCam; c++ {
			if r := raw.At(c, t); r > maxR {
				maxR = r
			}
		}
		if maxR <= 0 {
			continue
		}
		for c := 0; c < raw.nCam; c++ {
			x := raw.At(c, t) / maxR
			out.SetRating(c, t, w(x, alpha, beta))
		}
	}
	return out
}

func w(x, alpha, beta float64) float64 {
	if alpha >= 1 {
		if x >= 1-1e-12 {
			return 1
		}
		return 0
	}
	if x < alpha {
		return 0
	}
	base := (x - alpha) / (1 - alpha)
	return math.Pow(base, beta)
}

// Smooth performs the one-pass adjacency smoothing of §4.4: for every
// triangle t and camera c, R[c][t] becomes the average of R[c][t] and
// R[c][t'] over all t' adjacent to t. Triangles with no neighbours are
// unaffected.
func Smooth(in *Matrix, msh *mesh.Mesh) *Matrix {
	adj := msh.Adjacency()
	out := NewMatrix(in.nCam, in.nTri)
	for t := 0; t < in.nTri; t++ {
		neighbors := adj[t]
		for c := 0; c < in.nCam; c++ {
			sum := in.At(c, t)
			n := 1
			for _, tp := range neighbors {
				sum += in.At(c, tp)
				n++
			}
			out.SetRating(c, t, sum/float64(n))
		}
	}
	return out
}

// BoostFaces applies the face-ROI rating multiplier of §4.6: any triangle
// whose full 2D projection lies inside a detected face rectangle for that
// camera has its rating for that camera multiplied by opts.FaceBoost.
// Triangles not fully inside a rectangle are untouched. A nil provider
// leaves the matrix unchanged.
func BoostFaces(in *Matrix, msh *mesh.Mesh, cams []camera.Camera, opts Options) (*Matrix, error) {
	if opts.FaceProvider == nil {
		return in, nil
	}
	out := NewMatrix(in.nCam, in.nTri)
	out.Copy(in.Dense)

	for c, cam := range cams {
		rects, err := opts.FaceProvider.Faces(c, geometry.Size{Width: cam.Intrinsics.Width, Height: cam.Intrinsics.Height})
		if err != nil {
			return nil, ssmverr.Wrap(ssmverr.ImageUnavailable, err, "face-ROI provider failed")
		}
		if len(rects) == 0 {
			continue
		}
		for t := 0; t < in.nTri; t++ {
			if in.At(c, t) <= 0 {
				continue
			}
			if !fullyInsideAnyRect(msh, cam, t, rects) {
				continue
			}
			out.SetRating(c, t, in.At(c, t)*opts.FaceBoost)
		}
	}
	return out, nil
}

func fullyInsideAnyRect(msh *mesh.Mesh, cam camera.Camera, t int, rects []faceroi.Rect) bool {
	a, b, c := msh.TrianglePositions(t)
	corners := [3]r3.Vector{a, b, c}
	for _, rect := range rects {
		allIn := true
		for _, corner := range corners {
			pixel, _, inFront := cam.Project(corner)
			if !inFront || !rect.Contains(pixel) {
				allIn = false
				break
			}
		}
		if allIn {
			return true
		}
	}
	return false
}
