package atlas

import (
	"image"
	"image/color"
	"runtime"
	"sync"

	"github.com/golang/geo/r3"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/montanaflynn/stats"

	"github.com/Gabriellgpc/SSMVtex/camera"
	"github.com/Gabriellgpc/SSMVtex/diag"
	"github.com/Gabriellgpc/SSMVtex/geometry"
	"github.com/Gabriellgpc/SSMVtex/imagecache"
	"github.com/Gabriellgpc/SSMVtex/mesh"
	"github.com/Gabriellgpc/SSMVtex/rating"
	"github.com/Gabriellgpc/SSMVtex/ssmverr"
)

// ColourOptions bundles the colourer's knobs.
type ColourOptions struct {
	NumCamMix        int     // top-N cameras considered per triangle
	ConsistencyScale float64 // multiplies the median pairwise Lab distance to get the discard threshold
	Background       color.RGBA
}

type sample struct {
	camIdx  int
	r, g, b float64
	weight  float64
}

// Colour implements the atlas colourer (C10): for every non-background
// pixel it interpolates the world position from the rasterized triangle's
// barycentric coordinates, samples the top-rated cameras, runs the
// photoconsistency filter, and writes the weight-normalised blend.
// Recovered per-pixel failures (no surviving camera, a decode failure) are
// appended to log and painted opts.Background rather than aborting.
func Colour(
	a *Atlas,
	triCorners map[int][3]geometry.Point2,
	msh *mesh.Mesh,
	cams []camera.Camera,
	mat *rating.Matrix,
	cache *imagecache.Cache,
	opts ColourOptions,
	log *diag.Log,
) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, a.Size.Width, a.Size.Height))
	for y := 0; y < a.Size.Height; y++ {
		for x := 0; x < a.Size.Width; x++ {
			img.SetRGBA(x, y, opts.Background)
		}
	}
	if a.Size.Width <= 0 || a.Size.Height <= 0 {
		return img
	}

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	if workers > a.Size.Height {
		workers = a.Size.Height
	}

	rows := make(chan int, a.Size.Height)
	for y := 0; y < a.Size.Height; y++ {
		rows <- y
	}
	close(rows)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				colourRow(img, a, y, triCorners, msh, cams, mat, cache, opts, log)
			}
		}()
	}
	wg.Wait()
	return img
}

func colourRow(
	img *image.RGBA,
	a *Atlas,
	y int,
	triCorners map[int][3]geometry.Point2,
	msh *mesh.Mesh,
	cams []camera.Camera,
	mat *rating.Matrix,
	cache *imagecache.Cache,
	opts ColourOptions,
	log *diag.Log,
) {
	for x := 0; x < a.Size.Width; x++ {
		t := a.PixTriangle[y][x]
		if t < 0 {
			continue
		}
		c, ok := colourPixel(int(t), x, y, triCorners, msh, cams, mat, cache, opts, log)
		if !ok {
			continue
		}
		img.SetRGBA(x, y, c)
	}
}

func colourPixel(
	t, x, y int,
	triCorners map[int][3]geometry.Point2,
	msh *mesh.Mesh,
	cams []camera.Camera,
	mat *rating.Matrix,
	cache *imagecache.Cache,
	opts ColourOptions,
	log *diag.Log,
) (color.RGBA, bool) {
	corners, ok := triCorners[t]
	if !ok {
		return color.RGBA{}, false
	}
	center := geometry.Point2{X: float64(x) + 0.5, Y: float64(y) + 0.5}
	u, v, w, ok := geometry.Barycentric2(center, corners[0], corners[1], corners[2])
	if !ok {
		log.Add(ssmverr.Degenerate, t, -1, "colour: triangle %d is degenerate in atlas space", t)
		return color.RGBA{}, false
	}

	a3, b3, c3 := msh.TrianglePositions(t)
	p := a3.Mul(u).Add(b3.Mul(v)).Add(c3.Mul(w))

	topCams := mat.TopCameras(t, opts.NumCamMix)
	if len(topCams) == 0 {
		return color.RGBA{}, false
	}

	samples := collectSamples(p, topCams, t, cams, mat, cache, log)
	if len(samples) == 0 {
		return color.RGBA{}, false
	}

	surviving := filterPhotoconsistent(samples, opts.ConsistencyScale)
	return blend(surviving), true
}

func collectSamples(
	p r3.Vector,
	topCams []int,
	t int,
	cams []camera.Camera,
	mat *rating.Matrix,
	cache *imagecache.Cache,
	log *diag.Log,
) []sample {
	samples := make([]sample, 0, len(topCams))
	for _, c := range topCams {
		cam := cams[c]
		pixel, _, visible := cam.Sees(p)
		if !visible {
			continue
		}
		view, err := cache.Fetch(cam.ImagePath)
		if err != nil {
			log.Add(ssmverr.ImageUnavailable, t, c, "colour: %v", err)
			continue
		}
		r, g, b := view.Bilinear(pixel.X, pixel.Y)
		samples = append(samples, sample{camIdx: c, r: r, g: g, b: b, weight: mat.Rating(c, t)})
	}
	return samples
}

// filterPhotoconsistent implements §4.9 step 5: with two or more samples,
// discard any whose mean Lab distance to the others exceeds the median
// pairwise distance scaled by consistencyScale. If fewer than two survive
// (including the fewer-than-two-samples case), fall back to the single
// highest-weighted sample, ties broken by lowest camera index.
func filterPhotoconsistent(samples []sample, consistencyScale float64) []sample {
	if len(samples) < 2 {
		return samples
	}

	lab := make([]colorful.Color, len(samples))
	for i, s := range samples {
		lab[i] = colorful.Color{R: s.r / 255, G: s.g / 255, B: s.b / 255}
	}

	meanDist := make([]float64, len(samples))
	var pairwise []float64
	for i := range samples {
		var sum float64
		for j := range samples {
			if i == j {
				continue
			}
			d := lab[i].DistanceLab(lab[j])
			sum += d
			if j > i {
				pairwise = append(pairwise, d)
			}
		}
		meanDist[i] = sum / float64(len(samples)-1)
	}

	median, err := stats.Median(pairwise)
	if err != nil {
		return []sample{highestWeighted(samples)}
	}
	threshold := median * consistencyScale

	var surviving []sample
	for i, s := range samples {
		if meanDist[i] <= threshold {
			surviving = append(surviving, s)
		}
	}
	if len(surviving) < 2 {
		return []sample{highestWeighted(samples)}
	}
	return surviving
}

// CheckPhotoconsistency is the chart-wide photoconsistency pre-pass: before
// unwrap/Colour ever runs, it samples each triangle's current top-rated
// cameras at the triangle's centroid, runs them through the same Lab-distance
// filter Colour uses per pixel, and returns a new matrix that keeps, for
// each triangle, only the ratings of the sampled cameras the filter keeps;
// every other rating, including those of cameras outside the top
// numCamMix and of top cameras that cannot see the centroid, is zero. A
// triangle with fewer than two surviving cameras keeps only its single
// highest-weighted one, same fallback as the per-pixel pass.
//
// Running CheckPhotoconsistency again on its own output is a no-op: the
// second pass's top-N cameras per triangle are exactly the first pass's
// survivors, which already satisfy the consistency filter among themselves.
func CheckPhotoconsistency(
	msh *mesh.Mesh,
	cams []camera.Camera,
	mat *rating.Matrix,
	cache *imagecache.Cache,
	numCamMix int,
	consistencyScale float64,
	log *diag.Log,
) *rating.Matrix {
	pruned := rating.NewMatrix(mat.NumCameras(), mat.NumTriangles())
	for t := 0; t < mat.NumTriangles(); t++ {
		topCams := mat.TopCameras(t, numCamMix)
		if len(topCams) == 0 {
			continue
		}
		centroid := msh.Centroid(t)
		samples := collectSamples(centroid, topCams, t, cams, mat, cache, log)
		for _, s := range filterPhotoconsistent(samples, consistencyScale) {
			pruned.SetRating(s.camIdx, t, mat.Rating(s.camIdx, t))
		}
	}
	return pruned
}

func highestWeighted(samples []sample) sample {
	best := samples[0]
	for _, s := range samples[1:] {
		if s.weight > best.weight || (s.weight == best.weight && s.camIdx < best.camIdx) {
			best = s
		}
	}
	return best
}

func blend(samples []sample) color.RGBA {
	var r, g, b, wsum float64
	for _, s := range samples {
		r += s.r * s.weight
		g += s.g * s.weight
		b += s.b * s.weight
		wsum += s.weight
	}
	if wsum <= 0 {
		return color.RGBA{A: 255}
	}
	return color.RGBA{
		R: clampByte(r / wsum),
		G: clampByte(g / wsum),
		B: clampByte(b / wsum),
		A: 255,
	}
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
