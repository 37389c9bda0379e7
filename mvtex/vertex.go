package mvtex

import (
	"image/color"

	"github.com/Gabriellgpc/SSMVtex/camera"
	"github.com/Gabriellgpc/SSMVtex/diag"
	"github.com/Gabriellgpc/SSMVtex/imagecache"
	"github.com/Gabriellgpc/SSMVtex/mesh"
	"github.com/Gabriellgpc/SSMVtex/rating"
	"github.com/Gabriellgpc/SSMVtex/ssmverr"
)

// ColourVertices implements VERTEX mode: no atlas, no unwrap/pack/raster
// stages. Each vertex is coloured by blending, across every triangle
// incident to it, the sample its triangle's top-rated camera sees at that
// vertex's own world position, weighted by that triangle/camera's rating.
// A vertex touched only by unseen (zero-rated) triangles falls back to
// background.
func ColourVertices(
	msh *mesh.Mesh,
	cams []camera.Camera,
	mat *rating.Matrix,
	cache *imagecache.Cache,
	background color.RGBA,
	log *diag.Log,
) []color.RGBA {
	incident := msh.IncidentTriangles()
	out := make([]color.RGBA, msh.NumVertices())
	for vi := 0; vi < msh.NumVertices(); vi++ {
		out[vi] = colourOneVertex(vi, incident[vi], msh, cams, mat, cache, background, log)
	}
	return out
}

func colourOneVertex(
	vi int,
	triangles []int,
	msh *mesh.Mesh,
	cams []camera.Camera,
	mat *rating.Matrix,
	cache *imagecache.Cache,
	background color.RGBA,
	log *diag.Log,
) color.RGBA {
	p := msh.Vertex(vi)

	var rSum, gSum, bSum, wSum float64
	for _, t := range triangles {
		c, ok := mat.BestCamera(t)
		if !ok {
			continue
		}
		w := mat.Rating(c, t)
		cam := cams[c]
		pixel, _, visible := cam.Sees(p)
		if !visible {
			continue
		}
		view, err := cache.Fetch(cam.ImagePath)
		if err != nil {
			log.Add(ssmverr.ImageUnavailable, t, c, "vertex colour: %v", err)
			continue
		}
		r, g, b := view.Bilinear(pixel.X, pixel.Y)
		rSum += r * w
		gSum += g * w
		bSum += b * w
		wSum += w
	}
	if wSum <= 0 {
		return background
	}
	return color.RGBA{
		R: clampByte(rSum / wSum),
		G: clampByte(gSum / wSum),
		B: clampByte(bSum / wSum),
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
