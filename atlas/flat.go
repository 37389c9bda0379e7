package atlas

import (
	"image"
	"image/color"

	"github.com/Gabriellgpc/SSMVtex/camera"
	"github.com/Gabriellgpc/SSMVtex/chart"
	"github.com/Gabriellgpc/SSMVtex/diag"
	"github.com/Gabriellgpc/SSMVtex/imagecache"
	"github.com/Gabriellgpc/SSMVtex/mesh"
	"github.com/Gabriellgpc/SSMVtex/rating"
	"github.com/Gabriellgpc/SSMVtex/ssmverr"
)

// ColourFlat implements the FLAT output mode's colourer: every chart gets a
// single solid colour, the rating-weighted mean of its primary camera's
// samples at each member triangle's centroid, rather than a per-pixel
// multi-camera blend. The unseen chart (no primary camera) paints as
// background.
func ColourFlat(
	a *Atlas,
	charts []chart.Chart,
	msh *mesh.Mesh,
	cams []camera.Camera,
	mat *rating.Matrix,
	cache *imagecache.Cache,
	background color.RGBA,
	log *diag.Log,
) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, a.Size.Width, a.Size.Height))
	for y := 0; y < a.Size.Height; y++ {
		for x := 0; x < a.Size.Width; x++ {
			img.SetRGBA(x, y, background)
		}
	}

	triToChart := make(map[int]int)
	for k, c := range charts {
		for _, tr := range c.Triangles {
			triToChart[tr.TriangleIndex] = k
		}
	}

	chartColour := make([]color.RGBA, len(charts))
	for k, c := range charts {
		chartColour[k] = flatChartColour(c, msh, cams, mat, cache, background, log)
	}

	for y := 0; y < a.Size.Height; y++ {
		for x := 0; x < a.Size.Width; x++ {
			t := a.PixTriangle[y][x]
			if t < 0 {
				continue
			}
			k, ok := triToChart[int(t)]
			if !ok {
				continue
			}
			img.SetRGBA(x, y, chartColour[k])
		}
	}
	return img
}

func flatChartColour(
	c chart.Chart,
	msh *mesh.Mesh,
	cams []camera.Camera,
	mat *rating.Matrix,
	cache *imagecache.Cache,
	background color.RGBA,
	log *diag.Log,
) color.RGBA {
	if c.IsUnseen() {
		return background
	}
	cam := cams[c.PrimaryCamera]

	var rSum, gSum, bSum, wSum float64
	for _, tri := range c.Triangles {
		t := tri.TriangleIndex
		w := mat.Rating(c.PrimaryCamera, t)
		if w <= 0 {
			continue
		}
		centroid := msh.Centroid(t)
		pixel, _, visible := cam.Sees(centroid)
		if !visible {
			continue
		}
		view, err := cache.Fetch(cam.ImagePath)
		if err != nil {
			log.Add(ssmverr.ImageUnavailable, t, c.PrimaryCamera, "flat colour: %v", err)
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
