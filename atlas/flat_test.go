package atlas

import (
	"image/color"
	"testing"

	"go.viam.com/test"

	"github.com/Gabriellgpc/SSMVtex/camera"
	"github.com/Gabriellgpc/SSMVtex/chart"
	"github.com/Gabriellgpc/SSMVtex/diag"
	"github.com/Gabriellgpc/SSMVtex/geometry"
	"github.com/Gabriellgpc/SSMVtex/imagecache"
	"github.com/Gabriellgpc/SSMVtex/rating"
)

func TestColourFlatPaintsOneSolidColourPerChart(t *testing.T) {
	m := colourSingleTriangleMesh(t)
	cam := colourFrontalCamera(-10, "a.png")
	decoder := flatDecoder{colours: map[string]color.RGBA{"a.png": {R: 80, G: 120, B: 160, A: 255}}}
	cache := imagecache.New(4, decoder)

	mat := rating.NewMatrix(1, 1)
	mat.SetRating(0, 0, 0.7)

	corners, a := flatAtlasCorners()
	charts := []chart.Chart{{
		PrimaryCamera: 0,
		Triangles:     []chart.TriangleUV{{TriangleIndex: 0, Corners: corners[0]}},
	}}

	background := color.RGBA{R: 1, G: 2, B: 3, A: 255}
	img := ColourFlat(a, charts, m, []camera.Camera{cam}, mat, cache, background, &diag.Log{})

	inside := img.RGBAAt(1, 1)
	test.That(t, inside, test.ShouldResemble, color.RGBA{R: 80, G: 120, B: 160, A: 255})

	outside := img.RGBAAt(3, 3)
	test.That(t, outside, test.ShouldResemble, background)
}

func TestColourFlatPaintsUnseenChartAsBackground(t *testing.T) {
	a := &Atlas{
		Size:        geometry.Size{Width: 2, Height: 2},
		PixTriangle: [][]int32{{0, 0}, {0, 0}},
		PixFrontier: [][]int32{{1, 1}, {1, 1}},
	}
	charts := []chart.Chart{{
		PrimaryCamera: -1,
		Triangles: []chart.TriangleUV{{
			TriangleIndex: 0,
			Corners:       [3]geometry.Point2{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 2}},
		}},
	}}

	background := color.RGBA{R: 9, G: 9, B: 9, A: 255}
	img := ColourFlat(a, charts, colourSingleTriangleMesh(t), nil, rating.NewMatrix(0, 1), imagecache.New(1, flatDecoder{}), background, &diag.Log{})

	got := img.RGBAAt(0, 0)
	test.That(t, got, test.ShouldResemble, background)
}
