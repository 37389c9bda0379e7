package mvtex

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/Gabriellgpc/SSMVtex/camera"
	"github.com/Gabriellgpc/SSMVtex/imagecache"
	"github.com/Gabriellgpc/SSMVtex/mesh"
	"github.com/Gabriellgpc/SSMVtex/ssmverr"
)

type solidDecoder struct {
	colour color.RGBA
}

func (d solidDecoder) Decode(path string) (imagecache.View, error) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, d.colour)
		}
	}
	return imagecache.NewView(img), nil
}

func frontalCamera(z float64, path string) camera.Camera {
	return camera.New(
		camera.Intrinsics{FocalX: 20, FocalY: 20, PrincipalX: 32, PrincipalY: 32, Width: 64, Height: 64},
		camera.Extrinsics{Position: r3.Vector{X: 0, Y: 0, Z: z}, Rotation: mgl64.Ident3()},
		path,
	)
}

func singleTriangleMesh(t *testing.T) *mesh.Mesh {
	verts := []r3.Vector{
		{X: -1, Y: -1, Z: 0}, {X: 0, Y: 2, Z: 0}, {X: 1, Y: -1, Z: 0},
	}
	m, err := mesh.New(verts, []mesh.Triangle{{V0: 0, V1: 1, V2: 2}})
	if err != nil {
		t.Fatalf("mesh.New: %v", err)
	}
	return m
}

func TestPipelineTextureModeAssignsUVAndAtlas(t *testing.T) {
	m := singleTriangleMesh(t)
	cam := frontalCamera(-10, "a.png")
	decoder := solidDecoder{colour: color.RGBA{R: 90, G: 60, B: 30, A: 255}}

	opts := Default()
	opts.Dimension = 4096

	p := New(m, []camera.Camera{cam}, decoder, opts)
	result, err := p.Run()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.Atlas, test.ShouldNotBeNil)
	test.That(t, result.VertexColors, test.ShouldBeNil)
	test.That(t, result.Diagnostics, test.ShouldNotBeNil)

	tr := result.Mesh.Triangle(0)
	for i := 0; i < 3; i++ {
		test.That(t, tr.U[i], test.ShouldBeBetween, -0.01, 1.01)
		test.That(t, tr.V[i], test.ShouldBeBetween, -0.01, 1.01)
	}
}

func TestPipelineVertexModeColoursEveryVertexNoAtlas(t *testing.T) {
	m := singleTriangleMesh(t)
	cam := frontalCamera(-10, "a.png")
	decoder := solidDecoder{colour: color.RGBA{R: 10, G: 200, B: 40, A: 255}}

	opts := Default()
	opts.MapMode = Vertex

	p := New(m, []camera.Camera{cam}, decoder, opts)
	result, err := p.Run()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.Atlas, test.ShouldBeNil)
	test.That(t, len(result.VertexColors), test.ShouldEqual, m.NumVertices())
	for _, c := range result.VertexColors {
		test.That(t, c.G, test.ShouldBeGreaterThan, c.R)
	}
}

func TestPipelineFlatModePaintsSolidChartColour(t *testing.T) {
	m := singleTriangleMesh(t)
	cam := frontalCamera(-10, "a.png")
	decoder := solidDecoder{colour: color.RGBA{R: 5, G: 5, B: 220, A: 255}}

	opts := Default()
	opts.MapMode = Flat
	opts.Dimension = 4096

	p := New(m, []camera.Camera{cam}, decoder, opts)
	result, err := p.Run()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.Atlas, test.ShouldNotBeNil)

	b := result.Atlas.Bounds()
	cx, cy := (b.Min.X+b.Max.X)/2, (b.Min.Y+b.Max.Y)/2
	got := result.Atlas.RGBAAt(cx, cy)
	test.That(t, got.B, test.ShouldBeGreaterThan, got.R)
}

func TestPipelineVertexModeEmptyCameraSetFallsBackToGrey(t *testing.T) {
	m := singleTriangleMesh(t)

	opts := Default()
	opts.MapMode = Vertex

	p := New(m, nil, solidDecoder{}, opts)
	result, err := p.Run()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(result.VertexColors), test.ShouldEqual, m.NumVertices())
	for _, c := range result.VertexColors {
		test.That(t, c, test.ShouldResemble, vertexBackgroundColour)
	}
}

func TestPipelineRunPropagatesValidationError(t *testing.T) {
	m := singleTriangleMesh(t)
	opts := Default()
	opts.NumCamMix = 0

	p := New(m, nil, solidDecoder{}, opts)
	_, err := p.Run()
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPipelineRunPropagatesPackingOverflow(t *testing.T) {
	m := singleTriangleMesh(t)
	cam := frontalCamera(-10, "a.png")
	decoder := solidDecoder{colour: color.RGBA{A: 255}}

	opts := Default()
	opts.Dimension = 1e-9
	opts.MinPackScale = 0.999

	p := New(m, []camera.Camera{cam}, decoder, opts)
	_, err := p.Run()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, ssmverr.Is(err, ssmverr.PackingOverflow), test.ShouldBeTrue)
}
