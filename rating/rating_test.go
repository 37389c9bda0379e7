package rating

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/Gabriellgpc/SSMVtex/camera"
	"github.com/Gabriellgpc/SSMVtex/diag"
	"github.com/Gabriellgpc/SSMVtex/faceroi"
	"github.com/Gabriellgpc/SSMVtex/mesh"
)

// frontalCamera places a camera on the -Z axis looking down +Z, matching
// the single forward-facing triangle built by singleTriangleMesh.
func frontalCamera(z float64) camera.Camera {
	return camera.New(
		camera.Intrinsics{FocalX: 200, FocalY: 200, PrincipalX: 100, PrincipalY: 100, Width: 200, Height: 200},
		camera.Extrinsics{Position: r3.Vector{X: 0, Y: 0, Z: z}, Rotation: mgl64.Ident3()},
		"cam.png",
	)
}

// singleTriangleMesh is one triangle in the z=0 plane, centred on the
// camera axis (centroid at the origin) and wound so its normal points
// towards negative Z (towards frontalCamera's side of the scene). Centring
// it on the axis keeps the NORMAL_VERTEX view vector exactly (0,0,-1)
// regardless of camera distance.
func singleTriangleMesh(t *testing.T) *mesh.Mesh {
	verts := []r3.Vector{
		{X: -1, Y: -1, Z: 0},
		{X: 0, Y: 2, Z: 0},
		{X: 1, Y: -1, Z: 0},
	}
	m, err := mesh.New(verts, []mesh.Triangle{{V0: 0, V1: 1, V2: 2}})
	if err != nil {
		t.Fatalf("mesh.New: %v", err)
	}
	return m
}

func TestEvaluateAreaPrefersCloserCamera(t *testing.T) {
	m := singleTriangleMesh(t)
	near := frontalCamera(-10)
	far := frontalCamera(-20)
	behind := frontalCamera(20)

	mat, err := Evaluate(m, []camera.Camera{near, far, behind}, Options{Mode: Area}, &diag.Log{})
	test.That(t, err, test.ShouldBeNil)

	rNear := mat.Rating(0, 0)
	rFar := mat.Rating(1, 0)
	rBehind := mat.Rating(2, 0)

	test.That(t, rNear, test.ShouldBeGreaterThan, 0)
	test.That(t, rFar, test.ShouldBeGreaterThan, 0)
	test.That(t, rNear, test.ShouldBeGreaterThan, rFar)
	test.That(t, rBehind, test.ShouldEqual, 0.0)
}

func TestEvaluateNormalVertexTiesOnDirectionAlone(t *testing.T) {
	m := singleTriangleMesh(t)
	near := frontalCamera(-10)
	far := frontalCamera(-20)

	mat, err := Evaluate(m, []camera.Camera{near, far}, Options{Mode: NormalVertex}, &diag.Log{})
	test.That(t, err, test.ShouldBeNil)

	test.That(t, mat.Rating(0, 0), test.ShouldEqual, mat.Rating(1, 0))
	test.That(t, mat.Rating(0, 0), test.ShouldBeGreaterThan, 0)
}

func TestEvaluateAreaOcclusionRequiresGridResolution(t *testing.T) {
	m := singleTriangleMesh(t)
	cam := frontalCamera(-10)
	_, err := Evaluate(m, []camera.Camera{cam}, Options{Mode: AreaOcclusion, OcclusionGrid: 0}, &diag.Log{})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestTopCamerasBreaksTiesByLowestIndex(t *testing.T) {
	mat := NewMatrix(4, 1)
	mat.SetRating(0, 0, 0.5)
	mat.SetRating(1, 0, 0.9)
	mat.SetRating(2, 0, 0.9)
	mat.SetRating(3, 0, 0.1)

	top := mat.TopCameras(0, 2)
	test.That(t, len(top), test.ShouldEqual, 2)
	test.That(t, top[0], test.ShouldEqual, 1)
	test.That(t, top[1], test.ShouldEqual, 2)
}

func TestBestCameraFalseWhenAllZero(t *testing.T) {
	mat := NewMatrix(2, 1)
	_, ok := mat.BestCamera(0)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestShapeNormalizesByColumnMaxAndAppliesCutoff(t *testing.T) {
	raw := NewMatrix(2, 1)
	raw.SetRating(0, 0, 1.0)
	raw.SetRating(1, 0, 0.5)

	shaped := Shape(raw, 0.5, 1.0)
	// x=1 -> w=1; x=0.5 -> exactly at cutoff -> w=0.
	test.That(t, shaped.Rating(0, 0), test.ShouldEqual, 1.0)
	test.That(t, shaped.Rating(1, 0), test.ShouldEqual, 0.0)
}

func TestShapeAlphaOneMapsOnlyExactMaxToOne(t *testing.T) {
	raw := NewMatrix(2, 1)
	raw.SetRating(0, 0, 1.0)
	raw.SetRating(1, 0, 0.999999)

	shaped := Shape(raw, 1.0, 1.0)
	test.That(t, shaped.Rating(0, 0), test.ShouldEqual, 1.0)
	test.That(t, shaped.Rating(1, 0), test.ShouldEqual, 0.0)
}

func TestShapeSkipsAllZeroColumn(t *testing.T) {
	raw := NewMatrix(2, 1)
	shaped := Shape(raw, 0.5, 1.0)
	test.That(t, shaped.Rating(0, 0), test.ShouldEqual, 0.0)
	test.That(t, shaped.Rating(1, 0), test.ShouldEqual, 0.0)
}

func twoAdjacentTriangleMesh(t *testing.T) *mesh.Mesh {
	verts := []r3.Vector{
		{X: -1, Y: -1, Z: 0}, {X: 1, Y: -1, Z: 0}, {X: -1, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0},
	}
	m, err := mesh.New(verts, []mesh.Triangle{
		{V0: 0, V1: 1, V2: 2},
		{V0: 1, V1: 3, V2: 2},
	})
	if err != nil {
		t.Fatalf("mesh.New: %v", err)
	}
	return m
}

func TestSmoothAveragesAcrossSharedEdge(t *testing.T) {
	m := twoAdjacentTriangleMesh(t)
	in := NewMatrix(1, 2)
	in.SetRating(0, 0, 1.0)
	in.SetRating(0, 1, 0.0)

	out := Smooth(in, m)
	test.That(t, out.Rating(0, 0), test.ShouldEqual, 0.5)
	test.That(t, out.Rating(0, 1), test.ShouldEqual, 0.5)
}

func TestBoostFacesMultipliesOnlyFullyContainedTriangles(t *testing.T) {
	m := singleTriangleMesh(t)
	cam := frontalCamera(-10)
	in := NewMatrix(1, 1)
	in.SetRating(0, 0, 0.5)

	// Triangle projects to roughly x in [80,120], y in [80,140]; this
	// rectangle comfortably contains it.
	provider := faceroi.StaticProvider{ByCamera: map[int][]faceroi.Rect{
		0: {{MinX: 0, MinY: 0, MaxX: 200, MaxY: 200}},
	}}
	opts := Options{FaceProvider: provider, FaceBoost: 3.0}

	out, err := BoostFaces(in, m, []camera.Camera{cam}, opts)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Rating(0, 0), test.ShouldEqual, 1.5)
}

func TestBoostFacesLeavesUnratedTrianglesAlone(t *testing.T) {
	m := singleTriangleMesh(t)
	cam := frontalCamera(-10)
	in := NewMatrix(1, 1) // rating stays 0

	provider := faceroi.StaticProvider{ByCamera: map[int][]faceroi.Rect{
		0: {{MinX: 0, MinY: 0, MaxX: 200, MaxY: 200}},
	}}
	opts := Options{FaceProvider: provider, FaceBoost: 3.0}

	out, err := BoostFaces(in, m, []camera.Camera{cam}, opts)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Rating(0, 0), test.ShouldEqual, 0.0)
}

func TestBoostFacesNilProviderIsNoop(t *testing.T) {
	m := singleTriangleMesh(t)
	cam := frontalCamera(-10)
	in := NewMatrix(1, 1)
	in.SetRating(0, 0, 0.7)

	out, err := BoostFaces(in, m, []camera.Camera{cam}, Options{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Rating(0, 0), test.ShouldEqual, 0.7)
}

func TestBoostFacesRectNotContainingTriangleLeavesRatingAlone(t *testing.T) {
	m := singleTriangleMesh(t)
	cam := frontalCamera(-10)
	in := NewMatrix(1, 1)
	in.SetRating(0, 0, 0.5)

	// A tiny rectangle far from the triangle's projection.
	provider := faceroi.StaticProvider{ByCamera: map[int][]faceroi.Rect{
		0: {{MinX: 190, MinY: 190, MaxX: 200, MaxY: 200}},
	}}
	opts := Options{FaceProvider: provider, FaceBoost: 3.0}

	out, err := BoostFaces(in, m, []camera.Camera{cam}, opts)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Rating(0, 0), test.ShouldEqual, 0.5)
}

func TestModeString(t *testing.T) {
	test.That(t, NormalVertex.String(), test.ShouldEqual, "NORMAL_VERTEX")
	test.That(t, NormalBaricenter.String(), test.ShouldEqual, "NORMAL_BARICENTER")
	test.That(t, Area.String(), test.ShouldEqual, "AREA")
	test.That(t, AreaOcclusion.String(), test.ShouldEqual, "AREA_OCCLUSION")
}
