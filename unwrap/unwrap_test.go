package unwrap

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/Gabriellgpc/SSMVtex/camera"
	"github.com/Gabriellgpc/SSMVtex/mesh"
	"github.com/Gabriellgpc/SSMVtex/rating"
)

func frontalCamera(z float64) camera.Camera {
	return camera.New(
		camera.Intrinsics{FocalX: 200, FocalY: 200, PrincipalX: 100, PrincipalY: 100, Width: 200, Height: 200},
		camera.Extrinsics{Position: r3.Vector{X: 0, Y: 0, Z: z}, Rotation: mgl64.Ident3()},
		"cam.png",
	)
}

// twoAdjacentTriangles builds a quad (two triangles sharing edge 1-2) in
// the z=0 plane, facing -Z.
func twoAdjacentTriangles(t *testing.T) *mesh.Mesh {
	verts := []r3.Vector{
		{X: -1, Y: -1, Z: 0}, {X: 1, Y: -1, Z: 0}, {X: -1, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0},
	}
	m, err := mesh.New(verts, []mesh.Triangle{
		{V0: 0, V1: 2, V2: 1},
		{V0: 1, V1: 2, V2: 3},
	})
	if err != nil {
		t.Fatalf("mesh.New: %v", err)
	}
	return m
}

func TestUnwrapGroupsAdjacentTrianglesSharingPrimaryCamera(t *testing.T) {
	m := twoAdjacentTriangles(t)
	cam := frontalCamera(-10)

	mat := rating.NewMatrix(1, 2)
	mat.SetRating(0, 0, 0.9)
	mat.SetRating(0, 1, 0.8)

	charts := Unwrap(m, []camera.Camera{cam}, mat)
	test.That(t, len(charts), test.ShouldEqual, 1)
	test.That(t, charts[0].PrimaryCamera, test.ShouldEqual, 0)
	test.That(t, len(charts[0].Triangles), test.ShouldEqual, 2)
}

func TestUnwrapSplitsTrianglesByDifferentPrimaryCamera(t *testing.T) {
	m := twoAdjacentTriangles(t)
	camA := frontalCamera(-10)
	camB := frontalCamera(-20)

	mat := rating.NewMatrix(2, 2)
	mat.SetRating(0, 0, 0.9) // triangle 0 prefers camera 0
	mat.SetRating(1, 0, 0.1)
	mat.SetRating(0, 1, 0.1)
	mat.SetRating(1, 1, 0.9) // triangle 1 prefers camera 1

	charts := Unwrap(m, []camera.Camera{camA, camB}, mat)
	test.That(t, len(charts), test.ShouldEqual, 2)

	byCam := map[int]int{}
	for _, c := range charts {
		byCam[c.PrimaryCamera] = len(c.Triangles)
	}
	test.That(t, byCam[0], test.ShouldEqual, 1)
	test.That(t, byCam[1], test.ShouldEqual, 1)
}

func TestUnwrapRoutesZeroRatedTrianglesToUnseenChartLast(t *testing.T) {
	m := twoAdjacentTriangles(t)
	cam := frontalCamera(-10)

	mat := rating.NewMatrix(1, 2)
	mat.SetRating(0, 0, 0.9) // triangle 0 seen
	// triangle 1 left at zero rating: unseen

	charts := Unwrap(m, []camera.Camera{cam}, mat)
	test.That(t, len(charts), test.ShouldEqual, 2)

	last := charts[len(charts)-1]
	test.That(t, last.IsUnseen(), test.ShouldBeTrue)
	test.That(t, len(last.Triangles), test.ShouldEqual, 1)
	test.That(t, last.Triangles[0].TriangleIndex, test.ShouldEqual, 1)
}

func TestUnwrapChartPartitionIsCompleteAndDisjoint(t *testing.T) {
	m := twoAdjacentTriangles(t)
	camA := frontalCamera(-10)

	mat := rating.NewMatrix(1, 2)
	mat.SetRating(0, 0, 0.5)
	// triangle 1 unrated

	charts := Unwrap(m, []camera.Camera{camA}, mat)

	seen := map[int]bool{}
	for _, c := range charts {
		for _, tri := range c.TriangleIndices() {
			test.That(t, seen[tri], test.ShouldBeFalse)
			seen[tri] = true
		}
	}
	test.That(t, len(seen), test.ShouldEqual, m.NumTriangles())
}

func TestUnwrapEmptyMeshYieldsNoCharts(t *testing.T) {
	m, err := mesh.New(nil, nil)
	test.That(t, err, test.ShouldBeNil)
	charts := Unwrap(m, nil, rating.NewMatrix(0, 0))
	test.That(t, len(charts), test.ShouldEqual, 0)
}
