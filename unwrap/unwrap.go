// Package unwrap implements the mesh unwrapper (C7): it partitions a
// mesh's triangles into 2D charts driven by the shaped rating matrix. Each
// triangle's top-rated camera is its primary assignment (ties broken by
// lowest camera index); adjacent triangles sharing a primary assignment
// form one connected chart, embedded in 2D by that camera's own
// projection. Triangles no camera rates positively are routed to a single
// "unseen" chart instead, embedded by a per-triangle planar projection
// since there is no camera to project them with.
package unwrap

import (
	"github.com/golang/geo/r3"

	"github.com/Gabriellgpc/SSMVtex/camera"
	"github.com/Gabriellgpc/SSMVtex/chart"
	"github.com/Gabriellgpc/SSMVtex/geometry"
	"github.com/Gabriellgpc/SSMVtex/mesh"
	"github.com/Gabriellgpc/SSMVtex/rating"
)

// Unwrap partitions msh's triangles into charts using mat's top assignment
// per triangle. cams supplies the cameras mat's rows index into. The
// returned slice always places a non-empty unseen chart (PrimaryCamera ==
// -1) last; an empty mesh yields a nil slice.
func Unwrap(msh *mesh.Mesh, cams []camera.Camera, mat *rating.Matrix) []chart.Chart {
	nTri := msh.NumTriangles()
	if nTri == 0 {
		return nil
	}

	primary := make([]int, nTri)
	for t := 0; t < nTri; t++ {
		if c, ok := mat.BestCamera(t); ok {
			primary[t] = c
		} else {
			primary[t] = -1
		}
	}

	adj := msh.Adjacency()
	visited := make([]bool, nTri)
	var charts []chart.Chart
	var unseen []int

	for t := 0; t < nTri; t++ {
		if visited[t] {
			continue
		}
		if primary[t] < 0 {
			visited[t] = true
			unseen = append(unseen, t)
			continue
		}
		component := collectComponent(t, primary, adj, visited)
		charts = append(charts, buildCameraChart(msh, primary[t], cams[primary[t]], component))
	}

	if len(unseen) > 0 {
		charts = append(charts, buildUnseenChart(msh, unseen))
	}

	return charts
}

// collectComponent runs a deterministic breadth-first traversal from seed
// over triangles sharing seed's primary camera, marking every triangle it
// visits. BFS order doesn't affect the resulting set (only membership
// matters to the caller), but starting the scan from increasing seed
// indices keeps chart-construction order reproducible across runs.
func collectComponent(seed int, primary []int, adj [][]int, visited []bool) []int {
	cam := primary[seed]
	queue := []int{seed}
	visited[seed] = true
	var component []int
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		component = append(component, t)
		for _, n := range adj[t] {
			if visited[n] || primary[n] != cam {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return component
}

func buildCameraChart(msh *mesh.Mesh, camIdx int, cam camera.Camera, triangleIdx []int) chart.Chart {
	triangles := make([]chart.TriangleUV, len(triangleIdx))
	for i, t := range triangleIdx {
		a, b, c := msh.TrianglePositions(t)
		var corners [3]geometry.Point2
		for j, p := range [3]r3.Vector{a, b, c} {
			pixel, _, _ := cam.Project(p)
			corners[j] = pixel
		}
		triangles[i] = chart.TriangleUV{TriangleIndex: t, Corners: corners}
	}
	return chart.Chart{PrimaryCamera: camIdx, Triangles: triangles}
}

func buildUnseenChart(msh *mesh.Mesh, triangleIdx []int) chart.Chart {
	triangles := make([]chart.TriangleUV, len(triangleIdx))
	for i, t := range triangleIdx {
		a, b, c := msh.TrianglePositions(t)
		triangles[i] = chart.TriangleUV{TriangleIndex: t, Corners: planarEmbed(a, b, c)}
	}
	return chart.Chart{PrimaryCamera: -1, Triangles: triangles}
}

// planarEmbed flattens a 3D triangle into a local 2D frame anchored at a,
// with u along (b-a) and v completing an orthonormal in-plane basis via the
// face normal. Degenerate triangles fall back to projecting onto the
// world XY plane so every triangle still gets a (possibly collapsed)
// embedding rather than being dropped.
func planarEmbed(a, b, c r3.Vector) [3]geometry.Point2 {
	u := b.Sub(a)
	var v r3.Vector
	if n, ok := geometry.Normal(a, b, c); ok {
		uNorm := u.Normalize()
		v = n.Cross(uNorm)
		u = uNorm
	} else {
		u = r3.Vector{X: 1, Y: 0, Z: 0}
		v = r3.Vector{X: 0, Y: 1, Z: 0}
	}
	embed := func(p r3.Vector) geometry.Point2 {
		rel := p.Sub(a)
		return geometry.Point2{X: rel.Dot(u), Y: rel.Dot(v)}
	}
	return [3]geometry.Point2{embed(a), embed(b), embed(c)}
}
