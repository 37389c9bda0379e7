// Package mesh holds the immutable triangle-mesh data model: vertices,
// triangles, per-triangle texture coordinates once assigned, and the
// triangle-adjacency graph the rating and unwrap stages both need. Reading
// a mesh off disk (OBJ/PLY/VRML) is an external collaborator's job; this
// package only defines the in-memory shape and the small amount of pure
// derived geometry (adjacency, normals, area) that many components share.
package mesh

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/Gabriellgpc/SSMVtex/geometry"
)

// Triangle is three dense, zero-based vertex indices plus, once the mesh
// has been textured, one 2D texture coordinate per corner.
type Triangle struct {
	V0, V1, V2 int
	U          [3]float64
	V          [3]float64
}

// Indices returns the triangle's three vertex indices in corner order.
func (t Triangle) Indices() [3]int { return [3]int{t.V0, t.V1, t.V2} }

// SetUV records the texture coordinates for the triangle's three corners.
func (t *Triangle) SetUV(u, v [3]float64) {
	t.U = u
	t.V = v
}

// Mesh is an immutable-after-load triangle mesh. The zero value is an empty
// mesh; use New to build one from vertex/triangle slices.
type Mesh struct {
	vertices  []r3.Vector
	triangles []Triangle
	adjacency [][]int // lazily built, see Adjacency
	incident  [][]int // lazily built, see IncidentTriangles
}

// New builds a Mesh from dense vertex positions and triangles. It validates
// that every triangle index is in range, per the mesh invariant in the data
// model; an out-of-range index is an InputInvalid-class error from the
// caller's point of view (the caller decides how to wrap/report it).
func New(vertices []r3.Vector, triangles []Triangle) (*Mesh, error) {
	for i, tr := range triangles {
		for _, idx := range tr.Indices() {
			if idx < 0 || idx >= len(vertices) {
				return nil, errors.Errorf("triangle %d references out-of-range vertex %d (have %d vertices)", i, idx, len(vertices))
			}
		}
	}
	return &Mesh{vertices: vertices, triangles: triangles}, nil
}

// NumVertices returns the number of vertices in the mesh.
func (m *Mesh) NumVertices() int { return len(m.vertices) }

// NumTriangles returns the number of triangles in the mesh.
func (m *Mesh) NumTriangles() int { return len(m.triangles) }

// Vertex returns the position of vertex i.
func (m *Mesh) Vertex(i int) r3.Vector { return m.vertices[i] }

// Triangle returns triangle i.
func (m *Mesh) Triangle(i int) Triangle { return m.triangles[i] }

// SetTriangleUV updates the UV coordinates of triangle i in place.
func (m *Mesh) SetTriangleUV(i int, u, v [3]float64) { m.triangles[i].SetUV(u, v) }

// TrianglePositions returns the three world-space corners of triangle i.
func (m *Mesh) TrianglePositions(i int) (a, b, c r3.Vector) {
	tr := m.triangles[i]
	return m.vertices[tr.V0], m.vertices[tr.V1], m.vertices[tr.V2]
}

// Centroid returns the centroid of triangle i.
func (m *Mesh) Centroid(i int) r3.Vector {
	a, b, c := m.TrianglePositions(i)
	return a.Add(b).Add(c).Mul(1.0 / 3.0)
}

// Normal returns the outward face normal of triangle i. ok is false for a
// degenerate (zero-area) triangle.
func (m *Mesh) Normal(i int) (r3.Vector, bool) {
	a, b, c := m.TrianglePositions(i)
	return geometry.Normal(a, b, c)
}

// Area returns the 3D surface area of triangle i.
func (m *Mesh) Area(i int) float64 {
	a, b, c := m.TrianglePositions(i)
	return geometry.Area3(a, b, c)
}

// Adjacency returns, for each triangle, the indices of triangles sharing an
// edge with it. The result is built once on first use and cached; the mesh
// is immutable after load so this is safe to share across readers.
func (m *Mesh) Adjacency() [][]int {
	if m.adjacency != nil {
		return m.adjacency
	}

	type edgeKey struct{ a, b int }
	edgeOf := func(x, y int) edgeKey {
		if x > y {
			x, y = y, x
		}
		return edgeKey{x, y}
	}

	edgeTriangles := make(map[edgeKey][]int, len(m.triangles)*3)
	for ti, tr := range m.triangles {
		idx := tr.Indices()
		for e := 0; e < 3; e++ {
			k := edgeOf(idx[e], idx[(e+1)%3])
			edgeTriangles[k] = append(edgeTriangles[k], ti)
		}
	}

	adj := make([][]int, len(m.triangles))
	seen := make([]map[int]bool, len(m.triangles))
	for i := range seen {
		seen[i] = make(map[int]bool)
	}
	for _, tris := range edgeTriangles {
		for _, ti := range tris {
			for _, tj := range tris {
				if ti == tj || seen[ti][tj] {
					continue
				}
				seen[ti][tj] = true
				adj[ti] = append(adj[ti], tj)
			}
		}
	}

	m.adjacency = adj
	return adj
}

// IncidentTriangles returns, for each vertex, the indices of triangles that
// reference it. Built once on first use and cached alongside Adjacency.
func (m *Mesh) IncidentTriangles() [][]int {
	if m.incident != nil {
		return m.incident
	}
	inc := make([][]int, len(m.vertices))
	for ti, tr := range m.triangles {
		for _, vi := range tr.Indices() {
			inc[vi] = append(inc[vi], ti)
		}
	}
	m.incident = inc
	return inc
}

// Loader reads a mesh from an external representation (OBJ, PLY, VRML, ...).
// The mesh package defines only this interface; parsing any concrete file
// format is an external collaborator's job.
type Loader interface {
	Load(path string) (*Mesh, error)
}

// Writer serializes a mesh, UVs included, to an external representation.
// As with Loader, no concrete file format is implemented here.
type Writer interface {
	Write(path string, m *Mesh) error
}

// NeighborAcrossEdge reports whether triangles a and b share an edge.
func (m *Mesh) NeighborAcrossEdge(a, b int) bool {
	for _, n := range m.Adjacency()[a] {
		if n == b {
			return true
		}
	}
	return false
}
