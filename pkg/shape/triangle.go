package shape

import (
	"fmt"
	"math"

	"github.com/df07/go-photoncore/pkg/core"
)

// TriangleMesh is the shared vertex/index/attribute storage for a group of
// triangles, so per-triangle Triangle values stay small (just an index into
// the mesh) the way PBRT's TriangleMesh/Triangle split works.
type TriangleMesh struct {
	Vertices []core.Vec3
	Normals  []core.Vec3
	UVs      []core.Vec2
	Indices  []int
	Reversed bool
}

// NewTriangleMesh validates and wraps mesh data. normals and uvs may be nil;
// when present they must have one entry per vertex.
func NewTriangleMesh(vertices []core.Vec3, indices []int, normals []core.Vec3, uvs []core.Vec2) (*TriangleMesh, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("triangle mesh index count %d is not a multiple of 3", len(indices))
	}
	for _, i := range indices {
		if i < 0 || i >= len(vertices) {
			return nil, fmt.Errorf("triangle mesh index %d out of range [0,%d)", i, len(vertices))
		}
	}
	if normals != nil && len(normals) != len(vertices) {
		return nil, fmt.Errorf("triangle mesh normal count %d does not match vertex count %d", len(normals), len(vertices))
	}
	if uvs != nil && len(uvs) != len(vertices) {
		return nil, fmt.Errorf("triangle mesh uv count %d does not match vertex count %d", len(uvs), len(vertices))
	}
	return &TriangleMesh{Vertices: vertices, Normals: normals, UVs: uvs, Indices: indices}, nil
}

// Triangles returns one Shape per face of the mesh.
func (m *TriangleMesh) Triangles() []Shape {
	n := len(m.Indices) / 3
	out := make([]Shape, n)
	for i := 0; i < n; i++ {
		out[i] = &Triangle{Mesh: m, FaceIndex: i}
	}
	return out
}

// Triangle is a single face of a TriangleMesh, referencing shared vertex
// storage by face index to keep per-primitive memory small in the BVH.
type Triangle struct {
	Mesh      *TriangleMesh
	FaceIndex int
}

func (t *Triangle) indices() (i0, i1, i2 int) {
	base := t.FaceIndex * 3
	return t.Mesh.Indices[base], t.Mesh.Indices[base+1], t.Mesh.Indices[base+2]
}

func (t *Triangle) vertices() (v0, v1, v2 core.Vec3) {
	i0, i1, i2 := t.indices()
	return t.Mesh.Vertices[i0], t.Mesh.Vertices[i1], t.Mesh.Vertices[i2]
}

func (t *Triangle) geometricNormal() core.Vec3 {
	v0, v1, v2 := t.vertices()
	n := v1.Subtract(v0).Cross(v2.Subtract(v0))
	if t.Mesh.Reversed {
		n = n.Negate()
	}
	return n.Normalize()
}

// shadingNormal interpolates per-vertex normals if present, else falls back
// to the flat geometric normal.
func (t *Triangle) shadingNormal(b0, b1, b2 float64) core.Vec3 {
	if t.Mesh.Normals == nil {
		return t.geometricNormal()
	}
	i0, i1, i2 := t.indices()
	n := t.Mesh.Normals[i0].Multiply(b0).
		Add(t.Mesh.Normals[i1].Multiply(b1)).
		Add(t.Mesh.Normals[i2].Multiply(b2))
	return n.Normalize()
}

func (t *Triangle) uv(b0, b1, b2 float64) core.Vec2 {
	if t.Mesh.UVs == nil {
		return core.NewVec2(b1, b2)
	}
	i0, i1, i2 := t.indices()
	u0, u1, u2 := t.Mesh.UVs[i0], t.Mesh.UVs[i1], t.Mesh.UVs[i2]
	return u0.Multiply(b0).Add(u1.Multiply(b1)).Add(u2.Multiply(b2))
}

// Intersect implements the Möller-Trumbore ray-triangle test, using
// DifferenceOfProducts for the edge-function cross products so near-edge
// hits don't misclassify due to catastrophic cancellation.
func (t *Triangle) Intersect(ray core.Ray, tMin, tMax float64) (*SurfaceInteraction, bool) {
	const epsilon = 1e-8
	v0, v1, v2 := t.vertices()
	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return nil, false
	}
	f := 1.0 / a
	s := ray.Origin.Subtract(v0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return nil, false
	}
	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return nil, false
	}
	tHit := f * edge2.Dot(q)
	if tHit < tMin || tHit > tMax {
		return nil, false
	}

	b0, b1, b2 := 1-u-v, u, v
	point := ray.At(tHit)
	geomN := t.geometricNormal()
	maxExtent := math.Max(v0.Abs().MaxComponent(), math.Max(v1.Abs().MaxComponent(), v2.Abs().MaxComponent()))
	pErr := core.NewVec3(1, 1, 1).Multiply(core.Gamma(7) * maxExtent)

	si := &SurfaceInteraction{
		P:     core.NewPoint3fiWithError(point, pErr),
		T:     tHit,
		UV:    t.uv(b0, b1, b2),
		Wo:    ray.Direction.Negate().Normalize(),
		Shape: t,
	}
	si.SetFaceForward(ray.Direction, geomN)
	if t.Mesh.Normals != nil {
		shading := t.shadingNormal(b0, b1, b2)
		if !si.FrontFace {
			shading = shading.Negate()
		}
		si.Normal = shading
	}
	return si, true
}

// IntersectP is the existence-only form of Intersect.
func (t *Triangle) IntersectP(ray core.Ray, tMin, tMax float64) bool {
	_, ok := t.Intersect(ray, tMin, tMax)
	return ok
}

// Bounds returns a tight box around the triangle's three vertices.
func (t *Triangle) Bounds() core.AABB {
	v0, v1, v2 := t.vertices()
	return core.NewAABBFromPoints(v0, v1, v2)
}

// Area returns the triangle's surface area via the cross-product magnitude.
func (t *Triangle) Area() float64 {
	v0, v1, v2 := t.vertices()
	return 0.5 * v1.Subtract(v0).Cross(v2.Subtract(v0)).Length()
}

// Sample draws a point uniformly over the triangle's area using Shirley's
// square-to-triangle mapping.
func (t *Triangle) Sample(u core.Vec2) (*SurfaceInteraction, float64) {
	b0, b1 := core.SampleUniformTriangle(u)
	b2 := 1 - b0 - b1
	v0, v1, v2 := t.vertices()
	point := v0.Multiply(b0).Add(v1.Multiply(b1)).Add(v2.Multiply(b2))
	n := t.geometricNormal()
	si := &SurfaceInteraction{
		P:      core.NewPoint3fi(point),
		Normal: n,
		UV:     t.uv(b0, b1, b2),
		Shape:  t,
	}
	area := t.Area()
	if area <= 0 {
		return si, 0
	}
	return si, 1.0 / area
}
