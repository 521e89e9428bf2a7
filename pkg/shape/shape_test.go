package shape

import (
	"testing"

	"github.com/df07/go-photoncore/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSphereIntersectHitsFrontFace(t *testing.T) {
	s := NewSphere(core.NewVec3(0, 0, -5), 1)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	si, ok := s.Intersect(ray, 1e-4, 1e8)
	require.True(t, ok)
	assert.True(t, si.FrontFace)
	assert.InDelta(t, 4.0, si.T, 1e-9)
}

func TestSphereIntersectMissesWhenRayPointsAway(t *testing.T) {
	s := NewSphere(core.NewVec3(0, 0, -5), 1)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	_, ok := s.Intersect(ray, 1e-4, 1e8)
	assert.False(t, ok)
}

func TestSphereBoundsContainsCenter(t *testing.T) {
	s := NewSphere(core.NewVec3(1, 2, 3), 2)
	b := s.Bounds()
	assert.True(t, b.Min.X <= 1 && b.Max.X >= 1)
}

func TestTriangleIntersectInsideVsOutside(t *testing.T) {
	verts := []core.Vec3{
		core.NewVec3(-1, -1, 0),
		core.NewVec3(1, -1, 0),
		core.NewVec3(0, 1, 0),
	}
	mesh, err := NewTriangleMesh(verts, []int{0, 1, 2}, nil, nil)
	require.NoError(t, err)
	tri := mesh.Triangles()[0]

	hitRay := core.NewRay(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1))
	_, ok := tri.Intersect(hitRay, 1e-4, 1e8)
	assert.True(t, ok)

	missRay := core.NewRay(core.NewVec3(5, 5, -1), core.NewVec3(0, 0, 1))
	_, ok = tri.Intersect(missRay, 1e-4, 1e8)
	assert.False(t, ok)
}

func TestTriangleMeshRejectsBadIndexCount(t *testing.T) {
	_, err := NewTriangleMesh([]core.Vec3{{}, {}, {}}, []int{0, 1}, nil, nil)
	assert.Error(t, err)
}

func TestTriangleMeshRejectsOutOfRangeIndex(t *testing.T) {
	_, err := NewTriangleMesh([]core.Vec3{{}, {}, {}}, []int{0, 1, 5}, nil, nil)
	assert.Error(t, err)
}

func TestQuadIntersectWithinBounds(t *testing.T) {
	q := NewQuad(core.NewVec3(-1, -1, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0))
	ray := core.NewRay(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1))
	si, ok := q.Intersect(ray, 1e-4, 1e8)
	require.True(t, ok)
	assert.InDelta(t, 1.0, si.T, 1e-9)
}

func TestQuadIntersectMissesOutsideEdges(t *testing.T) {
	q := NewQuad(core.NewVec3(-1, -1, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0))
	ray := core.NewRay(core.NewVec3(5, 5, -1), core.NewVec3(0, 0, 1))
	_, ok := q.Intersect(ray, 1e-4, 1e8)
	assert.False(t, ok)
}

func TestQuadAreaMatchesEdgeCross(t *testing.T) {
	q := NewQuad(core.Vec3{}, core.NewVec3(3, 0, 0), core.NewVec3(0, 4, 0))
	assert.InDelta(t, 12.0, q.Area(), 1e-9)
}

func TestBoxIntersectHitsNearestFace(t *testing.T) {
	b := NewAxisAlignedBox(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1))
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	si, ok := b.Intersect(ray, 1e-4, 1e8)
	require.True(t, ok)
	assert.InDelta(t, 4.0, si.T, 1e-6)
}

func TestReverseOrientationFlipsNormal(t *testing.T) {
	s := NewSphere(core.NewVec3(0, 0, -5), 1)
	r := ReverseOrientation{Shape: s, Reversed: true}
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	plain, _ := s.Intersect(ray, 1e-4, 1e8)
	flipped, _ := r.Intersect(ray, 1e-4, 1e8)
	assert.Equal(t, plain.Normal.Negate(), flipped.Normal)
}

func TestShapeSamplePDFIsPositiveForPositiveArea(t *testing.T) {
	s := NewSphere(core.NewVec3(0, 0, 0), 2)
	_, pdf := s.Sample(core.NewVec2(0.3, 0.7))
	assert.Greater(t, pdf, 0.0)
}
