package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformInverseRoundTrip(t *testing.T) {
	cases := []Transform{
		Translate(NewVec3(1, 2, 3)),
		Scale(2, 0.5, 4),
		RotateDegrees(37, NewVec3(0, 1, 0)),
		Translate(NewVec3(-1, 5, 2)).Compose(RotateDegrees(90, NewVec3(1, 0, 0))).Compose(Scale(2, 2, 2)),
	}
	for _, tr := range cases {
		composed := tr.Compose(tr.Inverse())
		assert.True(t, composed.IsIdentity(), "T composed with T^-1 should be identity within tolerance")
	}
}

func TestLookAtTransform(t *testing.T) {
	tr, ok := LookAt(NewVec3(0, 0, -5), NewVec3(0, 0, 0), NewVec3(0, 1, 0))
	require.True(t, ok)

	// The camera origin transforms to the eye position.
	origin := tr.OnPoint(NewVec3(0, 0, 0))
	assert.InDelta(t, 0, origin.X, 1e-9)
	assert.InDelta(t, 0, origin.Y, 1e-9)
	assert.InDelta(t, -5, origin.Z, 1e-9)
}

func TestBoundsHitParallelRayNoFalseHit(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	// Ray parallel to the X-slab face, outside the box in Y.
	ray := NewRay(NewVec3(0, 5, 0), NewVec3(1, 0, 0))
	assert.False(t, box.Hit(ray, 0, math.Inf(1)))

	rs := NewRaySign(ray.Direction)
	assert.False(t, box.FastIntersect(ray, math.Inf(1), rs))
}

func TestBoundsFastIntersectContainsOrigin(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	ray := NewRay(NewVec3(0, 0, 0), NewVec3(0.3, 0.6, 0.74).Normalize())
	rs := NewRaySign(ray.Direction)
	assert.True(t, box.FastIntersect(ray, math.Inf(1), rs))
}

func TestOnBoundsMatchesCornerTransform(t *testing.T) {
	tr := RotateDegrees(33, NewVec3(1, 1, 0)).Compose(Translate(NewVec3(3, -2, 1)))
	b := NewAABB(NewVec3(-1, -2, -3), NewVec3(2, 1, 4))

	got := tr.OnBounds(b)

	var want AABB
	corners := []Vec3{
		{b.Min.X, b.Min.Y, b.Min.Z}, {b.Max.X, b.Min.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Min.Z}, {b.Max.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Min.Y, b.Max.Z}, {b.Max.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Max.Z}, {b.Max.X, b.Max.Y, b.Max.Z},
	}
	for i, c := range corners {
		p := tr.OnPoint(c)
		if i == 0 {
			want = AABB{Min: p, Max: p}
		} else {
			want = want.Union(AABB{Min: p, Max: p})
		}
	}

	assert.InDelta(t, want.Min.X, got.Min.X, 1e-9)
	assert.InDelta(t, want.Min.Y, got.Min.Y, 1e-9)
	assert.InDelta(t, want.Min.Z, got.Min.Z, 1e-9)
	assert.InDelta(t, want.Max.X, got.Max.X, 1e-9)
	assert.InDelta(t, want.Max.Y, got.Max.Y, 1e-9)
	assert.InDelta(t, want.Max.Z, got.Max.Z, 1e-9)
}

func TestSingularTransformReportsNotOK(t *testing.T) {
	_, ok := NewTransform(Mat4{})
	assert.False(t, ok)
}
