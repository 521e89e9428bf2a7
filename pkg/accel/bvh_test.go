package accel

import (
	"testing"

	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spheresAlongX(n int) []Primitive {
	prims := make([]Primitive, n)
	for i := 0; i < n; i++ {
		prims[i] = Primitive{Shape: shape.NewSphere(core.NewVec3(float64(i)*3, 0, 0), 1)}
	}
	return prims
}

func TestBVHEmptyReturnsNoHit(t *testing.T) {
	b := Build(nil)
	_, _, ok := b.Intersect(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1)), 1e-4, 1e8)
	assert.False(t, ok)
}

func TestBVHFindsClosestOfManyPrimitives(t *testing.T) {
	prims := spheresAlongX(40)
	b := Build(prims)

	ray := core.NewRay(core.NewVec3(0, 0, -10), core.NewVec3(0, 0, 1))
	si, prim, ok := b.Intersect(ray, 1e-4, 1e8)
	require.True(t, ok)
	assert.NotNil(t, prim)
	assert.InDelta(t, 9.0, si.T, 1e-9)
}

func TestBVHMatchesBruteForceClosestHit(t *testing.T) {
	prims := spheresAlongX(60)
	b := Build(prims)

	ray := core.NewRay(core.NewVec3(-5, 0.3, -5), core.NewVec3(1, 0, 1).Normalize())

	wantT := 1e8
	wantHit := false
	for _, p := range prims {
		if si, ok := p.Shape.Intersect(ray, 1e-4, wantT); ok {
			wantT = si.T
			wantHit = true
		}
	}

	si, _, gotHit := b.Intersect(ray, 1e-4, 1e8)
	require.Equal(t, wantHit, gotHit)
	if wantHit {
		assert.InDelta(t, wantT, si.T, 1e-6)
	}
}

func TestBVHIntersectPStopsAtFirstOccluder(t *testing.T) {
	prims := spheresAlongX(20)
	b := Build(prims)
	ray := core.NewRay(core.NewVec3(0, 0, -10), core.NewVec3(0, 0, 1))
	assert.True(t, b.IntersectP(ray, 1e-4, 1e8))

	miss := core.NewRay(core.NewVec3(0, 50, -10), core.NewVec3(0, 0, 1))
	assert.False(t, b.IntersectP(miss, 1e-4, 1e8))
}

func TestBVHBoundsContainAllPrimitives(t *testing.T) {
	prims := spheresAlongX(15)
	b := Build(prims)
	world := b.Bounds()
	for _, p := range prims {
		pb := p.Shape.Bounds()
		assert.LessOrEqual(t, world.Min.X, pb.Min.X+1e-9)
		assert.GreaterOrEqual(t, world.Max.X, pb.Max.X-1e-9)
	}
}

func TestBVHDegenerateCentroidsHalfSplit(t *testing.T) {
	// All spheres share the same centroid, forcing the centroid-extent
	// zero-width fallback path in buildRecursive.
	prims := make([]Primitive, 20)
	for i := range prims {
		prims[i] = Primitive{Shape: shape.NewSphere(core.Vec3{}, float64(i)+1)}
	}
	b := Build(prims)
	ray := core.NewRay(core.NewVec3(0, 0, -100), core.NewVec3(0, 0, 1))
	_, _, ok := b.Intersect(ray, 1e-4, 1e8)
	assert.True(t, ok)
}
