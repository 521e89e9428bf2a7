package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndependentIsDeterministicForSamePixelAndIndex(t *testing.T) {
	a := NewIndependent(0)
	a.StartPixelSample([2]int{3, 7}, 2)
	valsA := []float64{a.Get1D(), a.Get1D(), a.Get1D()}

	b := NewIndependent(999)
	b.StartPixelSample([2]int{3, 7}, 2)
	valsB := []float64{b.Get1D(), b.Get1D(), b.Get1D()}

	assert.Equal(t, valsA, valsB)
}

func TestIndependentDiffersAcrossPixels(t *testing.T) {
	a := NewIndependent(0)
	a.StartPixelSample([2]int{0, 0}, 0)
	v1 := a.Get1D()

	a.StartPixelSample([2]int{1, 0}, 0)
	v2 := a.Get1D()

	assert.NotEqual(t, v1, v2)
}

func TestIndependentGet2DIsWithinUnitSquare(t *testing.T) {
	a := NewIndependent(0)
	a.StartPixelSample([2]int{5, 5}, 0)
	v := a.Get2D()
	assert.GreaterOrEqual(t, v.X, 0.0)
	assert.Less(t, v.X, 1.0)
	assert.GreaterOrEqual(t, v.Y, 0.0)
	assert.Less(t, v.Y, 1.0)
}

func TestStratifiedSamplesStayWithinUnitInterval(t *testing.T) {
	s := NewStratified(16)
	s.StartPixelSample([2]int{0, 0}, 0)
	for i := 0; i < 16; i++ {
		v := s.Get1D()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestStratifiedIsDeterministicForSamePixelAndIndex(t *testing.T) {
	s1 := NewStratified(8)
	s1.StartPixelSample([2]int{2, 2}, 3)
	v1 := s1.Get1D()

	s2 := NewStratified(8)
	s2.StartPixelSample([2]int{2, 2}, 3)
	v2 := s2.Get1D()

	assert.Equal(t, v1, v2)
}

func TestStratifiedFallsBackPastDimensionBudget(t *testing.T) {
	s := NewStratified(4)
	s.StartPixelSample([2]int{0, 0}, 0)
	for i := 0; i < maxStratifiedDimensions+5; i++ {
		v := s.Get1D()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}
