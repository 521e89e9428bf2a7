package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntervalContainsTrueValue(t *testing.T) {
	a := NewIntervalWithError(1.0, 0.001)
	b := NewIntervalWithError(2.0, 0.002)

	sum := a.Add(b)
	assert.LessOrEqual(t, sum.Low, 3.0)
	assert.GreaterOrEqual(t, sum.High, 3.0)

	prod := a.Mul(b)
	assert.LessOrEqual(t, prod.Low, 2.0)
	assert.GreaterOrEqual(t, prod.High, 2.0)
}

func TestIntervalSqrOfZeroCrossing(t *testing.T) {
	i := NewIntervalFromBounds(-2, 3)
	sq := i.Sqr()
	assert.Equal(t, 0.0, sq.Low)
	assert.GreaterOrEqual(t, sq.High, 9.0)
}

func TestNextFloatMonotonic(t *testing.T) {
	v := 1.0
	up := NextFloatUp(v)
	down := NextFloatDown(v)
	assert.Greater(t, up, v)
	assert.Less(t, down, v)
	assert.True(t, math.IsInf(NextFloatUp(math.Inf(1)), 1))
}

func TestGammaIsMonotonicAndSmall(t *testing.T) {
	assert.Equal(t, 0.0, Gamma(0))
	assert.Less(t, Gamma(3), 1e-14)
	assert.Less(t, Gamma(5), Gamma(50))
}
