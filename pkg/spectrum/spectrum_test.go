package spectrum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPiecewiseLinearInterpolatesBetweenPoints(t *testing.T) {
	s := NewPiecewiseLinearSpectrum([]float64{400, 500, 600}, []float64{0, 1, 0})
	assert.Equal(t, 0.0, s.At(400))
	assert.Equal(t, 1.0, s.At(500))
	assert.InDelta(t, 0.5, s.At(450), 1e-9)
	assert.Equal(t, 0.0, s.At(399))
	assert.Equal(t, 0.0, s.At(601))
}

func TestDenselySampledResamplesAtIntegers(t *testing.T) {
	src := NewPiecewiseLinearSpectrum([]float64{400, 700}, []float64{1, 1})
	d := NewDenselySampledSpectrum(src, 400, 700)
	assert.Equal(t, 1.0, d.At(550))
	assert.Equal(t, 0.0, d.At(399))
}

func TestConstantSpectrumSamplesFlat(t *testing.T) {
	c := ConstantSpectrum{Value: 1.5}
	sw := SampleUniform(0.25)
	s := c.Sample(sw)
	for _, v := range s.Values {
		assert.Equal(t, 1.5, v)
	}
}

func TestInnerProductOfIdenticalConstantsIsPositive(t *testing.T) {
	a := ConstantSpectrum{Value: 1}
	ip := InnerProduct(a, a)
	assert.Greater(t, ip, 0.0)
}

func TestSampleUniformCoversRange(t *testing.T) {
	sw := SampleUniform(0)
	assert.InDelta(t, LambdaMin, sw.Lambda[0], 1e-6)
	for _, l := range sw.Lambda {
		assert.GreaterOrEqual(t, l, LambdaMin)
		assert.LessOrEqual(t, l, LambdaMax)
	}
}

func TestSampleVisibleStaysInRange(t *testing.T) {
	for _, u := range []float64{0, 0.3, 0.99} {
		sw := SampleVisible(u)
		for i, l := range sw.Lambda {
			assert.GreaterOrEqual(t, l, LambdaMin-1e-6)
			assert.LessOrEqual(t, l, LambdaMax+1e-6)
			assert.Greater(t, sw.PDF[i], 0.0)
		}
	}
}

func TestTerminateSecondaryWavelengthsIsSticky(t *testing.T) {
	sw := SampleUniform(0.5)
	sw.TerminateSecondaryWavelengths()
	assert.True(t, sw.TerminateSecondary)
	for i := 1; i < NumSamples; i++ {
		assert.Equal(t, 0.0, sw.PDF[i])
	}
	pdf0 := sw.PDF[0]
	sw.TerminateSecondaryWavelengths()
	assert.Equal(t, pdf0, sw.PDF[0])
}

func TestSampledSpectrumSafeDivAvoidsNaN(t *testing.T) {
	a := NewSampledSpectrum(1)
	b := Zero()
	r := a.SafeDiv(b)
	assert.True(t, r.IsBlack())
}

func TestSampledSpectrumClampZero(t *testing.T) {
	s := NewSampledSpectrumFrom([NumSamples]float64{-1, 2, -0.5, 0})
	c := s.ClampZero()
	assert.True(t, c.IsPositive())
	for _, v := range c.Values {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}
