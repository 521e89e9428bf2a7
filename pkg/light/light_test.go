package light

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/shape"
	"github.com/df07/go-photoncore/pkg/spectrum"
)

func TestDiffuseAreaLightOneSidedIsZeroFromBehind(t *testing.T) {
	s := shape.NewSphere(core.NewVec3(0, 0, 0), 1)
	al := NewDiffuseAreaLight(s, spectrum.ConstantSpectrum{Value: 2}, 1, false)
	sw := spectrum.SampleVisible(0.2)
	n := core.NewVec3(0, 0, 1)
	behind := al.L(core.Vec3{}, n, core.Vec2{}, core.NewVec3(0, 0, -1), sw)
	assert.True(t, behind.IsBlack())
	front := al.L(core.Vec3{}, n, core.Vec2{}, core.NewVec3(0, 0, 1), sw)
	assert.False(t, front.IsBlack())
}

func TestDiffuseAreaLightSampleLiReturnsPositivePDF(t *testing.T) {
	s := shape.NewSphere(core.NewVec3(0, 0, 5), 1)
	al := NewDiffuseAreaLight(s, spectrum.ConstantSpectrum{Value: 5}, 1, true)
	sw := spectrum.SampleVisible(0.5)
	sample, ok := al.SampleLi(core.NewVec3(0, 0, 0), core.NewVec2(0.3, 0.7), sw)
	require.True(t, ok)
	assert.Greater(t, sample.PDF, 0.0)
	assert.False(t, sample.L.IsBlack())
}

func TestDistantLightIsDeltaAndHasZeroPDF(t *testing.T) {
	dl := NewDistantLight(core.NewVec3(0, -1, 0), spectrum.ConstantSpectrum{Value: 3}, 1)
	assert.True(t, dl.IsDelta())
	assert.Equal(t, 0.0, dl.PDFLi(core.Vec3{}, core.NewVec3(0, 1, 0)))
	sample, ok := dl.SampleLi(core.Vec3{}, core.Vec2{}, spectrum.SampleUniform(0.1))
	require.True(t, ok)
	assert.Equal(t, 1.0, sample.PDF)
}

func TestUniformSamplerDistributesEvenly(t *testing.T) {
	s1 := shape.NewSphere(core.NewVec3(0, 0, 0), 1)
	s2 := shape.NewSphere(core.NewVec3(5, 0, 0), 1)
	lights := []Light{
		NewDiffuseAreaLight(s1, spectrum.ConstantSpectrum{Value: 1}, 1, true),
		NewDiffuseAreaLight(s2, spectrum.ConstantSpectrum{Value: 1}, 1, true),
	}
	sampler := NewUniformSampler(lights)
	l0, pmf0, ok := sampler.Sample(0)
	require.True(t, ok)
	assert.Equal(t, 0.5, pmf0)
	l1, _, ok := sampler.Sample(0.99)
	require.True(t, ok)
	assert.NotEqual(t, l0, l1)
}

func TestUniformSamplerEmptyReturnsFalse(t *testing.T) {
	sampler := NewUniformSampler(nil)
	_, _, ok := sampler.Sample(0.5)
	assert.False(t, ok)
}
