// Package texture evaluates image- and procedure-backed material inputs
// against a surface point, wrapping decoded images in a MIPMap so
// minification doesn't alias.
package texture

import (
	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/spectrum"
)

// EvalContext carries the surface point and its screen-space footprint
// (ray differentials projected into (u,v)), which a MIPMap needs to pick
// the right pyramid level.
type EvalContext struct {
	P     core.Vec3
	UV    core.Vec2
	DUVDX core.Vec2
	DUVDY core.Vec2
}

// SpectrumTexture evaluates to a spectral reflectance or emission at a
// surface point.
type SpectrumTexture interface {
	Evaluate(ctx EvalContext, lambda spectrum.SampledWavelengths) spectrum.SampledSpectrum
}

// FloatTexture evaluates to a scalar, used for roughness/displacement/alpha
// inputs.
type FloatTexture interface {
	EvaluateFloat(ctx EvalContext) float64
}

// Constant is a texture that ignores ctx and always returns the same
// spectrum, the degenerate case every material parameter falls back to
// when no image is bound.
type Constant struct {
	Value spectrum.Spectrum
}

func NewConstant(s spectrum.Spectrum) *Constant { return &Constant{Value: s} }

func (c *Constant) Evaluate(ctx EvalContext, lambda spectrum.SampledWavelengths) spectrum.SampledSpectrum {
	return c.Value.Sample(lambda)
}

// ConstantFloat is the scalar analogue of ConstantSpectrum.
type ConstantFloat float64

func (c ConstantFloat) EvaluateFloat(ctx EvalContext) float64 { return float64(c) }
