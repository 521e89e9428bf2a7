package texture

import (
	"math"

	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/spectrum"
)

// ImageTexture evaluates an (u,v)-indexed reflectance or emission by
// looking up a MIPMap, converting the stored linear RGB triple into a
// spectrum via SRGB.ToRGBSigmoidPolynomial for reflectances (clamped to
// [0,1]) or RGBIlluminantSpectrum for emissive lookups that may exceed 1.
type ImageTexture struct {
	MIPMap  *MIPMap
	Scale   float64
	Invert  bool
	IsIllum bool
	UVScale core.Vec2
}

// NewImageTexture wraps a decoded MIPMap for reflectance use by default.
func NewImageTexture(mm *MIPMap, scale float64) *ImageTexture {
	return &ImageTexture{MIPMap: mm, Scale: scale, UVScale: core.NewVec2(1, 1)}
}

func (t *ImageTexture) uv(ctx EvalContext) core.Vec2 {
	u := ctx.UV.X * t.UVScale.X
	v := ctx.UV.Y * t.UVScale.Y
	if t.Invert {
		v = 1 - v
	}
	return core.NewVec2(u, v)
}

func (t *ImageTexture) footprint(ctx EvalContext) float64 {
	w := ctx.DUVDX.X*ctx.DUVDX.X + ctx.DUVDX.Y*ctx.DUVDX.Y
	h := ctx.DUVDY.X*ctx.DUVDY.X + ctx.DUVDY.Y*ctx.DUVDY.Y
	if w < h {
		w = h
	}
	return math.Sqrt(w)
}

// Evaluate returns the sampled spectrum for the texel under ctx.UV.
func (t *ImageTexture) Evaluate(ctx EvalContext, lambda spectrum.SampledWavelengths) spectrum.SampledSpectrum {
	rgb := t.MIPMap.Lookup(t.uv(ctx), t.footprint(ctx))
	scaled := [3]float64{rgb[0] * t.Scale, rgb[1] * t.Scale, rgb[2] * t.Scale}

	if t.IsIllum {
		s := spectrum.NewRGBIlluminantSpectrum(spectrum.SRGB, scaled)
		return s.Sample(lambda)
	}
	clamped := [3]float64{clamp01(scaled[0]), clamp01(scaled[1]), clamp01(scaled[2])}
	s := spectrum.NewRGBAlbedoSpectrum(spectrum.SRGB, clamped)
	return s.Sample(lambda)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// EvaluateFloat reduces the texel to a luminance-weighted scalar, used
// when an image texture is bound to a roughness/alpha channel.
func (t *ImageTexture) EvaluateFloat(ctx EvalContext) float64 {
	rgb := t.MIPMap.Lookup(t.uv(ctx), t.footprint(ctx))
	return 0.2126*rgb[0] + 0.7152*rgb[1] + 0.0722*rgb[2]
}
