package material

import (
	"github.com/df07/go-photoncore/pkg/bxdf"
	"github.com/df07/go-photoncore/pkg/spectrum"
	"github.com/df07/go-photoncore/pkg/texture"
)

// CoatedDiffuse is a dielectric coating over a diffuse base: it simulates
// varnish/lacquer/clearcoat by running a LayeredBxDF random walk between a
// rough-dielectric top interface and a Lambertian bottom.
type CoatedDiffuse struct {
	Reflectance texture.SpectrumTexture
	Roughness   texture.FloatTexture
	Thickness   texture.FloatTexture
	Albedo      texture.SpectrumTexture
	G           texture.FloatTexture
	Eta         spectrum.Spectrum
}

// NewCoatedDiffuse builds a coated-diffuse material. A nil Albedo is
// treated as a non-scattering medium (zero albedo), so the layer only
// attenuates light by Beer-Lambert transmittance over its thickness.
func NewCoatedDiffuse(reflectance texture.SpectrumTexture, roughness, thickness texture.FloatTexture, albedo texture.SpectrumTexture, g texture.FloatTexture, eta spectrum.Spectrum) *CoatedDiffuse {
	return &CoatedDiffuse{
		Reflectance: reflectance, Roughness: roughness, Thickness: thickness,
		Albedo: albedo, G: g, Eta: eta,
	}
}

func (m *CoatedDiffuse) GetBSDF(ctx EvalContext, lambda *spectrum.SampledWavelengths, rng bxdf.RNG) *bxdf.BSDF {
	if _, constant := m.Eta.(spectrum.ConstantSpectrum); !constant {
		lambda.TerminateSecondaryWavelengths()
	}
	eta := m.Eta.At(lambda.Lambda[0])
	if eta == 0 {
		eta = 1.5
	}

	roughness := 0.0
	if m.Roughness != nil {
		roughness = m.Roughness.EvaluateFloat(ctx.textureCtx())
	}
	alpha := bxdf.RoughnessToAlpha(roughness)

	thickness := 0.01
	if m.Thickness != nil {
		thickness = m.Thickness.EvaluateFloat(ctx.textureCtx())
	}

	g := 0.0
	if m.G != nil {
		g = m.G.EvaluateFloat(ctx.textureCtx())
	}

	albedo := spectrum.Zero()
	if m.Albedo != nil {
		albedo = m.Albedo.Evaluate(ctx.textureCtx(), *lambda).ClampZero()
	}

	r := m.Reflectance.Evaluate(ctx.textureCtx(), *lambda).ClampZero()

	top := bxdf.NewDielectric(eta, alpha)
	bottom := bxdf.NewDiffuse(r)
	layered := bxdf.NewLayered(top, bottom, thickness, albedo, g, true, rng)
	return bxdf.NewBSDF(ctx.ShadingNormal, layered)
}
