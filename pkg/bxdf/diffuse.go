package bxdf

import (
	"math"

	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/spectrum"
)

// Diffuse is a perfectly Lambertian reflector: constant BRDF
// reflectance/pi, cosine-weighted importance sampling, operating on a
// spectral reflectance in the local shading frame.
type Diffuse struct {
	Reflectance spectrum.SampledSpectrum
}

// NewDiffuse builds a Lambertian BxDF from a spectral reflectance.
func NewDiffuse(reflectance spectrum.SampledSpectrum) *Diffuse {
	return &Diffuse{Reflectance: reflectance}
}

func (d *Diffuse) Flags() Flags {
	if d.Reflectance.IsBlack() {
		return 0
	}
	return Reflection | Diffuse
}

func (d *Diffuse) F(wo, wi core.Vec3, mode TransportMode) spectrum.SampledSpectrum {
	if !SameHemisphere(wo, wi) {
		return spectrum.Zero()
	}
	return d.Reflectance.Scale(1 / math.Pi)
}

func (d *Diffuse) SampleF(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode) (Sample, bool) {
	if d.Reflectance.IsBlack() {
		return Sample{}, false
	}
	wi := core.SampleCosineHemisphere(u)
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}
	pdf := core.CosineHemispherePDF(AbsCosTheta(wi))
	if pdf == 0 {
		return Sample{}, false
	}
	return Sample{
		Wi:    wi,
		F:     d.Reflectance.Scale(1 / math.Pi),
		PDF:   pdf,
		Flags: Reflection | Diffuse,
		Eta:   1,
	}, true
}

func (d *Diffuse) PDF(wo, wi core.Vec3, mode TransportMode) float64 {
	if !SameHemisphere(wo, wi) {
		return 0
	}
	return core.CosineHemispherePDF(AbsCosTheta(wi))
}
