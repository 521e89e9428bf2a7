package bxdf

import (
	"math"

	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/spectrum"
)

// Dielectric is a smooth-or-rough glass/water-like interface. Below the
// distribution's smoothness threshold it behaves as a single
// Fresnel-weighted reflect/refract choice; above it, reflection and
// transmission are spread over a Trowbridge-Reitz lobe of microfacet
// normals.
type Dielectric struct {
	Eta          float64
	Distribution trowbridgeReitz
}

// NewDielectric builds a dielectric BxDF with relative index of refraction
// eta and isotropic roughness alpha (0 for a perfectly smooth interface).
func NewDielectric(eta, alpha float64) *Dielectric {
	return &Dielectric{Eta: eta, Distribution: trowbridgeReitz{AlphaX: alpha, AlphaY: alpha}}
}

func (d *Dielectric) Flags() Flags {
	f := Reflection | Transmission
	if d.Distribution.EffectivelySmooth() {
		return f | Specular
	}
	return f | Glossy
}

func (d *Dielectric) F(wo, wi core.Vec3, mode TransportMode) spectrum.SampledSpectrum {
	if d.Eta == 1 || d.Distribution.EffectivelySmooth() {
		return spectrum.Zero()
	}
	cosThetaO, cosThetaI := CosTheta(wo), CosTheta(wi)
	reflect := cosThetaI*cosThetaO > 0
	etap := 1.0
	if !reflect {
		if cosThetaO > 0 {
			etap = d.Eta
		} else {
			etap = 1 / d.Eta
		}
	}
	wm := wi.Multiply(etap).Add(wo)
	if cosThetaI == 0 || cosThetaO == 0 || wm.LengthSquared() == 0 {
		return spectrum.Zero()
	}
	wm = faceForwardNormal(wm.Normalize(), core.NewVec3(0, 0, 1))
	if wm.Dot(wi)*cosThetaI < 0 || wm.Dot(wo)*cosThetaO < 0 {
		return spectrum.Zero()
	}

	fr := FresnelDielectric(wo.Dot(wm), d.Eta)
	if reflect {
		val := d.Distribution.D(wm) * d.Distribution.G(wo, wi) * fr / math.Abs(4*cosThetaI*cosThetaO)
		return spectrum.NewSampledSpectrum(val)
	}

	denom := wi.Dot(wm) + wo.Dot(wm)/etap
	denom *= denom
	ft := d.Distribution.D(wm) * (1 - fr) * d.Distribution.G(wo, wi) *
		math.Abs(wi.Dot(wm)*wo.Dot(wm)/(cosThetaI*cosThetaO*denom))
	if mode == Radiance {
		ft /= etap * etap
	}
	return spectrum.NewSampledSpectrum(ft)
}

func faceForwardNormal(n, ref core.Vec3) core.Vec3 {
	if n.Dot(ref) < 0 {
		return n.Negate()
	}
	return n
}

func (d *Dielectric) PDF(wo, wi core.Vec3, mode TransportMode) float64 {
	if d.Eta == 1 || d.Distribution.EffectivelySmooth() {
		return 0
	}
	cosThetaO, cosThetaI := CosTheta(wo), CosTheta(wi)
	reflect := cosThetaI*cosThetaO > 0
	etap := 1.0
	if !reflect {
		if cosThetaO > 0 {
			etap = d.Eta
		} else {
			etap = 1 / d.Eta
		}
	}
	wm := wi.Multiply(etap).Add(wo)
	if cosThetaI == 0 || cosThetaO == 0 || wm.LengthSquared() == 0 {
		return 0
	}
	wm = faceForwardNormal(wm.Normalize(), core.NewVec3(0, 0, 1))
	if wm.Dot(wi)*cosThetaI < 0 || wm.Dot(wo)*cosThetaO < 0 {
		return 0
	}

	fr := FresnelDielectric(wo.Dot(wm), d.Eta)
	pr, pt := fr, 1-fr
	if reflect {
		return d.Distribution.PDF(wo, wm) / (4 * math.Abs(wo.Dot(wm))) * pr / (pr + pt)
	}
	denom := wi.Dot(wm) + wo.Dot(wm)/etap
	denom *= denom
	dwmDwi := math.Abs(wi.Dot(wm)) / denom
	return d.Distribution.PDF(wo, wm) * dwmDwi * pt / (pr + pt)
}

func (d *Dielectric) SampleF(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode) (Sample, bool) {
	if d.Eta == 1 || d.Distribution.EffectivelySmooth() {
		return d.sampleSmooth(wo, uc, mode)
	}
	return d.sampleRough(wo, uc, u, mode)
}

func (d *Dielectric) sampleSmooth(wo core.Vec3, uc float64, mode TransportMode) (Sample, bool) {
	fr := FresnelDielectric(CosTheta(wo), d.Eta)
	tr := 1 - fr
	if uc < fr/(fr+tr) {
		wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
		fVal := fr / AbsCosTheta(wi)
		return Sample{
			Wi: wi, F: spectrum.NewSampledSpectrum(fVal), PDF: fr / (fr + tr),
			Flags: Reflection | Specular, Eta: 1,
		}, true
	}

	wi, etap, ok := Refract(wo, core.NewVec3(0, 0, 1), d.Eta)
	if !ok {
		return Sample{}, false
	}
	ft := tr / AbsCosTheta(wi)
	if mode == Radiance {
		ft /= etap * etap
	}
	return Sample{
		Wi: wi, F: spectrum.NewSampledSpectrum(ft), PDF: tr / (fr + tr),
		Flags: Transmission | Specular, Eta: etap,
	}, true
}

func (d *Dielectric) sampleRough(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode) (Sample, bool) {
	wm := d.Distribution.Sample(wo, u)
	fr := FresnelDielectric(wo.Dot(wm), d.Eta)
	tr := 1 - fr

	if uc < fr/(fr+tr) {
		wi := reflectAbout(wo, wm)
		if !SameHemisphere(wo, wi) {
			return Sample{}, false
		}
		pdf := d.Distribution.PDF(wo, wm) / (4 * math.Abs(wo.Dot(wm))) * fr / (fr + tr)
		val := d.Distribution.D(wm) * d.Distribution.G(wo, wi) * fr / math.Abs(4*CosTheta(wi)*CosTheta(wo))
		return Sample{Wi: wi, F: spectrum.NewSampledSpectrum(val), PDF: pdf, Flags: Reflection | Glossy, Eta: 1}, true
	}

	wi, etap, ok := Refract(wo, faceForwardNormal(wm, wo), d.Eta)
	if !ok || SameHemisphere(wo, wi) || wi.Z == 0 {
		return Sample{}, false
	}
	denom := wi.Dot(wm) + wo.Dot(wm)/etap
	denom *= denom
	dwmDwi := math.Abs(wi.Dot(wm)) / denom
	pdf := d.Distribution.PDF(wo, wm) * dwmDwi * tr / (fr + tr)

	ft := d.Distribution.D(wm) * (1 - fr) * d.Distribution.G(wo, wi) *
		math.Abs(wi.Dot(wm)*wo.Dot(wm)/(CosTheta(wi)*CosTheta(wo)*denom))
	if mode == Radiance {
		ft /= etap * etap
	}
	return Sample{Wi: wi, F: spectrum.NewSampledSpectrum(ft), PDF: pdf, Flags: Transmission | Glossy, Eta: etap}, true
}

func reflectAbout(wo, n core.Vec3) core.Vec3 {
	return n.Multiply(2 * wo.Dot(n)).Subtract(wo)
}
