package bxdf

import (
	"math"

	"github.com/df07/go-photoncore/pkg/core"
)

// FresnelDielectric evaluates the unpolarized Fresnel reflectance for a
// dielectric interface with relative index of refraction eta (transmitted
// side over incident side), using the exact formula derived from Snell's
// law rather than a Schlick approximation, since rough-dielectric
// microfacet sampling needs the real per-facet value.
func FresnelDielectric(cosThetaI, eta float64) float64 {
	cosThetaI = core.Clamp(cosThetaI, -1, 1)
	if cosThetaI < 0 {
		eta = 1 / eta
		cosThetaI = -cosThetaI
	}

	sin2ThetaI := 1 - cosThetaI*cosThetaI
	sin2ThetaT := sin2ThetaI / (eta * eta)
	if sin2ThetaT >= 1 {
		return 1
	}
	cosThetaT := core.SafeSqrt(1 - sin2ThetaT)

	rParl := (eta*cosThetaI - cosThetaT) / (eta*cosThetaI + cosThetaT)
	rPerp := (cosThetaI - eta*cosThetaT) / (cosThetaI + eta*cosThetaT)
	return (rParl*rParl + rPerp*rPerp) / 2
}

// Refract computes the refracted direction of wi through a surface with
// local normal n (oriented to the same side as wi) and relative IOR eta,
// returning ok=false on total internal reflection. etaOut is the
// interface's eta relative to the direction the ray continues in, needed
// by callers that track cumulative path eta for Russian roulette.
func Refract(wi core.Vec3, n core.Vec3, eta float64) (wt core.Vec3, etaOut float64, ok bool) {
	cosThetaI := n.Dot(wi)
	if cosThetaI < 0 {
		eta = 1 / eta
		cosThetaI = -cosThetaI
		n = n.Negate()
	}
	sin2ThetaI := math.Max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := sin2ThetaI / (eta * eta)
	if sin2ThetaT >= 1 {
		return core.Vec3{}, eta, false
	}
	cosThetaT := core.SafeSqrt(1 - sin2ThetaT)
	wt = wi.Negate().Multiply(1 / eta).Add(n.Multiply(cosThetaI/eta - cosThetaT))
	return wt, eta, true
}

// trowbridgeReitz implements the GGX/Trowbridge-Reitz microfacet
// distribution with Smith masking-shadowing, the standard rough-dielectric
// model built directly from the published GGX formulas.
type trowbridgeReitz struct {
	AlphaX, AlphaY float64
}

func (d trowbridgeReitz) EffectivelySmooth() bool {
	return math.Max(d.AlphaX, d.AlphaY) < 1e-3
}

// D evaluates the microfacet distribution at half-vector wm.
func (d trowbridgeReitz) D(wm core.Vec3) float64 {
	tan2Theta := Sin2Theta(wm) / Cos2Theta(wm)
	if math.IsInf(tan2Theta, 1) {
		return 0
	}
	cos4Theta := Cos2Theta(wm) * Cos2Theta(wm)
	if cos4Theta < 1e-16 {
		return 0
	}
	sinPhi, cosPhi := sinCosPhi(wm)
	e := tan2Theta * ((cosPhi*cosPhi)/(d.AlphaX*d.AlphaX) + (sinPhi*sinPhi)/(d.AlphaY*d.AlphaY))
	return 1 / (math.Pi * d.AlphaX * d.AlphaY * cos4Theta * (1 + e) * (1 + e))
}

func sinCosPhi(w core.Vec3) (sinPhi, cosPhi float64) {
	sinTheta := SinTheta(w)
	if sinTheta == 0 {
		return 0, 1
	}
	return core.Clamp(w.Y/sinTheta, -1, 1), core.Clamp(w.X/sinTheta, -1, 1)
}

func (d trowbridgeReitz) lambda(w core.Vec3) float64 {
	tan2Theta := Sin2Theta(w) / Cos2Theta(w)
	if math.IsInf(tan2Theta, 1) {
		return 0
	}
	sinPhi, cosPhi := sinCosPhi(w)
	alpha2 := cosPhi*cosPhi*d.AlphaX*d.AlphaX + sinPhi*sinPhi*d.AlphaY*d.AlphaY
	return (math.Sqrt(1+alpha2*tan2Theta) - 1) / 2
}

// G1 is the Smith masking function for a single direction.
func (d trowbridgeReitz) G1(w core.Vec3) float64 { return 1 / (1 + d.lambda(w)) }

// G is the joint Smith masking-shadowing term for wo and wi.
func (d trowbridgeReitz) G(wo, wi core.Vec3) float64 {
	return 1 / (1 + d.lambda(wo) + d.lambda(wi))
}

// PDF returns the visible-normal sampling density at half-vector wm given
// outgoing direction wo.
func (d trowbridgeReitz) PDF(wo, wm core.Vec3) float64 {
	return d.G1(wo) / AbsCosTheta(wo) * d.D(wm) * math.Abs(wo.Dot(wm))
}

// Sample draws a half-vector via visible-normal sampling (Heitz 2018),
// importance-sampling the distribution of normals actually visible from wo
// rather than the full distribution, which converges much faster.
func (d trowbridgeReitz) Sample(wo core.Vec3, u core.Vec2) core.Vec3 {
	wh := core.NewVec3(d.AlphaX*wo.X, d.AlphaY*wo.Y, wo.Z).Normalize()
	if wh.Z < 0 {
		wh = wh.Negate()
	}

	t1 := core.NewVec3(0, 0, 1)
	if wh.Z < 0.999 {
		t1 = core.NewVec3(0, 0, 1).Cross(wh).Normalize()
	} else {
		t1 = core.NewVec3(1, 0, 0)
	}
	t2 := wh.Cross(t1)

	p := core.SampleUniformDiskConcentric(u)
	h := core.SafeSqrt(1 - p.X*p.X)
	pY := core.Lerp((1+wh.Z)/2, h, p.Y)

	pz := core.SafeSqrt(1 - p.X*p.X - pY*pY)
	nh := t1.Multiply(p.X).Add(t2.Multiply(pY)).Add(wh.Multiply(pz))

	return core.NewVec3(d.AlphaX*nh.X, d.AlphaY*nh.Y, math.Max(1e-6, nh.Z)).Normalize()
}

// RoughnessToAlpha remaps a perceptually linear [0,1] roughness to the GGX
// alpha parameter the way PBRT-v4 does (alpha = sqrt(roughness)).
func RoughnessToAlpha(roughness float64) float64 {
	return math.Sqrt(roughness)
}
