// Package bxdf implements local-shading-frame scattering distributions:
// the BxDF interface, Lambertian diffuse, rough/smooth dielectric via a
// Trowbridge-Reitz microfacet distribution, and a layered BxDF that
// composes two of them through a Monte Carlo random walk.
package bxdf

import (
	"math"

	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/spectrum"
)

// TransportMode distinguishes camera paths from light paths, since a BxDF's
// value is not symmetric under refraction (non-reciprocal due to the
// change in solid angle across the interface, PBRT's "the ratio of
// etas" correction).
type TransportMode int

const (
	Radiance TransportMode = iota
	Importance
)

// Flags describes which lobes a BxDF exposes, used by the integrator to
// decide whether a path vertex can be connected to via next-event
// estimation (specular lobes can't).
type Flags int

const (
	Reflection Flags = 1 << iota
	Transmission
	Diffuse
	Glossy
	Specular
)

func (f Flags) IsSpecular() bool     { return f&Specular != 0 }
func (f Flags) IsNonSpecular() bool  { return f&(Diffuse|Glossy) != 0 }
func (f Flags) HasReflection() bool  { return f&Reflection != 0 }
func (f Flags) HasTransmission() bool { return f&Transmission != 0 }

// Sample is the result of importance-sampling a BxDF: the outgoing
// direction, the BxDF value, its PDF, which lobe was chosen, the relative
// eta of a transmission, and whether PDF is only proportional to the true
// density.
type Sample struct {
	Wi                 core.Vec3
	F                  spectrum.SampledSpectrum
	PDF                float64
	Flags              Flags
	Eta                float64
	PDFIsProportional  bool
}

// BxDF is a bidirectional scattering distribution function evaluated in a
// local shading frame where the shading normal is +Z.
type BxDF interface {
	// F evaluates the distribution for a fixed pair of directions; returns
	// the zero spectrum for purely specular lobes (they have no density).
	F(wo, wi core.Vec3, mode TransportMode) spectrum.SampledSpectrum

	// SampleF importance-samples an outgoing direction given wo, a uniform
	// scalar uc (used to pick among lobes) and a uniform 2D sample u.
	SampleF(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode) (Sample, bool)

	// PDF returns the solid-angle density SampleF would have produced wi
	// with, used for multiple importance sampling against light sampling.
	PDF(wo, wi core.Vec3, mode TransportMode) float64

	Flags() Flags
}

// CosTheta and friends operate in the local shading frame, where z is the
// surface normal.
func CosTheta(w core.Vec3) float64    { return w.Z }
func AbsCosTheta(w core.Vec3) float64 { return math.Abs(w.Z) }
func Cos2Theta(w core.Vec3) float64   { return w.Z * w.Z }
func Sin2Theta(w core.Vec3) float64 {
	return math.Max(0, 1-Cos2Theta(w))
}
func SinTheta(w core.Vec3) float64 { return core.SafeSqrt(Sin2Theta(w)) }

func SameHemisphere(a, b core.Vec3) bool { return a.Z*b.Z > 0 }
