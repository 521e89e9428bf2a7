package light

import (
	"math"

	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/shape"
	"github.com/df07/go-photoncore/pkg/spectrum"
)

// DiffuseAreaLight owns a Shape and emits a spectrum Le uniformly across
// its surface, optionally from both sides. Its solid-angle PDF is
// pdf_area * distance^2 / |cosTheta|, converted via Shape.Sample so any
// shape.Shape can back an area light, not just a specific parallelogram
// sampling routine.
type DiffuseAreaLight struct {
	Shape    shape.Shape
	Le       spectrum.Spectrum
	Scale    float64
	TwoSided bool
}

// NewDiffuseAreaLight builds an area light from a shape and an emission
// spectrum; scale lets scene files boost intensity independent of Le's
// own normalization.
func NewDiffuseAreaLight(s shape.Shape, le spectrum.Spectrum, scale float64, twoSided bool) *DiffuseAreaLight {
	return &DiffuseAreaLight{Shape: s, Le: le, Scale: scale, TwoSided: twoSided}
}

func (l *DiffuseAreaLight) IsDelta() bool { return false }

// L returns zero if the light is one-sided and viewed from behind,
// otherwise scale*Le.sample(lambda).
func (l *DiffuseAreaLight) L(p, n core.Vec3, uv core.Vec2, w core.Vec3, lambda spectrum.SampledWavelengths) spectrum.SampledSpectrum {
	if !l.TwoSided && n.Dot(w) < 0 {
		return spectrum.Zero()
	}
	return l.Le.Sample(lambda).Scale(l.Scale)
}

func (l *DiffuseAreaLight) SampleLi(p core.Vec3, u core.Vec2, lambda spectrum.SampledWavelengths) (LiSample, bool) {
	si, pdfArea := l.Shape.Sample(u)
	if si == nil || pdfArea == 0 {
		return LiSample{}, false
	}

	toLight := si.P.Midpoint().Subtract(p)
	distSq := toLight.LengthSquared()
	if distSq == 0 {
		return LiSample{}, false
	}
	dist := math.Sqrt(distSq)
	wi := toLight.Multiply(1 / dist)

	nLight := si.Normal
	cosTheta := nLight.Dot(wi.Negate())
	if math.Abs(cosTheta) < 1e-8 {
		return LiSample{}, false
	}

	pdf := pdfArea * distSq / math.Abs(cosTheta)
	le := l.L(si.P.Midpoint(), nLight, si.UV, wi.Negate(), lambda)
	if le.IsBlack() {
		return LiSample{}, false
	}

	return LiSample{L: le, Wi: wi, PDF: pdf, PLight: si.P.Midpoint()}, true
}

func (l *DiffuseAreaLight) PDFLi(p core.Vec3, wi core.Vec3) float64 {
	ray := core.NewRay(p, wi)
	si, hit := l.Shape.Intersect(ray, 1e-4, math.Inf(1))
	if !hit {
		return 0
	}
	toLight := si.P.Midpoint().Subtract(p)
	distSq := toLight.LengthSquared()
	cosTheta := math.Abs(si.Normal.Dot(wi))
	if cosTheta < 1e-8 {
		return 0
	}
	return (1.0 / l.Shape.Area()) * distSq / cosTheta
}
