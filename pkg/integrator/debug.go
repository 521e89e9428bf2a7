package integrator

import (
	"math"

	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/sampler"
	"github.com/df07/go-photoncore/pkg/spectrum"
)

// SurfaceNormal is a sanity-check integrator: it maps the hit surface's
// shading normal into a false-color RGB-like spectrum, with no bouncing at
// all.
type SurfaceNormal struct{}

func (SurfaceNormal) Li(ray core.Ray, lambda *spectrum.SampledWavelengths, s sampler.Sampler, scene Scene) spectrum.SampledSpectrum {
	si, _, hit := scene.Intersect(ray, 1e-4, math.Inf(1))
	if !hit {
		return spectrum.Zero()
	}
	n := si.Normal
	rgb := [3]float64{0.5 * (n.X + 1), 0.5 * (n.Y + 1), 0.5 * (n.Z + 1)}
	return spectrum.NewRGBIlluminantSpectrum(spectrum.SRGB, rgb).Sample(*lambda)
}

// AmbientOcclusion estimates per-pixel ambient occlusion: cosine-sample a
// hemisphere above the hit point and report the fraction of samples that
// escape to infinity unoccluded within maxDistance.
type AmbientOcclusion struct {
	MaxDistance float64
}

// NewAmbientOcclusion builds an AO integrator; maxDistance <= 0 means
// unbounded occlusion rays.
func NewAmbientOcclusion(maxDistance float64) *AmbientOcclusion {
	return &AmbientOcclusion{MaxDistance: maxDistance}
}

func (a *AmbientOcclusion) Li(ray core.Ray, lambda *spectrum.SampledWavelengths, s sampler.Sampler, scene Scene) spectrum.SampledSpectrum {
	si, _, hit := scene.Intersect(ray, 1e-4, math.Inf(1))
	if !hit {
		return spectrum.Zero()
	}

	wi := core.RandomCosineDirection(si.Normal, s.Get2D())
	occlusionRay := si.SpawnRay(wi)
	tMax := math.Inf(1)
	if a.MaxDistance > 0 {
		tMax = a.MaxDistance
	}
	if scene.IntersectP(occlusionRay, 1e-4, tMax) {
		return spectrum.Zero()
	}
	return spectrum.NewSampledSpectrum(1)
}
