package integrator

import (
	"math"

	"github.com/df07/go-photoncore/pkg/bxdf"
	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/light"
	"github.com/df07/go-photoncore/pkg/material"
	"github.com/df07/go-photoncore/pkg/sampler"
	"github.com/df07/go-photoncore/pkg/spectrum"
)

// SimplePath is an iterative path tracer with next-event estimation but
// no multiple importance sampling: each bounce's NEE contribution is
// weighted by the light's own pdf only, not combined with the
// BSDF-sampling strategy.
type SimplePath struct {
	MaxDepth int
}

// NewSimplePath builds a SimplePathIntegrator with the given max bounce
// count.
func NewSimplePath(maxDepth int) *SimplePath {
	return &SimplePath{MaxDepth: maxDepth}
}

func (p *SimplePath) Li(ray core.Ray, lambda *spectrum.SampledWavelengths, s sampler.Sampler, scene Scene) spectrum.SampledSpectrum {
	l := spectrum.Zero()
	beta := spectrum.NewSampledSpectrum(1)
	specularBounce := true

	for depth := 0; depth <= p.MaxDepth; depth++ {
		si, prim, hit := scene.Intersect(ray, 1e-4, math.Inf(1))
		if !hit {
			if specularBounce {
				l = l.Add(beta.Mul(infiniteLightEmission(scene, ray, *lambda)))
			}
			break
		}

		if specularBounce {
			if lt, ok := prim.Light.(light.Light); ok {
				l = l.Add(beta.Mul(lt.L(si.P.Midpoint(), si.Normal, si.UV, si.Wo, *lambda)))
			}
		}

		if depth == p.MaxDepth {
			break
		}

		mat, ok := prim.Material.(material.Material)
		if !ok {
			break
		}
		bsdf := mat.GetBSDF(materialEvalContext(si), lambda, s)
		if bsdf == nil {
			break
		}

		if lightSample, sampled := sampleOneLight(scene, si.P.Midpoint(), si.Normal, s, *lambda); sampled {
			wi := lightSample.Wi
			f := bsdf.F(si.Wo, wi, bxdf.Radiance)
			if !f.IsBlack() {
				cosTheta := math.Abs(wi.Dot(si.Normal))
				shadowRay, tMax := si.SpawnRayTo(lightSample.PLight)
				if !scene.IntersectP(shadowRay, 1e-4, tMax) {
					contribution := beta.Mul(f).Mul(lightSample.L).Scale(cosTheta / (lightSample.LightPDF * lightSample.PDF))
					l = l.Add(contribution)
				}
			}
		}

		bs, ok := bsdf.SampleF(si.Wo, s.Float64(), s.Get2D(), bxdf.Radiance)
		if !ok {
			break
		}
		cosTheta := math.Abs(bs.Wi.Dot(si.Normal))
		beta = beta.Mul(bs.F).Scale(cosTheta / bs.PDF)
		specularBounce = bs.Flags.IsSpecular()

		if !beta.IsPositive() {
			break
		}

		ray = si.SpawnRay(bs.Wi)
	}

	return l
}

// lightNEESample bundles a sampled light direction with both the light's
// own solid-angle pdf and the light sampler's selection probability, so
// the caller can divide by their product in one place.
type lightNEESample struct {
	L        spectrum.SampledSpectrum
	Wi       core.Vec3
	PLight   core.Vec3
	LightPDF float64
	PDF      float64
}

// sampleOneLight picks a single light uniformly via the scene's light
// sampler and samples it for direct illumination at p, combining the
// light's own pdf with the sampler's selection probability.
func sampleOneLight(scene Scene, p, n core.Vec3, s sampler.Sampler, lambda spectrum.SampledWavelengths) (lightNEESample, bool) {
	ls := scene.LightSampler()
	lt, pmf, ok := ls.Sample(s.Float64())
	if !ok || pmf == 0 {
		return lightNEESample{}, false
	}
	sample, ok := lt.SampleLi(p, s.Get2D(), lambda)
	if !ok || sample.PDF == 0 {
		return lightNEESample{}, false
	}
	if n.Dot(sample.Wi) <= 0 {
		return lightNEESample{}, false
	}
	return lightNEESample{L: sample.L, Wi: sample.Wi, PLight: sample.PLight, LightPDF: sample.PDF, PDF: pmf}, true
}
