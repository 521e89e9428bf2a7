package integrator

import (
	"math"

	"github.com/df07/go-photoncore/pkg/bxdf"
	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/light"
	"github.com/df07/go-photoncore/pkg/material"
	"github.com/df07/go-photoncore/pkg/sampler"
	"github.com/df07/go-photoncore/pkg/shape"
	"github.com/df07/go-photoncore/pkg/spectrum"
)

// RandomWalk is the simplest correct (if inefficient) unbiased estimator:
// no next-event estimation, just uniform-sphere BSDF sampling scaled by
// the inverse of its constant PDF.
type RandomWalk struct {
	MaxDepth int
}

// NewRandomWalk builds a RandomWalk integrator with the given max
// recursion depth.
func NewRandomWalk(maxDepth int) *RandomWalk {
	return &RandomWalk{MaxDepth: maxDepth}
}

func (r *RandomWalk) Li(ray core.Ray, lambda *spectrum.SampledWavelengths, s sampler.Sampler, scene Scene) spectrum.SampledSpectrum {
	return r.li(ray, lambda, s, scene, r.MaxDepth)
}

func (r *RandomWalk) li(ray core.Ray, lambda *spectrum.SampledWavelengths, s sampler.Sampler, scene Scene, depth int) spectrum.SampledSpectrum {
	si, prim, hit := scene.Intersect(ray, 1e-4, math.Inf(1))
	if !hit {
		return infiniteLightEmission(scene, ray, *lambda)
	}

	le := spectrum.Zero()
	if lt, ok := prim.Light.(light.Light); ok {
		le = lt.L(si.P.Midpoint(), si.Normal, si.UV, si.Wo, *lambda)
	}

	if depth <= 0 {
		return le
	}

	mat, ok := prim.Material.(material.Material)
	if !ok {
		return le
	}
	bs := mat.GetBSDF(materialEvalContext(si), lambda, s)
	if bs == nil {
		return le
	}

	wp := core.SampleUniformSphere(s.Get2D())
	f := bs.F(si.Wo, wp, bxdf.Radiance)
	if f.IsBlack() {
		return le
	}
	cosTheta := math.Abs(wp.Dot(si.Normal))
	if cosTheta == 0 {
		return le
	}

	next := si.SpawnRay(wp)
	incoming := r.li(next, lambda, s, scene, depth-1)
	// 4π is the inverse PDF of uniform-sphere sampling.
	contribution := f.Mul(incoming).Scale(cosTheta * 4 * math.Pi)
	return le.Add(contribution)
}

func infiniteLightEmission(scene Scene, ray core.Ray, lambda spectrum.SampledWavelengths) spectrum.SampledSpectrum {
	l := spectrum.Zero()
	for _, inf := range scene.InfiniteLights() {
		l = l.Add(inf.L(core.Vec3{}, core.Vec3{}, core.Vec2{}, ray.Direction, lambda))
	}
	return l
}

// materialEvalContext adapts a shape.SurfaceInteraction into a
// material.EvalContext. Texture footprint derivatives (DUVDX/DUVDY) are
// left zero: no shape implementation in this renderer yet projects ray
// differentials into (u,v)-space, so image textures read only the finest
// MIPMap level (bilinearly, or the nearest texel under the point filter)
// and never blend between levels — a
// documented simplification, not an omission of the footprint fields
// themselves.
func materialEvalContext(si *shape.SurfaceInteraction) material.EvalContext {
	return material.EvalContext{
		P:             si.P.Midpoint(),
		Normal:        si.Normal,
		ShadingNormal: si.Normal,
		UV:            si.UV,
	}
}
