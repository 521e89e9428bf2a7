package bxdf

import (
	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/spectrum"
)

// BSDF binds a BxDF to a shading frame at a surface point, translating
// between world-space directions (what the integrator works in) and the
// BxDF's local frame where the shading normal is +Z. Grounded on the
// teacher materials' habit of keeping a surface normal alongside the
// scattering math, generalized into an explicit orthonormal frame so
// anisotropic and microfacet BxDFs have a stable tangent/bitangent.
type BSDF struct {
	bxdf        BxDF
	shadingZ    core.Vec3
	shadingX    core.Vec3
	shadingY    core.Vec3
}

// NewBSDF builds a shading frame from the surface's shading normal and
// binds it to the given BxDF.
func NewBSDF(shadingNormal core.Vec3, b BxDF) *BSDF {
	x, y := core.OrthonormalBasis(shadingNormal)
	return &BSDF{bxdf: b, shadingZ: shadingNormal, shadingX: x, shadingY: y}
}

func (b *BSDF) toLocal(w core.Vec3) core.Vec3 {
	return core.NewVec3(w.Dot(b.shadingX), w.Dot(b.shadingY), w.Dot(b.shadingZ))
}

func (b *BSDF) toWorld(w core.Vec3) core.Vec3 {
	return b.shadingX.Multiply(w.X).Add(b.shadingY.Multiply(w.Y)).Add(b.shadingZ.Multiply(w.Z))
}

func (b *BSDF) Flags() Flags { return b.bxdf.Flags() }

// F evaluates the BSDF for world-space directions woWorld/wiWorld.
func (b *BSDF) F(woWorld, wiWorld core.Vec3, mode TransportMode) spectrum.SampledSpectrum {
	wo, wi := b.toLocal(woWorld), b.toLocal(wiWorld)
	if wo.Z == 0 {
		return spectrum.Zero()
	}
	return b.bxdf.F(wo, wi, mode)
}

// PDF returns the solid-angle sampling density for wiWorld given woWorld.
func (b *BSDF) PDF(woWorld, wiWorld core.Vec3, mode TransportMode) float64 {
	wo, wi := b.toLocal(woWorld), b.toLocal(wiWorld)
	if wo.Z == 0 {
		return 0
	}
	return b.bxdf.PDF(wo, wi, mode)
}

// SampleF importance-samples an outgoing world-space direction given
// woWorld, returning the sample with Wi rotated back into world space.
func (b *BSDF) SampleF(woWorld core.Vec3, uc float64, u core.Vec2, mode TransportMode) (Sample, bool) {
	wo := b.toLocal(woWorld)
	if wo.Z == 0 {
		return Sample{}, false
	}
	s, ok := b.bxdf.SampleF(wo, uc, u, mode)
	if !ok || s.F.IsBlack() || s.PDF == 0 {
		return Sample{}, false
	}
	s.Wi = b.toWorld(s.Wi)
	return s, true
}
