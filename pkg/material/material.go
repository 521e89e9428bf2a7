// Package material evaluates scene-graph material descriptions into BSDFs:
// Diffuse and CoatedDiffuse bind texture inputs to the local-frame
// scattering distributions in pkg/bxdf through a single GetBSDF entry
// point, so the renderer does its importance sampling against the BSDF
// directly rather than delegating the whole scatter decision to the
// material.
package material

import (
	"github.com/df07/go-photoncore/pkg/bxdf"
	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/spectrum"
	"github.com/df07/go-photoncore/pkg/texture"
)

// EvalContext carries everything a material needs to evaluate its texture
// inputs and build a BSDF at a specific surface point.
type EvalContext struct {
	P             core.Vec3
	Normal        core.Vec3
	ShadingNormal core.Vec3
	UV            core.Vec2
	DUVDX, DUVDY  core.Vec2
}

func (c EvalContext) textureCtx() texture.EvalContext {
	return texture.EvalContext{P: c.P, UV: c.UV, DUVDX: c.DUVDX, DUVDY: c.DUVDY}
}

// Material builds a BSDF for a specific wavelength sample at a surface
// point, evaluating any bound textures along the way.
type Material interface {
	GetBSDF(ctx EvalContext, lambda *spectrum.SampledWavelengths, rng bxdf.RNG) *bxdf.BSDF
}
