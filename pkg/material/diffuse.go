package material

import (
	"github.com/df07/go-photoncore/pkg/bxdf"
	"github.com/df07/go-photoncore/pkg/spectrum"
	"github.com/df07/go-photoncore/pkg/texture"
)

// Diffuse is a purely Lambertian surface: it evaluates a reflectance
// texture clamped to [0,1] and wraps a bxdf.Diffuse in a BSDF.
type Diffuse struct {
	Reflectance texture.SpectrumTexture
}

// NewDiffuse builds a diffuse material from a reflectance texture.
func NewDiffuse(reflectance texture.SpectrumTexture) *Diffuse {
	return &Diffuse{Reflectance: reflectance}
}

func (d *Diffuse) GetBSDF(ctx EvalContext, lambda *spectrum.SampledWavelengths, rng bxdf.RNG) *bxdf.BSDF {
	r := d.Reflectance.Evaluate(ctx.textureCtx(), *lambda)
	r = r.ClampZero()
	b := bxdf.NewDiffuse(r)
	return bxdf.NewBSDF(ctx.ShadingNormal, b)
}
