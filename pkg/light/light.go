// Package light implements this renderer's light sources: DiffuseAreaLight
// (a Shape plus an emission spectrum), DistantLight, and a
// UniformLightSampler for next-event estimation.
package light

import (
	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/shape"
	"github.com/df07/go-photoncore/pkg/spectrum"
)

// LiSample is the result of sampling a light for direct illumination from
// a shading point: a direction, the unoccluded radiance along it, its
// solid-angle PDF, and the sampled point on the light (for shadow-ray
// construction).
type LiSample struct {
	L      spectrum.SampledSpectrum
	Wi     core.Vec3
	PDF    float64
	PLight core.Vec3
}

// Light is any source of illumination that can be sampled for
// next-event-estimation and evaluated along an escaping ray.
type Light interface {
	// SampleLi samples a direction toward the light from p, given uniform
	// sample u, evaluated at the wavelengths in lambda.
	SampleLi(p core.Vec3, u core.Vec2, lambda spectrum.SampledWavelengths) (LiSample, bool)

	// PDFLi returns the solid-angle density SampleLi would produce for wi
	// from p, used for BSDF-sampling MIS.
	PDFLi(p core.Vec3, wi core.Vec3) float64

	// L evaluates emitted radiance leaving an area light at (p,n,uv) toward
	// w; zero for delta lights.
	L(p, n core.Vec3, uv core.Vec2, w core.Vec3, lambda spectrum.SampledWavelengths) spectrum.SampledSpectrum

	// IsDelta reports whether the light has zero-measure sampling support
	// (distant/point lights), which MIS against BSDF sampling must skip.
	IsDelta() bool
}
