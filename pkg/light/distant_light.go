package light

import (
	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/spectrum"
)

// DistantLight is an infinitely-far directional source (sunlight), the
// delta-light analogue of DiffuseAreaLight. SampleLi returns a fixed
// direction with a delta pdf of 1 under the infinite-distance convention,
// so MIS against BSDF sampling always weights it at 1 (BSDF sampling can
// never hit a delta light).
type DistantLight struct {
	Direction core.Vec3 // points FROM the light TOWARD the scene
	Lemit     spectrum.Spectrum
	Scale     float64
}

// NewDistantLight builds a directional light; direction is normalized on
// construction.
func NewDistantLight(direction core.Vec3, lemit spectrum.Spectrum, scale float64) *DistantLight {
	return &DistantLight{Direction: direction.Normalize(), Lemit: lemit, Scale: scale}
}

func (l *DistantLight) IsDelta() bool { return true }

func (l *DistantLight) L(p, n core.Vec3, uv core.Vec2, w core.Vec3, lambda spectrum.SampledWavelengths) spectrum.SampledSpectrum {
	return spectrum.Zero()
}

func (l *DistantLight) SampleLi(p core.Vec3, u core.Vec2, lambda spectrum.SampledWavelengths) (LiSample, bool) {
	wi := l.Direction.Negate()
	le := l.Lemit.Sample(lambda).Scale(l.Scale)
	return LiSample{L: le, Wi: wi, PDF: 1, PLight: p.Add(wi.Multiply(1e8))}, true
}

func (l *DistantLight) PDFLi(p core.Vec3, wi core.Vec3) float64 { return 0 }
