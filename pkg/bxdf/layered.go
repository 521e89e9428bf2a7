package bxdf

import (
	"math"

	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/spectrum"
)

// maxLayeredDepth bounds the random walk's segment count between the top
// and bottom interfaces.
const maxLayeredDepth = 10

// layeredSamples is the number of independent random walks f/SampleF each
// average over; kept small since the walk itself is already a variance
// reduction over naive path splitting.
const layeredSamples = 1

// RNG is the minimal uniform-random source the layered walk needs; a
// *math/rand.Rand (and the sampler package's per-pixel streams) satisfy it
// without bxdf depending on a sampler type.
type RNG interface {
	Float64() float64
}

// Layered composes a top (entrance) and bottom BxDF through an absorbing
// and optionally scattering medium of thickness Thickness, isotropic
// single-scattering albedo Albedo and Henyey-Greenstein asymmetry G.
// TwoSided mirrors wo into the upper hemisphere when it arrives from below,
// so the same BxDF looks the same from either side of a coated surface.
type Layered struct {
	Rng        RNG
	TopBxDF    BxDF
	BottomBxDF BxDF
	Thickness  float64
	Albedo     spectrum.SampledSpectrum
	G          float64
	TwoSided   bool
}

// NewLayered builds a two-interface layered BxDF. rng supplies the uniform
// samples the internal random walk needs beyond what the caller passes
// into F/SampleF.
func NewLayered(top, bottom BxDF, thickness float64, albedo spectrum.SampledSpectrum, g float64, twoSided bool, rng RNG) *Layered {
	return &Layered{
		Rng: rng, TopBxDF: top, BottomBxDF: bottom,
		Thickness: thickness, Albedo: albedo, G: g, TwoSided: twoSided,
	}
}

func (l *Layered) Flags() Flags {
	top, bottom := l.TopBxDF.Flags(), l.BottomBxDF.Flags()
	f := Reflection | Diffuse
	if top.HasTransmission() && bottom.HasTransmission() {
		f |= Transmission
	}
	return f
}

func (l *Layered) rand() float64 { return l.Rng.Float64() }
func (l *Layered) rand2() core.Vec2 {
	return core.Vec2{X: l.Rng.Float64(), Y: l.Rng.Float64()}
}

// F evaluates the layered BSDF by averaging layeredSamples independent
// random walks, each estimating the light transported between wo and wi
// via next-event estimation at every non-specular interface crossing.
func (l *Layered) F(wo, wi core.Vec3, mode TransportMode) spectrum.SampledSpectrum {
	wo, wi = l.orient(wo, wi)

	enterTop := l.enterInterfaceIsTop(wo)
	enterInterface, exitInterface, nonExitInterface := l.interfaces(enterTop, wi)

	exitZ := 0.0
	if sameHemisphereZ(wo, wi) == enterTop {
		exitZ = l.Thickness
	}

	result := spectrum.Zero()
	for s := 0; s < layeredSamples; s++ {
		wos, ok := enterInterface.SampleF(wo, l.rand(), l.rand2(), mode)
		if !ok || wos.F.IsBlack() || wos.PDF == 0 || wos.Wi.Z == 0 {
			continue
		}
		throughput := wos.F.Scale(math.Abs(wos.Wi.Z) / wos.PDF)
		w := wos.Wi
		z := 0.0
		if enterTop {
			z = l.Thickness
		}

		for depth := 0; depth < maxLayeredDepth; depth++ {
			if depth > 3 {
				q := math.Max(0, 1-throughput.MaxComponent())
				if l.rand() < q {
					break
				}
				throughput = throughput.Scale(1 / (1 - q))
			}

			if l.Albedo.IsBlack() {
				// Pure absorption: deterministically walk to the far
				// boundary, attenuated by Beer-Lambert transmittance.
				dz := l.Thickness
				tr := l.transmittance(dz, w)
				throughput = throughput.Scale(tr)
				z = l.oppositeZ(z)
			} else {
				sigmaT := 1.0
				dz := -math.Log(1-l.rand()) / (sigmaT / math.Abs(w.Z))
				zp := z
				if w.Z > 0 {
					zp += dz
				} else {
					zp -= dz
				}
				if zp > 0 && zp < l.Thickness {
					// Scattering event inside the medium: NEE toward wi via
					// the HG phase function, then continue the walk in a
					// phase-sampled direction.
					phasePDF := henyeyGreenstein(w.Dot(wi), l.G)
					if !math.IsNaN(phasePDF) && phasePDF > 0 && sameHemisphereZ(w, wi) == (wi.Z > 0) {
						toExit := l.transmittanceToInterface(zp, wi, exitZ)
						result = result.Add(throughput.Mul(l.Albedo).Scale(phasePDF * toExit))
					}
					w = sampleHenyeyGreenstein(w, l.G, l.rand2())
					throughput = throughput.Mul(l.Albedo)
					z = zp
					continue
				}
				z = clampZ(zp, l.Thickness)
			}

			var iface BxDF
			if z == exitZ {
				iface = exitInterface
			} else {
				iface = nonExitInterface
			}

			if z != exitZ && !iface.Flags().IsSpecular() {
				fExit := iface.F(w.Negate(), wi, mode)
				if !fExit.IsBlack() {
					exitPDF := iface.PDF(w.Negate(), wi, mode)
					if exitPDF > 0 {
						weight := powerHeuristic(1, exitPDF, 1, exitPDF)
						result = result.Add(throughput.Mul(fExit).Scale(math.Abs(wi.Z) * weight))
					}
				}
			}

			bs, ok := iface.SampleF(w.Negate(), l.rand(), l.rand2(), mode)
			if !ok || bs.F.IsBlack() || bs.PDF == 0 || bs.Wi.Z == 0 {
				break
			}
			throughput = throughput.Mul(bs.F).Scale(math.Abs(bs.Wi.Z) / bs.PDF)
			w = bs.Wi

			if z == exitZ && bs.Flags.HasTransmission() {
				break
			}
			if z != exitZ {
				z = exitZ
			} else {
				z = l.oppositeZ(z)
			}
		}
	}
	return result.Scale(1.0 / layeredSamples)
}

// PDF approximates the layered BSDF's sampling density with the
// cosine-weighted hemisphere density |cos(theta_i)|/pi when wo and wi lie
// in the same hemisphere, and 0 otherwise. The interfaces' own PDFs are not
// consulted.
func (l *Layered) PDF(wo, wi core.Vec3, mode TransportMode) float64 {
	wo, wi = l.orient(wo, wi)
	if !SameHemisphere(wo, wi) {
		return 0
	}
	return AbsCosTheta(wi) / math.Pi
}

// SampleF samples a full random walk through the layer stack and returns
// its accumulated throughput and a cosine-weighted PDF approximation,
// using PDFIsProportional to tell the integrator the returned pdf is not
// exact.
func (l *Layered) SampleF(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode) (Sample, bool) {
	flipped := l.TwoSided && wo.Z < 0
	woWalk := wo
	if flipped {
		woWalk = wo.Negate()
	}

	enterTop := l.enterInterfaceIsTop(woWalk)
	var enterInterface BxDF
	if enterTop {
		enterInterface = l.TopBxDF
	} else {
		enterInterface = l.BottomBxDF
	}

	bs, ok := enterInterface.SampleF(woWalk, uc, u, mode)
	if !ok || bs.F.IsBlack() || bs.PDF == 0 || bs.Wi.Z == 0 {
		return Sample{}, false
	}
	if bs.Flags.HasReflection() && !bs.Flags.HasTransmission() {
		wi := bs.Wi
		if flipped {
			wi = wi.Negate()
		}
		return Sample{Wi: wi, F: bs.F, PDF: bs.PDF, Flags: Reflection | Glossy, Eta: 1}, true
	}

	throughput := bs.F.Scale(math.Abs(bs.Wi.Z) / bs.PDF)
	w := bs.Wi
	z := 0.0
	if enterTop {
		z = l.Thickness
	}
	specular := bs.Flags.IsSpecular()

	for depth := 0; depth < maxLayeredDepth; depth++ {
		if depth > 3 {
			q := math.Max(0, 1-throughput.MaxComponent())
			if l.rand() < q {
				return Sample{}, false
			}
			throughput = throughput.Scale(1 / (1 - q))
		}

		if w.Z == 0 {
			return Sample{}, false
		}

		if l.Albedo.IsBlack() {
			throughput = throughput.Scale(l.transmittance(l.Thickness, w))
			z = l.oppositeZ(z)
		} else {
			sigmaT := 1.0
			dz := -math.Log(1-l.rand()) / (sigmaT / math.Abs(w.Z))
			zp := z
			if w.Z > 0 {
				zp += dz
			} else {
				zp -= dz
			}
			if zp > 0 && zp < l.Thickness {
				w = sampleHenyeyGreenstein(w, l.G, l.rand2())
				throughput = throughput.Mul(l.Albedo)
				specular = false
				z = zp
				continue
			}
			z = clampZ(zp, l.Thickness)
		}

		var iface BxDF
		if z == 0 {
			iface = l.BottomBxDF
		} else {
			iface = l.TopBxDF
		}

		isExit := (z == 0 && !enterTop) || (z == l.Thickness && enterTop)
		bs2, ok := iface.SampleF(w.Negate(), l.rand(), l.rand2(), mode)
		if !ok || bs2.F.IsBlack() || bs2.PDF == 0 || bs2.Wi.Z == 0 {
			return Sample{}, false
		}
		throughput = throughput.Mul(bs2.F).Scale(math.Abs(bs2.Wi.Z) / bs2.PDF)
		specular = specular && bs2.Flags.IsSpecular()
		w = bs2.Wi

		if isExit && bs2.Flags.HasTransmission() {
			wi := w
			if flipped {
				wi = wi.Negate()
			}
			flags := Glossy
			if specular {
				flags = Specular
			}
			if bs2.Flags.HasReflection() {
				flags |= Reflection
			}
			if bs2.Flags.HasTransmission() {
				flags |= Transmission
			}
			pdf := AbsCosTheta(wi) / math.Pi
			if specular {
				pdf = 1
			}
			return Sample{Wi: wi, F: throughput, PDF: pdf, Flags: flags, Eta: 1, PDFIsProportional: !specular}, true
		}
		if !isExit {
			continue
		}
		// isExit but pure reflection: bounce back into the stack.
	}
	return Sample{}, false
}

func (l *Layered) orient(wo, wi core.Vec3) (core.Vec3, core.Vec3) {
	if l.TwoSided && wo.Z < 0 {
		return wo.Negate(), wi.Negate()
	}
	return wo, wi
}

func (l *Layered) enterInterfaceIsTop(wo core.Vec3) bool { return wo.Z > 0 }

func (l *Layered) interfaces(enterTop bool, wi core.Vec3) (enter, exit, nonExit BxDF) {
	if enterTop {
		enter = l.TopBxDF
		if wi.Z > 0 {
			exit, nonExit = l.TopBxDF, l.BottomBxDF
		} else {
			exit, nonExit = l.BottomBxDF, l.TopBxDF
		}
		return
	}
	enter = l.BottomBxDF
	if wi.Z > 0 {
		exit, nonExit = l.TopBxDF, l.BottomBxDF
	} else {
		exit, nonExit = l.BottomBxDF, l.TopBxDF
	}
	return
}

func (l *Layered) oppositeZ(z float64) float64 {
	if z == 0 {
		return l.Thickness
	}
	return 0
}

func clampZ(z, thickness float64) float64 {
	if z <= 0 {
		return 0
	}
	return thickness
}

func (l *Layered) transmittance(dz float64, w core.Vec3) float64 {
	if math.Abs(w.Z) < 1e-6 {
		return 0
	}
	return math.Exp(-math.Abs(dz / w.Z))
}

func (l *Layered) transmittanceToInterface(z float64, w core.Vec3, exitZ float64) float64 {
	dz := exitZ - z
	return l.transmittance(dz, w)
}

func sameHemisphereZ(a, b core.Vec3) bool { return (a.Z > 0) == (b.Z > 0) }

// henyeyGreenstein evaluates the Henyey-Greenstein phase function for the
// cosine of the angle between incoming and outgoing directions.
func henyeyGreenstein(cosTheta, g float64) float64 {
	denom := 1 + g*g + 2*g*cosTheta
	if denom <= 0 {
		return 0
	}
	return (1 - g*g) / (4 * math.Pi * denom * math.Sqrt(denom))
}

// sampleHenyeyGreenstein draws a new direction relative to wo according to
// the HG phase function with asymmetry g.
func sampleHenyeyGreenstein(wo core.Vec3, g float64, u core.Vec2) core.Vec3 {
	var cosTheta float64
	if math.Abs(g) < 1e-3 {
		cosTheta = 1 - 2*u.X
	} else {
		sq := (1 - g*g) / (1 + g - 2*g*u.X)
		cosTheta = -(1 + g*g - sq*sq) / (2 * g)
	}
	sinTheta := core.SafeSqrt(1 - cosTheta*cosTheta)
	phi := 2 * math.Pi * u.Y
	x, y := core.OrthonormalBasis(wo)
	local := x.Multiply(sinTheta * math.Cos(phi)).Add(y.Multiply(sinTheta * math.Sin(phi))).Add(wo.Multiply(cosTheta))
	return local.Normalize()
}

// powerHeuristic is the standard beta=2 multiple importance sampling
// weight used to combine BSDF and next-event-estimation sampling.
func powerHeuristic(nf int, fPDF float64, ng int, gPDF float64) float64 {
	f := float64(nf) * fPDF
	g := float64(ng) * gPDF
	if f*f+g*g == 0 {
		return 0
	}
	return (f * f) / (f*f + g*g)
}
