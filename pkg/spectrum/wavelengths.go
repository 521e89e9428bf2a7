// Package spectrum implements sampled-wavelength radiometry: the
// SampledWavelengths/SampledSpectrum pair that carries light through the
// integrator, CIE XYZ observer integration, and RGB<->spectrum
// round-tripping via the Jakob-Hanika sigmoid polynomial table.
package spectrum

import "math"

// NumSamples is the number of wavelengths (N) carried per path sample.
const NumSamples = 4

// LambdaMin and LambdaMax bound the visible range the renderer samples
// wavelengths from.
const (
	LambdaMin = 360.0
	LambdaMax = 830.0
)

// SampledWavelengths is a tuple of N wavelengths in nm with per-wavelength
// PDF. TerminateSecondary is sticky: once a dispersive event sets it, every
// wavelength past the first carries a zero PDF for the remainder of the
// path, and Secondary-wavelength contributions are dropped accordingly.
type SampledWavelengths struct {
	Lambda             [NumSamples]float64
	PDF                [NumSamples]float64
	TerminateSecondary bool
}

// SampleUniform stratifies [LambdaMin,LambdaMax] into NumSamples equal
// strata and jitters within each by u, giving a low-discrepancy spread of
// wavelengths from a single 1D sample.
func SampleUniform(u float64) SampledWavelengths {
	var sw SampledWavelengths
	span := LambdaMax - LambdaMin
	delta := span / NumSamples
	for i := 0; i < NumSamples; i++ {
		up := u + float64(i)/NumSamples
		if up > 1 {
			up -= 1
		}
		sw.Lambda[i] = LambdaMin + up*delta + float64(i)*delta
		if sw.Lambda[i] > LambdaMax {
			sw.Lambda[i] = LambdaMax
		}
		sw.PDF[i] = 1.0 / span
	}
	return sw
}

// visiblePDF is an unnormalized approximation to the CIE Y-weighted
// importance of a wavelength, used by SampleVisible so more samples land
// where the eye is sensitive, matching PBRT's VisibleWavelengthsPDF.
func visiblePDF(lambda float64) float64 {
	if lambda < LambdaMin || lambda > LambdaMax {
		return 0
	}
	x := math.Cosh(0.0072 * (lambda - 538))
	return 0.0039398042 / (x * x)
}

// sampleVisibleWavelength inverts the visiblePDF CDF in closed form
// (PBRT's SampleVisibleWavelengths), mapping u in [0,1) to a single
// importance-sampled wavelength.
func sampleVisibleWavelength(u float64) float64 {
	return 538 - 138.888889*math.Atanh(0.85691062-1.82750197*u)
}

// SampleVisible stratifies [0,1) into NumSamples strata the same way as
// SampleUniform but maps each through sampleVisibleWavelength so the
// distribution follows human visual sensitivity, reducing variance in
// XYZ-integrated results. u must be in [0,1); u=0 yields Lambda[0]==LambdaMin.
func SampleVisible(u float64) SampledWavelengths {
	var sw SampledWavelengths
	for i := 0; i < NumSamples; i++ {
		up := u + float64(i)/NumSamples
		if up > 1 {
			up -= 1
		}
		sw.Lambda[i] = sampleVisibleWavelength(up)
		sw.PDF[i] = visiblePDF(sw.Lambda[i])
	}
	return sw
}

// TerminateSecondaryWavelengths sets the sticky flag that forces
// Lambda[1:]'s PDFs to be treated as zero for the remainder of the path
// (used when a dispersive BxDF event like rough-dielectric refraction
// picks a single wavelength to continue along).
func (sw *SampledWavelengths) TerminateSecondaryWavelengths() {
	if sw.TerminateSecondary {
		return
	}
	sw.TerminateSecondary = true
	for i := 1; i < NumSamples; i++ {
		sw.PDF[i] = 0
	}
	sw.PDF[0] /= NumSamples
}

// PDFVec returns the raw PDF values (for constructing a SampledSpectrum of
// inverse-PDF weights).
func (sw SampledWavelengths) PDFVec() [NumSamples]float64 {
	return sw.PDF
}
