package spectrum

import "sort"

// Spectrum is any continuous wavelength -> value function that can be
// evaluated at an arbitrary wavelength and sampled at a SampledWavelengths
// tuple.
type Spectrum interface {
	At(lambda float64) float64
	Sample(sw SampledWavelengths) SampledSpectrum
}

// sampleAt is the shared helper every Spectrum implementation uses to turn
// its At(lambda) into a SampledSpectrum.
func sampleAt(s Spectrum, sw SampledWavelengths) SampledSpectrum {
	var r SampledSpectrum
	for i, lambda := range sw.Lambda {
		r.Values[i] = s.At(lambda)
	}
	return r
}

// PiecewiseLinearSpectrum is a sorted set of (wavelength,value) control
// points with linear interpolation between them and zero outside the
// range.
type PiecewiseLinearSpectrum struct {
	Lambdas []float64
	Values  []float64
}

// NewPiecewiseLinearSpectrum builds a spectrum from parallel
// wavelength/value slices, which must already be sorted by wavelength.
func NewPiecewiseLinearSpectrum(lambdas, values []float64) *PiecewiseLinearSpectrum {
	return &PiecewiseLinearSpectrum{Lambdas: lambdas, Values: values}
}

// At evaluates the spectrum at lambda via binary-search linear
// interpolation; returns 0 outside [Lambdas[0], Lambdas[len-1]].
func (p *PiecewiseLinearSpectrum) At(lambda float64) float64 {
	n := len(p.Lambdas)
	if n == 0 || lambda < p.Lambdas[0] || lambda > p.Lambdas[n-1] {
		return 0
	}
	i := sort.SearchFloat64s(p.Lambdas, lambda)
	if i < n && p.Lambdas[i] == lambda {
		return p.Values[i]
	}
	if i == 0 {
		return p.Values[0]
	}
	lo, hi := i-1, i
	t := (lambda - p.Lambdas[lo]) / (p.Lambdas[hi] - p.Lambdas[lo])
	return (1-t)*p.Values[lo] + t*p.Values[hi]
}

// Sample evaluates the spectrum at each of sw's wavelengths.
func (p *PiecewiseLinearSpectrum) Sample(sw SampledWavelengths) SampledSpectrum {
	return sampleAt(p, sw)
}

// DenselySampledSpectrum stores one value per integer nanometer over
// [LambdaMinI,LambdaMaxI] for O(1) lookup, built once from any Spectrum
// (typically a PiecewiseLinearSpectrum read from a scene file, or the CIE
// curves).
type DenselySampledSpectrum struct {
	LambdaMinI int
	LambdaMaxI int
	Values     []float64
}

// NewDenselySampledSpectrum resamples src at every integer nanometer in
// [lambdaMin,lambdaMax].
func NewDenselySampledSpectrum(src Spectrum, lambdaMin, lambdaMax int) *DenselySampledSpectrum {
	d := &DenselySampledSpectrum{LambdaMinI: lambdaMin, LambdaMaxI: lambdaMax}
	d.Values = make([]float64, lambdaMax-lambdaMin+1)
	for l := lambdaMin; l <= lambdaMax; l++ {
		d.Values[l-lambdaMin] = src.At(float64(l))
	}
	return d
}

// At returns the densely sampled value, rounding to the nearest integer
// nanometer; 0 outside the stored range.
func (d *DenselySampledSpectrum) At(lambda float64) float64 {
	i := int(lambda + 0.5)
	if i < d.LambdaMinI || i > d.LambdaMaxI {
		return 0
	}
	return d.Values[i-d.LambdaMinI]
}

// Sample evaluates the spectrum at each of sw's wavelengths.
func (d *DenselySampledSpectrum) Sample(sw SampledWavelengths) SampledSpectrum {
	return sampleAt(d, sw)
}

// ConstantSpectrum is a wavelength-independent value, used for e.g. a
// constant index of refraction.
type ConstantSpectrum struct{ Value float64 }

// At returns the constant value at any wavelength.
func (c ConstantSpectrum) At(float64) float64 { return c.Value }

// Sample returns the constant value at every sampled wavelength.
func (c ConstantSpectrum) Sample(sw SampledWavelengths) SampledSpectrum {
	return NewSampledSpectrum(c.Value)
}

// InnerProduct integrates s1*s2 over [LambdaMin,LambdaMax] sampled at 1nm,
// used for CIE XYZ observer integration.
func InnerProduct(s1, s2 Spectrum) float64 {
	sum := 0.0
	for l := LambdaMin; l <= LambdaMax; l++ {
		sum += s1.At(l) * s2.At(l)
	}
	return sum
}
