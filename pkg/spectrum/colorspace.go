package spectrum

import (
	"math"
	"runtime"
	"sync"
)

// RGBSigmoidPolynomial represents a smooth, energy-bounded reflectance
// spectrum as three coefficients c0,c1,c2 of a quadratic evaluated through a
// sigmoid, per Jakob & Hanika 2019: s(lambda) = sigmoid(c0*lambda^2 +
// c1*lambda + c2), sigmoid(x) = 1/2 + x/(2*sqrt(1+x^2)).
type RGBSigmoidPolynomial struct {
	C0, C1, C2 float64
}

func sigmoid(x float64) float64 {
	if math.IsInf(x, 1) {
		return 1
	}
	if math.IsInf(x, -1) {
		return 0
	}
	return 0.5 + x/(2*math.Sqrt(1+x*x))
}

// At evaluates the polynomial-sigmoid at the given wavelength in nm, scaled
// to [0,1] input range the way the fitted table expects.
func (p RGBSigmoidPolynomial) At(lambdaNM float64) float64 {
	x := (lambdaNM - LambdaMin) / (LambdaMax - LambdaMin)
	return sigmoid((p.C0*x+p.C1)*x + p.C2)
}

// MaxValue bounds the polynomial's range over the visible spectrum, used to
// scale an RGBIlluminantSpectrum back up to its original, possibly >1,
// intensity.
func (p RGBSigmoidPolynomial) MaxValue() float64 {
	m := math.Max(p.At(LambdaMin), p.At(LambdaMax))
	x := -p.C1 / (2 * p.C0)
	if x >= 0 && x <= 1 {
		lambda := LambdaMin + x*(LambdaMax-LambdaMin)
		m = math.Max(m, p.At(lambda))
	}
	return m
}

// rgbTableRes is the per-axis resolution of the RGB-to-spectrum lookup
// table; the spec calls for a 64^3 cube.
const rgbTableRes = 64

// rgbToSpectrumTable holds a precomputed coefficient cube indexed by
// [whichMaxComponent][z][y][x], fit once at process start by Gauss-Newton
// optimization against the target reflectance curves, per Jakob & Hanika.
// The table is shared process-wide read-only state after init.
type rgbToSpectrumTable struct {
	coeffs [3][rgbTableRes][rgbTableRes][rgbTableRes][3]float64
}

var rgbTable *rgbToSpectrumTable

func init() {
	rgbTable = buildRGBToSpectrumTable()
}

// rgbTablePlane identifies one (maxComp, zi) slice of the table: the unit
// of work a single worker fits independently of every other slice.
type rgbTablePlane struct{ maxComp, zi int }

// buildRGBToSpectrumTable fits a sigmoid-polynomial to each node of the
// 64^3 RGB cube via full-step Gauss-Newton against the CIE observer curves,
// following the construction in Jakob & Hanika's "A Low-Dimensional
// Function Space for Efficient Spectral Upsampling". Coordinates are laid
// out as PBRT does: for the channel with the largest value held fixed at 1,
// the other two channels are swept over a smoothstep-spaced [0,1] grid so
// resolution concentrates away from the white point.
//
// The fit is 3*64 independent planes of 64*64 Gauss-Newton solves each;
// each worker claims whole planes, so there's no shared-write contention
// and no locking beyond the channel and the final WaitGroup.
func buildRGBToSpectrumTable() *rgbToSpectrumTable {
	t := &rgbToSpectrumTable{}

	planes := make(chan rgbTablePlane, 3*rgbTableRes)
	for maxComp := 0; maxComp < 3; maxComp++ {
		for zi := 0; zi < rgbTableRes; zi++ {
			planes <- rgbTablePlane{maxComp, zi}
		}
	}
	close(planes)

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for p := range planes {
				fitRGBTablePlane(t, p.maxComp, p.zi)
			}
		}()
	}
	wg.Wait()

	return t
}

// fitRGBTablePlane fits every (x,y) node of one maxComp/zi plane.
func fitRGBTablePlane(t *rgbToSpectrumTable, maxComp, zi int) {
	z := float64(zi) / (rgbTableRes - 1)
	for yi := 0; yi < rgbTableRes; yi++ {
		y := smoothstepCoord(yi)
		for xi := 0; xi < rgbTableRes; xi++ {
			x := smoothstepCoord(xi)
			rgb := nodeRGB(maxComp, x, y, z)
			t.coeffs[maxComp][zi][yi][xi] = fitSigmoidPolynomial(rgb)
		}
	}
}

func smoothstepCoord(i int) float64 {
	t := float64(i) / (rgbTableRes - 1)
	return t * t * (3 - 2*t)
}

// nodeRGB reconstructs the RGB value a table node represents: the
// maxComp-th channel is fixed at z (the scale), and x,y are the other two
// channels in [0,1] scaled by z.
func nodeRGB(maxComp int, x, y, z float64) [3]float64 {
	var rgb [3]float64
	rgb[maxComp] = z
	other := [2]int{}
	j := 0
	for c := 0; c < 3; c++ {
		if c != maxComp {
			other[j] = c
			j++
		}
	}
	rgb[other[0]] = x * z
	rgb[other[1]] = y * z
	return rgb
}

// fitSigmoidPolynomial runs up to 15 full-step (undamped) Gauss-Newton iterations to find
// coefficients whose RGBSigmoidPolynomial best reproduces the target RGB
// under the standard observer, starting from the zero polynomial (constant
// 0.5 reflectance) per Jakob & Hanika's reference implementation.
func fitSigmoidPolynomial(targetRGB [3]float64) [3]float64 {
	c := [3]float64{0, 0, 0}
	const iterations = 15
	for iter := 0; iter < iterations; iter++ {
		residual, jac := evalResidualAndJacobian(c, targetRGB)
		delta, ok := solveNormalEquations(jac, residual)
		if !ok {
			break
		}
		lambda := 1.0
		for k := range c {
			c[k] -= lambda * delta[k]
		}
	}
	return c
}

// evalResidualAndJacobian computes the residual between the polynomial's
// implied RGB (integrated against the observer curves and a flat
// illuminant) and the target, plus a finite-difference Jacobian.
func evalResidualAndJacobian(c [3]float64, target [3]float64) ([3]float64, [3][3]float64) {
	got := polynomialToRGB(c)
	var residual [3]float64
	for i := range residual {
		residual[i] = got[i] - target[i]
	}
	const h = 1e-3
	var jac [3][3]float64
	for k := 0; k < 3; k++ {
		cp := c
		cp[k] += h
		gp := polynomialToRGB(cp)
		for i := 0; i < 3; i++ {
			jac[i][k] = (gp[i] - got[i]) / h
		}
	}
	return residual, jac
}

func polynomialToRGB(c [3]float64) [3]float64 {
	p := RGBSigmoidPolynomial{C0: c[0], C1: c[1], C2: c[2]}
	s := illuminantNeutralSpectrum{p: p}
	xyz := SpectrumToXYZ(s)
	return XYZToSRGB(xyz)
}

type illuminantNeutralSpectrum struct{ p RGBSigmoidPolynomial }

func (s illuminantNeutralSpectrum) At(lambda float64) float64 { return s.p.At(lambda) }
func (s illuminantNeutralSpectrum) Sample(sw SampledWavelengths) SampledSpectrum {
	return sampleAt(s, sw)
}

// solveNormalEquations solves (J^T J) delta = J^T r for a 3x3 system via
// Cramer's rule, returning ok=false if the system is singular.
func solveNormalEquations(jac [3][3]float64, residual [3]float64) ([3]float64, bool) {
	var jtj [3][3]float64
	var jtr [3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sum := 0.0
			for k := 0; k < 3; k++ {
				sum += jac[k][i] * jac[k][j]
			}
			jtj[i][j] = sum
		}
		sum := 0.0
		for k := 0; k < 3; k++ {
			sum += jac[k][i] * residual[k]
		}
		jtr[i] = sum
	}
	det := det3(jtj)
	if math.Abs(det) < 1e-12 {
		return [3]float64{}, false
	}
	var delta [3]float64
	for col := 0; col < 3; col++ {
		m := jtj
		for row := 0; row < 3; row++ {
			m[row][col] = jtr[row]
		}
		delta[col] = det3(m) / det
	}
	return delta, true
}

func det3(m [3][3]float64) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// XYZToSRGB converts CIE XYZ to linear sRGB using the standard primaries
// matrix (IEC 61966-2-1), the RGBColorSpace this renderer targets.
func XYZToSRGB(c XYZ) [3]float64 {
	return [3]float64{
		3.2404542*c.X - 1.5371385*c.Y - 0.4985314*c.Z,
		-0.9692660*c.X + 1.8760108*c.Y + 0.0415560*c.Z,
		0.0556434*c.X - 0.2040259*c.Y + 1.0572252*c.Z,
	}
}

// SRGBToXYZ is the inverse of XYZToSRGB.
func SRGBToXYZ(rgb [3]float64) XYZ {
	return XYZ{
		X: 0.4124564*rgb[0] + 0.3575761*rgb[1] + 0.1804375*rgb[2],
		Y: 0.2126729*rgb[0] + 0.7151522*rgb[1] + 0.0721750*rgb[2],
		Z: 0.0193339*rgb[0] + 0.1191920*rgb[1] + 0.9503041*rgb[2],
	}
}

// RGBColorSpace bundles the primaries (implicitly, via the XYZ<->RGB
// matrices above), the illuminant, and the fitted RGB-to-spectrum table.
// The renderer has a single process-wide color space, sRGB/D65, matching
// the data model's description of the color pipeline.
type RGBColorSpace struct {
	Illuminant Spectrum
}

// SRGB is the renderer's single global color space.
var SRGB = &RGBColorSpace{Illuminant: D65()}

// ToRGBSigmoidPolynomial looks up the nearest table node's fitted
// coefficients for an albedo in [0,1]^3, per Jakob & Hanika's
// RGBToSpectrumTable::operator().
func (cs *RGBColorSpace) ToRGBSigmoidPolynomial(rgb [3]float64) RGBSigmoidPolynomial {
	if rgb[0] == rgb[1] && rgb[1] == rgb[2] {
		c2 := (rgb[0] - 0.5) / math.Sqrt(rgb[0]*(1-rgb[0])+1e-4)
		return RGBSigmoidPolynomial{C0: 0, C1: 0, C2: c2}
	}
	maxComp := 0
	for c := 1; c < 3; c++ {
		if rgb[c] > rgb[maxComp] {
			maxComp = c
		}
	}
	z := rgb[maxComp]
	if z <= 0 {
		return RGBSigmoidPolynomial{C2: -4}
	}
	other := [2]int{}
	j := 0
	for c := 0; c < 3; c++ {
		if c != maxComp {
			other[j] = c
			j++
		}
	}
	x := clamp01(rgb[other[0]] / z)
	y := clamp01(rgb[other[1]] / z)
	xi := int(inverseSmoothstepCoord(x)*(rgbTableRes-1) + 0.5)
	yi := int(inverseSmoothstepCoord(y)*(rgbTableRes-1) + 0.5)
	zi := int(z*(rgbTableRes-1) + 0.5)
	c := rgbTable.coeffs[maxComp][zi][yi][xi]
	return RGBSigmoidPolynomial{C0: c[0], C1: c[1], C2: c[2]}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// inverseSmoothstepCoord inverts smoothstepCoord's cubic warp via up to
// four Newton steps from a linear guess, good enough for table-index lookup.
func inverseSmoothstepCoord(y float64) float64 {
	t := y
	for i := 0; i < 4; i++ {
		f := t*t*(3-2*t) - y
		fp := 6 * t * (1 - t)
		if fp == 0 {
			break
		}
		t -= f / fp
	}
	return clamp01(t)
}

// RGBAlbedoSpectrum wraps a fitted sigmoid polynomial clamped to [0,1], the
// representation used for surface reflectances read from scene RGB values.
type RGBAlbedoSpectrum struct{ p RGBSigmoidPolynomial }

// NewRGBAlbedoSpectrum fits rgb (each component in [0,1]) to the table.
func NewRGBAlbedoSpectrum(cs *RGBColorSpace, rgb [3]float64) RGBAlbedoSpectrum {
	return RGBAlbedoSpectrum{p: cs.ToRGBSigmoidPolynomial(rgb)}
}

func (s RGBAlbedoSpectrum) At(lambda float64) float64 { return s.p.At(lambda) }
func (s RGBAlbedoSpectrum) Sample(sw SampledWavelengths) SampledSpectrum {
	return sampleAt(s, sw)
}

// RGBIlluminantSpectrum represents an unbounded RGB light intensity as a
// [0,1]-fitted sigmoid polynomial scaled by the ratio of the input
// magnitude to the polynomial's own peak, modulated by the color space's
// illuminant shape so emission spectra look like scaled daylight rather
// than flat metamers.
type RGBIlluminantSpectrum struct {
	p          RGBSigmoidPolynomial
	scale      float64
	illuminant Spectrum
}

// NewRGBIlluminantSpectrum builds an emission spectrum from an RGB
// intensity that may exceed 1 in any channel.
func NewRGBIlluminantSpectrum(cs *RGBColorSpace, rgb [3]float64) RGBIlluminantSpectrum {
	m := math.Max(rgb[0], math.Max(rgb[1], rgb[2]))
	if m <= 0 {
		return RGBIlluminantSpectrum{illuminant: cs.Illuminant}
	}
	normalized := [3]float64{rgb[0] / m, rgb[1] / m, rgb[2] / m}
	p := cs.ToRGBSigmoidPolynomial(normalized)
	peak := p.MaxValue()
	scale := m
	if peak > 0 {
		scale = m / peak
	}
	return RGBIlluminantSpectrum{p: p, scale: scale, illuminant: cs.Illuminant}
}

func (s RGBIlluminantSpectrum) At(lambda float64) float64 {
	return s.p.At(lambda) * s.scale * s.illuminant.At(lambda)
}
func (s RGBIlluminantSpectrum) Sample(sw SampledWavelengths) SampledSpectrum {
	return sampleAt(s, sw)
}
