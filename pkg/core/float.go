// Package core provides the numeric and geometric foundation shared by every
// other package: error-bounded floating point, vectors/points/normals,
// rays with differentials, axis-aligned bounds, and rounding-error-tracked
// transforms.
package core

import (
	"math"
)

// machineEpsilon is half the spacing between 1.0 and the next representable
// float64, matching the convention used for Higham's gamma bound.
const machineEpsilon = 1.1102230246251565e-16

// gammaTable precomputes gamma(n) = n*eps / (1 - n*eps) for n in [0,127] so
// that transformed-point error bounds are O(1) to look up instead of
// recomputed on every call.
var gammaTable [128]float64

func init() {
	for n := 0; n < len(gammaTable); n++ {
		nf := float64(n)
		gammaTable[n] = (nf * machineEpsilon) / (1 - nf*machineEpsilon)
	}
}

// Gamma returns Higham's conservative error bound n*eps/(1-n*eps) for a
// computation accumulating n rounding errors. Negative n is treated as 0;
// n past the precomputed table is computed directly.
func Gamma(n int) float64 {
	if n < 0 {
		n = 0
	}
	if n >= len(gammaTable) {
		nf := float64(n)
		return (nf * machineEpsilon) / (1 - nf*machineEpsilon)
	}
	return gammaTable[n]
}

// TwoSum performs Knuth's 2Sum: returns a+b and the rounding error committed
// by the floating point addition, s.t. a+b == sum+err exactly.
func TwoSum(a, b float64) (sum, err float64) {
	sum = a + b
	bb := sum - a
	err = (a - (sum - bb)) + (b - bb)
	return sum, err
}

// TwoProd performs Dekker's 2Prod via FMA: returns a*b and the rounding
// error, s.t. a*b == prod+err exactly.
func TwoProd(a, b float64) (prod, err float64) {
	prod = a * b
	err = math.FMA(a, b, -prod)
	return prod, err
}

// DifferenceOfProducts computes a*b-c*d with a compensated FMA sequence that
// avoids the catastrophic cancellation a naive subtraction suffers when a*b
// and c*d are close in magnitude.
func DifferenceOfProducts(a, b, c, d float64) float64 {
	cd := c * d
	diff := math.FMA(a, b, -cd)
	err := math.FMA(-c, d, cd)
	return diff + err
}

// SumOfProducts computes a*b+c*d with the same compensated technique.
func SumOfProducts(a, b, c, d float64) float64 {
	cd := c * d
	sum := math.FMA(a, b, cd)
	err := math.FMA(c, d, -cd)
	return sum + err
}

// InnerProduct computes a compensated dot-product-like sum of a[i]*b[i] and
// returns both the value and a conservative estimate of its rounding error,
// used where many products are accumulated (e.g. triangle edge functions).
func InnerProduct(a, b []float64) (value, errEstimate float64) {
	if len(a) == 0 {
		return 0, 0
	}
	value, errEstimate = TwoProd(a[0], b[0])
	for i := 1; i < len(a); i++ {
		term, termErr := TwoProd(a[i], b[i])
		sum, sumErr := TwoSum(value, term)
		value = sum
		errEstimate += termErr + sumErr
	}
	return value, errEstimate
}

// NextFloatUp returns the smallest float64 strictly greater than v (toggles
// the last bit of the IEEE-754 pattern upward), used to push a value away
// from a surface without leaving the representable grid.
func NextFloatUp(v float64) float64 {
	if math.IsInf(v, 1) {
		return v
	}
	if v == 0 {
		v = 0 // normalize -0 to +0
	}
	bits := math.Float64bits(v)
	if v >= 0 {
		bits++
	} else {
		bits--
	}
	return math.Float64frombits(bits)
}

// NextFloatDown returns the largest float64 strictly less than v.
func NextFloatDown(v float64) float64 {
	if math.IsInf(v, -1) {
		return v
	}
	if v == 0 {
		v = math.Copysign(0, -1) // normalize +0 to -0
	}
	bits := math.Float64bits(v)
	if v > 0 {
		bits--
	} else {
		bits++
	}
	return math.Float64frombits(bits)
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp linearly interpolates between a and b at parameter t.
func Lerp(t, a, b float64) float64 {
	return (1-t)*a + t*b
}

// SafeSqrt returns sqrt(max(0,v)), guarding against small negative values
// produced by rounding error where a true zero was intended.
func SafeSqrt(v float64) float64 {
	if v < 0 {
		return 0
	}
	return math.Sqrt(v)
}

// SafeAcos clamps v into [-1,1] before calling math.Acos.
func SafeAcos(v float64) float64 {
	return math.Acos(Clamp(v, -1, 1))
}

// SafeAsin clamps v into [-1,1] before calling math.Asin.
func SafeAsin(v float64) float64 {
	return math.Asin(Clamp(v, -1, 1))
}
