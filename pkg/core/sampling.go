package core

import "math"

// PowerHeuristic implements the MIS power heuristic (beta=2) combining two
// sampling strategies' PDFs for the same event.
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	if fPdf == 0 {
		return 0
	}
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	return (f * f) / (f*f + g*g)
}

// BalanceHeuristic implements the MIS balance heuristic.
func BalanceHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	if fPdf == 0 {
		return 0
	}
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	return f / (f + g)
}

// SphereUniformPDF returns the PDF for uniform sampling on a sphere of the
// given radius (as solid angle over the full sphere at the surface).
func SphereUniformPDF(radius float64) float64 {
	return 1.0 / (4.0 * math.Pi * radius * radius)
}

// SphereConePDF returns the solid-angle PDF for sampling a sphere from an
// external point via the visible cone, falling back to uniform sampling
// when the point is inside the sphere.
func SphereConePDF(distance, radius float64) float64 {
	if distance <= radius {
		return SphereUniformPDF(radius)
	}
	sinThetaMax := radius / distance
	cosThetaMax := math.Sqrt(math.Max(0, 1.0-sinThetaMax*sinThetaMax))
	return 1.0 / (2.0 * math.Pi * (1.0 - cosThetaMax))
}

// SampleUniformSphere maps a uniform 2D sample to a uniform direction on
// the unit sphere.
func SampleUniformSphere(u Vec2) Vec3 {
	z := 1 - 2*u.X
	r := SafeSqrt(1 - z*z)
	phi := 2 * math.Pi * u.Y
	return Vec3{r * math.Cos(phi), r * math.Sin(phi), z}
}

// UniformSpherePDF is the constant PDF of SampleUniformSphere.
func UniformSpherePDF() float64 {
	return 1.0 / (4.0 * math.Pi)
}

// SampleUniformDiskConcentric maps a uniform 2D sample in [0,1)^2 to a
// point on the unit disk using Shirley's concentric mapping, which avoids
// the distortion of a naive polar mapping near the disk's center.
func SampleUniformDiskConcentric(u Vec2) Vec2 {
	uOffset := Vec2{2*u.X - 1, 2*u.Y - 1}
	if uOffset.X == 0 && uOffset.Y == 0 {
		return Vec2{0, 0}
	}
	var theta, r float64
	if math.Abs(uOffset.X) > math.Abs(uOffset.Y) {
		r = uOffset.X
		theta = (math.Pi / 4) * (uOffset.Y / uOffset.X)
	} else {
		r = uOffset.Y
		theta = (math.Pi / 2) - (math.Pi/4)*(uOffset.X/uOffset.Y)
	}
	return Vec2{r * math.Cos(theta), r * math.Sin(theta)}
}

// SampleCosineHemisphere maps a uniform 2D sample to a cosine-weighted
// direction around +Z via Malley's method (concentric disk + projection).
func SampleCosineHemisphere(u Vec2) Vec3 {
	d := SampleUniformDiskConcentric(u)
	z := SafeSqrt(1 - d.X*d.X - d.Y*d.Y)
	return Vec3{d.X, d.Y, z}
}

// CosineHemispherePDF returns cos(theta)/pi for a local-frame direction
// whose Z-component is cosTheta.
func CosineHemispherePDF(cosTheta float64) float64 {
	return cosTheta / math.Pi
}

// RandomCosineDirection returns a cosine-weighted direction around the
// given world-space normal, sampling the local hemisphere and rotating
// into the normal's orthonormal basis.
func RandomCosineDirection(normal Vec3, u Vec2) Vec3 {
	local := SampleCosineHemisphere(u)
	t, b := OrthonormalBasis(normal)
	return t.Multiply(local.X).Add(b.Multiply(local.Y)).Add(normal.Multiply(local.Z))
}

// SampleUniformTriangle returns barycentric coordinates (b0,b1) uniformly
// distributed over a triangle from a uniform 2D sample.
func SampleUniformTriangle(u Vec2) (b0, b1 float64) {
	if u.X < u.Y {
		b0 = u.X / 2
		b1 = u.Y - b0
	} else {
		b1 = u.Y / 2
		b0 = u.X - b1
	}
	return b0, b1
}

// SampleHenyeyGreenstein importance-samples the Henyey-Greenstein phase
// function with asymmetry g around +Z, returning a local-frame direction
// and the phase value (which equals the sampling PDF).
func SampleHenyeyGreenstein(g float64, u Vec2) (wi Vec3, pdf float64) {
	var cosTheta float64
	if math.Abs(g) < 1e-3 {
		cosTheta = 1 - 2*u.X
	} else {
		sqrTerm := (1 - g*g) / (1 + g - 2*g*u.X)
		cosTheta = -(1 + g*g - sqrTerm*sqrTerm) / (2 * g)
	}
	sinTheta := SafeSqrt(1 - cosTheta*cosTheta)
	phi := 2 * math.Pi * u.Y
	local := Vec3{sinTheta * math.Cos(phi), sinTheta * math.Sin(phi), cosTheta}
	p := HenyeyGreenstein(cosTheta, g)
	return local, p
}

// HenyeyGreenstein evaluates the HG phase function for the cosine of the
// angle between the forward direction and the scattered direction.
func HenyeyGreenstein(cosTheta, g float64) float64 {
	denom := 1 + g*g + 2*g*cosTheta
	if denom <= 0 {
		return 0
	}
	return (1 / (4 * math.Pi)) * (1 - g*g) / (denom * math.Sqrt(denom))
}
