package core

import "math"

// Mat4 is a 4x4 row-major matrix.
type Mat4 [4][4]float64

// Identity4 returns the 4x4 identity matrix.
func Identity4() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Mul multiplies two matrices.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				r[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return r
}

// Transpose returns the matrix transpose.
func (m Mat4) Transpose() Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[j][i] = m[i][j]
		}
	}
	return r
}

// Inverse computes the matrix inverse via Gauss-Jordan elimination with
// partial pivoting. ok is false for a singular (non-invertible) matrix,
// matching the SingularTransform error condition.
func (m Mat4) Inverse() (inv Mat4, ok bool) {
	a := m
	inv = Identity4()

	for col := 0; col < 4; col++ {
		pivotRow := col
		maxVal := math.Abs(a[col][col])
		for r := col + 1; r < 4; r++ {
			if v := math.Abs(a[r][col]); v > maxVal {
				maxVal = v
				pivotRow = r
			}
		}
		if maxVal < 1e-12 {
			return Mat4{}, false
		}
		if pivotRow != col {
			a[col], a[pivotRow] = a[pivotRow], a[col]
			inv[col], inv[pivotRow] = inv[pivotRow], inv[col]
		}

		pivot := a[col][col]
		for j := 0; j < 4; j++ {
			a[col][j] /= pivot
			inv[col][j] /= pivot
		}

		for r := 0; r < 4; r++ {
			if r == col {
				continue
			}
			factor := a[r][col]
			for j := 0; j < 4; j++ {
				a[r][j] -= factor * a[col][j]
				inv[r][j] -= factor * inv[col][j]
			}
		}
	}
	return inv, true
}

// Transform is a 4x4 matrix and its cached inverse. Ray/point/vector
// applications track worst-case rounding error using Gamma(n) bounds,
// producing Point3fi intervals so subsequent ray origins can be offset
// safely off surfaces.
type Transform struct {
	M    Mat4
	Minv Mat4
}

// Identity returns the identity transform.
func Identity() Transform { return Transform{M: Identity4(), Minv: Identity4()} }

// NewTransform builds a transform from a matrix, computing (and requiring)
// its inverse; a singular matrix returns ok=false.
func NewTransform(m Mat4) (Transform, bool) {
	inv, ok := m.Inverse()
	if !ok {
		return Transform{}, false
	}
	return Transform{M: m, Minv: inv}, true
}

// Inverse returns the transform with M and Minv swapped.
func (t Transform) Inverse() Transform {
	return Transform{M: t.Minv, Minv: t.M}
}

// Compose returns t applied after o (t*o): matrices compose by product, with
// inverted matrices composed in reverse order.
func (t Transform) Compose(o Transform) Transform {
	return Transform{M: t.M.Mul(o.M), Minv: o.Minv.Mul(t.Minv)}
}

// IsIdentity reports whether the transform is the identity within a small
// tolerance, used by the round-trip property test (T âˆ˜ T^-1 == identity).
func (t Transform) IsIdentity() bool {
	id := Identity4()
	tol := 1e-9
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if math.Abs(t.M[i][j]-id[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

// Translate builds a translation transform.
func Translate(delta Vec3) Transform {
	m := Identity4()
	m[0][3], m[1][3], m[2][3] = delta.X, delta.Y, delta.Z
	inv := Identity4()
	inv[0][3], inv[1][3], inv[2][3] = -delta.X, -delta.Y, -delta.Z
	return Transform{M: m, Minv: inv}
}

// Scale builds a nonuniform scale transform.
func Scale(x, y, z float64) Transform {
	m := Identity4()
	m[0][0], m[1][1], m[2][2] = x, y, z
	inv := Identity4()
	inv[0][0], inv[1][1], inv[2][2] = 1/x, 1/y, 1/z
	return Transform{M: m, Minv: inv}
}

// RotateDegrees builds a rotation transform of angleDeg around an arbitrary
// (not necessarily unit) axis, via Rodrigues' formula. The inverse of a
// rotation is its transpose.
func RotateDegrees(angleDeg float64, axis Vec3) Transform {
	a := axis.Normalize()
	sinT, cosT := math.Sincos(angleDeg * math.Pi / 180)

	var m Mat4
	m[0][0] = a.X*a.X + (1-a.X*a.X)*cosT
	m[0][1] = a.X*a.Y*(1-cosT) - a.Z*sinT
	m[0][2] = a.X*a.Z*(1-cosT) + a.Y*sinT
	m[1][0] = a.X*a.Y*(1-cosT) + a.Z*sinT
	m[1][1] = a.Y*a.Y + (1-a.Y*a.Y)*cosT
	m[1][2] = a.Y*a.Z*(1-cosT) - a.X*sinT
	m[2][0] = a.X*a.Z*(1-cosT) - a.Y*sinT
	m[2][1] = a.Y*a.Z*(1-cosT) + a.X*sinT
	m[2][2] = a.Z*a.Z + (1-a.Z*a.Z)*cosT
	m[3][3] = 1

	return Transform{M: m, Minv: m.Transpose()}
}

// LookAt builds a camera-to-world transform whose origin is pos, whose +Z
// axis points toward target, and whose +Y axis is derived from up.
func LookAt(pos, target, up Vec3) (Transform, bool) {
	dir := target.Subtract(pos).Normalize()
	if dir.Cross(up).Length() == 0 {
		return Transform{}, false
	}
	right := up.Normalize().Cross(dir).Normalize()
	newUp := dir.Cross(right)

	cameraToWorld := Mat4{
		{right.X, newUp.X, dir.X, pos.X},
		{right.Y, newUp.Y, dir.Y, pos.Y},
		{right.Z, newUp.Z, dir.Z, pos.Z},
		{0, 0, 0, 1},
	}
	inv, ok := cameraToWorld.Inverse()
	if !ok {
		return Transform{}, false
	}
	return Transform{M: cameraToWorld, Minv: inv}, true
}

// Perspective builds the screen-space perspective projection used by
// PerspectiveCamera: fov in degrees, with near/far planes mapped to z=0/z=1
// in the projected (NDC-like) z.
func Perspective(fovDeg, zNear, zFar float64) Transform {
	persp := Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, zFar / (zFar - zNear), -zFar * zNear / (zFar - zNear)},
		{0, 0, 1, 0},
	}
	invTanAng := 1 / math.Tan(fovDeg*math.Pi/180/2)
	scale := Scale(invTanAng, invTanAng, 1)
	m, ok := NewTransform(persp)
	if !ok {
		// perspective matrices of this form are always invertible for
		// zNear != zFar; this branch exists only to satisfy the type.
		return scale
	}
	return scale.Compose(m)
}

// OnPoint applies the transform to a plain point.
func (t Transform) OnPoint(p Vec3) Vec3 {
	m := t.M
	x := m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3]
	y := m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3]
	z := m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3]
	w := m[3][0]*p.X + m[3][1]*p.Y + m[3][2]*p.Z + m[3][3]
	if w == 1 {
		return Vec3{x, y, z}
	}
	return Vec3{x / w, y / w, z / w}
}

// OnVector applies the transform to a direction vector (no translation).
func (t Transform) OnVector(v Vec3) Vec3 {
	m := t.M
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// OnNormal applies the transform to a surface normal using the
// inverse-transpose, which is the correct transform for normals under
// nonuniform scale.
func (t Transform) OnNormal(n Vec3) Vec3 {
	m := t.Minv
	return Vec3{
		X: m[0][0]*n.X + m[1][0]*n.Y + m[2][0]*n.Z,
		Y: m[0][1]*n.X + m[1][1]*n.Y + m[2][1]*n.Z,
		Z: m[0][2]*n.X + m[1][2]*n.Y + m[2][2]*n.Z,
	}
}

// OnPoint3fi applies the transform to an interval point, accumulating the
// gamma-bounded rounding error of the matrix multiply on top of any
// pre-existing interval width. Width==0 on the input enables the fast exact
// path (error is purely from this transform's arithmetic).
func (t Transform) OnPoint3fi(p Point3fi) Point3fi {
	m := t.M
	px, py, pz := p.X.Midpoint(), p.Y.Midpoint(), p.Z.Midpoint()

	xAbsSum := math.Abs(m[0][0]*px) + math.Abs(m[0][1]*py) + math.Abs(m[0][2]*pz) + math.Abs(m[0][3])
	yAbsSum := math.Abs(m[1][0]*px) + math.Abs(m[1][1]*py) + math.Abs(m[1][2]*pz) + math.Abs(m[1][3])
	zAbsSum := math.Abs(m[2][0]*px) + math.Abs(m[2][1]*py) + math.Abs(m[2][2]*pz) + math.Abs(m[2][3])

	if p.X.Exact() && p.Y.Exact() && p.Z.Exact() {
		out := t.OnPoint(Vec3{px, py, pz})
		errB := Vec3{Gamma(3) * xAbsSum, Gamma(3) * yAbsSum, Gamma(3) * zAbsSum}
		return NewPoint3fiWithError(out, errB)
	}

	// Input already carries interval width; propagate both the existing
	// error and this transform's gamma(3) contribution conservatively.
	ex, ey, ez := p.X.Width()/2, p.Y.Width()/2, p.Z.Width()/2
	inPropagated := math.Abs(m[0][0])*ex + math.Abs(m[0][1])*ey + math.Abs(m[0][2])*ez
	inPropagatedY := math.Abs(m[1][0])*ex + math.Abs(m[1][1])*ey + math.Abs(m[1][2])*ez
	inPropagatedZ := math.Abs(m[2][0])*ex + math.Abs(m[2][1])*ey + math.Abs(m[2][2])*ez

	out := t.OnPoint(Vec3{px, py, pz})
	errB := Vec3{
		X: (Gamma(3)+1)*inPropagated + Gamma(3)*xAbsSum,
		Y: (Gamma(3)+1)*inPropagatedY + Gamma(3)*yAbsSum,
		Z: (Gamma(3)+1)*inPropagatedZ + Gamma(3)*zAbsSum,
	}
	return NewPoint3fiWithError(out, errB)
}

// OnRay transforms a ray into the new space. dt is the parametric distance
// the origin was pushed along the transformed direction by its positional
// error bound, so the caller may correct t-values at the cost of one
// subtraction; it is zero only when the transformed origin carries no error
// bound or the direction has zero length.
func (t Transform) OnRay(r Ray) (Ray, float64) {
	oi := t.OnPoint3fi(NewPoint3fi(r.Origin))
	d := t.OnVector(r.Direction)

	// Push the origin out along the direction by its error bound, so a
	// ray spawned from a transformed hit point does not immediately
	// re-hit the surface it came from due to numerical drift.
	lengthSq := d.LengthSquared()
	dt := 0.0
	origin := oi.Midpoint()
	if lengthSq > 0 {
		oErr := oi.Error()
		dtVal := oErr.Dot(d.Abs()) / lengthSq
		if dtVal > 0 {
			origin = origin.Add(d.Multiply(dtVal))
			dt = dtVal
		}
	}

	nr := r
	nr.Origin = origin
	nr.Direction = d
	return nr, dt
}

// OnBounds transforms an AABB using the Arvo algorithm: for each axis of
// the output, accumulate from each input-axis' sign-selected corner rather
// than transforming and re-bounding all eight corners.
func (t Transform) OnBounds(b AABB) AABB {
	m := t.M
	result := AABB{
		Min: Vec3{m[0][3], m[1][3], m[2][3]},
		Max: Vec3{m[0][3], m[1][3], m[2][3]},
	}
	mins := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	maxs := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}

	for outAxis := 0; outAxis < 3; outAxis++ {
		minAccum, maxAccum := 0.0, 0.0
		for inAxis := 0; inAxis < 3; inAxis++ {
			e := m[outAxis][inAxis]
			a := e * mins[inAxis]
			bb := e * maxs[inAxis]
			if a < bb {
				minAccum += a
				maxAccum += bb
			} else {
				minAccum += bb
				maxAccum += a
			}
		}
		switch outAxis {
		case 0:
			result.Min.X += minAccum
			result.Max.X += maxAccum
		case 1:
			result.Min.Y += minAccum
			result.Max.Y += maxAccum
		case 2:
			result.Min.Z += minAccum
			result.Max.Z += maxAccum
		}
	}
	return result
}

// SwapsHandedness reports whether the transform's 3x3 linear part has a
// negative determinant, which flips geometric normals and is used to decide
// default reverse-orientation for shapes under such a transform.
func (t Transform) SwapsHandedness() bool {
	m := t.M
	det := m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
	return det < 0
}
