package core

// Ray represents a ray with an origin, direction, optional differentials
// for texture filtering, and a time (carried for interface completeness;
// this core does not support time-varying transforms).
type Ray struct {
	Origin    Vec3
	Direction Vec3
	Time      float64

	HasDifferentials bool
	RxOrigin         Vec3
	RyOrigin         Vec3
	RxDirection      Vec3
	RyDirection      Vec3
}

// NewRay creates a new ray with no differentials.
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// NewRayTo creates a ray from origin toward target.
func NewRayTo(origin, target Vec3) Ray {
	return NewRay(origin, target.Subtract(origin).Normalize())
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// ScaleDifferentials scales the ray's differential origins/directions by s,
// used when multiple samples per pixel spread the differential footprint.
func (r Ray) ScaleDifferentials(s float64) Ray {
	r.RxOrigin = r.Origin.Add(r.RxOrigin.Subtract(r.Origin).Multiply(s))
	r.RyOrigin = r.Origin.Add(r.RyOrigin.Subtract(r.Origin).Multiply(s))
	r.RxDirection = r.Direction.Add(r.RxDirection.Subtract(r.Direction).Multiply(s))
	r.RyDirection = r.Direction.Add(r.RyDirection.Subtract(r.Direction).Multiply(s))
	return r
}

// Point3fi is an interval-valued point produced by transforms that track
// worst-case rounding error, so surface-offset spawn-ray logic can push a
// new ray origin strictly off the surface.
type Point3fi struct {
	X, Y, Z Interval
}

// NewPoint3fi builds an exact interval point.
func NewPoint3fi(p Vec3) Point3fi {
	return Point3fi{X: NewInterval(p.X), Y: NewInterval(p.Y), Z: NewInterval(p.Z)}
}

// NewPoint3fiWithError builds an interval point around p with a per-axis
// absolute error bound (typically Gamma(n)*|p| for some operation count n).
func NewPoint3fiWithError(p, err Vec3) Point3fi {
	return Point3fi{
		X: NewIntervalWithError(p.X, err.X),
		Y: NewIntervalWithError(p.Y, err.Y),
		Z: NewIntervalWithError(p.Z, err.Z),
	}
}

// Midpoint collapses the interval point to its nominal value.
func (p Point3fi) Midpoint() Vec3 {
	return Vec3{p.X.Midpoint(), p.Y.Midpoint(), p.Z.Midpoint()}
}

// Error returns the per-axis half-width of the interval, i.e. the
// conservative position error used by spawn-ray offsetting.
func (p Point3fi) Error() Vec3 {
	return Vec3{p.X.Width() / 2, p.Y.Width() / 2, p.Z.Width() / 2}
}

// SpawnRay offsets p along outward-facing normal n by the position error so
// a new ray in direction d does not self-intersect the originating surface.
// Each component is rounded strictly away from the surface, matching the
// NextFloatUp/Down convention used by offsetRayOrigin in PBRT.
func SpawnRay(p Point3fi, n, d Vec3) Ray {
	return NewRay(OffsetRayOrigin(p, n, d), d)
}

// OffsetRayOrigin nudges the midpoint of p outward along n (chosen to face
// the same side as d) by the interval's error bound, rounding each
// component away from the surface.
func OffsetRayOrigin(p Point3fi, n, d Vec3) Vec3 {
	pErr := p.Error()
	offsetMag := n.Abs().Dot(pErr)
	offset := n.Multiply(offsetMag)
	if n.Dot(d) < 0 {
		offset = offset.Negate()
	}
	po := p.Midpoint().Add(offset)
	for axis := 0; axis < 3; axis++ {
		switch axis {
		case 0:
			if offset.X > 0 {
				po.X = NextFloatUp(po.X)
			} else if offset.X < 0 {
				po.X = NextFloatDown(po.X)
			}
		case 1:
			if offset.Y > 0 {
				po.Y = NextFloatUp(po.Y)
			} else if offset.Y < 0 {
				po.Y = NextFloatDown(po.Y)
			}
		case 2:
			if offset.Z > 0 {
				po.Z = NextFloatUp(po.Z)
			} else if offset.Z < 0 {
				po.Z = NextFloatDown(po.Z)
			}
		}
	}
	return po
}
