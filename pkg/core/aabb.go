package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	min := points[0]
	max := points[0]

	for _, point := range points[1:] {
		min.X = math.Min(min.X, point.X)
		min.Y = math.Min(min.Y, point.Y)
		min.Z = math.Min(min.Z, point.Z)

		max.X = math.Max(max.X, point.X)
		max.Y = math.Max(max.Y, point.Y)
		max.Z = math.Max(max.Z, point.Z)
	}

	return AABB{Min: min, Max: max}
}

// RaySign precomputes a ray's reciprocal direction and per-axis sign flags
// (1 if the component is negative) so FastIntersect can index the two
// box corners in constant time instead of branching per axis per test.
// BVH traversal computes this once per ray, not once per node.
type RaySign struct {
	InvDir [3]float64
	Sign   [3]int
}

// NewRaySign precomputes the slab-test helper for a ray direction.
func NewRaySign(d Vec3) RaySign {
	rs := RaySign{InvDir: [3]float64{1 / d.X, 1 / d.Y, 1 / d.Z}}
	for axis, v := range rs.InvDir {
		if v < 0 {
			rs.Sign[axis] = 1
		}
	}
	return rs
}

// FastIntersect tests ray/box intersection using precomputed reciprocal
// direction and sign flags to index the two corners in constant time per
// axis. tMax is inflated by (1+2*Gamma(3)) for conservatism, as the
// comparisons below accumulate up to three multiplications' worth of
// rounding error.
func (aabb AABB) FastIntersect(ray Ray, tMax float64, rs RaySign) bool {
	corners := [2]Vec3{aabb.Min, aabb.Max}

	tMin := (corners[rs.Sign[0]].X - ray.Origin.X) * rs.InvDir[0]
	tMaxX := (corners[1-rs.Sign[0]].X - ray.Origin.X) * rs.InvDir[0]
	tyMin := (corners[rs.Sign[1]].Y - ray.Origin.Y) * rs.InvDir[1]
	tyMax := (corners[1-rs.Sign[1]].Y - ray.Origin.Y) * rs.InvDir[1]

	tMaxX *= 1 + 2*Gamma(3)
	tyMax *= 1 + 2*Gamma(3)
	if tMin > tyMax || tyMin > tMaxX {
		return false
	}
	if tyMin > tMin {
		tMin = tyMin
	}
	if tyMax < tMaxX {
		tMaxX = tyMax
	}

	tzMin := (corners[rs.Sign[2]].Z - ray.Origin.Z) * rs.InvDir[2]
	tzMax := (corners[1-rs.Sign[2]].Z - ray.Origin.Z) * rs.InvDir[2]
	tzMax *= 1 + 2*Gamma(3)
	if tMin > tzMax || tzMin > tMaxX {
		return false
	}
	if tzMin > tMin {
		tMin = tzMin
	}
	if tzMax < tMaxX {
		tMaxX = tzMax
	}

	return tMin < tMax && tMaxX > 0
}

// Hit tests if a ray intersects with this AABB using the slab method; kept
// as the general-purpose entry point (arbitrary tMin) for callers outside
// the BVH hot path, which use FastIntersect directly with a precomputed
// RaySign.
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 3; axis++ {
		var lo, hi, origin, direction float64

		switch axis {
		case 0:
			lo, hi, origin, direction = aabb.Min.X, aabb.Max.X, ray.Origin.X, ray.Direction.X
		case 1:
			lo, hi, origin, direction = aabb.Min.Y, aabb.Max.Y, ray.Origin.Y, ray.Direction.Y
		case 2:
			lo, hi, origin, direction = aabb.Min.Z, aabb.Max.Z, ray.Origin.Z, ray.Direction.Z
		}

		if direction == 0 {
			if origin < lo || origin > hi {
				return false
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (lo - origin) * invDirection
		t2 := (hi - origin) * invDirection

		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)

		if tMin > tMax {
			return false
		}
	}

	return true
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	min := Vec3{
		X: math.Min(aabb.Min.X, other.Min.X),
		Y: math.Min(aabb.Min.Y, other.Min.Y),
		Z: math.Min(aabb.Min.Z, other.Min.Z),
	}
	max := Vec3{
		X: math.Max(aabb.Max.X, other.Max.X),
		Y: math.Max(aabb.Max.Y, other.Max.Y),
		Z: math.Max(aabb.Max.Z, other.Max.Z),
	}
	return AABB{Min: min, Max: max}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// SurfaceArea returns the surface area of the AABB
func (aabb AABB) SurfaceArea() float64 {
	size := aabb.Size()
	return 2.0 * (size.X*size.Y + size.Y*size.Z + size.Z*size.X)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0 // X axis
	}
	if size.Y > size.Z {
		return 1 // Y axis
	}
	return 2 // Z axis
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

// Expand returns an AABB expanded by the given amount in all directions
func (aabb AABB) Expand(amount float64) AABB {
	expansion := NewVec3(amount, amount, amount)
	return AABB{
		Min: aabb.Min.Subtract(expansion),
		Max: aabb.Max.Add(expansion),
	}
}
