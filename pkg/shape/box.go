package shape

import "github.com/df07/go-photoncore/pkg/core"

// Box is an axis-aligned rectangular volume built from six Quad faces: a
// box is not a special intersection routine, it's six quads plus
// closest-hit bookkeeping.
type Box struct {
	faces [6]*Quad
	bbox  core.AABB
	area  float64
}

// NewAxisAlignedBox builds a box from its min and max corners.
func NewAxisAlignedBox(min, max core.Vec3) *Box {
	dx := core.NewVec3(max.X-min.X, 0, 0)
	dy := core.NewVec3(0, max.Y-min.Y, 0)
	dz := core.NewVec3(0, 0, max.Z-min.Z)

	b := &Box{bbox: core.NewAABB(min, max)}
	b.faces[0] = NewQuad(core.NewVec3(min.X, min.Y, max.Z), dx, dy) // +Z
	b.faces[1] = NewQuad(core.NewVec3(max.X, min.Y, min.Z), dx.Negate(), dy) // -Z (wound from +X corner)
	b.faces[2] = NewQuad(core.NewVec3(max.X, min.Y, max.Z), dz.Negate(), dy) // +X
	b.faces[3] = NewQuad(core.NewVec3(min.X, min.Y, min.Z), dz, dy)          // -X
	b.faces[4] = NewQuad(core.NewVec3(min.X, max.Y, max.Z), dx, dz.Negate()) // +Y
	b.faces[5] = NewQuad(core.NewVec3(min.X, min.Y, min.Z), dx, dz)          // -Y

	for _, f := range b.faces {
		b.area += f.Area()
	}
	return b
}

// Intersect tests all six faces and keeps the closest hit.
func (b *Box) Intersect(ray core.Ray, tMin, tMax float64) (*SurfaceInteraction, bool) {
	var closest *SurfaceInteraction
	closestT := tMax
	for _, f := range b.faces {
		if si, ok := f.Intersect(ray, tMin, closestT); ok {
			closest = si
			closest.Shape = b
			closestT = si.T
		}
	}
	return closest, closest != nil
}

// IntersectP is the existence-only form of Intersect.
func (b *Box) IntersectP(ray core.Ray, tMin, tMax float64) bool {
	for _, f := range b.faces {
		if f.IntersectP(ray, tMin, tMax) {
			return true
		}
	}
	return false
}

// Bounds returns the box's bounding box.
func (b *Box) Bounds() core.AABB { return b.bbox }

// Area returns the sum of the six face areas.
func (b *Box) Area() float64 { return b.area }

// Sample draws a point on the box's surface proportional to each face's
// share of the total area.
func (b *Box) Sample(u core.Vec2) (*SurfaceInteraction, float64) {
	target := u.X * b.area
	acc := 0.0
	for i, f := range b.faces {
		faceArea := f.Area()
		if target <= acc+faceArea || i == len(b.faces)-1 {
			remapped := core.NewVec2((target-acc)/faceArea, u.Y)
			si, facePDF := f.Sample(remapped)
			si.Shape = b
			return si, facePDF * faceArea / b.area
		}
		acc += faceArea
	}
	return nil, 0
}
