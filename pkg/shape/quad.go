package shape

import (
	"math"

	"github.com/df07/go-photoncore/pkg/core"
)

// Quad is a planar rectangle spanned by two edge vectors from a corner,
// used for both plain geometry and (by the light package, wrapping it) area
// lights like the classic Cornell-box panel.
type Quad struct {
	Corner core.Vec3
	U, V   core.Vec3

	normal core.Vec3
	d      float64
	w      core.Vec3
	area   float64
}

// NewQuad builds a quad from a corner and two edge vectors.
func NewQuad(corner, u, v core.Vec3) *Quad {
	cross := u.Cross(v)
	normal := cross.Normalize()
	q := &Quad{
		Corner: corner,
		U:      u,
		V:      v,
		normal: normal,
		d:      normal.Dot(corner),
		area:   cross.Length(),
	}
	q.w = normal.Multiply(1.0 / normal.Dot(cross))
	return q
}

func (q *Quad) barycentric(point core.Vec3) (alpha, beta float64) {
	hv := point.Subtract(q.Corner)
	alpha = q.w.Dot(hv.Cross(q.V))
	beta = q.w.Dot(q.U.Cross(hv))
	return
}

// Intersect tests the ray against the quad's plane, then checks the hit
// point falls within the unit square spanned by U,V via the cached
// barycentric basis.
func (q *Quad) Intersect(ray core.Ray, tMin, tMax float64) (*SurfaceInteraction, bool) {
	denom := ray.Direction.Dot(q.normal)
	if math.Abs(denom) < 1e-8 {
		return nil, false
	}
	t := (q.d - ray.Origin.Dot(q.normal)) / denom
	if t < tMin || t > tMax {
		return nil, false
	}
	point := ray.At(t)
	alpha, beta := q.barycentric(point)
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return nil, false
	}

	pErr := q.normal.Abs().Multiply(core.Gamma(3) * point.Abs().MaxComponent())
	si := &SurfaceInteraction{
		P:     core.NewPoint3fiWithError(point, pErr),
		T:     t,
		UV:    core.NewVec2(alpha, beta),
		DPDU:  q.U,
		DPDV:  q.V,
		Wo:    ray.Direction.Negate().Normalize(),
		Shape: q,
	}
	si.SetFaceForward(ray.Direction, q.normal)
	return si, true
}

// IntersectP is the existence-only form of Intersect.
func (q *Quad) IntersectP(ray core.Ray, tMin, tMax float64) bool {
	_, ok := q.Intersect(ray, tMin, tMax)
	return ok
}

// Bounds returns the quad's bounding box, inflated slightly along its
// normal so a perfectly axis-aligned quad still has finite volume.
func (q *Quad) Bounds() core.AABB {
	corners := [4]core.Vec3{
		q.Corner,
		q.Corner.Add(q.U),
		q.Corner.Add(q.V),
		q.Corner.Add(q.U).Add(q.V),
	}
	bbox := core.NewAABBFromPoints(corners[0], corners[1], corners[2], corners[3])
	const epsilon = 1e-4
	pad := core.NewVec3(epsilon, epsilon, epsilon)
	return core.NewAABB(bbox.Min.Subtract(pad), bbox.Max.Add(pad))
}

// Area returns the quad's surface area, |U x V|.
func (q *Quad) Area() float64 { return q.area }

// Sample draws a point uniformly over the quad.
func (q *Quad) Sample(u core.Vec2) (*SurfaceInteraction, float64) {
	point := q.Corner.Add(q.U.Multiply(u.X)).Add(q.V.Multiply(u.Y))
	si := &SurfaceInteraction{
		P:      core.NewPoint3fi(point),
		Normal: q.normal,
		UV:     u,
		Shape:  q,
	}
	if q.area <= 0 {
		return si, 0
	}
	return si, 1.0 / q.area
}
