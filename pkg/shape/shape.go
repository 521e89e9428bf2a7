package shape

import "github.com/df07/go-photoncore/pkg/core"

// Shape is anything a ray can intersect: a sphere, triangle, quad, or
// composite mesh. Material and light binding live one layer up (the scene
// assembles a Shape with a Material and, for emitters, a Light); Shape
// itself only knows geometry.
type Shape interface {
	// Intersect tests for the closest hit within (tMin,tMax), returning the
	// surface interaction (whose T is the hit distance) and whether a hit
	// was found.
	Intersect(ray core.Ray, tMin, tMax float64) (*SurfaceInteraction, bool)

	// IntersectP is a cheaper existence-only test for shadow rays that never
	// need shading data.
	IntersectP(ray core.Ray, tMin, tMax float64) bool

	// Bounds returns the shape's world-space axis-aligned bounding box.
	Bounds() core.AABB

	// Area returns the shape's surface area, used by area-light sampling.
	Area() float64

	// Sample draws a point on the shape proportional to area, returning the
	// interaction and the PDF with respect to area measure.
	Sample(u core.Vec2) (*SurfaceInteraction, float64)
}

// ReverseOrientation flips a shape's reported normal direction, used for
// geometry authored with inward-facing winding (scene-file directive).
type ReverseOrientation struct {
	Shape
	Reversed bool
}

// Intersect delegates to the wrapped shape and flips the resulting normal
// if Reversed is set.
func (r ReverseOrientation) Intersect(ray core.Ray, tMin, tMax float64) (*SurfaceInteraction, bool) {
	si, ok := r.Shape.Intersect(ray, tMin, tMax)
	if !ok {
		return nil, false
	}
	if r.Reversed {
		si.Normal = si.Normal.Negate()
		si.FrontFace = !si.FrontFace
	}
	return si, true
}

// Sample delegates to the wrapped shape and flips the resulting normal if
// Reversed is set.
func (r ReverseOrientation) Sample(u core.Vec2) (*SurfaceInteraction, float64) {
	si, pdf := r.Shape.Sample(u)
	if si != nil && r.Reversed {
		si.Normal = si.Normal.Negate()
	}
	return si, pdf
}
