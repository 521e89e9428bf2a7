// Package shape implements ray-primitive intersection: the Shape interface
// and its Sphere/Triangle/TriangleMesh/Quad/Box implementations, each
// producing a SurfaceInteraction that carries enough geometric and
// differential information for texturing and BSDF construction.
package shape

import (
	"github.com/df07/go-photoncore/pkg/core"
)

// SurfaceInteraction records everything downstream shading needs about a
// ray-shape intersection: position (with rounding-error bounds via
// Point3fi), shading frame, parametric coordinates, and the partial
// derivatives of position and normal with respect to (u,v) that drive
// texture filtering and bump mapping.
type SurfaceInteraction struct {
	P         core.Point3fi
	Normal    core.Vec3
	FrontFace bool
	T         float64
	UV        core.Vec2
	Wo        core.Vec3

	DPDU, DPDV core.Vec3
	DNDU, DNDV core.Vec3

	Shape Shape
}

// SetFaceForward orients Normal to face against the incoming ray direction
// and records whether the geometric front face was hit, following PBRT's
// convention that Normal always points into the hemisphere the ray arrived
// from.
func (si *SurfaceInteraction) SetFaceForward(rayDir core.Vec3, outwardNormal core.Vec3) {
	si.FrontFace = rayDir.Dot(outwardNormal) < 0
	if si.FrontFace {
		si.Normal = outwardNormal
	} else {
		si.Normal = outwardNormal.Negate()
	}
}

// SpawnRay offsets a new ray leaving this interaction along dir, using the
// interaction's position error bounds to avoid self-intersection (spec's
// "robust spawn ray" requirement).
func (si *SurfaceInteraction) SpawnRay(dir core.Vec3) core.Ray {
	return core.SpawnRay(si.P, si.Normal, dir)
}

// SpawnRayTo builds a shadow ray from this interaction toward target,
// returning the ray along with the tMax (in (0,1]) the caller must pass to
// the occlusion test to stop just short of the target rather than beyond
// it.
func (si *SurfaceInteraction) SpawnRayTo(target core.Vec3) (core.Ray, float64) {
	dir := target.Subtract(si.P.Midpoint())
	ray := core.SpawnRay(si.P, si.Normal, dir)
	return ray, 1 - 1e-3
}
