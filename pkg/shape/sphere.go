package shape

import (
	"math"

	"github.com/df07/go-photoncore/pkg/core"
)

// Sphere is a sphere of the given radius centered at Center.
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere builds a sphere shape.
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

func (s *Sphere) quadratic(ray core.Ray) (t0, t1 float64, ok bool) {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius
	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return 0, 0, false
	}
	sqrtD := math.Sqrt(discriminant)
	return (-halfB - sqrtD) / a, (-halfB + sqrtD) / a, true
}

func (s *Sphere) uv(outwardNormal core.Vec3) core.Vec2 {
	theta := math.Acos(core.Clamp(-outwardNormal.Y, -1, 1))
	phi := math.Atan2(-outwardNormal.Z, outwardNormal.X) + math.Pi
	return core.NewVec2(phi/(2*math.Pi), theta/math.Pi)
}

// Intersect finds the closer of the sphere's two roots within (tMin,tMax).
func (s *Sphere) Intersect(ray core.Ray, tMin, tMax float64) (*SurfaceInteraction, bool) {
	t0, t1, ok := s.quadratic(ray)
	if !ok {
		return nil, false
	}
	root := t0
	if root < tMin || root > tMax {
		root = t1
		if root < tMin || root > tMax {
			return nil, false
		}
	}

	point := ray.At(root)
	outwardNormal := point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	pErr := outwardNormal.Abs().Multiply(s.Radius * core.Gamma(5))

	si := &SurfaceInteraction{
		P:     core.NewPoint3fiWithError(point, pErr),
		T:     root,
		UV:    s.uv(outwardNormal),
		Wo:    ray.Direction.Negate().Normalize(),
		Shape: s,
	}
	si.SetFaceForward(ray.Direction, outwardNormal)
	return si, true
}

// IntersectP is the existence-only form of Intersect.
func (s *Sphere) IntersectP(ray core.Ray, tMin, tMax float64) bool {
	t0, t1, ok := s.quadratic(ray)
	if !ok {
		return false
	}
	if t0 >= tMin && t0 <= tMax {
		return true
	}
	return t1 >= tMin && t1 <= tMax
}

// Bounds returns a tight axis-aligned box around the sphere.
func (s *Sphere) Bounds() core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(s.Center.Subtract(r), s.Center.Add(r))
}

// Area returns the sphere's surface area.
func (s *Sphere) Area() float64 { return 4 * math.Pi * s.Radius * s.Radius }

// Sample draws a point uniformly over the sphere's surface.
func (s *Sphere) Sample(u core.Vec2) (*SurfaceInteraction, float64) {
	dir := core.SampleUniformSphere(u)
	point := s.Center.Add(dir.Multiply(s.Radius))
	pErr := dir.Abs().Multiply(s.Radius * core.Gamma(5))
	si := &SurfaceInteraction{
		P:      core.NewPoint3fiWithError(point, pErr),
		Normal: dir,
		UV:     s.uv(dir),
		Shape:  s,
	}
	pdf := 1.0 / s.Area()
	return si, pdf
}
