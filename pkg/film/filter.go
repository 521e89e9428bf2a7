package film

import "github.com/df07/go-photoncore/pkg/core"

// Filter reconstructs the film signal from discrete samples.
type Filter interface {
	Sample(u core.Vec2) (p core.Vec2, weight float64)
	Evaluate(p core.Vec2) float64
	Radius() float64
}

// BoxFilter is the simplest reconstruction filter: uniform weight over a
// [-r,r]^2 square.
type BoxFilter struct {
	R float64
}

// NewBoxFilter builds a box filter of the given radius.
func NewBoxFilter(radius float64) BoxFilter {
	return BoxFilter{R: radius}
}

func (f BoxFilter) Sample(u core.Vec2) (core.Vec2, float64) {
	p := core.Vec2{
		X: (2*u.X - 1) * f.R,
		Y: (2*u.Y - 1) * f.R,
	}
	return p, 1
}

func (f BoxFilter) Evaluate(p core.Vec2) float64 {
	if p.X < -f.R || p.X > f.R || p.Y < -f.R || p.Y > f.R {
		return 0
	}
	return 1
}

func (f BoxFilter) Radius() float64 { return f.R }
