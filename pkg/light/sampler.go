package light

// Sampler selects a light for next-event estimation. This renderer's
// integrators only need unidirectional NEE, so the interface covers just
// selection and its PMF, not bidirectional light-emission sampling.
type Sampler interface {
	// Sample returns a light and its selection probability given a
	// uniform sample u in [0,1).
	Sample(u float64) (Light, float64, bool)

	// PMF returns the selection probability of a specific light.
	PMF(l Light) float64
}

// UniformSampler picks uniformly among all lights in the scene.
type UniformSampler struct {
	Lights []Light
}

// NewUniformSampler builds a sampler over the given light list.
func NewUniformSampler(lights []Light) *UniformSampler {
	return &UniformSampler{Lights: lights}
}

func (s *UniformSampler) Sample(u float64) (Light, float64, bool) {
	n := len(s.Lights)
	if n == 0 {
		return nil, 0, false
	}
	idx := int(u * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return s.Lights[idx], 1.0 / float64(n), true
}

func (s *UniformSampler) PMF(l Light) float64 {
	if len(s.Lights) == 0 {
		return 0
	}
	return 1.0 / float64(len(s.Lights))
}
