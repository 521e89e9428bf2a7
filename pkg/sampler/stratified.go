package sampler

import (
	"math/rand"

	"github.com/df07/go-photoncore/pkg/core"
)

// maxStratifiedDimensions bounds the number of precomputed jittered
// dimensions; draws beyond this fall back to uniform sampling like draws
// past the end of any one dimension's per-round samples.
const maxStratifiedDimensions = 32

// Stratified precomputes N=samplesPerPixel jittered values for each of up
// to maxStratifiedDimensions independent dimensions, consuming the next
// dimension on each Get1D/Get2D call within a sample round and reshuffling
// between rounds to avoid correlation artifacts across pixels.
type Stratified struct {
	samplesPerPixel int
	rng             *rand.Rand

	dims1D    [][]float64
	dims2D    [][]core.Vec2
	dimIndex  int
	sampleIdx int
}

// NewStratified builds a stratified sampler for the given samples-per-pixel
// count.
func NewStratified(samplesPerPixel int) *Stratified {
	return &Stratified{samplesPerPixel: samplesPerPixel, rng: rand.New(rand.NewSource(1))}
}

func (s *Stratified) StartPixelSample(pixel [2]int, sampleIndex int) {
	s.rng = rand.New(rand.NewSource(int64(seed64(pixel, sampleIndex))))
	s.dimIndex = 0
	s.sampleIdx = sampleIndex % s.samplesPerPixel
	if s.sampleIdx == 0 || s.dims1D == nil {
		s.regenerate()
	}
}

// regenerate rebuilds every dimension's jittered sample set and shuffles
// each independently, so per-pixel-sample draws at the same dimension
// index across pixels don't share a coherent pattern.
func (s *Stratified) regenerate() {
	n := s.samplesPerPixel
	s.dims1D = make([][]float64, maxStratifiedDimensions)
	s.dims2D = make([][]core.Vec2, maxStratifiedDimensions)
	for d := 0; d < maxStratifiedDimensions; d++ {
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = (float64(i) + s.rng.Float64()) / float64(n)
		}
		s.rng.Shuffle(n, func(i, j int) { vals[i], vals[j] = vals[j], vals[i] })
		s.dims1D[d] = vals

		nx := stratifiedGridSize(n)
		vals2 := make([]core.Vec2, n)
		for i := range vals2 {
			sx, sy := i%nx, i/nx
			vals2[i] = core.Vec2{
				X: (float64(sx) + s.rng.Float64()) / float64(nx),
				Y: (float64(sy) + s.rng.Float64()) / float64((n+nx-1)/nx),
			}
		}
		s.rng.Shuffle(n, func(i, j int) { vals2[i], vals2[j] = vals2[j], vals2[i] })
		s.dims2D[d] = vals2
	}
}

// stratifiedGridSize picks the integer grid width closest to sqrt(n) for
// jittering 2D samples.
func stratifiedGridSize(n int) int {
	x := 1
	for x*x < n {
		x++
	}
	return x
}

func (s *Stratified) Get1D() float64 {
	if s.dimIndex >= maxStratifiedDimensions {
		return s.rng.Float64()
	}
	v := s.dims1D[s.dimIndex][s.sampleIdx]
	s.dimIndex++
	return v
}

func (s *Stratified) Get2D() core.Vec2 {
	if s.dimIndex >= maxStratifiedDimensions {
		return core.NewVec2(s.rng.Float64(), s.rng.Float64())
	}
	v := s.dims2D[s.dimIndex][s.sampleIdx]
	s.dimIndex++
	return v
}

func (s *Stratified) Float64() float64 { return s.rng.Float64() }

func (s *Stratified) Clone() Sampler {
	return NewStratified(s.samplesPerPixel)
}
