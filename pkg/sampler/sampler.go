// Package sampler implements per-pixel sample generators: Independent
// (deterministic xxhash-seeded PRNG) and Stratified (precomputed jittered
// 1D/2D dimensions). Both hash (pixel, sample_index) into their seed, so
// the same scene renders bit-identically regardless of worker count or
// scheduling order.
package sampler

import (
	"math/rand"

	"github.com/cespare/xxhash/v2"

	"github.com/df07/go-photoncore/pkg/core"
)

// Sampler draws per-pixel-sample random numbers for the integrator. Each
// call to Get1D/Get2D returns an independent uniform sample in its
// respective domain; StartPixelSample reseeds the sampler deterministically
// for a given (pixel, sampleIndex) pair.
type Sampler interface {
	StartPixelSample(pixel [2]int, sampleIndex int)
	Get1D() float64
	Get2D() core.Vec2
	// Float64 satisfies bxdf.RNG so a Sampler can drive LayeredBxDF's
	// random walk without pkg/bxdf importing this package.
	Float64() float64
	Clone() Sampler
}

// seed64 hashes a (pixel, sampleIndex) triple into a 64-bit seed via
// xxhash.
func seed64(pixel [2]int, sampleIndex int) uint64 {
	var buf [20]byte
	putInt(buf[0:8], pixel[0])
	putInt(buf[8:16], pixel[1])
	putInt(buf[16:20], sampleIndex)
	return xxhash.Sum64(buf[:])
}

func putInt(b []byte, v int) {
	u := uint64(int64(v))
	for i := range b {
		b[i] = byte(u >> (8 * uint(i%8)))
	}
}

// Independent is a per-worker PRNG reseeded deterministically for each
// (pixel, sample_index), so rendering is reproducible independent of
// worker scheduling.
type Independent struct {
	rng *rand.Rand
}

// NewIndependent builds an IndependentSampler with an arbitrary initial
// seed; StartPixelSample must be called before use to get deterministic
// per-sample seeding.
func NewIndependent(seed int64) *Independent {
	return &Independent{rng: rand.New(rand.NewSource(seed))}
}

func (s *Independent) StartPixelSample(pixel [2]int, sampleIndex int) {
	s.rng = rand.New(rand.NewSource(int64(seed64(pixel, sampleIndex))))
}

func (s *Independent) Get1D() float64   { return s.rng.Float64() }
func (s *Independent) Get2D() core.Vec2 { return core.NewVec2(s.rng.Float64(), s.rng.Float64()) }
func (s *Independent) Float64() float64 { return s.rng.Float64() }
func (s *Independent) Clone() Sampler   { return &Independent{rng: rand.New(rand.NewSource(s.rng.Int63()))} }
