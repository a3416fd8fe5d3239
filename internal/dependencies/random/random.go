package random

import (
	"math/rand/v2"
	"sync"
)

// Random provides random number generation that can be mocked for testing
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// Float64 returns a random float in [0.0, 1.0)
	Float64() float64
}

// PCGRandom implements Random with a PCG source seeded from the runtime
type PCGRandom struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a new PCGRandom with a random seed
func New() *PCGRandom {
	return NewSeeded(rand.Uint64(), rand.Uint64())
}

// NewSeeded creates a PCGRandom with a fixed seed, for reproducible runs
func NewSeeded(seed1, seed2 uint64) *PCGRandom {
	return &PCGRandom{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// Intn returns a random int in [0, n), or 0 if n <= 0
func (r *PCGRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

// Float64 returns a random float in [0.0, 1.0)
func (r *PCGRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}
