package prediction

import (
	"math/rand"
	"sync"
)

// Noise is the injectable source for prediction jitter. Production can
// enable a seeded source for variance in displayed probabilities; tests and
// the default configuration use None so predictions are fully deterministic.
type Noise interface {
	// Jitter returns a small additive offset applied to the conversion
	// probability before clamping.
	Jitter() float64
}

// None is the zero-noise source.
type None struct{}

// Jitter returns 0.
func (None) Jitter() float64 { return 0 }

// Seeded produces bounded pseudo-random jitter from a fixed seed. It is safe
// for concurrent use; *rand.Rand itself is not, and one source is shared
// across all prediction requests.
type Seeded struct {
	mu    sync.Mutex
	rng   *rand.Rand
	scale float64
}

// NewSeeded creates a jitter source producing offsets in [-scale, +scale].
func NewSeeded(seed int64, scale float64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewSource(seed)), scale: scale}
}

// Jitter returns the next offset.
func (s *Seeded) Jitter() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (s.rng.Float64()*2 - 1) * s.scale
}
