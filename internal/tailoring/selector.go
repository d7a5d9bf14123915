package tailoring

import (
	"hash/fnv"
	"math/rand"
	"sync"
)

// Selector picks an index in [0,n) for a decision identified by key.
type Selector interface {
	Pick(key string, n int) int
}

// HashSelector derives every choice from an FNV-1a hash of the key, so the
// same CV and job always produce the same tailored text.
type HashSelector struct{}

// Pick implements Selector.
func (HashSelector) Pick(key string, n int) int {
	if n <= 0 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}

// RandSelector draws from an injected random source and ignores the key.
// It is safe for concurrent use.
type RandSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandSelector wraps rng. Seed it for reproducible variety.
func NewRandSelector(rng *rand.Rand) *RandSelector {
	return &RandSelector{rng: rng}
}

// Pick implements Selector.
func (s *RandSelector) Pick(_ string, n int) int {
	if n <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
