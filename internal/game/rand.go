package game

import (
	"math/rand"
	"sync"
)

// Rand is the random source the orchestrator draws from: monster picks,
// win rolls and flavor-text choices all go through it so tests can
// substitute a deterministic source.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// lockedRand makes a rand.Rand safe for concurrent users.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewLockedRand seeds a concurrency-safe random source.
func NewLockedRand(seed int64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}
