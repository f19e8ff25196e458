package service

import (
	"math/rand/v2"
	"sync"
)

// RandomSource yields pseudo-random floats in [0, 1).
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 {
	return rand.Float64()
}

// GlobalSource draws from the process-wide generator. Safe for concurrent use.
func GlobalSource() RandomSource {
	return globalSource{}
}

type seededSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededSource returns a reproducible source that is safe for concurrent use.
func NewSeededSource(seed uint64) RandomSource {
	return &seededSource{r: rand.New(rand.NewPCG(seed, seed))}
}

func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// intn maps one draw onto [0, n).
func intn(src RandomSource, n int) int {
	v := int(src.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}
