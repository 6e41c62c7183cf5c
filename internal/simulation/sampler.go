package simulation

import "math/rand"

// Rand is the slice of a pseudo-random generator the sampler needs.
// *rand.Rand satisfies it; tests inject scripted sequences.
type Rand interface {
	Intn(n int) int
}

// Sampler draws one historical day per call.
type Sampler interface {
	Draw() int
}

type uniformSampler struct {
	history History
	rng     Rand
}

// NewSampler returns a sampler that picks days uniformly with replacement.
// It panics on an empty history.
func NewSampler(history History, rng Rand) Sampler {
	if len(history) == 0 {
		panic("simulation: sampler requires a non-empty history")
	}
	return &uniformSampler{history: history, rng: rng}
}

func (s *uniformSampler) Draw() int {
	return s.history[s.rng.Intn(len(s.history))]
}

// NewRand is the default generator factory. math/rand keeps the seeded
// sequence stable across Go releases.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}
