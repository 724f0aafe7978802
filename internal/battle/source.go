package battle

import "math/rand"

// Source supplies the random rolls used during move resolution. Resolution
// code never touches package-level randomness, so a scripted Source makes
// any round fully deterministic.
type Source interface {
	// Chance returns true with probability p (0..1).
	Chance(p float64) bool
	// Uniform returns a value drawn uniformly from [lo, hi).
	Uniform(lo, hi float64) float64
	// CoinFlip returns true or false with equal probability.
	CoinFlip() bool
}

type randSource struct {
	r *rand.Rand
}

// NewSource returns the default math/rand backed Source for the given seed.
func NewSource(seed int64) Source {
	return &randSource{r: rand.New(rand.NewSource(seed))}
}

func (s *randSource) Chance(p float64) bool {
	return s.r.Float64() < p
}

func (s *randSource) Uniform(lo, hi float64) float64 {
	return lo + s.r.Float64()*(hi-lo)
}

func (s *randSource) CoinFlip() bool {
	return s.r.Intn(2) == 0
}
