// internal/solver/naive.go

package solver

import "context"

// Naive guesses a uniformly random candidate. It is the baseline and the
// last-resort fallback.
type Naive struct {
	seeds *seedSource
}

// NewNaive returns a Naive solver drawing from seed (0 = time based).
func NewNaive(seed int64) *Naive {
	return &Naive{seeds: newSeedSource(seed)}
}

func (*Naive) Name() string { return "naive" }

func (n *Naive) SelectGuess(_ context.Context, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", ErrEmptyCandidates
	}
	return candidates[n.seeds.intn(len(candidates))], nil
}
