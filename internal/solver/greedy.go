// internal/solver/greedy.go
//
// Information-gain (expected entropy) guess selection.

package solver

import (
	"context"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/sebytremblay/wordle-bot/internal/feedback"
)

// Greedy picks the candidate with the highest expected information gain
// over one ply of lookahead.
type Greedy struct {
	scorer feedback.Scorer
}

// NewGreedy returns a Greedy solver. A nil scorer computes feedback directly.
func NewGreedy(sc feedback.Scorer) *Greedy {
	if sc == nil {
		sc = feedback.Direct
	}
	return &Greedy{scorer: sc}
}

func (*Greedy) Name() string { return "greedy" }

// SelectGuess scores every candidate against the candidate set itself.
// The first guess with the strictly greatest gain wins. If ctx is cancelled
// mid-scan, the best guess so far is returned.
func (g *Greedy) SelectGuess(ctx context.Context, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", ErrEmptyCandidates
	}
	if len(candidates) <= 2 {
		return candidates[0], nil
	}

	best, bestGain := candidates[0], math.Inf(-1)
	for i, guess := range candidates {
		if ctx.Err() != nil {
			log.Debug().Int("scored", i).Int("candidates", len(candidates)).Msg("greedy: cancelled")
			break
		}
		if gain := InfoGain(g.scorer, guess, candidates); gain > bestGain {
			best, bestGain = guess, gain
		}
	}
	return best, nil
}

// InfoGain is the expected reduction in log2(|candidates|) from guessing guess:
// log2(n) − Σ (|p|/n)·log2(|p|) over feedback partitions p.
func InfoGain(sc feedback.Scorer, guess string, candidates []string) float64 {
	n := float64(len(candidates))
	if n == 0 {
		return 0
	}
	sizes := feedback.Sizes(sc, guess, candidates)
	gain := math.Log2(n)
	for _, k := range sizes {
		if k > 1 {
			f := float64(k)
			gain -= f / n * math.Log2(f)
		}
	}
	return gain
}
