// internal/solver/minimax.go
//
// Depth-limited minimax over feedback partitions.
// Responsibilities:
//   - Pick the guess whose worst-case remaining set is smallest.
//   - Prune with branch-and-bound and memoize (subset, depth) scores per call.

package solver

import (
	"context"
	"crypto/sha256"
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/sebytremblay/wordle-bot/internal/feedback"
	"github.com/sebytremblay/wordle-bot/internal/words"
)

// Minimax minimizes the worst-case number of remaining candidates, searching
// a bounded number of guesses ahead with branch-and-bound pruning. Guesses
// at every node come from the heuristic order, truncated to TopK.
type Minimax struct {
	cfg    MinimaxConfig
	order  *words.Order
	scorer feedback.Scorer
}

// NewMinimax validates cfg and returns a Minimax solver.
// order may be nil, in which case candidates are tried in input order.
func NewMinimax(cfg MinimaxConfig, order *words.Order, sc feedback.Scorer) (*Minimax, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sc == nil {
		sc = feedback.Direct
	}
	return &Minimax{cfg: cfg, order: order, scorer: sc}, nil
}

func (*Minimax) Name() string { return "minimax" }

// Config returns the search parameters.
func (m *Minimax) Config() MinimaxConfig { return m.cfg }

// SelectGuess returns the pool guess with the smallest worst case. A guess
// that splits the candidates into singletons is taken immediately. On
// cancellation the best fully evaluated guess is returned.
func (m *Minimax) SelectGuess(ctx context.Context, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", ErrEmptyCandidates
	}
	if len(candidates) > m.cfg.LargeThreshold {
		if m.order != nil && m.order.Head() != "" {
			return m.order.Head(), nil
		}
		return candidates[0], nil
	}
	if len(candidates) <= 2 {
		return candidates[0], nil
	}

	s := m.newSearch(ctx)
	pool := s.pool(candidates)
	best, bestScore := pool[0], math.MaxInt
	for _, g := range pool {
		score, err := s.guessScore(g, candidates, 0, bestScore)
		if err != nil {
			log.Debug().Err(err).Str("best", best).Msg("minimax: search interrupted")
			break
		}
		if score < bestScore {
			best, bestScore = g, score
			if bestScore <= 1 {
				break
			}
		}
	}
	log.Debug().
		Int("candidates", len(candidates)).
		Str("guess", best).
		Int("worst_case", bestScore).
		Int("nodes", s.nodes).
		Msg("minimax: selected")
	return best, nil
}

// Score returns the worst-case score of guess against candidates without pruning.
func (m *Minimax) Score(ctx context.Context, guess string, candidates []string) (int, error) {
	return m.newSearch(ctx).guessScore(guess, candidates, 0, math.MaxInt)
}

type subsetKey struct {
	sum   [sha256.Size]byte
	depth int
}

// minimaxSearch is the state of one top-level call.
type minimaxSearch struct {
	*Minimax
	ctx   context.Context
	memo  map[subsetKey]int
	nodes int
}

func (m *Minimax) newSearch(ctx context.Context) *minimaxSearch {
	return &minimaxSearch{Minimax: m, ctx: ctx, memo: make(map[subsetKey]int)}
}

// pool returns the guesses tried at a node.
func (s *minimaxSearch) pool(subset []string) []string {
	var top []string
	if s.order != nil {
		top = s.order.Top(subset, s.cfg.TopK)
	}
	if len(top) == 0 {
		top = subset[:min(s.cfg.TopK, len(subset))]
	}
	return top
}

// bestScore is the smallest worst case reachable from subset at depth.
func (s *minimaxSearch) bestScore(subset []string, depth int) (int, error) {
	if depth >= s.cfg.Depth || len(subset) <= 2 {
		return len(subset), nil
	}
	if err := s.ctx.Err(); err != nil {
		return 0, err
	}
	key := subsetKey{sum: digest(subset), depth: depth}
	if v, ok := s.memo[key]; ok {
		return v, nil
	}

	best := math.MaxInt
	for _, g := range s.pool(subset) {
		score, err := s.guessScore(g, subset, depth, best)
		if err != nil {
			return 0, err
		}
		if score < best {
			best = score
			if best <= 1 {
				break
			}
		}
	}
	s.memo[key] = best
	return best, nil
}

// guessScore is the worst case over the partitions guess induces on subset.
// It returns early, with a lower bound, once the worst case reaches bound.
func (s *minimaxSearch) guessScore(guess string, subset []string, depth, bound int) (int, error) {
	s.nodes++
	groups := feedback.Partition(s.scorer, guess, subset)
	// big groups first so the bound trips early
	sort.SliceStable(groups, func(i, j int) bool { return len(groups[i].Words) > len(groups[j].Words) })

	worst := 0
	for _, g := range groups {
		score, err := s.bestScore(g.Words, depth+1)
		if err != nil {
			return 0, err
		}
		worst = max(worst, score)
		if worst >= bound {
			return worst, nil
		}
	}
	return worst, nil
}

// digest identifies an ordered candidate subset.
func digest(subset []string) [sha256.Size]byte {
	h := sha256.New()
	for _, w := range subset {
		h.Write([]byte(w))
		h.Write([]byte{'\n'})
	}
	var out [sha256.Size]byte
	h.Sum(out[:0])
	return out
}
