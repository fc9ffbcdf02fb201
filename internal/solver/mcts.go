// internal/solver/mcts.go
//
// Monte Carlo tree search with feedback-pattern chance nodes.
// Responsibilities:
//   - Run UCT simulations against sampled targets.
//   - Return the most-visited root guess.

package solver

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/sebytremblay/wordle-bot/internal/feedback"
	"github.com/sebytremblay/wordle-bot/internal/words"
)

// MCTS runs Monte Carlo tree search over the guess/feedback game.
//
// Each simulation samples one hidden target from the root candidates and
// keeps it for the whole descent, so every node visited is consistent with
// it. Decision nodes hold a candidate subset; their edges are guesses, and
// an edge leads to one child per feedback pattern observed so far.
type MCTS struct {
	cfg    MCTSConfig
	order  *words.Order
	scorer feedback.Scorer
	seeds  *seedSource
}

// NewMCTS validates cfg and returns an MCTS solver.
// order may be nil, in which case rollouts pick uniformly at random.
func NewMCTS(cfg MCTSConfig, order *words.Order, sc feedback.Scorer) (*MCTS, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sc == nil {
		sc = feedback.Direct
	}
	return &MCTS{cfg: cfg, order: order, scorer: sc, seeds: newSeedSource(cfg.Seed)}, nil
}

func (*MCTS) Name() string { return "mcts" }

// Config returns the search parameters.
func (m *MCTS) Config() MCTSConfig { return m.cfg }

type mctsNode struct {
	subset  []string
	used    int // guesses spent to reach this node
	untried []string
	edges   []*mctsEdge
	visits  int
}

type mctsEdge struct {
	guess  string
	visits int
	value  float64
	next   map[feedback.Pattern]*mctsNode
}

type mctsSearch struct {
	*MCTS
	rng  *rand.Rand
	root *mctsNode
}

// SelectGuess returns the most visited root guess once the simulation budget
// is spent or ctx is done. A lone candidate is returned without searching.
func (m *MCTS) SelectGuess(ctx context.Context, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", ErrEmptyCandidates
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	s := &mctsSearch{MCTS: m, rng: rand.New(rand.NewSource(m.seeds.next()))}
	s.root = s.newNode(candidates, 0)

	sims := 0
loop:
	for ; sims < m.cfg.Simulations; sims++ {
		select {
		case <-ctx.Done():
			break loop
		default:
		}
		if err := s.simulate(); err != nil {
			return "", err
		}
	}

	best := s.root.mostVisited()
	if best == nil {
		g, err := s.policy(candidates)
		if err != nil {
			return "", err
		}
		return g, nil
	}
	log.Debug().
		Int("candidates", len(candidates)).
		Int("simulations", sims).
		Str("guess", best.guess).
		Int("visits", best.visits).
		Float64("mean", best.value/float64(max(best.visits, 1))).
		Msg("mcts: selected")
	return best.guess, nil
}

// newNode creates a decision node. Its untried guesses follow the rollout
// policy: ranked words best first, unranked words shuffled after them.
func (s *mctsSearch) newNode(subset []string, used int) *mctsNode {
	var untried []string
	if s.order != nil {
		untried = s.order.Top(subset, 0)
	}
	if len(untried) < len(subset) {
		rest := make([]string, 0, len(subset)-len(untried))
		for _, w := range subset {
			if s.order == nil {
				rest = append(rest, w)
			} else if _, ok := s.order.Rank(w); !ok {
				rest = append(rest, w)
			}
		}
		s.rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
		untried = append(untried, rest...)
	}
	if b := s.cfg.Branching; b > 0 && len(untried) > b {
		untried = untried[:b]
	}
	return &mctsNode{subset: subset, used: used, untried: untried}
}

// simulate runs one selection/expansion/rollout/backpropagation pass.
func (s *mctsSearch) simulate() error {
	target := s.root.subset[s.rng.Intn(len(s.root.subset))]
	nodes := []*mctsNode{s.root}
	var path []*mctsEdge

	n := s.root
	var reward float64
	for {
		if n.used >= s.cfg.GuessBudget {
			reward = s.cfg.LossPenalty
			break
		}

		var e *mctsEdge
		expanded := false
		if len(n.untried) > 0 {
			e = &mctsEdge{guess: n.untried[0]}
			n.untried = n.untried[1:]
			n.edges = append(n.edges, e)
			expanded = true
		} else if len(n.edges) > 0 {
			e = n.selectEdge(s.cfg.Exploration)
		} else {
			reward = s.cfg.LossPenalty
			break
		}
		path = append(path, e)

		used := n.used + 1
		if e.guess == target {
			reward = s.win(used)
			break
		}
		fb := s.scorer.Score(e.guess, target)
		p := fb.Pattern()
		child, ok := e.next[p]
		if !ok {
			sub := feedback.FilterBy(s.scorer, n.subset, e.guess, fb)
			if !slices.Contains(sub, target) {
				return fmt.Errorf("mcts: guess %q against %q: %w", e.guess, target, feedback.ErrInvariantViolation)
			}
			child = s.newNode(sub, used)
			if e.next == nil {
				e.next = make(map[feedback.Pattern]*mctsNode)
			}
			e.next[p] = child
			expanded = true
		}
		nodes = append(nodes, child)

		if expanded {
			r, err := s.rollout(child.subset, target, used)
			if err != nil {
				return err
			}
			reward = r
			break
		}
		n = child
	}

	for _, nd := range nodes {
		nd.visits++
	}
	for _, e := range path {
		e.visits++
		e.value += reward
	}
	return nil
}

// rollout plays the policy against target from subset until it wins or the
// budget runs out.
func (s *mctsSearch) rollout(subset []string, target string, used int) (float64, error) {
	for used < s.cfg.GuessBudget {
		g, err := s.policy(subset)
		if err != nil {
			// ErrNoWinnableContinuation: a dead end only costs reward.
			return s.cfg.LossPenalty, nil
		}
		used++
		if g == target {
			return s.win(used), nil
		}
		fb := s.scorer.Score(g, target)
		subset = feedback.FilterBy(s.scorer, subset, g, fb)
		if !slices.Contains(subset, target) {
			return 0, fmt.Errorf("mcts: rollout guess %q against %q: %w", g, target, feedback.ErrInvariantViolation)
		}
	}
	return s.cfg.LossPenalty, nil
}

// policy is the rollout policy: best-ranked candidate, else uniform random.
func (s *mctsSearch) policy(subset []string) (string, error) {
	if len(subset) == 0 {
		return "", ErrNoWinnableContinuation
	}
	if s.order != nil {
		if g, ok := s.order.Best(subset); ok {
			return g, nil
		}
	}
	return subset[s.rng.Intn(len(subset))], nil
}

func (s *mctsSearch) win(used int) float64 {
	return s.cfg.RewardMultiplier * (1 - float64(used)/float64(s.cfg.GuessBudget))
}

// selectEdge applies UCB1. An unvisited edge is returned immediately.
func (n *mctsNode) selectEdge(c float64) *mctsEdge {
	var best *mctsEdge
	bestScore := math.Inf(-1)
	logN := math.Log(float64(max(n.visits, 1)))
	for _, e := range n.edges {
		if e.visits == 0 {
			return e
		}
		v := float64(e.visits)
		score := e.value/v + c*math.Sqrt(logN/v)
		if score > bestScore {
			best, bestScore = e, score
		}
	}
	return best
}

// mostVisited returns the edge with the highest visit count; earlier edges win ties.
func (n *mctsNode) mostVisited() *mctsEdge {
	var best *mctsEdge
	for _, e := range n.edges {
		if best == nil || e.visits > best.visits {
			best = e
		}
	}
	return best
}
