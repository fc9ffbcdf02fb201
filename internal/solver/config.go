// internal/solver/config.go
//
// Tunable parameters for the search solvers.

package solver

import (
	"fmt"
	"math"
)

// MinimaxConfig holds the worst-case search parameters.
type MinimaxConfig struct {
	// Depth is the number of guesses searched ahead.
	Depth int `yaml:"depth" json:"depth"`
	// TopK bounds the guess pool at every node.
	TopK int `yaml:"top_k" json:"top_k"`
	// LargeThreshold skips the search entirely above this many candidates.
	LargeThreshold int `yaml:"large_threshold" json:"large_threshold"`
}

// DefaultMinimaxConfig returns the parameters used when none are configured.
func DefaultMinimaxConfig() MinimaxConfig {
	return MinimaxConfig{Depth: 3, TopK: 15, LargeThreshold: 10000}
}

// Validate rejects parameters the search cannot run with.
func (c MinimaxConfig) Validate() error {
	if c.Depth < 1 {
		return fmt.Errorf("minimax: depth must be >= 1, got %d", c.Depth)
	}
	if c.TopK < 1 {
		return fmt.Errorf("minimax: top_k must be >= 1, got %d", c.TopK)
	}
	if c.LargeThreshold < 1 {
		return fmt.Errorf("minimax: large_threshold must be >= 1, got %d", c.LargeThreshold)
	}
	return nil
}

// MCTSConfig holds the tree search parameters.
type MCTSConfig struct {
	Simulations int `yaml:"simulations" json:"simulations"`
	// Exploration is the UCB1 constant C.
	Exploration float64 `yaml:"exploration" json:"exploration"`
	// RewardMultiplier scales the win reward 1 - used/budget.
	RewardMultiplier float64 `yaml:"reward_multiplier" json:"reward_multiplier"`
	// GuessBudget is the number of guesses a simulated game may use.
	GuessBudget int `yaml:"guess_budget" json:"guess_budget"`
	// LossPenalty is the reward for a lost simulation, usually 0 or negative.
	LossPenalty float64 `yaml:"loss_penalty" json:"loss_penalty"`
	// Branching caps the children expanded per node; 0 means every candidate.
	Branching int `yaml:"branching" json:"branching"`
	// Seed makes runs reproducible; 0 seeds from the clock.
	Seed int64 `yaml:"seed" json:"seed"`
}

// DefaultMCTSConfig returns the parameters used when none are configured.
func DefaultMCTSConfig() MCTSConfig {
	return MCTSConfig{
		Simulations:      1000,
		Exploration:      math.Sqrt2,
		RewardMultiplier: 1.0,
		GuessBudget:      6,
		LossPenalty:      0,
		Branching:        20,
	}
}

// Validate rejects parameters the search cannot run with.
func (c MCTSConfig) Validate() error {
	if c.Simulations < 1 {
		return fmt.Errorf("mcts: simulations must be >= 1, got %d", c.Simulations)
	}
	if c.Exploration < 0 {
		return fmt.Errorf("mcts: exploration must be >= 0, got %g", c.Exploration)
	}
	if c.GuessBudget < 1 {
		return fmt.Errorf("mcts: guess_budget must be >= 1, got %d", c.GuessBudget)
	}
	if c.Branching < 0 {
		return fmt.Errorf("mcts: branching must be >= 0, got %d", c.Branching)
	}
	return nil
}
