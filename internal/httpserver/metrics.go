// internal/httpserver/metrics.go
//
// Prometheus collectors for game and hint traffic.

package httpserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hintsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wordle_hints_total",
		Help: "Hints served, by solver and whether the hint cache answered.",
	}, []string{"solver", "cached"})

	hintDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wordle_hint_duration_seconds",
		Help:    "Time to produce a hint, including cache lookups.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
	}, []string{"solver"})

	guessesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wordle_guesses_total",
		Help: "Accepted guesses, by the game state they produced.",
	}, []string{"state"})

	gamesStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wordle_games_started_total",
		Help: "Games started, by mode.",
	}, []string{"mode"})
)
