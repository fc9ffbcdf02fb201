package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebytremblay/wordle-bot/internal/feedback"
	"github.com/sebytremblay/wordle-bot/internal/solver"
	"github.com/sebytremblay/wordle-bot/internal/words"
)

func exampleDict(t *testing.T) *words.Dictionary {
	t.Helper()
	d, err := words.New([]string{"crate", "tacet", "react", "cater", "trace"})
	require.NoError(t, err)
	return d
}

func TestNewRejectsUnknownTarget(t *testing.T) {
	_, err := New(exampleDict(t), "zebra")
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestApplyNarrowsCandidates(t *testing.T) {
	g, err := New(exampleDict(t), "REACT")
	require.NoError(t, err)
	assert.NotEmpty(t, g.ID)

	fb, st, err := g.Apply("crate")
	require.NoError(t, err)
	assert.Equal(t, feedback.Vector{feedback.Partial, feedback.Partial, feedback.Exact, feedback.Partial, feedback.Partial}, fb)
	assert.Equal(t, Playing, st)
	assert.Equal(t, []string{"react"}, g.Candidates)

	snap := g.Snapshot()
	assert.Equal(t, []string{"crate"}, snap.Previous)
	require.Len(t, snap.History, 1)
	assert.Equal(t, fb, snap.History[0].Feedback)

	_, st, err = g.Apply("react")
	require.NoError(t, err)
	assert.Equal(t, Won, st)

	_, _, err = g.Apply("trace")
	assert.ErrorIs(t, err, ErrFinished)
}

func TestApplyValidation(t *testing.T) {
	g, err := New(exampleDict(t), "react")
	require.NoError(t, err)

	_, _, err = g.Apply("toolong")
	assert.ErrorIs(t, err, ErrInvalidGuess)
	_, _, err = g.Apply("zebra")
	assert.ErrorIs(t, err, ErrNotInWordList)
	assert.Empty(t, g.History)
}

func TestLoseAfterBudget(t *testing.T) {
	g, err := New(exampleDict(t), "react", WithMaxGuesses(2))
	require.NoError(t, err)
	_, st, err := g.Apply("crate")
	require.NoError(t, err)
	assert.Equal(t, Playing, st)
	_, st, err = g.Apply("trace")
	require.NoError(t, err)
	assert.Equal(t, Lost, st)
	assert.True(t, g.Finished)
	assert.False(t, g.Won)
}

type liarScorer struct{}

func (liarScorer) Score(string, string) feedback.Vector { return feedback.Vector{} }

func TestApplyDetectsUnsoundFilter(t *testing.T) {
	g, err := New(exampleDict(t), "react", WithScorer(liarScorer{}))
	require.NoError(t, err)
	_, _, err = g.Apply("crate")
	assert.ErrorIs(t, err, feedback.ErrInvariantViolation)
	assert.Empty(t, g.History)
	assert.Len(t, g.Candidates, 5)
}

func TestMirrorKeepsTarget(t *testing.T) {
	g, err := New(exampleDict(t), "cater", WithMaxGuesses(4))
	require.NoError(t, err)
	_, _, err = g.Apply("crate")
	require.NoError(t, err)

	m, err := g.Mirror()
	require.NoError(t, err)
	assert.NotEqual(t, g.ID, m.ID)
	assert.Equal(t, "cater", m.Target)
	assert.Equal(t, 4, m.MaxGuesses)
	assert.Empty(t, m.History)
	assert.Len(t, m.Candidates, 5)
}

func TestNaiveGameTerminates(t *testing.T) {
	dict := exampleDict(t)
	g, err := New(dict, "react", WithMaxGuesses(dict.Len()))
	require.NoError(t, err)

	_, _, err = g.Apply("crate")
	require.NoError(t, err)

	naive := solver.NewNaive(12345)
	for !g.Finished {
		guess, err := naive.SelectGuess(context.Background(), g.Candidates)
		require.NoError(t, err)
		_, _, err = g.Apply(guess)
		require.NoError(t, err)
	}
	assert.True(t, g.Won)
	assert.LessOrEqual(t, len(g.History), dict.Len())
}

func TestDailyTargetIsStablePerDay(t *testing.T) {
	answers := []string{"crate", "tacet", "react", "cater", "trace"}
	morning := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-01", DateKey(morning))
	assert.Equal(t, DailyTarget(morning, "salt", answers), DailyTarget(evening, "salt", answers))
	assert.Contains(t, answers, DailyTarget(morning, "salt", answers))
	assert.Equal(t, "", DailyTarget(morning, "salt", nil))
	assert.Equal(t, 0, DailyIndex(morning, "salt", 0))
}

func TestRandomTarget(t *testing.T) {
	list := []string{"crate", "react"}
	assert.Contains(t, list, RandomTarget(list))
	assert.Equal(t, "", RandomTarget(nil))
}
