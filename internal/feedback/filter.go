// internal/feedback/filter.go
//
// Candidate filtering and partitioning by feedback pattern.

package feedback

// Scorer computes feedback for a (guess, target) pair. Compute is the
// reference implementation; Memo wraps it with a bounded cache.
type Scorer interface {
	Score(guess, target string) Vector
}

type direct struct{}

func (direct) Score(guess, target string) Vector { return Compute(guess, target) }

// Direct scores without caching.
var Direct Scorer = direct{}

// Filter returns the candidates w for which Compute(guess, w) == fb, in input order.
func Filter(candidates []string, guess string, fb Vector) []string {
	return FilterBy(Direct, candidates, guess, fb)
}

// FilterBy is Filter with an explicit Scorer. A nil scorer means Direct.
//
// Before rescoring a word, letters that the clue proves absent are used to
// reject it cheaply. A NoMatch letter only proves absence when the same
// letter is not also Partial or Exact elsewhere in the guess.
func FilterBy(sc Scorer, candidates []string, guess string, fb Vector) []string {
	if sc == nil {
		sc = Direct
	}
	excluded := excludedLetters(guess, fb)
	out := make([]string, 0, len(candidates))
	for _, w := range candidates {
		if excluded != 0 && letterMask(w)&excluded != 0 {
			continue
		}
		if sc.Score(guess, w) == fb {
			out = append(out, w)
		}
	}
	return out
}

// excludedLetters returns a bitmask of letters the target cannot contain.
func excludedLetters(guess string, fb Vector) uint32 {
	var miss, seen uint32
	for i := 0; i < WordLength && i < len(guess); i++ {
		j := idx(guess[i])
		if j < 0 {
			continue
		}
		if fb[i] == NoMatch {
			miss |= 1 << j
		} else {
			seen |= 1 << j
		}
	}
	return miss &^ seen
}

func letterMask(w string) uint32 {
	var m uint32
	for i := 0; i < len(w); i++ {
		if j := idx(w[i]); j >= 0 {
			m |= 1 << j
		}
	}
	return m
}

// Group is one feedback class of a partition.
type Group struct {
	Pattern Pattern
	Words   []string
}

// Partition splits candidates by the feedback they would give to guess.
// Groups appear in order of first occurrence, and words keep input order.
func Partition(sc Scorer, guess string, candidates []string) []Group {
	if sc == nil {
		sc = Direct
	}
	var slot [PatternCount]int16
	groups := make([]Group, 0, 16)
	for _, w := range candidates {
		p := sc.Score(guess, w).Pattern()
		if s := slot[p]; s > 0 {
			groups[s-1].Words = append(groups[s-1].Words, w)
			continue
		}
		groups = append(groups, Group{Pattern: p, Words: []string{w}})
		slot[p] = int16(len(groups))
	}
	return groups
}

// Sizes counts partition class sizes by pattern without materialising the groups.
func Sizes(sc Scorer, guess string, candidates []string) *[PatternCount]int {
	if sc == nil {
		sc = Direct
	}
	var n [PatternCount]int
	for _, w := range candidates {
		n[sc.Score(guess, w).Pattern()]++
	}
	return &n
}
