// internal/feedback/feedback.go
//
// Guess/target feedback model.
// Responsibilities:
//   - Score a guess against a target with the classic two-pass algorithm.
//   - Encode a feedback vector as a compact base-3 pattern for partitioning.
//   - Parse/format vectors for the HTTP layer and CLI.
//
// Notes:
//   - Words are exactly WordLength lowercase ASCII letters; callers validate.
//   - Compute is pure, so it can be memoized (see Memo).
package feedback

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// WordLength is the number of letters in every dictionary word.
const WordLength = 5

// PatternCount is the number of distinct feedback vectors (3^WordLength).
const PatternCount = 243

// Code is the per-letter clue. The numeric values are part of the wire format.
type Code uint8

const (
	NoMatch Code = iota // letter absent (or already fully accounted for)
	Partial             // letter present elsewhere
	Exact               // letter in the right position
)

func (c Code) String() string {
	switch c {
	case NoMatch:
		return "miss"
	case Partial:
		return "present"
	case Exact:
		return "hit"
	}
	return fmt.Sprintf("Code(%d)", uint8(c))
}

// Vector holds one Code per letter position of a guess.
type Vector [WordLength]Code

// Pattern is a Vector packed base-3, most significant digit first.
type Pattern uint8

// SolvedPattern is the pattern of an all-Exact vector.
const SolvedPattern Pattern = PatternCount - 1

// ErrInvariantViolation reports a filter that dropped the real target.
var ErrInvariantViolation = errors.New("feedback: candidate filter excluded the target")

// Compute scores guess against target.
//
// Pass 1 marks Exact hits and counts the target letters left over.
// Pass 2 credits each remaining guess letter as Partial while the leftover
// count for that letter is positive, otherwise NoMatch. A repeated guess
// letter is therefore credited at most as often as it is unaccounted for
// in the target.
func Compute(guess, target string) Vector {
	var v Vector
	var counts [26]int

	for i := 0; i < WordLength; i++ {
		if guess[i] == target[i] {
			v[i] = Exact
		} else if j := idx(target[i]); j >= 0 {
			counts[j]++
		}
	}
	for i := 0; i < WordLength; i++ {
		if v[i] == Exact {
			continue
		}
		if j := idx(guess[i]); j >= 0 && counts[j] > 0 {
			v[i] = Partial
			counts[j]--
		}
	}
	return v
}

// idx maps a lowercase ASCII letter to 0..25, or -1.
func idx(b byte) int {
	if b < 'a' || b > 'z' {
		return -1
	}
	return int(b - 'a')
}

// Pattern packs v into its base-3 code.
func (v Vector) Pattern() Pattern {
	var p Pattern
	for _, c := range v {
		p = p*3 + Pattern(c)
	}
	return p
}

// Vector unpacks a base-3 pattern.
func (p Pattern) Vector() Vector {
	var v Vector
	for i := WordLength - 1; i >= 0; i-- {
		v[i] = Code(p % 3)
		p /= 3
	}
	return v
}

// Solved reports whether every position is Exact.
func (v Vector) Solved() bool {
	for _, c := range v {
		if c != Exact {
			return false
		}
	}
	return true
}

// String renders v as digits, e.g. "20110".
func (v Vector) String() string {
	var b strings.Builder
	b.Grow(WordLength)
	for _, c := range v {
		b.WriteByte('0' + byte(c))
	}
	return b.String()
}

// ParseVector reads the digit form produced by String.
func ParseVector(s string) (Vector, error) {
	var v Vector
	if len(s) != WordLength {
		return v, fmt.Errorf("feedback: vector %q must have %d digits", s, WordLength)
	}
	for i := 0; i < WordLength; i++ {
		d := s[i]
		if d < '0' || d > '2' {
			return v, fmt.Errorf("feedback: invalid digit %q in %q", d, s)
		}
		v[i] = Code(d - '0')
	}
	return v, nil
}

// MarshalJSON encodes v as an array of ints (0=miss, 1=present, 2=hit).
func (v Vector) MarshalJSON() ([]byte, error) {
	out := make([]int, WordLength)
	for i, c := range v {
		out[i] = int(c)
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the array form written by MarshalJSON.
func (v *Vector) UnmarshalJSON(data []byte) error {
	var in []int
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if len(in) != WordLength {
		return fmt.Errorf("feedback: vector has %d codes, want %d", len(in), WordLength)
	}
	for i, n := range in {
		if n < int(NoMatch) || n > int(Exact) {
			return fmt.Errorf("feedback: invalid code %d", n)
		}
		v[i] = Code(n)
	}
	return nil
}
