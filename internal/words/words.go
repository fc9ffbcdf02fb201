// internal/words/words.go
//
// Dictionary management for the solvers and the game engine.
//
// Responsibilities:
//   - Load the dictionary from a file or fall back to the embedded default.
//   - Keep the list ordered and immutable (solvers rely on stable order).
//   - Provide membership checks and restrict answer lists to playable words.
//
// Word lists:
//   - "dictionary": every valid guess, and the default pool of targets.
//   - "answers": optional narrower list of targets (benchmarks, new games).
//
// Constraints:
//   - Words must be 5 alphabetic letters (a–z).
//   - Lists are normalized to lowercase; duplicates are dropped, first wins.
package words

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sebytremblay/wordle-bot/assets"
	"github.com/sebytremblay/wordle-bot/internal/feedback"
)

// ErrEmpty is returned when a word list has no valid entries.
var ErrEmpty = errors.New("words: list is empty")

// Dictionary is an ordered, immutable list of valid words.
type Dictionary struct {
	list []string
	set  map[string]struct{}
}

// New builds a Dictionary from raw entries. Invalid entries are skipped.
func New(entries []string) (*Dictionary, error) {
	d := &Dictionary{set: make(map[string]struct{}, len(entries))}
	for _, e := range entries {
		w := normalize(e)
		if !Valid(w) {
			continue
		}
		if _, dup := d.set[w]; dup {
			continue
		}
		d.set[w] = struct{}{}
		d.list = append(d.list, w)
	}
	if len(d.list) == 0 {
		return nil, ErrEmpty
	}
	return d, nil
}

// Load reads one word per line from path. An empty path selects the embedded default.
func Load(path string) (*Dictionary, error) {
	if path == "" {
		return Default()
	}
	list, err := readWordFile(path)
	if err != nil {
		return nil, fmt.Errorf("words: load %s: %w", path, err)
	}
	d, err := New(list)
	if err != nil {
		return nil, fmt.Errorf("words: load %s: %w", path, err)
	}
	return d, nil
}

// Default returns the embedded dictionary.
func Default() (*Dictionary, error) {
	list, err := assets.DictionaryList()
	if err != nil {
		return nil, fmt.Errorf("words: embedded dictionary: %w", err)
	}
	return New(list)
}

// readWordFile loads one word per line from a file,
// lowercases and trims. Validation happens in New.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		out = append(out, normalize(line))
	}
	return out, sc.Err()
}

func normalize(s string) string { return strings.TrimSpace(strings.ToLower(s)) }

// Valid reports whether w is exactly five lowercase ASCII letters.
func Valid(w string) bool {
	if len(w) != feedback.WordLength {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}

// Words returns a copy of the dictionary in load order.
func (d *Dictionary) Words() []string {
	out := make([]string, len(d.list))
	copy(out, d.list)
	return out
}

// Len is the number of words.
func (d *Dictionary) Len() int { return len(d.list) }

// At returns the i-th word.
func (d *Dictionary) At(i int) string { return d.list[i] }

// Contains reports whether w (case-insensitive) is in the dictionary.
func (d *Dictionary) Contains(w string) bool {
	_, ok := d.set[normalize(w)]
	return ok
}

// Subset returns the words of list that are in d, in list order.
// It is used to restrict an answers file to playable words.
func (d *Dictionary) Subset(list []string) []string {
	out := make([]string, 0, len(list))
	for _, w := range list {
		if d.Contains(w) {
			out = append(out, normalize(w))
		}
	}
	return out
}

// LoadAnswers reads an answers file and keeps only dictionary words.
// An empty path yields the whole dictionary.
func (d *Dictionary) LoadAnswers(path string) ([]string, error) {
	if path == "" {
		return d.Words(), nil
	}
	list, err := readWordFile(path)
	if err != nil {
		return nil, fmt.Errorf("words: load answers %s: %w", path, err)
	}
	out := d.Subset(list)
	if len(out) == 0 {
		return nil, fmt.Errorf("words: load answers %s: %w", path, ErrEmpty)
	}
	return out, nil
}
