// internal/words/order.go
//
// Letter-overlap heuristic order: computing, persisting and applying it.

package words

import (
	"bufio"
	"fmt"
	"io"
	"math/bits"
	"os"
	"slices"
)

// Order is a static ranking of words by how well they are expected to split
// a candidate set. It is read-only after construction and safe to share.
type Order struct {
	ranked []string
	rank   map[string]int
}

// BuildOrder ranks words by letter overlap with the rest of the list.
//
// A word's score is the number of distinct letters it shares with every word
// in the list, summed (equivalently the average overlap, since the list size
// is constant). Higher scores come first, then words with more distinct
// letters; remaining ties keep input order.
func BuildOrder(list []string) *Order {
	var freq [26]int
	masks := make([]uint32, len(list))
	for i, w := range list {
		masks[i] = letterSet(w)
		for l := 0; l < 26; l++ {
			if masks[i]&(1<<l) != 0 {
				freq[l]++
			}
		}
	}

	type scored struct {
		word   string
		score  int
		unique int
	}
	all := make([]scored, len(list))
	for i, w := range list {
		s := 0
		for l := 0; l < 26; l++ {
			if masks[i]&(1<<l) != 0 {
				s += freq[l]
			}
		}
		all[i] = scored{word: w, score: s, unique: bits.OnesCount32(masks[i])}
	}
	slices.SortStableFunc(all, func(a, b scored) int {
		if a.score != b.score {
			return b.score - a.score
		}
		return b.unique - a.unique
	})

	ranked := make([]string, len(all))
	for i, s := range all {
		ranked[i] = s.word
	}
	return newOrder(ranked)
}

func newOrder(ranked []string) *Order {
	o := &Order{ranked: make([]string, 0, len(ranked)), rank: make(map[string]int, len(ranked))}
	for _, w := range ranked {
		if _, dup := o.rank[w]; dup {
			continue
		}
		o.rank[w] = len(o.ranked)
		o.ranked = append(o.ranked, w)
	}
	return o
}

func letterSet(w string) uint32 {
	var m uint32
	for i := 0; i < len(w); i++ {
		if w[i] >= 'a' && w[i] <= 'z' {
			m |= 1 << (w[i] - 'a')
		}
	}
	return m
}

// LoadOrder reads a ranking file (one word per line, best first). Words not
// in dict are dropped; dictionary words missing from the file are appended
// in the order BuildOrder would give them.
func LoadOrder(path string, dict *Dictionary) (*Order, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: load order %s: %w", path, err)
	}
	defer f.Close()
	return ReadOrder(f, dict)
}

// ReadOrder is LoadOrder over an io.Reader.
func ReadOrder(r io.Reader, dict *Dictionary) (*Order, error) {
	var ranked []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := normalize(sc.Text())
		if dict.Contains(w) {
			ranked = append(ranked, w)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("words: read order: %w", err)
	}
	o := newOrder(ranked)
	if len(o.ranked) < dict.Len() {
		var missing []string
		for _, w := range dict.list {
			if _, ok := o.rank[w]; !ok {
				missing = append(missing, w)
			}
		}
		for _, w := range BuildOrder(missing).ranked {
			o.rank[w] = len(o.ranked)
			o.ranked = append(o.ranked, w)
		}
	}
	return o, nil
}

// WriteTo writes the ranking one word per line.
func (o *Order) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, word := range o.ranked {
		k, err := bw.WriteString(word + "\n")
		n += int64(k)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// Len is the number of ranked words.
func (o *Order) Len() int { return len(o.ranked) }

// Words returns a copy of the ranking.
func (o *Order) Words() []string { return slices.Clone(o.ranked) }

// Head returns the best-ranked word, or "" for an empty order.
func (o *Order) Head() string {
	if len(o.ranked) == 0 {
		return ""
	}
	return o.ranked[0]
}

// Rank returns the position of w (0 is best).
func (o *Order) Rank(w string) (int, bool) {
	r, ok := o.rank[w]
	return r, ok
}

// Best returns the best-ranked word among candidates.
func (o *Order) Best(candidates []string) (string, bool) {
	best, bestRank := "", -1
	for _, w := range candidates {
		r, ok := o.rank[w]
		if ok && (bestRank < 0 || r < bestRank) {
			best, bestRank = w, r
		}
	}
	return best, bestRank >= 0
}

// Top returns up to k ranked candidates, best first. k <= 0 means all.
func (o *Order) Top(candidates []string, k int) []string {
	ranked := make([]string, 0, len(candidates))
	for _, w := range candidates {
		if _, ok := o.rank[w]; ok {
			ranked = append(ranked, w)
		}
	}
	slices.SortFunc(ranked, func(a, b string) int { return o.rank[a] - o.rank[b] })
	ranked = slices.Compact(ranked)
	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
