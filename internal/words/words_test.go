package words

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNormalizesAndDedups(t *testing.T) {
	d, err := New([]string{" Crate ", "react", "crate", "toolong", "ab1de", "", "TRACE"})
	require.NoError(t, err)
	assert.Equal(t, []string{"crate", "react", "trace"}, d.Words())
	assert.True(t, d.Contains("CRATE"))
	assert.False(t, d.Contains("cater"))
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, "react", d.At(1))
}

func TestNewEmpty(t *testing.T) {
	_, err := New([]string{"nope", "12345"})
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestWordsReturnsCopy(t *testing.T) {
	d, err := New([]string{"crate", "react"})
	require.NoError(t, err)
	w := d.Words()
	w[0] = "zzzzz"
	assert.Equal(t, "crate", d.At(0))
}

func TestDefaultDictionary(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)
	assert.Greater(t, d.Len(), 100)
	for _, w := range d.Words() {
		assert.True(t, Valid(w), w)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dict.txt")
	require.NoError(t, os.WriteFile(path, []byte("# header\ncrate\nREACT\n\ntrace\n"), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"crate", "react", "trace"}, d.Words())

	ans := filepath.Join(dir, "answers.txt")
	require.NoError(t, os.WriteFile(ans, []byte("react\nzebra\n"), 0o644))
	list, err := d.LoadAnswers(ans)
	require.NoError(t, err)
	assert.Equal(t, []string{"react"}, list)

	_, err = Load(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestBuildOrder(t *testing.T) {
	list := []string{"fuzzy", "crate", "trace", "eerie", "react"}
	o := BuildOrder(list)
	require.Equal(t, 5, o.Len())

	// anagrams share the same score and unique count, so input order breaks the tie
	assert.Equal(t, []string{"crate", "trace", "react"}, o.Words()[:3])
	assert.Equal(t, "crate", o.Head())
	r, ok := o.Rank("fuzzy")
	require.True(t, ok)
	assert.Equal(t, 4, r)
}

func TestBuildOrderPrefersMoreUniqueLetters(t *testing.T) {
	// "aaaab" and "abcde" overlap with every word on a and b, but abcde also
	// scores its other letters against itself.
	o := BuildOrder([]string{"aaaab", "abcde"})
	assert.Equal(t, "abcde", o.Head())
}

func TestOrderQueries(t *testing.T) {
	o := newOrder([]string{"crate", "trace", "react", "cater"})

	best, ok := o.Best([]string{"cater", "react", "zebra"})
	require.True(t, ok)
	assert.Equal(t, "react", best)

	_, ok = o.Best([]string{"zebra"})
	assert.False(t, ok)

	assert.Equal(t, []string{"trace", "react"}, o.Top([]string{"cater", "react", "trace"}, 2))
	assert.Equal(t, []string{"crate", "trace", "react"}, o.Top([]string{"zebra", "react", "crate", "trace", "crate"}, 0))
}

func TestOrderRoundTrip(t *testing.T) {
	d, err := New([]string{"crate", "trace", "react", "cater", "fuzzy"})
	require.NoError(t, err)
	o := BuildOrder(d.Words())

	var buf bytes.Buffer
	_, err = o.WriteTo(&buf)
	require.NoError(t, err)

	back, err := ReadOrder(&buf, d)
	require.NoError(t, err)
	assert.Equal(t, o.Words(), back.Words())
}

func TestReadOrderAppendsMissingWords(t *testing.T) {
	d, err := New([]string{"crate", "trace", "fuzzy"})
	require.NoError(t, err)
	o, err := ReadOrder(strings.NewReader("fuzzy\nzebra\n"), d)
	require.NoError(t, err)
	assert.Equal(t, []string{"fuzzy", "crate", "trace"}, o.Words())
}
