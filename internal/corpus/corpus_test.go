package corpus

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hmmspell/internal/hmm"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want hmm.Record
		ok   bool
	}{
		{"receive: recieve, receve", hmm.Record{Correct: "receive", Typos: []string{"recieve", "receve"}}, true},
		{"cat cet", hmm.Record{Correct: "cat", Typos: []string{"cet"}}, true},
		{"alone", hmm.Record{Correct: "alone"}, true},
		{"  the:teh,hte  ", hmm.Record{Correct: "the", Typos: []string{"teh", "hte"}}, true},
		{"", hmm.Record{}, false},
		{" :, ,: ", hmm.Record{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReaderSkipsEmptyLines(t *testing.T) {
	r := NewReader(strings.NewReader("cat: cet\n\n  \nthe teh\n:\n"))
	var got []hmm.Record
	for rec := range r.Records() {
		got = append(got, rec)
	}
	require.NoError(t, r.Err())
	assert.Equal(t, []hmm.Record{
		{Correct: "cat", Typos: []string{"cet"}},
		{Correct: "the", Typos: []string{"teh"}},
	}, got)
	assert.Equal(t, Stats{Lines: 5, Skipped: 3}, r.Stats())
}

func TestReaderSkipsOverlongLine(t *testing.T) {
	long := "x " + strings.Repeat("y", 2*MaxLineLength)
	input := "cat: cet\n" + long + "\nhello: hallo\n" + long + "\r\nworld wurld"

	recs, stats, err := ReadAll(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []hmm.Record{
		{Correct: "cat", Typos: []string{"cet"}},
		{Correct: "hello", Typos: []string{"hallo"}},
		{Correct: "world", Typos: []string{"wurld"}},
	}, recs)
	assert.Equal(t, Stats{Lines: 5, TooLong: 2}, stats)
}

func TestReaderLineAtLimit(t *testing.T) {
	word := strings.Repeat("a", MaxLineLength)
	recs, stats, err := ReadAll(strings.NewReader(word + "\n" + word + "b"))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Len(t, recs[0].Correct, MaxLineLength)
	assert.Equal(t, Stats{Lines: 2, TooLong: 1}, stats)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aspell.txt")
	require.NoError(t, os.WriteFile(path, []byte("cat: cet\nhello: hallo, helo\n"), 0o644))

	recs, cs, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, Stats{Lines: 2}, cs)
	assert.Equal(t, "hello", recs[1].Correct)
	assert.Equal(t, []string{"hallo", "helo"}, recs[1].Typos)

	m, stats := hmm.Train(slices.Values(recs))
	assert.Equal(t, 2, stats.Records)
	got, err := m.Decode("cet")
	require.NoError(t, err)
	assert.Equal(t, "cat", got)
}

func TestReadFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	recs, stats, err := ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Zero(t, stats)
}

func TestReadFileOverlongLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aspell.txt")
	content := "cat: cet\nx " + strings.Repeat("y", 2*MaxLineLength) + "\nhello: hallo\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	recs, stats, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "hello", recs[1].Correct)
	assert.Equal(t, 1, stats.TooLong)
}

func TestReadFileMissing(t *testing.T) {
	_, _, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
