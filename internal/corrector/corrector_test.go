package corrector

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"hmmspell/internal/corpus"
	"hmmspell/internal/hmm"
	"hmmspell/pkg/options"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testCorpus = `cat: cet, cst
hello: hallo, helo
world: wurld
the: teh
`

func baseRecords(t *testing.T) []hmm.Record {
	t.Helper()
	recs, _, err := corpus.ReadAll(strings.NewReader(testCorpus))
	require.NoError(t, err)
	return recs
}

type memStore struct {
	pairs [][2]string
	err   error
}

func (s *memStore) Add(_ context.Context, correct, typo string) error {
	if s.err != nil {
		return s.err
	}
	s.pairs = append(s.pairs, [2]string{correct, typo})
	return nil
}

func (s *memStore) Remove(_ context.Context, correct, typo string) error {
	if s.err != nil {
		return s.err
	}
	for i, p := range s.pairs {
		if p == [2]string{correct, typo} {
			s.pairs = append(s.pairs[:i], s.pairs[i+1:]...)
			break
		}
	}
	return nil
}

func (s *memStore) Records(context.Context) ([]hmm.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []hmm.Record
	for _, p := range s.pairs {
		out = append(out, hmm.Record{Correct: p[0], Typos: []string{p[1]}})
	}
	return out, nil
}

func newCorrector(t *testing.T, store RecordStore, opts ...options.Options) *SpellCorrector {
	t.Helper()
	sc, err := NewSpellCorrector(context.Background(), baseRecords(t), store, opts...)
	require.NoError(t, err)
	return sc
}

func TestCorrectText(t *testing.T) {
	sc := newCorrector(t, nil, options.WithWorkers(2))

	res, err := sc.CorrectText(context.Background(), "Hallo  cet, ... wurld!")
	require.NoError(t, err)
	assert.Equal(t, "Hallo  cet, ... wurld!", res.Original)
	assert.Equal(t, "hello cat ... world", res.Corrected)
	require.Len(t, res.Tokens, 4)

	score, err := sc.Model().Score("cet")
	require.NoError(t, err)
	assert.Equal(t, TokenCorrection{Original: "cet,", Stripped: "cet", Corrected: "cat", Edits: 1, Decoded: true, LogProb: score}, res.Tokens[1])
	assert.Equal(t, TokenCorrection{Original: "...", Corrected: "..."}, res.Tokens[2])
	assert.False(t, res.Tokens[2].Changed())
	assert.True(t, res.Tokens[0].Changed())
}

func TestCorrectTextEmpty(t *testing.T) {
	sc := newCorrector(t, nil)
	res, err := sc.CorrectText(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, "", res.Corrected)
	assert.Empty(t, res.Tokens)
}

func TestCorrectTextCancelled(t *testing.T) {
	sc := newCorrector(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sc.CorrectText(ctx, "cet hallo")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCorrectTokenPreserveCase(t *testing.T) {
	sc := newCorrector(t, nil, options.WithPreserveCase())
	assert.Equal(t, "Hello", sc.CorrectToken("Hallo").Corrected)
	assert.Equal(t, "CAT", sc.CorrectToken("CET").Corrected)
	assert.Equal(t, "the", sc.CorrectToken("teh").Corrected)
}

func TestCorrectTokenMinWordLength(t *testing.T) {
	sc := newCorrector(t, nil, options.WithMinWordLength(4))
	tc := sc.CorrectToken("cet")
	assert.False(t, tc.Decoded)
	assert.Zero(t, tc.LogProb)
	assert.Equal(t, "cet", tc.Corrected)
	assert.Equal(t, "hello", sc.CorrectToken("hallo").Corrected)
}

func TestCorrectTokenSwapCountsAsOneEdit(t *testing.T) {
	sc := newCorrector(t, nil)
	tc := sc.CorrectToken("teh")
	assert.Equal(t, "the", tc.Corrected)
	assert.Equal(t, 1, tc.Edits)
}

func TestCustomRecords(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	sc := newCorrector(t, store)

	before := sc.Model()
	assert.NotEqual(t, "dog", sc.CorrectToken("zog").Corrected)

	require.NoError(t, sc.AddCustomRecord(ctx, "dog", "zog"))
	assert.NotSame(t, before, sc.Model())
	assert.Equal(t, 5, sc.Model().Stats().Records)
	assert.Equal(t, "dog", sc.CorrectToken("zog").Corrected)

	require.NoError(t, sc.RemoveCustomRecord(ctx, "dog", "zog"))
	assert.Equal(t, 4, sc.Model().Stats().Records)
}

func TestCustomRecordsWithoutStore(t *testing.T) {
	sc := newCorrector(t, nil)
	assert.ErrorIs(t, sc.AddCustomRecord(context.Background(), "dog", "zog"), ErrNoStore)
	assert.ErrorIs(t, sc.RemoveCustomRecord(context.Background(), "dog", "zog"), ErrNoStore)
}

func TestStoreFailure(t *testing.T) {
	boom := errors.New("boom")
	store := &memStore{err: boom}

	// Startup tolerates an unreachable store.
	sc := newCorrector(t, store)
	assert.Equal(t, 4, sc.Model().Stats().Records)

	assert.ErrorIs(t, sc.Retrain(context.Background()), boom)
	assert.ErrorIs(t, sc.AddCustomRecord(context.Background(), "dog", "zog"), boom)
}

func TestRunREPL(t *testing.T) {
	sc := newCorrector(t, nil)
	in := strings.NewReader("cet hallo\n  ?!  \nQUIT\nteh\n")
	var out bytes.Buffer

	require.NoError(t, sc.RunREPL(context.Background(), in, &out))
	assert.Equal(t, "Spelling corrector ready\n"+
		"Type 'quit' to exit\n\n"+
		"Enter text: Original:  cet hallo\n"+
		"Corrected: cat hello\n\n"+
		"Enter text: Original:  ?!\n"+
		"Corrected: ?!\n\n"+
		"Enter text: ", out.String())
}

func TestRunREPLEOF(t *testing.T) {
	sc := newCorrector(t, nil)
	var out bytes.Buffer
	require.NoError(t, sc.RunREPL(context.Background(), strings.NewReader("teh"), &out))
	assert.True(t, strings.HasSuffix(out.String(), "Corrected: the\n\nEnter text: \n"))
}

func TestRunREPLLongLine(t *testing.T) {
	sc := newCorrector(t, nil)
	long := strings.Repeat("cet ", 20000)
	in := strings.NewReader(long + "\ncet\nquit\n")
	var out bytes.Buffer

	require.NoError(t, sc.RunREPL(context.Background(), in, &out))
	assert.Contains(t, out.String(), "Corrected: "+strings.TrimSpace(strings.Repeat("cat ", 20000))+"\n\n")
	assert.True(t, strings.HasSuffix(out.String(), "Original:  cet\nCorrected: cat\n\nEnter text: "))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("tty gone") }

func TestRunREPLReadError(t *testing.T) {
	sc := newCorrector(t, nil)
	var out bytes.Buffer
	err := sc.RunREPL(context.Background(), failingReader{}, &out)
	assert.EqualError(t, err, "tty gone")
}

func TestUnitDL(t *testing.T) {
	assert.Equal(t, 0, unitDL("cat", "cat"))
	assert.Equal(t, 1, unitDL("cat", "cet"))
	assert.Equal(t, 1, unitDL("teh", "the"))
	assert.Equal(t, 3, unitDL("", "abc"))
	assert.Equal(t, 2, unitDL("abcd", "badc"))
}
