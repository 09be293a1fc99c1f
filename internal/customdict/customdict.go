package customdict

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/redis/go-redis/v9"

	"hmmspell/internal/corpus"
	"hmmspell/internal/hmm"
)

// DefaultKey is the Redis set holding user supplied training pairs.
const DefaultKey = "custom_records"

// ErrInvalidPair is returned for pairs that cannot be stored as a corpus line.
var ErrInvalidPair = errors.New("customdict: invalid pair")

// CustomDict wraps a Redis client to store extra (correct, typo) training pairs.
// Each set member is a corpus line of the form "correct:typo".
type CustomDict struct {
	client redis.UniversalClient
	key    string
}

// New creates a new CustomDict with the provided Redis client.
func New(client redis.UniversalClient) *CustomDict {
	return NewWithKey(client, DefaultKey)
}

// NewWithKey is New with an explicit set key.
func NewWithKey(client redis.UniversalClient, key string) *CustomDict {
	if key == "" {
		key = DefaultKey
	}
	return &CustomDict{client: client, key: key}
}

// splitsCorpusLine matches every rune corpus.ParseLine treats as a separator.
func splitsCorpusLine(r rune) bool {
	return r == ':' || r == ',' || unicode.IsSpace(r)
}

func member(correct, typo string) (string, error) {
	correct = strings.ToLower(strings.TrimSpace(correct))
	typo = strings.ToLower(strings.TrimSpace(typo))
	if correct == "" || typo == "" {
		return "", fmt.Errorf("%w: correct word and typo are required", ErrInvalidPair)
	}
	if strings.ContainsFunc(correct+typo, splitsCorpusLine) {
		return "", fmt.Errorf("%w: %q / %q must be single words", ErrInvalidPair, correct, typo)
	}
	return correct + ":" + typo, nil
}

// Add stores a training pair.
func (cd *CustomDict) Add(ctx context.Context, correct, typo string) error {
	m, err := member(correct, typo)
	if err != nil {
		return err
	}
	return cd.client.SAdd(ctx, cd.key, m).Err()
}

// Remove deletes a training pair.
func (cd *CustomDict) Remove(ctx context.Context, correct, typo string) error {
	m, err := member(correct, typo)
	if err != nil {
		return err
	}
	return cd.client.SRem(ctx, cd.key, m).Err()
}

// All returns every stored pair as a corpus line, sorted.
func (cd *CustomDict) All(ctx context.Context) ([]string, error) {
	lines, err := cd.client.SMembers(ctx, cd.key).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(lines)
	return lines, nil
}

// Records returns the stored pairs parsed as training records.
func (cd *CustomDict) Records(ctx context.Context) ([]hmm.Record, error) {
	lines, err := cd.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]hmm.Record, 0, len(lines))
	for _, l := range lines {
		if rec, ok := corpus.ParseLine(l); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}
