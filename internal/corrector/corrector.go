package corrector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hmmspell/internal/hmm"
	"hmmspell/pkg/options"
)

// ErrNoStore is returned by the custom record methods when no store is configured.
var ErrNoStore = errors.New("corrector: no custom record store configured")

// RecordStore persists user supplied training pairs.
type RecordStore interface {
	Add(ctx context.Context, correct, typo string) error
	Remove(ctx context.Context, correct, typo string) error
	Records(ctx context.Context) ([]hmm.Record, error)
}

// SpellCorrector corrects free text with a trained model. The model is replaced
// wholesale on retraining and never modified in place, so readers need no locks.
type SpellCorrector struct {
	opts  options.CorrectorOptions
	log   *zap.Logger
	base  []hmm.Record
	store RecordStore

	model     atomic.Pointer[hmm.Model]
	retrainMu sync.Mutex
}

// NewSpellCorrector trains on base plus any records in store. A store that
// cannot be read is logged and ignored.
func NewSpellCorrector(ctx context.Context, base []hmm.Record, store RecordStore, opts ...options.Options) (*SpellCorrector, error) {
	o := options.Resolve(opts...)
	sc := &SpellCorrector{opts: o, log: o.Logger, base: base, store: store}
	if err := sc.retrain(ctx, true); err != nil {
		return nil, err
	}
	return sc, nil
}

// Model returns the model currently used for decoding.
func (sc *SpellCorrector) Model() *hmm.Model { return sc.model.Load() }

// Retrain rebuilds the model from the base corpus and the store.
func (sc *SpellCorrector) Retrain(ctx context.Context) error {
	return sc.retrain(ctx, false)
}

func (sc *SpellCorrector) retrain(ctx context.Context, tolerateStore bool) error {
	sc.retrainMu.Lock()
	defer sc.retrainMu.Unlock()

	var custom []hmm.Record
	if sc.store != nil {
		recs, err := sc.store.Records(ctx)
		switch {
		case err == nil:
			custom = recs
		case tolerateStore:
			sc.log.Warn("custom records unavailable, training on corpus only", zap.Error(err))
		default:
			return fmt.Errorf("load custom records: %w", err)
		}
	}

	m, stats := hmm.Train(func(yield func(hmm.Record) bool) {
		for _, r := range sc.base {
			if !yield(r) {
				return
			}
		}
		for _, r := range custom {
			if !yield(r) {
				return
			}
		}
	})
	sc.model.Store(m)
	sc.log.Info("model trained",
		zap.Int("records", stats.Records),
		zap.Int("skipped", stats.Skipped),
		zap.Int("typos", stats.Typos),
		zap.Int("custom", len(custom)),
	)
	return nil
}

// AddCustomRecord stores correct/typo pairs and retrains.
func (sc *SpellCorrector) AddCustomRecord(ctx context.Context, correct string, typos ...string) error {
	if sc.store == nil {
		return ErrNoStore
	}
	for _, typo := range typos {
		if err := sc.store.Add(ctx, correct, typo); err != nil {
			return err
		}
	}
	return sc.Retrain(ctx)
}

// RemoveCustomRecord deletes one correct/typo pair and retrains.
func (sc *SpellCorrector) RemoveCustomRecord(ctx context.Context, correct, typo string) error {
	if sc.store == nil {
		return ErrNoStore
	}
	if err := sc.store.Remove(ctx, correct, typo); err != nil {
		return err
	}
	return sc.Retrain(ctx)
}

// CorrectToken corrects a single token. Non-letters are stripped before
// decoding; a token with no letters, or fewer than MinWordLength, comes back
// unchanged.
func (sc *SpellCorrector) CorrectToken(tok string) TokenCorrection {
	return sc.correctToken(sc.Model(), tok)
}

func (sc *SpellCorrector) correctToken(m *hmm.Model, tok string) TokenCorrection {
	stripped := letters(tok)
	tc := TokenCorrection{Original: tok, Stripped: stripped, Corrected: tok}
	if stripped == "" || len([]rune(stripped)) < sc.opts.MinWordLength {
		return tc
	}
	lower := strings.ToLower(stripped)
	decoded, score, err := m.DecodeWithScore(lower)
	if err != nil {
		// stripped is non-empty, so this only happens on a programming error
		sc.log.Error("decode failed", zap.String("token", tok), zap.Error(err))
		return tc
	}
	tc.Decoded = true
	tc.LogProb = score
	tc.Edits = unitDL(lower, decoded)
	if sc.opts.PreserveCase {
		decoded = restoreCase(stripped, decoded)
	}
	tc.Corrected = decoded
	if tc.Edits > 0 {
		sc.log.Debug("token corrected",
			zap.String("token", tok),
			zap.String("corrected", decoded),
			zap.Int("edits", tc.Edits),
		)
	}
	return tc
}

// CorrectText corrects each whitespace-separated token of text and joins the
// results with single spaces. Tokens are decoded in parallel against one model
// snapshot.
func (sc *SpellCorrector) CorrectText(ctx context.Context, text string) (CorrectionResult, error) {
	m := sc.Model()
	fields := strings.Fields(text)
	tokens := make([]TokenCorrection, len(fields))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sc.opts.Workers)
	for i, tok := range fields {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tokens[i] = sc.correctToken(m, tok)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return CorrectionResult{}, err
	}

	out := make([]string, len(tokens))
	for i, tc := range tokens {
		out[i] = tc.Corrected
	}
	return CorrectionResult{
		Original:  text,
		Corrected: strings.Join(out, " "),
		Tokens:    tokens,
	}, nil
}
