// Package app wires configuration, corpus, Redis and the corrector together
// for the command line and server binaries.
package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hmmspell/internal/config"
	"hmmspell/internal/corpus"
	"hmmspell/internal/corrector"
	"hmmspell/internal/customdict"
	"hmmspell/pkg/options"
)

// App is a trained corrector plus what was learned while loading its corpus.
type App struct {
	Corrector *corrector.SpellCorrector
	Corpus    corpus.Stats

	closeFn func() error
}

// Close releases the Redis client, if any.
func (a *App) Close() error { return a.closeFn() }

// Build loads the corpus named by cfg, connects the custom record store when
// Redis is configured, and trains the corrector.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	records, cs, err := corpus.ReadFile(cfg.CorpusPath)
	if err != nil {
		return nil, err
	}
	logger.Info("corpus loaded",
		zap.String("path", cfg.CorpusPath),
		zap.Int("records", len(records)),
		zap.Int("lines", cs.Lines),
		zap.Int("skipped", cs.Skipped),
	)
	if cs.TooLong > 0 {
		logger.Warn("corpus lines over the length limit were skipped",
			zap.Int("count", cs.TooLong),
			zap.Int("max_line_length", corpus.MaxLineLength),
		)
	}

	closeFn := func() error { return nil }
	var store corrector.RecordStore
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = customdict.NewWithKey(client, cfg.Redis.Key)
		closeFn = client.Close
	}

	opts := []options.Options{
		options.WithLogger(logger),
		options.WithMinWordLength(cfg.Decode.MinWordLength),
	}
	if cfg.Decode.Workers > 0 {
		opts = append(opts, options.WithWorkers(cfg.Decode.Workers))
	}
	if cfg.Decode.PreserveCase {
		opts = append(opts, options.WithPreserveCase())
	}

	sc, err := corrector.NewSpellCorrector(ctx, records, store, opts...)
	if err != nil {
		closeFn()
		return nil, fmt.Errorf("init corrector: %w", err)
	}
	return &App{Corrector: sc, Corpus: cs, closeFn: closeFn}, nil
}
