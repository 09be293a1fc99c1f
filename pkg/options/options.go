package options

import (
	"runtime"

	"go.uber.org/zap"
)

var DefaultOptions = CorrectorOptions{
	Workers:       runtime.GOMAXPROCS(0),
	PreserveCase:  false,
	MinWordLength: 1,
	Logger:        zap.NewNop(),
}

type CorrectorOptions struct {
	Workers       int  // upper bound on tokens decoded in parallel
	PreserveCase  bool // restore Title / UPPER case on corrected tokens
	MinWordLength int  // shorter stripped tokens are passed through undecoded
	Logger        *zap.Logger
}

type Options interface {
	Apply(options *CorrectorOptions)
}

type FuncConfig struct {
	ops func(options *CorrectorOptions)
}

func (w FuncConfig) Apply(conf *CorrectorOptions) {
	w.ops(conf)
}

func NewFuncOption(f func(options *CorrectorOptions)) *FuncConfig {
	return &FuncConfig{ops: f}
}

// Resolve applies opts on top of DefaultOptions.
func Resolve(opts ...Options) CorrectorOptions {
	o := DefaultOptions
	for _, opt := range opts {
		opt.Apply(&o)
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.MinWordLength < 1 {
		o.MinWordLength = 1
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

func WithWorkers(workers int) Options {
	return NewFuncOption(func(options *CorrectorOptions) {
		options.Workers = workers
	})
}

func WithPreserveCase() Options {
	return NewFuncOption(func(options *CorrectorOptions) {
		options.PreserveCase = true
	})
}

func WithMinWordLength(n int) Options {
	return NewFuncOption(func(options *CorrectorOptions) {
		options.MinWordLength = n
	})
}

func WithLogger(logger *zap.Logger) Options {
	return NewFuncOption(func(options *CorrectorOptions) {
		options.Logger = logger
	})
}
