package batch

import (
	"log/slog"

	"github.com/woozymasta/gputex/ktx"
)

// ProgressFunc receives the number of finished jobs out of total. It is
// called from worker goroutines and must be safe for concurrent use.
type ProgressFunc func(done, total int)

type options struct {
	engine   ktx.Engine
	logger   *slog.Logger
	progress ProgressFunc
}

// Option configures a Runner.
type Option interface {
	apply(*options)
}

type funcOpt func(*options)

func (f funcOpt) apply(o *options) {
	f(o)
}

// WithEngine sets the texture engine of the container pipeline
// (default: the pure-Go soft engine).
func WithEngine(e ktx.Engine) Option {
	return funcOpt(func(o *options) {
		o.engine = e
	})
}

// WithLogger overrides the package logger for this runner.
func WithLogger(l *slog.Logger) Option {
	return funcOpt(func(o *options) {
		o.logger = l
	})
}

// WithProgress registers fn for progress updates, issued at roughly every
// 5% of completed jobs when the configuration is verbose.
func WithProgress(fn ProgressFunc) Option {
	return funcOpt(func(o *options) {
		o.progress = fn
	})
}
