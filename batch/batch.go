// Package batch converts every image under a source directory in parallel
// with a bounded worker pool.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/zhangyunhao116/skipmap"
	"golang.org/x/sync/errgroup"

	"github.com/woozymasta/gputex/config"
	"github.com/woozymasta/gputex/convert"
	"github.com/woozymasta/gputex/internal/logging"
	"github.com/woozymasta/gputex/ktx"
	"github.com/woozymasta/gputex/ktx/soft"
)

// Failure is one file that could not be converted.
type Failure struct {
	Err  error
	Path string
}

// Report summarizes a run. Failures are sorted by path.
type Report struct {
	Failures  []Failure
	Total     int
	Converted int
	// Skipped counts files never started because a strict run stopped early.
	Skipped int
}

// Runner converts the files selected by a configuration.
type Runner struct {
	cfg      *config.Config
	conv     convert.Converter
	log      *slog.Logger
	progress ProgressFunc
}

// New validates cfg and prepares the pipeline it selects. It fails when the
// container pipeline's engine cannot run the configured algorithm.
func New(cfg *config.Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt.apply(&o)
	}
	if o.logger == nil {
		o.logger = logging.Logger()
	}
	if o.engine == nil {
		o.engine = soft.New()
	}

	copts := convert.Options{
		FromDir:        cfg.FromDirectory,
		ToDir:          cfg.ToDirectory,
		Compression:    cfg.Compression,
		BlockContainer: cfg.BlockContainer,
		DeleteOriginal: cfg.DeleteOriginalImages,
	}

	var conv convert.Converter
	switch cfg.CompressionContainer {
	case config.ContainerKTX:
		if alg := cfg.Compression.Algorithm; !ktx.Supports(o.engine, alg) {
			return nil, fmt.Errorf("%w: %s is not available in this engine; build with -tags ktx_native for libktx", config.ErrValidation, alg)
		}
		conv = convert.NewContainerPipeline(o.engine, copts)
	case config.ContainerDXT:
		conv = convert.NewBlockPipeline(copts)
	default:
		return nil, fmt.Errorf("%w: compression_container %s", config.ErrValidation, cfg.CompressionContainer)
	}

	return &Runner{cfg: cfg, conv: conv, log: o.logger, progress: o.progress}, nil
}

// Run discovers and converts every file. With skip_errors each failure is
// logged and the run continues; otherwise the first failure is returned
// once in-flight jobs finish, and jobs not yet started are skipped.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	paths, err := Discover(r.cfg.FromDirectory, r.cfg.IgnoreList)
	if err != nil {
		return nil, fmt.Errorf("discovering images: %w", err)
	}

	total := len(paths)
	dups := collisions(paths)
	if r.cfg.Verbose {
		r.log.Info("images to be processed", "total", total, "container", r.cfg.CompressionContainer.String(), "threads", r.cfg.NumberOfThreads)
	}

	var (
		failures  = skipmap.NewString[error]()
		done      atomic.Int64
		converted atomic.Int64
		step      = int64(max(total/20, 1))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.NumberOfThreads)

	for _, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			var err error
			if first, ok := dups[path]; ok {
				err = &convert.ConversionError{Path: path, Err: fmt.Errorf("%w: %s", convert.ErrOutputCollision, first)}
			} else {
				err = r.conv.Convert(path)
			}
			r.tick(done.Add(1), step, total)
			if err == nil {
				converted.Add(1)
				return nil
			}

			failures.Store(path, err)
			r.log.Error("failed to convert", "path", path, "error", err)
			if r.cfg.SkipErrors {
				return nil
			}
			return err
		})
	}
	werr := g.Wait()

	report := &Report{
		Total:     total,
		Converted: int(converted.Load()),
		Skipped:   total - int(done.Load()),
		Failures:  make([]Failure, 0, failures.Len()),
	}
	failures.Range(func(path string, err error) bool {
		report.Failures = append(report.Failures, Failure{Path: path, Err: err})
		return true
	})

	if werr != nil {
		return report, werr
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (r *Runner) tick(n, step int64, total int) {
	if !r.cfg.Verbose || (n%step != 0 && int(n) != total) {
		return
	}
	r.log.Info("progress", "percent", n*100/int64(total), "done", n, "total", total)
	if r.progress != nil {
		r.progress(int(n), total)
	}
}
