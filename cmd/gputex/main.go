// Command gputex converts a directory of images into KTX2 containers or
// BC1/BC3 blobs.
//
// Usage:
//
//	gputex compress [-c config.json] [-d dir] [-t threads] [-engine auto|soft|native] [-v]
//	gputex config [-validate] config.yaml
//	gputex inspect file.ktx|file.dxt1
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/woozymasta/gputex/batch"
	"github.com/woozymasta/gputex/config"
	"github.com/woozymasta/gputex/dxt"
	"github.com/woozymasta/gputex/internal/logging"
	"github.com/woozymasta/gputex/ktx"
	"github.com/woozymasta/gputex/ktx/native"
	"github.com/woozymasta/gputex/ktx/soft"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "compress":
		err = compressCmd(os.Args[2:])
	case "config":
		err = configCmd(os.Args[2:])
	case "inspect":
		err = inspectCmd(os.Args[2:])
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "gputex:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  gputex compress [-c config.json|yaml] [-d dir] [-t threads] [-engine auto|soft|native] [-v]")
	fmt.Fprintln(os.Stderr, "  gputex config [-validate] <config.json|yaml>")
	fmt.Fprintln(os.Stderr, "  gputex inspect <file.ktx|blob>")
}

func setupLogger(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	if os.Getenv("GPUTEX_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func selectEngine(name string) (ktx.Engine, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		if native.Enabled() {
			return nativeEngine()
		}
		return soft.New(), nil
	case "soft":
		return soft.New(), nil
	case "native":
		return nativeEngine()
	default:
		return nil, fmt.Errorf("unknown engine %q (want auto, soft or native)", name)
	}
}

func nativeEngine() (ktx.Engine, error) {
	e, err := native.New()
	if err != nil {
		return nil, err
	}
	return e, nil
}

func compressCmd(args []string) error {
	fs := flag.NewFlagSet("compress", flag.ExitOnError)
	var (
		cfgPath string
		dir     string
		threads int
		engine  string
		verbose bool
	)
	fs.StringVar(&cfgPath, "c", "", "configuration file (.json, .yaml, .yml)")
	fs.StringVar(&dir, "d", "", "source directory, overrides from_directory")
	fs.IntVar(&threads, "t", 0, "worker threads 1..20, overrides number_of_threads")
	fs.StringVar(&engine, "engine", "auto", "texture engine: auto|soft|native (native requires -tags ktx_native)")
	fs.BoolVar(&verbose, "v", false, "report progress, overrides verbose")
	_ = fs.Parse(args)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	if dir != "" {
		cfg.FromDirectory = dir
	}
	if threads != 0 {
		cfg.NumberOfThreads = config.ClampThreads(threads)
	}
	cfg.Verbose = cfg.Verbose || verbose
	setupLogger(cfg.Verbose)

	eng, err := selectEngine(engine)
	if err != nil {
		return err
	}

	runner, err := batch.New(cfg, batch.WithEngine(eng))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := runner.Run(ctx)
	if report != nil {
		fmt.Fprintf(os.Stderr, "converted %d of %d images", report.Converted, report.Total)
		if n := len(report.Failures); n > 0 {
			fmt.Fprintf(os.Stderr, ", %d failed", n)
		}
		if report.Skipped > 0 {
			fmt.Fprintf(os.Stderr, ", %d skipped", report.Skipped)
		}
		fmt.Fprintln(os.Stderr)
	}
	return err
}

func configCmd(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	validate := fs.Bool("validate", false, "also check directories (creates to_directory)")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	if *validate {
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	fmt.Printf("from_directory:         %s\n", cfg.FromDirectory)
	fmt.Printf("to_directory:           %s\n", cfg.ToDirectory)
	fmt.Printf("compression_container:  %s\n", cfg.CompressionContainer)
	fmt.Printf("block_container:        %s\n", cfg.BlockContainer)
	fmt.Printf("number_of_threads:      %d\n", cfg.NumberOfThreads)
	fmt.Printf("skip_errors:            %t\n", cfg.SkipErrors)
	fmt.Printf("delete_original_images: %t\n", cfg.DeleteOriginalImages)
	fmt.Printf("ignore_list:            %s\n", strings.Join(cfg.IgnoreList, ", "))
	fmt.Printf("compression:            %s (premultiply %t)\n", cfg.Compression.Algorithm, cfg.Compression.Premultiplied())
	return nil
}

func inspectCmd(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	path := fs.Arg(0)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ktx", ".ktx2":
		return inspectKTX(path)
	default:
		return inspectBlob(path)
	}
}

func inspectKTX(path string) error {
	f, err := soft.ReadFile(path)
	if err != nil {
		return err
	}

	h := f.Header
	fmt.Printf("file:              %s\n", path)
	fmt.Printf("vkFormat:          %d\n", h.VkFormat)
	fmt.Printf("size:              %dx%d\n", h.PixelWidth, h.PixelHeight)
	fmt.Printf("levels:            %d\n", h.LevelCount)
	fmt.Printf("supercompression:  %s\n", schemeName(h.SupercompressionScheme))
	fmt.Printf("level bytes:       %d\n", len(f.Level))
	if w, ok := f.KeyValues["KTXwriter"]; ok {
		fmt.Printf("writer:            %s\n", w)
	}
	return nil
}

func schemeName(s uint32) string {
	switch s {
	case soft.SchemeNone:
		return "none"
	case soft.SchemeBasisLZ:
		return "BasisLZ"
	case soft.SchemeZstd:
		return "Zstandard"
	case soft.SchemeZLIB:
		return "ZLIB"
	default:
		return fmt.Sprintf("scheme(%d)", s)
	}
}

func inspectBlob(path string) error {
	blob, container, err := dxt.ReadBlob(path)
	if err != nil {
		if errors.Is(err, dxt.ErrOpenFile) && !strings.HasSuffix(path, dxt.SidecarSuffix) {
			return fmt.Errorf("%w (raw blobs need %s)", err, filepath.Base(dxt.SidecarPath(path)))
		}
		return err
	}

	img, err := blob.Image()
	if err != nil {
		return err
	}

	fmt.Printf("file:           %s\n", path)
	fmt.Printf("container:      %s\n", container)
	fmt.Printf("codec:          %s (%s)\n", blob.Codec, blob.Codec.Extension(blob.Premultiplied))
	fmt.Printf("size:           %dx%d\n", blob.Width, blob.Height)
	fmt.Printf("premultiplied:  %t\n", blob.Premultiplied)
	fmt.Printf("payload bytes:  %d\n", len(blob.Data))
	fmt.Printf("decoded bounds: %v\n", img.Bounds())
	return nil
}
