package batch

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/woozymasta/gputex/compression"
	"github.com/woozymasta/gputex/config"
	"github.com/woozymasta/gputex/convert"
	"github.com/woozymasta/gputex/dxt"
	"github.com/woozymasta/gputex/ktx/soft"
)

func writePNG(t *testing.T, path string, transparent bool) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 50), G: uint8(y * 50), B: 90, A: 255})
		}
	}
	if transparent {
		img.SetNRGBA(3, 3, color.NRGBA{})
	}

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func touch(t *testing.T, path string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func testConfig(t *testing.T, src string) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.FromDirectory = src
	cfg.Compression = compression.Config{Algorithm: compression.Zstd, Params: &compression.ZstdParams{}}
	return cfg
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, p := range []string{
		"a.png", "b.JPG", "c.jpeg", "d.bmp", "e.tif", "f.TIFF", "g.webp",
		"notes.txt", "image.ktx",
		"cache/x.png", "nested/cache/y.png",
		"nested/skip.png", "other/skip.png", "other/kip.png",
		"deep/tree/z.png", "deep/treehouse/w.png",
	} {
		touch(t, filepath.Join(root, filepath.FromSlash(p)))
	}

	got, err := Discover(root, []string{"cache", "skip.png", filepath.Join("deep", "tree")})
	require.NoError(t, err)

	want := []string{
		"a.png", "b.JPG", "c.jpeg", "d.bmp",
		"deep/treehouse/w.png",
		"e.tif", "f.TIFF", "g.webp",
		"nested/cache/y.png",
		"other/kip.png",
	}
	for i := range want {
		want[i] = filepath.Join(root, filepath.FromSlash(want[i]))
	}
	require.Equal(t, want, got)
}

func TestDiscoverAbsoluteIgnore(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	touch(t, filepath.Join(root, "keep", "a.png"))
	touch(t, filepath.Join(root, "drop", "b.png"))

	got, err := Discover(root, []string{filepath.Join(root, "drop"), "  "})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "keep", "a.png")}, got)
}

func TestDiscoverMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Discover(filepath.Join(t.TempDir(), "missing"), nil)
	require.Error(t, err)
}

func TestNewRejectsUnsupportedAlgorithm(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.FromDirectory = t.TempDir()

	_, err := New(cfg, WithEngine(soft.New()))
	require.ErrorIs(t, err, config.ErrValidation)

	cfg.CompressionContainer = config.ContainerDXT
	_, err = New(cfg)
	require.NoError(t, err)
}

func TestNewRejectsBadDirectory(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.FromDirectory = filepath.Join(t.TempDir(), "missing")

	_, err := New(cfg)
	require.ErrorIs(t, err, config.ErrValidation)
}

func TestRunBlockEndToEnd(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writePNG(t, filepath.Join(src, "opaque.png"), false)
	writePNG(t, filepath.Join(src, "alpha.png"), true)

	cfg := testConfig(t, src)
	cfg.CompressionContainer = config.ContainerDXT
	cfg.Compression = compression.Default()

	r, err := New(cfg)
	require.NoError(t, err)

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, report.Total)
	require.Equal(t, 2, report.Converted)
	require.Empty(t, report.Failures)

	for _, blob := range []string{"opaque.dxt1", "alpha.dxt4"} {
		meta, err := dxt.ReadMetadata(filepath.Join(src, blob))
		require.NoError(t, err)
		require.Equal(t, 4, meta.Width)
		require.Equal(t, 4, meta.Height)
	}
}

func TestRunSkipErrors(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := t.TempDir()
	for i := 0; i < 9; i++ {
		writePNG(t, filepath.Join(src, "dir", string(rune('a'+i))+".png"), i%2 == 0)
	}
	bad := filepath.Join(src, "corrupt.png")
	require.NoError(t, os.WriteFile(bad, []byte("garbage"), 0o644))

	cfg := testConfig(t, src)
	cfg.ToDirectory = dst
	cfg.SkipErrors = true
	cfg.NumberOfThreads = 3

	r, err := New(cfg)
	require.NoError(t, err)

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 10, report.Total)
	require.Equal(t, 9, report.Converted)
	require.Zero(t, report.Skipped)
	require.Len(t, report.Failures, 1)
	require.Equal(t, bad, report.Failures[0].Path)

	var ce *convert.ConversionError
	require.ErrorAs(t, report.Failures[0].Err, &ce)

	outs, err := os.ReadDir(filepath.Join(dst, "dir"))
	require.NoError(t, err)
	require.Len(t, outs, 9)
	for _, e := range outs {
		_, err := soft.ReadFile(filepath.Join(dst, "dir", e.Name()))
		require.NoError(t, err)
	}
}

func TestRunStrictStopsEarly(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	bad := filepath.Join(src, "0-corrupt.png")
	require.NoError(t, os.WriteFile(bad, []byte("garbage"), 0o644))
	for i := 0; i < 5; i++ {
		writePNG(t, filepath.Join(src, string(rune('a'+i))+".png"), false)
	}

	cfg := testConfig(t, src)
	cfg.NumberOfThreads = 1

	r, err := New(cfg)
	require.NoError(t, err)

	report, err := r.Run(context.Background())
	var ce *convert.ConversionError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, bad, ce.Path)

	require.Equal(t, 6, report.Total)
	require.Zero(t, report.Converted)
	require.Equal(t, 5, report.Skipped)
	require.Len(t, report.Failures, 1)
}

func TestRunProgress(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	for i := 0; i < 4; i++ {
		writePNG(t, filepath.Join(src, string(rune('a'+i))+".png"), false)
	}

	cfg := testConfig(t, src)
	cfg.Verbose = true

	var (
		mu     sync.Mutex
		calls  []int
		totals []int
	)
	r, err := New(cfg, WithProgress(func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, done)
		totals = append(totals, total)
	}))
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.NoError(t, err)
	require.ElementsMatch(t, []int{1, 2, 3, 4}, calls)
	require.Equal(t, []int{4, 4, 4, 4}, totals)
}

func TestRunProgressEveryTwentieth(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	for i := 0; i < 40; i++ {
		writePNG(t, filepath.Join(src, "img"+strconv.Itoa(i)+".png"), false)
	}

	cfg := testConfig(t, src)
	cfg.Verbose = true
	cfg.NumberOfThreads = 4

	var (
		mu    sync.Mutex
		calls []int
	)
	r, err := New(cfg, WithProgress(func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, done)
	}))
	require.NoError(t, err)

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 40, report.Converted)

	// step is 40/20 = 2, so only even counts report
	require.Len(t, calls, 20)
	slices.Sort(calls)
	for i, done := range calls {
		require.Equal(t, 2*(i+1), done)
	}
	require.Equal(t, 40, calls[len(calls)-1])
}

func TestCollisions(t *testing.T) {
	t.Parallel()

	paths := []string{
		filepath.Join("a", "x.png"),
		"b.jpg",
		"b.png",
		"b.webp",
		"c.png",
	}
	require.Equal(t, map[string]string{
		"b.png":  "b.jpg",
		"b.webp": "b.jpg",
	}, collisions(paths))
}

func TestRunOutputCollision(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writePNG(t, filepath.Join(src, "a.png"), false)
	touch(t, filepath.Join(src, "a.webp"))
	writePNG(t, filepath.Join(src, "b.png"), false)

	cfg := testConfig(t, src)
	cfg.SkipErrors = true

	r, err := New(cfg)
	require.NoError(t, err)

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, report.Total)
	require.Equal(t, 2, report.Converted)
	require.Len(t, report.Failures, 1)

	f := report.Failures[0]
	require.Equal(t, filepath.Join(src, "a.webp"), f.Path)
	require.ErrorIs(t, f.Err, convert.ErrOutputCollision)
	var ce *convert.ConversionError
	require.ErrorAs(t, f.Err, &ce)

	// the first input keeps its output
	_, err = soft.ReadFile(filepath.Join(src, "a.ktx"))
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(src, "a.webp"))
}

func TestRunOutputCollisionStrict(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writePNG(t, filepath.Join(src, "a.png"), false)
	writePNG(t, filepath.Join(src, "a.tif"), false)

	cfg := testConfig(t, src)
	cfg.NumberOfThreads = 1

	r, err := New(cfg)
	require.NoError(t, err)

	report, err := r.Run(context.Background())
	require.ErrorIs(t, err, convert.ErrOutputCollision)
	require.Equal(t, 1, report.Converted)
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writePNG(t, filepath.Join(src, "a.png"), false)

	r, err := New(testConfig(t, src))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := r.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, report.Skipped)
	require.FileExists(t, filepath.Join(src, "a.png"))
	require.NoFileExists(t, filepath.Join(src, "a.ktx"))
}
