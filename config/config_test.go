package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/woozymasta/gputex/compression"
	"github.com/woozymasta/gputex/dxt"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.Equal(t, ".", cfg.FromDirectory)
	require.Empty(t, cfg.ToDirectory)
	require.Equal(t, ContainerKTX, cfg.CompressionContainer)
	require.Equal(t, dxt.ContainerRaw, cfg.BlockContainer)
	require.Equal(t, DefaultThreads, cfg.NumberOfThreads)
	require.False(t, cfg.SkipErrors)
	require.False(t, cfg.Verbose)
	require.False(t, cfg.DeleteOriginalImages)
	require.Equal(t, compression.ETC1S, cfg.Compression.Algorithm)
	require.True(t, cfg.Compression.Premultiplied())
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	path := writeFile(t, "config.json", `{
		"from_directory": "`+filepath.ToSlash(src)+`",
		"delete_original_images": true,
		"ignore_list": ["cache", "notes.txt"],
		"compression_container": "DXT",
		"block_container": "edds",
		"number_of_threads": 8,
		"skip_errors": true,
		"verbose": true,
		"compression_config": {
			"config_type": "ZLib",
			"config": {"ZLib": {"deflation_value": 5}},
			"premultiply": false
		}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ContainerDXT, cfg.CompressionContainer)
	require.Equal(t, dxt.ContainerEDDS, cfg.BlockContainer)
	require.Equal(t, 8, cfg.NumberOfThreads)
	require.Equal(t, []string{"cache", "notes.txt"}, cfg.IgnoreList)
	require.True(t, cfg.DeleteOriginalImages)
	require.True(t, cfg.SkipErrors)
	require.True(t, cfg.Verbose)
	require.False(t, cfg.Compression.Premultiplied())

	zl, ok := cfg.Compression.Params.(*compression.ZLibParams)
	require.True(t, ok)
	require.Equal(t, 5, zl.DeflationLevel())

	require.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "config.yaml", `
compression_container: container
number_of_threads: 99
compression_config:
  config_type: ASTC
  config:
    astc:
      block_dimension: 6x6
      quality_level: 60
      thread_count: 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ContainerKTX, cfg.CompressionContainer)
	require.Equal(t, MaxThreads, cfg.NumberOfThreads)
	require.Equal(t, compression.ASTC, cfg.Compression.Algorithm)

	astc, ok := cfg.Compression.Params.(*compression.ASTCParams)
	require.True(t, ok)
	require.NotNil(t, astc.QualityLevel)
	require.EqualValues(t, 60, *astc.QualityLevel)
}

func TestClampThreads(t *testing.T) {
	t.Parallel()

	tests := map[int]int{-3: 1, 0: 1, 1: 1, 4: 4, 20: 20, 21: 20, 255: 20}
	for in, want := range tests {
		require.Equal(t, want, ClampThreads(in), "ClampThreads(%d)", in)
	}

	cfg, err := Parse(map[string]any{"number_of_threads": 0})
	require.NoError(t, err)
	require.Equal(t, 1, cfg.NumberOfThreads)
}

func TestParseRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  map[string]any
	}{
		{name: "unknown-key", raw: map[string]any{"from_dir": "."}},
		{name: "container", raw: map[string]any{"compression_container": "png"}},
		{name: "block-container", raw: map[string]any{"block_container": "zip"}},
		{name: "threads-type", raw: map[string]any{"number_of_threads": "many"}},
		{name: "swizzle", raw: map[string]any{"compression_config": map[string]any{
			"config_type": "etc1s",
			"config":      map[string]any{"etc1s": map[string]any{"input_swizzle": "rgbx"}},
		}}},
		{name: "mismatch", raw: map[string]any{"compression_config": map[string]any{
			"config_type": "Zstd",
			"config":      map[string]any{"ZLib": map[string]any{}},
		}}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tc.raw)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, ErrValidation)

	_, err = Load(writeFile(t, "bad.json", `{"verbose": `))
	require.ErrorIs(t, err, ErrValidation)

	_, err = Load(writeFile(t, "bad.yml", "verbose: [\n"))
	require.ErrorIs(t, err, ErrValidation)
}

func TestValidateDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	file := filepath.Join(root, "file.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	cfg := Default()
	cfg.FromDirectory = filepath.Join(root, "missing")
	require.ErrorIs(t, cfg.Validate(), ErrValidation)

	cfg = Default()
	cfg.FromDirectory = file
	require.ErrorIs(t, cfg.Validate(), ErrValidation)

	cfg = Default()
	cfg.FromDirectory = root
	cfg.ToDirectory = filepath.Join(root, "out", "nested")
	cfg.NumberOfThreads = 50
	require.NoError(t, cfg.Validate())
	require.DirExists(t, cfg.ToDirectory)
	require.True(t, filepath.IsAbs(cfg.FromDirectory))
	require.Equal(t, MaxThreads, cfg.NumberOfThreads)
}

func TestContainerNames(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Container{"ktx": ContainerKTX, "KTX": ContainerKTX, "container": ContainerKTX, "dxt": ContainerDXT, "DXT": ContainerDXT, "block": ContainerDXT} {
		got, err := ParseContainer(in)
		require.NoError(t, err)
		require.Equal(t, want, got, in)
	}
}
