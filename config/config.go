// Package config loads and validates the run configuration of a batch
// conversion from JSON or YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/gputex/compression"
	"github.com/woozymasta/gputex/dxt"
)

const (
	// MinThreads and MaxThreads bound number_of_threads.
	MinThreads = 1
	MaxThreads = 20
	// DefaultThreads is used when number_of_threads is absent.
	DefaultThreads = 4
)

// ErrValidation marks every configuration problem; a run never starts
// with an invalid configuration.
var ErrValidation = errors.New("invalid configuration")

// Container selects the conversion pipeline.
type Container int

const (
	// ContainerKTX writes KTX2 containers.
	ContainerKTX Container = iota
	// ContainerDXT writes BC1/BC3 blobs with JSON sidecars.
	ContainerDXT
)

// ParseContainer accepts ktx/container and dxt/block, case-insensitive.
func ParseContainer(s string) (Container, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ktx", "ktx2", "container":
		return ContainerKTX, nil
	case "dxt", "block":
		return ContainerDXT, nil
	default:
		return 0, fmt.Errorf("%w: compression_container %q", ErrValidation, s)
	}
}

func (c Container) String() string {
	switch c {
	case ContainerKTX:
		return "ktx"
	case ContainerDXT:
		return "dxt"
	default:
		return fmt.Sprintf("Container(%d)", int(c))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Container) UnmarshalText(text []byte) error {
	v, err := ParseContainer(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Config is the run configuration.
type Config struct {
	// Compression is decoded from compression_config.
	Compression compression.Config

	FromDirectory string
	// ToDirectory is optional; empty writes outputs next to their sources.
	ToDirectory string
	IgnoreList  []string

	CompressionContainer Container
	BlockContainer       dxt.Container
	NumberOfThreads      int

	DeleteOriginalImages bool
	SkipErrors           bool
	Verbose              bool
}

// document mirrors the file layout; pointers tell absent keys apart.
type document struct {
	FromDirectory        *string        `mapstructure:"from_directory"`
	ToDirectory          *string        `mapstructure:"to_directory"`
	DeleteOriginalImages *bool          `mapstructure:"delete_original_images"`
	IgnoreList           []string       `mapstructure:"ignore_list"`
	CompressionContainer *Container     `mapstructure:"compression_container"`
	BlockContainer       *dxt.Container `mapstructure:"block_container"`
	NumberOfThreads      *int           `mapstructure:"number_of_threads"`
	SkipErrors           *bool          `mapstructure:"skip_errors"`
	Verbose              *bool          `mapstructure:"verbose"`
	CompressionConfig    map[string]any `mapstructure:"compression_config"`
}

// Default returns the configuration used when no file is given: the
// current directory converted in place to ETC1S KTX2 with four threads.
func Default() *Config {
	return &Config{
		FromDirectory:        ".",
		CompressionContainer: ContainerKTX,
		BlockContainer:       dxt.ContainerRaw,
		NumberOfThreads:      DefaultThreads,
		Compression:          compression.Default(),
	}
}

// Load reads path as JSON, or YAML when the extension is .yaml or .yml.
// Directories are not checked here; call Validate once overrides are applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	raw := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrValidation, filepath.Base(path), err)
	}

	return Parse(raw)
}

// Parse builds a Config from a generic document. Absent keys keep their
// defaults and number_of_threads is clamped to [MinThreads, MaxThreads].
func Parse(raw map[string]any) (*Config, error) {
	var doc document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.TextUnmarshallerHookFunc(),
		ErrorUnused: true,
		Result:      &doc,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	cfg := Default()
	setString(&cfg.FromDirectory, doc.FromDirectory)
	setString(&cfg.ToDirectory, doc.ToDirectory)
	setBool(&cfg.DeleteOriginalImages, doc.DeleteOriginalImages)
	setBool(&cfg.SkipErrors, doc.SkipErrors)
	setBool(&cfg.Verbose, doc.Verbose)
	if doc.IgnoreList != nil {
		cfg.IgnoreList = doc.IgnoreList
	}
	if doc.CompressionContainer != nil {
		cfg.CompressionContainer = *doc.CompressionContainer
	}
	if doc.BlockContainer != nil {
		cfg.BlockContainer = *doc.BlockContainer
	}
	if doc.NumberOfThreads != nil {
		cfg.NumberOfThreads = ClampThreads(*doc.NumberOfThreads)
	}

	cc, err := compression.Decode(doc.CompressionConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: compression_config: %w", ErrValidation, err)
	}
	cfg.Compression = cc

	return cfg, nil
}

// ClampThreads bounds n to [MinThreads, MaxThreads].
func ClampThreads(n int) int {
	return min(max(n, MinThreads), MaxThreads)
}

// Validate canonicalizes the directories, creating ToDirectory when it is
// missing, and checks the remaining fields. It is safe to call repeatedly.
func (c *Config) Validate() error {
	from, err := canonical(c.FromDirectory)
	if err != nil {
		return fmt.Errorf("%w: from_directory: %w", ErrValidation, err)
	}
	info, err := os.Stat(from)
	if err != nil {
		return fmt.Errorf("%w: from_directory: %w", ErrValidation, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: from_directory %q is not a directory", ErrValidation, from)
	}
	c.FromDirectory = from

	if c.ToDirectory != "" {
		if err := os.MkdirAll(c.ToDirectory, 0o755); err != nil {
			return fmt.Errorf("%w: to_directory does not exist and could not be created: %w", ErrValidation, err)
		}
		to, err := canonical(c.ToDirectory)
		if err != nil {
			return fmt.Errorf("%w: to_directory: %w", ErrValidation, err)
		}
		c.ToDirectory = to
	}

	c.NumberOfThreads = ClampThreads(c.NumberOfThreads)

	switch c.CompressionContainer {
	case ContainerKTX, ContainerDXT:
	default:
		return fmt.Errorf("%w: compression_container %s", ErrValidation, c.CompressionContainer)
	}
	switch c.BlockContainer {
	case dxt.ContainerRaw, dxt.ContainerDDS, dxt.ContainerEDDS:
	default:
		return fmt.Errorf("%w: block_container %s", ErrValidation, c.BlockContainer)
	}

	c.Compression.Normalize()
	if err := c.Compression.Validate(); err != nil {
		return fmt.Errorf("%w: compression_config: %w", ErrValidation, err)
	}
	return nil
}

func canonical(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func setString(dst, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst, src *bool) {
	if src != nil {
		*dst = *src
	}
}
