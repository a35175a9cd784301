/*
Package compression models the texture compression configuration: which
algorithm the container pipeline applies and the optional tunables of each
algorithm.

Tunables are pointers; nil means the engine chooses. Numeric tunables outside
their supported range are clamped by Normalize rather than rejected.
*/
package compression

import (
	"fmt"
	"strings"
)

// Algorithm selects the container encoding.
type Algorithm int

const (
	// None leaves the texture uncompressed.
	None Algorithm = iota
	// ETC1S is Basis Universal with BasisLZ/ETC1S.
	ETC1S
	// UASTC is Basis Universal UASTC.
	UASTC
	// ASTC is native ASTC block compression.
	ASTC
	// ZLib is ZLIB supercompression of the raw level data.
	ZLib
	// Zstd is Zstandard supercompression of the raw level data.
	Zstd
)

var algorithmNames = [...]string{
	None:  "none",
	ETC1S: "BasisUniversalBasisLZETC1s",
	UASTC: "BasisUniversalUASTC",
	ASTC:  "ASTC",
	ZLib:  "ZLib",
	Zstd:  "Zstd",
}

var algorithmAliases = map[string]Algorithm{
	"none":                       None,
	"basisuniversalbasislzetc1s": ETC1S,
	"etc1s":                      ETC1S,
	"basislz":                    ETC1S,
	"basisuniversaluastc":        UASTC,
	"uastc":                      UASTC,
	"astc":                       ASTC,
	"zlib":                       ZLib,
	"zstd":                       Zstd,
}

func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// ParseAlgorithm accepts the long variant names and the short ones, case-insensitive.
func ParseAlgorithm(name string) (Algorithm, error) {
	a, ok := algorithmAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return None, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return a, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(text []byte) error {
	v, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Params is one algorithm-specific tunable record.
type Params interface {
	Algorithm() Algorithm
	normalize()
	validate() error
}

// Config is the tagged compression configuration.
type Config struct {
	Algorithm Algorithm
	Params    Params
	// Premultiply defaults to true when nil.
	Premultiply *bool
}

// Default returns ETC1S with four threads at compression level 4.
func Default() Config {
	return Config{
		Algorithm: ETC1S,
		Params: &ETC1SParams{
			ThreadCount:      Int(4),
			CompressionLevel: Int(4),
		},
	}
}

// Premultiplied reports whether colour channels are premultiplied before encoding.
func (c Config) Premultiplied() bool {
	return c.Premultiply == nil || *c.Premultiply
}

// Compressed reports whether the config asks for any encoding at all.
func (c Config) Compressed() bool {
	return c.Algorithm != None
}

// Normalize clamps every supplied numeric tunable into its supported range.
func (c *Config) Normalize() {
	if c.Params != nil {
		c.Params.normalize()
	}
}

// Validate checks that the discriminant and the record agree and that
// string tunables are well formed.
func (c Config) Validate() error {
	if c.Params == nil {
		if c.Algorithm == None {
			return nil
		}
		return fmt.Errorf("%w: %s has no parameter record", ErrAlgorithmMismatch, c.Algorithm)
	}
	if got := c.Params.Algorithm(); got != c.Algorithm {
		return fmt.Errorf("%w: config_type %s, record %s", ErrAlgorithmMismatch, c.Algorithm, got)
	}
	return c.Params.validate()
}

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
