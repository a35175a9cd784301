package compression

import "fmt"

// Clamping ranges for the numeric tunables.
const (
	MinThreadCount = 1
	MaxThreadCount = 16

	MinETC1SCompressionLevel = 0
	MaxETC1SCompressionLevel = 5
	MinETC1SQualityLevel     = 1
	MaxETC1SQualityLevel     = 255
	MinEndpointsSelectors    = 1
	MaxEndpointsSelectors    = 16128

	MinRDOQualityScalar = 0.001
	MaxRDOQualityScalar = 50.0
	MinRDODictSize      = 64
	MaxRDODictSize      = 65536
	MinSmoothErrorScale = 1.0
	MaxSmoothErrorScale = 300.0
	MinSmoothStdDev     = 0.01
	MaxSmoothStdDev     = 65536.0

	MinZLibLevel     = 1
	MaxZLibLevel     = 9
	DefaultZLibLevel = 7
	MinZstdLevel     = 1
	MaxZstdLevel     = 22
	DefaultZstdLevel = 17
)

// ETC1SParams tunes Basis Universal ETC1S/BasisLZ encoding.
type ETC1SParams struct {
	Verbose              *bool    `mapstructure:"verbose"`
	NoSSE                *bool    `mapstructure:"no_sse"`
	ThreadCount          *int     `mapstructure:"thread_count"`
	CompressionLevel     *int     `mapstructure:"compression_level"`
	QualityLevel         *int     `mapstructure:"quality_level"`
	MaxEndpoints         *int     `mapstructure:"max_endpoints"`
	EndpointRDOThreshold *float64 `mapstructure:"endpoint_rdo_threshold"`
	MaxSelectors         *int     `mapstructure:"max_selectors"`
	SelectorRDOThreshold *float64 `mapstructure:"selector_rdo_threshold"`
	InputSwizzle         *string  `mapstructure:"input_swizzle"`
	NormalMap            *bool    `mapstructure:"normal_map"`
	SeparateRGToRGBA     *bool    `mapstructure:"separate_rgt_to_rgba"`
	PreSwizzle           *bool    `mapstructure:"pre_swizzle"`
	NoEndpointRDO        *bool    `mapstructure:"no_endpoint_rdo"`
	NoSelectorRDO        *bool    `mapstructure:"no_selector_rdo"`
}

// Algorithm implements Params.
func (*ETC1SParams) Algorithm() Algorithm { return ETC1S }

func (p *ETC1SParams) normalize() {
	clampInt(p.ThreadCount, MinThreadCount, MaxThreadCount)
	clampInt(p.CompressionLevel, MinETC1SCompressionLevel, MaxETC1SCompressionLevel)
	clampInt(p.QualityLevel, MinETC1SQualityLevel, MaxETC1SQualityLevel)
	clampInt(p.MaxEndpoints, MinEndpointsSelectors, MaxEndpointsSelectors)
	clampInt(p.MaxSelectors, MinEndpointsSelectors, MaxEndpointsSelectors)
}

func (p *ETC1SParams) validate() error {
	return validateSwizzlePtr(p.InputSwizzle)
}

// UASTCParams tunes Basis Universal UASTC encoding.
type UASTCParams struct {
	Verbose      *bool   `mapstructure:"verbose"`
	NoSSE        *bool   `mapstructure:"no_sse"`
	ThreadCount  *int    `mapstructure:"thread_count"`
	InputSwizzle *string `mapstructure:"input_swizzle"`
	PreSwizzle   *bool   `mapstructure:"pre_swizzle"`
	// Flags is the raw ktx_pack_uastc_flags value; the low three bits hold the pack level.
	Flags *int `mapstructure:"uastc_flags"`
	// PackLevel, when set, replaces the pack level bits of Flags.
	PackLevel                   *PackLevel `mapstructure:"pack_level"`
	RDO                         *bool      `mapstructure:"uastc_rdo"`
	RDOQualityScalar            *float64   `mapstructure:"uastc_rdo_quality_scalar"`
	RDODictSize                 *int       `mapstructure:"uastc_rdo_dict_size"`
	RDOMaxSmoothBlockErrorScale *float64   `mapstructure:"uastc_rdo_max_smooth_block_error_scale"`
	RDOMaxSmoothBlockStdDev     *float64   `mapstructure:"uastc_rdo_max_smooth_block_std_dev"`
	RDODontFavorSimplerModes    *bool      `mapstructure:"uastc_rdo_dont_favor_simpler_modes"`
	RDONoMultithreading         *bool      `mapstructure:"uastc_rdo_no_multithreading"`
}

// Algorithm implements Params.
func (*UASTCParams) Algorithm() Algorithm { return UASTC }

func (p *UASTCParams) normalize() {
	clampInt(p.ThreadCount, MinThreadCount, MaxThreadCount)
	clampFloat(p.RDOQualityScalar, MinRDOQualityScalar, MaxRDOQualityScalar)
	clampInt(p.RDODictSize, MinRDODictSize, MaxRDODictSize)
	clampFloat(p.RDOMaxSmoothBlockErrorScale, MinSmoothErrorScale, MaxSmoothErrorScale)
	clampFloat(p.RDOMaxSmoothBlockStdDev, MinSmoothStdDev, MaxSmoothStdDev)
	if p.Flags != nil {
		if *p.Flags < 0 {
			*p.Flags = 0
		}
		if level := *p.Flags & packLevelMask; level > int(PackVerySlow) {
			*p.Flags = *p.Flags&^packLevelMask | int(PackVerySlow)
		}
	}
}

func (p *UASTCParams) validate() error {
	return validateSwizzlePtr(p.InputSwizzle)
}

// EffectiveFlags merges Flags and PackLevel. The second result is false when
// neither was supplied.
func (p *UASTCParams) EffectiveFlags() (uint32, bool) {
	if p.Flags == nil && p.PackLevel == nil {
		return 0, false
	}
	var flags uint32
	if p.Flags != nil {
		flags = uint32(*p.Flags) //nolint:gosec // clamped non-negative
	} else {
		flags = uint32(PackDefault)
	}
	if p.PackLevel != nil {
		flags = flags&^packLevelMask | uint32(*p.PackLevel)
	}
	return flags, true
}

// ASTCParams tunes ASTC block compression.
type ASTCParams struct {
	Verbose        *bool           `mapstructure:"verbose"`
	ThreadCount    *int            `mapstructure:"thread_count"`
	BlockDimension *BlockDimension `mapstructure:"block_dimension"`
	Mode           *EncoderMode    `mapstructure:"mode"`
	QualityLevel   *QualityLevel   `mapstructure:"quality_level"`
	NormalMap      *bool           `mapstructure:"normal_map"`
	Perceptual     *bool           `mapstructure:"perceptual"`
	InputSwizzle   *string         `mapstructure:"input_swizzle"`
}

// Algorithm implements Params.
func (*ASTCParams) Algorithm() Algorithm { return ASTC }

func (p *ASTCParams) normalize() {
	clampInt(p.ThreadCount, MinThreadCount, MaxThreadCount)
}

func (p *ASTCParams) validate() error {
	return validateSwizzlePtr(p.InputSwizzle)
}

// ZLibParams selects the ZLIB deflation level.
type ZLibParams struct {
	Level *int `mapstructure:"deflation_value"`
}

// Algorithm implements Params.
func (*ZLibParams) Algorithm() Algorithm { return ZLib }

func (p *ZLibParams) normalize() {
	if p.Level == nil {
		p.Level = Int(DefaultZLibLevel)
	}
	clampInt(p.Level, MinZLibLevel, MaxZLibLevel)
}

func (*ZLibParams) validate() error { return nil }

// DeflationLevel returns the level, falling back to the default.
func (p *ZLibParams) DeflationLevel() int {
	if p.Level == nil {
		return DefaultZLibLevel
	}
	return min(max(*p.Level, MinZLibLevel), MaxZLibLevel)
}

// ZstdParams selects the Zstandard deflation level.
type ZstdParams struct {
	Level *int `mapstructure:"deflation_value"`
}

// Algorithm implements Params.
func (*ZstdParams) Algorithm() Algorithm { return Zstd }

func (p *ZstdParams) normalize() {
	if p.Level == nil {
		p.Level = Int(DefaultZstdLevel)
	}
	clampInt(p.Level, MinZstdLevel, MaxZstdLevel)
}

func (*ZstdParams) validate() error { return nil }

// DeflationLevel returns the level, falling back to the default.
func (p *ZstdParams) DeflationLevel() int {
	if p.Level == nil {
		return DefaultZstdLevel
	}
	return min(max(*p.Level, MinZstdLevel), MaxZstdLevel)
}

// ValidateSwizzle accepts exactly four characters from {r,g,b,a,0,1}.
func ValidateSwizzle(s string) error {
	if len(s) != 4 {
		return fmt.Errorf("%w: %q must have 4 characters", ErrInvalidSwizzle, s)
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'r', 'g', 'b', 'a', '0', '1':
		default:
			return fmt.Errorf("%w: %q has %q at %d", ErrInvalidSwizzle, s, s[i], i)
		}
	}
	return nil
}

func validateSwizzlePtr(s *string) error {
	if s == nil {
		return nil
	}
	return ValidateSwizzle(*s)
}

func clampInt(v *int, lo, hi int) {
	if v != nil {
		*v = min(max(*v, lo), hi)
	}
}

func clampFloat(v *float64, lo, hi float64) {
	if v != nil {
		*v = min(max(*v, lo), hi)
	}
}
