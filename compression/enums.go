package compression

import (
	"fmt"
	"strconv"
	"strings"
)

// enumTable maps short names to libktx codes. Canonical names are the
// short name behind prefix.
type enumTable struct {
	kind   string
	prefix string
	names  []string
	codes  []uint32
}

func (t enumTable) name(code uint32) (string, bool) {
	for i, c := range t.codes {
		if c == code {
			return t.names[i], true
		}
	}
	return "", false
}

func (t enumTable) parse(text string) (uint32, error) {
	s := strings.TrimSpace(text)
	if n, err := strconv.ParseUint(s, 10, 32); err == nil {
		if _, ok := t.name(uint32(n)); ok {
			return uint32(n), nil
		}
		return 0, fmt.Errorf("%w: %s code %d", ErrInvalidEnum, t.kind, n)
	}
	short := s
	if len(s) > len(t.prefix) && strings.EqualFold(s[:len(t.prefix)], t.prefix) {
		short = s[len(t.prefix):]
	}
	for i, n := range t.names {
		if strings.EqualFold(n, short) {
			return t.codes[i], nil
		}
	}
	return 0, fmt.Errorf("%w: %s %q", ErrInvalidEnum, t.kind, text)
}

func (t enumTable) format(code uint32) string {
	if n, ok := t.name(code); ok {
		return t.prefix + n
	}
	return fmt.Sprintf("%s(%d)", t.kind, code)
}

// BlockDimension is ktx_pack_astc_block_dimension_e.
type BlockDimension uint32

var blockDimensions = enumTable{
	kind:   "block_dimension",
	prefix: "KTX_PACK_ASTC_BLOCK_DIMENSION_",
	names: []string{
		"4x4", "5x4", "5x5", "6x5", "6x6", "8x5", "8x6", "10x5", "10x6", "8x8",
		"10x8", "10x10", "12x10", "12x12",
		"3x3x3", "4x3x3", "4x4x3", "4x4x4", "5x4x4", "5x5x4", "5x5x5", "6x5x5", "6x6x5", "6x6x6",
	},
	codes: []uint32{
		0, 1, 2, 3, 4, 5, 6, 7, 8, 9,
		10, 11, 12, 13,
		14, 15, 16, 17, 18, 19, 20, 21, 22, 23,
	},
}

// ParseBlockDimension accepts "4x4", "KTX_PACK_ASTC_BLOCK_DIMENSION_4x4" or "0".
func ParseBlockDimension(s string) (BlockDimension, error) {
	v, err := blockDimensions.parse(s)
	return BlockDimension(v), err
}

func (d BlockDimension) String() string { return blockDimensions.format(uint32(d)) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *BlockDimension) UnmarshalText(b []byte) error {
	v, err := ParseBlockDimension(string(b))
	if err == nil {
		*d = v
	}
	return err
}

// EncoderMode is ktx_pack_astc_encoder_mode_e.
type EncoderMode uint32

const (
	ModeDefault EncoderMode = iota
	ModeLDR
	ModeHDR
)

var encoderModes = enumTable{
	kind:   "mode",
	prefix: "KTX_PACK_ASTC_ENCODER_MODE_",
	names:  []string{"DEFAULT", "LDR", "HDR"},
	codes:  []uint32{0, 1, 2},
}

// ParseEncoderMode accepts "LDR", "KTX_PACK_ASTC_ENCODER_MODE_LDR" or "1".
func ParseEncoderMode(s string) (EncoderMode, error) {
	v, err := encoderModes.parse(s)
	return EncoderMode(v), err
}

func (m EncoderMode) String() string { return encoderModes.format(uint32(m)) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *EncoderMode) UnmarshalText(b []byte) error {
	v, err := ParseEncoderMode(string(b))
	if err == nil {
		*m = v
	}
	return err
}

// QualityLevel is ktx_pack_astc_quality_levels_e.
type QualityLevel uint32

const (
	QualityFastest    QualityLevel = 0
	QualityFast       QualityLevel = 10
	QualityMedium     QualityLevel = 60
	QualityThorough   QualityLevel = 98
	QualityExhaustive QualityLevel = 100
)

var qualityLevels = enumTable{
	kind:   "quality_level",
	prefix: "KTX_PACK_ASTC_QUALITY_LEVEL_",
	names:  []string{"FASTEST", "FAST", "MEDIUM", "THOROUGH", "EXHAUSTIVE"},
	codes:  []uint32{0, 10, 60, 98, 100},
}

// ParseQualityLevel accepts "MEDIUM", "KTX_PACK_ASTC_QUALITY_LEVEL_MEDIUM" or "60".
func ParseQualityLevel(s string) (QualityLevel, error) {
	v, err := qualityLevels.parse(s)
	return QualityLevel(v), err
}

func (q QualityLevel) String() string { return qualityLevels.format(uint32(q)) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *QualityLevel) UnmarshalText(b []byte) error {
	v, err := ParseQualityLevel(string(b))
	if err == nil {
		*q = v
	}
	return err
}

// PackLevel is the UASTC pack level stored in the low bits of the UASTC flags.
type PackLevel uint32

const (
	PackFastest PackLevel = iota
	PackFaster
	PackDefault
	PackSlower
	PackVerySlow
)

// UASTC flag bits above the pack level.
const (
	FlagFavorUASTCError    = 8
	FlagFavorBC7Error      = 16
	FlagETC1FasterHints    = 64
	FlagETC1FastestHints   = 128
	FlagETC1DisableFlipSub = 256

	packLevelMask = 0x7
)

var packLevels = enumTable{
	kind:   "pack_level",
	prefix: "KTX_PACK_UASTC_LEVEL_",
	names:  []string{"FASTEST", "FASTER", "DEFAULT", "SLOWER", "VERYSLOW"},
	codes:  []uint32{0, 1, 2, 3, 4},
}

// ParsePackLevel accepts "SLOWER", "KTX_PACK_UASTC_LEVEL_SLOWER" or "3".
func ParsePackLevel(s string) (PackLevel, error) {
	v, err := packLevels.parse(s)
	return PackLevel(v), err
}

func (p PackLevel) String() string { return packLevels.format(uint32(p)) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PackLevel) UnmarshalText(b []byte) error {
	v, err := ParsePackLevel(string(b))
	if err == nil {
		*p = v
	}
	return err
}
