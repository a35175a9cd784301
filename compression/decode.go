package compression

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/go-viper/mapstructure/v2"
)

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// document is the on-disk shape:
//
//	{"config_type": "ZLib", "config": {"ZLib": {"deflation_value": 5}}, "premultiply": false}
type document struct {
	ConfigType  *Algorithm     `mapstructure:"config_type"`
	Config      map[string]any `mapstructure:"config"`
	Premultiply *bool          `mapstructure:"premultiply"`
}

// Decode builds a normalized, validated Config from a generic document as
// produced by a JSON or YAML decoder. A nil or empty document yields Default.
func Decode(raw map[string]any) (Config, error) {
	if len(raw) == 0 {
		return Default(), nil
	}

	var doc document
	if err := decodeInto(raw, &doc); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	cfg := Config{Premultiply: doc.Premultiply}

	switch len(doc.Config) {
	case 0:
		if doc.ConfigType == nil {
			return Config{}, fmt.Errorf("%w: config_type is required", ErrDecode)
		}
		cfg.Algorithm = *doc.ConfigType
		cfg.Params = newParams(cfg.Algorithm)
	case 1:
		for variant, body := range doc.Config {
			alg, err := ParseAlgorithm(variant)
			if err != nil {
				return Config{}, fmt.Errorf("%w: %w", ErrDecode, err)
			}
			if doc.ConfigType != nil && *doc.ConfigType != alg {
				return Config{}, fmt.Errorf("%w: config_type %s, record %s", ErrAlgorithmMismatch, *doc.ConfigType, alg)
			}
			params := newParams(alg)
			if params == nil {
				return Config{}, fmt.Errorf("%w: %s takes no parameter record", ErrAlgorithmMismatch, alg)
			}
			if body != nil {
				if err := decodeInto(body, params); err != nil {
					return Config{}, fmt.Errorf("%w: %s: %w", ErrDecode, alg, err)
				}
			}
			cfg.Algorithm = alg
			cfg.Params = params
		}
	default:
		return Config{}, fmt.Errorf("%w: config holds %d records, want one", ErrAlgorithmMismatch, len(doc.Config))
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newParams(a Algorithm) Params {
	switch a {
	case ETC1S:
		return &ETC1SParams{}
	case UASTC:
		return &UASTCParams{}
	case ASTC:
		return &ASTCParams{}
	case ZLib:
		return &ZLibParams{}
	case Zstd:
		return &ZstdParams{}
	default:
		return nil
	}
}

func decodeInto(input, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			numberToTextHook,
			mapstructure.TextUnmarshallerHookFunc(),
		),
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// numberToTextHook lets enum fields take their integer code as a JSON or
// YAML number. Non-integral numbers are rejected.
func numberToTextHook(from, to reflect.Type, data any) (any, error) {
	if !reflect.PointerTo(to).Implements(textUnmarshalerType) {
		return data, nil
	}
	switch from.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(reflect.ValueOf(data).Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(reflect.ValueOf(data).Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		f := reflect.ValueOf(data).Float()
		if f != math.Trunc(f) || f < 0 {
			return nil, fmt.Errorf("%w: %v is not an integer code", ErrInvalidEnum, f)
		}
		return strconv.FormatFloat(f, 'f', 0, 64), nil
	default:
		return data, nil
	}
}
