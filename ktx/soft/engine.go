// Package soft is a pure-Go ktx.Engine. It stores uncompressed RGBA8 level
// data and supports ZLIB and Zstd supercompression; Basis Universal and ASTC
// encoding report KTX_UNSUPPORTED_FEATURE.
package soft

import (
	"bytes"
	"os"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"

	"github.com/woozymasta/gputex/compression"
	"github.com/woozymasta/gputex/ktx"
)

// Engine creates independent textures; it holds no state and is safe for
// concurrent use.
type Engine struct{}

// New returns the soft engine.
func New() *Engine { return &Engine{} }

// Supports implements ktx.Capabilities.
func (*Engine) Supports(a compression.Algorithm) bool {
	switch a {
	case compression.None, compression.ZLib, compression.Zstd:
		return true
	default:
		return false
	}
}

// CreateTexture implements ktx.Engine.
func (*Engine) CreateTexture(info ktx.CreateInfo) (ktx.NativeTexture, ktx.ErrorCode) {
	switch {
	case info.BaseWidth == 0 || info.BaseHeight == 0:
		return nil, ktx.InvalidValue
	case info.VkFormat != ktx.FormatR8G8B8A8UNorm && info.VkFormat != ktx.FormatR8G8B8A8SRGB:
		return nil, ktx.UnsupportedTextureType
	case info.NumLevels != 1 || info.NumLayers != 1 || info.NumFaces != 1 || info.IsArray:
		return nil, ktx.UnsupportedTextureType
	case info.BaseDepth > 1 || info.NumDimensions != 2:
		return nil, ktx.UnsupportedTextureType
	case info.GenerateMips:
		return nil, ktx.UnsupportedFeature
	}

	size := uint64(info.BaseWidth) * uint64(info.BaseHeight) * 4
	if size > uint64(maxInt) {
		return nil, ktx.OutOfMemory
	}

	return &texture{info: info, level: make([]byte, size), size: int(size)}, ktx.Success
}

const maxInt = int(^uint(0) >> 1)

type texture struct {
	info      ktx.CreateInfo
	level     []byte
	size      int
	scheme    uint32
	bound     bool
	destroyed bool
}

func (t *texture) SetImageFromMemory(level, layer, faceSlice uint32, src []byte) ktx.ErrorCode {
	switch {
	case t.destroyed || t.scheme != SchemeNone:
		return ktx.InvalidOperation
	case level != 0 || layer != 0 || faceSlice != 0:
		return ktx.InvalidOperation
	case len(src) != t.size:
		return ktx.InvalidValue
	}
	copy(t.level, src)
	t.bound = true
	return ktx.Success
}

func (t *texture) CompressBasis(*ktx.BasisParams) ktx.ErrorCode {
	if t.destroyed {
		return ktx.InvalidOperation
	}
	return ktx.UnsupportedFeature
}

func (t *texture) CompressAstc(*ktx.AstcParams) ktx.ErrorCode {
	if t.destroyed {
		return ktx.InvalidOperation
	}
	return ktx.UnsupportedFeature
}

func (t *texture) DeflateZstd(level uint32) ktx.ErrorCode {
	if code := t.deflatable(level, compression.MinZstdLevel, compression.MaxZstdLevel); code != ktx.Success {
		return code
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(int(level))))
	if err != nil {
		return ktx.OutOfMemory
	}
	t.level = enc.EncodeAll(t.level, make([]byte, 0, len(t.level)/2))
	_ = enc.Close()
	t.scheme = SchemeZstd
	return ktx.Success
}

func (t *texture) DeflateZLIB(level uint32) ktx.ErrorCode {
	if code := t.deflatable(level, compression.MinZLibLevel, compression.MaxZLibLevel); code != ktx.Success {
		return code
	}
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, int(level))
	if err != nil {
		return ktx.InvalidValue
	}
	if _, err := zw.Write(t.level); err != nil {
		return ktx.OutOfMemory
	}
	if err := zw.Close(); err != nil {
		return ktx.OutOfMemory
	}
	t.level = buf.Bytes()
	t.scheme = SchemeZLIB
	return ktx.Success
}

func (t *texture) deflatable(level uint32, lo, hi int) ktx.ErrorCode {
	switch {
	case t.destroyed || !t.bound || t.scheme != SchemeNone:
		return ktx.InvalidOperation
	case int(level) < lo || int(level) > hi:
		return ktx.InvalidValue
	}
	return ktx.Success
}

func (t *texture) WriteToNamedFile(path string) ktx.ErrorCode {
	if t.destroyed || !t.bound {
		return ktx.InvalidOperation
	}
	data := encodeContainer(uint32(t.info.VkFormat), t.info.BaseWidth, t.info.BaseHeight, t.scheme, t.level, t.size)

	f, err := os.Create(path)
	if err != nil {
		return ktx.FileOpenFailed
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return ktx.FileWriteError
	}
	if err := f.Close(); err != nil {
		return ktx.FileWriteError
	}
	return ktx.Success
}

func (t *texture) Destroy() {
	t.destroyed = true
	t.level = nil
}
