package soft

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/woozymasta/gputex/compression"
	"github.com/woozymasta/gputex/ktx"
)

func gradient(w, h int) []byte {
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			pix[i] = byte(x * 16)
			pix[i+1] = byte(y * 16)
			pix[i+2] = 100
			pix[i+3] = 255
		}
	}
	return pix
}

func writeTexture(t *testing.T, cfg compression.Config, pix []byte, w, h int) string {
	t.Helper()

	tex, err := ktx.Create(New(), w, h, ktx.FormatR8G8B8A8UNorm)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer tex.Close()

	bound, err := tex.BindImage(pix)
	if err != nil {
		t.Fatalf("BindImage: %v", err)
	}
	if err := bound.Compress(cfg); err != nil {
		t.Fatalf("Compress: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.ktx")
	if err := bound.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return path
}

func TestWriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cfg    compression.Config
		scheme uint32
	}{
		{name: "uncompressed", cfg: compression.Config{}, scheme: SchemeNone},
		{
			name:   "zstd",
			cfg:    compression.Config{Algorithm: compression.Zstd, Params: &compression.ZstdParams{Level: compression.Int(3)}},
			scheme: SchemeZstd,
		},
		{
			name:   "zlib",
			cfg:    compression.Config{Algorithm: compression.ZLib, Params: &compression.ZLibParams{}},
			scheme: SchemeZLIB,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			pix := gradient(16, 8)
			path := writeTexture(t, tc.cfg, pix, 16, 8)

			f, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if f.Header.PixelWidth != 16 || f.Header.PixelHeight != 8 {
				t.Fatalf("unexpected size %dx%d", f.Header.PixelWidth, f.Header.PixelHeight)
			}
			if f.Header.VkFormat != uint32(ktx.FormatR8G8B8A8UNorm) {
				t.Fatalf("vkFormat = %d", f.Header.VkFormat)
			}
			if f.Header.SupercompressionScheme != tc.scheme {
				t.Fatalf("scheme = %d, want %d", f.Header.SupercompressionScheme, tc.scheme)
			}
			if f.KeyValues[writerKey] != writerName {
				t.Fatalf("KTXwriter = %q", f.KeyValues[writerKey])
			}
			if !bytes.Equal(f.Level, pix) {
				t.Fatalf("level data mismatch")
			}
		})
	}
}

func TestBasisAndASTCUnsupported(t *testing.T) {
	t.Parallel()

	for _, cfg := range []compression.Config{
		compression.Default(),
		{Algorithm: compression.ASTC, Params: &compression.ASTCParams{}},
	} {
		tex, err := ktx.Create(New(), 4, 4, ktx.FormatR8G8B8A8UNorm)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		bound, err := tex.BindImage(gradient(4, 4))
		if err != nil {
			t.Fatalf("BindImage: %v", err)
		}

		err = bound.Compress(cfg)
		var cerr *ktx.CompressionError
		if !errors.As(err, &cerr) || cerr.Code != ktx.UnsupportedFeature {
			t.Fatalf("%s: expected KTX_UNSUPPORTED_FEATURE, got %v", cfg.Algorithm, err)
		}
		_ = bound.Close()
	}

	if New().Supports(compression.ETC1S) || !New().Supports(compression.Zstd) {
		t.Fatalf("unexpected capabilities")
	}
}

func TestDeflateTwiceIsInvalid(t *testing.T) {
	t.Parallel()

	tex, code := New().CreateTexture(ktx.CreateInfo{
		VkFormat: ktx.FormatR8G8B8A8UNorm, BaseWidth: 2, BaseHeight: 2, BaseDepth: 1,
		NumDimensions: 2, NumLevels: 1, NumLayers: 1, NumFaces: 1,
	})
	if code != ktx.Success {
		t.Fatalf("CreateTexture: %s", code)
	}
	defer tex.Destroy()

	if code := tex.DeflateZstd(5); code != ktx.InvalidOperation {
		t.Fatalf("deflate before bind = %s", code)
	}
	if code := tex.SetImageFromMemory(0, 0, 0, gradient(2, 2)); code != ktx.Success {
		t.Fatalf("SetImageFromMemory: %s", code)
	}
	if code := tex.DeflateZLIB(10); code != ktx.InvalidValue {
		t.Fatalf("out of range level = %s", code)
	}
	if code := tex.DeflateZLIB(6); code != ktx.Success {
		t.Fatalf("DeflateZLIB: %s", code)
	}
	if code := tex.DeflateZstd(5); code != ktx.InvalidOperation {
		t.Fatalf("second deflate = %s", code)
	}
}

func TestCreateRejectsUnsupportedLayouts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		info ktx.CreateInfo
		want ktx.ErrorCode
	}{
		{name: "zero-width", info: ktx.CreateInfo{VkFormat: ktx.FormatR8G8B8A8UNorm, BaseHeight: 1, NumDimensions: 2, NumLevels: 1, NumLayers: 1, NumFaces: 1}, want: ktx.InvalidValue},
		{name: "cube", info: ktx.CreateInfo{VkFormat: ktx.FormatR8G8B8A8UNorm, BaseWidth: 1, BaseHeight: 1, NumDimensions: 2, NumLevels: 1, NumLayers: 1, NumFaces: 6}, want: ktx.UnsupportedTextureType},
		{name: "format", info: ktx.CreateInfo{VkFormat: 100, BaseWidth: 1, BaseHeight: 1, NumDimensions: 2, NumLevels: 1, NumLayers: 1, NumFaces: 1}, want: ktx.UnsupportedTextureType},
	}
	for _, tc := range tests {
		if _, code := New().CreateTexture(tc.info); code != tc.want {
			t.Fatalf("%s: code = %s, want %s", tc.name, code, tc.want)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte("definitely not a texture file at all, just text padding padding padding padding")); !errors.Is(err, ErrNotKTX2) {
		t.Fatalf("expected ErrNotKTX2, got %v", err)
	}
}
