package ktx

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/woozymasta/gputex/compression"
)

type fakeEngine struct {
	createCode ErrorCode
	bindCode   ErrorCode
	packCode   ErrorCode
	writeCode  ErrorCode

	created   atomic.Int32
	destroyed atomic.Int32
	calls     []string
	basis     *BasisParams
	astc      *AstcParams
	level     uint32
}

func (e *fakeEngine) CreateTexture(info CreateInfo) (NativeTexture, ErrorCode) {
	e.calls = append(e.calls, "create")
	if e.createCode != Success {
		return nil, e.createCode
	}
	e.created.Add(1)
	return &fakeTexture{e: e}, Success
}

type fakeTexture struct {
	e *fakeEngine
}

func (t *fakeTexture) SetImageFromMemory(level, layer, face uint32, src []byte) ErrorCode {
	t.e.calls = append(t.e.calls, "bind")
	return t.e.bindCode
}

func (t *fakeTexture) CompressBasis(p *BasisParams) ErrorCode {
	t.e.calls = append(t.e.calls, "basis")
	t.e.basis = p
	return t.e.packCode
}

func (t *fakeTexture) CompressAstc(p *AstcParams) ErrorCode {
	t.e.calls = append(t.e.calls, "astc")
	t.e.astc = p
	return t.e.packCode
}

func (t *fakeTexture) DeflateZstd(level uint32) ErrorCode {
	t.e.calls = append(t.e.calls, "zstd")
	t.e.level = level
	return t.e.packCode
}

func (t *fakeTexture) DeflateZLIB(level uint32) ErrorCode {
	t.e.calls = append(t.e.calls, "zlib")
	t.e.level = level
	return t.e.packCode
}

func (t *fakeTexture) WriteToNamedFile(path string) ErrorCode {
	t.e.calls = append(t.e.calls, "write")
	return t.e.writeCode
}

func (t *fakeTexture) Destroy() {
	t.e.destroyed.Add(1)
}

func rgba(w, h int) []byte { return make([]byte, w*h*4) }

func TestCreateFailureNeverReleases(t *testing.T) {
	t.Parallel()

	e := &fakeEngine{createCode: OutOfMemory}
	tex, err := Create(e, 4, 4, FormatR8G8B8A8UNorm)
	if !errors.Is(err, ErrNativeAllocation) {
		t.Fatalf("expected ErrNativeAllocation, got %v", err)
	}
	var nerr *NativeError
	if !errors.As(err, &nerr) || nerr.Code != OutOfMemory {
		t.Fatalf("expected NativeError with KTX_OUT_OF_MEMORY, got %v", err)
	}
	if tex != nil {
		t.Fatalf("texture should be nil on failure")
	}
	if got := e.destroyed.Load(); got != 0 {
		t.Fatalf("destroy called %d times, want 0", got)
	}
}

func TestCreateCloseReleasesOnce(t *testing.T) {
	t.Parallel()

	e := &fakeEngine{}
	tex, err := Create(e, 4, 4, FormatR8G8B8A8UNorm)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_ = tex.Close()
	_ = tex.Close()
	if got := e.destroyed.Load(); got != 1 {
		t.Fatalf("destroy called %d times, want 1", got)
	}
}

func TestFullLifecycleReleasesOnce(t *testing.T) {
	t.Parallel()

	e := &fakeEngine{}
	tex, err := Create(e, 2, 2, FormatR8G8B8A8UNorm)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer tex.Close()

	bound, err := tex.BindImage(rgba(2, 2))
	if err != nil {
		t.Fatalf("BindImage: %v", err)
	}
	defer bound.Close()

	if err := bound.Compress(compression.Config{Algorithm: compression.Zstd, Params: &compression.ZstdParams{}}); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if e.level != compression.DefaultZstdLevel {
		t.Fatalf("zstd level = %d, want %d", e.level, compression.DefaultZstdLevel)
	}
	if err := bound.Write("out.ktx"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := bound.Write("again.ktx"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second Write: expected ErrInvalidState, got %v", err)
	}
	if err := bound.Compress(compression.Config{}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("Compress after Write: expected ErrInvalidState, got %v", err)
	}
	if _, err := tex.BindImage(rgba(2, 2)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second BindImage: expected ErrInvalidState, got %v", err)
	}

	_ = bound.Close()
	_ = tex.Close()
	if got := e.destroyed.Load(); got != 1 {
		t.Fatalf("destroy called %d times, want 1", got)
	}
}

func TestBindFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code ErrorCode
		pix  []byte
	}{
		{name: "engine-rejects", code: InvalidValue, pix: rgba(4, 4)},
		{name: "short-buffer", code: Success, pix: rgba(4, 3)},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			e := &fakeEngine{bindCode: tc.code}
			tex, err := Create(e, 4, 4, FormatR8G8B8A8UNorm)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			_, err = tex.BindImage(tc.pix)
			if !errors.Is(err, ErrImageBind) {
				t.Fatalf("expected ErrImageBind, got %v", err)
			}
			_ = tex.Close()
			if got := e.destroyed.Load(); got != 1 {
				t.Fatalf("destroy called %d times, want 1", got)
			}
		})
	}
}

func TestCompressMismatchSkipsEngine(t *testing.T) {
	t.Parallel()

	e := &fakeEngine{}
	tex, err := Create(e, 1, 1, FormatR8G8B8A8UNorm)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer tex.Close()
	bound, err := tex.BindImage(rgba(1, 1))
	if err != nil {
		t.Fatalf("BindImage: %v", err)
	}

	err = bound.Compress(compression.Config{Algorithm: compression.ASTC, Params: &compression.ZLibParams{}})
	if !errors.Is(err, compression.ErrAlgorithmMismatch) {
		t.Fatalf("expected ErrAlgorithmMismatch, got %v", err)
	}
	for _, c := range e.calls {
		if c == "astc" || c == "zlib" {
			t.Fatalf("engine reached with mismatched config: %v", e.calls)
		}
	}
}

func TestCompressErrorCarriesCode(t *testing.T) {
	t.Parallel()

	e := &fakeEngine{packCode: UnsupportedFeature}
	tex, err := Create(e, 1, 1, FormatR8G8B8A8UNorm)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer tex.Close()
	bound, err := tex.BindImage(rgba(1, 1))
	if err != nil {
		t.Fatalf("BindImage: %v", err)
	}

	err = bound.Compress(compression.Default())
	var cerr *CompressionError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected CompressionError, got %v", err)
	}
	if cerr.Algorithm != compression.ETC1S || cerr.Code != UnsupportedFeature {
		t.Fatalf("unexpected error fields: %+v", cerr)
	}
	if !errors.Is(err, ErrCompression) {
		t.Fatalf("CompressionError must match ErrCompression")
	}
	if err.Error() != "texture compression failed: BasisUniversalBasisLZETC1s: KTX_UNSUPPORTED_FEATURE" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	// Resource remains usable after a compression failure.
	if err := bound.Write("plain.ktx"); err != nil {
		t.Fatalf("Write after failed Compress: %v", err)
	}
}

func TestCompressTranslatesOptionals(t *testing.T) {
	t.Parallel()

	e := &fakeEngine{}
	tex, err := Create(e, 1, 1, FormatR8G8B8A8UNorm)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer tex.Close()
	bound, err := tex.BindImage(rgba(1, 1))
	if err != nil {
		t.Fatalf("BindImage: %v", err)
	}

	cfg := compression.Config{
		Algorithm: compression.ETC1S,
		Params: &compression.ETC1SParams{
			QualityLevel:  compression.Int(0),
			NoEndpointRDO: compression.Bool(true),
			InputSwizzle:  compression.String("rrr1"),
		},
	}
	if err := bound.Compress(cfg); err != nil {
		t.Fatalf("Compress: %v", err)
	}

	p := e.basis
	if p == nil || p.UASTC {
		t.Fatalf("expected ETC1S basis params, got %+v", p)
	}
	if v, ok := p.QualityLevel.Get(); !ok || v != 0 {
		t.Fatalf("supplied zero must stay supplied: %v %v", v, ok)
	}
	if p.CompressionLevel.IsSet() || p.NoSelectorRDO.IsSet() {
		t.Fatalf("absent tunables must stay absent")
	}
	if v, _ := p.NoEndpointRDO.Get(); !v {
		t.Fatalf("no_endpoint_rdo not carried")
	}
	if v, _ := p.InputSwizzle.Get(); string(v[:]) != "rrr1" {
		t.Fatalf("swizzle = %q", v)
	}
}

func TestWriteRejectsUnrepresentablePath(t *testing.T) {
	t.Parallel()

	e := &fakeEngine{}
	tex, err := Create(e, 1, 1, FormatR8G8B8A8UNorm)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer tex.Close()
	bound, err := tex.BindImage(rgba(1, 1))
	if err != nil {
		t.Fatalf("BindImage: %v", err)
	}

	for _, p := range []string{"bad\x00name.ktx", "bad\xffname.ktx"} {
		if err := bound.Write(p); !errors.Is(err, ErrWrite) {
			t.Fatalf("Write(%q): expected ErrWrite, got %v", p, err)
		}
	}
	for _, c := range e.calls {
		if c == "write" {
			t.Fatalf("engine reached with unrepresentable path")
		}
	}
}

func TestWriteFailure(t *testing.T) {
	t.Parallel()

	e := &fakeEngine{writeCode: FileOpenFailed}
	tex, err := Create(e, 1, 1, FormatR8G8B8A8UNorm)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	bound, err := tex.BindImage(rgba(1, 1))
	if err != nil {
		t.Fatalf("BindImage: %v", err)
	}
	err = bound.Write("/nonexistent/out.ktx")
	var nerr *NativeError
	if !errors.Is(err, ErrWrite) || !errors.As(err, &nerr) || nerr.Code != FileOpenFailed {
		t.Fatalf("expected write NativeError, got %v", err)
	}
	_ = bound.Close()
	if err := bound.Write("x.ktx"); !errors.Is(err, ErrClosed) {
		t.Fatalf("Write after Close: expected ErrClosed, got %v", err)
	}
}

func TestErrorCodeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code ErrorCode
		want string
	}{
		{Success, "KTX_SUCCESS"},
		{FileWriteError, "KTX_FILE_WRITE_ERROR"},
		{UnsupportedFeature, "KTX_UNSUPPORTED_FEATURE"},
		{DecompressChecksumError, "KTX_DECOMPRESS_CHECKSUM_ERROR"},
		{ErrorCode(99), "KTX_ERROR(99)"},
	}
	for _, tc := range tests {
		if got := tc.code.String(); got != tc.want {
			t.Fatalf("%d.String() = %q, want %q", uint32(tc.code), got, tc.want)
		}
	}
}
