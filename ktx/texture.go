package ktx

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/woozymasta/gputex/compression"
)

type stage int

const (
	stageUninitialized stage = iota
	stageImageBound
	stageWritten
)

func (s stage) String() string {
	switch s {
	case stageUninitialized:
		return "uninitialized"
	case stageImageBound:
		return "image-bound"
	case stageWritten:
		return "written"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// nativeRef owns the engine texture and destroys it at most once, whether
// through Close or through the cleanup attached to the owning handle.
type nativeRef struct {
	tex      NativeTexture
	released atomic.Bool
}

func (r *nativeRef) release() {
	if r.released.CompareAndSwap(false, true) {
		r.tex.Destroy()
	}
}

type handle struct {
	ref     *nativeRef
	cleanup runtime.Cleanup
	stage   stage
	width   uint32
	height  uint32
}

func (h *handle) require(want stage) error {
	if h.ref.released.Load() {
		return ErrClosed
	}
	if h.stage != want {
		return fmt.Errorf("%w: %s, want %s", ErrInvalidState, h.stage, want)
	}
	return nil
}

func (h *handle) close() {
	h.cleanup.Stop()
	h.ref.release()
}

// Texture is a freshly created engine texture with no pixels bound.
// It must be closed; closing after BindImage is harmless.
type Texture struct {
	h     *handle
	bound bool
}

// BoundTexture is a texture holding one RGBA8 image. It shares the native
// texture with the Texture it came from.
type BoundTexture struct {
	h *handle
}

// Create allocates a 2D texture with one level, one layer and one face.
// No native release happens when allocation fails.
func Create(engine Engine, width, height int, format VkFormat) (*Texture, error) {
	w, err := u32Dimension(width)
	if err != nil {
		return nil, err
	}
	hgt, err := u32Dimension(height)
	if err != nil {
		return nil, err
	}

	tex, code := engine.CreateTexture(CreateInfo{
		VkFormat:      format,
		BaseWidth:     w,
		BaseHeight:    hgt,
		BaseDepth:     1,
		NumDimensions: 2,
		NumLevels:     1,
		NumLayers:     1,
		NumFaces:      1,
	})
	if code != Success {
		return nil, &NativeError{Op: "create", Code: code, Err: ErrNativeAllocation}
	}
	if tex == nil {
		return nil, &NativeError{Op: "create", Code: OutOfMemory, Err: ErrNativeAllocation}
	}

	ref := &nativeRef{tex: tex}
	h := &handle{ref: ref, width: w, height: hgt}
	h.cleanup = runtime.AddCleanup(h, func(r *nativeRef) { r.release() }, ref)

	return &Texture{h: h}, nil
}

// Width returns the base width.
func (t *Texture) Width() int { return int(t.h.width) }

// Height returns the base height.
func (t *Texture) Height() int { return int(t.h.height) }

// BindImage copies pix (width*height*4 bytes of RGBA8) into level 0 and
// hands the texture over to the returned BoundTexture.
func (t *Texture) BindImage(pix []byte) (*BoundTexture, error) {
	if t.bound {
		return nil, fmt.Errorf("%w: image already bound", ErrInvalidState)
	}
	if err := t.h.require(stageUninitialized); err != nil {
		return nil, err
	}

	want := int(t.h.width) * int(t.h.height) * 4
	if len(pix) != want {
		return nil, &NativeError{
			Op:   fmt.Sprintf("bind %d bytes, want %d", len(pix), want),
			Code: InvalidValue,
			Err:  ErrImageBind,
		}
	}

	if code := t.h.ref.tex.SetImageFromMemory(0, 0, 0, pix); code != Success {
		return nil, &NativeError{Op: "bind", Code: code, Err: ErrImageBind}
	}

	t.bound = true
	t.h.stage = stageImageBound
	return &BoundTexture{h: t.h}, nil
}

// Close releases the native texture once.
func (t *Texture) Close() error {
	if t == nil || t.h == nil {
		return nil
	}
	t.h.close()
	return nil
}

// Compress encodes the bound image as cfg asks. The config is validated
// before the engine is touched. A config without an algorithm is a no-op.
func (b *BoundTexture) Compress(cfg compression.Config) error {
	if err := b.h.require(stageImageBound); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	tex := b.h.ref.tex
	var code ErrorCode
	switch p := cfg.Params.(type) {
	case nil:
		return nil
	case *compression.ETC1SParams:
		code = tex.CompressBasis(ETC1SArgs(p))
	case *compression.UASTCParams:
		code = tex.CompressBasis(UASTCArgs(p))
	case *compression.ASTCParams:
		code = tex.CompressAstc(ASTCArgs(p))
	case *compression.ZLibParams:
		code = tex.DeflateZLIB(uint32(p.DeflationLevel())) //nolint:gosec // clamped 1..9
	case *compression.ZstdParams:
		code = tex.DeflateZstd(uint32(p.DeflationLevel())) //nolint:gosec // clamped 1..22
	default:
		return fmt.Errorf("%w: unsupported parameter record %T", compression.ErrAlgorithmMismatch, p)
	}

	if code != Success {
		return &CompressionError{Algorithm: cfg.Algorithm, Code: code}
	}
	return nil
}

// Write serializes the texture to path. After a successful write the
// texture accepts no further Compress or Write.
func (b *BoundTexture) Write(path string) error {
	if err := b.h.require(stageImageBound); err != nil {
		return err
	}
	if !utf8.ValidString(path) || strings.ContainsRune(path, 0) {
		return fmt.Errorf("%w: path %q cannot be passed to the engine", ErrWrite, path)
	}

	if code := b.h.ref.tex.WriteToNamedFile(path); code != Success {
		return &NativeError{Op: "write " + path, Code: code, Err: ErrWrite}
	}

	b.h.stage = stageWritten
	return nil
}

// Close releases the native texture once.
func (b *BoundTexture) Close() error {
	if b == nil || b.h == nil {
		return nil
	}
	b.h.close()
	return nil
}

func u32Dimension(n int) (uint32, error) {
	if n <= 0 || uint64(n) > uint64(^uint32(0)) {
		return 0, fmt.Errorf("%w: dimension %d", ErrNativeAllocation, n)
	}
	return uint32(n), nil //nolint:gosec // bounds checked above
}
