//go:build ktx_native && cgo

package native

/*
#cgo pkg-config: ktx
#include <stdlib.h>
#include <ktx.h>

static KTX_error_code gputex_create(ktxTextureCreateInfo* info, ktxTexture2** out) {
	return ktxTexture2_Create(info, KTX_TEXTURE_CREATE_ALLOC_STORAGE, out);
}

static KTX_error_code gputex_set_image(ktxTexture2* t, ktx_uint32_t level, ktx_uint32_t layer,
	ktx_uint32_t face, const ktx_uint8_t* src, ktx_size_t size) {
	return ktxTexture_SetImageFromMemory(ktxTexture(t), level, layer, face, src, size);
}

static KTX_error_code gputex_write(ktxTexture2* t, const char* path) {
	return ktxTexture_WriteToNamedFile(ktxTexture(t), path);
}

static void gputex_destroy(ktxTexture2* t) {
	ktxTexture_Destroy(ktxTexture(t));
}
*/
import "C"

import (
	"unsafe"

	"github.com/woozymasta/gputex/compression"
	"github.com/woozymasta/gputex/ktx"
)

// Enabled reports whether libktx is linked into this build.
func Enabled() bool { return true }

// Engine is the libktx engine. libktx textures are independent, so one
// Engine serves every worker.
type Engine struct{}

// New returns the libktx engine.
func New() (*Engine, error) { return &Engine{}, nil }

// Supports implements ktx.Capabilities.
func (*Engine) Supports(compression.Algorithm) bool { return true }

// CreateTexture implements ktx.Engine.
func (*Engine) CreateTexture(info ktx.CreateInfo) (ktx.NativeTexture, ktx.ErrorCode) {
	ci := C.ktxTextureCreateInfo{
		vkFormat:        C.ktx_uint32_t(info.VkFormat),
		baseWidth:       C.ktx_uint32_t(info.BaseWidth),
		baseHeight:      C.ktx_uint32_t(info.BaseHeight),
		baseDepth:       C.ktx_uint32_t(info.BaseDepth),
		numDimensions:   C.ktx_uint32_t(info.NumDimensions),
		numLevels:       C.ktx_uint32_t(info.NumLevels),
		numLayers:       C.ktx_uint32_t(info.NumLayers),
		numFaces:        C.ktx_uint32_t(info.NumFaces),
		isArray:         C.ktx_bool_t(info.IsArray),
		generateMipmaps: C.ktx_bool_t(info.GenerateMips),
	}

	var tex *C.ktxTexture2
	if code := ktx.ErrorCode(C.gputex_create(&ci, &tex)); code != ktx.Success {
		return nil, code
	}
	if tex == nil {
		return nil, ktx.OutOfMemory
	}
	return &texture{p: tex}, ktx.Success
}

type texture struct {
	p *C.ktxTexture2
}

func (t *texture) SetImageFromMemory(level, layer, faceSlice uint32, src []byte) ktx.ErrorCode {
	if t.p == nil {
		return ktx.InvalidOperation
	}
	if len(src) == 0 {
		return ktx.InvalidValue
	}
	code := C.gputex_set_image(t.p,
		C.ktx_uint32_t(level), C.ktx_uint32_t(layer), C.ktx_uint32_t(faceSlice),
		(*C.ktx_uint8_t)(unsafe.Pointer(&src[0])), C.ktx_size_t(len(src)))
	return ktx.ErrorCode(code)
}

func (t *texture) CompressBasis(p *ktx.BasisParams) ktx.ErrorCode {
	if t.p == nil {
		return ktx.InvalidOperation
	}

	var cp C.ktxBasisParams
	cp.structSize = C.ktx_uint32_t(unsafe.Sizeof(cp))
	cp.uastc = C.ktx_bool_t(p.UASTC)
	setBool(&cp.verbose, p.Verbose)
	setBool(&cp.noSSE, p.NoSSE)
	setU32(&cp.threadCount, p.ThreadCount)

	setU32(&cp.compressionLevel, p.CompressionLevel)
	setU32(&cp.qualityLevel, p.QualityLevel)
	setU32(&cp.maxEndpoints, p.MaxEndpoints)
	setF32(&cp.endpointRDOThreshold, p.EndpointRDOThreshold)
	setU32(&cp.maxSelectors, p.MaxSelectors)
	setF32(&cp.selectorRDOThreshold, p.SelectorRDOThreshold)
	setBool(&cp.normalMap, p.NormalMap)
	setBool(&cp.separateRGToRGB_A, p.SeparateRGToRGBA)
	setBool(&cp.noEndpointRDO, p.NoEndpointRDO)
	setBool(&cp.noSelectorRDO, p.NoSelectorRDO)
	setBool(&cp.preSwizzle, p.PreSwizzle)
	if s, ok := p.InputSwizzle.Get(); ok {
		for i := range s {
			cp.inputSwizzle[i] = C.char(s[i])
		}
	}

	if f, ok := p.UASTCFlags.Get(); ok {
		cp.uastcFlags = C.ktx_pack_uastc_flags(f)
	}
	setBool(&cp.uastcRDO, p.UASTCRDO)
	setF32(&cp.uastcRDOQualityScalar, p.UASTCRDOQualityScalar)
	setU32(&cp.uastcRDODictSize, p.UASTCRDODictSize)
	setF32(&cp.uastcRDOMaxSmoothBlockErrorScale, p.UASTCRDOMaxSmoothBlockErrorScale)
	setF32(&cp.uastcRDOMaxSmoothBlockStdDev, p.UASTCRDOMaxSmoothBlockStdDev)
	setBool(&cp.uastcRDODontFavorSimplerModes, p.UASTCRDODontFavorSimplerModes)
	setBool(&cp.uastcRDONoMultithreading, p.UASTCRDONoMultithreading)

	return ktx.ErrorCode(C.ktxTexture2_CompressBasisEx(t.p, &cp))
}

func (t *texture) CompressAstc(p *ktx.AstcParams) ktx.ErrorCode {
	if t.p == nil {
		return ktx.InvalidOperation
	}

	var cp C.ktxAstcParams
	cp.structSize = C.ktx_uint32_t(unsafe.Sizeof(cp))
	setBool(&cp.verbose, p.Verbose)
	setU32(&cp.threadCount, p.ThreadCount)
	setU32(&cp.blockDimension, p.BlockDimension)
	setU32(&cp.mode, p.Mode)
	setU32(&cp.qualityLevel, p.QualityLevel)
	setBool(&cp.normalMap, p.NormalMap)
	setBool(&cp.perceptual, p.Perceptual)
	if s, ok := p.InputSwizzle.Get(); ok {
		for i := range s {
			cp.inputSwizzle[i] = C.char(s[i])
		}
	}

	return ktx.ErrorCode(C.ktxTexture2_CompressAstcEx(t.p, &cp))
}

func (t *texture) DeflateZstd(level uint32) ktx.ErrorCode {
	if t.p == nil {
		return ktx.InvalidOperation
	}
	return ktx.ErrorCode(C.ktxTexture2_DeflateZstd(t.p, C.ktx_uint32_t(level)))
}

func (t *texture) DeflateZLIB(level uint32) ktx.ErrorCode {
	if t.p == nil {
		return ktx.InvalidOperation
	}
	return ktx.ErrorCode(C.ktxTexture2_DeflateZLIB(t.p, C.ktx_uint32_t(level)))
}

func (t *texture) WriteToNamedFile(path string) ktx.ErrorCode {
	if t.p == nil {
		return ktx.InvalidOperation
	}
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return ktx.ErrorCode(C.gputex_write(t.p, cpath))
}

func (t *texture) Destroy() {
	if t.p == nil {
		return
	}
	C.gputex_destroy(t.p)
	t.p = nil
}

func setBool(dst *C.ktx_bool_t, o ktx.Opt[bool]) {
	if v, ok := o.Get(); ok {
		*dst = C.ktx_bool_t(v)
	}
}

func setU32(dst *C.ktx_uint32_t, o ktx.Opt[uint32]) {
	if v, ok := o.Get(); ok {
		*dst = C.ktx_uint32_t(v)
	}
}

func setF32(dst *C.float, o ktx.Opt[float32]) {
	if v, ok := o.Get(); ok {
		*dst = C.float(v)
	}
}
