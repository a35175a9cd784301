package ktx

import "github.com/woozymasta/gputex/compression"

// VkFormat is the Vulkan format of the level data.
type VkFormat uint32

const (
	// FormatR8G8B8A8UNorm is VK_FORMAT_R8G8B8A8_UNORM.
	FormatR8G8B8A8UNorm VkFormat = 37
	// FormatR8G8B8A8SRGB is VK_FORMAT_R8G8B8A8_SRGB.
	FormatR8G8B8A8SRGB VkFormat = 43
)

// CreateInfo describes the storage of a new texture.
type CreateInfo struct {
	VkFormat      VkFormat
	BaseWidth     uint32
	BaseHeight    uint32
	BaseDepth     uint32
	NumDimensions uint32
	NumLevels     uint32
	NumLayers     uint32
	NumFaces      uint32
	IsArray       bool
	GenerateMips  bool
}

// Engine is the native texture-compression boundary.
type Engine interface {
	CreateTexture(info CreateInfo) (NativeTexture, ErrorCode)
}

// NativeTexture is one texture owned by an Engine. Destroy releases it and
// must be called exactly once; no other method may follow it.
type NativeTexture interface {
	SetImageFromMemory(level, layer, faceSlice uint32, src []byte) ErrorCode
	CompressBasis(params *BasisParams) ErrorCode
	CompressAstc(params *AstcParams) ErrorCode
	DeflateZstd(level uint32) ErrorCode
	DeflateZLIB(level uint32) ErrorCode
	WriteToNamedFile(path string) ErrorCode
	Destroy()
}

// Capabilities is implemented by engines that cannot run every algorithm.
type Capabilities interface {
	Supports(a compression.Algorithm) bool
}

// Supports reports whether engine can run a. Engines without Capabilities
// are assumed complete.
func Supports(engine Engine, a compression.Algorithm) bool {
	if c, ok := engine.(Capabilities); ok {
		return c.Supports(a)
	}
	return true
}
