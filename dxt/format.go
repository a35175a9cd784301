package dxt

import (
	"fmt"
	"strings"

	"github.com/woozymasta/bcn"
)

// Codec is the block codec of a blob.
type Codec int

const (
	// BC1 stores opaque RGB in 8-byte blocks (DXT1).
	BC1 Codec = iota + 1
	// BC3 stores RGBA with interpolated alpha in 16-byte blocks (DXT4/DXT5).
	BC3
)

// SelectCodec picks BC3 when the image has any non-opaque pixel.
func SelectCodec(alphaMask bool) Codec {
	if alphaMask {
		return BC3
	}
	return BC1
}

func (c Codec) String() string {
	switch c {
	case BC1:
		return "BC1"
	case BC3:
		return "BC3"
	default:
		return fmt.Sprintf("Codec(%d)", int(c))
	}
}

// Format returns the bcn format of the codec.
func (c Codec) Format() bcn.Format {
	switch c {
	case BC1:
		return bcn.FormatDXT1
	case BC3:
		return bcn.FormatDXT5
	default:
		return bcn.FormatUnknown
	}
}

// Extension returns the blob extension without the dot. BC3 holding
// premultiplied colour is DXT4, straight alpha is DXT5.
func (c Codec) Extension(premultiplied bool) string {
	switch {
	case c == BC1:
		return "dxt1"
	case c == BC3 && premultiplied:
		return "dxt4"
	case c == BC3:
		return "dxt5"
	default:
		return ""
	}
}

// CodecForExtension maps a blob extension, with or without the dot, back to
// its codec and whether colour is premultiplied.
func CodecForExtension(ext string) (Codec, bool, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "dxt1":
		return BC1, false, nil
	case "dxt4":
		return BC3, true, nil
	case "dxt5":
		return BC3, false, nil
	default:
		return 0, false, fmt.Errorf("%w: extension %q", ErrInvalidCodec, ext)
	}
}

// CompressedSize is the exact payload size of a width x height image.
// It returns -1 for an unknown codec.
func CompressedSize(c Codec, width, height int) int {
	return expectedDataLength(c.Format(), width, height)
}

func expectedDataLength(format bcn.Format, width, height int) int {
	blocksW := (width + 3) / 4
	blocksH := (height + 3) / 4
	switch format {
	case bcn.FormatDXT1, bcn.FormatBC4:
		return blocksW * blocksH * 8
	case bcn.FormatDXT3, bcn.FormatDXT5, bcn.FormatBC5:
		return blocksW * blocksH * 16
	case bcn.FormatRGBA8, bcn.FormatBGRA8:
		return width * height * 4
	default:
		return -1
	}
}

// detectFormat maps a DDS pixel format (or DX10 DXGI format) to bcn and
// reports whether DXT2/DXT4 marked the colour as premultiplied.
func detectFormat(header *bcn.DDSHeader, dx10 *bcn.DDSHeaderDX10) (bcn.Format, bool) {
	if dx10 != nil {
		return mapDxgiFormat(dx10.DXGIFormat), false
	}

	pf := header.PixelFormat
	if pf.Flags&bcn.DDSPFFourCC == 0 {
		return bcn.FormatUnknown, false
	}
	switch intToFourCC(pf.FourCC) {
	case "DXT1":
		return bcn.FormatDXT1, false
	case "DXT2":
		return bcn.FormatDXT3, true
	case "DXT3":
		return bcn.FormatDXT3, false
	case "DXT4":
		return bcn.FormatDXT5, true
	case "DXT5":
		return bcn.FormatDXT5, false
	default:
		return bcn.FormatUnknown, false
	}
}

func mapDxgiFormat(dxgiFormat uint32) bcn.Format {
	switch dxgiFormat {
	case 71, 72:
		return bcn.FormatDXT1
	case 74, 75:
		return bcn.FormatDXT3
	case 77, 78:
		return bcn.FormatDXT5
	default:
		return bcn.FormatUnknown
	}
}

func intToFourCC(value uint32) string {
	return string([]byte{byte(value), byte(value >> 8), byte(value >> 16), byte(value >> 24)})
}

func makeFourCC(s string) uint32 {
	return uint32(s[0]) | uint32(s[1])<<8 | uint32(s[2])<<16 | uint32(s[3])<<24
}

// enfusionMarker tags EDDS headers the way Enfusion tools expect.
var enfusionMarker = [11]uint32{0, 0x31464e45} // "ENF1"

// makeDDSHeader builds a single-level header for a BC1/BC3 payload.
func makeDDSHeader(c Codec, width, height uint32, premultiplied, enfusion bool) (*bcn.DDSHeader, error) {
	fourCC := strings.ToUpper(c.Extension(premultiplied))
	if fourCC == "" {
		return nil, ErrInvalidCodec
	}

	hdr := &bcn.DDSHeader{
		Size:              bcn.DDSHeaderSize,
		Flags:             bcn.DDSFlagCaps | bcn.DDSFlagHeight | bcn.DDSFlagWidth | bcn.DDSFlagPixelFormat | bcn.DDSFlagLinearSize,
		Height:            height,
		Width:             width,
		Depth:             1,
		MipMapCount:       1,
		PitchOrLinearSize: uint32(CompressedSize(c, int(width), int(height))), //nolint:gosec // validated by caller
		Caps:              bcn.DDSCapsTexture,
	}
	if enfusion {
		hdr.Reserved1 = enfusionMarker
	}
	hdr.PixelFormat.Size = bcn.DDSPixelFormatSize
	hdr.PixelFormat.Flags = bcn.DDSPFFourCC
	hdr.PixelFormat.FourCC = makeFourCC(fourCC)

	return hdr, nil
}
