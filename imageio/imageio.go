// Package imageio decodes source images into tightly packed straight-alpha
// RGBA8 and provides the pixel passes shared by the conversion pipelines.
package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

var (
	// ErrDecode indicates the source could not be decoded.
	ErrDecode = errors.New("decode image failed")
	// ErrUnsupportedType indicates an extension no decoder handles.
	ErrUnsupportedType = errors.New("unsupported image type")
	// ErrPixelLength indicates a buffer whose length is not a multiple of 4.
	ErrPixelLength = errors.New("pixel buffer length is not a multiple of 4")
)

// Type is a recognised source image type.
type Type int

const (
	PNG Type = iota + 1
	JPEG
	BMP
	TIFF
	WebP
)

var extensions = map[string]Type{
	".png":  PNG,
	".jpg":  JPEG,
	".jpeg": JPEG,
	".bmp":  BMP,
	".tif":  TIFF,
	".tiff": TIFF,
	".webp": WebP,
}

func (t Type) String() string {
	switch t {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	case WebP:
		return "webp"
	default:
		return "unknown"
	}
}

// TypeOf maps a path to its image type by extension, case-insensitive.
func TypeOf(path string) (Type, bool) {
	t, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return t, ok
}

// Supported reports whether path has a recognised image extension.
func Supported(path string) bool {
	_, ok := TypeOf(path)
	return ok
}

// Image is a decoded RGBA8 image, 4 bytes per pixel, row-major, no padding.
type Image struct {
	Width  int
	Height int
	Pix    []byte
	// SourceAlpha is false when the source format carries no alpha channel.
	SourceAlpha bool
}

// DecodeFile decodes the image at path, choosing the decoder by extension.
func DecodeFile(path string) (*Image, error) {
	t, ok := TypeOf(path)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer func() { _ = f.Close() }()

	return Decode(bufio.NewReader(f), t)
}

// Decode decodes r as type t.
func Decode(r io.Reader, t Type) (*Image, error) {
	var (
		src image.Image
		err error
	)
	switch t {
	case PNG:
		src, err = png.Decode(r)
	case JPEG:
		src, err = jpeg.Decode(r)
	case BMP:
		src, err = bmp.Decode(r)
	case TIFF:
		src, err = tiff.Decode(r)
	case WebP:
		src, err = webp.Decode(r)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, t)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, t, err)
	}

	return FromImage(src), nil
}

// FromImage converts any image.Image to straight-alpha RGBA8. Sources
// without an alpha channel get alpha 255.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	dst, ok := src.(*image.NRGBA)
	if !ok || dst.Stride != 4*b.Dx() || b.Min != (image.Point{}) {
		dst = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	}

	img := &Image{
		Width:       b.Dx(),
		Height:      b.Dy(),
		Pix:         dst.Pix[:4*b.Dx()*b.Dy()],
		SourceAlpha: hasAlphaChannel(src),
	}
	if !img.SourceAlpha {
		SynthesizeAlpha(img.Pix)
	}
	return img
}

func hasAlphaChannel(src image.Image) bool {
	switch s := src.(type) {
	case *image.Gray, *image.Gray16, *image.YCbCr, *image.CMYK:
		return false
	case *image.Paletted:
		for _, c := range s.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return true
			}
		}
		return false
	default:
		return true
	}
}
