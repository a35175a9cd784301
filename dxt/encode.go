package dxt

import (
	"fmt"
	"image"

	"github.com/woozymasta/bcn"
)

// Compress encodes a tightly packed RGBA8 image into dst, which must be
// exactly CompressedSize(c, width, height) bytes. opts may be nil.
func Compress(c Codec, pix []byte, width, height int, dst []byte, opts *bcn.EncodeOptions) error {
	if _, _, err := dimensions(width, height); err != nil {
		return err
	}
	want := CompressedSize(c, width, height)
	if want <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCodec, c)
	}
	if len(pix) != width*height*4 {
		return fmt.Errorf("%w: expected %d, got %d", ErrPixelSize, width*height*4, len(pix))
	}
	if len(dst) != want {
		return fmt.Errorf("%w: expected %d, got %d", ErrOutputSize, want, len(dst))
	}

	img := &image.NRGBA{
		Pix:    pix,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}

	data, _, _, err := bcn.EncodeImageWithOptions(img, c.Format(), opts)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncode, c, err)
	}
	if len(data) != want {
		return fmt.Errorf("%w: encoder produced %d bytes, want %d", ErrOutputSize, len(data), want)
	}

	copy(dst, data)
	return nil
}

// Decompress decodes a BC1/BC3 payload back into an RGBA image.
func Decompress(c Codec, data []byte, width, height int, opts *bcn.DecodeOptions) (image.Image, error) {
	want := CompressedSize(c, width, height)
	if want <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCodec, c)
	}
	if len(data) != want {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrOutputSize, want, len(data))
	}

	img, err := bcn.DecodeImageWithOptions(data, width, height, c.Format(), opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeImage, err)
	}
	return img, nil
}
