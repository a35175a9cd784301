package dxt

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/woozymasta/bcn"
)

var ddsMagic = []byte("DDS ")

// ReadBlob reads a blob written by WriteBlob. DDS and EDDS files describe
// themselves; raw payloads need their sidecar.
func ReadBlob(path string) (Blob, Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Blob{}, 0, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}

	if !bytes.HasPrefix(data, ddsMagic) {
		return readRaw(path, data)
	}
	return readDDS(data)
}

// Image decodes b into an RGBA image.
func (b Blob) Image() (image.Image, error) {
	return Decompress(b.Codec, b.Data, b.Width, b.Height, nil)
}

func readRaw(path string, data []byte) (Blob, Container, error) {
	m, err := ReadMetadata(path)
	if err != nil {
		return Blob{}, 0, err
	}
	if m.Container != "" && m.Container != ContainerRaw.String() {
		return Blob{}, 0, fmt.Errorf("%w: %q: sidecar says %s but file has no DDS header", ErrMetadata, filepath.Base(path), m.Container)
	}
	codec, premultiplied, _ := CodecForExtension(m.Extension)

	b := Blob{Codec: codec, Width: m.Width, Height: m.Height, Premultiplied: premultiplied, Data: data}
	if want := CompressedSize(codec, m.Width, m.Height); len(data) != want {
		return Blob{}, 0, fmt.Errorf("%w: expected %d, got %d", ErrOutputSize, want, len(data))
	}
	return b, ContainerRaw, nil
}

func readDDS(data []byte) (Blob, Container, error) {
	r := bytes.NewReader(data)
	header, dx10, err := readDDSHeaders(r)
	if err != nil {
		return Blob{}, 0, err
	}

	format, premultiplied := detectFormat(header, dx10)
	var codec Codec
	switch format {
	case bcn.FormatDXT1:
		codec = BC1
	case bcn.FormatDXT5:
		codec = BC3
	default:
		return Blob{}, 0, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	b := Blob{
		Codec:         codec,
		Width:         int(header.Width),
		Height:        int(header.Height),
		Premultiplied: premultiplied,
	}
	want := CompressedSize(codec, b.Width, b.Height)

	if header.Reserved1 != enfusionMarker {
		body, err := io.ReadAll(r)
		if err != nil {
			return Blob{}, 0, err
		}
		if len(body) != want {
			return Blob{}, 0, fmt.Errorf("%w: expected %d, got %d", ErrOutputSize, want, len(body))
		}
		b.Data = body
		return b, ContainerDDS, nil
	}

	table, err := readBlockTable(r, 1)
	if err != nil {
		return Blob{}, 0, err
	}
	blk, err := readBlockBody(r, table[0])
	if err != nil {
		return Blob{}, 0, err
	}
	if r.Len() != 0 {
		return Blob{}, 0, fmt.Errorf("%w: %d trailing bytes", ErrBlockLengthMismatch, r.Len())
	}
	if b.Data, err = unpackBlock(blk, want); err != nil {
		return Blob{}, 0, err
	}
	return b, ContainerEDDS, nil
}

func readDDSHeaders(r io.Reader) (*bcn.DDSHeader, *bcn.DDSHeaderDX10, error) {
	header, err := bcn.ReadDDSHeader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDDSHeaderRead, err)
	}

	dx10, err := bcn.ReadDDSHeaderDX10(r, header)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDDSDX10Read, err)
	}

	return header, dx10, nil
}
