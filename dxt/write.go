package dxt

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/woozymasta/bcn"

	"github.com/woozymasta/gputex/internal/fsutil"
)

// Container selects how block data is laid out on disk.
type Container int

const (
	// ContainerRaw writes the bare block payload.
	ContainerRaw Container = iota
	// ContainerDDS prefixes the payload with a DDS header.
	ContainerDDS
	// ContainerEDDS writes a DDS header, a block table and an LZ4 chunk stream.
	ContainerEDDS
)

// ParseContainer parses raw, dds or edds. An empty name means raw.
func ParseContainer(s string) (Container, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "raw":
		return ContainerRaw, nil
	case "dds":
		return ContainerDDS, nil
	case "edds":
		return ContainerEDDS, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidContainer, s)
	}
}

func (c Container) String() string {
	switch c {
	case ContainerRaw:
		return "raw"
	case ContainerDDS:
		return "dds"
	case ContainerEDDS:
		return "edds"
	default:
		return fmt.Sprintf("Container(%d)", int(c))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Container) UnmarshalText(text []byte) error {
	v, err := ParseContainer(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Blob is one compressed image ready to be written.
type Blob struct {
	Data          []byte
	Codec         Codec
	Width         int
	Height        int
	Premultiplied bool
}

// Metadata returns the sidecar record describing b.
func (b Blob) Metadata(c Container) Metadata {
	m := Metadata{
		Extension: b.Codec.Extension(b.Premultiplied),
		Width:     b.Width,
		Height:    b.Height,
	}
	if c != ContainerRaw {
		m.Container = c.String()
	}
	if c == ContainerEDDS {
		m.Supercompression = "lz4"
	}
	return m
}

// WriteBlob writes b to path in the given container. The file appears
// atomically; a failed write leaves no partial file behind.
func WriteBlob(path string, b Blob, c Container) (Metadata, error) {
	w32, h32, err := dimensions(b.Width, b.Height)
	if err != nil {
		return Metadata{}, err
	}
	want := CompressedSize(b.Codec, b.Width, b.Height)
	if want <= 0 {
		return Metadata{}, fmt.Errorf("%w: %s", ErrInvalidCodec, b.Codec)
	}
	if len(b.Data) != want {
		return Metadata{}, fmt.Errorf("%w: expected %d, got %d", ErrOutputSize, want, len(b.Data))
	}

	tmp, err := fsutil.TempSibling(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %q: %v", ErrWriteBlob, path, err)
	}
	if err := writeContainer(tmp, b, c, w32, h32); err != nil {
		fsutil.Discard(tmp)
		return Metadata{}, fmt.Errorf("%w: %q: %w", ErrWriteBlob, path, err)
	}
	if err := fsutil.Commit(tmp, path); err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", ErrWriteBlob, err)
	}

	return b.Metadata(c), nil
}

func writeContainer(path string, b Blob, c Container, width, height uint32) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	if err := f.Chmod(0o644); err != nil {
		_ = f.Close()
		return err
	}
	w := bufio.NewWriter(f)

	if err := encodeContainer(w, b, c, width, height); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func encodeContainer(w *bufio.Writer, b Blob, c Container, width, height uint32) error {
	switch c {
	case ContainerRaw:
		_, err := w.Write(b.Data)
		return err
	case ContainerDDS, ContainerEDDS:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidContainer, c)
	}

	header, err := makeDDSHeader(b.Codec, width, height, b.Premultiplied, c == ContainerEDDS)
	if err != nil {
		return err
	}
	if err := bcn.WriteDDSMagic(w); err != nil {
		return err
	}
	if err := bcn.WriteDDSHeader(w, header); err != nil {
		return err
	}

	if c == ContainerDDS {
		_, err := w.Write(b.Data)
		return err
	}

	blk, err := packBlock(b.Data)
	if err != nil {
		return err
	}
	if _, err := w.WriteString(blk.magic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, blk.size); err != nil {
		return err
	}
	return blk.writeTo(w)
}
