package dxt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

const (
	// BlockMagicCOPY marks an uncompressed EDDS block.
	BlockMagicCOPY = "COPY"
	// BlockMagicLZ4 marks an LZ4 chunk-stream EDDS block.
	BlockMagicLZ4 = "LZ4 "

	// ChunkSize is the uncompressed size of one LZ4 chunk.
	ChunkSize = 64 * 1024

	// minLZ4Input is the payload size below which blocks are always COPY.
	minLZ4Input = 1024
	// maxLZ4Ratio is the compressed/raw ratio above which COPY is kept.
	maxLZ4Ratio = 0.85
	lastChunk   = 0x80
	dictCap     = 64 * 1024
)

// block is one EDDS block body. For LZ4 blocks data is the chunk stream
// and size counts the 4-byte raw-size prefix written before it.
type block struct {
	magic   string
	data    []byte
	size    int32
	rawSize int32
}

func copyBlock(data []byte) (*block, error) {
	size, err := i32FromInt(len(data))
	if err != nil {
		return nil, err
	}
	return &block{magic: BlockMagicCOPY, size: size, data: data}, nil
}

// packBlock compresses data into an LZ4 chunk stream, falling back to COPY
// when the input is small or does not shrink enough.
func packBlock(data []byte) (*block, error) {
	if len(data) > maxInt32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInputTooLarge, len(data))
	}
	if len(data) < minLZ4Input {
		return copyBlock(data)
	}

	var stream bytes.Buffer
	buf := make([]byte, lz4.CompressBlockBound(ChunkSize))

	for off := 0; off < len(data); off += ChunkSize {
		end := min(off+ChunkSize, len(data))
		chunk := data[off:end]

		n, err := lz4.CompressBlockHC(chunk, buf, lz4.Level9, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Compress, err)
		}
		if n == 0 || float64(n) > float64(len(chunk))*maxLZ4Ratio {
			return copyBlock(data)
		}
		if n > 0x7FFFFF {
			return nil, fmt.Errorf("%w: %d", ErrChunkTooLarge, n)
		}

		flags := byte(0)
		if end == len(data) {
			flags = lastChunk
		}
		stream.Write([]byte{byte(n), byte(n >> 8), byte(n >> 16), flags})
		stream.Write(buf[:n])
	}

	total := 4 + stream.Len()
	if total > maxInt32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCompressedDataTooLarge, total)
	}
	if float64(total) > float64(len(data))*maxLZ4Ratio {
		return copyBlock(data)
	}

	size, err := i32FromInt(total)
	if err != nil {
		return nil, err
	}
	rawSize, err := i32FromInt(len(data))
	if err != nil {
		return nil, err
	}

	return &block{magic: BlockMagicLZ4, size: size, rawSize: rawSize, data: stream.Bytes()}, nil
}

// writeTo writes the block body (no table entry).
func (b *block) writeTo(w io.Writer) error {
	if b.magic == BlockMagicLZ4 {
		if err := binary.Write(w, binary.LittleEndian, b.rawSize); err != nil {
			return err
		}
	}
	_, err := w.Write(b.data)
	return err
}

// unpackBlock inflates a block body as read from disk into want bytes.
func unpackBlock(b *block, want int) ([]byte, error) {
	switch b.magic {
	case BlockMagicCOPY:
		if len(b.data) != want {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrCopySizeMismatch, want, len(b.data))
		}
		return b.data, nil
	case BlockMagicLZ4:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlockMagic, b.magic)
	}

	if len(b.data) < 4 {
		return nil, fmt.Errorf("%w: missing raw size", ErrChunkStreamTruncated)
	}
	if raw := int(binary.LittleEndian.Uint32(b.data)); raw != want {
		return nil, fmt.Errorf("%w: header says %d, want %d", ErrDecodedSizeMismatch, raw, want)
	}

	dict := make([]byte, 0, dictCap)
	out := make([]byte, want)
	pos := 0
	r := bytes.NewReader(b.data[4:])

	for {
		var hdr [4]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, fmt.Errorf("%w: chunk header: %v", ErrChunkStreamTruncated, err)
		}
		n := int(hdr[0]) | int(hdr[1])<<8 | int(hdr[2])<<16
		flags := hdr[3]
		if flags&^lastChunk != 0 {
			return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownLZ4Flags, flags)
		}
		if n <= 0 || n > r.Len() {
			return nil, fmt.Errorf("%w: %d (remaining %d)", ErrInvalidChunkSize, n, r.Len())
		}

		src := make([]byte, n)
		if _, err := io.ReadFull(r, src); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrChunkStreamTruncated, err)
		}
		if pos >= want {
			return nil, ErrDecodeOverrun
		}

		dst := out[pos:min(pos+ChunkSize, want)]
		got, err := lz4.UncompressBlockWithDict(src, dst, dict)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Decode, err)
		}
		dict = slideDict(dict, out[pos:pos+got])
		pos += got

		if flags&lastChunk != 0 {
			break
		}
	}

	if pos != want {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDecodedSizeMismatch, want, pos)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d bytes left after decode", ErrBlockLengthMismatch, r.Len())
	}
	return out, nil
}

// slideDict keeps the last dictCap decoded bytes as the dictionary for the
// next chunk.
func slideDict(dict, decoded []byte) []byte {
	if len(decoded) >= dictCap {
		return append(dict[:0], decoded[len(decoded)-dictCap:]...)
	}
	if drop := len(dict) + len(decoded) - dictCap; drop > 0 {
		dict = append(dict[:0], dict[drop:]...)
	}
	return append(dict, decoded...)
}

type blockHeader struct {
	magic string
	size  int32
}

func readBlockTable(r io.Reader, count int) ([]blockHeader, error) {
	hdrs := make([]blockHeader, 0, count)
	for i := 0; i < count; i++ {
		var magic [4]byte
		if _, err := io.ReadFull(r, magic[:]); err != nil {
			return nil, fmt.Errorf("%w: %d: %v", ErrBlockTableRead, i, err)
		}
		var size int32
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return nil, fmt.Errorf("%w: %d: %v", ErrBlockTableRead, i, err)
		}

		m := string(magic[:])
		if m != BlockMagicCOPY && m != BlockMagicLZ4 {
			return nil, fmt.Errorf("%w: %d: %q", ErrBlockTableUnknownMagic, i, m)
		}
		if size < 0 {
			return nil, fmt.Errorf("%w: %d: %d", ErrBlockTableInvalidSize, i, size)
		}
		hdrs = append(hdrs, blockHeader{magic: m, size: size})
	}
	return hdrs, nil
}

func readBlockBody(r io.Reader, h blockHeader) (*block, error) {
	data := make([]byte, h.size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBlockBodyRead, h.magic, err)
	}
	return &block{magic: h.magic, size: h.size, data: data}, nil
}
