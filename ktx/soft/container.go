package soft

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

var identifier = [12]byte{0xAB, 'K', 'T', 'X', ' ', '2', '0', 0xBB, '\r', '\n', 0x1A, '\n'}

// Supercompression schemes.
const (
	SchemeNone    uint32 = 0
	SchemeBasisLZ uint32 = 1
	SchemeZstd    uint32 = 2
	SchemeZLIB    uint32 = 3
)

const (
	headerSize     = 12 + 9*4 + 4*4 + 2*8
	levelIndexSize = 3 * 8
	dfdBlockSize   = 24 + 4*16
	dfdTotalSize   = 4 + dfdBlockSize
	writerKey      = "KTXwriter"
	writerName     = "gputex"
)

var (
	// ErrNotKTX2 indicates a missing KTX2 identifier.
	ErrNotKTX2 = errors.New("not a KTX2 file")
	// ErrTruncated indicates the file ends before the indexed data.
	ErrTruncated = errors.New("truncated KTX2 file")
	// ErrUnsupportedScheme indicates a supercompression scheme this reader cannot inflate.
	ErrUnsupportedScheme = errors.New("unsupported supercompression scheme")
	// ErrLevelLength indicates the inflated level does not match its index entry.
	ErrLevelLength = errors.New("level length mismatch")
)

// Header is the fixed KTX2 header after the identifier.
type Header struct {
	VkFormat               uint32
	TypeSize               uint32
	PixelWidth             uint32
	PixelHeight            uint32
	PixelDepth             uint32
	LayerCount             uint32
	FaceCount              uint32
	LevelCount             uint32
	SupercompressionScheme uint32
	DFDByteOffset          uint32
	DFDByteLength          uint32
	KVDByteOffset          uint32
	KVDByteLength          uint32
	SGDByteOffset          uint64
	SGDByteLength          uint64
}

type levelIndex struct {
	ByteOffset             uint64
	ByteLength             uint64
	UncompressedByteLength uint64
}

// File is a parsed single-level KTX2 file.
type File struct {
	Header    Header
	KeyValues map[string]string
	// Level is level 0 after inflation.
	Level []byte
}

// encodeContainer lays out identifier, header, level index, DFD, KVD and
// level 0 data. Offsets stay 4-byte aligned so no level padding is needed.
func encodeContainer(vkFormat, width, height, scheme uint32, level []byte, uncompressed int) []byte {
	kvd := encodeKeyValues(map[string]string{writerKey: writerName})

	dfdOffset := uint32(headerSize + levelIndexSize)
	kvdOffset := dfdOffset + dfdTotalSize
	dataOffset := uint64(kvdOffset) + uint64(len(kvd))

	hdr := Header{
		VkFormat:               vkFormat,
		TypeSize:               1,
		PixelWidth:             width,
		PixelHeight:            height,
		FaceCount:              1,
		LevelCount:             1,
		SupercompressionScheme: scheme,
		DFDByteOffset:          dfdOffset,
		DFDByteLength:          dfdTotalSize,
		KVDByteOffset:          kvdOffset,
		KVDByteLength:          uint32(len(kvd)), //nolint:gosec // small
	}

	var buf bytes.Buffer
	buf.Grow(int(dataOffset) + len(level))
	buf.Write(identifier[:])
	_ = binary.Write(&buf, binary.LittleEndian, &hdr)
	_ = binary.Write(&buf, binary.LittleEndian, &levelIndex{
		ByteOffset:             dataOffset,
		ByteLength:             uint64(len(level)),
		UncompressedByteLength: uint64(uncompressed), //nolint:gosec // non-negative
	})
	buf.Write(basicDFD(vkFormat, scheme != SchemeNone))
	buf.Write(kvd)
	buf.Write(level)

	return buf.Bytes()
}

// basicDFD returns a Khronos basic data format descriptor for RGBA8.
func basicDFD(vkFormat uint32, supercompressed bool) []byte {
	transfer := uint32(1) // linear
	if vkFormat == 43 {
		transfer = 2 // sRGB
	}
	bytesPlane0 := uint32(4)
	if supercompressed {
		bytesPlane0 = 0
	}

	words := []uint32{
		dfdTotalSize,
		0,                       // vendor 0, descriptor type 0
		2 | dfdBlockSize<<16,    // version 2, block size
		1 | 1<<8 | transfer<<16, // RGBSDA, BT709, transfer, straight alpha
		0,                       // 1x1x1x1 texel block
		bytesPlane0,
		0,
	}
	for i, channel := range []uint32{0, 1, 2, 15} {
		words = append(words,
			uint32(i*8)|7<<16|channel<<24,
			0,
			0,
			255,
		)
	}

	out := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[4*i:], w)
	}
	return out
}

func encodeKeyValues(kv map[string]string) []byte {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		v := kv[k]
		n := len(k) + 1 + len(v) + 1
		_ = binary.Write(&buf, binary.LittleEndian, uint32(n)) //nolint:gosec // small
		buf.WriteString(k)
		buf.WriteByte(0)
		buf.WriteString(v)
		buf.WriteByte(0)
		for pad := (4 - n%4) % 4; pad > 0; pad-- {
			buf.WriteByte(0)
		}
	}
	return buf.Bytes()
}

func decodeKeyValues(b []byte) map[string]string {
	out := make(map[string]string)
	for len(b) >= 4 {
		n := int(binary.LittleEndian.Uint32(b))
		b = b[4:]
		if n > len(b) {
			break
		}
		entry := b[:n]
		if k, v, ok := bytes.Cut(entry, []byte{0}); ok {
			out[string(k)] = string(bytes.TrimRight(v, "\x00"))
		}
		b = b[min(len(b), n+(4-n%4)%4):]
	}
	return out
}

// ReadFile parses a single-level KTX2 file and inflates its level data.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses a single-level KTX2 image held in memory.
func Parse(data []byte) (*File, error) {
	if len(data) < headerSize+levelIndexSize || !bytes.Equal(data[:12], identifier[:]) {
		return nil, ErrNotKTX2
	}

	r := bytes.NewReader(data[12:])
	var f File
	if err := binary.Read(r, binary.LittleEndian, &f.Header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrTruncated, err)
	}
	var idx levelIndex
	if err := binary.Read(r, binary.LittleEndian, &idx); err != nil {
		return nil, fmt.Errorf("%w: level index: %v", ErrTruncated, err)
	}

	h := f.Header
	if end := uint64(h.KVDByteOffset) + uint64(h.KVDByteLength); end > uint64(len(data)) {
		return nil, fmt.Errorf("%w: key/value data", ErrTruncated)
	}
	f.KeyValues = decodeKeyValues(data[h.KVDByteOffset : h.KVDByteOffset+h.KVDByteLength])

	if idx.ByteOffset+idx.ByteLength > uint64(len(data)) {
		return nil, fmt.Errorf("%w: level 0", ErrTruncated)
	}
	raw := data[idx.ByteOffset : idx.ByteOffset+idx.ByteLength]

	level, err := inflate(h.SupercompressionScheme, raw)
	if err != nil {
		return nil, err
	}
	if uint64(len(level)) != idx.UncompressedByteLength {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrLevelLength, len(level), idx.UncompressedByteLength)
	}
	f.Level = level

	return &f, nil
}

func inflate(scheme uint32, raw []byte) ([]byte, error) {
	switch scheme {
	case SchemeNone:
		out := make([]byte, len(raw))
		copy(out, raw)
		return out, nil
	case SchemeZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(raw, nil)
	case SchemeZLIB:
		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		defer func() { _ = zr.Close() }()
		return io.ReadAll(zr)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedScheme, scheme)
	}
}
