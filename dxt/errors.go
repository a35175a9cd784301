package dxt

import "errors"

var (
	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrInvalidCodec indicates an unknown block codec.
	ErrInvalidCodec = errors.New("invalid codec")
	// ErrInvalidContainer indicates an unknown blob container.
	ErrInvalidContainer = errors.New("invalid blob container")
	// ErrPixelSize indicates an RGBA8 buffer that does not match the dimensions.
	ErrPixelSize = errors.New("pixel buffer size mismatch")
	// ErrOutputSize indicates an output buffer not sized for the codec.
	ErrOutputSize = errors.New("output buffer size mismatch")
	// ErrEncode indicates block encoding failed.
	ErrEncode = errors.New("block encode failed")
	// ErrInputTooLarge indicates input data is too large to encode.
	ErrInputTooLarge = errors.New("input data too large")
	// ErrCompressedDataTooLarge indicates compressed payload exceeds limits.
	ErrCompressedDataTooLarge = errors.New("compressed data too large")
	// ErrChunkTooLarge indicates a compressed chunk exceeds allowed size.
	ErrChunkTooLarge = errors.New("compressed chunk too large")
	// ErrLZ4Compress indicates LZ4 compression failed.
	ErrLZ4Compress = errors.New("LZ4 compression failed")
	// ErrLZ4Decode indicates LZ4 decode failed.
	ErrLZ4Decode = errors.New("LZ4 decode failed")
	// ErrCopySizeMismatch indicates COPY block data size mismatch.
	ErrCopySizeMismatch = errors.New("COPY block size mismatch")
	// ErrUnknownBlockMagic indicates an unknown block magic.
	ErrUnknownBlockMagic = errors.New("unknown block magic")
	// ErrChunkStreamTruncated indicates LZ4 chunk stream is truncated.
	ErrChunkStreamTruncated = errors.New("LZ4 chunk-stream truncated")
	// ErrUnknownLZ4Flags indicates unknown LZ4 chunk flags.
	ErrUnknownLZ4Flags = errors.New("unknown LZ4 flags")
	// ErrInvalidChunkSize indicates invalid LZ4 chunk size.
	ErrInvalidChunkSize = errors.New("invalid compressed chunk size")
	// ErrDecodeOverrun indicates decoded data overruns target buffer.
	ErrDecodeOverrun = errors.New("decoded LZ4 overruns target buffer")
	// ErrDecodedSizeMismatch indicates decoded size mismatch.
	ErrDecodedSizeMismatch = errors.New("LZ4 decoded size mismatch")
	// ErrBlockLengthMismatch indicates leftover bytes after decode.
	ErrBlockLengthMismatch = errors.New("LZ4 block length mismatch")
	// ErrBlockTableRead indicates the block table could not be read.
	ErrBlockTableRead = errors.New("reading block table failed")
	// ErrBlockTableUnknownMagic indicates unknown block magic in table.
	ErrBlockTableUnknownMagic = errors.New("unknown block magic in table")
	// ErrBlockTableInvalidSize indicates invalid size in block table.
	ErrBlockTableInvalidSize = errors.New("invalid block size in table")
	// ErrBlockBodyRead indicates block body read failed.
	ErrBlockBodyRead = errors.New("reading block body failed")
	// ErrDDSHeaderRead indicates DDS header read failed.
	ErrDDSHeaderRead = errors.New("reading DDS header failed")
	// ErrDDSDX10Read indicates DDS DX10 header read failed.
	ErrDDSDX10Read = errors.New("reading DDS DX10 header failed")
	// ErrUnknownFormat indicates an unsupported DDS format.
	ErrUnknownFormat = errors.New("unknown format")
	// ErrOpenFile indicates a blob or sidecar could not be opened.
	ErrOpenFile = errors.New("open file failed")
	// ErrDecodeImage indicates block decode failed.
	ErrDecodeImage = errors.New("decode image failed")
	// ErrMetadata indicates a malformed or missing sidecar.
	ErrMetadata = errors.New("invalid metadata sidecar")
	// ErrWriteBlob indicates the blob could not be written.
	ErrWriteBlob = errors.New("writing blob failed")
	// ErrWriteMetadata indicates the sidecar could not be written.
	ErrWriteMetadata = errors.New("writing metadata failed")
)
