package ktx

import (
	"errors"
	"fmt"

	"github.com/woozymasta/gputex/compression"
)

var (
	// ErrNativeAllocation indicates the engine could not create a texture.
	ErrNativeAllocation = errors.New("native texture allocation failed")
	// ErrImageBind indicates the engine rejected the pixel buffer.
	ErrImageBind = errors.New("image bind failed")
	// ErrCompression indicates the engine failed to encode the texture.
	ErrCompression = errors.New("texture compression failed")
	// ErrWrite indicates the texture could not be written to disk.
	ErrWrite = errors.New("texture write failed")
	// ErrInvalidState indicates an operation out of Create, Bind, Compress, Write order.
	ErrInvalidState = errors.New("invalid texture state")
	// ErrClosed indicates use of a texture after Close.
	ErrClosed = errors.New("texture closed")
)

// ErrorCode mirrors ktx_error_code_e.
type ErrorCode uint32

// Engine result codes.
const (
	Success ErrorCode = iota
	FileDataError
	FileIsPipe
	FileOpenFailed
	FileOverflow
	FileReadError
	FileSeekError
	FileUnexpectedEOF
	FileWriteError
	GLError
	InvalidOperation
	InvalidValue
	NotFound
	OutOfMemory
	TranscodeFailed
	UnknownFileFormat
	UnsupportedTextureType
	UnsupportedFeature
	LibraryNotLinked
	DecompressLengthError
	DecompressChecksumError
)

var codeNames = [...]string{
	"KTX_SUCCESS",
	"KTX_FILE_DATA_ERROR",
	"KTX_FILE_ISPIPE",
	"KTX_FILE_OPEN_FAILED",
	"KTX_FILE_OVERFLOW",
	"KTX_FILE_READ_ERROR",
	"KTX_FILE_SEEK_ERROR",
	"KTX_FILE_UNEXPECTED_EOF",
	"KTX_FILE_WRITE_ERROR",
	"KTX_GL_ERROR",
	"KTX_INVALID_OPERATION",
	"KTX_INVALID_VALUE",
	"KTX_NOT_FOUND",
	"KTX_OUT_OF_MEMORY",
	"KTX_TRANSCODE_FAILED",
	"KTX_UNKNOWN_FILE_FORMAT",
	"KTX_UNSUPPORTED_TEXTURE_TYPE",
	"KTX_UNSUPPORTED_FEATURE",
	"KTX_LIBRARY_NOT_LINKED",
	"KTX_DECOMPRESS_LENGTH_ERROR",
	"KTX_DECOMPRESS_CHECKSUM_ERROR",
}

func (c ErrorCode) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("KTX_ERROR(%d)", uint32(c))
}

// NativeError carries the engine code of a failed lifecycle step.
type NativeError struct {
	Op   string
	Code ErrorCode
	Err  error
}

func (e *NativeError) Error() string {
	return fmt.Sprintf("%v: %s: %s", e.Err, e.Op, e.Code)
}

func (e *NativeError) Unwrap() error { return e.Err }

// CompressionError names the failing algorithm and the engine code.
type CompressionError struct {
	Algorithm compression.Algorithm
	Code      ErrorCode
}

func (e *CompressionError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrCompression, e.Algorithm, e.Code)
}

func (e *CompressionError) Unwrap() error { return ErrCompression }
