package compression

import "errors"

var (
	// ErrAlgorithmMismatch indicates the discriminant and the parameter record disagree.
	ErrAlgorithmMismatch = errors.New("algorithm does not match parameter record")
	// ErrUnknownAlgorithm indicates an unrecognised algorithm name.
	ErrUnknownAlgorithm = errors.New("unknown compression algorithm")
	// ErrInvalidSwizzle indicates an input swizzle outside [rgba01]{4}.
	ErrInvalidSwizzle = errors.New("invalid input swizzle")
	// ErrInvalidEnum indicates an enum value that is neither a known name nor a known code.
	ErrInvalidEnum = errors.New("invalid enum value")
	// ErrDecode indicates a malformed compression config document.
	ErrDecode = errors.New("decode compression config failed")
)
