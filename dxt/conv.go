// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/gputex

package dxt

const (
	maxInt32  = int(^uint32(0) >> 1)
	maxUint32 = uint64(^uint32(0))
)

// i32FromInt converts an int to an int32.
func i32FromInt(n int) (int32, error) {
	if n < 0 || n > maxInt32 {
		return 0, ErrSizeOverflow
	}

	return int32(n), nil
}

// u32FromInt converts an int to a uint32.
func u32FromInt(n int) (uint32, error) {
	if n < 0 || uint64(n) > maxUint32 {
		return 0, ErrSizeOverflow
	}

	// #nosec G115 -- bounds checked above.
	return uint32(n), nil
}

// dimensions checks that a texture size fits the 32-bit header fields.
func dimensions(width, height int) (uint32, uint32, error) {
	if width <= 0 || height <= 0 {
		return 0, 0, ErrSizeOverflow
	}
	w, err := u32FromInt(width)
	if err != nil {
		return 0, 0, err
	}
	h, err := u32FromInt(height)
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}
