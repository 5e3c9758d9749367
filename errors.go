// Copyright (c) The sccompress Authors
// SPDX-License-Identifier: MPL-2.0

package sccompress

import "errors"

var (
	// ErrInvalidInput is returned when a Decompressor is constructed with
	// both or neither of a file path and a buffer.
	ErrInvalidInput = errors.New("exactly one of file path and buffer must be provided")

	// ErrUnsupportedFormat is returned for containers whose payload no
	// supported decoder can handle. Currently that is the SCLZ variant,
	// which is LZHAM compressed.
	ErrUnsupportedFormat = errors.New("unsupported container format")

	// ErrDecode is returned when the adapted stream is rejected by the LZMA
	// decoder, typically because the payload is corrupt or truncated.
	ErrDecode = errors.New("cannot decode lzma stream")

	// ErrEncoding is returned by DecompressToString when the decompressed
	// data is not valid UTF-8.
	ErrEncoding = errors.New("decompressed data is not valid utf-8")
)
