// Copyright (c) The sccompress Authors
// SPDX-License-Identifier: MPL-2.0

package sccompress

import (
	"context"
	"fmt"
)

const (
	// magicSclz is the marker that distinguishes an LZHAM payload inside an
	// SC container, matched without regard to case.
	magicSclz = "SCLZ"

	// sclzMagicOffset is the position of the SCLZ marker within the SC
	// container header.
	sclzMagicOffset = 26

	// sclzMinLength is the buffer length the SCLZ sub-check requires.
	// Shorter SC buffers classify as plain SC.
	sclzMinLength = 30
)

// isSclz checks if an SC container carries the SCLZ marker. Callers must
// have established the SC prefix first.
func isSclz(header []byte) bool {
	return len(header) > sclzMinLength && matchesASCIIFold(header, sclzMagicOffset, magicSclz)
}

// decompressSclz rejects SCLZ containers. Their payload is LZHAM
// compressed, which no decoder in this package handles. Callers that want
// the raw compressed bytes can detect the signature and read the buffer
// directly.
func decompressSclz(_ context.Context, _ []byte, _ *Config) ([]byte, error) {
	return nil, fmt.Errorf("%w: SCLZ payloads are LZHAM compressed", ErrUnsupportedFormat)
}
