// Copyright (c) The sccompress Authors
// SPDX-License-Identifier: MPL-2.0

package sccompress

import "context"

const (
	// magicSc is the ASCII prefix of SC containers, matched without regard
	// to case.
	magicSc = "SC"

	// headerOffsetSc is the size of the SC container header preceding the
	// LZMA stream.
	headerOffsetSc = 26
)

// isSc checks if the header starts with the SC container prefix.
func isSc(header []byte) bool {
	return matchesASCIIFold(header, 0, magicSc)
}

// decompressSc strips the SC container header and decodes the remaining
// LZMA stream.
func decompressSc(ctx context.Context, data []byte, cfg *Config) ([]byte, error) {
	return decompressLzma(ctx, data, headerOffsetSc, cfg)
}
