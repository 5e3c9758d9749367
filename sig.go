// Copyright (c) The sccompress Authors
// SPDX-License-Identifier: MPL-2.0

package sccompress

import "context"

const (
	// magicSig is the ASCII prefix of signed containers, matched without
	// regard to case.
	magicSig = "Sig:"

	// headerOffsetSig is the size of the signed container header (prefix
	// plus a 64 byte signature block) preceding the LZMA stream.
	headerOffsetSig = 68
)

// isSig checks if the header starts with the signed container prefix.
func isSig(header []byte) bool {
	return matchesASCIIFold(header, 0, magicSig)
}

// decompressSig strips the signed container header and decodes the
// remaining LZMA stream. The signature block is not verified, only skipped.
func decompressSig(ctx context.Context, data []byte, cfg *Config) ([]byte, error) {
	return decompressLzma(ctx, data, headerOffsetSig, cfg)
}
