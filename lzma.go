// Copyright (c) The sccompress Authors
// SPDX-License-Identifier: MPL-2.0

package sccompress

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

const (
	// headerOffsetLzma is the number of leading bytes stripped from a bare
	// LZMA buffer before decoding.
	headerOffsetLzma = 0

	// storedHeaderLength is the length of the stream header as stored in
	// the container: 1 properties byte, a 4 byte dictionary size and a
	// 4 byte uncompressed size.
	storedHeaderLength = 9

	// sizeFieldOffset is the offset of the 4 byte uncompressed size field
	// within the stored header.
	sizeFieldOffset = 5

	// sizeUnknown is the stored size value that marks an unknown
	// uncompressed size.
	sizeUnknown = -1
)

// magicBytesLzma is the magic bytes of a bare LZMA stream: the default
// properties byte (lc=3, lp=0, pb=2) followed by the low bytes of the
// dictionary size.
var magicBytesLzma = [][]byte{
	{0x5d, 0x00, 0x00},
}

// isLzma checks if the header matches the magic bytes of a bare LZMA stream.
func isLzma(header []byte) bool {
	return matchesMagicBytes(header, 0, magicBytesLzma)
}

// buildAloneStream converts the container payload starting at offset into an
// LZMA-alone stream by widening the stored 4 byte uncompressed size field to
// the 8 byte field the decoder expects.
//
// The stored field is little-endian. Its raw bytes become the low half of
// the 8 byte little-endian size field, padded with zero bytes, so that a
// stored -1 (all 0xFF, size unknown) widens to the decoder's all-0xFF
// unknown-size marker.
func buildAloneStream(data []byte, offset int) ([]byte, error) {
	if len(data) < offset+storedHeaderLength {
		return nil, fmt.Errorf("%w: %d byte buffer is too short for the stream header at offset %d", ErrDecode, len(data), offset)
	}

	storedSize := int32(binary.LittleEndian.Uint32(data[offset+sizeFieldOffset : offset+storedHeaderLength]))
	pad := []byte{0x00, 0x00, 0x00, 0x00}
	if storedSize == sizeUnknown {
		pad = []byte{0xff, 0xff, 0xff, 0xff}
	}

	stream := make([]byte, 0, len(data)-offset+len(pad))
	stream = append(stream, data[offset:offset+storedHeaderLength]...)
	stream = append(stream, pad...)
	stream = append(stream, data[offset+storedHeaderLength:]...)
	return stream, nil
}

// decompressLzma strips offset leading bytes from data, adapts the remainder
// into an LZMA-alone stream and decodes it. The amount of decoded data is
// capped by cfg.MaxDecompressedSize().
func decompressLzma(ctx context.Context, data []byte, offset int, cfg *Config) ([]byte, error) {
	stream, err := buildAloneStream(data, offset)
	if err != nil {
		return nil, err
	}

	r, err := lzma.NewReader(bytes.NewReader(stream))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	// check if context is canceled
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	decoded, err := io.ReadAll(newLimitErrorReader(r, cfg.MaxDecompressedSize()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return decoded, nil
}
