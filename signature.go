// Copyright (c) The sccompress Authors
// SPDX-License-Identifier: MPL-2.0

package sccompress

import "bytes"

// Signature identifies the container format variant of a buffer. It is
// determined solely from the leading bytes.
type Signature int

const (
	// SignatureNone marks a buffer without a known container signature.
	// Such buffers are treated as already decompressed.
	SignatureNone Signature = iota

	// SignatureLzma marks a bare LZMA stream.
	SignatureLzma

	// SignatureSc marks an SC container: a 26 byte header followed by an
	// LZMA stream.
	SignatureSc

	// SignatureSclz marks an SC container whose payload is LZHAM
	// compressed. Decoding it is not supported.
	SignatureSclz

	// SignatureSig marks a "Sig:" container: a 68 byte header followed by
	// an LZMA stream.
	SignatureSig
)

// String returns the name of the signature.
func (s Signature) String() string {
	switch s {
	case SignatureLzma:
		return "lzma"
	case SignatureSc:
		return "sc"
	case SignatureSclz:
		return "sclz"
	case SignatureSig:
		return "sig"
	default:
		return "none"
	}
}

// ReadSignature classifies data by its leading bytes. The function is total:
// any byte sequence, including an empty or truncated one, yields a result.
// A prefix that is not the expected ASCII text simply does not match; it
// never raises an error.
//
// The checks are ordered, first match wins. The SCLZ marker inside the SC
// container header is only tested on buffers longer than 30 bytes.
func ReadSignature(data []byte) Signature {
	switch {
	case isLzma(data):
		return SignatureLzma
	case isSc(data):
		if isSclz(data) {
			return SignatureSclz
		}
		return SignatureSc
	case isSig(data):
		return SignatureSig
	}
	return SignatureNone
}

// matchesMagicBytes checks if data matches any of the magic byte sequences
// at the given offset.
func matchesMagicBytes(data []byte, offset int, magicBytes [][]byte) bool {
	// check all possible magic bytes until match is found
	for _, mb := range magicBytes {
		// check if header is long enough
		if offset+len(mb) > len(data) {
			continue
		}

		// check for byte match
		if bytes.Equal(mb, data[offset:offset+len(mb)]) {
			return true
		}
	}

	// no match found
	return false
}

// matchesASCIIFold compares len(pattern) bytes of data at the given offset
// against an ASCII pattern, ignoring the case of letters. The comparison is
// byte-level, so data that is not valid text fails the match instead of
// failing the call.
func matchesASCIIFold(data []byte, offset int, pattern string) bool {
	if offset < 0 || offset+len(pattern) > len(data) {
		return false
	}
	for i := 0; i < len(pattern); i++ {
		if lowerASCII(data[offset+i]) != lowerASCII(pattern[i]) {
			return false
		}
	}
	return true
}

// lowerASCII lowercases a single ASCII letter and leaves every other byte
// untouched.
func lowerASCII(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
