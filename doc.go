// Package sccompress detects and decompresses the container formats used by
// Supercell game asset files.
//
// A buffer is classified by its leading bytes into one of five variants (see
// [Signature]). The LZMA based variants store a stream header with a 4 byte
// uncompressed size field; decompression widens that field to the 8 byte
// field of a regular LZMA-alone stream and hands the result to the decoder.
// The SCLZ variant is LZHAM compressed and reported as unsupported. Buffers
// without a known signature pass through unchanged.
//
// Configuration is done using the [Config] struct, which can be used to set
// the logger, the telemetry hook and the input and output size limits.
// Telemetry data is captured on every decompression; see [TelemetryData].
package sccompress
