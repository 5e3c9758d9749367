// Copyright (c) The sccompress Authors
// SPDX-License-Identifier: MPL-2.0

package sccompress

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"
	"unicode/utf8"
)

// now is a function pointer that returns time.Now to the caller.
var now = time.Now

// defaultFileMode is the file mode DecompressTo creates output files with.
const defaultFileMode fs.FileMode = 0644

// Decompressor detects the container format variant of a single asset buffer
// and decompresses it. The input buffer is read once at construction and
// never modified; every decompression call computes its result fresh, so a
// Decompressor can be shared across goroutines.
type Decompressor struct {
	buffer []byte
	cfg    *Config

	file      string
	hasFile   bool
	hasBuffer bool
}

// DecompressorOption is a function pointer to implement the option pattern
// for the Decompressor construction
type DecompressorOption func(*Decompressor)

// WithFile options pattern function to read the input from the file at path
func WithFile(path string) DecompressorOption {
	return func(d *Decompressor) {
		d.file = path
		d.hasFile = true
	}
}

// WithBuffer options pattern function to use buffer as the input
func WithBuffer(buffer []byte) DecompressorOption {
	return func(d *Decompressor) {
		d.buffer = buffer
		d.hasBuffer = true
	}
}

// WithConfig options pattern function to set the config for the Decompressor
func WithConfig(cfg *Config) DecompressorOption {
	return func(d *Decompressor) {
		if cfg != nil {
			d.cfg = cfg
		}
	}
}

// NewDecompressor creates a Decompressor for a single asset. Exactly one
// input source must be provided with [WithFile] or [WithBuffer]; any other
// combination fails with [ErrInvalidInput]. A file source is read fully at
// construction, capped by [Config.MaxInputSize], and the handle is released
// before NewDecompressor returns.
func NewDecompressor(opts ...DecompressorOption) (*Decompressor, error) {
	d := &Decompressor{cfg: NewConfig()}
	for _, opt := range opts {
		opt(d)
	}

	if d.hasFile == d.hasBuffer {
		return nil, ErrInvalidInput
	}

	if d.hasFile {
		f, err := os.Open(d.file)
		if err != nil {
			return nil, fmt.Errorf("cannot open input file: %w", err)
		}
		defer f.Close()

		buffer, err := io.ReadAll(newLimitErrorReader(f, d.cfg.MaxInputSize()))
		if err != nil {
			return nil, fmt.Errorf("cannot read input file: %w", err)
		}
		d.buffer = buffer
	}

	return d, nil
}

// Signature returns the container format variant detected from the buffer.
// Callers can use it to tell an unsupported SCLZ container apart from a
// buffer that never was compressed.
func (d *Decompressor) Signature() Signature {
	return ReadSignature(d.buffer)
}

// Buffer returns the raw input bytes.
func (d *Decompressor) Buffer() []byte {
	return d.buffer
}

// Decompress decompresses the buffer and returns the data back as bytes.
//
// Buffers without a known signature are returned unchanged. SCLZ containers
// fail with [ErrUnsupportedFormat], LZHAM is not implemented.
func (d *Decompressor) Decompress(ctx context.Context) ([]byte, error) {
	return decompress(ctx, d.buffer, d.cfg)
}

// DecompressToString decompresses the buffer and returns the data back as a
// string. It fails with [ErrEncoding] if the decompressed data is not valid
// UTF-8.
func (d *Decompressor) DecompressToString(ctx context.Context) (string, error) {
	decoded, err := d.Decompress(ctx)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(decoded) {
		return "", ErrEncoding
	}
	return string(decoded), nil
}

// DecompressToFile decompresses the buffer and writes the data to path on
// the local filesystem. It returns the number of bytes written.
func (d *Decompressor) DecompressToFile(ctx context.Context, path string) (int64, error) {
	return d.DecompressTo(ctx, NewTargetDisk(), path)
}

// DecompressTo decompresses the buffer and writes the data to path on the
// given [Target]. It returns the number of bytes written. Whether an
// existing file is overwritten is controlled by [Config.Overwrite].
func (d *Decompressor) DecompressTo(ctx context.Context, t Target, path string) (int64, error) {
	decoded, err := d.Decompress(ctx)
	if err != nil {
		return 0, err
	}

	n, err := t.CreateFile(path, bytes.NewReader(decoded), defaultFileMode, d.cfg.Overwrite(), -1)
	if err != nil {
		return n, fmt.Errorf("cannot create output file: %w", err)
	}
	return n, nil
}

// Decompress classifies data by its signature and returns the decompressed
// bytes. A nil cfg uses the default configuration.
func Decompress(ctx context.Context, data []byte, cfg *Config) ([]byte, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	return decompress(ctx, data, cfg)
}

// decompress dispatches data to the decompression path of its detected
// signature and captures telemetry around the call.
func decompress(ctx context.Context, data []byte, cfg *Config) (decoded []byte, err error) {
	signature := ReadSignature(data)
	cfg.Logger().Info("decompress", "signature", signature.String(), "inputSize", len(data))

	// prepare telemetry capturing
	td := &TelemetryData{
		DetectedSignature: signature.String(),
		InputSize:         int64(len(data)),
	}
	defer cfg.TelemetryHook()(ctx, td)
	defer captureDecompressionDuration(td, now())
	defer func() {
		if err != nil {
			td.DecompressionErrors++
			td.LastDecompressionError = err
		}
		td.OutputSize = int64(len(decoded))
	}()

	// check if context is canceled
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch signature {
	case SignatureLzma:
		decoded, err = decompressLzma(ctx, data, headerOffsetLzma, cfg)
	case SignatureSc:
		decoded, err = decompressSc(ctx, data, cfg)
	case SignatureSclz:
		decoded, err = decompressSclz(ctx, data, cfg)
	case SignatureSig:
		decoded, err = decompressSig(ctx, data, cfg)
	default:
		// no known container, pass the buffer through unchanged
		decoded = data
	}
	return decoded, err
}

// captureDecompressionDuration captures the duration of the decompression
func captureDecompressionDuration(td *TelemetryData, start time.Time) {
	stop := now()
	td.DecompressionDuration = stop.Sub(start)
}
