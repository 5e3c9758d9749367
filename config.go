// Copyright (c) The sccompress Authors
// SPDX-License-Identifier: MPL-2.0

package sccompress

import (
	"context"
	"io"
	"log/slog"
)

// ConfigOption is a function pointer to implement the option pattern
type ConfigOption func(*Config)

// Config provides a configuration struct and options to adjust the
// configuration.
//
// The configuration struct holds all configuration options for the
// decompression process. The configuration options can be adjusted using the
// option pattern style.
//
// The defaults are designed to be safe: input and output sizes are capped so
// that a malicious buffer cannot exhaust memory or disk.
type Config struct {
	// logger stream for decompression
	logger logger

	// maxDecompressedSize is the maximum size of the decompressed data.
	// Set value to -1 to disable the check.
	maxDecompressedSize int64

	// maxInputSize is the maximum size of an input file read at
	// construction. Set value to -1 to disable the check.
	maxInputSize int64

	// overwrite defines if an existing file should be overwritten by
	// DecompressToFile
	overwrite bool

	// telemetryHook is a function pointer to consume telemetry data after a
	// finished decompression
	telemetryHook TelemetryHook
}

// NewConfig is a generator option that takes opts as adjustments of the
// default configuration in an option pattern style
func NewConfig(opts ...ConfigOption) *Config {
	const (
		maxDecompressedSize = 1 << (10 * 3) // 1 Gb
		maxInputSize        = 1 << (10 * 3) // 1 Gb
		overwrite           = false
	)

	// disable logging by default
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	// setup default values
	config := &Config{
		logger:              logger,
		maxDecompressedSize: maxDecompressedSize,
		maxInputSize:        maxInputSize,
		overwrite:           overwrite,
	}

	// Loop through each option
	for _, opt := range opts {
		opt(config)
	}

	return config
}

// Logger returns the logger
func (c *Config) Logger() logger {
	return c.logger
}

// MaxDecompressedSize returns the maximum size of the decompressed data
func (c *Config) MaxDecompressedSize() int64 {
	return c.maxDecompressedSize
}

// MaxInputSize returns the maximum size of an input file
func (c *Config) MaxInputSize() int64 {
	return c.maxInputSize
}

// Overwrite returns true if existing files should be overwritten
func (c *Config) Overwrite() bool {
	return c.overwrite
}

// TelemetryHook returns the telemetry hook
func (c *Config) TelemetryHook() TelemetryHook {
	if c.telemetryHook == nil {
		return NoopTelemetryHook
	}
	return c.telemetryHook
}

// NoopTelemetryHook is a no operation telemetry hook
func NoopTelemetryHook(ctx context.Context, d *TelemetryData) {
	// noop
}

// WithLogger options pattern function to set a custom logger
func WithLogger(logger logger) ConfigOption {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithMaxDecompressedSize options pattern function to set the maximum size of
// the decompressed data in the config (-1 to disable check)
func WithMaxDecompressedSize(maxDecompressedSize int64) ConfigOption {
	return func(c *Config) {
		c.maxDecompressedSize = maxDecompressedSize
	}
}

// WithMaxInputSize options pattern function to set the maximum size of an
// input file in the config (-1 to disable check)
func WithMaxInputSize(maxInputSize int64) ConfigOption {
	return func(c *Config) {
		c.maxInputSize = maxInputSize
	}
}

// WithOverwrite options pattern function to set overwrite in the config
func WithOverwrite(enable bool) ConfigOption {
	return func(c *Config) {
		c.overwrite = enable
	}
}

// WithTelemetryHook options pattern function to set a telemetry hook
func WithTelemetryHook(hook TelemetryHook) ConfigOption {
	return func(c *Config) {
		c.telemetryHook = hook
	}
}
