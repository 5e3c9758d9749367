// Copyright (c) The sccompress Authors
// SPDX-License-Identifier: MPL-2.0

package sccompress

import (
	"context"
	"encoding/json"
	"time"
)

// TelemetryData holds all telemetry data of a decompression.
type TelemetryData struct {
	// DecompressionDuration is the time the decompression took
	DecompressionDuration time.Duration `json:"decompression_duration"`

	// DecompressionErrors is the number of errors during decompression
	DecompressionErrors int64 `json:"decompression_errors"`

	// DetectedSignature is the detected container format variant
	DetectedSignature string `json:"detected_signature"`

	// InputSize is the size of the input buffer
	InputSize int64 `json:"input_size"`

	// LastDecompressionError is the last error during decompression
	LastDecompressionError error `json:"last_decompression_error"`

	// OutputSize is the size of the decompressed data
	OutputSize int64 `json:"output_size"`
}

// String returns a string representation of [TelemetryData].
func (m TelemetryData) String() string {
	b, _ := json.Marshal(m)
	return string(b)
}

// MarshalJSON implements the [encoding/json.Marshaler] interface.
func (m TelemetryData) MarshalJSON() ([]byte, error) {
	var lastError string
	if m.LastDecompressionError != nil {
		lastError = m.LastDecompressionError.Error()
	}

	type Alias TelemetryData
	return json.Marshal(&struct {
		LastDecompressionError string `json:"last_decompression_error"`
		*Alias
	}{
		LastDecompressionError: lastError,
		Alias:                  (*Alias)(&m),
	})
}

// TelemetryHook is a function type that performs operations on
// [TelemetryData] after a decompression has finished. It can be used to
// submit the [TelemetryData] to a telemetry service, for example.
type TelemetryHook func(context.Context, *TelemetryData)
