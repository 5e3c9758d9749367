package sccompress_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz/lzma"

	"github.com/scmods/sccompress"
)

// wrapFunc wraps a stored stream into a container variant
type wrapFunc func(*testing.T, []byte) []byte

func TestDecompressVariants(t *testing.T) {
	ctx := context.Background()

	content := bytes.Repeat([]byte("Hello, World! "), 128)

	tests := []struct {
		name  string
		wrap  wrapFunc
		sized bool
		want  sccompress.Signature
	}{
		{
			name: "bare lzma, unknown size",
			wrap: wrapLzma,
			want: sccompress.SignatureLzma,
		},
		{
			name:  "bare lzma, size in header",
			wrap:  wrapLzma,
			sized: true,
			want:  sccompress.SignatureLzma,
		},
		{
			name: "sc container, unknown size",
			wrap: wrapSc,
			want: sccompress.SignatureSc,
		},
		{
			name:  "sc container, size in header",
			wrap:  wrapSc,
			sized: true,
			want:  sccompress.SignatureSc,
		},
		{
			name: "sig container, unknown size",
			wrap: wrapSig,
			want: sccompress.SignatureSig,
		},
		{
			name:  "sig container, size in header",
			wrap:  wrapSig,
			sized: true,
			want:  sccompress.SignatureSig,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			buffer := test.wrap(t, storedStream(t, compressLzma(t, content, test.sized)))

			d, err := sccompress.NewDecompressor(sccompress.WithBuffer(buffer))
			require.NoError(t, err)
			require.Equal(t, test.want, d.Signature())

			decoded, err := d.Decompress(ctx)
			require.NoError(t, err)
			assert.Equal(t, content, decoded)
		})
	}
}

func TestDecompressPassthrough(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "empty buffer",
			data: []byte{},
		},
		{
			name: "plain text",
			data: []byte("already decompressed content"),
		},
		{
			name: "binary without signature",
			data: []byte{0x00, 0x01, 0x02, 0xff},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d, err := sccompress.NewDecompressor(sccompress.WithBuffer(test.data))
			require.NoError(t, err)
			require.Equal(t, sccompress.SignatureNone, d.Signature())

			decoded, err := d.Decompress(ctx)
			require.NoError(t, err)
			assert.Equal(t, test.data, decoded)
		})
	}
}

func TestDecompressSclzUnsupported(t *testing.T) {
	ctx := context.Background()

	buffer := append(append([]byte("SC"), bytes.Repeat([]byte{0x00}, 24)...), []byte("SCLZ\x01\x02\x03")...)

	d, err := sccompress.NewDecompressor(sccompress.WithBuffer(buffer))
	require.NoError(t, err)
	require.Equal(t, sccompress.SignatureSclz, d.Signature())

	_, err = d.Decompress(ctx)
	require.ErrorIs(t, err, sccompress.ErrUnsupportedFormat)

	// the raw bytes stay reachable for callers that want them
	assert.Equal(t, buffer, d.Buffer())
}

func TestDecompressCorrupt(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "lzma buffer shorter than the stored header",
			data: []byte{0x5d, 0x00, 0x00, 0x04},
		},
		{
			name: "sc container without payload",
			data: []byte("SC"),
		},
		{
			name: "sc container with invalid properties byte",
			data: append(append([]byte("SC"), bytes.Repeat([]byte{0x00}, 24)...), bytes.Repeat([]byte{0xe1}, 16)...),
		},
		{
			name: "sig container without payload",
			data: []byte("Sig:"),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := sccompress.Decompress(ctx, test.data, nil)
			require.ErrorIs(t, err, sccompress.ErrDecode)
		})
	}
}

func TestDecompressMaxDecompressedSize(t *testing.T) {
	ctx := context.Background()

	content := bytes.Repeat([]byte("a"), 1024)
	buffer := wrapSc(t, storedStream(t, compressLzma(t, content, false)))

	cfg := sccompress.NewConfig(sccompress.WithMaxDecompressedSize(16))
	_, err := sccompress.Decompress(ctx, buffer, cfg)
	require.ErrorIs(t, err, sccompress.ErrDecode)

	// disabled check reads everything
	cfg = sccompress.NewConfig(sccompress.WithMaxDecompressedSize(-1))
	decoded, err := sccompress.Decompress(ctx, buffer, cfg)
	require.NoError(t, err)
	assert.Equal(t, content, decoded)
}

func TestNewDecompressorInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		opts []sccompress.DecompressorOption
	}{
		{
			name: "no source",
			opts: nil,
		},
		{
			name: "both sources",
			opts: []sccompress.DecompressorOption{
				sccompress.WithFile("some-file"),
				sccompress.WithBuffer([]byte("SC")),
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := sccompress.NewDecompressor(test.opts...)
			require.ErrorIs(t, err, sccompress.ErrInvalidInput)
		})
	}
}

func TestNewDecompressorFromFile(t *testing.T) {
	ctx := context.Background()

	content := bytes.Repeat([]byte("file content "), 64)
	buffer := wrapSc(t, storedStream(t, compressLzma(t, content, true)))

	path := filepath.Join(t.TempDir(), "asset.sc")
	require.NoError(t, os.WriteFile(path, buffer, 0644))

	d, err := sccompress.NewDecompressor(sccompress.WithFile(path))
	require.NoError(t, err)

	decoded, err := d.Decompress(ctx)
	require.NoError(t, err)
	assert.Equal(t, content, decoded)
}

func TestNewDecompressorFromMissingFile(t *testing.T) {
	_, err := sccompress.NewDecompressor(sccompress.WithFile(filepath.Join(t.TempDir(), "missing")))
	require.Error(t, err)
}

func TestNewDecompressorMaxInputSize(t *testing.T) {
	buffer := bytes.Repeat([]byte("x"), 1024)
	path := filepath.Join(t.TempDir(), "big.sc")
	require.NoError(t, os.WriteFile(path, buffer, 0644))

	cfg := sccompress.NewConfig(sccompress.WithMaxInputSize(16))
	_, err := sccompress.NewDecompressor(sccompress.WithFile(path), sccompress.WithConfig(cfg))
	require.Error(t, err)
}

func TestDecompressToString(t *testing.T) {
	ctx := context.Background()

	t.Run("valid utf-8", func(t *testing.T) {
		content := []byte("käsekuchen ❤")
		buffer := wrapSig(t, storedStream(t, compressLzma(t, content, true)))

		d, err := sccompress.NewDecompressor(sccompress.WithBuffer(buffer))
		require.NoError(t, err)

		decoded, err := d.DecompressToString(ctx)
		require.NoError(t, err)
		assert.Equal(t, string(content), decoded)
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		content := []byte{0xff, 0xfe, 0xfd}
		buffer := wrapSc(t, storedStream(t, compressLzma(t, content, true)))

		d, err := sccompress.NewDecompressor(sccompress.WithBuffer(buffer))
		require.NoError(t, err)

		_, err = d.DecompressToString(ctx)
		require.ErrorIs(t, err, sccompress.ErrEncoding)
	})
}

func TestDecompressToFile(t *testing.T) {
	ctx := context.Background()

	content := bytes.Repeat([]byte("output content "), 32)
	buffer := wrapSc(t, storedStream(t, compressLzma(t, content, true)))

	d, err := sccompress.NewDecompressor(sccompress.WithBuffer(buffer))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "asset")
	n, err := d.DecompressToFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), n)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, written)

	// existing output is not overwritten by default
	_, err = d.DecompressToFile(ctx, path)
	require.Error(t, err)
}

func TestDecompressToMemoryTarget(t *testing.T) {
	ctx := context.Background()

	content := []byte("in memory")
	buffer := wrapLzma(t, storedStream(t, compressLzma(t, content, true)))

	cfg := sccompress.NewConfig(sccompress.WithOverwrite(true))
	d, err := sccompress.NewDecompressor(sccompress.WithBuffer(buffer), sccompress.WithConfig(cfg))
	require.NoError(t, err)

	target := sccompress.NewTargetMemory()
	n, err := d.DecompressTo(ctx, target, "asset")
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), n)

	stored, err := target.ReadFile("asset")
	require.NoError(t, err)
	assert.Equal(t, content, stored)

	// overwrite enabled, second write succeeds
	_, err = d.DecompressTo(ctx, target, "asset")
	require.NoError(t, err)
}

func TestDecompressTelemetry(t *testing.T) {
	ctx := context.Background()

	content := bytes.Repeat([]byte("telemetry "), 16)
	buffer := wrapSc(t, storedStream(t, compressLzma(t, content, true)))

	var captured sccompress.TelemetryData
	cfg := sccompress.NewConfig(sccompress.WithTelemetryHook(func(_ context.Context, td *sccompress.TelemetryData) {
		captured = *td
	}))

	decoded, err := sccompress.Decompress(ctx, buffer, cfg)
	require.NoError(t, err)

	assert.Equal(t, "sc", captured.DetectedSignature)
	assert.Equal(t, int64(len(buffer)), captured.InputSize)
	assert.Equal(t, int64(len(decoded)), captured.OutputSize)
	assert.Equal(t, int64(0), captured.DecompressionErrors)

	// failed decompression is counted
	_, err = sccompress.Decompress(ctx, []byte("SC"), cfg)
	require.Error(t, err)
	assert.Equal(t, int64(1), captured.DecompressionErrors)
	assert.ErrorIs(t, captured.LastDecompressionError, sccompress.ErrDecode)
}

func TestDecompressCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	buffer := wrapSc(t, storedStream(t, compressLzma(t, []byte("content"), true)))
	_, err := sccompress.Decompress(ctx, buffer, nil)
	require.ErrorIs(t, err, context.Canceled)
}

// compressLzma compresses data into an LZMA-alone stream. If sized is set,
// the uncompressed size is stored in the header, otherwise the header
// carries the unknown-size marker and the stream ends with an EOS marker.
func compressLzma(t *testing.T, data []byte, sized bool) []byte {
	t.Helper()

	var buf bytes.Buffer
	var w *lzma.Writer
	var err error
	if sized {
		cfg := lzma.WriterConfig{SizeInHeader: true, Size: int64(len(data))}
		w, err = cfg.NewWriter(&buf)
	} else {
		w, err = lzma.NewWriter(&buf)
	}
	require.NoError(t, err)

	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// storedStream converts an LZMA-alone stream into the stored container
// layout by narrowing the 8 byte uncompressed size field to its low 4
// bytes.
func storedStream(t *testing.T, alone []byte) []byte {
	t.Helper()
	require.GreaterOrEqual(t, len(alone), 13)

	stored := make([]byte, 0, len(alone)-4)
	stored = append(stored, alone[:9]...)
	stored = append(stored, alone[13:]...)
	return stored
}

// wrapLzma returns the stored stream unchanged, a bare LZMA buffer.
func wrapLzma(t *testing.T, stored []byte) []byte {
	t.Helper()
	return stored
}

// wrapSc prepends a 26 byte SC container header.
func wrapSc(t *testing.T, stored []byte) []byte {
	t.Helper()
	header := make([]byte, 26)
	copy(header, "SC")
	return append(header, stored...)
}

// wrapSig prepends a 68 byte signed container header.
func wrapSig(t *testing.T, stored []byte) []byte {
	t.Helper()
	header := make([]byte, 68)
	copy(header, "Sig:")
	return append(header, stored...)
}
