package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/scmods/sccompress"
)

// CLI are the cli parameters for the sccompress binary
type CLI struct {
	Files               []string         `arg:"" name:"files" help:"Asset files to decompress." type:"existingfile"`
	MaxDecompressedSize int64            `optional:"" default:"1073741824" help:"Maximum size of the decompressed data (in bytes). (disable check: -1)"`
	MaxInputSize        int64            `optional:"" default:"1073741824" help:"Maximum input size that is allowed (in bytes). (disable check: -1)"`
	Output              string           `short:"o" optional:"" help:"Output file (single input), output directory (multiple inputs) or \"-\" for STDOUT."`
	Overwrite           bool             `short:"O" help:"Overwrite output files if they exist."`
	Signature           bool             `short:"s" optional:"" default:"false" help:"Only print the detected signature, do not decompress."`
	Telemetry           bool             `short:"T" optional:"" default:"false" help:"Print telemetry to log after decompression."`
	Text                bool             `short:"t" optional:"" default:"false" help:"Require the decompressed data to be valid UTF-8."`
	Verbose             bool             `short:"v" optional:"" help:"Verbose logging."`
	Version             kong.VersionFlag `short:"V" optional:"" help:"Print release version information."`
}

// Run is the entrypoint into sccompress as a cli tool
func Run(version, commit, date string) {
	ctx := context.Background()
	var cli CLI
	kong.Parse(&cli,
		kong.Description("Detect and decompress Supercell game asset containers"),
		kong.UsageOnError(),
		kong.Vars{
			"version": fmt.Sprintf("%s (%s), commit %s, built at %s", filepath.Base(os.Args[0]), version, commit, date),
		},
	)

	// Check for verbose output
	logLevel := slog.LevelError
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}

	// setup logger
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// process cli params
	opts := []sccompress.ConfigOption{
		sccompress.WithLogger(logger),
		sccompress.WithMaxDecompressedSize(cli.MaxDecompressedSize),
		sccompress.WithMaxInputSize(cli.MaxInputSize),
		sccompress.WithOverwrite(cli.Overwrite),
	}
	if cli.Telemetry {
		opts = append(opts, sccompress.WithTelemetryHook(func(ctx context.Context, td *sccompress.TelemetryData) {
			logger.Info("telemetry", "data", td.String())
		}))
	}
	cfg := sccompress.NewConfig(opts...)

	// decompression of independent buffers is free of shared state, so the
	// inputs can be processed in parallel
	eg, egCtx := errgroup.WithContext(ctx)
	for _, file := range cli.Files {
		file := file
		eg.Go(func() error {
			return process(egCtx, logger, cfg, &cli, file)
		})
	}
	if err := eg.Wait(); err != nil {
		logger.Error("decompression failed", "error", err)
		os.Exit(1)
	}
}

// process decompresses a single input file according to the cli params
func process(ctx context.Context, logger *slog.Logger, cfg *sccompress.Config, cli *CLI, file string) error {

	d, err := sccompress.NewDecompressor(
		sccompress.WithFile(file),
		sccompress.WithConfig(cfg),
	)
	if err != nil {
		return errors.Wrapf(err, "cannot read %s", file)
	}

	// detection only
	if cli.Signature {
		fmt.Printf("%s: %s\n", file, d.Signature())
		return nil
	}

	// write to stdout
	if cli.Output == "-" {
		decoded, err := d.Decompress(ctx)
		if err != nil {
			return errors.Wrapf(err, "cannot decompress %s", file)
		}
		if _, err := os.Stdout.Write(decoded); err != nil {
			return errors.Wrap(err, "cannot write to stdout")
		}
		return nil
	}

	// check utf-8 validity if requested
	if cli.Text {
		if _, err := d.DecompressToString(ctx); err != nil {
			return errors.Wrapf(err, "cannot decompress %s as text", file)
		}
	}

	dst := outputName(cli, file)
	n, err := d.DecompressToFile(ctx, dst)
	if err != nil {
		return errors.Wrapf(err, "cannot decompress %s", file)
	}
	logger.Info("decompressed", "file", file, "output", dst, "bytes", n)
	return nil
}

// outputName determines the output path for an input file. An explicit
// output is used as a file path for a single input and as a directory for
// multiple inputs. Without an explicit output, the input's extension is
// stripped, or ".decompressed" appended if there is none.
func outputName(cli *CLI, file string) string {
	if cli.Output != "" {
		if len(cli.Files) == 1 {
			return cli.Output
		}
		return filepath.Join(cli.Output, defaultOutputName(filepath.Base(file)))
	}
	return filepath.Join(filepath.Dir(file), defaultOutputName(filepath.Base(file)))
}

// defaultOutputName derives an output filename from an input filename
func defaultOutputName(name string) string {
	newName := strings.TrimSuffix(name, filepath.Ext(name))
	if newName != name && newName != "" {
		return newName
	}
	return fmt.Sprintf("%s.decompressed", name)
}
