package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/discochess/tinypress"
	"github.com/discochess/tinypress/internal/stats"
	"github.com/discochess/tinypress/internal/stats/logger"
	promstats "github.com/discochess/tinypress/internal/stats/prometheus"
	"github.com/discochess/tinypress/internal/stream"
)

var (
	// Global flags.
	verbose     bool
	metricsFile string
	stagingSize int
)

var (
	// Set up by setup before every subcommand.
	log       *zap.Logger
	collector stats.Collector
	registry  *prometheus.Registry
	engine    *tinypress.Engine
)

var rootCmd = &cobra.Command{
	Use:   "tinypress",
	Short: "Streaming RLE and LZ77 compression for files and folders",
	Long: `Tinypress compresses files with one of two tiny streaming codecs:

  rle  run-length encoding, best for long runs of one byte
  lz   LZ77 with a 20 byte window, for short local repetition

Compressed files start with a magic byte (0x52 for rle, 0x4C for lz), so
decompression detects the codec unless one is given.

Inputs and outputs may be local paths, "-" for stdin/stdout,
s3://bucket/key or gs://bucket/key.

Examples:
  # Compress a file with LZ77
  tinypress compress input.txt output.lz --lz

  # Decompress, detecting the codec
  tinypress decompress output.lz restored.txt

  # Pack a folder
  tinypress compress-folder ./docs docs.rle --rle`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	rootCmd.PersistentFlags().IntVar(&stagingSize, "staging-size", stream.DefaultStagingSize, "output staging buffer size in bytes")
}

// setup builds the logger, stats collector and engine shared by all
// subcommands.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if verbose {
		log, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		log, err = cfg.Build()
	}
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	if metricsFile != "" {
		registry = prometheus.NewRegistry()
		collector = promstats.New(registry)
	} else {
		collector = logger.New(log.Named("stats"))
	}

	engine, err = tinypress.New(
		tinypress.WithLogger(log.Named("engine")),
		tinypress.WithStats(collector),
		tinypress.WithStagingSize(stagingSize),
	)
	if err != nil {
		return err
	}
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	defer log.Sync() //nolint:errcheck

	if err := engine.Close(); err != nil {
		return err
	}
	if registry != nil {
		if err := prometheus.WriteToTextfile(metricsFile, registry); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}

// signalContext returns a context cancelled on interrupt or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\nInterrupted, cleaning up...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// addKindFlags registers the mutually exclusive --rle and --lz flags.
func addKindFlags(cmd *cobra.Command, useRLE, useLZ *bool, required bool) {
	cmd.Flags().BoolVar(useRLE, "rle", false, "use run-length encoding")
	cmd.Flags().BoolVar(useLZ, "lz", false, "use LZ77")
	cmd.MarkFlagsMutuallyExclusive("rle", "lz")
	if required {
		cmd.MarkFlagsOneRequired("rle", "lz")
	}
}

// kindFromFlags maps --rle/--lz to a codec kind, KindAuto when neither is set.
func kindFromFlags(useRLE, useLZ bool) tinypress.Kind {
	switch {
	case useRLE:
		return tinypress.KindRLE
	case useLZ:
		return tinypress.KindLZ77
	default:
		return tinypress.KindAuto
	}
}
