package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/discochess/tinypress"
)

var compressCmd = &cobra.Command{
	Use:   "compress INPUT OUTPUT",
	Short: "Compress a file",
	Long: `Compress INPUT into OUTPUT with exactly one of --rle or --lz.

Use "-" for stdin or stdout. If compression fails, the partially written
OUTPUT is removed.

Examples:
  tinypress compress data.bin data.rle --rle
  cat data.bin | tinypress compress - - --lz > data.lz`,
	Args: cobra.ExactArgs(2),
	RunE: runCompress,
}

var (
	compressRLE bool
	compressLZ  bool
)

func init() {
	addKindFlags(compressCmd, &compressRLE, &compressLZ, true)
	rootCmd.AddCommand(compressCmd)
}

func runCompress(cmd *cobra.Command, args []string) error {
	kind := kindFromFlags(compressRLE, compressLZ)

	ctx, cancel := signalContext()
	defer cancel()

	res, err := transformFile(ctx, args[0], args[1], func(r io.Reader, w io.Writer) (*tinypress.Result, error) {
		return engine.Compress(ctx, kind, r, w)
	})
	if err != nil {
		return fmt.Errorf("compressing %s: %w", args[0], err)
	}

	printResult(res)
	return nil
}

// transformFile runs fn from input to output, removing the output if fn
// fails.
func transformFile(ctx context.Context, input, outputArg string, fn func(io.Reader, io.Writer) (*tinypress.Result, error)) (*tinypress.Result, error) {
	in, err := openInput(ctx, input)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	out, err := createOutput(ctx, outputArg)
	if err != nil {
		return nil, err
	}

	var src io.Reader = in
	if verbose {
		var read atomic.Int64
		src = newProgressReader(in, &read)
		stop := trackProgress(input, &read, progressInterval)
		defer stop()
	}

	res, err := fn(src, out)
	if err == nil {
		if err = out.Close(); err != nil {
			err = fmt.Errorf("closing output: %w", err)
		}
	}
	if err != nil {
		out.discard()
		return nil, err
	}

	log.Debug("transformed",
		zap.String("input", input),
		zap.String("output", outputArg),
		zap.Stringer("kind", res.Kind),
		zap.Int64("bytesIn", res.BytesIn),
		zap.Int64("bytesOut", res.BytesOut),
	)
	return res, nil
}

// printResult reports a finished transform on stderr, so stdout stays
// usable as an output.
func printResult(res *tinypress.Result) {
	fmt.Fprintf(os.Stderr, "%s: %s -> %s (%s) in %s\n",
		res.Kind,
		formatBytes(res.BytesIn),
		formatBytes(res.BytesOut),
		formatRatio(res.BytesIn, res.BytesOut),
		formatDuration(res.Duration),
	)
}
