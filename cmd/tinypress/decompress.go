package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/discochess/tinypress"
)

var decompressCmd = &cobra.Command{
	Use:   "decompress INPUT OUTPUT",
	Short: "Decompress a file",
	Long: `Decompress INPUT into OUTPUT.

The codec is detected from the first byte unless --rle or --lz is given,
in which case a mismatching input is rejected.

Examples:
  tinypress decompress data.lz data.bin
  tinypress decompress s3://bucket/data.rle - --rle`,
	Args: cobra.ExactArgs(2),
	RunE: runDecompress,
}

var (
	decompressRLE bool
	decompressLZ  bool
)

func init() {
	addKindFlags(decompressCmd, &decompressRLE, &decompressLZ, false)
	rootCmd.AddCommand(decompressCmd)
}

func runDecompress(cmd *cobra.Command, args []string) error {
	kind := kindFromFlags(decompressRLE, decompressLZ)

	ctx, cancel := signalContext()
	defer cancel()

	res, err := transformFile(ctx, args[0], args[1], func(r io.Reader, w io.Writer) (*tinypress.Result, error) {
		return engine.Decompress(ctx, kind, r, w)
	})
	if err != nil {
		return fmt.Errorf("decompressing %s: %w", args[0], err)
	}

	printResult(res)
	return nil
}
