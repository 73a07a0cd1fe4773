package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/discochess/tinypress"
)

var statsCmd = &cobra.Command{
	Use:   "stats INPUT",
	Short: "Show statistics about a compressed file",
	Long: `Decode INPUT without writing it anywhere and display:
- Codec
- Compressed and original size
- Compression ratio
- Decode time`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	in, err := openInput(ctx, args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	res, err := engine.Decompress(ctx, tinypress.KindAuto, in, io.Discard)
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	stdout := cmd.OutOrStdout()
	fmt.Fprintf(stdout, "File:        %s\n", args[0])
	fmt.Fprintf(stdout, "Codec:       %s\n", kindName(res.Kind))
	fmt.Fprintf(stdout, "Compressed:  %s\n", formatBytes(res.BytesIn))
	fmt.Fprintf(stdout, "Original:    %s\n", formatBytes(res.BytesOut))
	fmt.Fprintf(stdout, "Ratio:       %s\n", formatRatio(res.BytesOut, res.BytesIn))
	fmt.Fprintf(stdout, "Decode time: %s\n", formatDuration(res.Duration))
	return nil
}
