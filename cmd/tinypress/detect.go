package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/discochess/tinypress"
)

var detectCmd = &cobra.Command{
	Use:   "detect INPUT",
	Short: "Print the codec of a compressed file",
	Long: `Print "rle" or "lz" according to the first byte of INPUT.
Fails for empty input or an unknown leading byte.`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	in, err := openInput(ctx, args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	head := make([]byte, 1)
	n, err := io.ReadFull(in, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return fmt.Errorf("reading input: %w", err)
	}

	kind, err := engine.Detect(head[:n])
	if err != nil {
		return fmt.Errorf("detecting %s: %w", args[0], err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), kindName(kind))
	return nil
}

// kindName returns the command line name of a kind.
func kindName(k tinypress.Kind) string {
	if k == tinypress.KindLZ77 {
		return "lz"
	}
	return k.String()
}
