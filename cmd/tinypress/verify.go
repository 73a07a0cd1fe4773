package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/discochess/tinypress"
)

var verifyCmd = &cobra.Command{
	Use:   "verify INPUT...",
	Short: "Check that compressed files decode cleanly",
	Long: `Decode every INPUT and discard the output.

This command checks:
- The leading magic byte names a known codec
- Every token or run is well formed
- The stream does not end in the middle of a token`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	stdout := cmd.OutOrStdout()
	fmt.Fprintf(stdout, "Verifying %d files...\n", len(args))

	var errCount int
	for i, arg := range args {
		if verbose {
			fmt.Fprintf(stdout, "  [%d/%d] %s\n", i+1, len(args), arg)
		}

		if err := verifyOne(ctx, arg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(stdout, "  ERROR: %s: %v\n", arg, err)
			errCount++
		}
	}

	if errCount > 0 {
		return fmt.Errorf("%d files failed verification", errCount)
	}

	fmt.Fprintln(stdout, "All files verified successfully.")
	return nil
}

func verifyOne(ctx context.Context, arg string) error {
	in, err := openInput(ctx, arg)
	if err != nil {
		return err
	}
	defer in.Close()

	_, err = engine.Decompress(ctx, tinypress.KindAuto, in, io.Discard)
	return err
}
