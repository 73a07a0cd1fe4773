package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/discochess/tinypress/internal/archive"
	"github.com/discochess/tinypress/internal/store/diskstore"
)

var decompressFolderCmd = &cobra.Command{
	Use:   "decompress-folder INPUT DIR",
	Short: "Unpack an archive made by compress-folder",
	Long: `Decompress every file of the archive INPUT into DIR, creating DIR and
any subdirectories. Entries with absolute paths or ".." are rejected.

Examples:
  tinypress decompress-folder logs.rle ./restored`,
	Args: cobra.ExactArgs(2),
	RunE: runDecompressFolder,
}

var (
	unpackRLE bool
	unpackLZ  bool
)

func init() {
	addKindFlags(decompressFolderCmd, &unpackRLE, &unpackLZ, false)
	rootCmd.AddCommand(decompressFolderCmd)
}

func runDecompressFolder(cmd *cobra.Command, args []string) error {
	inArg, dir := args[0], args[1]

	ctx, cancel := signalContext()
	defer cancel()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	dst, err := diskstore.New(dir)
	if err != nil {
		return err
	}
	defer dst.Close()

	in, err := openInput(ctx, inArg)
	if err != nil {
		return err
	}
	defer in.Close()

	sum, err := archive.Unpack(ctx, in, dst, kindFromFlags(unpackRLE, unpackLZ), archiveOptions()...)
	if err != nil {
		return fmt.Errorf("decompressing folder %s: %w", inArg, err)
	}

	printSummary(sum)
	return nil
}
