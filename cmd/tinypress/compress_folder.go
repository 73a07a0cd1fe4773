package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/discochess/tinypress/internal/archive"
	"github.com/discochess/tinypress/internal/stream"
)

var compressFolderCmd = &cobra.Command{
	Use:   "compress-folder DIR OUTPUT",
	Short: "Pack and compress every file under a folder",
	Long: `Compress every regular file under DIR into a single archive.

Each file is stored as its own stream, so files are encoded in parallel.
Symbolic links and empty directories are not stored.

Examples:
  tinypress compress-folder ./logs logs.rle --rle
  tinypress compress-folder ./src gs://bucket/src.lz --lz --workers 8`,
	Args: cobra.ExactArgs(2),
	RunE: runCompressFolder,
}

var (
	folderRLE     bool
	folderLZ      bool
	folderWorkers int
)

func init() {
	addKindFlags(compressFolderCmd, &folderRLE, &folderLZ, true)
	compressFolderCmd.Flags().IntVar(&folderWorkers, "workers", archive.DefaultWorkers, "number of files to encode in parallel")
	rootCmd.AddCommand(compressFolderCmd)
}

func runCompressFolder(cmd *cobra.Command, args []string) error {
	dir, outArg := args[0], args[1]
	kind := kindFromFlags(folderRLE, folderLZ)

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("reading folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	ctx, cancel := signalContext()
	defer cancel()

	out, err := createOutput(ctx, outArg)
	if err != nil {
		return err
	}

	sum, err := archive.Pack(ctx, os.DirFS(dir), kind, out, archiveOptions(
		archive.WithWorkers(folderWorkers),
	)...)
	if err == nil {
		if err = out.Close(); err != nil {
			err = fmt.Errorf("closing output: %w", err)
		}
	}
	if err != nil {
		out.discard()
		return fmt.Errorf("compressing folder %s: %w", dir, err)
	}

	printSummary(sum)
	return nil
}

// archiveOptions returns the archive options shared by both folder commands.
func archiveOptions(extra ...archive.Option) []archive.Option {
	opts := []archive.Option{
		archive.WithLogger(log.Named("archive")),
		archive.WithStats(collector),
		archive.WithStreamOptions(
			stream.WithStagingSize(stagingSize),
			stream.WithStats(collector),
		),
	}
	return append(opts, extra...)
}

func printSummary(sum *archive.Summary) {
	fmt.Fprintf(os.Stderr, "%s: %d files, %s raw, %s archived (%s)\n",
		sum.Kind,
		sum.Files,
		formatBytes(sum.RawBytes),
		formatBytes(sum.EncodedBytes),
		formatRatio(sum.RawBytes, sum.EncodedBytes),
	)
}
