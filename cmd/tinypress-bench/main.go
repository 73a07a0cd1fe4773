// Package main provides the tinypress-bench CLI tool for comparing the
// tinypress codecs against general purpose compressors on real data.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/discochess/tinypress/benchmark/analysis"
	"github.com/discochess/tinypress/benchmark/reporting"
	"github.com/discochess/tinypress/benchmark/runner"
)

var (
	inputFile    string
	codecNames   []string
	iterations   int
	baseline     string
	metricName   string
	outputFormat string
	outputFile   string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "tinypress-bench",
	Short: "Benchmark tinypress codecs",
	Long: `tinypress-bench compares the tinypress RLE and LZ77 formats with
general purpose codecs on a sample file.

Each codec encodes and decodes the input repeatedly. Every decode is
checked against the input, and throughput samples are compared against a
baseline codec with a Mann-Whitney U test.

Examples:
  # Run benchmark with every codec
  tinypress-bench run --input corpus.txt

  # Compare only the tinypress formats with zstd
  tinypress-bench run --input corpus.txt --codecs rle,lz77,zstd

  # Output as markdown report
  tinypress-bench run --input corpus.txt --format markdown --output report.md`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the codec benchmark",
	RunE:  runBenchmark,
}

func init() {
	runCmd.Flags().StringVarP(&inputFile, "input", "i", "", "input file to compress (supports .zst)")
	runCmd.Flags().StringSliceVarP(&codecNames, "codecs", "c", defaultCodecs, "codecs to compare")
	runCmd.Flags().IntVarP(&iterations, "iterations", "n", 10, "encode/decode rounds per codec")
	runCmd.Flags().StringVarP(&baseline, "baseline", "b", "rle", "codec the others are compared against")
	runCmd.Flags().StringVarP(&metricName, "metric", "m", "encode", "throughput to compare: encode, decode")
	runCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format: text, markdown")
	runCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	runCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	metric, err := parseMetric(metricName)
	if err != nil {
		return err
	}

	codecs, err := lookupCodecs(codecNames)
	if err != nil {
		return err
	}

	data, err := readInput(inputFile)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("%s is empty", inputFile)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Running %d codecs x %d iterations on %d bytes...\n",
			len(codecs), iterations, len(data))
	}

	results, err := runner.New(iterations, codecs...).Run(cmd.Context(), data)
	if err != nil {
		return err
	}

	comparisons := analysis.CompareAll(results, baselineName(), metric, 10000, 0.95)
	if comparisons == nil && verbose {
		fmt.Fprintf(os.Stderr, "Baseline %s not among codecs; skipping comparison\n", baseline)
	}

	var output io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	switch outputFormat {
	case "markdown":
		return writeMarkdownReport(output, len(data), metric, results, comparisons)
	default:
		return writeTextReport(output, len(data), results, comparisons)
	}
}

// baselineName resolves the lz alias so --baseline matches codec names.
func baselineName() string {
	if c, err := lookupCodec(baseline); err == nil {
		return c.Name()
	}
	return baseline
}

func parseMetric(name string) (analysis.Metric, error) {
	switch strings.ToLower(name) {
	case "encode":
		return analysis.MetricEncode, nil
	case "decode":
		return analysis.MetricDecode, nil
	default:
		return 0, fmt.Errorf("unknown metric: %s", name)
	}
}

func readInput(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, ".zst") {
		decoder, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer decoder.Close()
		reader = decoder
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}
	return data, nil
}

func writeTextReport(w io.Writer, size int, results []*runner.Result, multi *analysis.MultiCodecComparison) error {
	fmt.Fprintf(w, "tinypress Codec Benchmark\n")
	fmt.Fprintf(w, "=========================\n\n")
	fmt.Fprintf(w, "Input: %s (%d bytes)\n", inputFile, size)
	fmt.Fprintf(w, "Iterations: %d\n\n", iterations)

	fmt.Fprintf(w, "Results:\n")
	fmt.Fprintf(w, "--------\n\n")

	for _, res := range results {
		m := runner.ComputeMetrics(res)
		fmt.Fprintf(w, "%s:\n", m.Codec)
		fmt.Fprintf(w, "  Encoded size:   %d bytes\n", m.EncodedSize)
		fmt.Fprintf(w, "  Ratio:          %.3f (%.1f%% saved)\n", m.Ratio, m.SpaceSavingPct)
		fmt.Fprintf(w, "  Encode MB/s:    %.1f median, %.1f p90\n", m.MedianEncodeMBps, m.P90EncodeMBps)
		fmt.Fprintf(w, "  Decode MB/s:    %.1f median, %.1f p90\n\n", m.MedianDecodeMBps, m.P90DecodeMBps)
	}

	if multi != nil && len(multi.Comparisons) > 0 {
		fmt.Fprintf(w, "Statistical Analysis (baseline %s):\n", multi.Baseline)
		fmt.Fprintf(w, "-----------------------------------\n\n")
		for _, comp := range multi.Comparisons {
			fmt.Fprintln(w, comp.Summary())
			fmt.Fprintln(w)
		}
	}

	return nil
}

func writeMarkdownReport(w io.Writer, size int, metric analysis.Metric, results []*runner.Result, multi *analysis.MultiCodecComparison) error {
	report := reporting.NewMarkdownReport(w)
	report.WriteHeader("tinypress Codec Benchmark")
	report.WriteMethodology(inputFile, size, iterations)
	report.WriteSummaryTable(results)

	if multi != nil {
		for _, comp := range multi.Comparisons {
			report.WriteComparison(comp)
		}
	}

	for _, res := range results {
		samples := res.EncodeMBps
		if metric == analysis.MetricDecode {
			samples = res.DecodeMBps
		}
		report.WriteDistributionChart(fmt.Sprintf("%s %s MB/s", res.Codec, metric), samples)
	}

	report.WriteFooter()
	return nil
}
