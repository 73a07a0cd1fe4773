// Package reporting provides report generation for benchmark results.
package reporting

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/discochess/tinypress/benchmark/analysis"
	"github.com/discochess/tinypress/benchmark/runner"
)

// MarkdownReport generates benchmark reports in Markdown format.
type MarkdownReport struct {
	w   io.Writer
	now func() time.Time
}

// NewMarkdownReport creates a new Markdown report writer.
func NewMarkdownReport(w io.Writer) *MarkdownReport {
	return &MarkdownReport{w: w, now: time.Now}
}

// WriteHeader writes the report header.
func (r *MarkdownReport) WriteHeader(title string) {
	fmt.Fprintf(r.w, "# %s\n\n", title)
	fmt.Fprintf(r.w, "Generated: %s\n\n", r.now().Format(time.RFC3339))
}

// WriteMethodology writes the methodology section.
func (r *MarkdownReport) WriteMethodology(input string, size, iterations int) {
	fmt.Fprintln(r.w, "## Methodology")
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "- **Input:** %s (%d bytes)\n", input, size)
	fmt.Fprintf(r.w, "- **Iterations per codec:** %d\n", iterations)
	fmt.Fprintln(r.w, "- **Metrics:** Compression ratio (lower is better), throughput in MB/s of raw data (higher is better)")
	fmt.Fprintln(r.w, "- **Statistical tests:** Mann-Whitney U (non-parametric), Cohen's d effect size")
	fmt.Fprintln(r.w)
}

// WriteSummaryTable writes one row per codec in result order.
func (r *MarkdownReport) WriteSummaryTable(results []*runner.Result) {
	fmt.Fprintln(r.w, "## Summary")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "| Codec | Encoded Bytes | Ratio | Saving | Encode MB/s (median) | Decode MB/s (median) |")
	fmt.Fprintln(r.w, "|-------|---------------|-------|--------|----------------------|----------------------|")

	for _, res := range results {
		m := runner.ComputeMetrics(res)
		fmt.Fprintf(r.w, "| %s | %d | %.3f | %.1f%% | %.1f | %.1f |\n",
			m.Codec, m.EncodedSize, m.Ratio, m.SpaceSavingPct,
			m.MedianEncodeMBps, m.MedianDecodeMBps)
	}
	fmt.Fprintln(r.w)
}

// WriteComparison writes a detailed comparison section.
func (r *MarkdownReport) WriteComparison(comp *analysis.CodecComparison) {
	fmt.Fprintf(r.w, "## %s vs %s (%s)\n\n", comp.Codec1, comp.Codec2, comp.Metric)

	fmt.Fprintln(r.w, "### Descriptive Statistics")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "| MB/s | "+comp.Codec1+" | "+comp.Codec2+" |")
	fmt.Fprintln(r.w, "|------|"+strings.Repeat("-", len(comp.Codec1)+2)+"|"+strings.Repeat("-", len(comp.Codec2)+2)+"|")
	fmt.Fprintf(r.w, "| Mean | %.2f | %.2f |\n", comp.Stats1.Mean, comp.Stats2.Mean)
	fmt.Fprintf(r.w, "| Median | %.2f | %.2f |\n", comp.Stats1.Median, comp.Stats2.Median)
	fmt.Fprintf(r.w, "| Std Dev | %.2f | %.2f |\n", comp.Stats1.StdDev, comp.Stats2.StdDev)
	fmt.Fprintf(r.w, "| Min | %.2f | %.2f |\n", comp.Stats1.Min, comp.Stats2.Min)
	fmt.Fprintf(r.w, "| Max | %.2f | %.2f |\n", comp.Stats1.Max, comp.Stats2.Max)
	fmt.Fprintln(r.w)

	fmt.Fprintln(r.w, "### Statistical Analysis")
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "- **Mann-Whitney U:** %.2f (z=%.2f, p=%.4f)\n",
		comp.MannWhitney.U, comp.MannWhitney.Z, comp.MannWhitney.PValue)
	fmt.Fprintf(r.w, "- **Effect size (Cohen's d):** %.2f (%s)\n",
		comp.EffectSize.CohensD, comp.EffectSize.Interpretation)
	fmt.Fprintf(r.w, "- **%.0f%% CI for mean difference:** [%.2f, %.2f]\n",
		comp.BootstrapCI.Confidence*100, comp.BootstrapCI.LowerBound, comp.BootstrapCI.UpperBound)
	fmt.Fprintln(r.w)

	fmt.Fprintln(r.w, "### Conclusion")
	fmt.Fprintln(r.w)
	if comp.WinnerConfident {
		fmt.Fprintf(r.w, "**%s** %ss significantly faster than %s ",
			comp.Winner, comp.Metric, otherCodec(comp.Winner, comp.Codec1, comp.Codec2))
		fmt.Fprintf(r.w, "(p < 0.05, effect size: %s).\n", comp.EffectSize.Interpretation)
	} else {
		fmt.Fprintln(r.w, "No statistically significant difference detected between codecs (p >= 0.05).")
	}
	fmt.Fprintln(r.w)
}

func otherCodec(winner, c1, c2 string) string {
	if winner == c1 {
		return c2
	}
	return c1
}

// WriteDistributionChart writes an ASCII histogram of throughput samples.
func (r *MarkdownReport) WriteDistributionChart(name string, data []float64) {
	fmt.Fprintf(r.w, "### %s Distribution\n\n", name)
	fmt.Fprintln(r.w, "```")

	const buckets = 10
	hist, lo, width := makeHistogram(data, buckets)
	maxCount := slices.Max(hist)

	const barWidth = 40
	for i, count := range hist {
		barLen := 0
		if maxCount > 0 {
			barLen = count * barWidth / maxCount
		}
		bar := strings.Repeat("█", barLen)
		from := lo + float64(i)*width
		fmt.Fprintf(r.w, "%8.1f-%8.1f │ %s %d\n", from, from+width, bar, count)
	}

	fmt.Fprintln(r.w, "```")
	fmt.Fprintln(r.w)
}

// makeHistogram buckets data into equal-width bins. It returns the counts,
// the lower edge of the first bin and the bin width.
func makeHistogram(data []float64, buckets int) ([]int, float64, float64) {
	hist := make([]int, buckets)
	if len(data) == 0 {
		return hist, 0, 0
	}

	lo, hi := slices.Min(data), slices.Max(data)
	if hi == lo {
		hi = lo + 1
	}
	width := (hi - lo) / float64(buckets)

	for _, v := range data {
		bucket := int((v - lo) / width)
		if bucket >= buckets {
			bucket = buckets - 1
		}
		hist[bucket]++
	}

	return hist, lo, width
}

// WriteFooter writes the report footer.
func (r *MarkdownReport) WriteFooter() {
	fmt.Fprintln(r.w, "---")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "*Report generated by tinypress-bench*")
}
