package analysis

import (
	"fmt"

	"github.com/discochess/tinypress/benchmark/runner"
)

// Metric selects which throughput samples a comparison uses.
type Metric int

const (
	// MetricEncode compares encode throughput.
	MetricEncode Metric = iota
	// MetricDecode compares decode throughput.
	MetricDecode
)

func (m Metric) String() string {
	if m == MetricDecode {
		return "decode"
	}
	return "encode"
}

func (m Metric) samples(r *runner.Result) []float64 {
	if m == MetricDecode {
		return r.DecodeMBps
	}
	return r.EncodeMBps
}

// CodecComparison contains a full statistical comparison between two codecs.
type CodecComparison struct {
	Codec1          string
	Codec2          string
	Metric          Metric
	Stats1          *DescriptiveStats
	Stats2          *DescriptiveStats
	MannWhitney     *MannWhitneyResult
	EffectSize      *EffectSize
	BootstrapCI     *BootstrapResult
	Winner          string // Name of the faster codec, or "tie".
	WinnerConfident bool   // True if statistically significant.
}

// CompareCodecs performs a full statistical comparison of the throughput
// samples of two codecs.
func CompareCodecs(
	result1, result2 *runner.Result,
	metric Metric,
	bootstrapIterations int,
	confidence float64,
) *CodecComparison {
	sample1 := metric.samples(result1)
	sample2 := metric.samples(result2)

	mw := MannWhitneyU(sample1, sample2)
	es := ComputeEffectSize(sample1, sample2)
	bs := BootstrapConfidenceInterval(sample1, sample2, bootstrapIterations, confidence)

	stats1 := Describe(sample1)
	stats2 := Describe(sample2)

	winner := "tie"
	var confident bool
	switch {
	case stats1.Mean > stats2.Mean:
		winner = result1.Codec
		confident = mw.Significant
	case stats2.Mean > stats1.Mean:
		winner = result2.Codec
		confident = mw.Significant
	}

	return &CodecComparison{
		Codec1:          result1.Codec,
		Codec2:          result2.Codec,
		Metric:          metric,
		Stats1:          stats1,
		Stats2:          stats2,
		MannWhitney:     mw,
		EffectSize:      es,
		BootstrapCI:     bs,
		Winner:          winner,
		WinnerConfident: confident,
	}
}

// Summary returns a human-readable summary of the comparison.
func (c *CodecComparison) Summary() string {
	sig := "not statistically significant"
	if c.MannWhitney.Significant {
		sig = fmt.Sprintf("statistically significant (p=%.4f)", c.MannWhitney.PValue)
	}

	return fmt.Sprintf(
		"%s vs %s (%s):\n"+
			"  %s: mean=%.2f MB/s, median=%.2f, std=%.2f\n"+
			"  %s: mean=%.2f MB/s, median=%.2f, std=%.2f\n"+
			"  Difference: %.2f MB/s (%.1f%%)\n"+
			"  Effect size: %.2f (%s)\n"+
			"  Result: %s, %s",
		c.Codec1, c.Codec2, c.Metric,
		c.Codec1, c.Stats1.Mean, c.Stats1.Median, c.Stats1.StdDev,
		c.Codec2, c.Stats2.Mean, c.Stats2.Median, c.Stats2.StdDev,
		c.Stats1.Mean-c.Stats2.Mean,
		safePctDiff(c.Stats1.Mean, c.Stats2.Mean),
		c.EffectSize.CohensD, c.EffectSize.Interpretation,
		c.Winner, sig,
	)
}

func safePctDiff(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return (a - b) / b * 100
}

// MultiCodecComparison compares several codecs against a baseline.
type MultiCodecComparison struct {
	Baseline    string
	Comparisons []*CodecComparison
}

// CompareAll compares every codec against the baseline, in result order.
// It returns nil if the baseline is not among the results.
func CompareAll(
	results []*runner.Result,
	baseline string,
	metric Metric,
	bootstrapIterations int,
	confidence float64,
) *MultiCodecComparison {
	var base *runner.Result
	for _, r := range results {
		if r.Codec == baseline {
			base = r
			break
		}
	}
	if base == nil {
		return nil
	}

	multi := &MultiCodecComparison{
		Baseline: baseline,
	}
	for _, r := range results {
		if r == base {
			continue
		}
		multi.Comparisons = append(multi.Comparisons,
			CompareCodecs(base, r, metric, bootstrapIterations, confidence))
	}

	return multi
}
