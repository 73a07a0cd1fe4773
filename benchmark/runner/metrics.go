package runner

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Metrics contains computed metrics from a codec result.
type Metrics struct {
	Codec       string
	RawSize     int
	EncodedSize int

	// Size metrics.
	Ratio          float64
	SpaceSavingPct float64 // Negative when the codec expands its input.

	// Throughput distribution in MB/s.
	MeanEncodeMBps   float64
	MedianEncodeMBps float64
	P90EncodeMBps    float64
	MeanDecodeMBps   float64
	MedianDecodeMBps float64
	P90DecodeMBps    float64
}

// ComputeMetrics computes detailed metrics from a result.
func ComputeMetrics(r *Result) *Metrics {
	m := &Metrics{
		Codec:       r.Codec,
		RawSize:     r.RawSize,
		EncodedSize: r.EncodedSize,
		Ratio:       r.Ratio(),
	}
	if r.RawSize > 0 {
		m.SpaceSavingPct = (1 - m.Ratio) * 100
	}

	if len(r.EncodeMBps) > 0 {
		sorted := sortedCopy(r.EncodeMBps)
		m.MeanEncodeMBps = stat.Mean(sorted, nil)
		m.MedianEncodeMBps = stat.Quantile(0.5, stat.Empirical, sorted, nil)
		m.P90EncodeMBps = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	}
	if len(r.DecodeMBps) > 0 {
		sorted := sortedCopy(r.DecodeMBps)
		m.MeanDecodeMBps = stat.Mean(sorted, nil)
		m.MedianDecodeMBps = stat.Quantile(0.5, stat.Empirical, sorted, nil)
		m.P90DecodeMBps = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	}

	return m
}

func sortedCopy(s []float64) []float64 {
	sorted := slices.Clone(s)
	slices.Sort(sorted)
	return sorted
}

// MetricsComparison holds the differences between two codecs.
type MetricsComparison struct {
	Codec1 string
	Codec2 string

	RatioDiff       float64 // Negative means Codec1 compresses better.
	EncodeDiffPct   float64 // Positive means Codec1 encodes faster.
	DecodeDiffPct   float64
	EncodedSizeDiff int
}

// Compare compares two metrics and returns the differences.
func Compare(m1, m2 *Metrics) *MetricsComparison {
	return &MetricsComparison{
		Codec1:          m1.Codec,
		Codec2:          m2.Codec,
		RatioDiff:       m1.Ratio - m2.Ratio,
		EncodeDiffPct:   safeDiffPct(m1.MedianEncodeMBps, m2.MedianEncodeMBps),
		DecodeDiffPct:   safeDiffPct(m1.MedianDecodeMBps, m2.MedianDecodeMBps),
		EncodedSizeDiff: m1.EncodedSize - m2.EncodedSize,
	}
}

func safeDiffPct(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return (a - b) / b * 100
}
