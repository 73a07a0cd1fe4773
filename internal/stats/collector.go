// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Stream metrics, recorded once per finished encoder or decoder.
	MetricStreams        = "tinypress_streams_total"
	MetricStreamErrors   = "tinypress_stream_errors_total"
	MetricBytesIn        = "tinypress_bytes_in_total"
	MetricBytesOut       = "tinypress_bytes_out_total"
	MetricStreamDuration = "tinypress_stream_duration_seconds"

	// Archive metrics.
	MetricArchiveFiles = "tinypress_archive_files_total"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
