package tinypress

import (
	"go.uber.org/zap"

	"github.com/discochess/tinypress/internal/stats"
	"github.com/discochess/tinypress/internal/stream"
)

// Option configures an Engine.
type Option interface {
	apply(*options)
}

// options holds the engine configuration.
type options struct {
	stats       stats.Collector
	logger      *zap.Logger
	stagingSize int
	chunkSize   int
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		stats:       stats.NewNoop(),
		logger:      zap.NewNop(),
		stagingSize: stream.DefaultStagingSize, // 32 KiB
		chunkSize:   stream.DefaultChunkSize,   // 64 KiB
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		if c != nil {
			o.stats = c
		}
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		if l != nil {
			o.logger = l
		}
	})
}

// WithStagingSize sets how many bytes of output a stream collects before
// writing them to its sink. Default is 32 KiB.
func WithStagingSize(n int) Option {
	return optionFunc(func(o *options) {
		o.stagingSize = n
	})
}

// WithChunkSize sets how many bytes Compress and Decompress read per step.
// Context cancellation is checked between chunks. Default is 64 KiB.
func WithChunkSize(n int) Option {
	return optionFunc(func(o *options) {
		o.chunkSize = n
	})
}
