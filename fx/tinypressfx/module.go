// Package tinypressfx provides an fx module for a tinypress engine.
package tinypressfx

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/tinypress"
	"github.com/discochess/tinypress/internal/stats"
	"github.com/discochess/tinypress/internal/stats/logger"
	promstats "github.com/discochess/tinypress/internal/stats/prometheus"
)

// Config holds configuration for the engine.
type Config struct {
	// StagingSize is how many bytes of output a stream collects before
	// writing them to its sink. Default is 32 KiB.
	StagingSize int

	// ChunkSize is how many bytes Compress and Decompress read per step.
	// Default is 64 KiB.
	ChunkSize int
}

// Module provides a *tinypress.Engine.
// Requires a Config and a *zap.Logger to be provided. If a
// prometheus.Registerer is provided, stream metrics are registered with it;
// otherwise they are logged at debug level.
var Module = fx.Module("tinypress",
	fx.Provide(
		newStatsCollector,
		newEngine,
	),
)

// StatsParams holds dependencies for choosing a stats collector.
type StatsParams struct {
	fx.In

	Logger     *zap.Logger
	Registerer prometheus.Registerer `optional:"true"`
}

func newStatsCollector(p StatsParams) stats.Collector {
	if p.Registerer != nil {
		return promstats.New(p.Registerer)
	}
	return logger.New(p.Logger.Named("tinypress.stats"))
}

// Params holds dependencies for creating the engine.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided engine.
type Result struct {
	fx.Out

	Engine *tinypress.Engine
}

func newEngine(p Params) (Result, error) {
	opts := []tinypress.Option{
		tinypress.WithStats(p.Collector),
		tinypress.WithLogger(p.Logger.Named("tinypress")),
	}
	if p.Config.StagingSize > 0 {
		opts = append(opts, tinypress.WithStagingSize(p.Config.StagingSize))
	}
	if p.Config.ChunkSize > 0 {
		opts = append(opts, tinypress.WithChunkSize(p.Config.ChunkSize))
	}

	engine, err := tinypress.New(opts...)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return engine.Close()
		},
	})

	return Result{Engine: engine}, nil
}
