package tinypressfx

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/discochess/tinypress"
	"github.com/discochess/tinypress/internal/stats"
	"github.com/discochess/tinypress/internal/stats/logger"
)

func TestModule_ProvidesEngine(t *testing.T) {
	var engine *tinypress.Engine
	var collector stats.Collector

	app := fxtest.New(t,
		fx.Supply(Config{StagingSize: 16, ChunkSize: 8}),
		fx.Supply(zap.NewNop()),
		Module,
		fx.Populate(&engine, &collector),
	)
	app.RequireStart()

	if _, ok := collector.(*logger.Collector); !ok {
		t.Errorf("collector = %T, want *logger.Collector", collector)
	}

	var out bytes.Buffer
	if _, err := engine.Compress(context.Background(), tinypress.KindRLE, strings.NewReader("aaab"), &out); err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if want := []byte{0x52, 'a', 3, 'b', 1}; !bytes.Equal(out.Bytes(), want) {
		t.Errorf("Compress() = %v, want %v", out.Bytes(), want)
	}

	app.RequireStop()
	if _, err := engine.NewEncoder(tinypress.KindRLE, &out); !errors.Is(err, tinypress.ErrClosed) {
		t.Errorf("NewEncoder() after stop error = %v, want ErrClosed", err)
	}
}

func TestModule_PrometheusRegisterer(t *testing.T) {
	reg := prometheus.NewRegistry()
	var engine *tinypress.Engine

	app := fxtest.New(t,
		fx.Supply(Config{}),
		fx.Supply(zap.NewNop()),
		fx.Provide(func() prometheus.Registerer { return reg }),
		Module,
		fx.Populate(&engine),
	)
	app.RequireStart()
	defer app.RequireStop()

	if _, err := engine.Compress(context.Background(), tinypress.KindLZ77, strings.NewReader("abcabcabc"), &bytes.Buffer{}); err != nil {
		t.Fatalf("Compress() error = %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	var found bool
	for _, mf := range families {
		if mf.GetName() == stats.MetricStreams {
			found = true
			if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 1 {
				t.Errorf("%s = %v, want 1", stats.MetricStreams, got)
			}
		}
	}
	if !found {
		t.Errorf("%s not registered", stats.MetricStreams)
	}
}

func TestModule_InvalidConfigIgnored(t *testing.T) {
	var engine *tinypress.Engine
	app := fxtest.New(t,
		fx.Supply(Config{StagingSize: -1, ChunkSize: 0}),
		fx.Supply(zap.NewNop()),
		Module,
		fx.Populate(&engine),
	)
	app.RequireStart()
	defer app.RequireStop()

	if engine == nil {
		t.Fatal("engine not provided")
	}
}
