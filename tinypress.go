// Package tinypress provides streaming byte-oriented compression with two
// tiny codecs: run-length encoding and a 20 byte window LZ77.
//
// Example usage:
//
//	engine, err := tinypress.New(
//	    tinypress.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
//
//	enc, err := engine.NewEncoder(tinypress.KindLZ77, out)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	enc.Write(data)
//	if err := enc.Close(); err != nil {
//	    log.Fatal(err)
//	}
package tinypress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/tinypress/internal/format"
	"github.com/discochess/tinypress/internal/stats"
	"github.com/discochess/tinypress/internal/stream"
)

// Kind identifies a codec family.
type Kind = format.Kind

const (
	// KindAuto asks a decoder to pick the family from the first byte.
	KindAuto = format.KindAuto
	// KindRLE is run-length encoding, magic byte 0x52.
	KindRLE = format.KindRLE
	// KindLZ77 is sliding window LZ77, magic byte 0x4C.
	KindLZ77 = format.KindLZ77
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrFormat indicates a wrong or unrecognized magic byte.
	ErrFormat = format.ErrFormat

	// ErrCorruptData indicates a structurally invalid unit such as an RLE
	// count of zero or an LZ77 offset reaching before the start of output.
	ErrCorruptData = format.ErrCorruptData

	// ErrUnknownToken indicates an LZ77 flag byte other than 0x00 or 0x01.
	ErrUnknownToken = format.ErrUnknownToken

	// ErrTruncatedStream indicates the input ended inside a unit.
	ErrTruncatedStream = format.ErrTruncatedStream

	// ErrUnknownKind indicates a kind with no codec.
	ErrUnknownKind = stream.ErrUnknownKind

	// ErrClosed indicates the engine or stream has been closed.
	ErrClosed = stream.ErrClosed
)

// ParseKind converts a name such as "rle" or "lz" to a Kind.
func ParseKind(s string) (Kind, error) {
	return format.ParseKind(s)
}

// Result describes one finished Compress or Decompress call.
type Result struct {
	Kind     Kind
	BytesIn  int64
	BytesOut int64
	Duration time.Duration
}

// Ratio returns BytesOut divided by BytesIn, or 0 for empty input.
func (r *Result) Ratio() float64 {
	if r.BytesIn == 0 {
		return 0
	}
	return float64(r.BytesOut) / float64(r.BytesIn)
}

// Engine creates encoder and decoder instances that share a configuration.
// An Engine is safe for concurrent use by multiple goroutines; the instances
// it returns are not.
type Engine struct {
	stats       stats.Collector
	logger      *zap.Logger
	stagingSize int
	chunkSize   int
	closed      atomic.Bool
}

// New creates a new Engine with the given options.
// If no options are provided, sensible defaults are used.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.stagingSize <= 0 {
		return nil, fmt.Errorf("tinypress: staging size must be positive, got %d", cfg.stagingSize)
	}
	if cfg.chunkSize <= 0 {
		return nil, fmt.Errorf("tinypress: chunk size must be positive, got %d", cfg.chunkSize)
	}

	e := &Engine{
		stats:       cfg.stats,
		logger:      cfg.logger,
		stagingSize: cfg.stagingSize,
		chunkSize:   cfg.chunkSize,
	}

	e.logger.Debug("engine initialized",
		zap.Int("stagingSize", e.stagingSize),
		zap.Int("chunkSize", e.chunkSize),
	)

	return e, nil
}

func (e *Engine) streamOptions() []stream.Option {
	return []stream.Option{
		stream.WithLogger(e.logger),
		stream.WithStats(e.stats),
		stream.WithStagingSize(e.stagingSize),
		stream.WithChunkSize(e.chunkSize),
	}
}

// NewEncoder returns a stream that compresses everything written to it into
// w. Close must be called to emit the final run or look-ahead.
func (e *Engine) NewEncoder(kind Kind, w io.Writer) (io.WriteCloser, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	return stream.NewEncoder(kind, w, e.streamOptions()...)
}

// NewDecoder returns a stream that decompresses everything written to it
// into w. With KindAuto the family is chosen from the first byte written.
func (e *Engine) NewDecoder(kind Kind, w io.Writer) (io.WriteCloser, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	if kind == KindAuto {
		return &autoDecoder{sink: w, opts: e.streamOptions()}, nil
	}
	return stream.NewDecoder(kind, w, e.streamOptions()...)
}

// Compress reads r to EOF and writes its encoding to w.
func (e *Engine) Compress(ctx context.Context, kind Kind, r io.Reader, w io.Writer) (*Result, error) {
	enc, err := e.NewEncoder(kind, w)
	if err != nil {
		return nil, err
	}
	return e.pump(ctx, enc, r)
}

// Decompress reads an encoded stream from r to EOF and writes the decoded
// bytes to w. kind may be KindAuto.
func (e *Engine) Decompress(ctx context.Context, kind Kind, r io.Reader, w io.Writer) (*Result, error) {
	dec, err := e.NewDecoder(kind, w)
	if err != nil {
		return nil, err
	}
	return e.pump(ctx, dec, r)
}

// pump copies r into s one chunk at a time, checking ctx between chunks.
// A cancelled stream is abandoned without finishing.
func (e *Engine) pump(ctx context.Context, s io.WriteCloser, r io.Reader) (*Result, error) {
	start := time.Now()
	buf := make([]byte, e.chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, rerr := r.Read(buf)
		if n > 0 {
			if _, err := s.Write(buf[:n]); err != nil {
				return nil, err
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, fmt.Errorf("reading input: %w", rerr)
		}
	}

	if err := s.Close(); err != nil {
		return nil, err
	}

	w := writerOf(s)
	if w == nil {
		return nil, fmt.Errorf("%w: missing magic byte", ErrTruncatedStream)
	}
	return &Result{
		Kind:     w.Kind(),
		BytesIn:  w.BytesIn(),
		BytesOut: w.BytesOut(),
		Duration: time.Since(start),
	}, nil
}

// Detect reports the codec family of an encoded stream from its first byte.
func (e *Engine) Detect(p []byte) (Kind, error) {
	return Detect(p)
}

// Detect reports the codec family of an encoded stream from its first byte.
func Detect(p []byte) (Kind, error) {
	if len(p) == 0 {
		return KindAuto, fmt.Errorf("%w: empty input", ErrTruncatedStream)
	}
	return format.Detect(p[0])
}

// Close marks the engine closed. Instances created earlier keep working.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	e.logger.Debug("engine closed")
	return nil
}

// autoDecoder defers choosing a decoder until the first byte arrives.
type autoDecoder struct {
	sink io.Writer
	opts []stream.Option
	w    *stream.Writer
	err  error
}

func (d *autoDecoder) Write(p []byte) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	if d.w == nil {
		if len(p) == 0 {
			return 0, nil
		}
		kind, err := format.Detect(p[0])
		if err != nil {
			d.err = err
			return 0, err
		}
		if d.w, err = stream.NewDecoder(kind, d.sink, d.opts...); err != nil {
			d.err = err
			return 0, err
		}
	}
	return d.w.Write(p)
}

func (d *autoDecoder) Close() error {
	if d.w != nil {
		return d.w.Close()
	}
	if d.err != nil {
		if errors.Is(d.err, ErrClosed) {
			return ErrClosed
		}
		err := d.err
		d.err = ErrClosed
		return err
	}
	d.err = ErrClosed
	return fmt.Errorf("%w: missing magic byte", ErrTruncatedStream)
}

// writerOf returns the driver behind a stream created by an Engine.
func writerOf(s io.WriteCloser) *stream.Writer {
	switch v := s.(type) {
	case *stream.Writer:
		return v
	case *autoDecoder:
		return v.w
	}
	return nil
}
