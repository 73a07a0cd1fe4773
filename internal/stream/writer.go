package stream

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/tinypress/internal/format"
	"github.com/discochess/tinypress/internal/stats"
)

// DefaultStagingSize is the default size at which staged output is flushed
// to the sink.
const DefaultStagingSize = 32 * 1024

// Option configures a Writer or Reader.
type Option func(*config)

type config struct {
	logger      *zap.Logger
	stats       stats.Collector
	stagingSize int
	chunkSize   int
}

func defaultConfig() config {
	return config{
		logger:      zap.NewNop(),
		stats:       stats.NewNoop(),
		stagingSize: DefaultStagingSize,
		chunkSize:   DefaultChunkSize,
	}
}

// WithLogger sets the logger. If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStats sets the stats collector. If not set, a no-op collector is used.
func WithStats(s stats.Collector) Option {
	return func(c *config) {
		if s != nil {
			c.stats = s
		}
	}
}

// WithStagingSize sets the output staging threshold in bytes.
func WithStagingSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.stagingSize = n
		}
	}
}

// WithChunkSize sets how many bytes a Reader pulls from its source at once.
func WithChunkSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// Writer feeds chunks through a transform and forwards the result to a sink.
// Write is the feed operation and Close the finish operation. A Writer is
// not safe for concurrent use.
type Writer struct {
	kind format.Kind
	dir  Direction
	t    Transform
	sink io.Writer
	cfg  config

	headerDone bool
	pending    []byte // unconsumed input residue
	staging    []byte // output not yet written to sink

	closed bool
	err    error // first error, sticky

	bytesIn  int64
	bytesOut int64
	start    time.Time
}

// NewEncoder returns a Writer that compresses everything written to it
// into sink.
func NewEncoder(kind format.Kind, sink io.Writer, opts ...Option) (*Writer, error) {
	return newWriter(kind, Encode, sink, opts...)
}

// NewDecoder returns a Writer that decompresses everything written to it
// into sink. kind must be concrete; callers detect KindAuto beforehand.
func NewDecoder(kind format.Kind, sink io.Writer, opts ...Option) (*Writer, error) {
	return newWriter(kind, Decode, sink, opts...)
}

func newWriter(kind format.Kind, dir Direction, sink io.Writer, opts ...Option) (*Writer, error) {
	t, err := NewTransform(kind, dir)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Writer{
		kind:    kind,
		dir:     dir,
		t:       t,
		sink:    sink,
		cfg:     cfg,
		staging: make([]byte, 0, cfg.stagingSize),
		start:   time.Now(),
	}, nil
}

// Kind returns the codec family of the stream.
func (w *Writer) Kind() format.Kind { return w.kind }

// BytesIn returns the number of bytes fed so far.
func (w *Writer) BytesIn() int64 { return w.bytesIn }

// BytesOut returns the number of bytes forwarded to the sink so far.
func (w *Writer) BytesOut() int64 { return w.bytesOut }

// Err returns the first error the stream encountered, if any.
func (w *Writer) Err() error { return w.err }

// Write feeds p. Complete units are transformed immediately; a trailing
// partial unit is kept until the next Write or Close.
func (w *Writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	if w.closed {
		return 0, ErrClosed
	}
	w.bytesIn += int64(len(p))

	src := p
	if !w.headerDone {
		if w.dir == Encode {
			w.staging = append(w.staging, w.kind.Magic())
			w.headerDone = true
		} else {
			if len(src) == 0 {
				return 0, nil
			}
			if src[0] != w.kind.Magic() {
				return 0, w.fail(fmt.Errorf("%w: got 0x%02x, want 0x%02x for %v",
					format.ErrFormat, src[0], w.kind.Magic(), w.kind))
			}
			w.headerDone = true
			src = src[1:]
		}
	}

	if err := w.step(src); err != nil {
		return 0, err
	}
	if len(w.staging) >= w.cfg.stagingSize {
		if err := w.Flush(); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// step runs the transform over the residue plus src and keeps what it did
// not consume.
func (w *Writer) step(src []byte) error {
	if len(w.pending) > 0 {
		w.pending = append(w.pending, src...)
		src = w.pending
	}

	out, n, err := w.t.Step(w.staging, src)
	w.staging = out
	if err != nil {
		return w.fail(err)
	}

	// The copy detaches the residue from the caller's buffer.
	w.pending = append(w.pending[:0], src[n:]...)
	return nil
}

// Flush writes staged output to the sink.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if len(w.staging) == 0 {
		return nil
	}
	n, err := w.sink.Write(w.staging)
	w.bytesOut += int64(n)
	if err == nil && n < len(w.staging) {
		err = io.ErrShortWrite
	}
	w.staging = w.staging[:0]
	if err != nil {
		return w.fail(fmt.Errorf("writing output: %w", err))
	}
	return nil
}

// Close finishes the stream: encoders flush their open run or look-ahead,
// decoders reject a missing magic byte or a partial trailing unit. The
// remaining output is forwarded to the sink.
func (w *Writer) Close() error {
	if w.closed {
		if w.err != nil {
			return w.err
		}
		return ErrClosed
	}
	w.closed = true
	defer w.record()

	if w.err != nil {
		return w.err
	}

	if !w.headerDone {
		if w.dir == Decode {
			return w.fail(fmt.Errorf("%w: missing magic byte", format.ErrTruncatedStream))
		}
		w.staging = append(w.staging, w.kind.Magic())
		w.headerDone = true
	}

	out, err := w.t.Finish(w.staging, w.pending)
	w.staging = out
	w.pending = nil
	if err != nil {
		return w.fail(err)
	}
	return w.Flush()
}

// fail records err as the stream's terminal error.
func (w *Writer) fail(err error) error {
	if w.err == nil {
		w.err = err
		w.staging = w.staging[:0]
		w.pending = nil
		w.cfg.stats.IncCounter(stats.MetricStreamErrors, 1)
		w.cfg.logger.Debug("stream failed",
			zap.Stringer("kind", w.kind),
			zap.Stringer("direction", w.dir),
			zap.Int64("bytesIn", w.bytesIn),
			zap.Error(err),
		)
	}
	return w.err
}

func (w *Writer) record() {
	elapsed := time.Since(w.start)
	w.cfg.stats.IncCounter(stats.MetricStreams, 1)
	w.cfg.stats.IncCounter(stats.MetricBytesIn, w.bytesIn)
	w.cfg.stats.IncCounter(stats.MetricBytesOut, w.bytesOut)
	w.cfg.stats.ObserveHistogram(stats.MetricStreamDuration, elapsed.Seconds())

	w.cfg.logger.Debug("stream finished",
		zap.Stringer("kind", w.kind),
		zap.Stringer("direction", w.dir),
		zap.Int64("bytesIn", w.bytesIn),
		zap.Int64("bytesOut", w.bytesOut),
		zap.Duration("elapsed", elapsed),
		zap.Bool("ok", w.err == nil),
	)
}
