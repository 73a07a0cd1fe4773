// Package runner times codecs over a shared payload.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/discochess/tinypress/internal/codec"
)

// ErrMismatch indicates a codec did not reproduce its input.
var ErrMismatch = errors.New("runner: round trip mismatch")

// Runner encodes and decodes a payload with each codec a fixed number of
// times and records throughput per iteration.
type Runner struct {
	codecs     []codec.Codec
	iterations int
}

// New creates a Runner. iterations below 1 are treated as 1.
func New(iterations int, codecs ...codec.Codec) *Runner {
	if iterations < 1 {
		iterations = 1
	}
	return &Runner{
		codecs:     codecs,
		iterations: iterations,
	}
}

// Result holds the measurements for one codec.
type Result struct {
	Codec       string
	RawSize     int
	EncodedSize int
	EncodeMBps  []float64 // One sample per iteration.
	DecodeMBps  []float64 // One sample per iteration.
}

// Ratio returns EncodedSize divided by RawSize, or 0 for empty input.
func (r *Result) Ratio() float64 {
	if r.RawSize == 0 {
		return 0
	}
	return float64(r.EncodedSize) / float64(r.RawSize)
}

// Run measures every codec in order.
func (r *Runner) Run(ctx context.Context, data []byte) ([]*Result, error) {
	results := make([]*Result, 0, len(r.codecs))
	for _, c := range r.codecs {
		res, err := r.RunCodec(ctx, c, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name(), err)
		}
		results = append(results, res)
	}
	return results, nil
}

// RunCodec measures a single codec. Every decode is checked against data.
func (r *Runner) RunCodec(ctx context.Context, c codec.Codec, data []byte) (*Result, error) {
	res := &Result{
		Codec:      c.Name(),
		RawSize:    len(data),
		EncodeMBps: make([]float64, 0, r.iterations),
		DecodeMBps: make([]float64, 0, r.iterations),
	}

	var encoded, decoded bytes.Buffer
	for i := 0; i < r.iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		encoded.Reset()
		start := time.Now()
		if err := encode(c, data, &encoded); err != nil {
			return nil, fmt.Errorf("encoding: %w", err)
		}
		res.EncodeMBps = append(res.EncodeMBps, throughput(len(data), time.Since(start)))
		res.EncodedSize = encoded.Len()

		decoded.Reset()
		start = time.Now()
		if err := decode(c, encoded.Bytes(), &decoded); err != nil {
			return nil, fmt.Errorf("decoding: %w", err)
		}
		res.DecodeMBps = append(res.DecodeMBps, throughput(len(data), time.Since(start)))

		if !bytes.Equal(decoded.Bytes(), data) {
			return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrMismatch, decoded.Len(), len(data))
		}
	}

	return res, nil
}

func encode(c codec.Codec, data []byte, dst io.Writer) error {
	w, err := c.Writer(dst)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func decode(c codec.Codec, data []byte, dst io.Writer) error {
	r, err := c.Reader(bytes.NewReader(data))
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, r); err != nil {
		r.Close()
		return err
	}
	return r.Close()
}

// throughput returns n bytes over d in MB/s.
func throughput(n int, d time.Duration) float64 {
	if d <= 0 {
		d = time.Nanosecond
	}
	return float64(n) / 1e6 / d.Seconds()
}
