package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/discochess/tinypress/internal/codec"
	"github.com/discochess/tinypress/internal/codec/noopcodec"
	"github.com/discochess/tinypress/internal/codec/rlecodec"
	"github.com/discochess/tinypress/internal/codec/zstdcodec"
)

func TestRunner_Run(t *testing.T) {
	data := bytes.Repeat([]byte("aaaabbbbcccc"), 1000)
	r := New(3, rlecodec.New(), zstdcodec.New(), noopcodec.New())

	results, err := r.Run(context.Background(), data)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Run() returned %d results, want 3", len(results))
	}

	wantNames := []string{"rle", "zstd", "none"}
	for i, res := range results {
		if res.Codec != wantNames[i] {
			t.Errorf("result %d codec = %s, want %s", i, res.Codec, wantNames[i])
		}
		if res.RawSize != len(data) {
			t.Errorf("%s RawSize = %d, want %d", res.Codec, res.RawSize, len(data))
		}
		if len(res.EncodeMBps) != 3 || len(res.DecodeMBps) != 3 {
			t.Errorf("%s samples = %d/%d, want 3/3", res.Codec, len(res.EncodeMBps), len(res.DecodeMBps))
		}
	}

	// 3000 runs of 4 become 3000 pairs plus the magic byte.
	if got, want := results[0].EncodedSize, 1+3000*2; got != want {
		t.Errorf("rle EncodedSize = %d, want %d", got, want)
	}
	if results[2].EncodedSize != len(data) {
		t.Errorf("none EncodedSize = %d, want %d", results[2].EncodedSize, len(data))
	}
}

func TestNew_MinimumIterations(t *testing.T) {
	res, err := New(0, rlecodec.New()).RunCodec(context.Background(), rlecodec.New(), []byte("x"))
	if err != nil {
		t.Fatalf("RunCodec() error = %v", err)
	}
	if len(res.EncodeMBps) != 1 {
		t.Errorf("samples = %d, want 1", len(res.EncodeMBps))
	}
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(1, rlecodec.New()).Run(ctx, []byte("abc"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

// lossy drops the last byte of everything it decodes.
type lossy struct{ codec.Codec }

func (l lossy) Reader(r io.Reader) (io.ReadCloser, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		data = data[:len(data)-1]
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func TestRunner_Mismatch(t *testing.T) {
	_, err := New(1, lossy{noopcodec.New()}).Run(context.Background(), []byte("abc"))
	if !errors.Is(err, ErrMismatch) {
		t.Errorf("Run() error = %v, want ErrMismatch", err)
	}
}

func TestComputeMetrics(t *testing.T) {
	res := &Result{
		Codec:       "rle",
		RawSize:     200,
		EncodedSize: 50,
		EncodeMBps:  []float64{40, 10, 30, 20},
		DecodeMBps:  []float64{5, 5, 5, 5},
	}

	m := ComputeMetrics(res)
	if m.Ratio != 0.25 {
		t.Errorf("Ratio = %v, want 0.25", m.Ratio)
	}
	if m.SpaceSavingPct != 75 {
		t.Errorf("SpaceSavingPct = %v, want 75", m.SpaceSavingPct)
	}
	if m.MeanEncodeMBps != 25 {
		t.Errorf("MeanEncodeMBps = %v, want 25", m.MeanEncodeMBps)
	}
	if m.MedianEncodeMBps != 20 {
		t.Errorf("MedianEncodeMBps = %v, want 20", m.MedianEncodeMBps)
	}
	if m.P90EncodeMBps != 40 {
		t.Errorf("P90EncodeMBps = %v, want 40", m.P90EncodeMBps)
	}
	if m.MedianDecodeMBps != 5 {
		t.Errorf("MedianDecodeMBps = %v, want 5", m.MedianDecodeMBps)
	}

	// Input order must be left alone.
	if res.EncodeMBps[0] != 40 {
		t.Errorf("ComputeMetrics reordered samples: %v", res.EncodeMBps)
	}
}

func TestCompare(t *testing.T) {
	m1 := &Metrics{Codec: "rle", Ratio: 0.5, EncodedSize: 50, MedianEncodeMBps: 200, MedianDecodeMBps: 100}
	m2 := &Metrics{Codec: "lz77", Ratio: 0.25, EncodedSize: 25, MedianEncodeMBps: 100, MedianDecodeMBps: 0}

	c := Compare(m1, m2)
	if c.RatioDiff != 0.25 {
		t.Errorf("RatioDiff = %v, want 0.25", c.RatioDiff)
	}
	if c.EncodeDiffPct != 100 {
		t.Errorf("EncodeDiffPct = %v, want 100", c.EncodeDiffPct)
	}
	if c.DecodeDiffPct != 0 {
		t.Errorf("DecodeDiffPct = %v, want 0", c.DecodeDiffPct)
	}
	if c.EncodedSizeDiff != 25 {
		t.Errorf("EncodedSizeDiff = %d, want 25", c.EncodedSizeDiff)
	}
}
