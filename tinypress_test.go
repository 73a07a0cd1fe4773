package tinypress

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/discochess/tinypress/internal/stats"
	"github.com/discochess/tinypress/internal/stats/logger"
)

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func TestNew_InvalidSizes(t *testing.T) {
	if _, err := New(WithStagingSize(0)); err == nil {
		t.Error("New(WithStagingSize(0)) error = nil, want error")
	}
	if _, err := New(WithChunkSize(-1)); err == nil {
		t.Error("New(WithChunkSize(-1)) error = nil, want error")
	}
}

func TestEngine_CompressDecompress(t *testing.T) {
	e := newEngine(t, WithChunkSize(7), WithStagingSize(16))
	ctx := context.Background()

	inputs := []string{
		"",
		"a",
		"aaaaaaaaaa",
		"abcabcabc",
		strings.Repeat("the quick brown fox ", 50),
	}

	for _, kind := range []Kind{KindRLE, KindLZ77} {
		for _, in := range inputs {
			var encoded bytes.Buffer
			res, err := e.Compress(ctx, kind, strings.NewReader(in), &encoded)
			if err != nil {
				t.Fatalf("Compress(%v) error = %v", kind, err)
			}
			if res.Kind != kind {
				t.Errorf("Result.Kind = %v, want %v", res.Kind, kind)
			}
			if res.BytesIn != int64(len(in)) {
				t.Errorf("Result.BytesIn = %d, want %d", res.BytesIn, len(in))
			}
			if res.BytesOut != int64(encoded.Len()) {
				t.Errorf("Result.BytesOut = %d, want %d", res.BytesOut, encoded.Len())
			}
			if encoded.Bytes()[0] != kind.Magic() {
				t.Errorf("first byte = 0x%02x, want 0x%02x", encoded.Bytes()[0], kind.Magic())
			}

			var decoded bytes.Buffer
			res, err = e.Decompress(ctx, KindAuto, bytes.NewReader(encoded.Bytes()), &decoded)
			if err != nil {
				t.Fatalf("Decompress(auto) error = %v", err)
			}
			if res.Kind != kind {
				t.Errorf("detected kind = %v, want %v", res.Kind, kind)
			}
			if decoded.String() != in {
				t.Errorf("round trip = %q, want %q", decoded.String(), in)
			}
		}
	}
}

func TestEngine_Decompress_Errors(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		kind    Kind
		input   []byte
		wantErr error
	}{
		{"auto empty", KindAuto, nil, ErrTruncatedStream},
		{"auto unknown magic", KindAuto, []byte{0x00, 0x01}, ErrFormat},
		{"rle given lz stream", KindRLE, []byte{0x4C, 0x00, 'a'}, ErrFormat},
		{"rle zero count", KindAuto, []byte{0x52, 0x41, 0x00}, ErrCorruptData},
		{"rle truncated", KindAuto, []byte{0x52, 0x41}, ErrTruncatedStream},
		{"lz truncated", KindAuto, []byte{0x4C, 0x01, 0x05}, ErrTruncatedStream},
		{"lz unknown token", KindLZ77, []byte{0x4C, 0x07}, ErrUnknownToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Decompress(ctx, tt.kind, bytes.NewReader(tt.input), io.Discard)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decompress() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEngine_Compress_UnknownKind(t *testing.T) {
	e := newEngine(t)
	_, err := e.Compress(context.Background(), KindAuto, strings.NewReader("x"), io.Discard)
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Compress(KindAuto) error = %v, want ErrUnknownKind", err)
	}
}

// cancelAfter cancels its context once n reads have happened.
type cancelAfter struct {
	r      io.Reader
	n      int
	cancel context.CancelFunc
}

func (c *cancelAfter) Read(p []byte) (int, error) {
	c.n--
	if c.n == 0 {
		c.cancel()
	}
	return c.r.Read(p)
}

func TestEngine_Compress_Cancelled(t *testing.T) {
	e := newEngine(t, WithChunkSize(4))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &cancelAfter{r: strings.NewReader(strings.Repeat("x", 100)), n: 2, cancel: cancel}
	var out bytes.Buffer
	_, err := e.Compress(ctx, KindRLE, src, &out)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Compress() error = %v, want context.Canceled", err)
	}
}

func TestEngine_StreamAPI(t *testing.T) {
	e := newEngine(t)

	var encoded bytes.Buffer
	enc, err := e.NewEncoder(KindRLE, &encoded)
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}
	for _, chunk := range []string{"AA", "A", "", "AB", "B"} {
		if _, err := enc.Write([]byte(chunk)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	want := []byte{0x52, 'A', 4, 'B', 2}
	if !bytes.Equal(encoded.Bytes(), want) {
		t.Errorf("encoded = %v, want %v", encoded.Bytes(), want)
	}

	var decoded bytes.Buffer
	dec, err := e.NewDecoder(KindAuto, &decoded)
	if err != nil {
		t.Fatalf("NewDecoder() error = %v", err)
	}
	for _, b := range encoded.Bytes() {
		if _, err := dec.Write([]byte{b}); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := dec.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if decoded.String() != "AAAABB" {
		t.Errorf("decoded = %q, want %q", decoded.String(), "AAAABB")
	}
	if err := dec.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close() error = %v, want ErrClosed", err)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		input   []byte
		want    Kind
		wantErr error
	}{
		{[]byte{0x52, 0x41, 0x01}, KindRLE, nil},
		{[]byte{0x4C}, KindLZ77, nil},
		{[]byte{0x1F, 0x8B}, KindAuto, ErrFormat},
		{nil, KindAuto, ErrTruncatedStream},
	}

	for _, tt := range tests {
		got, err := Detect(tt.input)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("Detect(%v) error = %v, want %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Detect(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestEngine_Close(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := e.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close() error = %v, want ErrClosed", err)
	}
	if _, err := e.NewEncoder(KindRLE, io.Discard); !errors.Is(err, ErrClosed) {
		t.Errorf("NewEncoder() after Close error = %v, want ErrClosed", err)
	}
}

func TestEngine_Stats(t *testing.T) {
	c := logger.New(nil)
	e := newEngine(t, WithStats(c))

	var out bytes.Buffer
	if _, err := e.Compress(context.Background(), KindLZ77, strings.NewReader("abcabcabc"), &out); err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if got := c.Total(stats.MetricStreams); got != 1 {
		t.Errorf("%s = %d, want 1", stats.MetricStreams, got)
	}
	if got := c.Total(stats.MetricBytesOut); got != int64(out.Len()) {
		t.Errorf("%s = %d, want %d", stats.MetricBytesOut, got, out.Len())
	}
}

func TestResult_Ratio(t *testing.T) {
	r := &Result{BytesIn: 200, BytesOut: 50}
	if got := r.Ratio(); got != 0.25 {
		t.Errorf("Ratio() = %v, want 0.25", got)
	}
	if got := (&Result{}).Ratio(); got != 0 {
		t.Errorf("empty Ratio() = %v, want 0", got)
	}
}
