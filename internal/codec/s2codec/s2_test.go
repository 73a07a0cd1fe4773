package s2codec

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/snappy"

	"github.com/discochess/tinypress/internal/codec/codectest"
)

func TestCodec_Extension(t *testing.T) {
	c := New()
	if got := c.Extension(); got != "s2" {
		t.Errorf("Extension() = %q, want %q", got, "s2")
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	codectest.RoundTrip(t, New())
}

func TestCodec_ReadsSnappyStreams(t *testing.T) {
	data := bytes.Repeat([]byte("snappy compatible "), 500)

	var compressed bytes.Buffer
	w := snappy.NewBufferedWriter(&compressed)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	r, err := New().Reader(&compressed)
	if err != nil {
		t.Fatalf("Reader() error = %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("S2 reader did not decode a Snappy stream")
	}
}
