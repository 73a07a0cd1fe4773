package snappycodec

import (
	"bytes"
	"io"
	"testing"

	"github.com/discochess/tinypress/internal/codec/codectest"
)

func TestCodec_Extension(t *testing.T) {
	c := New()
	if got := c.Extension(); got != "sz" {
		t.Errorf("Extension() = %q, want %q", got, "sz")
	}
	if got := c.Name(); got != "snappy" {
		t.Errorf("Name() = %q, want %q", got, "snappy")
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	codectest.RoundTrip(t, New())
}

func TestCodec_Reader_InvalidData(t *testing.T) {
	r, err := New().Reader(bytes.NewReader([]byte("not a snappy stream")))
	if err != nil {
		t.Fatalf("Reader() error = %v", err)
	}
	if _, err := io.ReadAll(r); err == nil {
		t.Error("ReadAll() expected error for invalid snappy data, got nil")
	}
}
