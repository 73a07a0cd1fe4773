package gzipcodec

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/discochess/tinypress/internal/codec/codectest"
)

func TestCodec_Extension(t *testing.T) {
	c := New()
	if got := c.Extension(); got != "gz" {
		t.Errorf("Extension() = %q, want %q", got, "gz")
	}
	if got := c.Name(); got != "gzip" {
		t.Errorf("Name() = %q, want %q", got, "gzip")
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	codectest.RoundTrip(t, New())
}

func TestCodec_Levels(t *testing.T) {
	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 2000)

	fast := codectest.Encode(t, NewLevel(gzip.BestSpeed), data)
	best := codectest.Encode(t, NewLevel(gzip.BestCompression), data)
	if len(best) > len(fast) {
		t.Errorf("BestCompression produced %d bytes, BestSpeed %d", len(best), len(fast))
	}
	if got := codectest.Decode(t, New(), best); !bytes.Equal(got, data) {
		t.Error("round trip failed at BestCompression")
	}
}

func TestCodec_Reader_InvalidData(t *testing.T) {
	c := New()
	invalidData := bytes.NewReader([]byte("not gzip data"))

	_, err := c.Reader(invalidData)
	if err == nil {
		t.Error("Reader() expected error for invalid gzip data, got nil")
	}
}
