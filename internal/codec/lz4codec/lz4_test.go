package lz4codec

import (
	"bytes"
	"io"
	"testing"

	"github.com/pierrec/lz4/v4"

	"github.com/discochess/tinypress/internal/codec/codectest"
)

func TestCodec_Extension(t *testing.T) {
	c := New()
	if got := c.Extension(); got != "lz4" {
		t.Errorf("Extension() = %q, want %q", got, "lz4")
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	codectest.RoundTrip(t, New())
}

func TestCodec_RoundTrip_HighLevel(t *testing.T) {
	data := bytes.Repeat([]byte("lz4 level nine "), 4000)
	compressed := codectest.Encode(t, NewLevel(lz4.Level9), data)
	if got := codectest.Decode(t, New(), compressed); !bytes.Equal(got, data) {
		t.Error("round trip failed at Level9")
	}
}

func TestCodec_Reader_InvalidData(t *testing.T) {
	r, err := New().Reader(bytes.NewReader([]byte("not an lz4 frame")))
	if err != nil {
		t.Fatalf("Reader() error = %v", err)
	}
	if _, err := io.ReadAll(r); err == nil {
		t.Error("ReadAll() expected error for invalid lz4 data, got nil")
	}
}
