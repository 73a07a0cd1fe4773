// Package codectest provides shared conformance checks for codec.Codec
// implementations.
package codectest

import (
	"bytes"
	"io"
	"math/rand"
	"testing"

	"github.com/discochess/tinypress/internal/codec"
)

// Inputs returns the payloads every codec must round trip.
func Inputs() map[string][]byte {
	rng := rand.New(rand.NewSource(1))
	random := make([]byte, 64*1024)
	rng.Read(random)

	return map[string][]byte{
		"empty":  {},
		"short":  []byte("Hello, World! This is test data for compression."),
		"runs":   bytes.Repeat([]byte{0x41}, 1000),
		"repeat": bytes.Repeat([]byte("ABCDEFGHIJ"), 10000), // 100KB of repetitive data
		"random": random,
	}
}

// Encode compresses data with c.
func Encode(t testing.TB, c codec.Codec, data []byte) []byte {
	t.Helper()
	var compressed bytes.Buffer
	writer, err := c.Writer(&compressed)
	if err != nil {
		t.Fatalf("Writer() error = %v", err)
	}
	if _, err := writer.Write(data); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return compressed.Bytes()
}

// Decode decompresses data with c.
func Decode(t testing.TB, c codec.Codec, data []byte) []byte {
	t.Helper()
	reader, err := c.Reader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Reader() error = %v", err)
	}
	decompressed, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if err := reader.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return decompressed
}

// RoundTrip checks that every payload from Inputs survives encode then
// decode, and that repetitive input shrinks unless c is a pass-through.
func RoundTrip(t *testing.T, c codec.Codec) {
	t.Helper()
	for name, original := range Inputs() {
		t.Run(name, func(t *testing.T) {
			compressed := Encode(t, c, original)
			decompressed := Decode(t, c, compressed)
			if !bytes.Equal(decompressed, original) {
				t.Errorf("round trip of %d bytes failed for %s", len(original), c.Name())
			}
			if name == "runs" && c.Extension() != "" && len(compressed) >= len(original) {
				t.Errorf("%s: expected compression, got %d bytes from %d bytes",
					c.Name(), len(compressed), len(original))
			}
		})
	}
}
