// Package lz4codec provides an LZ4 frame codec.
package lz4codec

import (
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/discochess/tinypress/internal/codec"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements LZ4 frame compression.
type Codec struct {
	level lz4.CompressionLevel
}

// New returns an LZ4 codec using the fast compressor.
func New() *Codec {
	return &Codec{level: lz4.Fast}
}

// NewLevel returns an LZ4 codec using a high compression level.
func NewLevel(level lz4.CompressionLevel) *Codec {
	return &Codec{level: level}
}

// Name returns "lz4".
func (c *Codec) Name() string {
	return "lz4"
}

// Reader wraps r to decompress an LZ4 frame.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

// Writer wraps w to compress data as an LZ4 frame.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	zw := lz4.NewWriter(w)
	if err := zw.Apply(lz4.CompressionLevelOption(c.level), lz4.ConcurrencyOption(1)); err != nil {
		return nil, fmt.Errorf("lz4 options: %w", err)
	}
	return zw, nil
}

// Extension returns "lz4".
func (c *Codec) Extension() string {
	return "lz4"
}
