// Package snappycodec provides a Snappy framed stream codec.
package snappycodec

import (
	"io"

	"github.com/golang/snappy"

	"github.com/discochess/tinypress/internal/codec"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements Snappy framed compression.
type Codec struct{}

// New returns a new Snappy codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "snappy".
func (c *Codec) Name() string {
	return "snappy"
}

// Reader wraps r to decompress a Snappy framed stream.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(snappy.NewReader(r)), nil
}

// Writer wraps w to compress data as a Snappy framed stream.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return snappy.NewBufferedWriter(w), nil
}

// Extension returns "sz".
func (c *Codec) Extension() string {
	return "sz"
}
