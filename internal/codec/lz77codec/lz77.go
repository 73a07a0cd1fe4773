// Package lz77codec exposes the tinypress LZ77 stream format as a codec.
package lz77codec

import (
	"io"

	"github.com/discochess/tinypress/internal/codec"
	"github.com/discochess/tinypress/internal/format"
	"github.com/discochess/tinypress/internal/stream"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements LZ77 with a 20 byte window.
type Codec struct {
	opts []stream.Option
}

// New returns a new LZ77 codec. opts are passed to every stream it creates.
func New(opts ...stream.Option) *Codec {
	return &Codec{opts: opts}
}

// Name returns "lz77".
func (c *Codec) Name() string {
	return "lz77"
}

// Reader wraps r to decode an LZ77 stream.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	return stream.NewReader(r, format.KindLZ77, stream.Decode, c.opts...)
}

// Writer wraps w to encode data as an LZ77 stream.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return stream.NewEncoder(format.KindLZ77, w, c.opts...)
}

// Extension returns "lz".
func (c *Codec) Extension() string {
	return "lz"
}
