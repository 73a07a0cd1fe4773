// Package rlecodec exposes the tinypress RLE stream format as a codec.
package rlecodec

import (
	"io"

	"github.com/discochess/tinypress/internal/codec"
	"github.com/discochess/tinypress/internal/format"
	"github.com/discochess/tinypress/internal/stream"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements run-length encoding.
type Codec struct {
	opts []stream.Option
}

// New returns a new RLE codec. opts are passed to every stream it creates.
func New(opts ...stream.Option) *Codec {
	return &Codec{opts: opts}
}

// Name returns "rle".
func (c *Codec) Name() string {
	return "rle"
}

// Reader wraps r to decode an RLE stream.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	return stream.NewReader(r, format.KindRLE, stream.Decode, c.opts...)
}

// Writer wraps w to encode data as an RLE stream.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return stream.NewEncoder(format.KindRLE, w, c.opts...)
}

// Extension returns "rle".
func (c *Codec) Extension() string {
	return "rle"
}
