package stream

import (
	"bytes"
	"io"

	"github.com/discochess/tinypress/internal/format"
)

// DefaultChunkSize is how many bytes a Reader pulls from its source per read.
const DefaultChunkSize = 64 * 1024

// Reader exposes the transformed form of a source as an io.Reader. It pulls
// one chunk from the source whenever its output is drained and feeds it to
// an internal Writer.
type Reader struct {
	src   io.Reader
	w     *Writer
	out   bytes.Buffer
	chunk []byte
	err   error // io.EOF after a clean finish
}

// NewReader returns a Reader that encodes or decodes src.
func NewReader(src io.Reader, kind format.Kind, dir Direction, opts ...Option) (*Reader, error) {
	r := &Reader{src: src}
	w, err := newWriter(kind, dir, &r.out, opts...)
	if err != nil {
		return nil, err
	}
	r.w = w
	r.chunk = make([]byte, w.cfg.chunkSize)
	return r, nil
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	for r.out.Len() == 0 && r.err == nil {
		r.fill()
	}
	if r.out.Len() > 0 {
		return r.out.Read(p)
	}
	return 0, r.err
}

func (r *Reader) fill() {
	n, err := r.src.Read(r.chunk)
	if n > 0 {
		if _, werr := r.w.Write(r.chunk[:n]); werr != nil {
			r.err = werr
			return
		}
		if werr := r.w.Flush(); werr != nil {
			r.err = werr
			return
		}
	}

	switch {
	case err == io.EOF:
		if cerr := r.w.Close(); cerr != nil {
			r.err = cerr
			return
		}
		r.err = io.EOF
	case err != nil:
		r.err = err
	}
}

// Close releases the Reader. The source is not closed.
func (r *Reader) Close() error {
	if !r.w.closed {
		// Abandoned mid-stream: mark closed without finishing.
		r.w.closed = true
	}
	r.out.Reset()
	return nil
}

// Writer returns the underlying push-side driver, mainly for its counters.
func (r *Reader) Writer() *Writer { return r.w }
