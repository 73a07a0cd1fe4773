// Package codec defines the byte stream codecs tinypress can apply to a
// file: its own RLE and LZ77 formats plus general purpose codecs used for
// comparison.
package codec

import "io"

// Codec provides compression and decompression functionality.
type Codec interface {
	// Name returns the short identifier used on the command line
	// (e.g., "rle", "zstd").
	Name() string
	// Reader wraps r to decompress data read from it. Closing the reader
	// does not close r.
	Reader(r io.Reader) (io.ReadCloser, error)
	// Writer wraps w to compress data written to it. Close flushes the
	// remaining output but does not close w.
	Writer(w io.Writer) (io.WriteCloser, error)
	// Extension returns the file extension without dot (e.g., "zst", "gz").
	// Returns empty string for no compression.
	Extension() string
}
