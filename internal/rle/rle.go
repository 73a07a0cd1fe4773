// Package rle implements the run-length encoding transforms.
//
// The stream body is a sequence of [value, count] pairs with count in
// [1, 255]. The magic byte is handled by the stream driver; the transforms
// here see only the body.
package rle

import (
	"fmt"

	"github.com/discochess/tinypress/internal/format"
)

// MaxRun is the longest run a single pair can describe.
const MaxRun = 255

// run is the currently open run of the encoder.
type run struct {
	value  byte
	length int
	open   bool
}

// Encoder turns raw bytes into [value, count] pairs. Runs stay open across
// calls to Step so chunk boundaries never split a pair.
type Encoder struct {
	cur run
}

// NewEncoder returns an encoder with no open run.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Step consumes all of src, appending every closed run to dst.
func (e *Encoder) Step(dst, src []byte) ([]byte, int, error) {
	for _, b := range src {
		switch {
		case !e.cur.open:
			e.cur = run{value: b, length: 1, open: true}
		case b == e.cur.value && e.cur.length < MaxRun:
			e.cur.length++
		default:
			dst = append(dst, e.cur.value, byte(e.cur.length))
			e.cur = run{value: b, length: 1, open: true}
		}
	}
	return dst, len(src), nil
}

// Finish emits the open run, if any.
func (e *Encoder) Finish(dst, _ []byte) ([]byte, error) {
	if e.cur.open {
		dst = append(dst, e.cur.value, byte(e.cur.length))
		e.cur = run{}
	}
	return dst, nil
}

// Decoder expands [value, count] pairs.
type Decoder struct {
	// consumed counts body bytes already decoded, for error positions.
	consumed int64
}

// NewDecoder returns a decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Step expands every complete pair in src. A trailing odd byte is left
// unconsumed for the next call.
func (d *Decoder) Step(dst, src []byte) ([]byte, int, error) {
	n := 0
	for ; n+2 <= len(src); n += 2 {
		value, count := src[n], int(src[n+1])
		if count == 0 {
			return dst, n, fmt.Errorf("%w: zero count for value 0x%02x at body offset %d",
				format.ErrCorruptData, value, d.consumed+int64(n))
		}
		for i := 0; i < count; i++ {
			dst = append(dst, value)
		}
	}
	d.consumed += int64(n)
	return dst, n, nil
}

// Finish rejects a dangling half pair.
func (d *Decoder) Finish(dst, residue []byte) ([]byte, error) {
	if len(residue) != 0 {
		return dst, fmt.Errorf("%w: incomplete pair (%d byte left)", format.ErrTruncatedStream, len(residue))
	}
	return dst, nil
}
