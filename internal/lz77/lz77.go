// Package lz77 implements a simplified LZ77 with a 20-byte window and a
// linear match search.
//
// The stream body is a sequence of tokens:
//
//	literal: [0x00][byte]
//	match:   [0x01][offset 1..255][length 3..255]
//
// offset counts backwards from the current reconstruction position.
package lz77

import (
	"fmt"

	"github.com/discochess/tinypress/internal/format"
	"github.com/discochess/tinypress/internal/window"
)

const (
	// WindowSize is the capacity of the search window and decode history.
	WindowSize = 20

	// MaxMatchLength is the look-ahead capacity and the longest match.
	MaxMatchLength = 255

	// MinMatchLength is the shortest match worth a token.
	MinMatchLength = 3

	// maxOffset is the largest offset a single byte can carry.
	maxOffset = 255
)

// Token flags.
const (
	FlagLiteral byte = 0x00
	FlagMatch   byte = 0x01
)

// Encoder produces literal and match tokens. It owns the search window and
// the look-ahead buffer; both persist across calls to Step.
type Encoder struct {
	window    *window.Ring
	lookahead *window.Ring
}

// NewEncoder returns an encoder with empty window and look-ahead.
func NewEncoder() *Encoder {
	return &Encoder{
		window:    window.New(WindowSize),
		lookahead: window.New(MaxMatchLength),
	}
}

// Step consumes all of src, encoding tokens until the look-ahead runs dry.
func (e *Encoder) Step(dst, src []byte) ([]byte, int, error) {
	n := 0
	for {
		n += e.lookahead.Fill(src[n:])
		if e.lookahead.Len() == 0 {
			return dst, n, nil
		}

		offset, length := e.findMatch()
		if length >= MinMatchLength && offset <= maxOffset {
			dst = append(dst, FlagMatch, byte(offset), byte(length))
			for i := 0; i < length; i++ {
				e.window.Push(e.lookahead.PopFront())
			}
			continue
		}

		b := e.lookahead.PopFront()
		dst = append(dst, FlagLiteral, b)
		e.window.Push(b)
	}
}

// findMatch scans every window position for the longest prefix shared with
// the look-ahead. On equal lengths the later position wins, which yields the
// smallest offset. The prefix never runs past the end of the window.
func (e *Encoder) findMatch() (offset, length int) {
	searchLen := e.window.Len()
	aheadLen := e.lookahead.Len()

	bestIdx, bestLen := 0, 0
	for i := 0; i < searchLen; i++ {
		n := 0
		for n < aheadLen && i+n < searchLen && e.window.At(i+n) == e.lookahead.At(n) {
			n++
		}
		if n >= bestLen {
			bestIdx, bestLen = i, n
		}
	}
	if bestLen == 0 {
		return 0, 0
	}
	return searchLen - bestIdx, bestLen
}

// Finish emits whatever is left in the look-ahead as literals. Step always
// drains the look-ahead, so this only matters for a Step that returned early.
func (e *Encoder) Finish(dst, _ []byte) ([]byte, error) {
	for e.lookahead.Len() > 0 {
		b := e.lookahead.PopFront()
		dst = append(dst, FlagLiteral, b)
		e.window.Push(b)
	}
	return dst, nil
}

// Decoder reconstructs bytes from tokens using a 20-byte history.
type Decoder struct {
	history  *window.Ring
	consumed int64
}

// NewDecoder returns a decoder with an empty history.
func NewDecoder() *Decoder {
	return &Decoder{history: window.New(WindowSize)}
}

// Step decodes every complete token in src and leaves a partial trailing
// token unconsumed.
func (d *Decoder) Step(dst, src []byte) ([]byte, int, error) {
	n := 0
	defer func() { d.consumed += int64(n) }()

	for n < len(src) {
		switch flag := src[n]; flag {
		case FlagLiteral:
			if len(src)-n < 2 {
				return dst, n, nil
			}
			b := src[n+1]
			dst = append(dst, b)
			d.history.Push(b)
			n += 2

		case FlagMatch:
			if len(src)-n < 3 {
				return dst, n, nil
			}
			offset, length := int(src[n+1]), int(src[n+2])
			if offset == 0 || length == 0 {
				return dst, n, fmt.Errorf("%w: match offset %d length %d at body offset %d",
					format.ErrCorruptData, offset, length, d.consumed+int64(n))
			}
			if offset > d.history.Len() {
				return dst, n, fmt.Errorf("%w: match offset %d exceeds history of %d at body offset %d",
					format.ErrCorruptData, offset, d.history.Len(), d.consumed+int64(n))
			}
			// Byte-at-a-time so a match may read what it is writing.
			for i := 0; i < length; i++ {
				b := d.history.At(d.history.Len() - offset)
				dst = append(dst, b)
				d.history.Push(b)
			}
			n += 3

		default:
			return dst, n, fmt.Errorf("%w: flag 0x%02x at body offset %d",
				format.ErrUnknownToken, flag, d.consumed+int64(n))
		}
	}
	return dst, n, nil
}

// Finish rejects a partial trailing token.
func (d *Decoder) Finish(dst, residue []byte) ([]byte, error) {
	if len(residue) != 0 {
		return dst, fmt.Errorf("%w: incomplete token (%d bytes left, flag 0x%02x)",
			format.ErrTruncatedStream, len(residue), residue[0])
	}
	return dst, nil
}
