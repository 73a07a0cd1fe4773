// Package stream drives the codec transforms over arbitrarily chunked input.
//
// A Writer is the push side: every Write feeds a chunk, Close finishes the
// stream. The Writer emits or validates the magic byte, keeps the residue of
// a partial token between chunks, stages output before handing it to the
// sink, and remembers the first error. A Reader adapts a Writer to the pull
// side for io.Reader based callers.
package stream

import (
	"errors"
	"fmt"

	"github.com/discochess/tinypress/internal/format"
	"github.com/discochess/tinypress/internal/lz77"
	"github.com/discochess/tinypress/internal/rle"
)

// Sentinel errors for misuse of the driver.
var (
	// ErrUnknownKind indicates a kind with no transforms, including KindAuto
	// where a concrete kind is required.
	ErrUnknownKind = errors.New("tinypress: unknown codec kind")

	// ErrClosed indicates a Write or Close after Close.
	ErrClosed = errors.New("tinypress: stream closed")
)

// Transform is one direction of one codec family, operating on the stream
// body (everything after the magic byte).
type Transform interface {
	// Step consumes as many complete units of src as possible, appending
	// their output to dst. It returns the extended dst and the number of
	// bytes of src consumed; the rest is handed back on the next call.
	Step(dst, src []byte) ([]byte, int, error)

	// Finish flushes internal state at end of input. residue is whatever
	// Step left unconsumed.
	Finish(dst, residue []byte) ([]byte, error)
}

// Direction selects encoding or decoding.
type Direction uint8

const (
	Encode Direction = iota
	Decode
)

func (d Direction) String() string {
	if d == Decode {
		return "decode"
	}
	return "encode"
}

// transforms holds the constructors for every kind and direction.
var transforms = map[format.Kind][2]func() Transform{
	format.KindRLE: {
		Encode: func() Transform { return rle.NewEncoder() },
		Decode: func() Transform { return rle.NewDecoder() },
	},
	format.KindLZ77: {
		Encode: func() Transform { return lz77.NewEncoder() },
		Decode: func() Transform { return lz77.NewDecoder() },
	},
}

// NewTransform returns a fresh transform for kind and direction.
func NewTransform(kind format.Kind, dir Direction) (Transform, error) {
	ctors, ok := transforms[kind]
	if !ok || dir > Decode {
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
	return ctors[dir](), nil
}
