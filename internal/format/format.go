// Package format defines the wire-level vocabulary shared by the codec
// families: stream kinds, their magic bytes, and the error kinds a decoder
// can report.
package format

import (
	"errors"
	"fmt"
	"strings"
)

// Magic bytes identifying each codec family. A stream always starts with
// exactly one of them.
const (
	MagicRLE  byte = 0x52 // 'R'
	MagicLZ77 byte = 0x4C // 'L'
)

// Error kinds. All of them are terminal for the stream that produced them.
var (
	// ErrFormat indicates a wrong or unrecognized magic byte.
	ErrFormat = errors.New("tinypress: wrong magic byte")

	// ErrCorruptData indicates a structurally complete but invalid unit,
	// such as a zero-count RLE pair or an out-of-range LZ77 match.
	ErrCorruptData = errors.New("tinypress: corrupt data")

	// ErrUnknownToken indicates an LZ77 flag byte other than literal or match.
	ErrUnknownToken = errors.New("tinypress: unknown token")

	// ErrTruncatedStream indicates the stream ended in the middle of a unit.
	ErrTruncatedStream = errors.New("tinypress: truncated stream")
)

// Kind identifies a codec family.
type Kind uint8

const (
	// KindAuto asks decoders to detect the family from the magic byte.
	// It is never valid for encoders.
	KindAuto Kind = iota
	KindRLE
	KindLZ77
)

// Magic returns the magic byte for k, or 0 for KindAuto and unknown kinds.
func (k Kind) Magic() byte {
	switch k {
	case KindRLE:
		return MagicRLE
	case KindLZ77:
		return MagicLZ77
	default:
		return 0
	}
}

// String returns the short algorithm name used on the command line.
func (k Kind) String() string {
	switch k {
	case KindAuto:
		return "auto"
	case KindRLE:
		return "rle"
	case KindLZ77:
		return "lz"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Valid reports whether k names a concrete codec family.
func (k Kind) Valid() bool {
	return k == KindRLE || k == KindLZ77
}

// ParseKind parses an algorithm name. Both "lz" and "lz77" name LZ77.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return KindAuto, nil
	case "rle":
		return KindRLE, nil
	case "lz", "lz77":
		return KindLZ77, nil
	default:
		return KindAuto, fmt.Errorf("unknown algorithm: %s", s)
	}
}

// Detect maps a leading stream byte to its codec family.
func Detect(b byte) (Kind, error) {
	switch b {
	case MagicRLE:
		return KindRLE, nil
	case MagicLZ77:
		return KindLZ77, nil
	default:
		return KindAuto, fmt.Errorf("%w: unrecognized leading byte 0x%02x", ErrFormat, b)
	}
}
