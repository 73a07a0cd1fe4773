package rle

import (
	"bytes"
	"errors"
	"testing"

	"github.com/discochess/tinypress/internal/format"
)

func encodeAll(t *testing.T, chunks ...[]byte) []byte {
	t.Helper()
	e := NewEncoder()
	var out []byte
	for _, c := range chunks {
		var n int
		var err error
		out, n, err = e.Step(out, c)
		if err != nil {
			t.Fatalf("Step() error = %v", err)
		}
		if n != len(c) {
			t.Fatalf("Step() consumed %d, want %d", n, len(c))
		}
	}
	out, err := e.Finish(out, nil)
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	return out
}

func TestEncoder(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  []byte
	}{
		{"empty", nil, nil},
		{"single byte", []byte{0x07}, []byte{0x07, 1}},
		{"distinct", []byte("abc"), []byte{'a', 1, 'b', 1, 'c', 1}},
		{"runs", []byte("aaabbc"), []byte{'a', 3, 'b', 2, 'c', 1}},
		{"exactly 255", bytes.Repeat([]byte{0x41}, 255), []byte{0x41, 255}},
		{"saturation", bytes.Repeat([]byte{0x41}, 300), []byte{0x41, 255, 0x41, 45}},
		{"511 zeros", make([]byte, 511), []byte{0, 255, 0, 255, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encodeAll(t, tt.input)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("encode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEncoder_RunSpansChunks(t *testing.T) {
	got := encodeAll(t, []byte("aa"), []byte("a"), []byte("ab"), nil, []byte("b"))
	want := []byte{'a', 4, 'b', 2}
	if !bytes.Equal(got, want) {
		t.Errorf("encode = %v, want %v", got, want)
	}
}

func TestDecoder(t *testing.T) {
	d := NewDecoder()
	out, n, err := d.Step(nil, []byte{'x', 3, 'y', 1, 'z'})
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if n != 4 {
		t.Errorf("Step() consumed %d, want 4", n)
	}
	if string(out) != "xxxy" {
		t.Errorf("Step() = %q, want %q", out, "xxxy")
	}

	// Residue carried by the caller completes on the next call.
	out, n, err = d.Step(out, []byte{'z', 2})
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if n != 2 || string(out) != "xxxyzz" {
		t.Errorf("Step() = %q (consumed %d), want %q", out, n, "xxxyzz")
	}

	if _, err := d.Finish(out, nil); err != nil {
		t.Errorf("Finish() error = %v", err)
	}
}

func TestDecoder_ZeroCount(t *testing.T) {
	d := NewDecoder()
	_, _, err := d.Step(nil, []byte{0x41, 0x00})
	if !errors.Is(err, format.ErrCorruptData) {
		t.Errorf("Step() error = %v, want ErrCorruptData", err)
	}
}

func TestDecoder_TruncatedPair(t *testing.T) {
	d := NewDecoder()
	_, err := d.Finish(nil, []byte{0x41})
	if !errors.Is(err, format.ErrTruncatedStream) {
		t.Errorf("Finish() error = %v, want ErrTruncatedStream", err)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("a"),
		[]byte("hello, world"),
		bytes.Repeat([]byte("xy"), 1000),
		append(bytes.Repeat([]byte{0xff}, 1000), bytes.Repeat([]byte{0x00}, 3)...),
	}

	for _, input := range inputs {
		encoded := encodeAll(t, input)

		d := NewDecoder()
		decoded, n, err := d.Step(nil, encoded)
		if err != nil {
			t.Fatalf("Step() error = %v", err)
		}
		if decoded, err = d.Finish(decoded, encoded[n:]); err != nil {
			t.Fatalf("Finish() error = %v", err)
		}
		if !bytes.Equal(decoded, input) {
			t.Errorf("round trip of %d bytes failed", len(input))
		}
	}
}
