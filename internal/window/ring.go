// Package window provides the fixed-capacity FIFO byte buffer used as the
// LZ77 search window, look-ahead buffer and decode history.
package window

// Ring is a fixed-capacity FIFO of bytes backed by a single arena.
// Pushing past capacity evicts the oldest byte.
//
// 0 <= n <= len(buf) at all times.
type Ring struct {
	buf  []byte
	head int // index of the oldest byte
	n    int
}

// New returns an empty ring holding at most capacity bytes.
func New(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{buf: make([]byte, capacity)}
}

// Len returns the number of bytes currently held.
func (r *Ring) Len() int { return r.n }

// Cap returns the fixed capacity.
func (r *Ring) Cap() int { return len(r.buf) }

// Full reports whether Len() == Cap().
func (r *Ring) Full() bool { return r.n == len(r.buf) }

// At returns the i-th oldest byte. i must be in [0, Len()).
func (r *Ring) At(i int) byte {
	j := r.head + i
	if j >= len(r.buf) {
		j -= len(r.buf)
	}
	return r.buf[j]
}

// Push appends b, evicting the oldest byte when the ring is full.
func (r *Ring) Push(b byte) {
	if r.n < len(r.buf) {
		j := r.head + r.n
		if j >= len(r.buf) {
			j -= len(r.buf)
		}
		r.buf[j] = b
		r.n++
		return
	}
	r.buf[r.head] = b
	r.head++
	if r.head == len(r.buf) {
		r.head = 0
	}
}

// Fill pushes bytes from p until the ring is full or p is exhausted and
// returns how many bytes were taken. Fill never evicts.
func (r *Ring) Fill(p []byte) int {
	n := len(r.buf) - r.n
	if n > len(p) {
		n = len(p)
	}
	for _, b := range p[:n] {
		r.Push(b)
	}
	return n
}

// PopFront removes and returns the oldest byte. The ring must not be empty.
func (r *Ring) PopFront() byte {
	b := r.buf[r.head]
	r.head++
	if r.head == len(r.buf) {
		r.head = 0
	}
	r.n--
	return b
}

// Reset empties the ring without releasing its arena.
func (r *Ring) Reset() {
	r.head, r.n = 0, 0
}

// Bytes returns a copy of the contents, oldest first.
func (r *Ring) Bytes() []byte {
	out := make([]byte, r.n)
	for i := range out {
		out[i] = r.At(i)
	}
	return out
}
