package buffer

import "github.com/cwbudde/algo-vecmath"

// Ring is a zero-filled circular sample buffer with a single write cursor.
// It is owned by one goroutine.
type Ring struct {
	data   []float64
	cursor int
}

// NewRing returns a ring holding capacity samples. Non-positive capacities
// are raised to 1.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}

	return &Ring{data: make([]float64, capacity)}
}

// Cap returns the ring capacity.
func (r *Ring) Cap() int { return len(r.data) }

// Cursor returns the index the next Write will store to.
func (r *Ring) Cursor() int { return r.cursor }

// Write stores x at the cursor and advances it.
func (r *Ring) Write(x float64) {
	r.data[r.cursor] = x
	r.cursor++
	if r.cursor == len(r.data) {
		r.cursor = 0
	}
}

// SumSquares returns the sum of squares of the n most recent samples. n is
// clamped to [0, Cap()]. A window that straddles the end of the buffer is
// summed as two contiguous runs. Slots never written read as zero.
func (r *Ring) SumSquares(n int) float64 {
	if n <= 0 {
		return 0
	}
	if n > len(r.data) {
		n = len(r.data)
	}

	start := r.cursor - n
	if start >= 0 {
		seg := r.data[start:r.cursor]
		return vecmath.DotProduct(seg, seg)
	}

	tail := r.data[len(r.data)+start:]
	head := r.data[:r.cursor]

	return vecmath.DotProduct(tail, tail) + vecmath.DotProduct(head, head)
}

// Reset zeroes the contents and rewinds the cursor.
func (r *Ring) Reset() {
	clear(r.data)
	r.cursor = 0
}
