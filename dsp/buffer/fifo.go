package buffer

import "sync/atomic"

// FrameQueue is a lock-free single-producer single-consumer queue of
// fixed-length float64 frames.
//
// Frames live in one preallocated arena. The producer owns writeIdx and the
// consumer owns readIdx; each side only loads the other's index. Both are
// monotonically increasing counters, so the fill level is writeIdx-readIdx.
// One slot is always kept free, which makes the usable capacity slots-1.
//
// Thread assignment:
//   - Push, Drop, Dropped: producer only
//   - Pop, Skip: consumer only
//   - Len, Free, Cap: either side
type FrameQueue struct {
	writeIdx atomic.Uint64
	_pad1    [56]byte
	readIdx  atomic.Uint64
	_pad2    [56]byte
	dropped  atomic.Uint64
	_pad3    [56]byte

	arena    []float64
	lengths  []int
	slots    uint64
	frameLen int
}

// NewFrameQueue allocates a queue of slots frames of frameLen values each.
// slots is raised to 2 and frameLen to 1 when smaller.
func NewFrameQueue(slots, frameLen int) *FrameQueue {
	if slots < 2 {
		slots = 2
	}
	if frameLen < 1 {
		frameLen = 1
	}

	return &FrameQueue{
		arena:    make([]float64, slots*frameLen),
		lengths:  make([]int, slots),
		slots:    uint64(slots),
		frameLen: frameLen,
	}
}

// Cap returns the number of frames the queue can hold (slots-1).
func (q *FrameQueue) Cap() int { return int(q.slots) - 1 }

// FrameLen returns the per-frame capacity in values.
func (q *FrameQueue) FrameLen() int { return q.frameLen }

// Len returns the number of queued frames. The value is a snapshot and may
// be stale by the time the caller inspects it.
func (q *FrameQueue) Len() int {
	return int(q.writeIdx.Load() - q.readIdx.Load())
}

// Free returns the number of frames that can be pushed before the queue is
// full. Only the consumer frees slots, so from the producer's side the
// result is a lower bound.
func (q *FrameQueue) Free() int {
	return q.Cap() - q.Len()
}

// Drop counts a frame the producer discarded without pushing.
func (q *FrameQueue) Drop() { q.dropped.Add(1) }

// Dropped returns the number of frames rejected because the queue was full.
func (q *FrameQueue) Dropped() uint64 { return q.dropped.Load() }

// Push copies min(len(data), FrameLen()) values into the next free slot.
// It returns false and counts a drop when the queue is full. Push never
// blocks and never allocates.
func (q *FrameQueue) Push(data []float64) bool {
	w := q.writeIdx.Load()
	r := q.readIdx.Load()

	if w-r >= q.slots-1 {
		q.dropped.Add(1)
		return false
	}

	slot := w % q.slots
	off := int(slot) * q.frameLen
	n := copy(q.arena[off:off+q.frameLen], data)
	q.lengths[slot] = n

	q.writeIdx.Store(w + 1)

	return true
}

// Pop copies the oldest frame into dst and releases its slot. It returns
// the number of values copied, which is the smaller of the stored frame
// length and len(dst). ok is false when the queue is empty.
func (q *FrameQueue) Pop(dst []float64) (n int, ok bool) {
	r := q.readIdx.Load()
	w := q.writeIdx.Load()

	if r == w {
		return 0, false
	}

	slot := r % q.slots
	off := int(slot) * q.frameLen
	n = copy(dst, q.arena[off:off+q.lengths[slot]])

	q.readIdx.Store(r + 1)

	return n, true
}

// Skip releases the oldest frame without copying it. It returns false when
// the queue is empty.
func (q *FrameQueue) Skip() bool {
	r := q.readIdx.Load()
	if r == q.writeIdx.Load() {
		return false
	}

	q.readIdx.Store(r + 1)

	return true
}

// Reset empties the queue and clears the drop counter. It must only be
// called while neither side is active.
func (q *FrameQueue) Reset() {
	q.writeIdx.Store(0)
	q.readIdx.Store(0)
	q.dropped.Store(0)
}
