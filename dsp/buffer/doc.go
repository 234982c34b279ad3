// Package buffer provides fixed-capacity sample buffers for real-time
// producers: a circular [Ring] for sliding-window energy sums and a
// lock-free single-producer single-consumer [FrameQueue] for handing whole
// frames to a lower-priority reader.
//
// Both types allocate only at construction.
package buffer
