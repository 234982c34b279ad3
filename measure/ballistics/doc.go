// Package ballistics turns raw meter readings into display values.
//
// The types here run on the consumer side only: a timer goroutine polls a
// meter.Snapshot, drains the bulk queues of a meter.FrameSource and feeds
// the results through smoothers, peak holds and per-view state. Nothing in
// this package is safe for concurrent use; one goroutine owns a Dashboard.
//
// Smoothing is per tick, not per second. A Dashboard ticked at 60 Hz and
// one ticked at 30 Hz with the same factors move at different speeds.
package ballistics
