// Package meter implements a real-time stereo metering engine.
//
// An [Engine] is fed blocks of samples from the audio thread through
// [Engine.ProcessBlock]. A single pass over each block updates peak, RMS,
// momentary loudness, phase correlation, mid/side RMS and three band RMS
// levels, and produces two kinds of bulk output: magnitude spectrum frames
// and decimated stereo sample batches.
//
// The producer side never blocks, never locks and does not allocate once
// the engine is prepared. Scalar results are published through a [Store]
// of independent atomic cells; bulk results go through lock-free
// single-producer single-consumer queues drained with
// [Engine.TryPopSpectrum] and [Engine.TryPopStereo].
//
// Consumers see each scalar tear-free but there is no consistency across
// fields: a poll may observe a peak from one block and a correlation from
// the next.
//
// Basic usage:
//
//	e := meter.New()
//	if err := e.Prepare(48000, 512); err != nil {
//	    return err
//	}
//
//	// audio thread
//	_ = e.ProcessBlock(left, right, 48000)
//
//	// UI thread
//	fmt.Println(e.PeakL(), e.Loudness())
//	buf, ok := e.TryPopSpectrum(meter.ChannelLeft, buf)
package meter
