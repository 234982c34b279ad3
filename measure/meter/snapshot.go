package meter

// Snapshot is the consumer view of the scalar measurements. Both *Engine
// and *Store implement it.
type Snapshot interface {
	PeakL() float64
	PeakR() float64
	RMSL() float64
	RMSR() float64
	Loudness() float64
	Correlation() float64
	MidRMS() float64
	SideRMS() float64
	LowRMS() float64
	MidBandRMS() float64
	HighRMS() float64
}

// Channel selects the left or right bulk queue.
type Channel int

const (
	ChannelLeft Channel = iota
	ChannelRight
)

// String returns "left" or "right".
func (c Channel) String() string {
	switch c {
	case ChannelLeft:
		return "left"
	case ChannelRight:
		return "right"
	default:
		return "unknown"
	}
}

// FrameSource is the consumer view of the bulk queues. Each method copies
// the oldest pending frame into dst, growing it if needed, and returns the
// filled slice. ok is false when no frame is pending.
type FrameSource interface {
	TryPopSpectrum(ch Channel, dst []float64) ([]float64, bool)
	TryPopStereo(ch Channel, dst []float64) ([]float64, bool)
}

var (
	_ Snapshot    = (*Store)(nil)
	_ Snapshot    = (*Engine)(nil)
	_ FrameSource = (*Engine)(nil)
)
