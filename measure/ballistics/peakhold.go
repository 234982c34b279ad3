package ballistics

import "time"

// Peak hold defaults.
const (
	DefaultHoldTime    = time.Second
	DefaultHoldDecayDB = 0.5
	DefaultHoldFloorDB = -60.0
)

// PeakHold keeps the highest recent level. A new peak snaps the hold up and
// restarts the hold timer. Once the timer has run out the hold falls by a
// fixed step per update until it reaches the floor or a new peak arrives.
type PeakHold struct {
	hold    time.Duration
	decayDB float64
	floorDB float64

	value float64
	last  time.Time
}

// NewPeakHold returns a hold that starts at floorDB. A negative hold time
// is treated as zero and a negative decay as no decay.
func NewPeakHold(hold time.Duration, decayDB, floorDB float64) PeakHold {
	return PeakHold{
		hold:    max(hold, 0),
		decayDB: max(decayDB, 0),
		floorDB: floorDB,
		value:   floorDB,
	}
}

// Update feeds one reading taken at now and returns the held level.
func (p *PeakHold) Update(levelDB float64, now time.Time) float64 {
	switch {
	case levelDB > p.value:
		p.value = levelDB
		p.last = now
	case now.Sub(p.last) > p.hold:
		p.value = max(p.value-p.decayDB, p.floorDB)
	}

	return p.value
}

// Value returns the held level.
func (p *PeakHold) Value() float64 { return p.value }

// Reset drops the hold back to the floor.
func (p *PeakHold) Reset() {
	p.value = p.floorDB
	p.last = time.Time{}
}
