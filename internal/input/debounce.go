package input

import "time"

// EdgeDebouncer accepts a raw level change only after the line has held the
// new level for a full debounce window. A glitch that reverts before the
// window elapses is discarded without ever being reported.
//
// Poll never blocks and keeps no timers; state advances only as a function
// of the caller's sampling and wall-clock time.
type EdgeDebouncer struct {
	reader LevelReader
	window time.Duration
	now    func() time.Time

	rawLast      Level
	rawChangedAt time.Time
	stable       Level
}

// NewEdgeDebouncer seeds raw and stable state from the line's current level
// so construction never produces a synthetic edge.
func NewEdgeDebouncer(reader LevelReader, window time.Duration) *EdgeDebouncer {
	initial := reader.Level()
	return &EdgeDebouncer{
		reader:       reader,
		window:       window,
		now:          time.Now,
		rawLast:      initial,
		rawChangedAt: time.Now(),
		stable:       initial,
	}
}

// Poll samples the line once. It returns the debounced level plus true on
// exactly the call where a debounced transition is accepted.
func (d *EdgeDebouncer) Poll() (Level, bool) {
	now := d.now()
	raw := d.reader.Level()

	if raw != d.rawLast {
		d.rawLast = raw
		d.rawChangedAt = now
	}

	if now.Sub(d.rawChangedAt) >= d.window && raw != d.stable {
		d.stable = raw
		return d.stable, true
	}

	return d.stable, false
}

// Stable returns the last accepted level without sampling the line.
func (d *EdgeDebouncer) Stable() Level {
	return d.stable
}
