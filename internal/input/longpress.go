package input

import "time"

// LongPress fires exactly once when a button is held continuously for the
// configured duration. A second fire requires a full release and re-press.
//
// Disabling the detector discards any accumulated hold, so a press that
// began while disabled can never fire after re-enabling; the hold must be
// started fresh with a new debounced press edge.
type LongPress struct {
	debouncer  *EdgeDebouncer
	activeHigh bool
	hold       time.Duration
	now        func() time.Time

	armed        bool
	pressStartAt time.Time
	fired        bool
}

func NewLongPress(reader LevelReader, activeHigh bool, debounce, hold time.Duration) *LongPress {
	return &LongPress{
		debouncer:  NewEdgeDebouncer(reader, debounce),
		activeHigh: activeHigh,
		hold:       hold,
		now:        time.Now,
	}
}

// Poll advances the detector one tick and reports whether the long-press
// fired on this tick. The enabled gate is evaluated after edge tracking so
// the debouncer itself never loses sync with the line.
func (p *LongPress) Poll(enabled bool) bool {
	now := p.now()

	level, changed := p.debouncer.Poll()
	if changed {
		if p.isPressedLevel(level) {
			p.armed = true
			p.pressStartAt = now
			p.fired = false
		} else {
			p.armed = false
			p.fired = false
		}
	}

	if !enabled {
		p.armed = false
		p.fired = false
		return false
	}

	if p.armed && !p.fired && p.isPressedLevel(p.debouncer.Stable()) && now.Sub(p.pressStartAt) >= p.hold {
		p.fired = true
		return true
	}

	return false
}

func (p *LongPress) isPressedLevel(level Level) bool {
	if p.activeHigh {
		return level == High
	}
	return level == Low
}
