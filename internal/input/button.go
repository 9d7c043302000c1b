package input

import "time"

// ButtonEvent is a one-shot debounced transition report. Events are never
// buffered: a caller that polls too slowly misses transitions.
type ButtonEvent int

const (
	ButtonNone ButtonEvent = iota
	ButtonPressed
	ButtonReleased
)

func (e ButtonEvent) String() string {
	switch e {
	case ButtonPressed:
		return "pressed"
	case ButtonReleased:
		return "released"
	default:
		return "none"
	}
}

// Button reports debounced press and release edges for one physical button.
type Button struct {
	debouncer  *EdgeDebouncer
	activeHigh bool
}

func NewButton(reader LevelReader, activeHigh bool, debounce time.Duration) *Button {
	return &Button{
		debouncer:  NewEdgeDebouncer(reader, debounce),
		activeHigh: activeHigh,
	}
}

// Poll returns ButtonPressed exactly once when the debounced level enters
// the active state, ButtonReleased exactly once on the reverse transition,
// and ButtonNone otherwise.
func (b *Button) Poll() ButtonEvent {
	level, changed := b.debouncer.Poll()
	if !changed {
		return ButtonNone
	}
	if b.isPressedLevel(level) {
		return ButtonPressed
	}
	return ButtonReleased
}

// IsPressed reports the current debounced state without sampling.
func (b *Button) IsPressed() bool {
	return b.isPressedLevel(b.debouncer.Stable())
}

func (b *Button) isPressedLevel(level Level) bool {
	if b.activeHigh {
		return level == High
	}
	return level == Low
}
