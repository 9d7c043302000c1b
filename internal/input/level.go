// Package input implements debounced edge detection for the appliance's
// physical controls: record buttons, the rotary encoder switch, and the
// encoder's quadrature pair.
package input

// Level is one sampled digital line state.
type Level int

const (
	Low Level = iota
	High
)

func (l Level) String() string {
	if l == High {
		return "high"
	}
	return "low"
}

// LevelReader samples the current state of one digital input line. Reads
// must be cheap enough to call at poll frequency.
type LevelReader interface {
	Level() Level
}

// LevelFunc adapts a plain function to LevelReader.
type LevelFunc func() Level

func (f LevelFunc) Level() Level { return f() }
