// Package selector implements the rotary-encoder language selection UI:
// rotate to browse, press the knob to pick. Selection rounds are blocking
// and modal; the controller enters them deliberately and nothing else runs
// until they return.
package selector

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/emassari/portavoce/internal/display"
	"github.com/emassari/portavoce/internal/input"
)

// Choice is one selectable language: a display name plus a model language
// code (for example "Italian" / "ita_Latn").
type Choice struct {
	Name string
	Code string
}

// Pair is one translation direction.
type Pair struct {
	Source string
	Target string
}

// Selection is the result of a full two-round selection: the forward pair
// for button A, its exact reverse for button B, and both display names.
// Both pairs are produced together and replace any previous selection as a
// unit.
type Selection struct {
	Forward Pair
	Reverse Pair
	NameA   string
	NameB   string
}

var errNoChoices = errors.New("no language choices supplied")

// settleWindow bounds how long SelectOne waits for an already-pressed
// switch to clear before the round starts, so an idle-low line cannot
// auto-select the initial option.
const settleWindow = 500 * time.Millisecond

// Selector decodes the encoder's quadrature pair and push switch. It is
// single-threaded and not re-entrant.
type Selector struct {
	clk         input.LevelReader
	dt          input.LevelReader
	sw          input.LevelReader
	display     *display.Display
	logger      *slog.Logger
	debounce    time.Duration
	poll        time.Duration
	swActiveLow bool

	now   func() time.Time
	sleep func(time.Duration)
}

func New(clk, dt, sw input.LevelReader, disp *display.Display, debounce, poll time.Duration, logger *slog.Logger) *Selector {
	return &Selector{
		clk:         clk,
		dt:          dt,
		sw:          sw,
		display:     disp,
		logger:      logger,
		debounce:    debounce,
		poll:        poll,
		swActiveLow: true,
		now:         time.Now,
		sleep:       time.Sleep,
	}
}

// SelectOne blocks until the knob is pressed on an option and returns it.
// Rotation moves the index one step per CLK transition, direction decided
// by DT's phase at that instant, wrapping modulo the option count.
func (s *Selector) SelectOne(ctx context.Context, prompt string, options []Choice, initialIndex int) (Choice, error) {
	if len(options) == 0 {
		return Choice{}, errNoChoices
	}

	s.display.ClearScroll()

	index := ((initialIndex % len(options)) + len(options)) % len(options)
	s.show(prompt, options[index])

	lastCLK := s.clk.Level()

	// Drain a switch that is already pressed so it cannot select on entry.
	settleDeadline := s.now().Add(settleWindow)
	for s.swPressed(s.sw.Level()) && s.now().Before(settleDeadline) {
		if err := ctx.Err(); err != nil {
			return Choice{}, err
		}
		s.sleep(10 * time.Millisecond)
	}

	lastSW := s.sw.Level()

	for {
		if err := ctx.Err(); err != nil {
			return Choice{}, err
		}

		clk := s.clk.Level()
		dt := s.dt.Level()
		sw := s.sw.Level()

		if clk != lastCLK {
			if dt != clk {
				index = (index + 1) % len(options)
			} else {
				index = (index - 1 + len(options)) % len(options)
			}
			lastCLK = clk

			s.show(prompt, options[index])
			s.sleep(10 * time.Millisecond)
		}

		if sw != lastSW {
			// Single-shot debounce: re-read after one debounce interval
			// and accept the edge only if it is still there.
			s.sleep(s.debounce)
			confirmed := s.sw.Level()
			if confirmed != lastSW {
				lastSW = confirmed
				if s.swPressed(confirmed) {
					if err := s.waitForRelease(ctx); err != nil {
						return Choice{}, err
					}
					if s.logger != nil {
						s.logger.Info("language selected", "prompt", prompt, "name", options[index].Name, "code", options[index].Code)
					}
					return options[index], nil
				}
			}
		}

		s.sleep(s.poll)
	}
}

// SelectPair runs two independent selection rounds over the same choices.
// Picking the same language twice is allowed.
func (s *Selector) SelectPair(ctx context.Context, choices []Choice, initialIndex int) (Selection, error) {
	first, err := s.SelectOne(ctx, "Select first party", choices, initialIndex)
	if err != nil {
		return Selection{}, err
	}
	second, err := s.SelectOne(ctx, "Select second party", choices, initialIndex)
	if err != nil {
		return Selection{}, err
	}

	return Selection{
		Forward: Pair{Source: first.Code, Target: second.Code},
		Reverse: Pair{Source: second.Code, Target: first.Code},
		NameA:   first.Name,
		NameB:   second.Name,
	}, nil
}

// waitForRelease blocks until the switch clears so one physical press
// cannot be observed twice by a subsequent round.
func (s *Selector) waitForRelease(ctx context.Context) error {
	for s.swPressed(s.sw.Level()) {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.sleep(10 * time.Millisecond)
	}
	return nil
}

func (s *Selector) swPressed(level input.Level) bool {
	if s.swActiveLow {
		return level == input.Low
	}
	return level == input.High
}

func (s *Selector) show(prompt string, choice Choice) {
	s.display.Write(prompt, choice.Name)
}
