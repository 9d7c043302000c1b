// Package controller owns the device control loop: it polls the two
// talk buttons and the encoder switch, drives the recorder and the
// translation pipeline, and keeps the language pair current.
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/emassari/portavoce/internal/display"
	"github.com/emassari/portavoce/internal/fsm"
	"github.com/emassari/portavoce/internal/input"
	"github.com/emassari/portavoce/internal/pipeline"
	"github.com/emassari/portavoce/internal/selector"
)

// ErrLanguagesNotSelected is returned by Run when the startup language
// selection has not completed.
var ErrLanguagesNotSelected = errors.New("languages not selected")

// ButtonPoller reports one-shot press/release edges.
type ButtonPoller interface {
	Poll() input.ButtonEvent
}

// HoldPoller reports a single long-press fire per physical hold.
type HoldPoller interface {
	Poll(enabled bool) bool
}

// LanguageSelector runs the blocking two-round language selection.
type LanguageSelector interface {
	SelectPair(ctx context.Context, choices []selector.Choice, initialIndex int) (selector.Selection, error)
}

// Recorder is the shared capture session.
type Recorder interface {
	Start() error
	Stop(timeout time.Duration) time.Duration
	IsRecording() bool
	WavPath() string
}

// Pipeline turns a finished recording into displayed and spoken output.
type Pipeline interface {
	Process(ctx context.Context, audioPath, sourceLang, targetLang string) (pipeline.Result, error)
}

type button int

const (
	buttonA button = iota
	buttonB
)

// Controller is the top-level application state machine.
type Controller struct {
	buttonA   ButtonPoller
	buttonB   ButtonPoller
	longPress HoldPoller
	selector  LanguageSelector
	recorder  Recorder
	pipeline  Pipeline
	display   *display.Display
	logger    *slog.Logger

	choices      []selector.Choice
	pollInterval time.Duration
	stopGrace    time.Duration
	shutdownHold time.Duration

	state     fsm.State
	selection selector.Selection
	selected  bool

	cleanupOnce sync.Once
	sleep       func(time.Duration)
}

// Config carries the collaborators and timings for a Controller.
type Config struct {
	ButtonA      ButtonPoller
	ButtonB      ButtonPoller
	LongPress    HoldPoller
	Selector     LanguageSelector
	Recorder     Recorder
	Pipeline     Pipeline
	Display      *display.Display
	Choices      []selector.Choice
	PollInterval time.Duration
	StopGrace    time.Duration
	ShutdownHold time.Duration
	Logger       *slog.Logger
}

// New builds a Controller in the uninitialized state.
func New(cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	hold := cfg.ShutdownHold
	if hold == 0 {
		hold = 5 * time.Second
	}
	return &Controller{
		buttonA:      cfg.ButtonA,
		buttonB:      cfg.ButtonB,
		longPress:    cfg.LongPress,
		selector:     cfg.Selector,
		recorder:     cfg.Recorder,
		pipeline:     cfg.Pipeline,
		display:      cfg.Display,
		logger:       logger,
		choices:      cfg.Choices,
		pollInterval: cfg.PollInterval,
		stopGrace:    cfg.StopGrace,
		shutdownHold: hold,
		state:        fsm.StateUninitialized,
		sleep:        time.Sleep,
	}
}

// State exposes the current machine state for diagnostics.
func (c *Controller) State() fsm.State {
	return c.state
}

// Selection returns the current language selection.
func (c *Controller) Selection() selector.Selection {
	return c.selection
}

// SelectLanguagesStartup runs the mandatory first language selection.
// Run refuses to start until this has completed.
func (c *Controller) SelectLanguagesStartup(ctx context.Context) error {
	sel, err := c.selector.SelectPair(ctx, c.choices, 0)
	if err != nil {
		return fmt.Errorf("startup language selection: %w", err)
	}
	next, err := fsm.Transition(c.state, fsm.EventSelected)
	if err != nil {
		return err
	}
	c.state = next
	c.selection = sel
	c.selected = true
	c.logger.Info("languages selected",
		slog.String("a", sel.NameA),
		slog.String("b", sel.NameB))
	c.showReady()
	return nil
}

// Run drives the poll loop until ctx is cancelled. It always releases
// the recorder and shows the shutdown message before returning.
func (c *Controller) Run(ctx context.Context) error {
	if !c.selected {
		return ErrLanguagesNotSelected
	}
	defer c.cleanup(ctx)

	for {
		if ctx.Err() != nil {
			return nil
		}

		c.handleButton(ctx, buttonA, c.buttonA.Poll())
		c.handleButton(ctx, buttonB, c.buttonB.Poll())

		if c.longPress.Poll(c.state != fsm.StateRecording) {
			if err := c.reselect(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				c.logger.Warn("language re-selection failed", slog.String("error", err.Error()))
				c.showReady()
			}
		}

		c.display.TickScroll(c.state == fsm.StateRecording)
		c.sleep(c.pollInterval)
	}
}

// handleButton applies one button edge to the state machine. A press
// while recording is dropped; a release from either button stops the
// session and translates with that button's direction.
func (c *Controller) handleButton(ctx context.Context, b button, event input.ButtonEvent) {
	switch event {
	case input.ButtonPressed:
		if c.state != fsm.StateReady {
			return
		}
		c.startRecording(b)
	case input.ButtonReleased:
		if c.state != fsm.StateRecording {
			return
		}
		c.finishRecording(ctx, b)
	}
}

func (c *Controller) startRecording(b button) {
	next, err := fsm.Transition(c.state, fsm.EventPress)
	if err != nil {
		c.logger.Warn("dropped press", slog.String("error", err.Error()))
		return
	}
	if err := c.recorder.Start(); err != nil {
		c.logger.Error("recording start failed", slog.String("error", err.Error()))
		c.display.Write("Mic error", "Check audio")
		return
	}
	c.state = next
	pair := c.pairFor(b)
	c.display.Write("Listening...", pipeline.DirectionHeader(pair.Source, pair.Target))
	c.logger.Info("recording started", slog.String("direction", pipeline.DirectionHeader(pair.Source, pair.Target)))
}

func (c *Controller) finishRecording(ctx context.Context, b button) {
	next, err := fsm.Transition(c.state, fsm.EventRelease)
	if err != nil {
		c.logger.Warn("dropped release", slog.String("error", err.Error()))
		return
	}
	c.state = next

	duration := c.recorder.Stop(c.stopGrace)
	pair := c.pairFor(b)
	c.logger.Info("recording stopped",
		slog.Duration("duration", duration),
		slog.String("source", pair.Source),
		slog.String("target", pair.Target))

	result, err := c.pipeline.Process(ctx, c.recorder.WavPath(), pair.Source, pair.Target)
	if err != nil {
		c.logger.Error("pipeline failed", slog.String("error", err.Error()))
		c.display.ClearScroll()
		c.display.Write("Error", "Try again")
	} else if result.Empty() {
		c.logger.Info("no speech recognized")
	}

	next, err = fsm.Transition(c.state, fsm.EventTranslated)
	if err != nil {
		c.logger.Warn("state error after pipeline", slog.String("error", err.Error()))
		return
	}
	c.state = next
}

// reselect runs a blocking language re-selection triggered by the
// encoder long-press. The previous pair stays active until the new one
// is fully chosen.
func (c *Controller) reselect(ctx context.Context) error {
	next, err := fsm.Transition(c.state, fsm.EventReselect)
	if err != nil {
		return err
	}
	c.state = next

	c.display.Write("Change langs", "Rotate + press")
	sel, err := c.selector.SelectPair(ctx, c.choices, 0)
	if err != nil {
		// Leave selecting state so the loop can keep running with the
		// previous pair.
		if back, terr := fsm.Transition(c.state, fsm.EventSelected); terr == nil {
			c.state = back
		}
		return err
	}

	next, err = fsm.Transition(c.state, fsm.EventSelected)
	if err != nil {
		return err
	}
	c.state = next
	c.selection = sel
	c.logger.Info("languages reselected",
		slog.String("a", sel.NameA),
		slog.String("b", sel.NameB))
	c.showReady()
	return nil
}

// pairFor maps a button to its translation direction.
func (c *Controller) pairFor(b button) selector.Pair {
	if b == buttonB {
		return c.selection.Reverse
	}
	return c.selection.Forward
}

func (c *Controller) showReady() {
	c.display.ClearScroll()
	c.display.Write("Ready", "Hold button")
}

// cleanup finishes any in-flight recording and parks the display. A
// session still open when shutdown arrives is stopped and translated
// with button A's direction.
func (c *Controller) cleanup(ctx context.Context) {
	c.cleanupOnce.Do(func() {
		if c.recorder.IsRecording() {
			duration := c.recorder.Stop(c.stopGrace)
			pair := c.selection.Forward
			c.logger.Info("finishing in-flight recording on shutdown",
				slog.Duration("duration", duration),
				slog.String("source", pair.Source),
				slog.String("target", pair.Target))
			// The loop context is already done; the final utterance
			// still gets translated.
			if _, err := c.pipeline.Process(context.WithoutCancel(ctx), c.recorder.WavPath(), pair.Source, pair.Target); err != nil {
				c.logger.Error("shutdown pipeline failed", slog.String("error", err.Error()))
			}
		}
		if c.state != fsm.StateShutdown {
			if next, err := fsm.Transition(c.state, fsm.EventShutdown); err == nil {
				c.state = next
			}
		}
		c.display.Shutdown("Shutting down", "", c.shutdownHold)
		c.logger.Info("controller stopped")
	})
}
