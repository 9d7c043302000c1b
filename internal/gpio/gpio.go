// Package gpio reads input lines through the Linux GPIO character
// device, adapting them to the input package's level model.
package gpio

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	gpiocdev "github.com/warthog618/go-gpiocdev"

	"github.com/emassari/portavoce/internal/input"
)

// Line wraps a requested GPIO input line. Reads that fail return the
// last level seen so a transient kernel error does not register as an
// edge.
type Line struct {
	line   *gpiocdev.Line
	logger *slog.Logger

	mu   sync.Mutex
	last input.Level
}

// Chip owns the character device handle and the lines requested from
// it.
type Chip struct {
	chip   *gpiocdev.Chip
	logger *slog.Logger
	lines  []*Line
}

// OpenChip opens a GPIO chip by name, e.g. "gpiochip0".
func OpenChip(name string, logger *slog.Logger) (*Chip, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	chip, err := gpiocdev.NewChip(name, gpiocdev.WithConsumer("portavoce"))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", name, err)
	}
	return &Chip{chip: chip, logger: logger}, nil
}

// RequestInput requests one offset as a pulled-up input line.
func (c *Chip) RequestInput(offset int) (*Line, error) {
	line, err := c.chip.RequestLine(offset, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		return nil, fmt.Errorf("request gpio line %d: %w", offset, err)
	}
	l := &Line{line: line, logger: c.logger, last: input.High}
	if v, err := line.Value(); err == nil {
		l.last = toLevel(v)
	}
	c.lines = append(c.lines, l)
	return l, nil
}

// Close releases all requested lines and the chip handle.
func (c *Chip) Close() error {
	for _, l := range c.lines {
		if err := l.line.Close(); err != nil {
			c.logger.Warn("close gpio line", slog.String("error", err.Error()))
		}
	}
	c.lines = nil
	return c.chip.Close()
}

// Level reads the current line value, falling back to the last known
// level on error.
func (l *Line) Level() input.Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, err := l.line.Value()
	if err != nil {
		l.logger.Warn("gpio read failed, using last level",
			slog.Int("offset", l.line.Offset()),
			slog.String("error", err.Error()))
		return l.last
	}
	l.last = toLevel(v)
	return l.last
}

func toLevel(v int) input.Level {
	if v == 0 {
		return input.Low
	}
	return input.High
}

var _ input.LevelReader = (*Line)(nil)
