// Package display implements the character-display behavior layer: bounded
// two-line writes, line-two scroll animation, and the shutdown hold. The
// hardware itself sits behind the Screen interface; a write failure is
// logged and swallowed so a broken panel can never stall the control loop.
package display

import (
	"log/slog"
	"strings"
	"time"
)

// Screen is the narrow contract a physical or virtual character panel
// exposes to the display layer. Row numbering starts at zero.
type Screen interface {
	WriteLine(row int, text string) error
	Clear() error
}

// Display owns user-facing text output plus the scroll state for line two.
type Display struct {
	screen Screen
	cols   int
	rows   int
	logger *slog.Logger

	scrollInterval time.Duration
	scrollText     string
	scrollOffset   int
	scrollLastAt   time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

func New(screen Screen, cols, rows int, scrollInterval time.Duration, logger *slog.Logger) *Display {
	return &Display{
		screen:         screen,
		cols:           cols,
		rows:           rows,
		logger:         logger,
		scrollInterval: scrollInterval,
		now:            time.Now,
		sleep:          time.Sleep,
	}
}

// Available reports whether a screen is attached. The appliance degrades to
// log-only operation without one.
func (d *Display) Available() bool {
	return d.screen != nil
}

// Cols returns the panel width used for preview truncation.
func (d *Display) Cols() int {
	return d.cols
}

// Write clears the panel and writes up to two truncated lines. Errors are
// logged and ignored.
func (d *Display) Write(line1, line2 string) {
	if d.screen == nil {
		return
	}
	if err := d.screen.Clear(); err != nil {
		d.logWriteError(err)
		return
	}
	if line1 != "" {
		if err := d.screen.WriteLine(0, truncate(line1, d.cols)); err != nil {
			d.logWriteError(err)
			return
		}
	}
	if d.rows > 1 && line2 != "" {
		if err := d.screen.WriteLine(1, truncate(line2, d.cols)); err != nil {
			d.logWriteError(err)
		}
	}
}

// SetScrollText replaces the scrolling content and restarts the animation.
func (d *Display) SetScrollText(text string) {
	d.scrollText = text
	d.scrollOffset = 0
	d.scrollLastAt = d.now()
}

// ClearScroll stops the scroll animation.
func (d *Display) ClearScroll() {
	d.SetScrollText("")
}

// TickScroll advances the line-two scroll window by one column. It does
// nothing while recording, while no scroll text is set, or until the scroll
// interval has elapsed since the previous step.
func (d *Display) TickScroll(isRecording bool) {
	if d.screen == nil || d.scrollText == "" || isRecording {
		return
	}

	now := d.now()
	if now.Sub(d.scrollLastAt) < d.scrollInterval {
		return
	}
	d.scrollLastAt = now

	// Window over runes so multi-byte characters are never split.
	padded := []rune(d.scrollText + "   ")
	if d.scrollOffset >= len(padded) {
		d.scrollOffset = 0
	}

	end := d.scrollOffset + d.cols
	if end > len(padded) {
		end = len(padded)
	}
	window := string(padded[d.scrollOffset:end])
	if end-d.scrollOffset < d.cols {
		window = window + strings.Repeat(" ", d.cols-(end-d.scrollOffset))
	}
	d.scrollOffset++

	if err := d.screen.WriteLine(1, strings.Repeat(" ", d.cols)); err != nil {
		d.logWriteError(err)
		return
	}
	if err := d.screen.WriteLine(1, window); err != nil {
		d.logWriteError(err)
	}
}

// Shutdown shows a final message, holds it, and clears the panel.
func (d *Display) Shutdown(line1, line2 string, hold time.Duration) {
	if d.screen == nil {
		return
	}
	d.Write(line1, line2)
	d.sleep(hold)
	if err := d.screen.Clear(); err != nil {
		d.logWriteError(err)
	}
}

func (d *Display) logWriteError(err error) {
	if d.logger == nil {
		return
	}
	d.logger.Warn("display write failed", "error", err.Error())
}

func truncate(text string, cols int) string {
	runes := []rune(text)
	if len(runes) <= cols {
		return text
	}
	return string(runes[:cols])
}
