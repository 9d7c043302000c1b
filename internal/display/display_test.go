package display

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

type fakeScreen struct {
	lines    []string
	clears   int
	writeErr error
}

func (s *fakeScreen) WriteLine(row int, text string) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.lines = append(s.lines, text)
	return nil
}

func (s *fakeScreen) Clear() error {
	s.clears++
	return nil
}

func newTestDisplay(screen Screen) (*Display, *time.Time) {
	d := New(screen, 16, 2, 2*time.Second, nil)
	now := time.Unix(5000, 0)
	d.now = func() time.Time { return now }
	d.sleep = func(time.Duration) {}
	return d, &now
}

func TestWriteTruncatesToColumns(t *testing.T) {
	screen := &fakeScreen{}
	d, _ := newTestDisplay(screen)

	d.Write("this line is definitely too long", "ok")
	require.Equal(t, 1, screen.clears)
	require.Equal(t, []string{"this line is def", "ok"}, screen.lines)
}

func TestWriteWithoutScreenIsNoop(t *testing.T) {
	d, _ := newTestDisplay(nil)
	require.False(t, d.Available())
	d.Write("a", "b")
	d.TickScroll(false)
	d.Shutdown("bye", "", time.Second)
}

func TestWriteErrorIsSwallowed(t *testing.T) {
	screen := &fakeScreen{writeErr: errors.New("i2c timeout")}
	d, _ := newTestDisplay(screen)

	d.Write("hello", "world")
}

func TestTickScrollHonorsIntervalAndRecordingGate(t *testing.T) {
	screen := &fakeScreen{}
	d, now := newTestDisplay(screen)

	d.SetScrollText("ciao mondo, come stai oggi")

	d.TickScroll(false)
	require.Empty(t, screen.lines, "no step before the interval elapses")

	*now = now.Add(2 * time.Second)
	d.TickScroll(true)
	require.Empty(t, screen.lines, "scroll is suppressed while recording")

	d.TickScroll(false)
	require.Len(t, screen.lines, 2)
	// Blank wipe, then the first window.
	require.Equal(t, strings.Repeat(" ", 16), screen.lines[0])
	require.Equal(t, "ciao mondo, come", screen.lines[1])

	*now = now.Add(2 * time.Second)
	d.TickScroll(false)
	require.Equal(t, "iao mondo, come ", screen.lines[3])
}

func TestTickScrollWrapsAndPadsShortWindow(t *testing.T) {
	screen := &fakeScreen{}
	d, now := newTestDisplay(screen)

	d.SetScrollText("hi")
	padded := "hi   "

	var windows []string
	for i := 0; i < len(padded)+2; i++ {
		*now = now.Add(2 * time.Second)
		d.TickScroll(false)
		windows = append(windows, screen.lines[len(screen.lines)-1])
	}

	for _, window := range windows {
		require.Len(t, window, 16, "every window is padded to the panel width")
	}
	// After walking off the end the offset wraps back to the start.
	require.Equal(t, windows[0], windows[len(padded)])
}

func TestTickScrollKeepsMultiByteRunesIntact(t *testing.T) {
	screen := &fakeScreen{}
	d, now := newTestDisplay(screen)
	d.cols = 4

	d.SetScrollText("perché sì")

	var windows []string
	for i := 0; i < 12; i++ {
		*now = now.Add(2 * time.Second)
		d.TickScroll(false)
		windows = append(windows, screen.lines[len(screen.lines)-1])
	}

	require.Equal(t, "perc", windows[0])
	// The window that starts mid-word carries the full accented rune.
	require.Equal(t, "ché ", windows[3])
	for _, window := range windows {
		require.True(t, utf8.ValidString(window))
		require.Equal(t, 4, utf8.RuneCountInString(window))
	}
}

func TestTruncateCountsRunesNotBytes(t *testing.T) {
	require.Equal(t, "perché", truncate("perché arrivi?", 6))
	require.Equal(t, "così", truncate("così", 16))
}

func TestClearScrollStopsAnimation(t *testing.T) {
	screen := &fakeScreen{}
	d, now := newTestDisplay(screen)

	d.SetScrollText("something long enough to scroll")
	d.ClearScroll()

	*now = now.Add(time.Minute)
	d.TickScroll(false)
	require.Empty(t, screen.lines)
}

func TestShutdownWritesHoldsAndClears(t *testing.T) {
	screen := &fakeScreen{}
	d, _ := newTestDisplay(screen)

	var slept time.Duration
	d.sleep = func(dur time.Duration) { slept = dur }

	d.Shutdown("Shutting down", "", 5*time.Second)
	require.Equal(t, 5*time.Second, slept)
	require.Equal(t, []string{"Shutting down"}, screen.lines)
	require.Equal(t, 2, screen.clears)
}
