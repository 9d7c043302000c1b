package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeLine struct {
	level Level
}

func (l *fakeLine) Level() Level { return l.level }

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestDebouncer(line *fakeLine, window time.Duration) (*EdgeDebouncer, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	d := NewEdgeDebouncer(line, window)
	d.now = clock.now
	d.rawChangedAt = clock.t
	return d, clock
}

func TestDebouncerAcceptsChangeAfterQuietWindow(t *testing.T) {
	line := &fakeLine{level: Low}
	d, clock := newTestDebouncer(line, 50*time.Millisecond)

	line.level = High
	_, changed := d.Poll()
	require.False(t, changed, "change must not be accepted before the window elapses")

	clock.advance(49 * time.Millisecond)
	_, changed = d.Poll()
	require.False(t, changed)

	clock.advance(1 * time.Millisecond)
	level, changed := d.Poll()
	require.True(t, changed)
	require.Equal(t, High, level)
	require.Equal(t, High, d.Stable())
}

func TestDebouncerIgnoresGlitchThatRevertsWithinWindow(t *testing.T) {
	line := &fakeLine{level: Low}
	d, clock := newTestDebouncer(line, 50*time.Millisecond)

	line.level = High
	_, changed := d.Poll()
	require.False(t, changed)

	clock.advance(10 * time.Millisecond)
	line.level = Low
	_, changed = d.Poll()
	require.False(t, changed)

	clock.advance(100 * time.Millisecond)
	_, changed = d.Poll()
	require.False(t, changed, "a reverted glitch must never surface")
	require.Equal(t, Low, d.Stable())
}

func TestDebouncerBounceSettlesToSingleTransition(t *testing.T) {
	line := &fakeLine{level: Low}
	d, clock := newTestDebouncer(line, 50*time.Millisecond)

	// Contact bounce: alternate every 5ms, then settle high.
	for i := 0; i < 8; i++ {
		if i%2 == 0 {
			line.level = High
		} else {
			line.level = Low
		}
		_, changed := d.Poll()
		require.False(t, changed)
		clock.advance(5 * time.Millisecond)
	}

	line.level = High
	_, changed := d.Poll()
	require.False(t, changed)

	clock.advance(50 * time.Millisecond)
	transitions := 0
	for i := 0; i < 5; i++ {
		if _, changed := d.Poll(); changed {
			transitions++
		}
		clock.advance(time.Millisecond)
	}
	require.Equal(t, 1, transitions, "bounce must produce exactly one transition to the settled level")
	require.Equal(t, High, d.Stable())
}

func TestDebouncerConstructionProducesNoSyntheticEdge(t *testing.T) {
	line := &fakeLine{level: High}
	d, clock := newTestDebouncer(line, 50*time.Millisecond)

	clock.advance(time.Hour)
	_, changed := d.Poll()
	require.False(t, changed)
	require.Equal(t, High, d.Stable())
}
