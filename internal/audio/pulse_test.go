package audio

import (
	"context"
	"testing"

	pulseproto "github.com/jfreymuth/pulse/proto"
	"github.com/stretchr/testify/require"
)

func TestResolveSinkFromListExactMatchWins(t *testing.T) {
	sinks := []Sink{
		{ID: "alsa_output.usb-KTMicro_KT_USB_Audio-00"},
		{ID: "usb"},
	}

	require.Equal(t, "usb", resolveSinkFromList(sinks, "usb"))
}

func TestResolveSinkFromListSubstringMatch(t *testing.T) {
	sinks := []Sink{
		{ID: "alsa_output.pci-0000_00_1f.3.analog-stereo"},
		{ID: "alsa_output.usb-KTMicro_KT_USB_Audio-00"},
	}

	require.Equal(t, "alsa_output.usb-KTMicro_KT_USB_Audio-00", resolveSinkFromList(sinks, "KT_USB"))
}

func TestResolveSinkFromListNoMatchFallsBackToDefault(t *testing.T) {
	sinks := []Sink{{ID: "alsa_output.pci-0000_00_1f.3.analog-stereo"}}
	require.Empty(t, resolveSinkFromList(sinks, "bluetooth"))
}

func TestResolveSinkEmptyHintSkipsLookup(t *testing.T) {
	// No Pulse server involved: an empty hint resolves immediately.
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")
	sink, err := ResolveSink(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, sink)
}

func TestListSourcesFailsWhenPulseUnavailable(t *testing.T) {
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")
	_, err := ListSources(context.Background())
	require.Error(t, err)
}

func TestListSinksFailsWhenPulseUnavailable(t *testing.T) {
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")
	_, err := ListSinks(context.Background())
	require.Error(t, err)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "running", stateString(0))
	require.Equal(t, "idle", stateString(1))
	require.Equal(t, "suspended", stateString(2))
	require.Equal(t, "unknown(99)", stateString(99))
}

func TestSourceAvailableNilAndNoPorts(t *testing.T) {
	require.False(t, sourceAvailable(nil))
	require.True(t, sourceAvailable(&pulseproto.GetSourceInfoReply{}))
}
