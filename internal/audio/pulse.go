// Package audio handles PulseAudio device discovery: input sources for
// diagnostics and output sinks for playback routing.
package audio

import (
	"context"
	"fmt"
	"strings"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"
)

// Source describes one Pulse input source surfaced to diagnostics.
type Source struct {
	ID          string
	Description string
	State       string
	Available   bool
	Muted       bool
	Default     bool
}

// Sink describes one Pulse output sink.
type Sink struct {
	ID          string
	Description string
	State       string
	Muted       bool
	Default     bool
}

// ListSources returns available Pulse input sources with default and
// availability metadata.
func ListSources(_ context.Context) ([]Source, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	defaultSource, err := client.DefaultSource()
	if err != nil {
		return nil, fmt.Errorf("read default source: %w", err)
	}
	defaultID := defaultSource.ID()

	var sourceInfos pulseproto.GetSourceInfoListReply
	if err := client.RawRequest(&pulseproto.GetSourceInfoList{}, &sourceInfos); err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	sources := make([]Source, 0, len(sourceInfos))
	for _, source := range sourceInfos {
		if source == nil {
			continue
		}
		sources = append(sources, Source{
			ID:          source.SourceName,
			Description: source.Device,
			State:       stateString(source.State),
			Available:   sourceAvailable(source),
			Muted:       source.Mute,
			Default:     source.SourceName == defaultID,
		})
	}
	return sources, nil
}

// ListSinks returns available Pulse output sinks.
func ListSinks(_ context.Context) ([]Sink, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	defaultSink, err := client.DefaultSink()
	if err != nil {
		return nil, fmt.Errorf("read default sink: %w", err)
	}
	defaultID := defaultSink.ID()

	var sinkInfos pulseproto.GetSinkInfoListReply
	if err := client.RawRequest(&pulseproto.GetSinkInfoList{}, &sinkInfos); err != nil {
		return nil, fmt.Errorf("list sinks: %w", err)
	}

	sinks := make([]Sink, 0, len(sinkInfos))
	for _, sink := range sinkInfos {
		if sink == nil {
			continue
		}
		sinks = append(sinks, Sink{
			ID:          sink.SinkName,
			Description: sink.Device,
			State:       stateString(sink.State),
			Muted:       sink.Mute,
			Default:     sink.SinkName == defaultID,
		})
	}
	return sinks, nil
}

// ResolveSink matches a configured sink hint against live sinks: an exact
// name first, then the first sink whose name contains the hint. An empty
// result means "use the default sink".
func ResolveSink(ctx context.Context, hint string) (string, error) {
	if strings.TrimSpace(hint) == "" {
		return "", nil
	}
	sinks, err := ListSinks(ctx)
	if err != nil {
		return "", err
	}
	return resolveSinkFromList(sinks, hint), nil
}

// resolveSinkFromList applies the exact-then-substring policy to a
// pre-fetched sink list.
func resolveSinkFromList(sinks []Sink, hint string) string {
	for _, sink := range sinks {
		if sink.ID == hint {
			return sink.ID
		}
	}
	for _, sink := range sinks {
		if strings.Contains(sink.ID, hint) {
			return sink.ID
		}
	}
	return ""
}

func newClient() (*pulse.Client, error) {
	client, err := pulse.NewClient(
		pulse.ClientApplicationName("portavoce"),
		pulse.ClientApplicationIconName("audio-input-microphone"),
	)
	if err != nil {
		return nil, fmt.Errorf("connect pulse server: %w", err)
	}
	return client, nil
}

// stateString maps Pulse device state constants to human-readable values.
func stateString(state uint32) string {
	switch state {
	case 0:
		return "running"
	case 1:
		return "idle"
	case 2:
		return "suspended"
	default:
		return fmt.Sprintf("unknown(%d)", state)
	}
}

// sourceAvailable maps Pulse source port availability to a simple boolean.
func sourceAvailable(source *pulseproto.GetSourceInfoReply) bool {
	if source == nil {
		return false
	}
	if len(source.Ports) == 0 {
		return true
	}
	for _, port := range source.Ports {
		if port.Name != source.ActivePortName {
			continue
		}
		// PulseAudio values: unknown=0, no=1, yes=2.
		return port.Available == 0 || port.Available == 2
	}
	return true
}
