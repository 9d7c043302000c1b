package fsm

import "fmt"

type State string

type Event string

const (
	// StateUninitialized is the boot state before any language pair exists.
	StateUninitialized State = "uninitialized"
	StateReady         State = "ready"
	StateRecording     State = "recording"
	StateTranslating   State = "translating"
	StateSelecting     State = "selecting"
	StateShutdown      State = "shutdown"
)

const (
	EventSelected   Event = "selected"
	EventPress      Event = "press"
	EventRelease    Event = "release"
	EventTranslated Event = "translated"
	EventReselect   Event = "reselect"
	EventShutdown   Event = "shutdown"
)

func Transition(current State, event Event) (State, error) {
	if event == EventShutdown {
		return StateShutdown, nil
	}

	switch current {
	case StateUninitialized:
		switch event {
		case EventSelected:
			return StateReady, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateReady:
		switch event {
		case EventPress:
			return StateRecording, nil
		case EventReselect:
			return StateSelecting, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateRecording:
		switch event {
		case EventRelease:
			return StateTranslating, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateTranslating:
		switch event {
		case EventTranslated:
			return StateReady, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateSelecting:
		switch event {
		case EventSelected:
			return StateReady, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateShutdown:
		return current, invalidTransition(current, event)
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
