// Package fsm models the role an invocation takes in the OSD session.
package fsm

import "fmt"

type State string

type Event string

const (
	StateStarting State = "starting"
	StateOwner    State = "owner"
	StateClient   State = "client"
	StateExited   State = "exited"
)

const (
	EventAcquire Event = "acquire"
	EventContend Event = "contend"
	EventExpire  Event = "expire"
	EventDeliver Event = "deliver"
	EventRetry   Event = "retry"
	EventFail    Event = "fail"
)

func Transition(current State, event Event) (State, error) {
	if event == EventFail {
		if current == StateExited {
			return current, invalidTransition(current, event)
		}
		return StateExited, nil
	}

	switch current {
	case StateStarting:
		switch event {
		case EventAcquire:
			return StateOwner, nil
		case EventContend:
			return StateClient, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateOwner:
		switch event {
		case EventExpire:
			return StateExited, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateClient:
		switch event {
		case EventDeliver:
			return StateExited, nil
		case EventRetry:
			return StateStarting, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateExited:
		return current, invalidTransition(current, event)
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
