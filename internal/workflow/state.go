package workflow

import (
	"errors"
	"fmt"
)

// State is the controller's position in the submission cycle.
type State int

const (
	Idle State = iota
	Validating
	Submitting
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Event drives a state transition.
type Event int

const (
	EventSubmit Event = iota
	EventValid
	EventInvalid
	EventSucceeded
	EventFailed
	EventReset
)

func (e Event) String() string {
	switch e {
	case EventSubmit:
		return "submit"
	case EventValid:
		return "valid"
	case EventInvalid:
		return "invalid"
	case EventSucceeded:
		return "succeeded"
	case EventFailed:
		return "failed"
	case EventReset:
		return "reset"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// ErrBusy is returned when a submission is attempted while one is pending.
var ErrBusy = errors.New("a prediction is already in progress")

// next is the only place states change.
func next(s State, e Event) (State, error) {
	busy := s == Validating || s == Submitting
	switch e {
	case EventSubmit:
		if busy {
			return s, ErrBusy
		}
		return Validating, nil
	case EventValid:
		if s == Validating {
			return Submitting, nil
		}
	case EventInvalid:
		if s == Validating {
			return Failed, nil
		}
	case EventSucceeded:
		if s == Submitting {
			return Success, nil
		}
	case EventFailed:
		if s == Submitting {
			return Failed, nil
		}
	case EventReset:
		if busy {
			return s, ErrBusy
		}
		return Idle, nil
	}
	return s, fmt.Errorf("invalid transition: %s in state %s", e, s)
}
