package client

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies a failed exchange.
type ErrorKind string

const (
	ServerRejected   ErrorKind = "SERVER_REJECTED"
	TransportFailure ErrorKind = "TRANSPORT_FAILURE"
	Canceled         ErrorKind = "CANCELED"
)

// GenericFailureMessage is shown when the engine rejects a request without a
// usable detail message.
const GenericFailureMessage = "Something went wrong while predicting"

// ClientError is a failed exchange. Message is the user-facing text; Err
// keeps the underlying cause for logs.
type ClientError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Err        error
}

func (e *ClientError) Error() string { return e.Message }

func (e *ClientError) Unwrap() error { return e.Err }

// transportError wraps err, reporting cancellation when ctx is done.
func transportError(ctx context.Context, err error) *ClientError {
	if ctxErr := ctx.Err(); ctxErr != nil {
		msg := "Prediction request was cancelled"
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			msg = "Prediction request timed out"
		}
		return &ClientError{Kind: Canceled, Message: msg, Err: ctxErr}
	}
	return &ClientError{
		Kind:    TransportFailure,
		Message: "Could not reach the forecasting engine",
		Err:     err,
	}
}

// KindOf returns the kind of a *ClientError in err's chain, or "".
func KindOf(err error) ErrorKind {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// Describe renders the error with its cause, for logging.
func Describe(err error) string {
	var ce *ClientError
	if !errors.As(err, &ce) {
		return err.Error()
	}
	switch {
	case ce.Err != nil:
		return fmt.Sprintf("%s: %s (%v)", ce.Kind, ce.Message, ce.Err)
	case ce.StatusCode != 0:
		return fmt.Sprintf("%s: status %d: %s", ce.Kind, ce.StatusCode, ce.Message)
	default:
		return fmt.Sprintf("%s: %s", ce.Kind, ce.Message)
	}
}
