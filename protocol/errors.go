package protocol

import (
	"fmt"

	"github.com/go-errors/errors"
)

// RouteError is returned when a received message cannot be delivered to the part of an
// instance it is addressed to: a value arrives for an id whose previous value was never
// read, a sub-protocol message has the wrong shape, or an expected message is absent.
// A leaf instance that returns it is left as it was before the call. A BaseInstance is
// only left unchanged when its own message cannot be routed; see BaseInstance.
type RouteError struct {
	Target string
	Reason string
}

func (e *RouteError) Error() string {
	if e.Target == "" {
		return "cannot route message: " + e.Reason
	}
	return fmt.Sprintf("cannot route message to %s: %s", e.Target, e.Reason)
}

// AsRouteError reports whether err is, or wraps, a RouteError.
func AsRouteError(err error) (*RouteError, bool) {
	switch e := err.(type) {
	case *RouteError:
		return e, true
	case *errors.Error:
		return AsRouteError(e.Err)
	default:
		return nil, false
	}
}

// MissingMessage returns the RouteError for an instance that expected a message from the
// other party but got None.
func MissingMessage(target, expected string) *RouteError {
	return &RouteError{Target: target, Reason: "expected " + expected + ", received nothing"}
}

// ErrStalled is returned by RunLocally when neither instance makes progress.
var ErrStalled = errors.New("protocol stalled: no messages exchanged and no instance terminated")

// Misuse panics: the caller violated the state machine contract of an instance, which
// is a programming error rather than a property of the messages exchanged.
func Misuse(format string, args ...interface{}) {
	err := errors.Errorf(format, args...)
	Logger.Error(err.Error())
	panic(err)
}
