package protocol

import (
	"fmt"

	"github.com/go-errors/errors"
)

// RunLocally runs two instances of different roles against each other in-process,
// alternating NextMessage calls until both have terminated. It is meant for tests and
// debugging; real executions exchange the messages over some transport instead.
func RunLocally(a, b Instance) error {
	if a.Role() == b.Role() {
		return errors.Errorf("both instances play role %s", a.Role())
	}
	if a.SendsFirstMessage() == b.SendsFirstMessage() {
		return errors.New("exactly one of the instances must send the first message")
	}

	current, other := a, b
	if !a.SendsFirstMessage() {
		current, other = b, a
	}

	msg := None
	idle := 0
	for step := 0; !current.HasTerminated() || !other.HasTerminated(); step++ {
		if current.HasTerminated() {
			if msg.Present() {
				return errors.Errorf("%s sent a message to %s, which has already terminated", other.Role(), current.Role())
			}
		} else {
			out, err := current.NextMessage(msg)
			if err != nil {
				return errors.WrapPrefix(err, fmt.Sprintf("%s failed in step %d", current.Role(), step), 0)
			}
			Logger.Tracef("step %d: %s sends %s (terminated: %t)", step, current.Role(), out, current.HasTerminated())
			if out.Present() || current.HasTerminated() {
				idle = 0
			} else {
				idle++
			}
			msg = out
		}
		if idle >= 2 {
			return ErrStalled
		}
		current, other = other, current
	}

	if msg.Present() {
		return errors.Errorf("final message of %s was never delivered", other.Role())
	}
	return nil
}
