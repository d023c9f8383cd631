// Package protocol contains the generic machinery for two-party protocols: the role based
// Protocol/Instance contract, an in-process driver (RunLocally) and BaseProtocol, an engine
// that lets a protocol run several named sub-protocols concurrently within its own rounds.
//
// Instances are purely reactive. Each call to NextMessage consumes the last message of the
// other party and returns the next message to send; transporting that message is the
// caller's job. Instances are not safe for concurrent use.
package protocol

import (
	"github.com/privacybydesign/zkproto/repr"
)

type (
	// Role names one of the two participants of a protocol, e.g. "prover".
	Role string

	// CommonInput is the statement known to both parties. Its concrete type is defined by
	// the protocol using it.
	CommonInput interface{}

	// SecretInput is the witness known only to the party that needs it.
	SecretInput interface{}

	// CommonInputVector bundles several common inputs, e.g. for composite statements.
	CommonInputVector []CommonInput

	// SecretInputVector bundles several secret inputs.
	SecretInputVector []SecretInput

	// Protocol is a two-party protocol with a fixed pair of roles.
	Protocol interface {
		// Roles returns the role names in a fixed order.
		Roles() []Role
		// FirstMessageRole returns the role whose instance sends the first message.
		FirstMessageRole() Role
		// Instantiate returns an instance of the protocol playing the given role.
		Instantiate(role Role, common CommonInput, secret SecretInput) (Instance, error)
	}

	// Instance is one party's view of one run of a Protocol.
	Instance interface {
		Protocol() Protocol
		Role() Role
		// NextMessage is handed the last message sent by the other party (None only on
		// the first call of the instance that speaks first) and returns the message to
		// send, or None if there is nothing to send. Calling it after HasTerminated
		// returns None.
		NextMessage(received Message) (Message, error)
		// HasTerminated reports whether the instance expects no further calls.
		HasTerminated() bool
		// SendsFirstMessage reports whether the instance's role speaks first.
		SendsFirstMessage() bool
	}

	// Message is an optional message tree. The zero value is None.
	Message struct {
		payload repr.Representation
	}
)

// None is the absent message.
var None = Message{}

// Some wraps a message tree. A nil tree gives None.
func Some(r repr.Representation) Message {
	return Message{payload: r}
}

// Present reports whether the message carries a tree.
func (m Message) Present() bool {
	return m.payload != nil
}

// Payload returns the message tree; it is nil for None.
func (m Message) Payload() repr.Representation {
	return m.payload
}

func (m Message) String() string {
	if !m.Present() {
		return "<none>"
	}
	return "<" + m.payload.Kind().String() + ">"
}

// SendsFirst reports whether role is the first-message role of p.
func SendsFirst(p Protocol, role Role) bool {
	return p.FirstMessageRole() == role
}

// HasRole reports whether role is one of the roles of p.
func HasRole(p Protocol, role Role) bool {
	for _, r := range p.Roles() {
		if r == role {
			return true
		}
	}
	return false
}
