package protocol

import (
	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkproto/repr"
)

const (
	valuesField       = "values"
	subprotocolsField = "subprotocols"
)

type (
	// Rounds contains the round logic of one party of a BaseProtocol. Only the method
	// belonging to the party's role is ever called. Round logic may call Send, Receive,
	// RunSubprotocolConcurrently and Terminate on its BaseInstance.
	Rounds interface {
		DoRoundForFirstRole(round int) error
		DoRoundForSecondRole(round int) error
	}

	// RoundsFactory creates the round logic for a freshly instantiated BaseInstance.
	RoundsFactory func(instance *BaseInstance) (Rounds, error)

	// BaseProtocol is a Protocol whose instances run named sub-protocol instances
	// concurrently and exchange named high-level values besides.
	BaseProtocol struct {
		first, second Role
		factory       RoundsFactory
	}

	// BaseInstance is an instance of a BaseProtocol. Each NextMessage call is one round:
	//  1. values in the received message are queued for Receive;
	//  2. running sub-instances are advanced with the part of the message addressed to them;
	//  3. the round logic runs (until it calls Terminate);
	//  4. sub-instances scheduled by the round logic are started;
	//  5. terminated sub-instances are dropped;
	//  6. sent values and sub-instance messages are returned as one message, or None when
	//     there is nothing to send.
	// The first role acts in rounds 0, 2, 4, ..., the second role in rounds 1, 3, 5, ....
	//
	// A message that cannot be routed is rejected before anything changes. Once a round has
	// started to change state, an error from a sub-instance or from the round logic fails the
	// instance for good: every later NextMessage call returns the same error.
	BaseInstance struct {
		protocol *BaseProtocol
		role     Role
		common   CommonInput
		secret   SecretInput
		rounds   Rounds

		round              int
		terminateRequested bool
		failed             error

		outgoing     repr.Object
		incoming     map[string]repr.Representation
		subprotocols registry
	}
)

// NewBaseProtocol returns a protocol with roles first and second, in which first sends the
// first message, and whose round logic is created by factory.
func NewBaseProtocol(first, second Role, factory RoundsFactory) *BaseProtocol {
	if first == second {
		panic("protocol roles must differ")
	}
	return &BaseProtocol{first: first, second: second, factory: factory}
}

func (p *BaseProtocol) Roles() []Role {
	return []Role{p.first, p.second}
}

func (p *BaseProtocol) FirstMessageRole() Role {
	return p.first
}

func (p *BaseProtocol) Instantiate(role Role, common CommonInput, secret SecretInput) (Instance, error) {
	if !HasRole(p, role) {
		return nil, errors.Errorf("unknown role %s", role)
	}
	inst := &BaseInstance{
		protocol:     p,
		role:         role,
		common:       common,
		secret:       secret,
		outgoing:     repr.Object{},
		incoming:     make(map[string]repr.Representation),
		subprotocols: newRegistry(),
	}
	if role != p.first {
		inst.round = 1
	}
	rounds, err := p.factory(inst)
	if err != nil {
		return nil, err
	}
	inst.rounds = rounds
	return inst, nil
}

func (i *BaseInstance) Protocol() Protocol {
	return i.protocol
}

func (i *BaseInstance) Role() Role {
	return i.role
}

func (i *BaseInstance) SendsFirstMessage() bool {
	return SendsFirst(i.protocol, i.role)
}

// HasTerminated reports whether the round logic called Terminate and all sub-instances
// have finished.
func (i *BaseInstance) HasTerminated() bool {
	return i.terminateRequested && i.subprotocols.empty()
}

// Round returns the number of the current (or, between calls, the next) round.
func (i *BaseInstance) Round() int {
	return i.round
}

// Rounds returns the round logic created for the instance, from which protocols built on
// BaseProtocol read their results.
func (i *BaseInstance) Rounds() Rounds {
	return i.rounds
}

func (i *BaseInstance) CommonInput() CommonInput {
	return i.common
}

func (i *BaseInstance) SecretInput() SecretInput {
	return i.secret
}

// Send queues value for the other party under id. At most one value per id can be sent
// in a round.
func (i *BaseInstance) Send(id string, value repr.Representation) {
	if value == nil {
		Misuse("cannot send nil value %s", id)
	}
	if _, ok := i.outgoing[id]; ok {
		Misuse("value %s already sent in round %d", id, i.round)
	}
	i.outgoing[id] = value
}

// Receive returns and consumes the value the other party sent under id, if any.
func (i *BaseInstance) Receive(id string) (repr.Representation, bool) {
	value, ok := i.incoming[id]
	if ok {
		delete(i.incoming, id)
	}
	return value, ok
}

// RunSubprotocolConcurrently schedules instance to run under name, starting in the current
// round. The other party must schedule the instance of the other role under the same name.
// The BaseInstance owns the sub-instance from now on; its results can be read from it once
// it has terminated.
func (i *BaseInstance) RunSubprotocolConcurrently(name string, instance Instance) {
	if instance == nil {
		Misuse("cannot run nil subprotocol %s", name)
	}
	if !i.subprotocols.schedule(name, instance) {
		Misuse("subprotocol %s is already running", name)
	}
}

// IsRunning reports whether a sub-instance of the given name is scheduled, or running and
// not yet terminated.
func (i *BaseInstance) IsRunning(name string) bool {
	if s, ok := i.subprotocols.running[name]; ok {
		return !s.instance.HasTerminated()
	}
	return i.subprotocols.has(name)
}

// Terminate tells the instance that the round logic is done. The instance terminates once
// all of its sub-instances have terminated too.
func (i *BaseInstance) Terminate() {
	i.terminateRequested = true
}

// Err returns the error that failed the instance, or nil.
func (i *BaseInstance) Err() error {
	return i.failed
}

func (i *BaseInstance) NextMessage(received Message) (Message, error) {
	if i.failed != nil {
		return None, i.failed
	}
	if i.HasTerminated() {
		return None, nil
	}
	if i.round == 0 && received.Present() {
		Misuse("%s speaks first and cannot have received a message", i.role)
	}

	values, routes, err := i.unpack(received)
	if err != nil {
		return None, err
	}

	msg, err := i.doRound(values, routes)
	if err != nil {
		i.failed = err
		Logger.Debugf("%s round %d failed: %v", i.role, i.round, err)
		return None, err
	}
	return msg, nil
}

func (i *BaseInstance) doRound(values, routes map[string]repr.Representation) (Message, error) {
	var err error
	for id, value := range values {
		i.incoming[id] = value
	}

	outSubs := repr.Object{}
	delivered := make(map[string]bool, len(routes))

	for _, sub := range i.subprotocols.runningEntries() {
		slice := Some(routes[sub.name])
		if !sub.started && !slice.Present() {
			continue
		}
		delivered[sub.name] = true
		if err = i.advance(sub, slice, outSubs); err != nil {
			return None, err
		}
	}

	if !i.terminateRequested {
		if i.role == i.protocol.first {
			err = i.rounds.DoRoundForFirstRole(i.round)
		} else {
			err = i.rounds.DoRoundForSecondRole(i.round)
		}
		if err != nil {
			return None, err
		}
	}

	for _, sub := range i.subprotocols.commit() {
		var slice Message
		if !sub.instance.SendsFirstMessage() {
			// Without a message for it the sub-instance waits for a later round.
			slice = Some(routes[sub.name])
			if !slice.Present() {
				continue
			}
		}
		delivered[sub.name] = true
		if err = i.advance(sub, slice, outSubs); err != nil {
			return None, err
		}
	}

	for name := range routes {
		if !delivered[name] {
			Logger.Warnf("%s round %d: dropping message for unknown subprotocol %s", i.role, i.round, name)
		}
	}

	i.subprotocols.dropTerminated()

	outValues := i.outgoing
	i.outgoing = repr.Object{}
	Logger.Tracef("%s round %d: sending %d values, %d subprotocol messages", i.role, i.round, len(outValues), len(outSubs))
	i.round += 2

	if len(outValues) == 0 && len(outSubs) == 0 {
		return None, nil
	}
	return Some(repr.Object{
		valuesField:       outValues,
		subprotocolsField: outSubs,
	}), nil
}

func (i *BaseInstance) advance(sub *subprotocol, slice Message, out repr.Object) error {
	msg, err := sub.instance.NextMessage(slice)
	if err != nil {
		return errors.WrapPrefix(err, "subprotocol "+sub.name, 0)
	}
	sub.started = true
	if msg.Present() {
		out[sub.name] = msg.Payload()
	}
	return nil
}

// unpack splits a received message into high-level values and per sub-protocol messages.
// An absent message is an empty routing table. Nothing is changed in the instance.
func (i *BaseInstance) unpack(received Message) (map[string]repr.Representation, map[string]repr.Representation, error) {
	if !received.Present() {
		return nil, nil, nil
	}
	obj, err := repr.AsObject(received.Payload())
	if err != nil {
		return nil, nil, &RouteError{Reason: err.Error()}
	}
	values, err := obj.ObjectField(valuesField)
	if err != nil {
		return nil, nil, &RouteError{Reason: err.Error()}
	}
	subs, err := obj.ObjectField(subprotocolsField)
	if err != nil {
		return nil, nil, &RouteError{Reason: err.Error()}
	}
	for id := range values {
		if _, unread := i.incoming[id]; unread {
			return nil, nil, &RouteError{Target: id, Reason: "previous value was never received"}
		}
	}
	return values, subs, nil
}
