package protocol

import (
	"testing"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkproto/big"
	"github.com/privacybydesign/zkproto/repr"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	Logger = logrus.New()
	Logger.SetLevel(logrus.FatalLevel)
}

// countProtocol is a toy protocol in which the parties take turns incrementing a counter,
// starting from zero, until it reaches the limit.
type countProtocol struct {
	limit int64
}

type countInstance struct {
	protocol   *countProtocol
	role       Role
	calls      int
	terminated bool
}

func (p *countProtocol) Roles() []Role           { return []Role{"alice", "bob"} }
func (p *countProtocol) FirstMessageRole() Role { return "alice" }
func (p *countProtocol) Instantiate(role Role, _ CommonInput, _ SecretInput) (Instance, error) {
	if !HasRole(p, role) {
		return nil, errors.Errorf("unknown role %s", role)
	}
	return &countInstance{protocol: p, role: role}, nil
}

func (c *countInstance) Protocol() Protocol      { return c.protocol }
func (c *countInstance) Role() Role              { return c.role }
func (c *countInstance) HasTerminated() bool     { return c.terminated }
func (c *countInstance) SendsFirstMessage() bool { return SendsFirst(c.protocol, c.role) }

func (c *countInstance) NextMessage(received Message) (Message, error) {
	if c.terminated {
		return None, nil
	}
	c.calls++
	if !received.Present() {
		if c.SendsFirstMessage() && c.calls == 1 {
			return Some(repr.Int64(0)), nil
		}
		return None, MissingMessage(string(c.role), "counter")
	}
	v, err := repr.AsInt(received.Payload())
	if err != nil {
		return None, err
	}
	if v.Int64() >= c.protocol.limit {
		c.terminated = true
		return None, nil
	}
	next := v.Int64() + 1
	if next >= c.protocol.limit {
		c.terminated = true
	}
	return Some(repr.NewInt(big.NewInt(next))), nil
}

// silentInstance never says anything and never terminates.
type silentInstance struct {
	countInstance
}

func (s *silentInstance) NextMessage(Message) (Message, error) { return None, nil }

func TestRunLocally(t *testing.T) {
	p := &countProtocol{limit: 5}
	alice, err := p.Instantiate("alice", nil, nil)
	require.NoError(t, err)
	bob, err := p.Instantiate("bob", nil, nil)
	require.NoError(t, err)

	assert.True(t, alice.SendsFirstMessage())
	assert.False(t, bob.SendsFirstMessage())

	// order of the arguments does not matter
	require.NoError(t, RunLocally(bob, alice))
	assert.True(t, alice.HasTerminated())
	assert.True(t, bob.HasTerminated())

	out, err := alice.NextMessage(Some(repr.Int64(1)))
	require.NoError(t, err)
	assert.False(t, out.Present(), "terminated instance must stay silent")
}

func TestRunLocallyRejectsSameRole(t *testing.T) {
	p := &countProtocol{limit: 2}
	a1, _ := p.Instantiate("alice", nil, nil)
	a2, _ := p.Instantiate("alice", nil, nil)
	assert.Error(t, RunLocally(a1, a2))
}

func TestRunLocallyStalls(t *testing.T) {
	p := &countProtocol{limit: 2}
	a := &silentInstance{countInstance{protocol: p, role: "alice"}}
	b := &silentInstance{countInstance{protocol: p, role: "bob"}}
	err := RunLocally(a, b)
	assert.Equal(t, ErrStalled, err)
}

func TestUnknownRole(t *testing.T) {
	_, err := (&countProtocol{limit: 2}).Instantiate("carol", nil, nil)
	assert.Error(t, err)
}

func TestMessage(t *testing.T) {
	assert.False(t, None.Present())
	assert.False(t, Some(nil).Present())
	m := Some(repr.String("x"))
	assert.True(t, m.Present())
	assert.Equal(t, repr.String("x"), m.Payload())
	assert.Equal(t, "<none>", None.String())
	assert.Equal(t, "<string>", m.String())
}
