package sigma_test

import (
	"testing"

	"github.com/privacybydesign/zkproto/big"
	"github.com/privacybydesign/zkproto/protocol"
	"github.com/privacybydesign/zkproto/repr"
	"github.com/privacybydesign/zkproto/schnorr"
	"github.com/privacybydesign/zkproto/sigma"
	"github.com/privacybydesign/zkproto/zkproof"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logrus.SetLevel(logrus.FatalLevel)
}

// setup returns the discrete log protocol over the group of order 13451 and the
// statement y = g^5.
func setup(t *testing.T) (*schnorr.Protocol, *schnorr.Statement, schnorr.Witness) {
	g, ok := zkproof.BuildGroup(big.NewInt(26903))
	require.True(t, ok)
	return schnorr.New(g), schnorr.DiscreteLog(big.NewInt(17171)), schnorr.DiscreteLogWitness(big.NewInt(5))
}

func TestStateMachines(t *testing.T) {
	p, x, w := setup(t)
	prover := sigma.NewProverInstance(p, x, w)
	verifier := sigma.NewVerifierInstance(p, x)

	assert.True(t, prover.SendsFirstMessage())
	assert.False(t, verifier.SendsFirstMessage())
	assert.Equal(t, sigma.ProverRole, prover.Role())
	assert.Equal(t, sigma.VerifierRole, verifier.Role())
	assert.Equal(t, sigma.ProverRole, prover.Protocol().FirstMessageRole())

	ann, err := prover.NextMessage(protocol.None)
	require.NoError(t, err)
	require.True(t, ann.Present())
	assert.Equal(t, sigma.ProverSentAnnouncement, prover.State())
	assert.False(t, prover.HasTerminated())

	ch, err := verifier.NextMessage(ann)
	require.NoError(t, err)
	require.True(t, ch.Present())
	assert.Equal(t, sigma.VerifierSentChallenge, verifier.State())
	assert.False(t, verifier.HasTerminated())
	assert.Panics(t, func() { verifier.IsAccepting() }, "no verdict before termination")

	resp, err := prover.NextMessage(ch)
	require.NoError(t, err)
	require.True(t, resp.Present())
	assert.True(t, prover.HasTerminated())
	assert.Equal(t, sigma.ProverSentResponse, prover.State())

	out, err := verifier.NextMessage(resp)
	require.NoError(t, err)
	assert.False(t, out.Present())
	assert.True(t, verifier.HasTerminated())
	assert.True(t, verifier.IsAccepting())

	// terminated instances stay silent and keep their state
	out, err = prover.NextMessage(ch)
	require.NoError(t, err)
	assert.False(t, out.Present())
	assert.Equal(t, sigma.ProverSentResponse, prover.State())
	out, err = verifier.NextMessage(resp)
	require.NoError(t, err)
	assert.False(t, out.Present())
	assert.True(t, verifier.IsAccepting())
}

func TestStateMachineMisuse(t *testing.T) {
	p, x, w := setup(t)

	prover := sigma.NewProverInstance(p, x, w)
	assert.Panics(t, func() { _, _ = prover.NextMessage(protocol.Some(repr.Int64(1))) })

	verifier := sigma.NewVerifierInstance(p, x)
	assert.Panics(t, func() { _, _ = verifier.NextMessage(protocol.None) })
	assert.Panics(t, func() { verifier.Transcript() })
}

func TestMissingMessages(t *testing.T) {
	p, x, w := setup(t)
	prover := sigma.NewProverInstance(p, x, w)
	verifier := sigma.NewVerifierInstance(p, x)

	ann, err := prover.NextMessage(protocol.None)
	require.NoError(t, err)
	_, err = prover.NextMessage(protocol.None)
	_, ok := protocol.AsRouteError(err)
	assert.True(t, ok)
	assert.Equal(t, sigma.ProverSentAnnouncement, prover.State())

	_, err = verifier.NextMessage(ann)
	require.NoError(t, err)
	_, err = verifier.NextMessage(protocol.None)
	_, ok = protocol.AsRouteError(err)
	assert.True(t, ok)
	assert.Equal(t, sigma.VerifierSentChallenge, verifier.State())
}

func TestMalformedMessages(t *testing.T) {
	p, x, w := setup(t)
	prover := sigma.NewProverInstance(p, x, w)
	verifier := sigma.NewVerifierInstance(p, x)

	_, err := verifier.NextMessage(protocol.Some(repr.String("announcement")))
	_, ok := repr.AsDecodeError(err)
	assert.True(t, ok)
	assert.Equal(t, sigma.VerifierNothing, verifier.State())

	ann, err := prover.NextMessage(protocol.None)
	require.NoError(t, err)
	_, err = prover.NextMessage(protocol.Some(repr.Int64(-3)))
	_, ok = repr.AsDecodeError(err)
	assert.True(t, ok)
	assert.Equal(t, sigma.ProverSentAnnouncement, prover.State())

	// both instances can still complete the run
	ch, err := verifier.NextMessage(ann)
	require.NoError(t, err)
	resp, err := prover.NextMessage(ch)
	require.NoError(t, err)
	_, err = verifier.NextMessage(protocol.Some(repr.Object{}))
	_, ok = repr.AsDecodeError(err)
	assert.True(t, ok)
	_, err = verifier.NextMessage(resp)
	require.NoError(t, err)
	assert.True(t, verifier.IsAccepting())
}

func TestTwoParty(t *testing.T) {
	p, x, w := setup(t)
	tp := sigma.TwoParty(p)
	assert.Equal(t, []protocol.Role{sigma.ProverRole, sigma.VerifierRole}, tp.Roles())
	assert.Equal(t, sigma.ProverRole, tp.FirstMessageRole())
	assert.Equal(t, p, tp.Sigma())

	prover, err := tp.Instantiate(sigma.ProverRole, x, w)
	require.NoError(t, err)
	verifier, err := tp.Instantiate(sigma.VerifierRole, x, nil)
	require.NoError(t, err)
	require.NoError(t, protocol.RunLocally(verifier, prover))
	assert.True(t, verifier.(*sigma.VerifierInstance).IsAccepting())

	tr := verifier.(*sigma.VerifierInstance).Transcript()
	assert.True(t, sigma.IsAccepting(p, x, tr))

	_, err = tp.Instantiate("observer", x, nil)
	assert.Error(t, err)
}

func TestMessagesOverTheWire(t *testing.T) {
	p, x, w := setup(t)
	prover := sigma.NewProverInstance(p, x, w)
	verifier := sigma.NewVerifierInstance(p, x)

	// send every message through its wire encoding
	wire := func(m protocol.Message) protocol.Message {
		if !m.Present() {
			return m
		}
		data, err := repr.Marshal(m.Payload())
		require.NoError(t, err)
		r, err := repr.Unmarshal(data)
		require.NoError(t, err)
		return protocol.Some(r)
	}

	msg, err := prover.NextMessage(protocol.None)
	require.NoError(t, err)
	msg, err = verifier.NextMessage(wire(msg))
	require.NoError(t, err)
	msg, err = prover.NextMessage(wire(msg))
	require.NoError(t, err)
	_, err = verifier.NextMessage(wire(msg))
	require.NoError(t, err)
	assert.True(t, verifier.IsAccepting())
}
