package sigma_test

import (
	"testing"

	"github.com/privacybydesign/zkproto/big"
	"github.com/privacybydesign/zkproto/protocol"
	"github.com/privacybydesign/zkproto/repr"
	"github.com/privacybydesign/zkproto/schnorr"
	"github.com/privacybydesign/zkproto/sigma"
	"github.com/privacybydesign/zkproto/zkproof"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAnd(t *testing.T) (*sigma.AndProtocol, protocol.CommonInputVector, protocol.SecretInputVector) {
	p, x, w := setup(t)
	g := p.Group()
	y := new(big.Int).Exp(g.G, big.NewInt(1000), g.P)

	and, err := sigma.NewAndProtocol(p, p)
	require.NoError(t, err)
	return and,
		protocol.CommonInputVector{x, schnorr.DiscreteLog(y)},
		protocol.SecretInputVector{w, schnorr.DiscreteLogWitness(big.NewInt(1000))}
}

func TestAndProtocol(t *testing.T) {
	and, x, w := setupAnd(t)
	assert.Len(t, and.Parts(), 2)

	prover := sigma.NewProverInstance(and, x, w)
	verifier := sigma.NewVerifierInstance(and, x)
	require.NoError(t, protocol.RunLocally(prover, verifier))
	assert.True(t, verifier.IsAccepting())

	tr := verifier.Transcript()
	assert.IsType(t, repr.List{}, tr.Announcement.Representation())
	assert.Len(t, tr.Response.Representation(), 2)
}

func TestAndProtocolRejectsPartialWitness(t *testing.T) {
	and, x, w := setupAnd(t)
	w[1] = schnorr.DiscreteLogWitness(big.NewInt(1001))

	rejected := 0
	for i := 0; i < 10; i++ {
		verifier := sigma.NewVerifierInstance(and, x)
		require.NoError(t, protocol.RunLocally(sigma.NewProverInstance(and, x, w), verifier))
		if !verifier.IsAccepting() {
			rejected++
		}
	}
	assert.GreaterOrEqual(t, rejected, 9)
}

func TestAndProtocolSimulation(t *testing.T) {
	and, x, _ := setupAnd(t)
	ch := and.GenerateChallenge(x)
	tr := and.GenerateSimulatedTranscript(x, ch)
	assert.True(t, sigma.IsAccepting(and, x, tr))
	assert.True(t, sigma.TranscriptCondition(and, x, tr).Holds())
}

func TestAndProtocolCompression(t *testing.T) {
	and, x, w := setupAnd(t)
	verifier := sigma.NewVerifierInstance(and, x)
	require.NoError(t, protocol.RunLocally(sigma.NewProverInstance(and, x, w), verifier))
	tr := verifier.Transcript()

	compressed := and.CompressTranscript(x, tr)
	decompressed, err := and.DecompressTranscript(x, tr.Challenge, compressed)
	require.NoError(t, err)
	assert.Equal(t, tr.Announcement.UniqueBytes(), decompressed.Announcement.UniqueBytes())
	assert.Equal(t, tr.Response.UniqueBytes(), decompressed.Response.UniqueBytes())

	_, err = and.DecompressTranscript(x, tr.Challenge, repr.List{compressed.(repr.List)[0]})
	_, ok := repr.AsDecodeError(err)
	assert.True(t, ok)

	bad := repr.List{compressed.(repr.List)[0], repr.Object{}}
	_, err = and.DecompressTranscript(x, tr.Challenge, bad)
	derr, ok := repr.AsDecodeError(err)
	require.True(t, ok)
	assert.Equal(t, "1.response", derr.Path)
}

func TestAndProtocolChallengeSpaces(t *testing.T) {
	small, ok := zkproof.BuildGroup(big.NewInt(47))
	require.True(t, ok)
	p, _, _ := setup(t)

	_, err := sigma.NewAndProtocol(p, schnorr.New(small))
	assert.Error(t, err)
	_, err = sigma.NewAndProtocol()
	assert.Error(t, err)
}

func TestAndProtocolMisuse(t *testing.T) {
	and, x, w := setupAnd(t)
	assert.Panics(t, func() { and.GenerateAnnouncementSecret(x[0], w) })
	assert.Panics(t, func() { and.GenerateAnnouncementSecret(x, w[:1]) })
}
