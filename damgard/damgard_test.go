package damgard_test

import (
	"testing"

	"github.com/privacybydesign/zkproto/big"
	"github.com/privacybydesign/zkproto/commitment"
	"github.com/privacybydesign/zkproto/damgard"
	"github.com/privacybydesign/zkproto/fiatshamir"
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
	damgard.Logger.SetLevel(logrus.FatalLevel)
}

func setup(t *testing.T) (*damgard.Protocol, *schnorr.Statement, schnorr.Witness) {
	g, ok := zkproof.BuildGroup(big.NewInt(26903))
	require.True(t, ok)
	y := new(big.Int).Exp(g.G, big.NewInt(5), g.P)
	p := damgard.New(schnorr.New(g), commitment.NewPedersen(g))
	return p, schnorr.DiscreteLog(y), schnorr.DiscreteLogWitness(big.NewInt(5))
}

func run(t *testing.T, p sigma.Protocol, x protocol.CommonInput, w protocol.SecretInput) *sigma.VerifierInstance {
	verifier := sigma.NewVerifierInstance(p, x)
	require.NoError(t, protocol.RunLocally(sigma.NewProverInstance(p, x, w), verifier))
	return verifier
}

func TestDamgard(t *testing.T) {
	p, x, w := setup(t)
	verifier := run(t, p, x, w)
	assert.True(t, verifier.IsAccepting())

	tr := verifier.Transcript()
	ann := tr.Announcement.(*damgard.Announcement)
	resp := tr.Response.(*damgard.Response)
	assert.True(t, p.Scheme().Verify(ann.Commitment, resp.Open, resp.InnerAnnouncement.UniqueBytes()))
	assert.True(t, sigma.IsAccepting(p.Inner(), x, sigma.Transcript{
		Announcement: resp.InnerAnnouncement,
		Challenge:    tr.Challenge,
		Response:     resp.InnerResponse,
	}))
}

func TestDamgardWrongWitness(t *testing.T) {
	p, x, _ := setup(t)
	rejected := 0
	for i := 0; i < 10; i++ {
		if !run(t, p, x, schnorr.DiscreteLogWitness(big.NewInt(6))).IsAccepting() {
			rejected++
		}
	}
	assert.GreaterOrEqual(t, rejected, 9)
}

func TestDamgardTamperedAnnouncement(t *testing.T) {
	p, x, w := setup(t)
	tr := run(t, p, x, w).Transcript()
	resp := tr.Response.(*damgard.Response)

	// An accepting inner transcript for the same challenge, but not the committed one.
	sim := p.Inner().GenerateSimulatedTranscript(x, tr.Challenge)
	require.True(t, sigma.IsAccepting(p.Inner(), x, sim))

	tampered := *resp
	tampered.InnerAnnouncement = sim.Announcement
	tampered.InnerResponse = sim.Response
	assert.False(t, p.CheckTranscript(x, tr.Announcement, tr.Challenge, &tampered))

	tampered = *resp
	tampered.InnerAnnouncement = sim.Announcement
	assert.False(t, p.CheckTranscript(x, tr.Announcement, tr.Challenge, &tampered))
}

func TestDamgardResponseSerializesFields(t *testing.T) {
	p, x, w := setup(t)
	tr := run(t, p, x, w).Transcript()
	resp := tr.Response.(*damgard.Response)

	sim := p.Inner().GenerateSimulatedTranscript(x, tr.Challenge)
	tampered := *resp
	tampered.InnerAnnouncement = sim.Announcement
	tampered.InnerResponse = sim.Response

	// what goes on the wire is what the fields say
	decoded, err := p.RecreateResponse(x, tr.Announcement, tr.Challenge, tampered.Representation())
	require.NoError(t, err)
	assert.Equal(t, tampered.UniqueBytes(), decoded.UniqueBytes())
	assert.Equal(t, sim.Response.UniqueBytes(), decoded.(*damgard.Response).InnerResponse.UniqueBytes())
	assert.False(t, p.CheckTranscript(x, tr.Announcement, tr.Challenge, decoded))
}

func TestDamgardTamperedOpening(t *testing.T) {
	p, x, w := setup(t)
	tr := run(t, p, x, w).Transcript()
	resp := tr.Response.(*damgard.Response)

	_, other := p.Scheme().Commit([]byte("unrelated"))
	if other.(*commitment.PedersenOpening).R.Cmp(resp.Open.(*commitment.PedersenOpening).R) == 0 {
		t.Skip("drew the same hider twice")
	}
	tampered := *resp
	tampered.Open = other
	assert.False(t, p.CheckTranscript(x, tr.Announcement, tr.Challenge, &tampered))
}

func TestDamgardSimulation(t *testing.T) {
	p, x, _ := setup(t)
	tr := p.GenerateSimulatedTranscript(x, p.GenerateChallenge(x))
	assert.True(t, sigma.IsAccepting(p, x, tr))
}

func TestDamgardRoundTrip(t *testing.T) {
	p, x, w := setup(t)
	tr := run(t, p, x, w).Transcript()

	decode := func(r repr.Representation) repr.Representation {
		data, err := repr.Marshal(r)
		require.NoError(t, err)
		tree, err := repr.Unmarshal(data)
		require.NoError(t, err)
		return tree
	}

	ann, err := p.RecreateAnnouncement(x, decode(tr.Announcement.Representation()))
	require.NoError(t, err)
	ch, err := p.RecreateChallenge(x, decode(tr.Challenge.Representation()))
	require.NoError(t, err)
	resp, err := p.RecreateResponse(x, ann, ch, decode(tr.Response.Representation()))
	require.NoError(t, err)
	assert.Equal(t, tr.Response.UniqueBytes(), resp.UniqueBytes())
	assert.True(t, p.CheckTranscript(x, ann, ch, resp))

	compressed := decode(p.CompressTranscript(x, tr))
	decompressed, err := p.DecompressTranscript(x, tr.Challenge, compressed)
	require.NoError(t, err)
	assert.True(t, sigma.IsAccepting(p, x, decompressed))
	assert.Equal(t, tr.Announcement.UniqueBytes(), decompressed.Announcement.UniqueBytes())
}

func TestDamgardMalformedResponse(t *testing.T) {
	p, x, w := setup(t)
	tr := run(t, p, x, w).Transcript()
	obj := tr.Response.Representation().(repr.Object)

	for field, path := range map[string]string{
		"announcement": "announcement",
		"open":         "open",
		"transcript":   "transcript.response",
	} {
		broken := repr.Object{}
		for k, v := range obj {
			broken[k] = v
		}
		if field == "open" {
			broken[field] = repr.String("x")
		} else {
			broken[field] = repr.Object{}
		}
		_, err := p.RecreateResponse(x, tr.Announcement, tr.Challenge, broken)
		derr, ok := repr.AsDecodeError(err)
		require.True(t, ok, field)
		assert.Equal(t, path, derr.Path, field)
	}

	delete(obj, "open")
	_, err := p.RecreateResponse(x, tr.Announcement, tr.Challenge, obj)
	_, ok := repr.AsDecodeError(err)
	assert.True(t, ok)
}

func TestDamgardFiatShamir(t *testing.T) {
	p, x, w := setup(t)
	s := fiatshamir.NewProofSystem(p)
	proof := s.CreateProof(x, w, []byte("damgard"))
	assert.True(t, s.CheckProof(x, proof, []byte("damgard")))
	assert.False(t, s.CheckProof(x, proof, []byte("other")))
}

func TestDamgardConcurrent(t *testing.T) {
	p, x, w := setup(t)
	cp := sigma.ConcurrentProofs(map[string]sigma.Protocol{"first": p, "second": p})
	statements := sigma.Statements{"first": x, "second": x}

	prover, err := cp.Instantiate(sigma.ProverRole, statements, sigma.Witnesses{"first": w, "second": w})
	require.NoError(t, err)
	verifier, err := cp.Instantiate(sigma.VerifierRole, statements, nil)
	require.NoError(t, err)
	require.NoError(t, protocol.RunLocally(prover, verifier))

	verdict, err := sigma.Verdict(verifier)
	require.NoError(t, err)
	assert.True(t, verdict)
}
