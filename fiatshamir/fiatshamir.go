// Package fiatshamir turns a Σ-protocol into a non-interactive proof system by deriving
// the challenge from a hash of the announcement instead of receiving it from a verifier.
package fiatshamir

import (
	"bytes"

	"github.com/privacybydesign/zkproto/hashing"
	"github.com/privacybydesign/zkproto/internal/common"
	"github.com/privacybydesign/zkproto/protocol"
	"github.com/privacybydesign/zkproto/repr"
	"github.com/privacybydesign/zkproto/sigma"
	"github.com/sirupsen/logrus"
)

// DefaultStatisticalSecurity is the number of hash output bits beyond the size of the
// challenge space, which makes the derived challenges statistically close to uniform.
const DefaultStatisticalSecurity = 128

const (
	transcriptField = "transcript"
	challengeField  = "challenge"
)

var Logger *logrus.Logger

func init() {
	Logger = logrus.StandardLogger()
}

type (
	// ProofSystem creates and checks non-interactive proofs for one Σ-protocol.
	ProofSystem struct {
		sigma       sigma.Protocol
		hash        hashing.Function
		statistical int
	}

	// Option configures a ProofSystem.
	Option func(*ProofSystem)

	// Proof is a non-interactive proof: a compressed transcript and the challenge it
	// was created for, from which the rest of the transcript can be recomputed.
	Proof struct {
		CompressedTranscript repr.Representation
		Challenge            sigma.Challenge
	}
)

// WithHash sets the hash function used to derive challenges. The proof system uses a
// copy of h with its output length fitted to the challenge space; h is not modified.
func WithHash(h hashing.Function) Option {
	return func(s *ProofSystem) {
		s.hash = h.Clone()
	}
}

// WithStatisticalSecurity sets the statistical security parameter, in bits.
func WithStatisticalSecurity(bits int) Option {
	return func(s *ProofSystem) {
		s.statistical = bits
	}
}

// NewProofSystem returns the non-interactive proof system for p. Unless configured
// otherwise it hashes with SHA-256.
func NewProofSystem(p sigma.Protocol, opts ...Option) *ProofSystem {
	s := &ProofSystem{sigma: p, statistical: DefaultStatisticalSecurity}
	for _, opt := range opts {
		opt(s)
	}
	if s.hash == nil {
		s.hash = hashing.NewSHA256()
	}
	if s.statistical < 0 {
		protocol.Misuse("negative statistical security parameter %d", s.statistical)
	}
	s.hash.SetOutputLength((p.ChallengeSpaceSize().BitLen() + s.statistical + 7) / 8)
	return s
}

func (s *ProofSystem) Protocol() sigma.Protocol {
	return s.sigma
}

func (s *ProofSystem) Hash() hashing.Function {
	return s.hash
}

func (s *ProofSystem) challenge(common protocol.CommonInput, ann sigma.Announcement, additionalData []byte) sigma.Challenge {
	digest := s.hash.Hash(hashInput(ann, additionalData))
	return s.sigma.CreateChallengeFromBytes(common, digest)
}

func hashInput(ann sigma.Announcement, additionalData []byte) []byte {
	return common.EncodeSequence(ann.UniqueBytes(), additionalData)
}

// CreateProof proves statement common with witness secret. The proof is bound to
// additionalData, which must be passed unchanged to CheckProof.
func (s *ProofSystem) CreateProof(common protocol.CommonInput, secret protocol.SecretInput, additionalData []byte) *Proof {
	as := s.sigma.GenerateAnnouncementSecret(common, secret)
	ann := s.sigma.GenerateAnnouncement(common, secret, as)
	ch := s.challenge(common, ann, additionalData)
	resp := s.sigma.GenerateResponse(common, secret, ann, as, ch)
	t := sigma.Transcript{Announcement: ann, Challenge: ch, Response: resp}
	return &Proof{
		CompressedTranscript: s.sigma.CompressTranscript(common, t),
		Challenge:            ch,
	}
}

// CheckProof reports whether proof is a valid proof of common bound to additionalData.
func (s *ProofSystem) CheckProof(common protocol.CommonInput, proof *Proof, additionalData []byte) bool {
	if proof == nil || proof.CompressedTranscript == nil || proof.Challenge == nil {
		return false
	}
	t, err := s.sigma.DecompressTranscript(common, proof.Challenge, proof.CompressedTranscript)
	if err != nil {
		Logger.Debugf("rejecting proof: %v", err)
		return false
	}
	expected := s.challenge(common, t.Announcement, additionalData)
	if !bytes.Equal(expected.UniqueBytes(), proof.Challenge.UniqueBytes()) {
		Logger.Debug("rejecting proof: challenge does not match announcement")
		return false
	}
	return sigma.IsAccepting(s.sigma, common, t)
}

// RecreateProof decodes a proof from its representation.
func (s *ProofSystem) RecreateProof(common protocol.CommonInput, r repr.Representation) (*Proof, error) {
	obj, err := repr.AsObject(r)
	if err != nil {
		return nil, err
	}
	if len(obj) != 2 {
		return nil, repr.NewDecodeError("proof has fields %v", obj.Names())
	}
	chRepr, err := obj.Field(challengeField)
	if err != nil {
		return nil, err
	}
	ch, err := s.sigma.RecreateChallenge(common, chRepr)
	if err != nil {
		return nil, repr.Prefix(challengeField, err)
	}
	transcript, err := obj.Field(transcriptField)
	if err != nil {
		return nil, err
	}
	return &Proof{CompressedTranscript: transcript, Challenge: ch}, nil
}

func (p *Proof) Representation() repr.Representation {
	return repr.Object{
		transcriptField: p.CompressedTranscript,
		challengeField:  p.Challenge.Representation(),
	}
}
