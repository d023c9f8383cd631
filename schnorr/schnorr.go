// Package schnorr implements the Σ-protocol for representation statements
//  Π lhs_i^a_i = Π base_j^(b_j·secret_j)
// in a prime order subgroup of Z_P^*, of which proving knowledge of a discrete logarithm
// is the simplest case. Responses are computed as s = r - c·w (mod q), which lets the
// verifier recompute the announcement from challenge and response; compressed transcripts
// therefore consist of the response only.
package schnorr

import (
	"io"
	"sort"

	"github.com/privacybydesign/zkproto/big"
	"github.com/privacybydesign/zkproto/internal/common"
	"github.com/privacybydesign/zkproto/protocol"
	"github.com/privacybydesign/zkproto/repr"
	"github.com/privacybydesign/zkproto/sigma"
	"github.com/privacybydesign/zkproto/zkproof"
)

type (
	// Statement is the common input: a representation proof structure together with
	// the public group elements it refers to besides the generators "g" and "h".
	Statement struct {
		Structure zkproof.RepresentationProofStructure
		Bases     zkproof.NamedBases
	}

	// Witness is the secret input: the value of every secret named in the statement.
	Witness map[string]*big.Int

	// Protocol is the Σ-protocol for Statements over one group.
	Protocol struct {
		group      *zkproof.Group
		randomness io.Reader
	}

	Option func(*Protocol)

	Announcement struct {
		Commitment *big.Int
		group      *zkproof.Group
	}

	Challenge struct {
		C     *big.Int
		group *zkproof.Group
	}

	// Response holds s = r - c·w (mod q) for each secret.
	Response struct {
		Results zkproof.Results
		group   *zkproof.Group
	}

	randomizers map[string]*big.Int
)

const (
	commitmentField = "commitment"
	responseField   = "response"
)

// WithRandomness makes the protocol draw its randomizers and challenges from rnd instead
// of the global CPRNG.
func WithRandomness(rnd io.Reader) Option {
	return func(p *Protocol) {
		p.randomness = rnd
	}
}

func New(group *zkproof.Group, opts ...Option) *Protocol {
	p := &Protocol{group: group}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DiscreteLog returns the statement y = g^w, with secret "w".
func DiscreteLog(y *big.Int) *Statement {
	return &Statement{
		Structure: zkproof.RepresentationProofStructure{
			Lhs: []zkproof.LhsContribution{{Base: "y", Power: big.NewInt(1)}},
			Rhs: []zkproof.RhsContribution{{Base: "g", Secret: "w", Power: 1}},
		},
		Bases: zkproof.NamedBases{"y": y},
	}
}

// DiscreteLogWitness returns the witness of a DiscreteLog statement.
func DiscreteLogWitness(w *big.Int) Witness {
	return Witness{"w": w}
}

func (p *Protocol) Group() *zkproof.Group {
	return p.group
}

func (p *Protocol) random(limit *big.Int) *big.Int {
	r, err := common.RandomBigInt(p.randomness, limit)
	if err != nil {
		panic(err)
	}
	return r
}

func (p *Protocol) statement(common protocol.CommonInput) *Statement {
	s, ok := common.(*Statement)
	if !ok {
		protocol.Misuse("schnorr common input must be *Statement, got %T", common)
	}
	return s
}

func (p *Protocol) witness(secret protocol.SecretInput) Witness {
	w, ok := secret.(Witness)
	if !ok {
		protocol.Misuse("schnorr secret input must be Witness, got %T", secret)
	}
	return w
}

func (p *Protocol) bases(s *Statement) *zkproof.BaseMerge {
	bases := zkproof.NewBaseMerge(p.group, s.Bases)
	return &bases
}

func (p *Protocol) GenerateAnnouncementSecret(common protocol.CommonInput, _ protocol.SecretInput) sigma.AnnouncementSecret {
	s := p.statement(common)
	r := make(randomizers)
	for _, name := range s.Structure.SecretNames() {
		r[name] = p.random(p.group.Order)
	}
	return r
}

func (p *Protocol) GenerateAnnouncement(common protocol.CommonInput, secret protocol.SecretInput, as sigma.AnnouncementSecret) sigma.Announcement {
	s := p.statement(common)
	secrets := &zkproof.Secrets{Values: p.witness(secret), Randomizers: as.(randomizers)}
	commitment := s.Structure.CommitmentsFromSecrets(p.group, nil, p.bases(s), secrets)[0]
	return &Announcement{Commitment: commitment, group: p.group}
}

func (p *Protocol) GenerateChallenge(_ protocol.CommonInput) sigma.Challenge {
	return &Challenge{C: p.random(p.group.Order), group: p.group}
}

func (p *Protocol) GenerateResponse(common protocol.CommonInput, secret protocol.SecretInput, _ sigma.Announcement, as sigma.AnnouncementSecret, ch sigma.Challenge) sigma.Response {
	s := p.statement(common)
	w := p.witness(secret)
	r := as.(randomizers)
	c := ch.(*Challenge).C

	results := make(zkproof.Results)
	var tmp big.Int
	for _, name := range s.Structure.SecretNames() {
		value, ok := w[name]
		if !ok {
			protocol.Misuse("witness lacks secret %s", name)
		}
		tmp.Mul(c, value)
		tmp.Sub(r[name], &tmp)
		results[name] = new(big.Int).Mod(&tmp, p.group.Order)
	}
	return &Response{Results: results, group: p.group}
}

// recompute returns the announcement that makes (announcement, c, results) accepting.
func (p *Protocol) recompute(s *Statement, c *big.Int, results zkproof.Results) *big.Int {
	return s.Structure.CommitmentsFromProof(p.group, nil, c, p.bases(s), results)[0]
}

func (p *Protocol) CheckTranscript(common protocol.CommonInput, ann sigma.Announcement, ch sigma.Challenge, resp sigma.Response) bool {
	s := p.statement(common)
	a, ok := ann.(*Announcement)
	if !ok {
		return false
	}
	c, ok := ch.(*Challenge)
	if !ok {
		return false
	}
	r, ok := resp.(*Response)
	if !ok {
		return false
	}
	for _, name := range s.Structure.SecretNames() {
		if r.Results[name] == nil {
			return false
		}
	}
	return p.recompute(s, c.C, r.Results).Cmp(a.Commitment) == 0
}

func (p *Protocol) GenerateSimulatedTranscript(common protocol.CommonInput, ch sigma.Challenge) sigma.Transcript {
	s := p.statement(common)
	results := make(zkproof.Results)
	for _, name := range s.Structure.SecretNames() {
		results[name] = p.random(p.group.Order)
	}
	return sigma.Transcript{
		Announcement: &Announcement{Commitment: p.recompute(s, ch.(*Challenge).C, results), group: p.group},
		Challenge:    ch,
		Response:     &Response{Results: results, group: p.group},
	}
}

// element decodes an integer that must lie in [lower, bound).
func element(r repr.Representation, lower int64, bound *big.Int) (*big.Int, error) {
	x, err := repr.AsInt(r)
	if err != nil {
		return nil, err
	}
	if x.Cmp(big.NewInt(lower)) < 0 || x.Cmp(bound) >= 0 {
		return nil, repr.NewDecodeError("value %s out of range [%d, %s)", x, lower, bound)
	}
	return x, nil
}

func (p *Protocol) RecreateAnnouncement(_ protocol.CommonInput, r repr.Representation) (sigma.Announcement, error) {
	obj, err := repr.AsObject(r)
	if err != nil {
		return nil, err
	}
	if len(obj) != 1 {
		return nil, repr.NewDecodeError("announcement has fields %v", obj.Names())
	}
	field, err := obj.Field(commitmentField)
	if err != nil {
		return nil, err
	}
	commitment, err := element(field, 1, p.group.P)
	if err != nil {
		return nil, repr.Prefix(commitmentField, err)
	}
	return &Announcement{Commitment: commitment, group: p.group}, nil
}

func (p *Protocol) RecreateChallenge(_ protocol.CommonInput, r repr.Representation) (sigma.Challenge, error) {
	c, err := element(r, 0, p.group.Order)
	if err != nil {
		return nil, err
	}
	return &Challenge{C: c, group: p.group}, nil
}

func (p *Protocol) RecreateResponse(common protocol.CommonInput, _ sigma.Announcement, _ sigma.Challenge, r repr.Representation) (sigma.Response, error) {
	s := p.statement(common)
	obj, err := repr.AsObject(r)
	if err != nil {
		return nil, err
	}
	names := s.Structure.SecretNames()
	if len(obj) != len(names) {
		return nil, repr.NewDecodeError("response has fields %v, expected %v", obj.Names(), names)
	}
	results := make(zkproof.Results, len(names))
	for _, name := range names {
		field, err := obj.Field(name)
		if err != nil {
			return nil, err
		}
		if results[name], err = element(field, 0, p.group.Order); err != nil {
			return nil, repr.Prefix(name, err)
		}
	}
	return &Response{Results: results, group: p.group}, nil
}

func (p *Protocol) CreateChallengeFromBytes(_ protocol.CommonInput, b []byte) sigma.Challenge {
	return &Challenge{C: common.HashToExponent(b, p.group.Order), group: p.group}
}

func (p *Protocol) ChallengeSpaceSize() *big.Int {
	return new(big.Int).Set(p.group.Order)
}

func (p *Protocol) CompressTranscript(_ protocol.CommonInput, t sigma.Transcript) repr.Representation {
	return repr.Object{responseField: t.Response.Representation()}
}

func (p *Protocol) DecompressTranscript(common protocol.CommonInput, ch sigma.Challenge, r repr.Representation) (sigma.Transcript, error) {
	s := p.statement(common)
	obj, err := repr.AsObject(r)
	if err != nil {
		return sigma.Transcript{}, err
	}
	field, err := obj.Field(responseField)
	if err != nil {
		return sigma.Transcript{}, err
	}
	resp, err := p.RecreateResponse(common, nil, ch, field)
	if err != nil {
		return sigma.Transcript{}, repr.Prefix(responseField, err)
	}
	return sigma.Transcript{
		Announcement: &Announcement{Commitment: p.recompute(s, ch.(*Challenge).C, resp.(*Response).Results), group: p.group},
		Challenge:    ch,
		Response:     resp,
	}, nil
}

func (a *Announcement) Representation() repr.Representation {
	return repr.Object{commitmentField: repr.NewInt(a.Commitment)}
}

func (a *Announcement) UniqueBytes() []byte {
	return a.Commitment.FillBytes(a.group.ElementLen())
}

func (c *Challenge) Representation() repr.Representation {
	return repr.NewInt(c.C)
}

func (c *Challenge) UniqueBytes() []byte {
	return c.C.FillBytes(c.group.ExponentLen())
}

func (r *Response) Representation() repr.Representation {
	obj := make(repr.Object, len(r.Results))
	for name, value := range r.Results {
		obj[name] = repr.NewInt(value)
	}
	return obj
}

func (r *Response) UniqueBytes() []byte {
	names := make([]string, 0, len(r.Results))
	for name := range r.Results {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([][]byte, 0, 2*len(names))
	for _, name := range names {
		parts = append(parts, []byte(name), r.Results[name].FillBytes(r.group.ExponentLen()))
	}
	return sigma.UniqueBytesOf(parts...)
}
