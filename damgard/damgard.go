// Package damgard applies Damgård's technique to Σ-protocols: the prover commits to its
// announcement and only reveals it together with the response, after the challenge has
// been fixed. The resulting protocol stays zero-knowledge when many runs are interleaved.
package damgard

import (
	"github.com/privacybydesign/zkproto/big"
	"github.com/privacybydesign/zkproto/commitment"
	"github.com/privacybydesign/zkproto/protocol"
	"github.com/privacybydesign/zkproto/repr"
	"github.com/privacybydesign/zkproto/sigma"
	"github.com/sirupsen/logrus"
)

const (
	announcementField = "announcement"
	openField         = "open"
	transcriptField   = "transcript"
	commitmentField   = "commitment"
	responseField     = "response"
)

var Logger *logrus.Logger

func init() {
	Logger = logrus.StandardLogger()
}

type (
	// Protocol is the Damgård transform of an inner Σ-protocol. Common and secret inputs
	// are those of the inner protocol, and so are its challenges.
	Protocol struct {
		inner  sigma.Protocol
		scheme commitment.Scheme
	}

	announcementSecret struct {
		inner        sigma.AnnouncementSecret
		announcement sigma.Announcement
		commitment   commitment.Commitment
		open         commitment.OpenValue
	}

	// Announcement is a commitment to the inner announcement.
	Announcement struct {
		Commitment commitment.Commitment
	}

	// Response reveals the inner announcement with the opening of its commitment. The
	// inner response travels as the compressed inner transcript, which is computed from
	// the exported fields whenever the response is serialized.
	Response struct {
		InnerAnnouncement sigma.Announcement
		Open              commitment.OpenValue
		InnerResponse     sigma.Response

		inner     sigma.Protocol
		common    protocol.CommonInput
		challenge sigma.Challenge
	}
)

func New(inner sigma.Protocol, scheme commitment.Scheme) *Protocol {
	return &Protocol{inner: inner, scheme: scheme}
}

func (p *Protocol) Inner() sigma.Protocol {
	return p.inner
}

func (p *Protocol) Scheme() commitment.Scheme {
	return p.scheme
}

func (p *Protocol) GenerateAnnouncementSecret(common protocol.CommonInput, secret protocol.SecretInput) sigma.AnnouncementSecret {
	inner := p.inner.GenerateAnnouncementSecret(common, secret)
	ann := p.inner.GenerateAnnouncement(common, secret, inner)
	c, o := p.scheme.Commit(ann.UniqueBytes())
	return &announcementSecret{inner: inner, announcement: ann, commitment: c, open: o}
}

func (p *Protocol) GenerateAnnouncement(_ protocol.CommonInput, _ protocol.SecretInput, as sigma.AnnouncementSecret) sigma.Announcement {
	return &Announcement{Commitment: as.(*announcementSecret).commitment}
}

func (p *Protocol) GenerateChallenge(common protocol.CommonInput) sigma.Challenge {
	return p.inner.GenerateChallenge(common)
}

func (p *Protocol) GenerateResponse(common protocol.CommonInput, secret protocol.SecretInput, _ sigma.Announcement, as sigma.AnnouncementSecret, ch sigma.Challenge) sigma.Response {
	s := as.(*announcementSecret)
	resp := p.inner.GenerateResponse(common, secret, s.announcement, s.inner, ch)
	return p.response(common, sigma.Transcript{Announcement: s.announcement, Challenge: ch, Response: resp}, s.open)
}

func (p *Protocol) response(common protocol.CommonInput, inner sigma.Transcript, open commitment.OpenValue) *Response {
	return &Response{
		InnerAnnouncement: inner.Announcement,
		Open:              open,
		InnerResponse:     inner.Response,
		inner:             p.inner,
		common:            common,
		challenge:         inner.Challenge,
	}
}

func (p *Protocol) TranscriptCondition(common protocol.CommonInput, t sigma.Transcript) sigma.Condition {
	ann, ok := t.Announcement.(*Announcement)
	if !ok {
		return sigma.False
	}
	resp, ok := t.Response.(*Response)
	if !ok {
		return sigma.False
	}
	opens := sigma.Lazy(func() bool {
		if !p.scheme.Verify(ann.Commitment, resp.Open, resp.InnerAnnouncement.UniqueBytes()) {
			Logger.Debug("commitment does not open to the revealed announcement")
			return false
		}
		return true
	})
	inner := sigma.TranscriptCondition(p.inner, common, sigma.Transcript{
		Announcement: resp.InnerAnnouncement,
		Challenge:    t.Challenge,
		Response:     resp.InnerResponse,
	})
	return sigma.And(opens, inner)
}

func (p *Protocol) CheckTranscript(common protocol.CommonInput, ann sigma.Announcement, ch sigma.Challenge, resp sigma.Response) bool {
	return p.TranscriptCondition(common, sigma.Transcript{Announcement: ann, Challenge: ch, Response: resp}).Holds()
}

// GenerateSimulatedTranscript simulates the inner protocol and commits honestly to the
// simulated announcement.
func (p *Protocol) GenerateSimulatedTranscript(common protocol.CommonInput, ch sigma.Challenge) sigma.Transcript {
	inner := p.inner.GenerateSimulatedTranscript(common, ch)
	c, o := p.scheme.Commit(inner.Announcement.UniqueBytes())
	return sigma.Transcript{
		Announcement: &Announcement{Commitment: c},
		Challenge:    ch,
		Response:     p.response(common, inner, o),
	}
}

func (p *Protocol) RecreateAnnouncement(_ protocol.CommonInput, r repr.Representation) (sigma.Announcement, error) {
	c, err := p.scheme.RecreateCommitment(r)
	if err != nil {
		return nil, err
	}
	return &Announcement{Commitment: c}, nil
}

func (p *Protocol) RecreateChallenge(common protocol.CommonInput, r repr.Representation) (sigma.Challenge, error) {
	return p.inner.RecreateChallenge(common, r)
}

// RecreateResponse decodes a response. The revealed inner announcement is checked
// against the commitment only by verification.
func (p *Protocol) RecreateResponse(common protocol.CommonInput, _ sigma.Announcement, ch sigma.Challenge, r repr.Representation) (sigma.Response, error) {
	obj, err := repr.AsObject(r)
	if err != nil {
		return nil, err
	}
	if len(obj) != 3 {
		return nil, repr.NewDecodeError("response has fields %v", obj.Names())
	}

	field, err := obj.Field(announcementField)
	if err != nil {
		return nil, err
	}
	ann, err := p.inner.RecreateAnnouncement(common, field)
	if err != nil {
		return nil, repr.Prefix(announcementField, err)
	}

	if field, err = obj.Field(openField); err != nil {
		return nil, err
	}
	open, err := p.scheme.RecreateOpenValue(field)
	if err != nil {
		return nil, repr.Prefix(openField, err)
	}

	if field, err = obj.Field(transcriptField); err != nil {
		return nil, err
	}
	inner, err := p.inner.DecompressTranscript(common, ch, field)
	if err != nil {
		return nil, repr.Prefix(transcriptField, err)
	}

	return p.response(common, sigma.Transcript{Announcement: ann, Challenge: ch, Response: inner.Response}, open), nil
}

func (p *Protocol) CreateChallengeFromBytes(common protocol.CommonInput, b []byte) sigma.Challenge {
	return p.inner.CreateChallengeFromBytes(common, b)
}

func (p *Protocol) ChallengeSpaceSize() *big.Int {
	return p.inner.ChallengeSpaceSize()
}

func (p *Protocol) CompressTranscript(_ protocol.CommonInput, t sigma.Transcript) repr.Representation {
	return repr.Object{
		commitmentField: t.Announcement.Representation(),
		responseField:   t.Response.Representation(),
	}
}

func (p *Protocol) DecompressTranscript(common protocol.CommonInput, ch sigma.Challenge, r repr.Representation) (sigma.Transcript, error) {
	obj, err := repr.AsObject(r)
	if err != nil {
		return sigma.Transcript{}, err
	}
	field, err := obj.Field(commitmentField)
	if err != nil {
		return sigma.Transcript{}, err
	}
	ann, err := p.RecreateAnnouncement(common, field)
	if err != nil {
		return sigma.Transcript{}, repr.Prefix(commitmentField, err)
	}
	if field, err = obj.Field(responseField); err != nil {
		return sigma.Transcript{}, err
	}
	resp, err := p.RecreateResponse(common, ann, ch, field)
	if err != nil {
		return sigma.Transcript{}, repr.Prefix(responseField, err)
	}
	return sigma.Transcript{Announcement: ann, Challenge: ch, Response: resp}, nil
}

func (a *Announcement) Representation() repr.Representation {
	return a.Commitment.Representation()
}

func (a *Announcement) UniqueBytes() []byte {
	return a.Commitment.UniqueBytes()
}

func (r *Response) Representation() repr.Representation {
	return repr.Object{
		announcementField: r.InnerAnnouncement.Representation(),
		openField:         r.Open.Representation(),
		transcriptField: r.inner.CompressTranscript(r.common, sigma.Transcript{
			Announcement: r.InnerAnnouncement,
			Challenge:    r.challenge,
			Response:     r.InnerResponse,
		}),
	}
}

func (r *Response) UniqueBytes() []byte {
	return sigma.UniqueBytesOf(r.InnerAnnouncement.UniqueBytes(), r.Open.UniqueBytes(), r.InnerResponse.UniqueBytes())
}
