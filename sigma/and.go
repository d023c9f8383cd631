package sigma

import (
	"strconv"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkproto/big"
	"github.com/privacybydesign/zkproto/protocol"
	"github.com/privacybydesign/zkproto/repr"
)

type (
	// AndProtocol proves all of its parts for a single shared challenge. Its common and
	// secret inputs are protocol.CommonInputVector and protocol.SecretInputVector holding
	// one entry per part.
	AndProtocol struct {
		parts []Protocol
	}

	andAnnouncement []Announcement
	andResponse     []Response
	andSecret       []AnnouncementSecret
)

// NewAndProtocol returns the conjunction of parts, which must share their challenge space.
func NewAndProtocol(parts ...Protocol) (*AndProtocol, error) {
	if len(parts) == 0 {
		return nil, errors.New("conjunction of zero protocols")
	}
	size := parts[0].ChallengeSpaceSize()
	for i, p := range parts[1:] {
		if p.ChallengeSpaceSize().Cmp(size) != 0 {
			return nil, errors.Errorf("part %d has challenge space %s, expected %s", i+1, p.ChallengeSpaceSize(), size)
		}
	}
	return &AndProtocol{parts: parts}, nil
}

func (a *AndProtocol) Parts() []Protocol {
	return a.parts
}

func (a *AndProtocol) commons(common protocol.CommonInput) protocol.CommonInputVector {
	v, ok := common.(protocol.CommonInputVector)
	if !ok || len(v) != len(a.parts) {
		protocol.Misuse("conjunction of %d protocols needs a common input vector of that length, got %T", len(a.parts), common)
	}
	return v
}

func (a *AndProtocol) secrets(secret protocol.SecretInput) protocol.SecretInputVector {
	v, ok := secret.(protocol.SecretInputVector)
	if !ok || len(v) != len(a.parts) {
		protocol.Misuse("conjunction of %d protocols needs a secret input vector of that length, got %T", len(a.parts), secret)
	}
	return v
}

func (a *AndProtocol) GenerateAnnouncementSecret(common protocol.CommonInput, secret protocol.SecretInput) AnnouncementSecret {
	cv, sv := a.commons(common), a.secrets(secret)
	as := make(andSecret, len(a.parts))
	for i, p := range a.parts {
		as[i] = p.GenerateAnnouncementSecret(cv[i], sv[i])
	}
	return as
}

func (a *AndProtocol) GenerateAnnouncement(common protocol.CommonInput, secret protocol.SecretInput, as AnnouncementSecret) Announcement {
	cv, sv := a.commons(common), a.secrets(secret)
	secrets := as.(andSecret)
	ann := make(andAnnouncement, len(a.parts))
	for i, p := range a.parts {
		ann[i] = p.GenerateAnnouncement(cv[i], sv[i], secrets[i])
	}
	return ann
}

func (a *AndProtocol) GenerateChallenge(common protocol.CommonInput) Challenge {
	return a.parts[0].GenerateChallenge(a.commons(common)[0])
}

func (a *AndProtocol) GenerateResponse(common protocol.CommonInput, secret protocol.SecretInput, ann Announcement, as AnnouncementSecret, ch Challenge) Response {
	cv, sv := a.commons(common), a.secrets(secret)
	anns, secrets := ann.(andAnnouncement), as.(andSecret)
	resp := make(andResponse, len(a.parts))
	for i, p := range a.parts {
		resp[i] = p.GenerateResponse(cv[i], sv[i], anns[i], secrets[i], ch)
	}
	return resp
}

func (a *AndProtocol) TranscriptCondition(common protocol.CommonInput, t Transcript) Condition {
	cv := a.commons(common)
	anns, ok := t.Announcement.(andAnnouncement)
	if !ok || len(anns) != len(a.parts) {
		return False
	}
	resps, ok := t.Response.(andResponse)
	if !ok || len(resps) != len(a.parts) {
		return False
	}
	conditions := make([]Condition, len(a.parts))
	for i, p := range a.parts {
		conditions[i] = TranscriptCondition(p, cv[i], Transcript{Announcement: anns[i], Challenge: t.Challenge, Response: resps[i]})
	}
	return And(conditions...)
}

func (a *AndProtocol) CheckTranscript(common protocol.CommonInput, ann Announcement, ch Challenge, resp Response) bool {
	return a.TranscriptCondition(common, Transcript{Announcement: ann, Challenge: ch, Response: resp}).Holds()
}

func (a *AndProtocol) GenerateSimulatedTranscript(common protocol.CommonInput, ch Challenge) Transcript {
	cv := a.commons(common)
	anns := make(andAnnouncement, len(a.parts))
	resps := make(andResponse, len(a.parts))
	for i, p := range a.parts {
		t := p.GenerateSimulatedTranscript(cv[i], ch)
		anns[i], resps[i] = t.Announcement, t.Response
	}
	return Transcript{Announcement: anns, Challenge: ch, Response: resps}
}

func (a *AndProtocol) list(r repr.Representation) (repr.List, error) {
	l, err := repr.AsList(r)
	if err != nil {
		return nil, err
	}
	if len(l) != len(a.parts) {
		return nil, repr.NewDecodeError("expected %d parts, got %d", len(a.parts), len(l))
	}
	return l, nil
}

func (a *AndProtocol) RecreateAnnouncement(common protocol.CommonInput, r repr.Representation) (Announcement, error) {
	cv := a.commons(common)
	l, err := a.list(r)
	if err != nil {
		return nil, err
	}
	ann := make(andAnnouncement, len(a.parts))
	for i, p := range a.parts {
		if ann[i], err = p.RecreateAnnouncement(cv[i], l[i]); err != nil {
			return nil, repr.Prefix(strconv.Itoa(i), err)
		}
	}
	return ann, nil
}

func (a *AndProtocol) RecreateChallenge(common protocol.CommonInput, r repr.Representation) (Challenge, error) {
	return a.parts[0].RecreateChallenge(a.commons(common)[0], r)
}

func (a *AndProtocol) RecreateResponse(common protocol.CommonInput, ann Announcement, ch Challenge, r repr.Representation) (Response, error) {
	cv := a.commons(common)
	anns, ok := ann.(andAnnouncement)
	if !ok {
		protocol.Misuse("conjunction response needs a conjunction announcement, got %T", ann)
	}
	l, err := a.list(r)
	if err != nil {
		return nil, err
	}
	resp := make(andResponse, len(a.parts))
	for i, p := range a.parts {
		if resp[i], err = p.RecreateResponse(cv[i], anns[i], ch, l[i]); err != nil {
			return nil, repr.Prefix(strconv.Itoa(i), err)
		}
	}
	return resp, nil
}

func (a *AndProtocol) CreateChallengeFromBytes(common protocol.CommonInput, b []byte) Challenge {
	return a.parts[0].CreateChallengeFromBytes(a.commons(common)[0], b)
}

func (a *AndProtocol) ChallengeSpaceSize() *big.Int {
	return a.parts[0].ChallengeSpaceSize()
}

func (a *AndProtocol) CompressTranscript(common protocol.CommonInput, t Transcript) repr.Representation {
	cv := a.commons(common)
	anns, resps := t.Announcement.(andAnnouncement), t.Response.(andResponse)
	l := make(repr.List, len(a.parts))
	for i, p := range a.parts {
		l[i] = p.CompressTranscript(cv[i], Transcript{Announcement: anns[i], Challenge: t.Challenge, Response: resps[i]})
	}
	return l
}

func (a *AndProtocol) DecompressTranscript(common protocol.CommonInput, ch Challenge, r repr.Representation) (Transcript, error) {
	cv := a.commons(common)
	l, err := a.list(r)
	if err != nil {
		return Transcript{}, err
	}
	anns := make(andAnnouncement, len(a.parts))
	resps := make(andResponse, len(a.parts))
	for i, p := range a.parts {
		t, err := p.DecompressTranscript(cv[i], ch, l[i])
		if err != nil {
			return Transcript{}, repr.Prefix(strconv.Itoa(i), err)
		}
		anns[i], resps[i] = t.Announcement, t.Response
	}
	return Transcript{Announcement: anns, Challenge: ch, Response: resps}, nil
}

func (a andAnnouncement) Representation() repr.Representation {
	l := make(repr.List, len(a))
	for i, ann := range a {
		l[i] = ann.Representation()
	}
	return l
}

func (a andAnnouncement) UniqueBytes() []byte {
	parts := make([][]byte, len(a))
	for i, ann := range a {
		parts[i] = ann.UniqueBytes()
	}
	return UniqueBytesOf(parts...)
}

func (r andResponse) Representation() repr.Representation {
	l := make(repr.List, len(r))
	for i, resp := range r {
		l[i] = resp.Representation()
	}
	return l
}

func (r andResponse) UniqueBytes() []byte {
	parts := make([][]byte, len(r))
	for i, resp := range r {
		parts[i] = resp.UniqueBytes()
	}
	return UniqueBytesOf(parts...)
}
