package sigma

import (
	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkproto/protocol"
)

const (
	ProverRole   protocol.Role = "prover"
	VerifierRole protocol.Role = "verifier"
)

type (
	// ProverState is the position of a ProverInstance in the protocol run.
	ProverState int
	// VerifierState is the position of a VerifierInstance in the protocol run.
	VerifierState int

	// TwoPartyProtocol runs a Σ-protocol as a two-party protocol in which the prover
	// speaks first.
	TwoPartyProtocol struct {
		sigma Protocol
	}

	// ProverInstance announces, then answers the challenge it receives.
	ProverInstance struct {
		protocol *TwoPartyProtocol
		common   protocol.CommonInput
		secret   protocol.SecretInput
		state    ProverState

		announcementSecret AnnouncementSecret
		announcement       Announcement
	}

	// VerifierInstance sends a challenge for the announcement and checks the response.
	VerifierInstance struct {
		protocol *TwoPartyProtocol
		common   protocol.CommonInput
		state    VerifierState

		announcement Announcement
		challenge    Challenge
		response     Response
	}
)

const (
	ProverNothing ProverState = iota
	ProverSentAnnouncement
	ProverSentResponse
)

const (
	VerifierNothing VerifierState = iota
	VerifierSentChallenge
	VerifierReceivedResponse
)

func (s ProverState) String() string {
	switch s {
	case ProverNothing:
		return "nothing"
	case ProverSentAnnouncement:
		return "sent announcement"
	case ProverSentResponse:
		return "sent response"
	}
	return "invalid"
}

func (s VerifierState) String() string {
	switch s {
	case VerifierNothing:
		return "nothing"
	case VerifierSentChallenge:
		return "sent challenge"
	case VerifierReceivedResponse:
		return "received response"
	}
	return "invalid"
}

// TwoParty returns p as a two-party protocol with roles ProverRole and VerifierRole.
func TwoParty(p Protocol) *TwoPartyProtocol {
	return &TwoPartyProtocol{sigma: p}
}

// Sigma returns the underlying Σ-protocol.
func (t *TwoPartyProtocol) Sigma() Protocol {
	return t.sigma
}

func (t *TwoPartyProtocol) Roles() []protocol.Role {
	return []protocol.Role{ProverRole, VerifierRole}
}

func (t *TwoPartyProtocol) FirstMessageRole() protocol.Role {
	return ProverRole
}

func (t *TwoPartyProtocol) Instantiate(role protocol.Role, common protocol.CommonInput, secret protocol.SecretInput) (protocol.Instance, error) {
	switch role {
	case ProverRole:
		return &ProverInstance{protocol: t, common: common, secret: secret}, nil
	case VerifierRole:
		return &VerifierInstance{protocol: t, common: common}, nil
	}
	return nil, errors.Errorf("unknown role %s", role)
}

// NewProverInstance returns a prover for statement common with witness secret.
func NewProverInstance(p Protocol, common protocol.CommonInput, secret protocol.SecretInput) *ProverInstance {
	return &ProverInstance{protocol: TwoParty(p), common: common, secret: secret}
}

// NewVerifierInstance returns a verifier for statement common.
func NewVerifierInstance(p Protocol, common protocol.CommonInput) *VerifierInstance {
	return &VerifierInstance{protocol: TwoParty(p), common: common}
}

func (i *ProverInstance) Protocol() protocol.Protocol { return i.protocol }
func (i *ProverInstance) Role() protocol.Role         { return ProverRole }
func (i *ProverInstance) SendsFirstMessage() bool     { return true }
func (i *ProverInstance) HasTerminated() bool         { return i.state == ProverSentResponse }
func (i *ProverInstance) State() ProverState          { return i.state }

func (i *ProverInstance) NextMessage(received protocol.Message) (protocol.Message, error) {
	p := i.protocol.sigma
	switch i.state {
	case ProverNothing:
		if received.Present() {
			protocol.Misuse("prover cannot receive a message before sending its announcement")
		}
		i.announcementSecret = p.GenerateAnnouncementSecret(i.common, i.secret)
		i.announcement = p.GenerateAnnouncement(i.common, i.secret, i.announcementSecret)
		i.transition(ProverSentAnnouncement)
		return protocol.Some(i.announcement.Representation()), nil

	case ProverSentAnnouncement:
		if !received.Present() {
			return protocol.None, protocol.MissingMessage(string(ProverRole), "challenge")
		}
		ch, err := p.RecreateChallenge(i.common, received.Payload())
		if err != nil {
			return protocol.None, err
		}
		resp := p.GenerateResponse(i.common, i.secret, i.announcement, i.announcementSecret, ch)
		i.announcementSecret = nil
		i.transition(ProverSentResponse)
		return protocol.Some(resp.Representation()), nil
	}
	return protocol.None, nil
}

func (i *ProverInstance) transition(to ProverState) {
	Logger.Tracef("prover: %s -> %s", i.state, to)
	i.state = to
}

func (i *VerifierInstance) Protocol() protocol.Protocol { return i.protocol }
func (i *VerifierInstance) Role() protocol.Role         { return VerifierRole }
func (i *VerifierInstance) SendsFirstMessage() bool     { return false }
func (i *VerifierInstance) HasTerminated() bool         { return i.state == VerifierReceivedResponse }
func (i *VerifierInstance) State() VerifierState        { return i.state }

func (i *VerifierInstance) NextMessage(received protocol.Message) (protocol.Message, error) {
	p := i.protocol.sigma
	switch i.state {
	case VerifierNothing:
		if !received.Present() {
			protocol.Misuse("verifier cannot speak before receiving an announcement")
		}
		ann, err := p.RecreateAnnouncement(i.common, received.Payload())
		if err != nil {
			return protocol.None, err
		}
		i.announcement = ann
		i.challenge = p.GenerateChallenge(i.common)
		i.transition(VerifierSentChallenge)
		return protocol.Some(i.challenge.Representation()), nil

	case VerifierSentChallenge:
		if !received.Present() {
			return protocol.None, protocol.MissingMessage(string(VerifierRole), "response")
		}
		resp, err := p.RecreateResponse(i.common, i.announcement, i.challenge, received.Payload())
		if err != nil {
			return protocol.None, err
		}
		i.response = resp
		i.transition(VerifierReceivedResponse)
	}
	return protocol.None, nil
}

func (i *VerifierInstance) transition(to VerifierState) {
	Logger.Tracef("verifier: %s -> %s", i.state, to)
	i.state = to
}

// Transcript returns the exchanged messages. It panics if the verifier has not terminated.
func (i *VerifierInstance) Transcript() Transcript {
	if !i.HasTerminated() {
		protocol.Misuse("verifier has no transcript in state %s", i.state)
	}
	return Transcript{Announcement: i.announcement, Challenge: i.challenge, Response: i.response}
}

// IsAccepting reports whether the exchanged transcript verifies. It panics if the
// verifier has not terminated.
func (i *VerifierInstance) IsAccepting() bool {
	return IsAccepting(i.protocol.sigma, i.common, i.Transcript())
}
