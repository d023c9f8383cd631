// Package sigma defines three-move proofs of knowledge (Σ-protocols) and runs them as
// two-party protocols: a prover sends an announcement, the verifier answers with a random
// challenge and the prover finishes with a response.
//
// Concrete statements implement Protocol. Composite statements (AndProtocol) are
// themselves Protocols, so they can be composed further or handed to the Fiat-Shamir and
// Damgård transforms like any other statement.
package sigma

import (
	"github.com/privacybydesign/zkproto/big"
	"github.com/privacybydesign/zkproto/internal/common"
	"github.com/privacybydesign/zkproto/protocol"
	"github.com/privacybydesign/zkproto/repr"
)

type (
	// Announcement is the first message of the prover.
	Announcement interface {
		repr.Representable
		// UniqueBytes returns a canonical encoding, used as hash input.
		UniqueBytes() []byte
	}

	// Challenge is the message of the verifier.
	Challenge interface {
		repr.Representable
		UniqueBytes() []byte
	}

	// Response is the final message of the prover.
	Response interface {
		repr.Representable
		UniqueBytes() []byte
	}

	// AnnouncementSecret is the prover's scratch state between announcement and response,
	// typically its random coins. It is never transmitted.
	AnnouncementSecret interface{}

	// Transcript is the full exchange of one protocol run.
	Transcript struct {
		Announcement Announcement
		Challenge    Challenge
		Response     Response
	}

	// Protocol is a Σ-protocol for some family of statements. The common input is the
	// statement, the secret input the witness. All methods are total for inputs of the
	// right type; an invalid witness merely results in a transcript that does not verify.
	Protocol interface {
		// GenerateAnnouncementSecret samples fresh randomness for one run. Randomness
		// must never be reused across runs with the same witness.
		GenerateAnnouncementSecret(common protocol.CommonInput, secret protocol.SecretInput) AnnouncementSecret
		GenerateAnnouncement(common protocol.CommonInput, secret protocol.SecretInput, as AnnouncementSecret) Announcement
		// GenerateChallenge samples a challenge uniformly from the challenge space.
		GenerateChallenge(common protocol.CommonInput) Challenge
		GenerateResponse(common protocol.CommonInput, secret protocol.SecretInput, ann Announcement, as AnnouncementSecret, ch Challenge) Response
		CheckTranscript(common protocol.CommonInput, ann Announcement, ch Challenge, resp Response) bool
		// GenerateSimulatedTranscript returns an accepting transcript for the given
		// challenge without using a witness.
		GenerateSimulatedTranscript(common protocol.CommonInput, ch Challenge) Transcript

		RecreateAnnouncement(common protocol.CommonInput, r repr.Representation) (Announcement, error)
		RecreateChallenge(common protocol.CommonInput, r repr.Representation) (Challenge, error)
		// RecreateResponse decodes a response; the announcement and challenge it answers
		// are available as context.
		RecreateResponse(common protocol.CommonInput, ann Announcement, ch Challenge, r repr.Representation) (Response, error)

		// CreateChallengeFromBytes maps hash output into the challenge space. The result
		// is close to uniform when b holds sufficiently more bits than the space.
		CreateChallengeFromBytes(common protocol.CommonInput, b []byte) Challenge
		ChallengeSpaceSize() *big.Int

		// CompressTranscript serializes a transcript, leaving out what can be recomputed
		// from the challenge and the rest of the transcript.
		CompressTranscript(common protocol.CommonInput, t Transcript) repr.Representation
		DecompressTranscript(common protocol.CommonInput, ch Challenge, r repr.Representation) (Transcript, error)
	}

	// EmptyAnnouncement is the announcement of protocols whose first move carries no
	// information.
	EmptyAnnouncement struct{}

	// EmptyResponse is the response of degenerate protocols.
	EmptyResponse struct{}
)

func (EmptyAnnouncement) Representation() repr.Representation { return repr.Object{} }
func (EmptyAnnouncement) UniqueBytes() []byte                 { return []byte{} }

func (EmptyResponse) Representation() repr.Representation { return repr.Object{} }
func (EmptyResponse) UniqueBytes() []byte                 { return []byte{} }

// RecreateEmpty checks that r is the representation of an empty announcement or response.
func RecreateEmpty(r repr.Representation) error {
	obj, err := repr.AsObject(r)
	if err != nil {
		return err
	}
	if len(obj) != 0 {
		return repr.NewDecodeError("unexpected fields %v in empty message", obj.Names())
	}
	return nil
}

// IsAccepting reports whether transcript t verifies for statement common.
func IsAccepting(p Protocol, common protocol.CommonInput, t Transcript) bool {
	return TranscriptCondition(p, common, t).Holds()
}

// UniqueBytesOf combines the canonical encodings of several messages into one
// unambiguous encoding.
func UniqueBytesOf(parts ...[]byte) []byte {
	return common.EncodeSequence(parts...)
}
