// Package commitment defines commitment schemes: a party commits to a byte string
// without revealing it, and can later open the commitment to convince anyone that it
// committed to exactly that string.
package commitment

import "github.com/privacybydesign/zkproto/repr"

type (
	Commitment interface {
		repr.Representable
		UniqueBytes() []byte
	}

	// OpenValue is the information needed, besides the committed data, to open a
	// Commitment.
	OpenValue interface {
		repr.Representable
		UniqueBytes() []byte
	}

	// Scheme is a binding and hiding commitment scheme. Its representation holds the
	// public parameters of the scheme.
	Scheme interface {
		repr.Representable

		Commit(data []byte) (Commitment, OpenValue)
		// Verify reports whether c opens to data using o.
		Verify(c Commitment, o OpenValue, data []byte) bool

		RecreateCommitment(r repr.Representation) (Commitment, error)
		RecreateOpenValue(r repr.Representation) (OpenValue, error)
	}
)
