package sigma

import (
	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkproto/protocol"
)

// DebugProof runs a prover and a verifier for the given statement and witness locally and
// panics if the verifier does not accept. Use it while developing a Protocol: a witness
// that satisfies the relation must always be accepted, so a rejection means the prover
// and verifier logic disagree.
func DebugProof(p Protocol, common protocol.CommonInput, secret protocol.SecretInput) {
	prover := NewProverInstance(p, common, secret)
	verifier := NewVerifierInstance(p, common)
	if err := protocol.RunLocally(prover, verifier); err != nil {
		wrapped := errors.WrapPrefix(err, "debug proof did not run", 0)
		Logger.Error(wrapped.ErrorStack())
		panic(wrapped)
	}
	if !verifier.IsAccepting() {
		err := errors.Errorf("debug proof rejected: %T disagrees with itself on %v", p, common)
		Logger.Error(err.ErrorStack())
		panic(err)
	}
}
