package sigma

import (
	"sort"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkproto/protocol"
	"github.com/privacybydesign/zkproto/repr"
)

const verdictValue = "verdict"

type (
	// Statements holds the common inputs of the proofs run by ConcurrentProofs, by name.
	Statements map[string]protocol.CommonInput

	// Witnesses holds the secret inputs of the proofs run by ConcurrentProofs, by name.
	Witnesses map[string]protocol.SecretInput

	concurrentRounds struct {
		instance  *protocol.BaseInstance
		parts     map[string]Protocol
		verifiers map[string]*VerifierInstance

		decided bool
		verdict bool
	}
)

// ConcurrentProofs returns a protocol that runs a named Σ-proof for each entry of parts
// side by side, within the same three moves. Once all proofs are done the verifier sends
// its verdict (whether all of them verified) back to the prover, so both parties learn
// the outcome; read it with Verdict. The common input is a Statements and the prover's
// secret input a Witnesses, each with an entry for every part.
func ConcurrentProofs(parts map[string]Protocol) *protocol.BaseProtocol {
	return protocol.NewBaseProtocol(ProverRole, VerifierRole, func(inst *protocol.BaseInstance) (protocol.Rounds, error) {
		statements, ok := inst.CommonInput().(Statements)
		if !ok {
			return nil, errors.Errorf("common input must be Statements, got %T", inst.CommonInput())
		}
		for name := range parts {
			if _, ok := statements[name]; !ok {
				return nil, errors.Errorf("no statement for proof %s", name)
			}
		}
		if inst.Role() == ProverRole {
			witnesses, ok := inst.SecretInput().(Witnesses)
			if !ok {
				return nil, errors.Errorf("secret input must be Witnesses, got %T", inst.SecretInput())
			}
			for name := range parts {
				if _, ok := witnesses[name]; !ok {
					return nil, errors.Errorf("no witness for proof %s", name)
				}
			}
		}
		return &concurrentRounds{
			instance:  inst,
			parts:     parts,
			verifiers: make(map[string]*VerifierInstance),
		}, nil
	})
}

func (c *concurrentRounds) names() []string {
	names := make([]string, 0, len(c.parts))
	for name := range c.parts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *concurrentRounds) DoRoundForFirstRole(round int) error {
	if round == 0 {
		statements := c.instance.CommonInput().(Statements)
		witnesses := c.instance.SecretInput().(Witnesses)
		for _, name := range c.names() {
			c.instance.RunSubprotocolConcurrently(name, NewProverInstance(c.parts[name], statements[name], witnesses[name]))
		}
		return nil
	}
	v, ok := c.instance.Receive(verdictValue)
	if !ok {
		return nil
	}
	verdict, err := repr.AsInt(v)
	if err != nil {
		return repr.Prefix(verdictValue, err)
	}
	switch verdict.Int64() {
	case 0, 1:
		c.verdict = verdict.Int64() == 1
	default:
		return repr.NewDecodeError("verdict %s is not a boolean", verdict)
	}
	c.decided = true
	c.instance.Terminate()
	return nil
}

func (c *concurrentRounds) DoRoundForSecondRole(round int) error {
	if round == 1 {
		statements := c.instance.CommonInput().(Statements)
		for _, name := range c.names() {
			verifier := NewVerifierInstance(c.parts[name], statements[name])
			c.verifiers[name] = verifier
			c.instance.RunSubprotocolConcurrently(name, verifier)
		}
		return nil
	}
	for name := range c.parts {
		if c.instance.IsRunning(name) {
			return nil
		}
	}
	c.verdict = true
	for _, name := range c.names() {
		if !c.verifiers[name].IsAccepting() {
			Logger.Infof("concurrent proof %s rejected", name)
			c.verdict = false
		}
	}
	c.decided = true
	var encoded int64
	if c.verdict {
		encoded = 1
	}
	c.instance.Send(verdictValue, repr.Int64(encoded))
	c.instance.Terminate()
	return nil
}

// Verdict returns whether all proofs of a terminated ConcurrentProofs instance verified.
func Verdict(inst protocol.Instance) (bool, error) {
	base, ok := inst.(*protocol.BaseInstance)
	if !ok {
		return false, errors.Errorf("not a concurrent proofs instance: %T", inst)
	}
	rounds, ok := base.Rounds().(*concurrentRounds)
	if !ok {
		return false, errors.Errorf("not a concurrent proofs instance: %T", base.Rounds())
	}
	if !rounds.decided {
		return false, errors.New("proofs have not been decided yet")
	}
	return rounds.verdict, nil
}
