package sigma

import "github.com/privacybydesign/zkproto/protocol"

type (
	// Condition is a lazily evaluated boolean. Composite protocols combine the conditions
	// of their parts instead of checking each part eagerly.
	Condition interface {
		Holds() bool
	}

	// ConditionChecker is implemented by protocols that can express transcript
	// verification as a Condition.
	ConditionChecker interface {
		TranscriptCondition(common protocol.CommonInput, t Transcript) Condition
	}

	constCondition bool
	lazyCondition  func() bool
	andCondition   []Condition
	orCondition    []Condition
)

var (
	True  Condition = constCondition(true)
	False Condition = constCondition(false)
)

func (c constCondition) Holds() bool { return bool(c) }

// Lazy returns a condition that evaluates f every time it is checked.
func Lazy(f func() bool) Condition { return lazyCondition(f) }

func (c lazyCondition) Holds() bool { return c() }

// And holds if all conditions hold. Evaluation stops at the first one that does not.
func And(conditions ...Condition) Condition { return andCondition(conditions) }

func (c andCondition) Holds() bool {
	for _, cond := range c {
		if !cond.Holds() {
			return false
		}
	}
	return true
}

// Or holds if any of the conditions holds. Evaluation stops at the first one that does.
func Or(conditions ...Condition) Condition { return orCondition(conditions) }

func (c orCondition) Holds() bool {
	for _, cond := range c {
		if cond.Holds() {
			return true
		}
	}
	return false
}

// TranscriptCondition returns the condition under which t verifies for common, using
// the protocol's own condition if it has one.
func TranscriptCondition(p Protocol, common protocol.CommonInput, t Transcript) Condition {
	if checker, ok := p.(ConditionChecker); ok {
		return checker.TranscriptCondition(common, t)
	}
	return Lazy(func() bool {
		return p.CheckTranscript(common, t.Announcement, t.Challenge, t.Response)
	})
}
