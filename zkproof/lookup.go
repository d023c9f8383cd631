package zkproof

import (
	"sort"

	"github.com/privacybydesign/zkproto/big"
)

type (
	BaseLookup interface {
		Base(name string) *big.Int
		Exp(ret *big.Int, name string, exp, P *big.Int) bool
		Names() []string
	}

	SecretLookup interface {
		Secret(name string) *big.Int
		Randomizer(name string) *big.Int
	}

	ProofLookup interface {
		ProofResult(name string) *big.Int
	}

	BaseMerge struct {
		parts  []BaseLookup
		inames []string
		lut    map[string]BaseLookup
	}

	// NamedBases are public group elements by name, e.g. the left-hand side of a statement.
	NamedBases map[string]*big.Int

	// Secrets holds the witness of a representation proof together with the randomizers
	// of one proof run.
	Secrets struct {
		Values      map[string]*big.Int
		Randomizers map[string]*big.Int
	}

	// Results holds the responses of a representation proof.
	Results map[string]*big.Int
)

func NewBaseMerge(parts ...BaseLookup) BaseMerge {
	var result BaseMerge
	result.parts = parts
	if len(parts) > 16 {
		result.lut = make(map[string]BaseLookup)
	}
	for _, part := range parts {
		partNames := part.Names()
		if result.lut != nil {
			for _, name := range partNames {
				result.lut[name] = part
			}
		}
		result.inames = append(result.inames, partNames...)
	}
	return result
}

func (b *BaseMerge) Names() []string {
	return b.inames
}

func (b *BaseMerge) Base(name string) *big.Int {
	if b.lut != nil {
		part, ok := b.lut[name]
		if !ok {
			return nil
		}
		return part.Base(name)
	}
	for _, part := range b.parts {
		res := part.Base(name)
		if res != nil {
			return res
		}
	}
	return nil
}

func (b *BaseMerge) Exp(ret *big.Int, name string, exp, P *big.Int) bool {
	if b.lut != nil {
		part, ok := b.lut[name]
		if !ok {
			return false
		}
		return part.Exp(ret, name, exp, P)
	}
	for _, part := range b.parts {
		ok := part.Exp(ret, name, exp, P)
		if ok {
			return true
		}
	}
	return false
}

func (n NamedBases) Base(name string) *big.Int {
	return n[name]
}

func (n NamedBases) Exp(ret *big.Int, name string, exp, P *big.Int) bool {
	base, ok := n[name]
	if !ok {
		return false
	}
	ret.Exp(base, exp, P)
	return true
}

func (n NamedBases) Names() []string {
	names := make([]string, 0, len(n))
	for name := range n {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Secrets) Secret(name string) *big.Int {
	return s.Values[name]
}

func (s *Secrets) Randomizer(name string) *big.Int {
	return s.Randomizers[name]
}

func (r Results) ProofResult(name string) *big.Int {
	return r[name]
}
