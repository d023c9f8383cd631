package zkproof

import (
	"sort"

	"github.com/privacybydesign/zkproto/big"
)

type (
	LhsContribution struct {
		Base  string
		Power *big.Int
	}

	RhsContribution struct {
		Base   string
		Secret string
		Power  int64
	}

	// RepresentationProofStructure describes the statement
	//  Π Lhs.Base^Lhs.Power = Π Rhs.Base^(Rhs.Power·Rhs.Secret)
	// in a Group. Proofs use responses s = r - c·w (mod Order), so the commitment to the
	// randomizers r can be recomputed from the challenge c and the responses alone.
	RepresentationProofStructure struct {
		Lhs []LhsContribution
		Rhs []RhsContribution
	}
)

// SecretNames returns the names of the secrets in the statement, sorted and without duplicates.
func (s *RepresentationProofStructure) SecretNames() []string {
	seen := make(map[string]bool, len(s.Rhs))
	var names []string
	for _, curRhs := range s.Rhs {
		if !seen[curRhs.Secret] {
			seen[curRhs.Secret] = true
			names = append(names, curRhs.Secret)
		}
	}
	sort.Strings(names)
	return names
}

func (s *RepresentationProofStructure) CommitmentsFromSecrets(g *Group, list []*big.Int, bases BaseLookup, secretdata SecretLookup) []*big.Int {
	commitment := big.NewInt(1)
	var exp, contribution big.Int

	for _, curRhs := range s.Rhs {
		exp.Set(big.NewInt(curRhs.Power))
		exp.Mul(&exp, secretdata.Randomizer(curRhs.Secret))
		g.OrderMod.Mod(&exp, &exp)
		bases.Exp(&contribution, curRhs.Base, &exp, g.P)
		commitment.Mul(commitment, &contribution)
		g.PMod.Mod(commitment, commitment)
	}

	return append(list, commitment)
}

func (s *RepresentationProofStructure) CommitmentsFromProof(g *Group, list []*big.Int, challenge *big.Int, bases BaseLookup, proofdata ProofLookup) []*big.Int {
	lhs := s.lhs(g, bases)

	commitment := new(big.Int).Exp(lhs, challenge, g.P)
	var exp, contribution big.Int
	for _, curRhs := range s.Rhs {
		exp.Mul(big.NewInt(curRhs.Power), proofdata.ProofResult(curRhs.Secret))
		g.OrderMod.Mod(&exp, &exp)
		bases.Exp(&contribution, curRhs.Base, &exp, g.P)
		commitment.Mul(commitment, &contribution)
		g.PMod.Mod(commitment, commitment)
	}

	return append(list, commitment)
}

// IsTrue reports whether the secrets satisfy the statement.
func (s *RepresentationProofStructure) IsTrue(g *Group, bases BaseLookup, secretdata SecretLookup) bool {
	lhs := s.lhs(g, bases)

	var rhs, tmp big.Int
	rhs.SetUint64(1)
	var exp, contribution big.Int
	for _, curRhs := range s.Rhs {
		exp.SetInt64(curRhs.Power)
		tmp.Mul(&exp, secretdata.Secret(curRhs.Secret))
		g.OrderMod.Mod(&exp, &tmp)
		bases.Exp(&contribution, curRhs.Base, &exp, g.P)
		tmp.Mul(&rhs, &contribution)
		g.PMod.Mod(&rhs, &tmp)
	}

	return lhs.Cmp(&rhs) == 0
}

func (s *RepresentationProofStructure) lhs(g *Group, bases BaseLookup) *big.Int {
	var base, tmp big.Int
	lhs := big.NewInt(1)
	for _, curLhs := range s.Lhs {
		bases.Exp(&base, curLhs.Base, curLhs.Power, g.P)
		tmp.Mul(lhs, &base)
		g.PMod.Mod(lhs, &tmp)
	}
	return lhs
}
