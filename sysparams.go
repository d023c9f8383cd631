// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zkproto

import (
	"context"
	"sort"

	"github.com/go-errors/errors"
	"github.com/multiformats/go-multihash"
	"github.com/privacybydesign/zkproto/commitment"
	"github.com/privacybydesign/zkproto/damgard"
	"github.com/privacybydesign/zkproto/fiatshamir"
	"github.com/privacybydesign/zkproto/hashing"
	"github.com/privacybydesign/zkproto/sigma"
	"github.com/privacybydesign/zkproto/zkproof"
)

// SecurityParameters determine how challenges are derived and how large generated groups are.
type SecurityParameters struct {
	// StatisticalSecurity is the number of bits by which hash outputs exceed the challenge
	// space, see fiatshamir.WithStatisticalSecurity.
	StatisticalSecurity int
	// ChallengeHash is the multihash code of the hash function deriving challenges and
	// committed exponents. multihash.SHAKE_256 selects the SHAKE256 XOF.
	ChallengeHash uint64
	// GroupSize is the bit size of the safe prime of generated groups.
	GroupSize int
}

// DefaultSecurityParameters are the parameters used unless configured otherwise.
var DefaultSecurityParameters = SecurityParameters{
	StatisticalSecurity: fiatshamir.DefaultStatisticalSecurity,
	ChallengeHash:       multihash.SHA2_256,
	GroupSize:           2048,
}

// SecurityParametersBySize holds per group size the recommended parameters.
var SecurityParametersBySize = map[int]SecurityParameters{
	1024: {StatisticalSecurity: 80, ChallengeHash: multihash.SHA2_256, GroupSize: 1024},
	2048: DefaultSecurityParameters,
	3072: {StatisticalSecurity: 128, ChallengeHash: multihash.SHA2_512, GroupSize: 3072},
}

func availableGroupSizes(params map[int]SecurityParameters) []int {
	sizes := make([]int, 0, len(params))
	for k := range params {
		sizes = append(sizes, k)
	}
	sort.Ints(sizes)
	return sizes
}

// DefaultGroupSizes holds the group sizes for which parameters are available.
var DefaultGroupSizes = availableGroupSizes(SecurityParametersBySize)

// Hash returns a new instance of the challenge hash.
func (s SecurityParameters) Hash() (hashing.Function, error) {
	if s.ChallengeHash == multihash.SHAKE_256 {
		return hashing.NewShake256(), nil
	}
	return hashing.NewMultihash(s.ChallengeHash)
}

// NewProofSystem returns the Fiat-Shamir proof system for p under these parameters.
func (s SecurityParameters) NewProofSystem(p sigma.Protocol) (*fiatshamir.ProofSystem, error) {
	if s.StatisticalSecurity < 0 {
		return nil, errors.Errorf("negative statistical security parameter %d", s.StatisticalSecurity)
	}
	h, err := s.Hash()
	if err != nil {
		return nil, err
	}
	return fiatshamir.NewProofSystem(p,
		fiatshamir.WithHash(h),
		fiatshamir.WithStatisticalSecurity(s.StatisticalSecurity),
	), nil
}

// NewCommitmentScheme returns the Pedersen commitment scheme over g under these parameters.
func (s SecurityParameters) NewCommitmentScheme(g *zkproof.Group) (*commitment.Pedersen, error) {
	h, err := s.Hash()
	if err != nil {
		return nil, err
	}
	return commitment.NewPedersen(g, commitment.WithHash(h)), nil
}

// NewDamgard returns inner strengthened with Pedersen commitments over g.
func (s SecurityParameters) NewDamgard(inner sigma.Protocol, g *zkproof.Group) (*damgard.Protocol, error) {
	scheme, err := s.NewCommitmentScheme(g)
	if err != nil {
		return nil, err
	}
	return damgard.New(inner, scheme), nil
}

// GenerateGroup returns a group over a fresh safe prime of GroupSize bits.
func (s SecurityParameters) GenerateGroup(ctx context.Context) (*zkproof.Group, error) {
	if s.GroupSize <= 0 {
		return nil, errors.Errorf("invalid group size %d", s.GroupSize)
	}
	Logger.Debugf("generating %d bit group", s.GroupSize)
	return zkproof.GenerateGroup(ctx, s.GroupSize)
}
