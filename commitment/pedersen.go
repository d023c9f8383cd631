package commitment

import (
	"io"

	"github.com/privacybydesign/zkproto/big"
	"github.com/privacybydesign/zkproto/hashing"
	"github.com/privacybydesign/zkproto/internal/common"
	"github.com/privacybydesign/zkproto/repr"
	"github.com/privacybydesign/zkproto/zkproof"
)

// statisticalBytes is the number of bytes by which the message digest exceeds the group
// order, making the committed exponent close to uniform.
const statisticalBytes = 16

const (
	messageSecret = "m"
	hiderSecret   = "m_hider"
	commitBase    = "commitment"
	primeField    = "p"
)

type (
	// Pedersen commits to data as C = g^m·h^r, where m is a digest of the data reduced
	// modulo the group order and r is random.
	Pedersen struct {
		group      *zkproof.Group
		hash       hashing.Function
		randomness io.Reader
		structure  zkproof.RepresentationProofStructure
	}

	PedersenOption func(*Pedersen)

	PedersenCommitment struct {
		C     *big.Int
		group *zkproof.Group
	}

	PedersenOpening struct {
		R     *big.Int
		group *zkproof.Group
	}
)

// WithHash sets the function used to map data to an exponent. The scheme works on a
// copy of h.
func WithHash(h hashing.Function) PedersenOption {
	return func(p *Pedersen) {
		p.hash = h.Clone()
	}
}

// WithRandomness makes the scheme draw its hiders from rnd instead of the global CPRNG.
func WithRandomness(rnd io.Reader) PedersenOption {
	return func(p *Pedersen) {
		p.randomness = rnd
	}
}

func NewPedersen(group *zkproof.Group, opts ...PedersenOption) *Pedersen {
	p := &Pedersen{
		group: group,
		structure: zkproof.RepresentationProofStructure{
			Lhs: []zkproof.LhsContribution{{Base: commitBase, Power: big.NewInt(1)}},
			Rhs: []zkproof.RhsContribution{
				{Base: "g", Secret: messageSecret, Power: 1},
				{Base: "h", Secret: hiderSecret, Power: 1},
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.hash == nil {
		p.hash = hashing.NewSHA256()
	}
	p.hash.SetOutputLength(group.ExponentLen() + statisticalBytes)
	return p
}

// RecreatePedersen decodes the parameters of a Pedersen scheme. The hash is SHA-256
// unless given as an option.
func RecreatePedersen(r repr.Representation, opts ...PedersenOption) (*Pedersen, error) {
	obj, err := repr.AsObject(r)
	if err != nil {
		return nil, err
	}
	prime, err := obj.IntField(primeField)
	if err != nil {
		return nil, err
	}
	group, ok := zkproof.BuildGroup(prime)
	if !ok {
		return nil, repr.Prefix(primeField, repr.NewDecodeError("%s is not a safe prime", prime))
	}
	return NewPedersen(group, opts...), nil
}

func (p *Pedersen) Group() *zkproof.Group {
	return p.group
}

func (p *Pedersen) Representation() repr.Representation {
	return repr.Object{primeField: repr.NewInt(p.group.P)}
}

func (p *Pedersen) message(data []byte) *big.Int {
	return common.HashToExponent(p.hash.Hash(data), p.group.Order)
}

func (p *Pedersen) Commit(data []byte) (Commitment, OpenValue) {
	r, err := common.RandomBigInt(p.randomness, p.group.Order)
	if err != nil {
		panic(err)
	}

	var gm, hr, tmp big.Int
	p.group.Exp(&gm, "g", p.message(data), p.group.P)
	p.group.Exp(&hr, "h", r, p.group.P)
	tmp.Mul(&gm, &hr)
	c := new(big.Int)
	p.group.PMod.Mod(c, &tmp)

	return &PedersenCommitment{C: c, group: p.group}, &PedersenOpening{R: r, group: p.group}
}

func (p *Pedersen) Verify(c Commitment, o OpenValue, data []byte) bool {
	pc, ok := c.(*PedersenCommitment)
	if !ok || !p.group.Contains(pc.C) {
		return false
	}
	po, ok := o.(*PedersenOpening)
	if !ok || po.R == nil || po.R.Sign() < 0 || po.R.Cmp(p.group.Order) >= 0 {
		return false
	}

	bases := zkproof.NewBaseMerge(p.group, zkproof.NamedBases{commitBase: pc.C})
	secrets := &zkproof.Secrets{Values: map[string]*big.Int{
		messageSecret: p.message(data),
		hiderSecret:   po.R,
	}}
	return p.structure.IsTrue(p.group, &bases, secrets)
}

func (p *Pedersen) RecreateCommitment(r repr.Representation) (Commitment, error) {
	c, err := repr.AsInt(r)
	if err != nil {
		return nil, err
	}
	if !p.group.Contains(c) {
		return nil, repr.NewDecodeError("commitment %s is not a group element", c)
	}
	return &PedersenCommitment{C: c, group: p.group}, nil
}

func (p *Pedersen) RecreateOpenValue(r repr.Representation) (OpenValue, error) {
	o, err := repr.AsInt(r)
	if err != nil {
		return nil, err
	}
	if o.Sign() < 0 || o.Cmp(p.group.Order) >= 0 {
		return nil, repr.NewDecodeError("opening %s out of range", o)
	}
	return &PedersenOpening{R: o, group: p.group}, nil
}

func (c *PedersenCommitment) Representation() repr.Representation {
	return repr.NewInt(c.C)
}

func (c *PedersenCommitment) UniqueBytes() []byte {
	return c.C.FillBytes(c.group.ElementLen())
}

func (o *PedersenOpening) Representation() repr.Representation {
	return repr.NewInt(o.R)
}

func (o *PedersenOpening) UniqueBytes() []byte {
	return o.R.FillBytes(o.group.ExponentLen())
}
