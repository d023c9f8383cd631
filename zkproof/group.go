package zkproof

import (
	"context"
	"fmt"

	"github.com/bwesterb/go-exptable"
	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkproto/big"
	"github.com/privacybydesign/zkproto/internal/common"
	"github.com/privacybydesign/zkproto/safeprime"
)

// Group is the subgroup of prime order (P-1)/2 of the multiplicative group modulo a safe
// prime P, with two fixed generators G and H of which nobody knows the relative discrete
// logarithm.
type Group struct {
	P     *big.Int
	Order *big.Int
	G     *big.Int
	H     *big.Int

	GTable exptable.Table
	HTable exptable.Table

	PMod     *common.Modulus
	OrderMod *common.Modulus
}

// BuildGroup returns the group for the given safe prime, or false if prime is not one.
func BuildGroup(prime *big.Int) (*Group, bool) {
	if !prime.ProbablyPrime(80) {
		return nil, false
	}

	result := &Group{
		P:     new(big.Int).Set(prime),
		Order: new(big.Int).Rsh(prime, 1),
	}
	if !result.Order.ProbablyPrime(80) {
		return nil, false
	}

	// Squares of fixed nothing-up-my-sleeve numbers, hence elements of the subgroup.
	result.G = new(big.Int).Exp(big.NewInt(0x41424344), big.NewInt(0x45464748), result.P)
	result.H = new(big.Int).Exp(big.NewInt(0x494A4B4C), big.NewInt(0x4D4E4F50), result.P)

	result.GTable.Compute(result.G.Go(), result.P.Go(), 7)
	result.HTable.Compute(result.H.Go(), result.P.Go(), 7)

	result.PMod = common.NewModulus(result.P)
	result.OrderMod = common.NewModulus(result.Order)

	return result, true
}

// GenerateGroup returns the group over a fresh safe prime of the given bit size. The
// search runs on all CPU cores and stops when the first safe prime is found.
func GenerateGroup(ctx context.Context, bits int) (*Group, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var prime *big.Int
	ints, errs := safeprime.GenerateConcurrent(ctx, bits)
	select {
	case prime = <-ints:
	case err := <-errs:
		return nil, errors.WrapPrefix(err, "safe prime generation failed", 0)
	case <-ctx.Done():
		return nil, errors.WrapPrefix(ctx.Err(), "safe prime generation failed", 0)
	}
	g, ok := BuildGroup(prime)
	if !ok {
		return nil, errors.Errorf("generated number %s is not a safe prime", prime)
	}
	return g, nil
}

// Exp sets ret to base^exp for the generators "g" and "h"; it reports false for any other
// base name. exp must lie in (-Order, Order).
func (g *Group) Exp(ret *big.Int, name string, exp, _ *big.Int) bool {
	var table *exptable.Table
	switch name {
	case "g":
		table = &g.GTable
	case "h":
		table = &g.HTable
	default:
		return false
	}
	var exp2 big.Int
	if exp.Sign() == -1 {
		exp2.Add(exp, g.Order)
		exp = &exp2
	}
	if exp.Cmp(g.Order) >= 0 {
		panic(fmt.Sprintf("scalar out of bounds: %v %v", exp, g.Order))
	}
	table.Exp(ret.Go(), exp.Go())
	return true
}

func (g *Group) Names() []string {
	return []string{"g", "h"}
}

func (g *Group) Base(name string) *big.Int {
	switch name {
	case "g":
		return g.G
	case "h":
		return g.H
	}
	return nil
}

// RandomExponent returns a uniformly random exponent in [0, Order).
func (g *Group) RandomExponent() *big.Int {
	return common.FastRandomBigInt(g.Order)
}

// Contains reports whether x is an element of the group.
func (g *Group) Contains(x *big.Int) bool {
	if x == nil || x.Sign() <= 0 || x.Cmp(g.P) >= 0 {
		return false
	}
	return new(big.Int).Exp(x, g.Order, g.P).Cmp(big.NewInt(1)) == 0
}

// ElementLen is the number of bytes of the fixed-width encoding of group elements.
func (g *Group) ElementLen() int {
	return g.P.ByteLen()
}

// ExponentLen is the number of bytes of the fixed-width encoding of exponents.
func (g *Group) ExponentLen() int {
	return g.Order.ByteLen()
}
