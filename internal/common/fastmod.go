package common

import (
	"github.com/privacybydesign/zkproto/big"
)

// Modulus reduces integers modulo a fixed p. Moduli of the form 2^b - c with c below 2^60
// are reduced by folding the bits above b back in; any other modulus uses division.
type Modulus struct {
	p      big.Int
	folded bool
	b      uint
	c      big.Int
	mask   big.Int // 2^b - 1
}

func NewModulus(p *big.Int) *Modulus {
	m := &Modulus{b: uint(p.BitLen())}
	m.p.Set(p)

	var pow big.Int
	pow.Lsh(big.NewInt(1), m.b)
	m.c.Sub(&pow, p)
	if m.c.BitLen() < 60 {
		m.folded = true
		m.mask.Sub(&pow, big.NewInt(1))
	}
	return m
}

// Folded reports whether reduction avoids division.
func (m *Modulus) Folded() bool {
	return m.folded
}

// Mod sets ret to x mod p and returns ret. ret and x may be the same.
func (m *Modulus) Mod(ret, x *big.Int) *big.Int {
	if !m.folded || x.Sign() < 0 {
		return ret.Mod(x, &m.p)
	}

	// hi·2^b + lo = hi·c + lo (mod p)
	var hi, tmp big.Int
	ret.Set(x)
	for {
		hi.Rsh(ret, m.b)
		if hi.Sign() == 0 {
			break
		}
		ret.And(ret, &m.mask)
		tmp.Mul(&hi, &m.c)
		ret.Add(ret, &tmp)
	}

	// ret < 2^b <= 2p
	if ret.Cmp(&m.p) >= 0 {
		ret.Sub(ret, &m.p)
	}
	return ret
}
