package common

import (
	"encoding/asn1"

	"github.com/privacybydesign/zkproto/big"

	gobig "math/big"
)

// EncodeSequence returns the asn1 encoding of a sequence of byte strings, preceded by
// the number of elements. Distinct sequences never encode to the same bytes, which makes
// the result suitable as hash input for tuples of messages.
func EncodeSequence(parts ...[]byte) []byte {
	tmp := make([]interface{}, len(parts)+1)
	tmp[0] = gobig.NewInt(int64(len(parts)))
	for i, p := range parts {
		if p == nil {
			p = []byte{}
		}
		tmp[i+1] = p
	}
	r, err := asn1.Marshal(tmp)
	if err != nil {
		panic(err) // Marshal should never error, so panic if it does
	}
	return r
}

// ExpandHash stretches the digest function h to n bytes of output, hashing input together
// with an incrementing counter until enough output has been produced.
func ExpandHash(h func([]byte) []byte, input []byte, n int) []byte {
	res := make([]byte, 0, n)
	counter := big.NewInt(0)
	for len(res) < n {
		res = append(res, h(EncodeSequence(input, counter.Bytes()))...)
		counter.Add(counter, big.NewInt(1))
	}
	return res[:n]
}

// HashToExponent reduces a digest to an integer modulo order. The digest should be at
// least a security parameter's worth of bits longer than order, so that the result is
// close to uniform.
func HashToExponent(digest []byte, order *big.Int) *big.Int {
	res := new(big.Int).SetBytes(digest)
	return res.Mod(res, order)
}
