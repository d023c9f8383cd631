// Package hashing provides the hash functions used to derive challenges: functions
// whose output length can be set to whatever a challenge space requires.
package hashing

import (
	"github.com/go-errors/errors"
	"github.com/multiformats/go-multihash"
	"github.com/privacybydesign/zkproto/internal/common"
	"golang.org/x/crypto/sha3"
)

// DefaultOutputLength is the output length of new functions, in bytes.
const DefaultOutputLength = 32

type (
	// Function is a hash function with configurable output length.
	Function interface {
		Hash(data []byte) []byte
		// OutputLength returns the number of bytes Hash produces.
		OutputLength() int
		SetOutputLength(n int)
		// Clone returns an independent copy, so that its output length can be set
		// without affecting the original.
		Clone() Function
	}

	// Multihash hashes with any of the algorithms of go-multihash. Outputs longer than
	// the algorithm's digest are produced by hashing the input with a counter.
	Multihash struct {
		code   uint64
		length int
	}

	// Shake256 is the SHAKE256 extendable-output function.
	Shake256 struct {
		length int
	}
)

// NewMultihash returns the multihash function with the given code, e.g. multihash.SHA2_256.
func NewMultihash(code uint64) (*Multihash, error) {
	if !multihash.ValidCode(code) {
		return nil, errors.Errorf("unknown multihash code %#x", code)
	}
	m := &Multihash{code: code, length: DefaultOutputLength}
	if _, err := m.digest(nil); err != nil {
		return nil, errors.WrapPrefix(err, "unsupported multihash", 0)
	}
	return m, nil
}

// NewSHA256 returns SHA-256 through go-multihash.
func NewSHA256() *Multihash {
	m, err := NewMultihash(multihash.SHA2_256)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Multihash) digest(data []byte) ([]byte, error) {
	sum, err := multihash.Sum(data, m.code, -1)
	if err != nil {
		return nil, err
	}
	decoded, err := multihash.Decode(sum)
	if err != nil {
		return nil, err
	}
	return decoded.Digest, nil
}

func (m *Multihash) Hash(data []byte) []byte {
	return common.ExpandHash(func(b []byte) []byte {
		d, err := m.digest(b)
		if err != nil {
			panic(err) // the code was checked by NewMultihash
		}
		return d
	}, data, m.length)
}

func (m *Multihash) OutputLength() int {
	return m.length
}

func (m *Multihash) SetOutputLength(n int) {
	if n <= 0 {
		panic("hash output length must be positive")
	}
	m.length = n
}

func (m *Multihash) Clone() Function {
	c := *m
	return &c
}

// Code returns the multihash code of the underlying algorithm.
func (m *Multihash) Code() uint64 {
	return m.code
}

func NewShake256() *Shake256 {
	return &Shake256{length: DefaultOutputLength}
}

func (s *Shake256) Hash(data []byte) []byte {
	h := sha3.NewShake256()
	_, _ = h.Write(data)
	out := make([]byte, s.length)
	_, _ = h.Read(out)
	return out
}

func (s *Shake256) OutputLength() int {
	return s.length
}

func (s *Shake256) SetOutputLength(n int) {
	if n <= 0 {
		panic("hash output length must be positive")
	}
	s.length = n
}

func (s *Shake256) Clone() Function {
	return &Shake256{length: s.length}
}
