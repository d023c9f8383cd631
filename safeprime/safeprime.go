// Package safeprime computes safe primes, i.e. primes of the form 2q+1 where q is also prime,
// for setting up the groups in which proofs are run.
package safeprime

import (
	"context"
	"crypto/rand"
	"io"
	"runtime"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkproto/big"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// checkInterval is the number of candidates tried between checks for cancellation.
const checkInterval = 1000

// GenerateConcurrent generates safe primes on all CPU cores until ctx is done. If an error is
// encountered, generation stops in all goroutines and the error is sent on the second channel.
// The goroutines only exit once ctx is done, so callers must cancel it when they have
// received enough primes.
func GenerateConcurrent(ctx context.Context, bitsize int) (<-chan *big.Int, <-chan error) {
	count := runtime.GOMAXPROCS(0)
	ints := make(chan *big.Int, count)
	errs := make(chan error, count)

	ctx, cancel := context.WithCancel(ctx)
	for i := 0; i < count; i++ {
		go func() {
			for {
				x, err := Generate(ctx, bitsize)
				if err != nil {
					if ctx.Err() == nil {
						errs <- err
					}
					cancel()
					return
				}
				select {
				case <-ctx.Done():
					return
				case ints <- x:
				}
			}
		}()
	}

	return ints, errs
}

// Generate returns a safe prime of the given size, drawing randomness from crypto/rand.
// It returns ctx.Err() if ctx is done before a safe prime is found.
func Generate(ctx context.Context, bitsize int) (*big.Int, error) {
	return GenerateFrom(ctx, rand.Reader, bitsize)
}

// GenerateFrom is Generate with an explicit randomness source. It uses the fact that if q is
// prime and 2^(2q) = 1 mod (2q+1), then 2q+1 is a safe prime.
// (See https://www.ijipbangalore.org/abstracts_2(1)/p5.pdf and
// https://groups.google.com/group/sci.crypt/msg/34c4abf63568a8eb)
func GenerateFrom(ctx context.Context, rnd io.Reader, bitsize int) (*big.Int, error) {
	if bitsize < 3 {
		return nil, errors.Errorf("no safe primes of %d bits", bitsize)
	}

	var (
		max        = new(big.Int).Lsh(one, uint(bitsize)) // 2^bitsize, len bitsize+1
		twoq       = new(big.Int)
		twoqone    = new(big.Int)
		twoexptwoq = new(big.Int)
		q          *big.Int
		err        error
	)

	for i := 0; ; i++ {
		if i%checkInterval == 0 {
			if err = ctx.Err(); err != nil {
				return nil, err
			}
		}

		if q, err = big.RandInt(rnd, max); err != nil {
			return nil, err
		}

		bitlen := q.BitLen() // q < max = 2^bitsize, so bitlen <= bitsize
		if q.Bit(0) != 1 || bitlen < bitsize-1 {
			continue
		}

		// Use (q-1)/2 if q has one bit too many; this way two bit lengths of the output
		// of RandInt are usable.
		if bitlen == bitsize {
			q.Rsh(q, 1)
			if q.Bit(0) != 1 {
				continue
			}
		}

		twoq.Mul(two, q)
		twoqone.Add(twoq, one)
		twoexptwoq.Exp(two, twoq, twoqone) // 2^(2q) mod (2q+1)

		if twoexptwoq.Cmp(one) == 0 && q.ProbablyPrime(40) {
			break
		}
	}

	if !ProbablySafePrime(twoqone, 40) {
		return nil, errors.New("safe prime generation returned non-safe prime")
	}
	return twoqone, nil
}

// ProbablySafePrime reports whether x is probably safe prime, by calling big.Int.ProbablyPrime(n)
// on x as well as on (x-1)/2.
func ProbablySafePrime(x *big.Int, n int) bool {
	if x.Cmp(two) <= 0 {
		return false
	}
	if !x.ProbablyPrime(n) {
		return false
	}
	y := new(big.Int).Rsh(x, 1)
	return y.ProbablyPrime(n)
}
