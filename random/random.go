// Package random provides small helpers for generating random identifiers
// from fixed character sets.
package random

import (
	crand "crypto/rand"
	"math/big"
	mrand "math/rand"
)

const (
	digits  = "0123456789"
	charset = digits + "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// Intn returns a uniform random int in [0, n). It draws from crypto/rand and
// falls back to math/rand only if the system source fails.
func Intn(n int) int {
	num, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return mrand.Intn(n)
	}
	return int(num.Int64())
}

// Digits returns a string of random decimal digits of the given length.
func Digits(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = digits[Intn(len(digits))]
	}
	return string(b)
}

// StringSecure returns an alphanumeric string suitable for secrets such as
// session tokens. It fails instead of degrading to a weaker source.
func StringSecure(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		l := big.NewInt(int64(len(charset)))
		num, err := crand.Int(crand.Reader, l)
		if err != nil {
			return "", err
		}
		b[i] = charset[num.Int64()]
	}
	return string(b), nil
}
