package referral

import (
	"crypto/rand"

	"github.com/go-faster/errors"
)

// CodeLength is the length of every issued referral code. 36^8 possible
// codes keep the collision probability negligible at the store's scale; the
// unique index on the code column catches the rest.
const CodeLength = 8

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateCode returns a fresh uppercase alphanumeric code drawn uniformly
// from crypto/rand.
func GenerateCode() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "read random bytes")
	}

	// Rejection-free mapping would bias toward the low alphabet entries with
	// mod 36; re-draw bytes outside the largest multiple of 36 instead.
	const limit = 252 // largest multiple of 36 below 256
	out := make([]byte, 0, CodeLength)
	for len(out) < CodeLength {
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(out) == CodeLength {
				break
			}
		}
		if len(out) < CodeLength {
			if _, err := rand.Read(buf); err != nil {
				return "", errors.Wrap(err, "read random bytes")
			}
		}
	}

	return string(out), nil
}
