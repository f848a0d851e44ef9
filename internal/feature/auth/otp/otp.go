// Package otp generates the numeric one-time codes used for email
// verification and password reset.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// DefaultDigits is the standard length of a generated code.
const DefaultDigits = 6

// Generate returns a uniformly random decimal code of the given digit length,
// zero-padded on the left. Codes are drawn from crypto/rand so they cannot be
// predicted from previous outputs.
func Generate(digits int) (string, error) {
	if digits <= 0 {
		digits = DefaultDigits
	}

	// Upper bound is 10^digits, so the result is in [0, 10^digits).
	bound := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}

	return fmt.Sprintf("%0*d", digits, n), nil
}
