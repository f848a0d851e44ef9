// Package domain defines domain-level errors for the auth feature.
package domain

import "errors"

// Domain errors for authentication operations.
// These errors represent business logic failures and should be handled appropriately by upper layers.
var (
	// ErrInvalidCredentials indicates that the provided credentials are incorrect.
	// This is returned during login when email or password is invalid.
	// The same error is used for unknown emails and wrong passwords to prevent user enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrOTPInvalid indicates that the supplied one-time code does not match the
	// pending code for its purpose, or that no code is pending at all.
	ErrOTPInvalid = errors.New("invalid OTP")

	// ErrOTPExpired indicates that the pending one-time code has passed its expiry.
	ErrOTPExpired = errors.New("OTP expired")
)
