// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrAlreadyVerified is returned when requesting a verification OTP for an account that is already verified.
	ErrAlreadyVerified = errors.New("account already verified")

	// ErrNotificationFailure is returned when an OTP email could not be delivered.
	// The pending code stays bound; the caller may request a fresh one.
	ErrNotificationFailure = errors.New("failed to send OTP email")
)
