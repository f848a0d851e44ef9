// Package entity defines the domain entities for the auth feature.
package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"auth_backend/internal/feature/auth/domain"
)

// OTPPurpose identifies which workflow a one-time code belongs to.
// The two purposes are independent: a pending verification code never
// interferes with a pending reset code and vice versa.
type OTPPurpose string

const (
	// OTPPurposeVerify is the email verification workflow.
	OTPPurposeVerify OTPPurpose = "verify"

	// OTPPurposeReset is the password reset workflow.
	OTPPurposeReset OTPPurpose = "reset"
)

// User represents a registered user in the system.
// It contains authentication credentials, the account verification state and
// the purpose-scoped one-time code pairs.
type User struct {
	// ID is the unique identifier for the user, assigned once at creation.
	ID string `gorm:"type:char(36);primaryKey"`

	// Name is the user's display name.
	Name string `gorm:"size:255;not null"`

	// Email is the user's email address used for authentication.
	// It must be unique across all users and is immutable after creation.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash of the user's password.
	// This should never store plaintext passwords.
	Password string `gorm:"size:255;not null"`

	// IsAccountVerified reports whether the email address has been confirmed.
	// It transitions false to true exactly once; there is no un-verify path.
	IsAccountVerified bool `gorm:"not null;default:false"`

	// VerifyOtp and VerifyOtpExpireAt form the pending email verification pair.
	// Both are set together and cleared together.
	VerifyOtp         *string `gorm:"size:16"`
	VerifyOtpExpireAt *time.Time

	// ResetOtp and ResetOtpExpireAt form the pending password reset pair.
	ResetOtp         *string `gorm:"size:16"`
	ResetOtpExpireAt *time.Time

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}

// BeforeCreate assigns a UUID primary key when none is set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// BindOTP stores a freshly generated code and its expiry into the pair for
// the given purpose, superseding any previously pending code.
func (u *User) BindOTP(purpose OTPPurpose, code string, expiresAt time.Time) {
	switch purpose {
	case OTPPurposeVerify:
		u.VerifyOtp = &code
		u.VerifyOtpExpireAt = &expiresAt
	case OTPPurposeReset:
		u.ResetOtp = &code
		u.ResetOtpExpireAt = &expiresAt
	}
}

// ConsumeOTP validates the supplied code against the pending pair for the
// given purpose at time now.
//
// It returns domain.ErrOTPInvalid when no code is pending or the code does
// not match exactly, and domain.ErrOTPExpired when now is at or past the
// stored expiry. On success both fields of the pair are cleared, and for the
// verification purpose IsAccountVerified is flipped to true as part of the
// same mutation. A second consume after a success therefore always fails
// with domain.ErrOTPInvalid.
func (u *User) ConsumeOTP(purpose OTPPurpose, code string, now time.Time) error {
	pending, expiresAt := u.VerifyOtp, u.VerifyOtpExpireAt
	if purpose == OTPPurposeReset {
		pending, expiresAt = u.ResetOtp, u.ResetOtpExpireAt
	}

	if pending == nil || expiresAt == nil || *pending == "" || *pending != code {
		return domain.ErrOTPInvalid
	}
	// Expiry is exclusive: the boundary instant already counts as expired.
	if !now.Before(*expiresAt) {
		return domain.ErrOTPExpired
	}

	switch purpose {
	case OTPPurposeVerify:
		u.VerifyOtp = nil
		u.VerifyOtpExpireAt = nil
		u.IsAccountVerified = true
	case OTPPurposeReset:
		u.ResetOtp = nil
		u.ResetOtpExpireAt = nil
	}
	return nil
}
