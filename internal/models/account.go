package models

import "time"

// Account is one registered user, keyed by email. It owns at most one live
// email verification token and at most one live password reset token.
type Account struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	// Version is the revision read from the store. Update only succeeds
	// against the same revision.
	Version int64 `json:"-"`

	// VerifyTokenHash is the SHA-256 digest of the code mailed at registration.
	// Empty once the email has been confirmed.
	VerifyTokenHash string `json:"-"`
	// VerifyTokenExpiresAt is nil when verification codes never expire.
	VerifyTokenExpiresAt *time.Time `json:"-"`

	// ResetTokenHash is the bcrypt hash of the last reset code sent.
	ResetTokenHash      string     `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
}

func (a *Account) HasResetToken() bool {
	return a.ResetTokenHash != ""
}

// ResetTokenExpired reports whether the reset token is past its expiry at now.
// A token without an expiry is treated as expired.
func (a *Account) ResetTokenExpired(now time.Time) bool {
	if a.ResetTokenExpiresAt == nil {
		return true
	}
	return now.After(*a.ResetTokenExpiresAt)
}

func (a *Account) VerifyTokenExpired(now time.Time) bool {
	if a.VerifyTokenExpiresAt == nil {
		return false
	}
	return now.After(*a.VerifyTokenExpiresAt)
}

func (a *Account) ClearResetToken() {
	a.ResetTokenHash = ""
	a.ResetTokenExpiresAt = nil
}

func (a *Account) ClearVerifyToken() {
	a.VerifyTokenHash = ""
	a.VerifyTokenExpiresAt = nil
}

// Clone returns a deep copy so callers can mutate without touching stored state.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	cpy := *a
	if a.VerifyTokenExpiresAt != nil {
		t := *a.VerifyTokenExpiresAt
		cpy.VerifyTokenExpiresAt = &t
	}
	if a.ResetTokenExpiresAt != nil {
		t := *a.ResetTokenExpiresAt
		cpy.ResetTokenExpiresAt = &t
	}
	return &cpy
}
