package lifecycle

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateEmail          = errors.New("email already exists")
	ErrInvalidVerificationCode = errors.New("validation code is invalid")
	ErrEmailNotFound           = errors.New("email not found")
	ErrEmailNotVerified        = errors.New("email not validated yet")
	ErrIncorrectPassword       = errors.New("password incorrect")
	ErrInvalidResetCode        = errors.New("reset code is invalid")
	ErrResetCodeExpired        = errors.New("reset code has expired")
)

// HashError reports a failure of the credential hasher.
type HashError struct {
	Op  string
	Err error
}

func (e *HashError) Error() string { return fmt.Sprintf("%s: hash: %v", e.Op, e.Err) }
func (e *HashError) Unwrap() error { return e.Err }

// StoreError reports a failed read or write against the account store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("%s: store: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// NotifyError reports a failed or timed out email send. State persisted
// before the send is kept.
type NotifyError struct {
	Op  string
	Err error
}

func (e *NotifyError) Error() string { return fmt.Sprintf("%s: notify: %v", e.Op, e.Err) }
func (e *NotifyError) Unwrap() error { return e.Err }

// SecretError reports an entropy failure while generating a token.
type SecretError struct {
	Op  string
	Err error
}

func (e *SecretError) Error() string { return fmt.Sprintf("%s: secret: %v", e.Op, e.Err) }
func (e *SecretError) Unwrap() error { return e.Err }

// TokenError reports a failure to sign a bearer token.
type TokenError struct {
	Op  string
	Err error
}

func (e *TokenError) Error() string { return fmt.Sprintf("%s: token: %v", e.Op, e.Err) }
func (e *TokenError) Unwrap() error { return e.Err }

func isRejection(err error) bool {
	for _, target := range []error{
		ErrDuplicateEmail, ErrInvalidVerificationCode, ErrEmailNotFound, ErrEmailNotVerified,
		ErrIncorrectPassword, ErrInvalidResetCode, ErrResetCodeExpired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
