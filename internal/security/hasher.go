package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt cost used for passwords and reset codes.
const DefaultHashCost = 12

// maxBcryptInput is the number of input bytes bcrypt uses. Longer input is
// truncated, so a multibyte password that fits the character limit still hashes.
const maxBcryptInput = 72

// Hasher hashes secrets one way and verifies plaintext against stored hashes.
type Hasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches hashed. A mismatch is not an
	// error; a malformed hash is.
	Verify(plaintext, hashed string) (bool, error)
}

type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = DefaultHashCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(plaintext), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(plaintext, hashed string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), bcryptInput(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

func bcryptInput(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > maxBcryptInput {
		b = b[:maxBcryptInput]
	}
	return b
}
