package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// DefaultSecretSize is the number of random bytes in a mailed code.
const DefaultSecretSize = 16

// SecretGenerator produces random codes for email verification and password reset.
type SecretGenerator interface {
	Generate() (string, error)
}

// RandomSecretGenerator renders Size random bytes as lowercase hex.
type RandomSecretGenerator struct {
	Size   int
	Reader io.Reader
}

func NewSecretGenerator() *RandomSecretGenerator {
	return &RandomSecretGenerator{Size: DefaultSecretSize, Reader: rand.Reader}
}

func (g *RandomSecretGenerator) Generate() (string, error) {
	size := g.Size
	if size <= 0 {
		size = DefaultSecretSize
	}
	r := g.Reader
	if r == nil {
		r = rand.Reader
	}

	b := make([]byte, size)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// DigestToken returns the SHA-256 hex digest of a code. Verification codes
// are stored in this form so they can be looked up without keeping the
// plaintext.
func DigestToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
