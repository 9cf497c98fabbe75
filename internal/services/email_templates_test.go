package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationEmail(t *testing.T) {
	msg := ValidationEmail("from@x.com", "to@x.com", "http://localhost:3000/validate", "abc123")

	assert.Equal(t, "from@x.com", msg.From)
	assert.Equal(t, "to@x.com", msg.To)
	assert.Equal(t, "Email Validation is Required", msg.Subject)
	assert.Contains(t, msg.Body, "http://localhost:3000/validate\n\nValidation Code: abc123\n\n")
	assert.Contains(t, msg.Body, "no action will be taken.")
}

func TestResetEmail(t *testing.T) {
	msg := ResetEmail("from@x.com", "to@x.com", "http://localhost:3000/reset", "def456")

	assert.Equal(t, "Link To Reset Password", msg.Subject)
	assert.Contains(t, msg.Body, "within one hour")
	assert.Contains(t, msg.Body, "http://localhost:3000/reset\n\nReset Code: def456\n\n")
	assert.Contains(t, msg.Body, "your password will remain unchanged.")
}
