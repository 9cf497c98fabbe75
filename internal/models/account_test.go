package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResetTokenExpired(t *testing.T) {
	now := time.Date(2020, 3, 3, 22, 39, 32, 0, time.UTC)
	a := &Account{}
	assert.True(t, a.ResetTokenExpired(now), "missing expiry counts as expired")

	exp := now.Add(time.Hour)
	a.ResetTokenExpiresAt = &exp
	assert.False(t, a.ResetTokenExpired(now))
	assert.False(t, a.ResetTokenExpired(exp), "expiry instant itself is still valid")
	assert.True(t, a.ResetTokenExpired(exp.Add(time.Nanosecond)))
}

func TestVerifyTokenExpired(t *testing.T) {
	now := time.Now()
	a := &Account{}
	assert.False(t, a.VerifyTokenExpired(now.Add(100*365*24*time.Hour)))

	exp := now.Add(-time.Second)
	a.VerifyTokenExpiresAt = &exp
	assert.True(t, a.VerifyTokenExpired(now))
}

func TestCloneIsDeep(t *testing.T) {
	exp := time.Now()
	a := &Account{Email: "a@x.com", ResetTokenHash: "h", ResetTokenExpiresAt: &exp, VerifyTokenExpiresAt: &exp}
	c := a.Clone()

	c.ClearResetToken()
	c.ClearVerifyToken()
	c.Email = "b@x.com"

	assert.Equal(t, "a@x.com", a.Email)
	assert.True(t, a.HasResetToken())
	assert.NotNil(t, a.ResetTokenExpiresAt)
	assert.NotNil(t, a.VerifyTokenExpiresAt)
	assert.False(t, c.HasResetToken())
	assert.Nil(t, (*Account)(nil).Clone())
}
