package security

import (
	"bytes"
	"errors"
	"regexp"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lowerHex = regexp.MustCompile(`^[0-9a-f]+$`)

func TestGenerateProducesLowercaseHex(t *testing.T) {
	g := NewSecretGenerator()

	a, err := g.Generate()
	require.NoError(t, err)
	b, err := g.Generate()
	require.NoError(t, err)

	assert.Len(t, a, 2*DefaultSecretSize)
	assert.Regexp(t, lowerHex, a)
	assert.NotEqual(t, a, b)
}

func TestGenerateUsesReader(t *testing.T) {
	g := &RandomSecretGenerator{Size: 4, Reader: bytes.NewReader([]byte{0xde, 0xad, 0xbe, 0xef})}

	got, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", got)
}

func TestGenerateEntropyFailure(t *testing.T) {
	boom := errors.New("no entropy")
	g := &RandomSecretGenerator{Reader: iotest.ErrReader(boom)}

	_, err := g.Generate()
	assert.ErrorIs(t, err, boom)
}

func TestDigestToken(t *testing.T) {
	assert.Equal(t, DigestToken("abc"), DigestToken("abc"))
	assert.NotEqual(t, DigestToken("abc"), DigestToken("abd"))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", DigestToken("abc"))
}
