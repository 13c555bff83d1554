package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken()
	require.NoError(t, err)

	b, err := GenerateToken()
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestSignerRoundTrip(t *testing.T) {
	s := NewSigner("test-secret")

	token, err := GenerateToken()
	require.NoError(t, err)

	signed := s.Sign(token)
	assert.NotEqual(t, token, signed)

	got, ok := s.Verify(signed)
	require.True(t, ok)
	assert.Equal(t, token, got)
}

func TestSignerRejectsTampering(t *testing.T) {
	s := NewSigner("test-secret")

	signed := s.Sign("some-token")

	cases := map[string]string{
		"tampered token":     "other-token" + signed[len("some-token"):],
		"tampered signature": signed + "x",
		"no separator":       "sometokenwithoutdot",
		"empty value":        "",
		"bare dot":           ".",
	}

	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			_, ok := s.Verify(value)
			assert.False(t, ok)
		})
	}
}

func TestSignerRejectsOtherSecret(t *testing.T) {
	signed := NewSigner("secret-a").Sign("some-token")

	_, ok := NewSigner("secret-b").Verify(signed)
	assert.False(t, ok)
}
