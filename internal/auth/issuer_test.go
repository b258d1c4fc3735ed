package auth

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_Issue(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	issuer := NewIssuer(DefaultSessionLifetime)
	issuer.Now = func() time.Time { return now }

	token, expiresAt, err := issuer.Issue()
	require.NoError(t, err)

	assert.Len(t, token, 64)
	raw, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.Len(t, raw, TokenBytes)

	assert.Equal(t, time.UTC, expiresAt.Location())
	assert.True(t, now.Add(24*time.Hour).Equal(expiresAt))
}

func TestIssuer_TokensAreUnique(t *testing.T) {
	issuer := NewIssuer(time.Hour)
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		token, _, err := issuer.Issue()
		require.NoError(t, err)
		require.False(t, seen[token])
		seen[token] = true
	}
}

func TestIssuer_DefaultsLifetime(t *testing.T) {
	assert.Equal(t, DefaultSessionLifetime, NewIssuer(0).Lifetime())
	assert.Equal(t, time.Hour, NewIssuer(time.Hour).Lifetime())
}

func TestIssuer_RandFailure(t *testing.T) {
	issuer := NewIssuer(time.Hour)
	issuer.RandStringFunc = func(int) (string, error) {
		return "", errors.New("entropy exhausted")
	}

	token, _, err := issuer.Issue()
	require.Error(t, err)
	assert.Empty(t, token)
}
