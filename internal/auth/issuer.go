package auth

import (
	"fmt"
	"time"

	"github.com/2beens/neuralspace/pkg"
)

const (
	DefaultSessionLifetime = 24 * time.Hour
	// TokenBytes of randomness per session token: 384 bits, 64 chars once encoded.
	TokenBytes = 48
)

// Issuer mints session tokens and their absolute expiry.
type Issuer struct {
	lifetime time.Duration
	// ability to inject the clock and the random string generator (for unit testing)
	Now            func() time.Time
	RandStringFunc func(n int) (string, error)
}

func NewIssuer(lifetime time.Duration) *Issuer {
	if lifetime <= 0 {
		lifetime = DefaultSessionLifetime
	}
	return &Issuer{
		lifetime:       lifetime,
		Now:            time.Now,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func (i *Issuer) Lifetime() time.Duration {
	return i.lifetime
}

// Issue returns a fresh token and the UTC instant it stops being valid.
func (i *Issuer) Issue() (string, time.Time, error) {
	token, err := i.RandStringFunc(TokenBytes)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate session token: %w", err)
	}
	return token, i.Now().UTC().Add(i.lifetime), nil
}
