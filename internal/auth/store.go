package auth

import (
	"context"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=store_mocks_test.go -package=auth_test

// SessionStore owns admin sessions. Lookups are exact token matches.
type SessionStore interface {
	Create(ctx context.Context, adminID int, token string, expiresAt time.Time) (*Session, error)
	// FindByToken returns ErrSessionNotFound when no session carries the token.
	FindByToken(ctx context.Context, token string) (*Session, error)
	// Delete is idempotent: removing a missing session is not an error.
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// AdminStore owns admin identities.
type AdminStore interface {
	CreateAdmin(ctx context.Context, admin *Admin) error
	FindByUsername(ctx context.Context, username string) (*Admin, error)
	FindByID(ctx context.Context, id int) (*Admin, error)
	UpdateLastLogin(ctx context.Context, id int, at time.Time) error
}

// TxRunner runs fn inside one transaction, committing only when fn succeeds.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
