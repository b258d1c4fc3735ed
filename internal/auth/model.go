package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrAdminNotFound      = errors.New("admin not found")
	ErrAdminExists        = errors.New("admin exists already")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Admin is the single privileged identity allowed to manage content.
type Admin struct {
	ID           int
	Username     string
	PasswordHash string
	Email        *string
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// Session binds an opaque token to an admin until ExpiresAt.
type Session struct {
	ID        int
	AdminID   int
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// ExpiredAt reports whether the session is expired at the given instant.
// A session checked exactly at ExpiresAt is still valid.
func (s *Session) ExpiredAt(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// User is the public view of an admin, safe to return to clients.
type User struct {
	ID       int     `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
}

func (a *Admin) User() User {
	return User{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
	}
}

type adminCtxKey struct{}

func WithAdmin(ctx context.Context, admin *Admin) context.Context {
	return context.WithValue(ctx, adminCtxKey{}, admin)
}

// AdminFromContext returns the admin the auth gate resolved for this request.
func AdminFromContext(ctx context.Context) (*Admin, bool) {
	admin, ok := ctx.Value(adminCtxKey{}).(*Admin)
	return admin, ok && admin != nil
}

// AdminName is the username for log lines, "-" outside the admin router.
func AdminName(ctx context.Context) string {
	if admin, ok := AdminFromContext(ctx); ok {
		return admin.Username
	}
	return "-"
}

// shortToken is used when a token has to appear in logs.
func shortToken(token string) string {
	if len(token) <= 6 {
		return "***"
	}
	return token[:6] + "***"
}
