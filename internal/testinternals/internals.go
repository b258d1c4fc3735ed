// Package testinternals assembles the in-memory stores and clients the
// server tests run against.
package testinternals

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"

	"github.com/2beens/neuralspace/internal/auth"
	"github.com/2beens/neuralspace/internal/blog"
	"github.com/2beens/neuralspace/internal/pages"
	"github.com/2beens/neuralspace/internal/project"
	"github.com/2beens/neuralspace/pkg"
)

const (
	AdminUsername = "admin"
	AdminPassword = "neural-pass-123"
	AdminEmail    = "admin@neural.space"
)

type Internals struct {
	AuthStore   *auth.TestStore
	Issuer      *auth.Issuer
	AuthService *auth.Service
	Admin       *auth.Admin

	ProjectsRepo *project.TestRepo
	BlogsRepo    *blog.TestRepo
	PagesRepo    *pages.TestRepo

	// redis
	RedisClient *redis.Client
	RedisMock   redismock.ClientMock
}

// NewTestingInternals creates empty content stores and an auth store
// holding a single admin with AdminPassword.
func NewTestingInternals() (*Internals, error) {
	store := auth.NewTestStore()

	hash, err := pkg.HashPassword(AdminPassword)
	if err != nil {
		return nil, err
	}
	email := AdminEmail
	admin := &auth.Admin{
		Username:     AdminUsername,
		PasswordHash: hash,
		Email:        &email,
	}
	if err := store.CreateAdmin(context.Background(), admin); err != nil {
		return nil, err
	}

	issuer := auth.NewIssuer(auth.DefaultSessionLifetime)
	rdb, redisMock := redismock.NewClientMock()

	return &Internals{
		AuthStore:   store,
		Issuer:      issuer,
		AuthService: auth.NewService(store, store, store, auth.NewHasher(), issuer),
		Admin:       admin,

		ProjectsRepo: project.NewTestRepo(),
		BlogsRepo:    blog.NewTestRepo(),
		PagesRepo:    pages.NewTestRepo(),

		RedisClient: rdb,
		RedisMock:   redisMock,
	}, nil
}

// AddSession stores a session for the admin expiring after ttl, which may
// be negative.
func (i *Internals) AddSession(token string, ttl time.Duration) {
	i.AuthStore.AddSession(&auth.Session{
		AdminID:   i.Admin.ID,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(ttl),
		CreatedAt: time.Now().UTC(),
	})
}
