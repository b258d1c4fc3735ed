package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/neuralspace/internal/telemetry/tracing"
)

type passwordHasher interface {
	Verify(plaintext, hash string) bool
	VerifyDummy(plaintext string)
}

type LoginResult struct {
	Admin   *Admin
	Session *Session
}

// Service orchestrates login, logout and verification of admin sessions.
type Service struct {
	admins    AdminStore
	sessions  SessionStore
	tx        TxRunner
	hasher    passwordHasher
	issuer    *Issuer
	validator *Validator
}

func NewService(
	admins AdminStore,
	sessions SessionStore,
	tx TxRunner,
	hasher passwordHasher,
	issuer *Issuer,
) *Service {
	validator := NewValidator(sessions, admins)
	validator.Now = func() time.Time { return issuer.Now() }
	return &Service{
		admins:    admins,
		sessions:  sessions,
		tx:        tx,
		hasher:    hasher,
		issuer:    issuer,
		validator: validator,
	}
}

func (s *Service) Validator() *Validator {
	return s.validator
}

// Login checks the credentials and opens a new session. Wrong username and
// wrong password both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.login")
	defer span.End()

	admin, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, ErrAdminNotFound) {
			return nil, fmt.Errorf("find admin: %w", err)
		}
		s.hasher.VerifyDummy(password)
		log.Tracef("[username] failed login attempt for user: %s", username)
		return nil, ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, admin.PasswordHash) {
		log.Tracef("[password] failed login attempt for user: %s", username)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.issuer.Issue()
	if err != nil {
		return nil, err
	}

	var session *Session
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		session, err = s.sessions.Create(ctx, admin.ID, token, expiresAt)
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		now := s.issuer.Now().UTC()
		if err := s.admins.UpdateLastLogin(ctx, admin.ID, now); err != nil {
			return fmt.Errorf("update last login: %w", err)
		}
		admin.LastLogin = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("admin.id", admin.ID))
	log.Debugf("admin [%s] logged in, session [%s] expires at %s", admin.Username, shortToken(token), expiresAt)

	return &LoginResult{
		Admin:   admin,
		Session: session,
	}, nil
}

// Logout deletes the session for token, if any. It is idempotent.
func (s *Service) Logout(ctx context.Context, token string) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.logout")
	defer span.End()

	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	log.Debugf("session [%s] logged out", shortToken(token))
	return nil
}

func (s *Service) Verify(ctx context.Context, token string) (*Admin, error) {
	return s.validator.Validate(ctx, token)
}

// CleanExpired removes sessions that expired before now. Expiry is enforced
// lazily by the validator, so this only keeps the table small.
func (s *Service) CleanExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, s.issuer.Now().UTC())
}
