package auth

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/neuralspace/internal/apierr"
	"github.com/2beens/neuralspace/internal/telemetry/tracing"
)

const (
	MsgNotAuthenticated = "Not authenticated. Please log in."
	MsgInvalidSession   = "Invalid session. Please log in again."
	MsgSessionExpired   = "Session expired. Please log in again."
	MsgUserNotFound     = "User not found. Please log in again."
	MsgAuthFailed       = "Authentication failed. Please log in again."
)

// Outcome is the state a token ends up in after validation.
type Outcome int

const (
	OutcomeAuthenticated Outcome = iota
	OutcomeNoToken
	OutcomeTokenNotFound
	OutcomeExpired
	OutcomeUserNotFound
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAuthenticated:
		return "authenticated"
	case OutcomeNoToken:
		return "no-token"
	case OutcomeTokenNotFound:
		return "token-not-found"
	case OutcomeExpired:
		return "expired"
	case OutcomeUserNotFound:
		return "user-not-found"
	default:
		return "failure"
	}
}

func (o Outcome) message() string {
	switch o {
	case OutcomeNoToken:
		return MsgNotAuthenticated
	case OutcomeTokenNotFound:
		return MsgInvalidSession
	case OutcomeExpired:
		return MsgSessionExpired
	case OutcomeUserNotFound:
		return MsgUserNotFound
	default:
		return MsgAuthFailed
	}
}

// Validator resolves a session token to an admin. It is run on every
// privileged request and never caches results.
type Validator struct {
	sessions SessionStore
	admins   AdminStore
	// ability to inject the clock (for unit testing)
	Now func() time.Time
}

func NewValidator(sessions SessionStore, admins AdminStore) *Validator {
	return &Validator{
		sessions: sessions,
		admins:   admins,
		Now:      time.Now,
	}
}

// Validate returns the authenticated admin, or an apierr Unauthenticated
// error carrying the client facing reason. Store failures are never
// surfaced as anything but a generic 401.
func (v *Validator) Validate(ctx context.Context, token string) (*Admin, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.validate")
	defer span.End()

	admin, outcome, err := v.resolve(ctx, token)
	span.SetAttributes(attribute.String("auth.outcome", outcome.String()))
	if outcome == OutcomeAuthenticated {
		span.SetStatus(codes.Ok, "authenticated")
		return admin, nil
	}

	if err != nil {
		span.RecordError(err)
		log.Errorf("session validation [%s]: %s", shortToken(token), err)
	} else {
		log.Tracef("session validation [%s]: %s", shortToken(token), outcome)
	}
	span.SetStatus(codes.Error, outcome.String())

	return nil, &apierr.Error{
		Kind:    apierr.KindUnauthenticated,
		Message: outcome.message(),
		Err:     err,
	}
}

func (v *Validator) resolve(ctx context.Context, token string) (*Admin, Outcome, error) {
	if token == "" {
		return nil, OutcomeNoToken, nil
	}

	session, err := v.sessions.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, OutcomeTokenNotFound, nil
		}
		return nil, OutcomeFailure, err
	}

	if session.ExpiredAt(v.Now().UTC()) {
		if err := v.sessions.Delete(ctx, token); err != nil {
			// next validation retries the removal
			log.Warnf("delete expired session [%s]: %s", shortToken(token), err)
		}
		return nil, OutcomeExpired, nil
	}

	admin, err := v.admins.FindByID(ctx, session.AdminID)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return nil, OutcomeUserNotFound, nil
		}
		return nil, OutcomeFailure, err
	}

	return admin, OutcomeAuthenticated, nil
}
