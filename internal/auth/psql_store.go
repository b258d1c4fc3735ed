package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/neuralspace/internal/db"
	"github.com/2beens/neuralspace/internal/telemetry/tracing"
	"github.com/2beens/neuralspace/pkg"
)

var (
	_ SessionStore = (*SessionRepo)(nil)
	_ AdminStore   = (*AdminRepo)(nil)
)

type SessionRepo struct {
	db *pgxpool.Pool
	tx *db.Transactor
}

func NewSessionRepo(dbPool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{
		db: dbPool,
		tx: db.NewTransactor(dbPool),
	}
}

func (r *SessionRepo) Create(ctx context.Context, adminID int, token string, expiresAt time.Time) (*Session, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sessionRepo.create")
	span.SetAttributes(attribute.Int("admin.id", adminID))
	defer span.End()

	session := &Session{
		AdminID:   adminID,
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
	}
	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		return db.Conn(ctx, r.db).QueryRow(
			ctx,
			`INSERT INTO admin_session (admin_user_id, session_token, expires_at)
			VALUES ($1, $2, $3)
			RETURNING id, created_at;`,
			adminID, token, session.ExpiresAt,
		).Scan(&session.ID, &session.CreatedAt)
	})
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("insert session: %w", err)
	}

	return session, nil
}

func (r *SessionRepo) FindByToken(ctx context.Context, token string) (*Session, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sessionRepo.findByToken")
	defer span.End()

	var s Session
	err := db.Conn(ctx, r.db).QueryRow(
		ctx,
		`SELECT id, admin_user_id, session_token, expires_at, created_at
		FROM admin_session
		WHERE session_token = $1;`,
		token,
	).Scan(&s.ID, &s.AdminID, &s.Token, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sessionRepo.delete")
	defer span.End()

	return r.tx.RunInTx(ctx, func(ctx context.Context) error {
		tag, err := db.Conn(ctx, r.db).Exec(ctx, `DELETE FROM admin_session WHERE session_token = $1`, token)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			log.Tracef("session %s already gone", shortToken(token))
		}
		return nil
	})
}

func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (deleted int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sessionRepo.deleteExpired")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.tx.RunInTx(ctx, func(ctx context.Context) error {
		tag, err := db.Conn(ctx, r.db).Exec(ctx, `DELETE FROM admin_session WHERE expires_at < $1`, now.UTC())
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}

	span.SetAttributes(attribute.Int64("deleted", deleted))
	return deleted, nil
}

type AdminRepo struct {
	db *pgxpool.Pool
	tx *db.Transactor
}

func NewAdminRepo(dbPool *pgxpool.Pool) *AdminRepo {
	return &AdminRepo{
		db: dbPool,
		tx: db.NewTransactor(dbPool),
	}
}

func (r *AdminRepo) CreateAdmin(ctx context.Context, admin *Admin) error {
	if admin.Username == "" || admin.PasswordHash == "" {
		return errors.New("admin username or password hash empty")
	}

	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		return db.Conn(ctx, r.db).QueryRow(
			ctx,
			`INSERT INTO admin_user (username, password_hash, email)
			VALUES ($1, $2, $3)
			RETURNING id, created_at;`,
			admin.Username, admin.PasswordHash, admin.Email,
		).Scan(&admin.ID, &admin.CreatedAt)
	})
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrAdminExists
		}
		return fmt.Errorf("insert admin: %w", err)
	}

	return nil
}

func (r *AdminRepo) FindByUsername(ctx context.Context, username string) (*Admin, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "adminRepo.findByUsername")
	defer span.End()

	return r.findOne(ctx, `WHERE username = $1`, username)
}

func (r *AdminRepo) FindByID(ctx context.Context, id int) (*Admin, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "adminRepo.findByID")
	span.SetAttributes(attribute.Int("admin.id", id))
	defer span.End()

	return r.findOne(ctx, `WHERE id = $1`, id)
}

func (r *AdminRepo) UpdateLastLogin(ctx context.Context, id int, at time.Time) error {
	return r.tx.RunInTx(ctx, func(ctx context.Context) error {
		tag, err := db.Conn(ctx, r.db).Exec(ctx, `UPDATE admin_user SET last_login = $1 WHERE id = $2`, at.UTC(), id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrAdminNotFound
		}
		return nil
	})
}

func (r *AdminRepo) findOne(ctx context.Context, where string, arg any) (*Admin, error) {
	var a Admin
	err := db.Conn(ctx, r.db).QueryRow(
		ctx,
		`SELECT id, username, password_hash, email, created_at, last_login FROM admin_user `+where,
		arg,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Email, &a.CreatedAt, &a.LastLogin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &a, nil
}
