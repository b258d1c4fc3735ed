package pages

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/neuralspace/internal/db"
	"github.com/2beens/neuralspace/internal/telemetry/tracing"
	"github.com/2beens/neuralspace/internal/textjson"
)

const pageColumns = `id, page_key, title, content, updated_at, created_at`

var _ Repository = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(dbPool *pgxpool.Pool) *Repo {
	return &Repo{db: dbPool}
}

func (r *Repo) All(ctx context.Context) ([]*Page, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "pagesRepo.all")
	defer span.End()

	rows, err := db.Conn(ctx, r.db).Query(ctx, `SELECT `+pageColumns+` FROM static_page ORDER BY page_key;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := []*Page{}
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

func (r *Repo) ByKey(ctx context.Context, key string) (*Page, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "pagesRepo.byKey")
	span.SetAttributes(attribute.String("key", key))
	defer span.End()

	p, err := scanPage(db.Conn(ctx, r.db).QueryRow(
		ctx,
		`SELECT `+pageColumns+` FROM static_page WHERE page_key = $1;`,
		key,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPageNotFound
	}
	return p, err
}

func (r *Repo) Update(ctx context.Context, key, title string, content textjson.Document) (*Page, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "pagesRepo.update")
	span.SetAttributes(attribute.String("key", key))
	defer span.End()

	p, err := scanPage(db.Conn(ctx, r.db).QueryRow(
		ctx,
		`UPDATE static_page SET title = $1, content = $2, updated_at = now()
		WHERE page_key = $3
		RETURNING `+pageColumns+`;`,
		title, content, key,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPageNotFound
	}
	return p, err
}

func (r *Repo) CreateIfMissing(ctx context.Context, key, title string, content textjson.Document) (bool, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "pagesRepo.createIfMissing")
	span.SetAttributes(attribute.String("key", key))
	defer span.End()

	tag, err := db.Conn(ctx, r.db).Exec(
		ctx,
		`INSERT INTO static_page (page_key, title, content) VALUES ($1, $2, $3)
		ON CONFLICT (page_key) DO NOTHING;`,
		key, title, content,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanPage(row pgx.Row) (*Page, error) {
	var p Page
	if err := row.Scan(&p.ID, &p.Key, &p.Title, &p.Content, &p.UpdatedAt, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
