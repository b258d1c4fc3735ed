package blog

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

// manual caching of blog posts not needed (at least for this use case):
// https://github.com/jackc/pgx/wiki/Automatic-Prepared-Statement-Caching

const blogColumns = `id, title, slug, content, summary, author, tags, image_url, published, published_at,
	position_x, position_y, position_z, created_at, updated_at`

var _ Repository = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
	tx *db.Transactor
}

func NewRepo(dbPool *pgxpool.Pool) *Repo {
	return &Repo{
		db: dbPool,
		tx: db.NewTransactor(dbPool),
	}
}

// All returns drafts too, newest first.
func (r *Repo) All(ctx context.Context) ([]*Blog, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.all")
	defer span.End()

	rows, err := db.Conn(ctx, r.db).Query(
		ctx,
		`SELECT `+blogColumns+` FROM blog ORDER BY created_at DESC, id DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []*Blog{}
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

func (r *Repo) BySlug(ctx context.Context, slug string) (*Blog, error) {
	log.Tracef("getting blog %s", slug)

	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.bySlug")
	span.SetAttributes(attribute.String("slug", slug))
	defer span.End()

	b, err := scanBlog(db.Conn(ctx, r.db).QueryRow(
		ctx,
		`SELECT `+blogColumns+` FROM blog WHERE slug = $1;`,
		slug,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *Repo) Create(ctx context.Context, b *Blog) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.create")
	span.SetAttributes(attribute.String("slug", b.Slug))
	defer span.End()

	return r.tx.RunInTx(ctx, func(ctx context.Context) error {
		conn := db.Conn(ctx, r.db)
		if exists, err := slugTaken(ctx, conn, b.Slug); err != nil {
			return err
		} else if exists {
			return ErrSlugExists
		}

		err := conn.QueryRow(
			ctx,
			`INSERT INTO blog (title, slug, content, summary, author, tags, image_url, published, published_at,
				position_x, position_y, position_z)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id, created_at, updated_at;`,
			b.Title, b.Slug, b.Content, b.Summary, b.Author, b.Tags, b.ImageURL, b.Published, b.PublishedAt,
			b.PositionX, b.PositionY, b.PositionZ,
		).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
		if pkg.IsUniqueViolationError(err) {
			return ErrSlugExists
		}
		if err != nil {
			return fmt.Errorf("insert blog: %w", err)
		}
		return nil
	})
}

func (r *Repo) Update(ctx context.Context, id int, req UpdateRequest, now time.Time) (*Blog, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.update")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	var updated *Blog
	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		conn := db.Conn(ctx, r.db)
		b, err := scanBlog(conn.QueryRow(
			ctx,
			`SELECT `+blogColumns+` FROM blog WHERE id = $1 FOR UPDATE;`,
			id,
		))
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrBlogNotFound
		}
		if err != nil {
			return err
		}

		if slug, changed := req.SlugChange(b.Slug); changed {
			if exists, err := slugTaken(ctx, conn, slug); err != nil {
				return err
			} else if exists {
				return ErrSlugExists
			}
		}

		req.Apply(b, now)
		err = conn.QueryRow(
			ctx,
			`UPDATE blog SET title = $1, slug = $2, content = $3, summary = $4, author = $5, tags = $6,
				image_url = $7, published = $8, published_at = $9,
				position_x = $10, position_y = $11, position_z = $12, updated_at = now()
			WHERE id = $13
			RETURNING updated_at;`,
			b.Title, b.Slug, b.Content, b.Summary, b.Author, b.Tags, b.ImageURL, b.Published, b.PublishedAt,
			b.PositionX, b.PositionY, b.PositionZ, id,
		).Scan(&b.UpdatedAt)
		if pkg.IsUniqueViolationError(err) {
			return ErrSlugExists
		}
		if err != nil {
			return fmt.Errorf("update blog: %w", err)
		}

		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *Repo) Delete(ctx context.Context, id int) (string, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.delete")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	var slug string
	err := db.Conn(ctx, r.db).QueryRow(ctx, `DELETE FROM blog WHERE id = $1 RETURNING slug;`, id).Scan(&slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrBlogNotFound
	}
	if err != nil {
		return "", err
	}
	return slug, nil
}

func (r *Repo) Counts(ctx context.Context) (Counts, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.counts")
	defer span.End()

	var c Counts
	err := db.Conn(ctx, r.db).QueryRow(
		ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE published) FROM blog;`,
	).Scan(&c.Total, &c.Published)
	if err != nil {
		return Counts{}, err
	}
	return c, nil
}

func slugTaken(ctx context.Context, conn db.Querier, slug string) (bool, error) {
	var exists bool
	err := conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM blog WHERE slug = $1);`, slug).Scan(&exists)
	return exists, err
}

func scanBlog(row pgx.Row) (*Blog, error) {
	var b Blog
	if err := row.Scan(
		&b.ID, &b.Title, &b.Slug, &b.Content, &b.Summary, &b.Author, &b.Tags, &b.ImageURL, &b.Published,
		&b.PublishedAt, &b.PositionX, &b.PositionY, &b.PositionZ, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}
