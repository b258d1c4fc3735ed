package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/neuralspace/internal/db"
	"github.com/2beens/neuralspace/internal/telemetry/tracing"
	"github.com/2beens/neuralspace/pkg"
)

const projectColumns = `id, title, slug, description, content, tech_stack, github_url, live_demo,
	image_url, featured, position_x, position_y, position_z, created_at, updated_at`

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

func (r *Repo) All(ctx context.Context) ([]*Project, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "projectRepo.all")
	defer span.End()

	rows, err := db.Conn(ctx, r.db).Query(
		ctx,
		`SELECT `+projectColumns+` FROM project ORDER BY id;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []*Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return projects, nil
}

func (r *Repo) BySlug(ctx context.Context, slug string) (*Project, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "projectRepo.bySlug")
	span.SetAttributes(attribute.String("slug", slug))
	defer span.End()

	return r.findOne(ctx, `SELECT `+projectColumns+` FROM project WHERE slug = $1;`, slug)
}

func (r *Repo) ByID(ctx context.Context, id int) (*Project, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "projectRepo.byID")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	return r.findOne(ctx, `SELECT `+projectColumns+` FROM project WHERE id = $1;`, id)
}

func (r *Repo) Create(ctx context.Context, p *Project) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "projectRepo.create")
	span.SetAttributes(attribute.String("slug", p.Slug))
	defer span.End()

	return r.tx.RunInTx(ctx, func(ctx context.Context) error {
		conn := db.Conn(ctx, r.db)
		if exists, err := slugTaken(ctx, conn, p.Slug); err != nil {
			return err
		} else if exists {
			return ErrSlugExists
		}

		err := conn.QueryRow(
			ctx,
			`INSERT INTO project (title, slug, description, content, tech_stack, github_url, live_demo,
				image_url, featured, position_x, position_y, position_z)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id, created_at, updated_at;`,
			p.Title, p.Slug, p.Description, p.Content, p.TechStack, p.GithubURL, p.LiveDemo,
			p.ImageURL, p.Featured, p.PositionX, p.PositionY, p.PositionZ,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
		if pkg.IsUniqueViolationError(err) {
			return ErrSlugExists
		}
		if err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
		return nil
	})
}

// Update locks the row, checks a slug change against other projects and
// writes the merged fields in one transaction.
func (r *Repo) Update(ctx context.Context, id int, req UpdateRequest) (*Project, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "projectRepo.update")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	var updated *Project
	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		conn := db.Conn(ctx, r.db)
		p, err := scanProject(conn.QueryRow(
			ctx,
			`SELECT `+projectColumns+` FROM project WHERE id = $1 FOR UPDATE;`,
			id,
		))
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProjectNotFound
		}
		if err != nil {
			return err
		}

		if slug, changed := req.SlugChange(p.Slug); changed {
			if exists, err := slugTaken(ctx, conn, slug); err != nil {
				return err
			} else if exists {
				return ErrSlugExists
			}
		}

		req.Apply(p)
		err = conn.QueryRow(
			ctx,
			`UPDATE project SET title = $1, slug = $2, description = $3, content = $4, tech_stack = $5,
				github_url = $6, live_demo = $7, image_url = $8, featured = $9,
				position_x = $10, position_y = $11, position_z = $12, updated_at = now()
			WHERE id = $13
			RETURNING updated_at;`,
			p.Title, p.Slug, p.Description, p.Content, p.TechStack, p.GithubURL, p.LiveDemo,
			p.ImageURL, p.Featured, p.PositionX, p.PositionY, p.PositionZ, id,
		).Scan(&p.UpdatedAt)
		if pkg.IsUniqueViolationError(err) {
			return ErrSlugExists
		}
		if err != nil {
			return fmt.Errorf("update project: %w", err)
		}

		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the project and returns its slug.
func (r *Repo) Delete(ctx context.Context, id int) (string, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "projectRepo.delete")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	var slug string
	err := db.Conn(ctx, r.db).QueryRow(
		ctx,
		`DELETE FROM project WHERE id = $1 RETURNING slug;`,
		id,
	).Scan(&slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrProjectNotFound
	}
	if err != nil {
		return "", err
	}

	log.Tracef("project %d [%s] deleted", id, slug)
	return slug, nil
}

func (r *Repo) Counts(ctx context.Context) (Counts, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "projectRepo.counts")
	defer span.End()

	var c Counts
	err := db.Conn(ctx, r.db).QueryRow(
		ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE featured) FROM project;`,
	).Scan(&c.Total, &c.Featured)
	if err != nil {
		return Counts{}, err
	}
	return c, nil
}

func (r *Repo) findOne(ctx context.Context, query string, arg any) (*Project, error) {
	p, err := scanProject(db.Conn(ctx, r.db).QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

func slugTaken(ctx context.Context, conn db.Querier, slug string) (bool, error) {
	var exists bool
	err := conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM project WHERE slug = $1);`, slug).Scan(&exists)
	return exists, err
}

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	if err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.Content, &p.TechStack, &p.GithubURL, &p.LiveDemo,
		&p.ImageURL, &p.Featured, &p.PositionX, &p.PositionY, &p.PositionZ, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
