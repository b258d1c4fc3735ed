package blog

import (
	"context"
	"time"
)

//go:generate mockgen -source=store.go -destination=store_mocks_test.go -package=blog_test

type Counts struct {
	Total     int
	Published int
}

func (c Counts) Drafts() int {
	return c.Total - c.Published
}

type Repository interface {
	All(ctx context.Context) ([]*Blog, error)
	BySlug(ctx context.Context, slug string) (*Blog, error)
	Create(ctx context.Context, b *Blog) error
	Update(ctx context.Context, id int, req UpdateRequest, now time.Time) (*Blog, error)
	Delete(ctx context.Context, id int) (string, error)
	Counts(ctx context.Context) (Counts, error)
}
