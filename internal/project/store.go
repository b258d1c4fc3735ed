package project

import "context"

//go:generate mockgen -source=store.go -destination=store_mocks_test.go -package=project_test

type Counts struct {
	Total    int
	Featured int
}

type Repository interface {
	All(ctx context.Context) ([]*Project, error)
	BySlug(ctx context.Context, slug string) (*Project, error)
	ByID(ctx context.Context, id int) (*Project, error)
	// Create fills in the ID and timestamps of p.
	Create(ctx context.Context, p *Project) error
	Update(ctx context.Context, id int, req UpdateRequest) (*Project, error)
	Delete(ctx context.Context, id int) (string, error)
	Counts(ctx context.Context) (Counts, error)
}
