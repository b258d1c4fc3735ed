package project

import (
	"context"
	"sort"
	"sync"
	"time"
)

var _ Repository = (*TestRepo)(nil)

// TestRepo is an in-memory Repository.
type TestRepo struct {
	mutex    sync.Mutex
	projects map[int]*Project
	nextID   int

	Now func() time.Time
	// Err, when set, is returned by every operation.
	Err error
}

func NewTestRepo() *TestRepo {
	return &TestRepo{
		projects: map[int]*Project{},
		Now:      time.Now,
	}
}

func (r *TestRepo) Len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.projects)
}

func (r *TestRepo) All(_ context.Context) ([]*Project, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	projects := make([]*Project, 0, len(r.projects))
	for _, p := range r.projects {
		c := *p
		projects = append(projects, &c)
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].ID < projects[j].ID
	})
	return projects, nil
}

func (r *TestRepo) BySlug(_ context.Context, slug string) (*Project, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	if p := r.bySlug(slug); p != nil {
		c := *p
		return &c, nil
	}
	return nil, ErrProjectNotFound
}

func (r *TestRepo) ByID(_ context.Context, id int) (*Project, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	p, ok := r.projects[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	c := *p
	return &c, nil
}

func (r *TestRepo) Create(_ context.Context, p *Project) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return r.Err
	}

	if r.bySlug(p.Slug) != nil {
		return ErrSlugExists
	}

	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = r.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	c := *p
	r.projects[p.ID] = &c
	return nil
}

func (r *TestRepo) Update(_ context.Context, id int, req UpdateRequest) (*Project, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	existing, ok := r.projects[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	if slug, changed := req.SlugChange(existing.Slug); changed && r.bySlug(slug) != nil {
		return nil, ErrSlugExists
	}

	p := *existing
	req.Apply(&p)
	p.UpdatedAt = r.Now().UTC()
	r.projects[id] = &p

	c := p
	return &c, nil
}

func (r *TestRepo) Delete(_ context.Context, id int) (string, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return "", r.Err
	}

	p, ok := r.projects[id]
	if !ok {
		return "", ErrProjectNotFound
	}
	delete(r.projects, id)
	return p.Slug, nil
}

func (r *TestRepo) Counts(_ context.Context) (Counts, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return Counts{}, r.Err
	}

	c := Counts{Total: len(r.projects)}
	for _, p := range r.projects {
		if p.Featured {
			c.Featured++
		}
	}
	return c, nil
}

func (r *TestRepo) bySlug(slug string) *Project {
	for _, p := range r.projects {
		if p.Slug == slug {
			return p
		}
	}
	return nil
}
