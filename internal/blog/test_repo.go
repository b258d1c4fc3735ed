package blog

import (
	"context"
	"sort"
	"sync"
	"time"
)

var _ Repository = (*TestRepo)(nil)

// TestRepo is an in-memory Repository.
type TestRepo struct {
	Posts map[int]*Blog
	mutex sync.Mutex

	nextID int
	Now    func() time.Time
	Err    error
}

func NewTestRepo() *TestRepo {
	return &TestRepo{
		Posts: make(map[int]*Blog),
		Now:   time.Now,
	}
}

func (r *TestRepo) PostsCount() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.Posts)
}

func (r *TestRepo) All(_ context.Context) ([]*Blog, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	blogs := make([]*Blog, 0, len(r.Posts))
	for _, b := range r.Posts {
		c := *b
		blogs = append(blogs, &c)
	}
	sort.Slice(blogs, func(i, j int) bool {
		if !blogs[i].CreatedAt.Equal(blogs[j].CreatedAt) {
			return blogs[i].CreatedAt.After(blogs[j].CreatedAt)
		}
		return blogs[i].ID > blogs[j].ID
	})
	return blogs, nil
}

func (r *TestRepo) BySlug(_ context.Context, slug string) (*Blog, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	if b := r.bySlug(slug); b != nil {
		c := *b
		return &c, nil
	}
	return nil, ErrBlogNotFound
}

func (r *TestRepo) Create(_ context.Context, b *Blog) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return r.Err
	}

	if r.bySlug(b.Slug) != nil {
		return ErrSlugExists
	}
	if b.Author == "" {
		b.Author = DefaultAuthor
	}

	r.nextID++
	b.ID = r.nextID
	if b.CreatedAt.IsZero() {
		b.CreatedAt = r.Now().UTC()
	}
	b.UpdatedAt = b.CreatedAt
	c := *b
	r.Posts[b.ID] = &c
	return nil
}

func (r *TestRepo) Update(_ context.Context, id int, req UpdateRequest, now time.Time) (*Blog, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	existing, ok := r.Posts[id]
	if !ok {
		return nil, ErrBlogNotFound
	}
	if slug, changed := req.SlugChange(existing.Slug); changed && r.bySlug(slug) != nil {
		return nil, ErrSlugExists
	}

	b := *existing
	req.Apply(&b, now)
	b.UpdatedAt = now.UTC()
	r.Posts[id] = &b

	c := b
	return &c, nil
}

func (r *TestRepo) Delete(_ context.Context, id int) (string, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return "", r.Err
	}

	b, ok := r.Posts[id]
	if !ok {
		return "", ErrBlogNotFound
	}
	delete(r.Posts, id)
	return b.Slug, nil
}

func (r *TestRepo) Counts(_ context.Context) (Counts, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return Counts{}, r.Err
	}

	c := Counts{Total: len(r.Posts)}
	for _, b := range r.Posts {
		if b.Published {
			c.Published++
		}
	}
	return c, nil
}

func (r *TestRepo) bySlug(slug string) *Blog {
	for _, b := range r.Posts {
		if b.Slug == slug {
			return b
		}
	}
	return nil
}
