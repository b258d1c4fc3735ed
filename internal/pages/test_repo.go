package pages

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/2beens/neuralspace/internal/textjson"
)

var _ Repository = (*TestRepo)(nil)

type TestRepo struct {
	mutex  sync.Mutex
	pages  map[string]*Page
	nextID int

	Now func() time.Time
	Err error
}

func NewTestRepo() *TestRepo {
	return &TestRepo{
		pages: map[string]*Page{},
		Now:   time.Now,
	}
}

func (r *TestRepo) All(_ context.Context) ([]*Page, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	pages := make([]*Page, 0, len(r.pages))
	for _, p := range r.pages {
		c := *p
		pages = append(pages, &c)
	}
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Key < pages[j].Key
	})
	return pages, nil
}

func (r *TestRepo) ByKey(_ context.Context, key string) (*Page, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	p, ok := r.pages[key]
	if !ok {
		return nil, ErrPageNotFound
	}
	c := *p
	return &c, nil
}

func (r *TestRepo) Update(_ context.Context, key, title string, content textjson.Document) (*Page, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	p, ok := r.pages[key]
	if !ok {
		return nil, ErrPageNotFound
	}
	p.Title = title
	p.Content = content
	p.UpdatedAt = r.Now().UTC()
	c := *p
	return &c, nil
}

func (r *TestRepo) CreateIfMissing(_ context.Context, key, title string, content textjson.Document) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return false, r.Err
	}

	if _, ok := r.pages[key]; ok {
		return false, nil
	}
	r.nextID++
	now := r.Now().UTC()
	r.pages[key] = &Page{
		ID:        r.nextID,
		Key:       key,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return true, nil
}
