package pages

import (
	"context"
	"errors"
	"time"

	"github.com/2beens/neuralspace/internal/textjson"
)

var ErrPageNotFound = errors.New("page not found")

// Page is an editable JSON document keyed by a short name (home, about).
type Page struct {
	ID        int               `json:"id"`
	Key       string            `json:"page_key"`
	Title     string            `json:"title"`
	Content   textjson.Document `json:"content"`
	UpdatedAt time.Time         `json:"updated_at"`
	CreatedAt time.Time         `json:"created_at"`
}

type UpdateRequest struct {
	Title   string            `json:"title" validate:"required,max=200"`
	Content textjson.Document `json:"content" validate:"required"`
}

type Repository interface {
	All(ctx context.Context) ([]*Page, error)
	ByKey(ctx context.Context, key string) (*Page, error)
	Update(ctx context.Context, key, title string, content textjson.Document) (*Page, error)
	// CreateIfMissing reports whether the page was inserted.
	CreateIfMissing(ctx context.Context, key, title string, content textjson.Document) (bool, error)
}
