package blog

import (
	"errors"
	"time"

	"github.com/2beens/neuralspace/internal/textjson"
)

const DefaultAuthor = "Satyam"

var (
	ErrBlogNotFound = errors.New("blog not found")
	ErrSlugExists   = errors.New("blog slug already exists")
)

type Blog struct {
	ID          int
	Title       string
	Slug        string
	Content     string
	Summary     *string
	Author      string
	Tags        textjson.StringList
	ImageURL    *string
	Published   bool
	PublishedAt *time.Time
	PositionX   float64
	PositionY   float64
	PositionZ   float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Public struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	Summary   *string   `json:"summary"`
	PositionX float64   `json:"position_x"`
	PositionY float64   `json:"position_y"`
	PositionZ float64   `json:"position_z"`
	CreatedAt time.Time `json:"created_at"`
}

type Admin struct {
	Public
	Published   bool                `json:"published"`
	Author      string              `json:"author"`
	Tags        textjson.StringList `json:"tags"`
	ImageURL    *string             `json:"image_url"`
	PublishedAt *time.Time          `json:"published_at"`
}

func (b *Blog) Public() Public {
	return Public{
		ID:        b.ID,
		Title:     b.Title,
		Slug:      b.Slug,
		Content:   b.Content,
		Summary:   b.Summary,
		PositionX: b.PositionX,
		PositionY: b.PositionY,
		PositionZ: b.PositionZ,
		CreatedAt: b.CreatedAt,
	}
}

func (b *Blog) Admin() Admin {
	return Admin{
		Public:      b.Public(),
		Published:   b.Published,
		Author:      b.Author,
		Tags:        b.Tags,
		ImageURL:    b.ImageURL,
		PublishedAt: b.PublishedAt,
	}
}

func PublicList(blogs []*Blog) []Public {
	list := make([]Public, 0, len(blogs))
	for _, b := range blogs {
		list = append(list, b.Public())
	}
	return list
}

func AdminList(blogs []*Blog) []Admin {
	list := make([]Admin, 0, len(blogs))
	for _, b := range blogs {
		list = append(list, b.Admin())
	}
	return list
}

type CreateRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Slug        string     `json:"slug" validate:"required,max=200"`
	Content     string     `json:"content" validate:"required"`
	Summary     *string    `json:"summary"`
	Published   bool       `json:"published"`
	Author      *string    `json:"author" validate:"omitempty,max=100"`
	Tags        []string   `json:"tags" validate:"omitempty,dive,required"`
	ImageURL    *string    `json:"image_url" validate:"omitempty,max=500"`
	PublishedAt *time.Time `json:"published_at"`
	PositionX   *float64   `json:"position_x" validate:"required"`
	PositionY   *float64   `json:"position_y" validate:"required"`
	PositionZ   *float64   `json:"position_z" validate:"required"`
}

// Blog must only be called on a validated request. now stamps
// published_at for posts created as published without one.
func (req CreateRequest) Blog(now time.Time) *Blog {
	b := &Blog{
		Title:       req.Title,
		Slug:        req.Slug,
		Content:     req.Content,
		Summary:     nonEmpty(req.Summary),
		Author:      DefaultAuthor,
		Tags:        textjson.StringList(req.Tags),
		ImageURL:    nonEmpty(req.ImageURL),
		Published:   req.Published,
		PublishedAt: req.PublishedAt,
		PositionX:   *req.PositionX,
		PositionY:   *req.PositionY,
		PositionZ:   *req.PositionZ,
	}
	if req.Author != nil && *req.Author != "" {
		b.Author = *req.Author
	}
	if b.Published && b.PublishedAt == nil {
		published := now.UTC()
		b.PublishedAt = &published
	}
	return b
}

// UpdateRequest is a partial update: nil fields are left unchanged, an
// empty string clears an optional field.
type UpdateRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Slug        *string    `json:"slug" validate:"omitempty,min=1,max=200"`
	Content     *string    `json:"content" validate:"omitempty,min=1"`
	Summary     *string    `json:"summary"`
	Published   *bool      `json:"published"`
	Author      *string    `json:"author" validate:"omitempty,max=100"`
	Tags        *[]string  `json:"tags"`
	ImageURL    *string    `json:"image_url" validate:"omitempty,max=500"`
	PublishedAt *time.Time `json:"published_at"`
	PositionX   *float64   `json:"position_x"`
	PositionY   *float64   `json:"position_y"`
	PositionZ   *float64   `json:"position_z"`
}

func (req UpdateRequest) SlugChange(current string) (string, bool) {
	if req.Slug == nil || *req.Slug == "" || *req.Slug == current {
		return "", false
	}
	return *req.Slug, true
}

// Apply merges the request into b. Publishing a post that has no
// published_at stamps it with now.
func (req UpdateRequest) Apply(b *Blog, now time.Time) {
	if req.Title != nil && *req.Title != "" {
		b.Title = *req.Title
	}
	if req.Slug != nil && *req.Slug != "" {
		b.Slug = *req.Slug
	}
	if req.Content != nil && *req.Content != "" {
		b.Content = *req.Content
	}
	if req.Summary != nil {
		b.Summary = nonEmpty(req.Summary)
	}
	if req.Author != nil && *req.Author != "" {
		b.Author = *req.Author
	}
	if req.Tags != nil {
		b.Tags = textjson.StringList(*req.Tags)
	}
	if req.ImageURL != nil {
		b.ImageURL = nonEmpty(req.ImageURL)
	}
	if req.PublishedAt != nil {
		publishedAt := *req.PublishedAt
		b.PublishedAt = &publishedAt
	}
	if req.Published != nil {
		b.Published = *req.Published
		if b.Published && b.PublishedAt == nil {
			published := now.UTC()
			b.PublishedAt = &published
		}
	}
	if req.PositionX != nil {
		b.PositionX = *req.PositionX
	}
	if req.PositionY != nil {
		b.PositionY = *req.PositionY
	}
	if req.PositionZ != nil {
		b.PositionZ = *req.PositionZ
	}
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
