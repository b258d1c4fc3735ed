package project

import (
	"errors"
	"time"

	"github.com/2beens/neuralspace/internal/textjson"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrSlugExists      = errors.New("project slug already exists")
)

type Project struct {
	ID          int
	Title       string
	Slug        string
	Description string
	Content     *string
	TechStack   textjson.StringList
	GithubURL   *string
	LiveDemo    *string
	ImageURL    *string
	Featured    bool
	PositionX   float64
	PositionY   float64
	PositionZ   float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Public is the shape served to site visitors.
type Public struct {
	ID          int                 `json:"id"`
	Title       string              `json:"title"`
	Slug        string              `json:"slug"`
	Description string              `json:"description"`
	TechStack   textjson.StringList `json:"tech_stack"`
	GithubURL   *string             `json:"github_url"`
	LiveDemo    *string             `json:"live_demo"`
	ImageURL    *string             `json:"image_url"`
	PositionX   float64             `json:"position_x"`
	PositionY   float64             `json:"position_y"`
	PositionZ   float64             `json:"position_z"`
	CreatedAt   time.Time           `json:"created_at"`
}

// Admin extends Public with the fields only the admin panel edits.
type Admin struct {
	Public
	Content  *string `json:"content"`
	Featured bool    `json:"featured"`
}

func (p *Project) Public() Public {
	return Public{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		TechStack:   p.TechStack,
		GithubURL:   p.GithubURL,
		LiveDemo:    p.LiveDemo,
		ImageURL:    p.ImageURL,
		PositionX:   p.PositionX,
		PositionY:   p.PositionY,
		PositionZ:   p.PositionZ,
		CreatedAt:   p.CreatedAt,
	}
}

func (p *Project) Admin() Admin {
	return Admin{
		Public:   p.Public(),
		Content:  p.Content,
		Featured: p.Featured,
	}
}

func PublicList(projects []*Project) []Public {
	list := make([]Public, 0, len(projects))
	for _, p := range projects {
		list = append(list, p.Public())
	}
	return list
}

func AdminList(projects []*Project) []Admin {
	list := make([]Admin, 0, len(projects))
	for _, p := range projects {
		list = append(list, p.Admin())
	}
	return list
}

type CreateRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Slug        string   `json:"slug" validate:"required,max=200"`
	Description string   `json:"description" validate:"required"`
	Content     *string  `json:"content"`
	TechStack   []string `json:"tech_stack" validate:"required,dive,required"`
	GithubURL   *string  `json:"github_url" validate:"omitempty,max=500"`
	LiveDemo    *string  `json:"live_demo" validate:"omitempty,max=500"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,max=500"`
	Featured    bool     `json:"featured"`
	PositionX   *float64 `json:"position_x" validate:"required"`
	PositionY   *float64 `json:"position_y" validate:"required"`
	PositionZ   *float64 `json:"position_z" validate:"required"`
}

// Project must only be called on a validated request.
func (req CreateRequest) Project() *Project {
	return &Project{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Content:     req.Content,
		TechStack:   textjson.StringList(req.TechStack),
		GithubURL:   nonEmpty(req.GithubURL),
		LiveDemo:    nonEmpty(req.LiveDemo),
		ImageURL:    nonEmpty(req.ImageURL),
		Featured:    req.Featured,
		PositionX:   *req.PositionX,
		PositionY:   *req.PositionY,
		PositionZ:   *req.PositionZ,
	}
}

// UpdateRequest is a partial update: nil fields are left unchanged, an
// empty string clears an optional field.
type UpdateRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Slug        *string   `json:"slug" validate:"omitempty,min=1,max=200"`
	Description *string   `json:"description" validate:"omitempty,min=1"`
	Content     *string   `json:"content"`
	TechStack   *[]string `json:"tech_stack"`
	GithubURL   *string   `json:"github_url" validate:"omitempty,max=500"`
	LiveDemo    *string   `json:"live_demo" validate:"omitempty,max=500"`
	ImageURL    *string   `json:"image_url" validate:"omitempty,max=500"`
	Featured    *bool     `json:"featured"`
	PositionX   *float64  `json:"position_x"`
	PositionY   *float64  `json:"position_y"`
	PositionZ   *float64  `json:"position_z"`
}

// SlugChange returns the requested slug if it differs from current.
func (req UpdateRequest) SlugChange(current string) (string, bool) {
	if req.Slug == nil || *req.Slug == "" || *req.Slug == current {
		return "", false
	}
	return *req.Slug, true
}

func (req UpdateRequest) Apply(p *Project) {
	if req.Title != nil && *req.Title != "" {
		p.Title = *req.Title
	}
	if req.Slug != nil && *req.Slug != "" {
		p.Slug = *req.Slug
	}
	if req.Description != nil && *req.Description != "" {
		p.Description = *req.Description
	}
	if req.Content != nil {
		p.Content = nonEmpty(req.Content)
	}
	if req.TechStack != nil {
		p.TechStack = textjson.StringList(*req.TechStack)
	}
	if req.GithubURL != nil {
		p.GithubURL = nonEmpty(req.GithubURL)
	}
	if req.LiveDemo != nil {
		p.LiveDemo = nonEmpty(req.LiveDemo)
	}
	if req.ImageURL != nil {
		p.ImageURL = nonEmpty(req.ImageURL)
	}
	if req.Featured != nil {
		p.Featured = *req.Featured
	}
	if req.PositionX != nil {
		p.PositionX = *req.PositionX
	}
	if req.PositionY != nil {
		p.PositionY = *req.PositionY
	}
	if req.PositionZ != nil {
		p.PositionZ = *req.PositionZ
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
