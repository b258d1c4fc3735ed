// Package seed holds the default static pages and sample portfolio content
// and inserts whatever is missing.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/neuralspace/internal/blog"
	"github.com/2beens/neuralspace/internal/project"
	"github.com/2beens/neuralspace/internal/textjson"
)

type pageCreator interface {
	CreateIfMissing(ctx context.Context, key, title string, content textjson.Document) (bool, error)
}

type projectCreator interface {
	Create(ctx context.Context, p *project.Project) error
}

type blogCreator interface {
	Create(ctx context.Context, b *blog.Blog) error
}

type Report struct {
	PagesCreated    int
	ProjectsCreated int
	BlogsCreated    int
	Skipped         int
}

func (r Report) String() string {
	return fmt.Sprintf(
		"pages created: %d, projects created: %d, blogs created: %d, already present: %d",
		r.PagesCreated, r.ProjectsCreated, r.BlogsCreated, r.Skipped,
	)
}

type Seeder struct {
	pages    pageCreator
	projects projectCreator
	blogs    blogCreator
	rng      *rand.Rand
}

// NewSeeder takes a nil rng for exact layouts without jitter.
func NewSeeder(pages pageCreator, projects projectCreator, blogs blogCreator, rng *rand.Rand) *Seeder {
	return &Seeder{
		pages:    pages,
		projects: projects,
		blogs:    blogs,
		rng:      rng,
	}
}

// Pages inserts the default static pages that do not exist yet.
func (s *Seeder) Pages(ctx context.Context) (Report, error) {
	var report Report
	for _, page := range DefaultPages {
		created, err := s.pages.CreateIfMissing(ctx, page.Key, page.Title, page.Content)
		if err != nil {
			return report, fmt.Errorf("seed page %s: %w", page.Key, err)
		}
		if created {
			log.Infof("page created: %s", page.Key)
			report.PagesCreated++
		} else {
			log.Debugf("page %s already exists, skipping", page.Key)
			report.Skipped++
		}
	}
	return report, nil
}

// Content inserts the sample projects (sphere layout) and blog posts
// (helix layout). Existing slugs are left alone.
func (s *Seeder) Content(ctx context.Context) (Report, error) {
	var report Report

	positions := SphereLayout(len(SampleProjects), s.rng)
	for i, ps := range SampleProjects {
		p := &project.Project{
			Title:       ps.Title,
			Slug:        ps.Slug,
			Description: ps.Description,
			TechStack:   textjson.StringList(ps.TechStack),
			GithubURL:   optional(ps.GithubURL),
			LiveDemo:    optional(ps.LiveDemo),
			ImageURL:    optional(ps.ImageURL),
			Featured:    i < 2,
			PositionX:   positions[i].X,
			PositionY:   positions[i].Y,
			PositionZ:   positions[i].Z,
		}
		err := s.projects.Create(ctx, p)
		switch {
		case errors.Is(err, project.ErrSlugExists):
			report.Skipped++
		case err != nil:
			return report, fmt.Errorf("seed project %s: %w", ps.Slug, err)
		default:
			log.Infof("project created: %s", ps.Slug)
			report.ProjectsCreated++
		}
	}

	positions = HelixLayout(len(SampleBlogs), s.rng)
	for i, bs := range SampleBlogs {
		b := &blog.Blog{
			Title:     bs.Title,
			Slug:      bs.Slug,
			Content:   bs.Content,
			Summary:   optional(bs.Summary),
			Author:    blog.DefaultAuthor,
			Tags:      textjson.StringList{},
			PositionX: positions[i].X,
			PositionY: positions[i].Y,
			PositionZ: positions[i].Z,
		}
		err := s.blogs.Create(ctx, b)
		switch {
		case errors.Is(err, blog.ErrSlugExists):
			report.Skipped++
		case err != nil:
			return report, fmt.Errorf("seed blog %s: %w", bs.Slug, err)
		default:
			log.Infof("blog created: %s", bs.Slug)
			report.BlogsCreated++
		}
	}

	return report, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
