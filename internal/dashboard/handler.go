// Package dashboard serves the combined scene feed for the 3D front end
// and the admin panel statistics.
package dashboard

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/neuralspace/internal/apierr"
	"github.com/2beens/neuralspace/internal/auth"
	"github.com/2beens/neuralspace/internal/blog"
	"github.com/2beens/neuralspace/internal/cache"
	"github.com/2beens/neuralspace/internal/project"
	"github.com/2beens/neuralspace/internal/telemetry/tracing"
	"github.com/2beens/neuralspace/pkg"
)

type projectSource interface {
	All(ctx context.Context) ([]*project.Project, error)
	Counts(ctx context.Context) (project.Counts, error)
}

type blogSource interface {
	All(ctx context.Context) ([]*blog.Blog, error)
	Counts(ctx context.Context) (blog.Counts, error)
}

type NeuralData struct {
	Projects []project.Public `json:"projects"`
	Blogs    []blog.Public    `json:"blogs"`
}

type Stats struct {
	TotalProjects    int `json:"total_projects"`
	TotalBlogs       int `json:"total_blogs"`
	PublishedBlogs   int `json:"published_blogs"`
	DraftBlogs       int `json:"draft_blogs"`
	FeaturedProjects int `json:"featured_projects"`
}

type Handler struct {
	projects     projectSource
	blogs        blogSource
	contentCache *cache.ContentCache
}

func NewHandler(projects projectSource, blogs blogSource, contentCache *cache.ContentCache) *Handler {
	return &Handler{
		projects:     projects,
		blogs:        blogs,
		contentCache: contentCache,
	}
}

func (handler *Handler) SetupRoutes(apiRouter *mux.Router) {
	apiRouter.HandleFunc("/neural-data", handler.handleNeuralData).Methods("GET", "OPTIONS").Name("neural-data")
}

func (handler *Handler) SetupAdminRoutes(adminRouter *mux.Router) {
	adminRouter.HandleFunc("/stats", handler.handleStats).Methods("GET", "OPTIONS").Name("admin-stats")
}

func (handler *Handler) handleNeuralData(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "dashboardHandler.neuralData")
	defer span.End()

	err := handler.contentCache.ServeJSON(w, cache.KindNeural, "all", func() (any, error) {
		data, err := handler.NeuralData(ctx)
		if err != nil {
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		span.RecordError(err)
		apierr.Write(w, fmt.Errorf("get neural data: %w", err))
	}
}

func (handler *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "dashboardHandler.stats")
	defer span.End()

	stats, err := handler.Stats(ctx)
	if err != nil {
		apierr.Write(w, fmt.Errorf("get dashboard stats: %w", err))
		return
	}

	log.Debugf("admin %s fetched dashboard stats", auth.AdminName(ctx))
	pkg.WriteJSONResponseOK(w, stats)
}

func (handler *Handler) NeuralData(ctx context.Context) (*NeuralData, error) {
	projects, err := handler.projects.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("projects: %w", err)
	}
	blogs, err := handler.blogs.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("blogs: %w", err)
	}

	return &NeuralData{
		Projects: project.PublicList(projects),
		Blogs:    blog.PublicList(blogs),
	}, nil
}

func (handler *Handler) Stats(ctx context.Context) (*Stats, error) {
	projectCounts, err := handler.projects.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("project counts: %w", err)
	}
	blogCounts, err := handler.blogs.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("blog counts: %w", err)
	}

	return &Stats{
		TotalProjects:    projectCounts.Total,
		TotalBlogs:       blogCounts.Total,
		PublishedBlogs:   blogCounts.Published,
		DraftBlogs:       blogCounts.Drafts(),
		FeaturedProjects: projectCounts.Featured,
	}, nil
}
