package blog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/neuralspace/internal/apierr"
	"github.com/2beens/neuralspace/internal/auth"
	"github.com/2beens/neuralspace/internal/cache"
	"github.com/2beens/neuralspace/internal/telemetry/metrics"
	"github.com/2beens/neuralspace/internal/telemetry/tracing"
	"github.com/2beens/neuralspace/pkg"
)

type Handler struct {
	repo           Repository
	contentCache   *cache.ContentCache
	metricsManager *metrics.Manager

	Now func() time.Time
}

func NewBlogHandler(
	repo Repository,
	contentCache *cache.ContentCache,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:           repo,
		contentCache:   contentCache,
		metricsManager: metricsManager,
		Now:            time.Now,
	}
}

func (handler *Handler) SetupRoutes(apiRouter *mux.Router) {
	apiRouter.HandleFunc("/blogs", handler.handleAll).Methods("GET", "OPTIONS").Name("blogs")
	apiRouter.HandleFunc("/blogs/{slug}", handler.handleBySlug).Methods("GET", "OPTIONS").Name("blog-by-slug")
}

func (handler *Handler) SetupAdminRoutes(adminRouter *mux.Router) {
	adminRouter.HandleFunc("/blogs", handler.handleAdminAll).Methods("GET", "OPTIONS").Name("admin-blogs")
	adminRouter.HandleFunc("/blogs", handler.handleNewBlog).Methods("POST").Name("admin-new-blog")
	adminRouter.HandleFunc("/blogs/{id:[0-9]+}", handler.handleUpdateBlog).Methods("PUT", "OPTIONS").Name("admin-update-blog")
	adminRouter.HandleFunc("/blogs/{id:[0-9]+}", handler.handleDeleteBlog).Methods("DELETE").Name("admin-delete-blog")
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.all")
	defer span.End()

	err := handler.contentCache.ServeJSON(w, cache.KindBlogs, "all", func() (any, error) {
		blogs, err := handler.repo.All(ctx)
		if err != nil {
			return nil, err
		}
		return PublicList(blogs), nil
	})
	if err != nil {
		span.RecordError(err)
		apierr.Write(w, fmt.Errorf("get blogs: %w", err))
	}
}

func (handler *Handler) handleBySlug(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.bySlug")
	defer span.End()

	slug := mux.Vars(r)["slug"]
	err := handler.contentCache.ServeJSON(w, cache.KindBlogs, "slug:"+slug, func() (any, error) {
		b, err := handler.repo.BySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		return b.Public(), nil
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrBlogNotFound):
		apierr.Write(w, apierr.NotFound("Blog with slug '%s' not found", slug))
	default:
		apierr.Write(w, fmt.Errorf("get blog %s: %w", slug, err))
	}
}

func (handler *Handler) handleAdminAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.adminAll")
	defer span.End()

	blogs, err := handler.repo.All(ctx)
	if err != nil {
		apierr.Write(w, fmt.Errorf("get admin blogs: %w", err))
		return
	}

	log.Debugf("admin %s fetched %d blogs", auth.AdminName(ctx), len(blogs))
	pkg.WriteJSONResponseOK(w, AdminList(blogs))
}

func (handler *Handler) handleNewBlog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.new")
	defer span.End()

	var newBlogReq CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&newBlogReq); err != nil {
		log.Tracef("new blog, unmarshal json params: %s", err)
		apierr.Write(w, apierr.BadRequest("invalid blog request"))
		return
	}
	if err := apierr.Validate(newBlogReq); err != nil {
		apierr.Write(w, err)
		return
	}

	newBlog := newBlogReq.Blog(handler.Now())
	if err := handler.repo.Create(ctx, newBlog); err != nil {
		if errors.Is(err, ErrSlugExists) {
			apierr.Write(w, apierr.Conflict("Blog with slug '%s' already exists", newBlogReq.Slug))
			return
		}
		apierr.Write(w, fmt.Errorf("add new blog: %w", err))
		return
	}

	handler.written("create")
	log.Infof("admin %s created blog %d: %s", auth.AdminName(ctx), newBlog.ID, newBlog.Slug)
	pkg.WriteJSONResponse(w, newBlog.Admin(), http.StatusCreated)
}

func (handler *Handler) handleUpdateBlog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.update")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		apierr.Write(w, apierr.BadRequest("invalid blog id"))
		return
	}

	var updateBlogReq UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&updateBlogReq); err != nil {
		log.Tracef("update blog, unmarshal json params: %s", err)
		apierr.Write(w, apierr.BadRequest("invalid blog request"))
		return
	}
	if err := apierr.Validate(updateBlogReq); err != nil {
		apierr.Write(w, err)
		return
	}

	updated, err := handler.repo.Update(ctx, id, updateBlogReq, handler.Now())
	switch {
	case errors.Is(err, ErrBlogNotFound):
		apierr.Write(w, apierr.NotFound("Blog with ID %d not found", id))
		return
	case errors.Is(err, ErrSlugExists):
		apierr.Write(w, apierr.Conflict("Blog with slug '%s' already exists", *updateBlogReq.Slug))
		return
	case err != nil:
		apierr.Write(w, fmt.Errorf("update blog %d: %w", id, err))
		return
	}

	handler.written("update")
	log.Infof("admin %s updated blog: %s", auth.AdminName(ctx), updated.Slug)
	pkg.WriteJSONResponseOK(w, updated.Admin())
}

func (handler *Handler) handleDeleteBlog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.delete")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		apierr.Write(w, apierr.BadRequest("invalid blog id"))
		return
	}

	slug, err := handler.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBlogNotFound) {
			apierr.Write(w, apierr.NotFound("Blog with ID %d not found", id))
			return
		}
		apierr.Write(w, fmt.Errorf("delete blog %d: %w", id, err))
		return
	}

	handler.written("delete")
	log.Infof("admin %s deleted blog: %s", auth.AdminName(ctx), slug)
	pkg.WriteJSONResponseOK(w, DeleteResponse{
		Success: true,
		Message: fmt.Sprintf("Blog '%s' deleted successfully", slug),
	})
}

func (handler *Handler) written(op string) {
	handler.contentCache.Invalidate(cache.KindBlogs, cache.KindNeural)
	handler.metricsManager.ContentWrite("blog", op)
}
