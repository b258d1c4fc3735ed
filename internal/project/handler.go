package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/neuralspace/internal/apierr"
	"github.com/2beens/neuralspace/internal/auth"
	"github.com/2beens/neuralspace/internal/cache"
	"github.com/2beens/neuralspace/internal/telemetry/metrics"
	"github.com/2beens/neuralspace/internal/telemetry/tracing"
	"github.com/2beens/neuralspace/pkg"
)

const metricsKind = "project"

type Handler struct {
	repo           Repository
	contentCache   *cache.ContentCache
	metricsManager *metrics.Manager
}

func NewHandler(
	repo Repository,
	contentCache *cache.ContentCache,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:           repo,
		contentCache:   contentCache,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(apiRouter *mux.Router) {
	apiRouter.HandleFunc("/projects", handler.handleAll).Methods("GET", "OPTIONS").Name("projects")
	apiRouter.HandleFunc("/projects/{slug}", handler.handleBySlug).Methods("GET", "OPTIONS").Name("project-by-slug")
}

func (handler *Handler) SetupAdminRoutes(adminRouter *mux.Router) {
	adminRouter.HandleFunc("/projects", handler.handleAdminAll).Methods("GET", "OPTIONS").Name("admin-projects")
	adminRouter.HandleFunc("/projects", handler.handleCreate).Methods("POST").Name("admin-new-project")
	adminRouter.HandleFunc("/projects/{id:[0-9]+}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("admin-update-project")
	adminRouter.HandleFunc("/projects/{id:[0-9]+}", handler.handleDelete).Methods("DELETE").Name("admin-delete-project")
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "projectHandler.all")
	defer span.End()

	err := handler.contentCache.ServeJSON(w, cache.KindProjects, "all", func() (any, error) {
		projects, err := handler.repo.All(ctx)
		if err != nil {
			return nil, err
		}
		return PublicList(projects), nil
	})
	if err != nil {
		span.RecordError(err)
		apierr.Write(w, fmt.Errorf("get projects: %w", err))
	}
}

func (handler *Handler) handleBySlug(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "projectHandler.bySlug")
	defer span.End()

	slug := mux.Vars(r)["slug"]
	err := handler.contentCache.ServeJSON(w, cache.KindProjects, "slug:"+slug, func() (any, error) {
		p, err := handler.repo.BySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		return p.Public(), nil
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrProjectNotFound):
		apierr.Write(w, apierr.NotFound("Project with slug '%s' not found", slug))
	default:
		apierr.Write(w, fmt.Errorf("get project %s: %w", slug, err))
	}
}

func (handler *Handler) handleAdminAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "projectHandler.adminAll")
	defer span.End()

	projects, err := handler.repo.All(ctx)
	if err != nil {
		apierr.Write(w, fmt.Errorf("get admin projects: %w", err))
		return
	}

	log.Debugf("admin %s fetched %d projects", auth.AdminName(ctx), len(projects))
	pkg.WriteJSONResponseOK(w, AdminList(projects))
}

func (handler *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "projectHandler.create")
	defer span.End()

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("new project, unmarshal json params: %s", err)
		apierr.Write(w, apierr.BadRequest("invalid project request"))
		return
	}
	if err := apierr.Validate(req); err != nil {
		apierr.Write(w, err)
		return
	}

	p := req.Project()
	if err := handler.repo.Create(ctx, p); err != nil {
		if errors.Is(err, ErrSlugExists) {
			apierr.Write(w, apierr.Conflict("Project with slug '%s' already exists", req.Slug))
			return
		}
		apierr.Write(w, fmt.Errorf("create project: %w", err))
		return
	}

	handler.written("create")
	log.Infof("admin %s created project: %s", auth.AdminName(ctx), p.Slug)
	pkg.WriteJSONResponse(w, p.Admin(), http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "projectHandler.update")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		apierr.Write(w, apierr.BadRequest("invalid project id"))
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update project, unmarshal json params: %s", err)
		apierr.Write(w, apierr.BadRequest("invalid project request"))
		return
	}
	if err := apierr.Validate(req); err != nil {
		apierr.Write(w, err)
		return
	}

	p, err := handler.repo.Update(ctx, id, req)
	switch {
	case errors.Is(err, ErrProjectNotFound):
		apierr.Write(w, apierr.NotFound("Project with ID %d not found", id))
		return
	case errors.Is(err, ErrSlugExists):
		apierr.Write(w, apierr.Conflict("Project with slug '%s' already exists", *req.Slug))
		return
	case err != nil:
		apierr.Write(w, fmt.Errorf("update project %d: %w", id, err))
		return
	}

	handler.written("update")
	log.Infof("admin %s updated project: %s", auth.AdminName(ctx), p.Slug)
	pkg.WriteJSONResponseOK(w, p.Admin())
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "projectHandler.delete")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		apierr.Write(w, apierr.BadRequest("invalid project id"))
		return
	}

	slug, err := handler.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			apierr.Write(w, apierr.NotFound("Project with ID %d not found", id))
			return
		}
		apierr.Write(w, fmt.Errorf("delete project %d: %w", id, err))
		return
	}

	handler.written("delete")
	log.Infof("admin %s deleted project: %s", auth.AdminName(ctx), slug)
	pkg.WriteJSONResponseOK(w, DeleteResponse{
		Success: true,
		Message: fmt.Sprintf("Project '%s' deleted successfully", slug),
	})
}

func (handler *Handler) written(op string) {
	handler.contentCache.Invalidate(cache.KindProjects, cache.KindNeural)
	handler.metricsManager.ContentWrite(metricsKind, op)
}
