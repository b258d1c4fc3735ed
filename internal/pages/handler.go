package pages

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

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
}

func NewHandler(repo Repository, contentCache *cache.ContentCache, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		contentCache:   contentCache,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(apiRouter *mux.Router) {
	apiRouter.HandleFunc("/pages/{key}", handler.handleGetPage).Methods("GET", "OPTIONS").Name("page")
}

func (handler *Handler) SetupAdminRoutes(adminRouter *mux.Router) {
	adminRouter.HandleFunc("/pages", handler.handleAdminAll).Methods("GET", "OPTIONS").Name("admin-pages")
	adminRouter.HandleFunc("/pages/{key}", handler.handleAdminGetPage).Methods("GET", "OPTIONS").Name("admin-page")
	adminRouter.HandleFunc("/pages/{key}", handler.handleUpdatePage).Methods("PUT").Name("admin-update-page")
}

func (handler *Handler) handleGetPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "pagesHandler.get")
	defer span.End()

	key := mux.Vars(r)["key"]
	err := handler.contentCache.ServeJSON(w, cache.KindPages, key, func() (any, error) {
		page, err := handler.repo.ByKey(ctx, key)
		if err != nil {
			return nil, err
		}
		return page, nil
	})
	if err != nil {
		handler.writeErr(w, key, err)
	}
}

func (handler *Handler) handleAdminAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "pagesHandler.adminAll")
	defer span.End()

	pages, err := handler.repo.All(ctx)
	if err != nil {
		apierr.Write(w, fmt.Errorf("get pages: %w", err))
		return
	}

	log.Debugf("admin %s fetched %d static pages", auth.AdminName(ctx), len(pages))
	pkg.WriteJSONResponseOK(w, pages)
}

func (handler *Handler) handleAdminGetPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "pagesHandler.adminGet")
	defer span.End()

	key := mux.Vars(r)["key"]
	page, err := handler.repo.ByKey(ctx, key)
	if err != nil {
		handler.writeErr(w, key, err)
		return
	}
	pkg.WriteJSONResponseOK(w, page)
}

func (handler *Handler) handleUpdatePage(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "pagesHandler.update")
	defer span.End()

	key := mux.Vars(r)["key"]
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update page, unmarshal json params: %s", err)
		apierr.Write(w, apierr.BadRequest("invalid page request"))
		return
	}
	if err := apierr.Validate(req); err != nil {
		apierr.Write(w, err)
		return
	}

	page, err := handler.repo.Update(ctx, key, req.Title, req.Content)
	if err != nil {
		handler.writeErr(w, key, err)
		return
	}

	handler.contentCache.Invalidate(cache.KindPages)
	handler.metricsManager.ContentWrite("page", "update")
	log.Infof("admin %s updated page: %s", auth.AdminName(ctx), key)
	pkg.WriteJSONResponseOK(w, page)
}

func (handler *Handler) writeErr(w http.ResponseWriter, key string, err error) {
	if errors.Is(err, ErrPageNotFound) {
		apierr.Write(w, apierr.NotFound("Page with key '%s' not found", key))
		return
	}
	apierr.Write(w, fmt.Errorf("page %s: %w", key, err))
}
