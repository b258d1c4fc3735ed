package misc

import (
	"context"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/neuralspace/internal/telemetry/tracing"
	"github.com/2beens/neuralspace/pkg"
)

const (
	APIName = "Neural Space Portfolio API"

	StatusHealthy      = "healthy"
	StatusUnhealthy    = "unhealthy"
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
	StatusDisabled     = "disabled"

	pingTimeout = 2 * time.Second
)

type dbPinger interface {
	Ping(ctx context.Context) error
}

type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

type Handler struct {
	db          dbPinger
	redisClient *redis.Client
	versionInfo string
}

// NewHandler takes a nil redisClient when rate limiting runs without Redis.
func NewHandler(db dbPinger, redisClient *redis.Client, versionInfo string) *Handler {
	return &Handler{
		db:          db,
		redisClient: redisClient,
		versionInfo: versionInfo,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/health", handler.handleHealth).Methods("GET").Name("health")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
	mainRouter.HandleFunc("/myip", handler.handleGetMyIp).Methods("GET").Name("myip")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSONResponseOK(w, RootResponse{
		Message: APIName,
		Version: handler.versionInfo,
		Status:  "running",
	})
}

// handleHealth answers 200 either way; only the database decides the status.
func (handler *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.health")
	defer span.End()

	resp := handler.Health(ctx)
	span.SetAttributes(
		attribute.String("health.database", resp.Database),
		attribute.String("health.redis", resp.Redis),
	)
	pkg.WriteJSONResponseOK(w, resp)
}

func (handler *Handler) Health(ctx context.Context) HealthResponse {
	resp := HealthResponse{
		Status:   StatusHealthy,
		Database: StatusConnected,
		Redis:    StatusDisabled,
	}

	dbCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if handler.db == nil || handler.db.Ping(dbCtx) != nil {
		log.Warn("health check: database unreachable")
		resp.Status = StatusUnhealthy
		resp.Database = StatusDisconnected
	}

	if handler.redisClient != nil {
		redisCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := handler.redisClient.Ping(redisCtx).Err(); err != nil {
			log.Warnf("health check: redis ping: %s", err)
			resp.Redis = StatusDisconnected
		} else {
			resp.Redis = StatusConnected
		}
	}

	return resp
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteResponse(w, pkg.ContentType.Text, handler.versionInfo, http.StatusOK)
}

func (handler *Handler) handleGetMyIp(w http.ResponseWriter, r *http.Request) {
	ip, err := pkg.ClientIP(r)
	if err != nil {
		log.Errorf("failed to get user IP address: %s", err)
		http.Error(w, "failed to get IP", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponse(w, pkg.ContentType.Text, ip, http.StatusOK)
}
