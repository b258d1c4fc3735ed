package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"

	"github.com/2beens/neuralspace/internal/auth"
	"github.com/2beens/neuralspace/internal/blog"
	"github.com/2beens/neuralspace/internal/cache"
	"github.com/2beens/neuralspace/internal/config"
	"github.com/2beens/neuralspace/internal/dashboard"
	"github.com/2beens/neuralspace/internal/db"
	"github.com/2beens/neuralspace/internal/middleware"
	"github.com/2beens/neuralspace/internal/misc"
	"github.com/2beens/neuralspace/internal/pages"
	"github.com/2beens/neuralspace/internal/project"
	"github.com/2beens/neuralspace/internal/telemetry/metrics"
	"github.com/2beens/neuralspace/internal/telemetry/tracing"
)

const (
	apiPrefix   = "/api"
	adminPrefix = "/admin"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	database    pinger
	redisClient *redis.Client
	// nil when redis is not configured; login is then not rate limited
	rateLimiter middleware.RequestRateLimiter

	authService  *auth.Service
	cookies      auth.Cookies
	contentCache *cache.ContentCache
	projectsRepo project.Repository
	blogsRepo    blog.Repository
	pagesRepo    pages.Repository

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	VersionInfo string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DatabaseURL:     cfg.DatabaseURL,
		ApplicationName: cfg.OtelServiceName,
		MaxConns:        cfg.DBMaxConns,
		MaxConnIdleTime: cfg.DBMaxIdleTime,
		TracingEnabled:  cfg.HoneycombEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	} else if cfg.DBAutoMigrate {
		if err := db.Migrate(ctx, dbPool); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": dbPool.Config().ConnConfig.Database},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	var (
		rdb         *redis.Client
		rateLimiter middleware.RequestRateLimiter
	)
	if cfg.RedisEnabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
			DB:       0, // use default DB
		})

		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
		rateLimiter = redis_rate.NewLimiter(rdb)
	} else {
		log.Warnln("redis not configured, login rate limiting disabled")
	}

	otelShutdown, err := tracing.HoneycombSetup(cfg.HoneycombEnabled, cfg.OtelServiceName, rdb)
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	sessionRepo := auth.NewSessionRepo(dbPool)
	issuer := auth.NewIssuer(cfg.SessionLifetime)
	authService := auth.NewService(
		auth.NewAdminRepo(dbPool),
		sessionRepo,
		db.NewTransactor(dbPool),
		auth.NewHasher(),
		issuer,
	)

	return &Server{
		config:      cfg,
		versionInfo: params.VersionInfo,

		dbPool:      dbPool,
		database:    dbPool,
		redisClient: rdb,
		rateLimiter: rateLimiter,

		authService: authService,
		cookies:     auth.NewCookies(cfg.CookieSecure, issuer.Lifetime()),
		contentCache: cache.NewContentCache(
			cfg.CacheSizeMB*1024*1024,
			cfg.CacheTTLSeconds,
			metricsManager,
		),
		projectsRepo: project.NewRepo(dbPool),
		blogsRepo:    blog.NewRepo(dbPool),
		pagesRepo:    pages.NewRepo(dbPool),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	miscHandler := misc.NewHandler(s.database, s.redisClient, s.versionInfo)
	miscHandler.SetupRoutes(r)

	apiRouter := r.PathPrefix(apiPrefix).Subrouter()
	adminRouter := apiRouter.PathPrefix(adminPrefix).Subrouter()

	authHandler := auth.NewHandler(s.authService, s.cookies, s.metricsManager)
	sessionRouter := adminRouter.NewRoute().Subrouter()
	authHandler.SetupSessionRoutes(sessionRouter)
	if s.rateLimiter != nil {
		sessionRouter.Use(middleware.RateLimit(
			s.rateLimiter,
			"admin-session",
			s.config.LoginRateLimitPerMin,
			s.metricsManager,
		))
	}
	authHandler.SetupRoutes(adminRouter)

	projectHandler := project.NewHandler(s.projectsRepo, s.contentCache, s.metricsManager)
	projectHandler.SetupRoutes(apiRouter)
	projectHandler.SetupAdminRoutes(adminRouter)

	blogHandler := blog.NewBlogHandler(s.blogsRepo, s.contentCache, s.metricsManager)
	blogHandler.SetupRoutes(apiRouter)
	blogHandler.SetupAdminRoutes(adminRouter)

	pagesHandler := pages.NewHandler(s.pagesRepo, s.contentCache, s.metricsManager)
	pagesHandler.SetupRoutes(apiRouter)
	pagesHandler.SetupAdminRoutes(adminRouter)

	dashboardHandler := dashboard.NewHandler(s.projectsRepo, s.blogsRepo, s.contentCache)
	dashboardHandler.SetupRoutes(apiRouter)
	dashboardHandler.SetupAdminRoutes(adminRouter)

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.authService.Validator(), s.cookies)
	adminRouter.Use(authMiddleware.AuthCheck())

	r.Use(middleware.LogRequest())
	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      otelhttp.NewHandler(router, "neuralspace-http"),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	if s.config.MetricsPort > 0 {
		metricsRouter := mux.NewRouter()
		metricsRouter.Handle("/metrics", promhttp.HandlerFor(
			s.promRegistry,
			promhttp.HandlerOpts{Registry: s.promRegistry},
		))
		metricsAddr := net.JoinHostPort(host, strconv.Itoa(s.config.MetricsPort))
		s.metricsHttpServer = &http.Server{
			Addr:    metricsAddr,
			Handler: metricsRouter,
		}

		go func() {
			log.Debugf(" > metrics listening on: [%s]", metricsAddr)
			err := s.metricsHttpServer.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("metrics service, listen and serve: %s", err)
			}
		}()
	}

	go s.runSessionCleanup(ctx, s.config.SessionCleanupInterval)

	s.metricsManager.GaugeLifeSignal.Set(1)
}

// runSessionCleanup purges expired sessions every interval until ctx is done.
func (s *Server) runSessionCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debugln("session cleanup stopped")
			return
		case <-ticker.C:
			s.cleanSessions(ctx)
		}
	}
}

func (s *Server) cleanSessions(ctx context.Context) {
	begin := time.Now()
	removed, err := s.authService.CleanExpired(ctx)
	s.metricsManager.HistSessionCleanupDuration.Observe(time.Since(begin).Seconds())
	if err != nil {
		log.Errorf("clean expired sessions: %s", err)
		return
	}

	s.metricsManager.CounterSessionsCleaned.Add(float64(removed))
	if removed > 0 {
		log.Infof("removed %d expired sessions", removed)
	}
}

func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	var err error
	if s.httpServer != nil {
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown http server: %w", shutdownErr))
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if shutdownErr := s.metricsHttpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown metrics server: %w", shutdownErr))
		}
		log.Warnln("metrics server shut down")
	}

	if s.otelShutdown != nil {
		s.otelShutdown()
		log.Trace("otel shut down ...")
	}

	if s.redisClient != nil {
		if closeErr := s.redisClient.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close redis client: %w", closeErr))
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	return err
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
