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
	"github.com/coocood/freecache"
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
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"

	"github.com/fitmix/backend/internal/auth"
	"github.com/fitmix/backend/internal/config"
	"github.com/fitmix/backend/internal/db"
	"github.com/fitmix/backend/internal/generator"
	fitmixmcp "github.com/fitmix/backend/internal/mcp"
	"github.com/fitmix/backend/internal/middleware"
	"github.com/fitmix/backend/internal/profile"
	"github.com/fitmix/backend/internal/progress"
	"github.com/fitmix/backend/internal/telemetry/metrics"
	"github.com/fitmix/backend/internal/telemetry/tracing"
	"github.com/fitmix/backend/internal/workouts"
	"github.com/fitmix/backend/pkg"
)

const sessionsCleanupInterval = 8 * time.Hour

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	redisClient  *redis.Client
	loginChecker auth.Checker
	authService  *auth.Service

	textGenerator generator.TextGenerator
	objectStore   profile.ObjectStore
	// set only with the disk storage backend
	diskStore *profile.DiskStore

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()

	cancelBackground context.CancelFunc
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	PostgresPassword        string
	RedisPassword           string
	GeminiAPIKey            string
	GCSCredentialsFile      string
	HoneycombTracingEnabled bool
	// replaces the gemini client when set
	TextGenerator generator.TextGenerator
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	} else if err := db.Migrate(ctx, dbPool); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fitmix-backend", rdb)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   2 * time.Minute,
	}

	textGenerator := params.TextGenerator
	if textGenerator == nil {
		textGenerator, err = generator.NewGeminiClient(ctx, params.GeminiAPIKey, cfg.GeminiModel, tracedHttpClient)
		if err != nil {
			return nil, fmt.Errorf("new gemini client: %w", err)
		}
	}

	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	sessionsCache := freecache.NewCache(auth.DefaultSessionsCacheSize)
	authService := auth.NewAuthService(
		auth.NewUsersRepo(dbPool),
		sessionTTL,
		rdb,
		sessionsCache,
	)

	s := &Server{
		config:      cfg,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(sessionTTL, rdb, sessionsCache),

		textGenerator: textGenerator,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	if err := s.setupObjectStore(ctx, params); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Server) setupObjectStore(ctx context.Context, params NewServerParams) error {
	switch s.config.StorageBackend {
	case "gcs":
		opts := []option.ClientOption{}
		if params.GCSCredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(params.GCSCredentialsFile))
		}
		gcsStore, err := profile.NewGCSStore(ctx, s.config.StorageBucket, s.config.StoragePublicBaseURL, opts...)
		if err != nil {
			return fmt.Errorf("new gcs store: %w", err)
		}
		s.objectStore = gcsStore
		log.Debugf("object storage: gcs bucket [%s]", s.config.StorageBucket)
	default:
		publicBaseURL := s.config.StoragePublicBaseURL
		if publicBaseURL == "" {
			publicBaseURL = fmt.Sprintf("http://%s/media", net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port)))
		}
		diskStore, err := profile.NewDiskStore(s.config.StorageDiskRootPath, publicBaseURL)
		if err != nil {
			return fmt.Errorf("new disk store: %w", err)
		}
		s.objectStore = diskStore
		s.diskStore = diskStore
		log.Debugf("object storage: disk [%s]", s.config.StorageDiskRootPath)
	}
	return nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteJSON(w, map[string]string{"service": "fitmix", "version": s.versionInfo}, http.StatusOK)
	}).Methods("GET").Name("root")

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	authRouter := r.PathPrefix("/auth").Subrouter()
	authRouter.Use(middleware.RateLimit(reqRateLimiter, "auth", s.config.AuthRateLimitAllowedPerMin, s.metricsManager))
	auth.NewHandler(s.authService, s.metricsManager).SetupRoutes(authRouter)

	workoutsRepo := workouts.NewRepo(s.dbPool)
	workouts.NewHandler(workoutsRepo, s.metricsManager).SetupRoutes(r.PathPrefix("/workouts").Subrouter())

	progressService := progress.NewService(workoutsRepo, s.metricsManager)
	progress.NewHandler(progressService).SetupRoutes(r.PathPrefix("/progress").Subrouter())

	generatorRouter := r.PathPrefix("/generate").Subrouter()
	generatorRouter.Use(middleware.RateLimit(reqRateLimiter, "generate", s.config.GenRateLimitAllowedPerMin, s.metricsManager))
	generator.NewHandler(
		generator.NewService(s.textGenerator, s.metricsManager),
		workoutsRepo,
	).SetupRoutes(generatorRouter)

	profileService := profile.NewService(s.authService, s.objectStore)
	profile.NewHandler(profileService).SetupRoutes(r.PathPrefix("/profile").Subrouter())
	if s.diskStore != nil {
		profile.NewMediaHandler(s.diskStore).SetupRoutes(r.PathPrefix("/media").Subrouter())
	}

	mcpService := fitmixmcp.NewContextService(progressService, workoutsRepo)
	r.PathPrefix("/mcp").Handler(fitmixmcp.NewHTTPHandler(mcpService)).Name("mcp")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.CorsAllowedOrigins...))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: 3 * time.Minute, // generation requests can be slow
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	bgCtx, cancel := context.WithCancel(ctx)
	s.cancelBackground = cancel
	go s.cleanSessionsPeriodically(bgCtx)

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) cleanSessionsPeriodically(ctx context.Context) {
	ticker := time.NewTicker(sessionsCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.authService.ScanAndClean(ctx)
		}
	}
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)
	if s.cancelBackground != nil {
		s.cancelBackground()
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop accepting requests first, the handlers still need redis and postgres
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if s.httpServer == nil {
			return nil
		}
		if err := s.httpServer.Shutdown(gCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		log.Warnln("server shut down")
		return nil
	})
	g.Go(func() error {
		if s.metricsHttpServer == nil {
			return nil
		}
		if err := s.metricsHttpServer.Shutdown(gCtx); err != nil {
			return fmt.Errorf("shutdown metrics http server: %w", err)
		}
		log.Warnln("metrics server shut down")
		return nil
	})
	shutdownErr := g.Wait()

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			shutdownErr = multierr.Append(shutdownErr, fmt.Errorf("close redis client: %w", err))
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

	for _, err := range multierr.Errors(shutdownErr) {
		log.Errorf(" >>> graceful shutdown: %s", err)
	}
}
