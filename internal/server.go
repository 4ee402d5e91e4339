package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/2beens/gymtracker/internal/cache"
	"github.com/2beens/gymtracker/internal/config"
	"github.com/2beens/gymtracker/internal/db"
	"github.com/2beens/gymtracker/internal/gymtracker"
	"github.com/2beens/gymtracker/internal/gymtracker/state"
	"github.com/2beens/gymtracker/internal/middleware"
	"github.com/2beens/gymtracker/internal/shell"
	"github.com/2beens/gymtracker/internal/storage"
	"github.com/2beens/gymtracker/internal/telemetry/metrics"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"
	"github.com/2beens/gymtracker/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"
)

const megabyte = 1024 * 1024

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config       *config.Config
	store        storage.Store
	state        *state.Container
	caches       *cache.Storage
	registration *shell.Registration
	manifest     shell.Manifest

	redisClient *redis.Client
	dbPool      *pgxpool.Pool

	// telemetry
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	VersionInfo string
	// OriginTransport replaces the origin built from web_dir / origin_url.
	OriginTransport http.RoundTripper
	// PromRegistry replaces the default registry, tests use a fresh one.
	PromRegistry *prometheus.Registry
}

func NewServer(ctx context.Context, params NewServerParams) (_ *Server, err error) {
	cfg := params.Config
	s := &Server{
		config:      cfg,
		versionInfo: params.VersionInfo,
		manifest:    shell.DefaultManifest(),
	}
	// release whatever was opened before a failure
	defer func() {
		if err != nil {
			if shutdownErr := s.closeResources(); shutdownErr != nil {
				log.Errorf("new server cleanup: %s", shutdownErr)
			}
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	s.otelShutdown, err = tracing.HoneycombSetup(cfg.HoneycombEnabled, "gymtracker")
	if err != nil {
		return nil, fmt.Errorf("tracing setup: %w", err)
	}

	if cfg.RedisEnabled() {
		s.redisClient = db.NewRedisClient(ctx, db.NewRedisClientParams{
			Host:           cfg.RedisHost,
			Port:           cfg.RedisPort,
			Password:       cfg.RedisPassword,
			TracingEnabled: cfg.HoneycombEnabled,
		})
	}

	var extraCollectors []prometheus.Collector
	if cfg.StoreBackend == storage.BackendPostgres {
		s.dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     cfg.PostgresPass,
			TracingEnabled: cfg.HoneycombEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := s.dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		extraCollectors = append(extraCollectors, db.NewPoolCollector(s.dbPool, cfg.PostgresDBName))
	}

	s.promRegistry = params.PromRegistry
	if s.promRegistry == nil {
		s.promRegistry = metrics.SetupPrometheus(s.versionInfo, extraCollectors...)
	} else {
		s.promRegistry.MustRegister(extraCollectors...)
	}
	s.metricsManager = metrics.NewManager("gymtracker", "main", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	switch cfg.StoreBackend {
	case storage.BackendDisk, storage.BackendSqlite:
		if err := pkg.EnsureDir(cfg.DataDir); err != nil {
			return nil, fmt.Errorf("data dir: %w", err)
		}
	}
	s.store, err = storage.Open(ctx, storage.OpenParams{
		Backend:     cfg.StoreBackend,
		DataDir:     cfg.DataDir,
		SqlitePath:  cfg.SqlitePath,
		RedisClient: s.redisClient,
		DBPool:      s.dbPool,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	s.state = state.Open(ctx, s.store, s.metricsManager, cfg.SeedSampleData)

	originURL, originTransport, err := newOrigin(cfg, params.OriginTransport)
	if err != nil {
		return nil, err
	}

	s.caches = cache.NewStorage(cache.NewFreecachePartitionFactory(cfg.CachePartitionSizeMB * megabyte))
	s.registration, err = shell.NewRegistration(shell.Options{
		Version:         cfg.ShellVersion,
		PrecacheURLs:    cfg.PrecacheURLs,
		SkipWaiting:     cfg.SkipWaiting,
		Origin:          originURL,
		OriginTransport: originTransport,
	}, s.caches, s.metricsManager)
	if err != nil {
		return nil, fmt.Errorf("shell registration: %w", err)
	}

	return s, nil
}

// newOrigin returns the app origin URL and the transport fetching from it.
// A remote origin_url wins over web_dir.
func newOrigin(cfg *config.Config, override http.RoundTripper) (*url.URL, http.RoundTripper, error) {
	if cfg.OriginURL != "" {
		originURL, err := url.Parse(cfg.OriginURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse origin url: %w", err)
		}
		if override != nil {
			return originURL, override, nil
		}
		remote, err := shell.NewRemoteOrigin(cfg.OriginURL, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("remote origin: %w", err)
		}
		return originURL, remote, nil
	}

	originURL := &url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
	}
	if override != nil {
		return originURL, override, nil
	}
	dirOrigin, err := shell.NewDirOrigin(cfg.WebDir)
	if err != nil {
		return nil, nil, err
	}
	return originURL, dirOrigin, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("gymtracker-router"))

	var rateLimiter middleware.RequestRateLimiter
	if s.redisClient != nil {
		rateLimiter = redis_rate.NewLimiter(s.redisClient)
	}
	apiHandler := gymtracker.NewHandler(s.state)
	apiHandler.SetupRoutes(r, rateLimiter, s.config.ImportRateLimitPerMin, s.metricsManager)

	r.HandleFunc("/api/version", s.handleVersion).Methods("GET", "OPTIONS").Name("version")

	shellHandler, err := shell.NewHandler(s.registration, s.store, s.manifest)
	if err != nil {
		return nil, fmt.Errorf("shell handler: %w", err)
	}
	shellHandler.SetupRoutes(r)

	// unknown api paths must not reach the shell (it would answer with the app)
	r.PathPrefix("/api/").HandlerFunc(http.NotFound).Name("api-unknown")

	// all the rest - app assets and pages, served through the offline shell
	shellTransport := shell.NewTransport(s.registration)
	r.PathPrefix("/").HandlerFunc(shellTransport.ServeShell).Methods("GET", "HEAD").Name("shell")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	version := s.versionInfo
	if version == "" {
		version = "unknown"
	}
	pkg.WriteTextResponseOK(w, version)
}

// Serve registers the offline shell and starts the http and metrics listeners.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.registration.Register(ctx); err != nil {
		// requests pass through to the network until an update succeeds
		log.Errorf("register offline shell [%s]: %s", s.config.ShellVersion, err)
	}

	router, err := s.routerSetup()
	if err != nil {
		return fmt.Errorf("setup router: %w", err)
	}

	ipAndPort := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	s.httpServer = &http.Server{
		Handler: router,
		Addr:    ipAndPort,
		// long polled shell events stay below the write timeout
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}))
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

	s.metricsManager.GaugeLifeSignal.Set(1)
	return nil
}

// GracefulShutdown stops the listeners first, then the shell workers and the
// storage clients. All errors are returned combined.
func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")
	if s.metricsManager != nil {
		s.metricsManager.GaugeLifeSignal.Set(0)
	}

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
			err = multierr.Append(err, fmt.Errorf("shutdown metrics http server: %w", shutdownErr))
		}
		log.Warnln("metrics server shut down")
	}

	err = multierr.Append(err, s.closeResources())

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
	return err
}

func (s *Server) closeResources() error {
	var err error
	if s.registration != nil {
		s.registration.Stop()
		log.Trace("offline shell stopped ...")
	}

	if s.store != nil {
		if closeErr := s.store.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close store: %w", closeErr))
		}
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

	if s.otelShutdown != nil {
		s.otelShutdown()
		log.Trace("otel shut down ...")
	}
	return err
}
