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

	"github.com/2beens/gymflow/internal/analytics"
	"github.com/2beens/gymflow/internal/auth"
	"github.com/2beens/gymflow/internal/config"
	"github.com/2beens/gymflow/internal/db"
	"github.com/2beens/gymflow/internal/exerciseindex"
	"github.com/2beens/gymflow/internal/middleware"
	"github.com/2beens/gymflow/internal/misc"
	"github.com/2beens/gymflow/internal/notify"
	"github.com/2beens/gymflow/internal/telemetry/metrics"
	"github.com/2beens/gymflow/internal/telemetry/tracing"
	"github.com/2beens/gymflow/internal/workout/catalog"
	"github.com/2beens/gymflow/internal/workout/flow"
	"github.com/2beens/gymflow/internal/workout/session"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service
	notifier     *notify.Notifier

	writeQueue *session.WriteQueue
	flows      *flow.Registry
	analytics  *analytics.Service
	catalog    *exerciseindex.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()

	authCleanupCancel context.CancelFunc
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	PostgresPassword        string
	HoneycombTracingEnabled bool
	RunMigrations           bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	location, err := params.Config.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", params.Config.Timezone, err)
	}

	dbParams := db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.Config.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	}
	if params.RunMigrations {
		if err := db.RunMigrations(dbParams.ConnString()); err != nil {
			return nil, fmt.Errorf("migrate db: %w", err)
		}
	}

	dbPool, err := db.NewDBPool(ctx, dbParams)
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("gymflow", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewAuthService(
		auth.NewUsersRepo(dbPool),
		params.Config.AuthTokenTTL(),
		rdb,
	)
	authCleanupCtx, authCleanupCancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(time.Hour * 8)
		defer ticker.Stop()
		for {
			select {
			case <-authCleanupCtx.Done():
				return
			case <-ticker.C:
				authService.ScanAndClean(authCleanupCtx)
			}
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "gymflow-backend", rdb)
	if err != nil {
		authCleanupCancel()
		return nil, err
	}

	notifier := notify.NewNotifier(rdb, metricsManager)
	analyticsService := analytics.NewService(analytics.NewRepo(dbPool))

	writeQueue := session.NewWriteQueue(params.Config.SaveDebounce(), params.Config.WriteDeadline())
	flows := flow.NewRegistry(flow.RegistryParams{
		Repo:             session.NewRepo(dbPool, catalog.DefaultLogs),
		Queue:            writeQueue,
		Notifier:         notifier,
		Recorder:         analyticsService,
		Metrics:          metricsManager,
		Location:         location,
		AutoSaveInterval: params.Config.AutoSaveInterval(),
		WrapUpRepeat:     params.Config.WrapUpRepeat(),
	})

	catalogService := exerciseindex.NewService(
		exerciseindex.NewRepo(dbPool),
		notifier,
		params.Config.CatalogCacheSizeMB,
		params.Config.CatalogCacheTTL(),
	)

	return &Server{
		config:      params.Config,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(params.Config.AuthTokenTTL(), rdb),
		notifier:     notifier,

		writeQueue: writeQueue,
		flows:      flows,
		analytics:  analyticsService,
		catalog:    catalogService,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,

		authCleanupCancel: authCleanupCancel,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	miscHandler := misc.NewHandler(s.versionInfo, s.authService, s.flows.Drop)
	miscHandler.SetupRoutes(r, reqRateLimiter, s.metricsManager, s.config.LoginRateLimitAllowedPerMin)

	flowHandler := flow.NewHandler(s.flows)
	flowHandler.SetupRoutes(r.PathPrefix("/session").Subrouter())

	notifyHandler := notify.NewHandler(s.notifier)
	r.HandleFunc("/notifications", notifyHandler.HandleDrain).Methods("GET", "OPTIONS").Name("notifications")

	catalogHandler := exerciseindex.NewHandler(s.catalog)
	catalogHandler.SetupRoutes(r.PathPrefix("/exercise-index").Subrouter())

	adminRouter := r.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.AdminOnly())
	analytics.NewHandler(s.analytics).SetupRoutes(adminRouter)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()
	s.flows.StartTicker()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      otelhttp.NewHandler(router, "gymflow-server"),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
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

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	// no new requests from here on, so pending session writes can be flushed
	if err := s.flows.Close(ctx); err != nil {
		log.Errorf("failed to close workout flows: %s", err)
	}
	if err := s.writeQueue.Close(ctx); err != nil {
		log.Errorf("failed to flush session write queue: %s", err)
	}
	log.Debugln("workout sessions flushed")

	s.authCleanupCancel()

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
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

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
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
