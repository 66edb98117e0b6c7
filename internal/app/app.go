package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/suxessedu/suxess-web/internal/activity"
	"github.com/suxessedu/suxess-web/internal/admin"
	"github.com/suxessedu/suxess-web/internal/api"
	"github.com/suxessedu/suxess-web/internal/auth"
	"github.com/suxessedu/suxess-web/internal/broadcast"
	"github.com/suxessedu/suxess-web/internal/config"
	"github.com/suxessedu/suxess-web/internal/dashboard"
	"github.com/suxessedu/suxess-web/internal/events"
	"github.com/suxessedu/suxess-web/internal/health"
	"github.com/suxessedu/suxess-web/internal/logger"
	"github.com/suxessedu/suxess-web/internal/match"
	"github.com/suxessedu/suxess-web/internal/metrics"
	"github.com/suxessedu/suxess-web/internal/middleware"
	"github.com/suxessedu/suxess-web/internal/parent"
	"github.com/suxessedu/suxess-web/internal/request"
	"github.com/suxessedu/suxess-web/internal/session"
	"github.com/suxessedu/suxess-web/internal/teacher"
	"github.com/suxessedu/suxess-web/internal/telemetry"
	"github.com/suxessedu/suxess-web/internal/web"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
)

const (
	setupCookieName = "admin_setup"
	setupTTL        = 15 * time.Minute
	sweepInterval   = time.Minute
)

type App struct {
	config  *config.Config
	router  chi.Router
	server  *http.Server
	logger  *slog.Logger
	closers []func(ctx context.Context) error
	stop    context.CancelFunc
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slogLogger := logger.NewWithServiceContext(ServiceName, Version, cfg.Env)
	slog.SetDefault(slogLogger)
	slogLogger.Info("initializing application", "env", cfg.Env, "commit", GitCommit, "built", BuildTime)

	ctx, stop := context.WithCancel(context.Background())
	app := &App{
		config: cfg,
		router: chi.NewRouter(),
		logger: slogLogger,
		stop:   stop,
	}

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry.Enabled, cfg.Telemetry.OTLPEndpoint, ServiceName, Version, prometheus.DefaultRegisterer, slogLogger)
	if err != nil {
		slogLogger.Warn("failed to initialize telemetry", "error", err)
	} else {
		app.closers = append(app.closers, shutdownTelemetry)
	}

	m, err := metrics.New(otel.Meter(ServiceName))
	if err != nil {
		stop()
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}
	if err := metrics.ObserveRuntime(otel.Meter(ServiceName), time.Now()); err != nil {
		slogLogger.Warn("failed to register runtime metrics", "error", err)
	}

	checks := map[string]health.Check{}
	bus := app.newBus(cfg.Events, m, checks)

	client, err := api.New(api.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout(),
		Logger:  slogLogger,
		Metrics: m,
		OnUnauthorized: func(ctx context.Context) {
			bus.Publish(ctx, session.Event(ctx, events.AuthExpired, "", nil))
		},
		RequestID: middleware.GetRequestID,
	})
	if err != nil {
		stop()
		return nil, err
	}

	sameSite := http.SameSiteStrictMode
	if cfg.IsLocal() {
		sameSite = http.SameSiteLaxMode
	}
	sessions, err := session.NewCookieStore(session.CookieOptions{
		Name:     cfg.Session.CookieName,
		Secret:   cfg.Session.Secret,
		TTL:      cfg.Session.TTL(),
		Secure:   cfg.Session.Secure,
		SameSite: sameSite,
	})
	if err != nil {
		stop()
		return nil, err
	}
	setup, err := session.NewCookieStore(session.CookieOptions{
		Name:     setupCookieName,
		Secret:   cfg.Session.Secret,
		TTL:      setupTTL,
		Secure:   cfg.Session.Secure,
		SameSite: sameSite,
	})
	if err != nil {
		stop()
		return nil, err
	}

	panels := app.newPanelStore(ctx, cfg, checks)

	renderer, err := web.NewRenderer()
	if err != nil {
		stop()
		return nil, err
	}
	resp := web.NewResponder(renderer, sessions, slogLogger)

	app.router.Use(middleware.RequestID)
	app.router.Use(middleware.Logging(slogLogger))
	app.router.Use(chimw.Recoverer)

	// Public endpoints
	health.NewHandler(checks).RegisterRoutes(app.router)
	app.router.Handle("/metrics", promhttp.Handler())
	app.router.Handle("/static/*", web.Static())
	auth.NewHandler(auth.NewService(client, m, slogLogger), sessions, setup, resp, slogLogger).RegisterRoutes(app.router)

	matcher := match.NewService(match.NewSource(client), panels, bus, m, slogLogger)

	// Console pages (admin session required)
	app.router.Group(func(r chi.Router) {
		r.Use(session.Guard(sessions, slogLogger))

		dashboard.NewHandler(dashboard.NewService(client), resp, slogLogger).RegisterRoutes(r)
		request.NewHandler(request.NewService(client, bus, m, slogLogger), matcher, resp, slogLogger).RegisterRoutes(r)
		teacher.NewHandler(teacher.NewService(client, bus, m, slogLogger), resp, slogLogger).RegisterRoutes(r)
		parent.NewHandler(parent.NewService(client, bus, m, slogLogger), resp, slogLogger).RegisterRoutes(r)
		admin.NewHandler(admin.NewService(client, bus, m, slogLogger), resp, slogLogger).RegisterRoutes(r)
		activity.NewHandler(activity.NewService(client), resp, slogLogger).RegisterRoutes(r)
		broadcast.NewHandler(broadcast.NewService(client, bus, m, slogLogger), resp, slogLogger).RegisterRoutes(r)
	})

	slogLogger.Info("application initialized successfully")

	return app, nil
}

// newBus subscribes the metrics, the log and, when configured, a broker.
func (a *App) newBus(cfg config.EventsConfig, m *metrics.Metrics, checks map[string]health.Check) *events.Bus {
	bus := events.NewBus()
	bus.Subscribe(func(ctx context.Context, ev events.Event) {
		m.RecordAuthExpired(ctx)
	}, events.AuthExpired)
	bus.Subscribe(events.Log(a.logger))

	switch cfg.Driver {
	case "nats":
		publisher, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.Subject, a.logger)
		if err != nil {
			a.logger.Warn("failed to initialize NATS publisher", "error", err)
			return bus
		}
		bus.Subscribe(events.Forward(publisher, a.logger))
		checks["nats"] = publisher.Ping
		a.closers = append(a.closers, func(context.Context) error { return publisher.Close() })
	case "kafka":
		publisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, a.logger)
		if err != nil {
			a.logger.Warn("failed to initialize Kafka publisher", "error", err)
			return bus
		}
		bus.Subscribe(events.Forward(publisher, a.logger))
		checks["kafka"] = publisher.Ping
		a.closers = append(a.closers, func(context.Context) error { return publisher.Close() })
	}
	return bus
}

func (a *App) newPanelStore(ctx context.Context, cfg *config.Config, checks map[string]health.Check) match.Store {
	if cfg.Match.Store == "redis" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		a.logger.Info("matching panels stored in redis", "addr", cfg.Redis.Addr)
		return match.NewRedisStore(rdb, cfg.Match.TTL())
	}

	store := match.NewMemoryStore(cfg.Match.TTL())
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := store.Sweep(); n > 0 {
					a.logger.Debug("expired matching panels dropped", "count", n)
				}
			}
		}
	}()
	return store
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")
	a.stop()

	var errs []error
	if a.server != nil {
		errs = append(errs, a.server.Shutdown(ctx))
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	return errors.Join(errs...)
}
