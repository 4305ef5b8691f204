package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	dashboardHandler "backoffice/internal/dashboard/handler"
	dashboardModels "backoffice/internal/dashboard/models"
	dashboardService "backoffice/internal/dashboard/service"
	dashboardStore "backoffice/internal/dashboard/store"
	jwttoken "backoffice/internal/jwt_token"
	"backoffice/internal/notify"
	notifyHandler "backoffice/internal/notify/handler"
	"backoffice/internal/operation"
	"backoffice/internal/platform/config"
	"backoffice/internal/platform/httpserver"
	"backoffice/internal/platform/kafka"
	"backoffice/internal/platform/logger"
	"backoffice/internal/platform/metrics"
	"backoffice/internal/platform/middleware"
	"backoffice/internal/platform/redis"
	reportsHandler "backoffice/internal/reports/handler"
	reportsService "backoffice/internal/reports/service"
	reportsStore "backoffice/internal/reports/store"
	settingsHandler "backoffice/internal/settings/handler"
	settingsService "backoffice/internal/settings/service"
	settingsStore "backoffice/internal/settings/store"
	httptransport "backoffice/internal/transport/http"
	usersHandler "backoffice/internal/users/handler"
	usersService "backoffice/internal/users/service"
	usersStore "backoffice/internal/users/store"
)

const (
	outboxSize             = 256
	scheduledRefreshBudget = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Server.LogLevel, cfg.Server.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run wires the stores, the notification pipeline and the HTTP surface, and
// blocks until ctx is cancelled or a component fails.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	outbox := make(chan notify.Event, outboxSize)
	channel := notify.New(
		notify.WithLogger(log),
		notify.WithMetrics(m),
		notify.WithOutbox(outbox),
		notify.WithDefaultLifetime(cfg.Simulation.NotificationLifetime),
	)
	defer channel.Close()

	sinks, checks, closeSinks, err := buildSinks(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSinks()

	executor := operation.Simulated()
	if !cfg.Simulation.LatencyEnabled {
		executor = operation.Immediate()
	}
	runner := operation.NewRunner(channel,
		operation.WithExecutor(executor),
		operation.WithLogger(log),
		operation.WithMetrics(m),
	)

	users := usersService.New(usersStore.NewInMemoryStore(usersStore.SeedUsers()...), runner,
		usersService.WithLogger(log),
		usersService.WithMetrics(m),
	)
	reports := reportsService.New(reportsStore.NewInMemoryStore(), runner,
		reportsService.WithLogger(log),
		reportsService.WithMetrics(m),
	)
	settings := settingsService.New(settingsStore.NewInMemoryStore(), runner,
		settingsService.WithLogger(log),
		settingsService.WithSystemPrefersDark(cfg.Simulation.SystemPrefersDark),
		settingsService.WithThemeApplier(themeLogger{logger: log}),
	)
	dashboard := dashboardService.New(
		dashboardStore.NewInMemoryStore(dashboardModels.SeedStats(), time.Now(), dashboardModels.SeedActivity()...),
		runner,
		dashboardService.WithLogger(log),
	)

	jwt := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer)
	var validator middleware.JWTValidator
	if !cfg.Auth.Disabled {
		validator = jwttoken.NewJWTServiceAdapter(jwt)
	}

	notifications := notifyHandler.New(channel, log)
	router := httptransport.NewRouter(
		httptransport.RouterConfig{
			Logger:         log,
			Metrics:        m,
			Gatherer:       reg,
			Validator:      validator,
			RateLimiter:    middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log),
			RequestTimeout: cfg.Server.RequestTimeout,
			Health:         checks,
		},
		httptransport.NewAuthHandler(jwt, cfg.Auth.TokenTTL, users, dashboard, log),
		[]httptransport.StreamRegistrar{notifications},
		notifications,
		usersHandler.New(users, log),
		reportsHandler.New(reports, log),
		settingsHandler.New(settings, log),
		dashboardHandler.New(dashboard, log),
	)

	g, gctx := errgroup.WithContext(ctx)

	srv := httpserver.New(cfg.Server.Addr, router, httpserver.WithBaseContext(gctx))

	worker := notify.NewWorker(outbox, sinks,
		notify.WithWorkerLogger(log),
		notify.WithWorkerMetrics(m),
		notify.WithSinkBreaker(cfg.Sinks.FailureThreshold, cfg.Sinks.Cooldown),
	)
	g.Go(func() error {
		return ignoreCanceled(worker.Run(gctx))
	})

	if spec := cfg.Simulation.RefreshSchedule; spec != "" {
		sched, err := dashboardService.NewScheduler(dashboard, spec, scheduledRefreshBudget, log)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return sched.Run(gctx)
		})
	}

	g.Go(func() error {
		log.Info("starting backoffice",
			"addr", cfg.Server.Addr,
			"auth_enabled", validator != nil,
			"simulated_latency", cfg.Simulation.LatencyEnabled,
			"sinks", len(sinks),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
		defer cancel()
		log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// buildSinks connects the optional notification sinks. A sink whose backing
// service is configured but unreachable is a startup error.
func buildSinks(ctx context.Context, cfg *config.Config, log *slog.Logger) ([]notify.Sink, map[string]httptransport.HealthChecker, func(), error) {
	var (
		sinks   []notify.Sink
		closers []func()
	)
	checks := make(map[string]httptransport.HealthChecker)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, closeAll, fmt.Errorf("redis: %w", err)
	}
	if rc != nil {
		sinks = append(sinks, notify.NewRedisSink(rc.Client))
		checks["redis"] = rc
		closers = append(closers, func() { _ = rc.Close() })
		log.Info("redis notification sink enabled")
	}

	kc, err := kafka.New(ctx, cfg.Kafka)
	if err != nil {
		closeAll()
		return nil, nil, func() {}, fmt.Errorf("kafka: %w", err)
	}
	if kc != nil {
		sinks = append(sinks, notify.NewKafkaSink(kc.Client, kc.Topic))
		checks["kafka"] = kc
		closers = append(closers, kc.Close)
		log.Info("kafka notification sink enabled", "topic", kc.Topic)
	}

	return sinks, checks, closeAll, nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// themeLogger records theme changes; there is no rendering surface to apply
// them to.
type themeLogger struct {
	logger *slog.Logger
}

func (t themeLogger) ApplyTheme(ctx context.Context, dark bool) {
	t.logger.DebugContext(ctx, "theme applied", "dark", dark)
}
