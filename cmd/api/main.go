package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sushilldhakal/tourmarket/internal/api"
	"github.com/sushilldhakal/tourmarket/internal/auth"
	"github.com/sushilldhakal/tourmarket/internal/clock"
	"github.com/sushilldhakal/tourmarket/internal/events"
	"github.com/sushilldhakal/tourmarket/internal/jobs"
	"github.com/sushilldhakal/tourmarket/internal/log"
	"github.com/sushilldhakal/tourmarket/internal/ports"
	"github.com/sushilldhakal/tourmarket/internal/repository"
	"github.com/sushilldhakal/tourmarket/internal/repository/migrations"
	"github.com/sushilldhakal/tourmarket/internal/service"
	"github.com/sushilldhakal/tourmarket/internal/tracing"
	"github.com/sushilldhakal/tourmarket/pkg/config"
	"github.com/sushilldhakal/tourmarket/pkg/health"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var version = "dev"

type App struct {
	config    *config.Config
	server    *echo.Echo
	db        *pgxpool.Pool
	rdb       *redis.Client
	tp        *tracesdk.TracerProvider
	router    *message.Router
	scheduler *jobs.Scheduler
}

func NewApp(cfg *config.Config) *App {
	return &App{
		config: cfg,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	tp, err := tracing.ConfigureTraceProvider(a.config.Tracing.JaegerEndpoint)
	if err != nil {
		return fmt.Errorf("tracing setup failed: %w", err)
	}
	a.tp = tp

	if err := a.setupDatabase(ctx); err != nil {
		return fmt.Errorf("database setup failed: %w", err)
	}

	if err := a.setupRedis(ctx); err != nil {
		return fmt.Errorf("redis setup failed: %w", err)
	}

	if err := a.setupServer(); err != nil {
		return fmt.Errorf("server setup failed: %w", err)
	}

	return nil
}

func (a *App) setupDatabase(ctx context.Context) error {
	config, err := pgxpool.ParseConfig(a.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if !a.config.Database.SkipMigration {
		if err := migrations.Apply(ctx, pool); err != nil {
			pool.Close()
			return err
		}
	}

	a.db = pool
	return nil
}

func (a *App) setupRedis(ctx context.Context) error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     a.config.Redis.Addr,
		Password: a.config.Redis.Password,
		DB:       a.config.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	a.rdb = rdb
	return nil
}

type Services struct {
	Tours         ports.TourService
	Bookings      ports.BookingService
	Approvals     ports.ApprovalService
	Notifications ports.NotificationService
}

func (a *App) setupServices(bus *cqrs.EventBus) Services {
	clk := clock.NewSystem()

	tours := repository.NewTourRepository(a.db)
	return Services{
		Tours:         service.NewTourService(tours, clk),
		Bookings:      service.NewBookingService(repository.NewBookingRepository(a.db), tours, bus, service.WithClock(clk)),
		Approvals:     service.NewApprovalService(repository.NewApprovalRepository(a.db), bus, clk),
		Notifications: service.NewNotificationService(repository.NewNotificationRepository(a.db), clk),
	}
}

func (a *App) setupServer() error {
	watermillLogger := log.NewWatermill(logrus.NewEntry(logrus.StandardLogger()))

	publisher, err := events.NewRedisPublisher(a.rdb, watermillLogger)
	if err != nil {
		return err
	}
	bus, err := events.NewEventBus(publisher, watermillLogger)
	if err != nil {
		return fmt.Errorf("could not create event bus: %w", err)
	}

	services := a.setupServices(bus)

	a.router, err = events.NewRouter(events.RouterConfig{
		MaxRetries:      10,
		InitialInterval: 100 * time.Millisecond,
	}, watermillLogger)
	if err != nil {
		return err
	}
	err = events.RegisterEventHandlers(
		a.router,
		events.NewRedisSubscriberFactory(a.rdb, watermillLogger),
		events.NewNotificationHandlers(services.Notifications).Handlers(),
		watermillLogger,
	)
	if err != nil {
		return err
	}

	a.scheduler, err = jobs.NewScheduler(services.Bookings, a.config.Jobs.CompletionSchedule, a.config.Jobs.Timeout)
	if err != nil {
		return err
	}

	authn := auth.NewAuthenticator(
		a.config.Auth.JWTSecret,
		a.config.Auth.Issuer,
		a.config.Auth.TokenTTL,
		auth.NewRedisRevoker(a.rdb),
		clock.NewSystem(),
	)
	handler := api.NewHandler(services.Bookings, services.Tours, services.Approvals, services.Notifications, authn)
	healthCheck := health.HealthGet(version, map[string]health.Pinger{
		"postgres": a.db,
		"redis": health.PingFunc(func(ctx context.Context) error {
			return a.rdb.Ping(ctx).Err()
		}),
	})

	a.server = api.NewServer()
	a.server.Server.WriteTimeout = a.config.Server.WriteTimeout
	a.server.Server.ReadTimeout = a.config.Server.ReadTimeout
	a.server.Server.IdleTimeout = a.config.Server.IdleTimeout
	api.RegisterRoutes(a.server, handler, authn, healthCheck)

	return nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.router.Run(ctx)
	})

	g.Go(func() error {
		if !waitRunning(ctx, a.router.Running()) {
			return nil
		}

		logrus.WithField("address", a.config.Server.Address).Info("Starting server")
		if err := a.server.Start(a.config.Server.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.scheduler.Run(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		logrus.Info("Starting graceful shutdown")
		return a.Shutdown()
	})

	return g.Wait()
}

// waitRunning reports whether running closed before ctx was done.
func waitRunning(ctx context.Context, running <-chan struct{}) bool {
	select {
	case <-running:
		return true
	case <-ctx.Done():
		return false
	}
}

func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown failed: %w", err))
	}
	if err := a.router.Close(); err != nil {
		errs = append(errs, fmt.Errorf("router shutdown failed: %w", err))
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis shutdown failed: %w", err))
		}
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.tp != nil {
		if err := a.tp.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown failed: %w", err))
		}
	}

	return errors.Join(errs...)
}

func main() {
	ctx := context.Background()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	log.Init(log.ParseLevel(cfg.Log.Level), cfg.Log.Pretty)

	app := NewApp(cfg)
	if err := app.Initialize(ctx); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize application")
	}

	if err := app.Run(ctx); err != nil {
		logrus.WithError(err).Fatal("Application error")
	}
}
