package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httptransport "github.com/spec-kit/invoich-web/internal/api/http"
	"github.com/spec-kit/invoich-web/internal/api/http/handlers"
	"github.com/spec-kit/invoich-web/internal/api/http/views"
	"github.com/spec-kit/invoich-web/internal/auth"
	"github.com/spec-kit/invoich-web/internal/backend"
	"github.com/spec-kit/invoich-web/internal/config"
	"github.com/spec-kit/invoich-web/internal/events"
	"github.com/spec-kit/invoich-web/internal/observability"
	"github.com/spec-kit/invoich-web/internal/persistence"
	"github.com/spec-kit/invoich-web/internal/repository"
	"github.com/spec-kit/invoich-web/internal/service"
	"github.com/spec-kit/invoich-web/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()
	api := backend.NewClient(cfg.Backend, logger, metrics)
	dependencies := map[string]handlers.Pinger{"backend": api}

	var sessions repository.SessionRepository
	switch cfg.Session.Store {
	case "memory":
		logger.Warn("SESSION_STORE=memory; sessions are lost on restart")
		sessions = repository.NewMemorySessionRepository()
	default:
		redis := persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		sessions = repository.NewSessionRepository(redis.Client)
		dependencies["redis"] = redis
	}

	dispatcher := events.NewInMemoryDispatcher()
	flash := handlers.NewFlash(sessions, cfg.Session.TTL(), logger)
	registry := service.NewScreenRegistry(service.RegistryDependencies{
		API:          api,
		Dispatcher:   dispatcher,
		Logger:       logger,
		SkeletonRows: cfg.UI.SkeletonRows,
		Notifiers:    flash.For,
	})
	worker.StartScreenWorker(registry)
	service.NewActivityLog(dispatcher, logger, metrics).RegisterHandlers()

	tokens := auth.NewTokenInspector()
	sessionMiddleware := auth.NewSessionMiddleware(sessions, tokens, cfg.Session, dispatcher, logger)

	engine, err := views.New()
	if err != nil {
		logger.Fatal("failed to parse views", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		Views:                 engine,
		ViewsLayout:           views.Layout,
		DisableStartupMessage: true,
		BodyLimit:             12 << 20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies),
		Metrics:   handlers.NewMetricsHandler(metrics),
		Home:      handlers.NewHomeHandler(flash),
		OTP:       handlers.NewOTPHandler(api, sessionMiddleware, flash, cfg.UI.RedirectDelay(), logger),
		Password:  handlers.NewPasswordHandler(flash),
		Customers: handlers.NewCustomersHandler(registry, service.NewCustomerDetail(api), flash, cfg.UI.RenderWait(), logger),
		Session:   handlers.NewSessionHandler(sessionMiddleware, tokens, logger),
		Sessions:  sessionMiddleware,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("backend", api.BaseURL()))
		return app.Listen(cfg.App.Addr())
	})
	g.Go(func() error {
		return worker.RunScreenSweeper(gctx, registry, time.Minute, cfg.UI.ScreenIdle())
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}
