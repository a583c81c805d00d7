package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-bot/internal/allocator"
	httptransport "github.com/spec-kit/complaint-bot/internal/api/http"
	"github.com/spec-kit/complaint-bot/internal/api/http/handlers"
	"github.com/spec-kit/complaint-bot/internal/auth"
	"github.com/spec-kit/complaint-bot/internal/channel"
	"github.com/spec-kit/complaint-bot/internal/channel/telegram"
	"github.com/spec-kit/complaint-bot/internal/config"
	"github.com/spec-kit/complaint-bot/internal/events"
	"github.com/spec-kit/complaint-bot/internal/observability"
	"github.com/spec-kit/complaint-bot/internal/persistence"
	"github.com/spec-kit/complaint-bot/internal/repository"
	"github.com/spec-kit/complaint-bot/internal/service"
	"github.com/spec-kit/complaint-bot/internal/session"
)

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	rd := persistence.NewRedis(cfg.Redis, logger)
	defer rd.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	sessions := session.NewStore(cfg.Intake.IdleTimeout())
	alloc := allocator.New(cfg.Allocator, ticketRepo, rd.Client, logger)

	// The adapter needs a handler before the conversation service exists,
	// and the services need the adapter to send replies. The closure
	// defers the lookup until the first update arrives, well after wiring.
	var router *service.ConversationService
	adapter, err := telegram.New(cfg.Telegram, func(ctx context.Context, ev channel.Event) {
		router.HandleEvent(ctx, ev)
	}, logger)
	if err != nil {
		logger.Fatal("failed to init telegram adapter", zap.Error(err))
	}

	intake := service.NewIntakeService(service.IntakeDependencies{
		Sessions:   sessions,
		TicketRepo: ticketRepo,
		Allocator:  alloc,
		Dispatcher: dispatcher,
		Sender:     adapter,
		Logger:     logger,
		Metrics:    metrics,
		Policy:     cfg.Intake,
	})
	statusService := service.NewStatusService(ticketRepo)
	router = service.NewConversationService(sessions, adapter, intake, statusService, logger, metrics)

	notifier := service.NewNotificationService(adapter, cfg.Notify, cfg.Telegram.AdminChatIDs, logger, metrics)
	notifier.RegisterHandlers(dispatcher)

	authService := service.NewAuthService(cfg.Auth, adminRepo, logger)
	if err := authService.Bootstrap(ctx, cfg.Auth.BootstrapUsername, cfg.Auth.BootstrapPassword); err != nil {
		logger.Fatal("failed to bootstrap admin account", zap.Error(err))
	}
	adminService := service.NewTicketAdminService(ticketRepo, dispatcher, logger)
	adminService.RegisterHandlers(dispatcher)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), adminRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, 15*time.Second)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, rd),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(adminService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := adapter.Run(ctx); err != nil {
			logger.Fatal("telegram adapter stopped", zap.Error(err))
		}
	}()

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
