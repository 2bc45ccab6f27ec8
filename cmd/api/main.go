package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hcp-suporte/helpdesk-service/internal/ai"
	httptransport "github.com/hcp-suporte/helpdesk-service/internal/api/http"
	"github.com/hcp-suporte/helpdesk-service/internal/api/http/handlers"
	"github.com/hcp-suporte/helpdesk-service/internal/auth"
	"github.com/hcp-suporte/helpdesk-service/internal/config"
	"github.com/hcp-suporte/helpdesk-service/internal/events"
	"github.com/hcp-suporte/helpdesk-service/internal/observability"
	"github.com/hcp-suporte/helpdesk-service/internal/persistence"
	"github.com/hcp-suporte/helpdesk-service/internal/repository"
	"github.com/hcp-suporte/helpdesk-service/internal/service"
	"github.com/hcp-suporte/helpdesk-service/internal/worker"
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

	metrics := observability.NewMetrics()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	ticketRepo := repository.NewTicketRepository(redis.Client, logger)
	aiClient := ai.NewOpenAI(cfg.AI)
	chatSessions := ai.NewSessionManager(aiClient)
	dispatcher := events.NewInMemoryDispatcher()

	authService, err := service.NewAuthService(*cfg)
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Analyzer:   aiClient,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	reportService := service.NewReportService(ticketRepo, aiClient, metrics, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notify)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		AdminTickets:   handlers.NewAdminTicketsHandler(ticketService),
		Reports:        handlers.NewReportsHandler(reportService),
		Chat:           handlers.NewChatHandler(chatSessions, logger),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
