package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apihttp "github.com/helpdesk-br/chamado-service/internal/api/http"
	"github.com/helpdesk-br/chamado-service/internal/api/http/handlers"
	"github.com/helpdesk-br/chamado-service/internal/auth"
	"github.com/helpdesk-br/chamado-service/internal/config"
	"github.com/helpdesk-br/chamado-service/internal/events"
	"github.com/helpdesk-br/chamado-service/internal/observability"
	"github.com/helpdesk-br/chamado-service/internal/persistence"
	"github.com/helpdesk-br/chamado-service/internal/realtime"
	"github.com/helpdesk-br/chamado-service/internal/repository"
	"github.com/helpdesk-br/chamado-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	postgres, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("connect to postgres", zap.Error(err))
	}
	defer postgres.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, postgres.PoolHandle(), logger); err != nil {
			logger.Fatal("run migrations", zap.Error(err))
		}
	}

	redisConn := persistence.NewRedis(cfg.Redis, logger)
	defer redisConn.Close()

	userRepo := repository.NewUserRepository(postgres.PoolHandle())
	ticketRepo := repository.NewTicketRepository(postgres.PoolHandle())
	commentRepo := repository.NewCommentRepository(postgres.PoolHandle())
	auditRepo := repository.NewAuditRepository(postgres.PoolHandle())
	txManager := repository.NewTxManager(postgres.PoolHandle())

	dispatcher := events.NewInMemoryDispatcher()

	notifications := service.NewNotificationService(dispatcher, logger)
	notifications.RegisterHandlers()

	var hub *realtime.Hub
	if cfg.Realtime.Enabled {
		hub = realtime.NewHub(logger, cfg.Realtime.SendBuffer, time.Duration(cfg.Realtime.WriteWaitSecs)*time.Second)
		bridge := realtime.NewBridge(redisConn.Client, cfg.Realtime.RedisChannel, hub, logger)
		dispatcher.SubscribeAll(bridge.HandleEvent)
		go bridge.Run(ctx)
	}

	authService := service.NewAuthService(cfg.Auth, userRepo)
	userService := service.NewUserService(userRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		CommentRepo: commentRepo,
		AuditRepo:   auditRepo,
		UserRepo:    userRepo,
		Tx:          txManager,
		Dispatcher:  dispatcher,
	})
	commentService := service.NewCommentService(service.CommentDependencies{
		CommentRepo: commentRepo,
		TicketRepo:  ticketRepo,
		AuditRepo:   auditRepo,
		Tx:          txManager,
		Dispatcher:  dispatcher,
	})

	metrics := observability.NewMetrics()
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: apihttp.NewErrorHandler(logger, metrics),
	})

	apihttp.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	apihttp.RegisterRoutes(app, apihttp.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, postgres, redisConn),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Comments:       handlers.NewCommentsHandler(commentService),
		Users:          handlers.NewUsersHandler(userService),
		AuthMiddleware: authMiddleware,
		Hub:            hub,
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	if hub != nil {
		hub.Shutdown()
	}
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("graceful shutdown", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
