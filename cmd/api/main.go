package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/kiosk-service/internal/api/http"
	"github.com/spec-kit/kiosk-service/internal/api/http/handlers"
	"github.com/spec-kit/kiosk-service/internal/auth"
	"github.com/spec-kit/kiosk-service/internal/config"
	"github.com/spec-kit/kiosk-service/internal/events"
	"github.com/spec-kit/kiosk-service/internal/observability"
	"github.com/spec-kit/kiosk-service/internal/persistence"
	"github.com/spec-kit/kiosk-service/internal/repository"
	"github.com/spec-kit/kiosk-service/internal/service"
	"github.com/spec-kit/kiosk-service/internal/worker"
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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	adminRepo := repository.NewAdminRepository(pool)
	guestRepo := repository.NewGuestRepository(pool)
	nationalityRepo := repository.NewNationalityRepository(pool)
	menuCategoryRepo := repository.NewMenuCategoryRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AdminRepo: adminRepo,
	})
	guestService := service.NewGuestService(service.GuestDependencies{
		GuestRepo:       guestRepo,
		NationalityRepo: nationalityRepo,
		Dispatcher:      dispatcher,
	})
	referenceService := service.NewReferenceService(service.ReferenceDependencies{
		NationalityRepo:  nationalityRepo,
		MenuCategoryRepo: menuCategoryRepo,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), adminRepo)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, *cfg)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Guests:         handlers.NewGuestsHandler(guestService, logger),
		Nationalities:  handlers.NewNationalitiesHandler(referenceService),
		Menu:           handlers.NewMenuHandler(referenceService),
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
