package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/comtooin/support-center/internal/api/http"
	"github.com/comtooin/support-center/internal/api/http/handlers"
	"github.com/comtooin/support-center/internal/auth"
	"github.com/comtooin/support-center/internal/config"
	"github.com/comtooin/support-center/internal/events"
	"github.com/comtooin/support-center/internal/observability"
	"github.com/comtooin/support-center/internal/persistence"
	"github.com/comtooin/support-center/internal/repository"
	"github.com/comtooin/support-center/internal/service"
	"github.com/comtooin/support-center/internal/storage"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Database.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var store storage.ObjectStore
	var localUploadDir string
	if cfg.Storage.UseCloud() {
		gcsStore, err := storage.NewGCSStore(ctx, cfg.Storage.BucketName)
		if err != nil {
			logger.Fatal("failed to init gcs storage", zap.Error(err))
		}
		defer gcsStore.Close() //nolint:errcheck
		store = gcsStore
		logger.Info("using gcs attachment storage", zap.String("bucket", cfg.Storage.BucketName))
	} else {
		localStore, err := storage.NewLocalStore(cfg.Storage.UploadDir)
		if err != nil {
			logger.Fatal("failed to init local storage", zap.Error(err))
		}
		store = localStore
		localUploadDir = localStore.BaseDir()
		logger.Info("using local attachment storage", zap.String("dir", localUploadDir))
	}

	pool := pg.PoolHandle()
	requestRepo := repository.NewRequestRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	guideRepo := repository.NewGuideRepository(pool)

	dispatcher := events.NewAsyncDispatcher(logger)

	var sender service.MailSender
	if cfg.Mail.Enabled() {
		sender = service.NewSMTPSender(cfg.Mail)
	}
	notifications := service.NewNotificationService(sender, cfg.Mail, logger)
	notifications.RegisterHandlers(dispatcher)

	requestService := service.NewRequestService(service.RequestDependencies{
		RequestRepo: requestRepo,
		CommentRepo: commentRepo,
		Store:       store,
		Dispatcher:  dispatcher,
		Logger:      logger,
		BcryptCost:  cfg.Auth.BcryptCost,
	})
	authService := service.NewAuthService(cfg.Auth, redis.Client, logger)
	guideService := service.NewGuideService(guideRepo)
	reportService := service.NewReportService(requestRepo, commentRepo)

	adminMiddleware := auth.NewAdminMiddleware(authService.TokenManager())

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		BodyLimit: 64 << 20, // five 10 MB images plus form overhead
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Requests:        handlers.NewRequestsHandler(requestService),
		Admin:           handlers.NewAdminHandler(authService, requestService),
		Reports:         handlers.NewReportsHandler(reportService),
		Guides:          handlers.NewGuidesHandler(guideService),
		AdminMiddleware: adminMiddleware,
		LocalUploadDir:  localUploadDir,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	dispatcher.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
