package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/itww/admin-api/adapters/event"
	httpAdapter "github.com/itww/admin-api/adapters/http"
	"github.com/itww/admin-api/adapters/media_storage"
	"github.com/itww/admin-api/adapters/persistence"
	"github.com/itww/admin-api/internal/application/service"
	authUC "github.com/itww/admin-api/internal/application/usecase/auth"
	blogUC "github.com/itww/admin-api/internal/application/usecase/blog"
	jobApplicationUC "github.com/itww/admin-api/internal/application/usecase/jobapplication"
	jobPostingUC "github.com/itww/admin-api/internal/application/usecase/jobposting"
	mediaUC "github.com/itww/admin-api/internal/application/usecase/media"
	"github.com/itww/admin-api/internal/application/usecase/policy"
	"github.com/itww/admin-api/internal/config"
	"github.com/itww/admin-api/migrations"
	"github.com/itww/admin-api/pkg/auth"
	"github.com/itww/admin-api/pkg/logger"
	"github.com/itww/admin-api/pkg/tracing"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		// The logger depends on config, so this one goes to stderr.
		os.Stderr.WriteString("FATAL: cannot load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting ITWW Admin API...", zap.String("env", cfg.App.Env), zap.String("storage", cfg.Storage.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.NewTracerProvider(cfg, appLogger, cfg.App.Name)
	if err != nil {
		appLogger.Fatal("Cannot initialize tracing", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			appLogger.Error("Failed to flush traces", err)
		}
	}()

	if cfg.DB.AutoMigrate {
		if err := migrations.Up(cfg.DB.DSN); err != nil {
			appLogger.Fatal("Cannot apply migrations", err)
		}
		appLogger.Info("Database migrations applied")
	}

	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	var urlCache redis.UniversalClient
	redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Redis", err)
	}
	if redisClient != nil {
		urlCache = redisClient
		defer redisClient.Close()
	}

	objectStore, localStore, err := media_storage.NewObjectStore(ctx, cfg, urlCache, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot initialize object store", err)
	}

	publisher := service.NewNoopPublisher()
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := event.NewKafkaPublisher(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot initialize Kafka", err)
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	} else {
		appLogger.Warn("No Kafka brokers configured, domain events are dropped")
	}

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool)
	blogRepo := persistence.NewPostgresBlogRepo(dbPool)
	jobPostingRepo := persistence.NewPostgresJobPostingRepo(dbPool)
	jobApplicationRepo := persistence.NewPostgresJobApplicationRepo(dbPool)
	mediaRepo := persistence.NewPostgresMediaRepo(dbPool)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	ownership := policy.Ownership{Enforce: cfg.Auth.EnforceOwnership}

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	blogUseCase := blogUC.NewBlogUseCase(blogRepo, publisher, ownership, appLogger)
	jobPostingUseCase := jobPostingUC.NewJobPostingUseCase(jobPostingRepo, publisher, ownership, appLogger)
	jobApplicationUseCase := jobApplicationUC.NewJobApplicationUseCase(jobApplicationRepo, publisher, appLogger)
	mediaUseCase := mediaUC.NewMediaUseCase(mediaRepo, objectStore, publisher, ownership, cfg.Storage.SignedURLTTL, appLogger)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		persistence.NewPoolStatsCollector(dbPool),
	)

	// HTTP Handlers
	var fileHandler *httpAdapter.FileHandler
	if localStore != nil {
		fileHandler = httpAdapter.NewFileHandler(localStore, appLogger)
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		JWT:             jwtSvc,
		Logger:          appLogger,
		Metrics:         httpAdapter.NewMetrics(registry),
		PublicRead:      cfg.Media.PublicRead,
		Auth:            httpAdapter.NewAuthHandler(loginUseCase, cfg.Auth.TokenLifespan, cfg.App.Env == "production", appLogger),
		Blogs:           httpAdapter.NewBlogHandler(blogUseCase, appLogger),
		JobPostings:     httpAdapter.NewJobPostingHandler(jobPostingUseCase, appLogger),
		JobApplications: httpAdapter.NewJobApplicationHandler(jobApplicationUseCase, cfg.Media.MaxUploadBytes, appLogger),
		Media:           httpAdapter.NewMediaHandler(mediaUseCase, cfg.Media.MaxUploadBytes, appLogger),
		Health:          httpAdapter.NewHealthHandler(dbPool, appLogger),
		Files:           fileHandler,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
	appLogger.Info("Server exited")
}
