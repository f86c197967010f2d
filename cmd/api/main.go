package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/egov-portal/portal-service/internal/adapters/credential"
	"github.com/egov-portal/portal-service/internal/adapters/handler"
	"github.com/egov-portal/portal-service/internal/adapters/middleware"
	"github.com/egov-portal/portal-service/internal/adapters/repository"
	"github.com/egov-portal/portal-service/internal/adapters/session"
	"github.com/egov-portal/portal-service/internal/adapters/storage"
	"github.com/egov-portal/portal-service/internal/config"
	"github.com/egov-portal/portal-service/internal/core/ports"
	"github.com/egov-portal/portal-service/internal/core/services"
	"github.com/egov-portal/portal-service/internal/logger"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.Log)
	ctx := context.Background()

	db, err := repository.Open(ctx, cfg.Database.URL)
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := repository.NewMigrator(db).Run(ctx); err != nil {
			logrus.Fatalf("failed to apply migrations: %v", err)
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logrus.Fatalf("failed to connect to redis: %v", err)
	}
	logrus.Info("connected to Redis")

	files, err := newFileStore(ctx, cfg)
	if err != nil {
		logrus.Fatalf("failed to initialise upload storage: %v", err)
	}

	store := repository.NewStore(db)
	userRepo := repository.NewUserRepository(store)
	catalogRepo := repository.NewCatalogRepository(store)
	requestRepo := repository.NewRequestRepository(store)
	reportRepo := repository.NewReportRepository(store)

	sessions := session.NewRedisStore(redisClient)
	cookies := session.NewCookieCodec(cfg.Session.CookieName, []byte(cfg.Session.Secret), cfg.Session.SecureCookie)
	hasher := credential.NewBcryptHasher(0)
	intake := storage.NewIntake(files)

	authService := services.NewAuthService(userRepo, sessions, hasher, cfg.Session.TTL)
	profileService := services.NewProfileService(userRepo, requestRepo, intake)
	lifecycleService := services.NewLifecycleService(catalogRepo, userRepo, requestRepo, intake, services.LifecycleOptions{
		DefaultAmount:              cfg.Payment.DefaultAmount,
		AllowDecideAwaitingPayment: cfg.Lifecycle.AllowDecideAwaitingPayment,
	})
	adminService := services.NewAdminService(userRepo, catalogRepo, hasher, sessions)
	reportService := services.NewReportService(reportRepo)

	if err := adminService.EnsureAdmin(ctx, cfg.Admin.BootstrapName, cfg.Admin.BootstrapEmail, cfg.Admin.BootstrapPassword); err != nil {
		logrus.Fatalf("failed to bootstrap admin account: %v", err)
	}

	router := handler.NewRouter(handler.Handlers{
		Health:  handler.NewHealthHandler(db, redisClient),
		Auth:    handler.NewAuthHandler(authService, cookies),
		Public:  handler.NewPublicHandler(lifecycleService),
		Profile: handler.NewProfileHandler(profileService, files),
		Citizen: handler.NewCitizenHandler(lifecycleService, profileService),
		Officer: handler.NewOfficerHandler(lifecycleService, profileService),
		Admin:   handler.NewAdminHandler(adminService, profileService, reportService),
	}, middleware.NewAuthMiddleware(cookies, sessions), cfg.Server.CorsAllowedOrigins)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("starting server on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("could not start server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logrus.Infof("received signal %v, shutting down", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error shutting down server: %v", err)
	}
	logrus.Info("shutdown complete")
}

func newFileStore(ctx context.Context, cfg *config.Config) (ports.FileStore, error) {
	if cfg.Uploads.Backend == "s3" {
		client, err := storage.NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logrus.WithField("bucket", cfg.S3.Bucket).Info("storing uploads in S3")
		return storage.NewS3Store(client, cfg.S3.Bucket), nil
	}
	logrus.WithField("root", cfg.Uploads.Root).Info("storing uploads on local disk")
	return storage.NewLocalStore(cfg.Uploads.Root)
}
