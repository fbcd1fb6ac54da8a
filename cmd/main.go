package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/projectfair/server/internal/api/http/handler"
	"github.com/projectfair/server/internal/api/http/httpctx"
	"github.com/projectfair/server/internal/api/http/middleware"
	"github.com/projectfair/server/internal/api/http/router"
	httpServer "github.com/projectfair/server/internal/api/http/server"
	rediscache "github.com/projectfair/server/internal/cache/redis"
	"github.com/projectfair/server/internal/config"
	"github.com/projectfair/server/internal/identity"
	"github.com/projectfair/server/internal/likes"
	"github.com/projectfair/server/internal/logger"
	"github.com/projectfair/server/internal/metrics"
	"github.com/projectfair/server/internal/model"
	"github.com/projectfair/server/internal/projects"
	"github.com/projectfair/server/internal/repository/postgres"
	"github.com/projectfair/server/internal/server"
	"github.com/projectfair/server/internal/session"
	storage "github.com/projectfair/server/internal/storage/minio"
	"github.com/projectfair/server/internal/token"
	"github.com/projectfair/server/internal/upload"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	identityRepo := postgres.NewIdentityRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	projectRepo := postgres.NewProjectRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.Session.TTL)

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket, cfg.Storage.PublicURL)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	credentialCache, err := rediscache.NewCredentialCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Session.TTL)
	if err != nil {
		logger.Fatal("failed to initialize credential cache", "error", err)
	}
	defer func() { _ = credentialCache.Close() }()

	identityService := identity.NewService(identityRepo, tokenManager, logger)

	sessions := session.NewRegistry(ctx, func() *session.Store {
		return session.NewStore(identityService.NewScope(), profileRepo, credentialCache, cfg.Session.TTL, logger)
	}, logger)
	defer sessions.Close()

	pipeline := upload.NewPipeline(storageClient, logger)
	tracker := upload.NewTracker()
	likeCoordinator := likes.NewCoordinator(projectRepo, logger)
	directory := projects.NewDirectory(projectRepo, pipeline, logger)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	ctxMgr := httpctx.NewManager()
	authMw := middleware.NewAuthenticate(identityService, ctxMgr, logger)
	logMw := middleware.NewLogging(logger, collector)
	rateLimiter := middleware.NewRateLimiter(ctxMgr, rate.Limit(20), 40)
	defer rateLimiter.Stop()

	handlers := router.Deps{
		Auth:         handler.NewAuth(sessions, ctxMgr, collector, logger),
		Profile:      handler.NewProfile(sessions, ctxMgr, logger),
		Projects:     handler.NewProjects(directory, likeCoordinator, ctxMgr, collector, logger),
		Uploads:      handler.NewUploads(ctx, pipeline, tracker, ctxMgr, collector, logger),
		Health:       handler.NewHealth(db, logger),
		Authenticate: authMw,
		Logging:      logMw,
		RateLimit:    rateLimiter,
		Metrics:      metrics.Handler(registry),
	}

	srv := httpServer.NewHTTPServer(router.New(handlers), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
