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

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/health"

	grpchealth "github.com/dtroode/fileshare-server/internal/api/grpc/health"
	grpcrouter "github.com/dtroode/fileshare-server/internal/api/grpc/router"
	grpcserver "github.com/dtroode/fileshare-server/internal/api/grpc/server"
	httpctx "github.com/dtroode/fileshare-server/internal/api/http/context"
	httprouter "github.com/dtroode/fileshare-server/internal/api/http/router"
	httpserver "github.com/dtroode/fileshare-server/internal/api/http/server"
	"github.com/dtroode/fileshare-server/internal/config"
	"github.com/dtroode/fileshare-server/internal/logger"
	"github.com/dtroode/fileshare-server/internal/metrics"
	"github.com/dtroode/fileshare-server/internal/model"
	"github.com/dtroode/fileshare-server/internal/otel"
	"github.com/dtroode/fileshare-server/internal/password"
	"github.com/dtroode/fileshare-server/internal/repository/postgres"
	"github.com/dtroode/fileshare-server/internal/server"
	"github.com/dtroode/fileshare-server/internal/service"
	"github.com/dtroode/fileshare-server/internal/storage/minio"
	"github.com/dtroode/fileshare-server/internal/storage/s3"
	"github.com/dtroode/fileshare-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	logAppVersion()

	shutdownTracing, err := otel.Init(ctx, cfg.Telemetry, logger)
	if err != nil {
		logger.Fatal("failed to initialize tracing", "error", err)
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	blobStore, err := newBlobStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize blob storage", "error", err, "backend", cfg.Storage.Backend)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder, err := metrics.NewCollector(registry)
	if err != nil {
		logger.Fatal("failed to register metrics", "error", err)
	}

	userRepo := postgres.NewUserRepository(db)
	fileRepo := postgres.NewFileRepository(db)
	grantRepo := postgres.NewGrantRepository(db)

	authService := service.NewAuth(
		userRepo,
		password.NewBcrypt(cfg.Auth.BcryptCost),
		token.NewJWT(cfg.JWT.Secret, cfg.JWT.MaxAge),
		logger,
	)
	fileService := service.NewFile(fileRepo, blobStore, logger)
	grantService := service.NewGrant(fileRepo, userRepo, grantRepo, recorder, logger)
	accessService := service.NewAccess(fileRepo, grantRepo, blobStore, recorder, logger)

	app, err := httprouter.New(
		authService,
		fileService,
		grantService,
		accessService,
		db,
		blobStore,
		httpctx.NewManager(),
		registry,
		httprouter.Options{
			PublicBaseURL:  cfg.HTTP.PublicBaseURL,
			MaxUploadBytes: int64(cfg.Upload.MaxBytes),
		},
		logger,
	).Register()
	if err != nil {
		logger.Fatal("failed to build http router", "error", err)
	}

	httpLayer, err := server.NewSecurityLayer(cfg.HTTP, server.HTTPProtocols)
	if err != nil {
		logger.Fatal("failed to initialize security layer", "error", err)
	}

	type listening struct {
		server model.Server
		layer  model.SecurityLayer
	}
	servers := []listening{
		{server: httpserver.NewHTTPServer(app, fmt.Sprintf(":%s", cfg.HTTP.Port)), layer: httpLayer},
	}

	var wg sync.WaitGroup

	if cfg.GRPC.Enabled {
		grpcLayer, err := server.NewSecurityLayer(cfg.HTTP, server.GRPCProtocols)
		if err != nil {
			logger.Fatal("failed to initialize security layer", "error", err)
		}

		healthServer := health.NewServer()
		watcher := grpchealth.NewWatcher(healthServer, db, cfg.HealthInterval, logger)

		wg.Add(1)
		go func() {
			defer wg.Done()
			watcher.Run(ctx)
		}()

		grpcServer := grpcrouter.New(healthServer, logger).Register()
		servers = append(servers, listening{
			server: grpcserver.NewGRPCServer(grpcServer, fmt.Sprintf(":%s", cfg.GRPC.Port)),
			layer:  grpcLayer,
		})
	}

	for _, l := range servers {
		wg.Add(1)
		go func(s model.Server, sl model.SecurityLayer) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("server stopped with error", "error", err, "address", s.Address())
				stop()
			}
		}(l.server, l.layer)
	}

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	var g errgroup.Group
	for _, l := range servers {
		s := l.server
		g.Go(func() error {
			if err := s.Stop(shutdownCtx); err != nil {
				return fmt.Errorf("failed to stop server on %s: %w", s.Address(), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("error during server shutdown", "error", err)
	}

	wg.Wait()

	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("failed to flush traces", "error", err)
	}

	logger.Info("shutdown complete")
}

func newBlobStore(ctx context.Context, cfg *config.Config) (model.BlobStore, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendS3:
		return s3.NewClient(ctx, cfg.S3, cfg.Storage.Bucket)
	default:
		return minio.NewClient(ctx, cfg.MinIO, cfg.Storage.Bucket)
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
