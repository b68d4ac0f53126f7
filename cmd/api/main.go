package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nakelabs/kasa-alert-connect/docs"
	"github.com/nakelabs/kasa-alert-connect/internal/archive"
	"github.com/nakelabs/kasa-alert-connect/internal/config"
	"github.com/nakelabs/kasa-alert-connect/internal/handler"
	"github.com/nakelabs/kasa-alert-connect/internal/logger"
	"github.com/nakelabs/kasa-alert-connect/internal/queue/sqs"
	"github.com/nakelabs/kasa-alert-connect/internal/realtime"
	"github.com/nakelabs/kasa-alert-connect/internal/repository"
	"github.com/nakelabs/kasa-alert-connect/internal/repository/clickhouse"
	"github.com/nakelabs/kasa-alert-connect/internal/repository/gormstore"
	"github.com/nakelabs/kasa-alert-connect/internal/service"
)

const shutdownTimeout = 15 * time.Second

// @title KASA Alert Connect API
// @version 1.0
// @description Multi-agency emergency SMS alerting: recipients, alerts, delivery ledger and dashboard stats
// @host localhost:8080
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment, "api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	if err := cfg.RequireQueues(); err != nil {
		log.Fatal("Invalid queue configuration", zap.Error(err))
	}

	log.Info("Starting API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	// Configure Swagger host dynamically
	docs.SwaggerInfo.Host = cfg.Service.Host

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := gormstore.Open(cfg.Store, log)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Failed to close store", zap.Error(err))
		}
	}()

	if err := store.Migrate(ctx); err != nil {
		log.Fatal("Failed to migrate store", zap.Error(err))
	}

	healthChecks := map[string]handler.HealthChecker{"store": store}

	// Delivery history is optional; without it the history endpoint returns an empty list
	var history repository.HistoryRepository
	if cfg.ClickHouse.Enabled() {
		chClient, err := clickhouse.NewClient(ctx, cfg.ClickHouse, log)
		if err != nil {
			log.Fatal("Failed to create ClickHouse client", zap.Error(err))
		}
		defer func(chClient *clickhouse.Client) {
			if err := chClient.Close(); err != nil {
				log.Error("Failed to close ClickHouse client", zap.Error(err))
			}
		}(chClient)

		repo := clickhouse.NewRepository(chClient, log)
		history = repo
		healthChecks["clickhouse"] = repo
	}

	outbound, err := sqs.NewClient(ctx, cfg.SQS, cfg.SQS.OutboundQueueURL, log)
	if err != nil {
		log.Fatal("Failed to create outbound SQS client", zap.Error(err))
	}
	events, err := sqs.NewClient(ctx, cfg.SQS, cfg.SQS.DeliveryEventsQueueURL, log)
	if err != nil {
		log.Fatal("Failed to create delivery-events SQS client", zap.Error(err))
	}

	var archiver service.Archiver
	if cfg.Archive.Bucket != "" {
		region := cfg.Archive.Region
		if region == "" {
			region = cfg.SQS.Region
		}
		s3API, err := archive.NewS3API(ctx, region, cfg.SQS.Endpoint, log)
		if err != nil {
			log.Fatal("Failed to create S3 client", zap.Error(err))
		}
		archiver = archive.NewS3Archiver(s3API, cfg.Archive.Bucket, log)
		log.Info("Recipient uploads will be archived", zap.String("bucket", cfg.Archive.Bucket))
	}

	hub := realtime.NewHub(log)
	defer hub.Close()

	registry := service.NewRegistryService(store, archiver, cfg.Registry, log)
	dispatcher := service.NewDispatcherService(store, registry, outbound, hub, cfg.Dispatcher, log)
	ledger := service.NewLedgerService(store, history, events, hub, log)

	h := handler.NewHandler(handler.Services{
		Auth:       service.NewAuthService(store, cfg.Auth, log),
		Registry:   registry,
		Dispatcher: dispatcher,
		Ledger:     ledger,
		Stats:      service.NewStatsService(store, log),
	}, handler.Options{
		RequestTimeout: cfg.Service.RequestTimeout,
		MaxUploadBytes: cfg.Registry.MaxUploadBytes,
		GatewayToken:   cfg.Gateway.Token,
		Realtime:       hub,
		HealthChecks:   healthChecks,
	}, log)

	if cfg.Gateway.Token == "" {
		log.Warn("GATEWAY_TOKEN is empty, gateway webhooks will reject every call")
	}

	go dispatcher.RunRelay(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Service.APIPort),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("API server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start API server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down API service gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("API server shutdown error", zap.Error(err))
	}
}
