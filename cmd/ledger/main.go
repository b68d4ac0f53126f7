package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/nakelabs/kasa-alert-connect/internal/config"
	"github.com/nakelabs/kasa-alert-connect/internal/consumer"
	"github.com/nakelabs/kasa-alert-connect/internal/logger"
	"github.com/nakelabs/kasa-alert-connect/internal/queue/sqs"
	"github.com/nakelabs/kasa-alert-connect/internal/repository"
	"github.com/nakelabs/kasa-alert-connect/internal/repository/clickhouse"
	"github.com/nakelabs/kasa-alert-connect/internal/repository/gormstore"
	"github.com/nakelabs/kasa-alert-connect/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment, "ledger")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	if cfg.SQS.DeliveryEventsQueueURL == "" {
		log.Fatal("SQS_DELIVERY_EVENTS_QUEUE_URL is required")
	}

	log.Info("Starting ledger consumer",
		zap.String("environment", cfg.Service.Environment))

	ctx := context.Background()

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

	checks := map[string]func(context.Context) error{"store": store.Ping}

	var history repository.HistoryRepository
	if cfg.ClickHouse.Enabled() {
		chClient, err := clickhouse.NewClient(ctx, cfg.ClickHouse, log)
		if err != nil {
			log.Fatal("Failed to create ClickHouse client", zap.Error(err))
		}
		defer func() {
			if err := chClient.Close(); err != nil {
				log.Error("Failed to close ClickHouse client", zap.Error(err))
			}
		}()

		repo := clickhouse.NewRepository(chClient, log)

		// Initialize schema (create tables if not exist)
		if err := repo.InitSchema(ctx); err != nil {
			log.Fatal("Failed to initialize schema", zap.Error(err))
		}
		log.Info("Delivery history schema initialized")

		history = repo
		checks["clickhouse"] = repo.Ping
	} else {
		log.Warn("CLICKHOUSE_HOST is empty, delivery history will not be recorded")
	}

	sqsClient, err := sqs.NewClient(ctx, cfg.SQS, cfg.SQS.DeliveryEventsQueueURL, log)
	if err != nil {
		log.Fatal("Failed to create SQS client", zap.Error(err))
	}

	ledger := service.NewLedgerService(store, history, nil, nil, log)
	c := consumer.NewLedgerConsumer(cfg.Consumer, sqsClient, ledger, history, log)

	// Start health check endpoint
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			for name, ping := range checks {
				if err := ping(r.Context()); err != nil {
					log.Warn("Health check failed", zap.String("check", name), zap.Error(err))
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
			}
			w.WriteHeader(http.StatusOK)
		})

		addr := ":" + cfg.Consumer.HealthCheckPort
		log.Info("Health check server starting", zap.String("address", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Error("Health check server error", zap.Error(err))
		}
	}()

	consumerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info("Consumer starting")

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := c.Start(consumerCtx); err != nil {
			log.Error("Consumer error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down consumer gracefully")
	cancel()
	<-done
}
