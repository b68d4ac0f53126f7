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
	"github.com/nakelabs/kasa-alert-connect/internal/courier"
	"github.com/nakelabs/kasa-alert-connect/internal/logger"
	"github.com/nakelabs/kasa-alert-connect/internal/queue/sqs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Service.Environment, "courier")
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

	log.Info("Starting courier",
		zap.String("environment", cfg.Service.Environment),
		zap.String("sender_id", cfg.Courier.SenderID))

	ctx := context.Background()

	outbound, err := sqs.NewClient(ctx, cfg.SQS, cfg.SQS.OutboundQueueURL, log)
	if err != nil {
		log.Fatal("Failed to create outbound SQS client", zap.Error(err))
	}
	events, err := sqs.NewClient(ctx, cfg.SQS, cfg.SQS.DeliveryEventsQueueURL, log)
	if err != nil {
		log.Fatal("Failed to create delivery-events SQS client", zap.Error(err))
	}

	snsAPI, err := courier.NewSNSAPI(ctx, cfg.SQS.Region, cfg.SQS.Endpoint, log)
	if err != nil {
		log.Fatal("Failed to create SNS client", zap.Error(err))
	}

	sender := courier.NewSender(snsAPI, events, cfg.Courier, log)
	c := courier.NewConsumer(cfg.Consumer, outbound, sender, log)

	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		addr := ":" + cfg.Courier.HealthCheckPort
		log.Info("Health check server starting", zap.String("address", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Error("Health check server error", zap.Error(err))
		}
	}()

	consumerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := c.Start(consumerCtx); err != nil {
			log.Error("Courier error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down courier gracefully")
	cancel()
	<-done
}
