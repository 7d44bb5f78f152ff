// The outbox worker drains pending domain events from the outbox and
// publishes them to EventBridge. It runs alongside the API so event delivery
// survives API restarts and deploys.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"lexmatter/infrastructure/config"
	"lexmatter/infrastructure/di"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	logger := container.Logger
	defer logger.Sync()

	// One-shot mode for cron-style scheduling.
	if len(os.Args) > 1 && os.Args[1] == "once" {
		if err := container.OutboxProcessor.ProcessBatch(ctx); err != nil {
			logger.Error("Outbox batch failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	container.OutboxProcessor.Start(ctx)
	logger.Info("Outbox worker started",
		zap.String("environment", cfg.Environment),
		zap.String("eventBus", cfg.EventBusName),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down outbox worker...")
	container.OutboxProcessor.Stop()
}
