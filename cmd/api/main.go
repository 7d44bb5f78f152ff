package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"go.uber.org/zap"

	"lexmatter/infrastructure/config"
	"lexmatter/infrastructure/di"
	"lexmatter/infrastructure/persistence/schema"
	"lexmatter/interfaces/http/rest"
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

	// Local development provisions its own table; deployed environments
	// get theirs from infrastructure templates.
	if cfg.IsDevelopment() {
		bootstrap := schema.NewBootstrap(di.ProvideDynamoDBClient(mustAWSConfig(ctx, cfg)), logger)
		if err := bootstrap.EnsureTable(ctx, cfg.DynamoDBTable); err != nil {
			logger.Fatal("Failed to ensure table", zap.Error(err))
		}
	}

	// Hot-reload of tunable business limits.
	if path := os.Getenv("DYNAMIC_CONFIG_FILE"); path != "" {
		watcher, err := config.NewWatcher(path, logger)
		if err != nil {
			logger.Warn("Dynamic config watcher unavailable", zap.Error(err))
		} else {
			watcher.OnChange(func(dc *config.DynamicConfig) {
				dc.Apply(cfg.Domain)
				logger.Info("Applied dynamic configuration", zap.String("version", dc.Metadata.Version))
			})
			watcher.Current().Apply(cfg.Domain)
			watcher.Start()
			defer watcher.Stop()
		}
	}

	if cfg.Domain.EnableOutboxPublish {
		container.OutboxProcessor.Start(ctx)
		defer container.OutboxProcessor.Stop()
	}

	router := rest.NewRouter(container)
	handler := router.Setup()

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func mustAWSConfig(ctx context.Context, cfg *config.Config) aws.Config {
	awsCfg, err := di.ProvideAWSConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to load AWS configuration: %v", err)
	}
	return awsCfg
}
