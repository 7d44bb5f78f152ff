//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"lexmatter/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideCollector,
	ProvideMetrics,
	ProvideTracer,
	ProvideMatterRepository,
	ProvideDocumentRepository,
	ProvideRevisionRepository,
	ProvideUserRepository,
	ProvideAuditStore,
	ProvideEventStore,
	ProvideEventStorePort,
	ProvideEventBus,
	ProvideEventPublisher,
	ProvideOutboxProcessor,
	ProvideUnitOfWorkFactory,
	ProvideDistributedLock,
	ProvideDistributedRateLimiter,
	ProvideJWTValidator,
	ProvideQueryCache,
	ProvideHandlers,
	ProvideCommandBus,
	ProvideQueryBus,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
