package di

import (
	"lexmatter/application/commands/bus"
	"lexmatter/application/ports"
	querybus "lexmatter/application/queries/bus"
	"lexmatter/infrastructure/config"
	"lexmatter/infrastructure/persistence/dynamodb"
	"lexmatter/pkg/auth"
	"lexmatter/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *zap.Logger
	Collector        *observability.Collector
	Metrics          *observability.Metrics
	Tracer           *observability.Tracer
	MatterRepo       ports.MatterRepository
	DocumentRepo     ports.DocumentRepository
	RevisionRepo     ports.RevisionRepository
	UserRepo         ports.UserRepository
	AuditStore       ports.AuditStore
	EventBus         ports.EventBus
	EventStore       ports.EventStore
	OutboxProcessor  *dynamodb.OutboxProcessor
	UnitOfWork       UnitOfWorkFactory
	DistributedLock  ports.DistributedLock
	CommandBus       *bus.CommandBus
	QueryBus         *querybus.QueryBus
	Handlers         *Handlers
	Cache            ports.Cache
	RateLimiter      *auth.DistributedRateLimiter
	JWTValidator     *auth.JWTValidator
}
