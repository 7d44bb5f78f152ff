package di

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"lexmatter/application/commands"
	"lexmatter/application/commands/bus"
	cmdhandlers "lexmatter/application/commands/handlers"
	"lexmatter/application/ports"
	"lexmatter/application/queries"
	querybus "lexmatter/application/queries/bus"
	queryhandlers "lexmatter/application/queries/handlers"
	"lexmatter/infrastructure/config"
	"lexmatter/infrastructure/messaging/eventbridge"
	"lexmatter/infrastructure/persistence/dynamodb"
	"lexmatter/pkg/auth"
	"lexmatter/pkg/observability"
)

const (
	rateLimitWindow      = time.Minute
	auditCacheTTLSeconds = 30
)

// ProvideLogger creates the application logger
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err == nil {
		zapCfg.Level = level
	}

	return zapCfg.Build()
}

// ProvideAWSConfig loads the AWS SDK configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideCollector creates the Prometheus metrics collector
func ProvideCollector() *observability.Collector {
	return observability.NewCollector("lexmatter")
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer() *observability.Tracer {
	return observability.NewTracer("lexmatter")
}

// ProvideMetrics creates the CloudWatch metrics publisher
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) *observability.Metrics {
	namespace := fmt.Sprintf("LexMatter/%s", cfg.Environment)
	return observability.NewMetrics(namespace, client)
}

// ProvideMatterRepository creates the matter repository
func ProvideMatterRepository(client *awsdynamodb.Client, cfg *config.Config, collector *observability.Collector, logger *zap.Logger) ports.MatterRepository {
	return dynamodb.NewMatterRepository(client, cfg.DynamoDBTable, collector, logger)
}

// ProvideDocumentRepository creates the document repository
func ProvideDocumentRepository(client *awsdynamodb.Client, cfg *config.Config, collector *observability.Collector, logger *zap.Logger) ports.DocumentRepository {
	return dynamodb.NewDocumentRepository(client, cfg.DynamoDBTable, collector, logger)
}

// ProvideRevisionRepository creates the revision repository
func ProvideRevisionRepository(client *awsdynamodb.Client, cfg *config.Config, collector *observability.Collector, logger *zap.Logger) ports.RevisionRepository {
	return dynamodb.NewRevisionRepository(client, cfg.DynamoDBTable, collector, logger)
}

// ProvideUserRepository creates the user profile repository
func ProvideUserRepository(client *awsdynamodb.Client, cfg *config.Config, collector *observability.Collector, logger *zap.Logger) ports.UserRepository {
	return dynamodb.NewUserRepository(client, cfg.DynamoDBTable, collector, logger)
}

// ProvideAuditStore creates the audit trail store
func ProvideAuditStore(client *awsdynamodb.Client, cfg *config.Config, collector *observability.Collector, logger *zap.Logger) ports.AuditStore {
	return dynamodb.NewAuditStore(client, cfg.DynamoDBTable, collector, logger)
}

// ProvideEventStore creates the outbox-backed event store
func ProvideEventStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) *dynamodb.EventStore {
	return dynamodb.NewEventStore(client, cfg.DynamoDBTable, logger)
}

// ProvideEventStorePort exposes the event store through its port
func ProvideEventStorePort(store *dynamodb.EventStore) ports.EventStore {
	return store
}

// ProvideEventBus creates the EventBridge publisher
func ProvideEventBus(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventBus {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideEventPublisher exposes the event bus as a plain publisher
func ProvideEventPublisher(eventBus ports.EventBus) ports.EventPublisher {
	return eventBus
}

// ProvideOutboxProcessor creates the background outbox processor
func ProvideOutboxProcessor(store *dynamodb.EventStore, publisher ports.EventPublisher, logger *zap.Logger) *dynamodb.OutboxProcessor {
	return dynamodb.NewOutboxProcessor(store, publisher, logger)
}

// UnitOfWorkFactory builds a fresh unit of work per operation
type UnitOfWorkFactory func() ports.UnitOfWork

// ProvideUnitOfWorkFactory creates the unit of work factory
func ProvideUnitOfWorkFactory(
	client *awsdynamodb.Client,
	cfg *config.Config,
	eventStore ports.EventStore,
	collector *observability.Collector,
	logger *zap.Logger,
) UnitOfWorkFactory {
	return func() ports.UnitOfWork {
		return dynamodb.NewDynamoDBUnitOfWork(client, cfg.DynamoDBTable, eventStore, collector, logger)
	}
}

// ProvideDistributedLock creates the DynamoDB-backed lock
func ProvideDistributedLock(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.DistributedLock {
	return dynamodb.NewDistributedLock(client, cfg.DynamoDBTable, cfg.LambdaFunctionName, logger)
}

// ProvideDistributedRateLimiter creates a DynamoDB-backed rate limiter
func ProvideDistributedRateLimiter(client *awsdynamodb.Client, cfg *config.Config) *auth.DistributedRateLimiter {
	return auth.NewDistributedRateLimiter(
		client,
		cfg.DynamoDBTable,
		cfg.RateLimitPerMinute,
		rateLimitWindow,
		"API",
	)
}

// ProvideJWTValidator creates the token validator
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" && !cfg.IsProduction() {
		// Local development only; Config.Validate rejects an empty
		// secret in production before this runs.
		secret = "local-development-secret"
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     secret,
		Issuer:        cfg.JWTIssuer,
	})
}

// ProvideQueryCache creates a process-local cache for query results
func ProvideQueryCache() ports.Cache {
	return NewQueryCache()
}

// Handlers groups the command handlers that return results to the caller.
// Lifecycle transitions go through the command bus; these operations hand
// the created or updated entity back to the HTTP layer.
type Handlers struct {
	CreateMatter   *cmdhandlers.CreateMatterHandler
	UpdateMatter   *cmdhandlers.UpdateMatterHandler
	CreateDocument *cmdhandlers.CreateDocumentHandler
	RenameDocument *cmdhandlers.RenameDocumentHandler
	CheckInDoc     *cmdhandlers.CheckInDocumentHandler
	Transfer       *cmdhandlers.TransferDocumentHandler
}

// ProvideHandlers wires the result-returning command handlers
func ProvideHandlers(
	matterRepo ports.MatterRepository,
	documentRepo ports.DocumentRepository,
	auditStore ports.AuditStore,
	eventStore ports.EventStore,
	uowFactory UnitOfWorkFactory,
	lock ports.DistributedLock,
	cfg *config.Config,
	collector *observability.Collector,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		CreateMatter:   cmdhandlers.NewCreateMatterHandler(matterRepo, auditStore, eventStore, cfg.Domain, collector, logger),
		UpdateMatter:   cmdhandlers.NewUpdateMatterHandler(matterRepo, auditStore, eventStore, cfg.Domain, logger),
		CreateDocument: cmdhandlers.NewCreateDocumentHandler(matterRepo, documentRepo, auditStore, eventStore, cfg.Domain, collector, logger),
		RenameDocument: cmdhandlers.NewRenameDocumentHandler(documentRepo, matterRepo, auditStore, eventStore, cfg.Domain, logger),
		CheckInDoc:     cmdhandlers.NewCheckInDocumentHandler(documentRepo, matterRepo, func() ports.UnitOfWork { return uowFactory() }, cfg.Domain, logger),
		Transfer:       cmdhandlers.NewTransferDocumentHandler(documentRepo, matterRepo, func() ports.UnitOfWork { return uowFactory() }, lock, cfg.Domain, collector, logger),
	}
}

// ProvideCommandBus creates the command bus and registers the lifecycle handlers
func ProvideCommandBus(
	matterRepo ports.MatterRepository,
	documentRepo ports.DocumentRepository,
	auditStore ports.AuditStore,
	eventStore ports.EventStore,
	cfg *config.Config,
	collector *observability.Collector,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus()

	pipeline := bus.NewPipeline(
		bus.LoggingMiddleware(logger),
		bus.MetricsMiddleware(collector),
	)

	matterLifecycle := cmdhandlers.NewMatterLifecycleHandler(matterRepo, documentRepo, auditStore, eventStore, cfg.Domain, logger)
	if err := commandBus.Register(&commands.ChangeMatterStateCommand{}, pipeline.Execute(matterLifecycle)); err != nil {
		return nil, err
	}

	documentLifecycle := cmdhandlers.NewDocumentLifecycleHandler(documentRepo, matterRepo, auditStore, eventStore, cfg.Domain, logger)
	if err := commandBus.Register(&commands.ChangeDocumentStateCommand{}, pipeline.Execute(documentLifecycle)); err != nil {
		return nil, err
	}

	checkOut := cmdhandlers.NewCheckOutDocumentHandler(documentRepo, matterRepo, auditStore, eventStore, cfg.Domain, logger)
	if err := commandBus.Register(&commands.CheckOutDocumentCommand{}, pipeline.Execute(checkOut)); err != nil {
		return nil, err
	}
	if err := commandBus.Register(&commands.CancelCheckOutCommand{}, pipeline.Execute(checkOut)); err != nil {
		return nil, err
	}

	return commandBus, nil
}

// ProvideQueryBus creates the query bus and registers the query handlers
func ProvideQueryBus(
	matterRepo ports.MatterRepository,
	documentRepo ports.DocumentRepository,
	revisionRepo ports.RevisionRepository,
	auditStore ports.AuditStore,
	cache ports.Cache,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()

	matterHandler := queryhandlers.NewMatterQueryHandler(matterRepo, logger)
	for _, q := range []querybus.Query{queries.GetMatterQuery{}, queries.ListMattersQuery{}} {
		if err := queryBus.Register(q, matterHandler); err != nil {
			return nil, err
		}
	}

	documentHandler := queryhandlers.NewDocumentQueryHandler(documentRepo, matterRepo, revisionRepo, logger)
	for _, q := range []querybus.Query{queries.GetDocumentQuery{}, queries.ListDocumentsQuery{}, queries.ListRevisionsQuery{}} {
		if err := queryBus.Register(q, documentHandler); err != nil {
			return nil, err
		}
	}

	// Audit trails are append-only, so short-lived cached reads stay coherent
	// enough for listing endpoints.
	caching := querybus.NewCachingMiddleware(cache, auditCacheTTLSeconds)
	auditHandler := queryhandlers.NewAuditQueryHandler(auditStore, matterRepo, documentRepo, logger)
	cachedAudit := caching.Wrap(auditHandler)
	for _, q := range []querybus.Query{
		queries.MatterAuditQuery{},
		queries.DocumentAuditQuery{},
		queries.MatterTransfersQuery{},
		queries.DocumentTransfersQuery{},
	} {
		if err := queryBus.Register(q, cachedAudit); err != nil {
			return nil, err
		}
	}

	return queryBus, nil
}
