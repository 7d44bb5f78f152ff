package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	domainconfig "lexmatter/domain/config"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion     string
	DynamoDBTable string
	IndexName     string // GSI1 - by-ID lookups and document transfer history
	EventBusName  string

	// Lambda configuration
	IsLambda           bool
	LambdaFunctionName string

	// Outbox worker configuration
	OutboxBatchSize int
	OutboxInterval  time.Duration

	// Logging
	LogLevel string

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Rate limiting
	RateLimitPerMinute int

	// Feature flags
	EnableMetrics bool
	EnableTracing bool
	EnableCORS    bool

	// Business rules
	Domain *domainconfig.DomainConfig
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		DynamoDBTable: getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", "lexmatter")),
		IndexName:     getEnv("INDEX_NAME", "GSI1"),
		EventBusName:  getEnv("EVENT_BUS_NAME", "lexmatter-events"),

		IsLambda:           getEnvBool("IS_LAMBDA", false),
		LambdaFunctionName: getEnv("AWS_LAMBDA_FUNCTION_NAME", ""),

		OutboxBatchSize: getEnvInt("OUTBOX_BATCH_SIZE", 50),
		OutboxInterval:  getEnvDuration("OUTBOX_INTERVAL", 5*time.Second),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "lexmatter"),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 300),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),

		Domain: loadDomainConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

// loadDomainConfig starts from the domain defaults and applies environment
// overrides for the limits operators actually tune
func loadDomainConfig() *domainconfig.DomainConfig {
	dc := domainconfig.DefaultDomainConfig()

	dc.MaxDocumentsPerMatter = getEnvInt("MAX_DOCUMENTS_PER_MATTER", dc.MaxDocumentsPerMatter)
	dc.MaxFileSizeBytes = getEnvInt64("MAX_FILE_SIZE_BYTES", dc.MaxFileSizeBytes)
	dc.MaxRevisionsPerDocument = getEnvInt("MAX_REVISIONS_PER_DOCUMENT", dc.MaxRevisionsPerDocument)
	dc.TransferLockDuration = getEnvDuration("TRANSFER_LOCK_DURATION", dc.TransferLockDuration)
	dc.RequireUniqueFileNames = getEnvBool("REQUIRE_UNIQUE_FILE_NAMES", dc.RequireUniqueFileNames)
	dc.RequireUniqueMatterNumbers = getEnvBool("REQUIRE_UNIQUE_MATTER_NUMBERS", dc.RequireUniqueMatterNumbers)
	dc.EnableAuditTrail = getEnvBool("ENABLE_AUDIT_TRAIL", dc.EnableAuditTrail)
	dc.EnableOutboxPublish = getEnvBool("ENABLE_OUTBOX_PUBLISH", dc.EnableOutboxPublish)

	return dc
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required")
		}
		if c.EventBusName == "" {
			return fmt.Errorf("EVENT_BUS_NAME is required")
		}
	}
	if c.OutboxBatchSize <= 0 {
		return fmt.Errorf("OUTBOX_BATCH_SIZE must be positive")
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvInt64 gets a 64-bit integer environment variable with a default value
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
