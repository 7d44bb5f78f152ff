package schema

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// Bootstrap creates the single application table when it does not exist.
// Production tables come from infrastructure templates; this exists for
// local development and integration tests against DynamoDB Local.
type Bootstrap struct {
	client *dynamodb.Client
	logger *zap.Logger
}

// NewBootstrap creates a new schema bootstrap
func NewBootstrap(client *dynamodb.Client, logger *zap.Logger) *Bootstrap {
	return &Bootstrap{client: client, logger: logger}
}

// EnsureTable creates the table with its GSI1 index and TTL attribute,
// then waits for it to become active. Existing tables are left untouched.
func (b *Bootstrap) EnsureTable(ctx context.Context, tableName string) error {
	_, err := b.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	})
	if err == nil {
		b.logger.Debug("Table already exists", zap.String("table", tableName))
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("failed to describe table %s: %w", tableName, err)
	}

	b.logger.Info("Creating table", zap.String("table", tableName))

	_, err = b.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(tableName),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("PK"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("SK"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("GSI1PK"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("GSI1SK"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("PK"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("SK"), KeyType: types.KeyTypeRange},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String("GSI1"),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("GSI1PK"), KeyType: types.KeyTypeHash},
					{AttributeName: aws.String("GSI1SK"), KeyType: types.KeyTypeRange},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	if err := b.waitForActive(ctx, tableName); err != nil {
		return err
	}

	// TTL reaps expired locks and aged-out outbox entries.
	_, err = b.client.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
		TableName: aws.String(tableName),
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			AttributeName: aws.String("TTL"),
			Enabled:       aws.Bool(true),
		},
	})
	if err != nil {
		// DynamoDB Local versions without TTL support should not block
		// development.
		b.logger.Warn("Failed to enable TTL", zap.String("table", tableName), zap.Error(err))
	}

	b.logger.Info("Table created", zap.String("table", tableName))
	return nil
}

func (b *Bootstrap) waitForActive(ctx context.Context, tableName string) error {
	deadline := time.Now().Add(2 * time.Minute)

	for time.Now().Before(deadline) {
		result, err := b.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String(tableName),
		})
		if err == nil && result.Table != nil && result.Table.TableStatus == types.TableStatusActive {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}

	return fmt.Errorf("table %s did not become active", tableName)
}
