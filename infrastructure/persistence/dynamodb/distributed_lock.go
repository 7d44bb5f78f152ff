package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lexmatter/application/ports"
	pkgerrors "lexmatter/pkg/errors"
)

// DistributedLock implements ports.DistributedLock using DynamoDB
// conditional writes. A lock is a single item whose existence is the lock;
// the TTL attribute lets DynamoDB reap locks abandoned by crashed workers.
type DistributedLock struct {
	client    *dynamodb.Client
	tableName string
	ownerID   string
	logger    *zap.Logger
}

// lockRecord is the DynamoDB representation of a held lock. ExpiresAt is
// epoch nanoseconds so the takeover condition compares numerically.
type lockRecord struct {
	PK         string `dynamodbav:"PK"` // LOCK#<resource>
	SK         string `dynamodbav:"SK"` // LOCK
	LockID     string `dynamodbav:"LockID"`
	Owner      string `dynamodbav:"Owner"`
	AcquiredAt string `dynamodbav:"AcquiredAt"`
	ExpiresAt  int64  `dynamodbav:"ExpiresAt"`
	TTL        int64  `dynamodbav:"TTL"`
}

// NewDistributedLock creates a new distributed lock backed by the given
// table. The owner ID distinguishes this process in lock records.
func NewDistributedLock(client *dynamodb.Client, tableName, ownerID string, logger *zap.Logger) *DistributedLock {
	if ownerID == "" {
		ownerID = uuid.New().String()
	}
	return &DistributedLock{
		client:    client,
		tableName: tableName,
		ownerID:   ownerID,
		logger:    logger,
	}
}

// Acquire takes the lock for the resource, failing immediately if another
// holder has it and it has not expired. The returned release function is
// idempotent.
func (dl *DistributedLock) Acquire(ctx context.Context, resource string, ttl time.Duration) (func(), error) {
	lockID := fmt.Sprintf("%s_%d", dl.ownerID, time.Now().UnixNano())
	now := time.Now()
	expiresAt := now.Add(ttl)

	record := lockRecord{
		PK:         fmt.Sprintf("LOCK#%s", resource),
		SK:         "LOCK",
		LockID:     lockID,
		Owner:      dl.ownerID,
		AcquiredAt: now.UTC().Format(time.RFC3339Nano),
		ExpiresAt:  expiresAt.UnixNano(),
		TTL:        expiresAt.Unix(),
	}

	item, err := marshalItem(record)
	if err != nil {
		return nil, err
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(dl.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK) OR ExpiresAt < :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.UnixNano(), 10)},
		},
	}

	if _, err := dl.client.PutItem(ctx, input); err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			dl.logger.Debug("Lock already held",
				zap.String("resource", resource),
				zap.String("owner", dl.ownerID),
			)
			return nil, pkgerrors.ErrTransferLocked.WithDetail("resource", resource)
		}
		return nil, pkgerrors.NewDatabaseError("acquire lock", err)
	}

	dl.logger.Debug("Lock acquired",
		zap.String("resource", resource),
		zap.String("lockID", lockID),
		zap.Duration("ttl", ttl),
	)

	var once sync.Once
	release := func() {
		once.Do(func() {
			// Use a fresh context so the lock is released even when
			// the request context has been canceled.
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			dl.release(releaseCtx, resource, lockID)
		})
	}
	return release, nil
}

// release deletes the lock item if this holder still owns it. Losing the
// race to an expiry takeover makes the delete a conditional no-op.
func (dl *DistributedLock) release(ctx context.Context, resource, lockID string) {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(dl.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("LOCK#%s", resource)},
			"SK": &types.AttributeValueMemberS{Value: "LOCK"},
		},
		ConditionExpression: aws.String("LockID = :lockId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":lockId": &types.AttributeValueMemberS{Value: lockID},
		},
	}

	if _, err := dl.client.DeleteItem(ctx, input); err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			dl.logger.Warn("Lock already released or taken over",
				zap.String("resource", resource),
				zap.String("lockID", lockID),
			)
			return
		}
		dl.logger.Error("Failed to release lock",
			zap.String("resource", resource),
			zap.String("lockID", lockID),
			zap.Error(err),
		)
		return
	}

	dl.logger.Debug("Lock released",
		zap.String("resource", resource),
		zap.String("lockID", lockID),
	)
}

var _ ports.DistributedLock = (*DistributedLock)(nil)
