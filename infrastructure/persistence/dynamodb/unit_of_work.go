package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"lexmatter/application/ports"
	"lexmatter/domain/core/entities"
	"lexmatter/domain/events"
	pkgerrors "lexmatter/pkg/errors"
	"lexmatter/pkg/observability"
)

// DynamoDB caps TransactWriteItems at 100 items; stay well under it so a
// registered batch plus its outbox entries always fits.
const maxTransactItems = 50

// DynamoDBUnitOfWork implements ports.UnitOfWork on TransactWriteItems.
// Registered saves, audit entries and outbox events all land in one
// transaction, so a transfer's document, counters and FROM/TO trail rows
// commit or fail together.
type DynamoDBUnitOfWork struct {
	client     *dynamodb.Client
	tableName  string
	eventStore ports.EventStore
	collector  *observability.Collector
	logger     *zap.Logger

	transactItems []types.TransactWriteItem
	pendingEvents []events.DomainEvent
	inTransaction bool
}

// NewDynamoDBUnitOfWork creates a new unit of work instance. Each instance
// tracks a single transaction; callers construct one per operation.
func NewDynamoDBUnitOfWork(client *dynamodb.Client, tableName string, eventStore ports.EventStore, collector *observability.Collector, logger *zap.Logger) *DynamoDBUnitOfWork {
	return &DynamoDBUnitOfWork{
		client:     client,
		tableName:  tableName,
		eventStore: eventStore,
		collector:  collector,
		logger:     logger,
	}
}

// Begin starts a new transaction
func (uow *DynamoDBUnitOfWork) Begin(ctx context.Context) error {
	if uow.inTransaction {
		return fmt.Errorf("transaction already in progress")
	}
	uow.inTransaction = true
	uow.clear()
	return nil
}

// RegisterMatter stages a matter save with its optimistic-lock condition
func (uow *DynamoDBUnitOfWork) RegisterMatter(matter *entities.Matter) error {
	if !uow.inTransaction {
		return fmt.Errorf("no transaction in progress")
	}

	item, err := marshalItem(newMatterItem(matter))
	if err != nil {
		return err
	}

	uow.transactItems = append(uow.transactItems, types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(uow.tableName),
			Item:                item,
			ConditionExpression: aws.String("attribute_not_exists(PK) OR Version = :expected"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":expected": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", matter.Version()-1)},
			},
		},
	})
	return nil
}

// RegisterDocument stages a document save. A document carrying a pending
// move contributes two items: the delete under the source matter and the
// put under the destination.
func (uow *DynamoDBUnitOfWork) RegisterDocument(document *entities.Document) error {
	if !uow.inTransaction {
		return fmt.Errorf("no transaction in progress")
	}

	item, err := marshalItem(newDocumentItem(document))
	if err != nil {
		return err
	}

	if !document.MovedFrom().IsZero() {
		uow.transactItems = append(uow.transactItems, documentMoveTransactItems(uow.tableName, document, item)...)
		return nil
	}

	uow.transactItems = append(uow.transactItems, types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(uow.tableName),
			Item:                item,
			ConditionExpression: aws.String("attribute_not_exists(PK) OR Version = :expected"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":expected": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", document.Version()-1)},
			},
		},
	})
	return nil
}

// RegisterRevision stages a revision append. The condition keeps revisions
// append-only even inside a transaction.
func (uow *DynamoDBUnitOfWork) RegisterRevision(revision *entities.Revision) error {
	if !uow.inTransaction {
		return fmt.Errorf("no transaction in progress")
	}

	item, err := marshalItem(newRevisionItem(revision))
	if err != nil {
		return err
	}

	uow.transactItems = append(uow.transactItems, types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(uow.tableName),
			Item:                item,
			ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
		},
	})
	return nil
}

// RegisterMatterActivity stages an audit entry
func (uow *DynamoDBUnitOfWork) RegisterMatterActivity(record *entities.MatterActivityRecord) error {
	if !uow.inTransaction {
		return fmt.Errorf("no transaction in progress")
	}
	return uow.registerPut(newMatterActivityItem(record))
}

// RegisterDocumentActivity stages an audit entry
func (uow *DynamoDBUnitOfWork) RegisterDocumentActivity(record *entities.DocumentActivityRecord) error {
	if !uow.inTransaction {
		return fmt.Errorf("no transaction in progress")
	}
	return uow.registerPut(newDocumentActivityItem(record))
}

// RegisterTransferRecords stages both sides of a transfer
func (uow *DynamoDBUnitOfWork) RegisterTransferRecords(from, to *entities.TransferRecord) error {
	if !uow.inTransaction {
		return fmt.Errorf("no transaction in progress")
	}
	if err := uow.registerPut(newTransferItem(from)); err != nil {
		return err
	}
	return uow.registerPut(newTransferItem(to))
}

// RegisterEvents stages outbox entries so downstream publication shares the
// transaction with the state change
func (uow *DynamoDBUnitOfWork) RegisterEvents(domainEvents []events.DomainEvent) error {
	if !uow.inTransaction {
		return fmt.Errorf("no transaction in progress")
	}
	uow.pendingEvents = append(uow.pendingEvents, domainEvents...)
	return nil
}

// Commit executes all registered operations atomically
func (uow *DynamoDBUnitOfWork) Commit(ctx context.Context) error {
	if !uow.inTransaction {
		return fmt.Errorf("no transaction in progress")
	}
	defer func() { uow.inTransaction = false }()

	start := time.Now()

	// Outbox entries ride along in the same transaction when the event
	// store can prepare them as transact items.
	if uow.eventStore != nil && len(uow.pendingEvents) > 0 {
		transactional, ok := uow.eventStore.(interface {
			PrepareEventItem(events.DomainEvent) (types.TransactWriteItem, error)
		})
		if ok {
			for _, event := range uow.pendingEvents {
				eventItem, err := transactional.PrepareEventItem(event)
				if err != nil {
					uow.clear()
					return fmt.Errorf("failed to prepare event item: %w", err)
				}
				uow.transactItems = append(uow.transactItems, eventItem)
			}
		}
	}

	if len(uow.transactItems) == 0 {
		uow.clear()
		return nil
	}
	if len(uow.transactItems) > maxTransactItems {
		uow.clear()
		return fmt.Errorf("transaction exceeds limit of %d items: %d items", maxTransactItems, len(uow.transactItems))
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: uow.transactItems,
	}

	if _, err := uow.client.TransactWriteItems(ctx, input); err != nil {
		uow.observe("error", start)
		uow.clear()
		if isTransactionConflict(err) {
			return pkgerrors.ErrConcurrentModification.WithCause(err)
		}
		return pkgerrors.ErrTransactionFailed.WithCause(err)
	}

	uow.observe("success", start)
	uow.clear()
	return nil
}

// Rollback discards the current transaction. Nothing has been written until
// Commit, so this only resets staged state.
func (uow *DynamoDBUnitOfWork) Rollback() error {
	if !uow.inTransaction {
		return fmt.Errorf("no transaction in progress")
	}
	uow.inTransaction = false
	uow.clear()
	return nil
}

func (uow *DynamoDBUnitOfWork) registerPut(record interface{}) error {
	item, err := marshalItem(record)
	if err != nil {
		return err
	}
	uow.transactItems = append(uow.transactItems, types.TransactWriteItem{
		Put: &types.Put{
			TableName: aws.String(uow.tableName),
			Item:      item,
		},
	})
	return nil
}

func (uow *DynamoDBUnitOfWork) clear() {
	uow.transactItems = nil
	uow.pendingEvents = nil
}

func (uow *DynamoDBUnitOfWork) observe(status string, start time.Time) {
	if uow.collector != nil {
		uow.collector.ObserveDB("transact_write", status, time.Since(start))
	}
}

// isTransactionConflict reports whether a transaction failed on a condition
// check or a concurrent transaction, the cases worth retrying
func isTransactionConflict(err error) bool {
	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		for _, reason := range canceled.CancellationReasons {
			if reason.Code != nil && (*reason.Code == "ConditionalCheckFailed" || *reason.Code == "TransactionConflict") {
				return true
			}
		}
	}
	var conflict *types.TransactionConflictException
	return errors.As(err, &conflict)
}

var _ ports.UnitOfWork = (*DynamoDBUnitOfWork)(nil)
