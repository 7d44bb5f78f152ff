package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lexmatter/application/ports"
	"lexmatter/domain/events"
	pkgerrors "lexmatter/pkg/errors"
)

// Publish status of an outbox entry.
const (
	publishStatusPending   = "pending"
	publishStatusPublished = "published"
	publishStatusFailed    = "failed"
)

// Outbox entries are kept for a year, then reaped via the table's TTL.
const eventRetention = 365 * 24 * time.Hour

// EventStore implements ports.EventStore using DynamoDB with the outbox
// pattern. Events are written as pending, in the same transaction as the
// state change when staged through the unit of work, and a background
// processor publishes them downstream.
type EventStore struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// eventRecord is the DynamoDB representation of an outbox entry
type eventRecord struct {
	PK          string `dynamodbav:"PK"` // EVENTS#<aggregate_id>
	SK          string `dynamodbav:"SK"` // EVENT#<timestamp>#<event_id>
	EventID     string `dynamodbav:"EventID"`
	EventType   string `dynamodbav:"EventType"`
	AggregateID string `dynamodbav:"AggregateID"`
	Payload     []byte `dynamodbav:"Payload"`
	Timestamp   string `dynamodbav:"Timestamp"`
	Version     int    `dynamodbav:"Version"`

	PublishStatus   string `dynamodbav:"PublishStatus"`
	PublishAttempts int    `dynamodbav:"PublishAttempts"`
	PublishedAt     string `dynamodbav:"PublishedAt,omitempty"`
	LastError       string `dynamodbav:"LastError,omitempty"`

	TTL int64 `dynamodbav:"TTL,omitempty"`
}

// NewEventStore creates a new DynamoDB event store
func NewEventStore(client *dynamodb.Client, tableName string, logger *zap.Logger) *EventStore {
	return &EventStore{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// SaveEvents persists domain events as pending outbox entries
func (es *EventStore) SaveEvents(ctx context.Context, domainEvents []events.DomainEvent) error {
	if len(domainEvents) == 0 {
		return nil
	}

	writeRequests := make([]types.WriteRequest, 0, len(domainEvents))
	for _, event := range domainEvents {
		record, err := es.eventToRecord(event)
		if err != nil {
			return err
		}
		item, err := marshalItem(record)
		if err != nil {
			return err
		}
		writeRequests = append(writeRequests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}

	// BatchWriteItem accepts at most 25 items per call.
	for i := 0; i < len(writeRequests); i += 25 {
		end := i + 25
		if end > len(writeRequests) {
			end = len(writeRequests)
		}

		input := &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				es.tableName: writeRequests[i:end],
			},
		}

		result, err := es.client.BatchWriteItem(ctx, input)
		if err != nil {
			return pkgerrors.NewDatabaseError("save events", err)
		}
		if len(result.UnprocessedItems) > 0 {
			return pkgerrors.NewDatabaseError("save events",
				fmt.Errorf("%d events were not written", len(result.UnprocessedItems[es.tableName])))
		}
	}

	return nil
}

// GetEvents retrieves all events for an aggregate, oldest first
func (es *EventStore) GetEvents(ctx context.Context, aggregateID string) ([]events.DomainEvent, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(es.tableName),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("EVENTS#%s", aggregateID)},
		},
		ScanIndexForward: aws.Bool(true),
	}

	var domainEvents []events.DomainEvent
	for {
		result, err := es.client.Query(ctx, input)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("get events", err)
		}

		for _, raw := range result.Items {
			var record eventRecord
			if err := attributevalue.UnmarshalMap(raw, &record); err != nil {
				es.logger.Warn("Skipping malformed event record", zap.Error(err))
				continue
			}
			event, err := unmarshalEvent(record.EventType, record.Payload)
			if err != nil {
				es.logger.Warn("Skipping unreadable event record",
					zap.String("eventType", record.EventType),
					zap.Error(err),
				)
				continue
			}
			domainEvents = append(domainEvents, event)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return domainEvents, nil
}

// GetUnpublished retrieves outbox entries not yet published downstream.
// A scan is acceptable here; the pending set stays small because the outbox
// processor drains it continuously.
func (es *EventStore) GetUnpublished(ctx context.Context, limit int) ([]ports.StoredEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	input := &dynamodb.ScanInput{
		TableName:        aws.String(es.tableName),
		FilterExpression: aws.String("PublishStatus = :status AND begins_with(PK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: publishStatusPending},
			":prefix": &types.AttributeValueMemberS{Value: "EVENTS#"},
		},
		Limit: aws.Int32(int32(limit)),
	}

	result, err := es.client.Scan(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("scan pending events", err)
	}

	entries := make([]ports.StoredEvent, 0, len(result.Items))
	for _, raw := range result.Items {
		var record eventRecord
		if err := attributevalue.UnmarshalMap(raw, &record); err != nil {
			es.logger.Warn("Skipping malformed event record", zap.Error(err))
			continue
		}
		timestamp, err := time.Parse(time.RFC3339Nano, record.Timestamp)
		if err != nil {
			es.logger.Warn("Skipping event record with bad timestamp", zap.Error(err))
			continue
		}
		entries = append(entries, ports.StoredEvent{
			EventID:     record.EventID,
			AggregateID: record.AggregateID,
			EventType:   record.EventType,
			Payload:     record.Payload,
			Timestamp:   timestamp,
			Published:   false,
			Attempts:    record.PublishAttempts,
		})
	}

	return entries, nil
}

// MarkPublished marks outbox entries as published
func (es *EventStore) MarkPublished(ctx context.Context, entries []ports.StoredEvent) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	for _, entry := range entries {
		pk, sk := eventKey(entry)
		input := &dynamodb.UpdateItemInput{
			TableName: aws.String(es.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: pk},
				"SK": &types.AttributeValueMemberS{Value: sk},
			},
			UpdateExpression: aws.String("SET PublishStatus = :published, PublishedAt = :publishedAt"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":published":   &types.AttributeValueMemberS{Value: publishStatusPublished},
				":publishedAt": &types.AttributeValueMemberS{Value: now},
			},
			ConditionExpression: aws.String("attribute_exists(PK)"),
		}

		if _, err := es.client.UpdateItem(ctx, input); err != nil {
			return pkgerrors.NewDatabaseError("mark event published", err)
		}
	}

	return nil
}

// MarkFailed records a failed publish attempt. Entries under the retry cap
// stay pending; the rest are parked as failed for manual inspection.
func (es *EventStore) MarkFailed(ctx context.Context, entry ports.StoredEvent, publishErr error, attempts, maxAttempts int) error {
	status := publishStatusPending
	if attempts >= maxAttempts {
		status = publishStatusFailed
	}

	pk, sk := eventKey(entry)
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(es.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: sk},
		},
		UpdateExpression: aws.String("SET PublishStatus = :status, PublishAttempts = :attempts, LastError = :lastError"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":    &types.AttributeValueMemberS{Value: status},
			":attempts":  &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", attempts)},
			":lastError": &types.AttributeValueMemberS{Value: publishErr.Error()},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
	}

	if _, err := es.client.UpdateItem(ctx, input); err != nil {
		return pkgerrors.NewDatabaseError("mark event failed", err)
	}
	return nil
}

// PrepareEventItem prepares an outbox entry for a transactional write. The
// unit of work uses this to commit events alongside the state they describe.
func (es *EventStore) PrepareEventItem(event events.DomainEvent) (types.TransactWriteItem, error) {
	record, err := es.eventToRecord(event)
	if err != nil {
		return types.TransactWriteItem{}, err
	}

	item, err := marshalItem(record)
	if err != nil {
		return types.TransactWriteItem{}, err
	}

	return types.TransactWriteItem{
		Put: &types.Put{
			TableName: aws.String(es.tableName),
			Item:      item,
		},
	}, nil
}

func (es *EventStore) eventToRecord(event events.DomainEvent) (*eventRecord, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	eventID := uuid.New().String()
	timestamp := event.GetTimestamp().UTC()

	return &eventRecord{
		PK:            fmt.Sprintf("EVENTS#%s", event.GetAggregateID()),
		SK:            fmt.Sprintf("EVENT#%s#%s", timestamp.Format(time.RFC3339Nano), eventID),
		EventID:       eventID,
		EventType:     event.GetEventType(),
		AggregateID:   event.GetAggregateID(),
		Payload:       payload,
		Timestamp:     timestamp.Format(time.RFC3339Nano),
		Version:       event.GetVersion(),
		PublishStatus: publishStatusPending,
		TTL:           timestamp.Add(eventRetention).Unix(),
	}, nil
}

// eventKey rebuilds an entry's table key from its stored fields
func eventKey(entry ports.StoredEvent) (pk, sk string) {
	pk = fmt.Sprintf("EVENTS#%s", entry.AggregateID)
	sk = fmt.Sprintf("EVENT#%s#%s", entry.Timestamp.UTC().Format(time.RFC3339Nano), entry.EventID)
	return pk, sk
}

// unmarshalEvent rebuilds a typed domain event from a stored payload.
// Unknown event types come back as a BaseEvent.
func unmarshalEvent(eventType string, payload []byte) (events.DomainEvent, error) {
	decode := func(v events.DomainEvent) (events.DomainEvent, error) {
		if err := json.Unmarshal(payload, v); err != nil {
			return nil, err
		}
		return v, nil
	}

	switch eventType {
	case "matter.created":
		return decode(&events.MatterCreated{})
	case "matter.updated":
		return decode(&events.MatterUpdated{})
	case "matter.archived":
		return decode(&events.MatterArchived{})
	case "matter.unarchived":
		return decode(&events.MatterUnarchived{})
	case "matter.deleted":
		return decode(&events.MatterDeleted{})
	case "matter.restored":
		return decode(&events.MatterRestored{})
	case "document.created":
		return decode(&events.DocumentCreated{})
	case "document.updated":
		return decode(&events.DocumentUpdated{})
	case "document.checked_out":
		return decode(&events.DocumentCheckedOut{})
	case "document.checked_in":
		return decode(&events.DocumentCheckedIn{})
	case "document.deleted":
		return decode(&events.DocumentDeleted{})
	case "document.restored":
		return decode(&events.DocumentRestored{})
	case "document.transferred":
		return decode(&events.DocumentTransferred{})
	default:
		return decode(&events.BaseEvent{})
	}
}

var _ ports.EventStore = (*EventStore)(nil)
