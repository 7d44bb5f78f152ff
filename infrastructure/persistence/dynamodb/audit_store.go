package dynamodb

import (
	"context"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"lexmatter/application/ports"
	"lexmatter/domain/core/entities"
	"lexmatter/domain/core/valueobjects"
	pkgerrors "lexmatter/pkg/errors"
	"lexmatter/pkg/observability"
)

// AuditStore implements ports.AuditStore using DynamoDB. Trail entries live
// in the partition of the entity they describe, sorted by timestamp, so a
// trail read is one descending range query. Entries are append-only.
type AuditStore struct {
	client    *dynamodb.Client
	tableName string
	collector *observability.Collector
	logger    *zap.Logger
}

// NewAuditStore creates a new DynamoDB audit store
func NewAuditStore(client *dynamodb.Client, tableName string, collector *observability.Collector, logger *zap.Logger) *AuditStore {
	return &AuditStore{
		client:    client,
		tableName: tableName,
		collector: collector,
		logger:    logger,
	}
}

// AppendMatterActivity records a matter lifecycle entry
func (s *AuditStore) AppendMatterActivity(ctx context.Context, record *entities.MatterActivityRecord) error {
	return s.put(ctx, "append_matter_activity", newMatterActivityItem(record))
}

// AppendDocumentActivity records a document lifecycle entry
func (s *AuditStore) AppendDocumentActivity(ctx context.Context, record *entities.DocumentActivityRecord) error {
	return s.put(ctx, "append_document_activity", newDocumentActivityItem(record))
}

// AppendTransferRecords writes both sides of a transfer in one transaction
// so the FROM and TO trails can never disagree
func (s *AuditStore) AppendTransferRecords(ctx context.Context, from, to *entities.TransferRecord) error {
	start := time.Now()

	fromItem, err := marshalItem(newTransferItem(from))
	if err != nil {
		return err
	}
	toItem, err := marshalItem(newTransferItem(to))
	if err != nil {
		return err
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{TableName: aws.String(s.tableName), Item: fromItem}},
			{Put: &types.Put{TableName: aws.String(s.tableName), Item: toItem}},
		},
	}

	if _, err := s.client.TransactWriteItems(ctx, input); err != nil {
		s.observe("append_transfer_records", "error", start)
		return pkgerrors.NewDatabaseError("append transfer records", err)
	}

	s.observe("append_transfer_records", "success", start)
	return nil
}

// MatterActivity retrieves a matter's activity trail, newest first
func (s *AuditStore) MatterActivity(ctx context.Context, matterID valueobjects.MatterID, filter ports.ListFilter) ([]*entities.MatterActivityRecord, error) {
	items, err := s.queryTrail(ctx, "matter_activity", matterPK(matterID), "ACT#", filter)
	if err != nil {
		return nil, err
	}

	records := make([]*entities.MatterActivityRecord, 0, len(items))
	for _, raw := range items {
		var item matterActivityItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			s.logger.Warn("Skipping malformed activity item", zap.Error(err))
			continue
		}
		record, err := item.toRecord()
		if err != nil {
			s.logger.Warn("Skipping unreadable activity item", zap.Error(err))
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// DocumentActivity retrieves a document's activity trail, newest first
func (s *AuditStore) DocumentActivity(ctx context.Context, documentID valueobjects.DocumentID, filter ports.ListFilter) ([]*entities.DocumentActivityRecord, error) {
	items, err := s.queryTrail(ctx, "document_activity", documentPK(documentID), "ACT#", filter)
	if err != nil {
		return nil, err
	}

	records := make([]*entities.DocumentActivityRecord, 0, len(items))
	for _, raw := range items {
		var item documentActivityItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			s.logger.Warn("Skipping malformed activity item", zap.Error(err))
			continue
		}
		record, err := item.toRecord()
		if err != nil {
			s.logger.Warn("Skipping unreadable activity item", zap.Error(err))
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// TransfersByMatter retrieves transfer records filed under a matter, newest
// first. The direction is part of the sort key, so a one-direction read
// narrows the key prefix instead of filtering.
func (s *AuditStore) TransfersByMatter(ctx context.Context, matterID valueobjects.MatterID, direction entities.TransferDirection, filter ports.ListFilter) ([]*entities.TransferRecord, error) {
	if direction != "" {
		prefix := "XFER#" + string(direction) + "#"
		items, err := s.queryTrail(ctx, "transfers_by_matter", matterPK(matterID), prefix, filter)
		if err != nil {
			return nil, err
		}
		return s.unmarshalTransfers(items)
	}

	// Both directions: the key order groups by direction before time, so
	// fetch the whole trail, re-sort by time, then window.
	items, err := s.queryTrail(ctx, "transfers_by_matter", matterPK(matterID), "XFER#", ports.ListFilter{})
	if err != nil {
		return nil, err
	}
	records, err := s.unmarshalTransfers(items)
	if err != nil {
		return nil, err
	}
	sortTransfersNewestFirst(records)
	return applyWindow(records, filter), nil
}

// TransfersByDocument retrieves a document's transfer history, newest first,
// via the GSI1 entries keyed by document ID
func (s *AuditStore) TransfersByDocument(ctx context.Context, documentID valueobjects.DocumentID, filter ports.ListFilter) ([]*entities.TransferRecord, error) {
	start := time.Now()

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		IndexName:              aws.String("GSI1"),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND begins_with(GSI1SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: documentGSI1PK(documentID)},
			":prefix": &types.AttributeValueMemberS{Value: "XFER#"},
		},
		ScanIndexForward: aws.Bool(false),
	}

	items, err := s.collectWindow(ctx, input, filter)
	if err != nil {
		s.observe("transfers_by_document", "error", start)
		return nil, pkgerrors.NewDatabaseError("list document transfers", err)
	}

	s.observe("transfers_by_document", "success", start)
	return s.unmarshalTransfers(items)
}

// put writes a single append-only trail item
func (s *AuditStore) put(ctx context.Context, operation string, record interface{}) error {
	start := time.Now()

	item, err := marshalItem(record)
	if err != nil {
		return err
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		s.observe(operation, "error", start)
		return pkgerrors.NewDatabaseError(operation, err)
	}

	s.observe(operation, "success", start)
	return nil
}

// queryTrail runs a descending range query over one trail prefix and applies
// the filter's offset and limit
func (s *AuditStore) queryTrail(ctx context.Context, operation, pk, skPrefix string, filter ports.ListFilter) ([]map[string]types.AttributeValue, error) {
	start := time.Now()

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: pk},
			":prefix": &types.AttributeValueMemberS{Value: skPrefix},
		},
		ScanIndexForward: aws.Bool(false),
	}

	items, err := s.collectWindow(ctx, input, filter)
	if err != nil {
		s.observe(operation, "error", start)
		return nil, pkgerrors.NewDatabaseError(operation, err)
	}

	s.observe(operation, "success", start)
	return items, nil
}

// collectWindow pages through query results until the requested window
// (offset plus limit) is covered, then slices it out
func (s *AuditStore) collectWindow(ctx context.Context, input *dynamodb.QueryInput, filter ports.ListFilter) ([]map[string]types.AttributeValue, error) {
	needed := 0
	if filter.Limit > 0 {
		needed = filter.Offset + filter.Limit
	}

	var items []map[string]types.AttributeValue
	for {
		result, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, err
		}
		items = append(items, result.Items...)

		if result.LastEvaluatedKey == nil || (needed > 0 && len(items) >= needed) {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(items) {
			return nil, nil
		}
		items = items[filter.Offset:]
	}
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

func (s *AuditStore) unmarshalTransfers(items []map[string]types.AttributeValue) ([]*entities.TransferRecord, error) {
	records := make([]*entities.TransferRecord, 0, len(items))
	for _, raw := range items {
		var item transferItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			s.logger.Warn("Skipping malformed transfer item", zap.Error(err))
			continue
		}
		record, err := item.toRecord()
		if err != nil {
			s.logger.Warn("Skipping unreadable transfer item", zap.Error(err))
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *AuditStore) observe(operation, status string, start time.Time) {
	if s.collector != nil {
		s.collector.ObserveDB(operation, status, time.Since(start))
	}
}

func sortTransfersNewestFirst(records []*entities.TransferRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].OccurredAt.After(records[j].OccurredAt)
	})
}

func applyWindow(records []*entities.TransferRecord, filter ports.ListFilter) []*entities.TransferRecord {
	if filter.Offset > 0 {
		if filter.Offset >= len(records) {
			return nil
		}
		records = records[filter.Offset:]
	}
	if filter.Limit > 0 && len(records) > filter.Limit {
		records = records[:filter.Limit]
	}
	return records
}

var _ ports.AuditStore = (*AuditStore)(nil)
