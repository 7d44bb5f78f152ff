package dynamodb

import (
	"context"
	"errors"
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

// RevisionRepository implements ports.RevisionRepository using DynamoDB.
// Revisions are append-only. The zero-padded revision number in the sort key
// keeps a document's revisions in numeric order, so listing them is a single
// ascending range query.
type RevisionRepository struct {
	client    *dynamodb.Client
	tableName string
	collector *observability.Collector
	logger    *zap.Logger
}

// NewRevisionRepository creates a new DynamoDB revision repository
func NewRevisionRepository(client *dynamodb.Client, tableName string, collector *observability.Collector, logger *zap.Logger) *RevisionRepository {
	return &RevisionRepository{
		client:    client,
		tableName: tableName,
		collector: collector,
		logger:    logger,
	}
}

// Save appends a revision. Writing an already-taken revision number fails
// with ErrConcurrentModification; revisions are never overwritten.
func (r *RevisionRepository) Save(ctx context.Context, revision *entities.Revision) error {
	start := time.Now()

	item, err := marshalItem(newRevisionItem(revision))
	if err != nil {
		r.observe("save_revision", "error", start)
		return err
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			r.observe("save_revision", "conflict", start)
			return pkgerrors.ErrConcurrentModification.
				WithDetail("documentId", revision.DocumentID().String()).
				WithDetail("revisionNumber", revision.Number())
		}
		r.observe("save_revision", "error", start)
		return pkgerrors.NewDatabaseError("save revision", err)
	}

	r.observe("save_revision", "success", start)
	return nil
}

// GetByNumber retrieves a revision by document and revision number
func (r *RevisionRepository) GetByNumber(ctx context.Context, documentID valueobjects.DocumentID, number int) (*entities.Revision, error) {
	start := time.Now()

	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: documentPK(documentID)},
			"SK": &types.AttributeValueMemberS{Value: revisionSK(number)},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		r.observe("get_revision", "error", start)
		return nil, pkgerrors.NewDatabaseError("get revision", err)
	}
	if result.Item == nil {
		r.observe("get_revision", "not_found", start)
		return nil, pkgerrors.ErrRevisionNotFound.
			WithDetail("documentId", documentID.String()).
			WithDetail("revisionNumber", number)
	}

	var item revisionItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		r.observe("get_revision", "error", start)
		return nil, pkgerrors.NewDatabaseError("unmarshal revision", err)
	}

	r.observe("get_revision", "success", start)
	return item.toEntity()
}

// GetByDocumentID retrieves all revisions of a document, oldest first
func (r *RevisionRepository) GetByDocumentID(ctx context.Context, documentID valueobjects.DocumentID) ([]*entities.Revision, error) {
	start := time.Now()

	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: documentPK(documentID)},
			":prefix": &types.AttributeValueMemberS{Value: "REV#"},
		},
		ScanIndexForward: aws.Bool(true),
	}

	var revisions []*entities.Revision
	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			r.observe("list_revisions", "error", start)
			return nil, pkgerrors.NewDatabaseError("list revisions", err)
		}

		for _, raw := range result.Items {
			var item revisionItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Skipping malformed revision item", zap.Error(err))
				continue
			}
			revision, err := item.toEntity()
			if err != nil {
				r.logger.Warn("Skipping unreadable revision item", zap.Error(err))
				continue
			}
			revisions = append(revisions, revision)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	r.observe("list_revisions", "success", start)
	return revisions, nil
}

func (r *RevisionRepository) observe(operation, status string, start time.Time) {
	if r.collector != nil {
		r.collector.ObserveDB(operation, status, time.Since(start))
	}
}

var _ ports.RevisionRepository = (*RevisionRepository)(nil)
