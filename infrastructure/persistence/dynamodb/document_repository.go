package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"lexmatter/application/ports"
	"lexmatter/domain/core/entities"
	"lexmatter/domain/core/valueobjects"
	pkgerrors "lexmatter/pkg/errors"
	"lexmatter/pkg/observability"
)

// DocumentRepository implements ports.DocumentRepository using DynamoDB.
// Documents are stored under their matter's partition, which is what makes
// a transfer a key change rather than an attribute update: moving a
// document rewrites its item under the destination matter's partition.
type DocumentRepository struct {
	client    *dynamodb.Client
	tableName string
	collector *observability.Collector
	logger    *zap.Logger
}

// NewDocumentRepository creates a new DynamoDB document repository
func NewDocumentRepository(client *dynamodb.Client, tableName string, collector *observability.Collector, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{
		client:    client,
		tableName: tableName,
		collector: collector,
		logger:    logger,
	}
}

// Save persists a document with optimistic locking. A document that was
// moved since it was loaded is relocated: the item under the source matter
// is deleted and rewritten under the destination in one transaction.
func (r *DocumentRepository) Save(ctx context.Context, document *entities.Document) error {
	start := time.Now()

	item, err := marshalItem(newDocumentItem(document))
	if err != nil {
		r.observe("save_document", "error", start)
		return err
	}

	if !document.MovedFrom().IsZero() {
		items := documentMoveTransactItems(r.tableName, document, item)
		if _, err := r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
			var canceled *types.TransactionCanceledException
			if errors.As(err, &canceled) {
				r.observe("save_document", "conflict", start)
				return pkgerrors.ErrConcurrentModification.WithDetail("documentId", document.ID().String())
			}
			r.observe("save_document", "error", start)
			return pkgerrors.NewDatabaseError("relocate document", err)
		}
		document.MarkMoveAsPersisted()
		r.observe("save_document", "success", start)
		return nil
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK) OR Version = :expected"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", document.Version()-1)},
		},
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			r.observe("save_document", "conflict", start)
			return pkgerrors.ErrConcurrentModification.WithDetail("documentId", document.ID().String())
		}
		r.observe("save_document", "error", start)
		return pkgerrors.NewDatabaseError("save document", err)
	}

	r.observe("save_document", "success", start)
	return nil
}

// documentMoveTransactItems builds the delete-and-put pair that relocates a
// moved document's item to the destination matter's partition. The delete is
// version-guarded against the state the document was loaded with.
func documentMoveTransactItems(tableName string, document *entities.Document, item map[string]types.AttributeValue) []types.TransactWriteItem {
	return []types.TransactWriteItem{
		{
			Delete: &types.Delete{
				TableName: aws.String(tableName),
				Key: map[string]types.AttributeValue{
					"PK": &types.AttributeValueMemberS{Value: matterPK(document.MovedFrom())},
					"SK": &types.AttributeValueMemberS{Value: documentSK(document.ID())},
				},
				ConditionExpression: aws.String("attribute_exists(PK) AND Version = :expected"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":expected": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", document.Version()-1)},
				},
			},
		},
		{
			Put: &types.Put{
				TableName:           aws.String(tableName),
				Item:                item,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			},
		},
	}
}

// GetByID retrieves a document by its ID via the GSI1 lookup
func (r *DocumentRepository) GetByID(ctx context.Context, id valueobjects.DocumentID) (*entities.Document, error) {
	start := time.Now()

	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("GSI1"),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND GSI1SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: documentGSI1PK(id)},
			":sk": &types.AttributeValueMemberS{Value: "METADATA"},
		},
		Limit: aws.Int32(1),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		r.observe("get_document", "error", start)
		return nil, pkgerrors.NewDatabaseError("get document", err)
	}
	if len(result.Items) == 0 {
		r.observe("get_document", "not_found", start)
		return nil, pkgerrors.ErrDocumentNotFound.WithDetail("documentId", id.String())
	}

	var item documentItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		r.observe("get_document", "error", start)
		return nil, pkgerrors.NewDatabaseError("unmarshal document", err)
	}

	r.observe("get_document", "success", start)
	return item.toEntity()
}

// GetByMatterID retrieves documents filed under a matter, subject to the filter
func (r *DocumentRepository) GetByMatterID(ctx context.Context, matterID valueobjects.MatterID, filter ports.ListFilter) ([]*entities.Document, error) {
	start := time.Now()

	keyCond := expression.Key("PK").Equal(expression.Value(matterPK(matterID))).
		And(expression.Key("SK").BeginsWith("DOC#"))

	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if cond, ok := documentListFilter(filter); ok {
		builder = builder.WithFilter(cond)
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("build document list query", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	var documents []*entities.Document
	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			r.observe("list_documents", "error", start)
			return nil, pkgerrors.NewDatabaseError("list documents", err)
		}

		for _, raw := range result.Items {
			var item documentItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Skipping malformed document item", zap.Error(err))
				continue
			}
			document, err := item.toEntity()
			if err != nil {
				r.logger.Warn("Skipping unreadable document item", zap.Error(err))
				continue
			}
			documents = append(documents, document)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	sortDocuments(documents, filter.OrderBy, filter.OrderDesc)

	r.observe("list_documents", "success", start)
	return documents, nil
}

// FileNamesByMatterID returns the file names of non-deleted documents in a
// matter. Only the FileName attribute is fetched.
func (r *DocumentRepository) FileNamesByMatterID(ctx context.Context, matterID valueobjects.MatterID) ([]string, error) {
	start := time.Now()

	keyCond := expression.Key("PK").Equal(expression.Value(matterPK(matterID))).
		And(expression.Key("SK").BeginsWith("DOC#"))
	filter := expression.Name("IsDeleted").Equal(expression.Value(false))
	proj := expression.NamesList(expression.Name("FileName"))

	expr, err := expression.NewBuilder().
		WithKeyCondition(keyCond).
		WithFilter(filter).
		WithProjection(proj).
		Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("build file name query", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ProjectionExpression:      expr.Projection(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	var names []string
	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			r.observe("list_file_names", "error", start)
			return nil, pkgerrors.NewDatabaseError("list file names", err)
		}

		for _, raw := range result.Items {
			var item struct {
				FileName string `dynamodbav:"FileName"`
			}
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				continue
			}
			if item.FileName != "" {
				names = append(names, item.FileName)
			}
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	r.observe("list_file_names", "success", start)
	return names, nil
}

// CountCheckedOut returns the number of checked-out, non-deleted documents
// in a matter
func (r *DocumentRepository) CountCheckedOut(ctx context.Context, matterID valueobjects.MatterID) (int, error) {
	start := time.Now()

	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		FilterExpression:       aws.String("IsCheckedOut = :checkedOut AND IsDeleted = :deleted"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":         &types.AttributeValueMemberS{Value: matterPK(matterID)},
			":prefix":     &types.AttributeValueMemberS{Value: "DOC#"},
			":checkedOut": &types.AttributeValueMemberBOOL{Value: true},
			":deleted":    &types.AttributeValueMemberBOOL{Value: false},
		},
		Select: types.SelectCount,
	}

	count := 0
	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			r.observe("count_checked_out", "error", start)
			return 0, pkgerrors.NewDatabaseError("count checked-out documents", err)
		}
		count += int(result.Count)

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	r.observe("count_checked_out", "success", start)
	return count, nil
}

// Delete removes a document permanently
func (r *DocumentRepository) Delete(ctx context.Context, id valueobjects.DocumentID) error {
	start := time.Now()

	// The primary key is matter-scoped, so resolve the matter first.
	document, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: matterPK(document.MatterID())},
			"SK": &types.AttributeValueMemberS{Value: documentSK(id)},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		r.observe("delete_document", "error", start)
		return pkgerrors.NewDatabaseError("delete document", err)
	}

	r.observe("delete_document", "success", start)
	return nil
}

func (r *DocumentRepository) observe(operation, status string, start time.Time) {
	if r.collector != nil {
		r.collector.ObserveDB(operation, status, time.Since(start))
	}
}

func documentListFilter(filter ports.ListFilter) (expression.ConditionBuilder, bool) {
	var conds []expression.ConditionBuilder

	if !filter.IncludeDeleted {
		conds = append(conds, expression.Name("IsDeleted").Equal(expression.Value(false)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		conds = append(conds, expression.Name("FileName").Contains(q))
	}

	if len(conds) == 0 {
		return expression.ConditionBuilder{}, false
	}

	cond := conds[0]
	for _, c := range conds[1:] {
		cond = cond.And(c)
	}
	return cond, true
}

func sortDocuments(documents []*entities.Document, orderBy string, desc bool) {
	less := func(a, b *entities.Document) bool {
		switch orderBy {
		case "fileName":
			return strings.ToLower(a.FileName().String()) < strings.ToLower(b.FileName().String())
		case "fileSize":
			return a.FileSize() < b.FileSize()
		case "updatedAt":
			return a.UpdatedAt().Before(b.UpdatedAt())
		default:
			return a.CreatedAt().Before(b.CreatedAt())
		}
	}
	sort.SliceStable(documents, func(i, j int) bool {
		if desc {
			return less(documents[j], documents[i])
		}
		return less(documents[i], documents[j])
	})
}

var _ ports.DocumentRepository = (*DocumentRepository)(nil)
