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

// MatterRepository implements ports.MatterRepository using DynamoDB.
// Matters are stored under their owner's partition with a GSI1 entry
// keyed by matter ID for direct lookup.
type MatterRepository struct {
	client    *dynamodb.Client
	tableName string
	collector *observability.Collector
	logger    *zap.Logger
}

// NewMatterRepository creates a new DynamoDB matter repository
func NewMatterRepository(client *dynamodb.Client, tableName string, collector *observability.Collector, logger *zap.Logger) *MatterRepository {
	return &MatterRepository{
		client:    client,
		tableName: tableName,
		collector: collector,
		logger:    logger,
	}
}

// Save persists a matter with optimistic locking. The write fails with
// ErrConcurrentModification when the stored version no longer matches.
func (r *MatterRepository) Save(ctx context.Context, matter *entities.Matter) error {
	start := time.Now()

	item, err := marshalItem(newMatterItem(matter))
	if err != nil {
		r.observe("save_matter", "error", start)
		return err
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK) OR Version = :expected"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", matter.Version()-1)},
		},
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			r.observe("save_matter", "conflict", start)
			return pkgerrors.ErrConcurrentModification.WithDetail("matterId", matter.ID().String())
		}
		r.observe("save_matter", "error", start)
		return pkgerrors.NewDatabaseError("save matter", err)
	}

	r.observe("save_matter", "success", start)
	return nil
}

// GetByID retrieves a matter by its ID via the GSI1 lookup
func (r *MatterRepository) GetByID(ctx context.Context, id valueobjects.MatterID) (*entities.Matter, error) {
	start := time.Now()

	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("GSI1"),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND GSI1SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: matterGSI1PK(id)},
			":sk": &types.AttributeValueMemberS{Value: "METADATA"},
		},
		Limit: aws.Int32(1),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		r.observe("get_matter", "error", start)
		return nil, pkgerrors.NewDatabaseError("get matter", err)
	}
	if len(result.Items) == 0 {
		r.observe("get_matter", "not_found", start)
		return nil, pkgerrors.ErrMatterNotFound.WithDetail("matterId", id.String())
	}

	var item matterItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		r.observe("get_matter", "error", start)
		return nil, pkgerrors.NewDatabaseError("unmarshal matter", err)
	}

	r.observe("get_matter", "success", start)
	return item.toEntity()
}

// GetByNumber retrieves a user's matter by its matter number
func (r *MatterRepository) GetByNumber(ctx context.Context, userID, number string) (*entities.Matter, error) {
	start := time.Now()

	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("SK").BeginsWith("MATTER#"))
	filter := expression.Name("Number").Equal(expression.Value(number))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).WithFilter(filter).Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("build matter query", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			r.observe("get_matter_by_number", "error", start)
			return nil, pkgerrors.NewDatabaseError("get matter by number", err)
		}

		for _, raw := range result.Items {
			var item matterItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.observe("get_matter_by_number", "error", start)
				return nil, pkgerrors.NewDatabaseError("unmarshal matter", err)
			}
			r.observe("get_matter_by_number", "success", start)
			return item.toEntity()
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	r.observe("get_matter_by_number", "not_found", start)
	return nil, pkgerrors.ErrMatterNotFound.WithDetail("number", number)
}

// GetByUserID retrieves matters for a user, subject to the filter.
// Results are sorted according to the filter's ordering; pagination is
// applied by the caller.
func (r *MatterRepository) GetByUserID(ctx context.Context, userID string, filter ports.ListFilter) ([]*entities.Matter, error) {
	start := time.Now()

	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("SK").BeginsWith("MATTER#"))

	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if cond, ok := matterListFilter(filter); ok {
		builder = builder.WithFilter(cond)
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("build matter list query", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	var matters []*entities.Matter
	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			r.observe("list_matters", "error", start)
			return nil, pkgerrors.NewDatabaseError("list matters", err)
		}

		for _, raw := range result.Items {
			var item matterItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Skipping malformed matter item", zap.Error(err))
				continue
			}
			matter, err := item.toEntity()
			if err != nil {
				r.logger.Warn("Skipping unreadable matter item", zap.Error(err))
				continue
			}
			matters = append(matters, matter)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	sortMatters(matters, filter.OrderBy, filter.OrderDesc)

	r.observe("list_matters", "success", start)
	return matters, nil
}

// Delete removes a matter permanently
func (r *MatterRepository) Delete(ctx context.Context, id valueobjects.MatterID) error {
	start := time.Now()

	// The primary key is owner-scoped, so resolve the owner first.
	matter, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(matter.UserID())},
			"SK": &types.AttributeValueMemberS{Value: matterSK(id)},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		r.observe("delete_matter", "error", start)
		return pkgerrors.NewDatabaseError("delete matter", err)
	}

	r.observe("delete_matter", "success", start)
	return nil
}

func (r *MatterRepository) observe(operation, status string, start time.Time) {
	if r.collector != nil {
		r.collector.ObserveDB(operation, status, time.Since(start))
	}
}

// matterListFilter builds the filter expression for a matter listing.
// The second return value is false when no filtering is needed.
func matterListFilter(filter ports.ListFilter) (expression.ConditionBuilder, bool) {
	var conds []expression.ConditionBuilder

	if !filter.IncludeDeleted {
		conds = append(conds, expression.Name("IsDeleted").Equal(expression.Value(false)))
	}
	if !filter.IncludeArchived {
		conds = append(conds, expression.Name("IsArchived").Equal(expression.Value(false)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		conds = append(conds, expression.Name("Title").Contains(q).
			Or(expression.Name("Number").Contains(q)).
			Or(expression.Name("ClientName").Contains(q)))
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

func sortMatters(matters []*entities.Matter, orderBy string, desc bool) {
	less := func(a, b *entities.Matter) bool {
		switch orderBy {
		case "title":
			return strings.ToLower(a.Title()) < strings.ToLower(b.Title())
		case "number":
			return a.Number() < b.Number()
		case "updatedAt":
			return a.UpdatedAt().Before(b.UpdatedAt())
		default:
			return a.CreatedAt().Before(b.CreatedAt())
		}
	}
	sort.SliceStable(matters, func(i, j int) bool {
		if desc {
			return less(matters[j], matters[i])
		}
		return less(matters[i], matters[j])
	})
}

var _ ports.MatterRepository = (*MatterRepository)(nil)
