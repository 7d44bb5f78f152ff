package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"lexmatter/application/ports"
	"lexmatter/domain/core/entities"
	pkgerrors "lexmatter/pkg/errors"
	"lexmatter/pkg/observability"
)

// UserRepository implements ports.UserRepository using DynamoDB. Profiles
// live under the user partition with a fixed PROFILE sort key and carry
// whatever the verified token claims said last.
type UserRepository struct {
	client    *dynamodb.Client
	tableName string
	collector *observability.Collector
	logger    *zap.Logger
}

// NewUserRepository creates a new DynamoDB user repository
func NewUserRepository(client *dynamodb.Client, tableName string, collector *observability.Collector, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		client:    client,
		tableName: tableName,
		collector: collector,
		logger:    logger,
	}
}

// Save upserts a user profile. CreatedAt is written once; repeat writes
// only refresh the claim fields and LastSeen.
func (r *UserRepository) Save(ctx context.Context, user *entities.User) error {
	start := time.Now()

	roles, err := attributevalue.Marshal(user.Roles())
	if err != nil {
		r.observe("save_user", "error", start)
		return pkgerrors.NewDatabaseError("marshal user roles", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(user.ID())},
			"SK": &types.AttributeValueMemberS{Value: "PROFILE"},
		},
		UpdateExpression: aws.String(
			"SET EntityType = :type, UserID = :id, Email = :email, #name = :name, Roles = :roles, " +
				"LastSeen = :seen, CreatedAt = if_not_exists(CreatedAt, :seen)"),
		ExpressionAttributeNames: map[string]string{
			"#name": "Name",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":type":  &types.AttributeValueMemberS{Value: entityTypeUser},
			":id":    &types.AttributeValueMemberS{Value: user.ID()},
			":email": &types.AttributeValueMemberS{Value: user.Email()},
			":name":  &types.AttributeValueMemberS{Value: user.Name()},
			":roles": roles,
			":seen":  &types.AttributeValueMemberS{Value: user.LastSeen().UTC().Format(time.RFC3339Nano)},
		},
	}
	if _, err := r.client.UpdateItem(ctx, input); err != nil {
		r.observe("save_user", "error", start)
		return pkgerrors.NewDatabaseError("save user", err)
	}

	r.observe("save_user", "success", start)
	return nil
}

// GetByID retrieves a user profile
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*entities.User, error) {
	start := time.Now()

	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: "PROFILE"},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		r.observe("get_user", "error", start)
		return nil, pkgerrors.NewDatabaseError("get user", err)
	}
	if result.Item == nil {
		r.observe("get_user", "not_found", start)
		return nil, pkgerrors.ErrUserNotFound.WithDetail("userId", userID)
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		r.observe("get_user", "error", start)
		return nil, pkgerrors.NewDatabaseError("unmarshal user", err)
	}

	r.observe("get_user", "success", start)
	return item.toEntity()
}

func (r *UserRepository) observe(operation, status string, start time.Time) {
	if r.collector != nil {
		r.collector.ObserveDB(operation, status, time.Since(start))
	}
}

var _ ports.UserRepository = (*UserRepository)(nil)
