// Package users stores user records in the metadata store, keyed by
// username.
package users

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/dmitrijs2005/cloudshare/internal/common"
	"github.com/dmitrijs2005/cloudshare/internal/dynamox"
	"github.com/dmitrijs2005/cloudshare/internal/models"
	"github.com/dmitrijs2005/cloudshare/internal/retryx"
)

type DynamoRepository struct {
	db        dynamox.API
	tableName string
}

func NewDynamoRepository(db dynamox.API, tableName string) *DynamoRepository {
	return &DynamoRepository{db: db, tableName: tableName}
}

// Create writes the user record. Existence checking is the caller's
// responsibility; the check-then-write race on duplicate registrations is
// tolerated, not eliminated.
func (r *DynamoRepository) Create(ctx context.Context, user *models.User) error {

	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	err = retryx.Do(ctx, func(ctx context.Context) error {
		_, err := r.db.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(r.tableName),
			Item:      item,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *DynamoRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {

	var out *dynamodb.GetItemOutput
	err := retryx.Do(ctx, func(ctx context.Context) error {
		var err error
		out, err = r.db.GetItem(ctx, &dynamodb.GetItemInput{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"username": &types.AttributeValueMemberS{Value: userName},
			},
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if out.Item == nil {
		return nil, common.ErrUserNotFound
	}

	user := &models.User{}
	if err := attributevalue.UnmarshalMap(out.Item, user); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}

	return user, nil
}

// TouchLastLogin updates only the last_login attribute of an existing user.
func (r *DynamoRepository) TouchLastLogin(ctx context.Context, userName string, t time.Time) error {

	ts, err := attributevalue.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal timestamp: %w", err)
	}

	err = retryx.Do(ctx, func(ctx context.Context) error {
		_, err := r.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"username": &types.AttributeValueMemberS{Value: userName},
			},
			UpdateExpression: aws.String("SET last_login = :t"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":t": ts,
			},
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

var _ Repository = (*DynamoRepository)(nil)
