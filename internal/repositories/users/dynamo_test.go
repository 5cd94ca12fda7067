package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cloudshare/internal/common"
	"github.com/dmitrijs2005/cloudshare/internal/models"
)

type fakeDynamo struct {
	getOut *dynamodb.GetItemOutput
	getErr error
	getIn  *dynamodb.GetItemInput

	putIn  *dynamodb.PutItemInput
	putErr error

	updateIn  *dynamodb.UpdateItemInput
	updateErr error
}

func (f *fakeDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.getIn = params
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.getOut != nil {
		return f.getOut, nil
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fakeDynamo) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putIn = params
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updateIn = params
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return &dynamodb.QueryOutput{}, nil
}

func (f *fakeDynamo) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	return &dynamodb.DescribeTableOutput{}, nil
}

func (f *fakeDynamo) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	return &dynamodb.CreateTableOutput{}, nil
}

func TestCreate_MarshalsItem(t *testing.T) {
	db := &fakeDynamo{}
	r := NewDynamoRepository(db, "users_table")

	now := time.Now().UTC().Truncate(time.Second)
	user := &models.User{
		UserName:     "alice",
		PasswordHash: "abc123",
		CreatedAt:    now,
		LastLogin:    now,
	}
	require.NoError(t, r.Create(context.Background(), user))

	require.NotNil(t, db.putIn)
	assert.Equal(t, "users_table", *db.putIn.TableName)

	got := &models.User{}
	require.NoError(t, attributevalue.UnmarshalMap(db.putIn.Item, got))
	assert.Equal(t, "alice", got.UserName)
	assert.Equal(t, "abc123", got.PasswordHash)
	assert.Equal(t, now, got.CreatedAt)
}

func TestGetByUserName_Found(t *testing.T) {
	item, err := attributevalue.MarshalMap(&models.User{UserName: "alice", PasswordHash: "h"})
	require.NoError(t, err)

	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: item}}
	r := NewDynamoRepository(db, "users_table")

	user, err := r.GetByUserName(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.UserName)
	assert.Equal(t, "h", user.PasswordHash)

	key, ok := db.getIn.Key["username"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "alice", key.Value)
}

func TestGetByUserName_NotFound(t *testing.T) {
	db := &fakeDynamo{}
	r := NewDynamoRepository(db, "users_table")

	_, err := r.GetByUserName(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestGetByUserName_DBError(t *testing.T) {
	db := &fakeDynamo{getErr: errors.New("boom")}
	r := NewDynamoRepository(db, "users_table")

	_, err := r.GetByUserName(context.Background(), "alice")
	require.ErrorContains(t, err, "db error")
}

func TestTouchLastLogin(t *testing.T) {
	db := &fakeDynamo{}
	r := NewDynamoRepository(db, "users_table")

	require.NoError(t, r.TouchLastLogin(context.Background(), "alice", time.Now()))

	require.NotNil(t, db.updateIn)
	assert.Equal(t, "SET last_login = :t", *db.updateIn.UpdateExpression)
	key, ok := db.updateIn.Key["username"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "alice", key.Value)
	assert.Contains(t, db.updateIn.ExpressionAttributeValues, ":t")
}
