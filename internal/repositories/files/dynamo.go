// Package files stores file records in the metadata store, keyed by file id,
// with an owner-scoped secondary index for listings.
package files

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/dmitrijs2005/cloudshare/internal/common"
	"github.com/dmitrijs2005/cloudshare/internal/dynamox"
	"github.com/dmitrijs2005/cloudshare/internal/models"
	"github.com/dmitrijs2005/cloudshare/internal/retryx"
)

// OwnerIndexName is the global secondary index keyed by the owner attribute.
const OwnerIndexName = "OwnerIndex"

type DynamoRepository struct {
	db        dynamox.API
	tableName string
}

func NewDynamoRepository(db dynamox.API, tableName string) *DynamoRepository {
	return &DynamoRepository{db: db, tableName: tableName}
}

// Save writes the record as-is. It does not verify that record.StorageKey
// actually exists in the object store; that precondition belongs to the
// upload coordinator.
func (r *DynamoRepository) Save(ctx context.Context, record *models.FileRecord) error {

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshal file record: %w", err)
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

func (r *DynamoRepository) Get(ctx context.Context, fileID string) (*models.FileRecord, error) {

	var out *dynamodb.GetItemOutput
	err := retryx.Do(ctx, func(ctx context.Context) error {
		var err error
		out, err = r.db.GetItem(ctx, &dynamodb.GetItemInput{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"file_id": &types.AttributeValueMemberS{Value: fileID},
			},
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if out.Item == nil {
		return nil, common.ErrFileNotFound
	}

	record := &models.FileRecord{}
	if err := attributevalue.UnmarshalMap(out.Item, record); err != nil {
		return nil, fmt.Errorf("unmarshal file record: %w", err)
	}

	return record, nil
}

// ListByOwner queries the owner index. An owner with no files yields an
// empty slice, not an error. "owner" and "size" are DynamoDB reserved words,
// hence the expression attribute name.
func (r *DynamoRepository) ListByOwner(ctx context.Context, owner string) ([]models.FileRecord, error) {

	records := make([]models.FileRecord, 0)

	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(OwnerIndexName),
		KeyConditionExpression: aws.String("#o = :owner"),
		ExpressionAttributeNames: map[string]string{
			"#o": "owner",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: owner},
		},
	}

	for {
		var out *dynamodb.QueryOutput
		err := retryx.Do(ctx, func(ctx context.Context) error {
			var err error
			out, err = r.db.Query(ctx, input)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}

		page := make([]models.FileRecord, 0, len(out.Items))
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal file records: %w", err)
		}
		records = append(records, page...)

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	return records, nil
}

var _ Repository = (*DynamoRepository)(nil)
