// Package provision idempotently creates the backing resources the system
// needs before serving any operation: the user table, the file table with
// its owner index, and the object-store bucket. It is safe to run on every
// process start.
package provision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrijs2005/cloudshare/internal/config"
	"github.com/dmitrijs2005/cloudshare/internal/dynamox"
	"github.com/dmitrijs2005/cloudshare/internal/logging"
	"github.com/dmitrijs2005/cloudshare/internal/repositories/files"
)

const readyTimeout = 2 * time.Minute

// S3API is the subset of *s3.Client needed for bucket provisioning. It also
// satisfies s3.HeadBucketAPIClient for the bucket-exists waiter.
type S3API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

type Manager struct {
	db     dynamox.API
	s3     S3API
	cfg    *config.Config
	logger logging.Logger

	// waiter seams; tests replace these to avoid real polling
	waitTable  func(ctx context.Context, tableName string) error
	waitBucket func(ctx context.Context, bucket string) error
}

func NewManager(db dynamox.API, s3c S3API, cfg *config.Config, logger logging.Logger) *Manager {
	m := &Manager{db: db, s3: s3c, cfg: cfg, logger: logger}

	m.waitTable = func(ctx context.Context, tableName string) error {
		w := dynamodb.NewTableExistsWaiter(db)
		return w.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(tableName)}, readyTimeout)
	}
	m.waitBucket = func(ctx context.Context, bucket string) error {
		w := s3.NewBucketExistsWaiter(s3c)
		return w.Wait(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}, readyTimeout)
	}

	return m
}

// EnsureResources checks for each backing resource and creates any that are
// missing, blocking until newly created ones report ready.
//
// The user-table path and the file-table path are independent: a failure to
// create the file table or its owner index is logged and remembered but does
// not abort the rest of the run. A bucket failure is returned and is fatal
// to startup.
func (m *Manager) EnsureResources(ctx context.Context) error {

	var degraded error

	if err := m.ensureUserTable(ctx); err != nil {
		return fmt.Errorf("ensuring user table: %w", err)
	}

	if err := m.ensureFileTable(ctx); err != nil {
		// documented partial-degradation: listings will fail until the
		// table and index exist, but auth still works
		m.logger.Error(ctx, "file table provisioning failed, continuing degraded",
			"table", m.cfg.FileTableName, "error", err.Error())
		degraded = err
	}

	if err := m.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensuring bucket: %w", err)
	}

	if degraded != nil {
		m.logger.Warn(ctx, "resources are ready except the file table", "error", degraded.Error())
	} else {
		m.logger.Info(ctx, "resources are ready")
	}

	return nil
}

func (m *Manager) ensureUserTable(ctx context.Context) error {

	exists, err := m.tableExists(ctx, m.cfg.UserTableName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	m.logger.Info(ctx, "creating user table", "table", m.cfg.UserTableName)

	_, err = m.db.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(m.cfg.UserTableName),
		KeySchema: []ddbtypes.KeySchemaElement{
			{AttributeName: aws.String("username"), KeyType: ddbtypes.KeyTypeHash},
		},
		AttributeDefinitions: []ddbtypes.AttributeDefinition{
			{AttributeName: aws.String("username"), AttributeType: ddbtypes.ScalarAttributeTypeS},
		},
		ProvisionedThroughput: &ddbtypes.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(5),
			WriteCapacityUnits: aws.Int64(5),
		},
	})
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	return m.waitTable(ctx, m.cfg.UserTableName)
}

func (m *Manager) ensureFileTable(ctx context.Context) error {

	exists, err := m.tableExists(ctx, m.cfg.FileTableName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	m.logger.Info(ctx, "creating file table", "table", m.cfg.FileTableName, "index", files.OwnerIndexName)

	_, err = m.db.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(m.cfg.FileTableName),
		KeySchema: []ddbtypes.KeySchemaElement{
			{AttributeName: aws.String("file_id"), KeyType: ddbtypes.KeyTypeHash},
		},
		AttributeDefinitions: []ddbtypes.AttributeDefinition{
			{AttributeName: aws.String("file_id"), AttributeType: ddbtypes.ScalarAttributeTypeS},
			{AttributeName: aws.String("owner"), AttributeType: ddbtypes.ScalarAttributeTypeS},
		},
		GlobalSecondaryIndexes: []ddbtypes.GlobalSecondaryIndex{
			{
				IndexName: aws.String(files.OwnerIndexName),
				KeySchema: []ddbtypes.KeySchemaElement{
					{AttributeName: aws.String("owner"), KeyType: ddbtypes.KeyTypeHash},
				},
				Projection: &ddbtypes.Projection{ProjectionType: ddbtypes.ProjectionTypeAll},
				ProvisionedThroughput: &ddbtypes.ProvisionedThroughput{
					ReadCapacityUnits:  aws.Int64(5),
					WriteCapacityUnits: aws.Int64(5),
				},
			},
		},
		ProvisionedThroughput: &ddbtypes.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(5),
			WriteCapacityUnits: aws.Int64(5),
		},
	})
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	return m.waitTable(ctx, m.cfg.FileTableName)
}

func (m *Manager) tableExists(ctx context.Context, tableName string) (bool, error) {
	_, err := m.db.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	})
	if err != nil {
		var nf *ddbtypes.ResourceNotFoundException
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, fmt.Errorf("describe table: %w", err)
	}
	return true, nil
}

func (m *Manager) ensureBucket(ctx context.Context) error {

	_, err := m.s3.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(m.cfg.Bucket)})
	if err == nil {
		return nil
	}
	if !bucketMissing(err) {
		return fmt.Errorf("head bucket: %w", err)
	}

	m.logger.Info(ctx, "creating bucket", "bucket", m.cfg.Bucket)

	input := &s3.CreateBucketInput{Bucket: aws.String(m.cfg.Bucket)}
	// us-east-1 is the default location and must not be sent as a constraint
	if m.cfg.Region != "" && m.cfg.Region != "us-east-1" {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(m.cfg.Region),
		}
	}

	if _, err := m.s3.CreateBucket(ctx, input); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}

	return m.waitBucket(ctx, m.cfg.Bucket)
}

func bucketMissing(err error) bool {
	var nf *s3types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var aerr smithy.APIError
	if errors.As(err, &aerr) {
		code := aerr.ErrorCode()
		return code == "NotFound" || code == "NoSuchBucket"
	}
	return false
}
