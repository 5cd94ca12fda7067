// Package app wires the services together and drives the interactive
// front end. The front end is deliberately thin: it only prompts, then calls
// into the operation API.
package app

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/cloudshare/internal/auth"
	"github.com/dmitrijs2005/cloudshare/internal/common"
	"github.com/dmitrijs2005/cloudshare/internal/config"
	"github.com/dmitrijs2005/cloudshare/internal/logging"
	"github.com/dmitrijs2005/cloudshare/internal/objectstore"
	"github.com/dmitrijs2005/cloudshare/internal/provision"
	filesrepo "github.com/dmitrijs2005/cloudshare/internal/repositories/files"
	usersrepo "github.com/dmitrijs2005/cloudshare/internal/repositories/users"
	"github.com/dmitrijs2005/cloudshare/internal/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	creds       *services.CredentialService
	transfer    *services.TransferService
	provisioner *provision.Manager

	token  string
	reader *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewDefault()

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config init error: %w", err)
	}

	dynamoClient := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	userRepo := usersrepo.NewDynamoRepository(dynamoClient, cfg.UserTableName)
	fileRepo := filesrepo.NewDynamoRepository(dynamoClient, cfg.FileTableName)

	store := objectstore.NewAdapter(s3Client, cfg.Bucket, cfg.MaxFileSize)
	creds := services.NewCredentialService(userRepo, cfg.SecretKey, cfg.SessionTokenValidity, logger)
	catalog := services.NewCatalogService(fileRepo)
	transfer := services.NewTransferService(store, catalog, creds, cfg.MaxFileSize, logger)

	provisioner := provision.NewManager(dynamoClient, s3Client, cfg, logger)

	return &App{
		config:      cfg,
		logger:      logger,
		creds:       creds,
		transfer:    transfer,
		provisioner: provisioner,
		reader:      bufio.NewReader(os.Stdin),
	}, nil
}

// Run provisions the backing resources and serves the command loop.
func (a *App) Run(ctx context.Context) error {

	a.logger.Info(ctx, "starting cloudshare", "bucket", a.config.Bucket,
		"user_table", a.config.UserTableName, "file_table", a.config.FileTableName)

	if err := a.provisioner.EnsureResources(ctx); err != nil {
		return fmt.Errorf("provisioning error: %w", err)
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}

func (a *App) status() string {
	owner, err := a.currentOwner()
	if err != nil {
		return "not logged in"
	}
	return owner
}

// currentOwner derives the acting user from the session token. An expired or
// otherwise invalid token counts as not logged in.
func (a *App) currentOwner() (string, error) {
	if a.token == "" {
		return "", common.ErrNotLoggedIn
	}
	owner, err := auth.GetUserNameFromToken(a.token, []byte(a.config.SecretKey))
	if err != nil {
		return "", common.ErrNotLoggedIn
	}
	return owner, nil
}
