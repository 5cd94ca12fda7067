// Package objectstore adapts the S3 API to the two operations the rest of
// the system needs: put a local file under a key, and fetch a key to a local
// path. It holds no state beyond its configuration and caches nothing.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/dmitrijs2005/cloudshare/internal/common"
	"github.com/dmitrijs2005/cloudshare/internal/filex"
	"github.com/dmitrijs2005/cloudshare/internal/retryx"
)

// API is the subset of *s3.Client the adapter uses. Embedding
// manager.UploadAPIClient keeps the adapter compatible with the transfer
// manager's uploader.
type API interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type Adapter struct {
	client   API
	uploader *manager.Uploader
	bucket   string
	maxSize  int64
}

func NewAdapter(client API, bucket string, maxSize int64) *Adapter {
	return &Adapter{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		maxSize:  maxSize,
	}
}

// Put uploads the file at localPath under key. Payloads over the configured
// maximum are rejected before any network call; no partial upload is
// attempted.
func (a *Adapter) Put(ctx context.Context, localPath string, key string) error {

	fi, err := os.Stat(localPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", common.ErrLocalPathMissing, localPath)
		}
		return fmt.Errorf("stat %s: %w", localPath, err)
	}
	if fi.IsDir() {
		return fmt.Errorf("%w: %s is a directory", common.ErrLocalPathMissing, localPath)
	}
	if fi.Size() > a.maxSize {
		return fmt.Errorf("%w: %d > %d bytes", common.ErrFileTooLarge, fi.Size(), a.maxSize)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	err = retryx.Do(ctx, func(ctx context.Context) error {
		if _, err := f.Seek(0, 0); err != nil {
			return err
		}
		_, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket: aws.String(a.bucket),
			Key:    aws.String(key),
			Body:   f,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}

	return nil
}

// Get fetches the object stored under key and writes it to destPath,
// creating any missing destination directory first.
func (a *Adapter) Get(ctx context.Context, key string, destPath string) error {

	dest, err := filex.EnsureParentDir(destPath)
	if err != nil {
		return err
	}

	var out *s3.GetObjectOutput
	err = retryx.Do(ctx, func(ctx context.Context) error {
		var err error
		out, err = a.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(a.bucket),
			Key:    aws.String(key),
		})
		return err
	})
	if err != nil {
		if isNoSuchKey(err) {
			return fmt.Errorf("%w: %s", common.ErrObjectNotFound, key)
		}
		return fmt.Errorf("get %s: %w", key, err)
	}
	defer out.Body.Close()

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}

	if _, err := f.ReadFrom(out.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return fmt.Errorf("write %s: %w", dest, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dest, err)
	}

	return nil
}

func isNoSuchKey(err error) bool {
	var aerr smithy.APIError
	if errors.As(err, &aerr) {
		code := aerr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}
