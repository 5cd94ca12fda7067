package objectstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cloudshare/internal/common"
)

// fakeS3 satisfies the adapter's API interface. Only single-part uploads are
// expected in tests; the multipart methods fail loudly if reached.
type fakeS3 struct {
	putCalls  int
	putBucket string
	putKey    string
	putBody   []byte
	putErr    error

	getCalls int
	getKey   string
	getBody  []byte
	getErr   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putCalls++
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.putBucket = *params.Bucket
	f.putKey = *params.Key
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.putBody = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.getKey = *params.Key
	return &s3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader(f.getBody)),
	}, nil
}

func (f *fakeS3) CreateMultipartUpload(ctx context.Context, params *s3.CreateMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errors.New("unexpected multipart upload in test")
}

func (f *fakeS3) UploadPart(ctx context.Context, params *s3.UploadPartInput, optFns ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errors.New("unexpected multipart upload in test")
}

func (f *fakeS3) CompleteMultipartUpload(ctx context.Context, params *s3.CompleteMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errors.New("unexpected multipart upload in test")
}

func (f *fakeS3) AbortMultipartUpload(ctx context.Context, params *s3.AbortMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return nil, errors.New("unexpected multipart upload in test")
}

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o660); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestPut_UploadsFile(t *testing.T) {
	client := &fakeS3{}
	a := NewAdapter(client, "test-bucket", 1024)

	src := writeTempFile(t, "notes.txt", []byte("hello s3"))
	require.NoError(t, a.Put(context.Background(), src, "alice/notes.txt"))

	assert.Equal(t, 1, client.putCalls)
	assert.Equal(t, "test-bucket", client.putBucket)
	assert.Equal(t, "alice/notes.txt", client.putKey)
	assert.Equal(t, []byte("hello s3"), client.putBody)
}

func TestPut_TooLarge_FailsBeforeAnyCall(t *testing.T) {
	client := &fakeS3{}
	a := NewAdapter(client, "test-bucket", 4)

	src := writeTempFile(t, "big.bin", []byte("way too large"))
	err := a.Put(context.Background(), src, "alice/big.bin")
	require.ErrorIs(t, err, common.ErrFileTooLarge)
	assert.Equal(t, 0, client.putCalls)
}

func TestPut_MissingLocalFile(t *testing.T) {
	client := &fakeS3{}
	a := NewAdapter(client, "test-bucket", 1024)

	err := a.Put(context.Background(), filepath.Join(t.TempDir(), "nope"), "k")
	require.ErrorIs(t, err, common.ErrLocalPathMissing)
	assert.Equal(t, 0, client.putCalls)
}

func TestGet_WritesDestinationCreatingDirs(t *testing.T) {
	client := &fakeS3{getBody: []byte("object content")}
	a := NewAdapter(client, "test-bucket", 1024)

	dest := filepath.Join(t.TempDir(), "nested", "dir", "out.txt")
	require.NoError(t, a.Get(context.Background(), "alice/out.txt", dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, []byte("object content"), got)
	assert.Equal(t, "alice/out.txt", client.getKey)
}

func TestGet_NoSuchKey(t *testing.T) {
	client := &fakeS3{getErr: &types.NoSuchKey{}}
	a := NewAdapter(client, "test-bucket", 1024)

	err := a.Get(context.Background(), "missing", filepath.Join(t.TempDir(), "out"))
	require.ErrorIs(t, err, common.ErrObjectNotFound)
}
