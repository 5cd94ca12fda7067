package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cloudshare/internal/common"
	"github.com/dmitrijs2005/cloudshare/internal/models"
)

type fakeFilesRepo struct {
	saved   []*models.FileRecord
	saveErr error
	getOut  *models.FileRecord
	listOut []models.FileRecord
	listErr error
}

func (f *fakeFilesRepo) Save(ctx context.Context, record *models.FileRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, record)
	return nil
}

func (f *fakeFilesRepo) Get(ctx context.Context, fileID string) (*models.FileRecord, error) {
	if f.getOut == nil {
		return nil, common.ErrFileNotFound
	}
	return f.getOut, nil
}

func (f *fakeFilesRepo) ListByOwner(ctx context.Context, owner string) ([]models.FileRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func TestSaveRecord_GeneratesFreshID(t *testing.T) {
	repo := &fakeFilesRepo{}
	s := NewCatalogService(repo)

	id1, err := s.SaveRecord(context.Background(), "a.txt", "alice/a.txt", 3, "alice", "")
	require.NoError(t, err)
	id2, err := s.SaveRecord(context.Background(), "a.txt", "alice/a.txt", 3, "alice", "")
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
	_, err = uuid.Parse(id1)
	assert.NoError(t, err)

	require.Len(t, repo.saved, 2)
	rec := repo.saved[0]
	assert.Equal(t, id1, rec.FileID)
	assert.Equal(t, "alice/a.txt", rec.StorageKey)
	assert.Equal(t, "alice", rec.Owner)
	assert.False(t, rec.UploadDate.IsZero())
}

func TestSaveRecord_WriteFailure(t *testing.T) {
	repo := &fakeFilesRepo{saveErr: errors.New("boom")}
	s := NewCatalogService(repo)

	_, err := s.SaveRecord(context.Background(), "a.txt", "alice/a.txt", 3, "alice", "")
	require.ErrorContains(t, err, "error saving file record")
}

func TestGetRecord_NotFound(t *testing.T) {
	s := NewCatalogService(&fakeFilesRepo{})
	_, err := s.GetRecord(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrFileNotFound)
}

func TestListByOwner_Passthrough(t *testing.T) {
	repo := &fakeFilesRepo{listOut: []models.FileRecord{{FileID: "f1", Owner: "alice"}}}
	s := NewCatalogService(repo)

	out, err := s.ListByOwner(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "f1", out[0].FileID)
}
