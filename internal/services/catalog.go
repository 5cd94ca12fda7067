package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/cloudshare/internal/models"
	"github.com/dmitrijs2005/cloudshare/internal/repositories/files"
)

// CatalogService creates, fetches and queries file records. It holds no
// business invariants beyond per-call input validation; the coordinator owns
// the consistency contract with the object store.
type CatalogService struct {
	repo files.Repository
}

func NewCatalogService(repo files.Repository) *CatalogService {
	return &CatalogService{repo: repo}
}

// SaveRecord writes a new file record under a freshly generated identifier
// and returns it. Identifier collisions are treated as negligible.
func (s *CatalogService) SaveRecord(ctx context.Context, filename string, storageKey string, size int64, owner string, description string) (string, error) {

	record := &models.FileRecord{
		FileID:      uuid.NewString(),
		FileName:    filename,
		StorageKey:  storageKey,
		Size:        size,
		UploadDate:  time.Now().UTC(),
		Owner:       owner,
		Description: description,
	}

	if err := s.repo.Save(ctx, record); err != nil {
		return "", fmt.Errorf("error saving file record: %w", err)
	}

	return record.FileID, nil
}

func (s *CatalogService) GetRecord(ctx context.Context, fileID string) (*models.FileRecord, error) {
	return s.repo.Get(ctx, fileID)
}

// ListByOwner returns the owner's records; an owner with no files gets an
// empty slice, never an error.
func (s *CatalogService) ListByOwner(ctx context.Context, owner string) ([]models.FileRecord, error) {
	return s.repo.ListByOwner(ctx, owner)
}
