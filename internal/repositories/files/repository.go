package files

import (
	"context"

	"github.com/dmitrijs2005/cloudshare/internal/models"
)

type Repository interface {
	Save(ctx context.Context, record *models.FileRecord) error
	Get(ctx context.Context, fileID string) (*models.FileRecord, error)
	ListByOwner(ctx context.Context, owner string) ([]models.FileRecord, error)
}
