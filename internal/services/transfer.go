package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/cloudshare/internal/common"
	"github.com/dmitrijs2005/cloudshare/internal/logging"
	"github.com/dmitrijs2005/cloudshare/internal/models"
)

// ObjectStore is the payload side of a transfer.
type ObjectStore interface {
	Put(ctx context.Context, localPath string, key string) error
	Get(ctx context.Context, key string, destPath string) error
}

// Catalog is the metadata side of a transfer.
type Catalog interface {
	SaveRecord(ctx context.Context, filename string, storageKey string, size int64, owner string, description string) (string, error)
	GetRecord(ctx context.Context, fileID string) (*models.FileRecord, error)
	ListByOwner(ctx context.Context, owner string) ([]models.FileRecord, error)
}

// Authenticator is the credential check used by the download gate.
type Authenticator interface {
	Authenticate(ctx context.Context, username string, password string) error
}

// TransferService orchestrates the two-step object+metadata flows. It is the
// only writer of file records and the only component that sequences an
// object-store write with a metadata write.
//
// There is no cross-store transaction: a metadata failure after a successful
// object write leaves the object in place and is surfaced as
// *common.OrphanedObjectError so the key can be reconciled externally.
type TransferService struct {
	store       ObjectStore
	catalog     Catalog
	creds       Authenticator
	maxFileSize int64
	logger      logging.Logger
}

func NewTransferService(store ObjectStore, catalog Catalog, creds Authenticator, maxFileSize int64, logger logging.Logger) *TransferService {
	return &TransferService{
		store:       store,
		catalog:     catalog,
		creds:       creds,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// Upload validates the local source, stores the payload under
// "owner/filename", then records the metadata. It returns the generated
// file id.
//
// Failure exits, in order:
//   - validation errors (ErrLocalPathMissing, ErrFileTooLarge) before any
//     object-store call;
//   - a storage error with no metadata written;
//   - *common.OrphanedObjectError when the object was stored but the
//     metadata write failed. The object is not rolled back.
func (s *TransferService) Upload(ctx context.Context, localPath string, owner string, description string) (string, error) {

	fi, err := os.Stat(localPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", common.ErrLocalPathMissing, localPath)
		}
		return "", fmt.Errorf("stat %s: %w", localPath, err)
	}
	if fi.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", common.ErrLocalPathMissing, localPath)
	}
	if fi.Size() > s.maxFileSize {
		return "", fmt.Errorf("%w: %d > %d bytes", common.ErrFileTooLarge, fi.Size(), s.maxFileSize)
	}

	filename := filepath.Base(localPath)
	key := owner + "/" + filename

	s.warnOnKeyReuse(ctx, owner, key)

	if err := s.store.Put(ctx, localPath, key); err != nil {
		return "", fmt.Errorf("storing object: %w", err)
	}

	fileID, err := s.catalog.SaveRecord(ctx, filename, key, fi.Size(), owner, description)
	if err != nil {
		s.logger.Error(ctx, "object stored but metadata write failed, key needs manual reconciliation",
			"key", key, "owner", owner, "error", err.Error())
		return "", &common.OrphanedObjectError{Key: key, Err: err}
	}

	s.logger.Info(ctx, "file uploaded", "file_id", fileID, "key", key, "size", fi.Size())

	return fileID, nil
}

// warnOnKeyReuse flags the known consistency hazard of repeated uploads of
// the same (owner, filename): the object is overwritten while every earlier
// record still references the key. Best-effort only.
func (s *TransferService) warnOnKeyReuse(ctx context.Context, owner string, key string) {
	records, err := s.catalog.ListByOwner(ctx, owner)
	if err != nil {
		return
	}
	for _, r := range records {
		if r.StorageKey == key {
			s.logger.Warn(ctx, "storage key already referenced by an earlier record, object will be overwritten",
				"key", key, "existing_file_id", r.FileID)
			return
		}
	}
}

// Download fetches the file identified by fileID into destDir after a fresh
// credential check.
//
// The re-authentication is deliberate and distinct from the session login:
// the supplied credentials must verify AND the authenticated identity must
// equal the record's owner before any object fetch is attempted.
// It returns the path of the written file.
func (s *TransferService) Download(ctx context.Context, fileID string, username string, password string, destDir string) (string, error) {

	record, err := s.catalog.GetRecord(ctx, fileID)
	if err != nil {
		return "", fmt.Errorf("fetching file record: %w", err)
	}

	if err := s.creds.Authenticate(ctx, username, password); err != nil {
		return "", fmt.Errorf("download re-authentication failed: %w", err)
	}
	if record.Owner != username {
		return "", fmt.Errorf("%w: file %s", common.ErrNotOwner, fileID)
	}

	destPath := filepath.Join(destDir, record.FileName)
	if err := s.store.Get(ctx, record.StorageKey, destPath); err != nil {
		return "", fmt.Errorf("fetching object: %w", err)
	}

	s.logger.Info(ctx, "file downloaded", "file_id", fileID, "dest", destPath)

	return destPath, nil
}

// ListFiles enumerates the owner's file records.
func (s *TransferService) ListFiles(ctx context.Context, owner string) ([]models.FileRecord, error) {
	return s.catalog.ListByOwner(ctx, owner)
}
