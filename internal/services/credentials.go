// Package services contains the business flows: credential management,
// the metadata catalog, and the upload/download coordinator.
package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cloudshare/internal/auth"
	"github.com/dmitrijs2005/cloudshare/internal/common"
	"github.com/dmitrijs2005/cloudshare/internal/logging"
	"github.com/dmitrijs2005/cloudshare/internal/models"
	"github.com/dmitrijs2005/cloudshare/internal/repositories/users"
)

// CredentialService manages user records and password verification.
//
// Password hashing is a single unsalted SHA-256, preserving the documented
// source contract verbatim. This is a known weakness; do not "fix" it here
// without changing the contract, since existing records would stop
// verifying.
type CredentialService struct {
	repo          users.Repository
	jwtSecret     []byte
	tokenValidity time.Duration
	logger        logging.Logger
}

func NewCredentialService(repo users.Repository, secretKey string, tokenValidity time.Duration, logger logging.Logger) *CredentialService {
	return &CredentialService{
		repo:          repo,
		jwtSecret:     []byte(secretKey),
		tokenValidity: tokenValidity,
		logger:        logger,
	}
}

// HashPassword derives the stored password hash.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Register creates a new user. The existence check and the write are two
// separate calls; a concurrent double-registration of the same username can
// race, which is tolerated.
func (s *CredentialService) Register(ctx context.Context, username string, password string) error {

	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", common.ErrInternal)
	}

	_, err := s.repo.GetByUserName(ctx, username)
	if err == nil {
		return common.ErrUserAlreadyExists
	}
	if !errors.Is(err, common.ErrUserNotFound) {
		return fmt.Errorf("error checking user: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		UserName:     username,
		PasswordHash: HashPassword(password),
		CreatedAt:    now,
		LastLogin:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// Authenticate verifies the password for username. On success, last_login is
// updated as a side effect; a failure to update the timestamp is logged and
// does not fail the authentication.
func (s *CredentialService) Authenticate(ctx context.Context, username string, password string) error {

	user, err := s.repo.GetByUserName(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return common.ErrUserNotFound
		}
		return fmt.Errorf("error fetching user: %w", err)
	}

	candidate := HashPassword(password)
	if subtle.ConstantTimeCompare([]byte(user.PasswordHash), []byte(candidate)) != 1 {
		return common.ErrWrongPassword
	}

	if err := s.repo.TouchLastLogin(ctx, username, time.Now().UTC()); err != nil {
		s.logger.Warn(ctx, "failed to update last_login", "username", username, "error", err.Error())
	}

	return nil
}

// Login authenticates and issues a session token for the user.
func (s *CredentialService) Login(ctx context.Context, username string, password string) (string, error) {

	if err := s.Authenticate(ctx, username, password); err != nil {
		return "", err
	}

	token, err := auth.GenerateToken(username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}

	return token, nil
}

// GetUser is a pure lookup with no side effects.
func (s *CredentialService) GetUser(ctx context.Context, username string) (*models.User, error) {
	return s.repo.GetByUserName(ctx, username)
}
