package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/cloudshare/internal/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	TouchLastLogin(ctx context.Context, userName string, t time.Time) error
}
