package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/biscotto/internal/server/models"
)

// Repository is the identity store. Emails are compared case-insensitively.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	CreateIfAbsent(ctx context.Context, user *models.User) (bool, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	MarkVerified(ctx context.Context, id string) error
	SetResetCode(ctx context.Context, id string, code string, expiry time.Time) error
	ResetPassword(ctx context.Context, id string, passwordHash string) error
	UpdateProfile(ctx context.Context, id string, name string, email string) (*models.User, error)
}
