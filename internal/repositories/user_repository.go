package repositories

import (
	"context"

	"fornecedores/internal/models"
)

// UserRepository defines the interface for identity store access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateLockout(ctx context.Context, user *models.User) error
	IncrementAccessFailedCount(ctx context.Context, id string) error
	AddClaim(ctx context.Context, claim *models.UserClaim) error
}
