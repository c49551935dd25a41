package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fornecedores/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user together with its claims and roles.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = normalizeEmail(user.Email)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user %s: %w", user.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by email, case-insensitively. It returns ErrNotFound when absent.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", normalizeEmail(email))
}

// GetByID retrieves a user by ID. It returns ErrNotFound when absent.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

// UpdateLockout persists the lockout bookkeeping columns of user.
func (r *GORMUserRepository) UpdateLockout(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{ID: user.ID}).
		Select("access_failed_count", "lockout_end").
		Updates(user)
	if res.Error != nil {
		return fmt.Errorf("failed to update lockout of user %s: %w", user.ID, res.Error)
	}
	return nil
}

// IncrementAccessFailedCount adds one failed login to the user's counter in a
// single UPDATE, so concurrent failures are all counted.
func (r *GORMUserRepository) IncrementAccessFailedCount(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("access_failed_count", gorm.Expr("access_failed_count + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("failed to count failed login of user %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddClaim attaches a claim to an existing user.
func (r *GORMUserRepository) AddClaim(ctx context.Context, claim *models.UserClaim) error {
	if err := r.db.WithContext(ctx).Create(claim).Error; err != nil {
		return fmt.Errorf("failed to add claim %s to user %s: %w", claim.Type, claim.UserID, err)
	}
	return nil
}

func (r *GORMUserRepository) first(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Claims", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Roles").
		First(&user, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
