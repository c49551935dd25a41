package repositories

import (
	"context"
	"errors"

	"fornecedores/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by lookups when no record matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("record already exists")
)

// FornecedorRepository defines the interface for fornecedor data access.
// Mutating methods commit immediately and return the number of affected rows.
type FornecedorRepository interface {
	GetAll(ctx context.Context) ([]models.Fornecedor, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Fornecedor, error)
	Add(ctx context.Context, fornecedor *models.Fornecedor) (int64, error)
	Update(ctx context.Context, fornecedor *models.Fornecedor) (int64, error)
	Remove(ctx context.Context, fornecedor *models.Fornecedor) (int64, error)
}
