package repositories

import (
	"context"
	"errors"
	"fmt"

	"fornecedores/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMFornecedorRepository is a GORM implementation of FornecedorRepository.
type GORMFornecedorRepository struct {
	db *gorm.DB
}

// NewGORMFornecedorRepository creates a new instance of GORMFornecedorRepository.
func NewGORMFornecedorRepository(db *gorm.DB) *GORMFornecedorRepository {
	return &GORMFornecedorRepository{
		db: db,
	}
}

// GetAll retrieves all fornecedores from the database.
func (r *GORMFornecedorRepository) GetAll(ctx context.Context) ([]models.Fornecedor, error) {
	fornecedores := []models.Fornecedor{}
	if err := r.db.WithContext(ctx).Order("nome").Find(&fornecedores).Error; err != nil {
		return nil, fmt.Errorf("failed to get all fornecedores: %w", err)
	}
	return fornecedores, nil
}

// GetByID retrieves a single fornecedor by its ID. It returns ErrNotFound when absent.
func (r *GORMFornecedorRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Fornecedor, error) {
	var fornecedor models.Fornecedor
	if err := r.db.WithContext(ctx).First(&fornecedor, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get fornecedor by ID %s: %w", id, err)
	}
	return &fornecedor, nil
}

// Add inserts a fornecedor, assigning a new ID when none is set.
func (r *GORMFornecedorRepository) Add(ctx context.Context, fornecedor *models.Fornecedor) (int64, error) {
	if fornecedor.ID == uuid.Nil {
		fornecedor.ID = uuid.New()
	}
	res := r.db.WithContext(ctx).Create(fornecedor)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to create fornecedor: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Update replaces every mutable column of the fornecedor identified by fornecedor.ID.
func (r *GORMFornecedorRepository) Update(ctx context.Context, fornecedor *models.Fornecedor) (int64, error) {
	// Save would fall back to an insert when no row matches.
	res := r.db.WithContext(ctx).
		Model(&models.Fornecedor{ID: fornecedor.ID}).
		Select("nome", "documento", "ativo").
		Updates(fornecedor)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update fornecedor %s: %w", fornecedor.ID, res.Error)
	}
	return res.RowsAffected, nil
}

// Remove deletes the fornecedor identified by fornecedor.ID.
func (r *GORMFornecedorRepository) Remove(ctx context.Context, fornecedor *models.Fornecedor) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Fornecedor{}, "id = ?", fornecedor.ID)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete fornecedor %s: %w", fornecedor.ID, res.Error)
	}
	return res.RowsAffected, nil
}
