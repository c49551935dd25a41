package repositories

import (
	"context"
	"sort"
	"sync"

	"fornecedores/internal/models"

	"github.com/google/uuid"
)

// MemoryFornecedorRepository is an in-memory implementation of FornecedorRepository.
type MemoryFornecedorRepository struct {
	fornecedores map[uuid.UUID]models.Fornecedor
	mu           sync.RWMutex
}

// NewMemoryFornecedorRepository creates a new instance of MemoryFornecedorRepository.
func NewMemoryFornecedorRepository() *MemoryFornecedorRepository {
	return &MemoryFornecedorRepository{
		fornecedores: make(map[uuid.UUID]models.Fornecedor),
	}
}

// GetAll returns all fornecedores ordered by name.
func (r *MemoryFornecedorRepository) GetAll(_ context.Context) ([]models.Fornecedor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Fornecedor, 0, len(r.fornecedores))
	for _, f := range r.fornecedores {
		list = append(list, f)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Nome < list[j].Nome })
	return list, nil
}

// GetByID returns a fornecedor by its ID.
func (r *MemoryFornecedorRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Fornecedor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.fornecedores[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

// Add stores a new fornecedor. An already used ID affects no rows.
func (r *MemoryFornecedorRepository) Add(_ context.Context, fornecedor *models.Fornecedor) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if fornecedor.ID == uuid.Nil {
		fornecedor.ID = uuid.New()
	}
	if _, exists := r.fornecedores[fornecedor.ID]; exists {
		return 0, nil
	}
	r.fornecedores[fornecedor.ID] = *fornecedor
	return 1, nil
}

// Update replaces an existing fornecedor.
func (r *MemoryFornecedorRepository) Update(_ context.Context, fornecedor *models.Fornecedor) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.fornecedores[fornecedor.ID]; !ok {
		return 0, nil
	}
	r.fornecedores[fornecedor.ID] = *fornecedor
	return 1, nil
}

// Remove deletes a fornecedor.
func (r *MemoryFornecedorRepository) Remove(_ context.Context, fornecedor *models.Fornecedor) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.fornecedores[fornecedor.ID]; !ok {
		return 0, nil
	}
	delete(r.fornecedores, fornecedor.ID)
	return 1, nil
}
