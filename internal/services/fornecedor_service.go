package services

import (
	"context"
	"encoding/json"
	"log"

	"fornecedores/internal/models"
	"fornecedores/internal/repositories"

	"github.com/google/uuid"
)

// EventPublisher publishes a message body under a routing key of an exchange.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// FornecedorExchange is the exchange fornecedor events are published to.
const FornecedorExchange = "fornecedor"

// FornecedorService handles business logic related to fornecedores.
type FornecedorService struct {
	repo      repositories.FornecedorRepository
	publisher EventPublisher // optional
}

// NewFornecedorService creates a new FornecedorService. publisher may be nil.
func NewFornecedorService(repo repositories.FornecedorRepository, publisher EventPublisher) *FornecedorService {
	return &FornecedorService{
		repo:      repo,
		publisher: publisher,
	}
}

// GetAll retrieves all fornecedores.
func (s *FornecedorService) GetAll(ctx context.Context) ([]models.Fornecedor, error) {
	return s.repo.GetAll(ctx)
}

// GetByID retrieves a single fornecedor. It returns repositories.ErrNotFound when absent.
func (s *FornecedorService) GetByID(ctx context.Context, id uuid.UUID) (*models.Fornecedor, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a new fornecedor under a freshly generated ID and returns the affected row count.
func (s *FornecedorService) Create(ctx context.Context, fornecedor *models.Fornecedor) (int64, error) {
	fornecedor.ID = uuid.New()
	n, err := s.repo.Add(ctx, fornecedor)
	if err == nil && n > 0 {
		s.publish(models.FornecedorCreated, fornecedor)
	}
	return n, err
}

// Update replaces the fornecedor identified by fornecedor.ID and returns the affected row count.
func (s *FornecedorService) Update(ctx context.Context, fornecedor *models.Fornecedor) (int64, error) {
	n, err := s.repo.Update(ctx, fornecedor)
	if err == nil && n > 0 {
		s.publish(models.FornecedorUpdated, fornecedor)
	}
	return n, err
}

// Delete removes the fornecedor and returns the affected row count.
func (s *FornecedorService) Delete(ctx context.Context, fornecedor *models.Fornecedor) (int64, error) {
	n, err := s.repo.Remove(ctx, fornecedor)
	if err == nil && n > 0 {
		s.publish(models.FornecedorDeleted, fornecedor)
	}
	return n, err
}

// publish is best effort: the change is already committed, so failures are only logged.
func (s *FornecedorService) publish(event string, fornecedor *models.Fornecedor) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(models.NewFornecedorEvent(event, fornecedor))
	if err != nil {
		log.Printf("Failed to marshal %s event for fornecedor %s: %v", event, fornecedor.ID, err)
		return
	}
	if err := s.publisher.Publish(FornecedorExchange, event, body); err != nil {
		log.Printf("Warning: failed to publish %s event for fornecedor %s: %v", event, fornecedor.ID, err)
	}
}
