package models

import (
	"time"

	"github.com/google/uuid"
)

// Fornecedor event names, also used as AMQP routing keys.
const (
	FornecedorCreated = "fornecedor.created"
	FornecedorUpdated = "fornecedor.updated"
	FornecedorDeleted = "fornecedor.deleted"
)

// FornecedorEvent is published after a fornecedor change has been committed.
type FornecedorEvent struct {
	Event      string    `json:"event"`
	ID         uuid.UUID `json:"id"`
	Nome       string    `json:"nome"`
	Documento  string    `json:"documento"`
	Ativo      bool      `json:"ativo"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewFornecedorEvent snapshots f for the given event name.
func NewFornecedorEvent(event string, f *Fornecedor) FornecedorEvent {
	return FornecedorEvent{
		Event:      event,
		ID:         f.ID,
		Nome:       f.Nome,
		Documento:  f.Documento,
		Ativo:      f.Ativo,
		OccurredAt: time.Now().UTC(),
	}
}
