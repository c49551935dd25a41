package models

import "github.com/google/uuid"

// Fornecedor represents a supplier.
type Fornecedor struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Nome      string    `json:"nome" gorm:"type:varchar(100);not null" validate:"required,min=2,max=100"`
	Documento string    `json:"documento" gorm:"type:varchar(14);not null" validate:"required,documento"`
	Ativo     bool      `json:"ativo"`
}

func (Fornecedor) TableName() string { return "fornecedores" }
