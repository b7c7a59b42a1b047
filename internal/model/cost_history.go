package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	CostEntityIngredient = "ingredient"
	CostEntityProduct    = "product"
)

// CostHistory records every cost change of an ingredient or product.
// Rows are append-only.
type CostHistory struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EntityType string          `gorm:"type:varchar(20);not null;index:idx_cost_history_entity"`
	EntityID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_cost_history_entity"`
	CostBefore decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	CostAfter  decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	Reason     string          `gorm:"not null;default:'manual'"` // manual | cascade
	CreatedAt  time.Time
}

func (CostHistory) TableName() string { return "cost_history" }
