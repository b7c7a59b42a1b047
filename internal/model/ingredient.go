package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ingredient is a raw material. Cost is per one UnitOfMeasure.
// Ingredients grouped in a ToppingsGroup are offered as toppings.
type Ingredient struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name            string          `gorm:"uniqueIndex;not null"`
	Cost            decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	UnitOfMeasureID *uuid.UUID      `gorm:"type:uuid;index"`
	IsActive        bool            `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	UnitOfMeasure *UnitOfMeasure `gorm:"foreignKey:UnitOfMeasureID"`
}
