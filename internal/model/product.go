package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ProductSimple    = "simple"
	ProductCompound  = "compound"
	ProductPromotion = "promotion"
)

// Product is anything that can be sold.
// Type: "simple" | "compound" | "promotion".
// Cost is entered by hand for simple products and derived for the other two.
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"index;not null"`
	Description *string
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cost        decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	Type        string          `gorm:"type:varchar(20);not null;default:'simple'"`
	IsActive    bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Ingredients            []ProductIngredient            `gorm:"foreignKey:ProductID"`
	PromotionItems         []PromotionProduct             `gorm:"foreignKey:PromotionID"`
	PromotionSlots         []PromotionSlot                `gorm:"foreignKey:PromotionID"`
	AvailableToppingGroups []ProductAvailableToppingGroup `gorm:"foreignKey:ProductID"`
}

// ProductIngredient is one recipe line of a compound product. Quantity is
// expressed in UnitOfMeasureID, which may differ from the ingredient's unit.
type ProductIngredient struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	IngredientID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	UnitOfMeasureID *uuid.UUID      `gorm:"type:uuid"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}

// PromotionProduct is one product bundled in a promotion.
type PromotionProduct struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PromotionID uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(12,4);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

// PromotionSlot is a "pick one of" position inside a promotion.
type PromotionSlot struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PromotionID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name        string    `gorm:"not null"`

	Options []PromotionSlotOption `gorm:"foreignKey:SlotID"`
}

type PromotionSlotOption struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SlotID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	ExtraCost decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
