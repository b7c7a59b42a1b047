package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	GroupKindToppings = "toppings"
	GroupKindSauce    = "sauce"
)

// ToppingsGroup groups ingredients offered as toppings (e.g. "Quesos").
// Sauce groups share the table and the selection rules; Kind tells them apart.
type ToppingsGroup struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Kind      string    `gorm:"type:varchar(20);index;not null;default:'toppings'"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Toppings []Ingredient `gorm:"many2many:toppings_group_ingredients"`
}

// ToppingSettings controls how a group behaves on a given product.
type ToppingSettings struct {
	MaxSelection int             `gorm:"not null;default:1"`
	ChargeExtra  bool            `gorm:"not null;default:false"`
	ExtraCost    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// ProductAvailableToppingGroup links a product to a toppings group it offers.
// QuantityOfTopping is the amount of ingredient one selected topping consumes.
type ProductAvailableToppingGroup struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID         uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_product_topping_group;not null"`
	ToppingsGroupID   uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_product_topping_group;not null"`
	QuantityOfTopping decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	UnitOfMeasureID   *uuid.UUID      `gorm:"type:uuid"`
	Settings          ToppingSettings `gorm:"embedded;embeddedPrefix:settings_"`

	ToppingsGroup *ToppingsGroup `gorm:"foreignKey:ToppingsGroupID"`
}
