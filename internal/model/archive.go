package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ArchivedOrder is the immutable copy of an order moved out of the live
// tables by the weekly archive job. OriginalID keeps the live order id.
type ArchivedOrder struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OriginalID      uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	State           string          `gorm:"type:varchar(20);not null"`
	Date            time.Time       `gorm:"not null;index"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Tip             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	NumberCustomers int             `gorm:"not null"`
	Comment         *string
	TableLabel      *string
	DailyCashID     *uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time
	ClosedAt        *time.Time
	ArchivedAt      time.Time `gorm:"not null"`

	Details  []ArchivedOrderDetail  `gorm:"foreignKey:ArchivedOrderID"`
	Payments []ArchivedOrderPayment `gorm:"foreignKey:ArchivedOrderID"`
}

// ArchivedOrderDetail flattens topping and promotion choices into JSON
// columns, see ArchivedTopping and ArchivedPromotionSelection.
type ArchivedOrderDetail struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ArchivedOrderID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID           uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName         string          `gorm:"not null"`
	Quantity            int             `gorm:"not null"`
	UnitaryPrice        decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	ToppingsExtraCost   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CommandNumber       *string
	Toppings            datatypes.JSON
	PromotionSelections datatypes.JSON
}

type ArchivedOrderPayment struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ArchivedOrderID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Method          string          `gorm:"type:varchar(20);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt       time.Time
}

// ArchivedTopping is the JSON shape stored in ArchivedOrderDetail.Toppings.
type ArchivedTopping struct {
	UnitIndex       int             `json:"unit_index"`
	IngredientID    uuid.UUID       `json:"ingredient_id"`
	Name            string          `json:"name"`
	ToppingsGroupID uuid.UUID       `json:"toppings_group_id"`
	ExtraCost       decimal.Decimal `json:"extra_cost"`
}

// ArchivedPromotionSelection is the JSON shape stored in
// ArchivedOrderDetail.PromotionSelections.
type ArchivedPromotionSelection struct {
	SlotID      uuid.UUID       `json:"slot_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ExtraCost   decimal.Decimal `json:"extra_cost"`
}
