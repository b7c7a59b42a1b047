package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	OrderOpen           = "open"
	OrderPendingPayment = "pending_payment"
	OrderClosed         = "closed"
	OrderCancelled      = "cancelled"
)

const (
	PaymentCash        = "cash"
	PaymentCreditCard  = "credit_card"
	PaymentDebitCard   = "debit_card"
	PaymentTransfer    = "transfer"
	PaymentMercadoPago = "mercado_pago"
)

// PaymentMethods lists every accepted payment method.
var PaymentMethods = []string{PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentTransfer, PaymentMercadoPago}

// Order is a table's consumption from opening to payment.
// State: "open" | "pending_payment" | "closed" | "cancelled".
// Total and Tip are only authoritative once State is "closed".
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	State           string          `gorm:"type:varchar(20);not null;default:'open';index"`
	Date            time.Time       `gorm:"not null;index"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Tip             decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	NumberCustomers int             `gorm:"not null;default:1"`
	Comment         *string
	TableID         *uuid.UUID `gorm:"type:uuid;index"`
	DailyCashID     *uuid.UUID `gorm:"type:uuid;index"`
	CustomerID      *uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ClosedAt        *time.Time

	Table    *Table         `gorm:"foreignKey:TableID"`
	Details  []OrderDetail  `gorm:"foreignKey:OrderID"`
	Payments []OrderPayment `gorm:"foreignKey:OrderID"`
}

// IsTerminal reports whether the order accepts no further mutation.
func (o *Order) IsTerminal() bool {
	return o.State == OrderClosed || o.State == OrderCancelled
}

// OrderDetail is one line. UnitaryPrice already includes the averaged extra
// per unit, so Subtotal = UnitaryPrice × Quantity. ToppingsExtraCost is the
// total extra of the line and is not added again.
type OrderDetail struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	Quantity          int             `gorm:"not null"`
	UnitaryPrice      decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	ToppingsExtraCost decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CommandNumber     *string         `gorm:"type:varchar(30)"`
	CreatedAt         time.Time

	Product             *Product                        `gorm:"foreignKey:ProductID"`
	Toppings            []OrderDetailTopping            `gorm:"foreignKey:OrderDetailID"`
	PromotionSelections []OrderDetailPromotionSelection `gorm:"foreignKey:OrderDetailID"`
}

// OrderDetailTopping is one topping chosen for one unit of a line.
type OrderDetailTopping struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderDetailID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	UnitIndex       int             `gorm:"not null"`
	IngredientID    uuid.UUID       `gorm:"type:uuid;not null"`
	ToppingsGroupID uuid.UUID       `gorm:"type:uuid;not null"`
	ExtraCost       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}

type OrderDetailPromotionSelection struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderDetailID uuid.UUID       `gorm:"type:uuid;index;not null"`
	SlotID        uuid.UUID       `gorm:"type:uuid;not null"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null"`
	ExtraCost     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

type OrderPayment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Method    string          `gorm:"type:varchar(20);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
}
