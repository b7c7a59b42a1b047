package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DailyCashOpen   = "open"
	DailyCashClosed = "closed"
)

const (
	MovementIncome  = "income"
	MovementExpense = "expense"
)

// DailyCash is the cash ledger of one business day.
// TotalCash is the running drawer total: it starts at InitialCash, grows with
// cash sales and incomes and shrinks with cash expenses.
type DailyCash struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Date             string          `gorm:"type:varchar(10);uniqueIndex;not null"` // YYYY-MM-DD, business timezone
	State            string          `gorm:"type:varchar(20);not null;default:'open'"`
	InitialCash      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	FinalCash        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalSales       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalTips        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalCash        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalCreditCard  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalDebitCard   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalTransfer    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalMercadoPago decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalIncomes     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalExpenses    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CashDifference   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// DeviationLevel: "normal" | "warning" | "critical", set on close
	DeviationLevel *string `gorm:"type:varchar(20)"`
	Comment        *string
	OpenedAt       time.Time
	ClosedAt       *time.Time

	Movements []CashMovement `gorm:"foreignKey:DailyCashID"`
}

func (DailyCash) TableName() string { return "daily_cash" }

// MethodTotal returns the running total for a payment method.
func (d *DailyCash) MethodTotal(method string) decimal.Decimal {
	switch method {
	case PaymentCash:
		return d.TotalCash
	case PaymentCreditCard:
		return d.TotalCreditCard
	case PaymentDebitCard:
		return d.TotalDebitCard
	case PaymentTransfer:
		return d.TotalTransfer
	case PaymentMercadoPago:
		return d.TotalMercadoPago
	}
	return decimal.Zero
}

// AddToMethod adds amount (possibly negative) to a method's running total.
func (d *DailyCash) AddToMethod(method string, amount decimal.Decimal) {
	switch method {
	case PaymentCash:
		d.TotalCash = d.TotalCash.Add(amount)
	case PaymentCreditCard:
		d.TotalCreditCard = d.TotalCreditCard.Add(amount)
	case PaymentDebitCard:
		d.TotalDebitCard = d.TotalDebitCard.Add(amount)
	case PaymentTransfer:
		d.TotalTransfer = d.TotalTransfer.Add(amount)
	case PaymentMercadoPago:
		d.TotalMercadoPago = d.TotalMercadoPago.Add(amount)
	}
}

// CashMovement is an immutable manual income or expense.
// Type: "income" | "expense".
type CashMovement struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DailyCashID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Type        string          `gorm:"type:varchar(20);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Description string          `gorm:"not null"`
	CreatedAt   time.Time

	Payments []CashMovementPayment `gorm:"foreignKey:CashMovementID"`
}

type CashMovementPayment struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CashMovementID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Method         string          `gorm:"type:varchar(20);not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
