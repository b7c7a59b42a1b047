package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenDailyCashRequest struct {
	InitialCash decimal.Decimal `json:"initial_cash" validate:"min=0"`
	Comment     *string         `json:"comment"`
}

// CashMovementRequest registers a manual income or expense. The movement
// amount is the sum of its payments.
type CashMovementRequest struct {
	Type        string           `json:"type"        validate:"required,oneof=income expense"`
	Payments    []PaymentRequest `json:"payments"    validate:"required,min=1,dive"`
	Description string           `json:"description" validate:"required,min=3"`
}

type CloseDailyCashRequest struct {
	CountedCash decimal.Decimal `json:"counted_cash" validate:"min=0"`
	Comment     *string         `json:"comment"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PaymentTotals struct {
	Cash        decimal.Decimal `json:"cash"`
	CreditCard  decimal.Decimal `json:"credit_card"`
	DebitCard   decimal.Decimal `json:"debit_card"`
	Transfer    decimal.Decimal `json:"transfer"`
	MercadoPago decimal.Decimal `json:"mercado_pago"`
}

type CashMovementResponse struct {
	ID          string                 `json:"id"`
	Type        string                 `json:"type"`
	Amount      decimal.Decimal        `json:"amount"`
	Description string                 `json:"description"`
	Payments    []OrderPaymentResponse `json:"payments"`
	CreatedAt   string                 `json:"created_at"`
}

type DailyCashResponse struct {
	ID             string                 `json:"id"`
	Date           string                 `json:"date"`
	State          string                 `json:"state"`
	InitialCash    decimal.Decimal        `json:"initial_cash"`
	FinalCash      decimal.Decimal        `json:"final_cash"`
	TotalSales     decimal.Decimal        `json:"total_sales"`
	TotalTips      decimal.Decimal        `json:"total_tips"`
	Totals         PaymentTotals          `json:"totals"`
	TotalIncomes   decimal.Decimal        `json:"total_incomes"`
	TotalExpenses  decimal.Decimal        `json:"total_expenses"`
	ExpectedCash   decimal.Decimal        `json:"expected_cash"`
	CashDifference decimal.Decimal        `json:"cash_difference"`
	DeviationLevel *string                `json:"deviation_level"` // normal | warning | critical
	Comment        *string                `json:"comment"`
	Movements      []CashMovementResponse `json:"movements,omitempty"`
	OpenedAt       string                 `json:"opened_at"`
	ClosedAt       *string                `json:"closed_at"`
}

type DailyCashListResponse struct {
	Data  []DailyCashResponse `json:"data"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}
