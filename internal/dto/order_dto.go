package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// OrderFilter is bound from query string of GET /v1/order.
type OrderFilter struct {
	Date    string `form:"date"`                // YYYY-MM-DD; empty = every date
	State   string `form:"state,default=all"`   // open | pending_payment | closed | cancelled | all
	TableID string `form:"table_id" validate:"omitempty,uuid"`
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// PromotionSelectionRequest picks one product for one slot of a promotion.
type PromotionSelectionRequest struct {
	SlotID    string `json:"slot_id"    validate:"required,uuid"`
	ProductID string `json:"product_id" validate:"required,uuid"`
}

// OrderLineRequest describes one line. ToppingsPerUnit[i] holds the topping
// ingredient ids chosen for unit i; it may be shorter than Quantity.
type OrderLineRequest struct {
	ProductID           string                      `json:"product_id"           validate:"required,uuid"`
	Quantity            int                         `json:"quantity"             validate:"required,min=1"`
	ToppingsPerUnit     [][]string                  `json:"toppings_per_unit"    validate:"omitempty,dive,dive,uuid"`
	PromotionSelections []PromotionSelectionRequest `json:"promotion_selections" validate:"omitempty,dive"`
	CommandNumber       *string                     `json:"command_number"`
}

type OpenOrderRequest struct {
	TableID         *string            `json:"table_id"         validate:"omitempty,uuid"`
	CustomerID      *string            `json:"customer_id"      validate:"omitempty,uuid"`
	NumberCustomers int                `json:"number_customers" validate:"min=0"`
	Comment         *string            `json:"comment"`
	Details         []OrderLineRequest `json:"details"          validate:"omitempty,dive"`
}

type UpdateOrderRequest struct {
	NumberCustomers *int    `json:"number_customers" validate:"omitempty,min=0"`
	Comment         *string `json:"comment"`
	CustomerID      *string `json:"customer_id"      validate:"omitempty,uuid"`
}

type AddDetailsRequest struct {
	Details []OrderLineRequest `json:"details" validate:"required,min=1,dive"`
}

type PaymentRequest struct {
	Method string          `json:"method" validate:"required,oneof=cash credit_card debit_card transfer mercado_pago"`
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
}

// CloseOrderRequest carries the amount the customer declared paying (tip
// included) and how it was split across payment methods.
type CloseOrderRequest struct {
	Total    decimal.Decimal  `json:"total"    validate:"required,gt=0"`
	Payments []PaymentRequest `json:"payments" validate:"required,min=1,dive"`
}

type TransferOrderRequest struct {
	FromTableID string `json:"from_table_id" validate:"required,uuid"`
	ToTableID   string `json:"to_table_id"   validate:"required,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderToppingResponse struct {
	UnitIndex       int             `json:"unit_index"`
	IngredientID    string          `json:"ingredient_id"`
	Name            string          `json:"name"`
	ToppingsGroupID string          `json:"toppings_group_id"`
	ExtraCost       decimal.Decimal `json:"extra_cost"`
}

type OrderPromotionSelectionResponse struct {
	SlotID      string          `json:"slot_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	ExtraCost   decimal.Decimal `json:"extra_cost"`
}

type OrderDetailResponse struct {
	ID                  string                            `json:"id"`
	ProductID           string                            `json:"product_id"`
	ProductName         string                            `json:"product_name"`
	Quantity            int                               `json:"quantity"`
	UnitaryPrice        decimal.Decimal                   `json:"unitary_price"`
	ToppingsExtraCost   decimal.Decimal                   `json:"toppings_extra_cost"`
	Subtotal            decimal.Decimal                   `json:"subtotal"`
	CommandNumber       *string                           `json:"command_number"`
	Toppings            []OrderToppingResponse            `json:"toppings"`
	PromotionSelections []OrderPromotionSelectionResponse `json:"promotion_selections"`
}

type OrderPaymentResponse struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

type OrderResponse struct {
	ID              string                 `json:"id"`
	State           string                 `json:"state"`
	Date            string                 `json:"date"`
	TableID         *string                `json:"table_id"`
	TableName       *string                `json:"table_name"`
	DailyCashID     *string                `json:"daily_cash_id"`
	NumberCustomers int                    `json:"number_customers"`
	Comment         *string                `json:"comment"`
	TotalConsumed   decimal.Decimal        `json:"total_consumed"`
	Total           decimal.Decimal        `json:"total"`
	Tip             decimal.Decimal        `json:"tip"`
	Details         []OrderDetailResponse  `json:"details"`
	Payments        []OrderPaymentResponse `json:"payments"`
	ClosedAt        *string                `json:"closed_at"`
}
