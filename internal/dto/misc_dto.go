package dto

import "github.com/shopspring/decimal"

// ─── Toppings groups ─────────────────────────────────────────────────────────

type ToppingsGroupRequest struct {
	Name       string   `json:"name"        validate:"required,min=2,max=80"`
	ToppingIDs []string `json:"topping_ids" validate:"omitempty,dive,uuid"`
	IsActive   *bool    `json:"is_active"`
}

type ToppingsGroupResponse struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Kind     string               `json:"kind"`
	IsActive bool                 `json:"is_active"`
	Toppings []IngredientResponse `json:"toppings"`
}

// ─── Customers ───────────────────────────────────────────────────────────────

type CustomerRequest struct {
	Name    string  `json:"name"    validate:"required,min=2,max=120"`
	Phone   *string `json:"phone"   validate:"omitempty,max=30"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Address *string `json:"address"`
	Comment *string `json:"comment"`
}

type CustomerResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	Comment *string `json:"comment"`
}

type CustomerListResponse struct {
	Data  []CustomerResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ─── Tables ──────────────────────────────────────────────────────────────────

type TableRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=40"`
	Capacity int    `json:"capacity" validate:"min=0"`
}

type TableResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	State    string `json:"state"`
}

// ─── Archive ─────────────────────────────────────────────────────────────────

type ArchiveRunResponse struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Orders     int    `json:"orders"`
	BackupPath string `json:"backup_path,omitempty"`
}

type ArchivedOrderResponse struct {
	ID         string          `json:"id"`
	OriginalID string          `json:"original_id"`
	State      string          `json:"state"`
	Date       string          `json:"date"`
	Table      *string         `json:"table"`
	Total      decimal.Decimal `json:"total"`
	Tip        decimal.Decimal `json:"tip"`
	Lines      int             `json:"lines"`
}

type ArchivedOrderListResponse struct {
	Data  []ArchivedOrderResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}
