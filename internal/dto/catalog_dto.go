package dto

import "github.com/shopspring/decimal"

// ─── Units ───────────────────────────────────────────────────────────────────

type CreateUnitRequest struct {
	Name         string `json:"name"         validate:"required,min=1,max=50"`
	Abbreviation string `json:"abbreviation" validate:"required,min=1,max=20"`
	IsBase       bool   `json:"is_base"`
}

type CreateConversionRequest struct {
	FromUnitID string          `json:"from_unit_id" validate:"required,uuid"`
	ToUnitID   string          `json:"to_unit_id"   validate:"required,uuid"`
	Factor     decimal.Decimal `json:"factor"       validate:"required,gt=0"`
}

type UnitResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	IsBase       bool   `json:"is_base"`
}

type ConversionResponse struct {
	ID         string          `json:"id"`
	FromUnitID string          `json:"from_unit_id"`
	ToUnitID   string          `json:"to_unit_id"`
	Factor     decimal.Decimal `json:"factor"`
}

// ─── Ingredients ─────────────────────────────────────────────────────────────

type CreateIngredientRequest struct {
	Name            string          `json:"name"               validate:"required,min=2,max=120"`
	Cost            decimal.Decimal `json:"cost"               validate:"min=0"`
	UnitOfMeasureID *string         `json:"unit_of_measure_id" validate:"omitempty,uuid"`
}

type UpdateIngredientRequest struct {
	Name            *string `json:"name"               validate:"omitempty,min=2,max=120"`
	UnitOfMeasureID *string `json:"unit_of_measure_id" validate:"omitempty,uuid"`
	IsActive        *bool   `json:"is_active"`
}

type UpdateIngredientCostRequest struct {
	Cost decimal.Decimal `json:"cost" validate:"min=0"`
}

type IngredientResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Cost            decimal.Decimal `json:"cost"`
	UnitOfMeasureID *string         `json:"unit_of_measure_id"`
	Unit            *string         `json:"unit"`
	IsActive        bool            `json:"is_active"`
}

// CascadeResponse reports which product costs an ingredient edit rewrote.
type CascadeResponse struct {
	Success           bool     `json:"success"`
	Message           string   `json:"message,omitempty"`
	UpdatedProducts   []string `json:"updated_products"`
	UpdatedPromotions []string `json:"updated_promotions"`
}

type CostHistoryResponse struct {
	ID         string          `json:"id"`
	CostBefore decimal.Decimal `json:"cost_before"`
	CostAfter  decimal.Decimal `json:"cost_after"`
	Reason     string          `json:"reason"`
	CreatedAt  string          `json:"created_at"`
}

// ─── Products ────────────────────────────────────────────────────────────────

type ProductIngredientRequest struct {
	IngredientID    string          `json:"ingredient_id"      validate:"required,uuid"`
	Quantity        decimal.Decimal `json:"quantity"           validate:"required,gt=0"`
	UnitOfMeasureID *string         `json:"unit_of_measure_id" validate:"omitempty,uuid"`
}

type PromotionItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"   validate:"required,gt=0"`
}

type PromotionSlotOptionRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	ExtraCost decimal.Decimal `json:"extra_cost" validate:"min=0"`
}

type PromotionSlotRequest struct {
	Name    string                       `json:"name"    validate:"required,min=1"`
	Options []PromotionSlotOptionRequest `json:"options" validate:"required,min=1,dive"`
}

type ToppingGroupSettingsRequest struct {
	ToppingsGroupID   string          `json:"toppings_group_id"   validate:"required,uuid"`
	QuantityOfTopping decimal.Decimal `json:"quantity_of_topping" validate:"min=0"`
	UnitOfMeasureID   *string         `json:"unit_of_measure_id"  validate:"omitempty,uuid"`
	MaxSelection      int             `json:"max_selection"       validate:"min=0"`
	ChargeExtra       bool            `json:"charge_extra"`
	ExtraCost         decimal.Decimal `json:"extra_cost"          validate:"min=0"`
}

// ProductRequest creates or fully replaces a product. Ingredients apply to
// compound products, PromotionItems and PromotionSlots to promotions. Cost is
// only read for simple products.
type ProductRequest struct {
	Name                   string                        `json:"name"        validate:"required,min=2,max=120"`
	Description            *string                       `json:"description"`
	Price                  decimal.Decimal               `json:"price"       validate:"min=0"`
	Cost                   decimal.Decimal               `json:"cost"        validate:"min=0"`
	Type                   string                        `json:"type"        validate:"required,oneof=simple compound promotion"`
	Ingredients            []ProductIngredientRequest    `json:"ingredients"     validate:"omitempty,dive"`
	PromotionItems         []PromotionItemRequest        `json:"promotion_items" validate:"omitempty,dive"`
	PromotionSlots         []PromotionSlotRequest        `json:"promotion_slots" validate:"omitempty,dive"`
	AvailableToppingGroups []ToppingGroupSettingsRequest `json:"available_topping_groups" validate:"omitempty,dive"`
}

type ProductFilter struct {
	Type  string `form:"type"  validate:"omitempty,oneof=simple compound promotion"`
	All   bool   `form:"all"`
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type ProductIngredientResponse struct {
	IngredientID    string          `json:"ingredient_id"`
	Name            string          `json:"name"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitOfMeasureID *string         `json:"unit_of_measure_id"`
}

type PromotionItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type PromotionSlotOptionResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	ExtraCost decimal.Decimal `json:"extra_cost"`
}

type PromotionSlotResponse struct {
	ID      string                        `json:"id"`
	Name    string                        `json:"name"`
	Options []PromotionSlotOptionResponse `json:"options"`
}

type ProductToppingGroupResponse struct {
	ToppingsGroupID   string               `json:"toppings_group_id"`
	Name              string               `json:"name"`
	QuantityOfTopping decimal.Decimal      `json:"quantity_of_topping"`
	MaxSelection      int                  `json:"max_selection"`
	ChargeExtra       bool                 `json:"charge_extra"`
	ExtraCost         decimal.Decimal      `json:"extra_cost"`
	Toppings          []IngredientResponse `json:"toppings"`
}

type ProductResponse struct {
	ID                     string                        `json:"id"`
	Name                   string                        `json:"name"`
	Description            *string                       `json:"description"`
	Price                  decimal.Decimal               `json:"price"`
	Cost                   decimal.Decimal               `json:"cost"`
	Type                   string                        `json:"type"`
	IsActive               bool                          `json:"is_active"`
	Ingredients            []ProductIngredientResponse   `json:"ingredients,omitempty"`
	PromotionItems         []PromotionItemResponse       `json:"promotion_items,omitempty"`
	PromotionSlots         []PromotionSlotResponse       `json:"promotion_slots,omitempty"`
	AvailableToppingGroups []ProductToppingGroupResponse `json:"available_topping_groups,omitempty"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// MenuItem is the public, cached view of an active product.
type MenuItem struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Price decimal.Decimal `json:"price"`
}
