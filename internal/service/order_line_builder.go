package service

import (
	"context"
	"fmt"

	"hygpos/internal/apierror"
	"hygpos/internal/model"
	"hygpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SlotSelection picks one option of a promotion slot. The choice applies to
// every unit of the line.
type SlotSelection struct {
	SlotID    uuid.UUID
	ProductID uuid.UUID
}

// LineRequest is the input of OrderLineBuilder.Build.
// ToppingsPerUnit[i] holds the topping ingredient ids chosen for unit i.
type LineRequest struct {
	ProductID           uuid.UUID
	Quantity            int
	ToppingsPerUnit     [][]uuid.UUID
	PromotionSelections []SlotSelection
	CommandNumber       *string
}

// OrderLineBuilder prices one order line from current catalog data.
// It validates everything before returning and has no side effects.
type OrderLineBuilder struct {
	products repository.ProductRepository
}

func NewOrderLineBuilder(products repository.ProductRepository) *OrderLineBuilder {
	return &OrderLineBuilder{products: products}
}

// Build returns an unsaved OrderDetail:
//
//	totalExtra   = Σ per-unit topping extras + slot extras × quantity
//	unitaryPrice = price + totalExtra / quantity
//	subtotal     = unitaryPrice × quantity
func (b *OrderLineBuilder) Build(ctx context.Context, tx *gorm.DB, req LineRequest) (*model.OrderDetail, error) {
	if req.Quantity <= 0 {
		return nil, apierror.Validation("la cantidad debe ser mayor a cero")
	}
	if len(req.ToppingsPerUnit) > req.Quantity {
		return nil, apierror.Validation("hay más selecciones de toppings que unidades")
	}

	p, err := b.products.FindByID(ctx, tx, req.ProductID)
	if err != nil {
		return nil, notFoundOr(err, "producto no encontrado")
	}
	if !p.IsActive {
		return nil, apierror.Validation(fmt.Sprintf("el producto %s no está disponible", p.Name))
	}

	toppings, toppingsExtra, err := priceToppings(p, req.ToppingsPerUnit)
	if err != nil {
		return nil, err
	}
	selections, slotExtraPerUnit, err := priceSelections(p, req.PromotionSelections)
	if err != nil {
		return nil, err
	}

	qty := decimal.NewFromInt(int64(req.Quantity))
	totalExtra := toppingsExtra.Add(slotExtraPerUnit.Mul(qty))
	unitary := p.Price.Add(totalExtra.Div(qty)).Round(4)
	// The stored unitary price is what the subtotal is derived from.
	subtotal := unitary.Mul(qty).Round(2)

	return &model.OrderDetail{
		ProductID:           p.ID,
		Quantity:            req.Quantity,
		UnitaryPrice:        unitary,
		ToppingsExtraCost:   totalExtra.Round(2),
		Subtotal:            subtotal,
		CommandNumber:       req.CommandNumber,
		Product:             p,
		Toppings:            toppings,
		PromotionSelections: selections,
	}, nil
}

// priceToppings resolves each chosen topping to the first active group the
// product offers that contains it and enforces maxSelection per unit.
func priceToppings(p *model.Product, perUnit [][]uuid.UUID) ([]model.OrderDetailTopping, decimal.Decimal, error) {
	total := decimal.Zero
	var out []model.OrderDetailTopping
	for unit, ids := range perUnit {
		perGroup := make(map[uuid.UUID]int)
		seen := make(map[uuid.UUID]bool)
		for _, ingID := range ids {
			if seen[ingID] {
				return nil, decimal.Zero, apierror.Validation(fmt.Sprintf("topping repetido en la unidad %d", unit+1))
			}
			seen[ingID] = true

			link, ing := findToppingGroup(p, ingID)
			if link == nil {
				return nil, decimal.Zero, apierror.Validation(fmt.Sprintf("el topping %s no está disponible para %s", ingID, p.Name))
			}
			perGroup[link.ToppingsGroupID]++
			if limit := link.Settings.MaxSelection; limit > 0 && perGroup[link.ToppingsGroupID] > limit {
				return nil, decimal.Zero, apierror.Validation(fmt.Sprintf(
					"se superó el máximo de %d toppings de %s en la unidad %d", limit, link.ToppingsGroup.Name, unit+1))
			}

			extra := decimal.Zero
			if link.Settings.ChargeExtra {
				extra = link.Settings.ExtraCost
			}
			total = total.Add(extra)
			out = append(out, model.OrderDetailTopping{
				UnitIndex:       unit,
				IngredientID:    ingID,
				ToppingsGroupID: link.ToppingsGroupID,
				ExtraCost:       extra,
				Ingredient:      ing,
			})
		}
	}
	return out, total, nil
}

func findToppingGroup(p *model.Product, ingredientID uuid.UUID) (*model.ProductAvailableToppingGroup, *model.Ingredient) {
	for i := range p.AvailableToppingGroups {
		link := &p.AvailableToppingGroups[i]
		if link.ToppingsGroup == nil || !link.ToppingsGroup.IsActive {
			continue
		}
		for j := range link.ToppingsGroup.Toppings {
			if link.ToppingsGroup.Toppings[j].ID == ingredientID {
				return link, &link.ToppingsGroup.Toppings[j]
			}
		}
	}
	return nil, nil
}

// priceSelections checks each selection against the promotion's slots and
// returns the extra cost one unit carries.
func priceSelections(p *model.Product, sels []SlotSelection) ([]model.OrderDetailPromotionSelection, decimal.Decimal, error) {
	if len(sels) == 0 {
		return nil, decimal.Zero, nil
	}
	if p.Type != model.ProductPromotion {
		return nil, decimal.Zero, apierror.Validation(fmt.Sprintf("%s no es una promoción", p.Name))
	}
	perUnit := decimal.Zero
	used := make(map[uuid.UUID]bool)
	out := make([]model.OrderDetailPromotionSelection, 0, len(sels))
	for _, sel := range sels {
		if used[sel.SlotID] {
			return nil, decimal.Zero, apierror.Validation("cada opción de la promoción admite una sola selección")
		}
		used[sel.SlotID] = true

		opt := findSlotOption(p, sel)
		if opt == nil {
			return nil, decimal.Zero, apierror.Validation(fmt.Sprintf("la selección %s no es válida para %s", sel.ProductID, p.Name))
		}
		perUnit = perUnit.Add(opt.ExtraCost)
		out = append(out, model.OrderDetailPromotionSelection{
			SlotID:    sel.SlotID,
			ProductID: sel.ProductID,
			ExtraCost: opt.ExtraCost,
			Product:   opt.Product,
		})
	}
	return out, perUnit, nil
}

func findSlotOption(p *model.Product, sel SlotSelection) *model.PromotionSlotOption {
	for i := range p.PromotionSlots {
		slot := &p.PromotionSlots[i]
		if slot.ID != sel.SlotID {
			continue
		}
		for j := range slot.Options {
			if slot.Options[j].ProductID == sel.ProductID {
				return &slot.Options[j]
			}
		}
		return nil
	}
	return nil
}
