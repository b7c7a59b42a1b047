package service

import (
	"context"
	"errors"

	"hygpos/internal/apierror"
	"hygpos/internal/dto"
	"hygpos/internal/model"
	"hygpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CascadeResult is the outcome of an ingredient cost edit. UpdatedProducts
// lists every product whose cost was rewritten, promotions included;
// UpdatedPromotions is the promotion subset. Failures never surface as an
// error return: Success is false, Message says why and Err keeps the cause.
type CascadeResult struct {
	Success           bool
	Message           string
	Err               error
	UpdatedProducts   []uuid.UUID
	UpdatedPromotions []uuid.UUID
}

type CostService interface {
	// UpdateIngredientCostAndCascade persists the ingredient cost and
	// recomputes dependent compound products and promotions atomically. When
	// tx is non-nil the work joins it behind a savepoint; otherwise the
	// service runs and commits its own transaction.
	UpdateIngredientCostAndCascade(ctx context.Context, tx *gorm.DB, ingredientID uuid.UUID, newCost decimal.Decimal) CascadeResult
	// ProductCost derives the cost of a compound or promotion product from
	// its loaded recipe or contents. Simple products return their own cost.
	ProductCost(ctx context.Context, tx *gorm.DB, p *model.Product) (decimal.Decimal, error)
	// RecalculatePromotions rewrites the cost of promotions bundling any of
	// productIDs and returns the promotions touched.
	RecalculatePromotions(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]uuid.UUID, error)
	History(ctx context.Context, entityType string, entityID uuid.UUID) ([]dto.CostHistoryResponse, error)
}

type costService struct {
	ingredients repository.IngredientRepository
	products    repository.ProductRepository
	units       repository.UnitRepository
	history     repository.CostHistoryRepository
	events      EventPublisher
	cache       CatalogCache
}

func NewCostService(
	ingredients repository.IngredientRepository,
	products repository.ProductRepository,
	units repository.UnitRepository,
	history repository.CostHistoryRepository,
	events EventPublisher,
	cache CatalogCache,
) CostService {
	return &costService{
		ingredients: ingredients,
		products:    products,
		units:       units,
		history:     history,
		events:      events,
		cache:       cache,
	}
}

// ── UpdateIngredientCostAndCascade ───────────────────────────────────────────

func (s *costService) UpdateIngredientCostAndCascade(ctx context.Context, tx *gorm.DB, ingredientID uuid.UUID, newCost decimal.Decimal) CascadeResult {
	var result CascadeResult
	work := func(tx *gorm.DB) error {
		r, err := s.cascade(ctx, tx, ingredientID, newCost)
		if err != nil {
			return err
		}
		result = r
		return nil
	}

	callerTx := tx != nil
	var err error
	if callerTx {
		err = withSavepoint(tx, "cost_cascade", work)
	} else {
		err = runTx(ctx, s.ingredients.DB(), work)
	}
	if err != nil {
		log.Error().Err(err).Str("ingredient_id", ingredientID.String()).Msg("cost cascade rolled back")
		return CascadeResult{Success: false, Message: apierror.PublicMessage(err), Err: err}
	}

	result.Success = true
	log.Info().
		Str("ingredient_id", ingredientID.String()).
		Str("cost", newCost.String()).
		Int("products", len(result.UpdatedProducts)).
		Int("promotions", len(result.UpdatedPromotions)).
		Msg("cost cascade applied")

	// A caller-owned transaction may still roll back, so only a self-managed
	// run announces its changes.
	if !callerTx {
		s.announce(ctx, result.UpdatedProducts)
	}
	return result
}

func (s *costService) cascade(ctx context.Context, tx *gorm.DB, ingredientID uuid.UUID, newCost decimal.Decimal) (CascadeResult, error) {
	var result CascadeResult
	if newCost.IsNegative() {
		return result, apierror.Validation("el costo no puede ser negativo")
	}

	ing, err := s.ingredients.FindByID(ctx, tx, ingredientID)
	if err != nil {
		return result, notFoundOr(err, "ingrediente no encontrado")
	}
	before := ing.Cost
	if err := s.ingredients.UpdateCost(ctx, tx, ingredientID, newCost); err != nil {
		return result, notFoundOr(err, "no se pudo actualizar el ingrediente")
	}
	entries := []model.CostHistory{{
		EntityType: model.CostEntityIngredient,
		EntityID:   ingredientID,
		CostBefore: before,
		CostAfter:  newCost,
		Reason:     "manual",
	}}

	conv, err := s.converter(ctx, tx)
	if err != nil {
		return result, err
	}

	compounds, err := s.products.FindCompoundsUsingIngredient(ctx, tx, ingredientID)
	if err != nil {
		return result, apierror.Internal("no se pudieron leer los productos compuestos", err)
	}
	overrides := map[uuid.UUID]decimal.Decimal{ingredientID: newCost}
	for i := range compounds {
		p := &compounds[i]
		cost, err := compoundCost(conv, p.Ingredients, overrides)
		if err != nil {
			return result, err
		}
		if err := s.products.UpdateCost(ctx, tx, p.ID, cost); err != nil {
			return result, apierror.Internal("no se pudo actualizar el producto", err)
		}
		entries = append(entries, costEntry(p.ID, p.Cost, cost))
		result.UpdatedProducts = append(result.UpdatedProducts, p.ID)
	}

	promoIDs, promoEntries, err := s.recalculatePromotions(ctx, tx, result.UpdatedProducts)
	if err != nil {
		return result, err
	}
	entries = append(entries, promoEntries...)
	result.UpdatedProducts = append(result.UpdatedProducts, promoIDs...)
	result.UpdatedPromotions = promoIDs

	if err := s.history.Create(ctx, tx, entries); err != nil {
		return result, apierror.Internal("no se pudo registrar el historial de costos", err)
	}
	return result, nil
}

// ── Promotions ───────────────────────────────────────────────────────────────

func (s *costService) RecalculatePromotions(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]uuid.UUID, error) {
	ids, entries, err := s.recalculatePromotions(ctx, tx, productIDs)
	if err != nil {
		return nil, err
	}
	if err := s.history.Create(ctx, tx, entries); err != nil {
		return nil, apierror.Internal("no se pudo registrar el historial de costos", err)
	}
	return ids, nil
}

// recalculatePromotions reads promotions after the product costs were
// written in tx, so the preloaded bundled products carry the new costs.
func (s *costService) recalculatePromotions(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]uuid.UUID, []model.CostHistory, error) {
	if len(productIDs) == 0 {
		return nil, nil, nil
	}
	promos, err := s.products.FindPromotionsContaining(ctx, tx, productIDs)
	if err != nil {
		return nil, nil, apierror.Internal("no se pudieron leer las promociones", err)
	}
	var ids []uuid.UUID
	var entries []model.CostHistory
	for i := range promos {
		p := &promos[i]
		cost, err := promotionCost(p.PromotionItems)
		if err != nil {
			return nil, nil, err
		}
		if err := s.products.UpdateCost(ctx, tx, p.ID, cost); err != nil {
			return nil, nil, apierror.Internal("no se pudo actualizar la promoción", err)
		}
		entries = append(entries, costEntry(p.ID, p.Cost, cost))
		ids = append(ids, p.ID)
	}
	return ids, entries, nil
}

// ── ProductCost ──────────────────────────────────────────────────────────────

func (s *costService) ProductCost(ctx context.Context, tx *gorm.DB, p *model.Product) (decimal.Decimal, error) {
	switch p.Type {
	case model.ProductCompound:
		conv, err := s.converter(ctx, tx)
		if err != nil {
			return decimal.Zero, err
		}
		return compoundCost(conv, p.Ingredients, nil)
	case model.ProductPromotion:
		return promotionCost(p.PromotionItems)
	default:
		return p.Cost, nil
	}
}

// ── History ──────────────────────────────────────────────────────────────────

func (s *costService) History(ctx context.Context, entityType string, entityID uuid.UUID) ([]dto.CostHistoryResponse, error) {
	list, err := s.history.ListByEntity(ctx, entityType, entityID, 100)
	if err != nil {
		return nil, apierror.Internal("no se pudo leer el historial", err)
	}
	resp := make([]dto.CostHistoryResponse, 0, len(list))
	for _, h := range list {
		resp = append(resp, dto.CostHistoryResponse{
			ID:         h.ID.String(),
			CostBefore: h.CostBefore,
			CostAfter:  h.CostAfter,
			Reason:     h.Reason,
			CreatedAt:  formatTime(h.CreatedAt),
		})
	}
	return resp, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (s *costService) converter(ctx context.Context, tx *gorm.DB) (*UnitConverter, error) {
	convs, err := s.units.ListConversions(ctx, tx)
	if err != nil {
		return nil, apierror.Internal("no se pudieron leer las conversiones", err)
	}
	return NewUnitConverter(convs), nil
}

func (s *costService) announce(ctx context.Context, productIDs []uuid.UUID) {
	if len(productIDs) == 0 {
		return
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Warn().Err(err).Msg("catalog cache invalidation failed")
		}
	}
	if s.events == nil {
		return
	}
	for _, id := range productIDs {
		p, err := s.products.FindByID(ctx, nil, id)
		if err != nil {
			continue
		}
		s.events.Publish(EventProductUpdated, productToResponse(p))
	}
}

// compoundCost = Σ ingredient cost × recipe quantity expressed in the
// ingredient's unit. overrides replaces the cost of specific ingredients.
func compoundCost(conv *UnitConverter, items []model.ProductIngredient, overrides map[uuid.UUID]decimal.Decimal) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, it := range items {
		if it.Ingredient == nil {
			return decimal.Zero, apierror.Internal("receta incompleta", errors.New("ingredient not loaded for "+it.IngredientID.String()))
		}
		cost := it.Ingredient.Cost
		if o, ok := overrides[it.IngredientID]; ok {
			cost = o
		}
		qty := it.Quantity
		if it.UnitOfMeasureID != nil && it.Ingredient.UnitOfMeasureID != nil {
			converted, err := conv.Convert(qty, *it.UnitOfMeasureID, *it.Ingredient.UnitOfMeasureID)
			if err != nil {
				return decimal.Zero, apierror.Validation(err.Error())
			}
			qty = converted
		}
		total = total.Add(cost.Mul(qty))
	}
	return total.Round(4), nil
}

// promotionCost = Σ bundled product cost × quantity.
func promotionCost(items []model.PromotionProduct) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, it := range items {
		if it.Product == nil {
			return decimal.Zero, apierror.Internal("promoción incompleta", errors.New("product not loaded for "+it.ProductID.String()))
		}
		total = total.Add(it.Product.Cost.Mul(it.Quantity))
	}
	return total.Round(4), nil
}

func costEntry(productID uuid.UUID, before, after decimal.Decimal) model.CostHistory {
	return model.CostHistory{
		EntityType: model.CostEntityProduct,
		EntityID:   productID,
		CostBefore: before,
		CostAfter:  after,
		Reason:     "cascade",
	}
}

// withSavepoint runs fn inside tx and undoes only fn's writes on failure.
func withSavepoint(tx *gorm.DB, name string, fn func(tx *gorm.DB) error) error {
	if err := tx.SavePoint(name).Error; err != nil {
		return apierror.Internal("no se pudo iniciar la actualización", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.RollbackTo(name).Error; rbErr != nil {
			log.Error().Err(rbErr).Str("savepoint", name).Msg("rollback to savepoint failed")
		}
		return err
	}
	return nil
}
