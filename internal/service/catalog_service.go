package service

import (
	"context"
	"errors"
	"fmt"

	"hygpos/internal/apierror"
	"hygpos/internal/dto"
	"hygpos/internal/model"
	"hygpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type CatalogService interface {
	// Units
	CreateUnit(ctx context.Context, req dto.CreateUnitRequest) (*dto.UnitResponse, error)
	ListUnits(ctx context.Context) ([]dto.UnitResponse, error)
	CreateConversion(ctx context.Context, req dto.CreateConversionRequest) (*dto.ConversionResponse, error)
	ListConversions(ctx context.Context) ([]dto.ConversionResponse, error)

	// Ingredients
	CreateIngredient(ctx context.Context, req dto.CreateIngredientRequest) (*dto.IngredientResponse, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*dto.IngredientResponse, error)
	ListIngredients(ctx context.Context, all bool) ([]dto.IngredientResponse, error)
	UpdateIngredient(ctx context.Context, id uuid.UUID, req dto.UpdateIngredientRequest) (*dto.IngredientResponse, error)
	// UpdateIngredientCost always reports the cascade outcome; the error
	// carries the failure kind when Success is false.
	UpdateIngredientCost(ctx context.Context, id uuid.UUID, req dto.UpdateIngredientCostRequest) (*dto.CascadeResponse, error)
	CostHistory(ctx context.Context, entityType string, id uuid.UUID) ([]dto.CostHistoryResponse, error)

	// Products
	CreateProduct(ctx context.Context, req dto.ProductRequest) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req dto.ProductRequest) (*dto.ProductResponse, error)
	DeactivateProduct(ctx context.Context, id uuid.UUID) error
	Menu(ctx context.Context) ([]dto.MenuItem, error)
}

type catalogService struct {
	units       repository.UnitRepository
	ingredients repository.IngredientRepository
	products    repository.ProductRepository
	groups      repository.ToppingsGroupRepository
	costs       CostService
	events      EventPublisher
	cache       CatalogCache
}

func NewCatalogService(
	units repository.UnitRepository,
	ingredients repository.IngredientRepository,
	products repository.ProductRepository,
	groups repository.ToppingsGroupRepository,
	costs CostService,
	events EventPublisher,
	cache CatalogCache,
) CatalogService {
	return &catalogService{
		units:       units,
		ingredients: ingredients,
		products:    products,
		groups:      groups,
		costs:       costs,
		events:      events,
		cache:       cache,
	}
}

// ── Units ────────────────────────────────────────────────────────────────────

func (s *catalogService) CreateUnit(ctx context.Context, req dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	if _, err := s.units.FindUnitByAbbreviation(ctx, req.Abbreviation); err == nil {
		return nil, apierror.Conflict(fmt.Sprintf("ya existe la unidad %s", req.Abbreviation))
	}
	u := &model.UnitOfMeasure{Name: req.Name, Abbreviation: req.Abbreviation, IsBase: req.IsBase}
	if err := s.units.CreateUnit(ctx, u); err != nil {
		return nil, duplicateOr(err, "ya existe la unidad "+req.Abbreviation, "no se pudo crear la unidad")
	}
	resp := unitToResponse(u)
	return &resp, nil
}

func (s *catalogService) ListUnits(ctx context.Context) ([]dto.UnitResponse, error) {
	list, err := s.units.ListUnits(ctx)
	if err != nil {
		return nil, apierror.Internal("no se pudo listar las unidades", err)
	}
	resp := make([]dto.UnitResponse, 0, len(list))
	for i := range list {
		resp = append(resp, unitToResponse(&list[i]))
	}
	return resp, nil
}

func (s *catalogService) CreateConversion(ctx context.Context, req dto.CreateConversionRequest) (*dto.ConversionResponse, error) {
	fromID, err := parseID("from_unit_id", req.FromUnitID)
	if err != nil {
		return nil, err
	}
	toID, err := parseID("to_unit_id", req.ToUnitID)
	if err != nil {
		return nil, err
	}
	if fromID == toID {
		return nil, apierror.Validation("la conversión debe unir dos unidades distintas")
	}
	if !req.Factor.IsPositive() {
		return nil, apierror.Validation("el factor debe ser mayor a cero")
	}
	for _, id := range []uuid.UUID{fromID, toID} {
		if _, err := s.units.FindUnitByID(ctx, id); err != nil {
			return nil, notFoundOr(err, "unidad no encontrada")
		}
	}
	c := &model.UnitConversion{FromUnitID: fromID, ToUnitID: toID, Factor: req.Factor}
	if err := s.units.CreateConversion(ctx, c); err != nil {
		return nil, duplicateOr(err, "la conversión ya existe", "no se pudo crear la conversión")
	}
	return &dto.ConversionResponse{
		ID:         c.ID.String(),
		FromUnitID: c.FromUnitID.String(),
		ToUnitID:   c.ToUnitID.String(),
		Factor:     c.Factor,
	}, nil
}

func (s *catalogService) ListConversions(ctx context.Context) ([]dto.ConversionResponse, error) {
	list, err := s.units.ListConversions(ctx, nil)
	if err != nil {
		return nil, apierror.Internal("no se pudo listar las conversiones", err)
	}
	resp := make([]dto.ConversionResponse, 0, len(list))
	for _, c := range list {
		resp = append(resp, dto.ConversionResponse{
			ID:         c.ID.String(),
			FromUnitID: c.FromUnitID.String(),
			ToUnitID:   c.ToUnitID.String(),
			Factor:     c.Factor,
		})
	}
	return resp, nil
}

// ── Ingredients ──────────────────────────────────────────────────────────────

func (s *catalogService) CreateIngredient(ctx context.Context, req dto.CreateIngredientRequest) (*dto.IngredientResponse, error) {
	if req.Cost.IsNegative() {
		return nil, apierror.Validation("el costo no puede ser negativo")
	}
	unitID, err := s.resolveUnit(ctx, req.UnitOfMeasureID)
	if err != nil {
		return nil, err
	}
	ing := &model.Ingredient{Name: req.Name, Cost: req.Cost, UnitOfMeasureID: unitID, IsActive: true}
	if err := s.ingredients.Create(ctx, ing); err != nil {
		return nil, duplicateOr(err, "ya existe el ingrediente "+req.Name, "no se pudo crear el ingrediente")
	}
	return s.GetIngredient(ctx, ing.ID)
}

func (s *catalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*dto.IngredientResponse, error) {
	ing, err := s.ingredients.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "ingrediente no encontrado")
	}
	resp := ingredientToResponse(ing)
	return &resp, nil
}

func (s *catalogService) ListIngredients(ctx context.Context, all bool) ([]dto.IngredientResponse, error) {
	list, err := s.ingredients.List(ctx, !all)
	if err != nil {
		return nil, apierror.Internal("no se pudo listar los ingredientes", err)
	}
	resp := make([]dto.IngredientResponse, 0, len(list))
	for i := range list {
		resp = append(resp, ingredientToResponse(&list[i]))
	}
	return resp, nil
}

// UpdateIngredient edits name, unit and active flag. Cost goes through
// UpdateIngredientCost so the cascade always runs.
func (s *catalogService) UpdateIngredient(ctx context.Context, id uuid.UUID, req dto.UpdateIngredientRequest) (*dto.IngredientResponse, error) {
	ing, err := s.ingredients.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "ingrediente no encontrado")
	}
	if req.Name != nil {
		ing.Name = *req.Name
	}
	if req.UnitOfMeasureID != nil {
		unitID, err := s.resolveUnit(ctx, req.UnitOfMeasureID)
		if err != nil {
			return nil, err
		}
		ing.UnitOfMeasureID = unitID
	}
	if req.IsActive != nil {
		ing.IsActive = *req.IsActive
	}
	ing.UnitOfMeasure = nil
	if err := s.ingredients.Update(ctx, ing); err != nil {
		return nil, duplicateOr(err, "ya existe el ingrediente "+ing.Name, "no se pudo actualizar el ingrediente")
	}
	s.invalidate(ctx)
	return s.GetIngredient(ctx, id)
}

func (s *catalogService) UpdateIngredientCost(ctx context.Context, id uuid.UUID, req dto.UpdateIngredientCostRequest) (*dto.CascadeResponse, error) {
	r := s.costs.UpdateIngredientCostAndCascade(ctx, nil, id, req.Cost)
	return cascadeToResponse(r), r.Err
}

func (s *catalogService) CostHistory(ctx context.Context, entityType string, id uuid.UUID) ([]dto.CostHistoryResponse, error) {
	if entityType != model.CostEntityIngredient && entityType != model.CostEntityProduct {
		return nil, apierror.Validation("tipo de entidad inválido")
	}
	return s.costs.History(ctx, entityType, id)
}

func (s *catalogService) resolveUnit(ctx context.Context, raw *string) (*uuid.UUID, error) {
	id, err := parseOptionalID("unit_of_measure_id", raw)
	if err != nil || id == nil {
		return id, err
	}
	if _, err := s.units.FindUnitByID(ctx, *id); err != nil {
		return nil, notFoundOr(err, "unidad no encontrada")
	}
	return id, nil
}

// ── Products ─────────────────────────────────────────────────────────────────

func (s *catalogService) CreateProduct(ctx context.Context, req dto.ProductRequest) (*dto.ProductResponse, error) {
	parts, err := s.resolveProductParts(ctx, uuid.Nil, req)
	if err != nil {
		return nil, err
	}
	p := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Cost:        req.Cost,
		Type:        req.Type,
		IsActive:    true,
	}
	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.products.Create(ctx, tx, p); err != nil {
			return apierror.Internal("no se pudo crear el producto", err)
		}
		return s.writeProductParts(ctx, tx, p.ID, req.Type, parts)
	})
	if txErr != nil {
		return nil, txErr
	}
	log.Info().Str("product_id", p.ID.String()).Str("type", p.Type).Msg("product created")
	return s.reloadProduct(ctx, p.ID, EventProductCreated)
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req dto.ProductRequest) (*dto.ProductResponse, error) {
	existing, err := s.products.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "producto no encontrado")
	}
	if existing.Type != req.Type {
		return nil, apierror.Validation("no se puede cambiar el tipo de un producto")
	}
	parts, err := s.resolveProductParts(ctx, id, req)
	if err != nil {
		return nil, err
	}

	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		existing.Name = req.Name
		existing.Description = req.Description
		existing.Price = req.Price
		if req.Type == model.ProductSimple {
			existing.Cost = req.Cost
		}
		if err := s.products.Update(ctx, tx, existing); err != nil {
			return apierror.Internal("no se pudo actualizar el producto", err)
		}
		if err := s.writeProductParts(ctx, tx, id, req.Type, parts); err != nil {
			return err
		}
		if req.Type != model.ProductPromotion {
			if _, err := s.costs.RecalculatePromotions(ctx, tx, []uuid.UUID{id}); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	log.Info().Str("product_id", id.String()).Msg("product updated")
	return s.reloadProduct(ctx, id, EventProductUpdated)
}

func (s *catalogService) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	p, err := s.products.FindByID(ctx, nil, id)
	if err != nil {
		return notFoundOr(err, "producto no encontrado")
	}
	p.IsActive = false
	if err := s.products.Update(ctx, nil, p); err != nil {
		return apierror.Internal("no se pudo desactivar el producto", err)
	}
	_, err = s.reloadProduct(ctx, id, EventProductUpdated)
	return err
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "producto no encontrado")
	}
	return productToResponse(p), nil
}

func (s *catalogService) ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	list, total, err := s.products.List(ctx, repository.ProductFilter{
		Type:       filter.Type,
		OnlyActive: !filter.All,
		Page:       repository.Page{Page: filter.Page, Limit: filter.Limit},
	})
	if err != nil {
		return nil, apierror.Internal("no se pudo listar los productos", err)
	}
	data := make([]dto.ProductResponse, 0, len(list))
	for i := range list {
		data = append(data, *productToResponse(&list[i]))
	}
	return &dto.ProductListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Menu lists the active products, served from the cache when warm.
func (s *catalogService) Menu(ctx context.Context) ([]dto.MenuItem, error) {
	if s.cache != nil {
		if items, ok := s.cache.GetMenu(ctx); ok {
			return items, nil
		}
	}
	list, _, err := s.products.List(ctx, repository.ProductFilter{OnlyActive: true, Page: repository.Page{Limit: 1000}})
	if err != nil {
		return nil, apierror.Internal("no se pudo leer el menú", err)
	}
	items := make([]dto.MenuItem, 0, len(list))
	for _, p := range list {
		items = append(items, dto.MenuItem{ID: p.ID.String(), Name: p.Name, Type: p.Type, Price: p.Price})
	}
	if s.cache != nil {
		if err := s.cache.SetMenu(ctx, items); err != nil {
			log.Warn().Err(err).Msg("menu cache write failed")
		}
	}
	return items, nil
}

// productParts is a validated, id-resolved ProductRequest.
type productParts struct {
	ingredients []model.ProductIngredient
	items       []model.PromotionProduct
	slots       []model.PromotionSlot
	groups      []model.ProductAvailableToppingGroup
}

func (s *catalogService) resolveProductParts(ctx context.Context, selfID uuid.UUID, req dto.ProductRequest) (*productParts, error) {
	if req.Price.IsNegative() || req.Cost.IsNegative() {
		return nil, apierror.Validation("precio y costo no pueden ser negativos")
	}
	parts := &productParts{}
	switch req.Type {
	case model.ProductSimple:
		if len(req.Ingredients) > 0 || len(req.PromotionItems) > 0 || len(req.PromotionSlots) > 0 {
			return nil, apierror.Validation("un producto simple no lleva receta ni contenido de promoción")
		}
	case model.ProductCompound:
		if len(req.Ingredients) == 0 {
			return nil, apierror.Validation("un producto compuesto requiere al menos un ingrediente")
		}
		if len(req.PromotionItems) > 0 || len(req.PromotionSlots) > 0 {
			return nil, apierror.Validation("un producto compuesto no lleva contenido de promoción")
		}
		for _, in := range req.Ingredients {
			ingID, err := parseID("ingredient_id", in.IngredientID)
			if err != nil {
				return nil, err
			}
			if !in.Quantity.IsPositive() {
				return nil, apierror.Validation("la cantidad de cada ingrediente debe ser mayor a cero")
			}
			if _, err := s.ingredients.FindByID(ctx, nil, ingID); err != nil {
				return nil, notFoundOr(err, "ingrediente no encontrado")
			}
			unitID, err := s.resolveUnit(ctx, in.UnitOfMeasureID)
			if err != nil {
				return nil, err
			}
			parts.ingredients = append(parts.ingredients, model.ProductIngredient{
				IngredientID: ingID, Quantity: in.Quantity, UnitOfMeasureID: unitID,
			})
		}
	case model.ProductPromotion:
		if len(req.PromotionItems) == 0 && len(req.PromotionSlots) == 0 {
			return nil, apierror.Validation("una promoción requiere productos o opciones")
		}
		if len(req.Ingredients) > 0 {
			return nil, apierror.Validation("una promoción no lleva receta")
		}
		for _, it := range req.PromotionItems {
			pid, err := s.bundledProduct(ctx, selfID, it.ProductID)
			if err != nil {
				return nil, err
			}
			if !it.Quantity.IsPositive() {
				return nil, apierror.Validation("la cantidad de cada producto debe ser mayor a cero")
			}
			parts.items = append(parts.items, model.PromotionProduct{ProductID: pid, Quantity: it.Quantity})
		}
		for _, sl := range req.PromotionSlots {
			if len(sl.Options) == 0 {
				return nil, apierror.Validation(fmt.Sprintf("la opción %s no tiene productos", sl.Name))
			}
			slot := model.PromotionSlot{Name: sl.Name}
			for _, op := range sl.Options {
				pid, err := s.bundledProduct(ctx, selfID, op.ProductID)
				if err != nil {
					return nil, err
				}
				if op.ExtraCost.IsNegative() {
					return nil, apierror.Validation("el costo extra no puede ser negativo")
				}
				slot.Options = append(slot.Options, model.PromotionSlotOption{ProductID: pid, ExtraCost: op.ExtraCost})
			}
			parts.slots = append(parts.slots, slot)
		}
	default:
		return nil, apierror.Validation("tipo de producto inválido")
	}

	seen := make(map[uuid.UUID]bool)
	for _, g := range req.AvailableToppingGroups {
		gid, err := parseID("toppings_group_id", g.ToppingsGroupID)
		if err != nil {
			return nil, err
		}
		if seen[gid] {
			return nil, apierror.Validation("grupo de toppings repetido")
		}
		seen[gid] = true
		if _, err := s.groups.FindByID(ctx, gid); err != nil {
			return nil, notFoundOr(err, "grupo de toppings no encontrado")
		}
		if g.MaxSelection < 0 || g.ExtraCost.IsNegative() || g.QuantityOfTopping.IsNegative() {
			return nil, apierror.Validation("configuración de toppings inválida")
		}
		unitID, err := s.resolveUnit(ctx, g.UnitOfMeasureID)
		if err != nil {
			return nil, err
		}
		parts.groups = append(parts.groups, model.ProductAvailableToppingGroup{
			ToppingsGroupID:   gid,
			QuantityOfTopping: g.QuantityOfTopping,
			UnitOfMeasureID:   unitID,
			Settings: model.ToppingSettings{
				MaxSelection: g.MaxSelection,
				ChargeExtra:  g.ChargeExtra,
				ExtraCost:    g.ExtraCost,
			},
		})
	}
	return parts, nil
}

// bundledProduct resolves a product placed inside a promotion. Promotions
// cannot nest.
func (s *catalogService) bundledProduct(ctx context.Context, selfID uuid.UUID, raw string) (uuid.UUID, error) {
	pid, err := parseID("product_id", raw)
	if err != nil {
		return uuid.Nil, err
	}
	if pid == selfID {
		return uuid.Nil, apierror.Validation("una promoción no puede contenerse a sí misma")
	}
	p, err := s.products.FindByID(ctx, nil, pid)
	if err != nil {
		return uuid.Nil, notFoundOr(err, "producto no encontrado")
	}
	if p.Type == model.ProductPromotion {
		return uuid.Nil, apierror.Validation(fmt.Sprintf("%s es una promoción y no puede incluirse en otra", p.Name))
	}
	return pid, nil
}

// writeProductParts replaces the product's children and derives its cost
// for compound products and promotions.
func (s *catalogService) writeProductParts(ctx context.Context, tx *gorm.DB, id uuid.UUID, kind string, parts *productParts) error {
	if err := s.products.ReplaceIngredients(ctx, tx, id, parts.ingredients); err != nil {
		return apierror.Internal("no se pudo guardar la receta", err)
	}
	if err := s.products.ReplacePromotionItems(ctx, tx, id, parts.items); err != nil {
		return apierror.Internal("no se pudo guardar el contenido de la promoción", err)
	}
	if err := s.products.ReplacePromotionSlots(ctx, tx, id, parts.slots); err != nil {
		return apierror.Internal("no se pudo guardar las opciones de la promoción", err)
	}
	if err := s.products.ReplaceToppingGroups(ctx, tx, id, parts.groups); err != nil {
		return apierror.Internal("no se pudo guardar los grupos de toppings", err)
	}
	if kind == model.ProductSimple {
		return nil
	}
	p, err := s.products.FindByID(ctx, tx, id)
	if err != nil {
		return apierror.Internal("no se pudo releer el producto", err)
	}
	cost, err := s.costs.ProductCost(ctx, tx, p)
	if err != nil {
		return err
	}
	if err := s.products.UpdateCost(ctx, tx, id, cost); err != nil {
		return apierror.Internal("no se pudo guardar el costo", err)
	}
	return nil
}

func (s *catalogService) reloadProduct(ctx context.Context, id uuid.UUID, event string) (*dto.ProductResponse, error) {
	s.invalidate(ctx)
	resp, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.Publish(event, resp)
	}
	return resp, nil
}

func (s *catalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}

// ── Mapping ──────────────────────────────────────────────────────────────────

// duplicateOr maps a unique-constraint violation to a conflict.
func duplicateOr(err error, conflictMsg, internalMsg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apierror.Conflict(conflictMsg)
	}
	return apierror.Internal(internalMsg, err)
}

func unitToResponse(u *model.UnitOfMeasure) dto.UnitResponse {
	return dto.UnitResponse{ID: u.ID.String(), Name: u.Name, Abbreviation: u.Abbreviation, IsBase: u.IsBase}
}

func ingredientToResponse(i *model.Ingredient) dto.IngredientResponse {
	r := dto.IngredientResponse{
		ID:              i.ID.String(),
		Name:            i.Name,
		Cost:            i.Cost,
		UnitOfMeasureID: idPtrString(i.UnitOfMeasureID),
		IsActive:        i.IsActive,
	}
	if i.UnitOfMeasure != nil {
		abbr := i.UnitOfMeasure.Abbreviation
		r.Unit = &abbr
	}
	return r
}

func cascadeToResponse(r CascadeResult) *dto.CascadeResponse {
	resp := &dto.CascadeResponse{
		Success:           r.Success,
		Message:           r.Message,
		UpdatedProducts:   make([]string, 0, len(r.UpdatedProducts)),
		UpdatedPromotions: make([]string, 0, len(r.UpdatedPromotions)),
	}
	for _, id := range r.UpdatedProducts {
		resp.UpdatedProducts = append(resp.UpdatedProducts, id.String())
	}
	for _, id := range r.UpdatedPromotions {
		resp.UpdatedPromotions = append(resp.UpdatedPromotions, id.String())
	}
	return resp
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	r := &dto.ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Cost:        p.Cost,
		Type:        p.Type,
		IsActive:    p.IsActive,
	}
	for _, in := range p.Ingredients {
		ir := dto.ProductIngredientResponse{
			IngredientID:    in.IngredientID.String(),
			Quantity:        in.Quantity,
			UnitOfMeasureID: idPtrString(in.UnitOfMeasureID),
		}
		if in.Ingredient != nil {
			ir.Name = in.Ingredient.Name
		}
		r.Ingredients = append(r.Ingredients, ir)
	}
	for _, it := range p.PromotionItems {
		pr := dto.PromotionItemResponse{ProductID: it.ProductID.String(), Quantity: it.Quantity}
		if it.Product != nil {
			pr.Name = it.Product.Name
		}
		r.PromotionItems = append(r.PromotionItems, pr)
	}
	for _, sl := range p.PromotionSlots {
		sr := dto.PromotionSlotResponse{ID: sl.ID.String(), Name: sl.Name}
		for _, op := range sl.Options {
			opt := dto.PromotionSlotOptionResponse{ProductID: op.ProductID.String(), ExtraCost: op.ExtraCost}
			if op.Product != nil {
				opt.Name = op.Product.Name
			}
			sr.Options = append(sr.Options, opt)
		}
		r.PromotionSlots = append(r.PromotionSlots, sr)
	}
	for _, g := range p.AvailableToppingGroups {
		gr := dto.ProductToppingGroupResponse{
			ToppingsGroupID:   g.ToppingsGroupID.String(),
			QuantityOfTopping: g.QuantityOfTopping,
			MaxSelection:      g.Settings.MaxSelection,
			ChargeExtra:       g.Settings.ChargeExtra,
			ExtraCost:         g.Settings.ExtraCost,
		}
		if g.ToppingsGroup != nil {
			gr.Name = g.ToppingsGroup.Name
			for i := range g.ToppingsGroup.Toppings {
				gr.Toppings = append(gr.Toppings, ingredientToResponse(&g.ToppingsGroup.Toppings[i]))
			}
		}
		r.AvailableToppingGroups = append(r.AvailableToppingGroups, gr)
	}
	return r
}

