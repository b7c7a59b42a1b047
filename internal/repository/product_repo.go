package repository

import (
	"context"

	"hygpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFilter narrows List. Empty Type lists every type.
type ProductFilter struct {
	Type       string
	OnlyActive bool
	Page
}

type ProductRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Product) error
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	FindByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, tx *gorm.DB, p *model.Product) error
	UpdateCost(ctx context.Context, tx *gorm.DB, id uuid.UUID, cost decimal.Decimal) error

	// Replace* drop the current child rows of a product and insert the given ones.
	ReplaceIngredients(ctx context.Context, tx *gorm.DB, productID uuid.UUID, items []model.ProductIngredient) error
	ReplacePromotionItems(ctx context.Context, tx *gorm.DB, promotionID uuid.UUID, items []model.PromotionProduct) error
	ReplacePromotionSlots(ctx context.Context, tx *gorm.DB, promotionID uuid.UUID, slots []model.PromotionSlot) error
	ReplaceToppingGroups(ctx context.Context, tx *gorm.DB, productID uuid.UUID, groups []model.ProductAvailableToppingGroup) error

	// FindCompoundsUsingIngredient returns compound products whose recipe
	// contains the ingredient, with the full recipe preloaded.
	FindCompoundsUsingIngredient(ctx context.Context, tx *gorm.DB, ingredientID uuid.UUID) ([]model.Product, error)
	// FindPromotionsContaining returns promotions bundling any of productIDs,
	// with every bundled product preloaded.
	FindPromotionsContaining(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]model.Product, error)
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func preloadProduct(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Ingredients.Ingredient").
		Preload("PromotionItems.Product").
		Preload("PromotionSlots.Options.Product").
		Preload("AvailableToppingGroups.ToppingsGroup.Toppings")
}

func (r *productRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Product) error {
	return conn(ctx, r.db, tx).Omit(clause.Associations).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := preloadProduct(conn(ctx, r.db, tx)).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) FindByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]model.Product, error) {
	var list []model.Product
	if len(ids) == 0 {
		return list, nil
	}
	err := conn(ctx, r.db, tx).Where("id IN ?", ids).Find(&list).Error
	return list, err
}

func (r *productRepo) List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	var list []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.OnlyActive {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := preloadProduct(q).
		Order("name ASC").
		Offset(filter.offset()).Limit(filter.limit()).
		Find(&list).Error
	return list, total, err
}

func (r *productRepo) Update(ctx context.Context, tx *gorm.DB, p *model.Product) error {
	return conn(ctx, r.db, tx).Omit(clause.Associations).Save(p).Error
}

func (r *productRepo) UpdateCost(ctx context.Context, tx *gorm.DB, id uuid.UUID, cost decimal.Decimal) error {
	return conn(ctx, r.db, tx).Model(&model.Product{}).Where("id = ?", id).Update("cost", cost).Error
}

func (r *productRepo) ReplaceIngredients(ctx context.Context, tx *gorm.DB, productID uuid.UUID, items []model.ProductIngredient) error {
	q := conn(ctx, r.db, tx)
	if err := q.Where("product_id = ?", productID).Delete(&model.ProductIngredient{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ProductID = productID
	}
	return q.Omit(clause.Associations).Create(&items).Error
}

func (r *productRepo) ReplacePromotionItems(ctx context.Context, tx *gorm.DB, promotionID uuid.UUID, items []model.PromotionProduct) error {
	q := conn(ctx, r.db, tx)
	if err := q.Where("promotion_id = ?", promotionID).Delete(&model.PromotionProduct{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].PromotionID = promotionID
	}
	return q.Omit(clause.Associations).Create(&items).Error
}

func (r *productRepo) ReplacePromotionSlots(ctx context.Context, tx *gorm.DB, promotionID uuid.UUID, slots []model.PromotionSlot) error {
	q := conn(ctx, r.db, tx)
	var slotIDs []uuid.UUID
	if err := q.Model(&model.PromotionSlot{}).Where("promotion_id = ?", promotionID).Pluck("id", &slotIDs).Error; err != nil {
		return err
	}
	if len(slotIDs) > 0 {
		if err := q.Where("slot_id IN ?", slotIDs).Delete(&model.PromotionSlotOption{}).Error; err != nil {
			return err
		}
		if err := q.Where("id IN ?", slotIDs).Delete(&model.PromotionSlot{}).Error; err != nil {
			return err
		}
	}
	for i := range slots {
		slots[i].PromotionID = promotionID
		for j := range slots[i].Options {
			slots[i].Options[j].Product = nil
		}
		if err := q.Create(&slots[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *productRepo) ReplaceToppingGroups(ctx context.Context, tx *gorm.DB, productID uuid.UUID, groups []model.ProductAvailableToppingGroup) error {
	q := conn(ctx, r.db, tx)
	if err := q.Where("product_id = ?", productID).Delete(&model.ProductAvailableToppingGroup{}).Error; err != nil {
		return err
	}
	if len(groups) == 0 {
		return nil
	}
	for i := range groups {
		groups[i].ProductID = productID
	}
	return q.Omit(clause.Associations).Create(&groups).Error
}

func (r *productRepo) FindCompoundsUsingIngredient(ctx context.Context, tx *gorm.DB, ingredientID uuid.UUID) ([]model.Product, error) {
	q := conn(ctx, r.db, tx)
	sub := q.Session(&gorm.Session{NewDB: true}).
		Model(&model.ProductIngredient{}).
		Select("product_id").
		Where("ingredient_id = ?", ingredientID)

	var list []model.Product
	err := q.Preload("Ingredients.Ingredient").
		Where("type = ? AND id IN (?)", model.ProductCompound, sub).
		Order("name ASC").
		Find(&list).Error
	return list, err
}

func (r *productRepo) FindPromotionsContaining(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]model.Product, error) {
	var list []model.Product
	if len(productIDs) == 0 {
		return list, nil
	}
	q := conn(ctx, r.db, tx)
	sub := q.Session(&gorm.Session{NewDB: true}).
		Model(&model.PromotionProduct{}).
		Select("promotion_id").
		Where("product_id IN ?", productIDs)

	err := q.Preload("PromotionItems.Product").
		Where("type = ? AND id IN (?)", model.ProductPromotion, sub).
		Order("name ASC").
		Find(&list).Error
	return list, err
}
