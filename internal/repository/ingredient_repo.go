package repository

import (
	"context"

	"hygpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IngredientRepository interface {
	Create(ctx context.Context, i *model.Ingredient) error
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Ingredient, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Ingredient, error)
	List(ctx context.Context, onlyActive bool) ([]model.Ingredient, error)
	Update(ctx context.Context, i *model.Ingredient) error
	UpdateCost(ctx context.Context, tx *gorm.DB, id uuid.UUID, cost decimal.Decimal) error
	DB() *gorm.DB
}

type ingredientRepo struct{ db *gorm.DB }

func NewIngredientRepository(db *gorm.DB) IngredientRepository { return &ingredientRepo{db: db} }

func (r *ingredientRepo) DB() *gorm.DB { return r.db }

func (r *ingredientRepo) Create(ctx context.Context, i *model.Ingredient) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(i).Error
}

func (r *ingredientRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Ingredient, error) {
	var i model.Ingredient
	err := conn(ctx, r.db, tx).Preload("UnitOfMeasure").First(&i, "id = ?", id).Error
	return &i, err
}

func (r *ingredientRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Ingredient, error) {
	var list []model.Ingredient
	if len(ids) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error
	return list, err
}

func (r *ingredientRepo) List(ctx context.Context, onlyActive bool) ([]model.Ingredient, error) {
	var list []model.Ingredient
	q := r.db.WithContext(ctx).Preload("UnitOfMeasure").Order("name ASC")
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *ingredientRepo) Update(ctx context.Context, i *model.Ingredient) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(i).Error
}

func (r *ingredientRepo) UpdateCost(ctx context.Context, tx *gorm.DB, id uuid.UUID, cost decimal.Decimal) error {
	res := conn(ctx, r.db, tx).Model(&model.Ingredient{}).Where("id = ?", id).Update("cost", cost)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
