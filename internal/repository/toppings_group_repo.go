package repository

import (
	"context"

	"hygpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ToppingsGroupRepository interface {
	Create(ctx context.Context, g *model.ToppingsGroup, toppings []model.Ingredient) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ToppingsGroup, error)
	FindByName(ctx context.Context, name string) (*model.ToppingsGroup, error)
	List(ctx context.Context, kind string, onlyActive bool) ([]model.ToppingsGroup, error)
	Update(ctx context.Context, g *model.ToppingsGroup, toppings []model.Ingredient) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type toppingsGroupRepo struct{ db *gorm.DB }

func NewToppingsGroupRepository(db *gorm.DB) ToppingsGroupRepository {
	return &toppingsGroupRepo{db: db}
}

func (r *toppingsGroupRepo) Create(ctx context.Context, g *model.ToppingsGroup, toppings []model.Ingredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(g).Error; err != nil {
			return err
		}
		if len(toppings) == 0 {
			return nil
		}
		return tx.Model(g).Association("Toppings").Append(toppings)
	})
}

func (r *toppingsGroupRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ToppingsGroup, error) {
	var g model.ToppingsGroup
	err := r.db.WithContext(ctx).Preload("Toppings").First(&g, "id = ?", id).Error
	return &g, err
}

func (r *toppingsGroupRepo) FindByName(ctx context.Context, name string) (*model.ToppingsGroup, error) {
	var g model.ToppingsGroup
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&g).Error
	return &g, err
}

func (r *toppingsGroupRepo) List(ctx context.Context, kind string, onlyActive bool) ([]model.ToppingsGroup, error) {
	var list []model.ToppingsGroup
	q := r.db.WithContext(ctx).Preload("Toppings").Where("kind = ?", kind).Order("name ASC")
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&list).Error
	return list, err
}

// Update saves the header and, when toppings is non-nil, replaces the
// group's topping set.
func (r *toppingsGroupRepo) Update(ctx context.Context, g *model.ToppingsGroup, toppings []model.Ingredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(g).Error; err != nil {
			return err
		}
		if toppings == nil {
			return nil
		}
		return tx.Model(g).Association("Toppings").Replace(toppings)
	})
}

func (r *toppingsGroupRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g := &model.ToppingsGroup{ID: id}
		if err := tx.Model(g).Association("Toppings").Clear(); err != nil {
			return err
		}
		if err := tx.Where("toppings_group_id = ?", id).Delete(&model.ProductAvailableToppingGroup{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.ToppingsGroup{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
