package repository

import (
	"context"

	"hygpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UnitRepository interface {
	CreateUnit(ctx context.Context, u *model.UnitOfMeasure) error
	FindUnitByID(ctx context.Context, id uuid.UUID) (*model.UnitOfMeasure, error)
	FindUnitByAbbreviation(ctx context.Context, abbr string) (*model.UnitOfMeasure, error)
	ListUnits(ctx context.Context) ([]model.UnitOfMeasure, error)
	CreateConversion(ctx context.Context, c *model.UnitConversion) error
	ListConversions(ctx context.Context, tx *gorm.DB) ([]model.UnitConversion, error)
}

type unitRepo struct{ db *gorm.DB }

func NewUnitRepository(db *gorm.DB) UnitRepository { return &unitRepo{db: db} }

func (r *unitRepo) CreateUnit(ctx context.Context, u *model.UnitOfMeasure) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *unitRepo) FindUnitByID(ctx context.Context, id uuid.UUID) (*model.UnitOfMeasure, error) {
	var u model.UnitOfMeasure
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *unitRepo) FindUnitByAbbreviation(ctx context.Context, abbr string) (*model.UnitOfMeasure, error) {
	var u model.UnitOfMeasure
	err := r.db.WithContext(ctx).Where("abbreviation = ?", abbr).First(&u).Error
	return &u, err
}

func (r *unitRepo) ListUnits(ctx context.Context) ([]model.UnitOfMeasure, error) {
	var units []model.UnitOfMeasure
	err := r.db.WithContext(ctx).Order("name ASC").Find(&units).Error
	return units, err
}

func (r *unitRepo) CreateConversion(ctx context.Context, c *model.UnitConversion) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *unitRepo) ListConversions(ctx context.Context, tx *gorm.DB) ([]model.UnitConversion, error) {
	var convs []model.UnitConversion
	err := conn(ctx, r.db, tx).Preload("FromUnit").Preload("ToUnit").Find(&convs).Error
	return convs, err
}
