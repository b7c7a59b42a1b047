package repository

import (
	"context"

	"hygpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TableRepository interface {
	Create(ctx context.Context, t *model.Table) error
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Table, error)
	List(ctx context.Context) ([]model.Table, error)
	Update(ctx context.Context, t *model.Table) error
	UpdateState(ctx context.Context, tx *gorm.DB, id uuid.UUID, state string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type tableRepo struct{ db *gorm.DB }

func NewTableRepository(db *gorm.DB) TableRepository { return &tableRepo{db: db} }

func (r *tableRepo) Create(ctx context.Context, t *model.Table) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tableRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Table, error) {
	var t model.Table
	err := conn(ctx, r.db, tx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *tableRepo) List(ctx context.Context) ([]model.Table, error) {
	var list []model.Table
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&list).Error
	return list, err
}

func (r *tableRepo) Update(ctx context.Context, t *model.Table) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *tableRepo) UpdateState(ctx context.Context, tx *gorm.DB, id uuid.UUID, state string) error {
	return conn(ctx, r.db, tx).Model(&model.Table{}).Where("id = ?", id).Update("state", state).Error
}

// Delete deactivates the table; past orders keep pointing at it.
func (r *tableRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Table{}).Where("id = ?", id).Update("is_active", false).Error
}
