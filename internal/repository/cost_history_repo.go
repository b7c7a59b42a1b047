package repository

import (
	"context"

	"hygpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CostHistoryRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entries []model.CostHistory) error
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit int) ([]model.CostHistory, error)
}

type costHistoryRepo struct{ db *gorm.DB }

func NewCostHistoryRepository(db *gorm.DB) CostHistoryRepository { return &costHistoryRepo{db: db} }

func (r *costHistoryRepo) Create(ctx context.Context, tx *gorm.DB, entries []model.CostHistory) error {
	if len(entries) == 0 {
		return nil
	}
	return conn(ctx, r.db, tx).Create(&entries).Error
}

func (r *costHistoryRepo) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit int) ([]model.CostHistory, error) {
	if limit < 1 {
		limit = 50
	}
	var list []model.CostHistory
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
