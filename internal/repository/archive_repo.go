package repository

import (
	"context"
	"time"

	"hygpos/internal/model"

	"gorm.io/gorm"
)

const archiveBatchSize = 200

type ArchiveRepository interface {
	// InsertOrders bulk-inserts archived orders with their details and payments.
	InsertOrders(ctx context.Context, tx *gorm.DB, orders []model.ArchivedOrder) error
	List(ctx context.Context, from, to time.Time, page Page) ([]model.ArchivedOrder, int64, error)
}

type archiveRepo struct{ db *gorm.DB }

func NewArchiveRepository(db *gorm.DB) ArchiveRepository { return &archiveRepo{db: db} }

func (r *archiveRepo) InsertOrders(ctx context.Context, tx *gorm.DB, orders []model.ArchivedOrder) error {
	if len(orders) == 0 {
		return nil
	}
	return conn(ctx, r.db, tx).CreateInBatches(&orders, archiveBatchSize).Error
}

func (r *archiveRepo) List(ctx context.Context, from, to time.Time, page Page) ([]model.ArchivedOrder, int64, error) {
	var list []model.ArchivedOrder
	var total int64
	q := r.db.WithContext(ctx).Model(&model.ArchivedOrder{}).Where("date >= ? AND date < ?", from, to)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Details").Preload("Payments").
		Order("date ASC").
		Offset(page.offset()).Limit(page.limit()).
		Find(&list).Error
	return list, total, err
}
