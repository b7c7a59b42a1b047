package repository

import (
	"context"

	"hygpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailyCashRepository interface {
	Create(ctx context.Context, tx *gorm.DB, d *model.DailyCash) error
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.DailyCash, error)
	// FindByDate looks up the ledger of a business day (YYYY-MM-DD).
	FindByDate(ctx context.Context, tx *gorm.DB, date string) (*model.DailyCash, error)
	// FindByIDForUpdate locks the ledger row until tx ends.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.DailyCash, error)
	Update(ctx context.Context, tx *gorm.DB, d *model.DailyCash) error
	CreateMovement(ctx context.Context, tx *gorm.DB, m *model.CashMovement) error
	List(ctx context.Context, page Page) ([]model.DailyCash, int64, error)
	DB() *gorm.DB
}

type dailyCashRepo struct{ db *gorm.DB }

func NewDailyCashRepository(db *gorm.DB) DailyCashRepository { return &dailyCashRepo{db: db} }

func (r *dailyCashRepo) DB() *gorm.DB { return r.db }

func (r *dailyCashRepo) Create(ctx context.Context, tx *gorm.DB, d *model.DailyCash) error {
	return conn(ctx, r.db, tx).Omit(clause.Associations).Create(d).Error
}

func (r *dailyCashRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.DailyCash, error) {
	var d model.DailyCash
	err := conn(ctx, r.db, tx).
		Preload("Movements", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Movements.Payments").
		First(&d, "id = ?", id).Error
	return &d, err
}

func (r *dailyCashRepo) FindByDate(ctx context.Context, tx *gorm.DB, date string) (*model.DailyCash, error) {
	var d model.DailyCash
	err := conn(ctx, r.db, tx).Where("date = ?", date).First(&d).Error
	return &d, err
}

func (r *dailyCashRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.DailyCash, error) {
	var d model.DailyCash
	err := conn(ctx, r.db, tx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&d, "id = ?", id).Error
	return &d, err
}

func (r *dailyCashRepo) Update(ctx context.Context, tx *gorm.DB, d *model.DailyCash) error {
	return conn(ctx, r.db, tx).Omit(clause.Associations).Save(d).Error
}

// CreateMovement inserts the movement together with its payment rows.
func (r *dailyCashRepo) CreateMovement(ctx context.Context, tx *gorm.DB, m *model.CashMovement) error {
	return conn(ctx, r.db, tx).Create(m).Error
}

func (r *dailyCashRepo) List(ctx context.Context, page Page) ([]model.DailyCash, int64, error) {
	var list []model.DailyCash
	var total int64
	q := r.db.WithContext(ctx).Model(&model.DailyCash{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("date DESC").Offset(page.offset()).Limit(page.limit()).Find(&list).Error
	return list, total, err
}
