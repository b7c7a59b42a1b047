package repository

import (
	"context"
	"time"

	"hygpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderFilter narrows List. From/To bound Order.Date as [From, To).
type OrderFilter struct {
	State   string
	TableID *uuid.UUID
	From    *time.Time
	To      *time.Time
	Page
}

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, o *model.Order) error
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	// FindByIDForUpdate locks the order row until tx ends.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	FindActiveByTable(ctx context.Context, tx *gorm.DB, tableID uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error)
	UpdateHeader(ctx context.Context, tx *gorm.DB, o *model.Order) error
	AddDetails(ctx context.Context, tx *gorm.DB, details []model.OrderDetail) error
	DeleteDetail(ctx context.Context, tx *gorm.DB, orderID, detailID uuid.UUID) error
	CreatePayments(ctx context.Context, tx *gorm.DB, payments []model.OrderPayment) error

	// FindArchivable loads orders in the given states dated in [from, to)
	// with every relation the archive copy needs.
	FindArchivable(ctx context.Context, tx *gorm.DB, states []string, from, to time.Time) ([]model.Order, error)
	// DeleteOrders removes the orders and all their owned rows.
	DeleteOrders(ctx context.Context, tx *gorm.DB, orderIDs []uuid.UUID) error
	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) DB() *gorm.DB { return r.db }

func preloadOrder(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Table").
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Details.Product").
		Preload("Details.Toppings.Ingredient").
		Preload("Details.PromotionSelections.Product").
		Preload("Payments")
}

func (r *orderRepo) Create(ctx context.Context, tx *gorm.DB, o *model.Order) error {
	return conn(ctx, r.db, tx).Omit("Table").Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := preloadOrder(conn(ctx, r.db, tx)).First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orderRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	q := conn(ctx, r.db, tx)
	if err := q.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, "id = ?", id).Error; err != nil {
		return &o, err
	}
	err := preloadOrder(q).First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orderRepo) FindActiveByTable(ctx context.Context, tx *gorm.DB, tableID uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := conn(ctx, r.db, tx).
		Where("table_id = ? AND state IN ?", tableID, []string{model.OrderOpen, model.OrderPendingPayment}).
		Order("created_at DESC").
		First(&o).Error
	return &o, err
}

func (r *orderRepo) List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error) {
	var list []model.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Order{})
	if filter.State != "" && filter.State != "all" {
		q = q.Where("state = ?", filter.State)
	}
	if filter.TableID != nil {
		q = q.Where("table_id = ?", *filter.TableID)
	}
	if filter.From != nil {
		q = q.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("date < ?", *filter.To)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := preloadOrder(q).
		Order("date DESC").
		Offset(filter.offset()).Limit(filter.limit()).
		Find(&list).Error
	return list, total, err
}

func (r *orderRepo) UpdateHeader(ctx context.Context, tx *gorm.DB, o *model.Order) error {
	return conn(ctx, r.db, tx).Omit(clause.Associations).Save(o).Error
}

func (r *orderRepo) AddDetails(ctx context.Context, tx *gorm.DB, details []model.OrderDetail) error {
	if len(details) == 0 {
		return nil
	}
	return conn(ctx, r.db, tx).Omit("Product").Create(&details).Error
}

func (r *orderRepo) DeleteDetail(ctx context.Context, tx *gorm.DB, orderID, detailID uuid.UUID) error {
	q := conn(ctx, r.db, tx)
	if err := q.Where("order_detail_id = ?", detailID).Delete(&model.OrderDetailTopping{}).Error; err != nil {
		return err
	}
	if err := q.Where("order_detail_id = ?", detailID).Delete(&model.OrderDetailPromotionSelection{}).Error; err != nil {
		return err
	}
	res := q.Where("id = ? AND order_id = ?", detailID, orderID).Delete(&model.OrderDetail{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepo) CreatePayments(ctx context.Context, tx *gorm.DB, payments []model.OrderPayment) error {
	if len(payments) == 0 {
		return nil
	}
	return conn(ctx, r.db, tx).Create(&payments).Error
}

func (r *orderRepo) FindArchivable(ctx context.Context, tx *gorm.DB, states []string, from, to time.Time) ([]model.Order, error) {
	var list []model.Order
	err := preloadOrder(conn(ctx, r.db, tx)).
		Where("state IN ? AND date >= ? AND date < ?", states, from, to).
		Order("date ASC").
		Find(&list).Error
	return list, err
}

func (r *orderRepo) DeleteOrders(ctx context.Context, tx *gorm.DB, orderIDs []uuid.UUID) error {
	if len(orderIDs) == 0 {
		return nil
	}
	q := conn(ctx, r.db, tx)
	var detailIDs []uuid.UUID
	if err := q.Model(&model.OrderDetail{}).Where("order_id IN ?", orderIDs).Pluck("id", &detailIDs).Error; err != nil {
		return err
	}
	if len(detailIDs) > 0 {
		if err := q.Where("order_detail_id IN ?", detailIDs).Delete(&model.OrderDetailTopping{}).Error; err != nil {
			return err
		}
		if err := q.Where("order_detail_id IN ?", detailIDs).Delete(&model.OrderDetailPromotionSelection{}).Error; err != nil {
			return err
		}
		if err := q.Where("id IN ?", detailIDs).Delete(&model.OrderDetail{}).Error; err != nil {
			return err
		}
	}
	if err := q.Where("order_id IN ?", orderIDs).Delete(&model.OrderPayment{}).Error; err != nil {
		return err
	}
	return q.Where("id IN ?", orderIDs).Delete(&model.Order{}).Error
}
