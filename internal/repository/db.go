package repository

import (
	"context"

	"gorm.io/gorm"
)

// conn returns the caller's transaction when there is one, otherwise the
// repository's base handle. Every method taking a tx accepts nil.
func conn(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// Page is the common pagination input for list queries.
type Page struct {
	Page  int
	Limit int
}

func (p Page) offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

func (p Page) limit() int {
	if p.Limit < 1 {
		return 50
	}
	return p.Limit
}
