package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	TableAvailable      = "available"
	TableOpen           = "open"
	TablePendingPayment = "pending_payment"
)

// Table is a physical table in the dining room.
// State follows the order currently seated on it.
type Table struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Capacity  int       `gorm:"not null;default:4"`
	State     string    `gorm:"type:varchar(20);not null;default:'available'"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"index;not null"`
	Phone     *string
	Email     *string
	Address   *string
	Comment   *string
	IsActive  bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
