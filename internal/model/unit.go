package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnitOfMeasure is a measurement unit (g, kg, ml, l, unidad).
// IsBase marks the unit other units of the same dimension convert through.
type UnitOfMeasure struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"not null"`
	Abbreviation string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	IsBase       bool      `gorm:"not null;default:false"`
}

func (UnitOfMeasure) TableName() string { return "units_of_measure" }

// UnitConversion stores 1 FromUnit = Factor ToUnit.
type UnitConversion struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	FromUnitID uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_conversion_pair;not null"`
	ToUnitID   uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_conversion_pair;not null"`
	Factor     decimal.Decimal `gorm:"type:decimal(18,8);not null"`

	FromUnit *UnitOfMeasure `gorm:"foreignKey:FromUnitID"`
	ToUnit   *UnitOfMeasure `gorm:"foreignKey:ToUnitID"`
}
