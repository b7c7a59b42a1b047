package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newID fills an empty primary key before insert. IDs are generated in Go so
// the same models migrate on postgres and on the sqlite test database.
func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (m *UnitOfMeasure) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }
func (m *UnitConversion) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }
func (m *Ingredient) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }
func (m *Product) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }
func (m *ProductIngredient) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }
func (m *PromotionProduct) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }
func (m *PromotionSlot) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }
func (m *PromotionSlotOption) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }
func (m *ToppingsGroup) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }
func (m *ProductAvailableToppingGroup) BeforeCreate(*gorm.DB) error {
	newID(&m.ID)
	return nil
}
func (m *Table) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }
func (m *Customer) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }
func (m *Order) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }
func (m *OrderDetail) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }
func (m *OrderDetailTopping) BeforeCreate(*gorm.DB) error {
	newID(&m.ID)
	return nil
}
func (m *OrderDetailPromotionSelection) BeforeCreate(*gorm.DB) error {
	newID(&m.ID)
	return nil
}
func (m *OrderPayment) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }
func (m *DailyCash) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }
func (m *CashMovement) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }
func (m *CashMovementPayment) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }
func (m *ArchivedOrder) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }
func (m *ArchivedOrderDetail) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }
func (m *ArchivedOrderPayment) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }
func (m *CostHistory) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&UnitOfMeasure{},
		&UnitConversion{},
		&Ingredient{},
		&Product{},
		&ProductIngredient{},
		&PromotionProduct{},
		&PromotionSlot{},
		&PromotionSlotOption{},
		&ToppingsGroup{},
		&ProductAvailableToppingGroup{},
		&Table{},
		&Customer{},
		&DailyCash{},
		&CashMovement{},
		&CashMovementPayment{},
		&Order{},
		&OrderDetail{},
		&OrderDetailTopping{},
		&OrderDetailPromotionSelection{},
		&OrderPayment{},
		&ArchivedOrder{},
		&ArchivedOrderDetail{},
		&ArchivedOrderPayment{},
		&CostHistory{},
	}
}
