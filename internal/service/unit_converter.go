package service

import (
	"fmt"

	"hygpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConversionError reports that no factor links two units.
type ConversionError struct {
	From uuid.UUID
	To   uuid.UUID
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("no existe conversion de %s a %s", e.From, e.To)
}

// UnitConverter converts quantities using stored factors. A conversion is
// found directly, through the inverse of a stored factor, or through one
// intermediate unit; base units are tried first as intermediates.
// The zero value converts only between identical units.
type UnitConverter struct {
	// factors[from][to] = how many "to" make one "from"
	factors map[uuid.UUID]map[uuid.UUID]decimal.Decimal
	bases   []uuid.UUID
	others  []uuid.UUID
}

// NewUnitConverter indexes the stored conversions in both directions.
func NewUnitConverter(conversions []model.UnitConversion) *UnitConverter {
	c := &UnitConverter{factors: make(map[uuid.UUID]map[uuid.UUID]decimal.Decimal)}
	seen := make(map[uuid.UUID]bool)
	addUnit := func(u *model.UnitOfMeasure, id uuid.UUID) {
		if seen[id] {
			return
		}
		seen[id] = true
		if u != nil && u.IsBase {
			c.bases = append(c.bases, id)
		} else {
			c.others = append(c.others, id)
		}
	}
	for _, conv := range conversions {
		if conv.Factor.IsZero() {
			continue
		}
		c.set(conv.FromUnitID, conv.ToUnitID, conv.Factor)
		if _, ok := c.lookup(conv.ToUnitID, conv.FromUnitID); !ok {
			c.set(conv.ToUnitID, conv.FromUnitID, decimal.NewFromInt(1).Div(conv.Factor))
		}
		addUnit(conv.FromUnit, conv.FromUnitID)
		addUnit(conv.ToUnit, conv.ToUnitID)
	}
	return c
}

func (c *UnitConverter) set(from, to uuid.UUID, f decimal.Decimal) {
	m, ok := c.factors[from]
	if !ok {
		m = make(map[uuid.UUID]decimal.Decimal)
		c.factors[from] = m
	}
	m[to] = f
}

func (c *UnitConverter) lookup(from, to uuid.UUID) (decimal.Decimal, bool) {
	if c.factors == nil {
		return decimal.Zero, false
	}
	f, ok := c.factors[from][to]
	return f, ok
}

// Factor returns how many "to" units make one "from" unit.
func (c *UnitConverter) Factor(from, to uuid.UUID) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	if f, ok := c.lookup(from, to); ok {
		return f, nil
	}
	for _, group := range [][]uuid.UUID{c.bases, c.others} {
		for _, mid := range group {
			if mid == from || mid == to {
				continue
			}
			toMid, ok1 := c.lookup(from, mid)
			fromMid, ok2 := c.lookup(mid, to)
			if ok1 && ok2 {
				return toMid.Mul(fromMid), nil
			}
		}
	}
	return decimal.Zero, &ConversionError{From: from, To: to}
}

// Convert expresses quantity, given in from, in the to unit.
func (c *UnitConverter) Convert(quantity decimal.Decimal, from, to uuid.UUID) (decimal.Decimal, error) {
	f, err := c.Factor(from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return quantity.Mul(f), nil
}
