package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func TestUnitConverter_DirectAndInverse(t *testing.T) {
	c := newMemCatalog()
	g := c.addUnit("g", true)
	kg := c.addUnit("kg", false)
	c.addConversion(kg, g, "1000")
	conv := NewUnitConverter(c.conversions)

	got, err := conv.Convert(dec("2"), kg.ID, g.ID)
	require.NoError(t, err)
	assertDecimal(t, "2000", got)

	got, err = conv.Convert(dec("500"), g.ID, kg.ID)
	require.NoError(t, err)
	assertDecimal(t, "0.5", got)
}

func TestUnitConverter_ThroughBaseUnit(t *testing.T) {
	c := newMemCatalog()
	ml := c.addUnit("ml", true)
	l := c.addUnit("l", false)
	cup := c.addUnit("taza", false)
	c.addConversion(l, ml, "1000")
	c.addConversion(cup, ml, "250")
	conv := NewUnitConverter(c.conversions)

	got, err := conv.Convert(dec("4"), cup.ID, l.ID)
	require.NoError(t, err)
	assertDecimal(t, "1", got)
}

func TestUnitConverter_SameUnitIsIdentity(t *testing.T) {
	var conv UnitConverter
	id := uuid.New()
	got, err := conv.Convert(dec("3.5"), id, id)
	require.NoError(t, err)
	assertDecimal(t, "3.5", got)
}

func TestUnitConverter_NoPath(t *testing.T) {
	c := newMemCatalog()
	g := c.addUnit("g", true)
	kg := c.addUnit("kg", false)
	ml := c.addUnit("ml", true)
	c.addConversion(kg, g, "1000")
	conv := NewUnitConverter(c.conversions)

	_, err := conv.Convert(dec("1"), kg.ID, ml.ID)
	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, kg.ID, convErr.From)
	assert.Equal(t, ml.ID, convErr.To)
}
