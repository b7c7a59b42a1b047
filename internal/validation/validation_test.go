package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payment struct {
	Method string          `validate:"required,oneof=cash transfer"`
	Amount decimal.Decimal `validate:"required,gt=0"`
}

func TestDecimalTags(t *testing.T) {
	v := New()

	require.NoError(t, v.Struct(payment{Method: "cash", Amount: decimal.RequireFromString("10.50")}))

	err := v.Struct(payment{Method: "bitcoin", Amount: decimal.RequireFromString("-1")})
	require.Error(t, err)
	fields := Fields(err)
	assert.Equal(t, "oneof", fields["Method"])
	assert.Equal(t, "gt", fields["Amount"])
}
