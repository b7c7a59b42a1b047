package service

import (
	"context"
	"testing"
	"time"

	"hygpos/internal/apierror"
	"hygpos/internal/dto"
	"hygpos/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var businessNow = time.Date(2024, 5, 15, 13, 30, 0, 0, time.UTC)

func newTestDailyCash() (*dailyCashService, *memDailyCashRepo) {
	repo := newMemDailyCashRepo()
	return newDailyCashService(repo, time.UTC, fixedClock(businessNow)), repo
}

func cashPayment(amount string) []dto.PaymentRequest {
	return []dto.PaymentRequest{{Method: model.PaymentCash, Amount: dec(amount)}}
}

func TestDailyCash_OpenOncePerDay(t *testing.T) {
	svc, _ := newTestDailyCash()
	ctx := context.Background()

	resp, err := svc.Open(ctx, dto.OpenDailyCashRequest{InitialCash: dec("10000")})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-15", resp.Date)
	assert.Equal(t, model.DailyCashOpen, resp.State)
	assertDecimal(t, "10000", resp.Totals.Cash)

	_, err = svc.Open(ctx, dto.OpenDailyCashRequest{InitialCash: dec("5")})
	assert.True(t, apierror.Is(err, apierror.KindConflict))

	_, err = svc.Close(ctx, mustParse(t, resp.ID), dto.CloseDailyCashRequest{CountedCash: dec("10000")})
	require.NoError(t, err)
	_, err = svc.Open(ctx, dto.OpenDailyCashRequest{InitialCash: dec("5")})
	assert.True(t, apierror.Is(err, apierror.KindConflict), "a closed day cannot be reopened")
}

func TestDailyCash_RunningCashTotal(t *testing.T) {
	svc, _ := newTestDailyCash()
	ctx := context.Background()

	opened, err := svc.Open(ctx, dto.OpenDailyCashRequest{InitialCash: dec("10000")})
	require.NoError(t, err)
	id := mustParse(t, opened.ID)

	err = svc.AbsorbOrderPayment(ctx, nil, id, dec("5000"), decimal.Zero,
		[]model.OrderPayment{{Method: model.PaymentCash, Amount: dec("5000")}})
	require.NoError(t, err)

	_, err = svc.RegisterMovement(ctx, dto.CashMovementRequest{
		Type: model.MovementExpense, Payments: cashPayment("2000"), Description: "Proveedor de verdura",
	})
	require.NoError(t, err)

	today, err := svc.Today(ctx)
	require.NoError(t, err)
	assertDecimal(t, "13000", today.Totals.Cash)
	assertDecimal(t, "13000", today.ExpectedCash)
	assertDecimal(t, "5000", today.TotalSales)
	assertDecimal(t, "2000", today.TotalExpenses)
	require.Len(t, today.Movements, 1)
	assert.Equal(t, model.MovementExpense, today.Movements[0].Type)
}

func TestDailyCash_IncomeAddsToMethodTotals(t *testing.T) {
	svc, _ := newTestDailyCash()
	ctx := context.Background()
	_, err := svc.Open(ctx, dto.OpenDailyCashRequest{InitialCash: dec("100")})
	require.NoError(t, err)

	mov, err := svc.RegisterMovement(ctx, dto.CashMovementRequest{
		Type: model.MovementIncome,
		Payments: []dto.PaymentRequest{
			{Method: model.PaymentCash, Amount: dec("50")},
			{Method: model.PaymentTransfer, Amount: dec("25")},
		},
		Description: "Cambio",
	})
	require.NoError(t, err)
	assertDecimal(t, "75", mov.Amount)

	today, err := svc.Today(ctx)
	require.NoError(t, err)
	assertDecimal(t, "150", today.Totals.Cash)
	assertDecimal(t, "25", today.Totals.Transfer)
	assertDecimal(t, "75", today.TotalIncomes)
}

func TestDailyCash_MovementRequiresOpenLedger(t *testing.T) {
	svc, _ := newTestDailyCash()
	_, err := svc.RegisterMovement(context.Background(), dto.CashMovementRequest{
		Type: model.MovementIncome, Payments: cashPayment("10"), Description: "Fondo",
	})
	assert.True(t, apierror.Is(err, apierror.KindConflict))
}

func TestDailyCash_MovementValidation(t *testing.T) {
	svc, _ := newTestDailyCash()
	ctx := context.Background()
	_, err := svc.Open(ctx, dto.OpenDailyCashRequest{InitialCash: dec("100")})
	require.NoError(t, err)

	_, err = svc.RegisterMovement(ctx, dto.CashMovementRequest{Type: "refund", Payments: cashPayment("10"), Description: "x"})
	assert.True(t, apierror.Is(err, apierror.KindValidation))

	_, err = svc.RegisterMovement(ctx, dto.CashMovementRequest{
		Type: model.MovementIncome, Payments: []dto.PaymentRequest{{Method: "bitcoin", Amount: dec("1")}}, Description: "x",
	})
	assert.True(t, apierror.Is(err, apierror.KindValidation))

	_, err = svc.RegisterMovement(ctx, dto.CashMovementRequest{Type: model.MovementIncome, Payments: cashPayment("0"), Description: "x"})
	assert.True(t, apierror.Is(err, apierror.KindValidation))
}

func TestDailyCash_CloseComputesDifference(t *testing.T) {
	svc, _ := newTestDailyCash()
	ctx := context.Background()
	opened, err := svc.Open(ctx, dto.OpenDailyCashRequest{InitialCash: dec("10000")})
	require.NoError(t, err)
	id := mustParse(t, opened.ID)
	require.NoError(t, svc.AbsorbOrderPayment(ctx, nil, id, dec("3000"), dec("200"),
		[]model.OrderPayment{{Method: model.PaymentCash, Amount: dec("3200")}}))

	closed, err := svc.Close(ctx, id, dto.CloseDailyCashRequest{CountedCash: dec("13100")})
	require.NoError(t, err)

	assert.Equal(t, model.DailyCashClosed, closed.State)
	assertDecimal(t, "13100", closed.FinalCash)
	assertDecimal(t, "-100", closed.CashDifference)
	require.NotNil(t, closed.DeviationLevel)
	assert.Equal(t, "normal", *closed.DeviationLevel)
	assert.NotNil(t, closed.ClosedAt)

	_, err = svc.Close(ctx, id, dto.CloseDailyCashRequest{CountedCash: dec("13100")})
	assert.True(t, apierror.Is(err, apierror.KindConflict))

	err = svc.AbsorbOrderPayment(ctx, nil, id, dec("1"), decimal.Zero,
		[]model.OrderPayment{{Method: model.PaymentCash, Amount: dec("1")}})
	assert.True(t, apierror.Is(err, apierror.KindConflict))
}

func TestClassifyDeviation(t *testing.T) {
	tests := []struct {
		diff, expected, want string
	}{
		{"0", "0", "normal"},
		{"10", "0", "critical"},
		{"-100", "10000", "normal"},
		{"100", "10000", "normal"},
		{"-300", "10000", "warning"},
		{"500", "10000", "warning"},
		{"-501", "10000", "critical"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyDeviation(dec(tt.diff), dec(tt.expected)), "diff %s of %s", tt.diff, tt.expected)
	}
}

func TestDailyCash_BusinessDayFollowsTimezone(t *testing.T) {
	loc := time.FixedZone("ART", -3*3600)
	repo := newMemDailyCashRepo()
	// 01:00 UTC on the 16th is still the 15th in UTC-3.
	svc := newDailyCashService(repo, loc, fixedClock(time.Date(2024, 5, 16, 1, 0, 0, 0, time.UTC)))

	resp, err := svc.Open(context.Background(), dto.OpenDailyCashRequest{InitialCash: dec("1")})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-15", resp.Date)
}
