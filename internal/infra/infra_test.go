package infra

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hygpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Circuit breaker ──────────────────────────────────────────────────────────

func newTestBreaker(threshold, trials int) (*CircuitBreaker, *time.Time, *[]BreakerStatus) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	var changes []BreakerStatus
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: threshold, TrialSuccesses: trials, Cooldown: time.Minute,
		OnStateChange: func(st BreakerStatus) { changes = append(changes, st) },
	})
	cb.now = func() time.Time { return now }
	return cb, &now, &changes
}

func TestCircuitBreaker_OpensThenClosesAfterTrials(t *testing.T) {
	cb, now, changes := newTestBreaker(2, 2)
	ctx := context.Background()
	relayDown := errors.New("relay down")
	fail := func() error { return relayDown }
	ok := func() error { return nil }

	assert.ErrorIs(t, cb.Do(ctx, fail), relayDown)
	assert.Equal(t, BreakerClosed, cb.State())
	assert.ErrorIs(t, cb.Do(ctx, fail), relayDown)
	assert.Equal(t, BreakerOpen, cb.State())

	called := false
	assert.ErrorIs(t, cb.Do(ctx, func() error { called = true; return nil }), ErrCircuitOpen)
	assert.False(t, called)

	st := cb.Status()
	assert.Equal(t, "open", st.State)
	assert.Equal(t, 2, st.ConsecutiveFailures)
	assert.EqualValues(t, 1, st.Rejected)
	require.NotNil(t, st.RetryAt)
	assert.Equal(t, now.Add(time.Minute), *st.RetryAt)

	*now = now.Add(time.Minute)
	require.NoError(t, cb.Do(ctx, ok))
	assert.Equal(t, BreakerTrial, cb.State())
	require.NoError(t, cb.Do(ctx, ok))
	assert.Equal(t, BreakerClosed, cb.State())
	assert.Nil(t, cb.Status().RetryAt)

	var seen []string
	for _, c := range *changes {
		seen = append(seen, c.State)
	}
	assert.Equal(t, []string{"open", "trial", "closed"}, seen)
	assert.Equal(t, "smtp", (*changes)[0].Name)
}

func TestCircuitBreaker_FailedTrialReopens(t *testing.T) {
	cb, now, _ := newTestBreaker(1, 1)
	ctx := context.Background()

	_ = cb.Do(ctx, func() error { return errors.New("x") })
	*now = now.Add(time.Minute)
	require.Equal(t, BreakerTrial, cb.State())

	_ = cb.Do(ctx, func() error { return errors.New("still down") })
	assert.Equal(t, BreakerOpen, cb.State())
	require.NotNil(t, cb.Status().RetryAt)
	assert.Equal(t, now.Add(time.Minute), *cb.Status().RetryAt)
}

func TestCircuitBreaker_CancelledSendsDoNotCount(t *testing.T) {
	cb, _, changes := newTestBreaker(1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	err := cb.Do(ctx, func() error {
		cancel()
		return errors.New("dial: operation was canceled")
	})
	require.Error(t, err)
	assert.Equal(t, BreakerClosed, cb.State())

	called := false
	assert.ErrorIs(t, cb.Do(ctx, func() error { called = true; return nil }), context.Canceled)
	assert.False(t, called)
	assert.Zero(t, cb.Status().ConsecutiveFailures)
	assert.Empty(t, *changes)
}

func TestEmailNotifier_FailsFastWhenRelayBreakerIsOpen(t *testing.T) {
	cb, _, _ := newTestBreaker(1, 1)
	_ = cb.Do(context.Background(), func() error { return errors.New("relay down") })

	n := NewEmailNotifier(&Mailer{}, cb, "ops@example.com")
	assert.ErrorIs(t, n.NotifyOperator(context.Background(), "s", "b"), ErrCircuitOpen)
}

// ── Notifiers ────────────────────────────────────────────────────────────────

type fakeNotifier struct {
	err   error
	calls int
}

func (f *fakeNotifier) NotifyOperator(context.Context, string, string) error {
	f.calls++
	return f.err
}

func TestMultiNotifier(t *testing.T) {
	ok := &fakeNotifier{}
	broken := &fakeNotifier{err: errors.New("smtp")}

	require.NoError(t, MultiNotifier{broken, ok}.NotifyOperator(context.Background(), "s", "b"))
	assert.Equal(t, 1, ok.calls)
	assert.Equal(t, 1, broken.calls)

	err := MultiNotifier{broken, &fakeNotifier{err: errors.New("amqp")}}.NotifyOperator(context.Background(), "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp")
	assert.Contains(t, err.Error(), "amqp")

	assert.NoError(t, MultiNotifier{}.NotifyOperator(context.Background(), "s", "b"))
}

// ── Backup ───────────────────────────────────────────────────────────────────

func TestJSONBackup_WritesOneFilePerRun(t *testing.T) {
	dir := t.TempDir()
	b := NewJSONBackup(dir)
	from := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	orders := []model.ArchivedOrder{{ID: uuid.New(), OriginalID: uuid.New(), State: model.OrderClosed, Total: decimal.RequireFromString("155")}}

	path, err := b.Write(from, to, orders)
	require.NoError(t, err)
	assert.Equal(t, "orders_20240506_20240513.json", filepath.Base(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var got backupFile
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, 1, got.Count)
	require.Len(t, got.Orders, 1)
	assert.Equal(t, orders[0].OriginalID, got.Orders[0].OriginalID)
	assert.True(t, got.Orders[0].Total.Equal(decimal.RequireFromString("155")))
}

func TestJSONBackup_EmptyWeek(t *testing.T) {
	b := NewJSONBackup(t.TempDir())
	from := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

	path, err := b.Write(from, from.AddDate(0, 0, 7), nil)
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"orders": []`)
}

// ── PDF ──────────────────────────────────────────────────────────────────────

func TestRenderOrderTicket(t *testing.T) {
	closedAt := time.Date(2024, 5, 15, 22, 10, 0, 0, time.UTC)
	o := &model.Order{
		ID: uuid.New(), State: model.OrderClosed, Date: closedAt, ClosedAt: &closedAt,
		Total: decimal.RequireFromString("155"), Tip: decimal.RequireFromString("10"),
		Table: &model.Table{Name: "Mesa 1"},
		Details: []model.OrderDetail{{
			Quantity: 2, Subtotal: decimal.RequireFromString("100"),
			Product:  &model.Product{Name: "Hamburguesa con cheddar y panceta doble"},
			Toppings: []model.OrderDetailTopping{{UnitIndex: 0, Ingredient: &model.Ingredient{Name: "Cheddar"}}},
		}},
		Payments: []model.OrderPayment{{Method: model.PaymentCash, Amount: decimal.RequireFromString("165")}},
	}

	data, err := RenderOrderTicket(o, time.UTC)
	require.NoError(t, err)
	assert.True(t, len(data) > 100)
	assert.Equal(t, "%PDF", string(data[:4]))

	path, err := SavePDF(t.TempDir(), "ticket.pdf", data)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), info.Size())
}

func TestRenderDailyCashReport(t *testing.T) {
	closedAt := time.Date(2024, 5, 15, 23, 0, 0, 0, time.UTC)
	level := "normal"
	d := &model.DailyCash{
		ID: uuid.New(), Date: "2024-05-15", State: model.DailyCashClosed,
		InitialCash: decimal.RequireFromString("10000"), TotalCash: decimal.RequireFromString("13000"),
		FinalCash: decimal.RequireFromString("12990"), CashDifference: decimal.RequireFromString("-10"),
		DeviationLevel: &level, OpenedAt: closedAt.Add(-12 * time.Hour), ClosedAt: &closedAt,
		Movements: []model.CashMovement{{Type: model.MovementExpense, Amount: decimal.RequireFromString("2000"), Description: "Verdulería", CreatedAt: closedAt}},
	}

	data, err := RenderDailyCashReport(d, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}
