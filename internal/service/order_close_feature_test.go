package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"hygpos/internal/apierror"
	"hygpos/internal/dto"
	"hygpos/internal/model"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type orderCloseContext struct {
	t       *testing.T
	f       *orderFixture
	orderID uuid.UUID
	resp    *dto.OrderResponse
	err     error
}

func (c *orderCloseContext) reset() {
	c.f = newOrderFixture(c.t, false)
	c.orderID = uuid.Nil
	c.resp = nil
	c.err = nil
}

func (c *orderCloseContext) anOrderOnConsuming(table string, consumed int) error {
	if c.f.table.Name != table {
		return fmt.Errorf("unknown table %q", table)
	}
	c.orderID = c.f.openOrder(c.t)
	o, err := c.f.svc.Get(context.Background(), c.orderID)
	if err != nil {
		return err
	}
	if !o.TotalConsumed.Equal(decimal.NewFromInt(int64(consumed))) {
		return fmt.Errorf("expected consumed %d, got %s", consumed, o.TotalConsumed)
	}
	return nil
}

func (c *orderCloseContext) theDailyCashIsOpenWith(initial int) error {
	_, err := c.f.cash.Open(context.Background(), dto.OpenDailyCashRequest{InitialCash: decimal.NewFromInt(int64(initial))})
	return err
}

func (c *orderCloseContext) close(total int, payments []dto.PaymentRequest) {
	c.resp, c.err = c.f.svc.Close(context.Background(), c.orderID, dto.CloseOrderRequest{
		Total:    decimal.NewFromInt(int64(total)),
		Payments: payments,
	})
}

func (c *orderCloseContext) theOrderIsClosedDeclaringPaidInCash(total int) error {
	c.close(total, []dto.PaymentRequest{{Method: model.PaymentCash, Amount: decimal.NewFromInt(int64(total))}})
	return nil
}

func (c *orderCloseContext) theOrderIsClosedDeclaringPaidAsCashAnd(total, cash, other int, method string) error {
	c.close(total, []dto.PaymentRequest{
		{Method: model.PaymentCash, Amount: decimal.NewFromInt(int64(cash))},
		{Method: method, Amount: decimal.NewFromInt(int64(other))},
	})
	return nil
}

func (c *orderCloseContext) theOrderIs(state string) error {
	o, err := c.f.svc.Get(context.Background(), c.orderID)
	if err != nil {
		return err
	}
	if o.State != state {
		return fmt.Errorf("expected order %s, got %s", state, o.State)
	}
	return nil
}

func (c *orderCloseContext) theTipIs(tip int) error {
	if c.err != nil {
		return fmt.Errorf("expected a closed order but got error: %v", c.err)
	}
	if !c.resp.Tip.Equal(decimal.NewFromInt(int64(tip))) {
		return fmt.Errorf("expected tip %d, got %s", tip, c.resp.Tip)
	}
	return nil
}

func (c *orderCloseContext) theOrderTotalIs(total int) error {
	if c.err != nil {
		return fmt.Errorf("expected a closed order but got error: %v", c.err)
	}
	if !c.resp.Total.Equal(decimal.NewFromInt(int64(total))) {
		return fmt.Errorf("expected order total %d, got %s", total, c.resp.Total)
	}
	return nil
}

func (c *orderCloseContext) theCloseFailsAs(kind string) error {
	if c.err == nil {
		return errors.New("expected the close to fail but it succeeded")
	}
	if got := apierror.KindOf(c.err).String(); got != kind {
		return fmt.Errorf("expected %s error, got %s (%v)", kind, got, c.err)
	}
	return nil
}

func (c *orderCloseContext) theTableIs(name, state string) error {
	for _, tb := range c.f.tables.tables {
		if tb.Name == name {
			if tb.State != state {
				return fmt.Errorf("expected table %s %s, got %s", name, state, tb.State)
			}
			return nil
		}
	}
	return fmt.Errorf("unknown table %q", name)
}

func (c *orderCloseContext) theDailyCashShows(sales, tips, cash int) error {
	today, err := c.f.cash.Today(context.Background())
	if err != nil {
		return err
	}
	checks := []struct {
		name string
		want int
		got  decimal.Decimal
	}{
		{"sales", sales, today.TotalSales},
		{"tips", tips, today.TotalTips},
		{"cash", cash, today.Totals.Cash},
	}
	for _, ch := range checks {
		if !ch.got.Equal(decimal.NewFromInt(int64(ch.want))) {
			return fmt.Errorf("expected %s %d, got %s", ch.name, ch.want, ch.got)
		}
	}
	return nil
}

func (c *orderCloseContext) aTicketIsQueuedForTheOrder() error {
	if len(c.f.queue.tickets) != 1 || c.f.queue.tickets[0] != c.orderID {
		return fmt.Errorf("expected one ticket for %s, got %v", c.orderID, c.f.queue.tickets)
	}
	return nil
}

func initializeOrderCloseScenario(t *testing.T) func(*godog.ScenarioContext) {
	return func(ctx *godog.ScenarioContext) {
		tc := &orderCloseContext{t: t}

		ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
			tc.reset()
			return ctx, nil
		})

		// Given steps
		ctx.Step(`^an order on "([^"]*)" consuming (\d+)$`, tc.anOrderOnConsuming)
		ctx.Step(`^the daily cash is open with (\d+) in cash$`, tc.theDailyCashIsOpenWith)

		// When steps
		ctx.Step(`^the order is closed declaring (\d+) paid in cash$`, tc.theOrderIsClosedDeclaringPaidInCash)
		ctx.Step(`^the order is closed declaring (\d+) paid as (\d+) cash and (\d+) (\w+)$`, tc.theOrderIsClosedDeclaringPaidAsCashAnd)

		// Then steps
		ctx.Step(`^the order is "([^"]*)"$`, tc.theOrderIs)
		ctx.Step(`^the tip is (\d+)$`, tc.theTipIs)
		ctx.Step(`^the order total is (\d+)$`, tc.theOrderTotalIs)
		ctx.Step(`^the close fails as "([^"]*)"$`, tc.theCloseFailsAs)
		ctx.Step(`^the table "([^"]*)" is "([^"]*)"$`, tc.theTableIs)
		ctx.Step(`^the daily cash shows sales (\d+), tips (\d+) and cash (\d+)$`, tc.theDailyCashShows)
		ctx.Step(`^a ticket is queued for the order$`, tc.aTicketIsQueuedForTheOrder)
	}
}

func TestOrderCloseFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeOrderCloseScenario(t),
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/order_close.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
