package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hygpos/internal/infra"
	"hygpos/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// OrderLoader returns a fully loaded order.
type OrderLoader interface {
	Load(ctx context.Context, id uuid.UUID) (*model.Order, error)
}

// TicketWorker renders the PDF ticket of a closed order into the storage
// directory as order_{id}.pdf.
type TicketWorker struct {
	orders      OrderLoader
	storagePath string
	loc         *time.Location
}

func NewTicketWorker(orders OrderLoader, storagePath string, loc *time.Location) *TicketWorker {
	return &TicketWorker{orders: orders, storagePath: storagePath, loc: loc}
}

func TicketFileName(orderID uuid.UUID) string {
	return fmt.Sprintf("order_%s.pdf", orderID)
}

func (w *TicketWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload TicketJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("ticket_worker: invalid payload: %w", err)
	}
	id, err := uuid.Parse(payload.OrderID)
	if err != nil {
		return fmt.Errorf("ticket_worker: invalid order_id %q", payload.OrderID)
	}

	o, err := w.orders.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("ticket_worker: load order: %w", err)
	}
	if o.State != model.OrderClosed {
		log.Warn().Str("order_id", id.String()).Str("state", o.State).Msg("ticket_worker: order not closed, skipping")
		return nil
	}

	data, err := infra.RenderOrderTicket(o, w.loc)
	if err != nil {
		return err
	}
	path, err := infra.SavePDF(w.storagePath, TicketFileName(id), data)
	if err != nil {
		return err
	}
	log.Info().Str("order_id", id.String()).Str("path", path).Msg("ticket_worker: ticket rendered")
	return nil
}
