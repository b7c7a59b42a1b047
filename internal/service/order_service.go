package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hygpos/internal/apierror"
	"hygpos/internal/dto"
	"hygpos/internal/model"
	"hygpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderService interface {
	Open(ctx context.Context, req dto.OpenOrderRequest) (*dto.OrderResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	UpdateHeader(ctx context.Context, id uuid.UUID, req dto.UpdateOrderRequest) (*dto.OrderResponse, error)
	AddDetails(ctx context.Context, id uuid.UUID, req dto.AddDetailsRequest) (*dto.OrderResponse, error)
	RemoveDetail(ctx context.Context, id, detailID uuid.UUID) (*dto.OrderResponse, error)
	RequestClose(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	Close(ctx context.Context, id uuid.UUID, req dto.CloseOrderRequest) (*dto.OrderResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	Transfer(ctx context.Context, id uuid.UUID, req dto.TransferOrderRequest) (*dto.OrderResponse, error)
	// Load returns the full aggregate, for ticket rendering.
	Load(ctx context.Context, id uuid.UUID) (*model.Order, error)
}

type orderService struct {
	repo    repository.OrderRepository
	tables  repository.TableRepository
	builder *OrderLineBuilder
	cash    DailyCashService
	events  EventPublisher
	jobs    JobQueue
	loc     *time.Location
	clock   func() time.Time
}

func NewOrderService(
	repo repository.OrderRepository,
	tables repository.TableRepository,
	builder *OrderLineBuilder,
	cash DailyCashService,
	events EventPublisher,
	jobs JobQueue,
	loc *time.Location,
) OrderService {
	if loc == nil {
		loc = time.UTC
	}
	return &orderService{
		repo:    repo,
		tables:  tables,
		builder: builder,
		cash:    cash,
		events:  events,
		jobs:    jobs,
		loc:     loc,
		clock:   time.Now,
	}
}

// ── Open ─────────────────────────────────────────────────────────────────────

func (s *orderService) Open(ctx context.Context, req dto.OpenOrderRequest) (*dto.OrderResponse, error) {
	tableID, err := parseOptionalID("table_id", req.TableID)
	if err != nil {
		return nil, err
	}
	customerID, err := parseOptionalID("customer_id", req.CustomerID)
	if err != nil {
		return nil, err
	}
	if req.NumberCustomers < 0 {
		return nil, apierror.Validation("la cantidad de comensales no puede ser negativa")
	}
	lines, err := toLineRequests(req.Details)
	if err != nil {
		return nil, err
	}

	o := &model.Order{
		State:           model.OrderOpen,
		Date:            s.clock(),
		NumberCustomers: req.NumberCustomers,
		Comment:         req.Comment,
		TableID:         tableID,
		CustomerID:      customerID,
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if tableID != nil {
			if err := s.claimTable(ctx, tx, *tableID); err != nil {
				return err
			}
		}
		// An order may be opened before the cash; close attaches it later.
		if d, err := s.cash.OpenLedgerFor(ctx, tx, nil); err == nil {
			o.DailyCashID = &d.ID
		} else if !apierror.Is(err, apierror.KindConflict) {
			return err
		}

		details, err := s.buildLines(ctx, tx, lines)
		if err != nil {
			return err
		}
		if err := s.repo.Create(ctx, tx, o); err != nil {
			return apierror.Internal("no se pudo crear la orden", err)
		}
		return s.persistLines(ctx, tx, o.ID, details)
	})
	if txErr != nil {
		return nil, txErr
	}
	log.Info().Str("order_id", o.ID.String()).Msg("order opened")
	return s.reloadAndAnnounce(ctx, o.ID)
}

func (s *orderService) claimTable(ctx context.Context, tx *gorm.DB, tableID uuid.UUID) error {
	t, err := s.tables.FindByID(ctx, tx, tableID)
	if err != nil {
		return notFoundOr(err, "mesa no encontrada")
	}
	if !t.IsActive {
		return apierror.Validation(fmt.Sprintf("la mesa %s está inactiva", t.Name))
	}
	if t.State != model.TableAvailable {
		return apierror.Conflict(fmt.Sprintf("la mesa %s está ocupada", t.Name))
	}
	if _, err := s.repo.FindActiveByTable(ctx, tx, tableID); err == nil {
		return apierror.Conflict(fmt.Sprintf("la mesa %s ya tiene una orden abierta", t.Name))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.Internal("no se pudo consultar la mesa", err)
	}
	if err := s.tables.UpdateState(ctx, tx, tableID, model.TableOpen); err != nil {
		return apierror.Internal("no se pudo actualizar la mesa", err)
	}
	return nil
}

// ── Lines ────────────────────────────────────────────────────────────────────

func (s *orderService) AddDetails(ctx context.Context, id uuid.UUID, req dto.AddDetailsRequest) (*dto.OrderResponse, error) {
	if len(req.Details) == 0 {
		return nil, apierror.Validation("se requiere al menos una línea")
	}
	lines, err := toLineRequests(req.Details)
	if err != nil {
		return nil, err
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		o, err := s.lockOpen(ctx, tx, id)
		if err != nil {
			return err
		}
		details, err := s.buildLines(ctx, tx, lines)
		if err != nil {
			return err
		}
		return s.persistLines(ctx, tx, o.ID, details)
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.reloadAndAnnounce(ctx, id)
}

func (s *orderService) RemoveDetail(ctx context.Context, id, detailID uuid.UUID) (*dto.OrderResponse, error) {
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.lockOpen(ctx, tx, id); err != nil {
			return err
		}
		if err := s.repo.DeleteDetail(ctx, tx, id, detailID); err != nil {
			return notFoundOr(err, "línea no encontrada")
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.reloadAndAnnounce(ctx, id)
}

func (s *orderService) buildLines(ctx context.Context, tx *gorm.DB, lines []LineRequest) ([]model.OrderDetail, error) {
	out := make([]model.OrderDetail, 0, len(lines))
	for _, l := range lines {
		d, err := s.builder.Build(ctx, tx, l)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

// persistLines drops the catalog pointers the builder resolved so gorm
// inserts only the line rows.
func (s *orderService) persistLines(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, details []model.OrderDetail) error {
	if len(details) == 0 {
		return nil
	}
	for i := range details {
		details[i].OrderID = orderID
		details[i].Product = nil
		for j := range details[i].Toppings {
			details[i].Toppings[j].Ingredient = nil
		}
		for j := range details[i].PromotionSelections {
			details[i].PromotionSelections[j].Product = nil
		}
	}
	if err := s.repo.AddDetails(ctx, tx, details); err != nil {
		return apierror.Internal("no se pudo guardar las líneas", err)
	}
	return nil
}

// ── Header ───────────────────────────────────────────────────────────────────

func (s *orderService) UpdateHeader(ctx context.Context, id uuid.UUID, req dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	customerID, err := parseOptionalID("customer_id", req.CustomerID)
	if err != nil {
		return nil, err
	}
	if req.NumberCustomers != nil && *req.NumberCustomers < 0 {
		return nil, apierror.Validation("la cantidad de comensales no puede ser negativa")
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		o, err := s.lockOpen(ctx, tx, id)
		if err != nil {
			return err
		}
		if req.NumberCustomers != nil {
			o.NumberCustomers = *req.NumberCustomers
		}
		if req.Comment != nil {
			o.Comment = req.Comment
		}
		if customerID != nil {
			o.CustomerID = customerID
		}
		return s.saveHeader(ctx, tx, o)
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.reloadAndAnnounce(ctx, id)
}

// ── State transitions ────────────────────────────────────────────────────────

func (s *orderService) RequestClose(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		o, err := s.lockOpen(ctx, tx, id)
		if err != nil {
			return err
		}
		if len(o.Details) == 0 {
			return apierror.Validation("la orden no tiene líneas")
		}
		o.State = model.OrderPendingPayment
		if err := s.saveHeader(ctx, tx, o); err != nil {
			return err
		}
		return s.syncTable(ctx, tx, o.TableID, model.TablePendingPayment)
	})
	if txErr != nil {
		return nil, txErr
	}
	log.Info().Str("order_id", id.String()).Msg("order pending payment")
	return s.reloadAndAnnounce(ctx, id)
}

// Close settles the order. The declared total includes the tip:
//
//	totalConsumed = Σ detail.subtotal
//	tip           = declaredTotal − totalConsumed   (must be >= 0)
//	Σ payments    = declaredTotal
//
// The payments are absorbed into the open daily cash in the same
// transaction. A closed order can never be closed again.
func (s *orderService) Close(ctx context.Context, id uuid.UUID, req dto.CloseOrderRequest) (*dto.OrderResponse, error) {
	if req.Total.IsNegative() {
		return nil, apierror.Validation("el total declarado no puede ser negativo")
	}
	payments, paid, err := toPayments(req.Payments)
	if err != nil {
		return nil, err
	}
	if !paid.Equal(req.Total) {
		return nil, apierror.Validation(fmt.Sprintf(
			"la suma de los pagos (%s) no coincide con el total declarado (%s)", paid.StringFixed(2), req.Total.StringFixed(2)))
	}

	var o *model.Order
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		o, err = s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "orden no encontrada")
		}
		switch o.State {
		case model.OrderClosed:
			return apierror.Conflict("la orden ya está cerrada")
		case model.OrderCancelled:
			return apierror.Conflict("la orden está cancelada")
		}

		consumed := TotalConsumed(o.Details)
		tip := req.Total.Sub(consumed)
		if tip.IsNegative() {
			return apierror.Validation(fmt.Sprintf(
				"el total declarado (%s) es menor al consumo (%s)", req.Total.StringFixed(2), consumed.StringFixed(2)))
		}

		ledger, err := s.cash.OpenLedgerFor(ctx, tx, o.DailyCashID)
		if err != nil {
			return err
		}

		now := s.clock()
		o.State = model.OrderClosed
		// Total is what was consumed; the excess over it is the tip.
		o.Total = consumed
		o.Tip = tip
		o.ClosedAt = &now
		o.DailyCashID = &ledger.ID
		if err := s.saveHeader(ctx, tx, o); err != nil {
			return err
		}
		for i := range payments {
			payments[i].OrderID = o.ID
			payments[i].CreatedAt = now
		}
		if err := s.repo.CreatePayments(ctx, tx, payments); err != nil {
			return apierror.Internal("no se pudo registrar los pagos", err)
		}
		if err := s.cash.AbsorbOrderPayment(ctx, tx, ledger.ID, consumed, tip, payments); err != nil {
			return err
		}
		return s.syncTable(ctx, tx, o.TableID, model.TableAvailable)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("order_id", id.String()).
		Str("total", o.Total.String()).
		Str("tip", o.Tip.String()).
		Msg("order closed")

	if s.jobs != nil {
		if err := s.jobs.EnqueueOrderTicket(ctx, id); err != nil {
			log.Warn().Err(err).Str("order_id", id.String()).Msg("ticket job not enqueued")
		}
	}
	return s.reloadAndAnnounce(ctx, id)
}

func (s *orderService) Cancel(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		o, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "orden no encontrada")
		}
		if o.IsTerminal() {
			return apierror.Conflict(fmt.Sprintf("no se puede cancelar una orden en estado %s", o.State))
		}
		o.State = model.OrderCancelled
		if err := s.saveHeader(ctx, tx, o); err != nil {
			return err
		}
		return s.syncTable(ctx, tx, o.TableID, model.TableAvailable)
	})
	if txErr != nil {
		return nil, txErr
	}
	log.Info().Str("order_id", id.String()).Msg("order cancelled")
	return s.reloadAndAnnounce(ctx, id)
}

// Transfer moves a live order from one table to another. The source table
// must be the one the order currently sits on.
func (s *orderService) Transfer(ctx context.Context, id uuid.UUID, req dto.TransferOrderRequest) (*dto.OrderResponse, error) {
	fromID, err := parseID("from_table_id", req.FromTableID)
	if err != nil {
		return nil, err
	}
	toID, err := parseID("to_table_id", req.ToTableID)
	if err != nil {
		return nil, err
	}
	if fromID == toID {
		return nil, apierror.Validation("la mesa de origen y destino son la misma")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		o, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "orden no encontrada")
		}
		if o.IsTerminal() {
			return apierror.Conflict(fmt.Sprintf("no se puede transferir una orden en estado %s", o.State))
		}
		if o.TableID == nil || *o.TableID != fromID {
			return apierror.Validation("la orden no está en la mesa de origen")
		}
		if err := s.claimTable(ctx, tx, toID); err != nil {
			return err
		}
		if o.State == model.OrderPendingPayment {
			if err := s.tables.UpdateState(ctx, tx, toID, model.TablePendingPayment); err != nil {
				return apierror.Internal("no se pudo actualizar la mesa", err)
			}
		}
		if err := s.syncTable(ctx, tx, &fromID, model.TableAvailable); err != nil {
			return err
		}
		o.TableID = &toID
		return s.saveHeader(ctx, tx, o)
	})
	if txErr != nil {
		return nil, txErr
	}
	log.Info().
		Str("order_id", id.String()).
		Str("from_table", fromID.String()).
		Str("to_table", toID.String()).
		Msg("order transferred")
	return s.reloadAndAnnounce(ctx, id)
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	o, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return orderToResponse(o), nil
}

func (s *orderService) Load(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	o, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "orden no encontrada")
	}
	return o, nil
}

func (s *orderService) List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	f := repository.OrderFilter{
		State: filter.State,
		Page:  repository.Page{Page: filter.Page, Limit: filter.Limit},
	}
	if filter.TableID != "" {
		tid, err := parseID("table_id", filter.TableID)
		if err != nil {
			return nil, err
		}
		f.TableID = &tid
	}
	if filter.Date != "" {
		day, err := time.ParseInLocation("2006-01-02", filter.Date, s.loc)
		if err != nil {
			return nil, apierror.Validation("fecha inválida, use YYYY-MM-DD")
		}
		next := day.AddDate(0, 0, 1)
		f.From, f.To = &day, &next
	}

	list, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, apierror.Internal("no se pudo listar las órdenes", err)
	}
	data := make([]dto.OrderResponse, 0, len(list))
	for i := range list {
		data = append(data, *orderToResponse(&list[i]))
	}
	return &dto.OrderListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// lockOpen loads the order for update and rejects anything not OPEN.
func (s *orderService) lockOpen(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	o, err := s.repo.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, notFoundOr(err, "orden no encontrada")
	}
	if o.State != model.OrderOpen {
		return nil, apierror.Conflict(fmt.Sprintf("la orden está en estado %s y no admite cambios", o.State))
	}
	return o, nil
}

func (s *orderService) saveHeader(ctx context.Context, tx *gorm.DB, o *model.Order) error {
	o.UpdatedAt = s.clock()
	if err := s.repo.UpdateHeader(ctx, tx, o); err != nil {
		return apierror.Internal("no se pudo actualizar la orden", err)
	}
	return nil
}

func (s *orderService) syncTable(ctx context.Context, tx *gorm.DB, tableID *uuid.UUID, state string) error {
	if tableID == nil {
		return nil
	}
	if err := s.tables.UpdateState(ctx, tx, *tableID, state); err != nil {
		return apierror.Internal("no se pudo actualizar la mesa", err)
	}
	return nil
}

func (s *orderService) reloadAndAnnounce(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	resp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.Publish(EventOrderUpdated, resp)
	}
	return resp, nil
}

// TotalConsumed is Σ subtotal over the lines. Topping extras are already
// inside each subtotal.
func TotalConsumed(details []model.OrderDetail) decimal.Decimal {
	total := decimal.Zero
	for _, d := range details {
		total = total.Add(d.Subtotal)
	}
	return total
}

func toLineRequests(reqs []dto.OrderLineRequest) ([]LineRequest, error) {
	out := make([]LineRequest, 0, len(reqs))
	for _, r := range reqs {
		pid, err := parseID("product_id", r.ProductID)
		if err != nil {
			return nil, err
		}
		line := LineRequest{ProductID: pid, Quantity: r.Quantity, CommandNumber: r.CommandNumber}
		for _, unit := range r.ToppingsPerUnit {
			ids := make([]uuid.UUID, 0, len(unit))
			for _, raw := range unit {
				id, err := parseID("topping", raw)
				if err != nil {
					return nil, err
				}
				ids = append(ids, id)
			}
			line.ToppingsPerUnit = append(line.ToppingsPerUnit, ids)
		}
		for _, sel := range r.PromotionSelections {
			slotID, err := parseID("slot_id", sel.SlotID)
			if err != nil {
				return nil, err
			}
			prodID, err := parseID("product_id", sel.ProductID)
			if err != nil {
				return nil, err
			}
			line.PromotionSelections = append(line.PromotionSelections, SlotSelection{SlotID: slotID, ProductID: prodID})
		}
		out = append(out, line)
	}
	return out, nil
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:              o.ID.String(),
		State:           o.State,
		Date:            formatTime(o.Date),
		TableID:         idPtrString(o.TableID),
		DailyCashID:     idPtrString(o.DailyCashID),
		NumberCustomers: o.NumberCustomers,
		Comment:         o.Comment,
		TotalConsumed:   TotalConsumed(o.Details),
		Total:           o.Total,
		Tip:             o.Tip,
		Details:         make([]dto.OrderDetailResponse, 0, len(o.Details)),
		Payments:        make([]dto.OrderPaymentResponse, 0, len(o.Payments)),
		ClosedAt:        formatTimePtr(o.ClosedAt),
	}
	if o.Table != nil {
		name := o.Table.Name
		resp.TableName = &name
	}
	for _, d := range o.Details {
		resp.Details = append(resp.Details, detailToResponse(d))
	}
	for _, p := range o.Payments {
		resp.Payments = append(resp.Payments, dto.OrderPaymentResponse{Method: p.Method, Amount: p.Amount})
	}
	return resp
}

func detailToResponse(d model.OrderDetail) dto.OrderDetailResponse {
	r := dto.OrderDetailResponse{
		ID:                  d.ID.String(),
		ProductID:           d.ProductID.String(),
		Quantity:            d.Quantity,
		UnitaryPrice:        d.UnitaryPrice,
		ToppingsExtraCost:   d.ToppingsExtraCost,
		Subtotal:            d.Subtotal,
		CommandNumber:       d.CommandNumber,
		Toppings:            make([]dto.OrderToppingResponse, 0, len(d.Toppings)),
		PromotionSelections: make([]dto.OrderPromotionSelectionResponse, 0, len(d.PromotionSelections)),
	}
	if d.Product != nil {
		r.ProductName = d.Product.Name
	}
	for _, t := range d.Toppings {
		tr := dto.OrderToppingResponse{
			UnitIndex:       t.UnitIndex,
			IngredientID:    t.IngredientID.String(),
			ToppingsGroupID: t.ToppingsGroupID.String(),
			ExtraCost:       t.ExtraCost,
		}
		if t.Ingredient != nil {
			tr.Name = t.Ingredient.Name
		}
		r.Toppings = append(r.Toppings, tr)
	}
	for _, sel := range d.PromotionSelections {
		sr := dto.OrderPromotionSelectionResponse{
			SlotID:    sel.SlotID.String(),
			ProductID: sel.ProductID.String(),
			ExtraCost: sel.ExtraCost,
		}
		if sel.Product != nil {
			sr.ProductName = sel.Product.Name
		}
		r.PromotionSelections = append(r.PromotionSelections, sr)
	}
	return r
}
