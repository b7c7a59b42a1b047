package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hygpos/internal/apierror"
	"hygpos/internal/dto"
	"hygpos/internal/model"
	"hygpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ArchivableStates are the order states the weekly job moves out of the
// live tables. OPEN orders stay until they are settled.
var ArchivableStates = []string{model.OrderClosed, model.OrderCancelled, model.OrderPendingPayment}

type ArchiveService interface {
	// RunWeekly archives the previous full week, retrying a failed
	// transaction and alerting the operator once retries are exhausted.
	RunWeekly(ctx context.Context) (*dto.ArchiveRunResponse, error)
	// ArchiveRange moves orders dated in [from, to) in a single attempt.
	ArchiveRange(ctx context.Context, from, to time.Time) (*dto.ArchiveRunResponse, error)
	PreviousWeek(now time.Time) (from, to time.Time)
	List(ctx context.Context, from, to string, page, limit int) (*dto.ArchivedOrderListResponse, error)
}

// ArchiveOptions tunes the retry policy of RunWeekly. Retries counts the
// runs after the first one, so a run is tried at most Retries+1 times.
type ArchiveOptions struct {
	Retries  int
	Delay    time.Duration
	Location *time.Location
}

type archiveService struct {
	orders   repository.OrderRepository
	archive  repository.ArchiveRepository
	backup   BackupWriter
	notifier OperatorNotifier
	opts     ArchiveOptions
	clock    func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewArchiveService(
	orders repository.OrderRepository,
	archive repository.ArchiveRepository,
	backup BackupWriter,
	notifier OperatorNotifier,
	opts ArchiveOptions,
) ArchiveService {
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &archiveService{
		orders:   orders,
		archive:  archive,
		backup:   backup,
		notifier: notifier,
		opts:     opts,
		clock:    time.Now,
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// PreviousWeek returns [Monday 00:00, next Monday 00:00) of the week before
// the one containing now, in the business timezone.
func (s *archiveService) PreviousWeek(now time.Time) (time.Time, time.Time) {
	local := now.In(s.opts.Location)
	sinceMonday := (int(local.Weekday()) + 6) % 7
	thisMonday := time.Date(local.Year(), local.Month(), local.Day()-sinceMonday, 0, 0, 0, 0, s.opts.Location)
	return thisMonday.AddDate(0, 0, -7), thisMonday
}

// ── RunWeekly ────────────────────────────────────────────────────────────────

func (s *archiveService) RunWeekly(ctx context.Context) (*dto.ArchiveRunResponse, error) {
	from, to := s.PreviousWeek(s.clock())

	attempts := s.opts.Retries + 1
	var lastErr error
	tried := 0
	for attempt := 1; attempt <= attempts; attempt++ {
		tried = attempt
		resp, err := s.ArchiveRange(ctx, from, to)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		log.Error().Err(err).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Msg("weekly archive attempt failed")
		if attempt < attempts {
			if err := s.sleep(ctx, s.opts.Delay); err != nil {
				lastErr = err
				break
			}
		}
	}

	if s.notifier != nil {
		subject := "Fallo del archivado semanal de órdenes"
		body := fmt.Sprintf("El archivado de órdenes del %s al %s falló tras %d intentos.\n\nÚltimo error: %v",
			from.Format("2006-01-02"), to.Format("2006-01-02"), tried, lastErr)
		if err := s.notifier.NotifyOperator(ctx, subject, body); err != nil {
			log.Error().Err(err).Msg("operator notification failed")
		}
	}
	return nil, keepKind(lastErr, "el archivado semanal falló")
}

// ── ArchiveRange ─────────────────────────────────────────────────────────────
// One transaction: load → copy into archived_* → delete originals.
// The JSON backup is written only after commit and never fails the run.

func (s *archiveService) ArchiveRange(ctx context.Context, from, to time.Time) (*dto.ArchiveRunResponse, error) {
	if !from.Before(to) {
		return nil, apierror.Validation("rango de archivado inválido")
	}
	now := s.clock()
	var archived []model.ArchivedOrder

	txErr := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		orders, err := s.orders.FindArchivable(ctx, tx, ArchivableStates, from, to)
		if err != nil {
			return apierror.Internal("no se pudieron leer las órdenes a archivar", err)
		}
		if len(orders) == 0 {
			return nil
		}
		ids := make([]uuid.UUID, 0, len(orders))
		archived = make([]model.ArchivedOrder, 0, len(orders))
		for i := range orders {
			a, err := ToArchivedOrder(&orders[i], now)
			if err != nil {
				return apierror.Internal("no se pudo serializar la orden", err)
			}
			archived = append(archived, a)
			ids = append(ids, orders[i].ID)
		}
		if err := s.archive.InsertOrders(ctx, tx, archived); err != nil {
			return apierror.Internal("no se pudieron insertar las órdenes archivadas", err)
		}
		if err := s.orders.DeleteOrders(ctx, tx, ids); err != nil {
			return apierror.Internal("no se pudieron borrar las órdenes archivadas", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := &dto.ArchiveRunResponse{
		From:   formatTime(from),
		To:     formatTime(to),
		Orders: len(archived),
	}
	log.Info().Str("from", resp.From).Str("to", resp.To).Int("orders", resp.Orders).Msg("orders archived")

	if s.backup != nil {
		path, err := s.backup.Write(from, to, archived)
		if err != nil {
			log.Error().Err(err).Msg("archive backup failed")
		} else {
			resp.BackupPath = path
		}
	}
	return resp, nil
}

// ── List ─────────────────────────────────────────────────────────────────────

func (s *archiveService) List(ctx context.Context, from, to string, page, limit int) (*dto.ArchivedOrderListResponse, error) {
	start, end, err := s.parseRange(from, to)
	if err != nil {
		return nil, err
	}
	list, total, err := s.archive.List(ctx, start, end, repository.Page{Page: page, Limit: limit})
	if err != nil {
		return nil, apierror.Internal("no se pudo listar el archivo", err)
	}
	data := make([]dto.ArchivedOrderResponse, 0, len(list))
	for _, a := range list {
		data = append(data, dto.ArchivedOrderResponse{
			ID:         a.ID.String(),
			OriginalID: a.OriginalID.String(),
			State:      a.State,
			Date:       formatTime(a.Date),
			Table:      a.TableLabel,
			Total:      a.Total,
			Tip:        a.Tip,
			Lines:      len(a.Details),
		})
	}
	return &dto.ArchivedOrderListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

// parseRange reads YYYY-MM-DD bounds; "to" is inclusive. Missing bounds
// default to the last 30 days.
func (s *archiveService) parseRange(from, to string) (time.Time, time.Time, error) {
	loc := s.opts.Location
	now := s.clock().In(loc)
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -30)
	if to != "" {
		t, err := time.ParseInLocation("2006-01-02", to, loc)
		if err != nil {
			return start, end, apierror.Validation("fecha 'to' inválida, use YYYY-MM-DD")
		}
		end = t.AddDate(0, 0, 1)
	}
	if from != "" {
		t, err := time.ParseInLocation("2006-01-02", from, loc)
		if err != nil {
			return start, end, apierror.Validation("fecha 'from' inválida, use YYYY-MM-DD")
		}
		start = t
	}
	if !start.Before(end) {
		return start, end, apierror.Validation("el rango de fechas es inválido")
	}
	return start, end, nil
}

// ── Mapping ──────────────────────────────────────────────────────────────────

// ToArchivedOrder copies a fully loaded order into its archived shape.
func ToArchivedOrder(o *model.Order, archivedAt time.Time) (model.ArchivedOrder, error) {
	a := model.ArchivedOrder{
		ID:              uuid.New(),
		OriginalID:      o.ID,
		State:           o.State,
		Date:            o.Date,
		Total:           o.Total,
		Tip:             o.Tip,
		NumberCustomers: o.NumberCustomers,
		Comment:         o.Comment,
		DailyCashID:     o.DailyCashID,
		CreatedAt:       o.CreatedAt,
		ClosedAt:        o.ClosedAt,
		ArchivedAt:      archivedAt,
	}
	if o.Table != nil {
		name := o.Table.Name
		a.TableLabel = &name
	}
	for _, d := range o.Details {
		toppings := make([]model.ArchivedTopping, 0, len(d.Toppings))
		for _, t := range d.Toppings {
			at := model.ArchivedTopping{
				UnitIndex:       t.UnitIndex,
				IngredientID:    t.IngredientID,
				ToppingsGroupID: t.ToppingsGroupID,
				ExtraCost:       t.ExtraCost,
			}
			if t.Ingredient != nil {
				at.Name = t.Ingredient.Name
			}
			toppings = append(toppings, at)
		}
		selections := make([]model.ArchivedPromotionSelection, 0, len(d.PromotionSelections))
		for _, sel := range d.PromotionSelections {
			as := model.ArchivedPromotionSelection{
				SlotID:    sel.SlotID,
				ProductID: sel.ProductID,
				ExtraCost: sel.ExtraCost,
			}
			if sel.Product != nil {
				as.ProductName = sel.Product.Name
			}
			selections = append(selections, as)
		}
		tj, err := json.Marshal(toppings)
		if err != nil {
			return a, err
		}
		sj, err := json.Marshal(selections)
		if err != nil {
			return a, err
		}

		ad := model.ArchivedOrderDetail{
			ID:                  uuid.New(),
			ArchivedOrderID:     a.ID,
			ProductID:           d.ProductID,
			Quantity:            d.Quantity,
			UnitaryPrice:        d.UnitaryPrice,
			ToppingsExtraCost:   d.ToppingsExtraCost,
			Subtotal:            d.Subtotal,
			CommandNumber:       d.CommandNumber,
			Toppings:            datatypes.JSON(tj),
			PromotionSelections: datatypes.JSON(sj),
		}
		if d.Product != nil {
			ad.ProductName = d.Product.Name
		}
		a.Details = append(a.Details, ad)
	}
	for _, p := range o.Payments {
		a.Payments = append(a.Payments, model.ArchivedOrderPayment{
			ID:              uuid.New(),
			ArchivedOrderID: a.ID,
			Method:          p.Method,
			Amount:          p.Amount,
			CreatedAt:       p.CreatedAt,
		})
	}
	return a, nil
}
