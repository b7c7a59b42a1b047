package service

import (
	"context"
	"errors"
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

type DailyCashService interface {
	Open(ctx context.Context, req dto.OpenDailyCashRequest) (*dto.DailyCashResponse, error)
	RegisterMovement(ctx context.Context, req dto.CashMovementRequest) (*dto.CashMovementResponse, error)
	Close(ctx context.Context, id uuid.UUID, req dto.CloseDailyCashRequest) (*dto.DailyCashResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.DailyCashResponse, error)
	Today(ctx context.Context) (*dto.DailyCashResponse, error)
	History(ctx context.Context, page, limit int) (*dto.DailyCashListResponse, error)
	// Load returns the ledger with its movements, for rendering.
	Load(ctx context.Context, id uuid.UUID) (*model.DailyCash, error)

	// OpenLedgerFor returns the open ledger an order closing now must credit:
	// the order's own ledger if still open, otherwise today's open ledger.
	OpenLedgerFor(ctx context.Context, tx *gorm.DB, preferred *uuid.UUID) (*model.DailyCash, error)
	// AbsorbOrderPayment credits a closed order into the ledger inside the
	// caller's transaction.
	AbsorbOrderPayment(ctx context.Context, tx *gorm.DB, dailyCashID uuid.UUID, consumed, tip decimal.Decimal, payments []model.OrderPayment) error
}

type dailyCashService struct {
	repo  repository.DailyCashRepository
	loc   *time.Location
	clock func() time.Time
}

func NewDailyCashService(repo repository.DailyCashRepository, loc *time.Location) DailyCashService {
	return newDailyCashService(repo, loc, time.Now)
}

func newDailyCashService(repo repository.DailyCashRepository, loc *time.Location, clock func() time.Time) *dailyCashService {
	if loc == nil {
		loc = time.UTC
	}
	return &dailyCashService{repo: repo, loc: loc, clock: clock}
}

// businessDay is today's date in the business timezone.
func (s *dailyCashService) businessDay() string {
	return s.clock().In(s.loc).Format("2006-01-02")
}

// ── Open ─────────────────────────────────────────────────────────────────────

func (s *dailyCashService) Open(ctx context.Context, req dto.OpenDailyCashRequest) (*dto.DailyCashResponse, error) {
	if req.InitialCash.IsNegative() {
		return nil, apierror.Validation("el efectivo inicial no puede ser negativo")
	}
	day := s.businessDay()
	if _, err := s.repo.FindByDate(ctx, nil, day); err == nil {
		return nil, apierror.Conflict("ya existe una caja para el día " + day)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.Internal("no se pudo consultar la caja", err)
	}

	d := &model.DailyCash{
		Date:        day,
		State:       model.DailyCashOpen,
		InitialCash: req.InitialCash,
		TotalCash:   req.InitialCash,
		Comment:     req.Comment,
		OpenedAt:    s.clock(),
	}
	if err := s.repo.Create(ctx, nil, d); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("ya existe una caja para el día " + day)
		}
		return nil, apierror.Internal("no se pudo abrir la caja", err)
	}
	log.Info().Str("daily_cash_id", d.ID.String()).Str("date", day).Msg("daily cash opened")
	return dailyCashToResponse(d), nil
}

// ── RegisterMovement ─────────────────────────────────────────────────────────
// Movements are immutable; expenses subtract from the per-method totals.

func (s *dailyCashService) RegisterMovement(ctx context.Context, req dto.CashMovementRequest) (*dto.CashMovementResponse, error) {
	if req.Type != model.MovementIncome && req.Type != model.MovementExpense {
		return nil, apierror.Validation("tipo de movimiento inválido")
	}
	payments, amount, err := toPayments(req.Payments)
	if err != nil {
		return nil, err
	}

	var mov *model.CashMovement
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		d, err := s.repo.FindByDate(ctx, tx, s.businessDay())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.Conflict("no hay caja abierta hoy")
			}
			return apierror.Internal("no se pudo consultar la caja", err)
		}
		if d, err = s.repo.FindByIDForUpdate(ctx, tx, d.ID); err != nil {
			return apierror.Internal("no se pudo bloquear la caja", err)
		}
		if d.State != model.DailyCashOpen {
			return apierror.Conflict("la caja del día está cerrada")
		}

		mov = &model.CashMovement{
			DailyCashID: d.ID,
			Type:        req.Type,
			Amount:      amount,
			Description: req.Description,
			CreatedAt:   s.clock(),
		}
		for _, p := range payments {
			mov.Payments = append(mov.Payments, model.CashMovementPayment{Method: p.Method, Amount: p.Amount})
		}
		if err := s.repo.CreateMovement(ctx, tx, mov); err != nil {
			return apierror.Internal("no se pudo registrar el movimiento", err)
		}

		sign := decimal.NewFromInt(1)
		if req.Type == model.MovementExpense {
			sign = sign.Neg()
			d.TotalExpenses = d.TotalExpenses.Add(amount)
		} else {
			d.TotalIncomes = d.TotalIncomes.Add(amount)
		}
		for _, p := range payments {
			d.AddToMethod(p.Method, p.Amount.Mul(sign))
		}
		if err := s.repo.Update(ctx, tx, d); err != nil {
			return apierror.Internal("no se pudo actualizar la caja", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	resp := movementToResponse(mov)
	return &resp, nil
}

// ── AbsorbOrderPayment ───────────────────────────────────────────────────────

func (s *dailyCashService) AbsorbOrderPayment(ctx context.Context, tx *gorm.DB, dailyCashID uuid.UUID, consumed, tip decimal.Decimal, payments []model.OrderPayment) error {
	d, err := s.repo.FindByIDForUpdate(ctx, tx, dailyCashID)
	if err != nil {
		return notFoundOr(err, "caja no encontrada")
	}
	if d.State != model.DailyCashOpen {
		return apierror.Conflict("la caja del día está cerrada")
	}
	d.TotalSales = d.TotalSales.Add(consumed)
	d.TotalTips = d.TotalTips.Add(tip)
	for _, p := range payments {
		d.AddToMethod(p.Method, p.Amount)
	}
	if err := s.repo.Update(ctx, tx, d); err != nil {
		return apierror.Internal("no se pudo actualizar la caja", err)
	}
	return nil
}

func (s *dailyCashService) OpenLedgerFor(ctx context.Context, tx *gorm.DB, preferred *uuid.UUID) (*model.DailyCash, error) {
	if preferred != nil {
		d, err := s.repo.FindByID(ctx, tx, *preferred)
		if err == nil && d.State == model.DailyCashOpen {
			return d, nil
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Internal("no se pudo consultar la caja", err)
		}
	}
	d, err := s.repo.FindByDate(ctx, tx, s.businessDay())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Conflict("no hay caja abierta hoy")
		}
		return nil, apierror.Internal("no se pudo consultar la caja", err)
	}
	if d.State != model.DailyCashOpen {
		return nil, apierror.Conflict("la caja del día está cerrada")
	}
	return d, nil
}

// ── Close ────────────────────────────────────────────────────────────────────
// cashDifference = countedCash − (initialCash + cash inflows − cash expenses).
// TotalCash already holds that expected drawer amount.

func (s *dailyCashService) Close(ctx context.Context, id uuid.UUID, req dto.CloseDailyCashRequest) (*dto.DailyCashResponse, error) {
	if req.CountedCash.IsNegative() {
		return nil, apierror.Validation("el efectivo contado no puede ser negativo")
	}
	var d *model.DailyCash
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		d, err = s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "caja no encontrada")
		}
		if d.State != model.DailyCashOpen {
			return apierror.Conflict("la caja ya está cerrada")
		}

		expected := d.TotalCash
		diff := req.CountedCash.Sub(expected)
		level := classifyDeviation(diff, expected)
		now := s.clock()

		d.FinalCash = req.CountedCash
		d.CashDifference = diff
		d.DeviationLevel = &level
		d.State = model.DailyCashClosed
		d.ClosedAt = &now
		if req.Comment != nil {
			d.Comment = req.Comment
		}
		if err := s.repo.Update(ctx, tx, d); err != nil {
			return apierror.Internal("no se pudo cerrar la caja", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	log.Info().
		Str("daily_cash_id", d.ID.String()).
		Str("difference", d.CashDifference.String()).
		Str("level", *d.DeviationLevel).
		Msg("daily cash closed")
	return dailyCashToResponse(d), nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *dailyCashService) Get(ctx context.Context, id uuid.UUID) (*dto.DailyCashResponse, error) {
	d, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return dailyCashToResponse(d), nil
}

func (s *dailyCashService) Load(ctx context.Context, id uuid.UUID) (*model.DailyCash, error) {
	d, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "caja no encontrada")
	}
	return d, nil
}

func (s *dailyCashService) Today(ctx context.Context) (*dto.DailyCashResponse, error) {
	d, err := s.repo.FindByDate(ctx, nil, s.businessDay())
	if err != nil {
		return nil, notFoundOr(err, "no hay caja para hoy")
	}
	return s.Get(ctx, d.ID)
}

func (s *dailyCashService) History(ctx context.Context, page, limit int) (*dto.DailyCashListResponse, error) {
	list, total, err := s.repo.List(ctx, repository.Page{Page: page, Limit: limit})
	if err != nil {
		return nil, apierror.Internal("no se pudo listar las cajas", err)
	}
	data := make([]dto.DailyCashResponse, 0, len(list))
	for i := range list {
		data = append(data, *dailyCashToResponse(&list[i]))
	}
	return &dto.DailyCashListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// classifyDeviation returns "normal" | "warning" | "critical":
// normal: |diff| <= 1% of expected, warning: <= 5%, critical: > 5%.
func classifyDeviation(diff, expected decimal.Decimal) string {
	if diff.IsZero() {
		return "normal"
	}
	if expected.IsZero() {
		return "critical"
	}
	pct := diff.Div(expected).Mul(decimal.NewFromInt(100)).Abs()
	switch {
	case pct.LessThanOrEqual(decimal.NewFromInt(1)):
		return "normal"
	case pct.LessThanOrEqual(decimal.NewFromInt(5)):
		return "warning"
	default:
		return "critical"
	}
}

// toPayments validates a payment breakdown and returns its sum.
func toPayments(reqs []dto.PaymentRequest) ([]model.OrderPayment, decimal.Decimal, error) {
	if len(reqs) == 0 {
		return nil, decimal.Zero, apierror.Validation("se requiere al menos un pago")
	}
	total := decimal.Zero
	out := make([]model.OrderPayment, 0, len(reqs))
	for _, r := range reqs {
		if !validPaymentMethod(r.Method) {
			return nil, decimal.Zero, apierror.Validation("método de pago inválido: " + r.Method)
		}
		if !r.Amount.IsPositive() {
			return nil, decimal.Zero, apierror.Validation("el monto de cada pago debe ser mayor a cero")
		}
		total = total.Add(r.Amount)
		out = append(out, model.OrderPayment{Method: r.Method, Amount: r.Amount})
	}
	return out, total, nil
}

func validPaymentMethod(m string) bool {
	for _, pm := range model.PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

func movementToResponse(m *model.CashMovement) dto.CashMovementResponse {
	payments := make([]dto.OrderPaymentResponse, 0, len(m.Payments))
	for _, p := range m.Payments {
		payments = append(payments, dto.OrderPaymentResponse{Method: p.Method, Amount: p.Amount})
	}
	return dto.CashMovementResponse{
		ID:          m.ID.String(),
		Type:        m.Type,
		Amount:      m.Amount,
		Description: m.Description,
		Payments:    payments,
		CreatedAt:   formatTime(m.CreatedAt),
	}
}

func dailyCashToResponse(d *model.DailyCash) *dto.DailyCashResponse {
	resp := &dto.DailyCashResponse{
		ID:          d.ID.String(),
		Date:        d.Date,
		State:       d.State,
		InitialCash: d.InitialCash,
		FinalCash:   d.FinalCash,
		TotalSales:  d.TotalSales,
		TotalTips:   d.TotalTips,
		Totals: dto.PaymentTotals{
			Cash:        d.TotalCash,
			CreditCard:  d.TotalCreditCard,
			DebitCard:   d.TotalDebitCard,
			Transfer:    d.TotalTransfer,
			MercadoPago: d.TotalMercadoPago,
		},
		TotalIncomes:   d.TotalIncomes,
		TotalExpenses:  d.TotalExpenses,
		ExpectedCash:   d.TotalCash,
		CashDifference: d.CashDifference,
		DeviationLevel: d.DeviationLevel,
		Comment:        d.Comment,
		OpenedAt:       formatTime(d.OpenedAt),
		ClosedAt:       formatTimePtr(d.ClosedAt),
	}
	for i := range d.Movements {
		resp.Movements = append(resp.Movements, movementToResponse(&d.Movements[i]))
	}
	return resp
}
