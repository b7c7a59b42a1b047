package service

import (
	"context"
	"errors"
	"time"

	"hygpos/internal/apierror"
	"hygpos/internal/dto"
	"hygpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Realtime event names pushed to connected clients.
const (
	EventProductCreated       = "productCreated"
	EventProductUpdated       = "productUpdated"
	EventOrderUpdated         = "actualizacion"
	EventToppingsGroupCreated = "toppingsGroup.created"
	EventToppingsGroupUpdated = "toppingsGroup.updated"
	EventToppingsGroupDeleted = "toppingsGroup.deleted"
	EventSauceGroupCreated    = "sauceGroup.created"
	EventSauceGroupUpdated    = "sauceGroup.updated"
	EventSauceGroupDeleted    = "sauceGroup.deleted"
)

// EventPublisher pushes an event to realtime clients. Services call it only
// after their transaction committed.
type EventPublisher interface {
	Publish(event string, data interface{})
}

// OperatorNotifier alerts a human operator about a failure needing action.
type OperatorNotifier interface {
	NotifyOperator(ctx context.Context, subject, body string) error
}

// JobQueue hands work to the async worker pool.
type JobQueue interface {
	EnqueueOrderTicket(ctx context.Context, orderID uuid.UUID) error
}

// CatalogCache is the read cache in front of the public menu. GetMenu
// reports false on a miss or when the cache is unreachable.
type CatalogCache interface {
	GetMenu(ctx context.Context) ([]dto.MenuItem, bool)
	SetMenu(ctx context.Context, items []dto.MenuItem) error
	Invalidate(ctx context.Context) error
}

// BackupWriter persists the archived orders of a run outside the database.
type BackupWriter interface {
	Write(from, to time.Time, orders []model.ArchivedOrder) (string, error)
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// parseID turns a path or body id into a uuid, reporting a validation error.
func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apierror.Validation(field + " inválido")
	}
	return id, nil
}

func parseOptionalID(field string, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := parseID(field, *raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// notFoundOr maps gorm's not-found to a NotFound error with msg and wraps
// anything else as internal.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NotFound(msg)
	}
	return apierror.Internal(msg, err)
}

// keepKind passes domain errors through untouched and wraps the rest.
func keepKind(err error, msg string) error {
	var e *apierror.Error
	if errors.As(err, &e) {
		return err
	}
	return apierror.Internal(msg, err)
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func idPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
