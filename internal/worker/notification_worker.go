package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// NotificationWorker delivers queued operator alerts through the configured
// channels (SMTP behind the circuit breaker, AMQP fanout).
type NotificationWorker struct {
	notifier Notifier
}

func NewNotificationWorker(notifier Notifier) *NotificationWorker {
	return &NotificationWorker{notifier: notifier}
}

func (w *NotificationWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload NotificationJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("notification_worker: invalid payload: %w", err)
	}
	if payload.Subject == "" {
		log.Warn().Msg("notification_worker: empty subject, skipping")
		return nil
	}
	if err := w.notifier.NotifyOperator(ctx, payload.Subject, payload.Body); err != nil {
		return fmt.Errorf("notification_worker: %w", err)
	}
	log.Info().Str("subject", payload.Subject).Msg("notification_worker: operator notified")
	return nil
}
