package infra

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

// Notifier is one channel able to reach the operator.
type Notifier interface {
	NotifyOperator(ctx context.Context, subject, body string) error
}

// EmailNotifier mails the operator through the circuit breaker so a dead
// SMTP relay fails fast instead of stalling the workers.
type EmailNotifier struct {
	mailer *Mailer
	cb     *CircuitBreaker
	to     string
}

func NewEmailNotifier(mailer *Mailer, cb *CircuitBreaker, to string) *EmailNotifier {
	return &EmailNotifier{mailer: mailer, cb: cb, to: to}
}

func (n *EmailNotifier) NotifyOperator(ctx context.Context, subject, body string) error {
	return n.cb.Do(ctx, func() error {
		return n.mailer.Send(n.to, subject, body)
	})
}

// MultiNotifier delivers to every channel and succeeds when at least one did.
type MultiNotifier []Notifier

func (m MultiNotifier) NotifyOperator(ctx context.Context, subject, body string) error {
	if len(m) == 0 {
		log.Warn().Str("subject", subject).Msg("no operator channel configured")
		return nil
	}
	var errs []error
	for _, n := range m {
		if err := n.NotifyOperator(ctx, subject, body); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == len(m) {
		return errors.Join(errs...)
	}
	for _, err := range errs {
		log.Warn().Err(err).Str("subject", subject).Msg("operator channel failed")
	}
	return nil
}
