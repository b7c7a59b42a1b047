package infra

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ── Relay breaker ────────────────────────────────────────────────────────────
// Operator mail goes through a CircuitBreaker so a dead SMTP relay costs one
// fast error per alert instead of a TCP timeout per job. After FailureThreshold
// consecutive failed sends it opens and rejects sends for Cooldown. The first
// sends after the cooldown are trials: TrialSuccesses good ones close it, any
// bad one opens it for another cooldown.
//
// A send whose caller context is already done is not held against the relay.

type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerTrial
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerTrial:
		return "trial"
	}
	return "unknown"
}

var ErrCircuitOpen = errors.New("smtp relay breaker is open")

// BreakerStatus is what /health and the realtime feed show about a breaker.
type BreakerStatus struct {
	Name                string     `json:"name"`
	State               string     `json:"state"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	Rejected            int64      `json:"rejected"`
	RetryAt             *time.Time `json:"retry_at,omitempty"`
}

type CircuitBreakerConfig struct {
	Name             string
	FailureThreshold int
	TrialSuccesses   int
	Cooldown         time.Duration
	// OnStateChange runs outside the breaker lock after every transition.
	OnStateChange func(BreakerStatus)
}

// SMTPBreakerConfig is the policy for the operator mail relay.
func SMTPBreakerConfig(onChange func(BreakerStatus)) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             "smtp",
		FailureThreshold: 5,
		TrialSuccesses:   2,
		Cooldown:         time.Minute,
		OnStateChange:    onChange,
	}
}

type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu       sync.Mutex
	state    BreakerState
	failures int
	trials   int
	openedAt time.Time
	rejected int64
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.Name == "" {
		cfg.Name = "smtp"
	}
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = 5
	}
	if cfg.TrialSuccesses < 1 {
		cfg.TrialSuccesses = 2
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = time.Minute
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	changed := cb.expireCooldown()
	st := cb.state
	cb.mu.Unlock()
	cb.announce(changed)
	return st
}

func (cb *CircuitBreaker) Status() BreakerStatus {
	cb.mu.Lock()
	changed := cb.expireCooldown()
	st := cb.statusLocked()
	cb.mu.Unlock()
	cb.announce(changed)
	return st
}

// Do runs send unless the breaker is open and records its outcome.
func (cb *CircuitBreaker) Do(ctx context.Context, send func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cb.mu.Lock()
	changed := cb.expireCooldown()
	if cb.state == BreakerOpen {
		cb.rejected++
		cb.mu.Unlock()
		cb.announce(changed)
		return ErrCircuitOpen
	}
	cb.mu.Unlock()
	cb.announce(changed)

	err := send()
	if err != nil && ctx.Err() != nil {
		return err
	}

	cb.mu.Lock()
	if err != nil {
		changed = cb.failedLocked()
	} else {
		changed = cb.succeededLocked()
	}
	cb.mu.Unlock()
	cb.announce(changed)
	return err
}

// The *Locked helpers and expireCooldown run under cb.mu and return the
// status to announce, or nil when the state did not move.

func (cb *CircuitBreaker) expireCooldown() *BreakerStatus {
	if cb.state != BreakerOpen || cb.now().Before(cb.openedAt.Add(cb.cfg.Cooldown)) {
		return nil
	}
	cb.trials = 0
	return cb.moveLocked(BreakerTrial)
}

func (cb *CircuitBreaker) failedLocked() *BreakerStatus {
	cb.failures++
	if cb.state == BreakerTrial || cb.failures >= cb.cfg.FailureThreshold {
		cb.openedAt = cb.now()
		return cb.moveLocked(BreakerOpen)
	}
	return nil
}

func (cb *CircuitBreaker) succeededLocked() *BreakerStatus {
	cb.failures = 0
	if cb.state != BreakerTrial {
		return nil
	}
	cb.trials++
	if cb.trials < cb.cfg.TrialSuccesses {
		return nil
	}
	return cb.moveLocked(BreakerClosed)
}

func (cb *CircuitBreaker) moveLocked(to BreakerState) *BreakerStatus {
	if cb.state == to {
		return nil
	}
	log.Warn().
		Str("breaker", cb.cfg.Name).
		Str("from", cb.state.String()).
		Str("to", to.String()).
		Int("failures", cb.failures).
		Msg("breaker state change")
	cb.state = to
	st := cb.statusLocked()
	return &st
}

func (cb *CircuitBreaker) statusLocked() BreakerStatus {
	st := BreakerStatus{
		Name:                cb.cfg.Name,
		State:               cb.state.String(),
		ConsecutiveFailures: cb.failures,
		Rejected:            cb.rejected,
	}
	if cb.state == BreakerOpen {
		at := cb.openedAt.Add(cb.cfg.Cooldown)
		st.RetryAt = &at
	}
	return st
}

func (cb *CircuitBreaker) announce(st *BreakerStatus) {
	if st != nil && cb.cfg.OnStateChange != nil {
		cb.cfg.OnStateChange(*st)
	}
}
