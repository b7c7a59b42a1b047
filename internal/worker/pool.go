package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueTickets       = "jobs:tickets"
	QueueNotifications = "jobs:notifications"

	JobTicket       = "ticket"
	JobNotification = "notification"

	// MaxJobAttempts is how many times a job runs before it goes to the DLQ.
	MaxJobAttempts = 3
)

// queueClient is the subset of *redis.Client the queue uses.
type queueClient interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	LLen(ctx context.Context, key string) *redis.IntCmd
}

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes one job payload. A returned error re-queues the job
// until MaxJobAttempts is reached.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Notifier delivers operator alerts directly, bypassing the queue.
type Notifier interface {
	NotifyOperator(ctx context.Context, subject, body string) error
}

// ── Dispatcher ───────────────────────────────────────────────────────────────

// Dispatcher enqueues async jobs into Redis lists. It is the service layer's
// JobQueue and OperatorNotifier.
type Dispatcher struct {
	rdb      queueClient
	fallback Notifier
}

// NewDispatcher builds a dispatcher. fallback, when set, receives operator
// alerts directly if they cannot be queued.
func NewDispatcher(rdb queueClient, fallback Notifier) *Dispatcher {
	return &Dispatcher{rdb: rdb, fallback: fallback}
}

type TicketJobPayload struct {
	OrderID string `json:"order_id"`
}

type NotificationJobPayload struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// EnqueueOrderTicket queues PDF rendering for a closed order.
func (d *Dispatcher) EnqueueOrderTicket(ctx context.Context, orderID uuid.UUID) error {
	return d.enqueue(ctx, QueueTickets, JobTicket, TicketJobPayload{OrderID: orderID.String()})
}

// NotifyOperator queues an operator alert. Alerts are too important to lose
// to a Redis outage, so they fall back to direct delivery.
func (d *Dispatcher) NotifyOperator(ctx context.Context, subject, body string) error {
	err := d.enqueue(ctx, QueueNotifications, JobNotification, NotificationJobPayload{Subject: subject, Body: body})
	if err == nil || d.fallback == nil {
		return err
	}
	log.Warn().Err(err).Msg("dispatcher: notification not queued, delivering directly")
	return d.fallback.NotifyOperator(ctx, subject, body)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func push(ctx context.Context, rdb queueClient, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// ── Pool ─────────────────────────────────────────────────────────────────────

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb      queueClient
	handlers map[string]Handler
	queues   []string
	wg       sync.WaitGroup
}

func NewPool(rdb queueClient) *Pool {
	return &Pool{rdb: rdb, handlers: make(map[string]Handler)}
}

// Register binds a job type to its handler and starts consuming queue.
func (p *Pool) Register(queue, jobType string, h Handler) {
	p.handlers[jobType] = h
	for _, q := range p.queues {
		if q == queue {
			return
		}
	}
	p.queues = append(p.queues, queue)
}

// Start launches numWorkers goroutines. Each blocks on BRPOP, so idle
// workers cost nothing.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	log.Info().Int("workers", numWorkers).Strs("queues", p.queues).Msg("worker pool started")
}

// Wait blocks until every worker has returned after ctx was cancelled.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		if ctx.Err() != nil {
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		}
		// Blocking pop: waits up to 5s then loops to check ctx
		result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Warn().Err(err).Int("worker", id).Msg("worker: brpop failed")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.process(ctx, result[0], result[1])
	}
}

// process runs one raw job. Failures are re-queued with an incremented
// attempt count and moved to the DLQ on the last attempt.
func (p *Pool) process(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("worker: malformed job")
		SendToDLQ(ctx, p.rdb, queue, "unknown", json.RawMessage(raw), "malformed job: "+err.Error(), 0)
		return
	}
	h, ok := p.handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, "no handler registered", job.Attempts)
		return
	}

	err := h(ctx, job.Payload)
	if err == nil {
		log.Debug().Str("type", job.Type).Str("queue", queue).Msg("job done")
		return
	}

	job.Attempts++
	if job.Attempts >= MaxJobAttempts {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
		return
	}
	log.Warn().Err(err).Str("type", job.Type).Int("attempt", job.Attempts).Msg("job failed, re-queued")
	if err := push(ctx, p.rdb, queue, job); err != nil {
		log.Error().Err(err).Str("type", job.Type).Msg("worker: re-queue failed")
	}
}
