package handler

import (
	"context"
	"net/http"
	"time"

	"hygpos/internal/infra"
	"hygpos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthDeps groups what /health probes. Nil fields are reported as
// "disabled" and never fail the check, except DB.
type HealthDeps struct {
	DB        *gorm.DB
	Redis     *redis.Client
	MailerCB  *infra.CircuitBreaker
	AMQP      *infra.AMQPPublisher
	WSClients func() int
}

// Health returns a JSON health check response.
// Checks DB and Redis connectivity; never exposes credentials or internals.
func Health(deps HealthDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		if deps.DB == nil {
			dbStatus = "error"
		} else if sqlDB, err := deps.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "disabled"
		dead := gin.H{}
		if deps.Redis != nil {
			redisStatus = "connected"
			if deps.Redis.Ping(ctx).Err() != nil {
				redisStatus = "error"
			} else {
				for _, q := range []string{worker.QueueTickets, worker.QueueNotifications} {
					if n, err := worker.DLQLength(ctx, deps.Redis, q); err == nil {
						dead[q] = n
					}
				}
			}
		}

		// An open breaker means mail is failing fast; alerts still go out
		// over AMQP, so it degrades but does not fail the check.
		var mailer any = "disabled"
		if deps.MailerCB != nil {
			mailer = deps.MailerCB.Status()
		}
		amqpStatus := "disabled"
		if deps.AMQP != nil {
			amqpStatus = "connected"
			if !deps.AMQP.Healthy() {
				amqpStatus = "error"
			}
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		body := gin.H{
			"ok":     status == http.StatusOK,
			"db":     dbStatus,
			"redis":  redisStatus,
			"mailer": mailer,
			"amqp":   amqpStatus,
		}
		if len(dead) > 0 {
			body["dlq"] = dead
		}
		if deps.WSClients != nil {
			body["ws_clients"] = deps.WSClients()
		}
		c.JSON(status, body)
	}
}
