package config

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/egov-portal/portal-service/internal/core/domain"
)

// Breaker names shared by the adapters.
const (
	BreakerRedisSessions = "Redis-Sessions"
	BreakerPostgres      = "PostgreSQL"
	BreakerRelayPostgres = "Relay-PostgreSQL"
	BreakerS3            = "S3-Uploads"
	BreakerRabbitMQ      = "RabbitMQ-Publisher"
)

// NewCircuitBreaker creates a circuit breaker with standard settings.
// The name parameter uniquely identifies the circuit breaker instance.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	var timeout time.Duration

	// Open-state timeouts line up with the 5s health check timeout
	switch name {
	case BreakerRedisSessions:
		timeout = 5 * time.Second
	case BreakerPostgres, BreakerRelayPostgres:
		timeout = 10 * time.Second
	default:
		timeout = 30 * time.Second
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: isHealthyOutcome,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logrus.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Error("circuit breaker state changed")
		},
	})
}

// isHealthyOutcome keeps domain answers (absent rows, constraint conflicts,
// caller cancellations) from tripping a breaker; only dependency faults count.
func isHealthyOutcome(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, context.Canceled):
		return true
	default:
		return false
	}
}
