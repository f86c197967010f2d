package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/egov-portal/portal-service/internal/config"
	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

const (
	// PostgreSQL NOTIFY/LISTEN configuration
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute
	outboxChannelName            = "outbox_channel"

	// Event processing timeouts
	eventProcessTimeout     = 30 * time.Second
	batchProcessTimeout     = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	// Health check configuration
	healthCheckStaleThreshold = 5 * time.Minute

	// Batch processing limits
	maxEventsPerBatch = 100
)

// Relay listens for PostgreSQL NOTIFY signals on the outbox_channel and
// publishes request status events to RabbitMQ.
type Relay struct {
	db            *sql.DB
	publisher     ports.RequestEventPublisher
	listener      *pq.Listener
	dbURL         string
	dbCB          *gobreaker.CircuitBreaker
	lastProcessed atomic.Int64
	healthy       atomic.Bool
	log           *logrus.Entry
}

func NewRelay(db *sql.DB, dbURL string, publisher ports.RequestEventPublisher) *Relay {
	r := &Relay{
		db:        db,
		dbURL:     dbURL,
		publisher: publisher,
		dbCB:      config.NewCircuitBreaker(config.BreakerRelayPostgres),
		log:       logrus.WithField("component", "outbox-relay"),
	}
	r.markProcessed()
	r.healthy.Store(true)
	return r
}

func (r *Relay) markProcessed() {
	r.lastProcessed.Store(time.Now().UnixNano())
}

// IsHealthy reports whether the relay process is alive. An open breaker is
// degraded but recoverable, so it does not fail liveness.
func (r *Relay) IsHealthy() bool {
	return r.healthy.Load()
}

// IsReady reports whether the relay can process events.
func (r *Relay) IsReady() bool {
	if r.dbCB.State() == gobreaker.StateOpen {
		return false
	}
	if time.Since(time.Unix(0, r.lastProcessed.Load())) > healthCheckStaleThreshold {
		return false
	}
	return r.healthy.Load()
}

// Start blocks until ctx is cancelled, publishing events as their NOTIFY
// arrives and sweeping the backlog periodically.
func (r *Relay) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			r.log.WithError(err).Warn("listener error")
		}
	}

	r.listener = pq.NewListener(r.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer r.listener.Close()

	if err := r.listener.Listen(outboxChannelName); err != nil {
		return err
	}
	r.log.WithField("channel", outboxChannelName).Info("listening for notifications")

	// catch up on events written while the relay was down
	if err := r.processUnprocessedEvents(ctx); err != nil {
		r.log.WithError(err).Error("failed to process startup backlog")
	}

	ticker := time.NewTicker(periodicProcessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("shutting down")
			return ctx.Err()

		case notification := <-r.listener.Notify:
			if notification == nil {
				r.log.Warn("received nil notification (reconnecting)")
				r.healthy.Store(false)
				continue
			}

			if err := r.processEventByID(ctx, notification.Extra); err != nil {
				r.log.WithField("event_id", notification.Extra).WithError(err).Error("failed to process event")
			} else {
				r.markProcessed()
				r.healthy.Store(true)
			}

		case <-ticker.C:
			go r.listener.Ping()

			if err := r.processUnprocessedEvents(ctx); err != nil {
				r.log.WithError(err).Error("periodic processing failed")
			} else {
				r.markProcessed()
			}
		}
	}
}

type record struct {
	ID        string
	EventType string
	Payload   []byte
}

// errPoisonEvent marks payloads that can never be published.
var errPoisonEvent = errors.New("undecodable outbox payload")

// dispatch publishes one outbox record. Unknown event types are skipped and
// still marked processed.
func (r *Relay) dispatch(ctx context.Context, rec record) error {
	if rec.EventType != domain.StatusChangedEvent {
		r.log.WithFields(logrus.Fields{"event_id": rec.ID, "event_type": rec.EventType}).Warn("skipping unknown event type")
		return nil
	}

	var evt domain.StatusEvent
	if err := json.Unmarshal(rec.Payload, &evt); err != nil {
		return errPoisonEvent
	}
	if evt.EventID == "" {
		evt.EventID = rec.ID
	}
	return r.publisher.PublishStatusChanged(ctx, evt)
}

func markDone(ctx context.Context, tx *sql.Tx, id string) error {
	_, err := tx.ExecContext(ctx, `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *Relay) processEventByID(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		var rec record
		err = tx.QueryRowContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE id = $1 AND processed_at IS NULL
			FOR UPDATE SKIP LOCKED`, eventID).Scan(&rec.ID, &rec.EventType, &rec.Payload)
		if errors.Is(err, sql.ErrNoRows) {
			// already handled by another worker or the periodic sweep
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if err := r.dispatch(ctx, rec); err != nil {
			if !errors.Is(err, errPoisonEvent) {
				return nil, err
			}
			r.log.WithField("event_id", rec.ID).Error("invalid payload; marking processed")
		}

		if err := markDone(ctx, tx, rec.ID); err != nil {
			return nil, err
		}
		return nil, tx.Commit()
	})
	return err
}

func (r *Relay) processUnprocessedEvents(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE processed_at IS NULL
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED`, maxEventsPerBatch)
		if err != nil {
			return nil, err
		}

		var records []record
		for rows.Next() {
			var rec record
			if err := rows.Scan(&rec.ID, &rec.EventType, &rec.Payload); err != nil {
				rows.Close()
				return nil, err
			}
			records = append(records, rec)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}

		for _, rec := range records {
			if err := r.dispatch(ctx, rec); err != nil {
				if !errors.Is(err, errPoisonEvent) {
					// stays unprocessed for the next sweep
					r.log.WithField("event_id", rec.ID).WithError(err).Warn("failed to publish event")
					continue
				}
				r.log.WithField("event_id", rec.ID).Error("invalid payload; marking processed")
			}

			if err := markDone(ctx, tx, rec.ID); err != nil {
				return nil, err
			}
			r.log.WithField("event_id", rec.ID).Debug("processed event")
		}

		return nil, tx.Commit()
	})
	return err
}
