package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/egov-portal/portal-service/internal/core/domain"
)

type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	err       error
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func TestPublishStatusChanged(t *testing.T) {
	ch := &fakeChannel{}
	broker := NewBrokerWithChannel(ch, "request_events")

	evt := domain.StatusEvent{
		EventID:    "evt-1",
		RequestID:  42,
		CitizenID:  7,
		ServiceID:  3,
		From:       domain.StatusUnderReview,
		To:         domain.StatusApproved,
		OccurredAt: time.Now().UTC(),
	}
	if err := broker.PublishStatusChanged(context.Background(), evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ch.published) != 1 || ch.keys[0] != "request_events" {
		t.Fatalf("expected one message on request_events, got %v", ch.keys)
	}
	msg := ch.published[0]
	if msg.DeliveryMode != amqp.Persistent || msg.MessageId != "evt-1" || msg.Type != domain.StatusChangedEvent {
		t.Errorf("unexpected message properties %+v", msg)
	}

	var got domain.StatusEvent
	if err := json.Unmarshal(msg.Body, &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.RequestID != 42 || got.To != domain.StatusApproved {
		t.Errorf("unexpected event body %+v", got)
	}
}

func TestPublishStatusChanged_Errors(t *testing.T) {
	t.Run("broker_failure", func(t *testing.T) {
		broker := NewBrokerWithChannel(&fakeChannel{err: errors.New("channel closed")}, "request_events")
		if err := broker.PublishStatusChanged(context.Background(), domain.StatusEvent{}); err == nil {
			t.Errorf("expected publish error")
		}
	})

	t.Run("expired_context", func(t *testing.T) {
		ch := &fakeChannel{}
		broker := NewBrokerWithChannel(ch, "request_events")
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()

		if err := broker.PublishStatusChanged(ctx, domain.StatusEvent{}); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
		if len(ch.published) != 0 {
			t.Errorf("expected nothing published")
		}
	})
}
