package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/mocks"
)

func TestRelay_Dispatch(t *testing.T) {
	payload, _ := json.Marshal(domain.StatusEvent{
		RequestID: 9, CitizenID: 2, ServiceID: 4,
		From: domain.StatusAwaitingPayment, To: domain.StatusUnderReview, OccurredAt: time.Now(),
	})

	tests := []struct {
		name          string
		rec           record
		publishErr    error
		wantErr       error
		wantPublished int
	}{
		{
			name:          "publishes_status_change",
			rec:           record{ID: "evt-1", EventType: domain.StatusChangedEvent, Payload: payload},
			wantPublished: 1,
		},
		{
			name: "skips_unknown_type",
			rec:  record{ID: "evt-2", EventType: "user.created", Payload: payload},
		},
		{
			name:    "poison_payload",
			rec:     record{ID: "evt-3", EventType: domain.StatusChangedEvent, Payload: []byte("{not json")},
			wantErr: errPoisonEvent,
		},
		{
			name:       "publisher_failure_is_returned",
			rec:        record{ID: "evt-4", EventType: domain.StatusChangedEvent, Payload: payload},
			publishErr: errors.New("broker unavailable"),
			wantErr:    errors.New("broker unavailable"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := mocks.NewMockRequestEventPublisher()
			pub.PublishError = tt.publishErr
			relay := NewRelay(nil, "", pub)

			err := relay.dispatch(context.Background(), tt.rec)

			switch {
			case tt.wantErr == nil && err != nil:
				t.Fatalf("unexpected error: %v", err)
			case tt.wantErr != nil && err == nil:
				t.Fatalf("expected error %v", tt.wantErr)
			case errors.Is(tt.wantErr, errPoisonEvent) && !errors.Is(err, errPoisonEvent):
				t.Fatalf("expected poison error, got %v", err)
			}

			events := pub.GetPublishedEvents()
			if len(events) != tt.wantPublished {
				t.Fatalf("expected %d published events, got %d", tt.wantPublished, len(events))
			}
			if tt.wantPublished == 1 {
				if events[0].EventID != tt.rec.ID {
					t.Errorf("expected event id to default to the outbox id, got %q", events[0].EventID)
				}
				if events[0].To != domain.StatusUnderReview {
					t.Errorf("expected under_review, got %s", events[0].To)
				}
			}
		})
	}
}

func TestRelay_Readiness(t *testing.T) {
	relay := NewRelay(nil, "", mocks.NewMockRequestEventPublisher())

	if !relay.IsHealthy() || !relay.IsReady() {
		t.Fatalf("expected fresh relay to be healthy and ready")
	}

	relay.lastProcessed.Store(time.Now().Add(-healthCheckStaleThreshold - time.Minute).UnixNano())
	if relay.IsReady() {
		t.Errorf("expected stale relay not to be ready")
	}
	if !relay.IsHealthy() {
		t.Errorf("expected staleness not to affect liveness")
	}
}
