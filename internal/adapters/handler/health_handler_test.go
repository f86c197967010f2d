package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/egov-portal/portal-service/internal/adapters/handler"
)

type fakeDB struct{ err error }

func (f fakeDB) PingContext(ctx context.Context) error { return f.err }

type fakeRedis struct{ err error }

func (f fakeRedis) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
	} else {
		cmd.SetVal("PONG")
	}
	return cmd
}

func TestHealthHandler_Ready(t *testing.T) {
	tests := []struct {
		name       string
		db         handler.DBPinger
		redis      handler.RedisPinger
		wantStatus int
		wantBody   string
	}{
		{"all_up", fakeDB{}, fakeRedis{}, http.StatusOK, "UP"},
		{"database_down", fakeDB{err: errors.New("refused")}, fakeRedis{}, http.StatusServiceUnavailable, "DOWN"},
		{"redis_down", fakeDB{}, fakeRedis{err: errors.New("refused")}, http.StatusServiceUnavailable, "DOWN"},
		{"not_initialized", nil, nil, http.StatusServiceUnavailable, "DOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewHealthHandler(tt.db, tt.redis)
			rec := httptest.NewRecorder()
			h.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			resp := decode[handler.HealthResponse](t, rec)
			if resp.Status != tt.wantBody {
				t.Errorf("expected %s, got %s", tt.wantBody, resp.Status)
			}
		})
	}
}

func TestHealthHandler_Live(t *testing.T) {
	h := handler.NewHealthHandler(nil, nil)
	rec := httptest.NewRecorder()
	h.Live(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
