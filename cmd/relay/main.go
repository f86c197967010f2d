package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/egov-portal/portal-service/internal/adapters/messaging"
	"github.com/egov-portal/portal-service/internal/adapters/outbox"
	"github.com/egov-portal/portal-service/internal/adapters/repository"
	"github.com/egov-portal/portal-service/internal/config"
	"github.com/egov-portal/portal-service/internal/logger"
)

func main() {
	cfg := config.LoadRelayConfig()
	logger.Setup(cfg.Log)
	log := logrus.WithField("component", "relay")
	log.Info("starting outbox relay service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := repository.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.QueueName)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer broker.Close()

	worker := outbox.NewRelay(db, cfg.DatabaseURL, broker)

	healthServer := &http.Server{
		Addr:              cfg.HealthAddr,
		Handler:           healthMux(worker),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Infof("starting health check server on %s", cfg.HealthAddr)
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("health server error")
		}
	}()

	errChan := make(chan error, 1)
	go func() {
		if err := worker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Infof("received signal %v, initiating shutdown", sig)
	case err := <-errChan:
		log.WithError(err).Error("fatal worker error, shutting down")
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("error shutting down health server")
	}
	log.Info("shutdown complete")
}

type probe interface {
	IsHealthy() bool
	IsReady() bool
}

func healthMux(p probe) *http.ServeMux {
	write := func(w http.ResponseWriter, up bool) {
		status, code := "UP", http.StatusOK
		if !up {
			status, code = "DOWN", http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": status, "component": "outbox-relay"})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) { write(w, p.IsHealthy()) })
	mux.HandleFunc("GET /health/live", func(w http.ResponseWriter, r *http.Request) { write(w, p.IsHealthy()) })
	mux.HandleFunc("GET /health/ready", func(w http.ResponseWriter, r *http.Request) { write(w, p.IsReady()) })
	return mux
}
