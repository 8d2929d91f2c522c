package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type BrokerStatus interface {
	Healthy() bool
}

type HealthHandler struct {
	DB        Pinger
	Broker    BrokerStatus
	DryRun    bool
	Version   string
	StartTime time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

// NewHealthHandler takes a nil broker when dispatch runs without RabbitMQ.
func NewHealthHandler(db Pinger, broker BrokerStatus, dryRun bool, version string) *HealthHandler {
	return &HealthHandler{
		DB:        db,
		Broker:    broker,
		DryRun:    dryRun,
		Version:   version,
		StartTime: time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			deps["database"] = fmt.Sprintf("unhealthy: %v", err)
		} else {
			deps["database"] = "healthy"
		}
	} else {
		deps["database"] = "not configured"
	}

	if h.Broker != nil {
		if h.Broker.Healthy() {
			deps["rabbitmq"] = "healthy"
		} else {
			deps["rabbitmq"] = "unhealthy: connection closed"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	if h.DryRun {
		deps["grok"] = "dry-run"
	} else {
		deps["grok"] = "configured"
	}

	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "configured" && v != "not configured" && v != "dry-run" {
			status = "degraded"
			break
		}
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{
		Status:       status,
		Version:      h.Version,
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	})
}
