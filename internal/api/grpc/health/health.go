// Package health keeps the standard gRPC health service in step with the
// database.
package health

import (
	"context"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/fileshare-server/internal/logger"
)

// ServiceName is reported alongside the overall ("") status.
const ServiceName = "fileshare"

const pingTimeout = 2 * time.Second

// Pinger is satisfied by the database connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Watcher pings the database and publishes the result to a health server.
type Watcher struct {
	server   *health.Server
	pinger   Pinger
	interval time.Duration
	logger   *logger.Logger
}

func NewWatcher(server *health.Server, pinger Pinger, interval time.Duration, logger *logger.Logger) *Watcher {
	return &Watcher{
		server:   server,
		pinger:   pinger,
		interval: interval,
		logger:   logger,
	}
}

// Check pings once and publishes the resulting status.
func (w *Watcher) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := w.pinger.Ping(ctx); err != nil {
		w.logger.Warn("Health watcher: database ping failed", "error", err.Error())
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	w.server.SetServingStatus("", status)
	w.server.SetServingStatus(ServiceName, status)
	return status
}

// Run checks immediately and then every interval until ctx is done, at
// which point every service is marked NOT_SERVING.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			w.server.Shutdown()
			return
		case <-ticker.C:
			w.Check(ctx)
		}
	}
}
