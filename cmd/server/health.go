package main

import (
	"context"
	"database/sql"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"social/internal/logging"
)

const healthInterval = 10 * time.Second

// watchDatabase reports SERVING while the database answers pings.
func watchDatabase(ctx context.Context, db *sql.DB, hs *health.Server, interval time.Duration) {
	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, interval/2)
		defer cancel()

		status := healthpb.HealthCheckResponse_SERVING
		if err := db.PingContext(pingCtx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			logging.Warn().Err(err).Msg("database ping failed")
		}
		hs.SetServingStatus("", status)
	}

	check()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
