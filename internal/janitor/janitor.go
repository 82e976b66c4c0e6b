// Package janitor periodically removes abandoned signups. An unconfirmed
// account whose token expired long ago would otherwise squat its email
// address forever, since registration refuses duplicates.
package janitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/travelapp/travel-auth/internal/metrics"
)

const sweepBatchSize = 1000

type purger interface {
	PurgeExpiredUnconfirmed(ctx context.Context, cutoff time.Time, limit int) (int64, error)
}

type Janitor struct {
	accounts purger
	grace    time.Duration
	logger   *slog.Logger
	cron     *cron.Cron
}

// New schedules a sweep according to the cron spec. grace is how long after
// token expiry an unconfirmed account is kept around; resend still works in
// that window.
func New(accounts purger, schedule string, grace time.Duration, logger *slog.Logger) (*Janitor, error) {
	j := &Janitor{
		accounts: accounts,
		grace:    grace,
		logger:   logger.With("component", "janitor"),
		cron:     cron.New(),
	}
	if _, err := j.cron.AddFunc(schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("parse janitor schedule %q: %w", schedule, err)
	}
	return j, nil
}

func (j *Janitor) Start() {
	j.cron.Start()
	j.logger.Info("janitor started", "grace", j.grace)
}

// Stop waits for an in-flight sweep to finish, bounded by ctx.
func (j *Janitor) Stop(ctx context.Context) {
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
		j.logger.Warn("janitor stop timed out")
	}
}

// RunOnce purges one batch of expired unconfirmed accounts.
func (j *Janitor) RunOnce(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-j.grace)
	purged, err := j.accounts.PurgeExpiredUnconfirmed(sweepCtx, cutoff, sweepBatchSize)
	if err != nil {
		j.logger.Error("sweep expired signups", "error", err)
		return
	}
	if purged > 0 {
		metrics.JanitorPurgedTotal.Add(float64(purged))
		j.logger.Info("purged expired signups", "count", purged)
	}
}
