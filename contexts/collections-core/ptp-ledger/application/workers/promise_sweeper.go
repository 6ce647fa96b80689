package workers

import (
	"context"
	"log/slog"
	"time"

	application "kolekta/contexts/collections-core/ptp-ledger/application"
	"kolekta/contexts/collections-core/ptp-ledger/ports"
)

// PromiseSweeper breaks OPEN/PARTIAL promises whose promised date elapsed
// unmet. Scheduled by the worker's cron runner.
type PromiseSweeper struct {
	Service application.Service
	Clock   ports.Clock
	Logger  *slog.Logger
}

func (s PromiseSweeper) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(s.Logger)
	now := time.Now().UTC()
	if s.Clock != nil {
		now = s.Clock.Now().UTC()
	}

	broken, err := s.Service.ExpireOverdue(ctx, now)
	if err != nil {
		logger.Error("promise expiry sweep failed",
			"event", "ptp_sweep_failed",
			"module", "collections-core/ptp-ledger",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if broken > 0 {
		logger.Info("promise expiry sweep completed",
			"event", "ptp_sweep_completed",
			"module", "collections-core/ptp-ledger",
			"layer", "worker",
			"broken_count", broken,
		)
	}
	return nil
}
