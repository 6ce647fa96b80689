// Package collaboratorsadapter holds the worker-side executors for the
// dispatched collaborator calls. The dialer and vendor gateways are owned
// by other services; until their clients land this executor records the
// delivery so operations can reconcile.
package collaboratorsadapter

import (
	"context"
	"log/slog"
)

type LogExecutor struct {
	Logger *slog.Logger
}

func (e LogExecutor) RemoveFromDialerQueue(_ context.Context, installmentID string) error {
	e.logger().Info("dialer queue removal delivered",
		"event", "dialer_queue_removal_delivered",
		"module", "collections-core/collection-workflow",
		"layer", "adapter",
		"installment_id", installmentID,
	)
	return nil
}

func (e LogExecutor) AssignVendor(_ context.Context, installmentID string, agentID string) error {
	e.logger().Info("vendor auto-assignment delivered",
		"event", "vendor_auto_assignment_delivered",
		"module", "collections-core/collection-workflow",
		"layer", "adapter",
		"installment_id", installmentID,
		"agent_id", agentID,
	)
	return nil
}

func (e LogExecutor) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}
