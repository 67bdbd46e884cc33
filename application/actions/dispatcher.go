package actions

import (
	"context"

	"caseboard/application/ports"
	pkgerrors "caseboard/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Dispatcher validates a target/action pair and hands execution to the
// runner. It performs no business logic beyond that validation; a failed
// dispatch never touches selection state.
type Dispatcher struct {
	registry *Registry
	runner   ports.ActionRunner
	logger   *zap.Logger
	metrics  ports.MetricsPublisher
}

// NewDispatcher creates a dispatcher
func NewDispatcher(registry *Registry, runner ports.ActionRunner, logger *zap.Logger, metrics ports.MetricsPublisher) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		runner:   runner,
		logger:   logger,
		metrics:  metrics,
	}
}

// Registry exposes the resolve step for menu rendering
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch resolves the action against the primary target's entity type and
// triggers the server-side job. The call returns as soon as the job is
// accepted; results arrive via a later refetch.
func (d *Dispatcher) Dispatch(ctx context.Context, sketchID string, targetIDs []string, primaryType, actionName string) (ports.ActionJob, error) {
	if len(targetIDs) == 0 {
		return ports.ActionJob{}, pkgerrors.NewValidationError("action dispatch requires at least one target entity")
	}

	action, err := d.registry.Lookup(primaryType, actionName)
	if err != nil {
		return ports.ActionJob{}, err
	}

	job := ports.ActionJob{
		JobID:     uuid.New().String(),
		SketchID:  sketchID,
		Action:    action.Name,
		Kind:      action.Kind,
		TargetIDs: targetIDs,
	}

	if err := d.runner.Run(ctx, job); err != nil {
		d.logger.Error("action dispatch failed",
			zap.String("sketchID", sketchID),
			zap.String("action", action.Name),
			zap.Int("targets", len(targetIDs)),
			zap.Error(err),
		)
		return ports.ActionJob{}, pkgerrors.NewExternalError("action runner", err)
	}

	d.logger.Info("action dispatched",
		zap.String("sketchID", sketchID),
		zap.String("action", action.Name),
		zap.String("jobID", job.JobID),
		zap.Int("targets", len(targetIDs)),
	)
	if d.metrics != nil {
		d.metrics.IncrementCounter(ctx, "ActionsDispatched", 1)
	}
	return job, nil
}
