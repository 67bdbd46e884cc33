// Package eventbridge dispatches action jobs onto an EventBridge bus. The
// enricher and flow workers consume from the bus; the dashboard never waits
// on them, results land in the record service and arrive via refetch.
package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"caseboard/application/ports"
	pkgerrors "caseboard/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

const eventSource = "caseboard.actions"

// ActionRunner implements ports.ActionRunner on EventBridge
type ActionRunner struct {
	client  *eventbridge.Client
	busName string
	logger  *zap.Logger
}

// NewActionRunner creates an EventBridge-backed action runner
func NewActionRunner(client *eventbridge.Client, busName string, logger *zap.Logger) ports.ActionRunner {
	return &ActionRunner{
		client:  client,
		busName: busName,
		logger:  logger,
	}
}

// Run publishes the job as one event. DetailType carries the job kind so
// enricher and flow workers can subscribe with separate rules.
func (r *ActionRunner) Run(ctx context.Context, job ports.ActionJob) error {
	detail, err := json.Marshal(job)
	if err != nil {
		return pkgerrors.Wrap(err, "marshal action job")
	}

	out, err := r.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(r.busName),
				Source:       aws.String(eventSource),
				DetailType:   aws.String(fmt.Sprintf("action.%s", job.Kind)),
				Detail:       aws.String(string(detail)),
				Time:         aws.Time(time.Now()),
			},
		},
	})
	if err != nil {
		return pkgerrors.NewExternalError("eventbridge", err)
	}
	if out.FailedEntryCount > 0 {
		for _, entry := range out.Entries {
			if entry.ErrorCode != nil {
				r.logger.Error("action event rejected",
					zap.String("jobID", job.JobID),
					zap.String("errorCode", aws.ToString(entry.ErrorCode)),
					zap.String("errorMessage", aws.ToString(entry.ErrorMessage)),
				)
			}
		}
		return pkgerrors.NewExternalError("eventbridge", fmt.Errorf("%d event entries failed", out.FailedEntryCount))
	}

	r.logger.Debug("action event published",
		zap.String("jobID", job.JobID),
		zap.String("action", job.Action),
		zap.String("bus", r.busName),
	)
	return nil
}
