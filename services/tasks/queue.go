package tasks

import (
	"context"
	"errors"
	"fmt"

	"garagedesk/models"
	"garagedesk/services/billing"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the part of *asynq.Client the queue needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Queue turns billing secondary failures into retry tasks.
type Queue struct {
	client Enqueuer
	logger *zap.Logger
}

func NewQueue(client Enqueuer, logger *zap.Logger) *Queue {
	return &Queue{client: client, logger: logger.Named("tasks")}
}

// RetryFailures enqueues one task per secondary failure. A task already
// queued for the same record or event is not an error.
func (q *Queue) RetryFailures(ctx context.Context, outcome billing.Outcome) error {
	var errs []error
	for _, f := range outcome.Failures {
		task, opts, err := taskFor(f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		info, err := q.client.EnqueueContext(ctx, task, opts...)
		switch {
		case errors.Is(err, asynq.ErrTaskIDConflict), errors.Is(err, asynq.ErrDuplicateTask):
			q.logger.Debug("retry already queued", zap.String("type", task.Type()))
		case err != nil:
			errs = append(errs, fmt.Errorf("failed to enqueue %s: %w", task.Type(), err))
		default:
			q.logger.Info("retry enqueued",
				zap.String("type", task.Type()),
				zap.String("taskId", info.ID),
				zap.NamedError("cause", f.Err),
			)
		}
	}
	return errors.Join(errs...)
}

func taskFor(f billing.SecondaryFailure) (*asynq.Task, []asynq.Option, error) {
	switch f.Op {
	case billing.OpPersistSubscription:
		if rec, ok := f.Payload.(*models.SubscriptionRecord); ok {
			return NewPersistSubscriptionTask(rec)
		}
	case billing.OpApplyEvent:
		if ev, ok := f.Payload.(*models.BillingEvent); ok {
			return NewApplyEventTask(ev)
		}
	}
	return nil, nil, fmt.Errorf("no retry task for %s with payload %T", f.Op, f.Payload)
}
