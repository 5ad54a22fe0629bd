package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"garagedesk/models"
	"garagedesk/services/billing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (e *recordingEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

func TestNewPersistSubscriptionTask(t *testing.T) {
	rec := &models.SubscriptionRecord{ID: "rec-1", UserID: "user-1", Plan: models.PlanPro, Status: models.SubscriptionPending}

	task, opts, err := NewPersistSubscriptionTask(rec)
	require.NoError(t, err)
	assert.Equal(t, TypePersistSubscription, task.Type())
	assert.NotEmpty(t, opts)

	var got models.SubscriptionRecord
	require.NoError(t, json.Unmarshal(task.Payload(), &got))
	assert.Equal(t, "rec-1", got.ID)
	assert.Equal(t, models.PlanPro, got.Plan)
}

func TestNewApplyEventTask_RequiresID(t *testing.T) {
	_, _, err := NewApplyEventTask(&models.BillingEvent{Type: billing.EventInvoicePaid})
	assert.Error(t, err)
}

func TestRetryFailures(t *testing.T) {
	enq := &recordingEnqueuer{}
	q := NewQueue(enq, zap.NewNop())

	var outcome billing.Outcome
	outcome.Failures = []billing.SecondaryFailure{
		{Op: billing.OpPersistSubscription, Err: errors.New("write failed"), Payload: &models.SubscriptionRecord{ID: "rec-1"}},
		{Op: billing.OpApplyEvent, Err: errors.New("write failed"), Payload: &models.BillingEvent{ID: "evt_1", Type: billing.EventCheckoutCompleted}},
	}

	require.NoError(t, q.RetryFailures(context.Background(), outcome))
	require.Len(t, enq.tasks, 2)
	assert.Equal(t, TypePersistSubscription, enq.tasks[0].Type())
	assert.Equal(t, TypeApplyEvent, enq.tasks[1].Type())
}

func TestRetryFailures_Errors(t *testing.T) {
	outcome := billing.Outcome{Failures: []billing.SecondaryFailure{
		{Op: billing.OpApplyEvent, Err: errors.New("boom"), Payload: &models.BillingEvent{ID: "evt_1"}},
	}}

	conflict := NewQueue(&recordingEnqueuer{err: asynq.ErrTaskIDConflict}, zap.NewNop())
	assert.NoError(t, conflict.RetryFailures(context.Background(), outcome))

	down := NewQueue(&recordingEnqueuer{err: errors.New("redis down")}, zap.NewNop())
	assert.Error(t, down.RetryFailures(context.Background(), outcome))

	wrongPayload := billing.Outcome{Failures: []billing.SecondaryFailure{{Op: billing.OpApplyEvent, Payload: "nope"}}}
	assert.Error(t, NewQueue(&recordingEnqueuer{}, zap.NewNop()).RetryFailures(context.Background(), wrongPayload))

	assert.NoError(t, NewQueue(&recordingEnqueuer{}, zap.NewNop()).RetryFailures(context.Background(), billing.Outcome{}))
}
