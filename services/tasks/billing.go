package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"garagedesk/models"

	"github.com/hibiken/asynq"
)

const (
	TypePersistSubscription = "billing:persist_subscription"
	TypeApplyEvent          = "billing:apply_event"

	QueueBilling = "billing"
	maxRetry     = 10
)

func billingOptions(taskID string) []asynq.Option {
	return []asynq.Option{
		asynq.Queue(QueueBilling),
		asynq.MaxRetry(maxRetry),
		asynq.TaskID(taskID),
		asynq.Retention(24 * time.Hour),
	}
}

// NewPersistSubscriptionTask retries storing a pending record whose first
// write failed after the checkout session was created.
func NewPersistSubscriptionTask(rec *models.SubscriptionRecord) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, nil, err
	}
	return asynq.NewTask(TypePersistSubscription, b), billingOptions("persist:" + rec.ID), nil
}

// NewApplyEventTask retries a verified provider event.
func NewApplyEventTask(ev *models.BillingEvent) (*asynq.Task, []asynq.Option, error) {
	if ev.ID == "" {
		return nil, nil, fmt.Errorf("event id is required")
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, nil, err
	}
	return asynq.NewTask(TypeApplyEvent, b), billingOptions("event:" + ev.ID), nil
}
