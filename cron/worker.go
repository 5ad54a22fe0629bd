package cron

import (
	"context"
	"encoding/json"
	"fmt"

	"garagedesk/models"
	"garagedesk/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// BillingRetrier replays billing writes that failed on the request path.
type BillingRetrier interface {
	PersistRecord(ctx context.Context, rec *models.SubscriptionRecord) error
	ApplyEvent(ctx context.Context, ev *models.BillingEvent) error
}

// NewBillingMux routes retry tasks to the billing service.
func NewBillingMux(svc BillingRetrier, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypePersistSubscription, handlePersistSubscription(svc, logger))
	mux.HandleFunc(tasks.TypeApplyEvent, handleApplyEvent(svc, logger))
	return mux
}

// StartBillingWorker starts the asynq server in the background. Call
// Shutdown on the returned server when the process stops.
func StartBillingWorker(redisOpt asynq.RedisClientOpt, svc BillingRetrier, logger *zap.Logger) (*asynq.Server, error) {
	log := logger.Named("worker")
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			tasks.QueueBilling: 5,
			"default":          1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			log.Warn("billing retry failed",
				zap.String("type", task.Type()),
				zap.Int("attempt", retried+1),
				zap.Int("maxRetry", maxRetry),
				zap.Error(err),
			)
		}),
		Logger: log.Sugar(),
	})

	if err := srv.Start(NewBillingMux(svc, log)); err != nil {
		return nil, fmt.Errorf("failed to start billing worker: %w", err)
	}
	log.Info("billing worker started")
	return srv, nil
}

func handlePersistSubscription(svc BillingRetrier, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var rec models.SubscriptionRecord
		if err := json.Unmarshal(task.Payload(), &rec); err != nil {
			logger.Error("invalid persist payload", zap.Error(err))
			return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
		}
		if err := svc.PersistRecord(ctx, &rec); err != nil {
			return err
		}
		logger.Info("subscription record persisted on retry", zap.String("recordId", rec.ID))
		return nil
	}
}

func handleApplyEvent(svc BillingRetrier, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var ev models.BillingEvent
		if err := json.Unmarshal(task.Payload(), &ev); err != nil {
			logger.Error("invalid event payload", zap.Error(err))
			return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
		}
		if err := svc.ApplyEvent(ctx, &ev); err != nil {
			return err
		}
		logger.Info("billing event applied on retry", zap.String("eventId", ev.ID), zap.String("type", ev.Type))
		return nil
	}
}
