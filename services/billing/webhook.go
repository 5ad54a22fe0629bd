package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"garagedesk/models"

	"go.uber.org/zap"
)

// EventResult describes what happened to one provider event.
type EventResult struct {
	EventID   string
	Duplicate bool
	Applied   bool
	RecordID  string
	Outcome   Outcome
}

// VerifyEvent checks the signature and normalises the payload.
func (s *Service) VerifyEvent(payload []byte, signature string) (*models.BillingEvent, error) {
	return s.gateway.ParseEvent(payload, signature)
}

// HandleEvent applies a verified event once. Storage failures never surface
// as errors: they are reported in Outcome for the caller to re-queue.
func (s *Service) HandleEvent(ctx context.Context, ev *models.BillingEvent) EventResult {
	result := EventResult{EventID: ev.ID}
	log := s.logger.With(zap.String("eventId", ev.ID), zap.String("type", ev.Type))

	if s.ledger != nil {
		seen, err := s.ledger.Seen(ctx, ev.ID)
		if err != nil {
			log.Warn("event ledger unavailable", zap.Error(err))
		} else if seen {
			log.Info("duplicate event ignored")
			result.Duplicate = true
			return result
		}
	}

	applied, recordID, err := s.apply(ctx, ev)
	switch {
	case errors.Is(err, ErrRecordNotStored):
		log.Info("checkout completion deferred until its record is stored",
			zap.String("userId", ev.UserID),
			zap.String("recordId", ev.RecordID),
		)
		result.Outcome.add(OpApplyEvent, err, ev)
		return result
	case err != nil:
		log.Error("failed to apply event", zap.Error(err))
		result.Outcome.add(OpApplyEvent, err, ev)
		return result
	}
	result.Applied = applied
	result.RecordID = recordID
	s.markEvent(ctx, ev.ID)
	return result
}

// ApplyEvent applies ev and returns storage errors. Used by retries.
func (s *Service) ApplyEvent(ctx context.Context, ev *models.BillingEvent) error {
	if _, _, err := s.apply(ctx, ev); err != nil {
		return err
	}
	s.markEvent(ctx, ev.ID)
	return nil
}

func (s *Service) markEvent(ctx context.Context, eventID string) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.Mark(ctx, eventID); err != nil {
		s.logger.Warn("failed to record applied event", zap.String("eventId", eventID), zap.Error(err))
	}
}

func (s *Service) apply(ctx context.Context, ev *models.BillingEvent) (bool, string, error) {
	switch ev.Type {
	case EventCheckoutCompleted, EventSubscriptionUpdated, EventSubscriptionDeleted, EventInvoicePaid, EventInvoiceFailed:
	default:
		return false, "", nil
	}

	rec, err := s.locate(ctx, ev)
	if err != nil {
		return false, "", fmt.Errorf("failed to locate subscription for event %s: %w", ev.ID, err)
	}
	if rec == nil {
		if ev.Type == EventCheckoutCompleted {
			// The pending record may still be waiting in the persist retry.
			return false, "", fmt.Errorf("%w: user %s record %s", ErrRecordNotStored, ev.UserID, ev.RecordID)
		}
		s.logger.Info("no subscription record matches event",
			zap.String("eventId", ev.ID),
			zap.String("userId", ev.UserID),
			zap.String("recordId", ev.RecordID),
		)
		return false, "", nil
	}

	if rec.LastEventAt != nil && ev.Created.Before(*rec.LastEventAt) {
		s.logger.Info("stale event ignored", zap.String("eventId", ev.ID), zap.String("recordId", rec.ID))
		return false, rec.ID, nil
	}

	next, changed := transition(rec, ev)
	if !changed {
		return false, rec.ID, nil
	}

	created := ev.Created
	next.LastEventID = ev.ID
	next.LastEventAt = &created
	next.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, &next); err != nil {
		return false, rec.ID, fmt.Errorf("failed to save subscription %s: %w", rec.ID, err)
	}

	s.logger.Info("subscription reconciled",
		zap.String("recordId", rec.ID),
		zap.String("from", string(rec.Status)),
		zap.String("to", string(next.Status)),
		zap.String("eventType", ev.Type),
	)
	return true, rec.ID, nil
}

// locate finds the record an event refers to. Checkout completion only
// trusts the metadata pair; later events may fall back to the provider id.
func (s *Service) locate(ctx context.Context, ev *models.BillingEvent) (*models.SubscriptionRecord, error) {
	if ev.UserID != "" && ev.RecordID != "" {
		rec, err := s.repo.FindByUserAndID(ctx, ev.UserID, ev.RecordID)
		if err != nil || rec != nil {
			return rec, err
		}
	}
	if ev.Type == EventCheckoutCompleted || ev.SubscriptionID == "" {
		return nil, nil
	}
	return s.repo.FindByProviderSubscriptionID(ctx, ev.SubscriptionID)
}

// transition computes the record after ev. Canceled is terminal.
func transition(rec *models.SubscriptionRecord, ev *models.BillingEvent) (models.SubscriptionRecord, bool) {
	next := *rec
	if rec.Status == models.SubscriptionCanceled {
		return next, false
	}

	switch ev.Type {
	case EventCheckoutCompleted:
		next.Status = models.SubscriptionActive
		if ev.SubscriptionID != "" {
			next.SubscriptionID = ev.SubscriptionID
		}
		if ev.CustomerID != "" {
			next.CustomerID = ev.CustomerID
		}

	case EventSubscriptionUpdated:
		if ev.Status != "" {
			next.Status = ev.Status
		}
		if ev.CurrentPeriodEnd != nil {
			next.CurrentPeriodEnd = ev.CurrentPeriodEnd
		}
		if next.SubscriptionID == "" {
			next.SubscriptionID = ev.SubscriptionID
		}
		if next.Status == models.SubscriptionCanceled {
			canceledAt := ev.Created
			next.CanceledAt = &canceledAt
		}

	case EventSubscriptionDeleted:
		canceledAt := ev.Created
		next.Status = models.SubscriptionCanceled
		next.CanceledAt = &canceledAt
		if ev.CurrentPeriodEnd != nil {
			next.CurrentPeriodEnd = ev.CurrentPeriodEnd
		}

	case EventInvoicePaid:
		if rec.Status == models.SubscriptionPastDue {
			next.Status = models.SubscriptionActive
		}
		if next.SubscriptionID == "" {
			next.SubscriptionID = ev.SubscriptionID
		}
		if ev.CurrentPeriodEnd != nil {
			next.CurrentPeriodEnd = ev.CurrentPeriodEnd
		}

	case EventInvoiceFailed:
		if rec.Status == models.SubscriptionActive || rec.Status == models.SubscriptionTrialing {
			next.Status = models.SubscriptionPastDue
		}
	}

	return next, !sameState(rec, &next)
}

func sameState(a, b *models.SubscriptionRecord) bool {
	return a.Status == b.Status &&
		a.SubscriptionID == b.SubscriptionID &&
		a.CustomerID == b.CustomerID &&
		equalTime(a.CurrentPeriodEnd, b.CurrentPeriodEnd) &&
		equalTime(a.CanceledAt, b.CanceledAt)
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
