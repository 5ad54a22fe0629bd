package billing

import (
	"context"
	"fmt"

	"garagedesk/models"
)

// Current returns the user's subscription snapshot: the newest entitled
// record, else the newest record, else a synthetic free record valid for a year.
func (s *Service) Current(ctx context.Context, userID string) (*models.SubscriptionRecord, error) {
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	for i := range records {
		if records[i].Entitled() {
			return &records[i], nil
		}
	}
	if len(records) > 0 {
		return &records[0], nil
	}

	now := s.now().UTC()
	periodEnd := now.AddDate(1, 0, 0)
	return &models.SubscriptionRecord{
		ID:               "free_" + userID,
		UserID:           userID,
		Plan:             models.PlanFree,
		Status:           models.SubscriptionActive,
		CurrentPeriodEnd: &periodEnd,
		Synthetic:        true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// History lists every record of the user, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]models.SubscriptionRecord, error) {
	return s.repo.ListByUser(ctx, userID)
}

// EffectivePlan returns the plan the user is entitled to right now.
func (s *Service) EffectivePlan(ctx context.Context, userID string) (models.Plan, error) {
	rec, err := s.Current(ctx, userID)
	if err != nil {
		return models.Plan{}, err
	}
	if !rec.Entitled() {
		return s.plans.Plan(models.PlanFree), nil
	}
	return s.plans.Plan(rec.Plan), nil
}
