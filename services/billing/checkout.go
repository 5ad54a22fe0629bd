package billing

import (
	"context"
	"errors"
	"fmt"

	"garagedesk/models"
	"garagedesk/services/identity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckoutRequest struct {
	UserID string
	Plan   models.PlanID
}

type CheckoutResult struct {
	SessionID   string
	CheckoutURL string
	Record      *models.SubscriptionRecord
	Outcome     Outcome
}

// StartCheckout resolves the customer, opens a hosted checkout session and
// records it as a pending subscription. A failed record write after the
// session exists is reported in Outcome, not as an error.
func (s *Service) StartCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	priceID, err := s.plans.ResolvePrice(req.Plan)
	if err != nil {
		return nil, err
	}
	if s.successURL == "" || s.cancelURL == "" {
		return nil, ErrMissingCheckoutURLs
	}

	user, err := s.users.LookupUser(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user %s: %w", req.UserID, err)
	}

	if s.lock != nil {
		token, acquired, err := s.lock.Acquire(ctx, req.UserID)
		switch {
		case err != nil:
			s.logger.Warn("checkout lock unavailable, continuing unlocked", zap.String("userId", req.UserID), zap.Error(err))
		case !acquired:
			return nil, ErrCheckoutInProgress
		default:
			defer func() {
				if err := s.lock.Release(context.WithoutCancel(ctx), req.UserID, token); err != nil {
					s.logger.Warn("failed to release checkout lock", zap.String("userId", req.UserID), zap.Error(err))
				}
			}()
		}
	}

	customerID, err := s.resolveCustomer(ctx, user)
	if err != nil {
		return nil, err
	}

	recordID := uuid.NewString()
	session, err := s.gateway.CreateCheckoutSession(ctx, SessionRequest{
		CustomerID: customerID,
		PriceID:    priceID,
		UserID:     user.UID,
		SuccessURL: s.successURL,
		CancelURL:  s.cancelURL,
		Metadata: map[string]string{
			MetaUserID:         user.UID,
			MetaSubscriptionID: recordID,
			MetaPlan:           string(req.Plan),
		},
	})
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rec := &models.SubscriptionRecord{
		ID:                recordID,
		UserID:            user.UID,
		Plan:              req.Plan,
		Status:            models.SubscriptionPending,
		CustomerID:        customerID,
		CheckoutSessionID: session.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	result := &CheckoutResult{SessionID: session.ID, CheckoutURL: session.URL, Record: rec}
	if err := s.repo.Create(ctx, rec); err != nil {
		s.logger.Error("checkout session created but subscription record not persisted",
			zap.String("sessionId", session.ID),
			zap.String("recordId", rec.ID),
			zap.Error(err),
		)
		result.Outcome.add(OpPersistSubscription, err, rec)
	}

	s.logger.Info("checkout session created",
		zap.String("userId", user.UID),
		zap.String("plan", string(req.Plan)),
		zap.String("sessionId", session.ID),
	)
	return result, nil
}

func (s *Service) resolveCustomer(ctx context.Context, user *models.Identity) (string, error) {
	req := CustomerRequest{UserID: user.UID, Email: user.Email, Name: user.DisplayName}

	if s.strategy == ReuseStoredCustomer {
		customerID, err := s.repo.FindCustomerID(ctx, user.UID)
		if err != nil {
			return "", fmt.Errorf("failed to look up stored customer: %w", err)
		}
		if customerID != "" {
			return customerID, nil
		}
		req.IdempotencyKey = "customer-" + user.UID
	}

	return s.gateway.CreateCustomer(ctx, req)
}

// PersistRecord stores a record whose first write failed. Safe to repeat.
func (s *Service) PersistRecord(ctx context.Context, rec *models.SubscriptionRecord) error {
	existing, err := s.repo.FindByUserAndID(ctx, rec.UserID, rec.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		// The first write landed after all.
		return nil
	}
	return s.repo.Save(ctx, rec)
}
