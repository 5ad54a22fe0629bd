package subscriptionRepo

import (
	"context"

	"garagedesk/models"
)

// SubscriptionRepository defines data access for subscription records.
// Finders return (nil, nil) when nothing matches.
type SubscriptionRepository interface {
	// Create inserts a new record.
	Create(ctx context.Context, rec *models.SubscriptionRecord) error
	// Save replaces the record with the same id, inserting it if absent.
	Save(ctx context.Context, rec *models.SubscriptionRecord) error
	// FindByUserAndID retrieves the record id owned by userID.
	FindByUserAndID(ctx context.Context, userID, id string) (*models.SubscriptionRecord, error)
	// FindByProviderSubscriptionID retrieves the record mirroring a provider subscription.
	FindByProviderSubscriptionID(ctx context.Context, subscriptionID string) (*models.SubscriptionRecord, error)
	// FindCustomerID returns the provider customer id stored on any of the user's records.
	FindCustomerID(ctx context.Context, userID string) (string, error)
	// ListByUser returns every record of a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.SubscriptionRecord, error)
}
