package billing

import (
	"context"

	"garagedesk/models"
)

// Provider event types handled by reconciliation.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
	EventInvoicePaid         = "invoice.payment_succeeded"
	EventInvoiceFailed       = "invoice.payment_failed"
)

// Metadata keys stamped on checkout sessions and provider subscriptions.
const (
	MetaUserID         = "userId"
	MetaSubscriptionID = "subscriptionId"
	MetaPlan           = "plan"
)

type CustomerRequest struct {
	UserID         string
	Email          string
	Name           string
	IdempotencyKey string
}

type SessionRequest struct {
	CustomerID string
	PriceID    string
	UserID     string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// Gateway is the billing provider seen by the service.
type Gateway interface {
	CreateCustomer(ctx context.Context, req CustomerRequest) (string, error)
	CreateCheckoutSession(ctx context.Context, req SessionRequest) (*CheckoutSession, error)
	// ParseEvent verifies the signature and normalises the payload.
	ParseEvent(payload []byte, signature string) (*models.BillingEvent, error)
}

// Lock prevents concurrent checkout initiation for one user.
type Lock interface {
	// Acquire returns an owner token when the key was free.
	Acquire(ctx context.Context, key string) (string, bool, error)
	// Release frees the key only if token still owns it.
	Release(ctx context.Context, key, token string) error
}

// EventLedger remembers which provider events were already applied.
type EventLedger interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}

// CustomerStrategy selects how checkout obtains a provider customer.
type CustomerStrategy string

const (
	// ReuseStoredCustomer reuses the customer id stored on the user's records.
	ReuseStoredCustomer CustomerStrategy = "reuse"
	// AlwaysCreateCustomer creates a provider customer on every checkout.
	AlwaysCreateCustomer CustomerStrategy = "create"
)
