package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"garagedesk/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeGateway implements Gateway with an explicitly constructed Stripe client.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api, webhookSecret: webhookSecret}
}

func (g *StripeGateway) CreateCustomer(ctx context.Context, req CustomerRequest) (string, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	if req.Email != "" {
		params.Email = stripe.String(req.Email)
	}
	if req.Name != "" {
		params.Name = stripe.String(req.Name)
	}
	params.AddMetadata(MetaUserID, req.UserID)
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	cus, err := g.api.Customers.New(params)
	if err != nil {
		return "", &ProviderError{Op: "create customer", Err: err}
	}
	return cus.ID, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req SessionRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:          stripe.String(req.CustomerID),
		ClientReferenceID: stripe.String(req.UserID),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(req.PriceID), Quantity: stripe.Int64(1)},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: req.Metadata,
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, &ProviderError{Op: "create checkout session", Err: err}
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (g *StripeGateway) ParseEvent(payload []byte, signature string) (*models.BillingEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return normaliseEvent(event)
}

func normaliseEvent(event stripe.Event) (*models.BillingEvent, error) {
	ev := &models.BillingEvent{
		ID:      event.ID,
		Type:    string(event.Type),
		Created: time.Unix(event.Created, 0).UTC(),
	}
	if event.Data == nil {
		return ev, nil
	}

	switch ev.Type {
	case EventCheckoutCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("%w: checkout session: %v", ErrMalformedEvent, err)
		}
		ev.UserID = sess.Metadata[MetaUserID]
		if ev.UserID == "" {
			ev.UserID = sess.ClientReferenceID
		}
		ev.RecordID = sess.Metadata[MetaSubscriptionID]
		if sess.Customer != nil {
			ev.CustomerID = sess.Customer.ID
		}
		if sess.Subscription != nil {
			ev.SubscriptionID = sess.Subscription.ID
		}

	case EventSubscriptionUpdated, EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("%w: subscription: %v", ErrMalformedEvent, err)
		}
		ev.UserID = sub.Metadata[MetaUserID]
		ev.RecordID = sub.Metadata[MetaSubscriptionID]
		ev.SubscriptionID = sub.ID
		if sub.Customer != nil {
			ev.CustomerID = sub.Customer.ID
		}
		ev.Status = mapSubscriptionStatus(string(sub.Status))
		if sub.CurrentPeriodEnd > 0 {
			end := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
			ev.CurrentPeriodEnd = &end
		}

	case EventInvoicePaid, EventInvoiceFailed:
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return nil, fmt.Errorf("%w: invoice: %v", ErrMalformedEvent, err)
		}
		if inv.Subscription != nil {
			ev.SubscriptionID = inv.Subscription.ID
		}
		if inv.Customer != nil {
			ev.CustomerID = inv.Customer.ID
		}
		if inv.SubscriptionDetails != nil {
			ev.UserID = inv.SubscriptionDetails.Metadata[MetaUserID]
			ev.RecordID = inv.SubscriptionDetails.Metadata[MetaSubscriptionID]
		}
		ev.CurrentPeriodEnd = subscriptionLinePeriodEnd(&inv)
	}
	return ev, nil
}

// subscriptionLinePeriodEnd returns the latest period end among the invoice's
// subscription lines. The invoice's own period_end covers the previous cycle.
func subscriptionLinePeriodEnd(inv *stripe.Invoice) *time.Time {
	if inv.Lines == nil {
		return nil
	}
	var latest int64
	for _, line := range inv.Lines.Data {
		if line == nil || line.Period == nil {
			continue
		}
		if line.Type != stripe.InvoiceLineItemTypeSubscription && line.Subscription == nil {
			continue
		}
		if line.Period.End > latest {
			latest = line.Period.End
		}
	}
	if latest == 0 {
		return nil
	}
	end := time.Unix(latest, 0).UTC()
	return &end
}

// mapSubscriptionStatus folds provider statuses onto the local enum.
func mapSubscriptionStatus(status string) models.SubscriptionStatus {
	switch status {
	case "active":
		return models.SubscriptionActive
	case "trialing":
		return models.SubscriptionTrialing
	case "past_due", "unpaid", "paused":
		return models.SubscriptionPastDue
	case "canceled", "incomplete_expired":
		return models.SubscriptionCanceled
	case "incomplete":
		return models.SubscriptionPending
	}
	return ""
}
