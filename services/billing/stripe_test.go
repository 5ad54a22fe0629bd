package billing

import (
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"garagedesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

const testWebhookSecret = "whsec_test_secret"

func signedHeader(payload []byte, secret string) string {
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, secret)
	return fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))
}

func eventPayload(id, eventType, object string) []byte {
	return []byte(fmt.Sprintf(`{
  "id": %q,
  "object": "event",
  "api_version": %q,
  "created": 1767225600,
  "type": %q,
  "data": {"object": %s}
}`, id, stripe.APIVersion, eventType, object))
}

func TestParseEvent_CheckoutCompleted(t *testing.T) {
	gw := NewStripeGateway("sk_test_unused", testWebhookSecret)
	payload := eventPayload("evt_1", EventCheckoutCompleted, `{
    "id": "cs_1",
    "object": "checkout.session",
    "customer": "cus_1",
    "subscription": "sub_1",
    "client_reference_id": "user-1",
    "metadata": {"userId": "user-1", "subscriptionId": "rec-1", "plan": "pro"}
  }`)

	ev, err := gw.ParseEvent(payload, signedHeader(payload, testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, "evt_1", ev.ID)
	assert.Equal(t, EventCheckoutCompleted, ev.Type)
	assert.Equal(t, "user-1", ev.UserID)
	assert.Equal(t, "rec-1", ev.RecordID)
	assert.Equal(t, "cus_1", ev.CustomerID)
	assert.Equal(t, "sub_1", ev.SubscriptionID)
	assert.Equal(t, time.Unix(1767225600, 0).UTC(), ev.Created)
}

func TestParseEvent_SubscriptionUpdated(t *testing.T) {
	gw := NewStripeGateway("sk_test_unused", testWebhookSecret)
	payload := eventPayload("evt_2", EventSubscriptionUpdated, `{
    "id": "sub_1",
    "object": "subscription",
    "customer": "cus_1",
    "status": "unpaid",
    "current_period_end": 1769904000,
    "metadata": {"userId": "user-1", "subscriptionId": "rec-1"}
  }`)

	ev, err := gw.ParseEvent(payload, signedHeader(payload, testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionPastDue, ev.Status)
	assert.Equal(t, "sub_1", ev.SubscriptionID)
	require.NotNil(t, ev.CurrentPeriodEnd)
	assert.Equal(t, int64(1769904000), ev.CurrentPeriodEnd.Unix())
}

func TestParseEvent_InvoicePaid(t *testing.T) {
	gw := NewStripeGateway("sk_test_unused", testWebhookSecret)
	payload := eventPayload("evt_4", EventInvoicePaid, `{
    "id": "in_1",
    "object": "invoice",
    "customer": "cus_1",
    "subscription": "sub_1",
    "period_end": 1767225600,
    "subscription_details": {"metadata": {"userId": "user-1", "subscriptionId": "rec-1", "plan": "pro"}},
    "lines": {
      "object": "list",
      "data": [
        {"id": "il_1", "object": "line_item", "type": "subscription", "subscription": "sub_1",
         "period": {"start": 1767225600, "end": 1769904000}}
      ]
    }
  }`)

	ev, err := gw.ParseEvent(payload, signedHeader(payload, testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, EventInvoicePaid, ev.Type)
	assert.Equal(t, "sub_1", ev.SubscriptionID)
	assert.Equal(t, "cus_1", ev.CustomerID)
	assert.Equal(t, "user-1", ev.UserID)
	assert.Equal(t, "rec-1", ev.RecordID)
	require.NotNil(t, ev.CurrentPeriodEnd)
	assert.Equal(t, int64(1769904000), ev.CurrentPeriodEnd.Unix())
}

func TestParseEvent_InvoiceWithoutSubscriptionLines(t *testing.T) {
	gw := NewStripeGateway("sk_test_unused", testWebhookSecret)
	payload := eventPayload("evt_5", EventInvoiceFailed, `{
    "id": "in_2",
    "object": "invoice",
    "customer": "cus_1",
    "lines": {"object": "list", "data": [
      {"id": "il_2", "object": "line_item", "type": "invoiceitem", "period": {"start": 1, "end": 2}}
    ]}
  }`)

	ev, err := gw.ParseEvent(payload, signedHeader(payload, testWebhookSecret))
	require.NoError(t, err)
	assert.Empty(t, ev.SubscriptionID)
	assert.Empty(t, ev.UserID)
	assert.Nil(t, ev.CurrentPeriodEnd)
}

func TestParseEvent_InvalidSignature(t *testing.T) {
	gw := NewStripeGateway("sk_test_unused", testWebhookSecret)
	payload := eventPayload("evt_3", EventCheckoutCompleted, `{"id": "cs_1", "object": "checkout.session"}`)

	_, err := gw.ParseEvent(payload, signedHeader(payload, "whsec_wrong"))
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = gw.ParseEvent(payload, "")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestMapSubscriptionStatus(t *testing.T) {
	cases := map[string]models.SubscriptionStatus{
		"active":             models.SubscriptionActive,
		"trialing":           models.SubscriptionTrialing,
		"past_due":           models.SubscriptionPastDue,
		"paused":             models.SubscriptionPastDue,
		"canceled":           models.SubscriptionCanceled,
		"incomplete_expired": models.SubscriptionCanceled,
		"incomplete":         models.SubscriptionPending,
		"mystery":            "",
	}
	for in, want := range cases {
		assert.Equal(t, want, mapSubscriptionStatus(in), in)
	}
}
