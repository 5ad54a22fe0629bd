package billing

import (
	"context"
	"errors"
	"testing"

	"garagedesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartCheckout_CreatesPendingRecord(t *testing.T) {
	env := setupBillingTest(ReuseStoredCustomer)

	res, err := env.svc.StartCheckout(context.Background(), CheckoutRequest{UserID: "user-1", Plan: models.PlanBasic})
	require.NoError(t, err)
	assert.NotEmpty(t, res.CheckoutURL)
	assert.Equal(t, "cs_test_1", res.SessionID)
	assert.False(t, res.Outcome.Degraded())

	require.Equal(t, 1, env.repo.count())
	rec := env.repo.get(res.Record.ID)
	assert.Equal(t, models.SubscriptionPending, rec.Status)
	assert.Equal(t, models.PlanBasic, rec.Plan)
	assert.Equal(t, "cus_new", rec.CustomerID)
	assert.Equal(t, "cs_test_1", rec.CheckoutSessionID)

	require.Len(t, env.gateway.sessions, 1)
	sess := env.gateway.sessions[0]
	assert.Equal(t, "price_basic", sess.PriceID)
	assert.Equal(t, "user-1", sess.Metadata[MetaUserID])
	assert.Equal(t, rec.ID, sess.Metadata[MetaSubscriptionID])
	assert.Equal(t, "basic", sess.Metadata[MetaPlan])

	assert.Equal(t, []string{"user-1"}, env.lock.released)
}

func TestStartCheckout_RejectsWithoutRecord(t *testing.T) {
	cases := []struct {
		name string
		plan models.PlanID
		want error
	}{
		{"unknown plan", "enterprise", ErrInvalidPlan},
		{"free plan", models.PlanFree, ErrPlanNotPurchasable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := setupBillingTest(ReuseStoredCustomer)
			_, err := env.svc.StartCheckout(context.Background(), CheckoutRequest{UserID: "user-1", Plan: tc.plan})
			assert.ErrorIs(t, err, tc.want)
			assert.Zero(t, env.repo.count())
			assert.Empty(t, env.gateway.customers)
			assert.Empty(t, env.gateway.sessions)
		})
	}
}

func TestStartCheckout_UnknownUser(t *testing.T) {
	env := setupBillingTest(ReuseStoredCustomer)
	_, err := env.svc.StartCheckout(context.Background(), CheckoutRequest{UserID: "ghost", Plan: models.PlanPro})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Zero(t, env.repo.count())
}

func TestStartCheckout_LockHeld(t *testing.T) {
	env := setupBillingTest(ReuseStoredCustomer)
	env.lock.held["user-1"] = "other-request"

	_, err := env.svc.StartCheckout(context.Background(), CheckoutRequest{UserID: "user-1", Plan: models.PlanPro})
	assert.ErrorIs(t, err, ErrCheckoutInProgress)
	assert.Empty(t, env.gateway.sessions)
	assert.Equal(t, "other-request", env.lock.held["user-1"], "a lock held by someone else must not be released")
}

func TestStartCheckout_ReuseStoredCustomer(t *testing.T) {
	env := setupBillingTest(ReuseStoredCustomer)
	env.repo.records["old"] = models.SubscriptionRecord{
		ID: "old", UserID: "user-1", Plan: models.PlanBasic,
		Status: models.SubscriptionCanceled, CustomerID: "cus_existing", CreatedAt: fixedNow.AddDate(0, -2, 0),
	}

	res, err := env.svc.StartCheckout(context.Background(), CheckoutRequest{UserID: "user-1", Plan: models.PlanPro})
	require.NoError(t, err)
	assert.Empty(t, env.gateway.customers)
	assert.Equal(t, "cus_existing", res.Record.CustomerID)
	assert.Equal(t, "cus_existing", env.gateway.sessions[0].CustomerID)
}

func TestStartCheckout_ReuseCreatesWithIdempotencyKey(t *testing.T) {
	env := setupBillingTest(ReuseStoredCustomer)

	_, err := env.svc.StartCheckout(context.Background(), CheckoutRequest{UserID: "user-1", Plan: models.PlanPro})
	require.NoError(t, err)
	require.Len(t, env.gateway.customers, 1)
	assert.Equal(t, "customer-user-1", env.gateway.customers[0].IdempotencyKey)
	assert.Equal(t, "garage@example.test", env.gateway.customers[0].Email)
}

func TestStartCheckout_AlwaysCreateCustomer(t *testing.T) {
	env := setupBillingTest(AlwaysCreateCustomer)
	env.gateway.nextCustomerID = "cus_fresh"
	env.repo.records["old"] = models.SubscriptionRecord{
		ID: "old", UserID: "user-1", CustomerID: "cus_existing", CreatedAt: fixedNow.AddDate(0, -1, 0),
	}

	res, err := env.svc.StartCheckout(context.Background(), CheckoutRequest{UserID: "user-1", Plan: models.PlanBasic})
	require.NoError(t, err)
	require.Len(t, env.gateway.customers, 1)
	assert.Empty(t, env.gateway.customers[0].IdempotencyKey)
	assert.Equal(t, "cus_fresh", res.Record.CustomerID)
}

func TestStartCheckout_ProviderFailure(t *testing.T) {
	env := setupBillingTest(ReuseStoredCustomer)
	env.gateway.failSession = true

	_, err := env.svc.StartCheckout(context.Background(), CheckoutRequest{UserID: "user-1", Plan: models.PlanBasic})
	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "create checkout session", perr.Op)
	assert.Zero(t, env.repo.count())
	assert.Equal(t, []string{"user-1"}, env.lock.released)
}

func TestStartCheckout_MissingPrice(t *testing.T) {
	env := setupBillingTest(ReuseStoredCustomer)
	env.svc.plans = NewPlanCatalog("price_basic", "")

	_, err := env.svc.StartCheckout(context.Background(), CheckoutRequest{UserID: "user-1", Plan: models.PlanPro})
	assert.ErrorIs(t, err, ErrPriceNotConfigured)
}

func TestStartCheckout_PersistFailureIsSecondary(t *testing.T) {
	env := setupBillingTest(ReuseStoredCustomer)
	env.repo.failWrite = true

	res, err := env.svc.StartCheckout(context.Background(), CheckoutRequest{UserID: "user-1", Plan: models.PlanBasic})
	require.NoError(t, err)
	assert.NotEmpty(t, res.CheckoutURL)
	require.True(t, res.Outcome.Degraded())
	require.Len(t, res.Outcome.Failures, 1)

	failure := res.Outcome.Failures[0]
	assert.Equal(t, OpPersistSubscription, failure.Op)
	assert.ErrorIs(t, res.Outcome.Err(), errStorageDown)
	rec, ok := failure.Payload.(*models.SubscriptionRecord)
	require.True(t, ok)
	assert.Equal(t, res.Record.ID, rec.ID)

	// the retry path stores it once storage is back
	env.repo.failWrite = false
	require.NoError(t, env.svc.PersistRecord(context.Background(), rec))
	require.NoError(t, env.svc.PersistRecord(context.Background(), rec))
	assert.Equal(t, 1, env.repo.count())
	assert.Equal(t, 1, env.repo.saves)
}
