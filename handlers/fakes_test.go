package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	garageRepo "garagedesk/database/repository/garage"
	"garagedesk/middleware"
	"garagedesk/models"
	"garagedesk/services/billing"
	"garagedesk/services/garage"
	"garagedesk/services/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeBilling struct {
	catalog *billing.PlanCatalog

	checkouts   []billing.CheckoutRequest
	checkoutErr error
	outcome     billing.Outcome

	verifyErr   error
	event       *models.BillingEvent
	handled     []*models.BillingEvent
	eventResult billing.EventResult

	records []models.SubscriptionRecord
}

func newFakeBilling() *fakeBilling {
	return &fakeBilling{catalog: billing.NewPlanCatalog("price_basic", "price_pro")}
}

func (f *fakeBilling) Plans() *billing.PlanCatalog { return f.catalog }

func (f *fakeBilling) StartCheckout(_ context.Context, req billing.CheckoutRequest) (*billing.CheckoutResult, error) {
	f.checkouts = append(f.checkouts, req)
	if f.checkoutErr != nil {
		return nil, f.checkoutErr
	}
	return &billing.CheckoutResult{
		SessionID:   "cs_test_1",
		CheckoutURL: "https://checkout.stripe.test/cs_test_1",
		Record:      &models.SubscriptionRecord{ID: "sub-local-1", UserID: req.UserID, Plan: req.Plan, Status: models.SubscriptionPending},
		Outcome:     f.outcome,
	}, nil
}

func (f *fakeBilling) VerifyEvent(_ []byte, signature string) (*models.BillingEvent, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	if signature == "" {
		return nil, billing.ErrInvalidSignature
	}
	return f.event, nil
}

func (f *fakeBilling) HandleEvent(_ context.Context, ev *models.BillingEvent) billing.EventResult {
	f.handled = append(f.handled, ev)
	return f.eventResult
}

func (f *fakeBilling) Current(_ context.Context, userID string) (*models.SubscriptionRecord, error) {
	if len(f.records) == 0 {
		return &models.SubscriptionRecord{ID: "free_" + userID, UserID: userID, Plan: models.PlanFree, Status: models.SubscriptionActive, Synthetic: true}, nil
	}
	return &f.records[0], nil
}

func (f *fakeBilling) History(context.Context, string) ([]models.SubscriptionRecord, error) {
	return f.records, nil
}

type fakeRetries struct {
	outcomes []billing.Outcome
}

func (q *fakeRetries) RetryFailures(_ context.Context, o billing.Outcome) error {
	q.outcomes = append(q.outcomes, o)
	return nil
}

type memFiles struct {
	uploads []storage.UploadInput
}

func (f *memFiles) Upload(_ context.Context, r io.Reader, in storage.UploadInput) (*models.StoredFile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	n, _ := io.Copy(io.Discard, r)
	f.uploads = append(f.uploads, in)
	id := in.Folder + "/" + in.Filename
	return &models.StoredFile{Name: in.Filename, Kind: in.Kind, URL: "https://files.test/" + id, PublicID: id, Bytes: int(n)}, nil
}

func (f *memFiles) Delete(context.Context, string) error { return nil }

type fixedPlan models.Plan

func (p fixedPlan) EffectivePlan(context.Context, string) (models.Plan, error) {
	return models.Plan(p), nil
}

// asUser stands in for RequireAuth.
func asUser(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid != "" {
			c.Set(middleware.ContextUserID, uid)
			c.Set(middleware.ContextUserEmail, uid+"@garage.test")
		}
		c.Set(middleware.ContextLogger, zap.NewNop())
		c.Next()
	}
}

func newGarageHandler(plan models.Plan) (*GarageHandler, *memFiles) {
	files := &memFiles{}
	deps := garage.DepsFromMemory(garageRepo.NewMemoryRepositories())
	deps.Files = files
	deps.Entitlements = fixedPlan(plan)
	return NewGarageHandler(garage.NewService(deps)), files
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doUpload(t *testing.T, r http.Handler, path, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
