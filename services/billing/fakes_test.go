package billing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"garagedesk/models"
	"garagedesk/services/identity"

	"go.uber.org/zap"
)

var errStorageDown = errors.New("storage down")

type fakeRepo struct {
	mu        sync.Mutex
	records   map[string]models.SubscriptionRecord
	failWrite bool
	saves     int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[string]models.SubscriptionRecord{}}
}

func (r *fakeRepo) Create(_ context.Context, rec *models.SubscriptionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite {
		return errStorageDown
	}
	r.records[rec.ID] = *rec
	return nil
}

func (r *fakeRepo) Save(_ context.Context, rec *models.SubscriptionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite {
		return errStorageDown
	}
	r.saves++
	r.records[rec.ID] = *rec
	return nil
}

func (r *fakeRepo) FindByUserAndID(_ context.Context, userID, id string) (*models.SubscriptionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.UserID != userID {
		return nil, nil
	}
	return &rec, nil
}

func (r *fakeRepo) FindByProviderSubscriptionID(_ context.Context, subscriptionID string) (*models.SubscriptionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.SubscriptionID == subscriptionID {
			return &rec, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) FindCustomerID(ctx context.Context, userID string) (string, error) {
	list, _ := r.ListByUser(ctx, userID)
	for _, rec := range list {
		if rec.CustomerID != "" {
			return rec.CustomerID, nil
		}
	}
	return "", nil
}

func (r *fakeRepo) ListByUser(_ context.Context, userID string) ([]models.SubscriptionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.SubscriptionRecord{}
	for _, rec := range r.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeRepo) get(id string) models.SubscriptionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[id]
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

type fakeGateway struct {
	customers      []CustomerRequest
	sessions       []SessionRequest
	failCustomer   bool
	failSession    bool
	nextCustomerID string
}

func (g *fakeGateway) CreateCustomer(_ context.Context, req CustomerRequest) (string, error) {
	if g.failCustomer {
		return "", &ProviderError{Op: "create customer", Err: errors.New("card_declined")}
	}
	g.customers = append(g.customers, req)
	if g.nextCustomerID != "" {
		return g.nextCustomerID, nil
	}
	return "cus_new", nil
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req SessionRequest) (*CheckoutSession, error) {
	if g.failSession {
		return nil, &ProviderError{Op: "create checkout session", Err: errors.New("rate limited")}
	}
	g.sessions = append(g.sessions, req)
	return &CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.test/c/cs_test_1"}, nil
}

func (g *fakeGateway) ParseEvent(payload []byte, signature string) (*models.BillingEvent, error) {
	return nil, ErrInvalidSignature
}

type fakeDirectory struct {
	users map[string]models.Identity
}

func (d *fakeDirectory) LookupUser(_ context.Context, uid string) (*models.Identity, error) {
	u, ok := d.users[uid]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	return &u, nil
}

type fakeLock struct {
	held     map[string]string
	released []string
	issued   int
}

func (l *fakeLock) Acquire(_ context.Context, key string) (string, bool, error) {
	if _, ok := l.held[key]; ok {
		return "", false, nil
	}
	l.issued++
	token := fmt.Sprintf("token-%d", l.issued)
	l.held[key] = token
	return token, true, nil
}

func (l *fakeLock) Release(_ context.Context, key, token string) error {
	if l.held[key] != token {
		return errors.New("lock no longer held")
	}
	delete(l.held, key)
	l.released = append(l.released, key)
	return nil
}

type fakeLedger struct {
	seen map[string]bool
}

func (l *fakeLedger) Seen(_ context.Context, id string) (bool, error) { return l.seen[id], nil }
func (l *fakeLedger) Mark(_ context.Context, id string) error {
	l.seen[id] = true
	return nil
}

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	svc     *Service
	repo    *fakeRepo
	gateway *fakeGateway
	lock    *fakeLock
	ledger  *fakeLedger
}

func setupBillingTest(strategy CustomerStrategy) *testEnv {
	env := &testEnv{
		repo:    newFakeRepo(),
		gateway: &fakeGateway{},
		lock:    &fakeLock{held: map[string]string{}},
		ledger:  &fakeLedger{seen: map[string]bool{}},
	}
	env.svc = NewService(Deps{
		Repo:    env.repo,
		Gateway: env.gateway,
		Users: &fakeDirectory{users: map[string]models.Identity{
			"user-1": {UID: "user-1", Email: "garage@example.test", DisplayName: "Garage One"},
		}},
		Plans:      NewPlanCatalog("price_basic", "price_pro"),
		Lock:       env.lock,
		Ledger:     env.ledger,
		Logger:     zap.NewNop(),
		Strategy:   strategy,
		SuccessURL: "https://app.test/billing/success",
		CancelURL:  "https://app.test/pricing",
	})
	env.svc.now = func() time.Time { return fixedNow }
	return env
}
