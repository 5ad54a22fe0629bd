package billing

import (
	"time"

	subscriptionRepo "garagedesk/database/repository/subscription"
	"garagedesk/services/identity"

	"go.uber.org/zap"
)

// Deps are the collaborators of Service. Lock and Ledger are optional.
type Deps struct {
	Repo       subscriptionRepo.SubscriptionRepository
	Gateway    Gateway
	Users      identity.Directory
	Plans      *PlanCatalog
	Lock       Lock
	Ledger     EventLedger
	Logger     *zap.Logger
	Strategy   CustomerStrategy
	SuccessURL string
	CancelURL  string
}

// Service reconciles subscription records with the billing provider.
type Service struct {
	repo       subscriptionRepo.SubscriptionRepository
	gateway    Gateway
	users      identity.Directory
	plans      *PlanCatalog
	lock       Lock
	ledger     EventLedger
	logger     *zap.Logger
	strategy   CustomerStrategy
	successURL string
	cancelURL  string
	now        func() time.Time
}

func NewService(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	strategy := d.Strategy
	if strategy == "" {
		strategy = ReuseStoredCustomer
	}
	plans := d.Plans
	if plans == nil {
		plans = NewPlanCatalog("", "")
	}
	return &Service{
		repo:       d.Repo,
		gateway:    d.Gateway,
		users:      d.Users,
		plans:      plans,
		lock:       d.Lock,
		ledger:     d.Ledger,
		logger:     logger.Named("billing"),
		strategy:   strategy,
		successURL: d.SuccessURL,
		cancelURL:  d.CancelURL,
		now:        time.Now,
	}
}

// Plans exposes the plan catalogue.
func (s *Service) Plans() *PlanCatalog {
	return s.plans
}
