package garage

import (
	"context"
	"time"

	garageRepo "garagedesk/database/repository/garage"
	"garagedesk/models"
	"garagedesk/services/storage"

	"go.uber.org/zap"
)

// Entitlements tells the garage service what the account's plan allows.
type Entitlements interface {
	EffectivePlan(ctx context.Context, userID string) (models.Plan, error)
}

type Deps struct {
	Clients      garageRepo.Repository[models.Client]
	Vehicles     garageRepo.Repository[models.Vehicle]
	Invoices     garageRepo.Repository[models.Invoice]
	Templates    garageRepo.Repository[models.GuaranteeTemplate]
	Guarantees   garageRepo.Repository[models.Guarantee]
	Repairs      garageRepo.Repository[models.RepairOrder]
	Counters     garageRepo.Sequencer
	Files        storage.FileStore
	Entitlements Entitlements
	Logger       *zap.Logger
}

// DepsFromRepositories fills the repository fields of Deps from the mongo collections.
func DepsFromRepositories(r *garageRepo.Repositories) Deps {
	return Deps{
		Clients:    r.Clients,
		Vehicles:   r.Vehicles,
		Invoices:   r.Invoices,
		Templates:  r.GuaranteeTemplates,
		Guarantees: r.Guarantees,
		Repairs:    r.RepairOrders,
		Counters:   r.Counters,
	}
}

// Service implements the owner-scoped garage records. Every method takes the
// authenticated account id as ownerID.
type Service struct {
	clients      garageRepo.Repository[models.Client]
	vehicles     garageRepo.Repository[models.Vehicle]
	invoices     garageRepo.Repository[models.Invoice]
	templates    garageRepo.Repository[models.GuaranteeTemplate]
	guarantees   garageRepo.Repository[models.Guarantee]
	repairs      garageRepo.Repository[models.RepairOrder]
	counters     garageRepo.Sequencer
	files        storage.FileStore
	entitlements Entitlements
	logger       *zap.Logger
	now          func() time.Time
}

func NewService(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		clients:      d.Clients,
		vehicles:     d.Vehicles,
		invoices:     d.Invoices,
		templates:    d.Templates,
		guarantees:   d.Guarantees,
		repairs:      d.Repairs,
		counters:     d.Counters,
		files:        d.Files,
		entitlements: d.Entitlements,
		logger:       logger.Named("garage"),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// DepsFromMemory fills the repository fields of Deps from in-process stores.
func DepsFromMemory(r *garageRepo.MemoryRepositories) Deps {
	return Deps{
		Clients:    r.Clients,
		Vehicles:   r.Vehicles,
		Invoices:   r.Invoices,
		Templates:  r.GuaranteeTemplates,
		Guarantees: r.Guarantees,
		Repairs:    r.RepairOrders,
		Counters:   r.Counters,
	}
}
