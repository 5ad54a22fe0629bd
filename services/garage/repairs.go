package garage

import (
	"context"
	"fmt"
	"strings"

	garageRepo "garagedesk/database/repository/garage"
	"garagedesk/models"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

var repairTransitions = map[models.RepairStatus][]models.RepairStatus{
	models.RepairPending:      {models.RepairInProgress, models.RepairWaitingParts, models.RepairCompleted, models.RepairCanceled},
	models.RepairInProgress:   {models.RepairWaitingParts, models.RepairCompleted, models.RepairCanceled},
	models.RepairWaitingParts: {models.RepairInProgress, models.RepairCompleted, models.RepairCanceled},
}

func (s *Service) ListRepairOrders(ctx context.Context, ownerID string, q garageRepo.Query) ([]models.RepairOrder, error) {
	if q.Status != "" && !models.RepairStatus(q.Status).Valid() {
		return nil, invalid("unknown repair status %q", q.Status)
	}
	return s.repairs.List(ctx, ownerID, q)
}

func (s *Service) GetRepairOrder(ctx context.Context, ownerID, id string) (*models.RepairOrder, error) {
	ro, err := s.repairs.Get(ctx, ownerID, id)
	if err != nil {
		return nil, lookupErr("repair order", id, err)
	}
	return ro, nil
}

func (s *Service) prepareRepair(ctx context.Context, ownerID string, ro *models.RepairOrder) error {
	if ro.Priority == "" {
		ro.Priority = models.PriorityNormal
	}
	if !ro.Priority.Valid() {
		return invalid("unknown priority %q", ro.Priority)
	}
	if err := validateRepairItems(ro.Tasks, ro.Parts); err != nil {
		return err
	}
	if _, err := s.vehicles.Get(ctx, ownerID, ro.VehicleID); err != nil {
		return refErr("vehicle", ro.VehicleID, err)
	}
	if ro.ClientID != "" {
		if _, err := s.clients.Get(ctx, ownerID, ro.ClientID); err != nil {
			return refErr("client", ro.ClientID, err)
		}
	}
	ro.Description = strings.TrimSpace(ro.Description)
	ro.Tasks = lo.Ternary(ro.Tasks == nil, []models.RepairTask{}, ro.Tasks)
	ro.Parts = lo.Ternary(ro.Parts == nil, []models.RepairPart{}, ro.Parts)
	ro.Costs = computeRepairCosts(ro.Tasks, ro.Parts)
	return nil
}

func (s *Service) CreateRepairOrder(ctx context.Context, ownerID string, in models.RepairOrder) (*models.RepairOrder, error) {
	if err := s.prepareRepair(ctx, ownerID, &in); err != nil {
		return nil, err
	}

	now := s.now()
	seq, err := s.counters.Next(ctx, ownerID, fmt.Sprintf("repair:%d", now.Year()))
	if err != nil {
		return nil, err
	}
	in.ID = uuid.NewString()
	in.OwnerID = ownerID
	in.Number = fmt.Sprintf("RO-%d-%04d", now.Year(), seq)
	in.Status = models.RepairPending
	in.OpenedAt = now
	in.ClosedAt = nil
	in.CreatedAt = now
	in.UpdatedAt = now

	if err := s.repairs.Insert(ctx, &in); err != nil {
		return nil, fmt.Errorf("failed to create repair order: %w", err)
	}
	s.recordVehicleEvent(ctx, ownerID, in.VehicleID, models.VehicleEvent{Kind: EventRepairOpened, Note: in.Number, Ref: in.ID, At: now})
	return &in, nil
}

// UpdateRepairOrder edits an open order and recomputes its costs.
func (s *Service) UpdateRepairOrder(ctx context.Context, ownerID, id string, in models.RepairOrder) (*models.RepairOrder, error) {
	current, err := s.GetRepairOrder(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if current.Status == models.RepairCompleted || current.Status == models.RepairCanceled {
		return nil, fmt.Errorf("%w: repair order %s is %s", ErrNotEditable, current.Number, current.Status)
	}
	if err := s.prepareRepair(ctx, ownerID, &in); err != nil {
		return nil, err
	}
	in.ID = current.ID
	in.OwnerID = ownerID
	in.Number = current.Number
	in.Status = current.Status
	in.OpenedAt = current.OpenedAt
	in.ClosedAt = current.ClosedAt
	in.CreatedAt = current.CreatedAt
	in.UpdatedAt = s.now()

	if err := s.repairs.Replace(ctx, ownerID, id, &in); err != nil {
		return nil, lookupErr("repair order", id, err)
	}
	return &in, nil
}

// ChangeRepairStatus moves an order along its workflow. Completing or
// canceling stamps ClosedAt.
func (s *Service) ChangeRepairStatus(ctx context.Context, ownerID, id string, status models.RepairStatus) (*models.RepairOrder, error) {
	if !status.Valid() {
		return nil, invalid("unknown repair status %q", status)
	}
	ro, err := s.GetRepairOrder(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if !lo.Contains(repairTransitions[ro.Status], status) {
		return nil, fmt.Errorf("%w: repair order %s from %s to %s", ErrInvalidTransition, ro.Number, ro.Status, status)
	}

	now := s.now()
	ro.Status = status
	if status == models.RepairCompleted || status == models.RepairCanceled {
		ro.ClosedAt = &now
	}
	ro.UpdatedAt = now
	if err := s.repairs.Replace(ctx, ownerID, id, ro); err != nil {
		return nil, lookupErr("repair order", id, err)
	}
	s.recordVehicleEvent(ctx, ownerID, ro.VehicleID, models.VehicleEvent{
		Kind: EventRepairStatus,
		Note: fmt.Sprintf("%s %s", ro.Number, status),
		Ref:  ro.ID,
		At:   now,
	})
	return ro, nil
}
