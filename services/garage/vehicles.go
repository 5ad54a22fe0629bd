package garage

import (
	"context"
	"fmt"
	"io"
	"strings"

	garageRepo "garagedesk/database/repository/garage"
	"garagedesk/models"
	"garagedesk/services/storage"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Vehicle history event kinds.
const (
	EventVehicleCreated = "created"
	EventStatusChanged  = "status_changed"
	EventRepairOpened   = "repair_opened"
	EventRepairStatus   = "repair_status"
	EventInvoicePaid    = "invoice_paid"
	EventGuarantee      = "guarantee_issued"
)

func (s *Service) ListVehicles(ctx context.Context, ownerID string, q garageRepo.Query) ([]models.Vehicle, error) {
	if q.Status != "" && !models.VehicleStatus(q.Status).Valid() {
		return nil, invalid("unknown vehicle status %q", q.Status)
	}
	return s.vehicles.List(ctx, ownerID, q)
}

func (s *Service) GetVehicle(ctx context.Context, ownerID, id string) (*models.Vehicle, error) {
	v, err := s.vehicles.Get(ctx, ownerID, id)
	if err != nil {
		return nil, lookupErr("vehicle", id, err)
	}
	return v, nil
}

func (s *Service) validateVehicle(ctx context.Context, ownerID string, v *models.Vehicle) error {
	v.Make = strings.TrimSpace(v.Make)
	v.Model = strings.TrimSpace(v.Model)
	v.VIN = strings.ToUpper(strings.TrimSpace(v.VIN))
	v.Plate = strings.ToUpper(strings.TrimSpace(v.Plate))
	if v.Make == "" || v.Model == "" {
		return invalid("make and model are required")
	}
	if v.VIN != "" && len(v.VIN) != 17 {
		return invalid("VIN must have 17 characters")
	}
	if v.Year != 0 && (v.Year < 1900 || v.Year > s.now().Year()+1) {
		return invalid("year %d is out of range", v.Year)
	}
	if v.Mileage < 0 || v.PurchasePrice < 0 || v.SalePrice < 0 {
		return invalid("mileage and prices cannot be negative")
	}
	if v.ClientID != "" {
		if _, err := s.clients.Get(ctx, ownerID, v.ClientID); err != nil {
			return refErr("client", v.ClientID, err)
		}
	}
	v.Options = lo.Uniq(lo.Compact(lo.Map(v.Options, func(o string, _ int) string { return strings.TrimSpace(o) })))
	return nil
}

// checkVehicleLimit enforces the plan's stock limit. Zero means unlimited.
func (s *Service) checkVehicleLimit(ctx context.Context, ownerID string) error {
	if s.entitlements == nil {
		return nil
	}
	plan, err := s.entitlements.EffectivePlan(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to resolve plan: %w", err)
	}
	if plan.MaxVehicles == 0 {
		return nil
	}
	n, err := s.vehicles.Count(ctx, ownerID, garageRepo.Query{})
	if err != nil {
		return err
	}
	if n >= int64(plan.MaxVehicles) {
		return fmt.Errorf("%w: %s plan allows %d", ErrVehicleLimit, plan.ID, plan.MaxVehicles)
	}
	return nil
}

func (s *Service) CreateVehicle(ctx context.Context, ownerID string, in models.Vehicle) (*models.Vehicle, error) {
	if in.Status == "" {
		in.Status = models.VehicleAvailable
	}
	if !in.Status.Valid() {
		return nil, invalid("unknown vehicle status %q", in.Status)
	}
	if err := s.validateVehicle(ctx, ownerID, &in); err != nil {
		return nil, err
	}
	if err := s.checkVehicleLimit(ctx, ownerID); err != nil {
		return nil, err
	}

	now := s.now()
	in.ID = uuid.NewString()
	in.OwnerID = ownerID
	in.Photos = []models.StoredFile{}
	in.History = []models.VehicleEvent{{Kind: EventVehicleCreated, Note: string(in.Status), At: now}}
	in.CreatedAt = now
	in.UpdatedAt = now

	if err := s.vehicles.Insert(ctx, &in); err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}
	return &in, nil
}

// UpdateVehicle replaces the descriptive fields. Status goes through
// ChangeVehicleStatus so the history stays complete.
func (s *Service) UpdateVehicle(ctx context.Context, ownerID, id string, in models.Vehicle) (*models.Vehicle, error) {
	current, err := s.GetVehicle(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateVehicle(ctx, ownerID, &in); err != nil {
		return nil, err
	}
	in.ID = current.ID
	in.OwnerID = ownerID
	in.Status = current.Status
	in.Photos = current.Photos
	in.History = current.History
	in.CreatedAt = current.CreatedAt
	in.UpdatedAt = s.now()

	if err := s.vehicles.Replace(ctx, ownerID, id, &in); err != nil {
		return nil, lookupErr("vehicle", id, err)
	}
	return &in, nil
}

func (s *Service) ChangeVehicleStatus(ctx context.Context, ownerID, id string, status models.VehicleStatus, note string) (*models.Vehicle, error) {
	if !status.Valid() {
		return nil, invalid("unknown vehicle status %q", status)
	}
	v, err := s.GetVehicle(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if v.Status == status {
		return v, nil
	}

	now := s.now()
	from := v.Status
	v.Status = status
	v.History = append(v.History, models.VehicleEvent{
		Kind: EventStatusChanged,
		Note: strings.TrimSpace(fmt.Sprintf("%s -> %s %s", from, status, note)),
		At:   now,
	})
	v.UpdatedAt = now
	if err := s.vehicles.Replace(ctx, ownerID, id, v); err != nil {
		return nil, lookupErr("vehicle", id, err)
	}
	return v, nil
}

// DeleteVehicle removes the vehicle and, best-effort, its photos.
func (s *Service) DeleteVehicle(ctx context.Context, ownerID, id string) error {
	v, err := s.GetVehicle(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.vehicles.Delete(ctx, ownerID, id); err != nil {
		return lookupErr("vehicle", id, err)
	}
	if s.files != nil {
		for _, p := range v.Photos {
			if err := s.files.Delete(ctx, p.PublicID); err != nil {
				s.logger.Warn("failed to delete vehicle photo", zap.String("publicId", p.PublicID), zap.Error(err))
			}
		}
	}
	return nil
}

func (s *Service) AddVehiclePhoto(ctx context.Context, ownerID, vehicleID string, r io.Reader, in storage.UploadInput) (*models.StoredFile, error) {
	if _, err := s.GetVehicle(ctx, ownerID, vehicleID); err != nil {
		return nil, err
	}
	in.Folder = storage.OwnerFolder(ownerID, "vehicles", vehicleID)
	in.Kind = "photo"
	return s.attachFile(ctx, "vehicle", s.vehicles.Push, ownerID, vehicleID, "photos", r, in)
}

// recordVehicleEvent appends to a vehicle's history without failing the caller.
func (s *Service) recordVehicleEvent(ctx context.Context, ownerID, vehicleID string, ev models.VehicleEvent) {
	if vehicleID == "" {
		return
	}
	if err := s.vehicles.Push(ctx, ownerID, vehicleID, "history", ev); err != nil {
		s.logger.Warn("failed to record vehicle event",
			zap.String("vehicleId", vehicleID),
			zap.String("kind", ev.Kind),
			zap.Error(err),
		)
	}
}
