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

func (s *Service) ListGuaranteeTemplates(ctx context.Context, ownerID string, q garageRepo.Query) ([]models.GuaranteeTemplate, error) {
	return s.templates.List(ctx, ownerID, q)
}

func validateTemplate(t *models.GuaranteeTemplate) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return invalid("template name is required")
	}
	if t.DurationMonths <= 0 || t.DurationMonths > 120 {
		return invalid("duration must be between 1 and 120 months")
	}
	if t.Price < 0 {
		return invalid("price cannot be negative")
	}
	t.Coverage = lo.Uniq(lo.Compact(t.Coverage))
	return nil
}

func (s *Service) CreateGuaranteeTemplate(ctx context.Context, ownerID string, in models.GuaranteeTemplate) (*models.GuaranteeTemplate, error) {
	if err := validateTemplate(&in); err != nil {
		return nil, err
	}
	now := s.now()
	in.ID = uuid.NewString()
	in.OwnerID = ownerID
	in.CreatedAt = now
	in.UpdatedAt = now
	if err := s.templates.Insert(ctx, &in); err != nil {
		return nil, fmt.Errorf("failed to create guarantee template: %w", err)
	}
	return &in, nil
}

// UpdateGuaranteeTemplate changes future guarantees only; issued ones keep
// their snapshot of the terms.
func (s *Service) UpdateGuaranteeTemplate(ctx context.Context, ownerID, id string, in models.GuaranteeTemplate) (*models.GuaranteeTemplate, error) {
	current, err := s.templates.Get(ctx, ownerID, id)
	if err != nil {
		return nil, lookupErr("guarantee template", id, err)
	}
	if err := validateTemplate(&in); err != nil {
		return nil, err
	}
	in.ID = current.ID
	in.OwnerID = ownerID
	in.CreatedAt = current.CreatedAt
	in.UpdatedAt = s.now()
	if err := s.templates.Replace(ctx, ownerID, id, &in); err != nil {
		return nil, lookupErr("guarantee template", id, err)
	}
	return &in, nil
}

func (s *Service) DeleteGuaranteeTemplate(ctx context.Context, ownerID, id string) error {
	if err := s.templates.Delete(ctx, ownerID, id); err != nil {
		return lookupErr("guarantee template", id, err)
	}
	return nil
}

// IssueGuarantee binds an active template to a vehicle and client. The end
// date is the start date plus the template duration.
func (s *Service) IssueGuarantee(ctx context.Context, ownerID string, req models.IssueGuaranteeRequest) (*models.Guarantee, error) {
	tmpl, err := s.templates.Get(ctx, ownerID, req.TemplateID)
	if err != nil {
		return nil, refErr("guarantee template", req.TemplateID, err)
	}
	if !tmpl.Active {
		return nil, invalid("guarantee template %q is not active", tmpl.Name)
	}
	if _, err := s.vehicles.Get(ctx, ownerID, req.VehicleID); err != nil {
		return nil, refErr("vehicle", req.VehicleID, err)
	}
	if _, err := s.clients.Get(ctx, ownerID, req.ClientID); err != nil {
		return nil, refErr("client", req.ClientID, err)
	}
	if req.InvoiceID != "" {
		if _, err := s.invoices.Get(ctx, ownerID, req.InvoiceID); err != nil {
			return nil, refErr("invoice", req.InvoiceID, err)
		}
	}

	now := s.now()
	start := now
	if req.StartDate != nil {
		start = req.StartDate.UTC()
	}
	g := &models.Guarantee{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		TemplateID: tmpl.ID,
		VehicleID:  req.VehicleID,
		ClientID:   req.ClientID,
		InvoiceID:  req.InvoiceID,
		Name:       tmpl.Name,
		Terms:      tmpl.Terms,
		Coverage:   tmpl.Coverage,
		Price:      tmpl.Price,
		StartDate:  start,
		EndDate:    start.AddDate(0, tmpl.DurationMonths, 0),
		Status:     models.GuaranteeActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.guarantees.Insert(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to issue guarantee: %w", err)
	}
	s.recordVehicleEvent(ctx, ownerID, g.VehicleID, models.VehicleEvent{Kind: EventGuarantee, Note: g.Name, Ref: g.ID, At: now})
	return s.withDerivedStatus(g), nil
}

// withDerivedStatus reports active guarantees past their end date as expired.
func (s *Service) withDerivedStatus(g *models.Guarantee) *models.Guarantee {
	if g.Status == models.GuaranteeActive && g.EndDate.Before(s.now()) {
		g.Status = models.GuaranteeExpired
	}
	return g
}

func (s *Service) GetGuarantee(ctx context.Context, ownerID, id string) (*models.Guarantee, error) {
	g, err := s.guarantees.Get(ctx, ownerID, id)
	if err != nil {
		return nil, lookupErr("guarantee", id, err)
	}
	return s.withDerivedStatus(g), nil
}

// ListGuarantees filters by vehicle or client. A status filter applies to
// the derived status, so active and expired are filtered after loading.
func (s *Service) ListGuarantees(ctx context.Context, ownerID string, q garageRepo.Query) ([]models.Guarantee, error) {
	status := models.GuaranteeStatus(q.Status)
	switch status {
	case "", models.GuaranteeCanceled:
	case models.GuaranteeActive, models.GuaranteeExpired:
		q.Status = string(models.GuaranteeActive)
	default:
		return nil, invalid("unknown guarantee status %q", q.Status)
	}

	list, err := s.guarantees.List(ctx, ownerID, q)
	if err != nil {
		return nil, err
	}
	list = lo.Map(list, func(g models.Guarantee, _ int) models.Guarantee { return *s.withDerivedStatus(&g) })
	if status == "" {
		return list, nil
	}
	return lo.Filter(list, func(g models.Guarantee, _ int) bool { return g.Status == status }), nil
}

func (s *Service) CancelGuarantee(ctx context.Context, ownerID, id string) (*models.Guarantee, error) {
	g, err := s.GetGuarantee(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if g.Status != models.GuaranteeActive {
		return nil, fmt.Errorf("%w: guarantee is %s", ErrInvalidTransition, g.Status)
	}
	g.Status = models.GuaranteeCanceled
	g.UpdatedAt = s.now()
	if err := s.guarantees.Replace(ctx, ownerID, id, g); err != nil {
		return nil, lookupErr("guarantee", id, err)
	}
	return g, nil
}
