package garage

import (
	"context"
	"fmt"

	garageRepo "garagedesk/database/repository/garage"
	"garagedesk/models"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var invoicePrefixes = map[models.InvoiceType]string{
	models.InvoiceSale:     "INV",
	models.InvoiceDeposit:  "DEP",
	models.InvoiceProforma: "PRO",
	models.InvoiceCredit:   "CN",
}

// invoiceTransitions lists the statuses reachable through ChangeInvoiceStatus.
// partially_paid is only reached by recording a payment.
var invoiceTransitions = map[models.InvoiceStatus][]models.InvoiceStatus{
	models.InvoiceDraft:         {models.InvoiceIssued, models.InvoiceCanceled},
	models.InvoiceIssued:        {models.InvoicePaid, models.InvoiceCanceled},
	models.InvoicePartiallyPaid: {models.InvoicePaid, models.InvoiceCanceled},
}

func (s *Service) ListInvoices(ctx context.Context, ownerID string, q garageRepo.Query) ([]models.Invoice, error) {
	if q.Status != "" && !models.InvoiceStatus(q.Status).Valid() {
		return nil, invalid("unknown invoice status %q", q.Status)
	}
	if q.Type != "" && !models.InvoiceType(q.Type).Valid() {
		return nil, invalid("unknown invoice type %q", q.Type)
	}
	return s.invoices.List(ctx, ownerID, q)
}

func (s *Service) GetInvoice(ctx context.Context, ownerID, id string) (*models.Invoice, error) {
	inv, err := s.invoices.Get(ctx, ownerID, id)
	if err != nil {
		return nil, lookupErr("invoice", id, err)
	}
	return inv, nil
}

// prepareInvoice checks references and computes totals in place.
func (s *Service) prepareInvoice(ctx context.Context, ownerID string, inv *models.Invoice) error {
	if !inv.Type.Valid() {
		return invalid("unknown invoice type %q", inv.Type)
	}
	if err := validateLines(inv.Lines); err != nil {
		return err
	}
	if _, err := s.clients.Get(ctx, ownerID, inv.ClientID); err != nil {
		return refErr("client", inv.ClientID, err)
	}
	if inv.VehicleID != "" {
		if _, err := s.vehicles.Get(ctx, ownerID, inv.VehicleID); err != nil {
			return refErr("vehicle", inv.VehicleID, err)
		}
	}

	deposit, err := s.relatedDeposit(ctx, ownerID, inv)
	if err != nil {
		return err
	}
	if inv.Currency == "" {
		inv.Currency = "EUR"
	}
	inv.Lines, inv.Totals = computeInvoice(inv.Lines, deposit)
	return nil
}

// relatedDeposit validates RelatedInvoiceID for the invoice type and returns
// the deposit amount to deduct, if any.
func (s *Service) relatedDeposit(ctx context.Context, ownerID string, inv *models.Invoice) (float64, error) {
	if inv.RelatedInvoiceID == "" {
		if inv.Type == models.InvoiceCredit {
			return 0, invalid("a credit note must reference the credited invoice")
		}
		return 0, nil
	}
	if inv.RelatedInvoiceID == inv.ID {
		return 0, invalid("an invoice cannot reference itself")
	}

	related, err := s.invoices.Get(ctx, ownerID, inv.RelatedInvoiceID)
	if err != nil {
		return 0, refErr("invoice", inv.RelatedInvoiceID, err)
	}
	if related.ClientID != inv.ClientID {
		return 0, invalid("related invoice belongs to another client")
	}

	switch inv.Type {
	case models.InvoiceCredit:
		if related.Type == models.InvoiceCredit || related.Status == models.InvoiceDraft {
			return 0, invalid("only issued invoices can be credited")
		}
	case models.InvoiceDeposit:
		if related.Type != models.InvoiceSale && related.Type != models.InvoiceProforma {
			return 0, invalid("a deposit can only reference a sale or proforma invoice")
		}
	case models.InvoiceSale:
		if related.Type != models.InvoiceDeposit {
			return 0, invalid("a sale invoice can only reference a deposit invoice")
		}
		if related.Status == models.InvoiceCanceled {
			return 0, invalid("deposit invoice %s is canceled", related.Number)
		}
		return related.Totals.Total, nil
	default:
		return 0, invalid("%s invoices cannot reference another invoice", inv.Type)
	}
	return 0, nil
}

func (s *Service) nextInvoiceNumber(ctx context.Context, ownerID string, t models.InvoiceType) (string, error) {
	year := s.now().Year()
	seq, err := s.counters.Next(ctx, ownerID, fmt.Sprintf("invoice:%s:%d", t, year))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%04d", invoicePrefixes[t], year, seq), nil
}

func (s *Service) CreateInvoice(ctx context.Context, ownerID string, in models.Invoice) (*models.Invoice, error) {
	if in.Type == "" {
		in.Type = models.InvoiceSale
	}
	in.ID = uuid.NewString()
	in.OwnerID = ownerID
	if err := s.prepareInvoice(ctx, ownerID, &in); err != nil {
		return nil, err
	}

	number, err := s.nextInvoiceNumber(ctx, ownerID, in.Type)
	if err != nil {
		return nil, err
	}
	now := s.now()
	in.Number = number
	in.Status = models.InvoiceDraft
	in.PaidAmount = 0
	if in.IssueDate.IsZero() {
		in.IssueDate = now
	}
	in.CreatedAt = now
	in.UpdatedAt = now

	if err := s.invoices.Insert(ctx, &in); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return &in, nil
}

// UpdateInvoice edits a draft. Number, type and status are kept.
func (s *Service) UpdateInvoice(ctx context.Context, ownerID, id string, in models.Invoice) (*models.Invoice, error) {
	current, err := s.GetInvoice(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if current.Status != models.InvoiceDraft {
		return nil, fmt.Errorf("%w: invoice %s is %s", ErrNotEditable, current.Number, current.Status)
	}

	in.ID = current.ID
	in.OwnerID = ownerID
	in.Type = current.Type
	if err := s.prepareInvoice(ctx, ownerID, &in); err != nil {
		return nil, err
	}
	in.Number = current.Number
	in.Status = current.Status
	in.PaidAmount = 0
	if in.IssueDate.IsZero() {
		in.IssueDate = current.IssueDate
	}
	in.CreatedAt = current.CreatedAt
	in.UpdatedAt = s.now()

	if err := s.invoices.Replace(ctx, ownerID, id, &in); err != nil {
		return nil, lookupErr("invoice", id, err)
	}
	return &in, nil
}

func (s *Service) ChangeInvoiceStatus(ctx context.Context, ownerID, id string, status models.InvoiceStatus) (*models.Invoice, error) {
	if !status.Valid() {
		return nil, invalid("unknown invoice status %q", status)
	}
	inv, err := s.GetInvoice(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if !lo.Contains(invoiceTransitions[inv.Status], status) {
		return nil, fmt.Errorf("%w: invoice %s from %s to %s", ErrInvalidTransition, inv.Number, inv.Status, status)
	}

	now := s.now()
	inv.Status = status
	if status == models.InvoiceIssued {
		inv.IssueDate = now
	}
	if status == models.InvoicePaid {
		inv.PaidAmount = inv.Totals.AmountDue
	}
	inv.UpdatedAt = now
	if err := s.invoices.Replace(ctx, ownerID, id, inv); err != nil {
		return nil, lookupErr("invoice", id, err)
	}
	if status == models.InvoicePaid {
		s.onInvoicePaid(ctx, inv)
	}
	return inv, nil
}

// RecordPayment adds amount to the paid total of an issued invoice.
func (s *Service) RecordPayment(ctx context.Context, ownerID, id string, amount float64) (*models.Invoice, error) {
	if amount <= 0 {
		return nil, invalid("payment amount must be positive")
	}
	inv, err := s.GetInvoice(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != models.InvoiceIssued && inv.Status != models.InvoicePartiallyPaid {
		return nil, fmt.Errorf("%w: invoice %s is %s", ErrInvalidTransition, inv.Number, inv.Status)
	}

	left := remaining(inv).Sub(decimal.NewFromFloat(amount))
	if left.IsNegative() {
		return nil, invalid("payment exceeds the %s still due", remaining(inv).StringFixed(2))
	}
	inv.PaidAmount = money(decimal.NewFromFloat(inv.PaidAmount).Add(decimal.NewFromFloat(amount)))
	if left.IsZero() {
		inv.Status = models.InvoicePaid
	} else {
		inv.Status = models.InvoicePartiallyPaid
	}
	inv.UpdatedAt = s.now()

	if err := s.invoices.Replace(ctx, ownerID, id, inv); err != nil {
		return nil, lookupErr("invoice", id, err)
	}
	if inv.Status == models.InvoicePaid {
		s.onInvoicePaid(ctx, inv)
	}
	return inv, nil
}

// DeleteInvoice removes a draft; issued invoices are canceled instead.
func (s *Service) DeleteInvoice(ctx context.Context, ownerID, id string) error {
	inv, err := s.GetInvoice(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if inv.Status != models.InvoiceDraft {
		return fmt.Errorf("%w: invoice %s is %s", ErrNotEditable, inv.Number, inv.Status)
	}
	if err := s.invoices.Delete(ctx, ownerID, id); err != nil {
		return lookupErr("invoice", id, err)
	}
	return nil
}

// onInvoicePaid marks the sold vehicle and records the purchase on the
// client. Failures are logged, the payment stands.
func (s *Service) onInvoicePaid(ctx context.Context, inv *models.Invoice) {
	if inv.Type != models.InvoiceSale || inv.VehicleID == "" {
		return
	}
	log := s.logger.With(zap.String("invoiceId", inv.ID), zap.String("vehicleId", inv.VehicleID))

	if _, err := s.ChangeVehicleStatus(ctx, inv.OwnerID, inv.VehicleID, models.VehicleSold, "invoice "+inv.Number); err != nil {
		log.Warn("failed to mark vehicle sold", zap.Error(err))
	}
	purchase := models.Purchase{
		VehicleID: inv.VehicleID,
		InvoiceID: inv.ID,
		Amount:    inv.Totals.Total,
		Date:      s.now(),
	}
	if err := s.clients.Push(ctx, inv.OwnerID, inv.ClientID, "purchases", purchase); err != nil {
		log.Warn("failed to record client purchase", zap.Error(err))
	}
	s.recordVehicleEvent(ctx, inv.OwnerID, inv.VehicleID, models.VehicleEvent{
		Kind: EventInvoicePaid,
		Note: inv.Number,
		Ref:  inv.ID,
		At:   s.now(),
	})
}
