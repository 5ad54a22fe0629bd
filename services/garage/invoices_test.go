package garage

import (
	"context"
	"testing"

	garageRepo "garagedesk/database/repository/garage"
	"garagedesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saleLines() []models.InvoiceLine {
	return []models.InvoiceLine{{Description: "Renault Clio", Quantity: 1, UnitPrice: 10000, VATRate: 0.2}}
}

func TestCreateInvoice_NumbersAndTotals(t *testing.T) {
	env := setupGarageTest(proPlan)
	ctx := context.Background()
	c := createClient(t, env)

	first, err := env.svc.CreateInvoice(ctx, owner, models.Invoice{ClientID: c.ID, Lines: saleLines()})
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-0001", first.Number)
	assert.Equal(t, models.InvoiceSale, first.Type)
	assert.Equal(t, models.InvoiceDraft, first.Status)
	assert.Equal(t, "EUR", first.Currency)
	assert.Equal(t, 12000.0, first.Totals.Total)
	assert.Equal(t, 12000.0, first.Totals.AmountDue)

	second, err := env.svc.CreateInvoice(ctx, owner, models.Invoice{ClientID: c.ID, Lines: saleLines(), Totals: models.InvoiceTotals{Total: 1}})
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-0002", second.Number)
	assert.Equal(t, 12000.0, second.Totals.Total, "totals are always computed")

	proforma, err := env.svc.CreateInvoice(ctx, owner, models.Invoice{Type: models.InvoiceProforma, ClientID: c.ID, Lines: saleLines()})
	require.NoError(t, err)
	assert.Equal(t, "PRO-2026-0001", proforma.Number)
}

func TestCreateInvoice_References(t *testing.T) {
	env := setupGarageTest(proPlan)
	ctx := context.Background()
	c := createClient(t, env)

	_, err := env.svc.CreateInvoice(ctx, owner, models.Invoice{ClientID: "ghost", Lines: saleLines()})
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = env.svc.CreateInvoice(ctx, owner, models.Invoice{ClientID: c.ID, VehicleID: "ghost", Lines: saleLines()})
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = env.svc.CreateInvoice(ctx, owner, models.Invoice{Type: models.InvoiceCredit, ClientID: c.ID, Lines: saleLines()})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.svc.CreateInvoice(ctx, owner, models.Invoice{Type: "quote", ClientID: c.ID, Lines: saleLines()})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSaleInvoiceDeductsDeposit(t *testing.T) {
	env := setupGarageTest(proPlan)
	ctx := context.Background()
	c := createClient(t, env)

	dep, err := env.svc.CreateInvoice(ctx, owner, models.Invoice{
		Type: models.InvoiceDeposit, ClientID: c.ID,
		Lines: []models.InvoiceLine{{Description: "Acompte", Quantity: 1, UnitPrice: 1000, VATRate: 0.2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "DEP-2026-0001", dep.Number)

	sale, err := env.svc.CreateInvoice(ctx, owner, models.Invoice{ClientID: c.ID, RelatedInvoiceID: dep.ID, Lines: saleLines()})
	require.NoError(t, err)
	assert.Equal(t, 12000.0, sale.Totals.Total)
	assert.Equal(t, 1200.0, sale.Totals.Deposit)
	assert.Equal(t, 10800.0, sale.Totals.AmountDue)

	// a sale cannot point at another sale
	_, err = env.svc.CreateInvoice(ctx, owner, models.Invoice{ClientID: c.ID, RelatedInvoiceID: sale.ID, Lines: saleLines()})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreditNoteRequiresIssuedInvoice(t *testing.T) {
	env := setupGarageTest(proPlan)
	ctx := context.Background()
	c := createClient(t, env)
	sale, err := env.svc.CreateInvoice(ctx, owner, models.Invoice{ClientID: c.ID, Lines: saleLines()})
	require.NoError(t, err)

	credit := models.Invoice{Type: models.InvoiceCredit, ClientID: c.ID, RelatedInvoiceID: sale.ID, Lines: saleLines()}
	_, err = env.svc.CreateInvoice(ctx, owner, credit)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.svc.ChangeInvoiceStatus(ctx, owner, sale.ID, models.InvoiceIssued)
	require.NoError(t, err)
	cn, err := env.svc.CreateInvoice(ctx, owner, credit)
	require.NoError(t, err)
	assert.Equal(t, "CN-2026-0001", cn.Number)
}

func TestInvoiceLifecycle(t *testing.T) {
	env := setupGarageTest(proPlan)
	ctx := context.Background()
	c := createClient(t, env)
	v := createVehicle(t, env)

	inv, err := env.svc.CreateInvoice(ctx, owner, models.Invoice{ClientID: c.ID, VehicleID: v.ID, Lines: saleLines()})
	require.NoError(t, err)

	_, err = env.svc.RecordPayment(ctx, owner, inv.ID, 100)
	assert.ErrorIs(t, err, ErrInvalidTransition, "drafts cannot be paid")

	edited, err := env.svc.UpdateInvoice(ctx, owner, inv.ID, models.Invoice{
		ClientID: c.ID, VehicleID: v.ID,
		Lines: []models.InvoiceLine{{Description: "Renault Clio", Quantity: 1, UnitPrice: 9000, VATRate: 0.2}},
	})
	require.NoError(t, err)
	assert.Equal(t, inv.Number, edited.Number)
	assert.Equal(t, 10800.0, edited.Totals.AmountDue)

	_, err = env.svc.ChangeInvoiceStatus(ctx, owner, inv.ID, models.InvoiceIssued)
	require.NoError(t, err)

	_, err = env.svc.UpdateInvoice(ctx, owner, inv.ID, models.Invoice{ClientID: c.ID, Lines: saleLines()})
	assert.ErrorIs(t, err, ErrNotEditable)
	assert.ErrorIs(t, env.svc.DeleteInvoice(ctx, owner, inv.ID), ErrNotEditable)

	partial, err := env.svc.RecordPayment(ctx, owner, inv.ID, 800.5)
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePartiallyPaid, partial.Status)
	assert.Equal(t, 800.5, partial.PaidAmount)

	_, err = env.svc.RecordPayment(ctx, owner, inv.ID, 10000)
	assert.ErrorIs(t, err, ErrInvalidInput, "overpayment")

	paid, err := env.svc.RecordPayment(ctx, owner, inv.ID, 9999.5)
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, paid.Status)
	assert.Equal(t, 10800.0, paid.PaidAmount)

	_, err = env.svc.ChangeInvoiceStatus(ctx, owner, inv.ID, models.InvoiceCanceled)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// paying a sale invoice sells the vehicle and records the purchase
	sold, err := env.svc.GetVehicle(ctx, owner, v.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VehicleSold, sold.Status)
	assert.Equal(t, EventInvoicePaid, sold.History[len(sold.History)-1].Kind)

	buyer, err := env.svc.GetClient(ctx, owner, c.ID)
	require.NoError(t, err)
	require.Len(t, buyer.Purchases, 1)
	assert.Equal(t, inv.ID, buyer.Purchases[0].InvoiceID)
	assert.Equal(t, 10800.0, buyer.Purchases[0].Amount)
}

func TestListInvoices_Filters(t *testing.T) {
	env := setupGarageTest(proPlan)
	ctx := context.Background()
	c := createClient(t, env)
	_, err := env.svc.CreateInvoice(ctx, owner, models.Invoice{ClientID: c.ID, Lines: saleLines()})
	require.NoError(t, err)
	_, err = env.svc.CreateInvoice(ctx, owner, models.Invoice{Type: models.InvoiceProforma, ClientID: c.ID, Lines: saleLines()})
	require.NoError(t, err)

	list, err := env.svc.ListInvoices(ctx, owner, garageRepo.Query{Type: "proforma"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.InvoiceProforma, list[0].Type)

	list, err = env.svc.ListInvoices(ctx, owner, garageRepo.Query{ClientID: c.ID, Status: "draft"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = env.svc.ListInvoices(ctx, owner, garageRepo.Query{Status: "lost"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
