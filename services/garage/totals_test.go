package garage

import (
	"testing"

	"garagedesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeInvoice(t *testing.T) {
	lines := []models.InvoiceLine{
		{Description: "Peugeot 308 SW", Quantity: 1, UnitPrice: 12500, VATRate: 0.2},
		{Description: "Tapis", Quantity: 4, UnitPrice: 19.99, VATRate: 0.2, DiscountRate: 0.1},
	}

	out, totals := computeInvoice(lines, 1000)
	require.Len(t, out, 2)
	assert.Equal(t, 12500.0, out[0].Total)
	assert.Equal(t, 71.96, out[1].Total)

	assert.Equal(t, 12579.96, totals.Subtotal)
	assert.Equal(t, 8.0, totals.Discount)
	assert.Equal(t, 2514.39, totals.VAT)
	assert.Equal(t, 15086.36, totals.Total)
	assert.Equal(t, 1000.0, totals.Deposit)
	assert.Equal(t, 14086.36, totals.AmountDue)
}

func TestComputeInvoice_DepositNeverMakesAmountNegative(t *testing.T) {
	_, totals := computeInvoice([]models.InvoiceLine{{Quantity: 1, UnitPrice: 100}}, 500)
	assert.Equal(t, 100.0, totals.Total)
	assert.Equal(t, 0.0, totals.AmountDue)
}

func TestValidateLines(t *testing.T) {
	assert.ErrorIs(t, validateLines(nil), ErrInvalidInput)
	assert.ErrorIs(t, validateLines([]models.InvoiceLine{{Quantity: 0, UnitPrice: 1}}), ErrInvalidInput)
	assert.ErrorIs(t, validateLines([]models.InvoiceLine{{Quantity: 1, UnitPrice: 1, VATRate: 20}}), ErrInvalidInput)
	assert.NoError(t, validateLines([]models.InvoiceLine{{Quantity: 1, UnitPrice: 0}}))
}

func TestComputeRepairCosts(t *testing.T) {
	costs := computeRepairCosts(
		[]models.RepairTask{{Hours: 1.5, HourlyRate: 65}, {Hours: 0.25, HourlyRate: 65}},
		[]models.RepairPart{{Name: "Filtre à huile", Quantity: 1, UnitPrice: 12.9}, {Name: "Huile 5W30", Quantity: 4.5, UnitPrice: 9.8}},
	)
	assert.Equal(t, 113.75, costs.Labor)
	assert.Equal(t, 57.0, costs.Parts)
	assert.Equal(t, 170.75, costs.Total)
}
