package garage

import (
	"garagedesk/models"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func validateLines(lines []models.InvoiceLine) error {
	if len(lines) == 0 {
		return invalid("an invoice needs at least one line")
	}
	for i, l := range lines {
		switch {
		case l.Quantity <= 0:
			return invalid("line %d: quantity must be positive", i+1)
		case l.UnitPrice < 0:
			return invalid("line %d: unit price cannot be negative", i+1)
		case l.VATRate < 0 || l.VATRate > 1:
			return invalid("line %d: VAT rate must be between 0 and 1", i+1)
		case l.DiscountRate < 0 || l.DiscountRate > 1:
			return invalid("line %d: discount rate must be between 0 and 1", i+1)
		}
	}
	return nil
}

// computeInvoice fills line totals and returns the invoice totals. deposit
// is deducted from the amount due, never below zero.
func computeInvoice(lines []models.InvoiceLine, deposit float64) ([]models.InvoiceLine, models.InvoiceTotals) {
	var subtotal, discount, vat decimal.Decimal

	out := lo.Map(lines, func(l models.InvoiceLine, _ int) models.InvoiceLine {
		gross := decimal.NewFromFloat(l.Quantity).Mul(decimal.NewFromFloat(l.UnitPrice))
		off := gross.Mul(decimal.NewFromFloat(l.DiscountRate))
		net := gross.Sub(off)

		subtotal = subtotal.Add(gross)
		discount = discount.Add(off)
		vat = vat.Add(net.Mul(decimal.NewFromFloat(l.VATRate)))

		l.Total = money(net)
		return l
	})

	total := subtotal.Sub(discount).Add(vat)
	dep := decimal.NewFromFloat(deposit)
	due := decimal.Max(total.Sub(dep), decimal.Zero)

	return out, models.InvoiceTotals{
		Subtotal:  money(subtotal),
		Discount:  money(discount),
		VAT:       money(vat),
		Total:     money(total),
		Deposit:   money(dep),
		AmountDue: money(due),
	}
}

func validateRepairItems(tasks []models.RepairTask, parts []models.RepairPart) error {
	for i, t := range tasks {
		if t.Hours < 0 || t.HourlyRate < 0 {
			return invalid("task %d: hours and rate cannot be negative", i+1)
		}
	}
	for i, p := range parts {
		if p.Quantity <= 0 || p.UnitPrice < 0 {
			return invalid("part %d: quantity must be positive and price not negative", i+1)
		}
	}
	return nil
}

func computeRepairCosts(tasks []models.RepairTask, parts []models.RepairPart) models.RepairCosts {
	labor := lo.Reduce(tasks, func(acc decimal.Decimal, t models.RepairTask, _ int) decimal.Decimal {
		return acc.Add(decimal.NewFromFloat(t.Hours).Mul(decimal.NewFromFloat(t.HourlyRate)))
	}, decimal.Zero)
	partsCost := lo.Reduce(parts, func(acc decimal.Decimal, p models.RepairPart, _ int) decimal.Decimal {
		return acc.Add(decimal.NewFromFloat(p.Quantity).Mul(decimal.NewFromFloat(p.UnitPrice)))
	}, decimal.Zero)

	return models.RepairCosts{
		Labor: money(labor),
		Parts: money(partsCost),
		Total: money(labor.Add(partsCost)),
	}
}

// remaining is what is still owed on inv.
func remaining(inv *models.Invoice) decimal.Decimal {
	return decimal.NewFromFloat(inv.Totals.AmountDue).Sub(decimal.NewFromFloat(inv.PaidAmount))
}
