package billing

import (
	"fmt"
	"strings"

	"garagedesk/models"
)

var catalogue = []models.Plan{
	{
		ID:           models.PlanFree,
		Name:         "Free",
		MonthlyPrice: 0,
		Currency:     "EUR",
		Features:     []string{"Up to 5 vehicles", "Clients and invoices", "Repair orders"},
		MaxVehicles:  5,
	},
	{
		ID:           models.PlanBasic,
		Name:         "Basic",
		MonthlyPrice: 29,
		Currency:     "EUR",
		Features:     []string{"Up to 50 vehicles", "Clients and invoices", "Repair orders", "Guarantees", "Document storage"},
		MaxVehicles:  50,
		Purchasable:  true,
	},
	{
		ID:           models.PlanPro,
		Name:         "Pro",
		MonthlyPrice: 59,
		Currency:     "EUR",
		Features:     []string{"Unlimited vehicles", "Clients and invoices", "Repair orders", "Guarantees", "Document storage", "Priority support"},
		MaxVehicles:  0,
		Purchasable:  true,
	},
}

// PlanCatalog maps plans to display metadata and provider price ids.
type PlanCatalog struct {
	prices map[models.PlanID]string
}

func NewPlanCatalog(basicPriceID, proPriceID string) *PlanCatalog {
	return &PlanCatalog{prices: map[models.PlanID]string{
		models.PlanBasic: basicPriceID,
		models.PlanPro:   proPriceID,
	}}
}

// ParsePlan normalises user input into a known plan id.
func ParsePlan(raw string) (models.PlanID, error) {
	id := models.PlanID(strings.ToLower(strings.TrimSpace(raw)))
	for _, p := range catalogue {
		if p.ID == id {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPlan, raw)
}

// Plans returns the display catalogue.
func (c *PlanCatalog) Plans() []models.Plan {
	out := make([]models.Plan, len(catalogue))
	copy(out, catalogue)
	return out
}

// Plan returns the display metadata of id; unknown ids resolve to free.
func (c *PlanCatalog) Plan(id models.PlanID) models.Plan {
	for _, p := range catalogue {
		if p.ID == id {
			return p
		}
	}
	return catalogue[0]
}

// ResolvePrice returns the provider price id for a purchasable plan.
func (c *PlanCatalog) ResolvePrice(id models.PlanID) (string, error) {
	switch id {
	case models.PlanBasic, models.PlanPro:
		price := c.prices[id]
		if price == "" {
			return "", fmt.Errorf("%w: %s", ErrPriceNotConfigured, id)
		}
		return price, nil
	case models.PlanFree:
		return "", ErrPlanNotPurchasable
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPlan, id)
	}
}
