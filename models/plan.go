package models

type PlanID string

const (
	PlanFree  PlanID = "free"
	PlanBasic PlanID = "basic"
	PlanPro   PlanID = "pro"
)

// Plan is the display metadata of a subscription tier.
type Plan struct {
	ID           PlanID   `json:"id"`
	Name         string   `json:"name"`
	MonthlyPrice float64  `json:"monthlyPrice"`
	Currency     string   `json:"currency"`
	Features     []string `json:"features"`
	MaxVehicles  int      `json:"maxVehicles"` // 0 means unlimited
	Purchasable  bool     `json:"purchasable"`
}
