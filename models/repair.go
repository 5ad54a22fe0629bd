package models

import "time"

type RepairStatus string

const (
	RepairPending      RepairStatus = "pending"
	RepairInProgress   RepairStatus = "in_progress"
	RepairWaitingParts RepairStatus = "waiting_parts"
	RepairCompleted    RepairStatus = "completed"
	RepairCanceled     RepairStatus = "canceled"
)

func (s RepairStatus) Valid() bool {
	switch s {
	case RepairPending, RepairInProgress, RepairWaitingParts, RepairCompleted, RepairCanceled:
		return true
	}
	return false
}

type RepairPriority string

const (
	PriorityLow    RepairPriority = "low"
	PriorityNormal RepairPriority = "normal"
	PriorityHigh   RepairPriority = "high"
	PriorityUrgent RepairPriority = "urgent"
)

func (p RepairPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// RepairOrder is a workshop job on a vehicle.
type RepairOrder struct {
	ID          string         `bson:"id" json:"id"`
	OwnerID     string         `bson:"ownerId" json:"-"`
	Number      string         `bson:"number" json:"number"`
	VehicleID   string         `bson:"vehicleId" json:"vehicleId" binding:"required"`
	ClientID    string         `bson:"clientId,omitempty" json:"clientId,omitempty"`
	Status      RepairStatus   `bson:"status" json:"status"`
	Priority    RepairPriority `bson:"priority" json:"priority"`
	Description string         `bson:"description" json:"description"`
	Technician  string         `bson:"technician,omitempty" json:"technician,omitempty"`
	Tasks       []RepairTask   `bson:"tasks" json:"tasks"`
	Parts       []RepairPart   `bson:"parts" json:"parts"`
	Costs       RepairCosts    `bson:"costs" json:"costs"`
	OpenedAt    time.Time      `bson:"openedAt" json:"openedAt"`
	ClosedAt    *time.Time     `bson:"closedAt,omitempty" json:"closedAt,omitempty"`
	CreatedAt   time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time      `bson:"updatedAt" json:"updatedAt"`
}

type RepairTask struct {
	Description string  `bson:"description" json:"description"`
	Hours       float64 `bson:"hours" json:"hours"`
	HourlyRate  float64 `bson:"hourlyRate" json:"hourlyRate"`
	Done        bool    `bson:"done" json:"done"`
}

type RepairPart struct {
	Name      string  `bson:"name" json:"name"`
	Reference string  `bson:"reference,omitempty" json:"reference,omitempty"`
	Quantity  float64 `bson:"quantity" json:"quantity"`
	UnitPrice float64 `bson:"unitPrice" json:"unitPrice"`
}

type RepairCosts struct {
	Labor float64 `bson:"labor" json:"labor"`
	Parts float64 `bson:"parts" json:"parts"`
	Total float64 `bson:"total" json:"total"`
}
