package models

import "time"

type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "available"
	VehicleReserved    VehicleStatus = "reserved"
	VehicleSold        VehicleStatus = "sold"
	VehicleMaintenance VehicleStatus = "maintenance"
)

// Valid reports whether s is a known vehicle status.
func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleAvailable, VehicleReserved, VehicleSold, VehicleMaintenance:
		return true
	}
	return false
}

// Vehicle is a car held in stock or serviced by the garage.
type Vehicle struct {
	ID            string         `bson:"id" json:"id"`
	OwnerID       string         `bson:"ownerId" json:"-"`
	Make          string         `bson:"make" json:"make" binding:"required"`
	Model         string         `bson:"model" json:"model" binding:"required"`
	Year          int            `bson:"year" json:"year"`
	VIN           string         `bson:"vin,omitempty" json:"vin,omitempty"`
	Plate         string         `bson:"plate,omitempty" json:"plate,omitempty"`
	Mileage       int            `bson:"mileage" json:"mileage"`
	FuelType      string         `bson:"fuelType,omitempty" json:"fuelType,omitempty"`
	Transmission  string         `bson:"transmission,omitempty" json:"transmission,omitempty"`
	PowerHP       int            `bson:"powerHp,omitempty" json:"powerHp,omitempty"`
	Color         string         `bson:"color,omitempty" json:"color,omitempty"`
	PurchasePrice float64        `bson:"purchasePrice" json:"purchasePrice"`
	SalePrice     float64        `bson:"salePrice" json:"salePrice"`
	Status        VehicleStatus  `bson:"status" json:"status"`
	ClientID      string         `bson:"clientId,omitempty" json:"clientId,omitempty"`
	Photos        []StoredFile   `bson:"photos" json:"photos"`
	Options       []string       `bson:"options" json:"options"`
	History       []VehicleEvent `bson:"history" json:"history"`
	CreatedAt     time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// VehicleEvent is an entry in a vehicle's history.
type VehicleEvent struct {
	Kind string    `bson:"kind" json:"kind"` // "created", "status_changed", "repair_opened", ...
	Note string    `bson:"note,omitempty" json:"note,omitempty"`
	Ref  string    `bson:"ref,omitempty" json:"ref,omitempty"`
	At   time.Time `bson:"at" json:"at"`
}
