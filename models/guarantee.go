package models

import "time"

// GuaranteeTemplate defines the terms of a warranty the garage sells.
type GuaranteeTemplate struct {
	ID             string    `bson:"id" json:"id"`
	OwnerID        string    `bson:"ownerId" json:"-"`
	Name           string    `bson:"name" json:"name" binding:"required"`
	Terms          string    `bson:"terms" json:"terms"`
	DurationMonths int       `bson:"durationMonths" json:"durationMonths" binding:"required"`
	Price          float64   `bson:"price" json:"price"`
	Coverage       []string  `bson:"coverage" json:"coverage"`
	Active         bool      `bson:"active" json:"active"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

type GuaranteeStatus string

const (
	GuaranteeActive   GuaranteeStatus = "active"
	GuaranteeExpired  GuaranteeStatus = "expired"
	GuaranteeCanceled GuaranteeStatus = "canceled"
)

// Guarantee is a template bound to a vehicle, a client and usually an invoice.
type Guarantee struct {
	ID         string          `bson:"id" json:"id"`
	OwnerID    string          `bson:"ownerId" json:"-"`
	TemplateID string          `bson:"templateId" json:"templateId"`
	VehicleID  string          `bson:"vehicleId" json:"vehicleId"`
	ClientID   string          `bson:"clientId" json:"clientId"`
	InvoiceID  string          `bson:"invoiceId,omitempty" json:"invoiceId,omitempty"`
	Name       string          `bson:"name" json:"name"`
	Terms      string          `bson:"terms" json:"terms"`
	Coverage   []string        `bson:"coverage" json:"coverage"`
	Price      float64         `bson:"price" json:"price"`
	StartDate  time.Time       `bson:"startDate" json:"startDate"`
	EndDate    time.Time       `bson:"endDate" json:"endDate"`
	Status     GuaranteeStatus `bson:"status" json:"status"`
	CreatedAt  time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// IssueGuaranteeRequest is the input for binding a template.
type IssueGuaranteeRequest struct {
	TemplateID string     `json:"templateId" binding:"required"`
	VehicleID  string     `json:"vehicleId" binding:"required"`
	ClientID   string     `json:"clientId" binding:"required"`
	InvoiceID  string     `json:"invoiceId"`
	StartDate  *time.Time `json:"startDate"`
}
