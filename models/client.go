package models

import "time"

// Client is a customer of the garage.
type Client struct {
	ID             string        `bson:"id" json:"id"`
	OwnerID        string        `bson:"ownerId" json:"-"`
	FirstName      string        `bson:"firstName" json:"firstName" binding:"required"`
	LastName       string        `bson:"lastName" json:"lastName" binding:"required"`
	Company        string        `bson:"company,omitempty" json:"company,omitempty"`
	Email          string        `bson:"email,omitempty" json:"email,omitempty"`
	Phone          string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Address        Address       `bson:"address" json:"address"`
	MarketingOptIn bool          `bson:"marketingOptIn" json:"marketingOptIn"`
	Purchases      []Purchase    `bson:"purchases" json:"purchases"`
	Documents      []StoredFile  `bson:"documents" json:"documents"`
	Interactions   []Interaction `bson:"interactions" json:"interactions"`
	CreatedAt      time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// Purchase links a client to a sold vehicle and its invoice.
type Purchase struct {
	VehicleID string    `bson:"vehicleId" json:"vehicleId"`
	InvoiceID string    `bson:"invoiceId,omitempty" json:"invoiceId,omitempty"`
	Amount    float64   `bson:"amount" json:"amount"`
	Date      time.Time `bson:"date" json:"date"`
}

// Interaction is a logged contact with a client (call, visit, email...).
type Interaction struct {
	ID   string    `bson:"id" json:"id"`
	Kind string    `bson:"kind" json:"kind" binding:"required"`
	Note string    `bson:"note" json:"note"`
	By   string    `bson:"by,omitempty" json:"by,omitempty"`
	At   time.Time `bson:"at" json:"at"`
}
