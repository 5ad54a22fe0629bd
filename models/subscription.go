package models

import "time"

type SubscriptionStatus string

const (
	SubscriptionPending  SubscriptionStatus = "pending"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// SubscriptionRecord is the local mirror of a user's billing state.
type SubscriptionRecord struct {
	ID                string             `bson:"id" json:"id"`
	UserID            string             `bson:"userId" json:"userId"`
	Plan              PlanID             `bson:"plan" json:"plan"`
	Status            SubscriptionStatus `bson:"status" json:"status"`
	CustomerID        string             `bson:"customerId,omitempty" json:"customerId,omitempty"`
	SubscriptionID    string             `bson:"subscriptionId,omitempty" json:"subscriptionId,omitempty"` // provider-issued
	CheckoutSessionID string             `bson:"checkoutSessionId,omitempty" json:"checkoutSessionId,omitempty"`
	CurrentPeriodEnd  *time.Time         `bson:"currentPeriodEnd,omitempty" json:"currentPeriodEnd,omitempty"`
	CanceledAt        *time.Time         `bson:"canceledAt,omitempty" json:"canceledAt,omitempty"`
	LastEventID       string             `bson:"lastEventId,omitempty" json:"-"`
	LastEventAt       *time.Time         `bson:"lastEventAt,omitempty" json:"-"`
	Synthetic         bool               `bson:"-" json:"synthetic,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Entitled reports whether the record currently grants its plan.
func (r *SubscriptionRecord) Entitled() bool {
	switch r.Status {
	case SubscriptionActive, SubscriptionTrialing, SubscriptionPastDue:
		return true
	}
	return false
}

// BillingEvent is a verified provider event, reduced to what reconciliation needs.
type BillingEvent struct {
	ID               string             `json:"id"`
	Type             string             `json:"type"`
	Created          time.Time          `json:"created"`
	UserID           string             `json:"userId,omitempty"`
	RecordID         string             `json:"recordId,omitempty"`
	CustomerID       string             `json:"customerId,omitempty"`
	SubscriptionID   string             `json:"subscriptionId,omitempty"`
	Status           SubscriptionStatus `json:"status,omitempty"`
	CurrentPeriodEnd *time.Time         `json:"currentPeriodEnd,omitempty"`
}
