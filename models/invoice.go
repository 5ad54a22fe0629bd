package models

import "time"

type InvoiceType string

const (
	InvoiceSale     InvoiceType = "sale"
	InvoiceDeposit  InvoiceType = "deposit"
	InvoiceProforma InvoiceType = "proforma"
	InvoiceCredit   InvoiceType = "credit"
)

func (t InvoiceType) Valid() bool {
	switch t {
	case InvoiceSale, InvoiceDeposit, InvoiceProforma, InvoiceCredit:
		return true
	}
	return false
}

type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "draft"
	InvoiceIssued        InvoiceStatus = "issued"
	InvoicePartiallyPaid InvoiceStatus = "partially_paid"
	InvoicePaid          InvoiceStatus = "paid"
	InvoiceCanceled      InvoiceStatus = "canceled"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceIssued, InvoicePartiallyPaid, InvoicePaid, InvoiceCanceled:
		return true
	}
	return false
}

// Invoice (facture) issued by the garage.
type Invoice struct {
	ID               string        `bson:"id" json:"id"`
	OwnerID          string        `bson:"ownerId" json:"-"`
	Number           string        `bson:"number" json:"number"`
	Type             InvoiceType   `bson:"type" json:"type"`
	Status           InvoiceStatus `bson:"status" json:"status"`
	ClientID         string        `bson:"clientId" json:"clientId" binding:"required"`
	VehicleID        string        `bson:"vehicleId,omitempty" json:"vehicleId,omitempty"`
	RelatedInvoiceID string        `bson:"relatedInvoiceId,omitempty" json:"relatedInvoiceId,omitempty"` // deposit -> main invoice, credit -> credited invoice
	Currency         string        `bson:"currency" json:"currency"`
	Lines            []InvoiceLine `bson:"lines" json:"lines"`
	Totals           InvoiceTotals `bson:"totals" json:"totals"`
	PaidAmount       float64       `bson:"paidAmount" json:"paidAmount"`
	Notes            string        `bson:"notes,omitempty" json:"notes,omitempty"`
	IssueDate        time.Time     `bson:"issueDate" json:"issueDate"`
	DueDate          *time.Time    `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	CreatedAt        time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// InvoiceLine is a single billed item. Rates are fractions (0.2 = 20%).
type InvoiceLine struct {
	Description  string  `bson:"description" json:"description"`
	Quantity     float64 `bson:"quantity" json:"quantity"`
	UnitPrice    float64 `bson:"unitPrice" json:"unitPrice"`
	VATRate      float64 `bson:"vatRate" json:"vatRate"`
	DiscountRate float64 `bson:"discountRate" json:"discountRate"`
	Total        float64 `bson:"total" json:"total"` // net of discount, excluding VAT
}

// InvoiceTotals are computed from the lines, never taken from input.
type InvoiceTotals struct {
	Subtotal  float64 `bson:"subtotal" json:"subtotal"`
	Discount  float64 `bson:"discount" json:"discount"`
	VAT       float64 `bson:"vat" json:"vat"`
	Total     float64 `bson:"total" json:"total"`
	Deposit   float64 `bson:"deposit" json:"deposit"`
	AmountDue float64 `bson:"amountDue" json:"amountDue"`
}
