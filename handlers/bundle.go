package handlers

import (
	"garagedesk/services/identity"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Verifier      identity.Verifier
	SessionCookie string

	// Public endpoints
	HealthHandler         gin.HandlerFunc
	ListPlansHandler      gin.HandlerFunc
	BillingWebhookHandler gin.HandlerFunc

	// Billing endpoints
	CheckoutHandler            gin.HandlerFunc
	CurrentSubscriptionHandler gin.HandlerFunc
	SubscriptionHistoryHandler gin.HandlerFunc

	// Client endpoints
	ListClientsHandler          gin.HandlerFunc
	GetClientHandler            gin.HandlerFunc
	CreateClientHandler         gin.HandlerFunc
	UpdateClientHandler         gin.HandlerFunc
	DeleteClientHandler         gin.HandlerFunc
	AddInteractionHandler       gin.HandlerFunc
	UploadClientDocumentHandler gin.HandlerFunc

	// Vehicle endpoints
	ListVehiclesHandler        gin.HandlerFunc
	GetVehicleHandler          gin.HandlerFunc
	CreateVehicleHandler       gin.HandlerFunc
	UpdateVehicleHandler       gin.HandlerFunc
	ChangeVehicleStatusHandler gin.HandlerFunc
	DeleteVehicleHandler       gin.HandlerFunc
	UploadVehiclePhotoHandler  gin.HandlerFunc

	// Invoice endpoints
	ListInvoicesHandler        gin.HandlerFunc
	GetInvoiceHandler          gin.HandlerFunc
	CreateInvoiceHandler       gin.HandlerFunc
	UpdateInvoiceHandler       gin.HandlerFunc
	ChangeInvoiceStatusHandler gin.HandlerFunc
	RecordPaymentHandler       gin.HandlerFunc
	DeleteInvoiceHandler       gin.HandlerFunc

	// Guarantee endpoints
	ListGuaranteeTemplatesHandler  gin.HandlerFunc
	CreateGuaranteeTemplateHandler gin.HandlerFunc
	UpdateGuaranteeTemplateHandler gin.HandlerFunc
	DeleteGuaranteeTemplateHandler gin.HandlerFunc
	IssueGuaranteeHandler          gin.HandlerFunc
	ListGuaranteesHandler          gin.HandlerFunc
	GetGuaranteeHandler            gin.HandlerFunc
	CancelGuaranteeHandler         gin.HandlerFunc

	// Repair order endpoints
	ListRepairOrdersHandler   gin.HandlerFunc
	GetRepairOrderHandler     gin.HandlerFunc
	CreateRepairOrderHandler  gin.HandlerFunc
	UpdateRepairOrderHandler  gin.HandlerFunc
	ChangeRepairStatusHandler gin.HandlerFunc
}

// NewHandlerBundle assembles the bundle from the billing and garage handlers.
func NewHandlerBundle(verifier identity.Verifier, sessionCookie string, health gin.HandlerFunc, b *BillingHandler, g *GarageHandler) *HandlerBundle {
	return &HandlerBundle{
		Verifier:      verifier,
		SessionCookie: sessionCookie,

		HealthHandler:         health,
		ListPlansHandler:      b.ListPlansHandler,
		BillingWebhookHandler: b.WebhookHandler,

		CheckoutHandler:            b.CheckoutHandler,
		CurrentSubscriptionHandler: b.CurrentSubscriptionHandler,
		SubscriptionHistoryHandler: b.SubscriptionHistoryHandler,

		ListClientsHandler:          g.ListClientsHandler,
		GetClientHandler:            g.GetClientHandler,
		CreateClientHandler:         g.CreateClientHandler,
		UpdateClientHandler:         g.UpdateClientHandler,
		DeleteClientHandler:         g.DeleteClientHandler,
		AddInteractionHandler:       g.AddInteractionHandler,
		UploadClientDocumentHandler: g.UploadClientDocumentHandler,

		ListVehiclesHandler:        g.ListVehiclesHandler,
		GetVehicleHandler:          g.GetVehicleHandler,
		CreateVehicleHandler:       g.CreateVehicleHandler,
		UpdateVehicleHandler:       g.UpdateVehicleHandler,
		ChangeVehicleStatusHandler: g.ChangeVehicleStatusHandler,
		DeleteVehicleHandler:       g.DeleteVehicleHandler,
		UploadVehiclePhotoHandler:  g.UploadVehiclePhotoHandler,

		ListInvoicesHandler:        g.ListInvoicesHandler,
		GetInvoiceHandler:          g.GetInvoiceHandler,
		CreateInvoiceHandler:       g.CreateInvoiceHandler,
		UpdateInvoiceHandler:       g.UpdateInvoiceHandler,
		ChangeInvoiceStatusHandler: g.ChangeInvoiceStatusHandler,
		RecordPaymentHandler:       g.RecordPaymentHandler,
		DeleteInvoiceHandler:       g.DeleteInvoiceHandler,

		ListGuaranteeTemplatesHandler:  g.ListGuaranteeTemplatesHandler,
		CreateGuaranteeTemplateHandler: g.CreateGuaranteeTemplateHandler,
		UpdateGuaranteeTemplateHandler: g.UpdateGuaranteeTemplateHandler,
		DeleteGuaranteeTemplateHandler: g.DeleteGuaranteeTemplateHandler,
		IssueGuaranteeHandler:          g.IssueGuaranteeHandler,
		ListGuaranteesHandler:          g.ListGuaranteesHandler,
		GetGuaranteeHandler:            g.GetGuaranteeHandler,
		CancelGuaranteeHandler:         g.CancelGuaranteeHandler,

		ListRepairOrdersHandler:   g.ListRepairOrdersHandler,
		GetRepairOrderHandler:     g.GetRepairOrderHandler,
		CreateRepairOrderHandler:  g.CreateRepairOrderHandler,
		UpdateRepairOrderHandler:  g.UpdateRepairOrderHandler,
		ChangeRepairStatusHandler: g.ChangeRepairStatusHandler,
	}
}
