package routes

import (
	"time"

	"garagedesk/handlers"
	"garagedesk/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// PublicPrefixes are reachable without a session.
var PublicPrefixes = []string{"/health", "/api/plans", "/api/billing/webhook"}

// RegisterPublicRoutes registers health, plan catalogue and the provider webhook.
func RegisterPublicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
	r.GET("/api/plans", hb.ListPlansHandler)
	r.POST("/api/billing/webhook", hb.BillingWebhookHandler)
}

// RegisterBillingRoutes registers checkout and subscription endpoints.
func RegisterBillingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.POST("/billing/checkout", hb.CheckoutHandler)
	api.POST("/create-checkout-session", hb.CheckoutHandler)
	api.GET("/subscription", hb.CurrentSubscriptionHandler)
	api.GET("/subscription/history", hb.SubscriptionHistoryHandler)
}

// RegisterClientRoutes registers client endpoints.
func RegisterClientRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	clients := api.Group("/clients")
	{
		clients.GET("", hb.ListClientsHandler)
		clients.POST("", hb.CreateClientHandler)
		clients.GET("/:id", hb.GetClientHandler)
		clients.PUT("/:id", hb.UpdateClientHandler)
		clients.DELETE("/:id", hb.DeleteClientHandler)
		clients.POST("/:id/interactions", hb.AddInteractionHandler)
		clients.POST("/:id/documents", hb.UploadClientDocumentHandler)
	}
}

// RegisterVehicleRoutes registers vehicle endpoints.
func RegisterVehicleRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	vehicles := api.Group("/vehicles")
	{
		vehicles.GET("", hb.ListVehiclesHandler)
		vehicles.POST("", hb.CreateVehicleHandler)
		vehicles.GET("/:id", hb.GetVehicleHandler)
		vehicles.PUT("/:id", hb.UpdateVehicleHandler)
		vehicles.PATCH("/:id/status", hb.ChangeVehicleStatusHandler)
		vehicles.DELETE("/:id", hb.DeleteVehicleHandler)
		vehicles.POST("/:id/photos", hb.UploadVehiclePhotoHandler)
	}
}

// RegisterInvoiceRoutes registers invoice endpoints.
func RegisterInvoiceRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	invoices := api.Group("/invoices")
	{
		invoices.GET("", hb.ListInvoicesHandler)
		invoices.POST("", hb.CreateInvoiceHandler)
		invoices.GET("/:id", hb.GetInvoiceHandler)
		invoices.PUT("/:id", hb.UpdateInvoiceHandler)
		invoices.PATCH("/:id/status", hb.ChangeInvoiceStatusHandler)
		invoices.POST("/:id/payments", hb.RecordPaymentHandler)
		invoices.DELETE("/:id", hb.DeleteInvoiceHandler)
	}
}

// RegisterGuaranteeRoutes registers guarantee template and guarantee endpoints.
func RegisterGuaranteeRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	templates := api.Group("/guarantee-templates")
	{
		templates.GET("", hb.ListGuaranteeTemplatesHandler)
		templates.POST("", hb.CreateGuaranteeTemplateHandler)
		templates.PUT("/:id", hb.UpdateGuaranteeTemplateHandler)
		templates.DELETE("/:id", hb.DeleteGuaranteeTemplateHandler)
	}
	guarantees := api.Group("/guarantees")
	{
		guarantees.GET("", hb.ListGuaranteesHandler)
		guarantees.POST("", hb.IssueGuaranteeHandler)
		guarantees.GET("/:id", hb.GetGuaranteeHandler)
		guarantees.POST("/:id/cancel", hb.CancelGuaranteeHandler)
	}
}

// RegisterRepairRoutes registers repair order endpoints.
func RegisterRepairRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	repairs := api.Group("/repairs")
	{
		repairs.GET("", hb.ListRepairOrdersHandler)
		repairs.POST("", hb.CreateRepairOrderHandler)
		repairs.GET("/:id", hb.GetRepairOrderHandler)
		repairs.PUT("/:id", hb.UpdateRepairOrderHandler)
		repairs.PATCH("/:id/status", hb.ChangeRepairStatusHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, allowedOrigins []string) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: !lo.Contains(allowedOrigins, "*"), // not allowed with a wildcard origin
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.SessionCookieGate(hb.SessionCookie, PublicPrefixes...))

	RegisterPublicRoutes(r, hb)

	api := r.Group("/api")
	api.Use(middleware.RequireAuth(hb.Verifier, hb.SessionCookie))
	RegisterBillingRoutes(api, hb)
	RegisterClientRoutes(api, hb)
	RegisterVehicleRoutes(api, hb)
	RegisterInvoiceRoutes(api, hb)
	RegisterGuaranteeRoutes(api, hb)
	RegisterRepairRoutes(api, hb)
}
