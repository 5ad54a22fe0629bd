package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"garagedesk/models"
	"garagedesk/services/billing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxWebhookBytes bounds the webhook body read into memory.
const maxWebhookBytes = 64 << 10

// BillingService is what the billing endpoints need from billing.Service.
type BillingService interface {
	Plans() *billing.PlanCatalog
	StartCheckout(ctx context.Context, req billing.CheckoutRequest) (*billing.CheckoutResult, error)
	VerifyEvent(payload []byte, signature string) (*models.BillingEvent, error)
	HandleEvent(ctx context.Context, ev *models.BillingEvent) billing.EventResult
	Current(ctx context.Context, userID string) (*models.SubscriptionRecord, error)
	History(ctx context.Context, userID string) ([]models.SubscriptionRecord, error)
}

// RetryQueue re-queues secondary failures.
type RetryQueue interface {
	RetryFailures(ctx context.Context, outcome billing.Outcome) error
}

type BillingHandler struct {
	Billing BillingService
	Retries RetryQueue
}

func NewBillingHandler(svc BillingService, retries RetryQueue) *BillingHandler {
	return &BillingHandler{Billing: svc, Retries: retries}
}

// ListPlansHandler handles GET /api/plans.
func (h *BillingHandler) ListPlansHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": h.Billing.Plans().Plans()})
}

type checkoutRequest struct {
	Plan     string `json:"plan"`
	PlanType string `json:"planType"`
	UserID   string `json:"userId"`
}

// CheckoutHandler handles POST /api/billing/checkout.
func (h *BillingHandler) CheckoutHandler(c *gin.Context) {
	logger := getLogger(c)
	uid, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.UserID != "" && req.UserID != uid {
		logger.Warn("checkout requested for another user", zap.String("bodyUserId", req.UserID))
		c.JSON(http.StatusForbidden, gin.H{"error": "userId does not match the authenticated user"})
		return
	}

	raw := req.Plan
	if raw == "" {
		raw = req.PlanType
	}
	plan, err := billing.ParsePlan(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := h.Billing.StartCheckout(c.Request.Context(), billing.CheckoutRequest{UserID: uid, Plan: plan})
	if err != nil {
		respondError(c, billingStatus(err), err)
		return
	}
	h.retry(c, result.Outcome)

	c.JSON(http.StatusOK, gin.H{
		"sessionId":      result.SessionID,
		"checkoutUrl":    result.CheckoutURL,
		"subscriptionId": result.Record.ID,
	})
}

// WebhookHandler handles POST /api/billing/webhook. Once the signature is
// valid the event is always acknowledged.
func (h *BillingHandler) WebhookHandler(c *gin.Context) {
	logger := getLogger(c)
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read body"})
		return
	}

	ev, err := h.Billing.VerifyEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		logger.Warn("webhook rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook"})
		return
	}

	result := h.Billing.HandleEvent(c.Request.Context(), ev)
	h.retry(c, result.Outcome)
	logger.Info("webhook processed",
		zap.String("eventId", ev.ID),
		zap.String("type", ev.Type),
		zap.Bool("applied", result.Applied),
		zap.Bool("duplicate", result.Duplicate),
	)
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// CurrentSubscriptionHandler handles GET /api/subscription.
func (h *BillingHandler) CurrentSubscriptionHandler(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	rec, err := h.Billing.Current(c.Request.Context(), uid)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// SubscriptionHistoryHandler handles GET /api/subscription/history.
func (h *BillingHandler) SubscriptionHistoryHandler(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	records, err := h.Billing.History(c.Request.Context(), uid)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if records == nil {
		records = []models.SubscriptionRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": records})
}

// retry hands secondary failures to the queue. The response does not wait
// on the outcome of the retry.
func (h *BillingHandler) retry(c *gin.Context, outcome billing.Outcome) {
	if !outcome.Degraded() {
		return
	}
	logger := getLogger(c)
	if h.Retries == nil {
		logger.Error("secondary failure with no retry queue", zap.Error(outcome.Err()))
		return
	}
	if err := h.Retries.RetryFailures(context.WithoutCancel(c.Request.Context()), outcome); err != nil {
		logger.Error("failed to enqueue retry", zap.Error(err), zap.NamedError("cause", outcome.Err()))
	}
}
