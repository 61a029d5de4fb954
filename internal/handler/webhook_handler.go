package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"antigravity/paywall/internal/service"
	cryptopkg "antigravity/paywall/pkg/crypto"
	"antigravity/paywall/pkg/response"
)

const signatureHeader = "creem-signature"

type WebhookHandler struct {
	webhookService service.WebhookService
	secret         string
	logger         *zap.Logger
}

func NewWebhookHandler(webhookService service.WebhookService, secret string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService, secret: secret, logger: logger}
}

type creemEvent struct {
	ID        string `json:"id"`
	EventID   string `json:"eventId"`
	EventType string `json:"eventType"`
	Object    struct {
		ID         string `json:"id"`
		CheckoutID string `json:"checkout_id"`
		RequestID  string `json:"request_id"`
		Order      struct {
			ID          string `json:"id"`
			Status      string `json:"status"`
			Amount      *int   `json:"amount"`
			AmountCents *int   `json:"amount_cents"`
			Currency    string `json:"currency"`
		} `json:"order"`
	} `json:"object"`
}

// Creem handles payment provider webhook deliveries: signature verification,
// idempotent event tracking, then order settlement and entitlement grant for
// checkout.completed.
func (h *WebhookHandler) Creem(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "Invalid payload")
		return
	}

	provided := c.GetHeader(signatureHeader)
	if provided == "" {
		response.BadRequest(c, "Missing signature")
		return
	}
	expected := cryptopkg.HMACSHA256Hex(h.secret, raw)
	if !cryptopkg.SecureCompare(expected, provided) {
		response.BadRequest(c, "Invalid signature")
		return
	}

	var event creemEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		response.BadRequest(c, "Invalid payload")
		return
	}

	eventKey := event.ID
	if eventKey == "" {
		eventKey = event.EventID
	}
	if eventKey == "" {
		eventKey = cryptopkg.SHA256Hex(raw)
	}

	seen, err := h.webhookService.Seen(c.Request.Context(), eventKey)
	if err != nil {
		h.logger.Error("webhook idempotency check failed", zap.Error(err))
		response.InternalError(c, "webhook processing failed")
		return
	}
	if seen {
		response.OK(c, gin.H{"ok": true})
		return
	}

	if event.EventType == "checkout.completed" {
		checkoutID := event.Object.ID
		if checkoutID == "" {
			checkoutID = event.Object.CheckoutID
		}
		amountCents := 0
		if event.Object.Order.Amount != nil {
			amountCents = *event.Object.Order.Amount
		} else if event.Object.Order.AmountCents != nil {
			amountCents = *event.Object.Order.AmountCents
		}

		err := h.webhookService.HandleCheckoutCompleted(c.Request.Context(), service.CheckoutCompletedEvent{
			RequestID:       event.Object.RequestID,
			OrderStatus:     event.Object.Order.Status,
			CreemOrderID:    event.Object.Order.ID,
			CreemCheckoutID: checkoutID,
			AmountCents:     amountCents,
			Currency:        event.Object.Order.Currency,
		})
		if err != nil {
			h.logger.Error("webhook processing failed", zap.String("event_key", eventKey), zap.Error(err))
			response.InternalError(c, "webhook processing failed")
			return
		}
	}

	response.OK(c, gin.H{"ok": true})
}
