package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"antigravity/paywall/internal/handler/middleware"
	"antigravity/paywall/internal/service"
	"antigravity/paywall/pkg/response"
)

type CheckoutHandler struct {
	orderService service.OrderService
}

func NewCheckoutHandler(orderService service.OrderService) *CheckoutHandler {
	return &CheckoutHandler{orderService: orderService}
}

type CheckoutRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

func (h *CheckoutHandler) Create(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	checkoutURL, err := h.orderService.CreateCheckout(c.Request.Context(), user, req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			response.NotFound(c, "Product not found")
		case errors.Is(err, service.ErrCheckoutUnavailable):
			response.BadGateway(c, "Failed to create checkout")
		default:
			response.InternalError(c, "Failed to create checkout")
		}
		return
	}

	response.OK(c, CheckoutResponse{CheckoutURL: checkoutURL})
}
