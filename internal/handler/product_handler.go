package handler

import (
	"github.com/gin-gonic/gin"

	"antigravity/paywall/internal/repository"
	"antigravity/paywall/pkg/response"
)

type ProductHandler struct {
	productRepo repository.ProductRepository
}

func NewProductHandler(productRepo repository.ProductRepository) *ProductHandler {
	return &ProductHandler{productRepo: productRepo}
}

func (h *ProductHandler) ListActive(c *gin.Context) {
	products, err := h.productRepo.ListActive(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to load products")
		return
	}
	response.OK(c, products)
}
