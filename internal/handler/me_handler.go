package handler

import (
	"github.com/gin-gonic/gin"

	"antigravity/paywall/internal/handler/middleware"
	"antigravity/paywall/internal/repository"
	"antigravity/paywall/pkg/response"
)

type MeHandler struct {
	entitlementRepo repository.EntitlementRepository
}

func NewMeHandler(entitlementRepo repository.EntitlementRepository) *MeHandler {
	return &MeHandler{entitlementRepo: entitlementRepo}
}

// Me returns the authenticated user and their entitlements.
func (h *MeHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	entitlements, err := h.entitlementRepo.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		response.InternalError(c, "failed to load entitlements")
		return
	}

	response.OK(c, gin.H{
		"id":           user.ID,
		"email":        user.Email,
		"entitlements": entitlements,
	})
}
