package repository

import (
	"context"

	"github.com/google/uuid"

	"antigravity/paywall/internal/model"
)

type EntitlementRepository interface {
	// ExistsForUser reports whether the user holds at least one entitlement.
	// Implementations must fetch at most one row; only existence matters.
	ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error)

	// Grant upserts the (user, product) entitlement. Safe to call repeatedly
	// for the same pair; webhook deliveries can repeat.
	Grant(ctx context.Context, entitlement *model.Entitlement) error

	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Entitlement, error)
}
