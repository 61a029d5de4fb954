package repository

import (
	"context"

	"antigravity/paywall/internal/model"
)

// PaidDetails carries the payment provider fields recorded when an order settles.
type PaidDetails struct {
	CreemCheckoutID string
	CreemOrderID    string
	AmountCents     int
	Currency        string
}

type OrderRepository interface {
	CreatePending(ctx context.Context, order *model.Order) error
	GetByRequestID(ctx context.Context, requestID string) (*model.Order, error)
	SetCheckoutID(ctx context.Context, requestID, creemCheckoutID string) error
	MarkPaid(ctx context.Context, requestID string, details PaidDetails) error
	MarkFailed(ctx context.Context, requestID string) error
}
