package repository

import (
	"context"

	"antigravity/paywall/internal/model"
)

type ProductRepository interface {
	ListActive(ctx context.Context) ([]model.Product, error)
	GetActiveByID(ctx context.Context, id string) (*model.Product, error)
}
