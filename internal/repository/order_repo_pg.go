package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"antigravity/paywall/internal/model"
)

type pgOrderRepository struct {
	db *gorm.DB
}

func NewPGOrderRepository(db *gorm.DB) OrderRepository {
	return &pgOrderRepository{db: db}
}

func (r *pgOrderRepository) CreatePending(ctx context.Context, order *model.Order) error {
	order.Status = model.OrderStatusPending
	return r.db.WithContext(ctx).Create(order).Error
}

// GetByRequestID returns (nil, nil) when no order matches.
func (r *pgOrderRepository) GetByRequestID(ctx context.Context, requestID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).First(&order, "request_id = ?", requestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *pgOrderRepository) SetCheckoutID(ctx context.Context, requestID, creemCheckoutID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("request_id = ?", requestID).
		Update("creem_checkout_id", creemCheckoutID).Error
}

func (r *pgOrderRepository) MarkPaid(ctx context.Context, requestID string, details PaidDetails) error {
	return r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("request_id = ?", requestID).
		Updates(map[string]interface{}{
			"status":            model.OrderStatusPaid,
			"creem_checkout_id": details.CreemCheckoutID,
			"creem_order_id":    details.CreemOrderID,
			"amount_cents":      details.AmountCents,
			"currency":          details.Currency,
		}).Error
}

func (r *pgOrderRepository) MarkFailed(ctx context.Context, requestID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("request_id = ?", requestID).
		Update("status", model.OrderStatusFailed).Error
}
