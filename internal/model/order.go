package model

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

type Order struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID          uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	ProductID       string      `gorm:"type:text;not null" json:"product_id"`
	Status          OrderStatus `gorm:"type:text;not null" json:"status"`
	RequestID       string      `gorm:"type:text;not null;uniqueIndex" json:"request_id"`
	CreemCheckoutID string      `gorm:"type:text" json:"creem_checkout_id,omitempty"`
	CreemOrderID    string      `gorm:"type:text" json:"creem_order_id,omitempty"`
	AmountCents     int         `json:"amount_cents,omitempty"`
	Currency        string      `gorm:"type:text" json:"currency,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (Order) TableName() string { return "orders" }
