package model

import (
	"time"

	"github.com/google/uuid"
)

// Entitlement asserts that a user has unlocked a product. Granted by the
// payment webhook once a checkout completes; the success view polls for it.
type Entitlement struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ProductID string    `gorm:"type:text;not null" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Entitlement) TableName() string { return "entitlements" }
