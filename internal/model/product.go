package model

import "time"

type Product struct {
	ID             string    `gorm:"type:text;primaryKey" json:"id"`
	Name           string    `gorm:"type:text;not null" json:"name"`
	PriceCents     int       `gorm:"not null" json:"price_cents"`
	Currency       string    `gorm:"type:text;not null" json:"currency"`
	CreemProductID string    `gorm:"type:text;not null" json:"-"`
	Active         bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Product) TableName() string { return "products" }
