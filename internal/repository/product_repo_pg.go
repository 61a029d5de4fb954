package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"antigravity/paywall/internal/model"
)

type pgProductRepository struct {
	db *gorm.DB
}

func NewPGProductRepository(db *gorm.DB) ProductRepository {
	return &pgProductRepository{db: db}
}

func (r *pgProductRepository) ListActive(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).Where("active = ?", true).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetActiveByID returns (nil, nil) when no active product matches.
func (r *pgProductRepository) GetActiveByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Where("id = ? AND active = ?", id, true).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}
