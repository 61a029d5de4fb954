package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"antigravity/paywall/internal/model"
)

type pgEntitlementRepository struct {
	db *gorm.DB
}

func NewPGEntitlementRepository(db *gorm.DB) EntitlementRepository {
	return &pgEntitlementRepository{db: db}
}

func (r *pgEntitlementRepository) ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	var rows []model.Entitlement
	err := r.db.WithContext(ctx).
		Select("id").
		Where("user_id = ?", userID).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

func (r *pgEntitlementRepository) Grant(ctx context.Context, entitlement *model.Entitlement) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(entitlement).Error
}

func (r *pgEntitlementRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Entitlement, error) {
	var rows []model.Entitlement
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
