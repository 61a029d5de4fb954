package model

import "gorm.io/gorm"

// AutoMigrate runs GORM auto-migration for all models and creates custom indexes.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Product{},
		&Order{},
		&Entitlement{},
	); err != nil {
		return err
	}

	// Case-insensitive unique email for non-soft-deleted users.
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower " +
			"ON users ((lower(email))) WHERE deleted_at IS NULL",
	).Error; err != nil {
		return err
	}

	// One entitlement per (user, product); webhook grants must stay idempotent.
	return db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_entitlements_user_product " +
			"ON entitlements (user_id, product_id)",
	).Error
}
