package persistence

import (
	"context"

	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// updateVersioned writes every column of model except id, created_at and
// omit, but only while the stored row is still at version-1. The caller's
// aggregate must already carry its incremented version.
func updateVersioned(ctx context.Context, db *gorm.DB, model any, id uuid.UUID, version int, omit ...string) error {
	result := db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", id, version-1).
		Select("*").
		Omit(append([]string{"id", "created_at"}, omit...)...).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}
