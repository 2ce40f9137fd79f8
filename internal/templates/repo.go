package templates

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chem-is-try/po-generator/pkg/db/models"
)

// Repository exposes persistence for the user-scoped template rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a templates repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateSavedVendor inserts a named vendor template for the user.
func (r *Repository) CreateSavedVendor(ctx context.Context, row *models.SavedVendor) (*models.SavedVendor, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// FindSavedVendor loads one template row with its vendor preloaded.
func (r *Repository) FindSavedVendor(ctx context.Context, id uuid.UUID) (*models.SavedVendor, error) {
	var row models.SavedVendor
	if err := r.db.WithContext(ctx).Preload("Vendor").First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListSavedVendors returns the user's vendor templates, newest first.
func (r *Repository) ListSavedVendors(ctx context.Context, userID uuid.UUID) ([]models.SavedVendor, error) {
	var rows []models.SavedVendor
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteSavedVendor removes one template row.
func (r *Repository) DeleteSavedVendor(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.SavedVendor{}, "id = ?", id).Error
}

// CreateSavedLineItem inserts a named line item template for the user.
func (r *Repository) CreateSavedLineItem(ctx context.Context, row *models.SavedLineItem) (*models.SavedLineItem, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// FindSavedLineItem loads one template row with its line item preloaded.
func (r *Repository) FindSavedLineItem(ctx context.Context, id uuid.UUID) (*models.SavedLineItem, error) {
	var row models.SavedLineItem
	if err := r.db.WithContext(ctx).Preload("LineItem").First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListSavedLineItems returns the user's line item templates, newest first.
func (r *Repository) ListSavedLineItems(ctx context.Context, userID uuid.UUID) ([]models.SavedLineItem, error) {
	var rows []models.SavedLineItem
	err := r.db.WithContext(ctx).
		Preload("LineItem").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteSavedLineItem removes one template row.
func (r *Repository) DeleteSavedLineItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.SavedLineItem{}, "id = ?", id).Error
}
