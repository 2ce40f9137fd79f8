package items

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chem-is-try/po-generator/pkg/db/models"
)

// Repository exposes line item persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a line item repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new line item row.
func (r *Repository) Create(ctx context.Context, item *models.LineItem) (*models.LineItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads a line item by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.LineItem, error) {
	var item models.LineItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDs loads line items in one query. Callers decide how to handle
// missing rows.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.LineItem, error) {
	var rows []models.LineItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// List returns line items using cursor pagination, newest first.
func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.LineItem, error) {
	query := r.db.WithContext(ctx).Model(&models.LineItem{})

	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.LineItem
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the modified line item row.
func (r *Repository) Update(ctx context.Context, item *models.LineItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes a line item row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.LineItem{}, "id = ?", id).Error
}

// CountPurchaseOrderReferences reports how many purchase order rows reference
// the line item.
func (r *Repository) CountPurchaseOrderReferences(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrderItem{}).
		Where("line_item_id = ?", itemID).
		Count(&count).Error
	return count, err
}
