package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chem-is-try/po-generator/pkg/db/models"
)

// Repository exposes purchase order persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a purchase order repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the purchase order and its item rows in one transaction.
func (r *Repository) Create(ctx context.Context, po *models.PurchaseOrder) (*models.PurchaseOrder, error) {
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return nil, err
	}
	return po, nil
}

// FindByID loads one purchase order with vendor and ordered items preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Items.LineItem").
		First(&po, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &po, nil
}

// List returns the user's purchase orders using cursor pagination, newest first.
func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.PurchaseOrder, error) {
	query := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Preload("Vendor").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Items.LineItem").
		Where("user_id = ?", opts.userID)

	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.PurchaseOrder
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update replaces the purchase order's mutable fields and its item rows.
func (r *Repository) Update(ctx context.Context, po *models.PurchaseOrder, items []models.PurchaseOrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_order_id = ?", po.ID).Delete(&models.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
		po.Items = nil
		if err := tx.Save(po).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].PurchaseOrderID = po.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the purchase order; item rows cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.PurchaseOrder{}, "id = ?", id).Error
}

// CountByDate reports how many purchase orders already carry the given order
// date. The next same-day order takes suffix count+1.
func (r *Repository) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Where("date = ?", date.Format("2006-01-02")).
		Count(&count).Error
	return count, err
}
