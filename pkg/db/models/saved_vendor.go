package models

import (
	"time"

	"github.com/google/uuid"
)

// SavedVendor is a user-scoped template name over a vendor snapshot, used to
// pre-fill the PO form.
type SavedVendor struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	VendorID  uuid.UUID `gorm:"column:vendor_id;type:uuid;not null"`
	Name      string    `gorm:"column:name;not null"`
	Vendor    *Vendor   `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
