package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chem-is-try/po-generator/pkg/enums"
)

// PurchaseOrder is the committed document: a vendor, an ordered set of line
// items, payment terms, and the approval artifacts (signature + stamps).
// PONumber is assigned once at creation and never recomputed on edit.
type PurchaseOrder struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PONumber      string              `gorm:"column:po_number;not null;uniqueIndex"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	VendorID      uuid.UUID           `gorm:"column:vendor_id;type:uuid;not null"`
	Date          time.Time           `gorm:"column:date;type:date;not null"`
	PaymentDays   int                 `gorm:"column:payment_days;not null;default:30"`
	ShowTerms     bool                `gorm:"column:show_terms;not null;default:true"`
	ShowDelivered bool                `gorm:"column:delivered_prices;not null;default:false"`
	Notes         *string             `gorm:"column:notes"`
	ApprovalStamp enums.ApprovalStamp `gorm:"column:approval_stamp;type:approval_stamp;not null;default:'none'"`
	Signature     []byte              `gorm:"column:signature;type:bytea"`
	Vendor        *Vendor             `gorm:"foreignKey:VendorID"`
	Items         []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// TotalAmount sums the unrounded qty*rate products across the attached items
// and rounds once. Items must be preloaded.
func (p PurchaseOrder) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range p.Items {
		if item.LineItem != nil {
			total = total.Add(item.LineItem.UnroundedAmount())
		}
	}
	return total.Round(2)
}

// PurchaseOrderItem is the ordered join row between a purchase order and the
// line items it references. Position preserves the form ordering.
type PurchaseOrderItem struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PurchaseOrderID uuid.UUID `gorm:"column:purchase_order_id;type:uuid;not null;index"`
	LineItemID      uuid.UUID `gorm:"column:line_item_id;type:uuid;not null;index"`
	Position        int       `gorm:"column:position;not null"`
	LineItem        *LineItem `gorm:"foreignKey:LineItemID"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}
