package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is a single billable row: quantity x rate of some description.
type LineItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:numeric(10,2);not null"`
	Description string          `gorm:"column:description;not null"`
	Rate        decimal.Decimal `gorm:"column:rate;type:numeric(10,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// Amount is the derived row value, rounded to 2 decimals for display. Totals
// must not sum these rounded values; see UnroundedAmount.
func (l LineItem) Amount() decimal.Decimal {
	return l.UnroundedAmount().Round(2)
}

// UnroundedAmount is quantity*rate without display rounding. Order totals sum
// these and round once so a half-cent row cannot skew the grand total.
func (l LineItem) UnroundedAmount() decimal.Decimal {
	return l.Quantity.Mul(l.Rate)
}
