package models

import (
	"time"

	"github.com/google/uuid"
)

// SavedLineItem is a user-scoped template name over a line-item snapshot.
type SavedLineItem struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	LineItemID uuid.UUID `gorm:"column:line_item_id;type:uuid;not null"`
	Name       string    `gorm:"column:name;not null"`
	LineItem   *LineItem `gorm:"foreignKey:LineItemID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
