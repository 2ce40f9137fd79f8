package templates

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chem-is-try/po-generator/pkg/db/models"
)

// SaveVendorRequest names a vendor snapshot for reuse on the PO form.
type SaveVendorRequest struct {
	Name     string    `json:"name" validate:"required"`
	VendorID uuid.UUID `json:"vendor_id" validate:"required"`
}

// SaveLineItemRequest names a line item snapshot for reuse on the PO form.
type SaveLineItemRequest struct {
	Name       string    `json:"name" validate:"required"`
	LineItemID uuid.UUID `json:"line_item_id" validate:"required"`
}

// VendorSnapshot is the referenced vendor as rendered inside a template row.
type VendorSnapshot struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
	City    string    `json:"city"`
	State   string    `json:"state"`
	Zip     string    `json:"zip"`
	Country string    `json:"country"`
}

// LineItemSnapshot is the referenced line item as rendered inside a template row.
type LineItemSnapshot struct {
	ID          uuid.UUID       `json:"id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Description string          `json:"description"`
	Rate        decimal.Decimal `json:"rate"`
}

// SavedVendorResponse is a user template entry plus the vendor it points at.
type SavedVendorResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Vendor    *VendorSnapshot `json:"vendor,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// SavedLineItemResponse is a user template entry plus the item it points at.
type SavedLineItemResponse struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	LineItem  *LineItemSnapshot `json:"line_item,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func toSavedVendorResponse(row models.SavedVendor) SavedVendorResponse {
	resp := SavedVendorResponse{
		ID:        row.ID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
	}
	if row.Vendor != nil {
		resp.Vendor = &VendorSnapshot{
			ID:      row.Vendor.ID,
			Name:    row.Vendor.Name,
			Address: row.Vendor.Address,
			City:    row.Vendor.City,
			State:   row.Vendor.State,
			Zip:     row.Vendor.Zip,
			Country: row.Vendor.Country,
		}
	}
	return resp
}

func toSavedLineItemResponse(row models.SavedLineItem) SavedLineItemResponse {
	resp := SavedLineItemResponse{
		ID:        row.ID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
	}
	if row.LineItem != nil {
		resp.LineItem = &LineItemSnapshot{
			ID:          row.LineItem.ID,
			Quantity:    row.LineItem.Quantity,
			Description: row.LineItem.Description,
			Rate:        row.LineItem.Rate,
		}
	}
	return resp
}
