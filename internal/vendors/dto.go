package vendors

import (
	"time"

	"github.com/google/uuid"

	"github.com/chem-is-try/po-generator/pkg/db/models"
	"github.com/chem-is-try/po-generator/pkg/pagination"
)

// CreateVendorRequest carries the vendor form fields.
type CreateVendorRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// UpdateVendorRequest mirrors the create payload; the full record is replaced.
type UpdateVendorRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// VendorResponse is the vendor shape returned to clients.
type VendorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Zip       string    `json:"zip"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListParams bundles cursor pagination inputs.
type ListParams struct {
	Limit  int
	Cursor string
}

// ListResult is one page of vendors plus the next cursor.
type ListResult struct {
	Items  []VendorResponse `json:"items"`
	Cursor string           `json:"cursor,omitempty"`
}

type listQuery struct {
	cursor *pagination.Cursor
	limit  int
}

func toResponse(vendor models.Vendor) VendorResponse {
	return VendorResponse{
		ID:        vendor.ID,
		Name:      vendor.Name,
		Address:   vendor.Address,
		City:      vendor.City,
		State:     vendor.State,
		Zip:       vendor.Zip,
		Country:   vendor.Country,
		CreatedAt: vendor.CreatedAt,
		UpdatedAt: vendor.UpdatedAt,
	}
}
