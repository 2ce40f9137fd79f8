package items

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chem-is-try/po-generator/pkg/db/models"
	"github.com/chem-is-try/po-generator/pkg/pagination"
)

// CreateLineItemRequest carries the line item form fields. Quantity and rate
// arrive as strings so client float formatting can never skew the money math.
type CreateLineItemRequest struct {
	Quantity    string `json:"quantity" validate:"required"`
	Description string `json:"description" validate:"required"`
	Rate        string `json:"rate" validate:"required"`
}

// UpdateLineItemRequest mirrors the create payload; the full record is replaced.
type UpdateLineItemRequest struct {
	Quantity    string `json:"quantity" validate:"required"`
	Description string `json:"description" validate:"required"`
	Rate        string `json:"rate" validate:"required"`
}

// LineItemResponse is the line item shape returned to clients.
type LineItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Description string          `json:"description"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ListParams bundles cursor pagination inputs.
type ListParams struct {
	Limit  int
	Cursor string
}

// ListResult is one page of line items plus the next cursor.
type ListResult struct {
	Items  []LineItemResponse `json:"items"`
	Cursor string             `json:"cursor,omitempty"`
}

type listQuery struct {
	cursor *pagination.Cursor
	limit  int
}

func toResponse(item models.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:          item.ID,
		Quantity:    item.Quantity,
		Description: item.Description,
		Rate:        item.Rate,
		Amount:      item.Amount(),
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
