package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chem-is-try/po-generator/pkg/db/models"
	"github.com/chem-is-try/po-generator/pkg/enums"
	"github.com/chem-is-try/po-generator/pkg/pagination"
)

const dateLayout = "2006-01-02"

// CreatePurchaseOrderRequest carries the PO form submission. Line item order
// is preserved onto the printed table.
type CreatePurchaseOrderRequest struct {
	VendorID      uuid.UUID   `json:"vendor_id" validate:"required"`
	Date          string      `json:"date" validate:"required"`
	LineItemIDs   []uuid.UUID `json:"line_item_ids" validate:"required,min=1"`
	PaymentDays   int         `json:"payment_days"`
	ShowTerms     bool        `json:"show_terms"`
	ShowDelivered bool        `json:"show_delivered"`
	Notes         string      `json:"notes"`
	StampOriginal bool        `json:"stamp_original"`
	StampCIT      bool        `json:"stamp_cit"`
}

// UpdatePurchaseOrderRequest mirrors the create payload. The PO number never
// changes on edit, whatever the new date says.
type UpdatePurchaseOrderRequest struct {
	VendorID      uuid.UUID   `json:"vendor_id" validate:"required"`
	Date          string      `json:"date" validate:"required"`
	LineItemIDs   []uuid.UUID `json:"line_item_ids" validate:"required,min=1"`
	PaymentDays   int         `json:"payment_days"`
	ShowTerms     bool        `json:"show_terms"`
	ShowDelivered bool        `json:"show_delivered"`
	Notes         string      `json:"notes"`
	StampOriginal bool        `json:"stamp_original"`
	StampCIT      bool        `json:"stamp_cit"`
}

// ItemLine is one printed table row inside a purchase order response.
type ItemLine struct {
	LineItemID  uuid.UUID       `json:"line_item_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Description string          `json:"description"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// PurchaseOrderResponse is the PO shape returned to clients.
type PurchaseOrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	PONumber      string              `json:"po_number"`
	VendorID      uuid.UUID           `json:"vendor_id"`
	VendorName    string              `json:"vendor_name,omitempty"`
	Date          string              `json:"date"`
	PaymentDays   int                 `json:"payment_days"`
	ShowTerms     bool                `json:"show_terms"`
	ShowDelivered bool                `json:"show_delivered"`
	Notes         string              `json:"notes,omitempty"`
	ApprovalStamp enums.ApprovalStamp `json:"approval_stamp"`
	HasSignature  bool                `json:"has_signature"`
	Items         []ItemLine          `json:"items"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// RenderedPDF is the assembled document, streamed straight back to the
// caller rather than parked in the download store.
type RenderedPDF struct {
	PONumber string
	Data     []byte
}

// ListParams bundles cursor pagination inputs for the caller's orders.
type ListParams struct {
	UserID uuid.UUID
	Limit  int
	Cursor string
}

// ListResult is one page of purchase orders plus the next cursor.
type ListResult struct {
	Items  []PurchaseOrderResponse `json:"items"`
	Cursor string                  `json:"cursor,omitempty"`
}

type listQuery struct {
	userID uuid.UUID
	cursor *pagination.Cursor
	limit  int
}

func toResponse(po models.PurchaseOrder) PurchaseOrderResponse {
	resp := PurchaseOrderResponse{
		ID:            po.ID,
		PONumber:      po.PONumber,
		VendorID:      po.VendorID,
		Date:          po.Date.Format(dateLayout),
		PaymentDays:   po.PaymentDays,
		ShowTerms:     po.ShowTerms,
		ShowDelivered: po.ShowDelivered,
		ApprovalStamp: po.ApprovalStamp,
		HasSignature:  len(po.Signature) > 0,
		TotalAmount:   po.TotalAmount(),
		CreatedAt:     po.CreatedAt,
		UpdatedAt:     po.UpdatedAt,
	}
	if po.Notes != nil {
		resp.Notes = *po.Notes
	}
	if po.Vendor != nil {
		resp.VendorName = po.Vendor.Name
	}
	resp.Items = make([]ItemLine, 0, len(po.Items))
	for _, row := range po.Items {
		if row.LineItem == nil {
			continue
		}
		resp.Items = append(resp.Items, ItemLine{
			LineItemID:  row.LineItemID,
			Quantity:    row.LineItem.Quantity,
			Description: row.LineItem.Description,
			Rate:        row.LineItem.Rate,
			Amount:      row.LineItem.Amount(),
		})
	}
	return resp
}
