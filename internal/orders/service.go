package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chem-is-try/po-generator/internal/pdf"
	"github.com/chem-is-try/po-generator/pkg/db/models"
	"github.com/chem-is-try/po-generator/pkg/enums"
	pkgerrors "github.com/chem-is-try/po-generator/pkg/errors"
	"github.com/chem-is-try/po-generator/pkg/metrics"
	pkgpagination "github.com/chem-is-try/po-generator/pkg/pagination"
)

type ordersRepository interface {
	Create(ctx context.Context, po *models.PurchaseOrder) (*models.PurchaseOrder, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error)
	List(ctx context.Context, opts listQuery) ([]models.PurchaseOrder, error)
	Update(ctx context.Context, po *models.PurchaseOrder, items []models.PurchaseOrderItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByDate(ctx context.Context, date time.Time) (int64, error)
}

type vendorFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
}

type lineItemsFinder interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.LineItem, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type signatureRenderer interface {
	Render(name string) ([]byte, error)
}

type documentAssembler interface {
	Assemble(ctx context.Context, doc pdf.Document) ([]byte, error)
}

// Service exposes purchase order CRUD plus per-order PDF generation.
type Service interface {
	CreatePurchaseOrder(ctx context.Context, userID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error)
	GetPurchaseOrder(ctx context.Context, userID, id uuid.UUID) (*PurchaseOrderResponse, error)
	ListPurchaseOrders(ctx context.Context, params ListParams) (*ListResult, error)
	UpdatePurchaseOrder(ctx context.Context, userID, id uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error)
	DeletePurchaseOrder(ctx context.Context, userID, id uuid.UUID) error
	RenderPDF(ctx context.Context, userID, id uuid.UUID) (*RenderedPDF, error)
}

type service struct {
	repo      ordersRepository
	vendors   vendorFinder
	items     lineItemsFinder
	users     userFinder
	signature signatureRenderer
	assembler documentAssembler
	metrics   *metrics.DocumentMetrics
}

// ServiceParams bundles the dependencies required to build an orders service.
type ServiceParams struct {
	Repo      ordersRepository
	Vendors   vendorFinder
	Items     lineItemsFinder
	Users     userFinder
	Signature signatureRenderer
	Assembler documentAssembler
	Metrics   *metrics.DocumentMetrics
}

// NewService constructs the purchase order service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Vendors == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if params.Items == nil {
		return nil, fmt.Errorf("line item repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if params.Signature == nil {
		return nil, fmt.Errorf("signature renderer required")
	}
	if params.Assembler == nil {
		return nil, fmt.Errorf("document assembler required")
	}
	return &service{
		repo:      params.Repo,
		vendors:   params.Vendors,
		items:     params.Items,
		users:     params.Users,
		signature: params.Signature,
		assembler: params.Assembler,
		metrics:   params.Metrics,
	}, nil
}

// CreatePurchaseOrder commits the order. The PO number is derived from the
// order date once, here, and never recomputed afterwards.
func (s *service) CreatePurchaseOrder(ctx context.Context, userID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	paymentDays, err := normalizePaymentDays(req.PaymentDays)
	if err != nil {
		return nil, err
	}

	if _, err := s.findVendor(ctx, req.VendorID); err != nil {
		return nil, err
	}
	itemRows, err := s.resolveItems(ctx, req.LineItemIDs)
	if err != nil {
		return nil, err
	}

	sameDay, err := s.repo.CountByDate(ctx, date)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count same-day orders")
	}
	poNumber := pdf.FormatNumber(date, strconv.FormatInt(sameDay+1, 10))

	signature, err := s.renderSignature(ctx, userID)
	if err != nil {
		return nil, err
	}

	po := &models.PurchaseOrder{
		PONumber:      poNumber,
		UserID:        userID,
		VendorID:      req.VendorID,
		Date:          date,
		PaymentDays:   paymentDays,
		ShowTerms:     req.ShowTerms,
		ShowDelivered: req.ShowDelivered,
		Notes:         optionalText(req.Notes),
		ApprovalStamp: enums.StampFromFlags(req.StampOriginal, req.StampCIT),
		Signature:     signature,
		Items:         itemRows,
	}

	created, err := s.repo.Create(ctx, po)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase order")
	}

	full, err := s.repo.FindByID(ctx, created.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload purchase order")
	}
	resp := toResponse(*full)
	return &resp, nil
}

func (s *service) GetPurchaseOrder(ctx context.Context, userID, id uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(*po)
	return &resp, nil
}

func (s *service) ListPurchaseOrders(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}

	limit := pkgpagination.NormalizeLimit(params.Limit)
	query := listQuery{
		userID: params.UserID,
		limit:  pkgpagination.LimitWithBuffer(params.Limit),
	}
	if params.Cursor != "" {
		cursor, err := pkgpagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchase orders")
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{
			CreatedAt: rows[limit].CreatedAt,
			ID:        rows[limit].ID,
		})
		rows = rows[:limit]
	}

	items := make([]PurchaseOrderResponse, len(rows))
	for i, row := range rows {
		items[i] = toResponse(row)
	}
	return &ListResult{Items: items, Cursor: nextCursor}, nil
}

// UpdatePurchaseOrder replaces the order's fields and item set. The original
// PO number is kept even when the date moves.
func (s *service) UpdatePurchaseOrder(ctx context.Context, userID, id uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	po, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	paymentDays, err := normalizePaymentDays(req.PaymentDays)
	if err != nil {
		return nil, err
	}
	if _, err := s.findVendor(ctx, req.VendorID); err != nil {
		return nil, err
	}
	itemRows, err := s.resolveItems(ctx, req.LineItemIDs)
	if err != nil {
		return nil, err
	}

	po.VendorID = req.VendorID
	po.Date = date
	po.PaymentDays = paymentDays
	po.ShowTerms = req.ShowTerms
	po.ShowDelivered = req.ShowDelivered
	po.Notes = optionalText(req.Notes)
	po.ApprovalStamp = enums.StampFromFlags(req.StampOriginal, req.StampCIT)

	if err := s.repo.Update(ctx, po, itemRows); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update purchase order")
	}

	full, err := s.repo.FindByID(ctx, po.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload purchase order")
	}
	resp := toResponse(*full)
	return &resp, nil
}

func (s *service) DeletePurchaseOrder(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.findOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete purchase order")
	}
	return nil
}

// RenderPDF assembles the committed order and returns the bytes for the
// caller to stream.
func (s *service) RenderPDF(ctx context.Context, userID, id uuid.UUID) (*RenderedPDF, error) {
	po, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if po.Vendor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "purchase order vendor missing")
	}

	signedBy := ""
	if user, err := s.users.FindByID(ctx, po.UserID); err == nil {
		signedBy = user.DisplayName()
	}

	doc := pdf.Document{
		Kind:   enums.DocumentKindPurchaseOrder,
		Number: po.PONumber,
		Date:   po.Date,
		Vendor: pdf.VendorBlock{
			Name:    po.Vendor.Name,
			Address: po.Vendor.Address,
			City:    po.Vendor.City,
			State:   po.Vendor.State,
			Zip:     po.Vendor.Zip,
			Country: po.Vendor.Country,
		},
		PaymentDays:         po.PaymentDays,
		ShowPaymentTerms:    po.ShowTerms,
		ShowDeliveredPrices: po.ShowDelivered,
		Stamp:               po.ApprovalStamp,
		Signature:           po.Signature,
		SignedBy:            signedBy,
	}
	if po.Notes != nil {
		doc.Notes = *po.Notes
	}
	for _, row := range po.Items {
		if row.LineItem == nil {
			continue
		}
		doc.Items = append(doc.Items, pdf.Line{
			Quantity:    row.LineItem.Quantity,
			Description: row.LineItem.Description,
			Rate:        row.LineItem.Rate,
		})
	}

	started := time.Now()
	data, err := s.assembler.Assemble(ctx, doc)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveRenderDuration(doc.Kind.String(), time.Since(started))

	return &RenderedPDF{PONumber: po.PONumber, Data: data}, nil
}

func (s *service) findOwned(ctx context.Context, userID, id uuid.UUID) (*models.PurchaseOrder, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase order id is required")
	}
	po, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup purchase order")
	}
	if po.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "purchase order belongs to another user")
	}
	return po, nil
}

func (s *service) findVendor(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor_id is required")
	}
	vendor, err := s.vendors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup vendor")
	}
	return vendor, nil
}

// resolveItems loads the referenced line items and builds join rows in the
// order the request listed them.
func (s *service) resolveItems(ctx context.Context, ids []uuid.UUID) ([]models.PurchaseOrderItem, error) {
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line item is required")
	}

	rows, err := s.items.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load line items")
	}
	byID := make(map[uuid.UUID]models.LineItem, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	var missing []string
	itemRows := make([]models.PurchaseOrderItem, 0, len(ids))
	for position, id := range ids {
		item, ok := byID[id]
		if !ok {
			missing = append(missing, id.String())
			continue
		}
		itemCopy := item
		itemRows = append(itemRows, models.PurchaseOrderItem{
			LineItemID: id,
			Position:   position,
			LineItem:   &itemCopy,
		})
	}
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown line items").
			WithDetails(map[string]any{"line_item_ids": missing})
	}
	return itemRows, nil
}

func (s *service) renderSignature(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown user")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}
	signature, err := s.signature.Render(user.DisplayName())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render signature")
	}
	return signature, nil
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD")
	}
	return date, nil
}

func normalizePaymentDays(days int) (int, error) {
	if days < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "payment_days cannot be negative")
	}
	if days == 0 {
		return 30, nil
	}
	return days, nil
}

func optionalText(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
