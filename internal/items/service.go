package items

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/chem-is-try/po-generator/pkg/db/models"
	pkgerrors "github.com/chem-is-try/po-generator/pkg/errors"
	pkgpagination "github.com/chem-is-try/po-generator/pkg/pagination"
)

type itemsRepository interface {
	Create(ctx context.Context, item *models.LineItem) (*models.LineItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.LineItem, error)
	List(ctx context.Context, opts listQuery) ([]models.LineItem, error)
	Update(ctx context.Context, item *models.LineItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountPurchaseOrderReferences(ctx context.Context, itemID uuid.UUID) (int64, error)
}

// Service exposes line item CRUD semantics.
type Service interface {
	CreateLineItem(ctx context.Context, req CreateLineItemRequest) (*LineItemResponse, error)
	GetLineItem(ctx context.Context, id uuid.UUID) (*LineItemResponse, error)
	ListLineItems(ctx context.Context, params ListParams) (*ListResult, error)
	UpdateLineItem(ctx context.Context, id uuid.UUID, req UpdateLineItemRequest) (*LineItemResponse, error)
	DeleteLineItem(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo itemsRepository
}

// NewService builds a line item service over the provided repository.
func NewService(repo itemsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("line item repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateLineItem(ctx context.Context, req CreateLineItemRequest) (*LineItemResponse, error) {
	quantity, rate, description, err := parseFields(req.Quantity, req.Rate, req.Description)
	if err != nil {
		return nil, err
	}

	item := &models.LineItem{
		Quantity:    quantity,
		Description: description,
		Rate:        rate,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create line item")
	}
	resp := toResponse(*created)
	return &resp, nil
}

func (s *service) GetLineItem(ctx context.Context, id uuid.UUID) (*LineItemResponse, error) {
	item, err := s.findItem(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(*item)
	return &resp, nil
}

func (s *service) ListLineItems(ctx context.Context, params ListParams) (*ListResult, error) {
	limit := pkgpagination.NormalizeLimit(params.Limit)
	query := listQuery{limit: pkgpagination.LimitWithBuffer(params.Limit)}
	if params.Cursor != "" {
		cursor, err := pkgpagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list line items")
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{
			CreatedAt: rows[limit].CreatedAt,
			ID:        rows[limit].ID,
		})
		rows = rows[:limit]
	}

	items := make([]LineItemResponse, len(rows))
	for i, row := range rows {
		items[i] = toResponse(row)
	}
	return &ListResult{Items: items, Cursor: nextCursor}, nil
}

func (s *service) UpdateLineItem(ctx context.Context, id uuid.UUID, req UpdateLineItemRequest) (*LineItemResponse, error) {
	quantity, rate, description, err := parseFields(req.Quantity, req.Rate, req.Description)
	if err != nil {
		return nil, err
	}

	item, err := s.findItem(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Quantity = quantity
	item.Description = description
	item.Rate = rate

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update line item")
	}
	resp := toResponse(*item)
	return &resp, nil
}

// DeleteLineItem removes an item no purchase order references. Items on a
// committed order stay put so its PDF can always be regenerated.
func (s *service) DeleteLineItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findItem(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountPurchaseOrderReferences(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count references")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "line item is referenced by purchase orders").
			WithDetails(map[string]any{"purchase_orders": count})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete line item")
	}
	return nil
}

func (s *service) findItem(ctx context.Context, id uuid.UUID) (*models.LineItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item id is required")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup line item")
	}
	return item, nil
}

func parseFields(quantity, rate, description string) (decimal.Decimal, decimal.Decimal, string, error) {
	desc := strings.TrimSpace(description)
	if desc == "" {
		return decimal.Zero, decimal.Zero, "", pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}

	qty, err := decimal.NewFromString(strings.TrimSpace(quantity))
	if err != nil {
		return decimal.Zero, decimal.Zero, "", pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a decimal number")
	}
	if qty.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Zero, "", pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	unit, err := decimal.NewFromString(strings.TrimSpace(rate))
	if err != nil {
		return decimal.Zero, decimal.Zero, "", pkgerrors.New(pkgerrors.CodeValidation, "rate must be a decimal number")
	}
	if unit.IsNegative() {
		return decimal.Zero, decimal.Zero, "", pkgerrors.New(pkgerrors.CodeValidation, "rate cannot be negative")
	}

	return qty, unit, desc, nil
}
