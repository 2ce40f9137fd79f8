package vendors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chem-is-try/po-generator/pkg/db/models"
	pkgerrors "github.com/chem-is-try/po-generator/pkg/errors"
	pkgpagination "github.com/chem-is-try/po-generator/pkg/pagination"
)

type vendorsRepository interface {
	Create(ctx context.Context, vendor *models.Vendor) (*models.Vendor, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	List(ctx context.Context, opts listQuery) ([]models.Vendor, error)
	Update(ctx context.Context, vendor *models.Vendor) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountPurchaseOrders(ctx context.Context, vendorID uuid.UUID) (int64, error)
}

// Service exposes vendor CRUD semantics.
type Service interface {
	CreateVendor(ctx context.Context, req CreateVendorRequest) (*VendorResponse, error)
	GetVendor(ctx context.Context, id uuid.UUID) (*VendorResponse, error)
	ListVendors(ctx context.Context, params ListParams) (*ListResult, error)
	UpdateVendor(ctx context.Context, id uuid.UUID, req UpdateVendorRequest) (*VendorResponse, error)
	DeleteVendor(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo vendorsRepository
}

// NewService builds a vendor service over the provided repository.
func NewService(repo vendorsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateVendor(ctx context.Context, req CreateVendorRequest) (*VendorResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	vendor := &models.Vendor{
		Name:    strings.TrimSpace(req.Name),
		Address: strings.TrimSpace(req.Address),
		City:    strings.TrimSpace(req.City),
		State:   strings.TrimSpace(req.State),
		Zip:     strings.TrimSpace(req.Zip),
		Country: strings.TrimSpace(req.Country),
	}
	created, err := s.repo.Create(ctx, vendor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vendor")
	}
	resp := toResponse(*created)
	return &resp, nil
}

func (s *service) GetVendor(ctx context.Context, id uuid.UUID) (*VendorResponse, error) {
	vendor, err := s.findVendor(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(*vendor)
	return &resp, nil
}

func (s *service) ListVendors(ctx context.Context, params ListParams) (*ListResult, error) {
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{
			CreatedAt: rows[limit].CreatedAt,
			ID:        rows[limit].ID,
		})
		rows = rows[:limit]
	}

	items := make([]VendorResponse, len(rows))
	for i, row := range rows {
		items[i] = toResponse(row)
	}
	return &ListResult{Items: items, Cursor: nextCursor}, nil
}

func (s *service) UpdateVendor(ctx context.Context, id uuid.UUID, req UpdateVendorRequest) (*VendorResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	vendor, err := s.findVendor(ctx, id)
	if err != nil {
		return nil, err
	}

	vendor.Name = strings.TrimSpace(req.Name)
	vendor.Address = strings.TrimSpace(req.Address)
	vendor.City = strings.TrimSpace(req.City)
	vendor.State = strings.TrimSpace(req.State)
	vendor.Zip = strings.TrimSpace(req.Zip)
	vendor.Country = strings.TrimSpace(req.Country)

	if err := s.repo.Update(ctx, vendor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vendor")
	}
	resp := toResponse(*vendor)
	return &resp, nil
}

// DeleteVendor removes a vendor that no purchase order references. Committed
// orders keep their vendor rows, so deletion is blocked with a conflict.
func (s *service) DeleteVendor(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findVendor(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountPurchaseOrders(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count purchase orders")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "vendor is referenced by purchase orders").
			WithDetails(map[string]any{"purchase_orders": count})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete vendor")
	}
	return nil
}

func (s *service) findVendor(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	vendor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup vendor")
	}
	return vendor, nil
}
