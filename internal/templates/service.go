package templates

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chem-is-try/po-generator/pkg/db/models"
	pkgerrors "github.com/chem-is-try/po-generator/pkg/errors"
)

type templatesRepository interface {
	CreateSavedVendor(ctx context.Context, row *models.SavedVendor) (*models.SavedVendor, error)
	FindSavedVendor(ctx context.Context, id uuid.UUID) (*models.SavedVendor, error)
	ListSavedVendors(ctx context.Context, userID uuid.UUID) ([]models.SavedVendor, error)
	DeleteSavedVendor(ctx context.Context, id uuid.UUID) error
	CreateSavedLineItem(ctx context.Context, row *models.SavedLineItem) (*models.SavedLineItem, error)
	FindSavedLineItem(ctx context.Context, id uuid.UUID) (*models.SavedLineItem, error)
	ListSavedLineItems(ctx context.Context, userID uuid.UUID) ([]models.SavedLineItem, error)
	DeleteSavedLineItem(ctx context.Context, id uuid.UUID) error
}

type vendorFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
}

type lineItemFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.LineItem, error)
}

// Service exposes the saved-template operations backing the PO form pickers.
type Service interface {
	SaveVendor(ctx context.Context, userID uuid.UUID, req SaveVendorRequest) (*SavedVendorResponse, error)
	ListSavedVendors(ctx context.Context, userID uuid.UUID) ([]SavedVendorResponse, error)
	DeleteSavedVendor(ctx context.Context, userID, id uuid.UUID) error
	SaveLineItem(ctx context.Context, userID uuid.UUID, req SaveLineItemRequest) (*SavedLineItemResponse, error)
	ListSavedLineItems(ctx context.Context, userID uuid.UUID) ([]SavedLineItemResponse, error)
	DeleteSavedLineItem(ctx context.Context, userID, id uuid.UUID) error
}

type service struct {
	repo    templatesRepository
	vendors vendorFinder
	items   lineItemFinder
}

// NewService builds a templates service over the repositories.
func NewService(repo templatesRepository, vendorRepo vendorFinder, itemRepo lineItemFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("templates repository required")
	}
	if vendorRepo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if itemRepo == nil {
		return nil, fmt.Errorf("line item repository required")
	}
	return &service{repo: repo, vendors: vendorRepo, items: itemRepo}, nil
}

func (s *service) SaveVendor(ctx context.Context, userID uuid.UUID, req SaveVendorRequest) (*SavedVendorResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if req.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor_id is required")
	}

	vendor, err := s.vendors.FindByID(ctx, req.VendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup vendor")
	}

	row := &models.SavedVendor{
		UserID:   userID,
		VendorID: vendor.ID,
		Name:     name,
	}
	created, err := s.repo.CreateSavedVendor(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save vendor template")
	}
	created.Vendor = vendor
	resp := toSavedVendorResponse(*created)
	return &resp, nil
}

func (s *service) ListSavedVendors(ctx context.Context, userID uuid.UUID) ([]SavedVendorResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	rows, err := s.repo.ListSavedVendors(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendor templates")
	}
	out := make([]SavedVendorResponse, len(rows))
	for i, row := range rows {
		out[i] = toSavedVendorResponse(row)
	}
	return out, nil
}

func (s *service) DeleteSavedVendor(ctx context.Context, userID, id uuid.UUID) error {
	row, err := s.repo.FindSavedVendor(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "saved vendor not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup saved vendor")
	}
	if row.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "saved vendor belongs to another user")
	}
	if err := s.repo.DeleteSavedVendor(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete saved vendor")
	}
	return nil
}

func (s *service) SaveLineItem(ctx context.Context, userID uuid.UUID, req SaveLineItemRequest) (*SavedLineItemResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if req.LineItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line_item_id is required")
	}

	item, err := s.items.FindByID(ctx, req.LineItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup line item")
	}

	row := &models.SavedLineItem{
		UserID:     userID,
		LineItemID: item.ID,
		Name:       name,
	}
	created, err := s.repo.CreateSavedLineItem(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save line item template")
	}
	created.LineItem = item
	resp := toSavedLineItemResponse(*created)
	return &resp, nil
}

func (s *service) ListSavedLineItems(ctx context.Context, userID uuid.UUID) ([]SavedLineItemResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	rows, err := s.repo.ListSavedLineItems(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list line item templates")
	}
	out := make([]SavedLineItemResponse, len(rows))
	for i, row := range rows {
		out[i] = toSavedLineItemResponse(row)
	}
	return out, nil
}

func (s *service) DeleteSavedLineItem(ctx context.Context, userID, id uuid.UUID) error {
	row, err := s.repo.FindSavedLineItem(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "saved line item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup saved line item")
	}
	if row.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "saved line item belongs to another user")
	}
	if err := s.repo.DeleteSavedLineItem(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete saved line item")
	}
	return nil
}
