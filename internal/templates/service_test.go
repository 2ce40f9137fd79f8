package templates

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/chem-is-try/po-generator/pkg/db/models"
	pkgerrors "github.com/chem-is-try/po-generator/pkg/errors"
)

type stubTemplatesRepo struct {
	savedVendors map[uuid.UUID]*models.SavedVendor
	savedItems   map[uuid.UUID]*models.SavedLineItem
}

func newStubTemplatesRepo() *stubTemplatesRepo {
	return &stubTemplatesRepo{
		savedVendors: make(map[uuid.UUID]*models.SavedVendor),
		savedItems:   make(map[uuid.UUID]*models.SavedLineItem),
	}
}

func (s *stubTemplatesRepo) CreateSavedVendor(ctx context.Context, row *models.SavedVendor) (*models.SavedVendor, error) {
	row.ID = uuid.New()
	row.CreatedAt = time.Now().UTC()
	s.savedVendors[row.ID] = row
	return row, nil
}

func (s *stubTemplatesRepo) FindSavedVendor(ctx context.Context, id uuid.UUID) (*models.SavedVendor, error) {
	row, ok := s.savedVendors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (s *stubTemplatesRepo) ListSavedVendors(ctx context.Context, userID uuid.UUID) ([]models.SavedVendor, error) {
	var rows []models.SavedVendor
	for _, row := range s.savedVendors {
		if row.UserID == userID {
			rows = append(rows, *row)
		}
	}
	return rows, nil
}

func (s *stubTemplatesRepo) DeleteSavedVendor(ctx context.Context, id uuid.UUID) error {
	delete(s.savedVendors, id)
	return nil
}

func (s *stubTemplatesRepo) CreateSavedLineItem(ctx context.Context, row *models.SavedLineItem) (*models.SavedLineItem, error) {
	row.ID = uuid.New()
	row.CreatedAt = time.Now().UTC()
	s.savedItems[row.ID] = row
	return row, nil
}

func (s *stubTemplatesRepo) FindSavedLineItem(ctx context.Context, id uuid.UUID) (*models.SavedLineItem, error) {
	row, ok := s.savedItems[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (s *stubTemplatesRepo) ListSavedLineItems(ctx context.Context, userID uuid.UUID) ([]models.SavedLineItem, error) {
	var rows []models.SavedLineItem
	for _, row := range s.savedItems {
		if row.UserID == userID {
			rows = append(rows, *row)
		}
	}
	return rows, nil
}

func (s *stubTemplatesRepo) DeleteSavedLineItem(ctx context.Context, id uuid.UUID) error {
	delete(s.savedItems, id)
	return nil
}

type stubVendorFinder struct {
	vendor *models.Vendor
}

func (s stubVendorFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	if s.vendor == nil || s.vendor.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.vendor, nil
}

type stubLineItemFinder struct {
	item *models.LineItem
}

func (s stubLineItemFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.LineItem, error) {
	if s.item == nil || s.item.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.item, nil
}

func buildTemplatesService(t *testing.T, vendor *models.Vendor, item *models.LineItem) (Service, *stubTemplatesRepo) {
	t.Helper()
	repo := newStubTemplatesRepo()
	svc, err := NewService(repo, stubVendorFinder{vendor: vendor}, stubLineItemFinder{item: item})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestSaveVendorSnapshotsVendor(t *testing.T) {
	vendor := &models.Vendor{ID: uuid.New(), Name: "Acme Solvents", City: "Newark"}
	svc, _ := buildTemplatesService(t, vendor, nil)
	userID := uuid.New()

	resp, err := svc.SaveVendor(context.Background(), userID, SaveVendorRequest{
		Name:     "Usual solvent supplier",
		VendorID: vendor.ID,
	})
	if err != nil {
		t.Fatalf("save vendor: %v", err)
	}
	if resp.Vendor == nil || resp.Vendor.Name != "Acme Solvents" {
		t.Fatalf("expected vendor snapshot, got %+v", resp.Vendor)
	}
}

func TestSaveVendorRejectsUnknownVendor(t *testing.T) {
	svc, _ := buildTemplatesService(t, nil, nil)

	_, err := svc.SaveVendor(context.Background(), uuid.New(), SaveVendorRequest{
		Name:     "Ghost",
		VendorID: uuid.New(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteSavedVendorEnforcesOwnership(t *testing.T) {
	vendor := &models.Vendor{ID: uuid.New(), Name: "Acme"}
	svc, repo := buildTemplatesService(t, vendor, nil)
	owner := uuid.New()

	created, err := svc.SaveVendor(context.Background(), owner, SaveVendorRequest{
		Name:     "Mine",
		VendorID: vendor.ID,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	err = svc.DeleteSavedVendor(context.Background(), uuid.New(), created.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	if err := svc.DeleteSavedVendor(context.Background(), owner, created.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if len(repo.savedVendors) != 0 {
		t.Fatal("expected saved vendor removed")
	}
}

func TestSaveLineItemSnapshotsItem(t *testing.T) {
	item := &models.LineItem{
		ID:          uuid.New(),
		Quantity:    decimal.NewFromInt(2),
		Description: "Acetone, 5 gal",
		Rate:        decimal.RequireFromString("10.005"),
	}
	svc, _ := buildTemplatesService(t, nil, item)
	userID := uuid.New()

	resp, err := svc.SaveLineItem(context.Background(), userID, SaveLineItemRequest{
		Name:       "Acetone reorder",
		LineItemID: item.ID,
	})
	if err != nil {
		t.Fatalf("save line item: %v", err)
	}
	if resp.LineItem == nil || resp.LineItem.Description != "Acetone, 5 gal" {
		t.Fatalf("expected line item snapshot, got %+v", resp.LineItem)
	}

	listed, err := svc.ListSavedLineItems(context.Background(), userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected one template, got %d", len(listed))
	}
}

func TestListSavedVendorsScopedToUser(t *testing.T) {
	vendor := &models.Vendor{ID: uuid.New(), Name: "Acme"}
	svc, _ := buildTemplatesService(t, vendor, nil)
	alice, bob := uuid.New(), uuid.New()

	if _, err := svc.SaveVendor(context.Background(), alice, SaveVendorRequest{Name: "A", VendorID: vendor.ID}); err != nil {
		t.Fatalf("save: %v", err)
	}

	listed, err := svc.ListSavedVendors(context.Background(), bob)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected no templates for other user, got %d", len(listed))
	}
}
