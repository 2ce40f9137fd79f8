package vendors

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chem-is-try/po-generator/pkg/db/models"
	pkgerrors "github.com/chem-is-try/po-generator/pkg/errors"
)

type stubVendorRepo struct {
	vendors  map[uuid.UUID]*models.Vendor
	poCounts map[uuid.UUID]int64
	listed   []models.Vendor
}

func newStubVendorRepo() *stubVendorRepo {
	return &stubVendorRepo{
		vendors:  make(map[uuid.UUID]*models.Vendor),
		poCounts: make(map[uuid.UUID]int64),
	}
}

func (s *stubVendorRepo) Create(ctx context.Context, vendor *models.Vendor) (*models.Vendor, error) {
	vendor.ID = uuid.New()
	vendor.CreatedAt = time.Now().UTC()
	vendor.UpdatedAt = vendor.CreatedAt
	s.vendors[vendor.ID] = vendor
	return vendor, nil
}

func (s *stubVendorRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	vendor, ok := s.vendors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return vendor, nil
}

func (s *stubVendorRepo) List(ctx context.Context, opts listQuery) ([]models.Vendor, error) {
	if opts.limit < len(s.listed) {
		return s.listed[:opts.limit], nil
	}
	return s.listed, nil
}

func (s *stubVendorRepo) Update(ctx context.Context, vendor *models.Vendor) error {
	s.vendors[vendor.ID] = vendor
	return nil
}

func (s *stubVendorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.vendors, id)
	return nil
}

func (s *stubVendorRepo) CountPurchaseOrders(ctx context.Context, vendorID uuid.UUID) (int64, error) {
	return s.poCounts[vendorID], nil
}

func TestCreateVendorTrimsAndPersists(t *testing.T) {
	repo := newStubVendorRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	resp, err := svc.CreateVendor(context.Background(), CreateVendorRequest{
		Name:    "  Acme Solvents  ",
		Address: "12 Industrial Way",
		City:    "Newark",
		State:   "NJ",
		Zip:     "07105",
		Country: "USA",
	})
	if err != nil {
		t.Fatalf("create vendor: %v", err)
	}
	if resp.Name != "Acme Solvents" {
		t.Fatalf("expected trimmed name, got %q", resp.Name)
	}
	if resp.ID == uuid.Nil {
		t.Fatal("expected vendor id to be assigned")
	}
}

func TestCreateVendorRequiresName(t *testing.T) {
	svc, _ := NewService(newStubVendorRepo())

	_, err := svc.CreateVendor(context.Background(), CreateVendorRequest{Name: "   "})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetVendorNotFound(t *testing.T) {
	svc, _ := NewService(newStubVendorRepo())

	_, err := svc.GetVendor(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateVendorReplacesFields(t *testing.T) {
	repo := newStubVendorRepo()
	svc, _ := NewService(repo)

	created, err := svc.CreateVendor(context.Background(), CreateVendorRequest{Name: "Old Name", City: "Newark"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateVendor(context.Background(), created.ID, UpdateVendorRequest{Name: "New Name"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "New Name" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}
	if updated.City != "" {
		t.Fatalf("expected full replacement to clear city, got %q", updated.City)
	}
}

func TestDeleteVendorBlockedWhenReferenced(t *testing.T) {
	repo := newStubVendorRepo()
	svc, _ := NewService(repo)

	created, err := svc.CreateVendor(context.Background(), CreateVendorRequest{Name: "Referenced"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	repo.poCounts[created.ID] = 2

	err = svc.DeleteVendor(context.Background(), created.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, ok := repo.vendors[created.ID]; !ok {
		t.Fatal("vendor should not have been deleted")
	}
}

func TestDeleteVendorRemovesUnreferenced(t *testing.T) {
	repo := newStubVendorRepo()
	svc, _ := NewService(repo)

	created, err := svc.CreateVendor(context.Background(), CreateVendorRequest{Name: "Unreferenced"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteVendor(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := repo.vendors[created.ID]; ok {
		t.Fatal("expected vendor to be removed")
	}
}

func TestListVendorsPaginates(t *testing.T) {
	repo := newStubVendorRepo()
	svc, _ := NewService(repo)

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		repo.listed = append(repo.listed, models.Vendor{
			ID:        uuid.New(),
			Name:      "Vendor",
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}

	result, err := svc.ListVendors(context.Background(), ListParams{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Cursor == "" {
		t.Fatal("expected next cursor when more rows exist")
	}
}

func TestListVendorsRejectsBadCursor(t *testing.T) {
	svc, _ := NewService(newStubVendorRepo())

	_, err := svc.ListVendors(context.Background(), ListParams{Cursor: "!!not-base64!!"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
