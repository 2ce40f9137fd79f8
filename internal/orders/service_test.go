package orders

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/chem-is-try/po-generator/internal/pdf"
	"github.com/chem-is-try/po-generator/pkg/db/models"
	"github.com/chem-is-try/po-generator/pkg/enums"
	pkgerrors "github.com/chem-is-try/po-generator/pkg/errors"
)

type stubOrdersRepo struct {
	orders map[uuid.UUID]*models.PurchaseOrder
	listed []models.PurchaseOrder
	counts map[string]int64
}

func newStubOrdersRepo() *stubOrdersRepo {
	return &stubOrdersRepo{
		orders: make(map[uuid.UUID]*models.PurchaseOrder),
		counts: make(map[string]int64),
	}
}

func (s *stubOrdersRepo) Create(ctx context.Context, po *models.PurchaseOrder) (*models.PurchaseOrder, error) {
	po.ID = uuid.New()
	po.CreatedAt = time.Now().UTC()
	po.UpdatedAt = po.CreatedAt
	s.orders[po.ID] = po
	return po, nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	po, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return po, nil
}

func (s *stubOrdersRepo) List(ctx context.Context, opts listQuery) ([]models.PurchaseOrder, error) {
	if opts.limit < len(s.listed) {
		return s.listed[:opts.limit], nil
	}
	return s.listed, nil
}

func (s *stubOrdersRepo) Update(ctx context.Context, po *models.PurchaseOrder, items []models.PurchaseOrderItem) error {
	po.Items = items
	s.orders[po.ID] = po
	return nil
}

func (s *stubOrdersRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.orders, id)
	return nil
}

func (s *stubOrdersRepo) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	return s.counts[date.Format(dateLayout)], nil
}

type stubVendorFinder struct {
	vendors map[uuid.UUID]*models.Vendor
}

func (s *stubVendorFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	vendor, ok := s.vendors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return vendor, nil
}

type stubItemsFinder struct {
	items map[uuid.UUID]models.LineItem
}

func (s *stubItemsFinder) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.LineItem, error) {
	var found []models.LineItem
	for _, id := range ids {
		if item, ok := s.items[id]; ok {
			found = append(found, item)
		}
	}
	return found, nil
}

type stubUserFinder struct {
	users map[uuid.UUID]*models.User
}

func (s *stubUserFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type stubSignatureRenderer struct {
	lastName string
}

func (s *stubSignatureRenderer) Render(name string) ([]byte, error) {
	s.lastName = name
	return []byte("signature:" + name), nil
}

type stubDocumentAssembler struct {
	lastDoc pdf.Document
}

func (s *stubDocumentAssembler) Assemble(ctx context.Context, doc pdf.Document) ([]byte, error) {
	s.lastDoc = doc
	return []byte("%PDF-1.3 stub"), nil
}

type orderFixture struct {
	svc       Service
	repo      *stubOrdersRepo
	vendors   *stubVendorFinder
	items     *stubItemsFinder
	users     *stubUserFinder
	signer    *stubSignatureRenderer
	assembler *stubDocumentAssembler

	userID   uuid.UUID
	vendorID uuid.UUID
	itemIDs  []uuid.UUID
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	f := &orderFixture{
		repo:      newStubOrdersRepo(),
		vendors:   &stubVendorFinder{vendors: make(map[uuid.UUID]*models.Vendor)},
		items:     &stubItemsFinder{items: make(map[uuid.UUID]models.LineItem)},
		users:     &stubUserFinder{users: make(map[uuid.UUID]*models.User)},
		signer:    &stubSignatureRenderer{},
		assembler: &stubDocumentAssembler{},
	}

	f.userID = uuid.New()
	f.users.users[f.userID] = &models.User{
		ID:        f.userID,
		Email:     "maria@chem-is-try.com",
		FirstName: "Maria",
		LastName:  "Santos",
		IsActive:  true,
	}

	f.vendorID = uuid.New()
	f.vendors.vendors[f.vendorID] = &models.Vendor{
		ID:      f.vendorID,
		Name:    "Acme Solvents",
		Address: "12 Industrial Way",
		City:    "Newark",
		State:   "NJ",
		Zip:     "07105",
		Country: "USA",
	}

	for _, item := range []models.LineItem{
		{ID: uuid.New(), Quantity: decimal.NewFromInt(2), Description: "Acetone, 55 gal drum", Rate: decimal.RequireFromString("10.005")},
		{ID: uuid.New(), Quantity: decimal.NewFromInt(1), Description: "Drum deposit", Rate: decimal.RequireFromString("5.00")},
	} {
		f.items.items[item.ID] = item
		f.itemIDs = append(f.itemIDs, item.ID)
	}

	svc, err := NewService(ServiceParams{
		Repo:      f.repo,
		Vendors:   f.vendors,
		Items:     f.items,
		Users:     f.users,
		Signature: f.signer,
		Assembler: f.assembler,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	return f
}

func (f *orderFixture) createRequest() CreatePurchaseOrderRequest {
	return CreatePurchaseOrderRequest{
		VendorID:      f.vendorID,
		Date:          "2024-03-05",
		LineItemIDs:   f.itemIDs,
		PaymentDays:   30,
		ShowTerms:     true,
		StampOriginal: true,
		StampCIT:      true,
	}
}

func TestCreatePurchaseOrderAssignsDatedNumber(t *testing.T) {
	f := newOrderFixture(t)
	f.repo.counts["2024-03-05"] = 2

	resp, err := f.svc.CreatePurchaseOrder(context.Background(), f.userID, f.createRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.PONumber != "CIT030524-3" {
		t.Fatalf("expected third same-day number, got %q", resp.PONumber)
	}
	if resp.ApprovalStamp != enums.ApprovalStampBoth {
		t.Fatalf("expected both stamps, got %q", resp.ApprovalStamp)
	}
	if !resp.HasSignature {
		t.Fatal("expected signature to be rendered at creation")
	}
	if f.signer.lastName != "Maria Santos" {
		t.Fatalf("expected signature for display name, got %q", f.signer.lastName)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}
	if resp.Items[0].Description != "Acetone, 55 gal drum" {
		t.Fatalf("expected request ordering preserved, got %q first", resp.Items[0].Description)
	}
	if got := resp.TotalAmount.StringFixed(2); got != "25.01" {
		t.Fatalf("expected single-rounding total 25.01, got %s", got)
	}
}

func TestCreatePurchaseOrderRejectsUnknownLineItem(t *testing.T) {
	f := newOrderFixture(t)

	req := f.createRequest()
	req.LineItemIDs = append(req.LineItemIDs, uuid.New())

	_, err := f.svc.CreatePurchaseOrder(context.Background(), f.userID, req)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreatePurchaseOrderRejectsUnknownVendor(t *testing.T) {
	f := newOrderFixture(t)

	req := f.createRequest()
	req.VendorID = uuid.New()

	_, err := f.svc.CreatePurchaseOrder(context.Background(), f.userID, req)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreatePurchaseOrderRejectsBadDate(t *testing.T) {
	f := newOrderFixture(t)

	req := f.createRequest()
	req.Date = "03/05/2024"

	_, err := f.svc.CreatePurchaseOrder(context.Background(), f.userID, req)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreatePurchaseOrderDefaultsPaymentDays(t *testing.T) {
	f := newOrderFixture(t)

	req := f.createRequest()
	req.PaymentDays = 0

	resp, err := f.svc.CreatePurchaseOrder(context.Background(), f.userID, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.PaymentDays != 30 {
		t.Fatalf("expected default 30 payment days, got %d", resp.PaymentDays)
	}
}

func TestUpdatePurchaseOrderKeepsNumber(t *testing.T) {
	f := newOrderFixture(t)

	created, err := f.svc.CreatePurchaseOrder(context.Background(), f.userID, f.createRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	req := UpdatePurchaseOrderRequest{
		VendorID:    f.vendorID,
		Date:        "2024-06-20",
		LineItemIDs: f.itemIDs[:1],
		PaymentDays: 45,
	}
	updated, err := f.svc.UpdatePurchaseOrder(context.Background(), f.userID, created.ID, req)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PONumber != created.PONumber {
		t.Fatalf("PO number must not change on edit: %q vs %q", updated.PONumber, created.PONumber)
	}
	if updated.Date != "2024-06-20" {
		t.Fatalf("expected updated date, got %q", updated.Date)
	}
	if len(updated.Items) != 1 {
		t.Fatalf("expected replaced item set, got %d items", len(updated.Items))
	}
	if updated.ApprovalStamp != enums.ApprovalStampNone {
		t.Fatalf("expected stamps cleared by full replacement, got %q", updated.ApprovalStamp)
	}
}

func TestGetPurchaseOrderEnforcesOwnership(t *testing.T) {
	f := newOrderFixture(t)

	created, err := f.svc.CreatePurchaseOrder(context.Background(), f.userID, f.createRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = f.svc.GetPurchaseOrder(context.Background(), uuid.New(), created.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestDeletePurchaseOrder(t *testing.T) {
	f := newOrderFixture(t)

	created, err := f.svc.CreatePurchaseOrder(context.Background(), f.userID, f.createRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.svc.DeletePurchaseOrder(context.Background(), f.userID, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err = f.svc.GetPurchaseOrder(context.Background(), f.userID, created.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestRenderPDFAssemblesStoredOrder(t *testing.T) {
	f := newOrderFixture(t)

	created, err := f.svc.CreatePurchaseOrder(context.Background(), f.userID, f.createRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rendered, err := f.svc.RenderPDF(context.Background(), f.userID, created.ID)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if rendered.PONumber != created.PONumber {
		t.Fatalf("expected %q, got %q", created.PONumber, rendered.PONumber)
	}
	if !bytes.HasPrefix(rendered.Data, []byte("%PDF")) {
		t.Fatal("expected assembled PDF bytes")
	}

	assembled := f.assembler.lastDoc
	if assembled.Vendor.Name != "Acme Solvents" {
		t.Fatalf("expected vendor block populated, got %q", assembled.Vendor.Name)
	}
	if assembled.SignedBy != "Maria Santos" {
		t.Fatalf("expected signer name on document, got %q", assembled.SignedBy)
	}
	if len(assembled.Items) != 2 {
		t.Fatalf("expected 2 document lines, got %d", len(assembled.Items))
	}
	if assembled.Stamp != enums.ApprovalStampBoth {
		t.Fatalf("expected stamp carried onto document, got %q", assembled.Stamp)
	}
}

func TestListPurchaseOrdersPaginates(t *testing.T) {
	f := newOrderFixture(t)

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		f.repo.listed = append(f.repo.listed, models.PurchaseOrder{
			ID:        uuid.New(),
			PONumber:  "CIT030524-1",
			UserID:    f.userID,
			VendorID:  f.vendorID,
			Date:      now,
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}

	result, err := f.svc.ListPurchaseOrders(context.Background(), ListParams{UserID: f.userID, Limit: 2})
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
