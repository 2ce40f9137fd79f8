package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chem-is-try/po-generator/pkg/enums"
	pkgerrors "github.com/chem-is-try/po-generator/pkg/errors"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func testDocument() Document {
	return Document{
		Kind:   enums.DocumentKindPurchaseOrder,
		Number: "CIT030524-1",
		Date:   time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Vendor: VendorBlock{
			Name:    "Acme Solvents",
			Address: "12 Industrial Way",
			City:    "Newark",
			State:   "NJ",
			Zip:     "07105",
			Country: "USA",
		},
		Items: []Line{
			{Quantity: dec("2"), Description: "Acetone, 5 gal", Rate: dec("10.005")},
			{Quantity: dec("1"), Description: "Drum deposit", Rate: dec("5.00")},
		},
		PaymentDays:      30,
		ShowPaymentTerms: true,
	}
}

func TestAssembleProducesPDF(t *testing.T) {
	assembler := NewAssembler(nil)

	data, err := assembler.Assemble(context.Background(), testDocument())
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("expected PDF header, got %q", data[:8])
	}
}

func TestAssembleRequiresItems(t *testing.T) {
	assembler := NewAssembler(nil)

	doc := testDocument()
	doc.Items = nil
	_, err := assembler.Assemble(context.Background(), doc)
	if err == nil {
		t.Fatal("expected error for empty items")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAssembleRequiresNumber(t *testing.T) {
	assembler := NewAssembler(nil)

	doc := testDocument()
	doc.Number = "  "
	if _, err := assembler.Assemble(context.Background(), doc); err == nil {
		t.Fatal("expected error for blank number")
	}
}

func TestDocumentTotalRoundsOnce(t *testing.T) {
	doc := testDocument()

	// 2 x 10.005 = 20.01 unrounded, plus 5.00. Summing rounded row amounts
	// would give 25.02; rounding once gives 25.01.
	if got := doc.Total().StringFixed(2); got != "25.01" {
		t.Fatalf("expected total 25.01, got %s", got)
	}
	if got := doc.Items[0].Amount().StringFixed(2); got != "20.01" {
		t.Fatalf("expected row amount 20.01, got %s", got)
	}
}

func TestAssembleWithSignatureAndInvoiceKind(t *testing.T) {
	assembler := NewAssembler(nil)

	doc := testDocument()
	doc.Kind = enums.DocumentKindInvoice
	doc.Signature = onePixelPNG(t)
	doc.SignedBy = "Jane Reviewer"
	doc.Notes = "Deliver to loading dock B."
	doc.ShowDeliveredPrices = true

	data, err := assembler.Assemble(context.Background(), doc)
	if err != nil {
		t.Fatalf("assemble invoice: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty pdf")
	}
}

func TestAssembleWithStamps(t *testing.T) {
	png := onePixelPNG(t)
	assets := &Assets{
		StampOriginal: &Image{Data: png, Format: "PNG"},
		StampCIT:      &Image{Data: png, Format: "PNG"},
	}
	assembler := NewAssembler(assets)

	for _, stamp := range []enums.ApprovalStamp{
		enums.ApprovalStampOriginal,
		enums.ApprovalStampCIT,
		enums.ApprovalStampBoth,
	} {
		doc := testDocument()
		doc.Stamp = stamp
		if _, err := assembler.Assemble(context.Background(), doc); err != nil {
			t.Fatalf("assemble with stamp %s: %v", stamp, err)
		}
	}
}

func TestAssembleHonorsContextCancellation(t *testing.T) {
	assembler := NewAssembler(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := assembler.Assemble(ctx, testDocument()); err == nil {
		t.Fatal("expected context error")
	}
}

func TestFormatNumber(t *testing.T) {
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	if got := FormatNumber(date, ""); got != "CIT030524-1" {
		t.Fatalf("expected CIT030524-1, got %s", got)
	}
	if got := FormatNumber(date, "2"); got != "CIT030524-2" {
		t.Fatalf("expected CIT030524-2, got %s", got)
	}
	if got := FormatNumber(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), "7"); got != "CIT123125-7" {
		t.Fatalf("expected CIT123125-7, got %s", got)
	}
}
