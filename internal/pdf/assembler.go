package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/chem-is-try/po-generator/pkg/enums"
	pkgerrors "github.com/chem-is-try/po-generator/pkg/errors"
)

const (
	pageMargin       = 40.0
	pageBottomMargin = 60.0

	mastheadText = "CHEM-IS-TRY, INC."
	logoWidth    = 200.0

	placeholder = "----"

	// Column widths as fractions of the usable width.
	colQty    = 0.10
	colDesc   = 0.60
	colRate   = 0.15
	colAmount = 0.15

	rowHeight    = 18.0
	headerHeight = 20.0

	signatureWidth  = 150.0
	signatureHeight = 60.0
)

// Stamp geometry. When both stamps are present each is drawn smaller and the
// second sits offset so neither fully covers the other.
const (
	dualStampW    = 100.0
	dualStampH    = 50.0
	dualOriginalX = 70.0
	dualOriginalY = 535.0
	dualCITX      = 150.0
	dualCITY      = 525.0
	singleStampW  = 120.0
	singleStampH  = 60.0
	singleStampX  = 70.0
	singleStampY  = 530.0
)

// Assembler lays out purchase order and invoice PDFs.
type Assembler struct {
	assets *Assets
}

// NewAssembler builds an assembler over the loaded artwork. Assets may be nil
// when no artwork directory is configured.
func NewAssembler(assets *Assets) *Assembler {
	if assets == nil {
		assets = &Assets{}
	}
	return &Assembler{assets: assets}
}

// Assemble renders the document to PDF bytes.
func (a *Assembler) Assemble(ctx context.Context, doc Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(doc.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document requires at least one line item")
	}
	if strings.TrimSpace(doc.Number) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document number is required")
	}

	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageBottomMargin)
	pdf.AddPage()

	a.drawHeader(pdf, doc)
	a.drawVendorBlock(pdf, doc.Vendor)
	a.drawItemsTable(pdf, doc)
	a.drawPaymentLines(pdf, doc)
	a.drawNotes(pdf, doc)
	a.drawSignatureBlock(pdf, doc)
	a.drawStamps(pdf, doc.Stamp)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render pdf")
	}
	return buf.Bytes(), nil
}

func (a *Assembler) drawHeader(pdf *gofpdf.Fpdf, doc Document) {
	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 2*pageMargin
	half := usable / 2

	top := pageMargin
	logo := a.assets.Logo
	if doc.Logo != nil {
		logo = doc.Logo
	}
	if logo != nil {
		opt := gofpdf.ImageOptions{ImageType: logo.Format}
		pdf.RegisterImageOptionsReader("company-logo", opt, bytes.NewReader(logo.Data))
		pdf.ImageOptions("company-logo", pageMargin, top, logoWidth, 0, false, opt, 0, "")
	} else {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.SetXY(pageMargin, top)
		pdf.CellFormat(half, 24, mastheadText, "", 0, "L", false, 0, "")
	}

	title := "PURCHASE ORDER"
	if doc.Kind == enums.DocumentKindInvoice {
		title = "INVOICE"
	}

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(pageMargin+half, top)
	pdf.CellFormat(half, 20, title, "", 2, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetX(pageMargin + half)
	pdf.CellFormat(half, 16, doc.Number, "", 2, "R", false, 0, "")
	pdf.SetX(pageMargin + half)
	pdf.CellFormat(half, 16, doc.Date.Format("01/02/2006"), "", 2, "R", false, 0, "")

	pdf.SetY(top + 90)
}

func (a *Assembler) drawVendorBlock(pdf *gofpdf.Fpdf, vendor VendorBlock) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 16, "Vendor:", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		orDash(vendor.Name),
		orDash(vendor.Address),
		fmt.Sprintf("%s, %s %s", orDash(vendor.City), orDash(vendor.State), orDash(vendor.Zip)),
		orDash(vendor.Country),
	}
	for _, line := range lines {
		pdf.CellFormat(0, 14, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(12)
}

func (a *Assembler) drawItemsTable(pdf *gofpdf.Fpdf, doc Document) {
	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 2*pageMargin

	rateHeader, amountHeader := "RATE", "AMOUNT"
	if doc.Kind == enums.DocumentKindInvoice {
		rateHeader, amountHeader = "UNIT PRICE", "TOTAL"
	}

	widths := []float64{usable * colQty, usable * colDesc, usable * colRate, usable * colAmount}
	headers := []string{"QTY", "DESCRIPTION", rateHeader, amountHeader}
	aligns := []string{"C", "L", "R", "R"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range headers {
		pdf.CellFormat(widths[i], headerHeight, header, "1", 0, aligns[i], true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range doc.Items {
		cells := []string{
			line.Quantity.String(),
			line.Description,
			"$" + line.Rate.StringFixed(2),
			"$" + line.Amount().StringFixed(2),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], rowHeight, cell, "1", 0, aligns[i], false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], rowHeight, "TOTAL", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], rowHeight, "$"+doc.Total().StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.Ln(10)
}

func (a *Assembler) drawPaymentLines(pdf *gofpdf.Fpdf, doc Document) {
	pdf.SetFont("Helvetica", "", 10)
	if doc.ShowPaymentTerms {
		pdf.CellFormat(0, 14, fmt.Sprintf("Payment : Net %d days", doc.PaymentDays), "", 1, "L", false, 0, "")
	}
	if doc.ShowDeliveredPrices {
		pdf.CellFormat(0, 14, "All prices are delivered prices", "", 1, "L", false, 0, "")
	}
	if doc.ShowPaymentTerms || doc.ShowDeliveredPrices {
		pdf.Ln(6)
	}
}

func (a *Assembler) drawNotes(pdf *gofpdf.Fpdf, doc Document) {
	notes := strings.TrimSpace(doc.Notes)
	if notes == "" {
		return
	}
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 14, notes, "", "L", false)
	pdf.Ln(6)
}

func (a *Assembler) drawSignatureBlock(pdf *gofpdf.Fpdf, doc Document) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 16, "Approved By:", "", 1, "L", false, 0, "")

	if len(doc.Signature) > 0 {
		opt := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("approval-signature", opt, bytes.NewReader(doc.Signature))
		pdf.ImageOptions("approval-signature", pageMargin, pdf.GetY(), signatureWidth, signatureHeight, false, opt, 0, "")
		pdf.SetY(pdf.GetY() + signatureHeight + 4)
	}

	if name := strings.TrimSpace(doc.SignedBy); name != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 14, name, "", 1, "L", false, 0, "")
	}
}

// drawStamps composites the approval stamps at fixed positions near the foot
// of the page. With both present each stamp shrinks and the second offsets so
// both stay visible.
func (a *Assembler) drawStamps(pdf *gofpdf.Fpdf, stamp enums.ApprovalStamp) {
	drawOriginal := stamp.IncludesOriginal() && a.assets.StampOriginal != nil
	drawCIT := stamp.IncludesCIT() && a.assets.StampCIT != nil

	switch {
	case drawOriginal && drawCIT:
		a.placeStamp(pdf, "stamp-original", a.assets.StampOriginal, dualOriginalX, dualOriginalY, dualStampW, dualStampH)
		a.placeStamp(pdf, "stamp-cit", a.assets.StampCIT, dualCITX, dualCITY, dualStampW, dualStampH)
	case drawOriginal:
		a.placeStamp(pdf, "stamp-original", a.assets.StampOriginal, singleStampX, singleStampY, singleStampW, singleStampH)
	case drawCIT:
		a.placeStamp(pdf, "stamp-cit", a.assets.StampCIT, singleStampX, singleStampY, singleStampW, singleStampH)
	}
}

func (a *Assembler) placeStamp(pdf *gofpdf.Fpdf, name string, img *Image, x, y, w, h float64) {
	opt := gofpdf.ImageOptions{ImageType: img.Format}
	pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(img.Data))
	pdf.ImageOptions(name, x, y, w, h, false, opt, 0, "")
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}
