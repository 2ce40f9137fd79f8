package pdf

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/chem-is-try/po-generator/pkg/enums"
)

// Document carries everything the assembler needs to lay out one PDF.
type Document struct {
	Kind   enums.DocumentKind
	Number string
	Date   time.Time

	Vendor VendorBlock
	Items  []Line

	PaymentDays         int
	ShowPaymentTerms    bool
	ShowDeliveredPrices bool
	Notes               string

	Stamp     enums.ApprovalStamp
	Signature []byte
	SignedBy  string

	// Logo overrides the configured artwork for this document only. Used by
	// ad-hoc generation where the caller uploads their own letterhead.
	Logo *Image
}

// VendorBlock is the addressee rendered under the header. Blank fields are
// printed as placeholder dashes, never dropped, so the block keeps its shape.
type VendorBlock struct {
	Name    string
	Address string
	City    string
	State   string
	Zip     string
	Country string
}

// Line is one table row: quantity x rate of a description.
type Line struct {
	Quantity    decimal.Decimal
	Description string
	Rate        decimal.Decimal
}

// UnroundedAmount is quantity*rate without display rounding.
func (l Line) UnroundedAmount() decimal.Decimal {
	return l.Quantity.Mul(l.Rate)
}

// Amount is the row value rounded for display.
func (l Line) Amount() decimal.Decimal {
	return l.UnroundedAmount().Round(2)
}

// Total sums the unrounded row products and rounds once, so a half-cent row
// cannot skew the grand total.
func (d Document) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range d.Items {
		total = total.Add(line.UnroundedAmount())
	}
	return total.Round(2)
}
