package enums

import "fmt"

// DocumentKind selects the layout variant produced by the assembler.
type DocumentKind string

const (
	DocumentKindPurchaseOrder DocumentKind = "po"
	DocumentKindInvoice       DocumentKind = "invoice"
)

var validDocumentKinds = []DocumentKind{
	DocumentKindPurchaseOrder,
	DocumentKindInvoice,
}

// String implements fmt.Stringer.
func (d DocumentKind) String() string {
	return string(d)
}

// IsValid reports whether the value is a known document kind.
func (d DocumentKind) IsValid() bool {
	for _, candidate := range validDocumentKinds {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDocumentKind converts raw input into DocumentKind, defaulting to the
// purchase-order layout when the field is absent.
func ParseDocumentKind(value string) (DocumentKind, error) {
	if value == "" {
		return DocumentKindPurchaseOrder, nil
	}
	for _, candidate := range validDocumentKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document kind %q", value)
}
