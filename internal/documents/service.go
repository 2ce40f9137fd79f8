package documents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/shopspring/decimal"

	"github.com/chem-is-try/po-generator/internal/pdf"
	"github.com/chem-is-try/po-generator/pkg/enums"
	pkgerrors "github.com/chem-is-try/po-generator/pkg/errors"
	"github.com/chem-is-try/po-generator/pkg/metrics"
)

const dateLayout = "2006-01-02"

type documentAssembler interface {
	Assemble(ctx context.Context, doc pdf.Document) ([]byte, error)
}

type documentStore interface {
	Put(ctx context.Context, kind enums.DocumentKind, number string, data []byte) (string, error)
}

// Service renders one-off documents straight from form input, without
// touching the purchase order tables.
type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

type service struct {
	assembler documentAssembler
	store     documentStore
	metrics   *metrics.DocumentMetrics
}

// NewService constructs the ad-hoc document service.
func NewService(assembler documentAssembler, store documentStore, docMetrics *metrics.DocumentMetrics) (Service, error) {
	if assembler == nil {
		return nil, fmt.Errorf("document assembler required")
	}
	if store == nil {
		return nil, fmt.Errorf("document store required")
	}
	return &service{assembler: assembler, store: store, metrics: docMetrics}, nil
}

func (s *service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	kind, err := enums.ParseDocumentKind(strings.TrimSpace(req.Kind))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid document kind")
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD")
	}

	number, err := documentNumber(kind, date, req)
	if err != nil {
		return nil, err
	}

	lines, err := parseItems(req.Items)
	if err != nil {
		return nil, err
	}

	paymentDays := req.PaymentDays
	if paymentDays < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment_days cannot be negative")
	}
	if paymentDays == 0 {
		paymentDays = 30
	}

	doc := pdf.Document{
		Kind:   kind,
		Number: number,
		Date:   date,
		Vendor: pdf.VendorBlock{
			Name:    req.Vendor.Name,
			Address: req.Vendor.Address,
			City:    req.Vendor.City,
			State:   req.Vendor.State,
			Zip:     req.Vendor.Zip,
			Country: req.Vendor.Country,
		},
		Items:               lines,
		PaymentDays:         paymentDays,
		ShowPaymentTerms:    req.ShowTerms,
		ShowDeliveredPrices: req.ShowDelivered,
		Notes:               strings.TrimSpace(req.Notes),
		Stamp:               enums.StampFromFlags(req.StampOriginal, req.StampCIT),
		SignedBy:            strings.TrimSpace(req.SignedBy),
	}

	if len(req.Logo) > 0 {
		logo, err := pdf.ImageFromBytes(req.Logo)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "logo upload")
		}
		doc.Logo = logo
	}
	if len(req.Signature) > 0 {
		if !mimetype.Detect(req.Signature).Is("image/png") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "signature upload must be a PNG image")
		}
		doc.Signature = req.Signature
	}

	started := time.Now()
	data, err := s.assembler.Assemble(ctx, doc)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveRenderDuration(kind.String(), time.Since(started))

	filename, err := s.store.Put(ctx, kind, number, data)
	if err != nil {
		return nil, err
	}

	return &GenerateResponse{
		Success:     true,
		Filename:    filename,
		DownloadURL: "/download/" + filename,
		Number:      number,
	}, nil
}

// documentNumber derives the printed number. Purchase orders take the dated
// CIT number with the caller's suffix; invoices carry their number verbatim.
func documentNumber(kind enums.DocumentKind, date time.Time, req GenerateRequest) (string, error) {
	if kind == enums.DocumentKindInvoice {
		number := strings.TrimSpace(req.InvoiceNumber)
		if number == "" {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "invoice_number is required")
		}
		return number, nil
	}
	return pdf.FormatNumber(date, strings.TrimSpace(req.Suffix)), nil
}

func parseItems(items []ItemPayload) ([]pdf.Line, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line item is required")
	}

	lines := make([]pdf.Line, 0, len(items))
	for i, item := range items {
		description := strings.TrimSpace(item.Description)
		if description == "" {
			return nil, itemError(i, "description is required")
		}
		quantity, err := decimal.NewFromString(strings.TrimSpace(item.Quantity))
		if err != nil || !quantity.IsPositive() {
			return nil, itemError(i, "quantity must be a positive number")
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(item.Rate))
		if err != nil || rate.IsNegative() {
			return nil, itemError(i, "rate must be a non-negative number")
		}
		lines = append(lines, pdf.Line{
			Quantity:    quantity,
			Description: description,
			Rate:        rate,
		})
	}
	return lines, nil
}

func itemError(index int, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid line item").
		WithDetails(map[string]any{"index": index, "message": message})
}
