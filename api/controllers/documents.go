package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/chem-is-try/po-generator/api/responses"
	"github.com/chem-is-try/po-generator/internal/documents"
	"github.com/chem-is-try/po-generator/pkg/config"
	pkgerrors "github.com/chem-is-try/po-generator/pkg/errors"
	"github.com/chem-is-try/po-generator/pkg/logger"
)

type documentDownloader interface {
	Open(ctx context.Context, filename string) ([]byte, error)
}

// DocumentGenerate renders a one-off document from a multipart form: scalar
// fields plus vendor/items JSON and optional logo/signature image uploads.
func DocumentGenerate(svc documents.Service, cfg config.DocumentsConfig, logg *logger.Logger) http.HandlerFunc {
	maxBytes := int64(cfg.MaxUploadMB) << 20
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "document service unavailable"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		req, err := generateRequestFromForm(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Generate(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func generateRequestFromForm(r *http.Request) (documents.GenerateRequest, error) {
	req := documents.GenerateRequest{
		Kind:          r.FormValue("kind"),
		Date:          r.FormValue("date"),
		Suffix:        r.FormValue("suffix"),
		InvoiceNumber: r.FormValue("invoice_number"),
		Notes:         r.FormValue("notes"),
		SignedBy:      r.FormValue("signed_by"),
		ShowTerms:     formBool(r, "show_terms"),
		ShowDelivered: formBool(r, "show_delivered"),
		StampOriginal: formBool(r, "stamp_original"),
		StampCIT:      formBool(r, "stamp_cit"),
	}

	if raw := strings.TrimSpace(r.FormValue("payment_days")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return req, pkgerrors.New(pkgerrors.CodeValidation, "payment_days must be a number")
		}
		req.PaymentDays = days
	}

	if raw := strings.TrimSpace(r.FormValue("vendor")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Vendor); err != nil {
			return req, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "vendor must be a JSON object")
		}
	}

	raw := strings.TrimSpace(r.FormValue("items"))
	if raw == "" {
		return req, pkgerrors.New(pkgerrors.CodeValidation, "items field is required")
	}
	if err := json.Unmarshal([]byte(raw), &req.Items); err != nil {
		return req, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "items must be a JSON array")
	}

	var err error
	if req.Logo, err = formFileBytes(r, "logo"); err != nil {
		return req, err
	}
	if req.Signature, err = formFileBytes(r, "signature"); err != nil {
		return req, err
	}
	return req, nil
}

func formBool(r *http.Request, field string) bool {
	switch strings.ToLower(strings.TrimSpace(r.FormValue(field))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func formFileBytes(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read "+field+" upload")
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read "+field+" upload")
	}
	return data, nil
}

// Download serves a stored document as an attachment. The first successful
// download schedules the file's eviction.
func Download(store documentDownloader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "document store unavailable"))
			return
		}

		filename := strings.TrimSpace(chi.URLParam(r, "filename"))
		data, err := store.Open(r.Context(), filename)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
		_, _ = bytes.NewReader(data).WriteTo(w)
	}
}
