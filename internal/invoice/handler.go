package invoice

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mirror-api/internal/common"
)

// Content types of rendered documents.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Handler exposes the document endpoints.
type Handler struct {
	Svc      *Service
	Renderer Renderer
}

// LatestInvoiceNumber returns the next invoice number of the current financial year.
func (h *Handler) LatestInvoiceNumber(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INVOICE_NOT_CONFIGURED", "invoice service not configured", nil)
		return
	}
	number, err := h.Svc.InvoiceNumber(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("next invoice number")
		common.WriteError(w, err)
		return
	}
	common.Success(w, http.StatusOK, "Financial year fetched successfully", map[string]string{"invoice_number": number})
}

// Invoice renders the proforma invoice of an order as a PDF attachment.
func (h *Handler) Invoice(w http.ResponseWriter, r *http.Request) {
	if !h.configured(w) {
		return
	}
	orderID := strings.TrimSpace(chi.URLParam(r, "orderId"))
	doc, err := h.Svc.Invoice(r.Context(), orderID)
	if err != nil {
		h.fail(w, r, orderID, err)
		return
	}
	body, err := h.Renderer.InvoicePDF(r.Context(), doc)
	if err != nil {
		h.fail(w, r, orderID, err)
		return
	}
	writeAttachment(w, ContentTypePDF, fmt.Sprintf("invoice_%s.pdf", orderID), body)
}

// SizeSheet renders the size sheet of an order as PDF (default) or XLSX.
func (h *Handler) SizeSheet(w http.ResponseWriter, r *http.Request) {
	if !h.configured(w) {
		return
	}
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "pdf"
	}
	if format != "pdf" && format != "xlsx" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "format must be pdf or xlsx", nil)
		return
	}
	orderID := strings.TrimSpace(chi.URLParam(r, "orderId"))
	doc, err := h.Svc.SizeSheet(r.Context(), orderID)
	if err != nil {
		h.fail(w, r, orderID, err)
		return
	}
	var (
		body        []byte
		contentType = ContentTypePDF
	)
	if format == "xlsx" {
		contentType = ContentTypeXLSX
		body, err = h.Renderer.SizeSheetXLSX(r.Context(), doc)
	} else {
		body, err = h.Renderer.SizeSheetPDF(r.Context(), doc)
	}
	if err != nil {
		h.fail(w, r, orderID, err)
		return
	}
	writeAttachment(w, contentType, fmt.Sprintf("size_sheet_%s.%s", orderID, format), body)
}

func (h *Handler) configured(w http.ResponseWriter) bool {
	if h.Svc == nil || h.Renderer == nil {
		common.JSONError(w, http.StatusInternalServerError, "INVOICE_NOT_CONFIGURED", "invoice service not configured", nil)
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, orderID string, err error) {
	if !common.IsAppError(err) {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("order_id", orderID).Msg("document request failed")
	}
	common.WriteError(w, err)
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
