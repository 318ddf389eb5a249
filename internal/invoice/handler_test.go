package invoice_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mirror-api/internal/common"
	"github.com/noah-isme/mirror-api/internal/invoice"
	"github.com/noah-isme/mirror-api/internal/orders"
)

type stubRenderer struct {
	err     error
	invoice invoice.InvoiceDocument
	sheet   invoice.SizeSheetDocument
}

func (r *stubRenderer) InvoicePDF(_ context.Context, doc invoice.InvoiceDocument) ([]byte, error) {
	r.invoice = doc
	return []byte("%PDF-invoice"), r.err
}

func (r *stubRenderer) SizeSheetPDF(_ context.Context, doc invoice.SizeSheetDocument) ([]byte, error) {
	r.sheet = doc
	return []byte("%PDF-sheet"), r.err
}

func (r *stubRenderer) SizeSheetXLSX(_ context.Context, doc invoice.SizeSheetDocument) ([]byte, error) {
	r.sheet = doc
	return []byte("PK-sheet"), r.err
}

func newRouter(h *invoice.Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/latest-invoice-number", h.LatestInvoiceNumber)
	r.Get("/invoice/{orderId}", h.Invoice)
	r.Get("/size-sheet/{orderId}", h.SizeSheet)
	return r
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) common.Envelope {
	t.Helper()
	var env common.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestHandlerInvoicePDF(t *testing.T) {
	src := &stubSource{order: newOrder(t)}
	rend := &stubRenderer{}
	h := &invoice.Handler{Svc: invoice.NewService(src, nil), Renderer: rend}

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoice/42", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, invoice.ContentTypePDF, rec.Header().Get("Content-Type"))
	require.Equal(t, `attachment; filename="invoice_42.pdf"`, rec.Header().Get("Content-Disposition"))
	require.Equal(t, "%PDF-invoice", rec.Body.String())
	require.Equal(t, "PI-0042", rend.invoice.ProformaNo)
}

func TestHandlerSizeSheetFormats(t *testing.T) {
	src := &stubSource{order: newOrder(t)}
	h := &invoice.Handler{Svc: invoice.NewService(src, nil), Renderer: &stubRenderer{}}
	router := newRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/size-sheet/42?format=xlsx", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, invoice.ContentTypeXLSX, rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "size_sheet_42.xlsx")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/size-sheet/42", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Disposition"), "size_sheet_42.pdf")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/size-sheet/42?format=docx", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerErrorEnvelopes(t *testing.T) {
	cases := []struct {
		name   string
		src    *stubSource
		rend   *stubRenderer
		path   string
		status int
		msg    string
	}{
		{"invalid id", &stubSource{}, &stubRenderer{}, "/invoice/not-an-id", http.StatusBadRequest, "Invalid order id"},
		{"missing order", &stubSource{orderErr: orders.ErrOrderNotFound}, &stubRenderer{}, "/invoice/9", http.StatusNotFound, "Order not found"},
		{"missing company", &stubSource{companyErr: orders.ErrCompanyNotFound}, &stubRenderer{}, "/size-sheet/9", http.StatusNotFound, "Company details not found"},
		{"render failure", &stubSource{order: newOrder(t)}, &stubRenderer{err: errors.New("chrome crashed")}, "/invoice/42", http.StatusInternalServerError, "chrome crashed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &invoice.Handler{Svc: invoice.NewService(tc.src, nil), Renderer: tc.rend}
			rec := httptest.NewRecorder()
			newRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			require.Equal(t, tc.status, rec.Code)
			env := decode(t, rec)
			require.False(t, env.Success)
			require.True(t, env.Error)
			require.Equal(t, tc.status, env.Status)
			require.Equal(t, tc.msg, env.Messages)
		})
	}
}

func TestHandlerLatestInvoiceNumber(t *testing.T) {
	src := &stubSource{number: "17"}
	h := &invoice.Handler{Svc: invoice.NewService(src, nil)}

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/latest-invoice-number", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	require.True(t, env.Success)
	require.Equal(t, "Financial year fetched successfully", env.Messages)
	require.Equal(t, map[string]any{"invoice_number": "17"}, env.Result)
	require.NotEmpty(t, src.gotFY)
}

func TestHandlerNotConfigured(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&invoice.Handler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoice/1", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
