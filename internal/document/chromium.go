package document

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/noah-isme/mirror-api/internal/invoice"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// A4 in inches.
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// DefaultRenderTimeout bounds one headless browser render.
const DefaultRenderTimeout = 30 * time.Second

// Chromium renders HTML templates and prints them with headless Chrome.
type Chromium struct {
	ChromePath string
	Timeout    time.Duration
	Logos      *LogoFetcher
}

type invoiceView struct {
	invoice.InvoiceDocument
	Logo template.URL
}

type sizeSheetView struct {
	invoice.SizeSheetDocument
	Logo template.URL
}

// InvoicePDF renders a proforma invoice.
func (r *Chromium) InvoicePDF(ctx context.Context, doc invoice.InvoiceDocument) (out []byte, err error) {
	start := time.Now()
	defer func() { observe(KindInvoice, FormatPDF, start, err) }()

	html, err := renderHTML("invoice.html", invoiceView{InvoiceDocument: doc, Logo: dataURI(fetchLogo(ctx, r.Logos, doc.Company.LogoURL))})
	if err != nil {
		return nil, err
	}
	return r.print(ctx, html)
}

// SizeSheetPDF renders a size sheet.
func (r *Chromium) SizeSheetPDF(ctx context.Context, doc invoice.SizeSheetDocument) (out []byte, err error) {
	start := time.Now()
	defer func() { observe(KindSizeSheet, FormatPDF, start, err) }()

	html, err := renderHTML("size_sheet.html", sizeSheetView{SizeSheetDocument: doc, Logo: dataURI(fetchLogo(ctx, r.Logos, doc.Company.LogoURL))})
	if err != nil {
		return nil, err
	}
	return r.print(ctx, html)
}

// SizeSheetXLSX renders a size sheet workbook.
func (r *Chromium) SizeSheetXLSX(ctx context.Context, doc invoice.SizeSheetDocument) ([]byte, error) {
	return SizeSheetXLSX(ctx, doc)
}

func (r *Chromium) print(ctx context.Context, html string) ([]byte, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultRenderTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox)
	if r.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.ChromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithMarginTop(0.4).
				WithMarginBottom(0.4).
				WithMarginLeft(0.4).
				WithMarginRight(0.4).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	return pdf, nil
}

func renderHTML(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func dataURI(png []byte) template.URL {
	if len(png) == 0 {
		return ""
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}
