// Package document renders invoice and size sheet documents to PDF and XLSX.
package document

import (
	"fmt"
	"time"

	"github.com/noah-isme/mirror-api/internal/invoice"
	"github.com/noah-isme/mirror-api/internal/obs"
)

// Document kinds and formats used as metric labels.
const (
	KindInvoice   = "invoice"
	KindSizeSheet = "size_sheet"
	FormatPDF     = "pdf"
	FormatXLSX    = "xlsx"
)

// Options configures NewRenderer.
type Options struct {
	Engine     string
	ChromePath string
	Timeout    time.Duration
	Logos      *LogoFetcher
}

// NewRenderer returns the renderer for engine ("maroto" or "chromium").
func NewRenderer(opts Options) (invoice.Renderer, error) {
	switch opts.Engine {
	case "", "maroto":
		return &Maroto{Logos: opts.Logos}, nil
	case "chromium":
		return &Chromium{ChromePath: opts.ChromePath, Timeout: opts.Timeout, Logos: opts.Logos}, nil
	default:
		return nil, fmt.Errorf("unknown render engine %q", opts.Engine)
	}
}

func observe(kind, format string, start time.Time, err error) {
	obs.ObserveRender(kind, format, err, time.Since(start))
}
