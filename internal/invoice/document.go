package invoice

import (
	"context"

	"github.com/noah-isme/mirror-api/internal/pricing"
	"github.com/noah-isme/mirror-api/internal/sizing"
)

// NotAvailable is printed for optional fields that were never filled in.
const NotAvailable = "N/A"

// CompanyBlock is the seller header printed on every document.
type CompanyBlock struct {
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
	Address string `json:"address"`
	Mobile  string `json:"mobile"`
	Email   string `json:"email"`
	GSTNo   string `json:"gst_no"`
	PANNo   string `json:"pan_no"`
}

// BankBlock holds the payment details shown at the bottom of an invoice.
type BankBlock struct {
	AccountName string `json:"account_name"`
	BankName    string `json:"bank_name"`
	Branch      string `json:"branch"`
	AccountNo   string `json:"account_no"`
	IFSC        string `json:"ifsc"`
}

// Party is a bill-to or ship-to block.
type Party struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Mobile  string `json:"mobile"`
	GSTIN   string `json:"gstin,omitempty"`
}

// InvoiceItem is one printed invoice row. Numeric columns are already
// formatted for display.
type InvoiceItem struct {
	SerialNo  int    `json:"serial_no"`
	Name      string `json:"name"`
	Thickness string `json:"thickness"`
	Size      string `json:"size"`
	Unit      string `json:"unit"`
	Quantity  int    `json:"quantity"`
	Area      string `json:"area"`
	Weight    string `json:"weight"`
	Rate      string `json:"rate"`
	RateType  string `json:"rate_type"`
	Amount    string `json:"amount"`
}

// CostLine is a named additional cost.
type CostLine struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// Totals are the printed money totals of an invoice.
type Totals struct {
	Quantity            int        `json:"quantity"`
	Weight              string     `json:"weight"`
	Area                string     `json:"area"`
	BasicTotal          string     `json:"basic_total"`
	AdditionalCosts     []CostLine `json:"additional_costs"`
	TotalWithAdditional string     `json:"total_with_additional"`
	IsGST               bool       `json:"is_gst"`
	CGST                string     `json:"cgst"`
	SGST                string     `json:"sgst"`
	TotalGST            string     `json:"total_gst"`
	GrandTotal          string     `json:"grand_total"`
	GrandTotalINR       string     `json:"grand_total_inr"`
	AmountInWords       string     `json:"amount_in_words"`
}

// InvoiceDocument is everything a renderer needs to print a proforma invoice.
type InvoiceDocument struct {
	OrderID      string          `json:"order_id"`
	Company      CompanyBlock    `json:"company"`
	Bank         BankBlock       `json:"bank"`
	Terms        []string        `json:"terms"`
	ProformaNo   string          `json:"proforma_no"`
	SalesPerson  string          `json:"sales_person"`
	PIDate       string          `json:"pi_date"`
	DeliveryDate string          `json:"delivery_date"`
	Destination  string          `json:"destination"`
	Transport    string          `json:"transport"`
	Unloading    string          `json:"unloading"`
	BillTo       Party           `json:"bill_to"`
	ShipTo       Party           `json:"ship_to"`
	Items        []InvoiceItem   `json:"items"`
	Totals       Totals          `json:"totals"`
	Summary      pricing.Summary `json:"-"`
	Remarks      string          `json:"remarks"`
}

// SizeSheetRow is one row of a size sheet.
type SizeSheetRow struct {
	SerialNo  int    `json:"serial_no"`
	OrderRef  string `json:"order_ref"`
	Name      string `json:"name"`
	Thickness string `json:"thickness"`
	Size      string `json:"size"`
	Unit      string `json:"unit"`
	Quantity  int    `json:"quantity"`
	Area      string `json:"area"`
	Weight    string `json:"weight"`
}

// SizeSheetDocument lists the items of an order with their billable areas,
// sorted by order reference.
type SizeSheetDocument struct {
	OrderID    string           `json:"order_id"`
	Company    CompanyBlock     `json:"company"`
	Customer   string           `json:"customer"`
	ProformaNo string           `json:"proforma_no"`
	Date       string           `json:"date"`
	Rows       []SizeSheetRow   `json:"rows"`
	Totals     sizing.Aggregate `json:"totals"`
	Warnings   []sizing.Warning `json:"warnings,omitempty"`
}

// Renderer turns documents into files.
type Renderer interface {
	InvoicePDF(ctx context.Context, doc InvoiceDocument) ([]byte, error)
	SizeSheetPDF(ctx context.Context, doc SizeSheetDocument) ([]byte, error)
	SizeSheetXLSX(ctx context.Context, doc SizeSheetDocument) ([]byte, error)
}
